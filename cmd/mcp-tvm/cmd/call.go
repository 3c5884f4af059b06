package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/cloud-ru/mcp-tvm-go/internal/tools"
)

var callParams string

var callCmd = &cobra.Command{
	Use:   "call <tool>",
	Short: "Вызывает инструмент и печатает результат в JSON",
	Long: `Вызывает инструмент без запуска сервера.

Параметры передаются объектом JSON во флаге --params
или через stdin, если флаг равен "-".

Примеры:
  mcp-tvm call tvm_future_value --params '{"rate": 0.1, "periods": 10, "present_value": -100}'
  echo '{"kind": "apr", "rate": 0.12, "compounding_periods": 12}' | mcp-tvm call convert_rate --params -`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCall(cmd.Context(), args[0], callParams, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(callCmd)
	callCmd.Flags().StringVar(&callParams, "params", "{}", "Параметры инструмента в JSON или - для чтения из stdin")
}

func runCall(ctx context.Context, name, rawParams string, stdin io.Reader, stdout io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var source io.Reader = strings.NewReader(rawParams)
	if rawParams == "-" {
		source = stdin
	}
	var params map[string]interface{}
	decoder := json.NewDecoder(source)
	decoder.UseNumber()
	if err := decoder.Decode(&params); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}

	registry := tools.NewRegistry(cfg, noop.NewTracerProvider().Tracer("mcp-tvm-cli"))
	result, err := registry.Call(ctx, name, params)
	if err != nil {
		printError(name, err)
		return err
	}

	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

