package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/cloud-ru/mcp-tvm-go/internal/tools"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Список доступных инструментов",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTools(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}

func runTools(out io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	registry := tools.NewRegistry(cfg, noop.NewTracerProvider().Tracer("mcp-tvm-cli"))
	for _, d := range registry.Definitions() {
		fmt.Fprintf(out, "%-28s %s\n", d.Name, d.Description)
		fmt.Fprintf(out, "%-28s параметры: %s\n", "", strings.Join(d.Parameters, ", "))
	}
	return nil
}
