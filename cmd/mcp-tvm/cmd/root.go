package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cloud-ru/mcp-tvm-go/internal/config"
	"github.com/cloud-ru/mcp-tvm-go/internal/logging"
	"github.com/cloud-ru/mcp-tvm-go/internal/validators"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "mcp-tvm",
	Short: "Калькулятор временной стоимости денег",
	Long: `mcp-tvm решает уравнение временной стоимости денег
fv = -pv * (1 + r)^n относительно любой из четырех величин.

Команды:
  serve  - HTTP сервер с инструментами, метриками и трейсингом
  call   - однократный вызов инструмента с выводом JSON
  tools  - список доступных инструментов`,
	SilenceUsage: true,
}

// Execute запускает корневую команду
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Уровень логирования (по умолчанию LOG_LEVEL)")
}

// loadConfig читает конфигурацию и применяет ее к логгеру и проверкам
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	logging.Init(cfg.LogLevel)
	validators.ConfigureRateWarning(cfg)
	return cfg, nil
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Ошибка: %s: %v\n", msg, err)
}
