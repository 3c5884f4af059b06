package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cloud-ru/mcp-tvm-go/internal/logging"
	"github.com/cloud-ru/mcp-tvm-go/internal/server"
	"github.com/cloud-ru/mcp-tvm-go/internal/tools"
	"github.com/cloud-ru/mcp-tvm-go/internal/tracing"
)

const shutdownTimeout = 10 * time.Second

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Запускает HTTP сервер",
	Long: `Запускает HTTP сервер.

Маршруты:
  GET  /health        - проверка доступности
  GET  /metrics       - метрики Prometheus
  GET  /tools         - список инструментов
  POST /tools/{name}  - вызов инструмента, параметры в теле JSON`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Порт (по умолчанию PORT или 8000)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.InitTracing(ctx, cfg)
	if err != nil {
		printError("трейсинг не инициализирован", err)
		return err
	}

	registry := tools.NewRegistry(cfg, tracing.Tracer)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      server.NewRouter(cfg, registry),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logging.Log.WithField("addr", srv.Addr).Info("Сервер запущен")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logging.Log.Info("Остановка сервера")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return shutdownTracing(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		printError("сервер остановлен с ошибкой", err)
		return err
	}
	return nil
}
