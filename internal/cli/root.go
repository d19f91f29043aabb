package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/vietddude/occload/internal/control"
	"github.com/vietddude/occload/internal/core/config"
)

var (
	cfgPath string
	isDebug bool
)

var rootCmd = &cobra.Command{
	Use:   "occload",
	Short: "OCC-aware batch insert load generator",
	Long: `occload generates concurrent batch-insert load against a Postgres-compatible
store and retries transient optimistic concurrency conflicts with exponential
backoff and jitter. Work that exhausts its retry budget is dead-lettered.`,
	Run: runLoad,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "config file (default is config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
}

// loadConfig loads the config file and initializes logging from it.
func loadConfig() *config.AppConfig {
	_ = godotenv.Load()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		initLogger(config.LoggingConfig{})
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logCfg := cfg.Logging
	if isDebug {
		logCfg.Level = "debug"
	}
	initLogger(logCfg)
	return cfg
}

func initLogger(cfg config.LoggingConfig) {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.RFC3339,
		})
	}
	slog.SetDefault(slog.New(handler))
}

func runLoad(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	app, err := control.NewLoader(cfg)
	if err != nil {
		slog.Error("Failed to initialize loader", "error", err)
		os.Exit(1)
	}

	// SIGINT/SIGTERM cancel the run; sleeping workers wake early and mark
	// their in-flight tasks cancelled.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sum, err := app.Run(ctx)
	if err != nil {
		slog.Error("Load test failed", "error", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Stop(shutdownCtx); err != nil {
		slog.Error("Error during shutdown", "error", err)
	}

	os.Exit(control.ExitCode(sum))
}
