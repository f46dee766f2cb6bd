package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/coldblooded-heartbeats/storefront/internal/core"
	errx "github.com/coldblooded-heartbeats/storefront/internal/core/error"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
	logx "github.com/coldblooded-heartbeats/storefront/pkg/logger"
	pkgredis "github.com/coldblooded-heartbeats/storefront/pkg/redis"
	pkgsqlite "github.com/coldblooded-heartbeats/storefront/pkg/sqlite"
)

// AppConfig defines all configurable parameters of the storefront,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL"`

	// Infrastructure
	Redis  pkgredis.Config
	SQLite pkgsqlite.Config

	// Storefront
	Storage   model.StorageConfig
	Inventory model.InventoryConfig
	Checkout  model.CheckoutConfig
	Email     model.EmailConfig
	Quote     model.QuoteConfig
}

func loadConfig() (AppConfig, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		logx.Warn().Err(err).Msg("could not load .env file")
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("process environment config: %w", err)
	}
	return cfg, nil
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logx.Init(logx.LoggerOpts{
		Environment: core.ParseEnvironment(cfg.Environment),
		Level:       cfg.LogLevel,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, rt := newRootCmd(cfg, os.Stdout)
	if err := execute(ctx, root, rt); err != nil {
		logx.Debug().Err(err).Msg("command failed")
		fmt.Fprintln(os.Stderr, "Error:", userMessage(err))
		stop()
		os.Exit(1)
	}
}

// userMessage is the alert text for err: the shopper-facing message of an
// application error, otherwise the error itself.
func userMessage(err error) string {
	var appErr *errx.AppError
	if errors.As(err, &appErr) {
		return errx.MessageOf(err)
	}
	return err.Error()
}
