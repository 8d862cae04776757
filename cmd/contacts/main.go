package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/VictoriaMetrics/metrics"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/contacts/internal/cli"
	"github.com/JonMunkholm/contacts/internal/config"
	"github.com/JonMunkholm/contacts/internal/exchange"
	"github.com/JonMunkholm/contacts/internal/logging"
	"github.com/JonMunkholm/contacts/internal/store"
	"github.com/JonMunkholm/contacts/internal/web"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.App{Out: stdout, Err: stderr}

	// Usage output needs neither configuration nor a database
	if !cli.NeedsStore(args) {
		return app.Run(ctx, args)
	}

	// Load .env file if it exists; real environment variables win
	envErr := godotenv.Load()

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return cli.ExitFailure
	}

	// Logs go to stderr so command output on stdout stays clean
	logger := logging.Setup(stderr, cfg.Logging.Level, cfg.Logging.Format)
	if envErr != nil {
		logger.Debug("no .env file found, using environment variables")
	}
	logger.Debug("configuration loaded", "config", cfg.String())

	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "driver", cfg.Store.Driver, "error", err)
		return cli.ExitFailure
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("closing store", "error", err)
		}
	}()

	set := metrics.NewSet()
	ex := exchange.NewService(st, exchange.NewFiles(cfg.Exchange.S3Region), set,
		exchange.WithImportWait(cfg.Exchange.ImportWait))

	app.Store = st
	app.Exchange = ex
	app.ExchangeTimeout = cfg.Exchange.Timeout
	app.Serve = web.NewServer(st, ex, set, cfg.Server).Run

	return app.Run(ctx, args)
}
