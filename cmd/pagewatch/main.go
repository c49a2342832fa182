// Command pagewatch performs one change-detection run against a monitored
// web page and posts the outcome to a chat webhook.
//
// Usage:
//
//	pagewatch -config pagewatch.yaml
//	pagewatch -url https://example.org/schedule -state pagewatch.db
//	pagewatch -url https://example.org/schedule -dry-run
//
// The webhook destination comes from the PAGEWATCH_WEBHOOK_URL environment
// variable (or webhook_url in the config file). Exit status is 0 when the
// run completes — even if the notification send failed — and 1 on fetch
// failure or missing configuration.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/pagewatch"
	"github.com/hazyhaar/pagewatch/internal/sink"
	"github.com/hazyhaar/pagewatch/internal/state"
)

func main() {
	configPath := flag.String("config", "", "path to pagewatch.yaml config file")
	pageURL := flag.String("url", "", "page URL to monitor (overrides config)")
	statePath := flag.String("state", "", "path to the state database (overrides config)")
	dryRun := flag.Bool("dry-run", false, "print the notification to stdout instead of posting it")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, *pageURL, *statePath, *dryRun); err != nil {
		logger.Error("pagewatch: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath, pageURL, statePath string, dryRun bool) error {
	cfg := &pagewatch.Config{}
	if configPath != "" {
		loaded, err := pagewatch.LoadFile(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if pageURL != "" {
		cfg.URL = pageURL
	}
	if statePath != "" {
		cfg.StatePath = statePath
	}
	if env := os.Getenv(pagewatch.WebhookEnv); env != "" {
		cfg.WebhookURL = env
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(!dryRun); err != nil {
		return err
	}

	store, err := state.OpenSQLite(cfg.StatePath)
	if err != nil {
		return err
	}
	defer store.Close()

	var snk sink.Sink
	if dryRun {
		snk = sink.NewStdout(nil)
	} else {
		snk = sink.NewWebhook(cfg.WebhookURL, sink.WithWebhookTimeout(cfg.NotifyTimeout.Std()))
	}

	w := pagewatch.New(cfg, store, snk, pagewatch.WithLogger(logger))
	return w.Check(ctx)
}
