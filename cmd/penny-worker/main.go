package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"penny/internal/amqp"
	"penny/internal/backend"
	"penny/internal/cli"
	"penny/internal/log"
	"penny/internal/services"
	gsheet "penny/internal/sheets/google"
	"penny/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	logger.Info("Starting penny-worker", log.FieldOperation, log.OpStartup)

	cfg := cli.LoadAndValidateConfig(logger)
	if !cfg.ExportEnabled() {
		logger.Error("Google Sheets export disabled - set GOOGLE_SPREADSHEET_ID to run the worker")
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	if backendCfg.Type == backend.MemoryBackend {
		logger.Warn("Memory backend selected - the worker only sees its own empty store")
	}
	res, err := backend.NewFactory(logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer res.Cleanup()

	sheetsClient, err := gsheet.NewClient(context.Background(), cfg.GoogleSpreadsheetID, gsheet.Credentials{
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
		OAuthClientJSON:    cfg.GoogleOAuthClientJSON,
		OAuthClientFile:    cfg.GoogleOAuthClientFile,
		OAuthTokenJSON:     cfg.GoogleOAuthTokenJSON,
		OAuthTokenFile:     cfg.GoogleOAuthTokenFile,
	}, logger)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	// The worker only reads plans, so it needs no publisher or cache.
	svc := services.New(res.Store, services.Options{Logger: logger})
	exporter := worker.NewExportWorker(svc.Plans, res.Store, sheetsClient, cfg.GoogleSheetPrefix, logger)

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()
	} else {
		logger.Info("AMQP disabled - exporting on schedule only")
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	// Catch up with changes made while the worker was down.
	if err := exporter.ExportYear(ctx, time.Now().Year()); err != nil {
		logger.Error("Startup export failed", log.FieldError, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	if amqpClient != nil {
		g.Go(func() error {
			err := amqpClient.Consume(gctx, exporter.HandleEvent)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}
	if cfg.ExportSchedule != "" {
		g.Go(func() error {
			return exporter.RunSchedule(gctx, cfg.ExportSchedule, time.Now)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	if ctx.Err() != nil {
		<-done
	}
	logger.Info("Worker stopped gracefully")
}
