package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"penny/internal/amqp"
	"penny/internal/backend"
	"penny/internal/cache"
	"penny/internal/cli"
	apphttp "penny/internal/http"
	"penny/internal/log"
	"penny/internal/middleware/ratelimit"
	"penny/internal/planning"
	"penny/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer res.Cleanup()

	opts := services.Options{Logger: logger}

	// Leave Publisher nil rather than holding a nil *amqp.Client.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without events", log.FieldError, err)
		} else {
			defer amqpClient.Close()
			opts.Publisher = amqpClient
			logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	cacheManager := cache.NewManager(logger)
	if cfg.ViewCacheSize > 0 {
		views := cache.NewLRUCache[planning.View](cfg.ViewCacheSize, cfg.ViewCacheTTL)
		cacheManager.Register(views)
		opts.ViewCache = views
	}

	svc := services.New(res.Store, opts)
	srv := apphttp.NewServer(":"+cfg.Port, svc, apphttp.Options{
		Logger: logger,
		RateLimit: ratelimit.Config{
			RequestsPerMinute: cfg.RateLimitPerMinute,
			Burst:             cfg.RateLimitBurst,
		},
	})

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting penny server",
			"port", cfg.Port,
			"backend", cfg.DataBackend,
			"events", amqpClient != nil,
			log.FieldOperation, log.OpStartup)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return cacheManager.Run(gctx, time.Minute)
	})
	g.Go(func() error {
		// Stop the server when a sibling fails before any signal arrives.
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	if ctx.Err() != nil {
		<-done
	}
	logger.Info("Server stopped gracefully")
}
