package main

import (
	"context"
	"log"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/weather-query/internal/api/http"
	"github.com/i474232898/weather-query/internal/config"
	"github.com/i474232898/weather-query/internal/logging"
	"github.com/i474232898/weather-query/internal/metrics"
	"github.com/i474232898/weather-query/internal/scheduler"
	"github.com/i474232898/weather-query/internal/store"
	"github.com/i474232898/weather-query/internal/watcher"
	"github.com/i474232898/weather-query/internal/weather"
	"github.com/i474232898/weather-query/internal/weather/sources"
)

const appName = "weather-query"

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logg := logging.New(cfg, appName)
	slog.SetDefault(logg)

	source, err := sources.FromConfig(cfg, logg)
	if err != nil {
		log.Fatalf("failed to configure dataset source: %v", err)
	}

	// Snapshot store; queries read it without locking.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory)
	m := metrics.New("weather_query")

	service := weather.NewService(memStore, source, m, logg)

	// The service is useless without data, so the first load is fatal.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 60*time.Second)
	err = service.Reload(loadCtx)
	cancelLoad()
	if err != nil {
		log.Fatalf("failed to load dataset: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Periodic reload.
	sched := scheduler.New(cfg.ReloadInterval, service, logg)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Reload on file change.
	if cfg.DatasetWatch && cfg.DatasetPath != "" {
		fw, err := watcher.New(cfg.DatasetPath, watcher.DefaultDebounce, logg)
		if err != nil {
			log.Fatalf("failed to watch dataset: %v", err)
		}
		go func() {
			err := fw.Run(ctx, func() {
				reloadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
				defer cancel()
				if err := service.Reload(reloadCtx); err != nil {
					logg.Error("dataset reload after file change failed", "error", err)
				}
			})
			if err != nil {
				logg.Error("file watcher stopped", "error", err)
			}
		}()
	}

	app := fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": appName,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	// API routes.
	httpapi.RegisterRoutes(app, service)

	go func() {
		logg.Info("http listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logg.Error("fiber server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logg.Error("error during shutdown", "error", err)
	}
	logg.Info("server stopped")
}
