// Package serverapp wires config, store, the two per-language cluster
// engines, the lifecycle scheduler, the ingest pipeline, and the Fiber HTTP
// surface into one running server (spec.md §2, §6). It is shared by
// cmd/server and the tgnews CLI's "server" subcommand.
package serverapp

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"newsthreads/internal/classify"
	"newsthreads/internal/cluster"
	"newsthreads/internal/config"
	"newsthreads/internal/embed"
	"newsthreads/internal/httpapi"
	"newsthreads/internal/ingest"
	"newsthreads/internal/lifecycle"
	"newsthreads/internal/models"
	"newsthreads/internal/rating"
	"newsthreads/internal/store"
	"newsthreads/pkg/logger"
)

// Run opens the store, starts the lifecycle scheduler, and serves HTTP
// until ctx is canceled, performing a graceful shutdown on the way out.
func Run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	log.Info("configuration loaded", "port", cfg.Port, "environment", cfg.Environment)

	st, err := store.Open(store.Config{Path: cfg.StorePath, CacheMB: cfg.StoreCacheMB})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ratings, err := rating.Load(cfg.RatingsPath)
	if err != nil {
		log.Warn("could not load ratings table, continuing without host weighting", "error", err, "path", cfg.RatingsPath)
		ratings = rating.Empty()
	}

	model := classify.NewTopicModel()
	embedder := embed.NewEmbedder()

	newEngine := func(lang models.Language) *cluster.Engine {
		return cluster.New(cluster.Config{
			Language:    lang,
			Store:       st,
			Model:       model,
			Embedder:    embedder,
			Ratings:     ratings,
			Logger:      log,
			DecayDiv:    cfg.DecayDiv,
			SmallCutoff: float32(cfg.ClusterSmallCut),
			LargeCutoff: float32(cfg.ClusterLargeCut),
			MaxBatch:    cfg.ClusterMaxBatch,
			MinDocs:     cfg.ClusterMinDocs,
		})
	}
	enEngine := newEngine(models.LanguageEn)
	ruEngine := newEngine(models.LanguageRu)

	scheduler := lifecycle.NewScheduler(lifecycle.Config{
		Store:                st,
		En:                   enEngine,
		Ru:                   ruEngine,
		Log:                  log,
		DecayDiv:             cfg.DecayDiv,
		StaleDecay:           cfg.StaleDecay,
		EvictLen:             cfg.EvictLenThreshold,
		RebuildIntervalSec:   cfg.RebuildIntervalSec,
		ReclusterIntervalSec: cfg.ReclusterIntervalSec,
		EvictIntervalSec:     cfg.EvictIntervalSec,
		FlushIntervalSec:     cfg.FlushIntervalSec,
		StatsIntervalSec:     cfg.StatsIntervalSec,
	})

	if err := scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start lifecycle scheduler: %w", err)
	}
	defer scheduler.Stop()

	pipeline := ingest.New(st, scheduler.Readiness(), enEngine, ruEngine, log)

	app := fiber.New(fiber.Config{
		AppName:       "newsthreads",
		ServerHeader:  "newsthreads",
		StrictRouting: true,
		CaseSensitive: true,
		ReadTimeout:   30 * time.Second,
		WriteTimeout:  30 * time.Second,
		IdleTimeout:   60 * time.Second,
		BodyLimit:     int(cfg.MaxUploadBytes) + 4096, // leave headroom over the app-level check
		ErrorHandler:  httpapi.NewErrorHandler(log),
	})

	app.Use(helmet.New(helmet.Config{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))
	app.Use(cors.New(cors.Config{
		AllowMethods: "GET,PUT,DELETE",
	}))
	app.Use(fiberLogger.New(fiberLogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: cfg.IsDevelopment(),
	}))

	httpapi.Register(app, httpapi.Deps{
		Pipeline:       pipeline,
		Readiness:      scheduler.Readiness(),
		Scheduler:      scheduler,
		EngineEn:       enEngine,
		EngineRu:       ruEngine,
		Store:          st,
		MaxUploadBytes: cfg.MaxUploadBytes,
		DebugStatsUser: cfg.DebugStatsUser,
		DebugStatsPass: cfg.DebugStatsPass,
		Log:            log,
	})

	go func() {
		<-ctx.Done()
		log.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("server forced to shutdown", "error", err)
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Info("newsthreads server starting", "address", addr)
	if err := app.Listen(addr); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}
