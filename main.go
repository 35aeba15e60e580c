package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/redis/go-redis/v9"

	"lms/assets"
	"lms/cache"
	"lms/certificate"
	"lms/config"
	controllers "lms/controllers/course"
	"lms/database"
	"lms/logger"
	"lms/progression"
	courseRoutes "lms/routers/courseRoutes"
	"lms/store"
	"lms/utils"
)

func main() {
	cfg := config.LoadConfig()

	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.ConnectDb(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to database", "error", err)
	}
	st := store.New(db, log)

	ctx := context.Background()
	assetStore, err := newAssetStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize asset storage", "error", err)
	}

	issuer, err := newIssuer(cfg, assetStore, log)
	if err != nil {
		log.Fatal("Failed to initialize certificate issuer", "error", err)
	}

	opts := progression.Options{Issuer: issuer}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("Failed to connect to Redis", "error", err)
		}
		defer rdb.Close()
		opts.Cache = cache.NewProgressCache(rdb, cfg.ProgressCacheTTL)
	}

	engine := progression.New(st, log, opts)
	defer engine.Close()

	sweeper, err := utils.InitializeAttemptScheduler(engine, cfg.AttemptSweepSchedule, cfg.AttemptSweepGrace, log)
	if err != nil {
		log.Fatal("Failed to start attempt scheduler", "error", err)
	}
	defer sweeper.Stop()

	controllers.Init(controllers.Dependencies{
		Engine:      engine,
		Store:       st,
		Assets:      assetStore,
		TemplateKey: cfg.CertTemplateKey,
	})

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(fiberLogger.New(fiberLogger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	if cfg.AssetBackend == "local" {
		app.Static(cfg.AssetBaseURL, cfg.AssetDir)
	}

	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
		<-quit
		log.Info("Shutting down...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("Shutdown failed", "error", err)
		}
	}()

	log.Info("Server is running", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error("Server stopped", "error", err)
	}
}

func newAssetStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (assets.Store, error) {
	switch cfg.AssetBackend {
	case "gcs":
		return assets.NewGCSStore(ctx, cfg.GCSBucketName, cfg.CDNDomain, log)
	default:
		return assets.NewLocalStore(cfg.AssetDir, cfg.AssetBaseURL, log)
	}
}

// newIssuer prefers the remote renderer when configured, else draws images locally.
func newIssuer(cfg *config.Config, store assets.Store, log *logger.Logger) (*certificate.Issuer, error) {
	layout, err := certificate.ParseLayout(cfg.CertLayout)
	if err != nil {
		return nil, err
	}

	var renderer certificate.Renderer
	if cfg.CertRendererURL != "" {
		renderer = certificate.NewRemoteRenderer(cfg.CertRendererURL, cfg.CertRendererTimeout)
	} else {
		renderer, err = certificate.NewImageRenderer(store, cfg.CertFontPath, cfg.CertTemplateKey, layout, log)
		if err != nil {
			return nil, err
		}
	}
	return certificate.NewIssuer(renderer, store, cfg.CertTemplateKey, &layout, log), nil
}
