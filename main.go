package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/storage"
	"github.com/tamannaBithy/nutrition-coaching-server-sub001/assets"
	database "github.com/tamannaBithy/nutrition-coaching-server-sub001/config"
	controllers "github.com/tamannaBithy/nutrition-coaching-server-sub001/controllers"
	"github.com/tamannaBithy/nutrition-coaching-server-sub001/logger"
	"github.com/tamannaBithy/nutrition-coaching-server-sub001/repository"
	routes "github.com/tamannaBithy/nutrition-coaching-server-sub001/routes"
	"github.com/tamannaBithy/nutrition-coaching-server-sub001/services"
)

func main() {
	// Load environment variables
	cfg, err := database.Load()
	if err != nil {
		log.Fatal(err)
	}

	appLog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatal(err)
	}
	defer appLog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := database.DBinstance(ctx, cfg.MongoURI)
	if err != nil {
		appLog.Fatal("mongo unavailable", "error", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			appLog.Warn("mongo disconnect failed", "error", err)
		}
	}()
	appLog.Info("connected to MongoDB", "db", cfg.DBName)

	packages := repository.NewPackageRepository(database.OpenCollection(client, cfg.DBName, database.PackageCollection))
	items := repository.NewItemRepository(database.OpenCollection(client, cfg.DBName, database.ItemCollection))

	backend, uploadsDir, err := assetBackend(ctx, cfg)
	if err != nil {
		appLog.Fatal("asset backend unavailable", "backend", cfg.AssetBackend, "error", err)
	}
	store := assets.NewStore(backend)

	controller := controllers.NewOfferedMealController(
		services.NewCompositionService(packages, items, store, appLog),
		services.NewCatalogService(packages, items, appLog),
	)
	router := routes.NewRouter(controller, routes.Options{
		SecretKey:  cfg.SecretKey,
		UploadsDir: uploadsDir,
		Logger:     appLog,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		appLog.Info("server running", "port", cfg.Port, "assets", cfg.AssetBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	appLog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("graceful shutdown failed", "error", err)
	}
}

// assetBackend picks where uploaded images live. Only the local backend is
// served by this process; bucket objects are served by Cloud Storage.
func assetBackend(ctx context.Context, cfg *database.Config) (assets.Backend, string, error) {
	if cfg.AssetBackend != "gcs" {
		if err := os.MkdirAll(cfg.UploadsDir, 0o755); err != nil {
			return nil, "", err
		}
		return assets.NewLocalBackend(cfg.UploadsDir), cfg.UploadsDir, nil
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, "", err
	}
	return assets.NewGCSBackend(client, cfg.GCSBucket, assets.PublicPrefix), "", nil
}
