package main

// @title Bus ETA Service API
// @version 1.0.0
// @description Маршруты, остановки и время прибытия автобусов KMB с избранным, синхронизированным между экземплярами.
// @description
// @description При недоступности upstream списки маршрутов и остановок отдаются из встроенных данных, ETA - никогда.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/bus-eta-service/docs"
	"github.com/bus-eta-service/internal/bootstrap"
	"github.com/bus-eta-service/internal/config"
	httpDelivery "github.com/bus-eta-service/internal/delivery/http"
	"github.com/bus-eta-service/internal/delivery/http/handler"
	"github.com/bus-eta-service/internal/infrastructure/kmb"
	"github.com/bus-eta-service/internal/pkg/eta"
	"github.com/bus-eta-service/internal/pkg/identity"
	"github.com/bus-eta-service/internal/pkg/logger"
	"github.com/bus-eta-service/internal/usecase"
	"github.com/bus-eta-service/internal/worker"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Bus ETA Service")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("upstream", cfg.Upstream.BaseURL),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Storage
	infra, err := bootstrap.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open favorites storage", zap.Error(err))
	}
	defer infra.Close()

	// 4. Use cases
	normalizer := identity.NewNormalizer(log)
	gateway := usecase.NewTransitGateway(
		kmb.NewKMBClient(&cfg.Upstream, log),
		normalizer,
		eta.NewResolver(log, time.Now),
		cfg.Upstream.EnrichConcurrency,
		log,
	)
	store := infra.FavoriteStore(normalizer)

	// 5. Workers
	workerManager := worker.NewWorkerManager(worker.DefaultShutdownTimeout, log)
	if w := infra.SyncWorker(store); w != nil {
		workerManager.Register(w)
		if err := workerManager.Start(ctx); err != nil {
			log.Fatal("Failed to start workers", zap.Error(err))
		}
	} else {
		log.Info("Favorite sync disabled, changes stay local to this instance")
	}

	// 6. HTTP
	server := httpDelivery.NewServer(
		cfg,
		log,
		handler.NewRouteHandler(gateway, store, log),
		handler.NewStopHandler(gateway, log),
		handler.NewFavoriteHandler(store, log),
	)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 7. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
