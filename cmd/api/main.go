package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/aquiferlab/aquifer-console/internal/api"
	"github.com/aquiferlab/aquifer-console/internal/core/service"
	"github.com/aquiferlab/aquifer-console/internal/infrastructure/config"
	mongodb "github.com/aquiferlab/aquifer-console/internal/infrastructure/db/mongo"
	redisdb "github.com/aquiferlab/aquifer-console/internal/infrastructure/db/redis"
	"github.com/aquiferlab/aquifer-console/internal/infrastructure/directory"
	"github.com/aquiferlab/aquifer-console/internal/infrastructure/queue"
	"github.com/aquiferlab/aquifer-console/pkg/logger"

	_ "github.com/aquiferlab/aquifer-console/docs"
)

const shutdownTimeout = 10 * time.Second

// @title           Aquifer Console API
// @version         1.0
// @description     REST backend for the aquifer-test management console.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Service: "aquifer-console",
		Pretty:  cfg.Env == "development",
	})

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	modelRepo := mongodb.NewModelRepository(db)
	simRepo := mongodb.NewSimulationRepository(db)
	if err := modelRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure model indexes")
	}
	if err := simRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure simulation indexes")
	}

	// --- Auth core ---
	dir := directory.NewMemoryDirectory()
	if err := dir.Seed(ctx, directory.DefaultSeed()); err != nil {
		log.Fatal().Err(err).Msg("failed to seed user directory")
	}
	codec := service.NewTokenCodec([]byte(cfg.JWTSecret))
	authService := service.NewAuthService(dir, codec, cfg.TokenTTL, cfg.InsecureDevMode, log)

	// --- Domain services ---
	modelService := service.NewModelService(modelRepo, log)
	simService := service.NewSimulationService(simRepo, modelRepo, log)

	// --- Run event pipeline ---
	dedup := redisdb.NewDedupChecker(rdb)
	eventService := service.NewRunEventService(simRepo, simRepo, dedup, log)
	dispatcher := queue.NewDispatcher(cfg.EventWorkers, eventService, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(api.Dependencies{
		Directory:         dir,
		Codec:             codec,
		AuthService:       authService,
		ModelService:      modelService,
		SimulationService: simService,
		SimulationRepo:    simRepo,
		Dispatcher:        dispatcher,
		Mongo:             db,
		Redis:             rdb,
		Logger:            log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting aquifer console API")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
