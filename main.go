package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mvjl000/socnet-backend/src/app"
	"github.com/mvjl000/socnet-backend/src/cache"
	"github.com/mvjl000/socnet-backend/src/config"
	"github.com/mvjl000/socnet-backend/src/events"
	"github.com/mvjl000/socnet-backend/src/lib"
	"github.com/mvjl000/socnet-backend/src/repository"
	"github.com/mvjl000/socnet-backend/src/repository/memory"
	"github.com/mvjl000/socnet-backend/src/repository/mongostore"
	"github.com/mvjl000/socnet-backend/src/services"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Sugar().Fatalf("failed to load config: %s", err.Error())
	}

	logger, err := lib.NewLogger(cfg.Env)
	if err != nil {
		zap.NewExample().Sugar().Fatalf("failed to create logger: %s", err.Error())
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore := openStore(ctx, cfg, logger)
	defer closeStore()

	postCache := openCache(ctx, cfg, logger)

	var publisher events.Publisher = events.Noop{}
	if cfg.NatsURL != "" {
		nc, err := events.Connect(cfg.NatsURL)
		if err != nil {
			logger.Sugar().Fatalf("failed to connect to nats: %s", err.Error())
		}
		defer func() { _ = nc.Drain() }()
		publisher = events.NewNatsPublisher(nc)
		logger.Info("Successfully connected to NATS")
	}

	tokens := lib.NewTokenIssuer(cfg.JWTKey, lib.TokenTTL)
	svc := services.New(services.Options{
		Store:   store,
		Tokens:  tokens,
		Cache:   postCache,
		Events:  publisher,
		Logger:  logger,
		AdminID: cfg.AdminID,
	})

	server := app.New(app.Deps{
		Services:    svc,
		Tokens:      tokens,
		Uploader:    &lib.Uploader{Dir: cfg.UploadDir},
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
	})

	go func() {
		<-ctx.Done()
		logger.Info("Server shutting down")
		if err := server.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("Server is running", zap.String("port", cfg.Port))
	if err := server.Listen(":" + cfg.Port); err != nil {
		logger.Sugar().Fatalf("failed to run http server: %s", err.Error())
	}
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.Store, func()) {
	if cfg.DBDriver == config.DriverMemory {
		logger.Warn("using in-memory store, data is lost on restart")
		return memory.New(), func() {}
	}

	db, err := lib.ConnectDB(ctx, cfg.MongoURI, cfg.DBName, logger)
	if err != nil {
		logger.Sugar().Fatalf("failed to connect to mongo: %s", err.Error())
	}

	store := mongostore.New(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		logger.Sugar().Fatalf("failed to create indexes: %s", err.Error())
	}

	return store, func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Error("failed to disconnect mongo", zap.Error(err))
		}
	}
}

func openCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) cache.PostCache {
	if cfg.RedisAddr == "" {
		return cache.Noop{}
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pong, err := rdb.Ping(ctx).Result()
	if err != nil {
		logger.Sugar().Fatalf("failed to ping redis: %s", err.Error())
	}
	logger.Sugar().Infof("Successfully connected to Redis: %s", pong)
	return cache.NewRedisPostCache(rdb, cfg.CacheTTL)
}
