package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	redisAdapter "github.com/shazamohamed705/layatofk-master88-sub001/internal/adapter/cache/redis"
	"github.com/shazamohamed705/layatofk-master88-sub001/internal/adapter/email"
	"github.com/shazamohamed705/layatofk-master88-sub001/internal/adapter/http/handler"
	"github.com/shazamohamed705/layatofk-master88-sub001/internal/adapter/http/router"
	mongoAdapter "github.com/shazamohamed705/layatofk-master88-sub001/internal/adapter/mongo"
	natsAdapter "github.com/shazamohamed705/layatofk-master88-sub001/internal/adapter/nats"
	"github.com/shazamohamed705/layatofk-master88-sub001/internal/adapter/storage/s3"
	"github.com/shazamohamed705/layatofk-master88-sub001/internal/config"
	"github.com/shazamohamed705/layatofk-master88-sub001/internal/platform/tracer"
	"github.com/shazamohamed705/layatofk-master88-sub001/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	configPath := "config.yaml"
	if cp := os.Getenv("CONFIG_PATH"); cp != "" {
		configPath = cp
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()

	tp := tracer.InitTracer()
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Error("Failed to shut down tracer provider", zap.Error(err))
		}
	}()

	mongoClient, err := mongoAdapter.NewMongoDBConnection(&cfg.Mongo)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.TODO()); err != nil {
			logger.Error("Failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	logger.Info("Successfully connected to MongoDB")

	redisClient, err := redisAdapter.NewRedisClient(&cfg.Redis, logger)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	kvStore := redisAdapter.NewRedisCacheRepository(redisClient, logger)

	previewStorage, err := s3.NewS3Storage(&cfg.MinIO, logger)
	if err != nil {
		logger.Fatal("Failed to initialize MinIO storage", zap.Error(err))
	}

	natsPublisher, err := natsAdapter.NewNATSPublisher(&cfg.NATS, logger)
	if err != nil {
		logger.Fatal("Failed to initialize NATS publisher", zap.Error(err))
	}
	defer natsPublisher.Close()

	mailer := email.NewMailer(&cfg.SMTP, logger)

	itemRepo := mongoAdapter.NewItemMongoRepository(mongoClient, cfg.Mongo.Database)
	postRepo := mongoAdapter.NewPostMongoRepository(mongoClient, cfg.Mongo.Database)

	draftManager := usecase.NewDraftManager(kvStore, previewStorage, natsPublisher, mailer, logger)
	browseUC := usecase.NewBrowseUsecase(itemRepo, kvStore, logger)
	postUC := usecase.NewPostUsecase(postRepo, natsPublisher, kvStore, logger)

	draftHandler := handler.NewDraftHandler(draftManager, logger)
	browseHandler := handler.NewBrowseHandler(browseUC, logger)
	postHandler := handler.NewPostHandler(postUC, logger)
	infoHandler := handler.NewInfoHandler(&cfg.App, logger)

	mux := router.New(draftHandler, browseHandler, postHandler, infoHandler, cfg.JWT.Secret, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      mux,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.HTTP.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
}
