package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/gin-gonic/gin"

	"github.com/eduMindSolutions/platform-service/internal/cache"
	"github.com/eduMindSolutions/platform-service/internal/config"
	"github.com/eduMindSolutions/platform-service/internal/handlers"
	"github.com/eduMindSolutions/platform-service/internal/mailer"
	"github.com/eduMindSolutions/platform-service/internal/repositories/postgres"
	"github.com/eduMindSolutions/platform-service/internal/services"
	"github.com/eduMindSolutions/platform-service/internal/utils"
	"github.com/eduMindSolutions/platform-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}
	slogLogger := utils.ToSlogLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := pkg.Migrate(ctx, db, slogLogger); err != nil {
		logger.Error("Failed to apply migrations", "error", err)
		os.Exit(1)
	}

	var cacheService cache.CacheService = cache.NoopCache{}
	if redisClient, err := pkg.NewRedisClient(cfg); err != nil {
		logger.Warn("Redis unavailable, running without cache", "error", err)
	} else {
		cacheService = cache.NewRedisCache(redisClient, slogLogger)
		defer redisClient.Close()
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogLogger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	repo := postgres.NewRepository(db)
	validator := utils.NewValidator()
	serviceManager := services.NewServiceManager(
		repo, cacheService, publisher, config.DefaultCategoryRules(), validator, slogLogger)

	if err := startEmailDispatcher(ctx, cfg, cacheService, slogLogger, logger); err != nil {
		logger.Error("Failed to start email dispatcher", "error", err)
		os.Exit(1)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(serviceManager, logger)
	handlerManager.SetupRoutes(engine)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: engine,
	}

	go func() {
		logger.Info("Server starting",
			"port", cfg.Port,
			"environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}

// startEmailDispatcher attaches the lifecycle email consumer to the bus. With
// no consumable transport configured (mock publisher, events disabled) email
// dispatch is simply off.
func startEmailDispatcher(
	ctx context.Context,
	cfg *config.Config,
	cacheService cache.CacheService,
	slogLogger *slog.Logger,
	logger utils.Logger,
) error {
	subscriber, err := cfg.Events.CreateEventSubscriber(slogLogger)
	if err != nil {
		return err
	}
	if subscriber == nil {
		logger.Info("No event subscriber configured, email dispatch disabled")
		return nil
	}

	sender, err := buildEmailSender(cfg, slogLogger)
	if err != nil {
		return err
	}

	router, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(slogLogger))
	if err != nil {
		return err
	}

	dispatcher := services.NewEmailDispatcher(mailer.New(sender, cfg.Mailer), cacheService, slogLogger)
	dispatcher.Register(router, subscriber, cfg.Events.LifecycleTopic)

	go func() {
		if err := router.Run(ctx); err != nil {
			logger.Error("Email dispatcher stopped", "error", err)
		}
	}()
	return nil
}

func buildEmailSender(cfg *config.Config, slogLogger *slog.Logger) (mailer.EmailSender, error) {
	if cfg.Mailer.Provider == "postmark" {
		return mailer.NewPostmarkClient(cfg.Mailer)
	}
	return mailer.NewDevSender(slogLogger), nil
}
