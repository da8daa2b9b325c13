package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/eduMindSolutions/platform-service/internal/cache"
	"github.com/eduMindSolutions/platform-service/internal/config"
	"github.com/eduMindSolutions/platform-service/internal/repositories/postgres"
	"github.com/eduMindSolutions/platform-service/internal/services"
	"github.com/eduMindSolutions/platform-service/internal/utils"
	"github.com/eduMindSolutions/platform-service/pkg"
)

// Scheduled notification jobs. Cron runs this binary:
//
//	0 9 * * *   reminders -job=daily
//	0 10 * * 1  reminders -job=weekly
//	0 3 * * *   reminders -job=purge
func main() {
	job := flag.String("job", "daily", "job to run: daily, weekly or purge")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := utils.NewDefaultLogger().With("job", *job)
	slogLogger := utils.ToSlogLogger(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	var cacheService cache.CacheService = cache.NoopCache{}
	if redisClient, err := pkg.NewRedisClient(cfg); err != nil {
		logger.Warn("Redis unavailable, running without cache", "error", err)
	} else {
		cacheService = cache.NewRedisCache(redisClient, slogLogger)
		defer redisClient.Close()
	}

	repo := postgres.NewRepository(db)
	validator := utils.NewValidator()

	// The reminder jobs create in-app notifications only; no lifecycle events
	// are produced, so the publisher stays disabled.
	eventCfg := config.EventConfig{Enabled: false}
	publisher, err := eventCfg.CreateEventPublisher(slogLogger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}

	serviceManager := services.NewServiceManager(
		repo, cacheService, publisher, config.DefaultCategoryRules(), validator, slogLogger)

	switch *job {
	case "daily":
		sent, err := serviceManager.Reminder().SendDailyMoodCheckins(ctx)
		exitOnError(logger, err, "Daily mood check-in job failed")
		logger.Info("Daily mood check-in job finished", "sent", sent)
	case "weekly":
		sent, err := serviceManager.Reminder().SendWeeklyChallengeDigest(ctx)
		exitOnError(logger, err, "Weekly challenge digest job failed")
		logger.Info("Weekly challenge digest job finished", "sent", sent)
	case "purge":
		deleted, err := serviceManager.Notification().PurgeExpired(ctx)
		exitOnError(logger, err, "Purge job failed")
		logger.Info("Purge job finished", "deleted", deleted)
	default:
		logger.Error("Unknown job", "job", *job)
		os.Exit(2)
	}
}

func exitOnError(logger utils.Logger, err error, msg string) {
	if err != nil {
		logger.Error(msg, "error", err)
		os.Exit(1)
	}
}
