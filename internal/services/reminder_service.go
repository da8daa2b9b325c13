package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/eduMindSolutions/platform-service/internal/models"
	"github.com/eduMindSolutions/platform-service/internal/repositories"
)

// ReminderService runs the scheduled notification jobs. Both jobs are
// idempotent only at the day/week granularity of their scheduler; running the
// daily job twice in one day sends duplicates by design, the scheduler owns
// the cadence.
type ReminderService interface {
	// SendDailyMoodCheckins notifies active members who have not recorded a
	// mood check-in today. Returns how many notifications were created.
	SendDailyMoodCheckins(ctx context.Context) (int, error)

	// SendWeeklyChallengeDigest notifies all active members about the week's
	// wellness challenges.
	SendWeeklyChallengeDigest(ctx context.Context) (int, error)
}

type reminderService struct {
	repo          repositories.Repository
	notifications NotificationService
	logger        *slog.Logger

	now func() time.Time
}

func NewReminderService(
	repo repositories.Repository,
	notifications NotificationService,
	logger *slog.Logger,
) ReminderService {
	return &reminderService{
		repo:          repo,
		notifications: notifications,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *reminderService) SendDailyMoodCheckins(ctx context.Context) (int, error) {
	now := s.now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	users, err := s.repo.User().GetUsersNeedingMoodCheckin(ctx, startOfToday)
	if err != nil {
		return 0, fmt.Errorf("failed to find users needing mood check-in: %w", err)
	}

	created, err := s.notifications.BulkCreate(ctx, users, NewMoodCheckinRequest())
	if err != nil {
		return 0, fmt.Errorf("failed to send mood check-in reminders: %w", err)
	}

	s.logger.Info("Daily mood check-in reminders sent",
		"candidates", len(users),
		"sent", len(created))
	return len(created), nil
}

func (s *reminderService) SendWeeklyChallengeDigest(ctx context.Context) (int, error) {
	users, err := s.repo.User().GetActiveByRole(ctx, models.RoleUser)
	if err != nil {
		return 0, fmt.Errorf("failed to list active members: %w", err)
	}

	created, err := s.notifications.BulkCreate(ctx, users, NewWeeklyChallengeDigestRequest())
	if err != nil {
		return 0, fmt.Errorf("failed to send weekly challenge digest: %w", err)
	}

	s.logger.Info("Weekly challenge digest sent",
		"candidates", len(users),
		"sent", len(created))
	return len(created), nil
}
