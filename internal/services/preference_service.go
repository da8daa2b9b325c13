package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"

	"github.com/eduMindSolutions/platform-service/internal/cache"
	"github.com/eduMindSolutions/platform-service/internal/config"
	"github.com/eduMindSolutions/platform-service/internal/models"
	"github.com/eduMindSolutions/platform-service/internal/repositories"
)

// PreferenceService answers "may this user receive this notification right
// now" and manages the underlying preference records.
type PreferenceService interface {
	// ShouldNotify evaluates the user's preference record against the
	// category rules and quiet hours. A user without a record gets
	// everything: absence means "never opted out".
	ShouldNotify(ctx context.Context, userID uint, notificationType models.NotificationType) (bool, error)

	GetByUser(ctx context.Context, userID uint) (*models.NotificationPreference, error)
	Update(ctx context.Context, userID uint, req *UpdatePreferenceRequest) (*models.NotificationPreference, error)

	// EnsureDefaults materializes the all-enabled preference record for a new
	// user. Existing records are left untouched.
	EnsureDefaults(ctx context.Context, userID uint) (*models.NotificationPreference, error)
}

// UpdatePreferenceRequest is a partial update: nil fields keep their current
// value. Quiet hours are "HH:MM" or "HH:MM:SS" strings; ClearQuietHours
// removes the window entirely.
type UpdatePreferenceRequest struct {
	CommunityNotifications         *bool `json:"community_notifications,omitempty"`
	AssessmentReminders            *bool `json:"assessment_reminders,omitempty"`
	CrisisAlerts                   *bool `json:"crisis_alerts,omitempty"`
	GuideMessages                  *bool `json:"guide_messages,omitempty"`
	SystemUpdates                  *bool `json:"system_updates,omitempty"`
	UserRegistrationNotifications  *bool `json:"user_registration_notifications,omitempty"`
	UserApprovalNotifications      *bool `json:"user_approval_notifications,omitempty"`
	AccountActivationNotifications *bool `json:"account_activation_notifications,omitempty"`

	QuietHoursStart *string `json:"quiet_hours_start,omitempty"`
	QuietHoursEnd   *string `json:"quiet_hours_end,omitempty"`
	ClearQuietHours bool    `json:"clear_quiet_hours,omitempty"`
}

const preferenceCacheTTL = 5 * time.Minute

type preferenceService struct {
	repo   repositories.Repository
	cache  cache.CacheService
	rules  config.CategoryRules
	logger *slog.Logger

	// Injected clock, for quiet-hours tests.
	now func() time.Time
}

func NewPreferenceService(
	repo repositories.Repository,
	cacheService cache.CacheService,
	rules config.CategoryRules,
	logger *slog.Logger,
) PreferenceService {
	return &preferenceService{
		repo:   repo,
		cache:  cacheService,
		rules:  rules,
		logger: logger,
		now:    time.Now,
	}
}

func preferenceCacheKey(userID uint) string {
	return fmt.Sprintf("notification_prefs:%d", userID)
}

func (s *preferenceService) ShouldNotify(ctx context.Context, userID uint, notificationType models.NotificationType) (bool, error) {
	prefs, err := s.loadPreferences(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return true, nil
		}
		return false, fmt.Errorf("failed to load notification preferences: %w", err)
	}

	// Quiet hours short-circuit the category table: inside the window only
	// quiet-hours-exempt categories (crisis alerts) go through.
	if s.inQuietHours(prefs) {
		return s.rules.QuietHoursExempt(notificationType), nil
	}

	return s.rules.Allowed(prefs, notificationType), nil
}

func (s *preferenceService) GetByUser(ctx context.Context, userID uint) (*models.NotificationPreference, error) {
	prefs, err := s.loadPreferences(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			// Read-only view of the defaults; nothing is persisted until the
			// user changes something.
			return models.DefaultNotificationPreference(userID), nil
		}
		return nil, fmt.Errorf("failed to get notification preferences: %w", err)
	}
	return prefs, nil
}

func (s *preferenceService) Update(ctx context.Context, userID uint, req *UpdatePreferenceRequest) (*models.NotificationPreference, error) {
	prefs, err := s.repo.Preference().GetByUser(ctx, userID)
	create := false
	if err != nil {
		if !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to get notification preferences: %w", err)
		}
		prefs = models.DefaultNotificationPreference(userID)
		create = true
	}

	if err := applyPreferenceUpdate(prefs, req); err != nil {
		return nil, err
	}

	if create {
		err = s.repo.Preference().Create(ctx, prefs)
	} else {
		err = s.repo.Preference().Update(ctx, prefs)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save notification preferences: %w", err)
	}

	if err := s.cache.Delete(ctx, preferenceCacheKey(userID)); err != nil {
		s.logger.Warn("Failed to invalidate preference cache",
			"user_id", userID,
			"error", err)
	}

	s.logger.Info("Notification preferences updated", "user_id", userID)
	return prefs, nil
}

func (s *preferenceService) EnsureDefaults(ctx context.Context, userID uint) (*models.NotificationPreference, error) {
	existing, err := s.repo.Preference().GetByUser(ctx, userID)
	if err == nil {
		return existing, nil
	}
	if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check notification preferences: %w", err)
	}

	prefs := models.DefaultNotificationPreference(userID)
	if err := s.repo.Preference().Create(ctx, prefs); err != nil {
		return nil, fmt.Errorf("failed to create default notification preferences: %w", err)
	}
	return prefs, nil
}

// loadPreferences reads through the cache. Cache failures fall back to the
// database; a stale or missing cache never blocks a decision.
func (s *preferenceService) loadPreferences(ctx context.Context, userID uint) (*models.NotificationPreference, error) {
	key := preferenceCacheKey(userID)

	var cached models.NotificationPreference
	err := s.cache.Get(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Preference cache read failed",
			"user_id", userID,
			"error", err)
	}

	prefs, err := s.repo.Preference().GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, prefs, preferenceCacheTTL); err != nil {
		s.logger.Warn("Preference cache write failed",
			"user_id", userID,
			"error", err)
	}
	return prefs, nil
}

// inQuietHours reports whether the current time of day falls inside the
// user's quiet-hours window. The window is same-day and inclusive at both
// ends; a window with start after end never matches.
func (s *preferenceService) inQuietHours(prefs *models.NotificationPreference) bool {
	if prefs.QuietHoursStart == nil || prefs.QuietHoursEnd == nil {
		return false
	}

	now := s.now()
	current := datatypes.NewTime(now.Hour(), now.Minute(), now.Second(), 0)
	return *prefs.QuietHoursStart <= current && current <= *prefs.QuietHoursEnd
}

func applyPreferenceUpdate(prefs *models.NotificationPreference, req *UpdatePreferenceRequest) error {
	if req.CommunityNotifications != nil {
		prefs.CommunityNotifications = *req.CommunityNotifications
	}
	if req.AssessmentReminders != nil {
		prefs.AssessmentReminders = *req.AssessmentReminders
	}
	if req.CrisisAlerts != nil {
		prefs.CrisisAlerts = *req.CrisisAlerts
	}
	if req.GuideMessages != nil {
		prefs.GuideMessages = *req.GuideMessages
	}
	if req.SystemUpdates != nil {
		prefs.SystemUpdates = *req.SystemUpdates
	}
	if req.UserRegistrationNotifications != nil {
		prefs.UserRegistrationNotifications = *req.UserRegistrationNotifications
	}
	if req.UserApprovalNotifications != nil {
		prefs.UserApprovalNotifications = *req.UserApprovalNotifications
	}
	if req.AccountActivationNotifications != nil {
		prefs.AccountActivationNotifications = *req.AccountActivationNotifications
	}

	if req.ClearQuietHours {
		prefs.QuietHoursStart = nil
		prefs.QuietHoursEnd = nil
		return nil
	}

	if req.QuietHoursStart != nil {
		t, err := parseTimeOfDay(*req.QuietHoursStart)
		if err != nil {
			return fmt.Errorf("%w: quiet_hours_start: %v", ErrValidationFailed, err)
		}
		prefs.QuietHoursStart = &t
	}
	if req.QuietHoursEnd != nil {
		t, err := parseTimeOfDay(*req.QuietHoursEnd)
		if err != nil {
			return fmt.Errorf("%w: quiet_hours_end: %v", ErrValidationFailed, err)
		}
		prefs.QuietHoursEnd = &t
	}
	return nil
}

func parseTimeOfDay(value string) (datatypes.Time, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return datatypes.NewTime(t.Hour(), t.Minute(), t.Second(), 0), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q, expected HH:MM or HH:MM:SS", value)
}
