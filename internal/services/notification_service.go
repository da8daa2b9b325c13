package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"

	"github.com/eduMindSolutions/platform-service/internal/models"
	"github.com/eduMindSolutions/platform-service/internal/repositories"
	"github.com/eduMindSolutions/platform-service/internal/utils"
)

// NotificationService creates and manages in-app notifications.
type NotificationService interface {
	// Create persists a notification for a single user. It does NOT consult
	// preferences; callers that need gating go through BulkCreate or check
	// PreferenceService themselves.
	Create(ctx context.Context, userID uint, req *NotificationRequest) (*models.Notification, error)

	// BulkCreate fans a notification out to many users, silently skipping
	// anyone whose preferences reject the category. Returns the notifications
	// actually created.
	BulkCreate(ctx context.Context, users []*models.User, req *NotificationRequest) ([]*models.Notification, error)

	GetUserNotifications(ctx context.Context, userID uint, filters repositories.NotificationFilters) ([]*models.Notification, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)

	// MarkRead flips the read flag for a notification owned by userID.
	MarkRead(ctx context.Context, notificationID, userID uint) error
	MarkAllRead(ctx context.Context, userID uint) error

	// PurgeExpired deletes notifications past their expiry. Returns the number
	// of rows removed.
	PurgeExpired(ctx context.Context) (int64, error)
}

// NotificationRequest describes a notification to create. ExpiresInDays of
// nil means the notification never expires.
type NotificationRequest struct {
	Type       models.NotificationType     `json:"notification_type" validate:"required,notification_type"`
	Title      string                      `json:"title" validate:"required,max=255"`
	Message    string                      `json:"message" validate:"required"`
	Priority   models.NotificationPriority `json:"priority" validate:"omitempty,notification_priority"`
	ActionURL  string                      `json:"action_url" validate:"omitempty,max=500"`
	ActionText string                      `json:"action_text" validate:"omitempty,max=100"`
	Metadata   map[string]any              `json:"metadata,omitempty"`

	ExpiresInDays *int `json:"expires_in_days" validate:"omitempty,min=1"`
}

type notificationService struct {
	repo        repositories.Repository
	preferences PreferenceService
	validator   *utils.Validator
	logger      *slog.Logger

	now func() time.Time
}

func NewNotificationService(
	repo repositories.Repository,
	preferences PreferenceService,
	validator *utils.Validator,
	logger *slog.Logger,
) NotificationService {
	return &notificationService{
		repo:        repo,
		preferences: preferences,
		validator:   validator,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *notificationService) Create(ctx context.Context, userID uint, req *NotificationRequest) (*models.Notification, error) {
	notification, err := s.build(userID, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Notification().Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	s.logger.Debug("Notification created",
		"notification_id", notification.ID,
		"user_id", userID,
		"notification_type", notification.Type)
	return notification, nil
}

func (s *notificationService) BulkCreate(ctx context.Context, users []*models.User, req *NotificationRequest) ([]*models.Notification, error) {
	if len(users) == 0 {
		return nil, nil
	}

	// Validate once, not per recipient.
	if _, err := s.build(0, req); err != nil {
		return nil, err
	}

	notifications := make([]*models.Notification, 0, len(users))
	skipped := 0
	for _, user := range users {
		allowed, err := s.preferences.ShouldNotify(ctx, user.ID, req.Type)
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate preferences for user %d: %w", user.ID, err)
		}
		if !allowed {
			skipped++
			continue
		}

		notification, err := s.build(user.ID, req)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, notification)
	}

	if len(notifications) > 0 {
		if err := s.repo.Notification().CreateBatch(ctx, notifications); err != nil {
			return nil, fmt.Errorf("failed to create notifications: %w", err)
		}
	}

	s.logger.Info("Bulk notification sent",
		"notification_type", req.Type,
		"recipients", len(notifications),
		"skipped_by_preferences", skipped)
	return notifications, nil
}

func (s *notificationService) GetUserNotifications(ctx context.Context, userID uint, filters repositories.NotificationFilters) ([]*models.Notification, error) {
	if filters.Limit <= 0 || filters.Limit > 100 {
		filters.Limit = 50
	}

	notifications, err := s.repo.Notification().GetByUser(ctx, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}
	return notifications, nil
}

func (s *notificationService) CountUnread(ctx context.Context, userID uint) (int64, error) {
	count, err := s.repo.Notification().CountUnreadByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (s *notificationService) MarkRead(ctx context.Context, notificationID, userID uint) error {
	notification, err := s.repo.Notification().GetByID(ctx, notificationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to get notification: %w", err)
	}

	if notification.UserID != userID {
		return ErrNotificationNotOwned
	}
	if notification.IsRead {
		return nil
	}

	now := s.now()
	notification.IsRead = true
	notification.ReadAt = &now
	if err := s.repo.Notification().Update(ctx, notification); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uint) error {
	if err := s.repo.Notification().MarkAllReadByUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

func (s *notificationService) PurgeExpired(ctx context.Context) (int64, error) {
	deleted, err := s.repo.Notification().DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired notifications: %w", err)
	}
	if deleted > 0 {
		s.logger.Info("Purged expired notifications", "deleted", deleted)
	}
	return deleted, nil
}

// build validates the request and assembles the model. userID 0 is used for
// validate-only calls.
func (s *notificationService) build(userID uint, req *NotificationRequest) (*models.Notification, error) {
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, errors.Join(ErrValidationFailed, err)
	}

	var expiresAt *time.Time
	if req.ExpiresInDays != nil {
		t := s.now().AddDate(0, 0, *req.ExpiresInDays)
		expiresAt = &t
	}

	return &models.Notification{
		UserID:     userID,
		Type:       req.Type,
		Title:      req.Title,
		Message:    req.Message,
		Priority:   req.Priority,
		ActionURL:  req.ActionURL,
		ActionText: req.ActionText,
		Metadata:   datatypes.JSONMap(req.Metadata),
		ExpiresAt:  expiresAt,
	}, nil
}
