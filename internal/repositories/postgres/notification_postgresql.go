package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/eduMindSolutions/platform-service/internal/models"
	"github.com/eduMindSolutions/platform-service/internal/repositories"
)

type NotificationPostgreSQL struct {
	db *gorm.DB
}

func NewNotificationPostgreSQL(db *gorm.DB) repositories.NotificationRepository {
	return &NotificationPostgreSQL{db: db}
}

func (n *NotificationPostgreSQL) Create(ctx context.Context, notification *models.Notification) error {
	if err := n.db.WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (n *NotificationPostgreSQL) CreateBatch(ctx context.Context, notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	if err := n.db.WithContext(ctx).Create(&notifications).Error; err != nil {
		return fmt.Errorf("failed to batch create notifications: %w", err)
	}
	return nil
}

func (n *NotificationPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	var notification models.Notification
	err := n.db.WithContext(ctx).First(&notification, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (n *NotificationPostgreSQL) GetByUser(ctx context.Context, userID uint, filters repositories.NotificationFilters) ([]*models.Notification, error) {
	query := n.db.WithContext(ctx).Where("user_id = ?", userID)

	if filters.Type != nil {
		query = query.Where("notification_type = ?", *filters.Type)
	}
	if filters.Priority != nil {
		query = query.Where("priority = ?", *filters.Priority)
	}
	if filters.IsRead != nil {
		query = query.Where("is_read = ?", *filters.IsRead)
	}
	if !filters.IncludeExpired {
		query = query.Where("expires_at IS NULL OR expires_at > ?", time.Now())
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var notifications []*models.Notification
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (n *NotificationPostgreSQL) CountUnreadByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := n.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (n *NotificationPostgreSQL) Update(ctx context.Context, notification *models.Notification) error {
	if err := n.db.WithContext(ctx).Save(notification).Error; err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	return nil
}

func (n *NotificationPostgreSQL) MarkAllReadByUser(ctx context.Context, userID uint) error {
	now := time.Now()
	err := n.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]any{"is_read": true, "read_at": now}).Error
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

func (n *NotificationPostgreSQL) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := n.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", before).
		Delete(&models.Notification{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired notifications: %w", result.Error)
	}
	return result.RowsAffected, nil
}
