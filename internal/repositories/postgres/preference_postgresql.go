package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/eduMindSolutions/platform-service/internal/models"
	"github.com/eduMindSolutions/platform-service/internal/repositories"
)

type PreferencePostgreSQL struct {
	db *gorm.DB
}

func NewPreferencePostgreSQL(db *gorm.DB) repositories.PreferenceRepository {
	return &PreferencePostgreSQL{db: db}
}

func (p *PreferencePostgreSQL) GetByUser(ctx context.Context, userID uint) (*models.NotificationPreference, error) {
	var prefs models.NotificationPreference
	err := p.db.WithContext(ctx).Where("user_id = ?", userID).First(&prefs).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &prefs, nil
}

func (p *PreferencePostgreSQL) Create(ctx context.Context, prefs *models.NotificationPreference) error {
	if err := p.db.WithContext(ctx).Create(prefs).Error; err != nil {
		return fmt.Errorf("failed to create notification preferences: %w", err)
	}
	return nil
}

func (p *PreferencePostgreSQL) Update(ctx context.Context, prefs *models.NotificationPreference) error {
	if err := p.db.WithContext(ctx).Save(prefs).Error; err != nil {
		return fmt.Errorf("failed to update notification preferences: %w", err)
	}
	return nil
}
