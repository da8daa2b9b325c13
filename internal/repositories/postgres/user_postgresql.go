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

type UserPostgreSQL struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &UserPostgreSQL{db: db}
}

func (u *UserPostgreSQL) Create(ctx context.Context, user *models.User) error {
	if err := u.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (u *UserPostgreSQL) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := u.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := u.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) Update(ctx context.Context, user *models.User) error {
	if err := u.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (u *UserPostgreSQL) GetActiveAdmins(ctx context.Context) ([]*models.User, error) {
	return u.GetActiveByRole(ctx, models.RoleAdmin)
}

func (u *UserPostgreSQL) GetActiveByRole(ctx context.Context, role models.UserRole) ([]*models.User, error) {
	var users []*models.User
	err := u.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", role, true).
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active %s users: %w", role, err)
	}
	return users, nil
}

func (u *UserPostgreSQL) GetUsersNeedingMoodCheckin(ctx context.Context, cutoff time.Time) ([]*models.User, error) {
	var users []*models.User
	err := u.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", models.RoleUser, true).
		Where("last_mood_checkin IS NULL OR last_mood_checkin < ?", cutoff).
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users needing mood check-in: %w", err)
	}
	return users, nil
}
