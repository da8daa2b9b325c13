package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/eduMindSolutions/platform-service/internal/models"
	"github.com/eduMindSolutions/platform-service/internal/repositories"
	"github.com/eduMindSolutions/platform-service/internal/utils"
)

// UserService owns the registration and approval workflow.
type UserService interface {
	// Register creates an inactive, unapproved account with default
	// notification preferences and triggers the registration reactions.
	Register(ctx context.Context, req *RegisterRequest) (*models.User, error)

	// Approve marks the user approved by the given admin. Approving an
	// already-approved user is a no-op that returns the current record.
	Approve(ctx context.Context, userID, approverID uint) (*models.User, error)

	// Activate enables a previously approved account.
	Activate(ctx context.Context, userID uint) (*models.User, error)

	GetByID(ctx context.Context, userID uint) (*models.User, error)

	// RecordMoodCheckin stamps the user's last mood check-in, which the daily
	// reminder job uses to skip them.
	RecordMoodCheckin(ctx context.Context, userID uint) error
}

type RegisterRequest struct {
	Email       string          `json:"email" validate:"required,email"`
	DisplayName string          `json:"display_name" validate:"required,min=1,max=100"`
	Role        models.UserRole `json:"role" validate:"omitempty,user_role"`
}

type userService struct {
	repo        repositories.Repository
	preferences PreferenceService
	lifecycle   LifecycleService
	validator   *utils.Validator
	logger      *slog.Logger

	now func() time.Time
}

func NewUserService(
	repo repositories.Repository,
	preferences PreferenceService,
	lifecycle LifecycleService,
	validator *utils.Validator,
	logger *slog.Logger,
) UserService {
	return &userService{
		repo:        repo,
		preferences: preferences,
		lifecycle:   lifecycle,
		validator:   validator,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *userService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, errors.Join(ErrValidationFailed, err)
	}
	if req.Role == "" {
		req.Role = models.RoleUser
	}

	if _, err := s.repo.User().GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	user := &models.User{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Role:        req.Role,
		IsActive:    false,
		IsApproved:  false,
	}
	if err := s.repo.User().Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if _, err := s.preferences.EnsureDefaults(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to create default preferences: %w", err)
	}

	if err := s.lifecycle.UserRegistered(ctx, user); err != nil {
		// The account exists; the reaction can be retried by an admin resend.
		s.logger.Error("Registration reactions failed",
			"user_id", user.ID,
			"error", err)
	}

	s.logger.Info("User registered",
		"user_id", user.ID,
		"role", user.Role)
	return user, nil
}

func (s *userService) Approve(ctx context.Context, userID, approverID uint) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	approver, err := s.repo.User().GetByID(ctx, approverID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrApproverNotFound
		}
		return nil, fmt.Errorf("failed to get approver: %w", err)
	}
	if approver.Role != models.RoleAdmin {
		return nil, ErrApproverNotAdmin
	}

	if user.IsApproved {
		return user, nil
	}

	before := *user
	now := s.now()
	user.IsApproved = true
	user.ApprovedAt = &now
	user.ApprovedByID = &approverID
	if err := s.repo.User().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to approve user: %w", err)
	}

	if err := s.lifecycle.UserApproved(ctx, &before, user); err != nil {
		s.logger.Error("Approval reactions failed",
			"user_id", user.ID,
			"error", err)
	}
	return user, nil
}

func (s *userService) Activate(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !user.IsApproved {
		return nil, ErrUserNotApproved
	}
	if user.IsActive {
		return nil, ErrUserAlreadyActive
	}

	before := *user
	user.IsActive = true
	if err := s.repo.User().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to activate user: %w", err)
	}

	if err := s.lifecycle.UserActivated(ctx, &before, user); err != nil {
		s.logger.Error("Activation reactions failed",
			"user_id", user.ID,
			"error", err)
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *userService) RecordMoodCheckin(ctx context.Context, userID uint) error {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	now := s.now()
	user.LastMoodCheckin = &now
	if err := s.repo.User().Update(ctx, user); err != nil {
		return fmt.Errorf("failed to record mood check-in: %w", err)
	}
	return nil
}
