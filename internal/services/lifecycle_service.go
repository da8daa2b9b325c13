package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/eduMindSolutions/platform-service/internal/events"
	"github.com/eduMindSolutions/platform-service/internal/models"
	"github.com/eduMindSolutions/platform-service/internal/repositories"
)

// LifecycleService reacts to user state transitions: it fans out in-app
// notifications and publishes lifecycle events for the email dispatcher.
//
// Transition detection is explicit: callers pass the state before and after
// the save, so a re-save of an already-approved user is a visible no-op
// instead of a duplicate reaction.
type LifecycleService interface {
	UserRegistered(ctx context.Context, user *models.User) error
	UserApproved(ctx context.Context, before, after *models.User) error
	UserActivated(ctx context.Context, before, after *models.User) error
}

type lifecycleService struct {
	repo          repositories.Repository
	notifications NotificationService
	preferences   PreferenceService
	publisher     events.EventPublisher
	logger        *slog.Logger
}

func NewLifecycleService(
	repo repositories.Repository,
	notifications NotificationService,
	preferences PreferenceService,
	publisher events.EventPublisher,
	logger *slog.Logger,
) LifecycleService {
	return &lifecycleService{
		repo:          repo,
		notifications: notifications,
		preferences:   preferences,
		publisher:     publisher,
		logger:        logger,
	}
}

// UserRegistered publishes a single registration event (the dispatcher sends
// one email to the admin inbox) and creates an in-app notification for each
// active admin whose preferences allow it.
func (s *lifecycleService) UserRegistered(ctx context.Context, user *models.User) error {
	s.publishEvent(ctx, events.NewUserRegisteredEvent(
		user.ID, user.Email, user.DisplayName, string(user.Role), user.CreatedAt))

	admins, err := s.repo.User().GetActiveAdmins(ctx)
	if err != nil {
		return fmt.Errorf("failed to list admins for registration notice: %w", err)
	}

	created, err := s.notifications.BulkCreate(ctx, admins, NewUserRegistrationRequest(user))
	if err != nil {
		return fmt.Errorf("failed to notify admins of registration: %w", err)
	}

	s.logger.Info("User registration processed",
		"user_id", user.ID,
		"admins_notified", len(created))
	return nil
}

// UserApproved reacts only to the unapproved-to-approved edge. Saving an
// already-approved user again does nothing.
func (s *lifecycleService) UserApproved(ctx context.Context, before, after *models.User) error {
	if before.IsApproved || !after.IsApproved {
		return nil
	}

	approverEmail := s.lookupApproverEmail(ctx, after)

	approvedAt := after.UpdatedAt
	if after.ApprovedAt != nil {
		approvedAt = *after.ApprovedAt
	}
	s.publishEvent(ctx, events.NewUserApprovedEvent(
		after.ID, after.Email, after.DisplayName, approvedAt, after.ApprovedByID, approverEmail))

	if err := s.createGated(ctx, after.ID, NewUserApprovedRequest()); err != nil {
		return fmt.Errorf("failed to notify user of approval: %w", err)
	}

	s.logger.Info("User approval processed",
		"user_id", after.ID,
		"approver_id", after.ApprovedByID)
	return nil
}

// UserActivated reacts only to the inactive-to-active edge.
func (s *lifecycleService) UserActivated(ctx context.Context, before, after *models.User) error {
	if before.IsActive || !after.IsActive {
		return nil
	}

	s.publishEvent(ctx, events.NewUserActivatedEvent(after.ID, after.Email, after.DisplayName))

	if err := s.createGated(ctx, after.ID, NewAccountActivatedRequest()); err != nil {
		return fmt.Errorf("failed to notify user of activation: %w", err)
	}

	s.logger.Info("User activation processed", "user_id", after.ID)
	return nil
}

// createGated creates a notification for one user if their preferences allow
// the category.
func (s *lifecycleService) createGated(ctx context.Context, userID uint, req *NotificationRequest) error {
	allowed, err := s.preferences.ShouldNotify(ctx, userID, req.Type)
	if err != nil {
		return err
	}
	if !allowed {
		s.logger.Debug("Notification suppressed by preferences",
			"user_id", userID,
			"notification_type", req.Type)
		return nil
	}
	_, err = s.notifications.Create(ctx, userID, req)
	return err
}

// lookupApproverEmail resolves the approver's address for the approval email.
// A missing approver row degrades to an event without an approver address; it
// never blocks the user-facing reaction.
func (s *lifecycleService) lookupApproverEmail(ctx context.Context, user *models.User) string {
	if user.ApprovedByID == nil {
		return ""
	}
	approver, err := s.repo.User().GetByID(ctx, *user.ApprovedByID)
	if err != nil {
		if !repositories.IsNotFoundError(err) {
			s.logger.Warn("Failed to load approver",
				"approver_id", *user.ApprovedByID,
				"error", err)
		}
		return ""
	}
	return approver.Email
}

// publishEvent is fire-and-forget: a down bus must not fail the transition
// that triggered it. The dispatcher's idempotency keys make retries safe when
// the bus comes back.
func (s *lifecycleService) publishEvent(ctx context.Context, event *events.LifecycleEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLifecycleEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish lifecycle event",
			"event_type", event.Type,
			"idempotency_key", event.IdempotencyKey,
			"error", err)
	}
}
