package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/eduMindSolutions/platform-service/internal/models"
)

// Repository aggregates the per-entity repositories.
type Repository interface {
	User() UserRepository
	Notification() NotificationRepository
	Preference() PreferenceRepository
	Assessment() AssessmentRepository
	Chat() ChatRepository
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error

	// GetActiveAdmins returns active admin accounts, recipients of
	// registration notices.
	GetActiveAdmins(ctx context.Context) ([]*models.User, error)

	// GetActiveByRole returns active users with the given role.
	GetActiveByRole(ctx context.Context, role models.UserRole) ([]*models.User, error)

	// GetUsersNeedingMoodCheckin returns active member accounts whose last
	// mood check-in predates the given cutoff (or was never recorded).
	GetUsersNeedingMoodCheckin(ctx context.Context, cutoff time.Time) ([]*models.User, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	CreateBatch(ctx context.Context, notifications []*models.Notification) error
	GetByID(ctx context.Context, id uint) (*models.Notification, error)
	GetByUser(ctx context.Context, userID uint, filters NotificationFilters) ([]*models.Notification, error)
	CountUnreadByUser(ctx context.Context, userID uint) (int64, error)
	Update(ctx context.Context, notification *models.Notification) error
	MarkAllReadByUser(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type PreferenceRepository interface {
	// GetByUser returns ErrNotFound when the user has no preference record;
	// callers treat absence as "allow everything".
	GetByUser(ctx context.Context, userID uint) (*models.NotificationPreference, error)
	Create(ctx context.Context, prefs *models.NotificationPreference) error
	Update(ctx context.Context, prefs *models.NotificationPreference) error
}

type AssessmentRepository interface {
	CreateType(ctx context.Context, assessmentType *models.AssessmentType) error
	GetTypeByID(ctx context.Context, id uint) (*models.AssessmentType, error)
	GetTypeByName(ctx context.Context, name string) (*models.AssessmentType, error)
	ListTypes(ctx context.Context) ([]*models.AssessmentType, error)

	CreateQuestion(ctx context.Context, question *models.AssessmentQuestion) error
	CreateQuestionsBatch(ctx context.Context, questions []*models.AssessmentQuestion) error
	GetQuestionsByType(ctx context.Context, assessmentTypeID uint) ([]*models.AssessmentQuestion, error)

	CreateResponse(ctx context.Context, response *models.AssessmentResponse) error
}

type ChatRepository interface {
	CreateMessage(ctx context.Context, message *models.ChatMessage) error
	GetRoomMessages(ctx context.Context, roomID uint, limit, offset int) ([]*models.ChatMessage, error)
}

// ===== SHARED FILTER STRUCTS =====

type NotificationFilters struct {
	Type           *models.NotificationType     `json:"type,omitempty"`
	Priority       *models.NotificationPriority `json:"priority,omitempty"`
	IsRead         *bool                        `json:"is_read,omitempty"`
	IncludeExpired bool                         `json:"include_expired"`
	Limit          int                          `json:"limit"`
	Offset         int                          `json:"offset"`
}

// ===== SHARED ERRORS =====

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("record not found")

// IsNotFoundError reports whether err is a repository or gorm not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
