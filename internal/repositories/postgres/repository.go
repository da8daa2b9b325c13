package postgres

import (
	"gorm.io/gorm"

	"github.com/eduMindSolutions/platform-service/internal/repositories"
)

type repository struct {
	user         repositories.UserRepository
	notification repositories.NotificationRepository
	preference   repositories.PreferenceRepository
	assessment   repositories.AssessmentRepository
	chat         repositories.ChatRepository
}

// NewRepository wires the per-entity repositories over a shared gorm handle.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		user:         NewUserPostgreSQL(db),
		notification: NewNotificationPostgreSQL(db),
		preference:   NewPreferencePostgreSQL(db),
		assessment:   NewAssessmentPostgreSQL(db),
		chat:         NewChatPostgreSQL(db),
	}
}

func (r *repository) User() repositories.UserRepository                 { return r.user }
func (r *repository) Notification() repositories.NotificationRepository { return r.notification }
func (r *repository) Preference() repositories.PreferenceRepository     { return r.preference }
func (r *repository) Assessment() repositories.AssessmentRepository     { return r.assessment }
func (r *repository) Chat() repositories.ChatRepository                 { return r.chat }
