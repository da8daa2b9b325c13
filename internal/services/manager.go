package services

import (
	"log/slog"

	"github.com/eduMindSolutions/platform-service/internal/cache"
	"github.com/eduMindSolutions/platform-service/internal/config"
	"github.com/eduMindSolutions/platform-service/internal/events"
	"github.com/eduMindSolutions/platform-service/internal/repositories"
	"github.com/eduMindSolutions/platform-service/internal/utils"
)

// ServiceManager wires the service graph once and hands handlers their
// dependencies.
type ServiceManager interface {
	User() UserService
	Notification() NotificationService
	Preference() PreferenceService
	Lifecycle() LifecycleService
	Reminder() ReminderService
	ImportExport() ImportExportService
	Chat() ChatService
}

type serviceManager struct {
	user         UserService
	notification NotificationService
	preference   PreferenceService
	lifecycle    LifecycleService
	reminder     ReminderService
	importExport ImportExportService
	chat         ChatService
}

func NewServiceManager(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	rules config.CategoryRules,
	validator *utils.Validator,
	logger *slog.Logger,
) ServiceManager {
	preference := NewPreferenceService(repo, cacheService, rules, logger)
	notification := NewNotificationService(repo, preference, validator, logger)
	lifecycle := NewLifecycleService(repo, notification, preference, publisher, logger)
	user := NewUserService(repo, preference, lifecycle, validator, logger)
	reminder := NewReminderService(repo, notification, logger)
	importExport := NewImportExportService(repo, validator, logger)
	chat := NewChatService(repo, validator, logger)

	return &serviceManager{
		user:         user,
		notification: notification,
		preference:   preference,
		lifecycle:    lifecycle,
		reminder:     reminder,
		importExport: importExport,
		chat:         chat,
	}
}

func (m *serviceManager) User() UserService                 { return m.user }
func (m *serviceManager) Notification() NotificationService { return m.notification }
func (m *serviceManager) Preference() PreferenceService     { return m.preference }
func (m *serviceManager) Lifecycle() LifecycleService       { return m.lifecycle }
func (m *serviceManager) Reminder() ReminderService         { return m.reminder }
func (m *serviceManager) ImportExport() ImportExportService { return m.importExport }
func (m *serviceManager) Chat() ChatService                 { return m.chat }
