package config

import (
	"github.com/eduMindSolutions/platform-service/internal/models"
)

// CategoryRule binds a notification category to the preference flag that
// gates it and marks categories that may ignore quiet hours.
type CategoryRule struct {
	Flag             func(*models.NotificationPreference) bool
	QuietHoursExempt bool
}

// CategoryRules is the category taxonomy loaded at process start. Adding a
// category means adding an entry here, not touching the evaluator. Categories
// without an entry are always allowed.
type CategoryRules map[models.NotificationType]CategoryRule

// DefaultCategoryRules returns the platform taxonomy.
func DefaultCategoryRules() CategoryRules {
	return CategoryRules{
		models.NotificationCommunityReply: {
			Flag: func(p *models.NotificationPreference) bool { return p.CommunityNotifications },
		},
		models.NotificationCommunityLike: {
			Flag: func(p *models.NotificationPreference) bool { return p.CommunityNotifications },
		},
		models.NotificationAssessmentReminder: {
			Flag: func(p *models.NotificationPreference) bool { return p.AssessmentReminders },
		},
		models.NotificationCrisisAlert: {
			Flag:             func(p *models.NotificationPreference) bool { return p.CrisisAlerts },
			QuietHoursExempt: true,
		},
		models.NotificationGuideMessage: {
			Flag: func(p *models.NotificationPreference) bool { return p.GuideMessages },
		},
		models.NotificationSystemUpdate: {
			Flag: func(p *models.NotificationPreference) bool { return p.SystemUpdates },
		},
		models.NotificationUserRegistration: {
			Flag: func(p *models.NotificationPreference) bool { return p.UserRegistrationNotifications },
		},
		models.NotificationUserApproved: {
			Flag: func(p *models.NotificationPreference) bool { return p.UserApprovalNotifications },
		},
		models.NotificationAccountActivated: {
			Flag: func(p *models.NotificationPreference) bool { return p.AccountActivationNotifications },
		},
	}
}

// Allowed evaluates the flag table for a preference record. Unknown
// categories default to allowed.
func (r CategoryRules) Allowed(prefs *models.NotificationPreference, t models.NotificationType) bool {
	rule, ok := r[t]
	if !ok {
		return true
	}
	return rule.Flag(prefs)
}

// QuietHoursExempt reports whether the category bypasses quiet hours.
func (r CategoryRules) QuietHoursExempt(t models.NotificationType) bool {
	rule, ok := r[t]
	return ok && rule.QuietHoursExempt
}
