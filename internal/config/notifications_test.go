package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eduMindSolutions/platform-service/internal/models"
)

func TestDefaultCategoryRules_FlagBindings(t *testing.T) {
	rules := DefaultCategoryRules()
	prefs := models.DefaultNotificationPreference(1)

	tests := []struct {
		name string
		typ  models.NotificationType
		flag *bool
	}{
		{"community reply", models.NotificationCommunityReply, &prefs.CommunityNotifications},
		{"community like", models.NotificationCommunityLike, &prefs.CommunityNotifications},
		{"assessment reminder", models.NotificationAssessmentReminder, &prefs.AssessmentReminders},
		{"crisis alert", models.NotificationCrisisAlert, &prefs.CrisisAlerts},
		{"guide message", models.NotificationGuideMessage, &prefs.GuideMessages},
		{"system update", models.NotificationSystemUpdate, &prefs.SystemUpdates},
		{"user registration", models.NotificationUserRegistration, &prefs.UserRegistrationNotifications},
		{"user approved", models.NotificationUserApproved, &prefs.UserApprovalNotifications},
		{"account activated", models.NotificationAccountActivated, &prefs.AccountActivationNotifications},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			*tc.flag = true
			assert.True(t, rules.Allowed(prefs, tc.typ))
			*tc.flag = false
			assert.False(t, rules.Allowed(prefs, tc.typ))
			*tc.flag = true
		})
	}
}

func TestCategoryRules_UnknownCategoryAllowed(t *testing.T) {
	rules := DefaultCategoryRules()
	prefs := models.DefaultNotificationPreference(1)

	assert.True(t, rules.Allowed(prefs, models.NotificationMoodCheckin))
	assert.True(t, rules.Allowed(prefs, models.NotificationType("not_a_category")))
}

func TestCategoryRules_QuietHoursExempt(t *testing.T) {
	rules := DefaultCategoryRules()

	assert.True(t, rules.QuietHoursExempt(models.NotificationCrisisAlert))
	assert.False(t, rules.QuietHoursExempt(models.NotificationCommunityReply))
	assert.False(t, rules.QuietHoursExempt(models.NotificationType("not_a_category")))
}
