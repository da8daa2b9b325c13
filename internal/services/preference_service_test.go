package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/eduMindSolutions/platform-service/internal/cache"
	"github.com/eduMindSolutions/platform-service/internal/config"
	"github.com/eduMindSolutions/platform-service/internal/models"
)

func newTestPreferenceService(repo *fakeRepository) *preferenceService {
	svc := NewPreferenceService(repo, cache.NoopCache{}, config.DefaultCategoryRules(), testLogger())
	return svc.(*preferenceService)
}

func timeOfDay(h, m int) *datatypes.Time {
	t := datatypes.NewTime(h, m, 0, 0)
	return &t
}

func TestShouldNotify_NoPreferenceRecordAllowsEverything(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestPreferenceService(repo)
	ctx := context.Background()

	for _, notificationType := range []models.NotificationType{
		models.NotificationCommunityReply,
		models.NotificationCrisisAlert,
		models.NotificationMoodCheckin,
		models.NotificationType("something_new"),
	} {
		allowed, err := svc.ShouldNotify(ctx, 42, notificationType)
		require.NoError(t, err)
		assert.True(t, allowed, "type %s should be allowed without a record", notificationType)
	}
}

func TestShouldNotify_CategoryFlags(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestPreferenceService(repo)
	ctx := context.Background()

	prefs := models.DefaultNotificationPreference(1)
	prefs.CommunityNotifications = false
	prefs.SystemUpdates = false
	require.NoError(t, repo.Preference().Create(ctx, prefs))

	tests := []struct {
		notificationType models.NotificationType
		want             bool
	}{
		{models.NotificationCommunityReply, false},
		{models.NotificationCommunityLike, false},
		{models.NotificationSystemUpdate, false},
		{models.NotificationAssessmentReminder, true},
		{models.NotificationCrisisAlert, true},
		{models.NotificationGuideMessage, true},
		// Unknown categories are always allowed.
		{models.NotificationMoodCheckin, true},
		{models.NotificationType("future_category"), true},
	}
	for _, tt := range tests {
		allowed, err := svc.ShouldNotify(ctx, 1, tt.notificationType)
		require.NoError(t, err)
		assert.Equal(t, tt.want, allowed, "type %s", tt.notificationType)
	}
}

func TestShouldNotify_QuietHours(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestPreferenceService(repo)
	ctx := context.Background()

	prefs := models.DefaultNotificationPreference(1)
	prefs.QuietHoursStart = timeOfDay(22, 0)
	prefs.QuietHoursEnd = timeOfDay(23, 30)
	require.NoError(t, repo.Preference().Create(ctx, prefs))

	// 22:45, inside the window.
	svc.now = func() time.Time {
		return time.Date(2025, 6, 1, 22, 45, 0, 0, time.UTC)
	}

	allowed, err := svc.ShouldNotify(ctx, 1, models.NotificationCommunityReply)
	require.NoError(t, err)
	assert.False(t, allowed, "non-exempt categories are silenced in quiet hours")

	allowed, err = svc.ShouldNotify(ctx, 1, models.NotificationCrisisAlert)
	require.NoError(t, err)
	assert.True(t, allowed, "crisis alerts bypass quiet hours")

	// The window is inclusive at both ends.
	svc.now = func() time.Time {
		return time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC)
	}
	allowed, err = svc.ShouldNotify(ctx, 1, models.NotificationGuideMessage)
	require.NoError(t, err)
	assert.False(t, allowed)

	// 21:59, outside the window: the flag table applies again.
	svc.now = func() time.Time {
		return time.Date(2025, 6, 1, 21, 59, 0, 0, time.UTC)
	}
	allowed, err = svc.ShouldNotify(ctx, 1, models.NotificationCommunityReply)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestShouldNotify_QuietHoursRequireBothEnds(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestPreferenceService(repo)
	ctx := context.Background()

	prefs := models.DefaultNotificationPreference(1)
	prefs.QuietHoursStart = timeOfDay(0, 0)
	require.NoError(t, repo.Preference().Create(ctx, prefs))

	svc.now = func() time.Time {
		return time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC)
	}
	allowed, err := svc.ShouldNotify(ctx, 1, models.NotificationCommunityReply)
	require.NoError(t, err)
	assert.True(t, allowed, "a half-open window never applies")
}

func TestShouldNotify_QuietHoursSameDayOnly(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestPreferenceService(repo)
	ctx := context.Background()

	// An overnight window (start after end) never matches.
	prefs := models.DefaultNotificationPreference(1)
	prefs.QuietHoursStart = timeOfDay(22, 0)
	prefs.QuietHoursEnd = timeOfDay(6, 0)
	require.NoError(t, repo.Preference().Create(ctx, prefs))

	svc.now = func() time.Time {
		return time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC)
	}
	allowed, err := svc.ShouldNotify(ctx, 1, models.NotificationCommunityReply)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestUpdatePreferences(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestPreferenceService(repo)
	ctx := context.Background()

	disabled := false
	start := "22:00"
	end := "23:30:00"
	prefs, err := svc.Update(ctx, 7, &UpdatePreferenceRequest{
		CommunityNotifications: &disabled,
		QuietHoursStart:        &start,
		QuietHoursEnd:          &end,
	})
	require.NoError(t, err)

	assert.False(t, prefs.CommunityNotifications)
	assert.True(t, prefs.AssessmentReminders, "untouched flags keep their defaults")
	require.NotNil(t, prefs.QuietHoursStart)
	require.NotNil(t, prefs.QuietHoursEnd)
	assert.Equal(t, datatypes.NewTime(22, 0, 0, 0), *prefs.QuietHoursStart)
	assert.Equal(t, datatypes.NewTime(23, 30, 0, 0), *prefs.QuietHoursEnd)

	// Clearing removes the window.
	prefs, err = svc.Update(ctx, 7, &UpdatePreferenceRequest{ClearQuietHours: true})
	require.NoError(t, err)
	assert.Nil(t, prefs.QuietHoursStart)
	assert.Nil(t, prefs.QuietHoursEnd)
}

func TestUpdatePreferences_RejectsBadTime(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestPreferenceService(repo)

	bad := "25:99"
	_, err := svc.Update(context.Background(), 7, &UpdatePreferenceRequest{QuietHoursStart: &bad})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestEnsureDefaults_Idempotent(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestPreferenceService(repo)
	ctx := context.Background()

	first, err := svc.EnsureDefaults(ctx, 3)
	require.NoError(t, err)
	assert.True(t, first.CrisisAlerts)

	// Flip a flag, then ensure again: the record must survive.
	first.CrisisAlerts = false
	require.NoError(t, repo.Preference().Update(ctx, first))

	second, err := svc.EnsureDefaults(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.False(t, second.CrisisAlerts)
}
