package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/eduMindSolutions/platform-service/internal/models"
	"github.com/eduMindSolutions/platform-service/internal/repositories"
)

func newTestRepository(t *testing.T) repositories.Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.NotificationPreference{},
		&models.Notification{},
		&models.AssessmentType{},
		&models.AssessmentQuestion{},
		&models.QuestionOption{},
		&models.AssessmentResponse{},
		&models.ChatMessage{},
	))
	return NewRepository(db)
}

func createUser(t *testing.T, repo repositories.Repository, email string, role models.UserRole, active bool) *models.User {
	t.Helper()
	user := &models.User{Email: email, DisplayName: "Test", Role: role, IsActive: active}
	require.NoError(t, repo.User().Create(context.Background(), user))
	return user
}

func TestUserRepository_CRUD(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	user := createUser(t, repo, "a@example.org", models.RoleUser, false)
	require.NotZero(t, user.ID)

	loaded, err := repo.User().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@example.org", loaded.Email)
	assert.False(t, loaded.IsApproved)

	_, err = repo.User().GetByID(ctx, 999)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	byEmail, err := repo.User().GetByEmail(ctx, "a@example.org")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = repo.User().GetByEmail(ctx, "missing@example.org")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	now := time.Now()
	loaded.IsApproved = true
	loaded.ApprovedAt = &now
	require.NoError(t, repo.User().Update(ctx, loaded))

	reloaded, err := repo.User().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsApproved)
	require.NotNil(t, reloaded.ApprovedAt)
}

func TestUserRepository_ActiveAdmins(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	createUser(t, repo, "admin1@example.org", models.RoleAdmin, true)
	createUser(t, repo, "admin2@example.org", models.RoleAdmin, false)
	createUser(t, repo, "guide@example.org", models.RoleGuide, true)
	createUser(t, repo, "user@example.org", models.RoleUser, true)

	admins, err := repo.User().GetActiveAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "admin1@example.org", admins[0].Email)
}

func TestUserRepository_NeedingMoodCheckin(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	cutoff := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	before := cutoff.Add(-2 * time.Hour)
	after := cutoff.Add(2 * time.Hour)

	never := createUser(t, repo, "never@example.org", models.RoleUser, true)

	stale := createUser(t, repo, "stale@example.org", models.RoleUser, true)
	stale.LastMoodCheckin = &before
	require.NoError(t, repo.User().Update(ctx, stale))

	fresh := createUser(t, repo, "fresh@example.org", models.RoleUser, true)
	fresh.LastMoodCheckin = &after
	require.NoError(t, repo.User().Update(ctx, fresh))

	// Guides are not part of the reminder audience.
	guide := createUser(t, repo, "guide@example.org", models.RoleGuide, true)
	guide.LastMoodCheckin = &before
	require.NoError(t, repo.User().Update(ctx, guide))

	users, err := repo.User().GetUsersNeedingMoodCheckin(ctx, cutoff)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, never.ID, users[0].ID)
	assert.Equal(t, stale.ID, users[1].ID)
}

func TestPreferenceRepository_NotFoundAndUpsert(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	user := createUser(t, repo, "a@example.org", models.RoleUser, true)

	_, err := repo.Preference().GetByUser(ctx, user.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	prefs := models.DefaultNotificationPreference(user.ID)
	require.NoError(t, repo.Preference().Create(ctx, prefs))

	loaded, err := repo.Preference().GetByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, loaded.CommunityNotifications)
	assert.True(t, loaded.AccountActivationNotifications)
	assert.Nil(t, loaded.QuietHoursStart)

	loaded.GuideMessages = false
	require.NoError(t, repo.Preference().Update(ctx, loaded))

	reloaded, err := repo.Preference().GetByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.GuideMessages)
	assert.True(t, reloaded.SystemUpdates, "other flags are untouched")
}

func TestNotificationRepository_FiltersAndExpiry(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	user := createUser(t, repo, "a@example.org", models.RoleUser, true)
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	notifications := []*models.Notification{
		{UserID: user.ID, Type: models.NotificationCommunityReply, Title: "reply", Priority: models.PriorityMedium},
		{UserID: user.ID, Type: models.NotificationCrisisAlert, Title: "crisis", Priority: models.PriorityUrgent},
		{UserID: user.ID, Type: models.NotificationMoodCheckin, Title: "expired", Priority: models.PriorityLow, ExpiresAt: &past},
		{UserID: user.ID, Type: models.NotificationMoodCheckin, Title: "fresh", Priority: models.PriorityLow, ExpiresAt: &future},
	}
	require.NoError(t, repo.Notification().CreateBatch(ctx, notifications))

	// Expired rows are hidden by default.
	visible, err := repo.Notification().GetByUser(ctx, user.ID, repositories.NotificationFilters{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, visible, 3)

	all, err := repo.Notification().GetByUser(ctx, user.ID, repositories.NotificationFilters{Limit: 10, IncludeExpired: true})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	crisis := models.NotificationCrisisAlert
	onlyCrisis, err := repo.Notification().GetByUser(ctx, user.ID, repositories.NotificationFilters{Limit: 10, Type: &crisis})
	require.NoError(t, err)
	require.Len(t, onlyCrisis, 1)
	assert.Equal(t, "crisis", onlyCrisis[0].Title)

	count, err := repo.Notification().CountUnreadByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count, "expired rows do not count as unread")

	deleted, err := repo.Notification().DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)
}

func TestNotificationRepository_MarkAllRead(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	user := createUser(t, repo, "a@example.org", models.RoleUser, true)
	other := createUser(t, repo, "b@example.org", models.RoleUser, true)

	require.NoError(t, repo.Notification().CreateBatch(ctx, []*models.Notification{
		{UserID: user.ID, Type: models.NotificationCommunityReply, Title: "one"},
		{UserID: user.ID, Type: models.NotificationCommunityLike, Title: "two"},
		{UserID: other.ID, Type: models.NotificationCommunityReply, Title: "theirs"},
	}))

	require.NoError(t, repo.Notification().MarkAllReadByUser(ctx, user.ID))

	count, err := repo.Notification().CountUnreadByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	otherCount, err := repo.Notification().CountUnreadByUser(ctx, other.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, otherCount, "other users are untouched")

	isRead := true
	read, err := repo.Notification().GetByUser(ctx, user.ID, repositories.NotificationFilters{Limit: 10, IsRead: &isRead})
	require.NoError(t, err)
	for _, n := range read {
		assert.NotNil(t, n.ReadAt)
	}
}

func TestAssessmentRepository_QuestionsWithOptions(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	assessmentType := &models.AssessmentType{Name: "GAD7", TotalQuestions: 7, MaxScore: 21, IsStandard: true}
	require.NoError(t, repo.Assessment().CreateType(ctx, assessmentType))

	byName, err := repo.Assessment().GetTypeByName(ctx, "GAD7")
	require.NoError(t, err)
	assert.Equal(t, assessmentType.ID, byName.ID)

	questions := []*models.AssessmentQuestion{
		{
			AssessmentTypeID: assessmentType.ID,
			Text:             "Feeling nervous, anxious or on edge",
			QuestionNumber:   1,
			QuestionType:     models.MultipleChoice,
			Options: []models.QuestionOption{
				{Text: "Nearly every day", Score: 3, Order: 1},
				{Text: "Not at all", Score: 0, Order: 0},
			},
		},
		{
			AssessmentTypeID: assessmentType.ID,
			Text:             "Not being able to stop worrying",
			QuestionNumber:   2,
			QuestionType:     models.MultipleChoice,
		},
	}
	require.NoError(t, repo.Assessment().CreateQuestionsBatch(ctx, questions))

	loaded, err := repo.Assessment().GetQuestionsByType(ctx, assessmentType.ID)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, 1, loaded[0].QuestionNumber)

	// Options come back ordered by their display order, not insert order.
	require.Len(t, loaded[0].Options, 2)
	assert.Equal(t, "Not at all", loaded[0].Options[0].Text)
	assert.Equal(t, "Nearly every day", loaded[0].Options[1].Text)
}

func TestChatRepository_Messages(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	user := createUser(t, repo, "a@example.org", models.RoleUser, true)

	voiceFile := "chat/voice/123.webm"
	duration := uint(12)
	require.NoError(t, repo.Chat().CreateMessage(ctx, &models.ChatMessage{
		RoomID: 1, SenderID: user.ID, MessageType: models.MessageText, Content: "hello",
	}))
	require.NoError(t, repo.Chat().CreateMessage(ctx, &models.ChatMessage{
		RoomID: 1, SenderID: user.ID, MessageType: models.MessageVoice,
		VoiceFile: &voiceFile, Duration: &duration, MimeType: "audio/webm",
	}))
	require.NoError(t, repo.Chat().CreateMessage(ctx, &models.ChatMessage{
		RoomID: 2, SenderID: user.ID, MessageType: models.MessageText, Content: "other room",
	}))

	messages, err := repo.Chat().GetRoomMessages(ctx, 1, 10, 0)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	for _, m := range messages {
		assert.EqualValues(t, 1, m.RoomID)
	}
}
