package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/eduMindSolutions/platform-service/internal/cache"
	"github.com/eduMindSolutions/platform-service/internal/models"
	"github.com/eduMindSolutions/platform-service/internal/repositories"
)

// fakeRepository is an in-memory repositories.Repository for service tests.
type fakeRepository struct {
	users         *fakeUserRepo
	notifications *fakeNotificationRepo
	preferences   *fakePreferenceRepo
	assessments   *fakeAssessmentRepo
	chat          *fakeChatRepo
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		users:         &fakeUserRepo{byID: map[uint]*models.User{}},
		notifications: &fakeNotificationRepo{},
		preferences:   &fakePreferenceRepo{byUser: map[uint]*models.NotificationPreference{}},
		assessments:   &fakeAssessmentRepo{types: map[uint]*models.AssessmentType{}},
		chat:          &fakeChatRepo{},
	}
}

func (r *fakeRepository) User() repositories.UserRepository                 { return r.users }
func (r *fakeRepository) Notification() repositories.NotificationRepository { return r.notifications }
func (r *fakeRepository) Preference() repositories.PreferenceRepository     { return r.preferences }
func (r *fakeRepository) Assessment() repositories.AssessmentRepository     { return r.assessments }
func (r *fakeRepository) Chat() repositories.ChatRepository                 { return r.chat }

// ===== USERS =====

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]*models.User
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	copied := *user
	f.byID[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.byID {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	copied := *user
	f.byID[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetActiveAdmins(ctx context.Context) ([]*models.User, error) {
	return f.filter(func(u *models.User) bool {
		return u.IsActive && u.Role == models.RoleAdmin
	}), nil
}

func (f *fakeUserRepo) GetActiveByRole(ctx context.Context, role models.UserRole) ([]*models.User, error) {
	return f.filter(func(u *models.User) bool {
		return u.IsActive && u.Role == role
	}), nil
}

func (f *fakeUserRepo) GetUsersNeedingMoodCheckin(ctx context.Context, cutoff time.Time) ([]*models.User, error) {
	return f.filter(func(u *models.User) bool {
		if !u.IsActive || u.Role != models.RoleUser {
			return false
		}
		return u.LastMoodCheckin == nil || u.LastMoodCheckin.Before(cutoff)
	}), nil
}

func (f *fakeUserRepo) filter(keep func(*models.User) bool) []*models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.User
	for id := uint(1); id <= f.nextID; id++ {
		user, ok := f.byID[id]
		if ok && keep(user) {
			copied := *user
			out = append(out, &copied)
		}
	}
	return out
}

// ===== NOTIFICATIONS =====

type fakeNotificationRepo struct {
	mu      sync.Mutex
	nextID  uint
	created []*models.Notification
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	n.ID = f.nextID
	n.CreatedAt = time.Now()
	copied := *n
	f.created = append(f.created, &copied)
	return nil
}

func (f *fakeNotificationRepo) CreateBatch(ctx context.Context, notifications []*models.Notification) error {
	for _, n := range notifications {
		if err := f.Create(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeNotificationRepo) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.created {
		if n.ID == id {
			copied := *n
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeNotificationRepo) GetByUser(ctx context.Context, userID uint, filters repositories.NotificationFilters) ([]*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Notification
	for _, n := range f.created {
		if n.UserID != userID {
			continue
		}
		if filters.Type != nil && n.Type != *filters.Type {
			continue
		}
		if filters.IsRead != nil && n.IsRead != *filters.IsRead {
			continue
		}
		copied := *n
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeNotificationRepo) CountUnreadByUser(ctx context.Context, userID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, n := range f.created {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) Update(ctx context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.created {
		if existing.ID == n.ID {
			copied := *n
			f.created[i] = &copied
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeNotificationRepo) MarkAllReadByUser(ctx context.Context, userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for _, n := range f.created {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &now
		}
	}
	return nil
}

func (f *fakeNotificationRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []*models.Notification
	var deleted int64
	for _, n := range f.created {
		if n.ExpiresAt != nil && n.ExpiresAt.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	f.created = kept
	return deleted, nil
}

func (f *fakeNotificationRepo) all() []*models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Notification, len(f.created))
	copy(out, f.created)
	return out
}

// ===== PREFERENCES =====

type fakePreferenceRepo struct {
	mu     sync.Mutex
	nextID uint
	byUser map[uint]*models.NotificationPreference
}

func (f *fakePreferenceRepo) GetByUser(ctx context.Context, userID uint) (*models.NotificationPreference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefs, ok := f.byUser[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *prefs
	return &copied, nil
}

func (f *fakePreferenceRepo) Create(ctx context.Context, prefs *models.NotificationPreference) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	prefs.ID = f.nextID
	copied := *prefs
	f.byUser[prefs.UserID] = &copied
	return nil
}

func (f *fakePreferenceRepo) Update(ctx context.Context, prefs *models.NotificationPreference) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byUser[prefs.UserID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *prefs
	f.byUser[prefs.UserID] = &copied
	return nil
}

// ===== ASSESSMENTS =====

type fakeAssessmentRepo struct {
	mu        sync.Mutex
	nextID    uint
	types     map[uint]*models.AssessmentType
	questions []*models.AssessmentQuestion
}

func (f *fakeAssessmentRepo) CreateType(ctx context.Context, t *models.AssessmentType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	t.ID = f.nextID
	copied := *t
	f.types[t.ID] = &copied
	return nil
}

func (f *fakeAssessmentRepo) GetTypeByID(ctx context.Context, id uint) (*models.AssessmentType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.types[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (f *fakeAssessmentRepo) GetTypeByName(ctx context.Context, name string) (*models.AssessmentType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.types {
		if t.Name == name {
			copied := *t
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeAssessmentRepo) ListTypes(ctx context.Context) ([]*models.AssessmentType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.AssessmentType
	for id := uint(1); id <= f.nextID; id++ {
		if t, ok := f.types[id]; ok {
			copied := *t
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeAssessmentRepo) CreateQuestion(ctx context.Context, q *models.AssessmentQuestion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	q.ID = uint(len(f.questions) + 1)
	copied := *q
	f.questions = append(f.questions, &copied)
	return nil
}

func (f *fakeAssessmentRepo) CreateQuestionsBatch(ctx context.Context, questions []*models.AssessmentQuestion) error {
	for _, q := range questions {
		if err := f.CreateQuestion(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeAssessmentRepo) GetQuestionsByType(ctx context.Context, assessmentTypeID uint) ([]*models.AssessmentQuestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.AssessmentQuestion
	for _, q := range f.questions {
		if q.AssessmentTypeID == assessmentTypeID {
			copied := *q
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeAssessmentRepo) CreateResponse(ctx context.Context, response *models.AssessmentResponse) error {
	return nil
}

// ===== CHAT =====

type fakeChatRepo struct {
	mu       sync.Mutex
	messages []*models.ChatMessage
}

func (f *fakeChatRepo) CreateMessage(ctx context.Context, message *models.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	message.ID = uint(len(f.messages) + 1)
	message.CreatedAt = time.Now()
	copied := *message
	f.messages = append(f.messages, &copied)
	return nil
}

func (f *fakeChatRepo) GetRoomMessages(ctx context.Context, roomID uint, limit, offset int) ([]*models.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.ChatMessage
	for _, m := range f.messages {
		if m.RoomID == roomID {
			copied := *m
			out = append(out, &copied)
		}
	}
	return out, nil
}

// ===== CACHE =====

// claimTrackingCache wraps the noop cache and records idempotency claims so
// tests can simulate duplicate deliveries.
type claimTrackingCache struct {
	mu      sync.Mutex
	claimed map[string]bool
}

func newClaimTrackingCache() *claimTrackingCache {
	return &claimTrackingCache{claimed: map[string]bool{}}
}

func (c *claimTrackingCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return nil
}

func (c *claimTrackingCache) Get(ctx context.Context, key string, dest any) error {
	return cache.ErrCacheMiss
}

func (c *claimTrackingCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.claimed, key)
	return nil
}

func (c *claimTrackingCache) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.claimed[key] {
		return false, nil
	}
	c.claimed[key] = true
	return true, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(testLogWriter{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

type testLogWriter struct{}

func (testLogWriter) Write(p []byte) (int, error) { return len(p), nil }
