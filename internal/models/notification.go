package models

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationType string
type NotificationPriority string

const (
	// Notification types
	NotificationCommunityReply     NotificationType = "community_reply"
	NotificationCommunityLike      NotificationType = "community_like"
	NotificationAssessmentReminder NotificationType = "assessment_reminder"
	NotificationCrisisAlert        NotificationType = "crisis_alert"
	NotificationGuideMessage       NotificationType = "guide_message"
	NotificationSystemUpdate       NotificationType = "system_update"
	NotificationMoodCheckin        NotificationType = "mood_checkin"
	NotificationPeerMatch          NotificationType = "peer_match"
	NotificationAchievement        NotificationType = "achievement"
	NotificationUserRegistration   NotificationType = "user_registration"
	NotificationUserApproved       NotificationType = "user_approved"
	NotificationAccountActivated   NotificationType = "account_activated"

	// Priority levels
	PriorityLow    NotificationPriority = "low"
	PriorityMedium NotificationPriority = "medium"
	PriorityHigh   NotificationPriority = "high"
	PriorityUrgent NotificationPriority = "urgent"
)

type Notification struct {
	ID      uint             `json:"id" gorm:"primaryKey"`
	UserID  uint             `json:"user_id" gorm:"not null;index"`
	Type    NotificationType `json:"notification_type" gorm:"column:notification_type;not null;index"`
	Title   string           `json:"title" gorm:"not null;size:255"`
	Message string           `json:"message" gorm:"type:text"`

	Priority   NotificationPriority `json:"priority" gorm:"size:10"`
	ActionURL  string               `json:"action_url" gorm:"size:500"`
	ActionText string               `json:"action_text" gorm:"size:100"`
	Metadata   datatypes.JSONMap    `json:"metadata" gorm:"type:jsonb"`

	// Status
	IsRead bool       `json:"is_read" gorm:"index"`
	ReadAt *time.Time `json:"read_at"`

	ExpiresAt *time.Time `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`

	// Relations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Notification) TableName() string {
	return "notifications"
}

// Expired reports whether the notification has passed its expiry timestamp.
func (n *Notification) Expired(now time.Time) bool {
	return n.ExpiresAt != nil && now.After(*n.ExpiresAt)
}

// NotificationPreference holds the per-user category toggles plus an optional
// quiet-hours window. The record is created lazily: a user without one is
// treated as "allow everything".
type NotificationPreference struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"user_id" gorm:"uniqueIndex;not null"`

	// Category toggles. The database schema defaults all of these to TRUE
	// (see migrations); DefaultNotificationPreference mirrors that in code.
	CommunityNotifications         bool `json:"community_notifications"`
	AssessmentReminders            bool `json:"assessment_reminders"`
	CrisisAlerts                   bool `json:"crisis_alerts"`
	GuideMessages                  bool `json:"guide_messages"`
	SystemUpdates                  bool `json:"system_updates"`
	UserRegistrationNotifications  bool `json:"user_registration_notifications"`
	UserApprovalNotifications      bool `json:"user_approval_notifications"`
	AccountActivationNotifications bool `json:"account_activation_notifications"`

	// Quiet hours are a same-day time-of-day window; both ends must be set
	// for the window to apply.
	QuietHoursStart *datatypes.Time `json:"quiet_hours_start" gorm:"type:time"`
	QuietHoursEnd   *datatypes.Time `json:"quiet_hours_end" gorm:"type:time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (NotificationPreference) TableName() string {
	return "notification_preferences"
}

// DefaultNotificationPreference returns the record materialized at
// registration time: every category enabled, no quiet hours.
func DefaultNotificationPreference(userID uint) *NotificationPreference {
	return &NotificationPreference{
		UserID:                         userID,
		CommunityNotifications:         true,
		AssessmentReminders:            true,
		CrisisAlerts:                   true,
		GuideMessages:                  true,
		SystemUpdates:                  true,
		UserRegistrationNotifications:  true,
		UserApprovalNotifications:      true,
		AccountActivationNotifications: true,
	}
}
