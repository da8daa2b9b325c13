package models

import (
	"time"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleGuide UserRole = "guide"
	RoleAdmin UserRole = "admin"
)

type User struct {
	ID          uint     `json:"id" gorm:"primaryKey"`
	Email       string   `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email"`
	DisplayName string   `json:"display_name" gorm:"not null;size:100" validate:"required,min=1,max=100"`
	Role        UserRole `json:"role" gorm:"size:20;index" validate:"omitempty,user_role"`

	// Approval workflow. Accounts start inactive and unapproved; an admin
	// approval sets is_approved, approved_at and approved_by together and the
	// transition happens at most once (there is no un-approval path).
	IsActive     bool       `json:"is_active"`
	IsApproved   bool       `json:"is_approved"`
	ApprovedAt   *time.Time `json:"approved_at"`
	ApprovedByID *uint      `json:"approved_by_id"`

	// Set by the wellness tracker; the daily reminder job skips users who
	// already checked in today.
	LastMoodCheckin *time.Time `json:"last_mood_checkin"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	ApprovedBy *User                   `json:"approved_by,omitempty" gorm:"foreignKey:ApprovedByID;constraint:OnDelete:SET NULL"`
	Preference *NotificationPreference `json:"preference,omitempty" gorm:"foreignKey:UserID"`
}

func (User) TableName() string {
	return "users"
}

// RoleDisplay returns a human-readable role name for message templates.
func (u *User) RoleDisplay() string {
	switch u.Role {
	case RoleGuide:
		return "Guide"
	case RoleAdmin:
		return "Administrator"
	default:
		return "Member"
	}
}
