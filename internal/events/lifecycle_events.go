package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType represents the user lifecycle transitions published on the bus.
type EventType string

const (
	EventUserRegistered EventType = "user.registered"
	EventUserApproved   EventType = "user.approved"
	EventUserActivated  EventType = "user.activated"
)

// LifecycleEvent is the envelope for all lifecycle events. IdempotencyKey is
// deterministic per transition so consumers can deduplicate redeliveries.
type LifecycleEvent struct {
	ID             string         `json:"id"`
	Type           EventType      `json:"type"`
	Timestamp      time.Time      `json:"timestamp"`
	Source         string         `json:"source"`
	Version        string         `json:"version"`
	IdempotencyKey string         `json:"idempotency_key"`
	Data           any            `json:"data"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

const eventSource = "platform-service"

// Event payloads

type UserRegisteredEvent struct {
	UserID      uint      `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	RegisteredAt time.Time `json:"registered_at"`
}

type UserApprovedEvent struct {
	UserID        uint      `json:"user_id"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"display_name"`
	ApprovedAt    time.Time `json:"approved_at"`
	ApproverID    *uint     `json:"approver_id,omitempty"`
	ApproverEmail string    `json:"approver_email,omitempty"`
}

type UserActivatedEvent struct {
	UserID      uint   `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// Event factory functions

func NewUserRegisteredEvent(userID uint, email, displayName, role string, registeredAt time.Time) *LifecycleEvent {
	return &LifecycleEvent{
		ID:             GenerateEventID(),
		Type:           EventUserRegistered,
		Timestamp:      time.Now(),
		Source:         eventSource,
		Version:        "1.0",
		IdempotencyKey: fmt.Sprintf("user-registered-%d", userID),
		Data: UserRegisteredEvent{
			UserID:       userID,
			Email:        email,
			DisplayName:  displayName,
			Role:         role,
			RegisteredAt: registeredAt,
		},
	}
}

func NewUserApprovedEvent(userID uint, email, displayName string, approvedAt time.Time, approverID *uint, approverEmail string) *LifecycleEvent {
	return &LifecycleEvent{
		ID:             GenerateEventID(),
		Type:           EventUserApproved,
		Timestamp:      time.Now(),
		Source:         eventSource,
		Version:        "1.0",
		IdempotencyKey: fmt.Sprintf("user-approved-%d", userID),
		Data: UserApprovedEvent{
			UserID:        userID,
			Email:         email,
			DisplayName:   displayName,
			ApprovedAt:    approvedAt,
			ApproverID:    approverID,
			ApproverEmail: approverEmail,
		},
	}
}

func NewUserActivatedEvent(userID uint, email, displayName string) *LifecycleEvent {
	return &LifecycleEvent{
		ID:             GenerateEventID(),
		Type:           EventUserActivated,
		Timestamp:      time.Now(),
		Source:         eventSource,
		Version:        "1.0",
		IdempotencyKey: fmt.Sprintf("user-activated-%d", userID),
		Data: UserActivatedEvent{
			UserID:      userID,
			Email:       email,
			DisplayName: displayName,
		},
	}
}

// GenerateEventID returns a unique event identifier.
func GenerateEventID() string {
	return uuid.NewString()
}
