package services

import (
	"fmt"

	"github.com/eduMindSolutions/platform-service/internal/models"
)

// Canned notification requests. Wording and priorities live here so every
// producer (lifecycle reactors, reminder jobs, community handlers) sends the
// same copy for the same event.

func intPtr(v int) *int { return &v }

func NewCommunityReplyRequest(postTitle, replyAuthor string, postID uint) *NotificationRequest {
	return &NotificationRequest{
		Type:       models.NotificationCommunityReply,
		Title:      "New Reply to Your Post",
		Message:    fmt.Sprintf("%s replied to your post %q", replyAuthor, postTitle),
		Priority:   models.PriorityMedium,
		ActionURL:  fmt.Sprintf("/community/posts/%d", postID),
		ActionText: "View Reply",
		Metadata:   map[string]any{"post_id": postID},
		ExpiresInDays: intPtr(30),
	}
}

func NewAssessmentReminderRequest(assessmentName string) *NotificationRequest {
	return &NotificationRequest{
		Type:          models.NotificationAssessmentReminder,
		Title:         "Assessment Reminder",
		Message:       fmt.Sprintf("It's time to take your %s assessment", assessmentName),
		Priority:      models.PriorityMedium,
		ActionURL:     "/assessments",
		ActionText:    "Take Assessment",
		ExpiresInDays: intPtr(7),
	}
}

func NewCrisisAlertRequest(message string) *NotificationRequest {
	return &NotificationRequest{
		Type:       models.NotificationCrisisAlert,
		Title:      "Crisis Support Available",
		Message:    message,
		Priority:   models.PriorityUrgent,
		ActionURL:  "/crisis-support",
		ActionText: "Get Help Now",
	}
}

func NewMoodCheckinRequest() *NotificationRequest {
	return &NotificationRequest{
		Type:          models.NotificationMoodCheckin,
		Title:         "Daily Mood Check-in",
		Message:       "Take a moment to record how you're feeling today.",
		Priority:      models.PriorityLow,
		ActionURL:     "/wellness/mood-tracker",
		ActionText:    "Check In",
		ExpiresInDays: intPtr(1),
	}
}

func NewWeeklyChallengeDigestRequest() *NotificationRequest {
	return &NotificationRequest{
		Type:          models.NotificationSystemUpdate,
		Title:         "Weekly Challenge Digest",
		Message:       "New wellness challenges are available this week. Join one to keep your streak going.",
		Priority:      models.PriorityLow,
		ActionURL:     "/wellness/challenges",
		ActionText:    "View Challenges",
		ExpiresInDays: intPtr(7),
	}
}

func NewPeerMatchRequest(peerName string) *NotificationRequest {
	return &NotificationRequest{
		Type:       models.NotificationPeerMatch,
		Title:      "New Peer Match!",
		Message:    fmt.Sprintf("You've been matched with %s based on your shared experiences", peerName),
		Priority:   models.PriorityMedium,
		ActionURL:  "/peer-support",
		ActionText: "View Match",
	}
}

func NewAchievementRequest(name, description string) *NotificationRequest {
	return &NotificationRequest{
		Type:       models.NotificationAchievement,
		Title:      "Achievement Unlocked!",
		Message:    fmt.Sprintf("%s: %s", name, description),
		Priority:   models.PriorityLow,
		ActionURL:  "/achievements",
		ActionText: "View Achievements",
	}
}

func NewUserRegistrationRequest(newUser *models.User) *NotificationRequest {
	return &NotificationRequest{
		Type:  models.NotificationUserRegistration,
		Title: "New User Registration",
		Message: fmt.Sprintf("%s (%s) has registered as %s and is awaiting approval",
			newUser.DisplayName, newUser.Email, newUser.RoleDisplay()),
		Priority:   models.PriorityHigh,
		ActionURL:  "/admin/accounts",
		ActionText: "Review Registration",
		Metadata:   map[string]any{"registered_user_id": newUser.ID},
	}
}

func NewUserApprovedRequest() *NotificationRequest {
	return &NotificationRequest{
		Type:       models.NotificationUserApproved,
		Title:      "Account Approved",
		Message:    "Your account has been approved. Welcome to eduMindSolutions!",
		Priority:   models.PriorityHigh,
		ActionURL:  "/dashboard",
		ActionText: "Get Started",
	}
}

func NewAccountActivatedRequest() *NotificationRequest {
	return &NotificationRequest{
		Type:       models.NotificationAccountActivated,
		Title:      "Account Activated",
		Message:    "Your account is now active. You have full access to all platform features.",
		Priority:   models.PriorityMedium,
		ActionURL:  "/profile",
		ActionText: "Complete Your Profile",
	}
}
