package utils

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/eduMindSolutions/platform-service/internal/errors"
	"github.com/eduMindSolutions/platform-service/internal/models"
)

// Validator wraps go-playground/validator with the platform's custom rules.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New()
	registerCustomValidators(validate)
	return &Validator{validate: validate}
}

// ValidateStruct validates struct tags, returning field-level errors with
// user-facing messages.
func (v *Validator) ValidateStruct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		if verrs := apperrors.ToValidationErrors(err); len(verrs) > 0 {
			return verrs
		}
		return err
	}
	return nil
}

// Custom validation functions

func validateNotificationType(fl validator.FieldLevel) bool {
	validTypes := []models.NotificationType{
		models.NotificationCommunityReply,
		models.NotificationCommunityLike,
		models.NotificationAssessmentReminder,
		models.NotificationCrisisAlert,
		models.NotificationGuideMessage,
		models.NotificationSystemUpdate,
		models.NotificationMoodCheckin,
		models.NotificationPeerMatch,
		models.NotificationAchievement,
		models.NotificationUserRegistration,
		models.NotificationUserApproved,
		models.NotificationAccountActivated,
	}

	value := fl.Field().String()
	for _, validType := range validTypes {
		if string(validType) == value {
			return true
		}
	}
	return false
}

func validateNotificationPriority(fl validator.FieldLevel) bool {
	validPriorities := []models.NotificationPriority{
		models.PriorityLow,
		models.PriorityMedium,
		models.PriorityHigh,
		models.PriorityUrgent,
	}

	value := fl.Field().String()
	for _, validPriority := range validPriorities {
		if string(validPriority) == value {
			return true
		}
	}
	return false
}

func validateQuestionType(fl validator.FieldLevel) bool {
	validTypes := []models.QuestionType{
		models.MultipleChoice,
		models.MultipleSelect,
		models.TextInput,
		models.RatingScale,
		models.YesNo,
		models.LikertScale,
	}

	value := fl.Field().String()
	for _, validType := range validTypes {
		if string(validType) == value {
			return true
		}
	}
	return false
}

func validateUserRole(fl validator.FieldLevel) bool {
	validRoles := []models.UserRole{
		models.RoleUser,
		models.RoleGuide,
		models.RoleAdmin,
	}

	value := fl.Field().String()
	for _, validRole := range validRoles {
		if string(validRole) == value {
			return true
		}
	}
	return false
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("notification_type", validateNotificationType)
	validate.RegisterValidation("notification_priority", validateNotificationPriority)
	validate.RegisterValidation("question_type", validateQuestionType)
	validate.RegisterValidation("user_role", validateUserRole)

	// Report json field names in validation errors
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
