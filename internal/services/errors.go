package services

import (
	"errors"
	"fmt"

	apperrors "github.com/eduMindSolutions/platform-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("resource conflict")

	// User lifecycle errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email address already registered")
	ErrApproverNotFound   = errors.New("approving user not found")
	ErrApproverNotAdmin   = errors.New("approving user is not an administrator")
	ErrUserNotApproved    = errors.New("user account is not approved")
	ErrUserAlreadyActive  = errors.New("user account is already active")

	// Notification errors
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotificationNotOwned = errors.New("notification belongs to another user")

	// Import/export errors
	ErrAssessmentTypeNotFound = errors.New("assessment type not found")
	ErrImportFileInvalid      = errors.New("import file is invalid")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// PermissionError carries the who/what/why of a denied action.
type PermissionError struct {
	UserID   uint   `json:"user_id"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
	Reason   string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %d cannot %s %s - %s",
		pe.UserID, pe.Action, pe.Resource, pe.Reason)
}

func NewPermissionError(userID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:   userID,
		Resource: resource,
		Action:   action,
		Reason:   reason,
	}
}

// ===== ERROR CLASSIFICATION =====

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrNotificationNotFound) ||
		errors.Is(err, ErrAssessmentTypeNotFound)
}

func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrNotificationNotOwned)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrImportFileInvalid) ||
		errors.Is(err, ErrBadRequest)
}

func IsConflictError(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, ErrUserAlreadyActive)
}
