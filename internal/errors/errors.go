package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeValidation           = "VALIDATION_ERROR"
	ErrCodeInternal             = "INTERNAL_ERROR"
	ErrCodeBadRequest           = "BAD_REQUEST"
	ErrCodeForbidden            = "FORBIDDEN"
	ErrCodeInvalidReference     = "INVALID_REFERENCE"
	ErrCodeInvalidState         = "INVALID_STATE"
	ErrCodeGameUnavailable      = "GAME_UNAVAILABLE"
	ErrCodeInconsistentInput    = "INCONSISTENT_INPUT"
	ErrCodeAlreadyUsed          = "ALREADY_USED"
	ErrCodeUnsupported          = "UNSUPPORTED"
	ErrCodeNoQuestionsAvailable = "NO_QUESTIONS_AVAILABLE"
	ErrCodeConfiguration        = "CONFIGURATION_ERROR"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "INVALID_STATE")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// HasCode reports whether err is, or wraps, an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// As extracts the AppError from err, if any.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// NewForbiddenError is returned when the caller lacks the capability for an admin operation.
func NewForbiddenError(capability string) *AppError {
	return &AppError{
		Code:    ErrCodeForbidden,
		Message: fmt.Sprintf("missing capability: %s", capability),
		Status:  403,
	}
}

// NewInvalidReferenceError flags an entity that does not belong to the claimed parent.
func NewInvalidReferenceError(resource string, id interface{}, parent string, parentID interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidReference,
		Message: fmt.Sprintf("%s %v does not belong to %s %v", resource, id, parent, parentID),
		Status:  400,
	}
}

// NewInvalidStateError flags an operation that is not allowed in the entity's current state.
func NewInvalidStateError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidState,
		Message: message,
		Status:  409,
	}
}

// NewGameUnavailableError is returned when a session no longer accepts answers.
func NewGameUnavailableError(sessionID int64, state string) *AppError {
	return &AppError{
		Code:    ErrCodeGameUnavailable,
		Message: fmt.Sprintf("game session %d is %s", sessionID, state),
		Status:  409,
	}
}

// NewInconsistentInputError is returned when the client acts on a stale view of the session.
func NewInconsistentInputError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInconsistentInput,
		Message: message,
		Status:  409,
	}
}

// NewAlreadyUsedError is returned when a joker type was already consumed in a session.
func NewAlreadyUsedError(jokerType string, sessionID int64) *AppError {
	return &AppError{
		Code:    ErrCodeAlreadyUsed,
		Message: fmt.Sprintf("joker %s was already used in game session %d", jokerType, sessionID),
		Status:  409,
	}
}

// NewUnsupportedError flags bank content the engine cannot score.
func NewUnsupportedError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnsupported,
		Message: message,
		Status:  422,
	}
}

// NewNoQuestionsAvailableError is returned when a level has no eligible bank question.
func NewNoQuestionsAvailableError(levelID int64) *AppError {
	return &AppError{
		Code:    ErrCodeNoQuestionsAvailable,
		Message: fmt.Sprintf("no eligible questions available for level %d", levelID),
		Status:  422,
	}
}

// NewConfigurationError flags a game that cannot be played as configured.
func NewConfigurationError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConfiguration,
		Message: message,
		Status:  503,
	}
}
