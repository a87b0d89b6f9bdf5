package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes returned to API clients.
const (
	CodeNotFound          = "NOT_FOUND"
	CodeInactive          = "INACTIVE"
	CodeDuplicateEmail    = "DUPLICATE_EMAIL"
	CodeDuplicateUsername = "DUPLICATE_USERNAME"
	CodeAlreadyFollowing  = "ALREADY_FOLLOWING"
	CodeNotFollowing      = "NOT_FOLLOWING"
	CodeSelfReference     = "SELF_REFERENCE"
	CodeInvalidCreds      = "INVALID_CREDENTIALS"
	CodeInvalidToken      = "INVALID_OR_EXPIRED_TOKEN"
	CodeValidation        = "VALIDATION_ERROR"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeInternal          = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewInactiveError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeInactive,
		Message: fmt.Sprintf("%s with ID %v is inactive", resource, id),
	}
}

func NewInactiveParticipantsError() *AppError {
	return &AppError{
		Code:    CodeInactive,
		Message: "Both accounts are inactive",
	}
}

func NewDuplicateEmailError(email string) *AppError {
	return &AppError{
		Code:    CodeDuplicateEmail,
		Message: fmt.Sprintf("An account with email %s already exists", email),
	}
}

func NewDuplicateUsernameError(username string) *AppError {
	return &AppError{
		Code:    CodeDuplicateUsername,
		Message: fmt.Sprintf("An account with username %s already exists", username),
	}
}

func NewAlreadyFollowingError() *AppError {
	return &AppError{
		Code:    CodeAlreadyFollowing,
		Message: "Already following this account",
	}
}

func NewNotFollowingError() *AppError {
	return &AppError{
		Code:    CodeNotFollowing,
		Message: "Not following this account",
	}
}

func NewSelfReferenceError() *AppError {
	return &AppError{
		Code:    CodeSelfReference,
		Message: "An account cannot follow or unfollow itself",
	}
}

func NewInvalidCredentialsError() *AppError {
	return &AppError{
		Code:    CodeInvalidCreds,
		Message: "Invalid credentials",
	}
}

func NewInvalidTokenError() *AppError {
	return &AppError{
		Code:    CodeInvalidToken,
		Message: "Refresh token is invalid or expired",
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// StatusForError maps an application error to an HTTP status code.
func StatusForError(err error) int {
	appErr, ok := err.(*AppError)
	if !ok {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeDuplicateEmail, CodeDuplicateUsername, CodeAlreadyFollowing:
		return fiber.StatusConflict
	case CodeInactive, CodeNotFollowing, CodeSelfReference, CodeValidation:
		return fiber.StatusBadRequest
	case CodeInvalidCreds, CodeInvalidToken, CodeUnauthorized:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	if appErr, ok := err.(*AppError); ok {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
