package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
	ErrorTypeExternal     ErrorType = "EXTERNAL_ERROR"
)

// ForbiddenStatus is the HTTP status used for role mismatches. Existing
// clients expect 401 rather than 403.
const ForbiddenStatus = http.StatusUnauthorized

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidEmail     ErrorCode = "INVALID_EMAIL"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidValue     ErrorCode = "INVALID_VALUE"

	ErrCodeDuplicateUser    ErrorCode = "DUPLICATE_USER"
	ErrCodeDuplicateCompany ErrorCode = "DUPLICATE_COMPANY"
	ErrCodeBookingConflict  ErrorCode = "BOOKING_CONFLICT"

	ErrCodeUserNotFound     ErrorCode = "USER_NOT_FOUND"
	ErrCodeRequestNotFound  ErrorCode = "REQUEST_NOT_FOUND"
	ErrCodeNoRequests       ErrorCode = "NO_REQUESTS"
	ErrCodeFacilityNotFound ErrorCode = "FACILITY_NOT_FOUND"
	ErrCodeRoomNotFound     ErrorCode = "ROOM_NOT_FOUND"
	ErrCodeRoleNotFound     ErrorCode = "ROLE_NOT_FOUND"
	ErrCodeCompanyNotFound  ErrorCode = "COMPANY_NOT_FOUND"
	ErrCodeRouteNotFound    ErrorCode = "ROUTE_NOT_FOUND"

	ErrCodeInvalidRequestStatus ErrorCode = "INVALID_REQUEST_STATUS"
	ErrCodeInvalidTransition    ErrorCode = "INVALID_STATUS_TRANSITION"
	ErrCodeInvalidSignupToken   ErrorCode = "INVALID_SIGNUP_TOKEN"
	ErrCodeManagerRequired      ErrorCode = "MANAGER_REQUIRED"
	ErrCodeRequestNotApproved   ErrorCode = "REQUEST_NOT_APPROVED"
	ErrCodeInvalidOAuthState    ErrorCode = "INVALID_OAUTH_STATE"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeMissingToken       ErrorCode = "MISSING_TOKEN"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeAccessDenied       ErrorCode = "ACCESS_DENIED"
	ErrCodeUnauthorizedUser   ErrorCode = "UNAUTHORIZED_USER"

	ErrCodeStorage       ErrorCode = "STORAGE_ERROR"
	ErrCodeOAuthProvider ErrorCode = "OAUTH_PROVIDER_ERROR"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// PublicMessage is the message shown to clients. For validation errors it is
// the first field message.
func (e *AppError) PublicMessage() string {
	if field := e.FirstField(); field != nil {
		return field.Message
	}
	return e.Message
}

// FirstField returns the first field-level validation error, if any.
func (e *AppError) FirstField() *ValidationError {
	if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
		return &validationErrors.Errors[0]
	}
	return nil
}

func (e *AppError) GetDetailedMessage() string {
	if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 1 {
		messages := make([]string, len(validationErrors.Errors))
		for i, err := range validationErrors.Errors {
			messages[i] = err.Message
		}
		return strings.Join(messages, "; ")
	}
	return e.PublicMessage()
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause returns a copy carrying cause, so shared sentinel values stay untouched.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// Is matches two AppErrors by type and code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: ForbiddenStatus,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodeStorage,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewStorageError wraps a persistence failure. The cause is never shown to
// clients outside development mode.
func NewStorageError(op string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodeStorage,
		Message:    fmt.Sprintf("%s: a server error prevented your request from being completed", op),
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewExternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeExternal,
		Code:       ErrCodeOAuthProvider,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

var (
	ErrInvalidCredentials = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrMissingToken       = NewUnauthorizedError("Access denied, no token provided", ErrCodeMissingToken)
	ErrInvalidToken       = NewUnauthorizedError("Invalid or expired token", ErrCodeInvalidToken)
	ErrAccessDenied       = NewUnauthorizedError("Access denied, check your inputed details", ErrCodeAccessDenied)
	ErrUnauthorizedUser   = NewForbiddenError("You are an unauthorized user", ErrCodeUnauthorizedUser)
	ErrRouteNotFound      = NewNotFoundError("route not found", ErrCodeRouteNotFound)
)

// IsAppError unwraps err looking for an *AppError.
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
