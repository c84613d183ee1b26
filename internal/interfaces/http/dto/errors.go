package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal = "ERR_INTERNAL"
	ErrCodeUnknown  = "ERR_UNKNOWN"
)

// Request error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeValidation   = "ERR_VALIDATION"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeConflict      = "ERR_CONFLICT"
)

// Sync and platform error codes
const (
	// ErrCodeRefreshInProgress is used when a refresh for the site is already running
	ErrCodeRefreshInProgress = "ERR_REFRESH_IN_PROGRESS"
	// ErrCodeNoCredential is used when a site has no usable credential
	ErrCodeNoCredential = "ERR_NO_CREDENTIAL"
	// ErrCodeAlreadyNotified is used when a payment was already reported
	ErrCodeAlreadyNotified = "ERR_ALREADY_NOTIFIED"
	// ErrCodeNotDisconnected is used when the platform did not confirm a disconnect
	ErrCodeNotDisconnected = "ERR_NOT_DISCONNECTED"
	// ErrCodePlatform is used when a platform call failed
	ErrCodePlatform = "ERR_PLATFORM"
	// ErrCodePlatformUnavailable is used when the platform could not be reached
	ErrCodePlatformUnavailable = "ERR_PLATFORM_UNAVAILABLE"
	// ErrCodeInvalidState is used when an operation is invalid for the current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,
	ErrCodeUnknown:  http.StatusInternalServerError,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	ErrCodeRefreshInProgress:   http.StatusConflict,
	ErrCodeNoCredential:        http.StatusUnprocessableEntity,
	ErrCodeAlreadyNotified:     http.StatusConflict,
	ErrCodeNotDisconnected:     http.StatusBadGateway,
	ErrCodePlatform:            http.StatusBadGateway,
	ErrCodePlatformUnavailable: http.StatusServiceUnavailable,
	ErrCodeInvalidState:        http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodeMapping maps domain error codes to API error codes
var domainErrorCodeMapping = map[string]string{
	"NOT_FOUND":              ErrCodeNotFound,
	"ALREADY_EXISTS":         ErrCodeAlreadyExists,
	"INVALID_INPUT":          ErrCodeInvalidInput,
	"INVALID_STATE":          ErrCodeInvalidState,
	"UNAUTHORIZED":           ErrCodeUnauthorized,
	"FORBIDDEN":              ErrCodeForbidden,
	"REFRESH_IN_PROGRESS":    ErrCodeRefreshInProgress,
	"NO_CREDENTIAL":          ErrCodeNoCredential,
	"ALREADY_NOTIFIED":       ErrCodeAlreadyNotified,
	"NOT_DISCONNECTED":       ErrCodeNotDisconnected,
	"CONFLICT_RELOAD_FAILED": ErrCodeConflict,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Unmapped codes pass through unchanged.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := domainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
