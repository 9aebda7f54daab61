// Package errors defines the application error taxonomy. Every AppError
// carries a Hebrew user-facing message and an English diagnostic detail;
// only the Hebrew message is ever returned to clients.
package errors

import (
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ValidationError    ErrorType = "VALIDATION_ERROR"
	ConfigurationError ErrorType = "CONFIGURATION_ERROR"
	UpstreamError      ErrorType = "UPSTREAM_ERROR"
	RateLimitError     ErrorType = "RATE_LIMIT_EXCEEDED"
	PayloadTooLarge    ErrorType = "PAYLOAD_TOO_LARGE"
	CORSViolation      ErrorType = "CORS_VIOLATION"
	ServerError        ErrorType = "SERVER_ERROR"
)

// Machine-readable codes for the upstream error subclasses.
const (
	CodeSheetsAPIDisabled = "sheets_api_disabled"
	CodeSheetsPermission  = "sheets_permission_denied"
	CodeSheetsNotFound    = "sheets_not_found"
	CodeSheetsBadRequest  = "sheets_bad_request"
	CodeSheetsGeneric     = "sheets_failure"
	CodeEmailUnauthorized = "email_unauthorized"
	CodeEmailDomain       = "email_domain_unverified"
	CodeEmailGeneric      = "email_failure"
)

// AppError represents a structured application error.
// Message is the localized (Hebrew) text shown to the user; Detail is an
// English diagnostic string for logs and the `error` response field.
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       string    `json:"code,omitempty"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Raw        error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the wrapped upstream error, if any.
func (e *AppError) Unwrap() error {
	return e.Raw
}

// GetHTTPStatus returns the HTTP status code associated with the error.
func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	return getHTTPStatus(e.Type)
}

// New creates a new AppError
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     detail,
		HTTPStatus: getHTTPStatus(errType),
	}
}

// Wrap wraps a raw error with AppError context
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: getHTTPStatus(errType),
		Raw:        err,
	}
}

// ValidationFailed reports invalid user input. The message must already be
// the localized field message (e.g. "שם הוא שדה חובה").
func ValidationFailed(message string, detail string) *AppError {
	return &AppError{
		Type:       ValidationError,
		Message:    message,
		Detail:     detail,
		HTTPStatus: http.StatusBadRequest,
	}
}

// MissingConfiguration reports absent credentials or settings required by a
// feature. The feature name is diagnostic only; the client sees a generic
// localized server error.
func MissingConfiguration(feature string) *AppError {
	return &AppError{
		Type:       ConfigurationError,
		Message:    "שגיאת תצורה בשרת. אנא נסה שוב מאוחר יותר.",
		Detail:     fmt.Sprintf("missing %s configuration", feature),
		HTTPStatus: http.StatusInternalServerError,
	}
}

// SheetsAPIDisabled indicates the Sheets API is not enabled for the project.
func SheetsAPIDisabled(raw error) *AppError {
	return upstream(CodeSheetsAPIDisabled,
		"Google Sheets API לא מופעל. אנא הפעל את ה-API בפרויקט Google Cloud שלך.", raw)
}

// SheetsPermissionDenied indicates the service account lacks access to the
// spreadsheet.
func SheetsPermissionDenied(raw error) *AppError {
	return upstream(CodeSheetsPermission,
		"אין הרשאה לגשת לגיליון האלקטרוני. אנא ודא שלחשבון השירות יש גישה לגיליון.", raw)
}

// SheetsNotFound indicates the configured spreadsheet ID does not resolve.
func SheetsNotFound(raw error) *AppError {
	return upstream(CodeSheetsNotFound,
		"גיליון אלקטרוני לא נמצא. אנא ודא שמזהה הגיליון נכון.", raw)
}

// SheetsBadRequest indicates the append/read request was malformed.
func SheetsBadRequest(raw error) *AppError {
	return upstream(CodeSheetsBadRequest,
		"בקשה לא תקינה ל-Google Sheets. בדוק את פרטי הגיליון.", raw)
}

// SheetsFailure covers any other spreadsheet upstream failure.
func SheetsFailure(raw error) *AppError {
	return upstream(CodeSheetsGeneric, "שגיאה בשמירה ל-Google Sheets.", raw)
}

// EmailUnauthorized indicates an invalid or missing Resend API key.
func EmailUnauthorized(raw error) *AppError {
	return upstream(CodeEmailUnauthorized, "מפתח API של Resend לא תקין או חסר.", raw)
}

// EmailDomainUnverified indicates the sender address is not verified.
func EmailDomainUnverified(raw error) *AppError {
	return upstream(CodeEmailDomain, "כתובת האימייל השולח לא מאומתת ב-Resend.", raw)
}

// EmailFailure covers any other notification upstream failure.
func EmailFailure(raw error) *AppError {
	return upstream(CodeEmailGeneric, "שגיאה בשליחת אימייל.", raw)
}

// RateLimitExceeded reports sliding-window exhaustion for a client.
func RateLimitExceeded(retryAfterSeconds int) *AppError {
	return &AppError{
		Type:       RateLimitError,
		Message:    "יותר מדי בקשות. אנא נסה שוב מאוחר יותר.",
		Detail:     fmt.Sprintf("rate limit exceeded, retry after %ds", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// RequestTooLarge reports a body exceeding the fixed size ceiling.
func RequestTooLarge(size, limit int64) *AppError {
	return &AppError{
		Type:       PayloadTooLarge,
		Message:    "גודל הבקשה גדול מדי",
		Detail:     fmt.Sprintf("request body %d bytes exceeds %d byte limit", size, limit),
		HTTPStatus: http.StatusRequestEntityTooLarge,
	}
}

// OriginNotAllowed reports a cross-origin request from outside the allow-list.
func OriginNotAllowed(origin string) *AppError {
	return &AppError{
		Type:       CORSViolation,
		Message:    "הבקשה נדחתה",
		Detail:     fmt.Sprintf("origin %q not in allow-list", origin),
		HTTPStatus: http.StatusForbidden,
	}
}

// InternalServerError reports an unclassified server failure.
func InternalServerError(detail string) *AppError {
	return &AppError{
		Type:       ServerError,
		Message:    "אירעה שגיאה בעת עיבוד הבקשה",
		Detail:     detail,
		HTTPStatus: http.StatusInternalServerError,
	}
}

func upstream(code, message string, raw error) *AppError {
	detail := ""
	if raw != nil {
		detail = raw.Error()
	}
	return &AppError{
		Type:       UpstreamError,
		Code:       code,
		Message:    message,
		Detail:     detail,
		HTTPStatus: http.StatusInternalServerError,
		Raw:        raw,
	}
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError:
		return http.StatusBadRequest
	case RateLimitError:
		return http.StatusTooManyRequests
	case PayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case CORSViolation:
		return http.StatusForbidden
	case ConfigurationError, UpstreamError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
