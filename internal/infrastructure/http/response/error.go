package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/rezkam/taskmarket/internal/domain"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []ErrorField `json:"details,omitempty"`
}

// ErrorField describes a field-specific error.
type ErrorField struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// Error codes.
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeValidation      = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeForbidden       = "FORBIDDEN"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeConflict        = "CONFLICT"
	CodeInvalidState    = "INVALID_STATE"
	CodeInternal        = "INTERNAL_ERROR"
	CodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
)

// BadRequest sends a 400 Bad Request error.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, CodeInvalidRequest, message, http.StatusBadRequest)
}

// ValidationError sends a 400 validation error with field details.
func ValidationError(w http.ResponseWriter, field, issue string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:    CodeValidation,
			Message: "validation failed",
			Details: []ErrorField{
				{Field: field, Issue: issue},
			},
		},
	})
}

// NotFound sends a 404 Not Found error.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, CodeNotFound, message, http.StatusNotFound)
}

// Forbidden sends a 403 Forbidden error.
func Forbidden(w http.ResponseWriter, message string) {
	Error(w, CodeForbidden, message, http.StatusForbidden)
}

// Unauthorized sends a 401 Unauthorized error.
func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, CodeUnauthorized, message, http.StatusUnauthorized)
}

// Conflict sends a 409 Conflict error.
func Conflict(w http.ResponseWriter, message string) {
	Error(w, CodeConflict, message, http.StatusConflict)
}

// InvalidState sends a 422 error for operations illegal in the current task status.
func InvalidState(w http.ResponseWriter, message string) {
	Error(w, CodeInvalidState, message, http.StatusUnprocessableEntity)
}

// InternalError sends a 500 Internal Server Error.
// The cause is logged server-side; the client gets a generic message.
func InternalError(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		slog.ErrorContext(r.Context(), "Internal server error", "error", err)
	}
	Error(w, CodeInternal, "an internal error occurred", http.StatusInternalServerError)
}

// Error sends a generic error response.
func Error(w http.ResponseWriter, code, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// fieldErrors names the request field behind validation errors that have one.
var fieldErrors = []struct {
	err   error
	field string
}{
	{domain.ErrTitleRequired, "title"},
	{domain.ErrTitleTooLong, "title"},
	{domain.ErrDescriptionRequired, "description"},
	{domain.ErrScheduledTimeZero, "scheduledTime"},
	{domain.ErrInvalidCategory, "category"},
	{domain.ErrInvalidTaskStatus, "status"},
	{domain.ErrStatusNotSettable, "status"},
	{domain.ErrInvalidRating, "rating"},
	{domain.ErrInvalidCoordinates, "coordinates"},
	{domain.ErrInvalidRole, "role"},
	{domain.ErrInvalidAvailability, "availability"},
	{domain.ErrInvalidVehicleType, "vehicleType"},
	{domain.ErrInvalidExperience, "experience"},
	{domain.ErrInvalidID, "id"},
	{domain.ErrEmailRequired, "email"},
	{domain.ErrNameRequired, "name"},
}

// FromDomainError maps domain error categories to HTTP responses.
func FromDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		for _, fe := range fieldErrors {
			if errors.Is(err, fe.err) {
				ValidationError(w, fe.field, err.Error())
				return
			}
		}
		Error(w, CodeValidation, err.Error(), http.StatusBadRequest)

	case errors.Is(err, domain.ErrNotFound):
		NotFound(w, err.Error())

	case errors.Is(err, domain.ErrUnauthorized):
		Unauthorized(w, "invalid or missing bearer token")

	case errors.Is(err, domain.ErrForbidden):
		Forbidden(w, err.Error())

	case errors.Is(err, domain.ErrConflict):
		Conflict(w, err.Error())

	case errors.Is(err, domain.ErrInvalidState):
		InvalidState(w, err.Error())

	default:
		InternalError(w, r, err)
	}
}
