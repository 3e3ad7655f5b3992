package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	nethttpmiddleware "github.com/oapi-codegen/nethttp-middleware"

	"github.com/rezkam/taskmarket/internal/infrastructure/http/response"
)

// ValidationConfig holds configuration for the OpenAPI validation middleware.
type ValidationConfig struct {
	// MultiError when true collects all validation errors instead of stopping at first.
	MultiError bool
}

// NewValidator creates OpenAPI request validation middleware.
// Invalid requests get 400 in the standard error format.
//
// Authentication is handled by the Auth middleware, so security requirements are not checked here.
func NewValidator(spec *openapi3.T, config ValidationConfig) func(http.Handler) http.Handler {
	// Paths in the document are relative to the /api mount point.
	spec.Servers = openapi3.Servers{
		{URL: "/api"},
	}

	opts := &nethttpmiddleware.Options{
		Options: openapi3filter.Options{
			MultiError: config.MultiError,
			AuthenticationFunc: func(_ context.Context, _ *openapi3filter.AuthenticationInput) error {
				return nil
			},
		},
		ErrorHandlerWithOpts:  validationErrorHandler,
		SilenceServersWarning: true,
	}

	return nethttpmiddleware.OapiRequestValidatorWithOptions(spec, opts)
}

func validationErrorHandler(ctx context.Context, err error, w http.ResponseWriter, r *http.Request, opts nethttpmiddleware.ErrorHandlerOpts) {
	details := parseValidationError(err)

	slog.WarnContext(ctx, "request validation failed",
		"path", r.URL.Path,
		"method", r.Method,
		"invalid_field_count", len(details),
		"error", err.Error())

	code, message := response.CodeValidation, "validation failed"
	if opts.StatusCode == http.StatusNotFound {
		code, message = response.CodeNotFound, "route not found"
	}

	body, encErr := json.Marshal(response.ErrorResponse{
		Error: response.ErrorDetail{Code: code, Message: message, Details: details},
	})
	if encErr != nil {
		response.InternalError(w, r, encErr)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(opts.StatusCode)
	_, _ = w.Write(body)
}

// parseValidationError extracts the offending field from kin-openapi messages such as
//
//	request body has an error: doesn't match schema: Error at "/title": minimum string length is 1
//	parameter "limit" in query has an error: number must be at most 100
func parseValidationError(err error) []response.ErrorField {
	if err == nil {
		return nil
	}
	msg := err.Error()

	if _, rest, ok := strings.Cut(msg, `Error at "/`); ok {
		field, after, found := strings.Cut(rest, `"`)
		if !found {
			return nil
		}
		issue := "validation failed"
		if _, tail, ok := strings.Cut(after, ":"); ok && strings.TrimSpace(tail) != "" {
			issue = strings.TrimSpace(tail)
		}
		return []response.ErrorField{{Field: field, Issue: issue}}
	}

	if _, rest, ok := strings.Cut(msg, `parameter "`); ok {
		field, after, found := strings.Cut(rest, `"`)
		if !found {
			return nil
		}
		issue := "invalid parameter"
		if _, tail, ok := strings.Cut(after, "has an error:"); ok {
			issue = strings.TrimSpace(tail)
		}
		return []response.ErrorField{{Field: field, Issue: issue}}
	}

	if strings.Contains(msg, "request body") {
		issue := "invalid request body"
		switch {
		case strings.Contains(msg, "doesn't match"):
			issue = "request body doesn't match schema"
		case strings.Contains(msg, "required"):
			issue = "required field missing"
		}
		return []response.ErrorField{{Field: "body", Issue: issue}}
	}

	return nil
}
