package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/rezkam/taskmarket/internal/application/auth"
	"github.com/rezkam/taskmarket/internal/domain"
	"github.com/rezkam/taskmarket/internal/infrastructure/http/response"
)

// decodeBody reads a JSON body into dst and writes 400 on failure.
// An empty body is accepted when optional is true.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return true
	}
	response.BadRequest(w, "invalid JSON")
	return false
}

// caller returns the authenticated identity, writing 401 when it is missing.
func caller(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
	}
	return identity, ok
}

// pageParams reads limit and offset. Missing or malformed values are 0;
// the service layer applies configured defaults and limits.
func pageParams(r *http.Request) (limit, offset int) {
	q := r.URL.Query()
	limit, _ = strconv.Atoi(q.Get("limit"))
	offset, _ = strconv.Atoi(q.Get("offset"))
	return limit, offset
}

// optionalBool parses a query flag; absent or malformed values are nil.
func optionalBool(r *http.Request, key string) *bool {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}
