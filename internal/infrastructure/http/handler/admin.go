package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rezkam/taskmarket/internal/application/admin"
	"github.com/rezkam/taskmarket/internal/domain"
	"github.com/rezkam/taskmarket/internal/infrastructure/http/response"
)

// ListUsers lists users, optionally filtered by role and active flag.
// GET /v1/admin/users
func (h *MarketHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context(), admin.ListUsersInput{
		Role:     r.URL.Query().Get("role"),
		IsActive: optionalBool(r, "isActive"),
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = MapUserToDTO(u)
	}
	response.OK(w, UserListResponse{Users: dtos, Count: len(dtos)})
}

// CreateUser provisions an account.
// POST /v1/admin/users
func (h *MarketHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !decodeBody(w, r, &req, false) {
		return
	}

	user, err := h.admin.CreateUser(r.Context(), admin.CreateUserInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Role:  req.Role,
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.Created(w, UserResponse{User: MapUserToDTO(user)})
}

// GetUser returns one user.
// GET /v1/admin/users/{id}
func (h *MarketHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.admin.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, UserResponse{User: MapUserToDTO(user)})
}

// UpdateUserStatus sets a user's active and verified flags.
// PUT /v1/admin/users/{id}/status
func (h *MarketHandler) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	var req updateUserStatusRequest
	if !decodeBody(w, r, &req, false) {
		return
	}

	user, err := h.admin.UpdateUserStatus(r.Context(), domain.UpdateUserStatusParams{
		UserID:     chi.URLParam(r, "id"),
		IsActive:   req.IsActive,
		IsVerified: req.IsVerified,
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, UserResponse{User: MapUserToDTO(user)})
}

// DeleteUser removes a user and any helper profile.
// DELETE /v1/admin/users/{id}
func (h *MarketHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.admin.DeleteUser(r.Context(), id); err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "user deleted via HTTP", "user_id", id)
	response.NoContent(w)
}

// PendingHelpers lists helper profiles awaiting approval.
// GET /v1/admin/helpers/pending
func (h *MarketHandler) PendingHelpers(w http.ResponseWriter, r *http.Request) {
	pending, err := h.admin.PendingHelpers(r.Context())
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	dtos := make([]PendingHelperDTO, len(pending))
	for i, p := range pending {
		dtos[i] = PendingHelperDTO{
			Profile: MapProfileToDTO(p.Profile),
			User:    MapUserToDTO(p.User),
		}
	}
	response.OK(w, PendingHelpersResponse{Helpers: dtos, Count: len(dtos)})
}

// ApproveHelper approves or revokes a helper profile.
// PUT /v1/admin/helpers/{id}/approve
func (h *MarketHandler) ApproveHelper(w http.ResponseWriter, r *http.Request) {
	var req approveHelperRequest
	if !decodeBody(w, r, &req, false) {
		return
	}

	profile, err := h.admin.ApproveHelper(r.Context(), chi.URLParam(r, "id"), req.IsApproved)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, ProfileResponse{Profile: MapProfileToDTO(profile)})
}

// ListAllTasks lists every task, filtered by status and category.
// GET /v1/admin/tasks
func (h *MarketHandler) ListAllTasks(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	q := r.URL.Query()

	page, err := h.admin.ListTasks(r.Context(), admin.ListTasksInput{
		Status:   q.Get("status"),
		Category: q.Get("category"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, MapPageToDTO(page))
}

// Analytics returns the dashboard snapshot.
// GET /v1/admin/analytics
func (h *MarketHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.admin.Analytics(r.Context())
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, AnalyticsResponse{Analytics: snapshot})
}
