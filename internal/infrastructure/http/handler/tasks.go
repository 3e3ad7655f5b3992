package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rezkam/taskmarket/internal/application/task"
	"github.com/rezkam/taskmarket/internal/infrastructure/http/response"
	"github.com/rezkam/taskmarket/internal/pricing"
)

// GetTask returns a task to its customer, its helper or an admin.
// GET /v1/tasks/{id}
func (h *MarketHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}

	t, err := h.tasks.GetTask(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, TaskResponse{Task: MapTaskToDTO(t)})
}

// CreateTask prices and stores a new pending task.
// POST /v1/customer/tasks
func (h *MarketHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	var req createTaskRequest
	if !decodeBody(w, r, &req, false) {
		return
	}

	created, breakdown, err := h.tasks.CreateTask(r.Context(), task.CreateTaskInput{
		CustomerID:     identity.UserID,
		Category:       req.Category,
		Title:          req.Title,
		Description:    req.Description,
		ScheduledTime:  req.ScheduledTime,
		PickupLocation: locationFromDTO(req.PickupLocation),
		DropLocation:   locationFromDTO(req.DropLocation),
	})
	if err != nil {
		slog.WarnContext(r.Context(), "failed to create task via HTTP",
			"customer_id", identity.UserID,
			"category", req.Category,
			"error", err)
		response.FromDomainError(w, r, err)
		return
	}

	response.Created(w, CreateTaskResponse{
		Task:           MapTaskToDTO(created),
		PriceBreakdown: breakdown,
	})
}

// EstimatePrice quotes a route without storing anything.
// POST /v1/customer/estimate-price
func (h *MarketHandler) EstimatePrice(w http.ResponseWriter, r *http.Request) {
	var req estimatePriceRequest
	if !decodeBody(w, r, &req, false) {
		return
	}

	estimate, err := h.tasks.EstimatePrice(r.Context(), task.EstimateInput{
		Category:       req.Category,
		PickupLocation: locationFromDTO(req.PickupLocation),
		DropLocation:   locationFromDTO(req.DropLocation),
		Flags: pricing.Flags{
			Urgent:    req.AdditionalParams.Urgent,
			HeavyLoad: req.AdditionalParams.HeavyLoad,
		},
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, EstimateResponse{Distance: estimate.DistanceKm, Breakdown: estimate.Breakdown})
}

// ListCustomerTasks lists the caller's tasks newest first.
// GET /v1/customer/tasks
func (h *MarketHandler) ListCustomerTasks(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	limit, offset := pageParams(r)

	page, err := h.tasks.ListCustomerTasks(r.Context(), identity.UserID, task.ListInput{
		Status: r.URL.Query().Get("status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, MapPageToDTO(page))
}

// GetCustomerTask returns one of the caller's tasks.
// GET /v1/customer/tasks/{id}
func (h *MarketHandler) GetCustomerTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}

	t, err := h.tasks.GetCustomerTask(r.Context(), identity.UserID, chi.URLParam(r, "id"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, TaskResponse{Task: MapTaskToDTO(t)})
}

// CancelTask cancels a pending or accepted task.
// PUT /v1/customer/tasks/{id}/cancel
func (h *MarketHandler) CancelTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	var req cancelTaskRequest
	if !decodeBody(w, r, &req, true) {
		return
	}

	t, err := h.tasks.CancelTask(r.Context(), identity.UserID, chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, TaskResponse{Task: MapTaskToDTO(t)})
}

// RateTask records the customer's rating of a completed task.
// PUT /v1/customer/tasks/{id}/rate
func (h *MarketHandler) RateTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	var req rateTaskRequest
	if !decodeBody(w, r, &req, false) {
		return
	}

	t, err := h.tasks.RateTask(r.Context(), identity.UserID, chi.URLParam(r, "id"), req.Rating, req.Review)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, TaskResponse{Task: MapTaskToDTO(t)})
}

// AcceptTask assigns a pending task to the calling helper.
// PUT /v1/helper/tasks/{id}/accept
func (h *MarketHandler) AcceptTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}

	t, err := h.tasks.AcceptTask(r.Context(), identity.UserID, chi.URLParam(r, "id"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, TaskResponse{Task: MapTaskToDTO(t)})
}

// RejectTask declines a pending task.
// PUT /v1/helper/tasks/{id}/reject
func (h *MarketHandler) RejectTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}

	t, err := h.tasks.RejectTask(r.Context(), identity.UserID, chi.URLParam(r, "id"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, TaskResponse{Task: MapTaskToDTO(t)})
}

// UpdateTaskStatus moves an assigned task to in_progress or completed.
// PUT /v1/helper/tasks/{id}/status
func (h *MarketHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	var req updateTaskStatusRequest
	if !decodeBody(w, r, &req, false) {
		return
	}

	t, err := h.tasks.UpdateTaskStatus(r.Context(), identity.UserID, chi.URLParam(r, "id"), req.Status, req.Note)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, TaskResponse{Task: MapTaskToDTO(t)})
}

// MyTasks lists tasks assigned to the calling helper.
// GET /v1/helper/my-tasks
func (h *MarketHandler) MyTasks(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	limit, offset := pageParams(r)

	page, err := h.tasks.ListHelperTasks(r.Context(), identity.UserID, task.ListInput{
		Status: r.URL.Query().Get("status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, MapPageToDTO(page))
}
