package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rezkam/taskmarket/internal/application/admin"
	"github.com/rezkam/taskmarket/internal/application/helper"
	"github.com/rezkam/taskmarket/internal/application/task"
	"github.com/rezkam/taskmarket/internal/domain"
	mw "github.com/rezkam/taskmarket/internal/infrastructure/http/middleware"
	"github.com/rezkam/taskmarket/internal/infrastructure/http/openapi"
)

// MarketHandler adapts HTTP requests to application service calls.
type MarketHandler struct {
	tasks   *task.Service
	helpers *helper.Service
	admin   *admin.Service
}

// NewMarketHandler creates a new HTTP API handler.
func NewMarketHandler(tasks *task.Service, helpers *helper.Service, adminService *admin.Service) *MarketHandler {
	return &MarketHandler{
		tasks:   tasks,
		helpers: helpers,
		admin:   adminService,
	}
}

// NewOpenAPIRouter creates the /api handler: OpenAPI request validation, role checks and routes.
// Authentication is applied by the server in front of it.
// Both production code and tests should use this function to ensure identical behavior.
func NewOpenAPIRouter(tasks *task.Service, helpers *helper.Service, adminService *admin.Service) (http.Handler, error) {
	h := NewMarketHandler(tasks, helpers, adminService)

	spec, err := openapi.GetSwagger()
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI spec: %w", err)
	}

	r := chi.NewRouter()
	r.Use(mw.NewValidator(spec, mw.ValidationConfig{MultiError: true}))
	h.routes(r)

	return r, nil
}

func (h *MarketHandler) routes(r chi.Router) {
	r.Get("/v1/tasks/{id}", h.GetTask)

	r.Route("/v1/customer", func(r chi.Router) {
		r.Use(mw.RequireRole(domain.RoleCustomer))
		r.Post("/tasks", h.CreateTask)
		r.Get("/tasks", h.ListCustomerTasks)
		r.Post("/estimate-price", h.EstimatePrice)
		r.Get("/tasks/{id}", h.GetCustomerTask)
		r.Put("/tasks/{id}/cancel", h.CancelTask)
		r.Put("/tasks/{id}/rate", h.RateTask)
	})

	r.Route("/v1/helper", func(r chi.Router) {
		r.Use(mw.RequireRole(domain.RoleHelper))
		r.Get("/profile", h.GetProfile)
		r.Put("/profile", h.UpdateProfile)
		r.Put("/toggle-status", h.ToggleStatus)
		r.Get("/available-tasks", h.AvailableTasks)
		r.Get("/my-tasks", h.MyTasks)
		r.Put("/tasks/{id}/accept", h.AcceptTask)
		r.Put("/tasks/{id}/reject", h.RejectTask)
		r.Put("/tasks/{id}/status", h.UpdateTaskStatus)
		r.Get("/earnings", h.Earnings)
	})

	r.Route("/v1/admin", func(r chi.Router) {
		r.Use(mw.RequireRole(domain.RoleAdmin))
		r.Get("/users", h.ListUsers)
		r.Post("/users", h.CreateUser)
		r.Get("/users/{id}", h.GetUser)
		r.Put("/users/{id}/status", h.UpdateUserStatus)
		r.Delete("/users/{id}", h.DeleteUser)
		r.Get("/helpers/pending", h.PendingHelpers)
		r.Put("/helpers/{id}/approve", h.ApproveHelper)
		r.Get("/tasks", h.ListAllTasks)
		r.Get("/analytics", h.Analytics)
	})
}
