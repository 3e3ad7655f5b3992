package handler

import (
	"net/http"

	"github.com/rezkam/taskmarket/internal/application/helper"
	"github.com/rezkam/taskmarket/internal/domain"
	"github.com/rezkam/taskmarket/internal/infrastructure/http/response"
)

// GetProfile returns the calling helper's profile.
// GET /v1/helper/profile
func (h *MarketHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}

	profile, err := h.helpers.GetProfile(r.Context(), identity.UserID)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, ProfileResponse{Profile: MapProfileToDTO(profile)})
}

// UpdateProfile edits the calling helper's profile. Omitted fields are unchanged.
// PUT /v1/helper/profile
func (h *MarketHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	var req updateProfileRequest
	if !decodeBody(w, r, &req, false) {
		return
	}

	in := helper.UpdateProfileInput{
		UserID:       identity.UserID,
		Categories:   req.Categories,
		Experience:   req.Experience,
		Availability: req.Availability,
		VehicleType:  req.VehicleType,
	}
	if req.Documents != nil {
		in.Documents = &domain.Documents{
			IDProof:      req.Documents.IDProof,
			AddressProof: req.Documents.AddressProof,
			Photo:        req.Documents.Photo,
		}
	}

	profile, err := h.helpers.UpdateProfile(r.Context(), in)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, ProfileResponse{Profile: MapProfileToDTO(profile)})
}

// ToggleStatus flips the calling helper between online and offline.
// PUT /v1/helper/toggle-status
func (h *MarketHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}

	profile, err := h.helpers.ToggleOnline(r.Context(), identity.UserID)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, ProfileResponse{Profile: MapProfileToDTO(profile)})
}

// AvailableTasks lists pending tasks in the helper's categories.
// GET /v1/helper/available-tasks
func (h *MarketHandler) AvailableTasks(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	limit, offset := pageParams(r)

	page, err := h.helpers.AvailableTasks(r.Context(), identity.UserID, limit, offset)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, MapPageToDTO(page))
}

// Earnings returns the calling helper's earnings dashboard.
// GET /v1/helper/earnings
func (h *MarketHandler) Earnings(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}

	summary, err := h.helpers.Earnings(r.Context(), identity.UserID)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, EarningsResponse{
		Earnings:       earningsToDTO(summary.Earnings),
		CompletedTasks: summary.CompletedTasks,
		Rating:         summary.Rating,
		TotalRatings:   summary.TotalRatings,
		RecentTasks:    mapTasks(summary.RecentTasks),
	})
}
