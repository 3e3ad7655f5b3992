package handler

import (
	"time"

	"github.com/rezkam/taskmarket/internal/domain"
	"github.com/rezkam/taskmarket/internal/pricing"
)

// Request DTOs

// CoordinatesDTO is a latitude/longitude pair in degrees.
type CoordinatesDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LocationDTO is an address with optional coordinates.
type LocationDTO struct {
	Address     string          `json:"address"`
	Coordinates *CoordinatesDTO `json:"coordinates,omitempty"`
}

type createTaskRequest struct {
	Category       string       `json:"category"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	ScheduledTime  time.Time    `json:"scheduledTime"`
	PickupLocation *LocationDTO `json:"pickupLocation"`
	DropLocation   *LocationDTO `json:"dropLocation"`
}

type estimatePriceRequest struct {
	Category         string       `json:"category"`
	PickupLocation   *LocationDTO `json:"pickupLocation"`
	DropLocation     *LocationDTO `json:"dropLocation"`
	AdditionalParams struct {
		Urgent    bool `json:"urgent"`
		HeavyLoad bool `json:"heavyLoad"`
	} `json:"additionalParams"`
}

type cancelTaskRequest struct {
	Reason string `json:"reason"`
}

type rateTaskRequest struct {
	Rating float64 `json:"rating"`
	Review string  `json:"review"`
}

type updateTaskStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

// DocumentsDTO holds proof-of-identity references.
type DocumentsDTO struct {
	IDProof      string `json:"idProof,omitempty"`
	AddressProof string `json:"addressProof,omitempty"`
	Photo        string `json:"photo,omitempty"`
}

type updateProfileRequest struct {
	Categories   []string      `json:"categories"`
	Experience   *int          `json:"experience"`
	Availability *string       `json:"availability"`
	VehicleType  *string       `json:"vehicleType"`
	Documents    *DocumentsDTO `json:"documents"`
}

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

type updateUserStatusRequest struct {
	IsActive   *bool `json:"isActive"`
	IsVerified *bool `json:"isVerified"`
}

type approveHelperRequest struct {
	IsApproved bool `json:"isApproved"`
}

// Response DTOs

// ReviewDTO is one side's rating of a task.
type ReviewDTO struct {
	Rating int     `json:"rating"`
	Review *string `json:"review,omitempty"`
}

// StatusChangeDTO is one status history entry.
type StatusChangeDTO struct {
	Status    domain.TaskStatus `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Note      *string           `json:"note,omitempty"`
}

// TaskDTO is the wire form of a task.
type TaskDTO struct {
	ID                 string               `json:"id"`
	CustomerID         string               `json:"customerId"`
	HelperID           *string              `json:"helperId,omitempty"`
	Category           domain.Category      `json:"category"`
	Title              string               `json:"title"`
	Description        string               `json:"description"`
	ScheduledTime      time.Time            `json:"scheduledTime"`
	PickupLocation     *LocationDTO         `json:"pickupLocation,omitempty"`
	DropLocation       *LocationDTO         `json:"dropLocation,omitempty"`
	EstimatedPrice     float64              `json:"estimatedPrice"`
	FinalPrice         *float64             `json:"finalPrice,omitempty"`
	Status             domain.TaskStatus    `json:"status"`
	PaymentStatus      domain.PaymentStatus `json:"paymentStatus"`
	CustomerRating     *ReviewDTO           `json:"customerRating,omitempty"`
	HelperRating       *ReviewDTO           `json:"helperRating,omitempty"`
	StatusHistory      []StatusChangeDTO    `json:"statusHistory"`
	CancellationReason *string              `json:"cancellationReason,omitempty"`
	CreatedAt          time.Time            `json:"createdAt"`
	UpdatedAt          time.Time            `json:"updatedAt"`
}

// TaskResponse wraps a single task.
type TaskResponse struct {
	Task TaskDTO `json:"task"`
}

// CreateTaskResponse carries the stored task and how its price was built.
type CreateTaskResponse struct {
	Task           TaskDTO           `json:"task"`
	PriceBreakdown pricing.Breakdown `json:"priceBreakdown"`
}

// TaskListResponse is one page of tasks.
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	TotalCount int       `json:"totalCount"`
	HasMore    bool      `json:"hasMore"`
}

// EstimateResponse is a price quote. Breakdown fields are inlined.
type EstimateResponse struct {
	Distance float64 `json:"distance"`
	pricing.Breakdown
}

// EarningsDTO are a helper's credited amounts.
type EarningsDTO struct {
	Total     float64 `json:"total"`
	Pending   float64 `json:"pending"`
	Withdrawn float64 `json:"withdrawn"`
}

// HelperProfileDTO is the wire form of a helper profile.
type HelperProfileDTO struct {
	ID             string              `json:"id"`
	UserID         string              `json:"userId"`
	Categories     []domain.Category   `json:"categories"`
	Experience     int                 `json:"experience"`
	Availability   domain.Availability `json:"availability"`
	VehicleType    domain.VehicleType  `json:"vehicleType"`
	Documents      DocumentsDTO        `json:"documents"`
	Rating         float64             `json:"rating"`
	TotalRatings   int                 `json:"totalRatings"`
	CompletedTasks int                 `json:"completedTasks"`
	Earnings       EarningsDTO         `json:"earnings"`
	IsOnline       bool                `json:"isOnline"`
	IsApproved     bool                `json:"isApproved"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

// ProfileResponse wraps a helper profile.
type ProfileResponse struct {
	Profile HelperProfileDTO `json:"profile"`
}

// EarningsResponse is a helper's earnings dashboard.
type EarningsResponse struct {
	Earnings       EarningsDTO `json:"earnings"`
	CompletedTasks int         `json:"completedTasks"`
	Rating         float64     `json:"rating"`
	TotalRatings   int         `json:"totalRatings"`
	RecentTasks    []TaskDTO   `json:"recentTasks"`
}

// UserDTO is the wire form of a user.
type UserDTO struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Phone      string      `json:"phone,omitempty"`
	Role       domain.Role `json:"role"`
	IsActive   bool        `json:"isActive"`
	IsVerified bool        `json:"isVerified"`
	LastSeenAt *time.Time  `json:"lastSeenAt,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// UserResponse wraps a user.
type UserResponse struct {
	User UserDTO `json:"user"`
}

// UserListResponse lists users.
type UserListResponse struct {
	Users []UserDTO `json:"users"`
	Count int       `json:"count"`
}

// PendingHelperDTO pairs an unapproved profile with its account.
type PendingHelperDTO struct {
	Profile HelperProfileDTO `json:"profile"`
	User    UserDTO          `json:"user"`
}

// PendingHelpersResponse lists helpers awaiting approval.
type PendingHelpersResponse struct {
	Helpers []PendingHelperDTO `json:"helpers"`
	Count   int                `json:"count"`
}

// AnalyticsResponse wraps the dashboard snapshot.
type AnalyticsResponse struct {
	Analytics *domain.AnalyticsSnapshot `json:"analytics"`
}

// DTO → domain mappers

func locationFromDTO(dto *LocationDTO) *domain.Location {
	if dto == nil {
		return nil
	}
	loc := &domain.Location{Address: dto.Address}
	if dto.Coordinates != nil {
		loc.Coordinates = &domain.Coordinates{
			Latitude:  dto.Coordinates.Latitude,
			Longitude: dto.Coordinates.Longitude,
		}
	}
	return loc
}

// Domain → DTO mappers

func locationToDTO(loc *domain.Location) *LocationDTO {
	if loc == nil {
		return nil
	}
	dto := &LocationDTO{Address: loc.Address}
	if loc.Coordinates != nil {
		dto.Coordinates = &CoordinatesDTO{
			Latitude:  loc.Coordinates.Latitude,
			Longitude: loc.Coordinates.Longitude,
		}
	}
	return dto
}

func reviewToDTO(r *domain.Review) *ReviewDTO {
	if r == nil {
		return nil
	}
	return &ReviewDTO{Rating: int(r.Rating), Review: r.Comment}
}

// MapTaskToDTO converts domain.Task to its wire form.
func MapTaskToDTO(t *domain.Task) TaskDTO {
	history := make([]StatusChangeDTO, len(t.StatusHistory))
	for i, c := range t.StatusHistory {
		history[i] = StatusChangeDTO{Status: c.Status, Timestamp: c.Timestamp, Note: c.Note}
	}

	return TaskDTO{
		ID:                 t.ID,
		CustomerID:         t.CustomerID,
		HelperID:           t.HelperID,
		Category:           t.Category,
		Title:              t.Title,
		Description:        t.Description,
		ScheduledTime:      t.ScheduledTime,
		PickupLocation:     locationToDTO(t.PickupLocation),
		DropLocation:       locationToDTO(t.DropLocation),
		EstimatedPrice:     t.EstimatedPrice,
		FinalPrice:         t.FinalPrice,
		Status:             t.Status,
		PaymentStatus:      t.PaymentStatus,
		CustomerRating:     reviewToDTO(t.CustomerRating),
		HelperRating:       reviewToDTO(t.HelperRating),
		StatusHistory:      history,
		CancellationReason: t.CancellationReason,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}

func mapTasks(tasks []*domain.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = MapTaskToDTO(t)
	}
	return dtos
}

// MapPageToDTO converts a task page.
func MapPageToDTO(page *domain.PagedTasks) TaskListResponse {
	return TaskListResponse{
		Tasks:      mapTasks(page.Tasks),
		TotalCount: page.TotalCount,
		HasMore:    page.HasMore,
	}
}

// MapProfileToDTO converts domain.HelperProfile to its wire form.
func MapProfileToDTO(p *domain.HelperProfile) HelperProfileDTO {
	categories := p.Categories
	if categories == nil {
		categories = []domain.Category{}
	}
	return HelperProfileDTO{
		ID:           p.ID,
		UserID:       p.UserID,
		Categories:   categories,
		Experience:   p.Experience,
		Availability: p.Availability,
		VehicleType:  p.VehicleType,
		Documents: DocumentsDTO{
			IDProof:      p.Documents.IDProof,
			AddressProof: p.Documents.AddressProof,
			Photo:        p.Documents.Photo,
		},
		Rating:         p.Rating,
		TotalRatings:   p.TotalRatings,
		CompletedTasks: p.CompletedTasks,
		Earnings:       earningsToDTO(p.Earnings),
		IsOnline:       p.IsOnline,
		IsApproved:     p.IsApproved,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func earningsToDTO(e domain.Earnings) EarningsDTO {
	return EarningsDTO{Total: e.Total, Pending: e.Pending, Withdrawn: e.Withdrawn}
}

// MapUserToDTO converts domain.User to its wire form.
func MapUserToDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Role:       u.Role,
		IsActive:   u.IsActive,
		IsVerified: u.IsVerified,
		LastSeenAt: u.LastSeenAt,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
