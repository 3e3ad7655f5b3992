package domain

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// Title is a validated title value object (1-255 characters).
type Title struct {
	value string
}

// NewTitle creates a new Title, validating the input.
func NewTitle(s string) (Title, error) {
	s = strings.TrimSpace(s)

	if s == "" {
		return Title{}, ErrTitleRequired
	}

	if len(s) > 255 {
		return Title{}, ErrTitleTooLong
	}

	return Title{value: s}, nil
}

// String returns the title value.
func (t Title) String() string {
	return t.value
}

// NewCategory validates and creates a Category.
func NewCategory(s string) (Category, error) {
	category := Category(strings.ToLower(strings.TrimSpace(s)))

	switch category {
	case CategoryPickupDrop, CategoryDelivery, CategoryHomeService,
		CategoryRepair, CategoryCleaning, CategoryMoving, CategoryOther:
		return category, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
}

// NewTaskStatus validates and creates a TaskStatus.
func NewTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(strings.ToLower(strings.TrimSpace(s)))

	switch status {
	case TaskStatusPending, TaskStatusAssigned, TaskStatusAccepted, TaskStatusInProgress,
		TaskStatusCompleted, TaskStatusCancelled, TaskStatusRejected:
		return status, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTaskStatus, s)
	}
}

// NewRole validates and creates a Role.
func NewRole(s string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(s)))

	switch role {
	case RoleCustomer, RoleHelper, RoleAdmin:
		return role, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

// NewAvailability validates an availability value. Empty means full_time.
func NewAvailability(s string) (Availability, error) {
	if s == "" {
		return AvailabilityFullTime, nil
	}

	availability := Availability(strings.ToLower(s))

	switch availability {
	case AvailabilityFullTime, AvailabilityPartTime, AvailabilityWeekends:
		return availability, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAvailability, s)
	}
}

// NewVehicleType validates a vehicle type. Empty means none.
func NewVehicleType(s string) (VehicleType, error) {
	if s == "" {
		return VehicleNone, nil
	}

	vehicle := VehicleType(strings.ToLower(s))

	switch vehicle {
	case VehicleBike, VehicleCar, VehicleVan, VehicleNone:
		return vehicle, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidVehicleType, s)
	}
}

// Score is a validated rating value in [1,5].
type Score int

// NewScore validates a rating. The value must be a whole number between 1 and 5.
func NewScore(v float64) (Score, error) {
	if math.IsNaN(v) || v != math.Trunc(v) || v < 1 || v > 5 {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidRating, v)
	}
	return Score(v), nil
}

// Coordinates is a latitude/longitude pair in degrees.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Validate checks the pair is within the WGS84 ranges.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) ||
		c.Latitude < -90 || c.Latitude > 90 ||
		c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: (%v, %v)", ErrInvalidCoordinates, c.Latitude, c.Longitude)
	}
	return nil
}

// ValidateID checks that id is a UUID.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, id)
	}
	return nil
}
