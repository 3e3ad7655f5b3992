package domain

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by the application layer wraps exactly one of these,
// so transports can map them with errors.Is.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the actor lacks the role or ownership required for the entity.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidState indicates the operation is illegal for the current task status.
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidArgument indicates malformed input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConflict indicates the entity is no longer in the state the caller assumed.
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")
)

// Not found errors.
var (
	ErrTaskNotFound          = fmt.Errorf("task %w", ErrNotFound)
	ErrUserNotFound          = fmt.Errorf("user %w", ErrNotFound)
	ErrHelperProfileNotFound = fmt.Errorf("helper profile %w", ErrNotFound)
)

// Authorization errors.
var (
	ErrNotTaskOwner      = fmt.Errorf("%w: task belongs to another customer", ErrForbidden)
	ErrNotAssignedHelper = fmt.Errorf("%w: task is not assigned to this helper", ErrForbidden)
	ErrHelperNotApproved = fmt.Errorf("%w: helper profile is not approved", ErrForbidden)
	ErrRoleNotAllowed    = fmt.Errorf("%w: role not allowed", ErrForbidden)
)

// Lifecycle errors.
var (
	ErrTaskNotPending    = fmt.Errorf("%w: task is no longer pending", ErrConflict)
	ErrVersionConflict   = fmt.Errorf("%w: task was modified concurrently", ErrConflict)
	ErrAlreadyRated      = fmt.Errorf("%w: task already rated", ErrConflict)
	ErrEmailTaken        = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrHelperOffline     = fmt.Errorf("%w: helper is offline", ErrInvalidState)
	ErrIllegalTransition = fmt.Errorf("%w: illegal status transition", ErrInvalidState)
	ErrTaskNotCompleted  = fmt.Errorf("%w: only completed tasks can be rated", ErrInvalidState)
)

// Validation errors.
var (
	ErrTitleRequired       = fmt.Errorf("%w: title is required", ErrInvalidArgument)
	ErrTitleTooLong        = fmt.Errorf("%w: title must be 255 characters or less", ErrInvalidArgument)
	ErrDescriptionRequired = fmt.Errorf("%w: description is required", ErrInvalidArgument)
	ErrScheduledTimeZero   = fmt.Errorf("%w: scheduled time is required", ErrInvalidArgument)
	ErrInvalidCategory     = fmt.Errorf("%w: invalid category", ErrInvalidArgument)
	ErrInvalidTaskStatus   = fmt.Errorf("%w: invalid task status", ErrInvalidArgument)
	ErrStatusNotSettable   = fmt.Errorf("%w: status must be in_progress or completed", ErrInvalidArgument)
	ErrInvalidRating       = fmt.Errorf("%w: rating must be an integer between 1 and 5", ErrInvalidArgument)
	ErrInvalidCoordinates  = fmt.Errorf("%w: coordinates out of range", ErrInvalidArgument)
	ErrInvalidRole         = fmt.Errorf("%w: invalid role", ErrInvalidArgument)
	ErrInvalidAvailability = fmt.Errorf("%w: invalid availability", ErrInvalidArgument)
	ErrInvalidVehicleType  = fmt.Errorf("%w: invalid vehicle type", ErrInvalidArgument)
	ErrInvalidExperience   = fmt.Errorf("%w: experience must not be negative", ErrInvalidArgument)
	ErrInvalidID           = fmt.Errorf("%w: invalid ID format", ErrInvalidArgument)
	ErrEmailRequired       = fmt.Errorf("%w: email is required", ErrInvalidArgument)
	ErrNameRequired        = fmt.Errorf("%w: name is required", ErrInvalidArgument)
)
