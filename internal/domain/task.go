package domain

import (
	"slices"
	"time"

	"github.com/rezkam/taskmarket/internal/ptr"
)

// DefaultCancellationReason is recorded when a customer cancels without giving a reason.
const DefaultCancellationReason = "Cancelled by customer"

// Location is an address with optional coordinates.
type Location struct {
	Address     string
	Coordinates *Coordinates
}

// Review is a 1-5 score with optional text, given once per side of a task.
type Review struct {
	Rating  Score
	Comment *string
}

// StatusChange is one entry in a task's status history.
type StatusChange struct {
	Status    TaskStatus
	Timestamp time.Time
	Note      *string
}

// Task is a unit of work posted by a customer and fulfilled by a helper.
type Task struct {
	ID         string
	CustomerID string
	HelperID   *string

	Category      Category
	Title         string
	Description   string
	ScheduledTime time.Time

	PickupLocation *Location
	DropLocation   *Location

	EstimatedPrice float64
	FinalPrice     *float64

	Status        TaskStatus
	PaymentStatus PaymentStatus

	CustomerRating *Review
	HelperRating   *Review

	StatusHistory      []StatusChange
	CancellationReason *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Version is incremented on every write and used for compare-and-swap updates.
	Version int
}

// NewTask builds a pending task with its initial history entry.
func NewTask(id, customerID string, category Category, title Title, description string, scheduled time.Time, estimatedPrice float64, now time.Time) *Task {
	return &Task{
		ID:             id,
		CustomerID:     customerID,
		Category:       category,
		Title:          title.String(),
		Description:    description,
		ScheduledTime:  scheduled.UTC(),
		EstimatedPrice: estimatedPrice,
		Status:         TaskStatusPending,
		PaymentStatus:  PaymentStatusPending,
		StatusHistory: []StatusChange{
			{Status: TaskStatusPending, Timestamp: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// LatestChange returns the most recent history entry.
func (t *Task) LatestChange() StatusChange {
	if len(t.StatusHistory) == 0 {
		return StatusChange{Status: t.Status, Timestamp: t.UpdatedAt}
	}
	return t.StatusHistory[len(t.StatusHistory)-1]
}

// IsAssignedTo reports whether helperID is the task's helper.
func (t *Task) IsAssignedTo(helperID string) bool {
	return t.HelperID != nil && *t.HelperID == helperID
}

// VisibleTo reports whether the identity may read the task.
func (t *Task) VisibleTo(userID string, role Role) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleCustomer:
		return t.CustomerID == userID
	case RoleHelper:
		return t.IsAssignedTo(userID)
	default:
		return false
	}
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	c.HelperID = ptr.Clone(t.HelperID)
	c.FinalPrice = ptr.Clone(t.FinalPrice)
	c.CancellationReason = ptr.Clone(t.CancellationReason)
	c.PickupLocation = t.PickupLocation.clone()
	c.DropLocation = t.DropLocation.clone()
	c.CustomerRating = t.CustomerRating.clone()
	c.HelperRating = t.HelperRating.clone()
	c.StatusHistory = slices.Clone(t.StatusHistory)
	for i := range c.StatusHistory {
		c.StatusHistory[i].Note = ptr.Clone(c.StatusHistory[i].Note)
	}
	return &c
}

func (l *Location) clone() *Location {
	if l == nil {
		return nil
	}
	c := *l
	c.Coordinates = ptr.Clone(l.Coordinates)
	return &c
}

func (r *Review) clone() *Review {
	if r == nil {
		return nil
	}
	c := *r
	c.Comment = ptr.Clone(r.Comment)
	return &c
}

// PagedTasks is one page of a task listing.
type PagedTasks struct {
	Tasks      []*Task
	TotalCount int
	HasMore    bool
}
