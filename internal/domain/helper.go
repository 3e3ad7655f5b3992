package domain

import (
	"slices"
	"time"
)

// Earnings are a helper's credited amounts. Total and pending grow together on completion;
// withdrawn is managed outside this service.
type Earnings struct {
	Total     float64
	Pending   float64
	Withdrawn float64
}

// Documents holds opaque proof-of-identity references.
type Documents struct {
	IDProof      string
	AddressProof string
	Photo        string
}

// Merge overwrites the fields that are set in other.
func (d Documents) Merge(other Documents) Documents {
	if other.IDProof != "" {
		d.IDProof = other.IDProof
	}
	if other.AddressProof != "" {
		d.AddressProof = other.AddressProof
	}
	if other.Photo != "" {
		d.Photo = other.Photo
	}
	return d
}

// HelperProfile is the one-to-one extension of a helper-role user.
type HelperProfile struct {
	ID     string
	UserID string

	Categories   []Category
	Experience   int
	Availability Availability
	VehicleType  VehicleType
	Documents    Documents

	// Rating is the running average of TotalRatings scores, in [0,5].
	Rating         float64
	TotalRatings   int
	CompletedTasks int
	Earnings       Earnings

	IsOnline   bool
	IsApproved bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewHelperProfile returns a fresh, unapproved, offline profile for userID.
func NewHelperProfile(id, userID string, now time.Time) *HelperProfile {
	return &HelperProfile{
		ID:           id,
		UserID:       userID,
		Categories:   []Category{},
		Availability: AvailabilityFullTime,
		VehicleType:  VehicleNone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// CanAccept reports whether the helper may take new work.
func (p *HelperProfile) CanAccept() error {
	if !p.IsApproved {
		return ErrHelperNotApproved
	}
	if !p.IsOnline {
		return ErrHelperOffline
	}
	return nil
}

// Serves reports whether the helper lists category.
func (p *HelperProfile) Serves(category Category) bool {
	return slices.Contains(p.Categories, category)
}

// RecordCompletion credits a completed task.
func (p *HelperProfile) RecordCompletion(finalPrice float64, at time.Time) {
	p.CompletedTasks++
	p.Earnings.Total += finalPrice
	p.Earnings.Pending += finalPrice
	p.UpdatedAt = at
}

// RecordRating folds score into the running average.
func (p *HelperProfile) RecordRating(score Score, at time.Time) {
	count := float64(p.TotalRatings)
	p.Rating = (p.Rating*count + float64(score)) / (count + 1)
	p.TotalRatings++
	p.UpdatedAt = at
}

// Clone returns a deep copy of the profile.
func (p *HelperProfile) Clone() *HelperProfile {
	if p == nil {
		return nil
	}
	c := *p
	c.Categories = slices.Clone(p.Categories)
	return &c
}

// HelperEvent identifies one aggregate fold for the idempotency ledger.
type HelperEvent struct {
	TaskID   string
	HelperID string
	Kind     AggregateEventKind
}

// HelperAggregates are recomputed totals used to reconcile a profile against task history.
type HelperAggregates struct {
	HelperID       string
	CompletedTasks int
	EarningsTotal  float64
	Rating         float64
	TotalRatings   int
}
