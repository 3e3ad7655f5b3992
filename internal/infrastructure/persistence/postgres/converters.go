package postgres

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rezkam/taskmarket/internal/domain"
)

// PostgreSQL error codes.
const (
	uniqueViolation = "23505"
)

// isUniqueViolation reports whether err is a unique violation on the named constraint.
// An empty constraint matches any unique violation.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// === Location JSON ===

type dbCoordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type dbLocation struct {
	Address     string         `json:"address"`
	Coordinates *dbCoordinates `json:"coordinates,omitempty"`
}

// locationToJSON encodes a location for a JSONB column. Nil stays NULL.
func locationToJSON(l *domain.Location) (any, error) {
	if l == nil {
		return nil, nil
	}
	v := dbLocation{Address: l.Address}
	if l.Coordinates != nil {
		v.Coordinates = &dbCoordinates{Latitude: l.Coordinates.Latitude, Longitude: l.Coordinates.Longitude}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode location: %w", err)
	}
	return string(b), nil
}

// jsonToLocation decodes a JSONB column. Empty input is a NULL location.
func jsonToLocation(b []byte) (*domain.Location, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var v dbLocation
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("failed to decode location: %w", err)
	}
	l := &domain.Location{Address: v.Address}
	if v.Coordinates != nil {
		l.Coordinates = &domain.Coordinates{Latitude: v.Coordinates.Latitude, Longitude: v.Coordinates.Longitude}
	}
	return l, nil
}

// === Reviews ===

func reviewToDB(r *domain.Review) (*int16, *string) {
	if r == nil {
		return nil, nil
	}
	score := int16(r.Rating)
	return &score, r.Comment
}

func dbToReview(score *int16, comment *string) *domain.Review {
	if score == nil {
		return nil
	}
	return &domain.Review{Rating: domain.Score(*score), Comment: comment}
}

// === Row scanning ===

const taskColumns = `id, customer_id, helper_id, category, title, description, scheduled_time,
	pickup_location, drop_location, estimated_price, final_price, status, payment_status,
	customer_rating, customer_review, helper_rating, helper_review, cancellation_reason,
	created_at, updated_at, version`

// scanTask reads one row selected with taskColumns. History is loaded separately.
func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		t                            domain.Task
		category, status, payment    string
		pickup, drop                 []byte
		customerScore, helperScore   *int16
		customerReview, helperReview *string
	)
	err := row.Scan(
		&t.ID, &t.CustomerID, &t.HelperID, &category, &t.Title, &t.Description, &t.ScheduledTime,
		&pickup, &drop, &t.EstimatedPrice, &t.FinalPrice, &status, &payment,
		&customerScore, &customerReview, &helperScore, &helperReview, &t.CancellationReason,
		&t.CreatedAt, &t.UpdatedAt, &t.Version,
	)
	if err != nil {
		return nil, err
	}

	t.Category = domain.Category(category)
	t.Status = domain.TaskStatus(status)
	t.PaymentStatus = domain.PaymentStatus(payment)
	t.ScheduledTime = t.ScheduledTime.UTC()
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	t.CustomerRating = dbToReview(customerScore, customerReview)
	t.HelperRating = dbToReview(helperScore, helperReview)

	if t.PickupLocation, err = jsonToLocation(pickup); err != nil {
		return nil, err
	}
	if t.DropLocation, err = jsonToLocation(drop); err != nil {
		return nil, err
	}
	return &t, nil
}

const profileColumns = `id, user_id, categories, experience, availability, vehicle_type,
	id_proof, address_proof, photo, rating, total_ratings, completed_tasks,
	earnings_total, earnings_pending, earnings_withdrawn, is_online, is_approved,
	created_at, updated_at`

func scanProfile(row pgx.Row) (*domain.HelperProfile, error) {
	var (
		p                     domain.HelperProfile
		categories            []string
		availability, vehicle string
	)
	err := row.Scan(
		&p.ID, &p.UserID, &categories, &p.Experience, &availability, &vehicle,
		&p.Documents.IDProof, &p.Documents.AddressProof, &p.Documents.Photo,
		&p.Rating, &p.TotalRatings, &p.CompletedTasks,
		&p.Earnings.Total, &p.Earnings.Pending, &p.Earnings.Withdrawn,
		&p.IsOnline, &p.IsApproved, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Categories = make([]domain.Category, 0, len(categories))
	for _, c := range categories {
		p.Categories = append(p.Categories, domain.Category(c))
	}
	p.Availability = domain.Availability(availability)
	p.VehicleType = domain.VehicleType(vehicle)
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

const userColumns = `id, name, email, phone, role, is_active, is_verified, last_seen_at, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &role, &u.IsActive, &u.IsVerified,
		&u.LastSeenAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	if u.LastSeenAt != nil {
		utc := u.LastSeenAt.UTC()
		u.LastSeenAt = &utc
	}
	return &u, nil
}

func categoriesToStrings(categories []domain.Category) []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = string(c)
	}
	return out
}

func statusesToStrings(statuses []domain.TaskStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// collect scans every row with scan and closes rows.
func collect[T any](rows pgx.Rows, scan func(pgx.Row) (*T, error)) ([]*T, error) {
	defer rows.Close()
	out := make([]*T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
