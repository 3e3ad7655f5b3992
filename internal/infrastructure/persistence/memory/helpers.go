package memory

import (
	"context"
	"slices"

	"github.com/rezkam/taskmarket/internal/domain"
)

// FindHelperProfile returns a copy of the profile owned by userID.
func (s *Store) FindHelperProfile(_ context.Context, userID string) (*domain.HelperProfile, error) {
	defer s.lock()()

	p, ok := s.data.profiles[userID]
	if !ok {
		return nil, domain.ErrHelperProfileNotFound
	}
	return p.Clone(), nil
}

// FindHelperProfileForUpdate is FindHelperProfile; transactions already hold the store lock.
func (s *Store) FindHelperProfileForUpdate(ctx context.Context, userID string) (*domain.HelperProfile, error) {
	return s.FindHelperProfile(ctx, userID)
}

// UpdateHelperProfile overwrites the non-nil fields.
func (s *Store) UpdateHelperProfile(_ context.Context, params domain.UpdateHelperProfileParams) (*domain.HelperProfile, error) {
	defer s.lock()()

	p, ok := s.data.profiles[params.UserID]
	if !ok {
		return nil, domain.ErrHelperProfileNotFound
	}
	if params.Categories != nil {
		p.Categories = slices.Clone(params.Categories)
	}
	if params.Experience != nil {
		p.Experience = *params.Experience
	}
	if params.Availability != nil {
		p.Availability = *params.Availability
	}
	if params.VehicleType != nil {
		p.VehicleType = *params.VehicleType
	}
	if params.Documents != nil {
		p.Documents = *params.Documents
	}
	p.UpdatedAt = s.now()
	return p.Clone(), nil
}

// SetHelperOnline sets the online flag.
func (s *Store) SetHelperOnline(_ context.Context, userID string, online bool) (*domain.HelperProfile, error) {
	defer s.lock()()

	p, ok := s.data.profiles[userID]
	if !ok {
		return nil, domain.ErrHelperProfileNotFound
	}
	p.IsOnline = online
	p.UpdatedAt = s.now()
	return p.Clone(), nil
}

// SetHelperApproval sets the approval flag on the profile with the given profile id.
func (s *Store) SetHelperApproval(_ context.Context, profileID string, approved bool) (*domain.HelperProfile, error) {
	defer s.lock()()

	for _, p := range s.data.profiles {
		if p.ID == profileID {
			p.IsApproved = approved
			p.UpdatedAt = s.now()
			return p.Clone(), nil
		}
	}
	return nil, domain.ErrHelperProfileNotFound
}

// FindPendingHelpers lists unapproved profiles with their users, newest first.
func (s *Store) FindPendingHelpers(_ context.Context) ([]domain.HelperWithUser, error) {
	defer s.lock()()

	result := make([]domain.HelperWithUser, 0)
	for userID, p := range s.data.profiles {
		if p.IsApproved {
			continue
		}
		u, ok := s.data.users[userID]
		if !ok {
			continue
		}
		uc := *u
		result = append(result, domain.HelperWithUser{Profile: p.Clone(), User: &uc})
	}
	slices.SortFunc(result, func(a, b domain.HelperWithUser) int {
		return b.Profile.CreatedAt.Compare(a.Profile.CreatedAt)
	})
	return result, nil
}

// RecordHelperEvent adds the event to the ledger. Returns false for a duplicate.
func (s *Store) RecordHelperEvent(_ context.Context, event domain.HelperEvent) (bool, error) {
	defer s.lock()()

	key := eventKey{taskID: event.TaskID, kind: event.Kind}
	if _, seen := s.data.events[key]; seen {
		return false, nil
	}
	s.data.events[key] = struct{}{}
	return true, nil
}

// SaveHelperAggregates writes the aggregate fields of profile.
func (s *Store) SaveHelperAggregates(_ context.Context, profile *domain.HelperProfile) error {
	defer s.lock()()

	p, ok := s.data.profiles[profile.UserID]
	if !ok {
		return domain.ErrHelperProfileNotFound
	}
	p.Rating = profile.Rating
	p.TotalRatings = profile.TotalRatings
	p.CompletedTasks = profile.CompletedTasks
	p.Earnings = profile.Earnings
	p.UpdatedAt = profile.UpdatedAt
	return nil
}
