package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/rezkam/taskmarket/internal/domain"
)

// CreateUser stores the user and, when given, its helper profile.
func (s *Store) CreateUser(_ context.Context, user *domain.User, profile *domain.HelperProfile) (*domain.User, error) {
	defer s.lock()()

	for _, u := range s.data.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}

	stored := *user
	s.data.users[stored.ID] = &stored
	if profile != nil {
		s.data.profiles[stored.ID] = profile.Clone()
	}
	result := stored
	return &result, nil
}

// FindUserByID returns a copy of the user.
func (s *Store) FindUserByID(_ context.Context, id string) (*domain.User, error) {
	defer s.lock()()

	u, ok := s.data.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	result := *u
	return &result, nil
}

// FindUsers lists users newest first.
func (s *Store) FindUsers(_ context.Context, params domain.ListUsersParams) ([]*domain.User, error) {
	defer s.lock()()

	result := make([]*domain.User, 0)
	for _, u := range s.data.users {
		if params.Role != nil && u.Role != *params.Role {
			continue
		}
		if params.IsActive != nil && u.IsActive != *params.IsActive {
			continue
		}
		uc := *u
		result = append(result, &uc)
	}
	slices.SortFunc(result, func(a, b *domain.User) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return result, nil
}

// UpdateUserStatus overwrites the non-nil moderation flags.
func (s *Store) UpdateUserStatus(_ context.Context, params domain.UpdateUserStatusParams) (*domain.User, error) {
	defer s.lock()()

	u, ok := s.data.users[params.UserID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if params.IsActive != nil {
		u.IsActive = *params.IsActive
	}
	if params.IsVerified != nil {
		u.IsVerified = *params.IsVerified
	}
	u.UpdatedAt = s.now()
	result := *u
	return &result, nil
}

// DeleteUser removes the user and its profile. Tasks are kept.
func (s *Store) DeleteUser(_ context.Context, id string) error {
	defer s.lock()()

	if _, ok := s.data.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.data.users, id)
	delete(s.data.profiles, id)
	return nil
}

// UpdateLastSeen records the last authentication time.
func (s *Store) UpdateLastSeen(_ context.Context, userID string, timestamp time.Time) error {
	defer s.lock()()

	u, ok := s.data.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	ts := timestamp
	u.LastSeenAt = &ts
	return nil
}
