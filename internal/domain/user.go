package domain

import "time"

// User is an account with a role. Credentials live outside this service.
type User struct {
	ID         string
	Name       string
	Email      string
	Phone      string
	Role       Role
	IsActive   bool
	IsVerified bool
	LastSeenAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Identity is the authenticated caller of an operation.
type Identity struct {
	UserID string
	Role   Role
}

// HelperWithUser pairs a profile with its account, used by moderation listings.
type HelperWithUser struct {
	Profile *HelperProfile
	User    *User
}
