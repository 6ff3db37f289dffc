package domain

import "time"

// UserStatus represents lifecycle states for a citizen account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is the domain model for citizens who submit complaints. Complaints may
// also be filed anonymously, in which case no User row is involved.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
