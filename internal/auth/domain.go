package auth

import "time"

// User represents a registered user account.
type User struct {
	ID           int64
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RegisterInput carries the fields accepted when creating an account.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}
