package domain

import (
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserInactive = errors.New("user is inactive")

// User models an authenticated actor in the system. The password hash is
// never serialized: public projections of a user exclude it by contract.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	IsActive       bool      `json:"is_active"`
	IsSuperuser    bool      `json:"is_superuser"`
	FullName       *string   `json:"full_name"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
