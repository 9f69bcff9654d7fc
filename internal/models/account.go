package models

import (
	"errors"
	"time"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
	RoleParent  Role = "parent"
)

var ErrInvalidRole = errors.New("Invalid role")

// ParseRole validates an externally supplied role string against the closed
// set. Unknown values never reach the store.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleStaff, RoleParent:
		return Role(s), nil
	}
	return "", ErrInvalidRole
}

type Account struct {
	ID           string
	Email        string
	PasswordHash []byte
	FirstName    string
	LastName     string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
