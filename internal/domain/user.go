// Package domain contains entities without logic, just meta-data.
package domain

import "errors"

const (
	MaxUserIDLen      = 64
	MaxDisplayNameLen = 64
)

var (
	ErrUserIDEmpty        = errors.New("user id empty")
	ErrUserIDTooLong      = errors.New("user id too long")
	ErrDisplayNameEmpty   = errors.New("display name empty")
	ErrDisplayNameTooLong = errors.New("display name too long")
)

type UserID string

// Role separates the moderating side of a room from everyone else.
// Anything that is not an instructor is normalized to student.
type Role string

const (
	RoleInstructor Role = "instructor"
	RoleStudent    Role = "student"
)

type User struct {
	ID   UserID `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// NewUser validates caller-supplied identity claims. The service performs no
// authentication beyond the presence and shape of these fields.
func NewUser(id, name string, role Role) (*User, error) {
	if id == "" {
		return nil, ErrUserIDEmpty
	}
	if len(id) > MaxUserIDLen {
		return nil, ErrUserIDTooLong
	}
	if name == "" {
		return nil, ErrDisplayNameEmpty
	}
	if len(name) > MaxDisplayNameLen {
		return nil, ErrDisplayNameTooLong
	}
	if role != RoleInstructor {
		role = RoleStudent
	}
	return &User{ID: UserID(id), Name: name, Role: role}, nil
}
