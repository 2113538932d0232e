package models

import (
	"time"

	"securestock/pkg/roles"
)

type Profile struct {
	ID           string     `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	FullName     string     `json:"full_name" db:"full_name"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         roles.Role `json:"role" db:"role"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

type CreateProfileRequest struct {
	Email    string     `json:"email" binding:"required,email"`
	Password string     `json:"password" binding:"required,min=8"`
	FullName string     `json:"full_name"`
	Role     roles.Role `json:"role" binding:"required"`
}

type UpdateProfileRequest struct {
	FullName *string     `json:"full_name"`
	Password *string     `json:"password" binding:"omitempty,min=8"`
	Role     *roles.Role `json:"role"`
}

type ProfileChanges struct {
	FullName     *string
	PasswordHash *string
	Role         *string
}

func (p *Profile) CreateLogView(action string) ActivityEntry {
	return ActivityEntry{
		Action:      action,
		Description: p.Email + " (" + p.Role.String() + ")",
		Page:        PageUsers,
	}
}

func (c *ProfileChanges) HasChanges() bool {
	return c.FullName != nil || c.PasswordHash != nil || c.Role != nil
}
