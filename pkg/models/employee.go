package models

import (
	"time"

	"securestock/pkg/metadata"
)

type Employee struct {
	ID         string                  `json:"id" db:"id"`
	FirstName  string                  `json:"first_name" db:"first_name"`
	LastName   string                  `json:"last_name" db:"last_name"`
	Email      *string                 `json:"email" db:"email"`
	Phone      *string                 `json:"phone" db:"phone"`
	Department *string                 `json:"department" db:"department"`
	Position   *string                 `json:"position" db:"position"`
	HireDate   *Date                   `json:"hire_date" db:"hire_date"`
	Status     metadata.EmployeeStatus `json:"status" db:"status"`
	CreatedAt  time.Time               `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time               `json:"updated_at" db:"updated_at"`
}

func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

type EmployeeRequest struct {
	FirstName    string   `json:"first_name" binding:"required"`
	LastName     string   `json:"last_name" binding:"required"`
	Email        *string  `json:"email" binding:"omitempty,email"`
	Phone        *string  `json:"phone"`
	Department   *string  `json:"department"`
	Position     *string  `json:"position"`
	HireDate     *Date    `json:"hire_date"`
	Status       string   `json:"status"`
	EquipmentIDs []string `json:"equipment_ids" binding:"omitempty,dive,uuid"`
}

type PatchEmployeeRequest struct {
	ID         string  `uri:"id" binding:"required,uuid"`
	FirstName  *string `json:"first_name" binding:"omitempty,min=1"`
	LastName   *string `json:"last_name" binding:"omitempty,min=1"`
	Email      *string `json:"email" binding:"omitempty,email"`
	Phone      *string `json:"phone"`
	Department *string `json:"department"`
	Position   *string `json:"position"`
	HireDate   *Date   `json:"hire_date"`
	Status     *string `json:"status"`
}

func (e *Employee) CreateLogView(action string) ActivityEntry {
	return ActivityEntry{
		Action:      action,
		Description: e.FullName(),
		Page:        PageEmployees,
	}
}

type EmployeeFilter struct {
	Status     string `form:"status"`
	Department string `form:"department"`
	Search     string `form:"search"`
}

// EmployeeWithEquipment is the response of onboarding an employee.
type EmployeeWithEquipment struct {
	Employee
	Assignments []EquipmentAssignment `json:"assignments"`
}
