package models

import (
	"time"

	"securestock/pkg/metadata"
)

type EquipmentAssignment struct {
	ID           string                    `json:"id" db:"id"`
	EmployeeID   string                    `json:"employee_id" db:"employee_id"`
	StockItemID  string                    `json:"stock_item_id" db:"stock_item_id"`
	AssignedDate time.Time                 `json:"assigned_date" db:"assigned_date"`
	ReturnedDate *time.Time                `json:"returned_date" db:"returned_date"`
	Status       metadata.AssignmentStatus `json:"status" db:"status"`
	Notes        *string                   `json:"notes" db:"notes"`
	CreatedAt    time.Time                 `json:"created_at" db:"created_at"`
	EmployeeName *string                   `json:"employee_name,omitempty" db:"employee_name"`
	ItemName     *string                   `json:"item_name,omitempty" db:"item_name"`
}

type AssignmentRequest struct {
	EmployeeID  string  `json:"employee_id" binding:"required,uuid"`
	StockItemID string  `json:"stock_item_id" binding:"required,uuid"`
	Notes       *string `json:"notes"`
}

type AssignmentFilter struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	Status     string `form:"status"`
}

func (a *EquipmentAssignment) CreateLogView(action string) ActivityEntry {
	description := a.StockItemID + " -> " + a.EmployeeID
	if a.ItemName != nil && a.EmployeeName != nil {
		description = *a.ItemName + " -> " + *a.EmployeeName
	}
	return ActivityEntry{
		Action:      action,
		Description: description,
		Page:        PageAssignments,
	}
}
