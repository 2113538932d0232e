package models

import (
	"time"

	"securestock/pkg/metadata"
)

type StockItem struct {
	ID                 string              `json:"id" db:"id"`
	Name               string              `json:"name" db:"name"`
	ParkNumber         *string             `json:"park_number" db:"park_number"`
	SerialNumber       *string             `json:"serial_number" db:"serial_number"`
	Category           string              `json:"category" db:"category"`
	Status             metadata.ItemStatus `json:"status" db:"status"`
	AssignedTo         *string             `json:"assigned_to" db:"assigned_to"`
	AssignedToName     *string             `json:"assigned_to_name,omitempty" db:"assigned_to_name"`
	Location           *string             `json:"location" db:"location"`
	ProblemDescription *string             `json:"problem_description" db:"problem_description"`
	CreatedAt          time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at" db:"updated_at"`
}

type StockItemRequest struct {
	Name               string  `json:"name" binding:"required"`
	ParkNumber         *string `json:"park_number"`
	SerialNumber       *string `json:"serial_number"`
	Category           string  `json:"category" binding:"required"`
	Status             string  `json:"status"`
	AssignedTo         *string `json:"assigned_to" binding:"omitempty,uuid"`
	Location           *string `json:"location"`
	ProblemDescription *string `json:"problem_description"`
}

type PatchStockItemRequest struct {
	ID                 string  `uri:"id" binding:"required,uuid"`
	Name               *string `json:"name" binding:"omitempty,min=1"`
	ParkNumber         *string `json:"park_number"`
	SerialNumber       *string `json:"serial_number"`
	Category           *string `json:"category" binding:"omitempty,min=1"`
	Status             *string `json:"status"`
	AssignedTo         *string `json:"assigned_to" binding:"omitempty,uuid"`
	ClearAssignee      bool    `json:"clear_assigned_to"`
	Location           *string `json:"location"`
	ProblemDescription *string `json:"problem_description"`
}

func (i *StockItem) CreateLogView(action string) ActivityEntry {
	return ActivityEntry{
		Action:      action,
		Description: i.Name + " (" + string(i.Status) + ")",
		Page:        PageStock,
	}
}

type StockItemFilter struct {
	Category   string `form:"category"`
	Status     string `form:"status"`
	AssignedTo string `form:"assigned_to" binding:"omitempty,uuid"`
	Search     string `form:"search"`
}
