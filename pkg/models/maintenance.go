package models

import (
	"time"

	"securestock/pkg/metadata"
)

type MaintenanceRecord struct {
	ID              string                     `json:"id" db:"id"`
	StockItemID     *string                    `json:"stock_item_id" db:"stock_item_id"`
	EquipmentName   string                     `json:"equipment_name" db:"equipment_name"`
	MaintenanceType string                     `json:"maintenance_type" db:"maintenance_type"`
	Description     *string                    `json:"description" db:"description"`
	ScheduledDate   Date                       `json:"scheduled_date" db:"scheduled_date"`
	CompletedDate   *Date                      `json:"completed_date" db:"completed_date"`
	Status          metadata.MaintenanceStatus `json:"status" db:"status"`
	Priority        metadata.Priority          `json:"priority" db:"priority"`
	TechnicianName  *string                    `json:"technician_name" db:"technician_name"`
	TechnicianEmail *string                    `json:"technician_email" db:"technician_email"`
	Cost            *float64                   `json:"cost" db:"cost"`
	Notes           *string                    `json:"notes" db:"notes"`
	CreatedBy       *string                    `json:"created_by" db:"created_by"`
	CreatedAt       time.Time                  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time                  `json:"updated_at" db:"updated_at"`
}

type MaintenanceRequest struct {
	StockItemID     *string  `json:"stock_item_id" binding:"omitempty,uuid"`
	EquipmentName   string   `json:"equipment_name" binding:"required"`
	MaintenanceType string   `json:"maintenance_type" binding:"required"`
	Description     *string  `json:"description"`
	ScheduledDate   *Date    `json:"scheduled_date"`
	Status          string   `json:"status"`
	Priority        string   `json:"priority"`
	TechnicianName  *string  `json:"technician_name"`
	TechnicianEmail *string  `json:"technician_email" binding:"omitempty,email"`
	Cost            *float64 `json:"cost" binding:"omitempty,min=0"`
	Notes           *string  `json:"notes"`
}

type PatchMaintenanceRequest struct {
	ID              string   `uri:"id" binding:"required,uuid"`
	EquipmentName   *string  `json:"equipment_name" binding:"omitempty,min=1"`
	MaintenanceType *string  `json:"maintenance_type" binding:"omitempty,min=1"`
	Description     *string  `json:"description"`
	ScheduledDate   *Date    `json:"scheduled_date"`
	CompletedDate   *Date    `json:"completed_date"`
	Status          *string  `json:"status"`
	Priority        *string  `json:"priority"`
	TechnicianName  *string  `json:"technician_name"`
	TechnicianEmail *string  `json:"technician_email" binding:"omitempty,email"`
	Cost            *float64 `json:"cost" binding:"omitempty,min=0"`
	Notes           *string  `json:"notes"`
}

func (m *MaintenanceRecord) CreateLogView(action string) ActivityEntry {
	return ActivityEntry{
		Action:      action,
		Description: m.MaintenanceType + " - " + m.EquipmentName + " (" + string(m.Status) + ")",
		Page:        PageMaintenance,
	}
}

type MaintenanceFilter struct {
	Status      string `form:"status"`
	Priority    string `form:"priority"`
	StockItemID string `form:"stock_item_id" binding:"omitempty,uuid"`
}

type MaintenanceStatusRequest struct {
	ID     string `uri:"id" binding:"required,uuid"`
	Status string `json:"status" binding:"required"`
}

// MaintenanceNotice is what a technician is told about a scheduled job.
type MaintenanceNotice struct {
	TechnicianName  string `json:"technician_name" binding:"required"`
	TechnicianEmail string `json:"technician_email" binding:"required,email"`
	EquipmentName   string `json:"equipment_name" binding:"required"`
	MaintenanceType string `json:"maintenance_type" binding:"required"`
	ScheduledDate   Date   `json:"scheduled_date"`
	Priority        string `json:"priority"`
	Description     string `json:"description"`
}

// Notice builds the technician notice for m. It reports false when m has no
// technician email.
func (m *MaintenanceRecord) Notice() (MaintenanceNotice, bool) {
	if m.TechnicianEmail == nil || *m.TechnicianEmail == "" {
		return MaintenanceNotice{}, false
	}

	notice := MaintenanceNotice{
		TechnicianEmail: *m.TechnicianEmail,
		EquipmentName:   m.EquipmentName,
		MaintenanceType: m.MaintenanceType,
		ScheduledDate:   m.ScheduledDate,
		Priority:        string(m.Priority),
	}
	if m.TechnicianName != nil {
		notice.TechnicianName = *m.TechnicianName
	}
	if m.Description != nil {
		notice.Description = *m.Description
	}
	return notice, true
}
