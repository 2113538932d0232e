package models

import "time"

// Pages an activity entry can originate from.
const (
	PageStock       = "stock"
	PageCategories  = "categories"
	PageEmployees   = "employees"
	PageAssignments = "assignments"
	PageMaintenance = "maintenance"
	PageUsers       = "users"
	PageChat        = "chat"
	PageReports     = "reports"
)

// ActivityRecord is one row of the append-only activity history.
type ActivityRecord struct {
	ID          string    `json:"id" db:"id"`
	UserID      *string   `json:"user_id" db:"user_id"`
	UserEmail   *string   `json:"user_email,omitempty" db:"user_email"`
	Action      string    `json:"action" db:"action"`
	Description string    `json:"description" db:"description"`
	Page        string    `json:"page" db:"page"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// ActivityEntry is what a mutating handler hands to the recorder.
type ActivityEntry struct {
	UserID      string
	Action      string
	Description string
	Page        string
}

type ActivityFilter struct {
	Page   string `form:"page"`
	UserID string `form:"user_id" binding:"omitempty,uuid"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}
