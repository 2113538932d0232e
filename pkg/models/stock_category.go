package models

import (
	"strconv"
	"time"

	"securestock/pkg/metadata"
)

type StockCategory struct {
	ID                string    `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	CriticalThreshold int       `json:"critical_threshold" db:"critical_threshold"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

type StockCategoryRequest struct {
	Name              string `json:"name" binding:"required"`
	CriticalThreshold *int   `json:"critical_threshold" binding:"omitempty,min=0"`
}

type PatchStockCategoryRequest struct {
	ID                string  `uri:"id" binding:"required,uuid"`
	Name              *string `json:"name" binding:"omitempty,min=1"`
	CriticalThreshold *int    `json:"critical_threshold" binding:"omitempty,min=0"`
}

// CategoryStockCount is one row of the per-category status aggregate.
type CategoryStockCount struct {
	Category      string `db:"category"`
	Total         int    `db:"total"`
	Available     int    `db:"available"`
	Allocated     int    `db:"allocated"`
	InMaintenance int    `db:"in_maintenance"`
}

// CategorySummary is the read-time critical stock view of a category.
type CategorySummary struct {
	Name              string              `json:"name"`
	CriticalThreshold int                 `json:"critical_threshold"`
	Total             int                 `json:"total"`
	Available         int                 `json:"available"`
	Allocated         int                 `json:"allocated"`
	InMaintenance     int                 `json:"in_maintenance"`
	Level             metadata.StockLevel `json:"level"`
}

func (c *StockCategory) CreateLogView(action string) ActivityEntry {
	return ActivityEntry{
		Action:      action,
		Description: c.Name + " (threshold " + strconv.Itoa(c.CriticalThreshold) + ")",
		Page:        PageCategories,
	}
}
