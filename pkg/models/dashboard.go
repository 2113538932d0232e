package models

import "time"

// StatusCounts maps a status value to the number of rows holding it.
type StatusCounts map[string]int

type DashboardSummary struct {
	Items              StatusCounts     `json:"items"`
	Employees          StatusCounts     `json:"employees"`
	Maintenance        StatusCounts     `json:"maintenance"`
	CriticalCategories int              `json:"critical_categories"`
	RecentActivity     []ActivityRecord `json:"recent_activity"`
}

// InventorySnapshot is the state handed to the assistant as context.
type InventorySnapshot struct {
	GeneratedAt     time.Time           `json:"generated_at"`
	Categories      []CategorySummary   `json:"categories"`
	Items           StatusCounts        `json:"items"`
	Employees       StatusCounts        `json:"employees"`
	OpenMaintenance []MaintenanceRecord `json:"open_maintenance"`
}
