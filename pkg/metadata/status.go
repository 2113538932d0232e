package metadata

import "fmt"

// ItemStatus is the lifecycle state of a stock item.
type ItemStatus string

const (
	ItemActive       ItemStatus = "active"       // available
	ItemInactive     ItemStatus = "inactive"     // allocated to an employee
	ItemDiscontinued ItemStatus = "discontinued" // in maintenance
)

func NewItemStatus(value string) (ItemStatus, error) {
	status := ItemStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid item status: %s", value)
	}
	return status, nil
}

func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemActive, ItemInactive, ItemDiscontinued:
		return true
	default:
		return false
	}
}

// Label is the wording shown to operators.
func (s ItemStatus) Label() string {
	switch s {
	case ItemActive:
		return "available"
	case ItemInactive:
		return "allocated"
	case ItemDiscontinued:
		return "in maintenance"
	default:
		return string(s)
	}
}

type EmployeeStatus string

const (
	EmployeeActive     EmployeeStatus = "active"
	EmployeeInactive   EmployeeStatus = "inactive"
	EmployeeTerminated EmployeeStatus = "terminated"
)

func NewEmployeeStatus(value string) (EmployeeStatus, error) {
	status := EmployeeStatus(value)
	switch status {
	case EmployeeActive, EmployeeInactive, EmployeeTerminated:
		return status, nil
	default:
		return "", fmt.Errorf("invalid employee status: %s", value)
	}
}

type AssignmentStatus string

const (
	AssignmentAssigned AssignmentStatus = "assigned"
	AssignmentReturned AssignmentStatus = "returned"
)

func NewAssignmentStatus(value string) (AssignmentStatus, error) {
	status := AssignmentStatus(value)
	switch status {
	case AssignmentAssigned, AssignmentReturned:
		return status, nil
	default:
		return "", fmt.Errorf("invalid assignment status: %s", value)
	}
}

// MaintenanceStatus moves scheduled -> in_progress -> completed or cancelled.
// Transitions are not guarded.
type MaintenanceStatus string

const (
	MaintenanceScheduled  MaintenanceStatus = "scheduled"
	MaintenanceInProgress MaintenanceStatus = "in_progress"
	MaintenanceCompleted  MaintenanceStatus = "completed"
	MaintenanceCancelled  MaintenanceStatus = "cancelled"
)

func NewMaintenanceStatus(value string) (MaintenanceStatus, error) {
	status := MaintenanceStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid maintenance status: %s", value)
	}
	return status, nil
}

func (s MaintenanceStatus) IsValid() bool {
	switch s {
	case MaintenanceScheduled, MaintenanceInProgress, MaintenanceCompleted, MaintenanceCancelled:
		return true
	default:
		return false
	}
}

// IsOpen is true for records that still need work.
func (s MaintenanceStatus) IsOpen() bool {
	return s == MaintenanceScheduled || s == MaintenanceInProgress
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func NewPriority(value string) (Priority, error) {
	priority := Priority(value)
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return priority, nil
	default:
		return "", fmt.Errorf("invalid priority: %s", value)
	}
}

// StockLevel signals how close a category is to running out.
type StockLevel string

const (
	StockLevelNone     StockLevel = "none"
	StockLevelWarning  StockLevel = "warning"
	StockLevelCritical StockLevel = "critical"
)
