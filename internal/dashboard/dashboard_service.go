package dashboard

import (
	"context"
	"time"

	"securestock/internal/inventory/category"
	"securestock/internal/repository"
	"securestock/pkg/metadata"
	"securestock/pkg/models"
)

const recentActivityLimit = 10

type SummaryProvider interface {
	Summary(ctx context.Context) ([]models.CategorySummary, error)
}

type ActivitySource interface {
	GetActivity(ctx context.Context, filter models.ActivityFilter) ([]models.ActivityRecord, error)
}

type MaintenanceSource interface {
	GetMaintenanceRecords(ctx context.Context, conditions repository.QueryBuilder) ([]models.MaintenanceRecord, error)
}

type DashboardService struct {
	counters    CounterRepository
	categories  SummaryProvider
	activity    ActivitySource
	maintenance MaintenanceSource
	now         func() time.Time
}

func NewDashboardService(counters CounterRepository, categories SummaryProvider, activity ActivitySource, maintenance MaintenanceSource) *DashboardService {
	return &DashboardService{
		counters:    counters,
		categories:  categories,
		activity:    activity,
		maintenance: maintenance,
		now:         time.Now,
	}
}

func (s *DashboardService) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	items, employees, maintenance, err := s.statusCounts(ctx, true)
	if err != nil {
		return nil, err
	}

	categories, err := s.categories.Summary(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.activity.GetActivity(ctx, models.ActivityFilter{Limit: recentActivityLimit})
	if err != nil {
		return nil, err
	}

	return &models.DashboardSummary{
		Items:              items,
		Employees:          employees,
		Maintenance:        maintenance,
		CriticalCategories: category.CountCritical(categories),
		RecentActivity:     recent,
	}, nil
}

// Snapshot gathers the inventory context for the chat assistant.
func (s *DashboardService) Snapshot(ctx context.Context) (*models.InventorySnapshot, error) {
	items, employees, _, err := s.statusCounts(ctx, false)
	if err != nil {
		return nil, err
	}

	categories, err := s.categories.Summary(ctx)
	if err != nil {
		return nil, err
	}

	open := repository.NewQueryBuilder()
	open.AddCondition("status", []string{
		string(metadata.MaintenanceScheduled),
		string(metadata.MaintenanceInProgress),
	})
	records, err := s.maintenance.GetMaintenanceRecords(ctx, open)
	if err != nil {
		return nil, err
	}

	return &models.InventorySnapshot{
		GeneratedAt:     s.now().UTC(),
		Categories:      categories,
		Items:           items,
		Employees:       employees,
		OpenMaintenance: records,
	}, nil
}

func (s *DashboardService) statusCounts(ctx context.Context, withMaintenance bool) (items, employees, maintenance models.StatusCounts, err error) {
	if items, err = s.counters.CountByStatus(ctx, "stock_items"); err != nil {
		return
	}
	if employees, err = s.counters.CountByStatus(ctx, "employees"); err != nil {
		return
	}
	if withMaintenance {
		maintenance, err = s.counters.CountByStatus(ctx, "maintenance_records")
	}
	return
}
