package activity

import (
	"context"
	"fmt"
	"time"

	"securestock/internal/repository"
	"securestock/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

type ActivityRepository interface {
	PersistActivity(ctx context.Context, entry models.ActivityEntry) error
	GetActivity(ctx context.Context, filter models.ActivityFilter) ([]models.ActivityRecord, error)
}

type activityRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) ActivityRepository {
	return &activityRepositoryImpl{repository: r}
}

func (r *activityRepositoryImpl) PersistActivity(ctx context.Context, entry models.ActivityEntry) error {
	row := goqu.Record{
		"id":          uuid.NewString(),
		"action":      entry.Action,
		"description": entry.Description,
		"page":        entry.Page,
		"created_at":  time.Now().UTC(),
	}
	if entry.UserID != "" {
		row["user_id"] = entry.UserID
	}

	_, err := r.repository.GoquDBWrapper.Insert("activity_history").Rows(row).Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert activity record: %w", err)
	}

	return nil
}

func (r *activityRepositoryImpl) GetActivity(ctx context.Context, filter models.ActivityFilter) ([]models.ActivityRecord, error) {
	filter = NormalizeFilter(filter)

	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("a.id"),
			goqu.I("a.user_id"),
			goqu.I("p.email").As("user_email"),
			goqu.I("a.action"),
			goqu.I("a.description"),
			goqu.I("a.page"),
			goqu.I("a.created_at"),
		).
		From(goqu.T("activity_history").As("a")).
		LeftJoin(goqu.T("profiles").As("p"), goqu.On(goqu.Ex{"a.user_id": goqu.I("p.id")}))

	if filter.Page != "" {
		query = query.Where(goqu.Ex{"a.page": filter.Page})
	}
	if filter.UserID != "" {
		query = query.Where(goqu.Ex{"a.user_id": filter.UserID})
	}

	query = query.
		Order(goqu.I("a.created_at").Desc()).
		Limit(uint(filter.Limit)).
		Offset(uint(filter.Offset))

	records := []models.ActivityRecord{}
	if err := query.Executor().ScanStructsContext(ctx, &records); err != nil {
		return nil, fmt.Errorf("unable to select activity history: %w", err)
	}

	return records, nil
}

// NormalizeFilter clamps limit to 1..200 (default 50) and offset to >= 0.
func NormalizeFilter(filter models.ActivityFilter) models.ActivityFilter {
	if filter.Limit < 1 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return filter
}
