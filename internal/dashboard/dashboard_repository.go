package dashboard

import (
	"context"
	"fmt"

	"securestock/internal/repository"
	"securestock/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type CounterRepository interface {
	CountByStatus(ctx context.Context, table string) (models.StatusCounts, error)
}

type counterRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) CounterRepository {
	return &counterRepositoryImpl{repository: r}
}

type statusCount struct {
	Status string `db:"status"`
	Total  int    `db:"total"`
}

// CountByStatus groups table by its status column.
func (r *counterRepositoryImpl) CountByStatus(ctx context.Context, table string) (models.StatusCounts, error) {
	var rows []statusCount
	err := r.repository.GoquDBWrapper.
		Select(goqu.C("status"), goqu.COUNT("*").As("total")).
		From(table).
		GroupBy("status").
		Executor().ScanStructsContext(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to count %s by status: %w", table, err)
	}

	counts := models.StatusCounts{}
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
