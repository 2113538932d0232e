package category

import (
	"context"
	"errors"
	"fmt"
	"time"

	"securestock/internal/repository"
	custom_error "securestock/pkg/errors"
	"securestock/pkg/metadata"
	"securestock/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
)

var ErrCategoryNotFound = errors.New("stock category not found")

type CategoryRepository interface {
	GetCategories(ctx context.Context) ([]models.StockCategory, error)
	GetCategory(ctx context.Context, id string) (*models.StockCategory, error)
	PersistCategory(ctx context.Context, category *models.StockCategory) error
	UpdateCategory(ctx context.Context, id string, updates map[string]interface{}) error
	DeleteCategory(ctx context.Context, id string) error
	HasRelatedItems(ctx context.Context, name string) (bool, error)
	GetStockCounts(ctx context.Context) ([]models.CategoryStockCount, error)
}

type categoryRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) CategoryRepository {
	return &categoryRepositoryImpl{repository: r}
}

func (r *categoryRepositoryImpl) GetCategories(ctx context.Context) ([]models.StockCategory, error) {
	categories := []models.StockCategory{}
	query := r.repository.GoquDBWrapper.
		Select("id", "name", "critical_threshold", "created_at", "updated_at").
		From("stock_categories").
		Order(goqu.I("name").Asc())

	if err := query.Executor().ScanStructsContext(ctx, &categories); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return categories, nil
}

func (r *categoryRepositoryImpl) GetCategory(ctx context.Context, id string) (*models.StockCategory, error) {
	var category models.StockCategory
	found, err := r.repository.GoquDBWrapper.
		Select("id", "name", "critical_threshold", "created_at", "updated_at").
		From("stock_categories").
		Where(goqu.Ex{"id": id}).
		Executor().ScanStructContext(ctx, &category)
	if err != nil {
		return nil, fmt.Errorf("failed to get stock category: %w", err)
	}
	if !found {
		return nil, ErrCategoryNotFound
	}

	return &category, nil
}

func (r *categoryRepositoryImpl) PersistCategory(ctx context.Context, category *models.StockCategory) error {
	now := time.Now().UTC()
	category.ID = uuid.NewString()
	category.CreatedAt = now
	category.UpdatedAt = now

	_, err := r.repository.GoquDBWrapper.Insert("stock_categories").
		Rows(goqu.Record{
			"id":                 category.ID,
			"name":               category.Name,
			"critical_threshold": category.CriticalThreshold,
			"created_at":         now,
			"updated_at":         now,
		}).
		Executor().ExecContext(ctx)
	if err != nil {
		return custom_error.FromDB("failed to insert stock category", err)
	}

	return nil
}

func (r *categoryRepositoryImpl) UpdateCategory(ctx context.Context, id string, updates map[string]interface{}) error {
	record := goqu.Record{"updated_at": time.Now().UTC()}
	for column, value := range updates {
		record[column] = value
	}

	res, err := r.repository.GoquDBWrapper.Update("stock_categories").
		Set(record).
		Where(goqu.Ex{"id": id}).
		Executor().ExecContext(ctx)
	if err != nil {
		return custom_error.FromDB("failed to update stock category", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

func (r *categoryRepositoryImpl) DeleteCategory(ctx context.Context, id string) error {
	res, err := r.repository.GoquDBWrapper.Delete("stock_categories").
		Where(goqu.Ex{"id": id}).
		Executor().ExecContext(ctx)
	if err != nil {
		return custom_error.FromDB("failed to delete stock category", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

func (r *categoryRepositoryImpl) HasRelatedItems(ctx context.Context, name string) (bool, error) {
	count, err := r.repository.GoquDBWrapper.From("stock_items").
		Where(goqu.Ex{"category": name}).
		CountContext(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count related stock items: %w", err)
	}

	return count > 0, nil
}

func (r *categoryRepositoryImpl) GetStockCounts(ctx context.Context) ([]models.CategoryStockCount, error) {
	counts := []models.CategoryStockCount{}
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.C("category"),
			goqu.COUNT("*").As("total"),
			countStatus(metadata.ItemActive).As("available"),
			countStatus(metadata.ItemInactive).As("allocated"),
			countStatus(metadata.ItemDiscontinued).As("in_maintenance"),
		).
		From("stock_items").
		GroupBy("category")

	if err := query.Executor().ScanStructsContext(ctx, &counts); err != nil {
		return nil, fmt.Errorf("failed to aggregate stock counts: %w", err)
	}

	return counts, nil
}

func countStatus(status metadata.ItemStatus) exp.LiteralExpression {
	return goqu.L("COUNT(*) FILTER (WHERE status = ?)", string(status))
}
