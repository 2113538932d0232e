package stocks

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

var ErrStockItemNotFound = errors.New("stock item not found")

// StockRepository reads and writes stock_items. Methods taking a tx run on
// it when it is not nil.
type StockRepository interface {
	repository.Transactor
	GetStockItemsBy(ctx context.Context, conditions repository.QueryBuilder) ([]models.StockItem, error)
	GetStockItem(ctx context.Context, tx *goqu.TxDatabase, id string) (*models.StockItem, error)
	PersistStockItem(ctx context.Context, tx *goqu.TxDatabase, item *models.StockItem) error
	UpdateStockItem(ctx context.Context, tx *goqu.TxDatabase, id string, updates map[string]interface{}) error
	DeleteStockItem(ctx context.Context, id string) error
	ReleaseItems(ctx context.Context, tx *goqu.TxDatabase, employeeID string) ([]string, error)
}

type stockRepositoryImpl struct {
	*repository.Repository
}

func NewRepository(r *repository.Repository) StockRepository {
	return &stockRepositoryImpl{Repository: r}
}

var stockAliases = map[string]string{
	"category":    "s.category",
	"status":      "s.status",
	"assigned_to": "s.assigned_to",
	"name":        "s.name",
	"park_number": "s.park_number",
	"serial":      "s.serial_number",
}

func (r *stockRepositoryImpl) getStockItemQuery(q repository.Querier) *goqu.SelectDataset {
	return q.
		Select(
			goqu.I("s.id"),
			goqu.I("s.name"),
			goqu.I("s.park_number"),
			goqu.I("s.serial_number"),
			goqu.I("s.category"),
			goqu.I("s.status"),
			goqu.I("s.assigned_to"),
			goqu.L("NULLIF(TRIM(CONCAT(e.first_name, ' ', e.last_name)), '')").As("assigned_to_name"),
			goqu.I("s.location"),
			goqu.I("s.problem_description"),
			goqu.I("s.created_at"),
			goqu.I("s.updated_at"),
		).
		From(goqu.T("stock_items").As("s")).
		LeftJoin(
			goqu.T("employees").As("e"),
			goqu.On(goqu.Ex{"s.assigned_to": goqu.I("e.id")}),
		)
}

func (r *stockRepositoryImpl) GetStockItemsBy(ctx context.Context, conditions repository.QueryBuilder) ([]models.StockItem, error) {
	query := r.getStockItemQuery(r.GoquDBWrapper).
		Where(conditions.BuildConditions(stockAliases))

	if search := conditions.BuildSearch(stockAliases); search != nil {
		query = query.Where(search)
	}

	items := []models.StockItem{}
	err := query.
		Order(goqu.I("s.category").Asc(), goqu.I("s.name").Asc()).
		Executor().ScanStructsContext(ctx, &items)
	if err != nil {
		return nil, fmt.Errorf("unable to select stock items from database: %w", err)
	}

	return items, nil
}

func (r *stockRepositoryImpl) GetStockItem(ctx context.Context, tx *goqu.TxDatabase, id string) (*models.StockItem, error) {
	query := r.getStockItemQuery(r.Q(tx)).Where(goqu.Ex{"s.id": id})
	if tx != nil {
		query = query.ForUpdate(exp.Wait, goqu.T("s"))
	}

	var item models.StockItem
	found, err := query.Executor().ScanStructContext(ctx, &item)
	if err != nil {
		return nil, fmt.Errorf("unable to select stock item: %w", err)
	}
	if !found {
		return nil, ErrStockItemNotFound
	}

	return &item, nil
}

func (r *stockRepositoryImpl) PersistStockItem(ctx context.Context, tx *goqu.TxDatabase, item *models.StockItem) error {
	now := time.Now().UTC()
	item.ID = uuid.NewString()
	item.CreatedAt = now
	item.UpdatedAt = now

	_, err := r.Q(tx).Insert("stock_items").
		Rows(goqu.Record{
			"id":                  item.ID,
			"name":                item.Name,
			"park_number":         repository.Nullable(item.ParkNumber),
			"serial_number":       repository.Nullable(item.SerialNumber),
			"category":            item.Category,
			"status":              string(item.Status),
			"assigned_to":         repository.Nullable(item.AssignedTo),
			"location":            repository.Nullable(item.Location),
			"problem_description": repository.Nullable(item.ProblemDescription),
			"created_at":          now,
			"updated_at":          now,
		}).
		Executor().ExecContext(ctx)
	if err != nil {
		return custom_error.FromDB("failed to insert stock item", err)
	}

	return nil
}

func (r *stockRepositoryImpl) UpdateStockItem(ctx context.Context, tx *goqu.TxDatabase, id string, updates map[string]interface{}) error {
	record := goqu.Record{"updated_at": time.Now().UTC()}
	for column, value := range updates {
		record[column] = value
	}

	res, err := r.Q(tx).Update("stock_items").
		Set(record).
		Where(goqu.Ex{"id": id}).
		Executor().ExecContext(ctx)
	if err != nil {
		return custom_error.FromDB("failed to update stock item", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrStockItemNotFound
	}

	return nil
}

func (r *stockRepositoryImpl) DeleteStockItem(ctx context.Context, id string) error {
	res, err := r.GoquDBWrapper.Delete("stock_items").
		Where(goqu.Ex{"id": id}).
		Executor().ExecContext(ctx)
	if err != nil {
		return custom_error.FromDB("failed to delete stock item", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrStockItemNotFound
	}

	return nil
}

// ReleaseItems detaches every item held by employeeID. Items that were out
// on assignment become available again, items in any other status keep it.
// The ids of the items made available are returned.
func (r *stockRepositoryImpl) ReleaseItems(ctx context.Context, tx *goqu.TxDatabase, employeeID string) ([]string, error) {
	now := time.Now().UTC()

	var ids []string
	err := r.Q(tx).Update("stock_items").
		Set(goqu.Record{
			"status":      string(metadata.ItemActive),
			"assigned_to": nil,
			"updated_at":  now,
		}).
		Where(releasableItems(employeeID)).
		Returning("id").
		Executor().ScanValsContext(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("failed to release stock items: %w", err)
	}

	_, err = r.Q(tx).Update("stock_items").
		Set(goqu.Record{"assigned_to": nil, "updated_at": now}).
		Where(goqu.Ex{"assigned_to": employeeID}).
		Executor().ExecContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to detach stock items: %w", err)
	}

	return ids, nil
}

// releasableItems matches the items still out on an assignment to employeeID.
func releasableItems(employeeID string) goqu.Ex {
	return goqu.Ex{"assigned_to": employeeID, "status": string(metadata.ItemInactive)}
}
