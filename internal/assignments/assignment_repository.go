package assignments

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

var ErrAssignmentNotFound = errors.New("assignment not found")

type AssignmentRepository interface {
	repository.Transactor
	GetAssignments(ctx context.Context, conditions repository.QueryBuilder) ([]models.EquipmentAssignment, error)
	GetAssignment(ctx context.Context, tx *goqu.TxDatabase, id string) (*models.EquipmentAssignment, error)
	PersistAssignment(ctx context.Context, tx *goqu.TxDatabase, assignment *models.EquipmentAssignment) error
	MarkReturned(ctx context.Context, tx *goqu.TxDatabase, id string, at time.Time) error
	ReturnAllForEmployee(ctx context.Context, tx *goqu.TxDatabase, employeeID string, at time.Time) (int64, error)
}

type assignmentRepositoryImpl struct {
	*repository.Repository
}

func NewRepository(r *repository.Repository) AssignmentRepository {
	return &assignmentRepositoryImpl{Repository: r}
}

var assignmentAliases = map[string]string{
	"employee_id":   "a.employee_id",
	"stock_item_id": "a.stock_item_id",
	"status":        "a.status",
}

func (r *assignmentRepositoryImpl) assignmentQuery(q repository.Querier) *goqu.SelectDataset {
	return q.
		Select(
			goqu.I("a.id"),
			goqu.I("a.employee_id"),
			goqu.I("a.stock_item_id"),
			goqu.I("a.assigned_date"),
			goqu.I("a.returned_date"),
			goqu.I("a.status"),
			goqu.I("a.notes"),
			goqu.I("a.created_at"),
			goqu.L("CONCAT(e.first_name, ' ', e.last_name)").As("employee_name"),
			goqu.I("s.name").As("item_name"),
		).
		From(goqu.T("equipment_assignments").As("a")).
		InnerJoin(goqu.T("employees").As("e"), goqu.On(goqu.Ex{"a.employee_id": goqu.I("e.id")})).
		InnerJoin(goqu.T("stock_items").As("s"), goqu.On(goqu.Ex{"a.stock_item_id": goqu.I("s.id")}))
}

func (r *assignmentRepositoryImpl) GetAssignments(ctx context.Context, conditions repository.QueryBuilder) ([]models.EquipmentAssignment, error) {
	assignments := []models.EquipmentAssignment{}
	err := r.assignmentQuery(r.GoquDBWrapper).
		Where(conditions.BuildConditions(assignmentAliases)).
		Order(goqu.I("a.assigned_date").Desc()).
		Executor().ScanStructsContext(ctx, &assignments)
	if err != nil {
		return nil, fmt.Errorf("unable to select assignments: %w", err)
	}

	return assignments, nil
}

func (r *assignmentRepositoryImpl) GetAssignment(ctx context.Context, tx *goqu.TxDatabase, id string) (*models.EquipmentAssignment, error) {
	query := r.assignmentQuery(r.Q(tx)).Where(goqu.Ex{"a.id": id})
	if tx != nil {
		query = query.ForUpdate(exp.Wait, goqu.T("a"))
	}

	var assignment models.EquipmentAssignment
	found, err := query.Executor().ScanStructContext(ctx, &assignment)
	if err != nil {
		return nil, fmt.Errorf("unable to select assignment: %w", err)
	}
	if !found {
		return nil, ErrAssignmentNotFound
	}

	return &assignment, nil
}

func (r *assignmentRepositoryImpl) PersistAssignment(ctx context.Context, tx *goqu.TxDatabase, assignment *models.EquipmentAssignment) error {
	assignment.ID = uuid.NewString()
	assignment.CreatedAt = time.Now().UTC()
	if assignment.AssignedDate.IsZero() {
		assignment.AssignedDate = assignment.CreatedAt
	}
	if assignment.Status == "" {
		assignment.Status = metadata.AssignmentAssigned
	}

	_, err := r.Q(tx).Insert("equipment_assignments").
		Rows(goqu.Record{
			"id":            assignment.ID,
			"employee_id":   assignment.EmployeeID,
			"stock_item_id": assignment.StockItemID,
			"assigned_date": assignment.AssignedDate,
			"status":        string(assignment.Status),
			"notes":         repository.Nullable(assignment.Notes),
			"created_at":    assignment.CreatedAt,
		}).
		Executor().ExecContext(ctx)
	if err != nil {
		return custom_error.FromDB("failed to insert assignment", err)
	}

	return nil
}

func (r *assignmentRepositoryImpl) MarkReturned(ctx context.Context, tx *goqu.TxDatabase, id string, at time.Time) error {
	res, err := r.Q(tx).Update("equipment_assignments").
		Set(goqu.Record{"status": string(metadata.AssignmentReturned), "returned_date": at}).
		Where(goqu.Ex{"id": id}).
		Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to return assignment: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrAssignmentNotFound
	}

	return nil
}

// ReturnAllForEmployee closes every open assignment of employeeID.
func (r *assignmentRepositoryImpl) ReturnAllForEmployee(ctx context.Context, tx *goqu.TxDatabase, employeeID string, at time.Time) (int64, error) {
	res, err := r.Q(tx).Update("equipment_assignments").
		Set(goqu.Record{"status": string(metadata.AssignmentReturned), "returned_date": at}).
		Where(goqu.Ex{
			"employee_id": employeeID,
			"status":      string(metadata.AssignmentAssigned),
		}).
		Executor().ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to return assignments: %w", err)
	}

	return res.RowsAffected()
}
