package employees

import (
	"context"
	"errors"
	"fmt"
	"time"

	"securestock/internal/repository"
	custom_error "securestock/pkg/errors"
	"securestock/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

var ErrEmployeeNotFound = errors.New("employee not found")

type EmployeeRepository interface {
	repository.Transactor
	GetEmployees(ctx context.Context, conditions repository.QueryBuilder) ([]models.Employee, error)
	GetEmployee(ctx context.Context, tx *goqu.TxDatabase, id string) (*models.Employee, error)
	PersistEmployee(ctx context.Context, tx *goqu.TxDatabase, employee *models.Employee) error
	UpdateEmployee(ctx context.Context, id string, updates map[string]interface{}) error
	DeleteEmployee(ctx context.Context, tx *goqu.TxDatabase, id string) error
}

type employeeRepositoryImpl struct {
	*repository.Repository
}

func NewRepository(r *repository.Repository) EmployeeRepository {
	return &employeeRepositoryImpl{Repository: r}
}

var employeeColumns = []interface{}{
	"id", "first_name", "last_name", "email", "phone", "department",
	"position", "hire_date", "status", "created_at", "updated_at",
}

func (r *employeeRepositoryImpl) GetEmployees(ctx context.Context, conditions repository.QueryBuilder) ([]models.Employee, error) {
	query := r.GoquDBWrapper.Select(employeeColumns...).
		From("employees").
		Where(conditions.BuildConditions(nil))

	if search := conditions.BuildSearch(nil); search != nil {
		query = query.Where(search)
	}

	employees := []models.Employee{}
	err := query.Order(goqu.C("last_name").Asc(), goqu.C("first_name").Asc()).
		Executor().ScanStructsContext(ctx, &employees)
	if err != nil {
		return nil, fmt.Errorf("unable to select employees: %w", err)
	}

	return employees, nil
}

func (r *employeeRepositoryImpl) GetEmployee(ctx context.Context, tx *goqu.TxDatabase, id string) (*models.Employee, error) {
	var employee models.Employee
	found, err := r.Q(tx).Select(employeeColumns...).
		From("employees").
		Where(goqu.Ex{"id": id}).
		Executor().ScanStructContext(ctx, &employee)
	if err != nil {
		return nil, fmt.Errorf("unable to select employee: %w", err)
	}
	if !found {
		return nil, ErrEmployeeNotFound
	}

	return &employee, nil
}

func (r *employeeRepositoryImpl) PersistEmployee(ctx context.Context, tx *goqu.TxDatabase, employee *models.Employee) error {
	now := time.Now().UTC()
	employee.ID = uuid.NewString()
	employee.CreatedAt = now
	employee.UpdatedAt = now

	_, err := r.Q(tx).Insert("employees").
		Rows(goqu.Record{
			"id":         employee.ID,
			"first_name": employee.FirstName,
			"last_name":  employee.LastName,
			"email":      repository.Nullable(employee.Email),
			"phone":      repository.Nullable(employee.Phone),
			"department": repository.Nullable(employee.Department),
			"position":   repository.Nullable(employee.Position),
			"hire_date":  repository.Nullable(employee.HireDate),
			"status":     string(employee.Status),
			"created_at": now,
			"updated_at": now,
		}).
		Executor().ExecContext(ctx)
	if err != nil {
		return custom_error.FromDB("failed to insert employee", err)
	}

	return nil
}

func (r *employeeRepositoryImpl) UpdateEmployee(ctx context.Context, id string, updates map[string]interface{}) error {
	record := goqu.Record{"updated_at": time.Now().UTC()}
	for column, value := range updates {
		record[column] = value
	}

	res, err := r.GoquDBWrapper.Update("employees").
		Set(record).
		Where(goqu.Ex{"id": id}).
		Executor().ExecContext(ctx)
	if err != nil {
		return custom_error.FromDB("failed to update employee", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrEmployeeNotFound
	}

	return nil
}

func (r *employeeRepositoryImpl) DeleteEmployee(ctx context.Context, tx *goqu.TxDatabase, id string) error {
	res, err := r.Q(tx).Delete("employees").
		Where(goqu.Ex{"id": id}).
		Executor().ExecContext(ctx)
	if err != nil {
		return custom_error.FromDB("failed to delete employee", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrEmployeeNotFound
	}

	return nil
}
