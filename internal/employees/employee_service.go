package employees

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"securestock/internal/repository"
	"securestock/pkg/metadata"
	"securestock/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

var (
	ErrInvalidStatus  = errors.New("invalid employee status")
	ErrNothingToPatch = errors.New("no fields to update")
	ErrNameRequired   = errors.New("first and last name are required")
)

// Allocator hands items to employees and takes them back, inside the
// caller's transaction.
type Allocator interface {
	AssignInTx(ctx context.Context, tx *goqu.TxDatabase, employeeID, itemID string, notes *string) (*models.EquipmentAssignment, error)
	ReleaseEmployee(ctx context.Context, tx *goqu.TxDatabase, employeeID string) ([]string, error)
}

type EmployeeService struct {
	repository EmployeeRepository
	allocator  Allocator
	logger     *zap.Logger
}

func NewEmployeeService(r EmployeeRepository, allocator Allocator, logger *zap.Logger) *EmployeeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{repository: r, allocator: allocator, logger: logger}
}

func (s *EmployeeService) GetEmployees(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error) {
	conditions := repository.NewQueryBuilder()
	if filter.Status != "" {
		status, err := metadata.NewEmployeeStatus(filter.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, filter.Status)
		}
		conditions.AddCondition("status", string(status))
	}
	if filter.Department != "" {
		conditions.AddCondition("department", filter.Department)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		conditions.AddSearch(search, "first_name", "last_name", "email")
	}

	return s.repository.GetEmployees(ctx, conditions)
}

func (s *EmployeeService) GetEmployee(ctx context.Context, id string) (*models.Employee, error) {
	return s.repository.GetEmployee(ctx, nil, id)
}

// CreateEmployee stores the employee and allocates every requested item in
// one transaction. One unavailable item aborts the whole onboarding.
func (s *EmployeeService) CreateEmployee(ctx context.Context, req models.EmployeeRequest) (*models.EmployeeWithEquipment, error) {
	firstName, lastName := strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		return nil, ErrNameRequired
	}

	status := metadata.EmployeeActive
	if req.Status != "" {
		parsed, err := metadata.NewEmployeeStatus(req.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
		}
		status = parsed
	}

	employee := &models.Employee{
		FirstName:  firstName,
		LastName:   lastName,
		Email:      trimmed(req.Email),
		Phone:      trimmed(req.Phone),
		Department: trimmed(req.Department),
		Position:   trimmed(req.Position),
		HireDate:   req.HireDate,
		Status:     status,
	}

	result := &models.EmployeeWithEquipment{Assignments: []models.EquipmentAssignment{}}
	err := s.repository.WithTransaction(ctx, func(tx *goqu.TxDatabase) error {
		if err := s.repository.PersistEmployee(ctx, tx, employee); err != nil {
			return err
		}

		for _, itemID := range unique(req.EquipmentIDs) {
			assignment, err := s.allocator.AssignInTx(ctx, tx, employee.ID, itemID, nil)
			if err != nil {
				return err
			}
			result.Assignments = append(result.Assignments, *assignment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Employee = *employee
	if len(result.Assignments) > 0 {
		s.logger.Info("employee onboarded with equipment",
			zap.String("employee_id", employee.ID),
			zap.Int("items", len(result.Assignments)))
	}
	return result, nil
}

func (s *EmployeeService) UpdateEmployee(ctx context.Context, req models.PatchEmployeeRequest) (*models.Employee, error) {
	updates := make(map[string]interface{})

	for column, value := range map[string]*string{"first_name": req.FirstName, "last_name": req.LastName} {
		if value == nil {
			continue
		}
		name := strings.TrimSpace(*value)
		if name == "" {
			return nil, ErrNameRequired
		}
		updates[column] = name
	}
	if req.Email != nil {
		updates["email"] = repository.Nullable(trimmed(req.Email))
	}
	if req.Phone != nil {
		updates["phone"] = repository.Nullable(trimmed(req.Phone))
	}
	if req.Department != nil {
		updates["department"] = repository.Nullable(trimmed(req.Department))
	}
	if req.Position != nil {
		updates["position"] = repository.Nullable(trimmed(req.Position))
	}
	if req.HireDate != nil {
		updates["hire_date"] = *req.HireDate
	}
	if req.Status != nil {
		status, err := metadata.NewEmployeeStatus(*req.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *req.Status)
		}
		updates["status"] = string(status)
	}

	if len(updates) == 0 {
		return nil, ErrNothingToPatch
	}

	if err := s.repository.UpdateEmployee(ctx, req.ID, updates); err != nil {
		return nil, err
	}

	return s.repository.GetEmployee(ctx, nil, req.ID)
}

// DeleteEmployee releases whatever the employee still holds and removes them.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, id string) (*models.Employee, error) {
	var (
		employee *models.Employee
		released []string
	)
	err := s.repository.WithTransaction(ctx, func(tx *goqu.TxDatabase) error {
		var err error
		employee, err = s.repository.GetEmployee(ctx, tx, id)
		if err != nil {
			return err
		}

		released, err = s.allocator.ReleaseEmployee(ctx, tx, id)
		if err != nil {
			return err
		}

		return s.repository.DeleteEmployee(ctx, tx, id)
	})
	if err != nil {
		return nil, err
	}

	if len(released) > 0 {
		s.logger.Info("released equipment of removed employee",
			zap.String("employee_id", id),
			zap.Strings("stock_item_ids", released))
	}
	return employee, nil
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
