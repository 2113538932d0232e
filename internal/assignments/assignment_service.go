package assignments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"securestock/internal/inventory/stocks"
	"securestock/internal/repository"
	custom_error "securestock/pkg/errors"
	"securestock/pkg/metadata"
	"securestock/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

var (
	ErrItemUnavailable = errors.New("stock item is not available")
	ErrItemNotFound    = errors.New("stock item not found")
	ErrUnknownEmployee = errors.New("employee does not exist")
	ErrAlreadyReturned = errors.New("assignment already returned")
	ErrInvalidStatus   = errors.New("invalid assignment status")
)

// ItemStore is the part of the stock repository allocation needs.
type ItemStore interface {
	GetStockItem(ctx context.Context, tx *goqu.TxDatabase, id string) (*models.StockItem, error)
	UpdateStockItem(ctx context.Context, tx *goqu.TxDatabase, id string, updates map[string]interface{}) error
	ReleaseItems(ctx context.Context, tx *goqu.TxDatabase, employeeID string) ([]string, error)
}

type AssignmentService struct {
	repository AssignmentRepository
	items      ItemStore
	logger     *zap.Logger
	now        func() time.Time
}

func NewAssignmentService(r AssignmentRepository, items ItemStore, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{repository: r, items: items, logger: logger, now: time.Now}
}

func (s *AssignmentService) GetAssignments(ctx context.Context, filter models.AssignmentFilter) ([]models.EquipmentAssignment, error) {
	conditions := repository.NewQueryBuilder()
	if filter.EmployeeID != "" {
		conditions.AddCondition("employee_id", filter.EmployeeID)
	}
	if filter.Status != "" {
		status, err := metadata.NewAssignmentStatus(filter.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, filter.Status)
		}
		conditions.AddCondition("status", string(status))
	}

	return s.repository.GetAssignments(ctx, conditions)
}

func (s *AssignmentService) Assign(ctx context.Context, req models.AssignmentRequest) (*models.EquipmentAssignment, error) {
	var id string
	err := s.repository.WithTransaction(ctx, func(tx *goqu.TxDatabase) error {
		assignment, err := s.AssignInTx(ctx, tx, req.EmployeeID, req.StockItemID, req.Notes)
		if err != nil {
			return err
		}
		id = assignment.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repository.GetAssignment(ctx, nil, id)
}

// AssignInTx hands an active item to employeeID: the item turns inactive and
// an open assignment is recorded.
func (s *AssignmentService) AssignInTx(ctx context.Context, tx *goqu.TxDatabase, employeeID, itemID string, notes *string) (*models.EquipmentAssignment, error) {
	item, err := s.items.GetStockItem(ctx, tx, itemID)
	if err != nil {
		if errors.Is(err, stocks.ErrStockItemNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
		}
		return nil, err
	}
	if item.Status != metadata.ItemActive {
		return nil, fmt.Errorf("%w: %s is %s", ErrItemUnavailable, item.Name, item.Status.Label())
	}

	assignment := &models.EquipmentAssignment{
		EmployeeID:   employeeID,
		StockItemID:  itemID,
		AssignedDate: s.now().UTC(),
		Status:       metadata.AssignmentAssigned,
		Notes:        notes,
	}
	if err := s.repository.PersistAssignment(ctx, tx, assignment); err != nil {
		if custom_error.IsForeignKeyViolation(err) {
			return nil, ErrUnknownEmployee
		}
		return nil, err
	}

	err = s.items.UpdateStockItem(ctx, tx, itemID, map[string]interface{}{
		"status":      string(metadata.ItemInactive),
		"assigned_to": employeeID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("item assigned", zap.String("item_id", itemID), zap.String("employee_id", employeeID))
	return assignment, nil
}

func (s *AssignmentService) Return(ctx context.Context, id string) (*models.EquipmentAssignment, error) {
	err := s.repository.WithTransaction(ctx, func(tx *goqu.TxDatabase) error {
		assignment, err := s.repository.GetAssignment(ctx, tx, id)
		if err != nil {
			return err
		}
		if assignment.Status == metadata.AssignmentReturned {
			return alreadyReturned(assignment)
		}

		if err := s.repository.MarkReturned(ctx, tx, id, s.now().UTC()); err != nil {
			return err
		}

		item, err := s.items.GetStockItem(ctx, tx, assignment.StockItemID)
		if err != nil {
			return err
		}
		if item.AssignedTo == nil || *item.AssignedTo != assignment.EmployeeID {
			return nil
		}

		updates := map[string]interface{}{"assigned_to": nil}
		// Only an item still out on this assignment goes back on the shelf.
		if item.Status == metadata.ItemInactive {
			updates["status"] = string(metadata.ItemActive)
		}
		return s.items.UpdateStockItem(ctx, tx, item.ID, updates)
	})
	if err != nil {
		return nil, err
	}

	return s.repository.GetAssignment(ctx, nil, id)
}

// ReleaseEmployee closes every open assignment of employeeID and makes the
// items that were out on them available again.
func (s *AssignmentService) ReleaseEmployee(ctx context.Context, tx *goqu.TxDatabase, employeeID string) ([]string, error) {
	if _, err := s.repository.ReturnAllForEmployee(ctx, tx, employeeID, s.now().UTC()); err != nil {
		return nil, err
	}
	return s.items.ReleaseItems(ctx, tx, employeeID)
}

func alreadyReturned(a *models.EquipmentAssignment) error {
	if a.ReturnedDate == nil {
		return ErrAlreadyReturned
	}
	return fmt.Errorf("%w on %s", ErrAlreadyReturned, a.ReturnedDate.Format(time.DateOnly))
}
