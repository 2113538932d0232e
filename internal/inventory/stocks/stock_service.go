package stocks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"securestock/internal/repository"
	custom_error "securestock/pkg/errors"
	"securestock/pkg/metadata"
	"securestock/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

var (
	ErrInvalidStatus  = errors.New("invalid stock item status")
	ErrUnknownRef     = errors.New("category or assignee does not exist")
	ErrDuplicate      = errors.New("a stock item with this serial number already exists")
	ErrNothingToPatch = errors.New("no fields to update")
	ErrNameRequired   = errors.New("name is required")
)

// MaintenanceWriter opens maintenance records inside the caller's transaction.
type MaintenanceWriter interface {
	PersistMaintenanceRecord(ctx context.Context, tx *goqu.TxDatabase, record *models.MaintenanceRecord) error
}

type StockService struct {
	repository  StockRepository
	maintenance MaintenanceWriter
	logger      *zap.Logger
	now         func() time.Time
}

func NewStockService(r StockRepository, m MaintenanceWriter, logger *zap.Logger) *StockService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockService{repository: r, maintenance: m, logger: logger, now: time.Now}
}

func (s *StockService) GetStockItems(ctx context.Context, filter models.StockItemFilter) ([]models.StockItem, error) {
	conditions := repository.NewQueryBuilder()
	if filter.Category != "" {
		conditions.AddCondition("category", filter.Category)
	}
	if filter.Status != "" {
		status, err := metadata.NewItemStatus(filter.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, filter.Status)
		}
		conditions.AddCondition("status", string(status))
	}
	if filter.AssignedTo != "" {
		conditions.AddCondition("assigned_to", filter.AssignedTo)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		conditions.AddSearch(search, "name", "park_number", "serial")
	}

	return s.repository.GetStockItemsBy(ctx, conditions)
}

func (s *StockService) GetStockItem(ctx context.Context, id string) (*models.StockItem, error) {
	return s.repository.GetStockItem(ctx, nil, id)
}

// CreateStockItem stores a new item. A discontinued item that arrives with a
// problem description also gets a scheduled repair record, written in the
// same transaction.
func (s *StockService) CreateStockItem(ctx context.Context, userID string, req models.StockItemRequest) (*models.StockItem, *models.MaintenanceRecord, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, nil, ErrNameRequired
	}

	status := metadata.ItemActive
	if req.Status != "" {
		parsed, err := metadata.NewItemStatus(req.Status)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
		}
		status = parsed
	}

	item := &models.StockItem{
		Name:               name,
		ParkNumber:         trimmed(req.ParkNumber),
		SerialNumber:       trimmed(req.SerialNumber),
		Category:           req.Category,
		Status:             status,
		AssignedTo:         trimmed(req.AssignedTo),
		Location:           trimmed(req.Location),
		ProblemDescription: trimmed(req.ProblemDescription),
	}

	var record *models.MaintenanceRecord
	err := s.repository.WithTransaction(ctx, func(tx *goqu.TxDatabase) error {
		if err := s.repository.PersistStockItem(ctx, tx, item); err != nil {
			return err
		}

		if item.Status != metadata.ItemDiscontinued || item.ProblemDescription == nil {
			return nil
		}

		record = repairRecordFor(item, userID, s.now())
		return s.maintenance.PersistMaintenanceRecord(ctx, tx, record)
	})
	if err != nil {
		return nil, nil, classify(err)
	}

	if record != nil {
		s.logger.Info("opened repair record for discontinued item",
			zap.String("stock_item_id", item.ID),
			zap.String("maintenance_id", record.ID))
	}

	return item, record, nil
}

func (s *StockService) UpdateStockItem(ctx context.Context, req models.PatchStockItemRequest) (*models.StockItem, error) {
	updates := make(map[string]interface{})

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		updates["name"] = name
	}
	if req.ParkNumber != nil {
		updates["park_number"] = repository.Nullable(trimmed(req.ParkNumber))
	}
	if req.SerialNumber != nil {
		updates["serial_number"] = repository.Nullable(trimmed(req.SerialNumber))
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Status != nil {
		status, err := metadata.NewItemStatus(*req.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *req.Status)
		}
		updates["status"] = string(status)
	}
	if req.ClearAssignee {
		updates["assigned_to"] = nil
	} else if req.AssignedTo != nil {
		updates["assigned_to"] = *req.AssignedTo
	}
	if req.Location != nil {
		updates["location"] = repository.Nullable(trimmed(req.Location))
	}
	if req.ProblemDescription != nil {
		updates["problem_description"] = repository.Nullable(trimmed(req.ProblemDescription))
	}

	if len(updates) == 0 {
		return nil, ErrNothingToPatch
	}

	if err := s.repository.UpdateStockItem(ctx, nil, req.ID, updates); err != nil {
		return nil, classify(err)
	}

	return s.repository.GetStockItem(ctx, nil, req.ID)
}

func (s *StockService) DeleteStockItem(ctx context.Context, id string) (*models.StockItem, error) {
	item, err := s.repository.GetStockItem(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	if err := s.repository.DeleteStockItem(ctx, id); err != nil {
		return nil, err
	}

	return item, nil
}

func repairRecordFor(item *models.StockItem, userID string, now time.Time) *models.MaintenanceRecord {
	record := &models.MaintenanceRecord{
		StockItemID:     &item.ID,
		EquipmentName:   item.Name,
		MaintenanceType: "repair",
		Description:     item.ProblemDescription,
		ScheduledDate:   models.NewDate(now),
		Status:          metadata.MaintenanceScheduled,
		Priority:        metadata.PriorityMedium,
	}
	if userID != "" {
		record.CreatedBy = &userID
	}
	return record
}

func classify(err error) error {
	switch {
	case custom_error.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %v", ErrUnknownRef, err)
	case custom_error.IsUniqueViolation(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}

// trimmed returns nil for nil or blank input.
func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}
