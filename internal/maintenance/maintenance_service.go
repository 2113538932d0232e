package maintenance

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

	"go.uber.org/zap"
)

var (
	ErrInvalidStatus   = errors.New("invalid maintenance status")
	ErrInvalidPriority = errors.New("invalid maintenance priority")
	ErrUnknownItem     = errors.New("stock item does not exist")
	ErrNothingToPatch  = errors.New("no fields to update")
	ErrDateRequired    = errors.New("scheduled_date cannot be cleared")
)

// Notifier tells a technician about a newly scheduled job.
type Notifier interface {
	NotifyTechnician(ctx context.Context, notice models.MaintenanceNotice) error
}

type MaintenanceService struct {
	repository MaintenanceRepository
	notifier   Notifier
	logger     *zap.Logger
	now        func() time.Time
}

// NewMaintenanceService accepts a nil notifier, in which case no email is sent.
func NewMaintenanceService(r MaintenanceRepository, n Notifier, logger *zap.Logger) *MaintenanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaintenanceService{repository: r, notifier: n, logger: logger, now: time.Now}
}

func (s *MaintenanceService) GetRecords(ctx context.Context, filter models.MaintenanceFilter) ([]models.MaintenanceRecord, error) {
	conditions := repository.NewQueryBuilder()
	if filter.Status != "" {
		status, err := metadata.NewMaintenanceStatus(filter.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, filter.Status)
		}
		conditions.AddCondition("status", string(status))
	}
	if filter.Priority != "" {
		priority, err := metadata.NewPriority(filter.Priority)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPriority, filter.Priority)
		}
		conditions.AddCondition("priority", string(priority))
	}
	if filter.StockItemID != "" {
		conditions.AddCondition("stock_item_id", filter.StockItemID)
	}

	return s.repository.GetMaintenanceRecords(ctx, conditions)
}

func (s *MaintenanceService) GetRecord(ctx context.Context, id string) (*models.MaintenanceRecord, error) {
	return s.repository.GetMaintenanceRecord(ctx, id)
}

// CreateRecord stores the record and then notifies the technician. A failed
// notification is logged and does not fail the call.
func (s *MaintenanceService) CreateRecord(ctx context.Context, userID string, req models.MaintenanceRequest) (*models.MaintenanceRecord, error) {
	status := metadata.MaintenanceScheduled
	if req.Status != "" {
		parsed, err := metadata.NewMaintenanceStatus(req.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
		}
		status = parsed
	}

	priority := metadata.PriorityMedium
	if req.Priority != "" {
		parsed, err := metadata.NewPriority(req.Priority)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPriority, req.Priority)
		}
		priority = parsed
	}

	record := &models.MaintenanceRecord{
		StockItemID:     req.StockItemID,
		EquipmentName:   strings.TrimSpace(req.EquipmentName),
		MaintenanceType: strings.TrimSpace(req.MaintenanceType),
		Description:     req.Description,
		ScheduledDate:   models.NewDate(s.now()),
		Status:          status,
		Priority:        priority,
		TechnicianName:  req.TechnicianName,
		TechnicianEmail: req.TechnicianEmail,
		Cost:            req.Cost,
		Notes:           req.Notes,
	}
	if req.ScheduledDate != nil && !req.ScheduledDate.IsZero() {
		record.ScheduledDate = *req.ScheduledDate
	}
	if status == metadata.MaintenanceCompleted {
		today := models.NewDate(s.now())
		record.CompletedDate = &today
	}
	if userID != "" {
		record.CreatedBy = &userID
	}

	if err := s.repository.PersistMaintenanceRecord(ctx, nil, record); err != nil {
		if custom_error.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: %v", ErrUnknownItem, err)
		}
		return nil, err
	}

	s.notify(ctx, record)

	return record, nil
}

func (s *MaintenanceService) UpdateRecord(ctx context.Context, req models.PatchMaintenanceRequest) (*models.MaintenanceRecord, error) {
	updates := make(map[string]interface{})

	if req.EquipmentName != nil {
		updates["equipment_name"] = strings.TrimSpace(*req.EquipmentName)
	}
	if req.MaintenanceType != nil {
		updates["maintenance_type"] = strings.TrimSpace(*req.MaintenanceType)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ScheduledDate != nil {
		if req.ScheduledDate.IsZero() {
			return nil, ErrDateRequired
		}
		updates["scheduled_date"] = *req.ScheduledDate
	}
	if req.CompletedDate != nil {
		// An empty or null completed_date reopens the record's completion.
		if req.CompletedDate.IsZero() {
			updates["completed_date"] = nil
		} else {
			updates["completed_date"] = *req.CompletedDate
		}
	}
	if req.Priority != nil {
		priority, err := metadata.NewPriority(*req.Priority)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPriority, *req.Priority)
		}
		updates["priority"] = string(priority)
	}
	if req.TechnicianName != nil {
		updates["technician_name"] = *req.TechnicianName
	}
	if req.TechnicianEmail != nil {
		updates["technician_email"] = *req.TechnicianEmail
	}
	if req.Cost != nil {
		updates["cost"] = *req.Cost
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if req.Status != nil {
		return s.changeStatus(ctx, req.ID, *req.Status, updates)
	}

	if len(updates) == 0 {
		return nil, ErrNothingToPatch
	}

	if err := s.repository.UpdateMaintenanceRecord(ctx, req.ID, updates); err != nil {
		return nil, err
	}

	return s.repository.GetMaintenanceRecord(ctx, req.ID)
}

// ChangeStatus moves a record to any valid status. Entering completed stamps
// completed_date when it is still empty.
func (s *MaintenanceService) ChangeStatus(ctx context.Context, id, status string) (*models.MaintenanceRecord, error) {
	return s.changeStatus(ctx, id, status, map[string]interface{}{})
}

func (s *MaintenanceService) changeStatus(ctx context.Context, id, value string, updates map[string]interface{}) (*models.MaintenanceRecord, error) {
	status, err := metadata.NewMaintenanceStatus(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, value)
	}

	current, err := s.repository.GetMaintenanceRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	updates["status"] = string(status)
	_, explicit := updates["completed_date"]
	if status == metadata.MaintenanceCompleted && current.CompletedDate == nil && !explicit {
		updates["completed_date"] = models.NewDate(s.now())
	}

	if err := s.repository.UpdateMaintenanceRecord(ctx, id, updates); err != nil {
		return nil, err
	}

	if current.Status != status {
		s.logger.Info("maintenance status changed",
			zap.String("id", id),
			zap.String("from", string(current.Status)),
			zap.String("to", string(status)))
	}

	return s.repository.GetMaintenanceRecord(ctx, id)
}

func (s *MaintenanceService) DeleteRecord(ctx context.Context, id string) (*models.MaintenanceRecord, error) {
	record, err := s.repository.GetMaintenanceRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repository.DeleteMaintenanceRecord(ctx, id); err != nil {
		return nil, err
	}

	return record, nil
}

func (s *MaintenanceService) notify(ctx context.Context, record *models.MaintenanceRecord) {
	if s.notifier == nil {
		return
	}

	notice, ok := record.Notice()
	if !ok {
		return
	}

	if err := s.notifier.NotifyTechnician(context.WithoutCancel(ctx), notice); err != nil {
		s.logger.Warn("failed to notify technician",
			zap.String("maintenance_id", record.ID),
			zap.String("technician_email", notice.TechnicianEmail),
			zap.Error(err))
		return
	}

	s.logger.Info("technician notified", zap.String("maintenance_id", record.ID))
}
