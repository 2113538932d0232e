package maintenance

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

var ErrRecordNotFound = errors.New("maintenance record not found")

var recordColumns = []interface{}{
	"id", "stock_item_id", "equipment_name", "maintenance_type", "description",
	"scheduled_date", "completed_date", "status", "priority", "technician_name",
	"technician_email", "cost", "notes", "created_by", "created_at", "updated_at",
}

type MaintenanceRepository interface {
	PersistMaintenanceRecord(ctx context.Context, tx *goqu.TxDatabase, record *models.MaintenanceRecord) error
	GetMaintenanceRecords(ctx context.Context, conditions repository.QueryBuilder) ([]models.MaintenanceRecord, error)
	GetMaintenanceRecord(ctx context.Context, id string) (*models.MaintenanceRecord, error)
	UpdateMaintenanceRecord(ctx context.Context, id string, updates map[string]interface{}) error
	DeleteMaintenanceRecord(ctx context.Context, id string) error
}

type maintenanceRepositoryImpl struct {
	*repository.Repository
}

func NewRepository(r *repository.Repository) MaintenanceRepository {
	return &maintenanceRepositoryImpl{Repository: r}
}

func (r *maintenanceRepositoryImpl) PersistMaintenanceRecord(ctx context.Context, tx *goqu.TxDatabase, record *models.MaintenanceRecord) error {
	now := time.Now().UTC()
	record.ID = uuid.NewString()
	record.CreatedAt = now
	record.UpdatedAt = now

	_, err := r.Q(tx).Insert("maintenance_records").
		Rows(goqu.Record{
			"id":               record.ID,
			"stock_item_id":    repository.Nullable(record.StockItemID),
			"equipment_name":   record.EquipmentName,
			"maintenance_type": record.MaintenanceType,
			"description":      repository.Nullable(record.Description),
			"scheduled_date":   record.ScheduledDate,
			"completed_date":   repository.Nullable(record.CompletedDate),
			"status":           string(record.Status),
			"priority":         string(record.Priority),
			"technician_name":  repository.Nullable(record.TechnicianName),
			"technician_email": repository.Nullable(record.TechnicianEmail),
			"cost":             repository.Nullable(record.Cost),
			"notes":            repository.Nullable(record.Notes),
			"created_by":       repository.Nullable(record.CreatedBy),
			"created_at":       now,
			"updated_at":       now,
		}).
		Executor().ExecContext(ctx)
	if err != nil {
		return custom_error.FromDB("failed to insert maintenance record", err)
	}

	return nil
}

func (r *maintenanceRepositoryImpl) GetMaintenanceRecords(ctx context.Context, conditions repository.QueryBuilder) ([]models.MaintenanceRecord, error) {
	records := []models.MaintenanceRecord{}
	err := r.GoquDBWrapper.
		Select(recordColumns...).
		From("maintenance_records").
		Where(conditions.BuildConditions(nil)).
		Order(goqu.I("scheduled_date").Desc(), goqu.I("created_at").Desc()).
		Executor().ScanStructsContext(ctx, &records)
	if err != nil {
		return nil, fmt.Errorf("unable to select maintenance records: %w", err)
	}

	return records, nil
}

func (r *maintenanceRepositoryImpl) GetMaintenanceRecord(ctx context.Context, id string) (*models.MaintenanceRecord, error) {
	var record models.MaintenanceRecord
	found, err := r.GoquDBWrapper.
		Select(recordColumns...).
		From("maintenance_records").
		Where(goqu.Ex{"id": id}).
		Executor().ScanStructContext(ctx, &record)
	if err != nil {
		return nil, fmt.Errorf("unable to select maintenance record: %w", err)
	}
	if !found {
		return nil, ErrRecordNotFound
	}

	return &record, nil
}

func (r *maintenanceRepositoryImpl) UpdateMaintenanceRecord(ctx context.Context, id string, updates map[string]interface{}) error {
	record := goqu.Record{"updated_at": time.Now().UTC()}
	for column, value := range updates {
		record[column] = value
	}

	res, err := r.GoquDBWrapper.Update("maintenance_records").
		Set(record).
		Where(goqu.Ex{"id": id}).
		Executor().ExecContext(ctx)
	if err != nil {
		return custom_error.FromDB("failed to update maintenance record", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// DeleteMaintenanceRecord removes exactly one record.
func (r *maintenanceRepositoryImpl) DeleteMaintenanceRecord(ctx context.Context, id string) error {
	res, err := r.GoquDBWrapper.Delete("maintenance_records").
		Where(goqu.Ex{"id": id}).
		Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete maintenance record: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrRecordNotFound
	}

	return nil
}
