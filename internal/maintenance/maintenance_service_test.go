package maintenance

import (
	"context"
	"errors"
	"testing"
	"time"

	"securestock/internal/repository"
	"securestock/pkg/metadata"
	"securestock/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMaintenanceRepository struct {
	mock.Mock
}

func (m *MockMaintenanceRepository) PersistMaintenanceRecord(ctx context.Context, tx *goqu.TxDatabase, record *models.MaintenanceRecord) error {
	args := m.Called(ctx, tx, record)
	if args.Error(0) == nil {
		record.ID = "mr-1"
	}
	return args.Error(0)
}

func (m *MockMaintenanceRepository) GetMaintenanceRecords(ctx context.Context, conditions repository.QueryBuilder) ([]models.MaintenanceRecord, error) {
	args := m.Called(ctx, conditions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MaintenanceRecord), args.Error(1)
}

func (m *MockMaintenanceRepository) GetMaintenanceRecord(ctx context.Context, id string) (*models.MaintenanceRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaintenanceRecord), args.Error(1)
}

func (m *MockMaintenanceRepository) UpdateMaintenanceRecord(ctx context.Context, id string, updates map[string]interface{}) error {
	return m.Called(ctx, id, updates).Error(0)
}

func (m *MockMaintenanceRepository) DeleteMaintenanceRecord(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyTechnician(ctx context.Context, notice models.MaintenanceNotice) error {
	return m.Called(ctx, notice).Error(0)
}

func strPtr(s string) *string { return &s }

var fixedNow = time.Date(2024, 5, 2, 15, 0, 0, 0, time.UTC)

func newService(repo *MockMaintenanceRepository, notifier Notifier) *MaintenanceService {
	s := NewMaintenanceService(repo, notifier, nil)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestCreateRecordNotifiesTechnician(t *testing.T) {
	tests := []struct {
		name      string
		req       models.MaintenanceRequest
		notifyErr error
		notify    bool
	}{
		{
			name: "with technician email",
			req: models.MaintenanceRequest{
				EquipmentName: "Printer", MaintenanceType: "inspection",
				TechnicianName: strPtr("Bo"), TechnicianEmail: strPtr("bo@example.com"), Priority: "high",
			},
			notify: true,
		},
		{
			name: "notification failure is swallowed",
			req: models.MaintenanceRequest{
				EquipmentName: "Printer", MaintenanceType: "inspection", TechnicianEmail: strPtr("bo@example.com"),
			},
			notifyErr: errors.New("smtp down"),
			notify:    true,
		},
		{
			name: "no technician",
			req:  models.MaintenanceRequest{EquipmentName: "Printer", MaintenanceType: "inspection"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockMaintenanceRepository)
			notifier := new(MockNotifier)
			repo.On("PersistMaintenanceRecord", mock.Anything, mock.Anything, mock.MatchedBy(func(r *models.MaintenanceRecord) bool {
				return r.Status == metadata.MaintenanceScheduled && r.ScheduledDate.String() == "2024-05-02"
			})).Return(nil)
			if tt.notify {
				notifier.On("NotifyTechnician", mock.Anything, mock.MatchedBy(func(n models.MaintenanceNotice) bool {
					return n.TechnicianEmail == "bo@example.com" && n.EquipmentName == "Printer"
				})).Return(tt.notifyErr)
			}

			record, err := newService(repo, notifier).CreateRecord(context.Background(), "u-1", tt.req)

			require.NoError(t, err)
			assert.Equal(t, "mr-1", record.ID)
			assert.Equal(t, "u-1", *record.CreatedBy)
			repo.AssertExpectations(t)
			notifier.AssertExpectations(t)
			if !tt.notify {
				notifier.AssertNotCalled(t, "NotifyTechnician", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestCreateRecordWithoutNotifier(t *testing.T) {
	repo := new(MockMaintenanceRepository)
	repo.On("PersistMaintenanceRecord", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := newService(repo, nil).CreateRecord(context.Background(), "", models.MaintenanceRequest{
		EquipmentName: "Printer", MaintenanceType: "repair", TechnicianEmail: strPtr("bo@example.com"),
	})
	assert.NoError(t, err)
}

func TestCreateRecordRejectsBadPriority(t *testing.T) {
	_, err := newService(new(MockMaintenanceRepository), nil).CreateRecord(context.Background(), "", models.MaintenanceRequest{
		EquipmentName: "Printer", MaintenanceType: "repair", Priority: "urgent",
	})
	assert.ErrorIs(t, err, ErrInvalidPriority)
}

func TestChangeStatus(t *testing.T) {
	completedEarlier := models.NewDate(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name          string
		current       models.MaintenanceRecord
		target        string
		expectUpdates map[string]interface{}
		expectedError error
	}{
		{
			name:          "scheduled to in progress",
			current:       models.MaintenanceRecord{Status: metadata.MaintenanceScheduled},
			target:        "in_progress",
			expectUpdates: map[string]interface{}{"status": "in_progress"},
		},
		{
			name:    "completing stamps completed date",
			current: models.MaintenanceRecord{Status: metadata.MaintenanceInProgress},
			target:  "completed",
			expectUpdates: map[string]interface{}{
				"status":         "completed",
				"completed_date": models.NewDate(fixedNow),
			},
		},
		{
			name:          "completing keeps existing completed date",
			current:       models.MaintenanceRecord{Status: metadata.MaintenanceCancelled, CompletedDate: &completedEarlier},
			target:        "completed",
			expectUpdates: map[string]interface{}{"status": "completed"},
		},
		{
			name:          "terminal state can be left",
			current:       models.MaintenanceRecord{Status: metadata.MaintenanceCompleted},
			target:        "scheduled",
			expectUpdates: map[string]interface{}{"status": "scheduled"},
		},
		{
			name:          "unknown status",
			current:       models.MaintenanceRecord{Status: metadata.MaintenanceScheduled},
			target:        "paused",
			expectedError: ErrInvalidStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockMaintenanceRepository)
			current := tt.current
			current.ID = "mr-1"
			repo.On("GetMaintenanceRecord", mock.Anything, "mr-1").Return(&current, nil)
			if tt.expectUpdates != nil {
				repo.On("UpdateMaintenanceRecord", mock.Anything, "mr-1", tt.expectUpdates).Return(nil)
			}

			_, err := newService(repo, nil).ChangeStatus(context.Background(), "mr-1", tt.target)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				repo.AssertNotCalled(t, "UpdateMaintenanceRecord", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}

func TestDeleteRecordOnlyTouchesThatRecord(t *testing.T) {
	repo := new(MockMaintenanceRepository)
	repo.On("GetMaintenanceRecord", mock.Anything, "mr-2").Return(&models.MaintenanceRecord{ID: "mr-2"}, nil)
	repo.On("DeleteMaintenanceRecord", mock.Anything, "mr-2").Return(nil).Once()

	record, err := newService(repo, nil).DeleteRecord(context.Background(), "mr-2")

	require.NoError(t, err)
	assert.Equal(t, "mr-2", record.ID)
	repo.AssertExpectations(t)
	repo.AssertNumberOfCalls(t, "DeleteMaintenanceRecord", 1)
}
