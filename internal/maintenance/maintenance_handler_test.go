package maintenance

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"securestock/pkg/metadata"
	"securestock/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(ctx context.Context, entry models.ActivityEntry) {
	m.Called(ctx, entry)
}

const recordID = "0f8c3c8e-3a59-4a4f-9f55-7e2b6f0d8a11"

func setupRouter(h *MaintenanceHandler, role string) *gin.Engine {
	router := gin.New()
	group := router.Group("", func(c *gin.Context) {
		c.Set("userID", "u-1")
		c.Set("role", role)
		c.Next()
	})
	h.RegisterRoutes(group)
	return router
}

func TestChangeStatusHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		role           string
		path           string
		payload        string
		setupMock      func(repo *MockMaintenanceRepository, recorder *MockRecorder)
		expectedStatus int
	}{
		{
			name:    "admin completes record",
			role:    "admin",
			path:    "/maintenance/" + recordID + "/status",
			payload: `{"status":"completed"}`,
			setupMock: func(repo *MockMaintenanceRepository, recorder *MockRecorder) {
				repo.On("GetMaintenanceRecord", mock.Anything, recordID).Return(&models.MaintenanceRecord{ID: recordID, Status: metadata.MaintenanceInProgress}, nil)
				repo.On("UpdateMaintenanceRecord", mock.Anything, recordID, mock.Anything).Return(nil)
				recorder.On("Record", mock.Anything, mock.MatchedBy(func(e models.ActivityEntry) bool {
					return e.Action == "status_change" && e.Page == models.PageMaintenance
				})).Return()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid status value",
			role:           "admin",
			path:           "/maintenance/" + recordID + "/status",
			payload:        `{"status":"paused"}`,
			setupMock:      func(repo *MockMaintenanceRepository, recorder *MockRecorder) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "id is not a uuid",
			role:           "admin",
			path:           "/maintenance/42/status",
			payload:        `{"status":"completed"}`,
			setupMock:      func(repo *MockMaintenanceRepository, recorder *MockRecorder) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:    "record missing",
			role:    "super_admin",
			path:    "/maintenance/" + recordID + "/status",
			payload: `{"status":"cancelled"}`,
			setupMock: func(repo *MockMaintenanceRepository, recorder *MockRecorder) {
				repo.On("GetMaintenanceRecord", mock.Anything, recordID).Return(nil, ErrRecordNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "user cannot change status",
			role:           "user",
			path:           "/maintenance/" + recordID + "/status",
			payload:        `{"status":"cancelled"}`,
			setupMock:      func(repo *MockMaintenanceRepository, recorder *MockRecorder) {},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockMaintenanceRepository)
			recorder := new(MockRecorder)
			tt.setupMock(repo, recorder)
			handler := NewMaintenanceHandler(newService(repo, nil), recorder, nil)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPatch, tt.path, bytes.NewBufferString(tt.payload))
			req.Header.Set("Content-Type", "application/json")
			setupRouter(handler, tt.role).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			repo.AssertExpectations(t)
			recorder.AssertExpectations(t)
		})
	}
}

func TestCreateRecordHandlerSucceedsWhenMailFails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := new(MockMaintenanceRepository)
	notifier := new(MockNotifier)
	recorder := new(MockRecorder)
	repo.On("PersistMaintenanceRecord", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	notifier.On("NotifyTechnician", mock.Anything, mock.Anything).Return(assert.AnError)
	recorder.On("Record", mock.Anything, mock.Anything).Return()
	handler := NewMaintenanceHandler(newService(repo, notifier), recorder, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/maintenance", bytes.NewBufferString(
		`{"equipment_name":"Printer","maintenance_type":"repair","technician_email":"bo@example.com","scheduled_date":"2024-06-01"}`))
	req.Header.Set("Content-Type", "application/json")
	setupRouter(handler, "admin").ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"scheduled_date":"2024-06-01"`)
	notifier.AssertExpectations(t)
}

func TestUpdateRecordHandlerDates(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		payload        string
		setupMock      func(repo *MockMaintenanceRepository, recorder *MockRecorder)
		expectedStatus int
	}{
		{
			name:    "empty completed date clears it",
			payload: `{"completed_date":""}`,
			setupMock: func(repo *MockMaintenanceRepository, recorder *MockRecorder) {
				repo.On("UpdateMaintenanceRecord", mock.Anything, recordID, map[string]interface{}{"completed_date": nil}).Return(nil)
				repo.On("GetMaintenanceRecord", mock.Anything, recordID).Return(&models.MaintenanceRecord{ID: recordID, Status: metadata.MaintenanceInProgress}, nil)
				recorder.On("Record", mock.Anything, mock.Anything).Return()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "empty scheduled date rejected",
			payload:        `{"scheduled_date":""}`,
			setupMock:      func(repo *MockMaintenanceRepository, recorder *MockRecorder) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockMaintenanceRepository)
			recorder := new(MockRecorder)
			tt.setupMock(repo, recorder)
			handler := NewMaintenanceHandler(newService(repo, nil), recorder, nil)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPatch, "/maintenance/"+recordID, bytes.NewBufferString(tt.payload))
			req.Header.Set("Content-Type", "application/json")
			setupRouter(handler, "admin").ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			repo.AssertExpectations(t)
		})
	}
}

func TestMalformedRecordID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		repo := new(MockMaintenanceRepository)
		handler := NewMaintenanceHandler(newService(repo, nil), new(MockRecorder), nil)

		w := httptest.NewRecorder()
		setupRouter(handler, "admin").ServeHTTP(w, httptest.NewRequest(method, "/maintenance/not-a-uuid", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code, method)
		repo.AssertNotCalled(t, "GetMaintenanceRecord", mock.Anything, mock.Anything)
	}
}
