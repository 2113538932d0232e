package employees

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"securestock/internal/assignments"
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

const itemID = "3c4d5e6f-7a8b-4c9d-8e0f-1a2b3c4d5e6f"

func setupRouter(h *EmployeeHandler, role string) *gin.Engine {
	router := gin.New()
	group := router.Group("", func(c *gin.Context) {
		c.Set("userID", "u-1")
		c.Set("role", role)
		c.Next()
	})
	h.RegisterRoutes(group)
	return router
}

func TestCreateEmployeeHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := new(MockEmployeeRepository)
	allocator := new(MockAllocator)
	recorder := new(MockRecorder)
	handler := NewEmployeeHandler(NewEmployeeService(repo, allocator, nil), recorder, nil)

	tests := []struct {
		name           string
		role           string
		payload        string
		setupMock      func()
		expectedStatus int
	}{
		{
			name:    "onboard with one item",
			role:    "admin",
			payload: `{"first_name":"Ada","last_name":"Lovelace","equipment_ids":["` + itemID + `"]}`,
			setupMock: func() {
				repo.On("PersistEmployee", mock.Anything, mock.Anything, mock.Anything).Return(nil)
				allocator.On("AssignInTx", mock.Anything, mock.Anything, "emp-1", itemID, (*string)(nil)).
					Return(&models.EquipmentAssignment{ID: "as-1", EmployeeID: "emp-1", StockItemID: itemID}, nil)
				recorder.On("Record", mock.Anything, mock.MatchedBy(func(e models.ActivityEntry) bool {
					return e.Action == "create" && e.Page == models.PageEmployees
				})).Return().Once()
				recorder.On("Record", mock.Anything, mock.MatchedBy(func(e models.ActivityEntry) bool {
					return e.Action == "assign" && e.Page == models.PageAssignments
				})).Return().Once()
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:    "item not available",
			role:    "admin",
			payload: `{"first_name":"Ada","last_name":"Lovelace","equipment_ids":["` + itemID + `"]}`,
			setupMock: func() {
				repo.On("PersistEmployee", mock.Anything, mock.Anything, mock.Anything).Return(nil)
				allocator.On("AssignInTx", mock.Anything, mock.Anything, "emp-1", itemID, (*string)(nil)).
					Return(nil, assignments.ErrItemUnavailable)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "equipment id is not a uuid",
			role:           "admin",
			payload:        `{"first_name":"Ada","last_name":"Lovelace","equipment_ids":["laptop"]}`,
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing last name",
			role:           "admin",
			payload:        `{"first_name":"Ada"}`,
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "user cannot create",
			role:           "user",
			payload:        `{"first_name":"Ada","last_name":"Lovelace"}`,
			setupMock:      func() {},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo.ExpectedCalls = nil
			allocator.ExpectedCalls = nil
			recorder.ExpectedCalls = nil
			tt.setupMock()

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/employees", bytes.NewBufferString(tt.payload))
			req.Header.Set("Content-Type", "application/json")
			setupRouter(handler, tt.role).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestDeleteEmployeeHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := new(MockEmployeeRepository)
	handler := NewEmployeeHandler(NewEmployeeService(repo, new(MockAllocator), nil), new(MockRecorder), nil)
	missingID := "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d"

	tests := []struct {
		name           string
		path           string
		setupMock      func()
		expectedStatus int
	}{
		{
			name: "missing employee",
			path: "/employees/" + missingID,
			setupMock: func() {
				repo.On("GetEmployee", mock.Anything, mock.Anything, missingID).Return(nil, ErrEmployeeNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "malformed id",
			path:           "/employees/emp-9",
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo.ExpectedCalls = nil
			tt.setupMock()

			w := httptest.NewRecorder()
			setupRouter(handler, "admin").ServeHTTP(w, httptest.NewRequest(http.MethodDelete, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			repo.AssertExpectations(t)
		})
	}
}
