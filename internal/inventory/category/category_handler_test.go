package category

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	custom_error "securestock/pkg/errors"
	"securestock/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(ctx context.Context, entry models.ActivityEntry) {
	m.Called(ctx, entry)
}

func setupRouter(h *CategoryHandler, role string) *gin.Engine {
	router := gin.New()
	group := router.Group("", func(c *gin.Context) {
		c.Set("userID", "u-1")
		c.Set("role", role)
		c.Next()
	})
	h.RegisterRoutes(group)
	return router
}

func TestCreateCategory(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockCategoryRepository)
	recorder := new(MockRecorder)
	handler := NewCategoryHandler(NewCategoryService(mockRepo), recorder, nil)

	tests := []struct {
		name           string
		role           string
		payload        string
		setupMock      func()
		expectedStatus int
	}{
		{
			name:    "creates category",
			role:    "admin",
			payload: `{"name":" Laptops ","critical_threshold":3}`,
			setupMock: func() {
				mockRepo.On("PersistCategory", mock.Anything, mock.MatchedBy(func(c *models.StockCategory) bool {
					return c.Name == "Laptops" && c.CriticalThreshold == 3
				})).Return(nil)
				recorder.On("Record", mock.Anything, mock.MatchedBy(func(e models.ActivityEntry) bool {
					return e.Page == models.PageCategories && e.Action == "create"
				})).Return()
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "negative threshold",
			role:           "admin",
			payload:        `{"name":"Laptops","critical_threshold":-1}`,
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "blank name",
			role:           "admin",
			payload:        `{"name":"   "}`,
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:    "duplicate name",
			role:    "super_admin",
			payload: `{"name":"Laptops"}`,
			setupMock: func() {
				mockRepo.On("PersistCategory", mock.Anything, mock.Anything).
					Return(custom_error.WrapDBError("failed to insert stock category", "23505"))
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "user role is denied",
			role:           "user",
			payload:        `{"name":"Laptops"}`,
			setupMock:      func() {},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.ExpectedCalls = nil
			recorder.ExpectedCalls = nil
			tt.setupMock()

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/stock-categories", bytes.NewBufferString(tt.payload))
			req.Header.Set("Content-Type", "application/json")
			setupRouter(handler, tt.role).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockRepo.AssertExpectations(t)
			recorder.AssertExpectations(t)
		})
	}
}

func TestDeleteCategoryHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockCategoryRepository)
	recorder := new(MockRecorder)
	handler := NewCategoryHandler(NewCategoryService(mockRepo), recorder, nil)

	categoryID := "5b0f2c1e-8d3a-4e6b-9f7c-1a2b3c4d5e6f"

	tests := []struct {
		name           string
		id             string
		setupMock      func()
		expectedStatus int
	}{
		{
			name: "deletes unused category",
			id:   categoryID,
			setupMock: func() {
				mockRepo.On("GetCategory", mock.Anything, categoryID).Return(&models.StockCategory{ID: categoryID, Name: "Docks"}, nil)
				mockRepo.On("HasRelatedItems", mock.Anything, "Docks").Return(false, nil)
				mockRepo.On("DeleteCategory", mock.Anything, categoryID).Return(nil)
				recorder.On("Record", mock.Anything, mock.Anything).Return()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "category with items",
			id:   categoryID,
			setupMock: func() {
				mockRepo.On("GetCategory", mock.Anything, categoryID).Return(&models.StockCategory{ID: categoryID, Name: "Docks"}, nil)
				mockRepo.On("HasRelatedItems", mock.Anything, "Docks").Return(true, nil)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "missing category",
			id:   categoryID,
			setupMock: func() {
				mockRepo.On("GetCategory", mock.Anything, categoryID).Return(nil, ErrCategoryNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "malformed id",
			id:             "c-1",
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.ExpectedCalls = nil
			recorder.ExpectedCalls = nil
			tt.setupMock()

			w := httptest.NewRecorder()
			setupRouter(handler, "admin").ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/stock-categories/"+tt.id, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestGetSummaryHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockCategoryRepository)
	handler := NewCategoryHandler(NewCategoryService(mockRepo), new(MockRecorder), nil)
	mockRepo.On("GetCategories", mock.Anything).Return([]models.StockCategory{{Name: "Laptops", CriticalThreshold: 4}}, nil)
	mockRepo.On("GetStockCounts", mock.Anything).Return([]models.CategoryStockCount{{Category: "Laptops", Total: 9, Available: 5, Allocated: 4}}, nil)

	w := httptest.NewRecorder()
	setupRouter(handler, "user").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stock-categories/summary", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body []models.CategorySummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "warning", string(body[0].Level))
}
