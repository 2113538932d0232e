package activity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"securestock/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) PersistActivity(ctx context.Context, entry models.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockActivityRepository) GetActivity(ctx context.Context, filter models.ActivityFilter) ([]models.ActivityRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ActivityRecord), args.Error(1)
}

func TestGetActivity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockActivityRepository)
	handler := NewActivityHandler(mockRepo, nil)

	tests := []struct {
		name           string
		query          string
		setupMock      func()
		expectedStatus int
	}{
		{
			name:  "filtered by page",
			query: "?page=stock&limit=10",
			setupMock: func() {
				mockRepo.On("GetActivity", mock.Anything, models.ActivityFilter{Page: "stock", Limit: 10}).
					Return([]models.ActivityRecord{{ID: "a1", Action: "create", Page: "stock"}}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid user id",
			query:          "?user_id=nope",
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "repository error",
			query: "",
			setupMock: func() {
				mockRepo.On("GetActivity", mock.Anything, models.ActivityFilter{}).Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.ExpectedCalls = nil
			tt.setupMock()

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/activity"+tt.query, nil)

			handler.GetActivity(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestNormalizeFilter(t *testing.T) {
	assert.Equal(t, 50, NormalizeFilter(models.ActivityFilter{}).Limit)
	assert.Equal(t, 200, NormalizeFilter(models.ActivityFilter{Limit: 1000}).Limit)
	assert.Equal(t, 0, NormalizeFilter(models.ActivityFilter{Offset: -3}).Offset)
}
