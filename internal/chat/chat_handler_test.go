package chat

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"securestock/internal/rate_limiter"
	"securestock/pkg/clients/llm"
	"securestock/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupRouter(h *ChatHandler, role string) *gin.Engine {
	router := gin.New()
	group := router.Group("", func(c *gin.Context) {
		c.Set("userID", "u-1")
		c.Set("role", role)
		c.Next()
	})
	h.RegisterRoutes(group)
	return router
}

func TestChatHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := new(MockChatRepository)
	client := new(MockClient)
	handler := NewChatHandler(NewChatService(repo, client, nil, nil), nil, nil)
	router := setupRouter(handler, "user")

	tests := []struct {
		name           string
		payload        string
		setupMock      func()
		expectedStatus int
	}{
		{
			name:    "reply",
			payload: `{"messages":[{"role":"user","content":"hello"}]}`,
			setupMock: func() {
				client.On("Complete", mock.Anything, mock.Anything).Return("hi there", nil)
				repo.On("AppendMessages", mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "empty conversation",
			payload:        `{"messages":[]}`,
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "last turn from assistant",
			payload:        `{"messages":[{"role":"user","content":"a"},{"role":"assistant","content":"b"}]}`,
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown role",
			payload:        `{"messages":[{"role":"system","content":"a"}]}`,
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:    "no api key",
			payload: `{"messages":[{"role":"user","content":"hello"}]}`,
			setupMock: func() {
				client.On("Complete", mock.Anything, mock.Anything).Return("", llm.ErrNoAPIKey)
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name:    "provider error",
			payload: `{"messages":[{"role":"user","content":"hello"}]}`,
			setupMock: func() {
				client.On("Complete", mock.Anything, mock.Anything).Return("", &llm.APIError{StatusCode: 500, Message: "boom"})
			},
			expectedStatus: http.StatusBadGateway,
		},
		{
			name:    "transport error",
			payload: `{"messages":[{"role":"user","content":"hello"}]}`,
			setupMock: func() {
				client.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("connection refused"))
			},
			expectedStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client.ExpectedCalls = nil
			repo.ExpectedCalls = nil
			tt.setupMock()

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(tt.payload))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestInventoryChatUsesHeaderKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := new(MockChatRepository)
	client := new(MockClient)
	snapshots := new(MockSnapshotProvider)
	handler := NewChatHandler(NewChatService(repo, client, snapshots, nil), nil, nil)
	router := setupRouter(handler, "user")

	snapshots.On("Snapshot", mock.Anything).Return(&models.InventorySnapshot{GeneratedAt: time.Now()}, nil)
	client.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.CompletionRequest) bool {
		return req.APIKey == "sk-user"
	})).Return("all good", nil)
	repo.On("AppendMessages", mock.Anything, mock.Anything).Return(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat/inventory", bytes.NewBufferString(`{"messages":[{"role":"user","content":"status?"}]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(APIKeyHeader, "sk-user")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "all good")
}

func TestChatRateLimited(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := rate_limiter.NewRateLimiter(1, time.Minute)
	defer limiter.Stop()

	repo := new(MockChatRepository)
	client := new(MockClient)
	client.On("Complete", mock.Anything, mock.Anything).Return("hi", nil)
	repo.On("AppendMessages", mock.Anything, mock.Anything).Return(nil)
	router := setupRouter(NewChatHandler(NewChatService(repo, client, nil, nil), limiter, nil), "user")

	send := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(`{"messages":[{"role":"user","content":"hello"}]}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send().Code)
	w := send()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	client.AssertNumberOfCalls(t, "Complete", 1)
}

func TestHistoryHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := new(MockChatRepository)
	router := setupRouter(NewChatHandler(NewChatService(repo, new(MockClient), nil, nil), nil, nil), "user")

	repo.On("GetHistory", mock.Anything, "u-1").Return([]models.ChatMessage{{Role: "user", Content: "hello"}}, nil)
	repo.On("ClearHistory", mock.Anything, "u-1").Return(int64(2), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chat/history", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "hello")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/chat/history", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	repo.AssertExpectations(t)
}
