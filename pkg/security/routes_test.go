package security

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"securestock/internal/rate_limiter"
	"securestock/pkg/models"
	"securestock/pkg/roles"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCredentialStore struct {
	mock.Mock
}

func (m *MockCredentialStore) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func TestLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	profile := &models.Profile{ID: "u-1", Email: "ann@example.com", PasswordHash: hash, Role: roles.Admin}

	mockStore := new(MockCredentialStore)

	tests := []struct {
		name           string
		payload        string
		setupMock      func()
		expectedStatus int
	}{
		{
			name:    "successful login",
			payload: `{"email":"Ann@Example.com","password":"password123"}`,
			setupMock: func() {
				mockStore.On("GetProfileByEmail", mock.Anything, "ann@example.com").Return(profile, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:    "wrong password",
			payload: `{"email":"ann@example.com","password":"nope"}`,
			setupMock: func() {
				mockStore.On("GetProfileByEmail", mock.Anything, "ann@example.com").Return(profile, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:    "unknown email",
			payload: `{"email":"ghost@example.com","password":"password123"}`,
			setupMock: func() {
				mockStore.On("GetProfileByEmail", mock.Anything, "ghost@example.com").Return(nil, errors.New("not found"))
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid payload",
			payload:        `{"email":"not-an-email"}`,
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore.ExpectedCalls = nil
			tt.setupMock()

			limiter := rate_limiter.NewRateLimiter(10, 5*time.Minute)
			defer limiter.Stop()
			handler := NewLoginHandler(mockStore, NewTokenManager("secret", time.Hour), limiter, nil)
			router := gin.New()
			handler.RegisterRoutes(router)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(tt.payload))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var body map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.NotEmpty(t, body["token"])
				assert.NotContains(t, w.Body.String(), "password")
			}
			mockStore.AssertExpectations(t)
		})
	}
}

func TestLoginRateLimited(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockStore := new(MockCredentialStore)
	mockStore.On("GetProfileByEmail", mock.Anything, mock.Anything).Return(nil, errors.New("not found"))

	limiter := rate_limiter.NewRateLimiter(2, time.Minute)
	defer limiter.Stop()
	router := gin.New()
	NewLoginHandler(mockStore, NewTokenManager("secret", time.Hour), limiter, nil).RegisterRoutes(router)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"email":"a@example.com","password":"x"}`))
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
		if i == 2 {
			assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
			assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
		}
	}

	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)
}

func TestLoginRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockStore := new(MockCredentialStore)
	mockStore.On("GetProfileByEmail", mock.Anything, mock.Anything).Return(nil, errors.New("not found"))

	limiter := rate_limiter.NewRateLimiter(2, time.Minute)
	defer limiter.Stop()
	router := gin.New()
	require.NoError(t, router.SetTrustedProxies(nil))
	NewLoginHandler(mockStore, NewTokenManager("secret", time.Hour), limiter, nil).RegisterRoutes(router)

	codes := make([]int, 0, 3)
	for _, forwarded := range []string{"198.51.100.1", "198.51.100.2", "198.51.100.3"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"email":"a@example.com","password":"x"}`))
		req.Header.Set("X-Forwarded-For", forwarded)
		req.Header.Set("X-Real-IP", forwarded)
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)
}

func TestClientKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		trusted []string
		want    string
	}{
		{name: "untrusted peer", trusted: nil, want: "192.0.2.1"},
		{name: "trusted proxy", trusted: []string{"192.0.2.0/24"}, want: "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			require.NoError(t, router.SetTrustedProxies(tt.trusted))

			var got string
			router.GET("/key", func(c *gin.Context) {
				got = clientKey(c)
				c.Status(http.StatusOK)
			})

			// httptest requests come from 192.0.2.1
			req := httptest.NewRequest(http.MethodGet, "/key", nil)
			req.Header.Set("X-Forwarded-For", "203.0.113.7")
			router.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.want, got)
		})
	}
}
