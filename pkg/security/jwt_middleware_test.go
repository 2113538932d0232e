package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"securestock/pkg/models"
	"securestock/pkg/roles"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tm := NewTokenManager("secret", time.Hour)
	valid, err := tm.GenerateJWT(&models.Profile{ID: "u-1", Email: "u@example.com", Role: roles.User})
	require.NoError(t, err)

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{name: "missing header", header: "", expectedStatus: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", expectedStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer abc.def.ghi", expectedStatus: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer " + valid, expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/probe", JWTMiddleware(tm), func(c *gin.Context) {
				userID, err := GetUserIDFromContext(c)
				require.NoError(t, err)
				c.JSON(http.StatusOK, gin.H{"userID": userID, "role": GetRoleFromContext(c)})
			})

			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.JSONEq(t, `{"userID":"u-1","role":"user"}`, w.Body.String())
			}
		})
	}
}

func TestAuthorize(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		role           string
		required       string
		expectedStatus int
	}{
		{name: "same role", role: "admin", required: "admin", expectedStatus: http.StatusOK},
		{name: "higher role", role: "super_admin", required: "admin", expectedStatus: http.StatusOK},
		{name: "lower role", role: "user", required: "admin", expectedStatus: http.StatusForbidden},
		{name: "unknown role", role: "moderator", required: "user", expectedStatus: http.StatusForbidden},
		{name: "no role", role: "", required: "user", expectedStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/probe", func(c *gin.Context) {
				if tt.role != "" {
					c.Set(ContextRole, tt.role)
				}
				c.Next()
			}, Authorize(tt.required), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
