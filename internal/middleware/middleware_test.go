package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/strategy-ledger/internal/config"
	"github.com/strategy-ledger/internal/middleware"
	"github.com/strategy-ledger/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(auth *service.AuthService) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestIDMiddleware(), middleware.RequestLoggerMiddleware())
	r.GET("/private", middleware.AuthMiddleware(auth), func(c *gin.Context) {
		c.String(http.StatusOK, middleware.GetClient(c))
	})
	return r
}

func TestRequestIDAssigned(t *testing.T) {
	r := newRouter(service.NewAuthService(config.JWTConfig{}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, w.Header().Get(middleware.HeaderRequestID), 36)
}

func TestRequestIDPropagated(t *testing.T) {
	r := newRouter(service.NewAuthService(config.JWTConfig{}))

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set(middleware.HeaderRequestID, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(middleware.HeaderRequestID))
}

func TestAuthMiddleware(t *testing.T) {
	auth := service.NewAuthService(config.JWTConfig{Secret: "s3cret", Issuer: "strategy-ledger", ExpireHours: 1})
	r := newRouter(auth)

	token, err := auth.IssueToken("dashboard")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{"missing", "", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", "", http.StatusUnauthorized},
		{"invalid", "Bearer nope", "", http.StatusUnauthorized},
		{"valid header", "Bearer " + token.AccessToken, "", http.StatusOK},
		{"valid query", "", token.AccessToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := "/private"
			if tt.query != "" {
				url += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, url, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "dashboard", w.Body.String())
			}
		})
	}
}

func TestAuthMiddlewareDisabled(t *testing.T) {
	r := newRouter(service.NewAuthService(config.JWTConfig{}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInitLogger(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, middleware.InitLogger(dir))
	middleware.LogInfo("hello %s", "ledger")
	assert.FileExists(t, dir+"/ledger.log")
}
