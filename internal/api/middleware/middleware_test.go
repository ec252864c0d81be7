package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/feral-file/ff-social-escrow/internal/api/auth"
	"github.com/feral-file/ff-social-escrow/internal/logger"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), Recovery(), Logger())
	router.GET("/test", append(handlers, func(c *gin.Context) {
		wallet, _ := SessionWallet(c)
		c.JSON(http.StatusOK, gin.H{"wallet": wallet})
	})...)
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return router
}

func TestRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	defer logger.Replace(zap.New(core))()

	router := newRouter()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(REQUEST_ID_HEADER, "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-123", w.Header().Get(REQUEST_ID_HEADER))

	entries := logs.FilterMessage("API request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-123", entries[0].ContextMap()["request_id"])
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Len(t, w.Header().Get(REQUEST_ID_HEADER), 36)
}

func TestRecovery(t *testing.T) {
	router := newRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"code":"internal_error","message":"Internal server error"}`, w.Body.String())
}

func TestAuthMiddleware(t *testing.T) {
	cfg := AuthConfig{JWTSecret: testSecret, APIKeys: []string{"", "key-1"}}
	wallet := solana.NewWallet().PublicKey().String()

	session, _, err := auth.IssueSessionToken(testSecret, wallet, time.Now(), time.Hour)
	require.NoError(t, err)
	foreign, _, err := auth.IssueSessionToken("other-secret", wallet, time.Now(), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		middleware gin.HandlerFunc
		header     string
		wantStatus int
		wantWallet string
	}{
		{name: "session accepted", middleware: SessionAuth(cfg), header: "Bearer " + session, wantStatus: http.StatusOK, wantWallet: wallet},
		{name: "session with lowercase scheme", middleware: SessionAuth(cfg), header: "bearer " + session, wantStatus: http.StatusOK, wantWallet: wallet},
		{name: "api key on session route", middleware: SessionAuth(cfg), header: "ApiKey key-1", wantStatus: http.StatusForbidden},
		{name: "foreign token", middleware: SessionAuth(cfg), header: "Bearer " + foreign, wantStatus: http.StatusUnauthorized},
		{name: "missing header", middleware: SessionAuth(cfg), header: "", wantStatus: http.StatusUnauthorized},
		{name: "malformed header", middleware: SessionAuth(cfg), header: "Bearer", wantStatus: http.StatusUnauthorized},
		{name: "unsupported scheme", middleware: SessionAuth(cfg), header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "api key accepted", middleware: APIKeyAuth(cfg), header: "ApiKey key-1", wantStatus: http.StatusOK},
		{name: "wrong api key", middleware: APIKeyAuth(cfg), header: "ApiKey key-2", wantStatus: http.StatusUnauthorized},
		{name: "empty api key", middleware: APIKeyAuth(cfg), header: "ApiKey ", wantStatus: http.StatusUnauthorized},
		{name: "session on api key route", middleware: APIKeyAuth(cfg), header: "Bearer " + session, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(tt.middleware)

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"wallet":"`+tt.wantWallet+`"}`, w.Body.String())
			}
		})
	}
}

func TestAuthenticate_NoAPIKeysConfigured(t *testing.T) {
	result := Authenticate("ApiKey anything", AuthConfig{JWTSecret: testSecret})
	assert.False(t, result.Success)
	assert.EqualError(t, result.Error, "no API keys configured")
}
