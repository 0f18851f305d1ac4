package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coachtrack/internal/auth"
)

const (
	testKey    = "test-signing-key"
	testIssuer = "coachtrack"
)

func newGatedRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/v1/auth/login", h.Login)
	protected := r.Group("/v1", auth.RequireAuth(testKey, testIssuer))
	protected.GET("/auth/session", h.Session)
	protected.GET("/batches", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"batches": []string{}})
	})
	return r
}

func testHandler() *Handler {
	mgr := auth.NewManager(nil, nil, testIssuer, testKey, 15*time.Minute, time.Hour, time.Hour)
	return &Handler{Auth: mgr}
}

func bearer(t *testing.T) string {
	t.Helper()
	pair, err := auth.Issue("u1", "staff@example.com", testIssuer, testKey, 15*time.Minute, time.Hour)
	require.NoError(t, err)
	return "Bearer " + pair.AccessToken
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	r := newGatedRouter(testHandler())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/batches", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRouteWithExpiredToken(t *testing.T) {
	r := newGatedRouter(testHandler())

	pair, err := auth.Issue("u1", "staff@example.com", testIssuer, testKey, -time.Minute, time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/batches", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code, "a signed-out or expired session never sees protected content")
}

func TestProtectedRouteRejectsRefreshToken(t *testing.T) {
	r := newGatedRouter(testHandler())

	pair, err := auth.Issue("u1", "staff@example.com", testIssuer, testKey, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/batches", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code, "a refresh token is not a bearer credential")
}

func TestProtectedRouteWithToken(t *testing.T) {
	r := newGatedRouter(testHandler())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/batches", nil)
	req.Header.Set("Authorization", bearer(t))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionEchoesClaims(t *testing.T) {
	r := newGatedRouter(testHandler())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/auth/session", nil)
	req.Header.Set("Authorization", bearer(t))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "staff@example.com")
}

func TestLoginWhileAuthenticatedRedirects(t *testing.T) {
	r := newGatedRouter(testHandler())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
	req.Header.Set("Authorization", bearer(t))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "redirect")
}
