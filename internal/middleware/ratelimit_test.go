package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newLimitedRouter(t *testing.T, rpm int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewRateLimiter(rpm).Handler())
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.POST("/auth/login", ok)
	r.GET("/auth/session", ok)
	return r
}

func doRequest(r *gin.Engine, method, path, ip string) int {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = ip + ":1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiter_LoginBudgetTighterThanSession(t *testing.T) {
	r := newLimitedRouter(t, 600)

	// Login budget is a tenth of the configured RPM, so its burst drains
	// after 6 immediate attempts.
	for i := 0; i < 6; i++ {
		require.Equal(t, http.StatusOK, doRequest(r, http.MethodPost, "/auth/login", "10.0.0.1"), "login %d", i)
	}
	require.Equal(t, http.StatusTooManyRequests, doRequest(r, http.MethodPost, "/auth/login", "10.0.0.1"))

	// Session reads draw from the full budget and are unaffected by the
	// exhausted login bucket.
	for i := 0; i < 10; i++ {
		require.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/auth/session", "10.0.0.1"), "session %d", i)
	}
}

func TestRateLimiter_BudgetsArePerClient(t *testing.T) {
	r := newLimitedRouter(t, 600)

	for i := 0; i < 6; i++ {
		require.Equal(t, http.StatusOK, doRequest(r, http.MethodPost, "/auth/login", "10.0.0.1"))
	}
	require.Equal(t, http.StatusTooManyRequests, doRequest(r, http.MethodPost, "/auth/login", "10.0.0.1"))
	require.Equal(t, http.StatusOK, doRequest(r, http.MethodPost, "/auth/login", "10.0.0.2"))
}

func TestRateLimiter_DisabledBudgetPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewRateLimiter(0).Handler())
	r.GET("/auth/session", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 50; i++ {
		require.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/auth/session", "10.0.0.1"))
	}
}
