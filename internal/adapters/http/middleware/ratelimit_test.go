package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/daily-quote/internal/adapters/http/dto"
)

func newRateLimitedRouter(perMin int) *gin.Engine {
	router := gin.New()
	router.Use(RateLimit(perMin))
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return router
}

func requestFrom(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestRateLimit_AllowsBurstThenRejects(t *testing.T) {
	// 60 per minute gives a burst of 6.
	router := newRateLimitedRouter(60)

	for i := range 6 {
		w := requestFrom(router, "10.0.0.1:5000")
		require.Equal(t, http.StatusOK, w.Code, "request %d", i)
	}

	w := requestFrom(router, "10.0.0.1:5000")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrorCodeRateLimited, resp.Error.Code)
}

func TestRateLimit_PerClient(t *testing.T) {
	router := newRateLimitedRouter(1)

	assert.Equal(t, http.StatusOK, requestFrom(router, "10.0.0.1:5000").Code)
	assert.Equal(t, http.StatusTooManyRequests, requestFrom(router, "10.0.0.1:5001").Code)
	assert.Equal(t, http.StatusOK, requestFrom(router, "10.0.0.2:5000").Code)
}

func TestRateLimit_Disabled(t *testing.T) {
	router := newRateLimitedRouter(0)

	for range 50 {
		assert.Equal(t, http.StatusOK, requestFrom(router, "10.0.0.1:5000").Code)
	}
}

func TestNewClientLimiter_MinimumBurst(t *testing.T) {
	l := newClientLimiter(5, time.Minute)

	assert.Equal(t, 1, l.burst)
	assert.True(t, l.allow("a"))
	assert.False(t, l.allow("a"))
}

func TestClientLimiter_ActiveClientKeepsBucket(t *testing.T) {
	l := newClientLimiter(1, 100*time.Millisecond)

	require.True(t, l.allow("10.0.0.1"))

	// Requests keep arriving for several TTLs; the drained bucket must not be
	// replaced by a fresh one.
	deadline := time.Now().Add(300 * time.Millisecond)
	for time.Now().Before(deadline) {
		assert.False(t, l.allow("10.0.0.1"))
		time.Sleep(10 * time.Millisecond)
	}
}

func TestClientLimiter_IdleClientIsForgotten(t *testing.T) {
	l := newClientLimiter(1, 20*time.Millisecond)

	require.True(t, l.allow("10.0.0.1"))
	require.False(t, l.allow("10.0.0.1"))

	time.Sleep(60 * time.Millisecond)

	assert.True(t, l.allow("10.0.0.1"))
}
