package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/test", mw, func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func do(r http.Handler) int {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
	return rec.Code
}

func TestRateLimitAllowsRequestsUnderLimit(t *testing.T) {
	r := newRouter(RateLimit(10, 3))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(r))
	}
}

func TestRateLimitBlocksExcessiveRequests(t *testing.T) {
	r := newRouter(RateLimit(0.01, 1))

	assert.Equal(t, http.StatusOK, do(r))
	assert.Equal(t, http.StatusTooManyRequests, do(r))
}

func TestRateLimitDisabled(t *testing.T) {
	r := newRouter(RateLimit(0, 0))

	for i := 0; i < 20; i++ {
		assert.Equal(t, http.StatusOK, do(r))
	}
}
