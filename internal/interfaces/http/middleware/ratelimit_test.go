package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	t.Run("token bucket per key", func(t *testing.T) {
		limiter := NewRateLimiter(3, time.Minute)

		for i := 0; i < 3; i++ {
			assert.True(t, limiter.Allow("worker-a"))
		}
		assert.False(t, limiter.Allow("worker-a"))

		// Other keys keep their own bucket.
		assert.True(t, limiter.Allow("worker-b"))
	})

	t.Run("refills after the window", func(t *testing.T) {
		limiter := NewRateLimiter(1, 40*time.Millisecond)

		assert.True(t, limiter.Allow("admin-1"))
		assert.False(t, limiter.Allow("admin-1"))

		time.Sleep(60 * time.Millisecond)
		assert.True(t, limiter.Allow("admin-1"))
	})

	t.Run("remaining tracks consumption", func(t *testing.T) {
		limiter := NewRateLimiter(4, time.Minute)

		assert.Equal(t, 4, limiter.Remaining("fresh-key"))
		limiter.Allow("fresh-key")
		limiter.Allow("fresh-key")
		assert.Equal(t, 2, limiter.Remaining("fresh-key"))
	})

	t.Run("safe under concurrent pickers", func(t *testing.T) {
		limiter := NewRateLimiter(100, time.Minute)

		var wg sync.WaitGroup
		allowed := make([]bool, 200)
		for i := 0; i < 200; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				allowed[i] = limiter.Allow("shared")
			}(i)
		}
		wg.Wait()

		granted := 0
		for _, ok := range allowed {
			if ok {
				granted++
			}
		}
		assert.Equal(t, 100, granted)
	})
}

func newRateLimitedRouter(mw gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(mw)
	router.GET("/structure/work/get", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	router.POST("/auth/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router
}

func TestRateLimit_Middleware(t *testing.T) {
	router := newRateLimitedRouter(RateLimit(NewRateLimiter(2, time.Minute)))

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/structure/work/get", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Remaining"))
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/structure/work/get", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
}

func TestRateLimit_KeysOnUserWhenAuthenticated(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)

	router := gin.New()
	user := "worker-1"
	router.Use(func(c *gin.Context) {
		c.Set(JWTUserIDKey, user)
		c.Next()
	})
	router.Use(RateLimit(limiter))
	router.GET("/structure/work/get", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/structure/work/get", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/structure/work/get", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// A different user from the same address gets a fresh bucket.
	user = "worker-2"
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/structure/work/get", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRateLimit(t *testing.T) {
	router := newRateLimitedRouter(AuthRateLimit(NewRateLimiter(1, time.Minute)))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_RATE_LIMIT_EXCEEDED")
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimitByKey(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)
	router := newRateLimitedRouter(RateLimitByKey(limiter, func(c *gin.Context) string {
		return c.GetHeader("X-Zone-ID")
	}))

	send := func(zone string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/structure/work/get", nil)
		req.Header.Set("X-Zone-ID", zone)
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("zone-north"))
	assert.Equal(t, http.StatusTooManyRequests, send("zone-north"))
	assert.Equal(t, http.StatusOK, send("zone-south"))
}
