package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newBodyLimitRouter(limit int64) *gin.Engine {
	router := gin.New()
	router.Use(BodyLimit(limit))
	router.POST("/structure/work/add", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.GET("/structure/work/get", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestBodyLimit_AcceptsPayloadWithinLimit(t *testing.T) {
	router := newBodyLimitRouter(1024)

	req := httptest.NewRequest(http.MethodPost, "/structure/work/add",
		strings.NewReader(`{"name":"inventory audit"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBodyLimit_RejectsOversizedContentLength(t *testing.T) {
	router := newBodyLimitRouter(64)

	req := httptest.NewRequest(http.MethodPost, "/structure/work/add",
		strings.NewReader(strings.Repeat("x", 200)))
	req.ContentLength = 200
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "REQUEST_TOO_LARGE")
}

func TestBodyLimit_IgnoresBodylessRequests(t *testing.T) {
	router := newBodyLimitRouter(10)

	req := httptest.NewRequest(http.MethodGet, "/structure/work/get", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBodyLimit_CapsStreamingBodies(t *testing.T) {
	router := gin.New()
	router.Use(BodyLimit(50))
	router.POST("/structure/work/add", func(c *gin.Context) {
		buf := make([]byte, 200)
		if _, err := c.Request.Body.Read(buf); err != nil {
			c.String(http.StatusBadRequest, "body too large")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	// No Content-Length, so only MaxBytesReader can stop the read.
	req := httptest.NewRequest(http.MethodPost, "/structure/work/add",
		strings.NewReader(strings.Repeat("x", 100)))
	req.ContentLength = -1
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
