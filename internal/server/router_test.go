package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careers-api/internal/common/config"
	"careers-api/internal/common/logger"
	"careers-api/internal/common/metrics"
)

type echoHandler struct{}

func (echoHandler) Register(r gin.IRouter) {
	r.POST("/echo", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "too large"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"body": string(body)})
	})
}

func newTestRouter(t *testing.T, cfg config.ServerConfig, checks ...ReadinessCheck) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return NewRouter(Dependencies{
		Config:        cfg,
		Logger:        logger.NewTestLogger(t),
		Handlers:      []Registrar{echoHandler{}},
		Readiness:     checks,
		EnableMetrics: true,
	})
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, config.ServerConfig{})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReady(t *testing.T) {
	t.Run("all checks pass", func(t *testing.T) {
		r := newTestRouter(t, config.ServerConfig{}, ReadinessCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return nil },
		})

		w := serve(r, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"redis":"ok"`)
	})

	t.Run("failing check", func(t *testing.T) {
		r := newTestRouter(t, config.ServerConfig{},
			ReadinessCheck{Name: "redis", Check: func(ctx context.Context) error { return nil }},
			ReadinessCheck{Name: "elasticsearch", Check: func(ctx context.Context) error {
				return errors.New("connection refused")
			}},
		)

		w := serve(r, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		var body struct {
			Status string            `json:"status"`
			Checks map[string]string `json:"checks"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "not ready", body.Status)
		assert.Equal(t, "connection refused", body.Checks["elasticsearch"])
		assert.Equal(t, "ok", body.Checks["redis"])
	})

	t.Run("no checks", func(t *testing.T) {
		r := newTestRouter(t, config.ServerConfig{})
		w := serve(r, httptest.NewRequest(http.MethodGet, "/ready", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequestID(t *testing.T) {
	r := newTestRouter(t, config.ServerConfig{})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = serve(r, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLength+1))
	w = serve(r, req)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}

func TestAPIGroupAndNoRoute(t *testing.T) {
	r := newTestRouter(t, config.ServerConfig{})

	w := serve(r, httptest.NewRequest(http.MethodPost, "/api/echo", strings.NewReader("hello")))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"body":"hello"}`, w.Body.String())

	w = serve(r, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("hello")))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())
}

func TestBodyLimit(t *testing.T) {
	r := newTestRouter(t, config.ServerConfig{MaxBodyBytes: 8})

	w := serve(r, httptest.NewRequest(http.MethodPost, "/api/echo", strings.NewReader("tiny")))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodPost, "/api/echo", strings.NewReader("well over eight bytes")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestCORS(t *testing.T) {
	preflight := func(origin string) *http.Request {
		req := httptest.NewRequest(http.MethodOptions, "/api/echo", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		return req
	}

	t.Run("any origin when none configured", func(t *testing.T) {
		r := newTestRouter(t, config.ServerConfig{})
		w := serve(r, preflight("https://example.com"))
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("configured origins", func(t *testing.T) {
		r := newTestRouter(t, config.ServerConfig{AllowedOrigins: []string{"https://getsetdeployed.com"}})

		w := serve(r, preflight("https://getsetdeployed.com"))
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://getsetdeployed.com", w.Header().Get("Access-Control-Allow-Origin"))

		w = serve(r, preflight("https://evil.example"))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestMetrics(t *testing.T) {
	r := newTestRouter(t, config.ServerConfig{})
	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/health", "200")
	before := testutil.ToFloat64(counter)

	serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, before+1, testutil.ToFloat64(counter))

	w := serve(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestNewHTTPServer(t *testing.T) {
	srv := NewHTTPServer(config.ServerConfig{Host: "127.0.0.1", Port: 9090, ReadTimeout: 1500, WriteTimeout: 60000}, http.NewServeMux())

	assert.Equal(t, "127.0.0.1:9090", srv.Addr)
	assert.Equal(t, int64(1500), srv.ReadTimeout.Milliseconds())
	assert.Equal(t, int64(60000), srv.WriteTimeout.Milliseconds())
}
