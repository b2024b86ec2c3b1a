package server

import (
	"net/http"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	_, app := newTestServer(t)

	resp := call(t, app, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "API Running", string(resp.Body))
}

func TestHealthChecks(t *testing.T) {
	_, app := newTestServer(t)

	resp := call(t, app, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, resp.Status)

	resp = call(t, app, http.MethodGet, "/health/ready", "", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	resp.decode(t, &body)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "healthy", body.Checks["database"])
	assert.Equal(t, "disabled", body.Checks["redis"])
}

func TestReadinessCheck_DatabaseDown(t *testing.T) {
	s, app := newTestServer(t)
	sqlDB, err := s.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	resp := call(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Status)
	assert.Contains(t, string(resp.Body), `"database":"unhealthy"`)
}

func TestReadinessCheck_RedisDown(t *testing.T) {
	s, app := newTestServer(t)
	mr := miniredis.RunT(t)
	s.redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = s.redis.Close() })

	resp := call(t, app, http.MethodGet, "/health/ready", "", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Contains(t, string(resp.Body), `"redis":"healthy"`)

	mr.Close()
	resp = call(t, app, http.MethodGet, "/health/ready", "", nil)
	require.Equal(t, http.StatusOK, resp.Status, "rate limits fail open without redis")
	assert.Contains(t, string(resp.Body), `"redis":"unhealthy"`)
	assert.Contains(t, string(resp.Body), `"status":"healthy"`)
}

func TestMetricsEndpoint(t *testing.T) {
	_, app := newTestServer(t)

	call(t, app, http.MethodGet, "/", "", nil)
	resp := call(t, app, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.True(t, strings.Contains(string(resp.Body), "http_requests_total"))
}

func TestUnknownRoute(t *testing.T) {
	_, app := newTestServer(t)

	resp := call(t, app, http.MethodGet, "/api/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.Status)
}

func TestSecurityHeaders(t *testing.T) {
	_, app := newTestServer(t)

	resp := call(t, app, http.MethodGet, "/", "", nil)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}
