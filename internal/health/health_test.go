package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/routematch/internal/observability"
)

type fakeRoutes struct {
	n   int
	err error
}

func (f fakeRoutes) Len() int               { return f.n }
func (f fakeRoutes) LastReloadError() error { return f.err }

func TestNewChecker(t *testing.T) {
	t.Parallel()

	checker := NewChecker("1.0.0", nil)

	assert.Equal(t, "1.0.0", checker.version)
	assert.NotNil(t, checker.logger)
	assert.NotNil(t, checker.checks)
	assert.False(t, checker.startTime.IsZero())
}

func TestChecker_Health(t *testing.T) {
	t.Parallel()

	health := NewChecker("1.0.0", observability.NopLogger()).Health()

	assert.Equal(t, StatusHealthy, health.Status)
	assert.Equal(t, "1.0.0", health.Version)
	assert.NotEmpty(t, health.Uptime)
	assert.False(t, health.Timestamp.IsZero())
}

func TestChecker_Readiness(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		checks   map[string]Status
		expected Status
	}{
		{name: "no checks", checks: nil, expected: StatusHealthy},
		{name: "all healthy", checks: map[string]Status{"a": StatusHealthy, "b": StatusHealthy}, expected: StatusHealthy},
		{name: "one degraded", checks: map[string]Status{"a": StatusHealthy, "b": StatusDegraded}, expected: StatusDegraded},
		{name: "unhealthy wins", checks: map[string]Status{"a": StatusUnhealthy, "b": StatusDegraded}, expected: StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			checker := NewChecker("test", observability.NopLogger())
			for name, status := range tt.checks {
				checker.RegisterCheck(name, func() Check { return Check{Status: status} })
			}

			response := checker.Readiness()
			assert.Equal(t, tt.expected, response.Status)
			assert.Len(t, response.Checks, len(tt.checks))
		})
	}
}

func TestChecker_UnregisterCheck(t *testing.T) {
	t.Parallel()

	checker := NewChecker("test", observability.NopLogger())
	checker.RegisterCheck("routes", func() Check { return Check{Status: StatusUnhealthy} })
	checker.UnregisterCheck("routes")

	assert.Equal(t, StatusHealthy, checker.Readiness().Status)
}

func TestChecker_Handlers(t *testing.T) {
	t.Parallel()

	checker := NewChecker("1.2.3", observability.NopLogger())
	src := &fakeRoutes{}
	checker.RegisterCheck("routes", RoutesCheck(src))

	mux := http.NewServeMux()
	checker.Register(mux)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	rec := get("/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "1.2.3", health.Version)

	rec = get("/livez")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = get("/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var ready ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ready))
	assert.Equal(t, StatusUnhealthy, ready.Status)
	assert.Equal(t, "no routes loaded", ready.Checks["routes"].Message)

	src.n = 3
	src.err = errors.New("bad yaml")
	rec = get("/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ready))
	assert.Equal(t, StatusDegraded, ready.Status)
}

func TestRoutesCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     fakeRoutes
		status  Status
		message string
	}{
		{name: "empty", src: fakeRoutes{}, status: StatusUnhealthy, message: "no routes loaded"},
		{name: "loaded", src: fakeRoutes{n: 4}, status: StatusHealthy, message: "serving 4 matchers"},
		{
			name:    "stale",
			src:     fakeRoutes{n: 4, err: errors.New("bad yaml")},
			status:  StatusDegraded,
			message: "serving 4 matchers, last reload failed: bad yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			check := RoutesCheck(tt.src)()
			assert.Equal(t, tt.status, check.Status)
			assert.Equal(t, tt.message, check.Message)
		})
	}
}
