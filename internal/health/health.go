package health

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/vyrodovalexey/routematch/internal/observability"
)

// Status represents the health status.
type Status string

const (
	// StatusHealthy indicates the service is healthy.
	StatusHealthy Status = "healthy"
	// StatusUnhealthy indicates the service is unhealthy.
	StatusUnhealthy Status = "unhealthy"
	// StatusDegraded indicates the service serves stale data.
	StatusDegraded Status = "degraded"
)

// HealthResponse is the body of the liveness endpoint.
type HealthResponse struct {
	Status    Status    `json:"status"`
	Version   string    `json:"version,omitempty"`
	Uptime    string    `json:"uptime,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadinessResponse is the body of the readiness endpoint.
type ReadinessResponse struct {
	Status    Status           `json:"status"`
	Checks    map[string]Check `json:"checks,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// Check is the result of one readiness check.
type Check struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// CheckFunc performs a readiness check.
type CheckFunc func() Check

// Checker serves liveness and readiness probes.
type Checker struct {
	version   string
	startTime time.Time
	logger    observability.Logger
	checks    map[string]CheckFunc
	mu        sync.RWMutex
}

// NewChecker creates a new health checker.
func NewChecker(version string, logger observability.Logger) *Checker {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Checker{
		version:   version,
		startTime: time.Now(),
		logger:    logger,
		checks:    make(map[string]CheckFunc),
	}
}

// RegisterCheck registers a readiness check.
func (c *Checker) RegisterCheck(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// UnregisterCheck removes a readiness check.
func (c *Checker) UnregisterCheck(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.checks, name)
}

// Health returns the liveness status.
func (c *Checker) Health() HealthResponse {
	return HealthResponse{
		Status:    StatusHealthy,
		Version:   c.version,
		Uptime:    time.Since(c.startTime).Round(time.Second).String(),
		Timestamp: time.Now(),
	}
}

// Readiness runs every check. The worst check status wins.
func (c *Checker) Readiness() ReadinessResponse {
	c.mu.RLock()
	defer c.mu.RUnlock()

	response := ReadinessResponse{
		Status:    StatusHealthy,
		Checks:    make(map[string]Check, len(c.checks)),
		Timestamp: time.Now(),
	}

	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		check := c.checks[name]()
		response.Checks[name] = check

		switch {
		case check.Status == StatusUnhealthy:
			response.Status = StatusUnhealthy
		case check.Status == StatusDegraded && response.Status != StatusUnhealthy:
			response.Status = StatusDegraded
		}
	}

	return response
}

// HealthHandler returns the handler of the liveness endpoint.
func (c *Checker) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c.writeJSON(w, http.StatusOK, c.Health())
	}
}

// ReadinessHandler returns the handler of the readiness endpoint. Degraded
// is still ready.
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := c.Readiness()

		statusCode := http.StatusOK
		if response.Status == StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
			c.logger.Debug("readiness probe failed",
				observability.Any("checks", response.Checks),
			)
		}
		c.writeJSON(w, statusCode, response)
	}
}

// LivenessHandler returns a minimal ping handler.
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

// Register mounts /healthz, /readyz and /livez on mux.
func (c *Checker) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", c.HealthHandler())
	mux.HandleFunc("/readyz", c.ReadinessHandler())
	mux.HandleFunc("/livez", c.LivenessHandler())
}

func (c *Checker) writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		c.logger.Error("failed to encode health response", observability.Error(err))
	}
}

// RouteSource is what the routes check inspects.
type RouteSource interface {
	Len() int
	LastReloadError() error
}

// RoutesCheck reports unhealthy until routes are loaded and degraded while
// the last reload failed.
func RoutesCheck(src RouteSource) CheckFunc {
	return func() Check {
		n := src.Len()
		if n == 0 {
			return Check{Status: StatusUnhealthy, Message: "no routes loaded"}
		}
		if err := src.LastReloadError(); err != nil {
			return Check{
				Status:  StatusDegraded,
				Message: fmt.Sprintf("serving %d matchers, last reload failed: %v", n, err),
			}
		}
		return Check{Status: StatusHealthy, Message: fmt.Sprintf("serving %d matchers", n)}
	}
}
