package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		namespace string
		prefix    string
	}{
		{name: "custom namespace", namespace: "custom", prefix: "custom_"},
		{name: "empty namespace uses default", namespace: "", prefix: "routematch_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			metrics := NewMetrics(tt.namespace)
			require.NotNil(t, metrics)
			require.NotNil(t, metrics.Registry())

			metrics.SetMatchers(1)
			families, err := metrics.Registry().Gather()
			require.NoError(t, err)

			var names []string
			for _, f := range families {
				names = append(names, f.GetName())
			}
			assert.Contains(t, names, tt.prefix+"registry_matchers")
		})
	}
}

func TestMetrics_Registry(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics("")

	metrics.SetMatchers(3)
	metrics.SetMatchers(2)
	metrics.RecordRoutesAdded(3)
	metrics.RecordRoutesRemoved(1)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.matchers))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.routesAdded))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.routesRemoved))
}

func TestMetrics_RecordResolve(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics("")

	metrics.RecordResolve("path", OutcomeMatched, time.Millisecond)
	metrics.RecordResolve("path", OutcomeMatched, time.Millisecond)
	metrics.RecordResolve("name", OutcomeError, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.resolveTotal.WithLabelValues("path", OutcomeMatched)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.resolveTotal.WithLabelValues("name", OutcomeError)))
	assert.Equal(t, 2, testutil.CollectAndCount(metrics.resolveDuration))
}

func TestMetrics_RecordConfigReload(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics("")

	metrics.RecordConfigReload(ReloadSuccess)
	metrics.RecordConfigReload(ReloadFailure)
	metrics.RecordConfigReload(ReloadFailure)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.configReloads.WithLabelValues(ReloadSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.configReloads.WithLabelValues(ReloadFailure)))
}

func TestMetrics_Handler(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics("")
	metrics.RecordRoutesAdded(1)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "routematch_routes_added_total")
}
