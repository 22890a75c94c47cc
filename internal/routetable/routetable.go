package routetable

import (
	"context"
	"slices"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vyrodovalexey/routematch/internal/config"
	"github.com/vyrodovalexey/routematch/internal/matcher"
	"github.com/vyrodovalexey/routematch/internal/observability"
	"github.com/vyrodovalexey/routematch/internal/util"
)

// Table serves resolutions from the routes of a route table file and swaps
// them when the file is reloaded. It is safe for concurrent use.
type Table struct {
	mu       sync.RWMutex
	registry *matcher.Registry
	name     string
	names    []string
	lastErr  error

	logger   observability.Logger
	metrics  *observability.Metrics
	tracer   *observability.Tracer
	warnings bool
}

// Option is a functional option for configuring a Table.
type Option func(*Table)

// WithLogger sets the logger of the table and its registries.
func WithLogger(logger observability.Logger) Option {
	return func(t *Table) {
		t.logger = logger
	}
}

// WithMetrics sets the metrics of the table and its registries.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(t *Table) {
		t.metrics = metrics
	}
}

// WithTracer sets the tracer used by ResolveContext.
func WithTracer(tracer *observability.Tracer) Option {
	return func(t *Table) {
		t.tracer = tracer
	}
}

// WithWarnings enables or disables advisory route warnings.
func WithWarnings(enabled bool) Option {
	return func(t *Table) {
		t.warnings = enabled
	}
}

// New creates an empty table.
func New(opts ...Option) *Table {
	t := &Table{
		logger:   observability.NopLogger(),
		warnings: true,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.tracer == nil {
		t.tracer = observability.NewTracerFromProvider(noop.NewTracerProvider(), observability.DefaultNamespace)
	}
	t.registry = matcher.New(
		matcher.WithLogger(t.logger),
		matcher.WithMetrics(t.metrics),
		matcher.WithWarnings(t.warnings),
	)
	return t
}

// Load compiles every route of a table into a new registry and swaps it in.
// The previous routes keep serving when any route fails to compile.
//
// The new registry is built without metrics; the swap counts every previous
// matcher as removed and every new one as added.
func (t *Table) Load(table *config.RouteTable) error {
	if table == nil {
		return util.NewConfigError("", "route table is nil")
	}

	next := matcher.New(
		matcher.WithOptions(table.PathOptions()),
		matcher.WithLogger(t.logger.With(observability.String("table", table.Metadata.Name))),
		matcher.WithWarnings(t.warnings),
	)
	for i := range table.Spec.Routes {
		if _, err := next.AddRoute(table.Spec.Routes[i], nil); err != nil {
			return util.NewConfigErrorWithCause("spec.routes", err.Error(), err)
		}
	}
	next.SetMetrics(t.metrics)

	names := table.RouteNames()

	t.mu.Lock()
	previous := t.names
	removedMatchers := t.registry.Len()
	t.registry = next
	t.name = table.Metadata.Name
	t.names = names
	t.lastErr = nil
	if t.metrics != nil {
		t.metrics.RecordRoutesRemoved(removedMatchers)
		t.metrics.RecordRoutesAdded(next.Len())
		t.metrics.SetMatchers(next.Len())
	}
	t.mu.Unlock()

	added, removed := diffNames(previous, names)
	t.logger.Info("route table loaded",
		observability.String("table", table.Metadata.Name),
		observability.Int("matchers", next.Len()),
		observability.Strings("added", added),
		observability.Strings("removed", removed),
	)
	return nil
}

// Reload loads a table and records the outcome. It has the signature of a
// config.ReloadCallback.
func (t *Table) Reload(table *config.RouteTable) {
	if err := t.Load(table); err != nil {
		t.ReloadFailed(err)
		return
	}
	if t.metrics != nil {
		t.metrics.RecordConfigReload(observability.ReloadSuccess)
	}
}

// ReloadFailed records a reload that did not reach the table. It has the
// signature of a config.ErrorCallback.
func (t *Table) ReloadFailed(err error) {
	t.mu.Lock()
	t.lastErr = err
	t.mu.Unlock()

	t.logger.Error("route table reload failed, keeping previous routes",
		observability.Error(err),
	)
	if t.metrics != nil {
		t.metrics.RecordConfigReload(observability.ReloadFailure)
	}
}

// Resolve resolves a request against the current routes.
func (t *Table) Resolve(req matcher.Request, current matcher.Location) (matcher.Location, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.registry.Resolve(req, current)
}

// ResolveContext resolves a request inside a span of the table's tracer.
func (t *Table) ResolveContext(
	ctx context.Context,
	req matcher.Request,
	current matcher.Location,
) (matcher.Location, error) {
	ctx, span := t.tracer.StartSpan(ctx, "routematch.resolve",
		trace.WithAttributes(
			attribute.String("routematch.mode", string(req.Mode())),
			attribute.String("routematch.request.name", req.Name),
			attribute.String("routematch.request.path", req.Path),
		),
	)
	defer span.End()

	loc, err := t.Resolve(req, current)
	if err != nil {
		observability.RecordError(span, err)
		t.logger.WithContext(ctx).Debug("resolution failed",
			observability.String("mode", string(req.Mode())),
			observability.Error(err),
		)
		return loc, err
	}

	span.SetAttributes(
		attribute.Bool("routematch.matched", loc.Found()),
		attribute.String("routematch.route.name", loc.Name),
		attribute.String("routematch.route.path", loc.Path),
	)
	t.logger.WithContext(ctx).Debug("resolved",
		observability.String("mode", string(req.Mode())),
		observability.String("name", loc.Name),
		observability.String("path", loc.Path),
		observability.Bool("matched", loc.Found()),
	)
	return loc, nil
}

// Routes returns the matchers of the current routes in match order.
func (t *Table) Routes() []*matcher.RecordMatcher {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.registry.GetRoutes()
}

// GetRecordMatcher returns the current matcher registered under name.
func (t *Table) GetRecordMatcher(name string) (*matcher.RecordMatcher, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.registry.GetRecordMatcher(name)
}

// Name returns the metadata name of the loaded table.
func (t *Table) Name() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.name
}

// RouteNames returns the top-level route names of the loaded table.
func (t *Table) RouteNames() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.names)
}

// LastReloadError returns the error of the last failed reload, or nil when
// the last load succeeded.
func (t *Table) LastReloadError() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastErr
}

// Len returns the number of matchers of the current routes.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.registry.Len()
}

// diffNames returns the names only in next and the names only in previous.
func diffNames(previous, next []string) (added, removed []string) {
	for _, name := range next {
		if !slices.Contains(previous, name) {
			added = append(added, name)
		}
	}
	for _, name := range previous {
		if !slices.Contains(next, name) {
			removed = append(removed, name)
		}
	}
	return added, removed
}
