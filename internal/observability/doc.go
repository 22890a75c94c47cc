// Package observability provides logging, metrics, and tracing for the
// route registry.
//
// # Logging
//
// The Logger interface wraps zap. Registries log route additions and
// removals at debug level and advisory warnings at warn level:
//
//	logger, err := observability.NewLogger(observability.LogConfig{
//	    Level:  "debug",
//	    Format: observability.FormatJSON,
//	})
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
// # Metrics
//
// Metrics live on their own Prometheus registry so several registries can
// coexist in one process:
//
//	metrics := observability.NewMetrics("")
//	http.Handle("/metrics", metrics.Handler())
//
// # Tracing
//
// Tracer wraps OpenTelemetry with an optional OTLP gRPC exporter. A disabled
// tracer produces no-op spans.
package observability
