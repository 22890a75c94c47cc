package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vyrodovalexey/routematch/internal/config"
	"github.com/vyrodovalexey/routematch/internal/health"
	"github.com/vyrodovalexey/routematch/internal/observability"
	"github.com/vyrodovalexey/routematch/internal/routetable"
)

const shutdownTimeout = 10 * time.Second

// watchFlags holds the flags of the watch command.
type watchFlags struct {
	listenAddr string
	debounce   time.Duration
}

func watchCmd(flags *globalFlags) *cobra.Command {
	wf := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Load a route table and reload it on change",
		Long: `Load a route table, then watch the file and swap the routes every
time it changes. A table that fails to load or validate is logged and the
previous routes stay in place.

With --listen, Prometheus metrics are served on /metrics and probes on
/healthz, /readyz and /livez.

Examples:
  routematch watch -c routes.yaml
  routematch watch --listen :9090 --log-level debug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd, flags, wf)
		},
	}

	cmd.Flags().StringVar(&wf.listenAddr, "listen",
		getEnvOrDefault("ROUTEMATCH_LISTEN", ""), "address for metrics and health endpoints")
	cmd.Flags().DurationVar(&wf.debounce, "debounce", 100*time.Millisecond, "delay before reloading a changed file")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, flags *globalFlags, wf *watchFlags) error {
	logger, err := newLogger(cmd, flags)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	path, err := config.ResolveConfigPath(flags.configPath)
	if err != nil {
		return err
	}

	metrics := observability.NewMetrics("")
	table := routetable.New(
		routetable.WithLogger(logger),
		routetable.WithMetrics(metrics),
	)

	watcher, err := config.NewWatcher(path, table.Reload,
		config.WithLogger(logger),
		config.WithErrorCallback(table.ReloadFailed),
		config.WithDebounceDelay(wf.debounce),
		config.WithStartCallback(table.Load),
	)
	if err != nil {
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		_ = watcher.Stop()
		return err
	}
	defer func() { _ = watcher.Stop() }()

	g, ctx := errgroup.WithContext(ctx)

	if wf.listenAddr != "" {
		checker := health.NewChecker(version, logger)
		checker.RegisterCheck("routes", health.RoutesCheck(table))

		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		checker.Register(mux)

		srv := &http.Server{
			Addr:              wf.listenAddr,
			Handler:           mux,
			ReadTimeout:       10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      10 * time.Second,
		}

		g.Go(func() error {
			logger.Info("starting metrics server", observability.String("address", wf.listenAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("stopping route table watcher")
		return nil
	})

	return g.Wait()
}
