package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vyrodovalexey/routematch/internal/matcher"
	"github.com/vyrodovalexey/routematch/internal/observability"
	"github.com/vyrodovalexey/routematch/internal/pathparser"
	"github.com/vyrodovalexey/routematch/internal/routetable"
)

// resolveFlags holds the flags of the resolve command.
type resolveFlags struct {
	path         string
	name         string
	params       []string
	current      string
	otlpEndpoint string
}

// resolvedRecord is one entry of the matched chain in command output.
type resolvedRecord struct {
	Path     string            `yaml:"path"`
	Name     string            `yaml:"name,omitempty"`
	Kind     matcher.Kind      `yaml:"kind"`
	Views    map[string]string `yaml:"views,omitempty"`
	Redirect string            `yaml:"redirect,omitempty"`
	Alias    bool              `yaml:"alias,omitempty"`
}

// resolveOutput is the YAML document printed by the resolve command.
type resolveOutput struct {
	matcher.Location `yaml:",inline"`
	Matched          []resolvedRecord `yaml:"matched"`
}

func resolveCmd(flags *globalFlags) *cobra.Command {
	rf := &resolveFlags{}

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a navigation request against a route table",
		Long: `Resolve a request by path, by route name or relative to a current
location, and print the resulting location as YAML.

Without --path and --name the request is relative to --current.
Repeat --param with the same key to pass a list to a repeatable param.

Examples:
  routematch resolve --path /users/42
  routematch resolve --name user --param id=42
  routematch resolve --name user-profile --current /users/42/posts
  routematch resolve --current /docs/intro --param page=2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, flags, rf)
		},
	}

	cmd.Flags().StringVar(&rf.path, "path", "", "literal path to resolve")
	cmd.Flags().StringVar(&rf.name, "name", "", "route name to resolve")
	cmd.Flags().StringArrayVarP(&rf.params, "param", "p", nil, "route param as key=value (repeatable)")
	cmd.Flags().StringVar(&rf.current, "current", "", "path of the current location")
	cmd.Flags().StringVar(&rf.otlpEndpoint, "otlp-endpoint",
		getEnvOrDefault("ROUTEMATCH_OTLP_ENDPOINT", ""), "OTLP gRPC endpoint for resolution traces")
	cmd.MarkFlagsMutuallyExclusive("path", "name")

	return cmd
}

func runResolve(cmd *cobra.Command, flags *globalFlags, rf *resolveFlags) error {
	if rf.path == "" && rf.name == "" && rf.current == "" {
		return errors.New("one of --path, --name or --current is required")
	}

	params, err := parseParams(rf.params)
	if err != nil {
		return err
	}

	logger, err := newLogger(cmd, flags)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	tracer, err := observability.NewTracer(observability.TracerConfig{
		ServiceName:  "routematch",
		OTLPEndpoint: rf.otlpEndpoint,
		SamplingRate: 1.0,
		Enabled:      rf.otlpEndpoint != "",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize tracer: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(ctx); err != nil {
			logger.Warn("failed to shutdown tracer", observability.Error(err))
		}
	}()

	cfg, _, err := loadTable(flags)
	if err != nil {
		return err
	}

	table := routetable.New(routetable.WithLogger(logger), routetable.WithTracer(tracer))
	if err := table.Load(cfg); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var current matcher.Location
	if rf.current != "" {
		current, err = table.ResolveContext(ctx, matcher.Request{Path: rf.current}, matcher.Location{})
		if err != nil {
			return fmt.Errorf("failed to resolve current location: %w", err)
		}
	}

	target := rf.name
	if target == "" && rf.path == "" {
		target = current.Name
	}
	if m, ok := table.GetRecordMatcher(target); ok {
		params = listRepeatable(params, m.Keys())
	}

	loc, err := table.ResolveContext(ctx, matcher.Request{
		Name:   rf.name,
		Path:   rf.path,
		Params: params,
	}, current)
	if err != nil {
		return err
	}

	return printLocation(cmd.OutOrStdout(), loc)
}

// parseParams turns key=value pairs into params. A key given more than once
// becomes a list.
func parseParams(pairs []string) (pathparser.Params, error) {
	values := make(map[string][]string)
	var order []string
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid param %q, expected key=value", pair)
		}
		if _, seen := values[key]; !seen {
			order = append(order, key)
		}
		values[key] = append(values[key], value)
	}

	params := make(pathparser.Params, len(values))
	for _, key := range order {
		if v := values[key]; len(v) > 1 {
			params[key] = pathparser.List(v...)
		} else {
			params[key] = pathparser.Single(v[0])
		}
	}
	return params, nil
}

// listRepeatable turns single values given for repeatable keys into
// one-element lists.
func listRepeatable(params pathparser.Params, keys []pathparser.Key) pathparser.Params {
	for _, key := range keys {
		if p, ok := params[key.Name]; ok && key.Repeatable && !p.IsList() {
			params[key.Name] = pathparser.List(p.String())
		}
	}
	return params
}

func printLocation(out io.Writer, loc matcher.Location) error {
	doc := resolveOutput{
		Location: loc,
		Matched:  make([]resolvedRecord, 0, len(loc.Matched)),
	}
	for _, rec := range loc.Matched {
		entry := resolvedRecord{
			Path:     rec.Path,
			Name:     rec.Name,
			Kind:     rec.Kind,
			Redirect: rec.Redirect,
			Alias:    rec.IsAlias(),
		}
		if names := rec.Views.Names(); len(names) > 0 {
			entry.Views = make(map[string]string, len(names))
			for _, slot := range names {
				entry.Views[slot], _ = rec.Views.View(slot)
			}
		}
		doc.Matched = append(doc.Matched, entry)
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode location: %w", err)
	}
	return enc.Close()
}
