// Package main is the routematch command line tool.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vyrodovalexey/routematch/internal/config"
	"github.com/vyrodovalexey/routematch/internal/observability"
)

// Version information set at build time.
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "routematch",
		Short: "Inspect and resolve route tables",
		Long: `routematch compiles route tables and resolves navigation requests
against them.

Route tables are YAML documents of kind RouteTable. Paths support
named params (:id), custom regexps (:id(\d+)), optional (?) and
repeatable (*, +) modifiers.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, gitCommit, buildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c",
		getEnvOrDefault("ROUTEMATCH_CONFIG", config.DefaultConfigFile), "path to the route table file")
	pf.StringVar(&flags.logLevel, "log-level",
		getEnvOrDefault("ROUTEMATCH_LOG_LEVEL", "info"), "log level (debug, info, warn, error)")
	pf.StringVar(&flags.logFormat, "log-format",
		getEnvOrDefault("ROUTEMATCH_LOG_FORMAT", observability.FormatConsole), "log format (console, json)")

	rootCmd.AddCommand(
		routesCmd(flags),
		resolveCmd(flags),
		watchCmd(flags),
	)

	return rootCmd
}

// newLogger builds the logger of a command. Logs go to the command's error
// stream so that results on stdout stay machine readable.
func newLogger(cmd *cobra.Command, flags *globalFlags) (observability.Logger, error) {
	return observability.NewLoggerWithWriter(observability.LogConfig{
		Level:  flags.logLevel,
		Format: flags.logFormat,
	}, cmd.ErrOrStderr())
}

// loadTable resolves, loads and validates the configured route table.
func loadTable(flags *globalFlags) (*config.RouteTable, string, error) {
	path, err := config.ResolveConfigPath(flags.configPath)
	if err != nil {
		return nil, "", err
	}

	table, err := config.LoadConfig(path)
	if err != nil {
		return nil, "", err
	}
	if err := config.ValidateConfig(table); err != nil {
		return nil, "", err
	}
	return table, path, nil
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
