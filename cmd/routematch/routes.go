package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vyrodovalexey/routematch/internal/matcher"
	"github.com/vyrodovalexey/routematch/internal/routetable"
)

func routesCmd(flags *globalFlags) *cobra.Command {
	var showIDs bool

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the routes of a route table in match order",
		Long: `List every matcher of a route table in the order paths are tried.

Examples:
  routematch routes -c routes.yaml
  routematch routes --ids`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd, flags)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			cfg, _, err := loadTable(flags)
			if err != nil {
				return err
			}

			table := routetable.New(routetable.WithLogger(logger))
			if err := table.Load(cfg); err != nil {
				return err
			}

			return printRoutes(cmd.OutOrStdout(), table.Routes(), showIDs)
		},
	}

	cmd.Flags().BoolVar(&showIDs, "ids", false, "print matcher IDs")

	return cmd
}

func printRoutes(out io.Writer, routes []*matcher.RecordMatcher, showIDs bool) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	header := []string{"PATH", "NAME", "KIND", "ALIAS OF", "SCORE"}
	if showIDs {
		header = append([]string{"ID"}, header...)
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, m := range routes {
		rec := m.Record
		aliasOf := "-"
		if rec.IsAlias() {
			aliasOf = rec.Canonical().Path
		}
		name := rec.Name
		if name == "" {
			name = "-"
		}

		row := []string{rec.Path, name, rec.Kind.String(), aliasOf, fmt.Sprint(m.Score())}
		if showIDs {
			row = append([]string{m.ID.String()}, row...)
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	return w.Flush()
}
