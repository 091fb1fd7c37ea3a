package main

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"sweepgraph/backend/internal/graph"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show node and relationship counts with the most common types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			repo, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer repo.Close(ctx)

			stats, err := repo.Stats(ctx)
			if err != nil {
				return err
			}
			return renderStats(cmd.OutOrStdout(), stats)
		},
	}
}

func renderStats(w io.Writer, stats *graph.Stats) error {
	fmt.Fprintf(w, "Nodes: %d\nRelationships: %d\n\n", stats.NodeCount, stats.RelationshipCount)

	if err := renderCounts(w, "Label", stats.TopLabels); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return renderCounts(w, "Relationship type", stats.TopRelationshipTypes)
}

func renderCounts(w io.Writer, title string, counts []graph.TypeCount) error {
	table := tablewriter.NewWriter(w)
	table.Header(title, "Count")
	for _, tc := range counts {
		if err := table.Append(tc.Name, fmt.Sprint(tc.Count)); err != nil {
			return err
		}
	}
	return table.Render()
}
