package main

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"sweepgraph/backend/internal/graph"
)

func newSearchCmd(a *app) *cobra.Command {
	var params graph.SearchParams

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find nodes by label, relationship type and text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params.Limit = a.cfg.ClampLimit(params.Limit)

			ctx := cmd.Context()
			repo, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer repo.Close(ctx)

			nodes, err := repo.Search(ctx, params)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(nodes) == 0 {
				fmt.Fprintln(out, "No nodes matched your filters.")
				return nil
			}

			rows := make([]*graph.Record, 0, len(nodes))
			for _, n := range nodes {
				rows = append(rows, graph.Flatten(n))
			}
			return renderRecords(out, rows)
		},
	}

	cmd.Flags().StringVarP(&params.Label, "label", "l", "", "only nodes carrying this label")
	cmd.Flags().StringVarP(&params.RelationshipType, "relationship", "r", "", "only nodes touching a relationship of this type")
	cmd.Flags().StringVarP(&params.Term, "term", "t", "", "case-insensitive substring to look for")
	cmd.Flags().StringVarP(&params.PropertyKey, "property", "p", "", "restrict the term to one property")
	cmd.Flags().IntVarP(&params.Limit, "limit", "n", 0, "maximum rows (clamped to the configured bounds)")
	return cmd
}

// renderRecords writes rows as a table. Columns are the union of all keys in
// first-seen order; missing cells are left blank.
func renderRecords(w io.Writer, rows []*graph.Record) error {
	var columns []string
	seen := make(map[string]bool)
	for _, row := range rows {
		for _, key := range row.Keys() {
			if !seen[key] {
				seen[key] = true
				columns = append(columns, key)
			}
		}
	}

	table := tablewriter.NewWriter(w)
	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	table.Header(header...)

	for _, row := range rows {
		cells := make([]any, len(columns))
		for i, c := range columns {
			cells[i] = ""
			if v, ok := row.Get(c); ok && v != nil {
				cells[i] = fmt.Sprint(v)
			}
		}
		if err := table.Append(cells...); err != nil {
			return err
		}
	}
	return table.Render()
}
