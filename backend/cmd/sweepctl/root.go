package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"sweepgraph/backend/internal/graph"
	"sweepgraph/backend/pkg/config"
	"sweepgraph/backend/pkg/logger"
)

// app carries state shared by every subcommand once the root pre-run has
// loaded configuration.
type app struct {
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "sweepctl",
		Short: "Import and explore sweep graph documents",
		Long: `sweepctl loads JSON graph documents into Neo4j as idempotent upserts
and runs the same searches and statistics the HTTP API offers.

Connection settings come from NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD and
NEO4J_DATABASE (a .env file in the working directory is honored).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg

			var extra []string
			if cmd.Name() == "import" {
				extra = append(extra, cfg.ImportLogFile)
			}
			if err := logger.Init(cfg.Env, extra...); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
	}

	root.AddCommand(
		newImportCmd(a),
		newSearchCmd(a),
		newStatsCmd(a),
	)
	return root
}

// connect opens the store. The returned repository owns the driver.
func (a *app) connect(ctx context.Context) (*graph.Repository, error) {
	driver, err := graph.Connect(ctx, a.cfg.Neo4jURI, a.cfg.Neo4jUser, a.cfg.Neo4jPassword)
	if err != nil {
		return nil, err
	}
	return graph.NewRepository(driver, a.cfg.Neo4jDatabase), nil
}
