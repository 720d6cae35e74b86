package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rmartg14/SIBI-2025-RMARTG14/internal/seed"
	"github.com/rmartg14/SIBI-2025-RMARTG14/pkg/graph"
)

var seedWorkbookPath string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the destination workbook into the graph",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		path := seedWorkbookPath
		if path == "" {
			path = cfg.Seed.WorkbookPath
		}
		cfg.Seed.WorkbookPath = path
		if err := cfg.Validate("seed"); err != nil {
			return err
		}

		wb, err := seed.LoadWorkbook(path)
		if err != nil {
			return eris.Wrap(err, "load workbook")
		}

		g, err := graph.NewClient(ctx, cfg.Neo4j.URI, cfg.Neo4j.Username, cfg.Neo4j.Password, cfg.Neo4j.Database)
		if err != nil {
			return eris.Wrap(err, "connect graph")
		}
		defer g.Close(ctx)

		if err := seed.NewLoader(g).Run(ctx, wb); err != nil {
			return err
		}

		zap.L().Info("seed complete", zap.String("workbook", path))
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedWorkbookPath, "workbook", "", "path to XLSX workbook (default from config)")
	rootCmd.AddCommand(seedCmd)
}
