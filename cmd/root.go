package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rmartg14/SIBI-2025-RMARTG14/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "erasmai",
	Short: "Asistente conversacional de destinos Erasmus",
	Long:  "Guía al estudiante por un cuestionario, puntúa destinos sobre el grafo de universidades y compone una recomendación final con Claude.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
