package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/furnacex/intel-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "intel-cli",
	Short: "Petroleum sales lead intelligence pipeline",
	Long:  "Normalizes scraped procurement and clearance disclosures, classifies demand signals, scores leads, and routes them to the nearest field officer.",
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
