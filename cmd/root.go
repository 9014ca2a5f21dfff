package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lukas-hzb/geometa/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "geometa",
	Short: "Rule-based annotation of location-guessing metas",
	Long:  "Assigns a geographic scope, topical tags and a short title to every meta in a scraped guide dataset, and serves the same classifiers over HTTP.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
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
