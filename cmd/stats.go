package main

import (
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/lukas-hzb/geometa/internal/metafile"
	"github.com/lukas-hzb/geometa/internal/report"
)

var (
	statsData   string
	statsFormat string
	statsOutput string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show scope and tag distributions of the record store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if statsData != "" {
			cfg.Data.Path = statsData
		}
		if err := cfg.Validate("stats"); err != nil {
			return err
		}

		groups, err := metafile.Load(cfg.Data.Path)
		if err != nil {
			return err
		}
		return writeDistribution(cmd.OutOrStdout(), report.Tally(groups), statsFormat, statsOutput)
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsData, "data", "", "record store file (default from config)")
	statsCmd.Flags().StringVar(&statsFormat, "format", "table", "output format: table, json, yaml or xlsx")
	statsCmd.Flags().StringVar(&statsOutput, "output", "", "output file (required for xlsx, stdout otherwise)")
	rootCmd.AddCommand(statsCmd)
}

// writeDistribution renders d in the given format to path, or to stdout
// when path is empty.
func writeDistribution(stdout io.Writer, d report.Distribution, format, path string) error {
	if format == "xlsx" {
		if path == "" {
			return eris.New("stats: --output is required for xlsx")
		}
		return report.WriteXLSX(path, d)
	}

	var write func(io.Writer, report.Distribution) error
	switch format {
	case "table":
		write = report.WriteTable
	case "json":
		write = report.WriteJSON
	case "yaml":
		write = report.WriteYAML
	default:
		return eris.Errorf("stats: unknown format %q", format)
	}

	if path == "" {
		return write(stdout, d)
	}
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "stats: create %s", path)
	}
	defer f.Close() //nolint:errcheck
	return write(f, d)
}
