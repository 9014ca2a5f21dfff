package main

import (
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/lukas-hzb/geometa/internal/metafile"
)

var (
	exportData   string
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the record store in another format",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if exportData != "" {
			cfg.Data.Path = exportData
		}
		if err := cfg.Validate("stats"); err != nil {
			return err
		}

		groups, err := metafile.Load(cfg.Data.Path)
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return eris.Wrapf(err, "export: create %s", exportOutput)
			}
			defer f.Close() //nolint:errcheck
			w = f
		}

		switch exportFormat {
		case "yaml":
			return metafile.ExportYAML(w, groups)
		case "json":
			return metafile.Encode(w, groups)
		default:
			return eris.Errorf("export: unknown format %q", exportFormat)
		}
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportData, "data", "", "record store file (default from config)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "yaml", "output format: yaml or json")
	exportCmd.Flags().StringVar(&exportOutput, "output", "", "output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}
