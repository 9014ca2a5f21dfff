package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lukas-hzb/geometa/internal/model"
	"github.com/lukas-hzb/geometa/internal/pipeline"
	"github.com/lukas-hzb/geometa/internal/report"
	"github.com/lukas-hzb/geometa/internal/store"
)

var (
	annotateData     string
	annotatePasses   []string
	annotateDryRun   bool
	annotateBackup   bool
	annotateNoLedger bool
)

var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Classify every meta in the record store and save it",
	Long:  "Loads the record store, runs the scope, tags and titles passes over every meta, and writes the file back once. Each run is recorded in the ledger.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		log := zap.L().With(zap.String("command", "annotate"))

		if cmd.Flags().Changed("data") {
			cfg.Data.Path = annotateData
		}
		if cmd.Flags().Changed("passes") {
			cfg.Annotate.Passes = annotatePasses
		}
		if cmd.Flags().Changed("backup") {
			cfg.Data.Backup = annotateBackup
		}
		if annotateNoLedger {
			cfg.Store.Driver = "none"
		}
		if err := cfg.Validate("annotate"); err != nil {
			return err
		}

		var st store.Store
		if !annotateNoLedger {
			s, err := openStore(ctx)
			if err != nil {
				return err
			}
			if s != nil {
				defer s.Close() //nolint:errcheck
				st = s
			}
		}

		passes := make([]model.Pass, len(cfg.Annotate.Passes))
		for i, p := range cfg.Annotate.Passes {
			passes[i] = model.Pass(p)
		}

		out, err := pipeline.New(st).Run(ctx, pipeline.RunInput{
			DataPath: cfg.Data.Path,
			Passes:   passes,
			DryRun:   annotateDryRun,
			Backup:   cfg.Data.Backup,
		})
		if err != nil {
			return err
		}

		log.Info("annotate complete",
			zap.Int("metas", out.Result.Summary.Metas),
			zap.Int("scope_changes", out.Result.Summary.ScopeChanges),
			zap.Int("tag_changes", out.Result.Summary.TagChanges),
			zap.Int("titles_written", out.Result.Summary.TitlesWritten),
		)

		w := cmd.OutOrStdout()
		formatRunSummary(w, out, annotateDryRun)
		_, _ = fmt.Fprintln(w)

		return report.WriteTable(w, report.Tally(out.Groups))
	},
}

func init() {
	annotateCmd.Flags().StringVar(&annotateData, "data", "", "record store file (default from config)")
	annotateCmd.Flags().StringSliceVar(&annotatePasses, "passes", nil, "passes to run: scope,tags,titles (default from config)")
	annotateCmd.Flags().BoolVar(&annotateDryRun, "dry-run", false, "compute changes without writing the file")
	annotateCmd.Flags().BoolVar(&annotateBackup, "backup", false, "copy the previous file to <data>.bak before saving")
	annotateCmd.Flags().BoolVar(&annotateNoLedger, "no-ledger", false, "do not record the run")
	rootCmd.AddCommand(annotateCmd)
}

// formatRunSummary writes the per-pass counts of a finished run to w.
func formatRunSummary(out io.Writer, o *pipeline.Output, dryRun bool) {
	s := o.Result.Summary
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if o.Run != nil {
		_, _ = fmt.Fprintf(w, "Run:\t%s\n", o.Run.ID)
	}
	if dryRun {
		_, _ = fmt.Fprintln(w, "Mode:\tdry run (file not written)")
	}
	_, _ = fmt.Fprintf(w, "Countries:\t%d\n", s.Countries)
	_, _ = fmt.Fprintf(w, "Metas:\t%d\n", s.Metas)
	_, _ = fmt.Fprintf(w, "Scope changes:\t%d\n", s.ScopeChanges)
	_, _ = fmt.Fprintf(w, "Tag changes:\t%d\n", s.TagChanges)
	_, _ = fmt.Fprintf(w, "Titles written:\t%d\n", s.TitlesWritten)
	_, _ = fmt.Fprintf(w, "Duration:\t%dms\n", s.DurationMs)
	_ = w.Flush()
}
