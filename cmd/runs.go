package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/lukas-hzb/geometa/internal/model"
	"github.com/lukas-hzb/geometa/internal/monitoring"
	"github.com/lukas-hzb/geometa/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect annotation run history",
	Long:  "Commands for listing runs, viewing the field changes each run made and summarizing ledger health.",
}

// -- runs list --

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List annotation runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := requireStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		status, _ := cmd.Flags().GetString("status")
		data, _ := cmd.Flags().GetString("data")
		limit, _ := cmd.Flags().GetInt("limit")

		runs, err := st.ListRuns(ctx, store.RunFilter{
			Status:   model.RunStatus(status),
			DataPath: data,
			Limit:    limit,
		})
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		formatRunsList(cmd.OutOrStdout(), runs)
		return nil
	},
}

// -- runs show --

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show full details of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := requireStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "runs show")
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	},
}

// -- runs changes --

var runsChangesCmd = &cobra.Command{
	Use:   "changes <run-id>",
	Short: "List the field changes a run made",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := requireStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		limit, _ := cmd.Flags().GetInt("limit")
		field, _ := cmd.Flags().GetString("field")

		changes, err := st.ListChanges(ctx, args[0], limit)
		if err != nil {
			return eris.Wrap(err, "runs changes")
		}
		changes = filterChanges(changes, field)

		if len(changes) == 0 {
			fmt.Fprintln(os.Stderr, "No changes recorded.")
			return nil
		}

		formatChanges(cmd.OutOrStdout(), changes)
		return nil
	},
}

// -- runs stats --

var runsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize recent runs and evaluate alert thresholds",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("runs"); err != nil {
			return err
		}

		st, err := requireStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		since, _ := cmd.Flags().GetDuration("since")
		snap, err := monitoring.NewCollector(st).Collect(ctx, lookbackHours(since))
		if err != nil {
			return eris.Wrap(err, "runs stats")
		}

		alerts := monitoring.NewAlerter(cfg.Monitoring).Evaluate(snap)
		formatRunStats(cmd.OutOrStdout(), snap, alerts)
		return nil
	},
}

func init() {
	runsListCmd.Flags().String("status", "", "filter by run status (running, complete, failed)")
	runsListCmd.Flags().String("data", "", "filter by record store path")
	runsListCmd.Flags().Int("limit", 50, "max number of runs to display")

	runsChangesCmd.Flags().Int("limit", 0, "max number of changes to display (0 for all)")
	runsChangesCmd.Flags().String("field", "", "only show changes to this field (scope, tags, title)")

	runsStatsCmd.Flags().Duration("since", 24*time.Hour, "lookback window (0 for the whole ledger)")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsChangesCmd)
	runsCmd.AddCommand(runsStatsCmd)
	rootCmd.AddCommand(runsCmd)
}

// formatRunsList writes a tabular list of runs to w.
func formatRunsList(out io.Writer, runs []model.Run) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tDATA\tPASSES\tSTATUS\tMETAS\tCHANGES\tCREATED\tDURATION")
	_, _ = fmt.Fprintln(w, "--\t----\t------\t------\t-----\t-------\t-------\t--------")

	for _, r := range runs {
		dur := r.UpdatedAt.Sub(r.CreatedAt).Round(time.Millisecond).String()

		data := r.DataPath
		if len(data) > 30 {
			data = "..." + data[len(data)-27:]
		}

		passes := make([]string, len(r.Passes))
		for i, p := range r.Passes {
			passes[i] = string(p)
		}

		status := string(r.Status)
		if r.DryRun {
			status += " (dry)"
		}

		metas, changes := "", ""
		if r.Result != nil {
			metas = fmt.Sprint(r.Result.Metas)
			changes = fmt.Sprint(r.Result.ScopeChanges + r.Result.TagChanges + r.Result.TitlesWritten)
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			truncateID(r.ID),
			data,
			strings.Join(passes, ","),
			status,
			metas,
			changes,
			r.CreatedAt.Format("2006-01-02 15:04"),
			dur,
		)
	}
	_ = w.Flush()
}

// lookbackHours rounds a lookback window up to whole hours.
func lookbackHours(since time.Duration) int {
	if since <= 0 {
		return 0
	}
	return int(math.Ceil(since.Hours()))
}

// formatRunStats writes a run ledger summary followed by any alerts.
func formatRunStats(out io.Writer, s *monitoring.MetricsSnapshot, alerts []monitoring.Alert) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	window := "all time"
	if s.LookbackHours > 0 {
		window = fmt.Sprintf("last %dh", s.LookbackHours)
	}
	_, _ = fmt.Fprintf(w, "Window:\t%s\n", window)
	_, _ = fmt.Fprintf(w, "Total runs:\t%d\n", s.RunsTotal)
	_, _ = fmt.Fprintf(w, "Complete:\t%d\n", s.RunsComplete)
	_, _ = fmt.Fprintf(w, "Failed:\t%d\n", s.RunsFailed)
	_, _ = fmt.Fprintf(w, "Running:\t%d\n", s.RunsRunning)
	_, _ = fmt.Fprintf(w, "  Dry runs:\t%d\n", s.DryRuns)
	_, _ = fmt.Fprintf(w, "Failure rate:\t%.1f%%\n", s.FailRate*100)
	if s.AvgDurationMs > 0 {
		_, _ = fmt.Fprintf(w, "Avg duration:\t%dms\n", s.AvgDurationMs)
	}
	_, _ = fmt.Fprintf(w, "Field changes:\t%d\n", s.FieldChanges)
	if s.LatestRunID != "" {
		_, _ = fmt.Fprintf(w, "Latest run:\t%s\n", truncateID(s.LatestRunID))
		_, _ = fmt.Fprintf(w, "  Unscoped:\t%d/%d (%.1f%%)\n", s.LatestUnscoped, s.LatestMetas, s.UnscopedRate*100)
	}
	_ = w.Flush()

	if len(alerts) == 0 {
		_, _ = fmt.Fprintln(out, "\nNo alerts.")
		return
	}
	_, _ = fmt.Fprintln(out, "\nAlerts:")
	for _, a := range alerts {
		_, _ = fmt.Fprintf(out, "  [%s] %s\n", a.Severity, a.Message)
	}
}

// formatChanges writes one line per change to w.
func formatChanges(out io.Writer, changes []model.Change) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "COUNTRY\tINDEX\tID\tFIELD\tOLD\tNEW")
	_, _ = fmt.Fprintln(w, "-------\t-----\t--\t-----\t---\t---")
	for _, c := range changes {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
			c.Country, c.Index, c.MetaID, c.Field, orDash(c.Old), orDash(c.New))
	}
	_ = w.Flush()
}

func filterChanges(changes []model.Change, field string) []model.Change {
	if field == "" {
		return changes
	}
	var out []model.Change
	for _, c := range changes {
		if c.Field == field {
			out = append(out, c)
		}
	}
	return out
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
