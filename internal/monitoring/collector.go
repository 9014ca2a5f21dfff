package monitoring

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/lukas-hzb/geometa/internal/model"
	"github.com/lukas-hzb/geometa/internal/store"
)

const maxRunsPerSnapshot = 10000

// MetricsSnapshot holds a point-in-time view of the run ledger.
type MetricsSnapshot struct {
	// Run metrics (within lookback window).
	RunsTotal     int     `json:"runs_total"`
	RunsComplete  int     `json:"runs_complete"`
	RunsFailed    int     `json:"runs_failed"`
	RunsRunning   int     `json:"runs_running"`
	DryRuns       int     `json:"dry_runs"`
	FailRate      float64 `json:"fail_rate"`
	AvgDurationMs int64   `json:"avg_duration_ms"`
	FieldChanges  int     `json:"field_changes"`

	// Latest complete run.
	LatestRunID    string  `json:"latest_run_id,omitempty"`
	LatestMetas    int     `json:"latest_metas"`
	LatestUnscoped int     `json:"latest_unscoped"`
	UnscopedRate   float64 `json:"unscoped_rate"`

	// Metadata.
	LookbackHours int       `json:"lookback_hours"`
	CollectedAt   time.Time `json:"collected_at"`
}

// RunLister is the part of the ledger the collector reads.
type RunLister interface {
	ListRuns(ctx context.Context, filter store.RunFilter) ([]model.Run, error)
}

// Collector gathers metrics from the run ledger.
type Collector struct {
	runs RunLister
}

// NewCollector creates a new metrics collector.
func NewCollector(runs RunLister) *Collector {
	return &Collector{runs: runs}
}

// Collect gathers a snapshot over the given lookback window. A
// non-positive window covers the whole ledger.
func (c *Collector) Collect(ctx context.Context, lookbackHours int) (*MetricsSnapshot, error) {
	now := time.Now().UTC()
	snap := &MetricsSnapshot{
		LookbackHours: lookbackHours,
		CollectedAt:   now,
	}

	filter := store.RunFilter{Limit: maxRunsPerSnapshot}
	if lookbackHours > 0 {
		filter.CreatedAfter = now.Add(-time.Duration(lookbackHours) * time.Hour)
	}
	runs, err := c.runs.ListRuns(ctx, filter)
	if err != nil {
		return nil, eris.Wrap(err, "monitoring: list runs")
	}

	snap.RunsTotal = len(runs)
	var totalDur int64

	// Runs arrive newest first.
	for _, r := range runs {
		if r.DryRun {
			snap.DryRuns++
		}
		switch r.Status {
		case model.RunStatusComplete:
			snap.RunsComplete++
		case model.RunStatusFailed:
			snap.RunsFailed++
		case model.RunStatusRunning:
			snap.RunsRunning++
		}
		if r.Status != model.RunStatusComplete || r.Result == nil {
			continue
		}

		totalDur += r.Result.DurationMs
		if !r.DryRun {
			snap.FieldChanges += r.Result.ScopeChanges + r.Result.TagChanges + r.Result.TitlesWritten
		}
		if snap.LatestRunID == "" {
			snap.LatestRunID = r.ID
			snap.LatestMetas = r.Result.Metas
			snap.LatestUnscoped = r.Result.ScopeCounts[model.ScopeNone]
		}
	}

	if finished := snap.RunsComplete + snap.RunsFailed; finished > 0 {
		snap.FailRate = float64(snap.RunsFailed) / float64(finished)
	}
	if snap.RunsComplete > 0 {
		snap.AvgDurationMs = totalDur / int64(snap.RunsComplete)
	}
	if snap.LatestMetas > 0 {
		snap.UnscopedRate = float64(snap.LatestUnscoped) / float64(snap.LatestMetas)
	}

	return snap, nil
}
