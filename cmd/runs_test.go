//go:build !integration

package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lukas-hzb/geometa/internal/model"
	"github.com/lukas-hzb/geometa/internal/monitoring"
)

func TestFormatRunsList(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	runs := []model.Run{
		{
			ID:       "abc12345-6789-0000-0000-000000000000",
			DataPath: "data/plonkit_data.json",
			Passes:   model.AllPasses(),
			Status:   model.RunStatusComplete,
			Result: &model.RunResult{
				Metas:         120,
				ScopeChanges:  4,
				TagChanges:    3,
				TitlesWritten: 2,
			},
			CreatedAt: now,
			UpdatedAt: now.Add(1500 * time.Millisecond),
		},
		{
			ID:        "def12345-6789-0000-0000-000000000000",
			DataPath:  "/very/long/path/to/some/deeply/nested/plonkit_data.json",
			Passes:    []model.Pass{model.PassTitles},
			DryRun:    true,
			Status:    model.RunStatusRunning,
			CreatedAt: now.Add(-1 * time.Hour),
			UpdatedAt: now.Add(-1 * time.Hour),
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)

	output := buf.String()
	assert.Contains(t, output, "ID")
	assert.Contains(t, output, "PASSES")
	assert.Contains(t, output, "STATUS")
	assert.Contains(t, output, "abc12345")
	assert.NotContains(t, output, "abc12345-6789")
	assert.Contains(t, output, "scope,tags,titles")
	assert.Contains(t, output, "complete")
	assert.Contains(t, output, "120")
	assert.Contains(t, output, "1.5s")
	assert.Contains(t, output, "running (dry)")
	assert.Contains(t, output, "...")
	assert.Contains(t, output, "2025-06-15 10:30")
}

func TestFormatRunsList_Empty(t *testing.T) {
	var buf bytes.Buffer
	formatRunsList(&buf, nil)

	output := buf.String()
	assert.Contains(t, output, "ID")
	assert.Contains(t, output, "STATUS")
}

func TestFormatChanges(t *testing.T) {
	changes := []model.Change{
		{Country: "Kyrgyzstan", Index: 0, Field: "scope", Old: "", New: "Countrywide"},
		{Country: "Kyrgyzstan", Index: 1, MetaID: "kg-2", Field: "tags", Old: "road", New: "plants,road"},
	}

	var buf bytes.Buffer
	formatChanges(&buf, changes)

	output := buf.String()
	assert.Contains(t, output, "COUNTRY")
	assert.Contains(t, output, "Countrywide")
	assert.Contains(t, output, "plants,road")
	assert.Contains(t, output, "kg-2")
	assert.Contains(t, output, "-")
}

func TestFilterChanges(t *testing.T) {
	changes := []model.Change{
		{Field: "scope"},
		{Field: "title"},
		{Field: "scope"},
	}

	assert.Len(t, filterChanges(changes, ""), 3)
	assert.Len(t, filterChanges(changes, "scope"), 2)
	assert.Empty(t, filterChanges(changes, "tags"))
}

func TestOrDash(t *testing.T) {
	assert.Equal(t, "-", orDash(""))
	assert.Equal(t, "x", orDash("x"))
}

func TestTruncateID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"abc12345-6789-0000-0000-000000000000", "abc12345"},
		{"short", "short"},
		{"12345678", "12345678"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, truncateID(tt.input))
	}
}

func TestLookbackHours(t *testing.T) {
	assert.Equal(t, 0, lookbackHours(0))
	assert.Equal(t, 0, lookbackHours(-time.Hour))
	assert.Equal(t, 24, lookbackHours(24*time.Hour))
	assert.Equal(t, 1, lookbackHours(10*time.Minute))
	assert.Equal(t, 2, lookbackHours(90*time.Minute))
}

func TestFormatRunStats(t *testing.T) {
	snap := &monitoring.MetricsSnapshot{
		RunsTotal:      6,
		RunsComplete:   4,
		RunsFailed:     1,
		RunsRunning:    1,
		DryRuns:        2,
		FailRate:       0.2,
		AvgDurationMs:  340,
		FieldChanges:   17,
		LatestRunID:    "abc12345-6789-0000-0000-000000000000",
		LatestMetas:    40,
		LatestUnscoped: 4,
		UnscopedRate:   0.1,
		LookbackHours:  24,
	}

	var buf bytes.Buffer
	formatRunStats(&buf, snap, nil)
	out := buf.String()

	assert.Contains(t, out, "last 24h")
	assert.Contains(t, out, "Total runs:")
	assert.Contains(t, out, "20.0%")
	assert.Contains(t, out, "340ms")
	assert.Contains(t, out, "abc12345")
	assert.Contains(t, out, "4/40 (10.0%)")
	assert.Contains(t, out, "No alerts.")
}

func TestFormatRunStats_WithAlerts(t *testing.T) {
	snap := &monitoring.MetricsSnapshot{}
	alerts := []monitoring.Alert{
		{Type: monitoring.AlertRunFailureRate, Severity: "high", Message: "too many failures"},
	}

	var buf bytes.Buffer
	formatRunStats(&buf, snap, alerts)
	out := buf.String()

	assert.Contains(t, out, "all time")
	assert.NotContains(t, out, "Latest run:")
	assert.NotContains(t, out, "Avg duration:")
	assert.Contains(t, out, "Alerts:")
	assert.Contains(t, out, "[high] too many failures")
}
