//go:build !integration

package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukas-hzb/geometa/internal/metafile"
	"github.com/lukas-hzb/geometa/internal/model"
	"github.com/lukas-hzb/geometa/internal/report"
	"github.com/lukas-hzb/geometa/internal/server"
	"github.com/lukas-hzb/geometa/internal/store"
)

func TestAnnotateCommand_WritesFileAndLedger(t *testing.T) {
	data, ledger := setupWorkspace(t)

	out, err := execute(t, "annotate")
	require.NoError(t, err)
	assert.Contains(t, out, "Run:")
	assert.Contains(t, out, "Titles written:")
	assert.Contains(t, out, "SCOPE")
	assert.Contains(t, out, "Total:")

	groups, err := metafile.Load(data)
	require.NoError(t, err)
	require.Len(t, groups[0].Metas, 2)
	assert.Equal(t, "Dual Script Alphabet", groups[0].Metas[0].Title)
	assert.Equal(t, "Yurts", groups[0].Metas[1].Title)
	assert.Contains(t, groups[0].Metas[0].Tags, model.TagLanguage)
	assert.Contains(t, groups[0].Metas[1].Tags, model.TagPlants)

	st, err := store.NewSQLite(ledger)
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck

	runs, err := st.ListRuns(context.Background(), store.RunFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunStatusComplete, runs[0].Status)
	assert.Equal(t, data, runs[0].DataPath)
	require.NotNil(t, runs[0].Result)
	assert.Equal(t, 1, runs[0].Result.TitlesWritten)

	out, err = execute(t, "runs", "list")
	require.NoError(t, err)
	assert.Contains(t, out, truncateID(runs[0].ID))
	assert.Contains(t, out, "complete")

	out, err = execute(t, "runs", "changes", runs[0].ID, "--field", "title")
	require.NoError(t, err)
	assert.Contains(t, out, "Dual Script Alphabet")
	assert.NotContains(t, out, "Countrywide")

	out, err = execute(t, "runs", "show", runs[0].ID)
	require.NoError(t, err)
	var shown model.Run
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, runs[0].ID, shown.ID)
}

func TestAnnotateCommand_SecondRunWritesNoTitles(t *testing.T) {
	setupWorkspace(t)

	_, err := execute(t, "annotate", "--no-ledger")
	require.NoError(t, err)

	out, err := execute(t, "annotate", "--no-ledger")
	require.NoError(t, err)
	assert.Contains(t, out, "Titles written:  0")
	assert.Contains(t, out, "Scope changes:   0")
}

func TestAnnotateCommand_DryRun(t *testing.T) {
	data, ledger := setupWorkspace(t)
	before, err := os.ReadFile(data)
	require.NoError(t, err)

	out, err := execute(t, "annotate", "--dry-run", "--no-ledger")
	require.NoError(t, err)
	assert.Contains(t, out, "dry run")
	assert.Regexp(t, `Titled:\s+2`, out, "distribution previews the synthesized title")

	after, err := os.ReadFile(data)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	_, err = os.Stat(ledger)
	assert.True(t, os.IsNotExist(err), "no ledger should be created")
}

func TestAnnotateCommand_Backup(t *testing.T) {
	data, _ := setupWorkspace(t)

	_, err := execute(t, "annotate", "--backup", "--no-ledger")
	require.NoError(t, err)

	bak, err := os.ReadFile(data + ".bak")
	require.NoError(t, err)
	assert.Equal(t, sampleData, string(bak))
}

func TestAnnotateCommand_UnknownPass(t *testing.T) {
	data, _ := setupWorkspace(t)
	before, err := os.ReadFile(data)
	require.NoError(t, err)

	_, err = execute(t, "annotate", "--passes", "colour", "--no-ledger")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown pass "colour"`)

	after, err := os.ReadFile(data)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestAnnotateCommand_MissingFile(t *testing.T) {
	dir, _ := setupWorkspace(t)

	_, err := execute(t, "annotate", "--no-ledger", "--data", filepath.Join(filepath.Dir(dir), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metafile: open")
}

func TestClassifyCommand(t *testing.T) {
	setupWorkspace(t)

	out, err := execute(t, "classify",
		"--description", "Cyrillic and Latin alphabet used on signs",
		"--country", "Kyrgyzstan",
	)
	require.NoError(t, err)

	var got server.ClassifyResponse
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Dual Script Alphabet", got.Title)
	assert.NotEmpty(t, got.TitleRule)
	assert.NotEmpty(t, got.ScopeTier)
	assert.Equal(t, "KG", got.CountryCode)
	assert.Contains(t, got.Tags, model.TagLanguage)
	assert.Contains(t, got.Tags, model.TagSigns)
}

func TestClassifyCommand_RequiresInput(t *testing.T) {
	setupWorkspace(t)

	_, err := execute(t, "classify")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--description or --title is required")
}

func TestStatsCommand_Formats(t *testing.T) {
	dir, _ := setupWorkspace(t)
	dir = filepath.Dir(dir)

	out, err := execute(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "SCOPE")
	assert.Contains(t, out, "Total:")

	out, err = execute(t, "stats", "--format", "json")
	require.NoError(t, err)
	var d report.Distribution
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, 2, d.Total)
	assert.Equal(t, 1, d.Titled)

	out, err = execute(t, "stats", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "total: 2")

	_, err = execute(t, "stats", "--format", "xlsx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output is required")

	xlsxPath := filepath.Join(dir, "dist.xlsx")
	_, err = execute(t, "stats", "--format", "xlsx", "--output", xlsxPath)
	require.NoError(t, err)
	_, err = os.Stat(xlsxPath)
	assert.NoError(t, err)

	_, err = execute(t, "stats", "--format", "csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestStatsCommand_ToFile(t *testing.T) {
	dir, _ := setupWorkspace(t)
	path := filepath.Join(filepath.Dir(dir), "dist.json")

	out, err := execute(t, "stats", "--format", "json", "--output", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"total": 2`)
}

func TestExportCommand(t *testing.T) {
	setupWorkspace(t)

	out, err := execute(t, "export")
	require.NoError(t, err)
	assert.Contains(t, out, "country: Kyrgyzstan")
	assert.Contains(t, out, "description: Birch trees line the road")

	out, err = execute(t, "export", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"country": "Kyrgyzstan"`)

	_, err = execute(t, "export", "--format", "toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export: unknown format")
}

func TestRunsCommand_LedgerDisabled(t *testing.T) {
	setupWorkspace(t)
	t.Setenv("GEOMETA_STORE_DRIVER", "none")

	_, err := execute(t, "runs", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run ledger is disabled")
}

func TestRunsCommand_ShowUnknown(t *testing.T) {
	setupWorkspace(t)

	_, err := execute(t, "runs", "show", "does-not-exist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRunsStatsCommand(t *testing.T) {
	setupWorkspace(t)

	_, err := execute(t, "annotate")
	require.NoError(t, err)
	_, err = execute(t, "annotate", "--dry-run")
	require.NoError(t, err)

	out, err := execute(t, "runs", "stats", "--since", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "all time")
	assert.Regexp(t, `Total runs:\s+2`, out)
	assert.Regexp(t, `Dry runs:\s+1`, out)
	assert.Contains(t, out, "Latest run:")
}

func TestRunsStatsCommand_InvalidThreshold(t *testing.T) {
	setupWorkspace(t)
	t.Setenv("GEOMETA_MONITORING_UNSCOPED_THRESHOLD", "2")

	_, err := execute(t, "runs", "stats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "monitoring.unscoped_threshold")
}
