// Package store persists the run ledger: one row per annotation run and
// the field changes it made.
package store

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/lukas-hzb/geometa/internal/model"
)

// ErrNotFound is wrapped by lookups of an unknown run.
var ErrNotFound = eris.New("store: not found")

// RunInput describes a run about to start.
type RunInput struct {
	DataPath string       `json:"data_path"`
	Passes   []model.Pass `json:"passes"`
	DryRun   bool         `json:"dry_run"`
}

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status       model.RunStatus `json:"status,omitempty"`
	DataPath     string          `json:"data_path,omitempty"`
	CreatedAfter time.Time       `json:"created_after,omitempty"`
	Limit        int             `json:"limit,omitempty"`
	Offset       int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for the run ledger.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, in RunInput) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, result *model.RunResult) error
	FailRun(ctx context.Context, runID string, msg string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Changes
	RecordChanges(ctx context.Context, runID string, changes []model.Change) error
	ListChanges(ctx context.Context, runID string, limit int) ([]model.Change, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

const defaultListLimit = 100

func joinPasses(passes []model.Pass) string {
	parts := make([]string, len(passes))
	for i, p := range passes {
		parts[i] = string(p)
	}
	return strings.Join(parts, ",")
}

func splitPasses(s string) []model.Pass {
	if s == "" {
		return []model.Pass{}
	}
	parts := strings.Split(s, ",")
	out := make([]model.Pass, len(parts))
	for i, p := range parts {
		out[i] = model.Pass(p)
	}
	return out
}
