package model

import "time"

// RunStatus represents the current state of an annotation run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Pass names a single annotation pass over the record store.
type Pass string

const (
	PassScope  Pass = "scope"
	PassTags   Pass = "tags"
	PassTitles Pass = "titles"
)

// AllPasses lists every pass in execution order.
func AllPasses() []Pass {
	return []Pass{PassScope, PassTags, PassTitles}
}

// Valid reports whether p names a known pass.
func (p Pass) Valid() bool {
	switch p {
	case PassScope, PassTags, PassTitles:
		return true
	}
	return false
}

// Run is one load-classify-save pass over a record store file.
type Run struct {
	ID        string     `json:"id"`
	DataPath  string     `json:"data_path"`
	Passes    []Pass     `json:"passes"`
	DryRun    bool       `json:"dry_run"`
	Status    RunStatus  `json:"status"`
	Result    *RunResult `json:"result,omitempty"`
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RunResult holds the outcome of a completed run.
type RunResult struct {
	Countries     int           `json:"countries"`
	Metas         int           `json:"metas"`
	ScopeChanges  int           `json:"scope_changes"`
	TagChanges    int           `json:"tag_changes"`
	TitlesWritten int           `json:"titles_written"`
	ScopeCounts   map[Scope]int `json:"scope_counts,omitempty"`
	TagCounts     map[Tag]int   `json:"tag_counts,omitempty"`
	DurationMs    int64         `json:"duration_ms"`
}

// Change records one field that a pass rewrote.
type Change struct {
	Country string `json:"country"`
	MetaID  string `json:"meta_id,omitempty"`
	Index   int    `json:"index"`
	Field   string `json:"field"`
	Old     string `json:"old"`
	New     string `json:"new"`
}
