package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/lukas-hzb/geometa/internal/model"
	"github.com/lukas-hzb/geometa/internal/scope"
	"github.com/lukas-hzb/geometa/internal/tags"
	"github.com/lukas-hzb/geometa/internal/title"
)

// Field names used in Change records.
const (
	FieldScope = "scope"
	FieldTags  = "tags"
	FieldTitle = "title"
)

// Options selects the passes to run. An empty Passes list runs all of them.
type Options struct {
	Passes []model.Pass
	DryRun bool
}

// Result is the outcome of one Annotate call. Groups is the annotated
// record store: the input slice itself, or a copy in dry-run mode.
type Result struct {
	Summary model.RunResult      `json:"summary"`
	Changes []model.Change       `json:"changes"`
	Groups  []model.CountryGroup `json:"-"`
}

// ResolvePasses validates names and returns them in execution order.
// Duplicates collapse and an empty list selects every pass.
func ResolvePasses(names []model.Pass) ([]model.Pass, error) {
	if len(names) == 0 {
		return model.AllPasses(), nil
	}
	want := make(map[model.Pass]bool, len(names))
	for _, n := range names {
		p := model.Pass(strings.ToLower(strings.TrimSpace(string(n))))
		if !p.Valid() {
			return nil, eris.Errorf("pipeline: unknown pass %q", n)
		}
		want[p] = true
	}
	var out []model.Pass
	for _, p := range model.AllPasses() {
		if want[p] {
			out = append(out, p)
		}
	}
	return out, nil
}

// Annotate runs the selected passes over every meta of every group and
// assigns the results in place. In dry-run mode groups are left untouched
// and the results are assigned to a copy returned in Result.Groups.
func Annotate(ctx context.Context, groups []model.CountryGroup, opts Options) (*Result, error) {
	passes, err := ResolvePasses(opts.Passes)
	if err != nil {
		return nil, err
	}
	enabled := make(map[model.Pass]bool, len(passes))
	for _, p := range passes {
		enabled[p] = true
	}

	log := zap.L().With(zap.Bool("dry_run", opts.DryRun))
	start := time.Now()

	res := &Result{
		Summary: model.RunResult{
			Countries:   len(groups),
			ScopeCounts: make(map[model.Scope]int),
			TagCounts:   make(map[model.Tag]int),
		},
		Changes: []model.Change{},
		Groups:  groups,
	}
	if opts.DryRun {
		res.Groups = make([]model.CountryGroup, len(groups))
		for i, g := range groups {
			res.Groups[i] = g
			if g.Metas != nil {
				res.Groups[i].Metas = make([]model.Meta, len(g.Metas))
				copy(res.Groups[i].Metas, g.Metas)
			}
		}
	}

	for gi := range res.Groups {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "pipeline: annotate")
		}
		g := &res.Groups[gi]
		for mi := range g.Metas {
			m := &g.Metas[mi]
			annotateMeta(m, g.Country, mi, enabled, res)
			res.Summary.Metas++
			res.Summary.ScopeCounts[m.Scope]++
			for _, t := range m.Tags {
				res.Summary.TagCounts[t]++
			}
		}
		log.Debug("pipeline: country annotated",
			zap.String("country", g.Country),
			zap.Int("metas", len(g.Metas)),
		)
	}

	res.Summary.DurationMs = time.Since(start).Milliseconds()
	log.Info("pipeline: annotation complete",
		zap.Int("countries", res.Summary.Countries),
		zap.Int("metas", res.Summary.Metas),
		zap.Int("scope_changes", res.Summary.ScopeChanges),
		zap.Int("tag_changes", res.Summary.TagChanges),
		zap.Int("titles_written", res.Summary.TitlesWritten),
	)
	return res, nil
}

// annotateMeta applies the enabled passes to m. Scope and tags read the
// title as it was before the title pass.
func annotateMeta(m *model.Meta, country string, index int, enabled map[model.Pass]bool, res *Result) {
	change := func(field, before, after string) {
		res.Changes = append(res.Changes, model.Change{
			Country: country,
			MetaID:  m.ID,
			Index:   index,
			Field:   field,
			Old:     before,
			New:     after,
		})
	}

	if enabled[model.PassScope] {
		s := scope.Classify(m.Title, m.Description, m.Note, m.Section)
		if s != m.Scope {
			change(FieldScope, string(m.Scope), string(s))
			res.Summary.ScopeChanges++
		}
		m.Scope = s
	}

	if enabled[model.PassTags] {
		t := tags.Classify(m.Title, m.Description, m.Note)
		if !model.EqualTags(t, m.Tags) {
			change(FieldTags, strings.Join(m.Tags, ","), strings.Join(t, ","))
			res.Summary.TagChanges++
		}
		m.Tags = t
	} else if m.Tags == nil {
		m.Tags = []model.Tag{}
	}

	if enabled[model.PassTitles] && m.Title == "" {
		m.Title = title.Synthesize(m.Description, country)
		change(FieldTitle, "", m.Title)
		res.Summary.TitlesWritten++
	}
}
