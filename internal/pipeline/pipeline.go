package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/lukas-hzb/geometa/internal/metafile"
	"github.com/lukas-hzb/geometa/internal/model"
	"github.com/lukas-hzb/geometa/internal/store"
)

// RunInput describes one load-annotate-save run over a record store file.
type RunInput struct {
	DataPath string
	Passes   []model.Pass
	DryRun   bool
	Backup   bool
}

// Output is what a completed run produced. Groups holds the annotated
// record store; in dry-run mode it is the unsaved preview.
type Output struct {
	Run    *model.Run
	Result *Result
	Groups []model.CountryGroup
}

// Pipeline loads the record store, annotates it, saves it once and
// records the run in the ledger.
type Pipeline struct {
	store store.Store
}

// New creates a Pipeline. A nil store disables the ledger.
func New(st store.Store) *Pipeline {
	return &Pipeline{store: st}
}

// Run executes one annotation run. The file is written only after every
// meta has been processed and the changes are in the ledger, so a failed
// run leaves it untouched.
func (p *Pipeline) Run(ctx context.Context, in RunInput) (*Output, error) {
	log := zap.L().With(zap.String("data", in.DataPath))

	passes, err := ResolvePasses(in.Passes)
	if err != nil {
		return nil, err
	}

	out := &Output{}
	if p.store != nil {
		run, err := p.store.CreateRun(ctx, store.RunInput{
			DataPath: in.DataPath,
			Passes:   passes,
			DryRun:   in.DryRun,
		})
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: create run")
		}
		out.Run = run
		log = log.With(zap.String("run_id", run.ID))
	}
	log.Info("pipeline: starting run", zap.Any("passes", passes), zap.Bool("dry_run", in.DryRun))

	fail := func(err error) (*Output, error) {
		if out.Run != nil {
			if ferr := p.store.FailRun(ctx, out.Run.ID, err.Error()); ferr != nil {
				log.Warn("pipeline: failed to mark run failed", zap.Error(ferr))
			}
			out.Run.Status = model.RunStatusFailed
			out.Run.Error = err.Error()
		}
		log.Error("pipeline: run failed", zap.Error(err))
		return out, err
	}

	groups, err := metafile.Load(in.DataPath)
	if err != nil {
		return fail(err)
	}

	res, err := Annotate(ctx, groups, Options{Passes: passes, DryRun: in.DryRun})
	if err != nil {
		return fail(err)
	}
	out.Result = res
	out.Groups = res.Groups

	if out.Run != nil {
		if err := p.store.RecordChanges(ctx, out.Run.ID, res.Changes); err != nil {
			return fail(eris.Wrap(err, "pipeline: record changes"))
		}
	}

	if !in.DryRun {
		if err := metafile.Save(in.DataPath, res.Groups, metafile.SaveOptions{Backup: in.Backup}); err != nil {
			return fail(err)
		}
		log.Info("pipeline: saved record store", zap.Int("metas", res.Summary.Metas))
	}

	if out.Run != nil {
		if err := p.store.CompleteRun(ctx, out.Run.ID, &res.Summary); err != nil {
			return out, eris.Wrap(err, "pipeline: complete run")
		}
		out.Run.Status = model.RunStatusComplete
		out.Run.Result = &res.Summary
	}
	return out, nil
}
