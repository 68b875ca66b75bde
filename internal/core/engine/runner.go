package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/barysiuk/agentkit/internal/core/state"
	"github.com/barysiuk/agentkit/internal/fsutil"
	"github.com/barysiuk/agentkit/internal/logger"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

// CheckpointEvery is how many files a tool copies between state saves.
const CheckpointEvery = 5

// Batch is one multi-tool installation request. Paths may omit tools that
// install to their default target.
type Batch struct {
	Variant string
	Tools   []string
	Paths   map[string]string
}

// ToolOutcome is the result of one tool in a batch.
type ToolOutcome struct {
	Tool    string
	Path    string
	Resumed bool
	// Skipped is set for tools an earlier run already completed.
	Skipped bool
	Result  *InstallResult
	Err     error
}

// RunResult reports a batch run.
type RunResult struct {
	SessionID string
	Variant   string
	Outcomes  []ToolOutcome
}

// Failed returns the outcomes that ended in an error.
func (r *RunResult) Failed() []ToolOutcome {
	var out []ToolOutcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// Runner installs a variant into several tools one after another, recording
// progress in a state store so an interrupted batch can be resumed.
type Runner struct {
	engine *Engine
	store  *state.Store
}

// NewRunner returns a Runner using e for installs and s for persistence.
func NewRunner(e *Engine, s *state.Store) *Runner {
	return &Runner{engine: e, store: s}
}

// Run validates every target, starts a new session and installs each tool.
// A failing tool is rolled back and recorded; the others still run.
func (r *Runner) Run(ctx context.Context, b Batch, progress ProgressFunc) (*RunResult, error) {
	if len(b.Tools) == 0 {
		return nil, errors.New("no tools selected")
	}
	resolver := r.engine.Paths()

	existed := map[string]bool{}
	for _, tool := range b.Tools {
		p := b.Paths[tool]
		if p == "" {
			if def, err := resolver.DefaultPath(tool); err == nil {
				p = def
			}
		}
		if abs, err := resolver.Sanitize(p); err == nil {
			existed[tool] = fsutil.DirExists(abs)
		}
	}

	results, err := resolver.ValidateAll(b.Tools, b.Paths)
	targets := make(map[string]string, len(results))
	for _, res := range results {
		targets[res.Tool] = res.Path
		// Validation creates the target; leave it as it was until the
		// tool's turn comes.
		if res.Path != "" && !existed[res.Tool] {
			fsutil.CleanupEmptyDir(res.Path)
		}
	}
	if err != nil {
		return nil, err
	}

	if _, err := r.store.Initialize(b.Variant, b.Tools, targets); err != nil {
		return nil, err
	}
	return r.execute(ctx, progress)
}

// Resume continues the persisted session. Completed tools are skipped, an
// interrupted tool continues where it stopped and failed tools start over.
func (r *Runner) Resume(ctx context.Context, progress ProgressFunc) (*RunResult, error) {
	st, err := r.store.Load()
	if err != nil {
		return nil, err
	}
	if st.Done() {
		res := &RunResult{SessionID: st.SessionID, Variant: st.Variant}
		return res, r.store.Clear()
	}
	return r.execute(ctx, progress)
}

func (r *Runner) execute(ctx context.Context, progress ProgressFunc) (*RunResult, error) {
	st := r.store.State()
	res := &RunResult{SessionID: st.SessionID, Variant: st.Variant}
	log := logger.G(ctx).WithFields(logrus.Fields{"session": st.SessionID, "variant": st.Variant})

	var errs *multierror.Error
	for _, name := range st.ToolNames() {
		if err := ctx.Err(); err != nil {
			errs = multierror.Append(errs, err)
			break
		}
		prev := st.Tool(name)
		if prev.Status == state.StatusCompleted {
			res.Outcomes = append(res.Outcomes, ToolOutcome{Tool: name, Path: prev.Path, Skipped: true})
			continue
		}
		outcome := r.installTool(ctx, log, name, prev.Status == state.StatusInProgress, progress)
		if outcome.Err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", name, outcome.Err))
		}
		res.Outcomes = append(res.Outcomes, outcome)
	}

	if r.store.State() != nil && r.store.State().Done() {
		if err := r.store.Clear(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return res, errs.ErrorOrNil()
}

func (r *Runner) installTool(ctx context.Context, log *logrus.Entry, tool string, resumed bool, progress ProgressFunc) ToolOutcome {
	ts, err := r.store.StartTool(tool)
	if err != nil {
		return ToolOutcome{Tool: tool, Err: err}
	}
	outcome := ToolOutcome{Tool: tool, Path: ts.Path, Resumed: resumed}
	log = log.WithField("tool", tool)

	opts := InstallOptions{
		Progress: progress,
		OnBackup: func(backupPath string, targetExisted bool) error {
			return r.store.RecordBackup(backupPath, targetExisted)
		},
	}
	if resumed {
		opts.Resume = &ResumePoint{BackupPath: ts.BackupPath, TargetExisted: ts.TargetExisted}
		log.WithField("completed", ts.FilesCompleted).Info("resuming interrupted tool")
	} else if err := r.store.RecordBackup("", fsutil.DirExists(ts.Path)); err != nil {
		outcome.Err = err
		return outcome
	}

	last := 0
	opts.OnFile = func(completed, total int) {
		if completed-last < CheckpointEvery && completed != total {
			return
		}
		last = completed
		if err := r.store.UpdateProgress(completed, total); err != nil {
			log.WithError(err).Warn("saving progress failed")
		}
	}

	result, err := r.engine.Install(ctx, tool, r.store.State().Variant, ts.Path, opts)
	if err != nil {
		outcome.Err = err
		log.WithError(err).Error("tool failed")
		if ferr := r.store.FailCurrentTool(err); ferr != nil {
			log.WithError(ferr).Warn("recording failure failed")
		}
		return outcome
	}
	outcome.Result = result
	if err := r.store.UpdateProgress(result.Files, result.Files); err != nil {
		log.WithError(err).Warn("saving progress failed")
	}
	if err := r.store.CompleteCurrentTool(); err != nil {
		outcome.Err = err
	}
	return outcome
}
