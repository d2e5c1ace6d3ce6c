package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/zen-systems/loomgate/pkg/audit"
	"github.com/zen-systems/loomgate/pkg/contract"
	"github.com/zen-systems/loomgate/pkg/fingerprint"
	"github.com/zen-systems/loomgate/pkg/gate"
)

// RunOptions configures one run.
type RunOptions struct {
	// RunID overrides the generated run identifier, so a caller can key
	// its audit sink and the run by the same id.
	RunID   string
	Verbose bool
	Logger  func(format string, args ...any)
}

// RunResult is what a caller gets back from Run. Runtime failures are
// reported here, never as a returned error: the caller always receives a
// structured, inspectable result.
type RunResult struct {
	Success   bool
	RunID     string
	Artifacts *ArtifactSet

	// FailedAt is the failing stage id, or "<id>:gate" when a gate check
	// caused the abort. Empty on success.
	FailedAt string
	Errors   []string

	// GateStatus is the aggregate quality assessment over every gate
	// check result collected during the run. It is distinct from
	// Audit.OverallStatus, which only says whether the run completed.
	GateStatus  gate.Status
	GateResults []gate.Result

	Audit audit.RunAudit
}

// Runner drives one end-to-end run: it schedules stages, resolves their
// inputs, executes them, applies gate checks and records the audit trail.
// The Runner exclusively owns the RunContext for the duration of a run.
type Runner struct {
	pipeline *Pipeline
	executor *Executor
	trail    audit.Trail
}

// NewRunner validates the pipeline and assembles a runner. The validator
// and trail are injected by the caller; a nil trail discards audit output.
func NewRunner(p *Pipeline, validator contract.Validator, trail audit.Trail) (*Runner, error) {
	if p == nil {
		return nil, errors.New("pipeline is required")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if trail == nil {
		trail = audit.Nop{}
	}
	return &Runner{
		pipeline: p,
		executor: NewExecutor(validator),
		trail:    trail,
	}, nil
}

// Run executes every scheduled stage against the initial artifact. The
// returned error is reserved for configuration defects discovered at
// resolve time; all execution and gate failures come back inside the
// RunResult.
func (r *Runner) Run(ctx context.Context, initial any, opts RunOptions) (*RunResult, error) {
	order, err := r.pipeline.Schedule()
	if err != nil {
		return nil, err
	}

	inputHash, err := fingerprint.Hash(initial)
	if err != nil {
		return nil, errors.Wrap(err, "fingerprint initial artifact")
	}

	runID := opts.RunID
	if runID == "" {
		runID = NewRunID()
	}

	runCtx := &RunContext{
		RunID:     runID,
		StartedAt: time.Now().UTC(),
		Artifacts: NewArtifactSet(),
		Verbose:   opts.Verbose,
	}
	runCtx.Artifacts.Put(InputKey, initial)

	state := &runState{
		runCtx:    runCtx,
		inputHash: inputHash,
		logf:      opts.Logger,
	}

	r.event(state, audit.LevelInfo, "", "run started", map[string]any{
		"pipeline":   r.pipeline.Name,
		"input_hash": inputHash,
		"stages":     len(order),
	})

	for _, stage := range order {
		input, err := r.resolveInput(stage, runCtx)
		if err != nil {
			return nil, err
		}

		res := r.executor.Execute(ctx, stage, input, runCtx)
		state.stages = append(state.stages, audit.StageAudit{
			ID:             stage.ID,
			Success:        res.Success,
			InputHash:      res.InputHash,
			OutputHash:     res.OutputHash,
			DurationMillis: res.DurationMillis,
			Errors:         res.Errors,
		})

		if !res.Success {
			r.event(state, audit.LevelError, stage.ID, "stage failed", map[string]any{
				"errors": res.Errors,
			})
			return r.fail(state, stage.ID, res.Errors), nil
		}
		runCtx.Artifacts.Put(stage.ID, res.Output)

		if len(stage.Checks) > 0 {
			results := r.evaluateChecks(state, stage)
			state.gateResults = append(state.gateResults, results...)
			if fatal := gate.Fatal(results); len(fatal) > 0 {
				msgs := make([]string, 0, len(fatal))
				for _, f := range fatal {
					msgs = append(msgs, fmt.Sprintf("%s: %s", f.Name, f.Message))
				}
				r.event(state, audit.LevelError, stage.ID, "gate checks failed", map[string]any{
					"errors": msgs,
				})
				return r.fail(state, stage.ID+":gate", msgs), nil
			}
		}

		r.event(state, audit.LevelInfo, stage.ID, "stage completed", map[string]any{
			"duration_ms": res.DurationMillis,
			"output_hash": res.OutputHash,
		})
	}

	runAudit := r.finish(state, audit.RunSuccess)
	return &RunResult{
		Success:     true,
		RunID:       runCtx.RunID,
		Artifacts:   runCtx.Artifacts,
		GateStatus:  gate.Summarize(state.gateResults),
		GateResults: state.gateResults,
		Audit:       runAudit,
	}, nil
}

// runState accumulates per-run bookkeeping owned by the runner.
type runState struct {
	runCtx      *RunContext
	inputHash   string
	stages      []audit.StageAudit
	gateResults []gate.Result
	logf        func(format string, args ...any)
}

// resolveInput applies the arity rules: zero dependencies take the initial
// artifact, one dependency passes its output through unchanged, several
// dependencies become a fresh keyed mapping.
func (r *Runner) resolveInput(stage *Stage, runCtx *RunContext) (any, error) {
	switch len(stage.DependsOn) {
	case 0:
		value, _ := runCtx.Artifacts.Get(InputKey)
		return value, nil
	case 1:
		dep := stage.DependsOn[0]
		value, ok := runCtx.Artifacts.Get(dep)
		if !ok {
			return nil, errors.Errorf("stage %s: artifact for dependency %s not available", stage.ID, dep)
		}
		return value, nil
	default:
		composite := make(map[string]any, len(stage.DependsOn))
		for _, dep := range stage.DependsOn {
			value, ok := runCtx.Artifacts.Get(dep)
			if !ok {
				return nil, errors.Errorf("stage %s: artifact for dependency %s not available", stage.ID, dep)
			}
			key := stage.InputKeys[dep]
			if key == "" {
				key = dep
			}
			composite[key] = value
		}
		return composite, nil
	}
}

// evaluateChecks runs a stage's gate checks against a read-only snapshot
// of the artifacts produced so far. A faulting check is logged and
// contributes no results; it never aborts the run.
func (r *Runner) evaluateChecks(state *runState, stage *Stage) []gate.Result {
	snapshot := state.runCtx.Artifacts.Snapshot()

	var all []gate.Result
	for _, named := range stage.Checks {
		results, err := gate.Evaluate(named.Check, snapshot)
		if err != nil {
			r.event(state, audit.LevelError, stage.ID, "gate check fault", map[string]any{
				"check": named.Name,
				"error": err.Error(),
			})
			continue
		}
		for _, res := range results {
			if !res.Passed {
				level := audit.LevelInfo
				if res.Severity == gate.SeverityError {
					level = audit.LevelError
				}
				r.event(state, level, stage.ID, "gate check did not pass", map[string]any{
					"check":    res.Name,
					"severity": res.Severity,
					"message":  res.Message,
				})
			}
		}
		all = append(all, results...)
	}
	return all
}

func (r *Runner) fail(state *runState, failedAt string, errs []string) *RunResult {
	runAudit := r.finish(state, audit.RunFailed)
	return &RunResult{
		Success:     false,
		RunID:       state.runCtx.RunID,
		Artifacts:   state.runCtx.Artifacts,
		FailedAt:    failedAt,
		Errors:      errs,
		GateStatus:  gate.Summarize(state.gateResults),
		GateResults: state.gateResults,
		Audit:       runAudit,
	}
}

// finish assembles and persists the run audit. Every terminal path goes
// through here, so a run is always explainable after the fact.
func (r *Runner) finish(state *runState, status audit.RunStatus) audit.RunAudit {
	runAudit := audit.RunAudit{
		RunID:         state.runCtx.RunID,
		StartedAt:     state.runCtx.StartedAt,
		EndedAt:       time.Now().UTC(),
		InputHash:     state.inputHash,
		Stages:        state.stages,
		OverallStatus: status,
	}
	if err := r.trail.SaveRunSummary(runAudit); err != nil && state.logf != nil {
		state.logf("save run summary: %v", err)
	}
	return runAudit
}

func (r *Runner) event(state *runState, level audit.Level, stageID, message string, payload map[string]any) {
	event := audit.Event{
		Timestamp: time.Now().UTC(),
		RunID:     state.runCtx.RunID,
		Level:     level,
		Stage:     stageID,
		Message:   message,
		Payload:   payload,
	}
	if err := r.trail.AppendEvent(event); err != nil && state.logf != nil {
		state.logf("append audit event: %v", err)
	}
	if state.runCtx.Verbose && state.logf != nil {
		state.logf("[%s] %s %s", level, stageID, message)
	}
}
