package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/zen-systems/loomgate/pkg/contract"
	"github.com/zen-systems/loomgate/pkg/fingerprint"
)

// StageResult is the outcome of one stage execution. Exactly one of
// Output and Errors is populated.
type StageResult struct {
	Success        bool
	Output         any
	Errors         []string
	InputHash      string
	OutputHash     string
	DurationMillis int64
}

// Executor runs one stage's transformation inside a uniform envelope:
// input hashing, contract validation, fault capture, output hashing and
// timing. It is the single point where stage faults become structured
// failures; no fault escapes to the run loop.
type Executor struct {
	validator contract.Validator
}

// NewExecutor creates an executor. The validator may be nil when no stage
// declares a contract.
func NewExecutor(validator contract.Validator) *Executor {
	return &Executor{validator: validator}
}

// Execute runs one stage against its resolved input.
func (e *Executor) Execute(ctx context.Context, stage *Stage, input any, runCtx *RunContext) *StageResult {
	result := &StageResult{}

	inputHash, err := fingerprint.Hash(input)
	if err != nil {
		result.Errors = []string{errors.Wrapf(err, "fingerprint input for stage %s", stage.ID).Error()}
		return result
	}
	result.InputHash = inputHash

	if stage.InputContract != "" {
		if failed := e.validate(stage.InputContract, input); len(failed) > 0 {
			result.Errors = failed
			return result
		}
	}

	start := time.Now()
	output, err := invoke(ctx, stage, input, runCtx)
	result.DurationMillis = time.Since(start).Milliseconds()
	if err != nil {
		result.Errors = []string{err.Error()}
		return result
	}

	if stage.OutputContract != "" {
		// The output was computed but is discarded; an invalid value is
		// never stored as an artifact.
		if failed := e.validate(stage.OutputContract, output); len(failed) > 0 {
			result.Errors = failed
			return result
		}
	}

	outputHash, err := fingerprint.Hash(output)
	if err != nil {
		result.Errors = []string{errors.Wrapf(err, "fingerprint output of stage %s", stage.ID).Error()}
		return result
	}

	result.Success = true
	result.Output = output
	result.OutputHash = outputHash
	return result
}

func (e *Executor) validate(contractID string, value any) []string {
	if e.validator == nil {
		return []string{errors.Errorf("contract %s declared but no validator configured", contractID).Error()}
	}
	res := e.validator.Validate(contractID, value)
	if res.Success {
		return nil
	}
	if len(res.Errors) == 0 {
		return []string{errors.Errorf("contract %s failed", contractID).Error()}
	}
	return res.Errors
}

func invoke(ctx context.Context, stage *Stage, input any, runCtx *RunContext) (output any, err error) {
	defer func() {
		if r := recover(); r != nil {
			output = nil
			err = errors.Errorf("stage %s panic: %v", stage.ID, r)
		}
	}()
	return stage.Logic(ctx, input, runCtx)
}
