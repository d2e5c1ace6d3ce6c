// Package gate implements cross-artifact quality checks. A check reads the
// artifacts produced so far and reports consistency results; it never
// mutates them and never sees artifacts from stages that have not run.
package gate

import (
	"github.com/pkg/errors"
)

// Severity classifies a check result.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Result is the outcome of one consistency check.
type Result struct {
	Name     string         `json:"name"`
	Passed   bool           `json:"passed"`
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
	Details  map[string]any `json:"details,omitempty"`
}

// Check inspects the accumulated artifacts, keyed by stage id, and returns
// zero or more results. Checks must be pure and read-only.
type Check func(artifacts map[string]any) []Result

// NamedCheck pairs a check with the name it was bound under, so faults in
// the check itself can be attributed.
type NamedCheck struct {
	Name  string
	Check Check
}

// Status is the aggregate quality assessment of a set of results. It is
// deliberately distinct from the run's success/failed status: a run can
// complete while its quality status carries warnings.
type Status string

const (
	StatusPassed             Status = "passed"
	StatusPassedWithWarnings Status = "passed-with-warnings"
	StatusFailed             Status = "failed"
)

// Summarize aggregates results: any failed error result means failed, else
// any failed warning result means passed-with-warnings, else passed.
func Summarize(results []Result) Status {
	status := StatusPassed
	for _, res := range results {
		if res.Passed {
			continue
		}
		switch res.Severity {
		case SeverityError:
			return StatusFailed
		case SeverityWarning:
			status = StatusPassedWithWarnings
		}
	}
	return status
}

// Fatal returns the results that must abort the run.
func Fatal(results []Result) []Result {
	var fatal []Result
	for _, res := range results {
		if !res.Passed && res.Severity == SeverityError {
			fatal = append(fatal, res)
		}
	}
	return fatal
}

// Evaluate invokes a check with isolate-and-continue semantics: a panic in
// the check is converted to an error and the check contributes no results.
func Evaluate(check Check, artifacts map[string]any) (results []Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			results = nil
			err = errors.Errorf("check panic: %v", r)
		}
	}()
	return check(artifacts), nil
}

// InsufficientData is the canonical response for a check whose upstream
// artifacts are absent: not every pipeline configuration produces every
// artifact, so absence is informational, never a failure.
func InsufficientData(name, message string) []Result {
	return []Result{{
		Name:     name,
		Passed:   true,
		Severity: SeverityInfo,
		Message:  message,
	}}
}
