// Package audit records pipeline execution: an append-only event stream
// plus one immutable run summary per run. The trail is write-only from the
// pipeline's perspective.
package audit

import (
	"time"
)

// Level classifies an event.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Event is one append-only audit record.
type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	RunID     string         `json:"run_id"`
	Level     Level          `json:"level"`
	Stage     string         `json:"stage,omitempty"`
	Message   string         `json:"message"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// RunStatus reports whether a run completed. It is distinct from the gate
// quality status: a run either finished or it did not.
type RunStatus string

const (
	RunSuccess RunStatus = "success"
	RunFailed  RunStatus = "failed"
)

// StageAudit summarizes one stage execution inside a run.
type StageAudit struct {
	ID             string   `json:"id"`
	Success        bool     `json:"success"`
	InputHash      string   `json:"input_hash,omitempty"`
	OutputHash     string   `json:"output_hash,omitempty"`
	DurationMillis int64    `json:"duration_ms"`
	Errors         []string `json:"errors,omitempty"`
}

// RunAudit is the durable record of one full run. It is assembled once at
// run end, on success and on failure alike, and never mutated afterward.
type RunAudit struct {
	RunID         string       `json:"run_id"`
	StartedAt     time.Time    `json:"started_at"`
	EndedAt       time.Time    `json:"ended_at"`
	InputHash     string       `json:"input_hash"`
	Stages        []StageAudit `json:"stages"`
	OverallStatus RunStatus    `json:"overall_status"`
}

// Trail accepts audit records. Implementations must treat AppendEvent as
// append-only and SaveRunSummary as write-once per run.
type Trail interface {
	AppendEvent(event Event) error
	SaveRunSummary(audit RunAudit) error
}

// Nop discards everything. Useful when a caller has no audit sink.
type Nop struct{}

func (Nop) AppendEvent(Event) error       { return nil }
func (Nop) SaveRunSummary(RunAudit) error { return nil }
