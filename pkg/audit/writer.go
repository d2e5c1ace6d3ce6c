package audit

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Writer is a filesystem Trail. Events are appended as newline-delimited
// JSON to events.ndjson; the run summary is written once to run.json.
// Both live under <baseDir>/<runID>/.
type Writer struct {
	runDir string
}

// NewWriter creates the run directory and returns a Writer rooted there.
func NewWriter(baseDir, runID string) (*Writer, error) {
	if baseDir == "" {
		return nil, errors.New("base directory is required")
	}
	if runID == "" {
		return nil, errors.New("run ID is required")
	}

	runDir := filepath.Join(baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, errors.Wrap(err, "create run directory")
	}
	return &Writer{runDir: runDir}, nil
}

// RunDir returns the run directory path.
func (w *Writer) RunDir() string {
	return w.runDir
}

// AppendEvent appends one JSON line to the event log. Prior records are
// never rewritten.
func (w *Writer) AppendEvent(event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}

	f, err := os.OpenFile(filepath.Join(w.runDir, "events.ndjson"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrap(err, "open event log")
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return errors.Wrap(err, "append event")
	}
	return nil
}

// SaveRunSummary writes the run summary snapshot to run.json.
func (w *Writer) SaveRunSummary(audit RunAudit) error {
	data, err := json.MarshalIndent(audit, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal run summary")
	}
	return os.WriteFile(filepath.Join(w.runDir, "run.json"), data, 0644)
}
