package audit

// Recorder is an in-memory Trail for tests and embedding.
type Recorder struct {
	events    []Event
	summaries []RunAudit
}

// NewRecorder creates an empty in-memory trail.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) AppendEvent(event Event) error {
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) SaveRunSummary(audit RunAudit) error {
	r.summaries = append(r.summaries, audit)
	return nil
}

// Events returns the recorded events in append order.
func (r *Recorder) Events() []Event {
	return r.events
}

// Summary returns the last saved run summary, if any.
func (r *Recorder) Summary() (RunAudit, bool) {
	if len(r.summaries) == 0 {
		return RunAudit{}, false
	}
	return r.summaries[len(r.summaries)-1], true
}
