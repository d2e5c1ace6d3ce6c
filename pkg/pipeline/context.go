package pipeline

import (
	"time"
)

// ArtifactSet is an insertion-ordered mapping from stage id to produced
// artifact. Keys are never removed; insertion order reflects execution
// order.
type ArtifactSet struct {
	keys   []string
	values map[string]any
}

// NewArtifactSet creates an empty artifact set.
func NewArtifactSet() *ArtifactSet {
	return &ArtifactSet{values: make(map[string]any)}
}

// Put stores an artifact under a stage id.
func (s *ArtifactSet) Put(id string, value any) {
	if _, ok := s.values[id]; !ok {
		s.keys = append(s.keys, id)
	}
	s.values[id] = value
}

// Get returns the artifact stored under a stage id.
func (s *ArtifactSet) Get(id string) (any, bool) {
	value, ok := s.values[id]
	return value, ok
}

// Has reports whether a stage id has an artifact.
func (s *ArtifactSet) Has(id string) bool {
	_, ok := s.values[id]
	return ok
}

// Len returns the number of stored artifacts.
func (s *ArtifactSet) Len() int {
	return len(s.keys)
}

// Keys returns the stage ids in insertion order.
func (s *ArtifactSet) Keys() []string {
	keys := make([]string, len(s.keys))
	copy(keys, s.keys)
	return keys
}

// Snapshot returns a shallow copy for read-only consumers such as gate
// checks. Artifact values are shared; consumers must not mutate them.
func (s *ArtifactSet) Snapshot() map[string]any {
	snapshot := make(map[string]any, len(s.values))
	for id, value := range s.values {
		snapshot[id] = value
	}
	return snapshot
}

// RunContext is the per-run state. It is created at run start, mutated
// only by the Runner appending one artifact per successful stage, and
// discarded at run end; the audit trail is the durable record.
type RunContext struct {
	RunID     string
	StartedAt time.Time
	Artifacts *ArtifactSet
	Verbose   bool
}
