package orchestrator

// State is the orchestrator's position in the session lifecycle.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateLoading       State = "loading"
	StateReady         State = "ready"
	StateGenerating    State = "generating"
	StatePersisted     State = "persisted"
	// StateUnsaved means generation succeeded but the save did not.
	// The layout is usable for this session only.
	StateUnsaved State = "unsaved"
)

// HasLayout reports whether s is a terminal state with a usable layout.
func (s State) HasLayout() bool {
	return s == StateReady || s == StatePersisted || s == StateUnsaved
}
