package events

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var buffer = NewRingBuffer(256)

var (
	outMu sync.Mutex
	out   io.Writer = os.Stdout

	countMu sync.RWMutex
	counts  = make(map[string]int64)
	total   int64
)

// Event is one structured log line.
type Event struct {
	Timestamp string                 `json:"ts"`
	Level     string                 `json:"level"`
	Name      string                 `json:"event"`
	Message   string                 `json:"msg,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// SetOutput redirects the JSON event log. A nil writer silences it.
func SetOutput(w io.Writer) {
	outMu.Lock()
	out = w
	outMu.Unlock()
}

// Emit records an event, writes it as a JSON line and fans it out to subscribers.
// Unknown event names are rejected.
func Emit(level, name, msg string, fields map[string]interface{}) ([]byte, error) {
	if err := Validate(name); err != nil {
		return nil, err
	}

	e := Event{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Name:      name,
		Message:   msg,
		Fields:    fields,
	}

	buffer.Add(e)

	countMu.Lock()
	counts[name]++
	total++
	countMu.Unlock()

	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	outMu.Lock()
	if out != nil {
		_, _ = fmt.Fprintln(out, string(b))
	}
	outMu.Unlock()

	broadcast(e)

	return b, nil
}

// Snapshot returns the buffered events, oldest first.
func Snapshot() []Event {
	return buffer.Snapshot()
}

// TotalCount returns how many events were emitted since startup.
func TotalCount() int64 {
	countMu.RLock()
	defer countMu.RUnlock()
	return total
}

// Count returns how many events named name were emitted since startup.
func Count(name string) int64 {
	countMu.RLock()
	defer countMu.RUnlock()
	return counts[name]
}

// Clear resets the event buffer and counters. Used for testing.
func Clear() {
	buffer.Clear()
	countMu.Lock()
	counts = make(map[string]int64)
	total = 0
	countMu.Unlock()
}
