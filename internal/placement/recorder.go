// Package placement provides a headless Placer that tracks placed rooms and
// connections by handle and reports them as events.
package placement

import (
	"sync"

	"github.com/google/uuid"

	"github.com/AaronLay10/roommap/internal/events"
	"github.com/AaronLay10/roommap/internal/mapgen"
)

// Recorder keeps every live placement in memory.
type Recorder struct {
	mu       sync.RWMutex
	rooms    map[string]mapgen.RoomNode
	segments map[string]mapgen.Segment
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		rooms:    make(map[string]mapgen.RoomNode),
		segments: make(map[string]mapgen.Segment),
	}
}

// PlaceRoom records node and returns its handle.
func (r *Recorder) PlaceRoom(node mapgen.RoomNode) string {
	h := uuid.NewString()
	r.mu.Lock()
	r.rooms[h] = node
	r.mu.Unlock()

	events.Emit("debug", "room.placed", "", map[string]interface{}{
		"handle": h,
		"column": node.Column,
		"line":   node.Line,
		"type":   string(node.Type),
		"x":      node.Position.X,
		"y":      node.Position.Y,
	})
	return h
}

// PlaceConnection records a segment and returns its handle.
func (r *Recorder) PlaceConnection(start, end mapgen.Position) string {
	h := uuid.NewString()
	r.mu.Lock()
	r.segments[h] = mapgen.Segment{Start: start, End: end}
	r.mu.Unlock()

	events.Emit("debug", "connection.placed", "", map[string]interface{}{
		"handle": h,
		"from_x": start.X,
		"from_y": start.Y,
		"to_x":   end.X,
		"to_y":   end.Y,
	})
	return h
}

// Destroy forgets the placement behind handle. Unknown handles are ignored.
func (r *Recorder) Destroy(handle string) {
	r.mu.Lock()
	_, room := r.rooms[handle]
	_, seg := r.segments[handle]
	delete(r.rooms, handle)
	delete(r.segments, handle)
	r.mu.Unlock()

	if room || seg {
		events.Emit("debug", "placement.destroyed", "", map[string]interface{}{"handle": handle})
	}
}

// Rooms returns the currently placed rooms.
func (r *Recorder) Rooms() []mapgen.RoomNode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]mapgen.RoomNode, 0, len(r.rooms))
	for _, n := range r.rooms {
		out = append(out, n)
	}
	return out
}

// Segments returns the currently placed connections.
func (r *Recorder) Segments() []mapgen.Segment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]mapgen.Segment, 0, len(r.segments))
	for _, s := range r.segments {
		out = append(out, s)
	}
	return out
}

// Len returns the number of live placements.
func (r *Recorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms) + len(r.segments)
}
