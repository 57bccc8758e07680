package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/AaronLay10/roommap/internal/events"
	"github.com/AaronLay10/roommap/internal/mapgen"
	"github.com/AaronLay10/roommap/internal/storage"
)

// ErrNotSaved wraps a save failure after a successful generation. The layout
// is still in place and usable; only durability was lost.
var ErrNotSaved = errors.New("layout generated but not saved")

var (
	// ErrNoLayout is returned by operations that need a placed layout.
	ErrNoLayout = errors.New("no layout")
	// ErrRoomNotFound is returned when a room reference matches no room.
	ErrRoomNotFound = errors.New("room not found")
	// ErrUnknownRoomState is returned for a room state outside the known set.
	ErrUnknownRoomState = errors.New("unknown room state")
)

// Config wires an Orchestrator.
type Config struct {
	Key        string
	Blueprints []mapgen.ColumnBlueprint
	Generator  *mapgen.Generator
	Store      storage.Store
	Placer     Placer
	// Seed is reported in events so a generated layout can be reproduced.
	Seed int64
}

// LayoutHook is called after a layout is placed, with the state it reached.
// Hooks run with the orchestrator locked and must not call back into it.
type LayoutHook func(key string, layout *mapgen.MapLayout, state State)

// Orchestrator drives one level session: load the stored layout or generate
// and persist a new one, then hand it to the placer.
type Orchestrator struct {
	mu sync.Mutex

	key        string
	blueprints []mapgen.ColumnBlueprint
	gen        *mapgen.Generator
	store      storage.Store
	placer     Placer
	seed       int64

	state   State
	layout  *mapgen.MapLayout
	handles []string
	hooks   []LayoutHook
}

// New creates an orchestrator in StateUninitialized.
func New(cfg Config) *Orchestrator {
	placer := cfg.Placer
	if placer == nil {
		placer = nopPlacer{}
	}
	return &Orchestrator{
		key:        cfg.Key,
		blueprints: cfg.Blueprints,
		gen:        cfg.Generator,
		store:      cfg.Store,
		placer:     placer,
		seed:       cfg.Seed,
		state:      StateUninitialized,
	}
}

// OnLayout registers a hook run after every load, generation or regeneration.
func (o *Orchestrator) OnLayout(hook LayoutHook) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.hooks = append(o.hooks, hook)
}

// Key returns the level key.
func (o *Orchestrator) Key() string {
	return o.key
}

// State returns the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Layout returns the current layout, or nil before one exists.
// Callers must not modify it.
func (o *Orchestrator) Layout() *mapgen.MapLayout {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.layout
}

// Start begins the session. A stored layout is loaded verbatim; a missing one
// triggers generation. Any other read failure is returned without generating,
// since regenerating over unreadable data would discard player progress.
//
// A returned error matching ErrNotSaved is a warning: the session has a layout.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateUninitialized {
		return fmt.Errorf("session already started (state %s)", o.state)
	}

	o.state = StateLoading
	layout, err := o.store.Load(ctx, o.key)
	switch {
	case err == nil:
		o.layout = layout
		o.state = StateReady
		o.place()
		o.emit("info", "map.loaded", "", map[string]interface{}{
			"key":         o.key,
			"rooms":       len(layout.Rooms),
			"connections": len(layout.Segments),
		})
		o.notify()
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return o.generate(ctx)
	default:
		o.state = StateUninitialized
		o.emit("error", "map.load_failed", err.Error(), map[string]interface{}{"key": o.key})
		return err
	}
}

// Regenerate discards the current layout and every placed object, then
// generates and persists a fresh layout.
func (o *Orchestrator) Regenerate(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.state.HasLayout() {
		return fmt.Errorf("%w: cannot regenerate from state %s", ErrNoLayout, o.state)
	}

	destroyed := len(o.handles)
	o.teardown()
	o.emit("info", "map.regenerated", "", map[string]interface{}{
		"key":       o.key,
		"destroyed": destroyed,
	})
	return o.generate(ctx)
}

// UpdateRoomState changes one room's state and persists the result. The
// current layout is replaced by an updated copy rather than edited in place.
func (o *Orchestrator) UpdateRoomState(ctx context.Context, ref mapgen.RoomRef, state mapgen.RoomState) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.state.HasLayout() {
		return fmt.Errorf("%w in state %s", ErrNoLayout, o.state)
	}
	if _, ok := mapgen.ParseRoomState(string(state)); !ok {
		return fmt.Errorf("%w %q", ErrUnknownRoomState, state)
	}
	next := o.layout.Clone()
	room := next.Room(ref.Column, ref.Line)
	if room == nil {
		return fmt.Errorf("%w: (%d,%d)", ErrRoomNotFound, ref.Column, ref.Line)
	}
	room.State = state

	if err := o.store.Save(ctx, o.key, next); err != nil {
		return err
	}
	o.layout = next
	if o.state == StateUnsaved {
		o.state = StatePersisted
	}
	o.emit("info", "map.room_state", "", map[string]interface{}{
		"key":    o.key,
		"column": ref.Column,
		"line":   ref.Line,
		"state":  string(state),
	})
	return nil
}

// generate runs with o.mu held.
func (o *Orchestrator) generate(ctx context.Context) error {
	o.state = StateGenerating
	o.emit("info", "map.generating", "", map[string]interface{}{
		"key":     o.key,
		"columns": len(o.blueprints),
		"seed":    o.seed,
	})

	layout, err := o.gen.Generate(o.blueprints)
	if err != nil {
		o.state = StateUninitialized
		o.emit("error", "system.error", err.Error(), map[string]interface{}{"key": o.key})
		return err
	}
	o.layout = layout
	o.emit("info", "map.generated", "", map[string]interface{}{
		"key":         o.key,
		"rooms":       len(layout.Rooms),
		"connections": len(layout.Segments),
	})

	saveErr := o.store.Save(ctx, o.key, layout)
	if saveErr != nil {
		o.state = StateUnsaved
		o.emit("warn", "map.save_failed", saveErr.Error(), map[string]interface{}{"key": o.key})
	} else {
		o.state = StatePersisted
		o.emit("info", "map.saved", "", map[string]interface{}{"key": o.key})
	}

	o.place()
	o.notify()

	if saveErr != nil {
		return fmt.Errorf("%w: %w", ErrNotSaved, saveErr)
	}
	return nil
}

func (o *Orchestrator) place() {
	for _, room := range o.layout.Rooms {
		o.track(o.placer.PlaceRoom(room))
	}
	for _, seg := range o.layout.Segments {
		o.track(o.placer.PlaceConnection(seg.Start, seg.End))
	}
}

func (o *Orchestrator) track(handle string) {
	if handle != "" {
		o.handles = append(o.handles, handle)
	}
}

func (o *Orchestrator) teardown() {
	for _, h := range o.handles {
		o.placer.Destroy(h)
	}
	o.handles = nil
	o.layout = nil
}

func (o *Orchestrator) notify() {
	for _, hook := range o.hooks {
		hook(o.key, o.layout, o.state)
	}
}

func (o *Orchestrator) emit(level, name, msg string, fields map[string]interface{}) {
	events.Emit(level, name, msg, fields)
}
