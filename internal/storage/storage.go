// Package storage persists generated layouts so a level can be reloaded
// without regenerating it.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/AaronLay10/roommap/internal/mapgen"
)

var (
	// ErrNotFound means no layout is stored for the key.
	ErrNotFound = errors.New("layout not found")
	// ErrCorrupt means data is stored for the key but cannot be read back.
	ErrCorrupt = errors.New("layout data corrupt")
)

// Code is a machine-readable persistence error code.
type Code string

const (
	CodeReadFailure  Code = "PERSISTENCE_READ_FAILURE"
	CodeWriteFailure Code = "PERSISTENCE_WRITE_FAILURE"
)

// Error reports a failed load or save with the key it concerned.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s %q: %v", e.Code(), e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Code classifies the failure by operation.
func (e *Error) Code() Code {
	if e.Op == "save" {
		return CodeWriteFailure
	}
	return CodeReadFailure
}

// Blobs is a key/value byte store. Get returns ErrNotFound for missing keys.
type Blobs interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}

// Store loads and saves layouts by level key.
type Store interface {
	Load(ctx context.Context, key string) (*mapgen.MapLayout, error)
	Save(ctx context.Context, key string, layout *mapgen.MapLayout) error
}

// LayoutStore implements Store over any Blobs backend.
type LayoutStore struct {
	blobs    Blobs
	registry *mapgen.Registry
}

// NewLayoutStore wraps blobs. Loaded room types are checked against reg when it is non-nil.
func NewLayoutStore(blobs Blobs, reg *mapgen.Registry) *LayoutStore {
	return &LayoutStore{blobs: blobs, registry: reg}
}

// Load returns the layout stored under key. A missing or empty record is
// reported as ErrNotFound; anything else unreadable is not.
func (s *LayoutStore) Load(ctx context.Context, key string) (*mapgen.MapLayout, error) {
	data, err := s.blobs.Get(ctx, key)
	if err != nil {
		return nil, &Error{Op: "load", Key: key, Err: err}
	}
	layout, err := Decode(data, s.registry)
	if err != nil {
		return nil, &Error{Op: "load", Key: key, Err: err}
	}
	return layout, nil
}

// Save writes the whole layout under key in one operation.
func (s *LayoutStore) Save(ctx context.Context, key string, layout *mapgen.MapLayout) error {
	data, err := Encode(layout)
	if err != nil {
		return &Error{Op: "save", Key: key, Err: err}
	}
	if err := s.blobs.Put(ctx, key, data); err != nil {
		return &Error{Op: "save", Key: key, Err: err}
	}
	return nil
}
