package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/AaronLay10/roommap/internal/mapgen"
)

// Record is the persisted form of a layout.
type Record struct {
	Rooms       []RoomRecord       `json:"rooms"`
	Connections []ConnectionRecord `json:"connections"`
}

// RoomRecord is one persisted room.
type RoomRecord struct {
	PosX      float64      `json:"posX"`
	PosY      float64      `json:"posY"`
	Column    int          `json:"column"`
	Line      int          `json:"line"`
	RoomType  string       `json:"roomType"`
	RoomState string       `json:"roomState"`
	LinkTo    []LinkRecord `json:"linkTo"`
}

// LinkRecord is an outgoing edge target.
type LinkRecord struct {
	Column int `json:"column"`
	Line   int `json:"line"`
}

// ConnectionRecord is one drawn connection, stored as raw endpoints.
type ConnectionRecord struct {
	StartPos Vector3 `json:"startPos"`
	EndPos   Vector3 `json:"endPos"`
}

// Vector3 is a persisted point. Z is always written as 0.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// NewRecord converts a layout to its persisted form.
func NewRecord(layout *mapgen.MapLayout) Record {
	rec := Record{
		Rooms:       make([]RoomRecord, 0, len(layout.Rooms)),
		Connections: make([]ConnectionRecord, 0, len(layout.Segments)),
	}
	for _, r := range layout.Rooms {
		links := make([]LinkRecord, 0, len(r.LinksTo))
		for _, l := range r.LinksTo {
			links = append(links, LinkRecord{Column: l.Column, Line: l.Line})
		}
		rec.Rooms = append(rec.Rooms, RoomRecord{
			PosX:      r.Position.X,
			PosY:      r.Position.Y,
			Column:    r.Column,
			Line:      r.Line,
			RoomType:  string(r.Type),
			RoomState: string(r.State),
			LinkTo:    links,
		})
	}
	for _, s := range layout.Segments {
		rec.Connections = append(rec.Connections, ConnectionRecord{
			StartPos: Vector3{X: s.Start.X, Y: s.Start.Y},
			EndPos:   Vector3{X: s.End.X, Y: s.End.Y},
		})
	}
	return rec
}

// Layout rebuilds a layout from the record verbatim. Room types are resolved
// against reg; connections are taken as stored, not re-derived from links.
func (r Record) Layout(reg *mapgen.Registry) (*mapgen.MapLayout, error) {
	layout := &mapgen.MapLayout{
		Rooms:    make([]mapgen.RoomNode, 0, len(r.Rooms)),
		Segments: make([]mapgen.Segment, 0, len(r.Connections)),
	}
	for i, rr := range r.Rooms {
		roomType := mapgen.RoomType(rr.RoomType)
		if reg != nil {
			t, err := reg.Resolve(rr.RoomType)
			if err != nil {
				return nil, fmt.Errorf("room %d: %w", i, err)
			}
			roomType = t
		}
		state, ok := mapgen.ParseRoomState(rr.RoomState)
		if !ok {
			return nil, fmt.Errorf("%w: room %d: unknown room state %q", ErrCorrupt, i, rr.RoomState)
		}
		links := make([]mapgen.RoomRef, 0, len(rr.LinkTo))
		for _, l := range rr.LinkTo {
			links = append(links, mapgen.RoomRef{Column: l.Column, Line: l.Line})
		}
		layout.Rooms = append(layout.Rooms, mapgen.RoomNode{
			Column:   rr.Column,
			Line:     rr.Line,
			Type:     roomType,
			State:    state,
			Position: mapgen.Position{X: rr.PosX, Y: rr.PosY},
			LinksTo:  links,
		})
	}
	for _, c := range r.Connections {
		layout.Segments = append(layout.Segments, mapgen.Segment{
			Start: mapgen.Position{X: c.StartPos.X, Y: c.StartPos.Y},
			End:   mapgen.Position{X: c.EndPos.X, Y: c.EndPos.Y},
		})
	}
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return layout, nil
}

// Encode serializes a layout to JSON.
func Encode(layout *mapgen.MapLayout) ([]byte, error) {
	if layout == nil {
		return nil, errors.New("nil layout")
	}
	b, err := json.Marshal(NewRecord(layout))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal layout: %w", err)
	}
	return b, nil
}

// Decode parses a stored blob. Empty data or a record without rooms yields
// ErrNotFound; unparseable data yields ErrCorrupt.
func Decode(data []byte, reg *mapgen.Registry) (*mapgen.MapLayout, error) {
	if len(data) == 0 {
		return nil, ErrNotFound
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if len(rec.Rooms) == 0 {
		return nil, ErrNotFound
	}
	return rec.Layout(reg)
}
