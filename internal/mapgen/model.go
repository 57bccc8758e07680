// Package mapgen builds column-by-column room graphs for a level map.
//
// A layout is a sequence of columns. Every room in a column links forward to at
// least one room in the next column, and every room past the entry column is
// linked from at least one room in the previous column.
package mapgen

// RoomType names a kind of room, e.g. "combat" or "boss".
type RoomType string

// RoomState controls whether a room can currently be entered.
type RoomState string

const (
	RoomStateLocked     RoomState = "locked"
	RoomStateAttainable RoomState = "attainable"
	RoomStateVisited    RoomState = "visited"
	RoomStateCleared    RoomState = "cleared"
)

// ParseRoomState returns the RoomState named by s.
func ParseRoomState(s string) (RoomState, bool) {
	switch RoomState(s) {
	case RoomStateLocked, RoomStateAttainable, RoomStateVisited, RoomStateCleared:
		return RoomState(s), true
	}
	return "", false
}

// RoomCategory is the set of room types a column may produce.
// Members keep their insertion order so seeded selection is reproducible.
type RoomCategory struct {
	members []RoomType
}

// NewCategory builds a category from types, dropping duplicates.
func NewCategory(types ...RoomType) RoomCategory {
	seen := make(map[RoomType]struct{}, len(types))
	members := make([]RoomType, 0, len(types))
	for _, t := range types {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		members = append(members, t)
	}
	return RoomCategory{members: members}
}

// Len returns the number of distinct types in the category.
func (c RoomCategory) Len() int {
	return len(c.members)
}

// Contains reports whether t is a member of the category.
func (c RoomCategory) Contains(t RoomType) bool {
	for _, m := range c.members {
		if m == t {
			return true
		}
	}
	return false
}

// Members returns a copy of the category's types.
func (c RoomCategory) Members() []RoomType {
	return append([]RoomType(nil), c.members...)
}

// ColumnBlueprint configures one column of the map.
type ColumnBlueprint struct {
	MinRooms int
	MaxRooms int
	Category RoomCategory
}

// Position is a point in layout space. The origin is the centre of the bounds.
type Position struct {
	X float64
	Y float64
}

// RoomRef identifies a room within one layout.
type RoomRef struct {
	Column int
	Line   int
}

// RoomNode is one room of the graph. LinksTo holds outgoing edges only,
// always pointing at the next column.
type RoomNode struct {
	Column   int
	Line     int
	Type     RoomType
	State    RoomState
	Position Position
	LinksTo  []RoomRef
}

// Ref returns the room's identity.
func (n *RoomNode) Ref() RoomRef {
	return RoomRef{Column: n.Column, Line: n.Line}
}

// LinksToRef reports whether n has an outgoing edge to ref.
func (n *RoomNode) LinksToRef(ref RoomRef) bool {
	for _, l := range n.LinksTo {
		if l == ref {
			return true
		}
	}
	return false
}

// addLink records an edge and reports whether it was new.
func (n *RoomNode) addLink(ref RoomRef) bool {
	if n.LinksToRef(ref) {
		return false
	}
	n.LinksTo = append(n.LinksTo, ref)
	return true
}

// Segment is the drawn line for one edge, kept as raw endpoints so a reloaded
// layout can be placed without recomputing topology.
type Segment struct {
	Start Position
	End   Position
}

// MapLayout is a generated room graph plus its connection segments.
type MapLayout struct {
	Rooms    []RoomNode
	Segments []Segment
}
