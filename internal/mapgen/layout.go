package mapgen

import (
	"fmt"
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// Room returns the room at (column, line), or nil.
func (l *MapLayout) Room(column, line int) *RoomNode {
	for i := range l.Rooms {
		if l.Rooms[i].Column == column && l.Rooms[i].Line == line {
			return &l.Rooms[i]
		}
	}
	return nil
}

// Columns returns the number of distinct columns.
func (l *MapLayout) Columns() int {
	seen := make(map[int]struct{})
	for _, r := range l.Rooms {
		seen[r.Column] = struct{}{}
	}
	return len(seen)
}

// ColumnRooms returns the rooms of column ordered by line.
func (l *MapLayout) ColumnRooms(column int) []RoomNode {
	var rooms []RoomNode
	for _, r := range l.Rooms {
		if r.Column == column {
			rooms = append(rooms, r)
		}
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Line < rooms[j].Line })
	return rooms
}

// InDegree counts the edges that end at ref.
func (l *MapLayout) InDegree(ref RoomRef) int {
	n := 0
	for i := range l.Rooms {
		if l.Rooms[i].LinksToRef(ref) {
			n++
		}
	}
	return n
}

// OutDegree counts the edges that start at ref.
func (l *MapLayout) OutDegree(ref RoomRef) int {
	if r := l.Room(ref.Column, ref.Line); r != nil {
		return len(r.LinksTo)
	}
	return 0
}

// Reachable returns every room reachable from the entry column.
func (l *MapLayout) Reachable() mapset.Set[RoomRef] {
	visited := mapset.New[RoomRef]()
	var queue []RoomRef
	for _, r := range l.Rooms {
		if r.Column == 0 {
			queue = append(queue, r.Ref())
		}
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited.Has(current) {
			continue
		}
		visited.Put(current)
		if r := l.Room(current.Column, current.Line); r != nil {
			for _, next := range r.LinksTo {
				if !visited.Has(next) {
					queue = append(queue, next)
				}
			}
		}
	}
	return visited
}

// Validate checks identity, edge direction and the coverage guarantees:
// every non-entry room has an incoming edge and every non-terminal room an outgoing one.
func (l *MapLayout) Validate() error {
	if len(l.Rooms) == 0 {
		return fmt.Errorf("layout has no rooms")
	}
	last := 0
	ids := make(map[RoomRef]struct{}, len(l.Rooms))
	for _, r := range l.Rooms {
		if r.Column < 0 || r.Line < 0 {
			return fmt.Errorf("room (%d,%d): negative coordinate", r.Column, r.Line)
		}
		if _, dup := ids[r.Ref()]; dup {
			return fmt.Errorf("room (%d,%d): duplicate identity", r.Column, r.Line)
		}
		ids[r.Ref()] = struct{}{}
		if r.Column > last {
			last = r.Column
		}
	}
	for _, r := range l.Rooms {
		for _, to := range r.LinksTo {
			if _, ok := ids[to]; !ok {
				return fmt.Errorf("room (%d,%d): link to missing room (%d,%d)", r.Column, r.Line, to.Column, to.Line)
			}
			if to.Column != r.Column+1 {
				return fmt.Errorf("room (%d,%d): link to (%d,%d) skips or reverses a column", r.Column, r.Line, to.Column, to.Line)
			}
		}
		if r.Column < last && len(r.LinksTo) == 0 {
			return fmt.Errorf("room (%d,%d): no outgoing edge", r.Column, r.Line)
		}
		if r.Column > 0 && l.InDegree(r.Ref()) == 0 {
			return fmt.Errorf("room (%d,%d): no incoming edge", r.Column, r.Line)
		}
	}
	return nil
}

// Clone returns a deep copy of l.
func (l *MapLayout) Clone() *MapLayout {
	out := &MapLayout{
		Rooms:    make([]RoomNode, len(l.Rooms)),
		Segments: append([]Segment(nil), l.Segments...),
	}
	for i, r := range l.Rooms {
		r.LinksTo = append([]RoomRef(nil), r.LinksTo...)
		out.Rooms[i] = r
	}
	return out
}

// Equal compares two layouts by room identity. Room order and link order are
// ignored; segments are compared as a multiset.
func (l *MapLayout) Equal(other *MapLayout) bool {
	if l == nil || other == nil {
		return l == other
	}
	if len(l.Rooms) != len(other.Rooms) || len(l.Segments) != len(other.Segments) {
		return false
	}
	for _, r := range l.Rooms {
		o := other.Room(r.Column, r.Line)
		if o == nil || o.Type != r.Type || o.State != r.State || o.Position != r.Position {
			return false
		}
		if len(o.LinksTo) != len(r.LinksTo) {
			return false
		}
		for _, ref := range r.LinksTo {
			if !o.LinksToRef(ref) {
				return false
			}
		}
	}
	segs := make(map[Segment]int, len(l.Segments))
	for _, s := range l.Segments {
		segs[s]++
	}
	for _, s := range other.Segments {
		if segs[s] == 0 {
			return false
		}
		segs[s]--
	}
	return true
}
