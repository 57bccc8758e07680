package mapgen

// ConnectColumns links every room in from to a random room in to, then links
// every room in to that is still unreached from a random room in from.
// Edges always run from the earlier column to the later one, whichever pass
// created them. It returns one segment per new edge.
//
// maxInDegree > 0 makes the first pass prefer targets below that in-degree.
// It is a preference, not a bound: when every target is saturated the draw
// falls back to all of to, and the second pass never skips a room.
func ConnectColumns(rng Rand, from, to []*RoomNode, maxInDegree int) []Segment {
	if len(from) == 0 || len(to) == 0 {
		return nil
	}

	var segments []Segment
	inDegree := make(map[RoomRef]int, len(to))
	link := func(src, dst *RoomNode) {
		if src.addLink(dst.Ref()) {
			inDegree[dst.Ref()]++
			segments = append(segments, Segment{Start: src.Position, End: dst.Position})
		}
	}

	for _, r := range from {
		link(r, pickTarget(rng, to, inDegree, maxInDegree))
	}

	for _, t := range to {
		if inDegree[t.Ref()] > 0 {
			continue
		}
		link(from[rng.Intn(len(from))], t)
	}

	return segments
}

func pickTarget(rng Rand, to []*RoomNode, inDegree map[RoomRef]int, maxInDegree int) *RoomNode {
	if maxInDegree <= 0 {
		return to[rng.Intn(len(to))]
	}
	open := make([]*RoomNode, 0, len(to))
	for _, t := range to {
		if inDegree[t.Ref()] < maxInDegree {
			open = append(open, t)
		}
	}
	if len(open) == 0 {
		return to[rng.Intn(len(to))]
	}
	return open[rng.Intn(len(open))]
}
