package mapgen

// Bounds is the layout space, centred at the origin. Border insets the first
// and last columns and scales interior jitter.
type Bounds struct {
	Width  float64
	Height float64
	Border float64
}

// ColumnWidth returns the horizontal span given to each of columns.
func (b Bounds) ColumnWidth(columns int) float64 {
	if columns <= 0 {
		return 0
	}
	return b.Width / float64(columns)
}

// RoomCount draws how many rooms a column holds, in [MinRooms, MaxRooms].
func RoomCount(rng Rand, bp ColumnBlueprint) int {
	return bp.MinRooms + rng.Intn(bp.MaxRooms-bp.MinRooms+1)
}

// PlanColumn returns the positions of the rooms in column, top to bottom.
//
// Rooms are spaced height/(amount+1) apart starting one gap below the top edge.
// The entry column sits at a fixed left inset, the terminal column at a fixed
// right inset, and interior columns are jittered within [-border/2, border).
func PlanColumn(rng Rand, bp ColumnBlueprint, column, totalColumns int, b Bounds) []Position {
	amount := RoomCount(rng, bp)
	gap := b.Height / float64(amount+1)
	startY := b.Height/2 - gap
	baseX := -b.Width/2 + b.Border + b.ColumnWidth(totalColumns)*float64(column)

	positions := make([]Position, amount)
	for i := range positions {
		x := baseX
		switch {
		case column == totalColumns-1 && column != 0:
			x = b.Width/2 - b.Border*2
		case column != 0:
			x = baseX + jitter(rng, b.Border)
		}
		positions[i] = Position{X: x, Y: startY - gap*float64(i)}
	}
	return positions
}

func jitter(rng Rand, border float64) float64 {
	return -border/2 + rng.Float64()*border*1.5
}
