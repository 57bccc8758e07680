package mapgen

// Options tunes generation.
type Options struct {
	// MaxInDegree softly caps incoming edges per room. Zero leaves it unbounded.
	MaxInDegree int
	// Registry, when set, restricts blueprint categories to registered types.
	Registry *Registry
}

// Generator builds layouts from blueprints using an injected random source.
type Generator struct {
	rng    Rand
	bounds Bounds
	opts   Options
}

// NewGenerator creates a generator drawing from rng.
func NewGenerator(rng Rand, bounds Bounds, opts Options) *Generator {
	return &Generator{rng: rng, bounds: bounds, opts: opts}
}

// Bounds returns the layout space the generator places rooms in.
func (g *Generator) Bounds() Bounds {
	return g.bounds
}

// Generate validates blueprints and builds a complete layout. Nothing is
// returned unless every column was planned and connected.
func (g *Generator) Generate(blueprints []ColumnBlueprint) (*MapLayout, error) {
	if err := ValidateBlueprints(blueprints, g.opts.Registry); err != nil {
		return nil, err
	}
	if err := ValidateBounds(g.bounds, len(blueprints)); err != nil {
		return nil, err
	}

	layout := &MapLayout{}
	columnStart := make([]int, len(blueprints)+1)
	for column, bp := range blueprints {
		columnStart[column] = len(layout.Rooms)
		positions := PlanColumn(g.rng, bp, column, len(blueprints), g.bounds)
		for line, pos := range positions {
			roomType, err := SelectType(g.rng, bp.Category)
			if err != nil {
				return nil, err
			}
			state := RoomStateLocked
			if column == 0 {
				state = RoomStateAttainable
			}
			layout.Rooms = append(layout.Rooms, RoomNode{
				Column:   column,
				Line:     line,
				Type:     roomType,
				State:    state,
				Position: pos,
			})
		}
	}
	columnStart[len(blueprints)] = len(layout.Rooms)

	// Rooms are no longer appended, so pointers into the slice stay valid.
	column := func(c int) []*RoomNode {
		nodes := make([]*RoomNode, 0, columnStart[c+1]-columnStart[c])
		for i := columnStart[c]; i < columnStart[c+1]; i++ {
			nodes = append(nodes, &layout.Rooms[i])
		}
		return nodes
	}
	for c := 1; c < len(blueprints); c++ {
		segs := ConnectColumns(g.rng, column(c-1), column(c), g.opts.MaxInDegree)
		layout.Segments = append(layout.Segments, segs...)
	}

	return layout, nil
}
