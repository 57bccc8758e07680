package mapgen

// ValidateBlueprints checks a blueprint list before anything is generated.
// When reg is non-nil every category member must be registered.
func ValidateBlueprints(blueprints []ColumnBlueprint, reg *Registry) error {
	if len(blueprints) == 0 {
		return configError(-1, "no column blueprints")
	}
	for i, bp := range blueprints {
		if bp.Category.Len() == 0 {
			return configError(i, "empty room category")
		}
		if bp.MinRooms < 1 {
			return configError(i, "min rooms %d is below 1", bp.MinRooms)
		}
		if bp.MinRooms > bp.MaxRooms {
			return configError(i, "min rooms %d exceeds max rooms %d", bp.MinRooms, bp.MaxRooms)
		}
		if reg == nil {
			continue
		}
		for _, t := range bp.Category.members {
			if !reg.Has(t) {
				return configError(i, "room type %q is not registered", t)
			}
		}
	}
	return nil
}

// ValidateBounds checks that columns fit in b without overlapping once jittered.
func ValidateBounds(b Bounds, columns int) error {
	if b.Width <= 0 || b.Height <= 0 {
		return configError(-1, "bounds must have positive width and height")
	}
	if b.Border < 0 {
		return configError(-1, "border must not be negative")
	}
	if columns > 1 && b.ColumnWidth(columns) <= b.Border*2 {
		return configError(-1, "column width %.3f must exceed twice the border %.3f",
			b.ColumnWidth(columns), b.Border)
	}
	return nil
}
