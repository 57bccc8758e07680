package orchestrator

import "github.com/AaronLay10/roommap/internal/mapgen"

// Placer turns a layout into visual objects. The orchestrator only hands it
// plain data and keeps the returned handles for teardown.
type Placer interface {
	PlaceRoom(node mapgen.RoomNode) string
	PlaceConnection(start, end mapgen.Position) string
	Destroy(handle string)
}

// nopPlacer is used when no placement collaborator is configured.
type nopPlacer struct{}

func (nopPlacer) PlaceRoom(mapgen.RoomNode) string                        { return "" }
func (nopPlacer) PlaceConnection(mapgen.Position, mapgen.Position) string { return "" }
func (nopPlacer) Destroy(string)                                          {}
