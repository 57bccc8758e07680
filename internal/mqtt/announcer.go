package mqtt

import (
	"encoding/json"

	"github.com/AaronLay10/roommap/internal/events"
	"github.com/AaronLay10/roommap/internal/mapgen"
	"github.com/AaronLay10/roommap/internal/orchestrator"
)

// Publisher is the part of Client the announcer needs.
type Publisher interface {
	Publish(topic string, payload []byte, retained bool) error
}

// LayoutSummary is published whenever a layout is loaded or generated.
type LayoutSummary struct {
	Level       string `json:"level"`
	State       string `json:"state"`
	Columns     int    `json:"columns"`
	Rooms       int    `json:"rooms"`
	Connections int    `json:"connections"`
}

// Announcer publishes layout summaries.
type Announcer struct {
	pub    Publisher
	topics Topics
}

// NewAnnouncer creates an announcer publishing to topics.Layout().
func NewAnnouncer(pub Publisher, topics Topics) *Announcer {
	return &Announcer{pub: pub, topics: topics}
}

// Hook returns an orchestrator.LayoutHook that publishes each layout.
func (a *Announcer) Hook() orchestrator.LayoutHook {
	return func(key string, layout *mapgen.MapLayout, state orchestrator.State) {
		if err := a.Announce(key, layout, state); err != nil {
			events.Emit("warn", "mqtt.error", "layout announce failed", map[string]interface{}{
				"topic": a.topics.Layout(),
				"error": err.Error(),
			})
		}
	}
}

// Announce publishes one retained summary.
func (a *Announcer) Announce(key string, layout *mapgen.MapLayout, state orchestrator.State) error {
	summary := LayoutSummary{Level: key, State: string(state)}
	if layout != nil {
		summary.Columns = layout.Columns()
		summary.Rooms = len(layout.Rooms)
		summary.Connections = len(layout.Segments)
	}
	b, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return a.pub.Publish(a.topics.Layout(), b, true)
}
