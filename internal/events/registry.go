package events

import "fmt"

var allowedEvents = map[string]struct{}{
	// map lifecycle
	"map.generating":  {},
	"map.generated":   {},
	"map.loaded":      {},
	"map.load_failed": {},
	"map.saved":       {},
	"map.save_failed": {},
	"map.regenerated": {},
	"map.room_state":  {},

	// placement
	"room.placed":         {},
	"connection.placed":   {},
	"placement.destroyed": {},

	// operator
	"operator.regenerate": {},

	// mqtt
	"mqtt.connected": {},
	"mqtt.error":     {},

	// system
	"system.startup":  {},
	"system.shutdown": {},
	"system.error":    {},
}

// Validate returns an error if event is not a registered event name.
func Validate(event string) error {
	if _, ok := allowedEvents[event]; !ok {
		return fmt.Errorf("unknown event: %s", event)
	}
	return nil
}
