package api

import (
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/AaronLay10/roommap/internal/events"
	"github.com/AaronLay10/roommap/internal/version"
)

var metricsState = &MetricsState{}

// MetricsState holds runtime metrics for the /metrics endpoint.
type MetricsState struct {
	mu        sync.RWMutex
	startTime time.Time
	levelKey  string
	seed      int64
}

// InitMetrics initializes the metrics system. Must be called at startup.
func InitMetrics(levelKey string, seed int64) {
	metricsState.mu.Lock()
	defer metricsState.mu.Unlock()
	metricsState.startTime = time.Now()
	metricsState.levelKey = levelKey
	metricsState.seed = seed
}

func boolGauge(b bool) int {
	if b {
		return 1
	}
	return 0
}

// metricsHandler returns Prometheus-compatible metrics in text format.
func metricsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	metricsState.mu.RLock()
	startTime := metricsState.startTime
	levelKey := metricsState.levelKey
	seed := metricsState.seed
	metricsState.mu.RUnlock()

	readiness.mu.RLock()
	mqttConnected := readiness.mqttConnected
	storeConnected := readiness.storeConnected
	readiness.mu.RUnlock()

	layoutReady, rooms, connections := false, 0, 0
	if c := getController(); c != nil {
		layoutReady = c.State().HasLayout()
		if l := c.Layout(); l != nil {
			rooms, connections = len(l.Rooms), len(l.Segments)
		}
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "unknown"
	}

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	writeMetric := func(name, mtype, help string, value interface{}, labels string) {
		fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		fmt.Fprintf(w, "# TYPE %s %s\n", name, mtype)
		if labels != "" {
			fmt.Fprintf(w, "%s{%s} %v\n", name, labels, value)
		} else {
			fmt.Fprintf(w, "%s %v\n", name, value)
		}
	}

	labels := fmt.Sprintf(`level="%s",instance="%s",version="%s"`, levelKey, hostname, version.Version)

	writeMetric("roommap_uptime_seconds", "gauge",
		"Number of seconds since the service started", time.Since(startTime).Seconds(), labels)
	writeMetric("roommap_seed", "gauge",
		"Seed of the generator random source", seed, labels)
	writeMetric("roommap_layout_ready", "gauge",
		"Whether a layout is placed (1) or not (0)", boolGauge(layoutReady), labels)
	writeMetric("roommap_layout_rooms", "gauge",
		"Number of rooms in the current layout", rooms, labels)
	writeMetric("roommap_layout_connections", "gauge",
		"Number of connection segments in the current layout", connections, labels)
	writeMetric("roommap_generations_total", "counter",
		"Layouts generated since startup", events.Count("map.generated"), labels)
	writeMetric("roommap_save_failures_total", "counter",
		"Layout saves that failed since startup", events.Count("map.save_failed"), labels)
	writeMetric("roommap_events_total", "counter",
		"Total number of events emitted since startup", events.TotalCount(), labels)
	writeMetric("roommap_mqtt_connected", "gauge",
		"Whether MQTT broker is connected (1) or not (0)", boolGauge(mqttConnected), labels)
	writeMetric("roommap_store_connected", "gauge",
		"Whether the layout store is reachable (1) or not (0)", boolGauge(storeConnected), labels)
	writeMetric("roommap_ws_clients", "gauge",
		"Number of active WebSocket client connections", events.SubscriberCount(), labels)
}
