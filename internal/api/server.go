package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/AaronLay10/roommap/internal/events"
	"github.com/AaronLay10/roommap/internal/mapgen"
	"github.com/AaronLay10/roommap/internal/orchestrator"
	"github.com/AaronLay10/roommap/internal/storage"
)

// Controller is the orchestrator surface the API drives.
type Controller interface {
	Key() string
	State() orchestrator.State
	Layout() *mapgen.MapLayout
	Regenerate(ctx context.Context) error
	UpdateRoomState(ctx context.Context, ref mapgen.RoomRef, state mapgen.RoomState) error
}

var (
	controllerMu sync.RWMutex
	controller   Controller
)

// SetController sets the orchestrator used by layout and operator endpoints.
func SetController(c Controller) {
	controllerMu.Lock()
	controller = c
	controllerMu.Unlock()
}

func getController() Controller {
	controllerMu.RLock()
	defer controllerMu.RUnlock()
	return controller
}

// readinessState tracks dependency health for /ready.
type readinessState struct {
	mu             sync.RWMutex
	mqttConnected  bool
	mqttOptional   bool
	storeConnected bool
	storeOptional  bool
}

var readiness = &readinessState{storeConnected: true}

// SetMQTTState records broker connectivity. Optional dependencies do not
// fail readiness when they are down.
func SetMQTTState(connected, optional bool) {
	readiness.mu.Lock()
	defer readiness.mu.Unlock()
	readiness.mqttConnected = connected
	readiness.mqttOptional = optional
}

// SetStoreState records layout store connectivity.
func SetStoreState(connected, optional bool) {
	readiness.mu.Lock()
	defer readiness.mu.Unlock()
	readiness.storeConnected = connected
	readiness.storeOptional = optional
}

type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Hostname  string `json:"hostname"`
	Timestamp string `json:"ts"`
}

type CheckResult struct {
	Status   string `json:"status"`
	Optional bool   `json:"optional,omitempty"`
}

type ReadinessResponse struct {
	Ready       bool                   `json:"ready"`
	Checks      map[string]CheckResult `json:"checks"`
	NotReadyMsg string                 `json:"message,omitempty"`
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	host, _ := os.Hostname()
	resp := HealthResponse{
		Status:    "ok",
		Service:   "roommap",
		Hostname:  host,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func dependencyCheck(name string, ok, optional bool, reasons *[]string) CheckResult {
	switch {
	case ok:
		return CheckResult{Status: "ok", Optional: optional}
	case optional:
		return CheckResult{Status: "unavailable", Optional: true}
	default:
		*reasons = append(*reasons, name+" not connected")
		return CheckResult{Status: "not_connected"}
	}
}

func readyHandler(w http.ResponseWriter, r *http.Request) {
	var reasons []string
	checks := make(map[string]CheckResult)

	c := getController()
	if c != nil && c.State().HasLayout() {
		checks["orchestrator"] = CheckResult{Status: "ok"}
	} else {
		checks["orchestrator"] = CheckResult{Status: "not_ready"}
		reasons = append(reasons, "no layout placed")
	}

	readiness.mu.RLock()
	checks["mqtt"] = dependencyCheck("mqtt", readiness.mqttConnected, readiness.mqttOptional, &reasons)
	checks["store"] = dependencyCheck("store", readiness.storeConnected, readiness.storeOptional, &reasons)
	readiness.mu.RUnlock()

	resp := ReadinessResponse{Ready: len(reasons) == 0, Checks: checks}
	w.Header().Set("Content-Type", "application/json")
	if !resp.Ready {
		resp.NotReadyMsg = strings.Join(reasons, "; ")
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func eventsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events.Snapshot())
}

// LayoutResponse wraps the persisted layout record with session state.
type LayoutResponse struct {
	Key    string         `json:"key"`
	State  string         `json:"state"`
	Layout storage.Record `json:"layout"`
}

func layoutHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		_ = json.NewEncoder(w).Encode(OperatorResponse{OK: false, Error: "method not allowed"})
		return
	}

	c := getController()
	if c == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(OperatorResponse{OK: false, Error: "orchestrator not running"})
		return
	}
	layout := c.Layout()
	if layout == nil {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(OperatorResponse{OK: false, Error: "no layout"})
		return
	}
	_ = json.NewEncoder(w).Encode(LayoutResponse{
		Key:    c.Key(),
		State:  string(c.State()),
		Layout: storage.NewRecord(layout),
	})
}

type OperatorResponse struct {
	OK    bool   `json:"ok"`
	State string `json:"state,omitempty"`
	Error string `json:"error,omitempty"`
}

// operatorRegenerateHandler discards the current layout and builds a new one.
// A save failure still answers 200: the new layout is live, only unsaved.
func operatorRegenerateHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		_ = json.NewEncoder(w).Encode(OperatorResponse{OK: false, Error: "method not allowed"})
		return
	}

	c := getController()
	if c == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(OperatorResponse{OK: false, Error: "orchestrator not running"})
		return
	}

	user, _, _ := r.BasicAuth()
	events.Emit("info", "operator.regenerate", "", map[string]interface{}{
		"source":       "api",
		"requested_by": user,
	})

	err := c.Regenerate(r.Context())
	switch {
	case err == nil, errors.Is(err, orchestrator.ErrNotSaved):
		resp := OperatorResponse{OK: true, State: string(c.State())}
		if err != nil {
			resp.Error = err.Error()
		}
		_ = json.NewEncoder(w).Encode(resp)
	case errors.Is(err, orchestrator.ErrNoLayout):
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(OperatorResponse{OK: false, State: string(c.State()), Error: err.Error()})
	default:
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(OperatorResponse{OK: false, State: string(c.State()), Error: err.Error()})
	}
}

type RoomStateRequest struct {
	Column int    `json:"column"`
	Line   int    `json:"line"`
	State  string `json:"state"`
}

func operatorRoomStateHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		_ = json.NewEncoder(w).Encode(OperatorResponse{OK: false, Error: "method not allowed"})
		return
	}

	var req RoomStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(OperatorResponse{OK: false, Error: "invalid JSON"})
		return
	}
	state, ok := mapgen.ParseRoomState(req.State)
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(OperatorResponse{OK: false, Error: "unknown room state"})
		return
	}

	c := getController()
	if c == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(OperatorResponse{OK: false, Error: "orchestrator not running"})
		return
	}

	err := c.UpdateRoomState(r.Context(), mapgen.RoomRef{Column: req.Column, Line: req.Line}, state)
	switch {
	case err == nil:
		_ = json.NewEncoder(w).Encode(OperatorResponse{OK: true, State: string(c.State())})
	case errors.Is(err, orchestrator.ErrRoomNotFound):
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(OperatorResponse{OK: false, Error: err.Error()})
	case errors.Is(err, orchestrator.ErrNoLayout):
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(OperatorResponse{OK: false, Error: err.Error()})
	default:
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(OperatorResponse{OK: false, Error: err.Error()})
	}
}

// NewHandler builds the API routes.
func NewHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/ready", readyHandler)
	mux.HandleFunc("/metrics", metricsHandler)
	mux.HandleFunc("/events", RequireAnyRole(eventsHandler))
	mux.HandleFunc("/layout", RequireAnyRole(layoutHandler))
	mux.HandleFunc("/ws/events", RequireAnyRole(wsEventsHandler))
	mux.HandleFunc("/operator/regenerate", RequireAnyRole(operatorRegenerateHandler))
	mux.HandleFunc("/operator/room-state", RequireAdmin(operatorRoomStateHandler))
	return mux
}

// ListenAndServe serves the API on port until ctx is cancelled.
// TLS is used when InitTLS found a certificate pair.
func ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           NewHandler(),
		ReadHeaderTimeout: 10 * time.Second,
		TLSConfig:         LoadTLSConfig(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("API listening on %s (tls=%v)\n", srv.Addr, srv.TLSConfig != nil)
		var err error
		if srv.TLSConfig != nil {
			err = srv.ListenAndServeTLS("", "")
		} else {
			err = srv.ListenAndServe()
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		events.CloseAllSubscribers()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}
