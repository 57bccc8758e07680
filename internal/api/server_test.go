package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AaronLay10/roommap/internal/events"
	"github.com/AaronLay10/roommap/internal/mapgen"
	"github.com/AaronLay10/roommap/internal/orchestrator"
)

type fakeController struct {
	state      orchestrator.State
	layout     *mapgen.MapLayout
	regenErr   error
	regenCalls int
	updateErr  error
	updated    []mapgen.RoomRef
}

func (f *fakeController) Key() string                      { return "crypt" }
func (f *fakeController) State() orchestrator.State        { return f.state }
func (f *fakeController) Layout() *mapgen.MapLayout        { return f.layout }
func (f *fakeController) Regenerate(context.Context) error { f.regenCalls++; return f.regenErr }

func (f *fakeController) UpdateRoomState(_ context.Context, ref mapgen.RoomRef, _ mapgen.RoomState) error {
	f.updated = append(f.updated, ref)
	return f.updateErr
}

func testLayout() *mapgen.MapLayout {
	return &mapgen.MapLayout{
		Rooms: []mapgen.RoomNode{
			{Column: 0, Line: 0, Type: "start", State: mapgen.RoomStateAttainable,
				Position: mapgen.Position{X: -9.2, Y: 0}, LinksTo: []mapgen.RoomRef{{Column: 1, Line: 0}}},
			{Column: 1, Line: 0, Type: "boss", State: mapgen.RoomStateLocked,
				Position: mapgen.Position{X: 8.4, Y: 0}},
		},
		Segments: []mapgen.Segment{{Start: mapgen.Position{X: -9.2}, End: mapgen.Position{X: 8.4}}},
	}
}

func withController(t *testing.T, c Controller) {
	t.Helper()
	SetController(c)
	t.Cleanup(func() { SetController(nil) })
}

func setReadiness(mqtt, mqttOptional, store, storeOptional bool) {
	SetMQTTState(mqtt, mqttOptional)
	SetStoreState(store, storeOptional)
}

func decodeReady(t *testing.T, w *httptest.ResponseRecorder) ReadinessResponse {
	t.Helper()
	var resp ReadinessResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	healthHandler(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected status 'ok', got '%s'", resp.Status)
	}
}

func TestReadyEndpoint_AllReady(t *testing.T) {
	withController(t, &fakeController{state: orchestrator.StatePersisted, layout: testLayout()})
	setReadiness(true, false, true, false)

	w := httptest.NewRecorder()
	readyHandler(w, httptest.NewRequest("GET", "/ready", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	resp := decodeReady(t, w)
	if !resp.Ready {
		t.Error("expected ready=true")
	}
	for _, name := range []string{"orchestrator", "mqtt", "store"} {
		if resp.Checks[name].Status != "ok" {
			t.Errorf("expected %s status 'ok', got '%s'", name, resp.Checks[name].Status)
		}
	}
}

func TestReadyEndpoint_UnsavedLayoutIsReady(t *testing.T) {
	withController(t, &fakeController{state: orchestrator.StateUnsaved, layout: testLayout()})
	setReadiness(true, false, true, false)

	w := httptest.NewRecorder()
	readyHandler(w, httptest.NewRequest("GET", "/ready", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200 for unsaved layout, got %d", w.Code)
	}
}

func TestReadyEndpoint_OrchestratorNotReady(t *testing.T) {
	withController(t, &fakeController{state: orchestrator.StateGenerating})
	setReadiness(true, false, true, false)

	w := httptest.NewRecorder()
	readyHandler(w, httptest.NewRequest("GET", "/ready", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", w.Code)
	}
	resp := decodeReady(t, w)
	if resp.Ready {
		t.Error("expected ready=false")
	}
	if resp.Checks["orchestrator"].Status != "not_ready" {
		t.Errorf("expected orchestrator status 'not_ready', got '%s'", resp.Checks["orchestrator"].Status)
	}
	if resp.NotReadyMsg == "" {
		t.Error("expected non-empty message")
	}
}

func TestReadyEndpoint_OptionalMQTTUnavailable(t *testing.T) {
	withController(t, &fakeController{state: orchestrator.StateReady, layout: testLayout()})
	setReadiness(false, true, true, false)

	w := httptest.NewRecorder()
	readyHandler(w, httptest.NewRequest("GET", "/ready", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200 (optional dependency), got %d", w.Code)
	}
	resp := decodeReady(t, w)
	if resp.Checks["mqtt"].Status != "unavailable" {
		t.Errorf("expected mqtt status 'unavailable', got '%s'", resp.Checks["mqtt"].Status)
	}
	if !resp.Checks["mqtt"].Optional {
		t.Error("expected mqtt optional=true")
	}
}

func TestReadyEndpoint_MultipleDependenciesNotReady(t *testing.T) {
	SetController(nil)
	setReadiness(false, false, false, false)
	defer setReadiness(false, true, true, false)

	w := httptest.NewRecorder()
	readyHandler(w, httptest.NewRequest("GET", "/ready", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", w.Code)
	}
	resp := decodeReady(t, w)
	if strings.Count(resp.NotReadyMsg, ";") != 2 {
		t.Errorf("expected three reasons, got %q", resp.NotReadyMsg)
	}
	if resp.Checks["store"].Status != "not_connected" {
		t.Errorf("expected store status 'not_connected', got '%s'", resp.Checks["store"].Status)
	}
}

func TestLayoutEndpoint(t *testing.T) {
	tests := []struct {
		name string
		ctrl Controller
		code int
	}{
		{"no controller", nil, http.StatusServiceUnavailable},
		{"no layout", &fakeController{state: orchestrator.StateLoading}, http.StatusNotFound},
		{"layout", &fakeController{state: orchestrator.StatePersisted, layout: testLayout()}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withController(t, tt.ctrl)
			w := httptest.NewRecorder()
			layoutHandler(w, httptest.NewRequest("GET", "/layout", nil))
			if w.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, w.Code)
			}
			if tt.code != http.StatusOK {
				return
			}

			var resp LayoutResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Key != "crypt" || resp.State != "persisted" {
				t.Errorf("unexpected header fields: %+v", resp)
			}
			if len(resp.Layout.Rooms) != 2 || len(resp.Layout.Connections) != 1 {
				t.Fatalf("expected 2 rooms and 1 connection, got %d/%d",
					len(resp.Layout.Rooms), len(resp.Layout.Connections))
			}
			if resp.Layout.Rooms[0].RoomType != "start" || len(resp.Layout.Rooms[0].LinkTo) != 1 {
				t.Errorf("unexpected first room: %+v", resp.Layout.Rooms[0])
			}
		})
	}
}

func TestOperatorRegenerate(t *testing.T) {
	tests := []struct {
		name   string
		method string
		err    error
		code   int
		ok     bool
	}{
		{"wrong method", "GET", nil, http.StatusMethodNotAllowed, false},
		{"success", "POST", nil, http.StatusOK, true},
		{"unsaved", "POST", fmt.Errorf("%w: %w", orchestrator.ErrNotSaved, fmt.Errorf("disk full")), http.StatusOK, true},
		{"no layout", "POST", fmt.Errorf("%w: cannot regenerate", orchestrator.ErrNoLayout), http.StatusConflict, false},
		{"generation failed", "POST", fmt.Errorf("boom"), http.StatusInternalServerError, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events.Clear()
			ctrl := &fakeController{state: orchestrator.StatePersisted, layout: testLayout(), regenErr: tt.err}
			withController(t, ctrl)

			w := httptest.NewRecorder()
			operatorRegenerateHandler(w, httptest.NewRequest(tt.method, "/operator/regenerate", nil))
			if w.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, w.Code)
			}
			var resp OperatorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.OK != tt.ok {
				t.Errorf("expected ok=%v, got %+v", tt.ok, resp)
			}
			if tt.method == "POST" {
				if ctrl.regenCalls != 1 {
					t.Errorf("expected 1 regenerate call, got %d", ctrl.regenCalls)
				}
				if events.Count("operator.regenerate") != 1 {
					t.Error("expected operator.regenerate event")
				}
			}
		})
	}
}

func TestOperatorRoomState(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		code int
	}{
		{"invalid json", `{`, nil, http.StatusBadRequest},
		{"unknown state", `{"column":0,"line":0,"state":"haunted"}`, nil, http.StatusBadRequest},
		{"missing room", `{"column":9,"line":0,"state":"cleared"}`, orchestrator.ErrRoomNotFound, http.StatusNotFound},
		{"no layout", `{"column":0,"line":0,"state":"cleared"}`, orchestrator.ErrNoLayout, http.StatusConflict},
		{"ok", `{"column":0,"line":0,"state":"visited"}`, nil, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := &fakeController{state: orchestrator.StatePersisted, layout: testLayout(), updateErr: tt.err}
			withController(t, ctrl)

			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/operator/room-state", strings.NewReader(tt.body))
			operatorRoomStateHandler(w, req)
			if w.Code != tt.code {
				t.Fatalf("expected %d, got %d (%s)", tt.code, w.Code, w.Body.String())
			}
		})
	}
}

func TestHandlerAppliesAuth(t *testing.T) {
	auth = &authConfig{adminUser: "admin", adminPass: "secret", enabled: true}
	defer resetAuth()
	withController(t, &fakeController{state: orchestrator.StatePersisted, layout: testLayout()})

	h := NewHandler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("/health should be open, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/layout", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("/layout without credentials: expected 401, got %d", w.Code)
	}

	req := httptest.NewRequest("GET", "/layout", nil)
	req.SetBasicAuth("admin", "secret")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("/layout with credentials: expected 200, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	InitMetrics("crypt", 42)
	withController(t, &fakeController{state: orchestrator.StatePersisted, layout: testLayout()})

	w := httptest.NewRecorder()
	metricsHandler(w, httptest.NewRequest("GET", "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		"# TYPE roommap_uptime_seconds gauge",
		"# TYPE roommap_generations_total counter",
		`level="crypt"`,
		"} 42\n",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
	if !strings.Contains(body, "roommap_layout_rooms{") {
		t.Fatal("missing roommap_layout_rooms")
	}
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "roommap_layout_rooms{") && !strings.HasSuffix(line, " 2") {
			t.Errorf("expected 2 rooms, got %q", line)
		}
		if strings.HasPrefix(line, "roommap_layout_ready{") && !strings.HasSuffix(line, " 1") {
			t.Errorf("expected layout ready, got %q", line)
		}
	}

	w = httptest.NewRecorder()
	metricsHandler(w, httptest.NewRequest("POST", "/metrics", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405 for POST, got %d", w.Code)
	}
}
