package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Djelibeybi/lifx-emulator/internal/device"
	"github.com/Djelibeybi/lifx-emulator/internal/events"
	"github.com/Djelibeybi/lifx-emulator/internal/infrastructure/logging"
	"github.com/Djelibeybi/lifx-emulator/internal/manager"
	"github.com/Djelibeybi/lifx-emulator/internal/scenario"
)

func testAPI(t *testing.T) (*Server, *httptest.Server, *manager.Manager, *events.Bus) {
	t.Helper()

	scenarios := scenario.NewManager()
	bus := events.NewBus()
	mgr := manager.New(scenarios, bus)

	s := New("127.0.0.1", 0, Deps{
		Manager:   mgr,
		Scenarios: scenarios,
		Bus:       bus,
		Logger:    logging.Default(),
	})

	ts := httptest.NewServer(s.buildRouter())
	t.Cleanup(ts.Close)
	return s, ts, mgr, bus
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, into any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

func TestDeviceCRUD(t *testing.T) {
	_, ts, mgr, _ := testAPI(t)

	// Create.
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/devices", createDeviceRequest{
		Serial:    "d073d5000001",
		ProductID: 32,
		ZoneCount: 20,
		Label:     "Bench Strip",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	var created deviceSummary
	decodeBody(t, resp, &created)
	if created.Serial != "d073d5000001" || created.Label != "Bench Strip" {
		t.Errorf("created = %+v", created)
	}
	if !created.Caps.HasMultizone {
		t.Error("created device should have multizone")
	}
	if mgr.Count() != 1 {
		t.Errorf("manager count = %d, want 1", mgr.Count())
	}

	// Duplicate create conflicts.
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/v1/devices", createDeviceRequest{
		Serial:    "d073d5000001",
		ProductID: 27,
	})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate create status = %d, want 409", resp.StatusCode)
	}

	// List.
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/v1/devices", nil)
	var list []deviceSummary
	decodeBody(t, resp, &list)
	if len(list) != 1 {
		t.Errorf("list length = %d, want 1", len(list))
	}

	// State snapshot parses as the persistence schema.
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/v1/devices/d073d5000001/state", nil)
	var state map[string]any
	decodeBody(t, resp, &state)
	if state["serial"] != "d073d5000001" {
		t.Errorf("state serial = %v", state["serial"])
	}
	if _, hasMZ := state["multizone"]; !hasMZ {
		t.Error("state snapshot missing multizone sub-state")
	}

	// Delete.
	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/v1/devices/d073d5000001", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/v1/devices/d073d5000001", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", resp.StatusCode)
	}
}

func TestCreateDeviceValidation(t *testing.T) {
	_, ts, _, _ := testAPI(t)

	tests := []struct {
		name string
		req  createDeviceRequest
	}{
		{"bad serial", createDeviceRequest{Serial: "nope", ProductID: 27}},
		{"unknown product", createDeviceRequest{Serial: "d073d5000001", ProductID: 9999}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/devices", tt.req)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			var errResp errorResponse
			decodeBody(t, resp, &errResp)
			if errResp.Error.Code != "bad_request" {
				t.Errorf("error code = %q", errResp.Error.Code)
			}
		})
	}
}

func TestScenarioEndpoints(t *testing.T) {
	_, ts, _, bus := testAPI(t)

	ch, cancel := bus.Subscribe()
	defer cancel()

	// Set global rules.
	resp := doJSON(t, http.MethodPut, ts.URL+"/api/v1/scenarios/global", scenario.Rules{
		DropPackets: map[uint16]float64{101: 0.5},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set status = %d, want 200", resp.StatusCode)
	}

	// The edit is announced on the bus.
	select {
	case evt := <-ch:
		if evt.Type != events.TypeScenarioChanged {
			t.Errorf("event type = %q", evt.Type)
		}
	case <-time.After(time.Second):
		t.Error("no scenario_changed event published")
	}

	// Read it back.
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/v1/scenarios/global", nil)
	var rules scenario.Rules
	decodeBody(t, resp, &rules)
	if rules.DropPackets[101] != 0.5 {
		t.Errorf("rules = %+v", rules)
	}

	// Keyed scope.
	resp = doJSON(t, http.MethodPut, ts.URL+"/api/v1/scenarios/device/d073d5000001", scenario.Rules{
		MalformedPackets: []uint16{102},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set device scope status = %d", resp.StatusCode)
	}

	// Clear.
	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/v1/scenarios/global", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("clear status = %d, want 204", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/v1/scenarios/global", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after clear status = %d, want 404", resp.StatusCode)
	}
}

func TestScenarioValidation(t *testing.T) {
	_, ts, _, _ := testAPI(t)

	// Probability out of range.
	resp := doJSON(t, http.MethodPut, ts.URL+"/api/v1/scenarios/global", scenario.Rules{
		DropPackets: map[uint16]float64{101: 1.5},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad probability status = %d, want 400", resp.StatusCode)
	}

	// Unknown scope.
	resp = doJSON(t, http.MethodPut, ts.URL+"/api/v1/scenarios/galaxy", scenario.Rules{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad scope status = %d, want 400", resp.StatusCode)
	}

	// Type scope needs a known key.
	resp = doJSON(t, http.MethodPut, ts.URL+"/api/v1/scenarios/type/toaster", scenario.Rules{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad type key status = %d, want 400", resp.StatusCode)
	}
}

func TestHealthAndProducts(t *testing.T) {
	_, ts, mgr, _ := testAPI(t)

	d, err := device.NewFromProduct(27, "d073d5000001")
	if err != nil {
		t.Fatalf("NewFromProduct: %v", err)
	}
	_ = mgr.Add(d)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/health", nil)
	var health map[string]any
	decodeBody(t, resp, &health)
	if health["status"] != "ok" || health["devices"] != float64(1) {
		t.Errorf("health = %+v", health)
	}

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/v1/products", nil)
	var productList []map[string]any
	decodeBody(t, resp, &productList)
	if len(productList) == 0 {
		t.Error("products list is empty")
	}
}

func TestWebSocketEventStream(t *testing.T) {
	s, ts, _, bus := testAPI(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	// Give the hub a moment to register the client.
	deadline := time.Now().Add(time.Second)
	for s.hub.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if s.hub.ClientCount() != 1 {
		t.Fatal("client not registered with hub")
	}

	// The hub bridge normally runs inside Server.Run; drive it
	// manually here.
	ch, cancel := bus.Subscribe()
	defer cancel()
	go func() {
		for evt := range ch {
			s.hub.broadcast(evt)
		}
	}()
	bus.Publish(events.TypeDeviceAdded, map[string]string{"serial": "d073d5000001"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg WSMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if msg.Type != WSTypeEvent || msg.EventType != events.TypeDeviceAdded {
		t.Errorf("message = %+v", msg)
	}
}

func TestWebSocketPingPong(t *testing.T) {
	_, ts, _, _ := testAPI(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(WSMessage{Type: WSTypePing}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg WSMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if msg.Type != WSTypePong {
		t.Errorf("message type = %q, want pong", msg.Type)
	}
}
