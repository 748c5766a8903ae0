package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"

	mw "github.com/roughboard/roughboard/internal/middleware"
)

func newTestServer(t *testing.T) (*httptest.Server, *Hub) {
	t.Helper()
	h := newTestHub(t)
	r := mux.NewRouter()
	NewHandler(h, nil).Routes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, h
}

func createSession(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/sessions", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var out createResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.ID, "sess_") {
		t.Errorf("id = %q, want sess_ prefix", out.ID)
	}
	return out.ID
}

func TestHandlerEvents(t *testing.T) {
	srv, _ := newTestServer(t)
	id := createSession(t, srv)

	body := `[{"type":"tool.set","tool":"rectangle"},
		{"type":"pointer.down","x":10,"y":10},
		{"type":"pointer.move","x":30,"y":50},
		{"type":"pointer.up"}]`
	resp, err := http.Post(srv.URL+"/api/sessions/"+id+"/events", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var frame Frame
	if err := json.NewDecoder(resp.Body).Decode(&frame); err != nil {
		t.Fatal(err)
	}
	if frame.Elements != 1 {
		t.Errorf("elements = %d, want 1", frame.Elements)
	}
	if frame.State.Tool != "rectangle" {
		t.Errorf("tool = %q, want rectangle", frame.State.Tool)
	}
}

func TestHandlerErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	id := createSession(t, srv)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"unknown session frame", "GET", "/api/sessions/sess_missing/frame", "", http.StatusNotFound},
		{"unknown session events", "POST", "/api/sessions/sess_missing/events", `{"type":"pointer.up"}`, http.StatusNotFound},
		{"bad body", "POST", "/api/sessions/" + id + "/events", `{`, http.StatusBadRequest},
		{"bad tool", "POST", "/api/sessions/" + id + "/events", `{"type":"tool.set","tool":"ellipse"}`, http.StatusBadRequest},
		{"bad event", "POST", "/api/sessions/" + id + "/events", `{"type":"pointer.hover"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestHandlerExportAndDelete(t *testing.T) {
	srv, _ := newTestServer(t)
	id := createSession(t, srv)

	resp, err := http.Get(srv.URL + "/api/sessions/" + id + "/export.pdf")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type = %q, want application/pdf", ct)
	}

	req, _ := http.NewRequest("DELETE", srv.URL+"/api/sessions/"+id, nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/api/sessions/" + id + "/frame")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("frame after delete status = %d, want 404", resp.StatusCode)
	}
}

func readMessage(t *testing.T, ctx context.Context, conn *websocket.Conn) Message {
	t.Helper()
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return msg
}

func TestWebSocketBroadcastsFrames(t *testing.T) {
	srv, _ := newTestServer(t)
	id := createSession(t, srv)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/sessions/" + id
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	if msg := readMessage(t, ctx, conn); msg.Type != TypeWelcome {
		t.Fatalf("first message = %q, want welcome", msg.Type)
	}
	if msg := readMessage(t, ctx, conn); msg.Type != TypeFrame {
		t.Fatalf("second message = %q, want frame", msg.Type)
	}

	// A second observer sees frames produced over HTTP.
	body := `[{"type":"pointer.down","x":0,"y":0},{"type":"pointer.up"}]`
	resp, err := http.Post(srv.URL+"/api/sessions/"+id+"/events", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	var last Frame
	for last.Elements == 0 || last.State.Action != "idle" {
		msg := readMessage(t, ctx, conn)
		if msg.Type != TypeFrame {
			continue
		}
		if err := json.Unmarshal(msg.Payload, &last); err != nil {
			t.Fatal(err)
		}
	}
	if last.Elements != 1 {
		t.Errorf("elements = %d, want 1", last.Elements)
	}

	if err := conn.Write(ctx, websocket.MessageText, []byte(`{"type":"tool.set","tool":"ellipse"}`)); err != nil {
		t.Fatal(err)
	}
	for {
		msg := readMessage(t, ctx, conn)
		if msg.Type == TypeError {
			var payload ErrorPayload
			json.Unmarshal(msg.Payload, &payload)
			if !strings.Contains(payload.Message, "unknown tool") {
				t.Errorf("error message = %q", payload.Message)
			}
			break
		}
	}
}

func TestCORSPreflightThroughRouter(t *testing.T) {
	h := newTestHub(t)
	r := mux.NewRouter()
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS([]string{"localhost:5173"}))
	NewHandler(h, nil).Routes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	id := h.Open().ID
	tests := []struct {
		path   string
		method string
	}{
		{"/api/sessions", "POST"},
		{"/api/sessions/" + id + "/events", "POST"},
		{"/api/sessions/" + id, "DELETE"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req, err := http.NewRequest("OPTIONS", srv.URL+tt.path, nil)
			if err != nil {
				t.Fatal(err)
			}
			req.Header.Set("Origin", "http://localhost:5173")
			req.Header.Set("Access-Control-Request-Method", tt.method)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusNoContent {
				t.Errorf("status = %d, want 204", resp.StatusCode)
			}
			if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
				t.Errorf("allow origin = %q, want http://localhost:5173", got)
			}
		})
	}

	// The preflight must not have run the handler.
	if h.Len() != 1 {
		t.Errorf("sessions = %d, want 1", h.Len())
	}
}
