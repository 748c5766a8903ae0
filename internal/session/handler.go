package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/roughboard/roughboard/internal/engine"
)

type Handler struct {
	hub     *Hub
	origins []string
}

func NewHandler(hub *Hub, origins []string) *Handler {
	return &Handler{hub: hub, origins: origins}
}

// Routes registers the session API on r. Mutating routes also match
// OPTIONS so CORS preflights reach the router middleware.
func (h *Handler) Routes(r *mux.Router) {
	r.HandleFunc("/api/sessions", h.Create).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/sessions/{sessionId}", h.Delete).Methods("DELETE", "OPTIONS")
	r.HandleFunc("/api/sessions/{sessionId}/frame", h.Frame).Methods("GET")
	r.HandleFunc("/api/sessions/{sessionId}/events", h.Events).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/sessions/{sessionId}/export.pdf", h.Export).Methods("GET")
	r.HandleFunc("/ws/sessions/{sessionId}", h.WebSocket)
}

type createResponse struct {
	ID    string `json:"id"`
	Frame Frame  `json:"frame"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.hub.Open()
	frame, err := s.Frame(r.Context())
	if err != nil {
		handleSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createResponse{ID: s.ID, Frame: frame})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.hub.Close(mux.Vars(r)["sessionId"]); err != nil {
		handleSessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Frame(w http.ResponseWriter, r *http.Request) {
	s, err := h.hub.Get(mux.Vars(r)["sessionId"])
	if err != nil {
		handleSessionError(w, err)
		return
	}
	frame, err := s.Frame(r.Context())
	if err != nil {
		handleSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, frame)
}

// Events accepts a single event object or an array of events.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	s, err := h.hub.Get(mux.Vars(r)["sessionId"])
	if err != nil {
		handleSessionError(w, err)
		return
	}

	events, err := decodeEvents(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	frame, err := s.Apply(r.Context(), events...)
	if err != nil {
		handleSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, frame)
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	s, err := h.hub.Get(mux.Vars(r)["sessionId"])
	if err != nil {
		handleSessionError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := s.ExportPDF(r.Context(), &buf); err != nil {
		handleSessionError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+s.ID+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	s, err := h.hub.Get(mux.Vars(r)["sessionId"])
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := NewClient(s, conn, uuid.New().String())
	ctx := r.Context()
	if err := s.attach(ctx, client); err != nil {
		conn.Close(websocket.StatusGoingAway, "session closed")
		return
	}

	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

func decodeEvents(r *http.Request) ([]engine.Event, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var events []engine.Event
		if err := json.Unmarshal(raw, &events); err != nil {
			return nil, err
		}
		return events, nil
	}
	var ev engine.Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, err
	}
	return []engine.Event{ev}, nil
}

func handleSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
	case errors.Is(err, ErrClosed):
		writeJSON(w, http.StatusGone, map[string]string{"error": "session closed"})
	case errors.Is(err, engine.ErrUnknownTool), errors.Is(err, engine.ErrUnknownEvent):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		slog.Error("session request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
