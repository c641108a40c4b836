package chat

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/rashadk/barberai-platform/internal/calendar"
	"github.com/rashadk/barberai-platform/pkg/logging"
)

// Handler exposes the conversation over HTTP and WebSocket.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// InboundMessage is what the chat widget sends over the socket.
type InboundMessage struct {
	Type      string `json:"type"` // "message", "ping"
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

// OutboundMessage is what we push back to the widget.
type OutboundMessage struct {
	Type      string            `json:"type"` // "reply", "session", "history", "pong", "error"
	SessionID string            `json:"session_id,omitempty"`
	Turn      *TurnResult       `json:"turn,omitempty"`
	History   []TranscriptEntry `json:"history,omitempty"`
	Text      string            `json:"text,omitempty"`
	Timestamp string            `json:"timestamp,omitempty"`
}

// NewHandler creates the chat transport.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if service == nil {
		panic("chat: service cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return uuid.New().String()
	}
	return hex.EncodeToString(b)
}

// HandleWebSocket upgrades to WebSocket and exchanges turns in real time.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		sessionID = generateSessionID()
	}

	_ = websocket.JSON.Send(conn, OutboundMessage{Type: "session", SessionID: sessionID})

	if history, err := h.service.Transcript(r.Context(), sessionID); err == nil && len(history) > 0 {
		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "history", SessionID: sessionID, History: history})
	}

	h.logger.Info("chat: connection opened", "session_id", sessionID)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("chat: connection closed", "session_id", sessionID, "error", err)
			return
		}

		if msg.Type == "ping" {
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "pong"})
			continue
		}
		if msg.Type != "message" || strings.TrimSpace(msg.Text) == "" {
			continue
		}

		turn, err := h.service.HandleTurn(r.Context(), sessionID, msg.Text)
		if err != nil {
			h.logger.Error("chat: turn failed", "session_id", sessionID, "error", err)
			_ = websocket.JSON.Send(conn, OutboundMessage{
				Type: "error",
				Text: "Sorry, something went wrong. Please try again.",
			})
			continue
		}
		_ = websocket.JSON.Send(conn, OutboundMessage{
			Type:      "reply",
			SessionID: turn.SessionID,
			Turn:      turn,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// HandleMessage is the HTTP fallback for sending one message.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
		Text      string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		req.SessionID = generateSessionID()
	}

	turn, err := h.service.HandleTurn(r.Context(), req.SessionID, req.Text)
	if err != nil {
		h.logger.Error("chat: turn failed", "session_id", req.SessionID, "error", err)
		http.Error(w, "failed to process message", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(turn)
}

// HandleHistory returns the transcript for a session.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	history, err := h.service.Transcript(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("chat: failed to load history", "session_id", sessionID, "error", err)
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}
	if history == nil {
		history = []TranscriptEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"messages": history})
}

// HandleCalendarICS serves a confirmed booking as a downloadable calendar
// file.
func (h *Handler) HandleCalendarICS(w http.ResponseWriter, r *http.Request, appointmentID string) {
	ev, err := h.service.CalendarEvent(r.Context(), appointmentID)
	if err != nil {
		http.Error(w, "appointment not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="appointment.ics"`)
	_, _ = w.Write([]byte(calendar.ICS(ev)))
}
