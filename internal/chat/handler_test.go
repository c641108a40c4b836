package chat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/rashadk/barberai-platform/internal/dialogue"
	"github.com/rashadk/barberai-platform/pkg/logging"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	svc, _ := newTestService(t)
	return NewHandler(svc, logging.New("error", "text"))
}

func TestGenerateSessionID(t *testing.T) {
	s1 := generateSessionID()
	s2 := generateSessionID()
	assert.NotEmpty(t, s1)
	assert.NotEqual(t, s1, s2)
	assert.Len(t, s1, 32) // 16 bytes = 32 hex chars
}

func TestHandleMessageHTTP(t *testing.T) {
	h := newTestHandler(t)

	body := `{"session_id":"sess1","text":"I want to book"}`
	req := httptest.NewRequest(http.MethodPost, "/chat/message", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleMessage(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var turn TurnResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &turn))
	assert.Equal(t, "sess1", turn.SessionID)
	assert.Equal(t, dialogue.ActionNone, turn.Action)
	require.NotEmpty(t, turn.Messages)
	assert.Equal(t, dialogue.SegmentOptions, turn.Messages[0].Type)
}

func TestHandleMessageAssignsSessionID(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/chat/message", strings.NewReader(`{"text":"hi"}`))
	w := httptest.NewRecorder()
	h.HandleMessage(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var turn TurnResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &turn))
	assert.NotEmpty(t, turn.SessionID)
}

func TestHandleMessageRejectsEmptyText(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/chat/message", strings.NewReader(`{"session_id":"s","text":"  "}`))
	w := httptest.NewRecorder()
	h.HandleMessage(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleMessageRejectsBadJSON(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/chat/message", strings.NewReader("{"))
	w := httptest.NewRecorder()
	h.HandleMessage(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleHistory(t *testing.T) {
	h := newTestHandler(t)

	// Seed one exchange over HTTP, then read it back.
	req := httptest.NewRequest(http.MethodPost, "/chat/message", strings.NewReader(`{"session_id":"sess-h","text":"hi"}`))
	w := httptest.NewRecorder()
	h.HandleMessage(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/chat/history?session=sess-h", nil)
	w = httptest.NewRecorder()
	h.HandleHistory(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Messages []TranscriptEntry `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, "user", resp.Messages[0].Role)
	assert.Equal(t, "hi", resp.Messages[0].Text)
}

func TestHandleHistoryRequiresSession(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/chat/history", nil)
	w := httptest.NewRecorder()
	h.HandleHistory(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebSocketRoundTrip(t *testing.T) {
	h := newTestHandler(t)
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?session=ws-1"
	conn, err := websocket.Dial(url, "", srv.URL)
	require.NoError(t, err)
	defer conn.Close()

	var hello OutboundMessage
	require.NoError(t, websocket.JSON.Receive(conn, &hello))
	assert.Equal(t, "session", hello.Type)
	assert.Equal(t, "ws-1", hello.SessionID)

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "message", Text: "book"}))

	var reply OutboundMessage
	require.NoError(t, websocket.JSON.Receive(conn, &reply))
	require.Equal(t, "reply", reply.Type)
	require.NotNil(t, reply.Turn)
	require.NotEmpty(t, reply.Turn.Messages)
	assert.Len(t, reply.Turn.Messages[0].Options, 7)
}

func TestWebSocketPing(t *testing.T) {
	h := newTestHandler(t)
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/"
	conn, err := websocket.Dial(url, "", srv.URL)
	require.NoError(t, err)
	defer conn.Close()

	var hello OutboundMessage
	require.NoError(t, websocket.JSON.Receive(conn, &hello))
	require.Equal(t, "session", hello.Type)
	assert.NotEmpty(t, hello.SessionID)

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "ping"}))
	var pong OutboundMessage
	require.NoError(t, websocket.JSON.Receive(conn, &pong))
	assert.Equal(t, "pong", pong.Type)
}

func TestHandleCalendarICS(t *testing.T) {
	svc, _ := newTestService(t)
	h := NewHandler(svc, logging.New("error", "text"))
	confirmed := walkToConfirmed(t, svc, "sess-ics")

	req := httptest.NewRequest(http.MethodGet, "/api/bookings/"+confirmed.Booking.ID+"/calendar.ics", nil)
	w := httptest.NewRecorder()
	h.HandleCalendarICS(w, req, confirmed.Booking.ID)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/calendar")
	assert.Contains(t, w.Body.String(), "BEGIN:VEVENT")
	assert.Contains(t, w.Body.String(), "DTSTART:20260902T150000Z")
}

func TestHandleCalendarICSNotFound(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/bookings/nope/calendar.ics", nil)
	w := httptest.NewRecorder()
	h.HandleCalendarICS(w, req, "nope")

	assert.Equal(t, http.StatusNotFound, w.Code)
}
