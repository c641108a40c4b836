package chat

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rashadk/barberai-platform/internal/appointments"
	"github.com/rashadk/barberai-platform/internal/catalog"
	"github.com/rashadk/barberai-platform/internal/dialogue"
)

var testNow = time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *appointments.MemoryRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := NewSessionStore(client, time.Hour, nil)

	clock := func() time.Time { return testNow }
	planner := dialogue.NewPlanner(nil, nil, dialogue.WithClock(clock))
	repo := appointments.NewMemoryRepository()

	shop := ShopInfo{Name: "BarberAI", Location: "12 King Faisal St", Phone: "+966501112233"}
	svc := NewService(planner, repo, sessions, catalog.Default(), shop, nil, nil).WithClock(clock)
	return svc, repo
}

func walkToConfirmed(t *testing.T, svc *Service, sessionID string) *TurnResult {
	t.Helper()
	ctx := context.Background()
	var result *TurnResult
	var err error
	for _, text := range []string{"book", "haircut", "tomorrow", "15:00", "Omar", "0501234567", "yes"} {
		result, err = svc.HandleTurn(ctx, sessionID, text)
		require.NoError(t, err)
	}
	return result
}

func TestHandleTurnPersistsConfirmedBooking(t *testing.T) {
	svc, repo := newTestService(t)

	result := walkToConfirmed(t, svc, "sess-1")
	require.Equal(t, dialogue.ActionCreateBooking, result.Action)
	require.NotNil(t, result.Booking)

	stored, err := repo.Get(context.Background(), result.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "haircut", stored.ServiceID)
	assert.Equal(t, "2026-09-02", stored.Date)
	assert.Equal(t, "15:00", stored.Time)
	assert.Equal(t, "Omar", stored.CustomerName)
	assert.Equal(t, appointments.StatusBooked, stored.Status)

	require.NotNil(t, result.Links)
	assert.Contains(t, result.Links.GoogleCalendar, "calendar.google.com")
	assert.Contains(t, result.Links.WhatsApp, "wa.me/966501112233")
	assert.Contains(t, result.Links.ICS, result.Booking.ID)
}

func TestHandleTurnBlocksTakenSlotAcrossSessions(t *testing.T) {
	svc, _ := newTestService(t)
	walkToConfirmed(t, svc, "sess-1")

	ctx := context.Background()
	for _, text := range []string{"book", "haircut"} {
		_, err := svc.HandleTurn(ctx, "sess-2", text)
		require.NoError(t, err)
	}
	result, err := svc.HandleTurn(ctx, "sess-2", "tomorrow")
	require.NoError(t, err)
	assert.NotContains(t, result.Messages[0].Options, "15:00")
	assert.Contains(t, result.Messages[0].Options, "16:00")
}

func TestHandleTurnRescheduleUpdatesStoredAppointment(t *testing.T) {
	svc, repo := newTestService(t)
	confirmed := walkToConfirmed(t, svc, "sess-1")

	ctx := context.Background()
	for _, text := range []string{"reschedule", "Change time"} {
		_, err := svc.HandleTurn(ctx, "sess-1", text)
		require.NoError(t, err)
	}
	result, err := svc.HandleTurn(ctx, "sess-1", "17:00")
	require.NoError(t, err)
	require.Equal(t, dialogue.ActionUpdateBooking, result.Action)

	stored, err := repo.Get(ctx, confirmed.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "17:00", stored.Time)
	assert.Equal(t, "2026-09-02", stored.Date)
}

func TestHandleTurnCancelAppointment(t *testing.T) {
	svc, repo := newTestService(t)
	confirmed := walkToConfirmed(t, svc, "sess-1")

	ctx := context.Background()
	for _, text := range []string{"cancel my appointment", "Cancel appointment"} {
		_, err := svc.HandleTurn(ctx, "sess-1", text)
		require.NoError(t, err)
	}
	result, err := svc.HandleTurn(ctx, "sess-1", "yes")
	require.NoError(t, err)
	require.Equal(t, dialogue.ActionUpdateBooking, result.Action)

	stored, err := repo.Get(ctx, confirmed.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, appointments.StatusCancelled, stored.Status)
}

func TestHandleTurnEditScopedToOwnPhone(t *testing.T) {
	svc, _ := newTestService(t)
	walkToConfirmed(t, svc, "sess-1")

	// A different session with no known phone cannot be offered someone
	// else's booking to edit.
	ctx := context.Background()
	result, err := svc.HandleTurn(ctx, "sess-2", "reschedule")
	require.NoError(t, err)
	assert.Equal(t, dialogue.ActionNone, result.Action)

	// And nothing it says afterwards can mutate that booking.
	result, err = svc.HandleTurn(ctx, "sess-2", "Cancel appointment")
	require.NoError(t, err)
	assert.Equal(t, dialogue.ActionNone, result.Action)
}

func TestSessionLocksReleasedAfterTurn(t *testing.T) {
	svc, _ := newTestService(t)

	ctx := context.Background()
	for i, session := range []string{"sess-a", "sess-b", "sess-c"} {
		_, err := svc.HandleTurn(ctx, session, "hi")
		require.NoError(t, err, "turn %d", i)
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Empty(t, svc.locks)
}

func TestHandleTurnRecordsTranscript(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.HandleTurn(context.Background(), "sess-1", "hi")
	require.NoError(t, err)

	entries, err := svc.Transcript(context.Background(), "sess-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "user", entries[0].Role)
	assert.Equal(t, "assistant", entries[1].Role)
}

func TestHandleTurnGeneratesSessionID(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.HandleTurn(context.Background(), "", "hi")
	require.NoError(t, err)
	assert.NotEmpty(t, result.SessionID)
}

func TestCalendarEventForStoredAppointment(t *testing.T) {
	svc, _ := newTestService(t)
	confirmed := walkToConfirmed(t, svc, "sess-1")

	ev, err := svc.CalendarEvent(context.Background(), confirmed.Booking.ID)
	require.NoError(t, err)
	assert.Contains(t, ev.Title, "Haircut")
	assert.Equal(t, time.Date(2026, 9, 2, 15, 0, 0, 0, time.UTC), ev.Start)
	assert.Equal(t, 30*time.Minute, ev.End.Sub(ev.Start))
}
