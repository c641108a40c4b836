package chat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rashadk/barberai-platform/internal/appointments"
	"github.com/rashadk/barberai-platform/internal/calendar"
	"github.com/rashadk/barberai-platform/internal/catalog"
	"github.com/rashadk/barberai-platform/internal/dialogue"
	"github.com/rashadk/barberai-platform/internal/notify"
	"github.com/rashadk/barberai-platform/internal/observability/metrics"
	"github.com/rashadk/barberai-platform/pkg/logging"
)

// ShopInfo is the static identity rendered into confirmations and links.
type ShopInfo struct {
	Name     string
	Location string
	Phone    string
}

// BookingLinks are the follow-up links attached to a confirmed booking.
type BookingLinks struct {
	GoogleCalendar string `json:"google_calendar,omitempty"`
	WhatsApp       string `json:"whatsapp,omitempty"`
	ICS            string `json:"ics,omitempty"`
}

// TurnResult is the full outcome of one conversational turn, ready for any
// transport to render.
type TurnResult struct {
	SessionID string                    `json:"session_id"`
	Messages  []dialogue.MessageSegment `json:"messages"`
	Action    dialogue.Action           `json:"action"`
	Booking   *dialogue.BookingData     `json:"booking,omitempty"`
	Links     *BookingLinks             `json:"links,omitempty"`
	Language  dialogue.Language         `json:"language"`
}

// Service runs conversation turns end to end: session state in Redis, the
// planning engine, and booking side effects against the repository. Turns
// for the same session are serialized; different sessions run concurrently.
type Service struct {
	planner  *dialogue.Planner
	repo     appointments.Repository
	sessions *SessionStore
	catalog  *catalog.Catalog
	shop     ShopInfo
	logger   *logging.Logger
	metrics  *metrics.DialogueMetrics
	now      func() time.Time

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock serializes turns for one session. Lock entries are reference
// counted and removed once the last holder releases, so the map stays
// proportional to in-flight turns rather than every session ever seen.
type sessionLock struct {
	sync.Mutex
	refs int
}

func NewService(
	planner *dialogue.Planner,
	repo appointments.Repository,
	sessions *SessionStore,
	cat *catalog.Catalog,
	shop ShopInfo,
	m *metrics.DialogueMetrics,
	logger *logging.Logger,
) *Service {
	if planner == nil {
		panic("chat: planner cannot be nil")
	}
	if repo == nil {
		panic("chat: appointment repository cannot be nil")
	}
	if cat == nil {
		cat = catalog.Default()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		planner:  planner,
		repo:     repo,
		sessions: sessions,
		catalog:  cat,
		shop:     shop,
		logger:   logger,
		metrics:  m,
		now:      time.Now,
		locks:    make(map[string]*sessionLock),
	}
}

// WithClock injects a time source for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

func (s *Service) acquireSession(sessionID string) *sessionLock {
	s.mu.Lock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sessionLock{}
		s.locks[sessionID] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.Lock()
	return lock
}

func (s *Service) releaseSession(sessionID string, lock *sessionLock) {
	lock.Unlock()
	s.mu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(s.locks, sessionID)
	}
	s.mu.Unlock()
}

// HandleTurn processes one user message for a session and returns the
// composed reply. Booking side effects are applied before the reply is
// returned, so a confirmed booking is durable by the time the customer
// sees it.
func (s *Service) HandleTurn(ctx context.Context, sessionID, text string) (*TurnResult, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	lock := s.acquireSession(sessionID)
	defer s.releaseSession(sessionID, lock)

	started := s.now()

	state, err := s.loadState(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.ListFrom(ctx, s.now().Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("chat: failed to load appointments: %w", err)
	}

	plan, err := s.planner.Plan(text, &dialogue.ConversationContext{
		Catalog:       s.catalog,
		Existing:      existing,
		Language:      state.Language,
		Draft:         state.Draft,
		CustomerPhone: state.CustomerPhone,
	})
	if err != nil {
		return nil, err
	}

	result := &TurnResult{
		SessionID: sessionID,
		Messages:  plan.Messages,
		Action:    plan.Action,
		Booking:   plan.Data,
		Language:  plan.Language,
	}

	switch plan.Action {
	case dialogue.ActionCreateBooking:
		if err := s.applyCreate(ctx, plan.Data); err != nil {
			return nil, err
		}
		state.CustomerPhone = plan.Data.CustomerPhone
		result.Links = s.bookingLinks(plan.Data, plan.Language)
		s.metrics.ObserveBooking("create", plan.Data.Status)
	case dialogue.ActionUpdateBooking:
		if err := s.applyUpdate(ctx, plan.Data); err != nil {
			return nil, err
		}
		s.metrics.ObserveBooking("update", plan.Data.Status)
	}

	state.Draft = plan.Draft
	state.Language = plan.Language
	if err := s.saveState(ctx, sessionID, state); err != nil {
		return nil, err
	}
	s.recordTranscript(ctx, sessionID, text, plan)

	s.metrics.ObserveTurn(string(plan.Language), string(plan.Action))
	s.metrics.ObserveTurnLatency(string(plan.Language), s.now().Sub(started).Seconds())

	return result, nil
}

// Transcript exposes the conversation log for a session.
func (s *Service) Transcript(ctx context.Context, sessionID string) ([]TranscriptEntry, error) {
	if s.sessions == nil {
		return nil, nil
	}
	return s.sessions.Transcript(ctx, sessionID)
}

func (s *Service) loadState(ctx context.Context, sessionID string) (*SessionState, error) {
	if s.sessions == nil {
		return NewSessionState(), nil
	}
	return s.sessions.LoadState(ctx, sessionID)
}

func (s *Service) saveState(ctx context.Context, sessionID string, state *SessionState) error {
	if s.sessions == nil {
		return nil
	}
	return s.sessions.SaveState(ctx, sessionID, state)
}

func (s *Service) applyCreate(ctx context.Context, data *dialogue.BookingData) error {
	id, err := uuid.Parse(data.ID)
	if err != nil {
		return fmt.Errorf("chat: plan carried an invalid booking id: %w", err)
	}
	appt := &appointments.Appointment{
		ID:            id,
		ServiceID:     data.ServiceID,
		Date:          data.Date,
		Time:          data.Time,
		CustomerName:  data.CustomerName,
		CustomerPhone: data.CustomerPhone,
		Status:        data.Status,
	}
	if err := s.repo.Create(ctx, appt); err != nil {
		return fmt.Errorf("chat: failed to create booking: %w", err)
	}
	s.logger.Info("chat: booking created",
		"appointment_id", data.ID,
		"service_id", data.ServiceID,
		"date", data.Date,
		"time", data.Time,
	)
	return nil
}

func (s *Service) applyUpdate(ctx context.Context, data *dialogue.BookingData) error {
	upd := appointments.Update{}
	if data.ServiceID != "" {
		upd.ServiceID = &data.ServiceID
	}
	if data.Date != "" {
		upd.Date = &data.Date
	}
	if data.Time != "" {
		upd.Time = &data.Time
	}
	if data.Status != "" {
		upd.Status = &data.Status
	}
	if err := s.repo.Apply(ctx, data.ID, upd); err != nil {
		return fmt.Errorf("chat: failed to update booking: %w", err)
	}
	s.logger.Info("chat: booking updated", "appointment_id", data.ID)
	return nil
}

func (s *Service) bookingLinks(data *dialogue.BookingData, lang dialogue.Language) *BookingLinks {
	start, err := time.Parse("2006-01-02 15:04", data.Date+" "+data.Time)
	if err != nil {
		return nil
	}
	duration := 30 * time.Minute
	svcName := data.ServiceID
	if svc, ok := s.catalog.ByID(data.ServiceID); ok {
		duration = time.Duration(svc.DurationMinutes) * time.Minute
		svcName = svc.Name(string(lang))
	}
	ev := calendar.Event{
		Title:       fmt.Sprintf("%s at %s", svcName, s.shop.Name),
		Description: fmt.Sprintf("Booked for %s", data.CustomerName),
		Start:       start,
		End:         start.Add(duration),
		Location:    s.shop.Location,
	}
	links := &BookingLinks{
		GoogleCalendar: calendar.GoogleURL(ev),
		ICS:            fmt.Sprintf("/api/bookings/%s/calendar.ics", data.ID),
	}
	if s.shop.Phone != "" {
		text := notify.ConfirmationText(s.catalog, *data, lang, s.shop.Name)
		links.WhatsApp = notify.Link(s.shop.Phone, text)
	}
	return links
}

func (s *Service) recordTranscript(ctx context.Context, sessionID, userText string, plan *dialogue.Plan) {
	if s.sessions == nil {
		return
	}
	at := s.now().UTC()
	if err := s.sessions.AppendTranscript(ctx, sessionID, TranscriptEntry{Role: "user", Text: userText, At: at}); err != nil {
		s.logger.Warn("chat: failed to record user message", "error", err)
		return
	}
	for _, segment := range plan.Messages {
		if err := s.sessions.AppendTranscript(ctx, sessionID, TranscriptEntry{Role: "assistant", Text: segment.Text, At: at}); err != nil {
			s.logger.Warn("chat: failed to record reply", "error", err)
			return
		}
	}
}

// CalendarEvent rebuilds the calendar payload for a stored appointment so
// the ICS download endpoint can serve it after the conversation ended.
func (s *Service) CalendarEvent(ctx context.Context, appointmentID string) (calendar.Event, error) {
	appt, err := s.repo.Get(ctx, appointmentID)
	if err != nil {
		return calendar.Event{}, err
	}
	start, err := time.Parse("2006-01-02 15:04", appt.Date+" "+appt.Time)
	if err != nil {
		return calendar.Event{}, fmt.Errorf("chat: appointment has malformed schedule: %w", err)
	}
	duration := 30 * time.Minute
	svcName := appt.ServiceID
	if svc, ok := s.catalog.ByID(appt.ServiceID); ok {
		duration = time.Duration(svc.DurationMinutes) * time.Minute
		svcName = svc.NameEN
	}
	return calendar.Event{
		Title:       fmt.Sprintf("%s at %s", svcName, s.shop.Name),
		Description: fmt.Sprintf("Booked for %s", appt.CustomerName),
		Start:       start,
		End:         start.Add(duration),
		Location:    s.shop.Location,
	}, nil
}
