package dialogue

import (
	"errors"
	"time"

	"github.com/rashadk/barberai-platform/internal/appointments"
	"github.com/rashadk/barberai-platform/internal/catalog"
	"github.com/rashadk/barberai-platform/internal/hours"
	"github.com/rashadk/barberai-platform/pkg/logging"
)

// ErrMissingCatalog indicates the caller violated the planning contract by
// omitting the service catalog. This is a programming error, not a
// conversation error, and is never swallowed into a re-prompt.
var ErrMissingCatalog = errors.New("dialogue: conversation context is missing a service catalog")

// ConversationContext carries the per-turn inputs the caller owns. The
// engine retains nothing between calls; the draft comes in and goes out
// explicitly.
type ConversationContext struct {
	Catalog  *catalog.Catalog
	Existing []appointments.Appointment
	Language Language
	Draft    *DraftBooking

	// CustomerPhone, when known from the session, scopes edit-flow
	// appointment lookup to the caller's own bookings.
	CustomerPhone string
}

// Planner is the dialogue planning engine: one user message in, one Plan
// out. It is synchronous, deterministic, and safe to share across
// conversations as long as the caller serializes turns per draft.
type Planner struct {
	schedule *hours.Schedule
	buffer   time.Duration
	logger   *logging.Logger
	now      func() time.Time
}

// PlannerOption tunes the engine.
type PlannerOption func(*Planner)

// WithLeadBuffer overrides the same-day minimum notice.
func WithLeadBuffer(buffer time.Duration) PlannerOption {
	return func(p *Planner) {
		if buffer > 0 {
			p.buffer = buffer
		}
	}
}

// WithClock injects a time source for tests.
func WithClock(now func() time.Time) PlannerOption {
	return func(p *Planner) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPlanner builds the engine. The schedule backs hours-inquiry replies
// and may be nil, in which case a default schedule is used.
func NewPlanner(schedule *hours.Schedule, logger *logging.Logger, opts ...PlannerOption) *Planner {
	if schedule == nil {
		schedule = hours.Default()
	}
	if logger == nil {
		logger = logging.Default()
	}
	p := &Planner{
		schedule: schedule,
		buffer:   sameDayLeadBuffer,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Planner) clock() time.Time {
	return p.now()
}

// Plan runs one conversational turn: detect language, classify intent
// against the current stage, apply the state machine transition, and
// compose the localized response.
func (p *Planner) Plan(text string, ctx *ConversationContext) (*Plan, error) {
	if ctx == nil || ctx.Catalog == nil || ctx.Catalog.Len() == 0 {
		return nil, ErrMissingCatalog
	}

	draft := ctx.Draft
	if draft == nil {
		draft = NewDraft()
	}
	if draft.Stage == StageCompleted {
		// Terminal; the next turn starts fresh.
		draft.reset()
	}

	lang := DetectLanguage(text, ctx.Language)
	intent := Classify(text, lang, draft.Stage)

	p.logger.Debug("dialogue: turn classified",
		"intent", string(intent),
		"language", string(lang),
		"stage", string(draft.Stage),
	)

	switch intent {
	case IntentGreeting:
		return greetingPlan(lang, draft), nil
	case IntentBook:
		return p.startBooking(ctx, lang, draft), nil
	case IntentPrices:
		return replyText(priceList(ctx.Catalog, lang), lang, draft), nil
	case IntentStyleAdvice:
		return replyText(msg("style_advice", lang), lang, draft), nil
	case IntentHours:
		return replyText(p.schedule.Describe(string(lang), p.clock()), lang, draft), nil
	case IntentReschedule:
		return p.startEdit(ctx, lang, draft), nil
	case IntentCancel:
		// Explicit cancel short-circuits any state and clears the draft.
		if draft.Stage.active() {
			draft.reset()
			return replyText(msg("discarded", lang), lang, draft), nil
		}
		draft.reset()
		return helpPlan(lang, draft), nil
	case IntentSlotFill, IntentAffirm, IntentDeny:
		if draft.Stage.active() {
			return p.advance(text, intent, ctx, lang, draft), nil
		}
		return helpPlan(lang, draft), nil
	}

	return helpPlan(lang, draft), nil
}
