package dialogue

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rashadk/barberai-platform/internal/appointments"
	"github.com/rashadk/barberai-platform/internal/catalog"
)

func newTestPlanner() *Planner {
	return NewPlanner(nil, nil, WithClock(func() time.Time { return fixedNow }))
}

func newTestContext() *ConversationContext {
	return &ConversationContext{Catalog: catalog.Default()}
}

func runTurn(t *testing.T, p *Planner, ctx *ConversationContext, text string) *Plan {
	t.Helper()
	plan, err := p.Plan(text, ctx)
	require.NoError(t, err)
	require.NotEmpty(t, plan.Messages)
	ctx.Draft = plan.Draft
	ctx.Language = plan.Language
	return plan
}

func TestPlanRequiresCatalog(t *testing.T) {
	p := newTestPlanner()

	_, err := p.Plan("hi", nil)
	assert.ErrorIs(t, err, ErrMissingCatalog)

	_, err = p.Plan("hi", &ConversationContext{})
	assert.ErrorIs(t, err, ErrMissingCatalog)
}

func TestFullBookingWalkEnglish(t *testing.T) {
	p := newTestPlanner()
	ctx := newTestContext()

	actions := 0
	count := func(plan *Plan) {
		if plan.Action != ActionNone {
			actions++
		}
	}

	plan := runTurn(t, p, ctx, "hi")
	count(plan)
	assert.Equal(t, SegmentOptions, plan.Messages[0].Type)

	plan = runTurn(t, p, ctx, "I want to book an appointment")
	count(plan)
	assert.Equal(t, StageService, plan.Draft.Stage)
	assert.Len(t, plan.Messages[0].Options, 7)

	plan = runTurn(t, p, ctx, "haircut")
	count(plan)
	assert.Equal(t, StageDate, plan.Draft.Stage)

	plan = runTurn(t, p, ctx, "tomorrow")
	count(plan)
	assert.Equal(t, StageTime, plan.Draft.Stage)
	assert.Equal(t, []string{"10:00", "11:00", "12:00", "13:00", "15:00", "16:00", "17:00", "18:00", "19:00"}, plan.Messages[0].Options)

	plan = runTurn(t, p, ctx, "15:00")
	count(plan)
	assert.Equal(t, StageName, plan.Draft.Stage)

	plan = runTurn(t, p, ctx, "Omar")
	count(plan)
	assert.Equal(t, StagePhone, plan.Draft.Stage)

	plan = runTurn(t, p, ctx, "my number is 050-123-4567")
	count(plan)
	assert.Equal(t, StageConfirm, plan.Draft.Stage)
	assert.Contains(t, plan.Messages[0].Text, "Haircut")
	assert.Equal(t, []string{"confirm", "cancel"}, plan.Messages[0].Options)

	plan = runTurn(t, p, ctx, "yes")
	count(plan)
	assert.Equal(t, ActionCreateBooking, plan.Action)
	assert.Equal(t, StageCompleted, plan.Draft.Stage)

	require.NotNil(t, plan.Data)
	_, err := uuid.Parse(plan.Data.ID)
	assert.NoError(t, err)
	assert.Equal(t, "haircut", plan.Data.ServiceID)
	assert.Equal(t, "2026-09-02", plan.Data.Date)
	assert.Equal(t, "15:00", plan.Data.Time)
	assert.Equal(t, "Omar", plan.Data.CustomerName)
	assert.Equal(t, "0501234567", plan.Data.CustomerPhone)
	assert.Equal(t, appointments.StatusBooked, plan.Data.Status)

	require.Len(t, plan.Messages, 1)
	assert.Equal(t, SegmentBookingConfirm, plan.Messages[0].Type)
	assert.Equal(t, plan.Data, plan.Messages[0].Booking)

	// Exactly one side effect across the whole conversation.
	assert.Equal(t, 1, actions)

	// The turn after completion starts a fresh conversation.
	plan = runTurn(t, p, ctx, "thanks!")
	assert.Equal(t, ActionNone, plan.Action)
	assert.Equal(t, StageIdle, plan.Draft.Stage)
}

func TestFullBookingWalkArabic(t *testing.T) {
	p := newTestPlanner()
	ctx := newTestContext()

	plan := runTurn(t, p, ctx, "احجز موعد")
	assert.Equal(t, StageService, plan.Draft.Stage)
	assert.Equal(t, LanguageArabic, plan.Language)

	plan = runTurn(t, p, ctx, "قص شعر")
	assert.Equal(t, StageDate, plan.Draft.Stage)
	assert.Equal(t, "haircut", plan.Draft.ServiceID)

	plan = runTurn(t, p, ctx, "بكرة")
	assert.Equal(t, StageTime, plan.Draft.Stage)
	assert.Equal(t, "2026-09-02", plan.Draft.Date)

	plan = runTurn(t, p, ctx, "٤ مساء")
	assert.Equal(t, StageName, plan.Draft.Stage)
	assert.Equal(t, "16:00", plan.Draft.Time)

	plan = runTurn(t, p, ctx, "عمر")
	assert.Equal(t, StagePhone, plan.Draft.Stage)

	plan = runTurn(t, p, ctx, "٠٥٠١٢٣٤٥٦٧")
	assert.Equal(t, StageConfirm, plan.Draft.Stage)
	assert.Equal(t, []string{"تأكيد", "إلغاء"}, plan.Messages[0].Options)
	assert.Contains(t, plan.Messages[0].Text, "قص شعر")

	plan = runTurn(t, p, ctx, "نعم")
	assert.Equal(t, ActionCreateBooking, plan.Action)
	assert.Equal(t, LanguageArabic, plan.Language)
	require.NotNil(t, plan.Data)
	assert.Equal(t, "0501234567", plan.Data.CustomerPhone)
}

func TestLanguageFollowsEachTurn(t *testing.T) {
	p := newTestPlanner()
	ctx := newTestContext()

	plan := runTurn(t, p, ctx, "book a haircut")
	assert.Equal(t, LanguageEnglish, plan.Language)

	runTurn(t, p, ctx, "haircut")

	// Switching to Arabic mid-flow still advances and replies in Arabic.
	plan = runTurn(t, p, ctx, "بكرة")
	assert.Equal(t, LanguageArabic, plan.Language)
	assert.Equal(t, StageTime, plan.Draft.Stage)
}

func TestInvalidAnswersRepromptWithoutAdvancing(t *testing.T) {
	p := newTestPlanner()
	ctx := newTestContext()

	runTurn(t, p, ctx, "book")

	plan := runTurn(t, p, ctx, "a unicorn mane trim")
	assert.Equal(t, StageService, plan.Draft.Stage)
	assert.Len(t, plan.Messages[0].Options, 7)

	runTurn(t, p, ctx, "haircut")

	plan = runTurn(t, p, ctx, "whenever really")
	assert.Equal(t, StageDate, plan.Draft.Stage)

	plan = runTurn(t, p, ctx, "2026-08-20")
	assert.Equal(t, StageDate, plan.Draft.Stage) // past date

	runTurn(t, p, ctx, "tomorrow")

	// 14:00 is never offered; the shop breaks then.
	plan = runTurn(t, p, ctx, "14:00")
	assert.Equal(t, StageTime, plan.Draft.Stage)
	assert.Equal(t, ActionNone, plan.Action)

	runTurn(t, p, ctx, "15:00")
	runTurn(t, p, ctx, "Omar")

	plan = runTurn(t, p, ctx, "12345")
	assert.Equal(t, StagePhone, plan.Draft.Stage) // too short
}

func TestOfferedSlotRevalidatedAgainstCurrentAvailability(t *testing.T) {
	p := newTestPlanner()
	ctx := newTestContext()

	runTurn(t, p, ctx, "book")
	runTurn(t, p, ctx, "haircut")
	plan := runTurn(t, p, ctx, "tomorrow")
	require.Contains(t, plan.Messages[0].Options, "15:00")

	// Someone else books 15:00 between the offer and the answer.
	ctx.Existing = []appointments.Appointment{booked("haircut", "2026-09-02", "15:00")}

	plan = runTurn(t, p, ctx, "15:00")
	assert.Equal(t, ActionNone, plan.Action)
	assert.Equal(t, StageTime, plan.Draft.Stage)
	assert.NotContains(t, plan.Messages[0].Options, "15:00")

	plan = runTurn(t, p, ctx, "16:00")
	assert.Equal(t, StageName, plan.Draft.Stage)
}

func TestFullyBookedDay(t *testing.T) {
	p := newTestPlanner()
	ctx := newTestContext()
	for _, at := range defaultSlotTemplate {
		ctx.Existing = append(ctx.Existing, booked("haircut", "2026-09-02", at))
	}

	runTurn(t, p, ctx, "book")
	runTurn(t, p, ctx, "haircut")

	plan := runTurn(t, p, ctx, "tomorrow")
	assert.Equal(t, StageDate, plan.Draft.Stage)
	assert.Equal(t, ActionNone, plan.Action)
}

func TestCancelFromAnyStageClearsDraft(t *testing.T) {
	p := newTestPlanner()

	walks := [][]string{
		{"book"},
		{"book", "haircut"},
		{"book", "haircut", "tomorrow"},
		{"book", "haircut", "tomorrow", "15:00"},
		{"book", "haircut", "tomorrow", "15:00", "Omar"},
		{"book", "haircut", "tomorrow", "15:00", "Omar", "0501234567"},
	}
	for _, walk := range walks {
		ctx := newTestContext()
		for _, text := range walk {
			runTurn(t, p, ctx, text)
		}
		plan := runTurn(t, p, ctx, "cancel")
		assert.Equal(t, ActionNone, plan.Action)
		assert.Equal(t, StageIdle, plan.Draft.Stage)
		assert.Empty(t, plan.Draft.ServiceID)
	}
}

func TestDenyAtConfirmationDiscards(t *testing.T) {
	p := newTestPlanner()
	ctx := newTestContext()
	for _, text := range []string{"book", "haircut", "tomorrow", "15:00", "Omar", "0501234567"} {
		runTurn(t, p, ctx, text)
	}

	plan := runTurn(t, p, ctx, "no")
	assert.Equal(t, ActionNone, plan.Action)
	assert.Equal(t, StageIdle, plan.Draft.Stage)
}

func TestPricesAndHoursAndStyleAdvice(t *testing.T) {
	p := newTestPlanner()
	ctx := newTestContext()

	plan := runTurn(t, p, ctx, "how much is a haircut")
	assert.Contains(t, plan.Messages[0].Text, "Haircut")
	assert.Contains(t, plan.Messages[0].Text, "20$")

	plan = runTurn(t, p, ctx, "when are you open")
	assert.NotEmpty(t, plan.Messages[0].Text)

	plan = runTurn(t, p, ctx, "what style suits me")
	assert.Equal(t, ActionNone, plan.Action)
}

func TestReplayedTranscriptIsDeterministic(t *testing.T) {
	walk := []string{"book", "haircut", "tomorrow", "15:00", "Omar", "0501234567", "yes"}

	run := func() *Plan {
		p := newTestPlanner()
		ctx := newTestContext()
		var last *Plan
		for _, text := range walk {
			last = runTurn(t, p, ctx, text)
		}
		return last
	}

	a, b := run(), run()
	require.NotNil(t, a.Data)
	require.NotNil(t, b.Data)

	// Identical except the generated appointment ID.
	a.Data.ID = ""
	b.Data.ID = ""
	assert.Equal(t, a.Action, b.Action)
	assert.Equal(t, a.Data, b.Data)
	assert.Equal(t, a.Draft.Stage, b.Draft.Stage)
}
