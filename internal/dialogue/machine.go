package dialogue

import (
	"strings"

	"github.com/google/uuid"

	"github.com/rashadk/barberai-platform/internal/appointments"
	"github.com/rashadk/barberai-platform/internal/catalog"
)

// startBooking opens a fresh draft and offers the service menu.
func (p *Planner) startBooking(ctx *ConversationContext, lang Language, draft *DraftBooking) *Plan {
	draft.reset()
	draft.Stage = StageService
	return &Plan{
		Action:   ActionNone,
		Messages: []MessageSegment{optionsSegment(msg("ask_service", lang), serviceMenu(ctx.Catalog, lang))},
		Draft:    draft,
		Language: lang,
	}
}

// advance applies one slot-fill answer (or confirmation) to the draft.
func (p *Planner) advance(text string, intent Intent, ctx *ConversationContext, lang Language, draft *DraftBooking) *Plan {
	switch draft.Stage {
	case StageService:
		return p.fillService(text, ctx, lang, draft)
	case StageDate:
		return p.fillDate(text, ctx, lang, draft)
	case StageTime:
		return p.fillTime(text, ctx, lang, draft)
	case StageName:
		return p.fillName(text, lang, draft)
	case StagePhone:
		return p.fillPhone(text, ctx, lang, draft)
	case StageConfirm:
		return p.resolveConfirmation(intent, ctx, lang, draft)
	case StageEditChoice:
		return p.resolveEditChoice(text, ctx, lang, draft)
	case StageCancelConfirm:
		return p.resolveCancelConfirmation(intent, ctx, lang, draft)
	}
	return helpPlan(lang, draft)
}

func (p *Planner) fillService(text string, ctx *ConversationContext, lang Language, draft *DraftBooking) *Plan {
	svc, ok := ctx.Catalog.Match(text)
	if !ok {
		return &Plan{
			Action:   ActionNone,
			Messages: []MessageSegment{optionsSegment(msg("invalid_service", lang), serviceMenu(ctx.Catalog, lang))},
			Draft:    draft,
			Language: lang,
		}
	}

	if draft.editing() {
		// A single validated field change completes the edit.
		return p.completeEdit(lang, draft, &BookingData{ID: draft.EditID, ServiceID: svc.ID})
	}

	draft.ServiceID = svc.ID
	draft.Stage = StageDate
	return &Plan{
		Action:   ActionNone,
		Messages: []MessageSegment{textSegment(msg("ask_date", lang))},
		Draft:    draft,
		Language: lang,
	}
}

func (p *Planner) fillDate(text string, ctx *ConversationContext, lang Language, draft *DraftBooking) *Plan {
	now := p.clock()
	date, ok := parseDate(text, now)
	if !ok {
		return replyText(msg("invalid_date", lang), lang, draft)
	}
	if date < now.Format(isoDate) {
		return replyText(msg("past_date", lang), lang, draft)
	}

	svc, ok := p.draftService(ctx, draft)
	if !ok {
		// Catalog shifted under an in-flight draft; start over cleanly.
		draft.reset()
		return helpPlan(lang, draft)
	}

	existing := ctx.Existing
	if draft.editing() {
		existing = excludeAppointment(existing, draft.EditID)
	}
	slots := AvailableSlots(ctx.Catalog, date, existing, svc, now, p.buffer)
	if len(slots) == 0 {
		return replyText(msg("fully_booked", lang, date), lang, draft)
	}

	if draft.editing() {
		appt, ok := findAppointment(ctx.Existing, draft.EditID)
		if ok && containsSlot(slots, appt.Time) {
			// Same slot exists on the new day; only the date changes.
			return p.completeEdit(lang, draft, &BookingData{ID: draft.EditID, Date: date})
		}
		draft.PendingDate = date
		draft.OfferedSlots = slots
		draft.Stage = StageTime
		return &Plan{
			Action:   ActionNone,
			Messages: []MessageSegment{optionsSegment(msg("edit_same_slot_taken", lang, date), slots)},
			Draft:    draft,
			Language: lang,
		}
	}

	draft.Date = date
	draft.OfferedSlots = slots
	draft.Stage = StageTime
	return &Plan{
		Action:   ActionNone,
		Messages: []MessageSegment{optionsSegment(msg("ask_time", lang, date), slots)},
		Draft:    draft,
		Language: lang,
	}
}

func (p *Planner) fillTime(text string, ctx *ConversationContext, lang Language, draft *DraftBooking) *Plan {
	candidate, ok := parseClock(text)
	if !ok {
		candidate = strings.TrimSpace(text)
	}

	date := draft.Date
	if draft.editing() && draft.PendingDate != "" {
		date = draft.PendingDate
	}
	if date == "" {
		if appt, found := findAppointment(ctx.Existing, draft.EditID); found {
			date = appt.Date
		}
	}

	svc, okSvc := p.draftService(ctx, draft)
	if !okSvc {
		draft.reset()
		return helpPlan(lang, draft)
	}

	// Recompute availability so a slot booked by someone else between offer
	// and answer is rejected instead of silently substituted.
	existing := ctx.Existing
	if draft.editing() {
		existing = excludeAppointment(existing, draft.EditID)
	}
	current := AvailableSlots(ctx.Catalog, date, existing, svc, p.clock(), p.buffer)

	if !containsSlot(draft.OfferedSlots, candidate) || !containsSlot(current, candidate) {
		draft.OfferedSlots = current
		return &Plan{
			Action:   ActionNone,
			Messages: []MessageSegment{optionsSegment(msg("invalid_time", lang), current)},
			Draft:    draft,
			Language: lang,
		}
	}

	if draft.editing() {
		data := &BookingData{ID: draft.EditID, Time: candidate}
		if draft.PendingDate != "" {
			data.Date = draft.PendingDate
		}
		return p.completeEdit(lang, draft, data)
	}

	draft.Time = candidate
	draft.Stage = StageName
	return replyText(msg("ask_name", lang), lang, draft)
}

func (p *Planner) fillName(text string, lang Language, draft *DraftBooking) *Plan {
	name := strings.TrimSpace(text)
	if name == "" {
		return replyText(msg("ask_name", lang), lang, draft)
	}
	draft.Name = name
	draft.Stage = StagePhone
	return replyText(msg("ask_phone", lang), lang, draft)
}

// minPhoneDigits is the minimum digit count for a phone answer to validate.
const minPhoneDigits = 7

func (p *Planner) fillPhone(text string, ctx *ConversationContext, lang Language, draft *DraftBooking) *Plan {
	digits := digitsOnly(text)
	if len(digits) < minPhoneDigits {
		return replyText(msg("invalid_phone", lang), lang, draft)
	}
	draft.Phone = digits
	draft.Stage = StageConfirm

	svcName := draft.ServiceID
	if svc, ok := p.draftService(ctx, draft); ok {
		svcName = svc.Name(string(lang))
	}
	summary := msg("summary", lang, svcName, draft.Date, draft.Time, draft.Name, draft.Phone)
	return &Plan{
		Action:   ActionNone,
		Messages: []MessageSegment{optionsSegment(summary, confirmOptions[lang])},
		Draft:    draft,
		Language: lang,
	}
}

func (p *Planner) resolveConfirmation(intent Intent, ctx *ConversationContext, lang Language, draft *DraftBooking) *Plan {
	switch intent {
	case IntentAffirm:
		data := &BookingData{
			ID:            uuid.NewString(),
			ServiceID:     draft.ServiceID,
			Date:          draft.Date,
			Time:          draft.Time,
			CustomerName:  draft.Name,
			CustomerPhone: draft.Phone,
			Status:        appointments.StatusBooked,
		}
		draft.Stage = StageCompleted
		return &Plan{
			Action:   ActionCreateBooking,
			Data:     data,
			Messages: []MessageSegment{bookingConfirmSegment(msg("booked", lang), data)},
			Draft:    draft,
			Language: lang,
		}
	case IntentDeny, IntentCancel:
		draft.reset()
		return replyText(msg("discarded", lang), lang, draft)
	}

	// Anything else repeats the summary question.
	svcName := draft.ServiceID
	if svc, ok := p.draftService(ctx, draft); ok {
		svcName = svc.Name(string(lang))
	}
	return &Plan{
		Action:   ActionNone,
		Messages: []MessageSegment{optionsSegment(msg("summary", lang, svcName, draft.Date, draft.Time, draft.Name, draft.Phone), confirmOptions[lang])},
		Draft:    draft,
		Language: lang,
	}
}

// startEdit locates the appointment being modified and asks what to change.
func (p *Planner) startEdit(ctx *ConversationContext, lang Language, draft *DraftBooking) *Plan {
	appt, ok := p.upcomingAppointment(ctx)
	if !ok {
		draft.reset()
		return &Plan{
			Action:   ActionNone,
			Messages: []MessageSegment{optionsSegment(msg("edit_none", lang), quickActions[lang])},
			Draft:    draft,
			Language: lang,
		}
	}

	draft.reset()
	draft.EditID = appt.ID.String()
	draft.Stage = StageEditChoice

	svcName := appt.ServiceID
	if svc, found := ctx.Catalog.ByID(appt.ServiceID); found {
		svcName = svc.Name(string(lang))
	}
	return &Plan{
		Action:   ActionNone,
		Messages: []MessageSegment{optionsSegment(msg("edit_choice", lang, svcName, appt.Date, appt.Time), editChoices[lang])},
		Draft:    draft,
		Language: lang,
	}
}

func (p *Planner) resolveEditChoice(text string, ctx *ConversationContext, lang Language, draft *DraftBooking) *Plan {
	appt, ok := findAppointment(ctx.Existing, draft.EditID)
	if !ok {
		draft.reset()
		return helpPlan(lang, draft)
	}

	t := strings.ToLower(strings.TrimSpace(text))
	switch {
	case strings.Contains(t, "date") || strings.Contains(t, "day") || strings.Contains(t, "تاريخ") || strings.Contains(t, "يوم"):
		draft.Stage = StageDate
		return replyText(msg("edit_ask_date", lang), lang, draft)

	case strings.Contains(t, "time") || strings.Contains(t, "وقت") || strings.Contains(t, "ساعة"):
		svc, okSvc := ctx.Catalog.ByID(appt.ServiceID)
		if !okSvc {
			draft.reset()
			return helpPlan(lang, draft)
		}
		existing := excludeAppointment(ctx.Existing, draft.EditID)
		slots := AvailableSlots(ctx.Catalog, appt.Date, existing, svc, p.clock(), p.buffer)
		if len(slots) == 0 {
			return &Plan{
				Action:   ActionNone,
				Messages: []MessageSegment{optionsSegment(msg("fully_booked", lang, appt.Date), editChoices[lang])},
				Draft:    draft,
				Language: lang,
			}
		}
		draft.OfferedSlots = slots
		draft.Stage = StageTime
		return &Plan{
			Action:   ActionNone,
			Messages: []MessageSegment{optionsSegment(msg("ask_time", lang, appt.Date), slots)},
			Draft:    draft,
			Language: lang,
		}

	case strings.Contains(t, "service") || strings.Contains(t, "خدمة") || strings.Contains(t, "الخدمة"):
		draft.Stage = StageService
		return &Plan{
			Action:   ActionNone,
			Messages: []MessageSegment{optionsSegment(msg("ask_service", lang), serviceMenu(ctx.Catalog, lang))},
			Draft:    draft,
			Language: lang,
		}

	case strings.Contains(t, "cancel") || strings.Contains(t, "إلغاء") || strings.Contains(t, "الغاء") || strings.Contains(t, "ألغي") || strings.Contains(t, "الغي"):
		draft.Stage = StageCancelConfirm
		return &Plan{
			Action:   ActionNone,
			Messages: []MessageSegment{optionsSegment(msg("cancel_confirm", lang, appt.Date, appt.Time), yesNoOptions[lang])},
			Draft:    draft,
			Language: lang,
		}
	}

	svcName := appt.ServiceID
	if svc, found := ctx.Catalog.ByID(appt.ServiceID); found {
		svcName = svc.Name(string(lang))
	}
	return &Plan{
		Action:   ActionNone,
		Messages: []MessageSegment{optionsSegment(msg("edit_choice", lang, svcName, appt.Date, appt.Time), editChoices[lang])},
		Draft:    draft,
		Language: lang,
	}
}

func (p *Planner) resolveCancelConfirmation(intent Intent, ctx *ConversationContext, lang Language, draft *DraftBooking) *Plan {
	switch intent {
	case IntentAffirm:
		data := &BookingData{ID: draft.EditID, Status: appointments.StatusCancelled}
		draft.Stage = StageCompleted
		return &Plan{
			Action:   ActionUpdateBooking,
			Data:     data,
			Messages: []MessageSegment{textSegment(msg("cancelled", lang))},
			Draft:    draft,
			Language: lang,
		}
	case IntentDeny, IntentCancel:
		draft.reset()
		return replyText(msg("kept", lang), lang, draft)
	}

	appt, ok := findAppointment(ctx.Existing, draft.EditID)
	if !ok {
		draft.reset()
		return helpPlan(lang, draft)
	}
	return &Plan{
		Action:   ActionNone,
		Messages: []MessageSegment{optionsSegment(msg("cancel_confirm", lang, appt.Date, appt.Time), yesNoOptions[lang])},
		Draft:    draft,
		Language: lang,
	}
}

// completeEdit emits the single-field update and closes the draft.
func (p *Planner) completeEdit(lang Language, draft *DraftBooking, data *BookingData) *Plan {
	draft.Stage = StageCompleted
	return &Plan{
		Action:   ActionUpdateBooking,
		Data:     data,
		Messages: []MessageSegment{textSegment(msg("edit_updated", lang))},
		Draft:    draft,
		Language: lang,
	}
}

// draftService resolves the service a draft is being validated against: the
// chosen one for fresh bookings, the booked one for edits.
func (p *Planner) draftService(ctx *ConversationContext, draft *DraftBooking) (catalog.Service, bool) {
	if draft.ServiceID != "" {
		return ctx.Catalog.ByID(draft.ServiceID)
	}
	if draft.editing() {
		if appt, ok := findAppointment(ctx.Existing, draft.EditID); ok {
			return ctx.Catalog.ByID(appt.ServiceID)
		}
	}
	return catalog.Service{}, false
}

// upcomingAppointment picks the appointment an edit refers to: the caller's
// soonest booked appointment on or after today. A caller with no known
// phone number cannot be matched to a booking, so edits find nothing.
func (p *Planner) upcomingAppointment(ctx *ConversationContext) (appointments.Appointment, bool) {
	if ctx.CustomerPhone == "" {
		return appointments.Appointment{}, false
	}
	today := p.clock().Format(isoDate)
	var best appointments.Appointment
	found := false
	for _, appt := range ctx.Existing {
		if appt.Status == appointments.StatusCancelled || appt.Date < today {
			continue
		}
		if appt.CustomerPhone != ctx.CustomerPhone {
			continue
		}
		if !found || appt.Date < best.Date || (appt.Date == best.Date && appt.Time < best.Time) {
			best = appt
			found = true
		}
	}
	return best, found
}

func findAppointment(existing []appointments.Appointment, id string) (appointments.Appointment, bool) {
	for _, appt := range existing {
		if appt.ID.String() == id {
			return appt, true
		}
	}
	return appointments.Appointment{}, false
}

func excludeAppointment(existing []appointments.Appointment, id string) []appointments.Appointment {
	out := make([]appointments.Appointment, 0, len(existing))
	for _, appt := range existing {
		if appt.ID.String() != id {
			out = append(out, appt)
		}
	}
	return out
}

func replyText(text string, lang Language, draft *DraftBooking) *Plan {
	return &Plan{
		Action:   ActionNone,
		Messages: []MessageSegment{textSegment(text)},
		Draft:    draft,
		Language: lang,
	}
}
