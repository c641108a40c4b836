package dialogue

import (
	"time"

	"github.com/rashadk/barberai-platform/internal/appointments"
	"github.com/rashadk/barberai-platform/internal/catalog"
)

// defaultSlotTemplate is the fixed daily opening grid: hourly from opening
// to closing with a midday gap at 14:00.
var defaultSlotTemplate = []string{
	"10:00", "11:00", "12:00", "13:00",
	"15:00", "16:00", "17:00", "18:00", "19:00",
}

// sameDayLeadBuffer is the minimum notice required for a same-day slot.
const sameDayLeadBuffer = 45 * time.Minute

// AvailableSlots computes which template slots remain bookable on a date for
// a service. A slot is removed when the candidate interval
// [slot, slot+duration) overlaps any existing booked appointment's interval
// on that date, so an earlier long service blocks a later short one. For the
// current calendar day, slots starting less than the lead buffer from now
// are also removed. The result is ascending; empty means fully booked.
func AvailableSlots(
	cat *catalog.Catalog,
	date string,
	existing []appointments.Appointment,
	svc catalog.Service,
	now time.Time,
	buffer time.Duration,
) []string {
	if buffer <= 0 {
		buffer = sameDayLeadBuffer
	}
	duration := svc.DurationMinutes
	if duration <= 0 {
		duration = 30
	}

	isToday := now.Format(isoDate) == date
	nowMinutes := now.Hour()*60 + now.Minute()
	bufferMinutes := int(buffer / time.Minute)

	out := make([]string, 0, len(defaultSlotTemplate))
	for _, slot := range defaultSlotTemplate {
		start, ok := slotMinutes(slot)
		if !ok {
			continue
		}
		if isToday && start-nowMinutes < bufferMinutes {
			continue
		}
		end := start + duration
		if overlapsExisting(cat, date, existing, start, end) {
			continue
		}
		out = append(out, slot)
	}
	return out
}

func overlapsExisting(cat *catalog.Catalog, date string, existing []appointments.Appointment, start, end int) bool {
	for _, appt := range existing {
		if appt.Date != date || appt.Status == appointments.StatusCancelled {
			continue
		}
		apptStart, ok := slotMinutes(appt.Time)
		if !ok {
			continue
		}
		apptDuration := 30
		if svc, found := cat.ByID(appt.ServiceID); found {
			apptDuration = svc.DurationMinutes
		}
		apptEnd := apptStart + apptDuration
		if start < apptEnd && apptStart < end {
			return true
		}
	}
	return false
}

// slotMinutes converts "HH:MM" to minutes since midnight.
func slotMinutes(s string) (int, bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, false
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

func containsSlot(slots []string, candidate string) bool {
	for _, s := range slots {
		if s == candidate {
			return true
		}
	}
	return false
}
