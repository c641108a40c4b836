package hours

import (
	"fmt"
	"time"
)

// Interval is one continuous open window in a day, in minutes since
// midnight.
type Interval struct {
	Open  int
	Close int
}

// Schedule is the static weekly opening-hours table.
type Schedule struct {
	days map[time.Weekday][]Interval
}

// Default returns the shop's standard week: 10:00–20:00 daily, with Friday
// opening after the midday prayer.
func Default() *Schedule {
	full := []Interval{{Open: 10 * 60, Close: 20 * 60}}
	friday := []Interval{{Open: 14 * 60, Close: 20 * 60}}
	return &Schedule{days: map[time.Weekday][]Interval{
		time.Sunday:    full,
		time.Monday:    full,
		time.Tuesday:   full,
		time.Wednesday: full,
		time.Thursday:  full,
		time.Friday:    friday,
		time.Saturday:  full,
	}}
}

// IsOpen reports whether the shop is open at the given instant.
func (s *Schedule) IsOpen(at time.Time) bool {
	minutes := at.Hour()*60 + at.Minute()
	for _, iv := range s.days[at.Weekday()] {
		if minutes >= iv.Open && minutes < iv.Close {
			return true
		}
	}
	return false
}

// NextOpen returns the next instant the shop opens at or after the given
// time. If the shop is already open, the current time is returned.
func (s *Schedule) NextOpen(at time.Time) time.Time {
	if s.IsOpen(at) {
		return at
	}
	probe := at
	for day := 0; day < 8; day++ {
		minutes := probe.Hour()*60 + probe.Minute()
		if day > 0 {
			minutes = -1 // any opening that day counts
		}
		for _, iv := range s.days[probe.Weekday()] {
			if iv.Open > minutes {
				return time.Date(probe.Year(), probe.Month(), probe.Day(), iv.Open/60, iv.Open%60, 0, 0, at.Location())
			}
		}
		probe = probe.AddDate(0, 0, 1)
	}
	return at // closed all week: degenerate schedule
}

// DayText renders the opening windows for the weekday of the given time.
func (s *Schedule) DayText(at time.Time) string {
	ivs := s.days[at.Weekday()]
	if len(ivs) == 0 {
		return "closed"
	}
	out := ""
	for i, iv := range ivs {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%02d:%02d–%02d:%02d", iv.Open/60, iv.Open%60, iv.Close/60, iv.Close%60)
	}
	return out
}

// Describe renders a localized hours summary for a chat reply.
func (s *Schedule) Describe(lang string, at time.Time) string {
	today := s.DayText(at)
	if lang == "ar" {
		state := "مغلق الآن"
		if s.IsOpen(at) {
			state = "مفتوح الآن"
		}
		text := fmt.Sprintf("%s — ساعات اليوم: %s.\nدوامنا يومياً من 10:00 إلى 20:00، والجمعة من 14:00 إلى 20:00.", state, today)
		if !s.IsOpen(at) {
			next := s.NextOpen(at)
			text += fmt.Sprintf("\nنفتح مرة ثانية %s الساعة %02d:%02d.", arabicWeekday(next.Weekday()), next.Hour(), next.Minute())
		}
		return text
	}

	state := "We're closed right now"
	if s.IsOpen(at) {
		state = "We're open now"
	}
	text := fmt.Sprintf("%s — today's hours: %s.\nWe're open daily 10:00–20:00, Fridays 14:00–20:00.", state, today)
	if !s.IsOpen(at) {
		next := s.NextOpen(at)
		text += fmt.Sprintf("\nWe open again on %s at %02d:%02d.", next.Weekday(), next.Hour(), next.Minute())
	}
	return text
}

func arabicWeekday(wd time.Weekday) string {
	switch wd {
	case time.Sunday:
		return "الأحد"
	case time.Monday:
		return "الاثنين"
	case time.Tuesday:
		return "الثلاثاء"
	case time.Wednesday:
		return "الأربعاء"
	case time.Thursday:
		return "الخميس"
	case time.Friday:
		return "الجمعة"
	default:
		return "السبت"
	}
}
