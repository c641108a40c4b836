package calendar

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Event is the calendar payload for a confirmed appointment.
type Event struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Location    string
}

const icsTimestamp = "20060102T150405Z"

// ICS renders the event as an RFC 5545 calendar file body. Lines are
// CRLF-terminated as the format requires.
func ICS(ev Event) string {
	var b strings.Builder
	write := func(line string) {
		b.WriteString(line)
		b.WriteString("\r\n")
	}
	write("BEGIN:VCALENDAR")
	write("VERSION:2.0")
	write("PRODID:-//BarberAI//Booking//EN")
	write("CALSCALE:GREGORIAN")
	write("METHOD:PUBLISH")
	write("BEGIN:VEVENT")
	write("UID:" + uuid.NewString() + "@barberai")
	write("DTSTAMP:" + time.Now().UTC().Format(icsTimestamp))
	write("DTSTART:" + ev.Start.UTC().Format(icsTimestamp))
	write("DTEND:" + ev.End.UTC().Format(icsTimestamp))
	write("SUMMARY:" + escapeICS(ev.Title))
	if ev.Description != "" {
		write("DESCRIPTION:" + escapeICS(ev.Description))
	}
	if ev.Location != "" {
		write("LOCATION:" + escapeICS(ev.Location))
	}
	write("END:VEVENT")
	write("END:VCALENDAR")
	return b.String()
}

// escapeICS escapes the characters RFC 5545 treats specially in text values.
func escapeICS(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\n", "\\n",
	)
	return r.Replace(s)
}

// GoogleURL builds the calendar.google.com template link for the event.
func GoogleURL(ev Event) string {
	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", ev.Title)
	q.Set("dates", fmt.Sprintf("%s/%s", ev.Start.UTC().Format(icsTimestamp), ev.End.UTC().Format(icsTimestamp)))
	if ev.Description != "" {
		q.Set("details", ev.Description)
	}
	if ev.Location != "" {
		q.Set("location", ev.Location)
	}
	return "https://calendar.google.com/calendar/render?" + q.Encode()
}
