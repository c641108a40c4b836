package dialogue

import (
	"regexp"
	"strings"
	"time"
)

// isoDate is the wire format for calendar days throughout the engine.
const isoDate = "2006-01-02"

var (
	isoDateRE   = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	dayMonthRE  = regexp.MustCompile(`\b(\d{1,2})[/.-](\d{1,2})(?:[/.-](\d{2,4}))?\b`)
	monthNameRE = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\b`)
)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday,
	"friday": time.Friday, "saturday": time.Saturday,
	"الأحد": time.Sunday, "الاحد": time.Sunday,
	"الاثنين": time.Monday, "الإثنين": time.Monday,
	"الثلاثاء": time.Tuesday, "الاربعاء": time.Wednesday, "الأربعاء": time.Wednesday,
	"الخميس": time.Thursday, "الجمعة": time.Friday, "السبت": time.Saturday,
}

// normalizeDigits maps Arabic-Indic digits to ASCII so numeric answers typed
// on an Arabic keyboard parse the same way.
func normalizeDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= '٠' && r <= '٩': // Arabic-Indic
			b.WriteRune('0' + (r - '٠'))
		case r >= '۰' && r <= '۹': // Extended Arabic-Indic
			b.WriteRune('0' + (r - '۰'))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// parseDate resolves free text to a calendar day. It accepts relative terms
// in both languages (today, tomorrow, day after tomorrow, weekday names) and
// explicit forms (2026-09-02, 2/9, 14/9/2026, "5 September"). The boolean is
// false when nothing parseable was found.
func parseDate(text string, now time.Time) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(normalizeDigits(text)))
	if t == "" {
		return "", false
	}
	base := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	// Relative terms first; "بعد غد" must beat "غد".
	switch {
	case strings.Contains(t, "day after tomorrow"), strings.Contains(t, "بعد غد"), strings.Contains(t, "بعد بكرة"), strings.Contains(t, "بعد بكره"):
		return base.AddDate(0, 0, 2).Format(isoDate), true
	case strings.Contains(t, "tomorrow"), strings.Contains(t, "غدا"), strings.Contains(t, "غداً"), strings.Contains(t, "غدًا"), strings.Contains(t, "غد"), strings.Contains(t, "بكرة"), strings.Contains(t, "بكره"):
		return base.AddDate(0, 0, 1).Format(isoDate), true
	case strings.Contains(t, "today"), strings.Contains(t, "اليوم"), strings.Contains(t, "النهاردة"):
		return base.Format(isoDate), true
	}

	// Weekday names resolve to the next occurrence (today counts).
	for name, wd := range weekdayNames {
		if strings.Contains(t, name) {
			delta := (int(wd) - int(base.Weekday()) + 7) % 7
			return base.AddDate(0, 0, delta).Format(isoDate), true
		}
	}

	if m := isoDateRE.FindStringSubmatch(t); m != nil {
		if parsed, err := time.ParseInLocation(isoDate, m[0], now.Location()); err == nil {
			return parsed.Format(isoDate), true
		}
	}

	if m := monthNameRE.FindStringSubmatch(t); m != nil {
		day := atoi(m[1])
		month := monthsByPrefix[m[2]]
		if validDay(day, month) {
			year := base.Year()
			candidate := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
			if candidate.Before(base) {
				candidate = candidate.AddDate(1, 0, 0)
			}
			if exactDay(candidate, day, month) {
				return candidate.Format(isoDate), true
			}
		}
	}

	// Day/month ordering: "2/9" is the 2nd of September.
	if m := dayMonthRE.FindStringSubmatch(t); m != nil {
		day := atoi(m[1])
		month := time.Month(atoi(m[2]))
		if validDay(day, month) {
			year := base.Year()
			if m[3] != "" {
				year = atoi(m[3])
				if year < 100 {
					year += 2000
				}
			}
			candidate := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
			if m[3] == "" && candidate.Before(base) {
				candidate = candidate.AddDate(1, 0, 0)
			}
			if exactDay(candidate, day, month) {
				return candidate.Format(isoDate), true
			}
		}
	}

	return "", false
}

func validDay(day int, month time.Month) bool {
	return day >= 1 && day <= 31 && month >= time.January && month <= time.December
}

// exactDay guards against time.Date normalization: "31/2" would silently
// become March 3 and book a day the user never typed.
func exactDay(candidate time.Time, day int, month time.Month) bool {
	return candidate.Day() == day && candidate.Month() == month
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return -1
		}
		n = n*10 + int(r-'0')
	}
	return n
}

var clockRE = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(am|pm|صباحا|صباحاً|مساء|مساءً)?\b`)

// parseClock normalizes a time-of-day answer ("16:00", "4pm", "٤ مساء") to
// HH:MM. The boolean is false when no time is present.
func parseClock(text string) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(normalizeDigits(text)))
	m := clockRE.FindStringSubmatch(t)
	if m == nil {
		return "", false
	}
	hour := atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute = atoi(m[2])
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return "", false
	}
	// The regex only captures ASCII meridiem suffixes; Arabic markers sit
	// outside its word boundaries, so scan the text for them too.
	pm := m[3] == "pm" || strings.Contains(t, "مساء")
	am := m[3] == "am" || strings.Contains(t, "صباح")
	switch {
	case pm:
		if hour < 12 {
			hour += 12
		}
	case am:
		if hour == 12 {
			hour = 0
		}
	default:
		// Bare small hours in a barbershop context mean afternoon: "4" is
		// 16:00, not 04:00.
		if m[2] == "" && hour >= 1 && hour <= 7 {
			hour += 12
		}
	}
	return clockString(hour, minute), true
}

func clockString(hour, minute int) string {
	return twoDigits(hour) + ":" + twoDigits(minute)
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + string(rune('0'+n))
	}
	return string(rune('0'+n/10)) + string(rune('0'+n%10))
}

// digitsOnly strips everything but digits, mapping Arabic-Indic digits on
// the way; used to normalize phone numbers.
func digitsOnly(s string) string {
	s = normalizeDigits(s)
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
