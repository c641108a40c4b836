package dialogue

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Intent is the classified purpose of one user message.
type Intent string

const (
	IntentGreeting    Intent = "greeting"
	IntentBook        Intent = "book"
	IntentPrices      Intent = "prices"
	IntentStyleAdvice Intent = "style_advice"
	IntentHours       Intent = "hours"
	IntentAffirm      Intent = "affirm"
	IntentDeny        Intent = "deny"
	IntentCancel      Intent = "cancel"
	IntentReschedule  Intent = "reschedule"
	IntentSlotFill    Intent = "slot_fill"
	IntentUnknown     Intent = "unknown"
)

// intentRule maps a set of trigger phrases to an intent. Rules are evaluated
// in order with first-match-wins semantics so more specific phrases must
// come before the generic ones they contain ("cancel my appointment" before
// "cancel").
type intentRule struct {
	intent  Intent
	phrases []string
}

var englishRules = []intentRule{
	{IntentReschedule, []string{
		"cancel my appointment", "cancel appointment", "cancel my booking",
		"reschedule", "change my appointment", "change appointment",
		"edit my appointment", "edit appointment", "move my appointment",
		"change my booking", "update my appointment",
	}},
	{IntentCancel, []string{"cancel", "restart", "start over", "never mind", "nevermind", "forget it", "stop"}},
	{IntentBook, []string{"book", "booking", "appointment", "reserve", "reservation", "schedule"}},
	{IntentPrices, []string{"price", "prices", "cost", "how much", "service", "services", "menu"}},
	{IntentStyleAdvice, []string{"style", "advice", "recommend", "suggest", "what suits", "which haircut", "look good"}},
	{IntentHours, []string{"hours", "open", "close", "closing", "working time", "when do you"}},
	{IntentAffirm, []string{"yes", "confirm", "yep", "yeah", "sure", "okay", "ok", "sounds good", "correct"}},
	{IntentDeny, []string{"no", "nope", "nah", "wrong"}},
	{IntentGreeting, []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening", "salam"}},
}

var arabicRules = []intentRule{
	{IntentReschedule, []string{
		"الغاء موعدي", "إلغاء موعدي", "الغاء الموعد", "إلغاء الموعد",
		"غير موعدي", "تغيير موعدي", "تغيير الموعد", "تعديل موعدي", "تعديل الموعد", "تأجيل",
	}},
	{IntentCancel, []string{"الغاء", "إلغاء", "الغي", "ألغي", "ابدأ من جديد", "خلاص", "توقف"}},
	// The definite article fuses onto Arabic words, so prefixed forms are
	// listed alongside the bare ones now that matching is whole-word.
	{IntentBook, []string{"حجز", "احجز", "أحجز", "موعد", "الحجز", "الموعد"}},
	{IntentPrices, []string{"سعر", "اسعار", "أسعار", "السعر", "الاسعار", "الأسعار", "كم", "الخدمات", "خدمات", "قائمة"}},
	{IntentStyleAdvice, []string{"قصة", "نصيحة", "اقترح", "اقتراح", "يناسبني", "ستايل", "تسريحة"}},
	{IntentHours, []string{"ساعات", "دوام", "متى تفتح", "مفتوح", "وقت العمل", "متى تغلق"}},
	{IntentAffirm, []string{"نعم", "اكد", "أكد", "تأكيد", "اكيد", "أكيد", "تمام", "موافق", "أجل", "ايوه"}},
	{IntentDeny, []string{"لا", "كلا", "غلط"}},
	{IntentGreeting, []string{"مرحبا", "مرحباً", "اهلا", "أهلا", "السلام عليكم", "هاي", "صباح الخير", "مساء الخير"}},
}

// Classify maps user text to an intent. While a draft booking is awaiting a
// specific field, free text that is not a control phrase (cancel, restart,
// reschedule) is treated as the answer to that field rather than
// re-classified as a fresh top-level intent; that override is what lets a
// bare phone number or a date be understood mid-flow.
func Classify(text string, lang Language, stage Stage) Intent {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		if stage.active() {
			return IntentSlotFill
		}
		return IntentUnknown
	}

	rules := englishRules
	if lang == LanguageArabic {
		rules = arabicRules
	}

	matched := IntentUnknown
	for _, rule := range rules {
		if matchesAny(normalized, rule.phrases) {
			matched = rule.intent
			break
		}
	}

	if !stage.active() {
		if matched != IntentUnknown {
			return matched
		}
		return IntentUnknown
	}

	// Mid-flow: only control intents and stage-appropriate yes/no pass
	// through; everything else is a slot-fill answer.
	switch matched {
	case IntentCancel, IntentReschedule:
		// The edit menu owns cancel wording; "Cancel appointment" there is
		// the menu choice, not an abort.
		if stage == StageEditChoice {
			return IntentSlotFill
		}
		return IntentCancel
	case IntentAffirm, IntentDeny:
		if stage == StageConfirm || stage == StageCancelConfirm {
			return matched
		}
	}
	return IntentSlotFill
}

// matchesAny reports whether any phrase occurs in the text on word
// boundaries. Plain substring search misfires on the short phrases ("hi"
// inside "this", "no" inside "now"), so a hit only counts when the runes
// around it are not letters or digits.
func matchesAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if containsPhrase(text, p) {
			return true
		}
	}
	return false
}

func containsPhrase(text, phrase string) bool {
	for from := 0; ; {
		i := strings.Index(text[from:], phrase)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(phrase)
		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if !isWordRune(before) && !isWordRune(after) {
			return true
		}
		from = start + 1
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
