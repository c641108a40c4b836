package dialogue

import (
	"fmt"
	"strings"

	"github.com/rashadk/barberai-platform/internal/catalog"
)

// messages holds every user-facing string, keyed by message ID then
// language. The composer always renders in the conversation language,
// independent of which rule table matched the input.
var messages = map[string]map[Language]string{
	"greeting": {
		LanguageEnglish: "Hey! I'm BarberAI. How can I help today?",
		LanguageArabic:  "أهلاً! أنا BarberAI. كيف أقدر أساعدك اليوم؟",
	},
	"help": {
		LanguageEnglish: "I can help with any of these:",
		LanguageArabic:  "أقدر أساعدك في أي من التالي:",
	},
	"unknown": {
		LanguageEnglish: "Sorry, I didn't catch that. Here's what I can do:",
		LanguageArabic:  "عذراً، ما فهمت قصدك. هذا ما أقدر أسويه:",
	},
	"ask_service": {
		LanguageEnglish: "Great, let's book you in. Which service would you like?",
		LanguageArabic:  "ممتاز، خلنا نحجز لك. أي خدمة تحب؟",
	},
	"invalid_service": {
		LanguageEnglish: "I couldn't match that to a service. Please pick one of these:",
		LanguageArabic:  "ما قدرت أطابق هذا مع خدمة. اختر وحدة من هذه:",
	},
	"ask_date": {
		LanguageEnglish: "Which day works for you? You can say \"today\", \"tomorrow\", or a date like 14/9.",
		LanguageArabic:  "أي يوم يناسبك؟ تقدر تقول \"اليوم\" أو \"غداً\" أو تاريخ مثل 14/9.",
	},
	"invalid_date": {
		LanguageEnglish: "I couldn't read that as a date. Try \"tomorrow\" or a date like 14/9.",
		LanguageArabic:  "ما قدرت أفهم التاريخ. جرب \"غداً\" أو تاريخ مثل 14/9.",
	},
	"past_date": {
		LanguageEnglish: "That day has already passed. Please pick a future date.",
		LanguageArabic:  "هذا اليوم راح. اختر تاريخ قادم من فضلك.",
	},
	"fully_booked": {
		LanguageEnglish: "We're fully booked on %s. Could you try a different day?",
		LanguageArabic:  "الحجوزات مكتملة يوم %s. ممكن تجرب يوم ثاني؟",
	},
	"ask_time": {
		LanguageEnglish: "Here are the open times on %s:",
		LanguageArabic:  "هذه الأوقات المتاحة يوم %s:",
	},
	"invalid_time": {
		LanguageEnglish: "That time isn't available anymore. These are the current options:",
		LanguageArabic:  "هذا الوقت ما عاد متاح. هذه الخيارات الحالية:",
	},
	"ask_name": {
		LanguageEnglish: "What name should I put the booking under?",
		LanguageArabic:  "باسم مين أسجل الحجز؟",
	},
	"ask_phone": {
		LanguageEnglish: "And a phone number to confirm the booking?",
		LanguageArabic:  "ورقم جوال لتأكيد الحجز؟",
	},
	"invalid_phone": {
		LanguageEnglish: "That doesn't look like a valid phone number — I need at least 7 digits.",
		LanguageArabic:  "الرقم ما يبدو صحيح — أحتاج 7 أرقام على الأقل.",
	},
	"summary": {
		LanguageEnglish: "Here's your booking:\nService: %s\nDate: %s\nTime: %s\nName: %s\nPhone: %s\n\nShall I confirm it?",
		LanguageArabic:  "هذا ملخص حجزك:\nالخدمة: %s\nالتاريخ: %s\nالوقت: %s\nالاسم: %s\nالجوال: %s\n\nأأكد الحجز؟",
	},
	"booked": {
		LanguageEnglish: "All set! Your appointment is confirmed. See you soon ✂️",
		LanguageArabic:  "تم! موعدك مؤكد. نشوفك قريباً ✂️",
	},
	"discarded": {
		LanguageEnglish: "No problem, I've cancelled that. Anything else?",
		LanguageArabic:  "ولا يهمك، ألغيت العملية. شي ثاني؟",
	},
	"prices_header": {
		LanguageEnglish: "Here's our service list:",
		LanguageArabic:  "هذه قائمة خدماتنا:",
	},
	"style_advice": {
		LanguageEnglish: "For a low-maintenance look, a classic taper works with almost any hair type. If you want something sharper, a skin fade with a textured top is our most requested style. Round faces usually suit more volume on top; square faces can carry shorter sides. Want to book a cut and talk it over with the barber?",
		LanguageArabic:  "إذا تبغى قصة عملية، التدريج الكلاسيكي يناسب أغلب أنواع الشعر. وإذا تبغى شكل أحدث، الفيد مع تكستشر فوق هو الأكثر طلباً عندنا. الوجه الدائري يناسبه حجم أكثر فوق، والوجه المربع تناسبه الجوانب القصيرة. تحب تحجز وتستشير الحلاق؟",
	},
	"edit_none": {
		LanguageEnglish: "I couldn't find an upcoming appointment for you. Would you like to book a new one?",
		LanguageArabic:  "ما لقيت موعد قادم باسمك. تحب تحجز موعد جديد؟",
	},
	"edit_choice": {
		LanguageEnglish: "You have %s on %s at %s. What would you like to change?",
		LanguageArabic:  "عندك %s يوم %s الساعة %s. وش تحب تغير؟",
	},
	"edit_ask_date": {
		LanguageEnglish: "Which day should I move it to?",
		LanguageArabic:  "أي يوم أنقل الموعد له؟",
	},
	"edit_same_slot_taken": {
		LanguageEnglish: "Your current time isn't free on %s. Here are the open times:",
		LanguageArabic:  "وقتك الحالي مو متاح يوم %s. هذه الأوقات المتاحة:",
	},
	"edit_updated": {
		LanguageEnglish: "Done — your appointment has been updated.",
		LanguageArabic:  "تم — عدّلت موعدك.",
	},
	"cancel_confirm": {
		LanguageEnglish: "Are you sure you want to cancel your appointment on %s at %s?",
		LanguageArabic:  "متأكد تبغى تلغي موعدك يوم %s الساعة %s؟",
	},
	"kept": {
		LanguageEnglish: "Okay, your appointment stays as it is.",
		LanguageArabic:  "تمام، موعدك باقٍ كما هو.",
	},
	"cancelled": {
		LanguageEnglish: "Your appointment has been cancelled. Hope to see you another time!",
		LanguageArabic:  "تم إلغاء موعدك. نتمنى نشوفك في وقت ثاني!",
	},
}

// menu option labels
var quickActions = map[Language][]string{
	LanguageEnglish: {"Book appointment", "Prices & services", "Style advice", "Opening hours"},
	LanguageArabic:  {"حجز موعد", "الأسعار والخدمات", "نصيحة قصة", "ساعات العمل"},
}

var confirmOptions = map[Language][]string{
	LanguageEnglish: {"confirm", "cancel"},
	LanguageArabic:  {"تأكيد", "إلغاء"},
}

var yesNoOptions = map[Language][]string{
	LanguageEnglish: {"yes", "no"},
	LanguageArabic:  {"نعم", "لا"},
}

var editChoices = map[Language][]string{
	LanguageEnglish: {"Change date", "Change time", "Change service", "Cancel appointment"},
	LanguageArabic:  {"تغيير التاريخ", "تغيير الوقت", "تغيير الخدمة", "إلغاء الموعد"},
}

// msg fetches a localized string, formatting args into its placeholders.
func msg(id string, lang Language, args ...any) string {
	byLang, ok := messages[id]
	if !ok {
		return id
	}
	s, ok := byLang[lang]
	if !ok {
		s = byLang[LanguageEnglish]
	}
	if len(args) == 0 {
		return s
	}
	return fmt.Sprintf(s, args...)
}

func serviceMenu(cat *catalog.Catalog, lang Language) []string {
	services := cat.Services()
	out := make([]string, 0, len(services))
	for _, svc := range services {
		out = append(out, svc.Label(string(lang)))
	}
	return out
}

func priceList(cat *catalog.Catalog, lang Language) string {
	var b strings.Builder
	b.WriteString(msg("prices_header", lang))
	for _, svc := range cat.Services() {
		b.WriteString("\n- ")
		b.WriteString(svc.Label(string(lang)))
	}
	return b.String()
}

func greetingPlan(lang Language, draft *DraftBooking) *Plan {
	return &Plan{
		Action:   ActionNone,
		Messages: []MessageSegment{optionsSegment(msg("greeting", lang), quickActions[lang])},
		Draft:    draft,
		Language: lang,
	}
}

func helpPlan(lang Language, draft *DraftBooking) *Plan {
	return &Plan{
		Action:   ActionNone,
		Messages: []MessageSegment{optionsSegment(msg("unknown", lang), quickActions[lang])},
		Draft:    draft,
		Language: lang,
	}
}
