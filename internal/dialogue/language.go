package dialogue

import "unicode"

// Language identifies one of the two supported conversation languages.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
)

// arabicRatioThreshold is the proportion of letters that must be
// Arabic-script for a message to classify as Arabic.
const arabicRatioThreshold = 0.3

// DetectLanguage classifies text as Arabic or English by scanning for
// Arabic-script code points. Empty or letterless input returns the fallback.
func DetectLanguage(text string, fallback Language) Language {
	if fallback == "" {
		fallback = LanguageEnglish
	}
	letters := 0
	arabic := 0
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.Is(unicode.Arabic, r) {
			arabic++
		}
	}
	if letters == 0 {
		return fallback
	}
	if float64(arabic)/float64(letters) >= arabicRatioThreshold {
		return LanguageArabic
	}
	return LanguageEnglish
}
