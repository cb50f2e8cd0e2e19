package language

import (
	"strings"

	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Word forms that show up in transcription tool output instead of tags.
var wordForms = map[string]string{
	"english":    "en",
	"spanish":    "es",
	"french":     "fr",
	"german":     "de",
	"italian":    "it",
	"portuguese": "pt",
	"japanese":   "ja",
	"korean":     "ko",
	"chinese":    "zh",
	"russian":    "ru",
	"arabic":     "ar",
	"hindi":      "hi",
	"dutch":      "nl",
}

func parse(code string) (xlanguage.Tag, bool) {
	code = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(code, "_", "-")))
	if code == "" {
		return xlanguage.Und, false
	}
	if mapped, ok := wordForms[code]; ok {
		code = mapped
	}
	tag, err := xlanguage.Parse(code)
	if err != nil {
		return xlanguage.Und, false
	}
	return tag, true
}

// Normalize canonicalizes a BCP 47 tag, ISO 639 code, or English word form.
// Unrecognized input is returned lowercased and trimmed with ok=false.
func Normalize(code string) (string, bool) {
	tag, ok := parse(code)
	if !ok {
		return strings.ToLower(strings.TrimSpace(code)), false
	}
	return tag.String(), true
}

// ToISO2 returns the two-letter base language, or "" when none exists.
func ToISO2(code string) string {
	tag, ok := parse(code)
	if !ok {
		return ""
	}
	base, confidence := tag.Base()
	if confidence == xlanguage.No {
		return ""
	}
	if s := base.String(); len(s) == 2 {
		return s
	}
	return ""
}

// ToISO3 returns the ISO 639-2 code, or "und" for unrecognized input.
func ToISO3(code string) string {
	tag, ok := parse(code)
	if !ok {
		return "und"
	}
	base, confidence := tag.Base()
	if confidence == xlanguage.No {
		return "und"
	}
	return base.ISO3()
}

// DisplayName returns an English name for the language.
// Returns "Unknown" for empty input, or the uppercased code for unrecognized input.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	tag, ok := parse(code)
	if !ok {
		return strings.ToUpper(strings.TrimSpace(code))
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return strings.ToUpper(strings.TrimSpace(code))
}
