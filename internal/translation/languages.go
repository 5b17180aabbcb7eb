package translation

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Language is one entry of the language picker
type Language struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Native string `json:"native"`
}

var supportedLanguages = []Language{
	{Code: "en", Name: "English", Native: "English"},
	{Code: "hi", Name: "Hindi", Native: "हिन्दी"},
	{Code: "ta", Name: "Tamil", Native: "தமிழ்"},
	{Code: "te", Name: "Telugu", Native: "తెలుగు"},
	{Code: "bn", Name: "Bengali", Native: "বাংলা"},
	{Code: "mr", Name: "Marathi", Native: "मराठी"},
	{Code: "gu", Name: "Gujarati", Native: "ગુજરાતી"},
	{Code: "kn", Name: "Kannada", Native: "ಕನ್ನಡ"},
	{Code: "ml", Name: "Malayalam", Native: "മലയാളം"},
	{Code: "pa", Name: "Punjabi", Native: "ਪੰਜਾਬੀ"},
	{Code: "ur", Name: "Urdu", Native: "اردو"},
}

// SupportedLanguages returns the languages offered to users, English first
func SupportedLanguages() []Language {
	out := make([]Language, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}

// ResolveLanguage maps a language name or BCP-47 code to the English
// language name used in prompts. Unknown input is passed through trimmed.
func ResolveLanguage(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}

	for _, l := range supportedLanguages {
		if strings.EqualFold(input, l.Name) || strings.EqualFold(input, l.Code) || input == l.Native {
			return l.Name
		}
	}

	tag, err := language.Parse(input)
	if err != nil {
		return input
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return input
}

// metricLabel keeps the language label bounded to the supported set
func metricLabel(name string) string {
	for _, l := range supportedLanguages {
		if l.Name == name {
			return l.Code
		}
	}
	return "other"
}
