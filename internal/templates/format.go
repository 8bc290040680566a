package templates

import (
	"regexp"
	"strings"
)

var codeParts = regexp.MustCompile(`^([a-zA-Z]+)(\d+)$`)

// FormatCourseCode renders a course code for display: "btc101" becomes
// "BTC 101". Codes without a letters-then-digits shape are uppercased.
func FormatCourseCode(code string) string {
	if m := codeParts.FindStringSubmatch(code); m != nil {
		return strings.ToUpper(m[1]) + " " + m[2]
	}
	return strings.ToUpper(code)
}

var languageNames = map[string]string{
	"en":      "English",
	"fr":      "Français",
	"es":      "Español",
	"de":      "Deutsch",
	"it":      "Italiano",
	"pt":      "Português",
	"ja":      "日本語",
	"ko":      "한국어",
	"ru":      "Русский",
	"zh-Hans": "简体中文",
	"zh-Hant": "繁體中文",
	"vi":      "Tiếng Việt",
	"cs":      "Čeština",
	"fi":      "Suomi",
	"et":      "Eesti",
	"id":      "Bahasa Indonesia",
	"pl":      "Polski",
	"hi":      "हिन्दी",
	"sr-Latn": "Srpski",
	"sv":      "Svenska",
	"nl":      "Nederlands",
	"nb-NO":   "Norsk Bokmål",
	"tr":      "Türkçe",
	"fa":      "فارسی",
	"sw":      "Kiswahili",
	"rn":      "Ikirundi",
	"bg":      "Български",
	"th":      "ไทย",
}

// LanguageName returns the native name of a language code, or the code
// itself when it is not known.
func LanguageName(lang string) string {
	if name, ok := languageNames[lang]; ok {
		return name
	}
	return lang
}
