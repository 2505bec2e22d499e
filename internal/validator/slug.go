// Package validator holds the field rules shared by the note and comment
// services: slug derivation and checks, and the banned-word filter.
package validator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gosimple/slug"
)

const (
	MaxSlugLength  = 100
	MaxTitleLength = 100

	// SlugWarning is appended to the offending slug in the field error.
	SlugWarning = " - такой slug уже существует, придумайте уникальное значение!"
)

// Required is the message for an empty mandatory field.
const Required = "Обязательное поле."

// TooLong is the message for a value longer than max characters.
func TooLong(max int) string {
	return fmt.Sprintf("Убедитесь, что это значение содержит не более %d символов.", max)
}

// CheckLength returns Required or TooLong for s, or "" if it fits.
func CheckLength(s string, max int) string {
	switch {
	case s == "":
		return Required
	case utf8.RuneCountInString(s) > max:
		return TooLong(max)
	}
	return ""
}

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// reserved are path segments under /notes/ that a slug would shadow.
var reserved = map[string]bool{
	"add":  true,
	"done": true,
}

// russian spells out the letters whose Latin form differs from the
// unidecode default used by slug.Make ("х" is "h", not "kh").
var russian = strings.NewReplacer(
	"Ё", "Yo", "ё", "yo",
	"Й", "J", "й", "j",
	"Х", "H", "х", "h",
	"Ц", "Ts", "ц", "ts",
	"Щ", "Sch", "щ", "sch",
	"Ъ", "", "ъ", "",
	"Ы", "Yi", "ы", "yi",
	"Ь", "", "ь", "",
	"Ю", "Yu", "ю", "yu",
	"Я", "Ya", "я", "ya",
)

// Slugify derives a URL-safe slug from a title. Cyrillic and other
// non-Latin letters are transliterated: "Заголовок" becomes "zagolovok".
// The result is cut to MaxSlugLength without a trailing hyphen.
func Slugify(title string) string {
	s := slug.Make(russian.Replace(title))
	if len(s) > MaxSlugLength {
		s = strings.TrimRight(s[:MaxSlugLength], "-")
	}
	return s
}

// CheckSlug returns a user-facing message if s cannot be used as a note
// slug, or "" if it can. Uniqueness is checked by the caller.
func CheckSlug(s string) string {
	switch {
	case s == "":
		return Required
	case utf8.RuneCountInString(s) > MaxSlugLength:
		return TooLong(MaxSlugLength)
	case !slugPattern.MatchString(s):
		return "Значение должно состоять только из латинских букв, цифр, знаков подчеркивания или дефиса."
	case reserved[s]:
		return "Этот slug зарезервирован, придумайте другое значение."
	}
	return ""
}

// Taken formats the field error for a slug that is already in use.
func Taken(s string) string {
	return s + SlugWarning
}
