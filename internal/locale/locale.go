// Package locale resolves the UI language for a request from the fixed
// supported set. German is the default; Arabic is right-to-left but text
// direction is the frontend's concern.
package locale

import (
	"strings"

	"golang.org/x/text/language"
)

type Locale string

const (
	German Locale = "de"
	French Locale = "fr"
	Arabic Locale = "ar"
)

// Default is the fallback when neither cookie nor header resolves.
const Default = German

var supported = []Locale{German, French, Arabic}

var matcher = language.NewMatcher([]language.Tag{
	language.German,
	language.French,
	language.Arabic,
})

// Supported returns the supported locales in preference order.
func Supported() []Locale {
	out := make([]Locale, len(supported))
	copy(out, supported)
	return out
}

// Parse returns the locale for a raw code like "de", or false if the code is
// not one of the supported three.
func Parse(s string) (Locale, bool) {
	for _, l := range supported {
		if string(l) == s {
			return l, true
		}
	}
	return "", false
}

// FromAcceptLanguage matches an Accept-Language header value against the
// supported set. Only the first entry's primary subtag counts: a header
// leading with an unrecognized language falls through to the default even
// when a supported one is listed further down. Returns false when the header
// is empty, malformed, or the first entry has no match.
func FromAcceptLanguage(header string) (Locale, bool) {
	if header == "" {
		return "", false
	}
	// ParseAcceptLanguage reorders by q-weight, so cut the leading entry
	// first.
	first, _, _ := strings.Cut(header, ",")
	tags, _, err := language.ParseAcceptLanguage(first)
	if err != nil || len(tags) == 0 {
		return "", false
	}
	_, idx, conf := matcher.Match(tags[0])
	if conf == language.No {
		return "", false
	}
	return supported[idx], true
}

// Resolve picks the effective locale: cookie first, then Accept-Language,
// then the default. It never fails.
func Resolve(cookie, acceptLanguage string) Locale {
	if l, ok := Parse(cookie); ok {
		return l
	}
	if l, ok := FromAcceptLanguage(acceptLanguage); ok {
		return l
	}
	return Default
}
