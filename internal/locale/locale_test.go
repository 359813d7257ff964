package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Locale
		ok   bool
	}{
		{"de", German, true},
		{"fr", French, true},
		{"ar", Arabic, true},
		{"en", "", false},
		{"DE", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := Parse(tt.in)
		assert.Equal(t, tt.ok, ok, "Parse(%q) ok", tt.in)
		assert.Equal(t, tt.want, got, "Parse(%q)", tt.in)
	}
}

func TestFromAcceptLanguage(t *testing.T) {
	tests := []struct {
		header string
		want   Locale
		ok     bool
	}{
		{"ar", Arabic, true},
		{"fr-FR,fr;q=0.9", French, true},
		{"de-DE,de;q=0.9,en;q=0.8", German, true},
		{"ar-MA;q=0.8,en;q=0.5", Arabic, true},
		{"en-US,en;q=0.9", "", false},
		{"en-US,fr;q=0.5", "", false},
		{"en,ar;q=0.9,fr;q=0.8", "", false},
		{"", "", false},
		{";;;", "", false},
	}
	for _, tt := range tests {
		got, ok := FromAcceptLanguage(tt.header)
		assert.Equal(t, tt.ok, ok, "header %q ok", tt.header)
		if tt.ok {
			assert.Equal(t, tt.want, got, "header %q", tt.header)
		}
	}
}

func TestResolveCookieBeatsHeader(t *testing.T) {
	assert.Equal(t, French, Resolve("fr", "ar"))
}

func TestResolveHeaderWhenCookieUnknown(t *testing.T) {
	assert.Equal(t, Arabic, Resolve("xx", "ar"))
}

func TestResolveDefault(t *testing.T) {
	assert.Equal(t, Default, Resolve("", ""))
	assert.Equal(t, Default, Resolve("en", "en-US"))
}

func TestResolveIgnoresLaterHeaderEntries(t *testing.T) {
	// An unrecognized leading language means default, even though French is
	// offered further down the header.
	assert.Equal(t, Default, Resolve("", "en-US,fr;q=0.5"))
}
