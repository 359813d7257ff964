package mail

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alamal-ev/website/internal/locale"
)

func TestRenderMagicLinkAllLocales(t *testing.T) {
	link := "https://example.org/de/auth/verify?token=abc"
	for _, loc := range locale.Supported() {
		subject, text, html := render(magicLinkTemplates, loc, link)
		require.NotEmpty(t, subject, "locale %s", loc)
		assert.Contains(t, text, link, "locale %s text", loc)
		assert.Contains(t, html, link, "locale %s html", loc)
	}
}

func TestRenderConfirmationIncludesName(t *testing.T) {
	for _, templates := range []map[locale.Locale]message{membershipTemplates, educationTemplates} {
		for _, loc := range locale.Supported() {
			subject, text, html := render(templates, loc, "Amina", "https://example.org/confirm?token=t1")
			require.NotEmpty(t, subject)
			assert.Contains(t, text, "Amina")
			assert.Contains(t, text, "token=t1")
			assert.Contains(t, html, "token=t1")
		}
	}
}

func TestRenderUnknownLocaleFallsBack(t *testing.T) {
	subject, text, _ := render(magicLinkTemplates, locale.Locale("xx"), "link")
	wantSubject, wantText, _ := render(magicLinkTemplates, locale.Default, "link")
	assert.Equal(t, wantSubject, subject)
	assert.Equal(t, wantText, text)
}

func TestTemplatesHaveNoUnfilledVerbs(t *testing.T) {
	for _, loc := range locale.Supported() {
		_, text, html := render(membershipTemplates, loc, "Name", "link")
		assert.False(t, strings.Contains(text, "%!"), "locale %s text: %s", loc, text)
		assert.False(t, strings.Contains(html, "%!"), "locale %s html: %s", loc, html)
	}
}

func TestClientNotConfigured(t *testing.T) {
	c, err := NewClient(Config{BaseURL: "https://example.org"})
	require.NoError(t, err)
	assert.False(t, c.Configured())

	err = c.SendMagicLink(t.Context(), "amina@example.com", locale.German, "tok")
	assert.Error(t, err)
}
