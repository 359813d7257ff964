package middleware

import (
	"net/http"
	"strings"

	"github.com/alamal-ev/website/internal/locale"
)

// LocaleCookieName persists the visitor's language choice.
const LocaleCookieName = "NEXT_LOCALE"

// Path prefixes that are never locale-rewritten: API routes, assets and
// well-known files keep their unprefixed paths.
var localeExemptPrefixes = []string{
	"/api/",
	"/static/",
	"/images/",
	"/uploads/",
	"/.well-known/",
}

var localeExemptPaths = map[string]bool{
	"/favicon.ico": true,
	"/robots.txt":  true,
	"/health":      true,
}

func localeExempt(path string) bool {
	if localeExemptPaths[path] {
		return true
	}
	for _, p := range localeExemptPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// pathLocale returns the locale prefix of a path like /de/articles, if any.
func pathLocale(path string) (locale.Locale, bool) {
	rest := strings.TrimPrefix(path, "/")
	seg, _, _ := strings.Cut(rest, "/")
	return locale.Parse(seg)
}

// LocaleRedirect rewrites unprefixed page paths to their locale-prefixed
// form with a 302. Exempt paths and already-prefixed paths pass through
// untouched. Resolution order: cookie, Accept-Language, default — it always
// lands on a locale, never an error.
func LocaleRedirect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if localeExempt(path) {
			next.ServeHTTP(w, r)
			return
		}
		if _, ok := pathLocale(path); ok {
			next.ServeHTTP(w, r)
			return
		}

		var cookieVal string
		if c, err := r.Cookie(LocaleCookieName); err == nil {
			cookieVal = c.Value
		}
		loc := locale.Resolve(cookieVal, r.Header.Get("Accept-Language"))

		target := "/" + string(loc) + path
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusFound)
	})
}
