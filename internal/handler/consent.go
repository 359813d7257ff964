package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"
)

const (
	consentCookieName   = "cookie-consent"
	consentCookieMaxAge = 365 * 24 * 3600
)

type ConsentHandler struct{}

func NewConsentHandler() *ConsentHandler {
	return &ConsentHandler{}
}

type consentChoice struct {
	Necessary  bool      `json:"necessary"`
	Functional bool      `json:"functional"`
	Analytics  bool      `json:"analytics"`
	Marketing  bool      `json:"marketing"`
	DecidedAt  time.Time `json:"decided_at"`
}

// Save persists the visitor's cookie choice in a cookie of its own, so the
// banner stays dismissed for a year. Necessary cookies are always on.
func (h *ConsentHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Functional bool `json:"functional"`
		Analytics  bool `json:"analytics"`
		Marketing  bool `json:"marketing"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	choice := consentChoice{
		Necessary:  true,
		Functional: req.Functional,
		Analytics:  req.Analytics,
		Marketing:  req.Marketing,
		DecidedAt:  time.Now().UTC(),
	}
	payload, err := json.Marshal(choice)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save consent"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     consentCookieName,
		Value:    url.QueryEscape(string(payload)),
		Path:     "/",
		MaxAge:   consentCookieMaxAge,
		SameSite: http.SameSiteLaxMode,
		Secure:   requestIsTLS(r),
	})

	writeJSON(w, http.StatusOK, choice)
}
