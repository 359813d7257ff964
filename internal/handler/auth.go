package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alamal-ev/website/internal/locale"
	"github.com/alamal-ev/website/internal/mail"
	"github.com/alamal-ev/website/internal/store"
)

const authCookieMaxAge = 7 * 24 * 3600

type AuthHandler struct {
	tokens    *store.AuthTokenStore
	members   *store.MemberStore
	education *store.EducationStore
	mailer    mail.Sender
	logger    *slog.Logger
}

func NewAuthHandler(ts *store.AuthTokenStore, ms *store.MemberStore, es *store.EducationStore, mailer mail.Sender, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{tokens: ts, members: ms, education: es, mailer: mailer, logger: logger}
}

// knownEmail reports whether the email belongs to an active membership or
// education registration.
func (h *AuthHandler) knownEmail(email string) (bool, error) {
	m, err := h.members.GetByEmail(email)
	if err != nil {
		return false, err
	}
	if m != nil {
		return true, nil
	}
	r, err := h.education.GetByEmail(email)
	if err != nil {
		return false, err
	}
	return r != nil, nil
}

// SendMagicLink issues a sign-in token for a known email and mails the link.
// Unknown addresses get a 404 so the frontend can point at registration.
func (h *AuthHandler) SendMagicLink(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email  string `json:"email"`
		Locale string `json:"locale"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if !validEmail(req.Email) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "a valid email is required"})
		return
	}

	known, err := h.knownEmail(req.Email)
	if err != nil {
		h.logger.Error("lookup email", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to send sign-in link"})
		return
	}
	if !known {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no account for this email"})
		return
	}

	token, err := h.tokens.Issue(req.Email)
	if err != nil {
		h.logger.Error("issue auth token", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to send sign-in link"})
		return
	}

	loc := locale.Resolve(req.Locale, r.Header.Get("Accept-Language"))
	if err := h.mailer.SendMagicLink(r.Context(), req.Email, loc, token.Token); err != nil {
		h.logger.Error("send magic link", "email", req.Email, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to send email"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

// Verify redeems a magic-link token. On success it sets the session cookie
// and redirects to the profile page; every failure lands on the sign-in page
// with an error code, never a bare error body, because the link is opened in
// a browser.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	loc, ok := locale.Parse(r.PathValue("locale"))
	if !ok {
		loc = locale.Default
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		http.Redirect(w, r, "/"+string(loc)+"/signin?error=missing_token", http.StatusFound)
		return
	}

	email, err := h.tokens.Redeem(token)
	if err != nil {
		h.logger.Error("redeem auth token", "error", err)
		http.Redirect(w, r, "/"+string(loc)+"/signin?error=invalid_token", http.StatusFound)
		return
	}
	if email == "" {
		http.Redirect(w, r, "/"+string(loc)+"/signin?error=invalid_token", http.StatusFound)
		return
	}

	if err := h.members.TouchLastLogin(email); err != nil {
		h.logger.Error("touch membership last login", "error", err)
	}
	if err := h.education.TouchLastLogin(email); err != nil {
		h.logger.Error("touch education last login", "error", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    email,
		Path:     "/",
		MaxAge:   authCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   requestIsTLS(r),
	})

	http.Redirect(w, r, "/"+string(loc)+"/profile", http.StatusFound)
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   requestIsTLS(r),
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

func requestIsTLS(r *http.Request) bool {
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}
