package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func registerMember(t *testing.T, h *MembershipHandler) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest("POST", "/api/membership", strings.NewReader(membershipBody)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("register member: status = %d", rec.Code)
	}
}

func TestSendMagicLink(t *testing.T) {
	ms, es, ts := setupStores(t)
	mailer := &fakeMailer{}
	registerMember(t, NewMembershipHandler(ms, mailer, testLogger()))
	h := NewAuthHandler(ts, ms, es, mailer, testLogger())

	rec := httptest.NewRecorder()
	h.SendMagicLink(rec, httptest.NewRequest("POST", "/api/auth/send-magic-link",
		strings.NewReader(`{"email": "amina@example.com", "locale": "de"}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(mailer.magicLinks) != 1 || mailer.magicLinks[0] != "amina@example.com" {
		t.Errorf("magic links = %v", mailer.magicLinks)
	}
	if len(mailer.lastToken) != 64 {
		t.Errorf("token length = %d, want 64", len(mailer.lastToken))
	}
}

func TestSendMagicLinkUnknownEmail(t *testing.T) {
	ms, es, ts := setupStores(t)
	h := NewAuthHandler(ts, ms, es, &fakeMailer{}, testLogger())

	rec := httptest.NewRecorder()
	h.SendMagicLink(rec, httptest.NewRequest("POST", "/api/auth/send-magic-link",
		strings.NewReader(`{"email": "ghost@example.com"}`)))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestSendMagicLinkMailFailure(t *testing.T) {
	ms, es, ts := setupStores(t)
	mailer := &fakeMailer{}
	registerMember(t, NewMembershipHandler(ms, mailer, testLogger()))
	mailer.err = errMailDown
	h := NewAuthHandler(ts, ms, es, mailer, testLogger())

	rec := httptest.NewRecorder()
	h.SendMagicLink(rec, httptest.NewRequest("POST", "/api/auth/send-magic-link",
		strings.NewReader(`{"email": "amina@example.com"}`)))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, a dead relay must surface to the caller", rec.Code)
	}
}

func verifyRequest(token string) *http.Request {
	req := httptest.NewRequest("GET", "/fr/auth/verify?token="+token, nil)
	req.SetPathValue("locale", "fr")
	return req
}

func TestVerify(t *testing.T) {
	ms, es, ts := setupStores(t)
	mailer := &fakeMailer{}
	registerMember(t, NewMembershipHandler(ms, mailer, testLogger()))
	h := NewAuthHandler(ts, ms, es, mailer, testLogger())

	h.SendMagicLink(httptest.NewRecorder(), httptest.NewRequest("POST", "/api/auth/send-magic-link",
		strings.NewReader(`{"email": "amina@example.com"}`)))

	rec := httptest.NewRecorder()
	h.Verify(rec, verifyRequest(mailer.lastToken))

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/fr/profile" {
		t.Errorf("location = %q", loc)
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == authCookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("session cookie missing")
	}
	if cookie.Value != "amina@example.com" || !cookie.HttpOnly {
		t.Errorf("cookie = %+v", cookie)
	}

	m, _ := ms.GetByEmail("amina@example.com")
	if m.LastLoginAt == nil {
		t.Error("last_login_at not stamped")
	}
}

func TestVerifyTokenSingleUse(t *testing.T) {
	ms, es, ts := setupStores(t)
	mailer := &fakeMailer{}
	registerMember(t, NewMembershipHandler(ms, mailer, testLogger()))
	h := NewAuthHandler(ts, ms, es, mailer, testLogger())

	h.SendMagicLink(httptest.NewRecorder(), httptest.NewRequest("POST", "/api/auth/send-magic-link",
		strings.NewReader(`{"email": "amina@example.com"}`)))

	h.Verify(httptest.NewRecorder(), verifyRequest(mailer.lastToken))

	rec := httptest.NewRecorder()
	h.Verify(rec, verifyRequest(mailer.lastToken))
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "error=invalid_token") {
		t.Errorf("second redemption location = %q", loc)
	}
}

func TestVerifyMissingToken(t *testing.T) {
	ms, es, ts := setupStores(t)
	h := NewAuthHandler(ts, ms, es, &fakeMailer{}, testLogger())

	req := httptest.NewRequest("GET", "/de/auth/verify", nil)
	req.SetPathValue("locale", "de")
	rec := httptest.NewRecorder()
	h.Verify(rec, req)

	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "error=missing_token") {
		t.Errorf("location = %q", loc)
	}
}

func TestLogout(t *testing.T) {
	ms, es, ts := setupStores(t)
	h := NewAuthHandler(ts, ms, es, &fakeMailer{}, testLogger())

	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest("POST", "/api/auth/logout", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == authCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("session cookie not cleared")
	}
}
