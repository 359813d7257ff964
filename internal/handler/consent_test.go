package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestConsentSave(t *testing.T) {
	h := NewConsentHandler()

	rec := httptest.NewRecorder()
	h.Save(rec, httptest.NewRequest("POST", "/api/consent",
		strings.NewReader(`{"functional": true, "analytics": true, "marketing": false}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == consentCookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("consent cookie missing")
	}

	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		t.Fatalf("unescape cookie: %v", err)
	}
	var choice consentChoice
	if err := json.Unmarshal([]byte(raw), &choice); err != nil {
		t.Fatalf("decode cookie: %v", err)
	}
	if !choice.Necessary || !choice.Functional || !choice.Analytics || choice.Marketing {
		t.Errorf("choice = %+v", choice)
	}
	if choice.DecidedAt.IsZero() {
		t.Error("decided_at not stamped")
	}
}

func TestConsentSaveBadBody(t *testing.T) {
	h := NewConsentHandler()

	rec := httptest.NewRecorder()
	h.Save(rec, httptest.NewRequest("POST", "/api/consent", strings.NewReader("{")))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}
