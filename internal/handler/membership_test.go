package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alamal-ev/website/internal/model"
)

const membershipBody = `{
	"first_name": "Amina", "last_name": "Haddad", "birth_date": "1985-03-12",
	"gender": "female", "marital_status": "married",
	"email": "amina@example.com", "phone": "+49 30 1234567",
	"street": "Hauptstr. 5", "postal_code": "10115", "city": "Berlin",
	"account_holder": "Amina Haddad", "iban": "DE89370400440532013000",
	"sepa_mandate": true, "locale": "fr"
}`

func TestMembershipRegister(t *testing.T) {
	ms, _, _ := setupStores(t)
	mailer := &fakeMailer{}
	h := NewMembershipHandler(ms, mailer, testLogger())

	req := httptest.NewRequest("POST", "/api/membership", strings.NewReader(membershipBody))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		ID           int64  `json:"id"`
		MemberNumber string `json:"member_number"`
		Status       string `json:"status"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != model.StatusPending {
		t.Errorf("status = %q, want %q", resp.Status, model.StatusPending)
	}
	if !strings.HasPrefix(resp.MemberNumber, "M") {
		t.Errorf("member number = %q", resp.MemberNumber)
	}
	if len(mailer.confirmations) != 1 || mailer.confirmations[0] != "amina@example.com" {
		t.Errorf("confirmations = %v", mailer.confirmations)
	}
	if mailer.lastLocale != "fr" {
		t.Errorf("mail locale = %q, want fr", mailer.lastLocale)
	}
}

func TestMembershipRegisterValidation(t *testing.T) {
	ms, _, _ := setupStores(t)
	h := NewMembershipHandler(ms, &fakeMailer{}, testLogger())

	body := strings.Replace(membershipBody, `"sepa_mandate": true`, `"sepa_mandate": false`, 1)
	body = strings.Replace(body, "amina@example.com", "not-an-email", 1)

	req := httptest.NewRequest("POST", "/api/membership", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Fields []fieldError `json:"fields"`
	}
	json.NewDecoder(rec.Body).Decode(&resp)
	fields := map[string]bool{}
	for _, f := range resp.Fields {
		fields[f.Field] = true
	}
	if !fields["email"] || !fields["sepa_mandate"] {
		t.Errorf("fields = %v", resp.Fields)
	}
}

func TestMembershipRegisterDuplicateEmail(t *testing.T) {
	ms, _, _ := setupStores(t)
	h := NewMembershipHandler(ms, &fakeMailer{}, testLogger())

	for i, want := range []int{http.StatusCreated, http.StatusBadRequest} {
		req := httptest.NewRequest("POST", "/api/membership", strings.NewReader(membershipBody))
		rec := httptest.NewRecorder()
		h.Register(rec, req)
		if rec.Code != want {
			t.Fatalf("attempt %d: status = %d, want %d", i+1, rec.Code, want)
		}
	}
}

func TestMembershipRegisterSurvivesMailFailure(t *testing.T) {
	ms, _, _ := setupStores(t)
	mailer := &fakeMailer{err: errMailDown}
	h := NewMembershipHandler(ms, mailer, testLogger())

	req := httptest.NewRequest("POST", "/api/membership", strings.NewReader(membershipBody))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, registration should not depend on mail delivery", rec.Code)
	}
	if m, _ := ms.GetByEmail("amina@example.com"); m == nil {
		t.Error("membership row missing")
	}
}

func TestMembershipConfirm(t *testing.T) {
	ms, _, _ := setupStores(t)
	mailer := &fakeMailer{}
	h := NewMembershipHandler(ms, mailer, testLogger())

	req := httptest.NewRequest("POST", "/api/membership", strings.NewReader(membershipBody))
	h.Register(httptest.NewRecorder(), req)
	token := mailer.lastToken

	rec := httptest.NewRecorder()
	h.Confirm(rec, httptest.NewRequest("GET", "/api/membership/confirm?token="+token+"&locale=fr", nil))
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/fr/membership?confirmed=1" {
		t.Errorf("location = %q, redirect must keep the link's locale", loc)
	}

	m, err := ms.GetByEmail("amina@example.com")
	if err != nil || m == nil {
		t.Fatalf("get member: %v", err)
	}
	if m.Status != model.StatusActive || m.ConfirmedAt == nil {
		t.Errorf("status = %q, confirmed_at = %v", m.Status, m.ConfirmedAt)
	}

	// The token is single-use; the row no longer carries it.
	rec = httptest.NewRecorder()
	h.Confirm(rec, httptest.NewRequest("GET", "/api/membership/confirm?token="+token, nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("second redemption status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestMembershipConfirmUnknownToken(t *testing.T) {
	ms, _, _ := setupStores(t)
	h := NewMembershipHandler(ms, &fakeMailer{}, testLogger())

	rec := httptest.NewRecorder()
	h.Confirm(rec, httptest.NewRequest("GET", "/api/membership/confirm?token=nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestMembershipResendConfirmation(t *testing.T) {
	ms, _, _ := setupStores(t)
	mailer := &fakeMailer{}
	h := NewMembershipHandler(ms, mailer, testLogger())

	h.Register(httptest.NewRecorder(), httptest.NewRequest("POST", "/api/membership", strings.NewReader(membershipBody)))
	first := mailer.lastToken

	rec := httptest.NewRecorder()
	h.ResendConfirmation(rec, httptest.NewRequest("POST", "/api/membership/resend-confirmation",
		strings.NewReader(`{"email": "amina@example.com", "locale": "de"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if mailer.lastToken == first {
		t.Error("resend should issue a fresh token")
	}

	// The old token is dead.
	rec = httptest.NewRecorder()
	h.Confirm(rec, httptest.NewRequest("GET", "/api/membership/confirm?token="+first, nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("old token status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
