package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/alamal-ev/website/internal/locale"
	"github.com/alamal-ev/website/internal/mail"
	"github.com/alamal-ev/website/internal/model"
	"github.com/alamal-ev/website/internal/store"
)

type MembershipHandler struct {
	members *store.MemberStore
	mailer  mail.Sender
	logger  *slog.Logger
}

func NewMembershipHandler(ms *store.MemberStore, mailer mail.Sender, logger *slog.Logger) *MembershipHandler {
	return &MembershipHandler{members: ms, mailer: mailer, logger: logger}
}

type membershipRequest struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	BirthDate     string `json:"birth_date"`
	Gender        string `json:"gender"`
	MaritalStatus string `json:"marital_status"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Street        string `json:"street"`
	PostalCode    string `json:"postal_code"`
	City          string `json:"city"`
	AccountHolder string `json:"account_holder"`
	IBAN          string `json:"iban"`
	BIC           string `json:"bic"`
	BankName      string `json:"bank_name"`
	SEPAMandate   bool   `json:"sepa_mandate"`
	Locale        string `json:"locale"`
}

func (req *membershipRequest) trim() {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Street = strings.TrimSpace(req.Street)
	req.PostalCode = strings.TrimSpace(req.PostalCode)
	req.City = strings.TrimSpace(req.City)
	req.AccountHolder = strings.TrimSpace(req.AccountHolder)
	req.IBAN = strings.TrimSpace(req.IBAN)
}

func (req *membershipRequest) validate() []fieldError {
	var errs []fieldError
	errs = requireString(errs, "first_name", req.FirstName)
	errs = requireString(errs, "last_name", req.LastName)
	errs = requireString(errs, "phone", req.Phone)
	errs = requireString(errs, "street", req.Street)
	errs = requireString(errs, "postal_code", req.PostalCode)
	errs = requireString(errs, "city", req.City)
	errs = requireString(errs, "account_holder", req.AccountHolder)
	if !validBirthDate(req.BirthDate) {
		errs = append(errs, fieldError{Field: "birth_date", Message: "must be a date in YYYY-MM-DD form"})
	}
	if !validGender(req.Gender) {
		errs = append(errs, fieldError{Field: "gender", Message: "must be male or female"})
	}
	if !validMaritalStatus(req.MaritalStatus) {
		errs = append(errs, fieldError{Field: "marital_status", Message: "must be single, married, divorced or widowed"})
	}
	if !validEmail(req.Email) {
		errs = append(errs, fieldError{Field: "email", Message: "must be a valid email address"})
	}
	if !validIBAN(req.IBAN) {
		errs = append(errs, fieldError{Field: "iban", Message: "must be a valid IBAN"})
	}
	if !req.SEPAMandate {
		errs = append(errs, fieldError{Field: "sepa_mandate", Message: "must be accepted"})
	}
	return errs
}

// Register accepts a membership application. Validation rejects before any
// write; the confirmation email is best-effort — the registration stands
// even if the mail bounces off the relay.
func (h *MembershipHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req membershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	req.trim()

	if errs := req.validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	exists, err := h.members.EmailExists(req.Email)
	if err != nil {
		h.logger.Error("check membership email", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to register"})
		return
	}
	if exists {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email is already registered"})
		return
	}

	number, err := store.GenerateNumber("M")
	if err != nil {
		h.logger.Error("generate member number", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to register"})
		return
	}
	token := uuid.NewString()

	member, err := h.members.Create(model.Member{
		MemberNumber:      number,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		BirthDate:         req.BirthDate,
		Gender:            req.Gender,
		MaritalStatus:     req.MaritalStatus,
		Email:             req.Email,
		Phone:             req.Phone,
		Street:            req.Street,
		PostalCode:        req.PostalCode,
		City:              req.City,
		AccountHolder:     req.AccountHolder,
		IBAN:              req.IBAN,
		BIC:               strings.TrimSpace(req.BIC),
		BankName:          strings.TrimSpace(req.BankName),
		SEPAMandate:       req.SEPAMandate,
		ConfirmationToken: &token,
	})
	if err != nil {
		h.logger.Error("create membership", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to register"})
		return
	}

	loc := locale.Resolve(req.Locale, "")
	if err := h.mailer.SendMembershipConfirmation(r.Context(), member.Email, loc, member.FirstName, token); err != nil {
		h.logger.Error("send membership confirmation", "email", member.Email, "error", err)
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":            member.ID,
		"member_number": member.MemberNumber,
		"status":        member.Status,
	})
}

// Confirm redeems a confirmation token from the emailed link. Success and
// the already-confirmed case redirect to the membership page in the link's
// locale; an unknown token is a JSON 404.
func (h *MembershipHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "token is required"})
		return
	}
	page := "/" + string(locale.Resolve(r.URL.Query().Get("locale"), "")) + "/membership"

	member, err := h.members.GetByConfirmationToken(token)
	if err != nil {
		h.logger.Error("lookup confirmation token", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to confirm"})
		return
	}
	if member == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "invalid token"})
		return
	}
	if member.ConfirmedAt != nil {
		http.Redirect(w, r, page+"?confirmed=already", http.StatusFound)
		return
	}

	ok, err := h.members.Confirm(token)
	if err != nil {
		h.logger.Error("confirm membership", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to confirm"})
		return
	}
	if !ok {
		// Lost a race against a concurrent redemption.
		http.Redirect(w, r, page+"?confirmed=already", http.StatusFound)
		return
	}

	http.Redirect(w, r, page+"?confirmed=1", http.StatusFound)
}

// ResendConfirmation issues a fresh token for a still-pending registration
// and emails it. Lets a registrant recover from a lost or undelivered
// confirmation mail.
func (h *MembershipHandler) ResendConfirmation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email  string `json:"email"`
		Locale string `json:"locale"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email is required"})
		return
	}

	member, err := h.members.GetByEmail(req.Email)
	if err != nil {
		h.logger.Error("lookup membership", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to resend"})
		return
	}
	if member == nil || member.ConfirmedAt != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no pending registration for this email"})
		return
	}

	token := uuid.NewString()
	if err := h.members.ResetConfirmationToken(member.ID, token); err != nil {
		h.logger.Error("reset confirmation token", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to resend"})
		return
	}

	loc := locale.Resolve(req.Locale, "")
	if err := h.mailer.SendMembershipConfirmation(r.Context(), member.Email, loc, member.FirstName, token); err != nil {
		h.logger.Error("resend membership confirmation", "email", member.Email, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to send email"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}
