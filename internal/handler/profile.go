package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/alamal-ev/website/internal/auth"
	"github.com/alamal-ev/website/internal/model"
	"github.com/alamal-ev/website/internal/store"
)

type ProfileHandler struct {
	members   *store.MemberStore
	education *store.EducationStore
	logger    *slog.Logger
}

func NewProfileHandler(ms *store.MemberStore, es *store.EducationStore, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{members: ms, education: es, logger: logger}
}

// resolve builds the profile for an email: membership first, education
// otherwise. Returns nil when neither table holds the address.
func (h *ProfileHandler) resolve(email string) (*model.Profile, error) {
	member, err := h.members.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if member != nil {
		return &model.Profile{Kind: model.ProfileMembership, Member: member}, nil
	}

	requester, err := h.education.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if requester == nil {
		return nil, nil
	}
	students, err := h.education.ListStudents(requester.ID)
	if err != nil {
		return nil, err
	}
	return &model.Profile{Kind: model.ProfileEducation, Requester: requester, Students: students}, nil
}

// Get returns the signed-in user's profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	profile, err := h.resolve(id.Email)
	if err != nil {
		h.logger.Error("resolve profile", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load profile"})
		return
	}
	if profile == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found"})
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

type profileUpdateRequest struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	BirthDate     string `json:"birth_date"`
	Gender        string `json:"gender"`
	MaritalStatus string `json:"marital_status"`
	Phone         string `json:"phone"`
	Street        string `json:"street"`
	PostalCode    string `json:"postal_code"`
	City          string `json:"city"`

	Responsible *responsibleRequest `json:"responsible"`

	AccountHolder string `json:"account_holder"`
	IBAN          string `json:"iban"`
	BIC           string `json:"bic"`
	BankName      string `json:"bank_name"`

	// Education profiles may replace their whole student set. A nil slice
	// leaves the students untouched; an empty one is rejected.
	Students []studentRequest `json:"students"`
}

func pick(updated, current string) string {
	updated = strings.TrimSpace(updated)
	if updated == "" {
		return current
	}
	return updated
}

// Update applies a partial profile edit. Supplied fields overwrite, empty
// ones keep their stored value; the email can never change because it is the
// sign-in identity.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req profileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	switch id.Kind {
	case model.ProfileMembership:
		h.updateMember(w, id.Email, req)
	case model.ProfileEducation:
		h.updateRequester(w, id.Email, req)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found"})
	}
}

func (h *ProfileHandler) updateMember(w http.ResponseWriter, email string, req profileUpdateRequest) {
	member, err := h.members.GetByEmail(email)
	if err != nil {
		h.logger.Error("lookup membership", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update profile"})
		return
	}
	if member == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found"})
		return
	}

	var errs []fieldError
	if v := strings.TrimSpace(req.BirthDate); v != "" && !validBirthDate(v) {
		errs = append(errs, fieldError{Field: "birth_date", Message: "must be a date in YYYY-MM-DD form"})
	}
	if v := strings.TrimSpace(req.Gender); v != "" && !validGender(v) {
		errs = append(errs, fieldError{Field: "gender", Message: "must be male or female"})
	}
	if v := strings.TrimSpace(req.MaritalStatus); v != "" && !validMaritalStatus(v) {
		errs = append(errs, fieldError{Field: "marital_status", Message: "must be single, married, divorced or widowed"})
	}
	if v := strings.TrimSpace(req.IBAN); v != "" && !validIBAN(v) {
		errs = append(errs, fieldError{Field: "iban", Message: "must be a valid IBAN"})
	}
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	updated, err := h.members.Update(member.ID, store.UpdateMemberParams{
		FirstName:     pick(req.FirstName, member.FirstName),
		LastName:      pick(req.LastName, member.LastName),
		BirthDate:     pick(req.BirthDate, member.BirthDate),
		Gender:        pick(req.Gender, member.Gender),
		MaritalStatus: pick(req.MaritalStatus, member.MaritalStatus),
		Phone:         pick(req.Phone, member.Phone),
		Street:        pick(req.Street, member.Street),
		PostalCode:    pick(req.PostalCode, member.PostalCode),
		City:          pick(req.City, member.City),
		AccountHolder: pick(req.AccountHolder, member.AccountHolder),
		IBAN:          pick(req.IBAN, member.IBAN),
		BIC:           pick(req.BIC, member.BIC),
		BankName:      pick(req.BankName, member.BankName),
	})
	if err != nil {
		h.logger.Error("update membership", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update profile"})
		return
	}

	writeJSON(w, http.StatusOK, model.Profile{Kind: model.ProfileMembership, Member: updated})
}

func (h *ProfileHandler) updateRequester(w http.ResponseWriter, email string, req profileUpdateRequest) {
	requester, err := h.education.GetByEmail(email)
	if err != nil {
		h.logger.Error("lookup education registration", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update profile"})
		return
	}
	if requester == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found"})
		return
	}

	var errs []fieldError
	if v := strings.TrimSpace(req.BirthDate); v != "" && !validBirthDate(v) {
		errs = append(errs, fieldError{Field: "birth_date", Message: "must be a date in YYYY-MM-DD form"})
	}
	if v := strings.TrimSpace(req.IBAN); v != "" && !validIBAN(v) {
		errs = append(errs, fieldError{Field: "iban", Message: "must be a valid IBAN"})
	}
	if req.Students != nil {
		if len(req.Students) == 0 {
			errs = append(errs, fieldError{Field: "students", Message: "at least one student is required"})
		}
		for i := range req.Students {
			req.Students[i].trim()
			errs = req.Students[i].validate("students["+strconv.Itoa(i)+"]", errs)
		}
	}
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	responsible := requester.Responsible
	if req.Responsible != nil {
		responsible = &model.ResponsiblePerson{
			FirstName:  strings.TrimSpace(req.Responsible.FirstName),
			LastName:   strings.TrimSpace(req.Responsible.LastName),
			Phone:      strings.TrimSpace(req.Responsible.Phone),
			Street:     strings.TrimSpace(req.Responsible.Street),
			PostalCode: strings.TrimSpace(req.Responsible.PostalCode),
			City:       strings.TrimSpace(req.Responsible.City),
		}
	}

	updated, err := h.education.Update(requester.ID, store.UpdateRequesterParams{
		FirstName:     pick(req.FirstName, requester.FirstName),
		LastName:      pick(req.LastName, requester.LastName),
		BirthDate:     pick(req.BirthDate, requester.BirthDate),
		Phone:         pick(req.Phone, requester.Phone),
		Street:        pick(req.Street, requester.Street),
		PostalCode:    pick(req.PostalCode, requester.PostalCode),
		City:          pick(req.City, requester.City),
		Responsible:   responsible,
		AccountHolder: pick(req.AccountHolder, requester.AccountHolder),
		IBAN:          pick(req.IBAN, requester.IBAN),
		BIC:           pick(req.BIC, requester.BIC),
		BankName:      pick(req.BankName, requester.BankName),
	})
	if err != nil {
		h.logger.Error("update education registration", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update profile"})
		return
	}

	if req.Students != nil {
		if err := h.education.ReplaceStudents(updated.ID, newStudents(req.Students)); err != nil {
			h.logger.Error("replace students", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update students"})
			return
		}
	}

	students, err := h.education.ListStudents(updated.ID)
	if err != nil {
		h.logger.Error("list students", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update profile"})
		return
	}

	writeJSON(w, http.StatusOK, model.Profile{Kind: model.ProfileEducation, Requester: updated, Students: students})
}

// Cancel soft-deletes the signed-in user's registration of the requested
// type. Cancelling a membership also cancels any education registration on
// the same email; cancelling education leaves the membership alone.
func (h *ProfileHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req struct {
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	var cancelled bool
	var err error
	switch model.ProfileKind(req.Type) {
	case model.ProfileMembership:
		cancelled, err = h.members.Cancel(id.Email)
	case model.ProfileEducation:
		cancelled, err = h.education.Cancel(id.Email)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "type must be membership or education"})
		return
	}
	if err != nil {
		h.logger.Error("cancel registration", "type", req.Type, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to cancel"})
		return
	}
	if !cancelled {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active registration of this type"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}
