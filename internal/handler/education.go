package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/alamal-ev/website/internal/auth"
	"github.com/alamal-ev/website/internal/locale"
	"github.com/alamal-ev/website/internal/mail"
	"github.com/alamal-ev/website/internal/model"
	"github.com/alamal-ev/website/internal/store"
)

type EducationHandler struct {
	education *store.EducationStore
	mailer    mail.Sender
	logger    *slog.Logger
}

func NewEducationHandler(es *store.EducationStore, mailer mail.Sender, logger *slog.Logger) *EducationHandler {
	return &EducationHandler{education: es, mailer: mailer, logger: logger}
}

type studentRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	BirthDate string `json:"birth_date"`
	Level     string `json:"level"`
}

func (st *studentRequest) trim() {
	st.FirstName = strings.TrimSpace(st.FirstName)
	st.LastName = strings.TrimSpace(st.LastName)
}

func (st *studentRequest) validate(prefix string, errs []fieldError) []fieldError {
	errs = requireString(errs, prefix+".first_name", st.FirstName)
	errs = requireString(errs, prefix+".last_name", st.LastName)
	if !validBirthDate(st.BirthDate) {
		errs = append(errs, fieldError{Field: prefix + ".birth_date", Message: "must be a date in YYYY-MM-DD form"})
	}
	if !model.ValidLevel(st.Level) {
		errs = append(errs, fieldError{Field: prefix + ".level", Message: "must be a valid level"})
	}
	return errs
}

type responsibleRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
}

type educationRequest struct {
	FirstName            string              `json:"first_name"`
	LastName             string              `json:"last_name"`
	BirthDate            string              `json:"birth_date"`
	Email                string              `json:"email"`
	Phone                string              `json:"phone"`
	Street               string              `json:"street"`
	PostalCode           string              `json:"postal_code"`
	City                 string              `json:"city"`
	Responsible          *responsibleRequest `json:"responsible"`
	AccountHolder        string              `json:"account_holder"`
	IBAN                 string              `json:"iban"`
	BIC                  string              `json:"bic"`
	BankName             string              `json:"bank_name"`
	SEPAMandate          bool                `json:"sepa_mandate"`
	ConsentPhotosWebsite bool                `json:"consent_photos_website"`
	ConsentPhotosPrint   bool                `json:"consent_photos_print"`
	ConsentPhotosSocial  bool                `json:"consent_photos_social"`
	RulesAccepted        bool                `json:"rules_accepted"`
	Students             []studentRequest    `json:"students"`
	Locale               string              `json:"locale"`
}

func (req *educationRequest) trim() {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Street = strings.TrimSpace(req.Street)
	req.PostalCode = strings.TrimSpace(req.PostalCode)
	req.City = strings.TrimSpace(req.City)
	req.AccountHolder = strings.TrimSpace(req.AccountHolder)
	req.IBAN = strings.TrimSpace(req.IBAN)
	for i := range req.Students {
		req.Students[i].trim()
	}
}

func (req *educationRequest) validate() []fieldError {
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
	if !validEmail(req.Email) {
		errs = append(errs, fieldError{Field: "email", Message: "must be a valid email address"})
	}
	if !validIBAN(req.IBAN) {
		errs = append(errs, fieldError{Field: "iban", Message: "must be a valid IBAN"})
	}
	if !req.SEPAMandate {
		errs = append(errs, fieldError{Field: "sepa_mandate", Message: "must be accepted"})
	}
	if !req.RulesAccepted {
		errs = append(errs, fieldError{Field: "rules_accepted", Message: "must be accepted"})
	}
	if len(req.Students) == 0 {
		errs = append(errs, fieldError{Field: "students", Message: "at least one student is required"})
	}
	for i := range req.Students {
		errs = req.Students[i].validate("students["+strconv.Itoa(i)+"]", errs)
	}
	if req.Responsible != nil {
		errs = requireString(errs, "responsible.first_name", req.Responsible.FirstName)
		errs = requireString(errs, "responsible.last_name", req.Responsible.LastName)
	}
	return errs
}

func newStudents(reqs []studentRequest) []store.NewStudent {
	students := make([]store.NewStudent, 0, len(reqs))
	for _, st := range reqs {
		students = append(students, store.NewStudent{
			FirstName: st.FirstName,
			LastName:  st.LastName,
			BirthDate: st.BirthDate,
			Level:     st.Level,
		})
	}
	return students
}

// Register accepts an education-program registration: the requester, an
// optional responsible person, and at least one student. The requester and
// students land in one transaction.
func (h *EducationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req educationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	req.trim()

	if errs := req.validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	exists, err := h.education.EmailExists(req.Email)
	if err != nil {
		h.logger.Error("check education email", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to register"})
		return
	}
	if exists {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email is already registered"})
		return
	}

	number, err := store.GenerateNumber("E")
	if err != nil {
		h.logger.Error("generate register number", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to register"})
		return
	}
	token := uuid.NewString()

	requester := model.EducationRequester{
		RegisterNumber:       number,
		FirstName:            req.FirstName,
		LastName:             req.LastName,
		BirthDate:            req.BirthDate,
		Email:                req.Email,
		Phone:                req.Phone,
		Street:               req.Street,
		PostalCode:           req.PostalCode,
		City:                 req.City,
		AccountHolder:        req.AccountHolder,
		IBAN:                 req.IBAN,
		BIC:                  strings.TrimSpace(req.BIC),
		BankName:             strings.TrimSpace(req.BankName),
		SEPAMandate:          req.SEPAMandate,
		ConsentPhotosWebsite: req.ConsentPhotosWebsite,
		ConsentPhotosPrint:   req.ConsentPhotosPrint,
		ConsentPhotosSocial:  req.ConsentPhotosSocial,
		RulesAccepted:        req.RulesAccepted,
		ConfirmationToken:    &token,
	}
	if req.Responsible != nil {
		requester.Responsible = &model.ResponsiblePerson{
			FirstName:  strings.TrimSpace(req.Responsible.FirstName),
			LastName:   strings.TrimSpace(req.Responsible.LastName),
			Phone:      strings.TrimSpace(req.Responsible.Phone),
			Street:     strings.TrimSpace(req.Responsible.Street),
			PostalCode: strings.TrimSpace(req.Responsible.PostalCode),
			City:       strings.TrimSpace(req.Responsible.City),
		}
	}

	created, err := h.education.CreateWithStudents(requester, newStudents(req.Students))
	if err != nil {
		h.logger.Error("create education registration", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to register"})
		return
	}

	loc := locale.Resolve(req.Locale, "")
	if err := h.mailer.SendEducationConfirmation(r.Context(), created.Email, loc, created.FirstName, token); err != nil {
		h.logger.Error("send education confirmation", "email", created.Email, "error", err)
	}

	studentRows, err := h.education.ListStudents(created.ID)
	if err != nil {
		h.logger.Error("list students", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to register"})
		return
	}
	studentIDs := make([]int64, 0, len(studentRows))
	for _, st := range studentRows {
		studentIDs = append(studentIDs, st.ID)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":              created.ID,
		"register_number": created.RegisterNumber,
		"status":          created.Status,
		"student_ids":     studentIDs,
	})
}

// Confirm redeems an education confirmation token from the emailed link and
// lands on the education page in the link's locale.
func (h *EducationHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "token is required"})
		return
	}
	page := "/" + string(locale.Resolve(r.URL.Query().Get("locale"), "")) + "/education"

	requester, err := h.education.GetByConfirmationToken(token)
	if err != nil {
		h.logger.Error("lookup confirmation token", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to confirm"})
		return
	}
	if requester == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "invalid token"})
		return
	}
	if requester.ConfirmedAt != nil {
		http.Redirect(w, r, page+"?confirmed=already", http.StatusFound)
		return
	}

	ok, err := h.education.Confirm(token)
	if err != nil {
		h.logger.Error("confirm education registration", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to confirm"})
		return
	}
	if !ok {
		http.Redirect(w, r, page+"?confirmed=already", http.StatusFound)
		return
	}

	http.Redirect(w, r, page+"?confirmed=1", http.StatusFound)
}

// ResendConfirmation issues a fresh token for a still-pending registration
// and emails it.
func (h *EducationHandler) ResendConfirmation(w http.ResponseWriter, r *http.Request) {
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

	requester, err := h.education.GetByEmail(req.Email)
	if err != nil {
		h.logger.Error("lookup education registration", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to resend"})
		return
	}
	if requester == nil || requester.ConfirmedAt != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no pending registration for this email"})
		return
	}

	token := uuid.NewString()
	if err := h.education.ResetConfirmationToken(requester.ID, token); err != nil {
		h.logger.Error("reset confirmation token", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to resend"})
		return
	}

	loc := locale.Resolve(req.Locale, "")
	if err := h.mailer.SendEducationConfirmation(r.Context(), requester.Email, loc, requester.FirstName, token); err != nil {
		h.logger.Error("resend education confirmation", "email", requester.Email, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to send email"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

// requester resolves the signed-in education registration from the request
// identity, or writes the error response and returns nil.
func (h *EducationHandler) requester(w http.ResponseWriter, r *http.Request) *model.EducationRequester {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return nil
	}
	requester, err := h.education.GetByEmail(id.Email)
	if err != nil {
		h.logger.Error("lookup education registration", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load registration"})
		return nil
	}
	if requester == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no education registration for this account"})
		return nil
	}
	return requester
}

// AddStudent appends one student to the signed-in requester's registration.
func (h *EducationHandler) AddStudent(w http.ResponseWriter, r *http.Request) {
	requester := h.requester(w, r)
	if requester == nil {
		return
	}

	var req studentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	req.trim()
	if errs := req.validate("student", nil); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	st, err := h.education.AddStudent(requester.ID, store.NewStudent{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BirthDate: req.BirthDate,
		Level:     req.Level,
	})
	if err != nil {
		h.logger.Error("add student", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to add student"})
		return
	}

	writeJSON(w, http.StatusOK, st)
}

// RemoveStudent soft-deletes one student. Ownership is enforced by the
// store: the row must belong to the signed-in requester.
func (h *EducationHandler) RemoveStudent(w http.ResponseWriter, r *http.Request) {
	requester := h.requester(w, r)
	if requester == nil {
		return
	}

	idStr := r.URL.Query().Get("studentId")
	if idStr == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "studentId is required"})
		return
	}
	studentID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "studentId must be a number"})
		return
	}

	ok, err := h.education.RemoveStudent(studentID, requester.ID)
	if err != nil {
		h.logger.Error("remove student", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to remove student"})
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "student not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
