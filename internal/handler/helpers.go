package handler

import (
	"encoding/json"
	"net/http"
	netmail "net/mail"
	"strings"
	"time"
)

const authCookieName = "auth_email"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// fieldError is one entry in a validation failure's detail list.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeValidationErrors(w http.ResponseWriter, errs []fieldError) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error":  "validation failed",
		"fields": errs,
	})
}

func validBirthDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func validEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t") {
		return false
	}
	addr, err := netmail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func validGender(s string) bool {
	return s == "male" || s == "female"
}

func validMaritalStatus(s string) bool {
	switch s {
	case "single", "married", "divorced", "widowed":
		return true
	}
	return false
}

// IBANs run between 15 and 34 characters depending on the country.
func validIBAN(s string) bool {
	n := len(strings.ReplaceAll(s, " ", ""))
	return n >= 15 && n <= 34
}

func requireString(errs []fieldError, field, value string) []fieldError {
	if strings.TrimSpace(value) == "" {
		errs = append(errs, fieldError{Field: field, Message: "is required"})
	}
	return errs
}
