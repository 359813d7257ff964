package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/alamal-ev/website/internal/auth"
	"github.com/alamal-ev/website/internal/model"
	"github.com/alamal-ev/website/internal/store"
)

const authCookieName = "auth_email"

// RequireAuth validates the session cookie against the store on every call.
// The cookie holds the signed-in email; it authorizes only if a non-deleted
// membership or education registration still exists for that address. API
// surface, so failures are JSON 401s rather than login redirects.
func RequireAuth(members *store.MemberStore, education *store.EducationStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(authCookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}
			email := cookie.Value

			kind, ok, err := resolveKind(members, education, email)
			if err != nil || !ok {
				unauthorized(w)
				return
			}

			ctx := auth.WithIdentity(r.Context(), auth.Identity{Email: email, Kind: kind})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolveKind decides which account shape the email belongs to. Members win
// when an email appears in both tables.
func resolveKind(members *store.MemberStore, education *store.EducationStore, email string) (model.ProfileKind, bool, error) {
	m, err := members.GetByEmail(email)
	if err != nil {
		return "", false, err
	}
	if m != nil {
		return model.ProfileMembership, true, nil
	}

	r, err := education.GetByEmail(email)
	if err != nil {
		return "", false, err
	}
	if r != nil {
		return model.ProfileEducation, true, nil
	}
	return "", false, nil
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}
