package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/alamal-ev/website/internal/handler"
	"github.com/alamal-ev/website/internal/mail"
	"github.com/alamal-ev/website/internal/middleware"
	"github.com/alamal-ev/website/internal/store"
)

type Server struct {
	db          *sql.DB
	membershipH *handler.MembershipHandler
	educationH  *handler.EducationHandler
	authH       *handler.AuthHandler
	profileH    *handler.ProfileHandler
	articleH    *handler.ArticleHandler
	consentH    *handler.ConsentHandler
	memberStore *store.MemberStore
	eduStore    *store.EducationStore
	tokenStore  *store.AuthTokenStore
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(db *sql.DB, mailer mail.Sender, logger *slog.Logger) *Server {
	memberStore := store.NewMemberStore(db)
	eduStore := store.NewEducationStore(db)
	tokenStore := store.NewAuthTokenStore(db)
	articleStore := store.NewArticleStore(db)

	return &Server{
		db:          db,
		membershipH: handler.NewMembershipHandler(memberStore, mailer, logger.With("component", "membership")),
		educationH:  handler.NewEducationHandler(eduStore, mailer, logger.With("component", "education")),
		authH:       handler.NewAuthHandler(tokenStore, memberStore, eduStore, mailer, logger.With("component", "auth")),
		profileH:    handler.NewProfileHandler(memberStore, eduStore, logger.With("component", "profile")),
		articleH:    handler.NewArticleHandler(articleStore, logger.With("component", "article")),
		consentH:    handler.NewConsentHandler(),
		memberStore: memberStore,
		eduStore:    eduStore,
		tokenStore:  tokenStore,
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// AuthTokenStore returns the token store for cleanup tasks.
func (s *Server) AuthTokenStore() *store.AuthTokenStore {
	return s.tokenStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Registration and sign-in entry points are rate-limited by client IP.
	mux.HandleFunc("POST /api/membership", s.rateLimited(s.membershipH.Register))
	mux.HandleFunc("GET /api/membership/confirm", s.membershipH.Confirm)
	mux.HandleFunc("POST /api/membership/resend-confirmation", s.rateLimited(s.membershipH.ResendConfirmation))

	mux.HandleFunc("POST /api/education-registration", s.rateLimited(s.educationH.Register))
	mux.HandleFunc("GET /api/education-registration/confirm", s.educationH.Confirm)
	mux.HandleFunc("POST /api/education-registration/resend-confirmation", s.rateLimited(s.educationH.ResendConfirmation))

	mux.HandleFunc("POST /api/auth/send-magic-link", s.rateLimited(s.authH.SendMagicLink))
	mux.HandleFunc("GET /{locale}/auth/verify", s.authH.Verify)
	mux.HandleFunc("POST /api/auth/logout", s.authH.Logout)

	mux.HandleFunc("GET /api/articles", s.articleH.List)
	mux.HandleFunc("GET /api/articles/{slug}", s.articleH.Get)
	mux.HandleFunc("POST /api/consent", s.consentH.Save)

	mux.HandleFunc("GET /health", s.healthHandler)

	// Account routes re-validate the session cookie on every request.
	requireAuth := middleware.RequireAuth(s.memberStore, s.eduStore)
	mux.Handle("GET /api/auth/profile", requireAuth(http.HandlerFunc(s.profileH.Get)))
	mux.Handle("PUT /api/auth/profile", requireAuth(http.HandlerFunc(s.profileH.Update)))
	mux.Handle("POST /api/auth/cancel", requireAuth(http.HandlerFunc(s.profileH.Cancel)))
	mux.Handle("POST /api/education-registration/students", requireAuth(http.HandlerFunc(s.educationH.AddStudent)))
	mux.Handle("DELETE /api/education-registration/students", requireAuth(http.HandlerFunc(s.educationH.RemoveStudent)))

	h := middleware.LocaleRedirect(mux)
	return middleware.RequestLogger(s.logger.With("component", "http"))(h)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimited(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
