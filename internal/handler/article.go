package handler

import (
	"log/slog"
	"net/http"

	"github.com/alamal-ev/website/internal/locale"
	"github.com/alamal-ev/website/internal/model"
	"github.com/alamal-ev/website/internal/store"
)

type ArticleHandler struct {
	articles *store.ArticleStore
	logger   *slog.Logger
}

func NewArticleHandler(as *store.ArticleStore, logger *slog.Logger) *ArticleHandler {
	return &ArticleHandler{articles: as, logger: logger}
}

func requestLocale(r *http.Request) locale.Locale {
	cookie := ""
	if c, err := r.Cookie("NEXT_LOCALE"); err == nil {
		cookie = c.Value
	}
	if q := r.URL.Query().Get("locale"); q != "" {
		cookie = q
	}
	return locale.Resolve(cookie, r.Header.Get("Accept-Language"))
}

// List returns published articles in the requested language, newest first.
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	articles, err := h.articles.ListPublished()
	if err != nil {
		h.logger.Error("list articles", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load articles"})
		return
	}

	loc := requestLocale(r)
	out := make([]model.LocalizedArticle, 0, len(articles))
	for _, a := range articles {
		out = append(out, store.Localize(a, loc))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get returns one published article by slug.
func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	article, err := h.articles.GetBySlug(slug)
	if err != nil {
		h.logger.Error("get article", "slug", slug, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load article"})
		return
	}
	if article == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "article not found"})
		return
	}

	writeJSON(w, http.StatusOK, store.Localize(*article, requestLocale(r)))
}
