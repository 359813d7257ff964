package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alamal-ev/website/internal/database"
	"github.com/alamal-ev/website/internal/model"
	"github.com/alamal-ev/website/internal/store"
)

func setupArticles(t *testing.T) *ArticleHandler {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`INSERT INTO articles (slug, title_de, title_fr, title_ar, content_de, content_fr, content_ar, published, published_at)
		VALUES
		('sommerfest', 'Sommerfest', 'Fête d''été', '', 'Inhalt', 'Contenu', '', 1, datetime('now')),
		('entwurf', 'Entwurf', '', '', 'Geheim', '', '', 0, NULL)`)
	if err != nil {
		t.Fatalf("seed articles: %v", err)
	}
	return NewArticleHandler(store.NewArticleStore(db), testLogger())
}

func TestArticleListPublishedOnly(t *testing.T) {
	h := setupArticles(t)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest("GET", "/api/articles?locale=fr", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var articles []model.LocalizedArticle
	if err := json.NewDecoder(rec.Body).Decode(&articles); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("articles = %d, want 1 (drafts hidden)", len(articles))
	}
	if articles[0].Title != "Fête d'été" {
		t.Errorf("title = %q", articles[0].Title)
	}
}

func TestArticleGetFallsBackToGerman(t *testing.T) {
	h := setupArticles(t)

	req := httptest.NewRequest("GET", "/api/articles/sommerfest?locale=ar", nil)
	req.SetPathValue("slug", "sommerfest")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var a model.LocalizedArticle
	json.NewDecoder(rec.Body).Decode(&a)
	if a.Title != "Sommerfest" {
		t.Errorf("title = %q, untranslated Arabic must fall back to German", a.Title)
	}
}

func TestArticleGetUnknownSlug(t *testing.T) {
	h := setupArticles(t)

	req := httptest.NewRequest("GET", "/api/articles/nope", nil)
	req.SetPathValue("slug", "nope")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestArticleGetDraftHidden(t *testing.T) {
	h := setupArticles(t)

	req := httptest.NewRequest("GET", "/api/articles/entwurf", nil)
	req.SetPathValue("slug", "entwurf")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, drafts must 404", rec.Code)
	}
}
