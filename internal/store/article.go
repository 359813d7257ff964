package store

import (
	"database/sql"
	"fmt"

	"github.com/alamal-ev/website/internal/locale"
	"github.com/alamal-ev/website/internal/model"
)

type ArticleStore struct {
	db *sql.DB
}

func NewArticleStore(db *sql.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

const articleCols = `id, slug, title_de, title_fr, title_ar, content_de, content_fr, content_ar,
	image_path, published, published_at, created_at, updated_at`

func scanArticle(scanner interface{ Scan(...any) error }) (*model.Article, error) {
	var a model.Article
	var imagePath sql.NullString
	var publishedAt sql.NullTime

	err := scanner.Scan(
		&a.ID, &a.Slug, &a.TitleDE, &a.TitleFR, &a.TitleAR,
		&a.ContentDE, &a.ContentFR, &a.ContentAR,
		&imagePath, &a.Published, &publishedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if imagePath.Valid {
		a.ImagePath = &imagePath.String
	}
	if publishedAt.Valid {
		a.PublishedAt = &publishedAt.Time
	}
	return &a, nil
}

// ListPublished returns published articles, newest first.
func (s *ArticleStore) ListPublished() ([]model.Article, error) {
	rows, err := s.db.Query(
		`SELECT ` + articleCols + ` FROM articles WHERE published = 1 ORDER BY published_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var articles []model.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate articles: %w", err)
	}
	return articles, nil
}

// GetBySlug returns a published article by slug, or nil.
func (s *ArticleStore) GetBySlug(slug string) (*model.Article, error) {
	row := s.db.QueryRow(`SELECT `+articleCols+` FROM articles WHERE slug = ? AND published = 1`, slug)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get article by slug: %w", err)
	}
	return a, nil
}

// Localize projects an article into one language. Untranslated French and
// Arabic fields fall back to the German text.
func Localize(a model.Article, loc locale.Locale) model.LocalizedArticle {
	title, content := a.TitleDE, a.ContentDE
	switch loc {
	case locale.French:
		if a.TitleFR != "" {
			title = a.TitleFR
		}
		if a.ContentFR != "" {
			content = a.ContentFR
		}
	case locale.Arabic:
		if a.TitleAR != "" {
			title = a.TitleAR
		}
		if a.ContentAR != "" {
			content = a.ContentAR
		}
	}
	return model.LocalizedArticle{
		ID:          a.ID,
		Slug:        a.Slug,
		Title:       title,
		Content:     content,
		ImagePath:   a.ImagePath,
		PublishedAt: a.PublishedAt,
	}
}
