package model

import "time"

// Article holds all three language versions in parallel columns. Content is
// managed out of band; this service only reads.
type Article struct {
	ID          int64      `json:"id"`
	Slug        string     `json:"slug"`
	TitleDE     string     `json:"title_de"`
	TitleFR     string     `json:"title_fr"`
	TitleAR     string     `json:"title_ar"`
	ContentDE   string     `json:"content_de"`
	ContentFR   string     `json:"content_fr"`
	ContentAR   string     `json:"content_ar"`
	ImagePath   *string    `json:"image_path"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// LocalizedArticle is the single-language view returned by the API.
type LocalizedArticle struct {
	ID          int64      `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	ImagePath   *string    `json:"image_path"`
	PublishedAt *time.Time `json:"published_at"`
}
