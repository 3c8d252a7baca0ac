package domain

import "time"

// Post represents a blog article
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Excerpt   string    `json:"excerpt"`
	Content   string    `json:"content"` // HTML
	Category  string    `json:"category"`
	Featured  bool      `json:"featured"`
	Published bool      `json:"published"`
	ReadTime  int       `json:"read_time"` // minutes
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PostFilter struct {
	PublishedOnly bool
	Category      string
	Newest        bool
	Limit         int
	Offset        int
}

// PostInput carries editable fields. ContentMarkdown wins over Content when set.
type PostInput struct {
	Title           string `json:"title"`
	Slug            string `json:"slug"`
	Excerpt         string `json:"excerpt"`
	Content         string `json:"content"`
	ContentMarkdown string `json:"content_markdown,omitempty"`
	Category        string `json:"category"`
	Featured        bool   `json:"featured"`
	Published       bool   `json:"published"`
}
