package book

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// Book is the persisted entity. ID and CreatedAt are assigned by the store
// on insert and never change afterwards.
type Book struct {
	ID            string
	Title         string
	Author        string
	Description   string
	ISBN          string
	Category      string
	PageCount     *int
	Publisher     string
	PublishedDate string
	ThumbnailURL  string
	Rating        *float64
	Language      string
	PreviewLink   string
	InfoLink      string
	IsEbook       *bool
	TextSnippet   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Input carries the mutable fields accepted on create and update.
type Input struct {
	Title         string
	Author        string
	Description   string
	ISBN          string
	Category      string
	PageCount     *int
	Publisher     string
	PublishedDate string
	ThumbnailURL  string
	Rating        *float64
	Language      string
}

// Summary is the response projection used by list, search, get and the
// create/update results.
type Summary struct {
	ID            string    `json:"id"`
	ISBN          string    `json:"isbn,omitempty"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Description   string    `json:"description,omitempty"`
	Publisher     string    `json:"publisher,omitempty"`
	PublishedDate string    `json:"published_date,omitempty"`
	PageCount     *int      `json:"page_count,omitempty"`
	Category      string    `json:"category,omitempty"`
	Rating        *float64  `json:"rating,omitempty"`
	ThumbnailURL  string    `json:"thumbnail_url,omitempty"`
	Language      string    `json:"language,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Detail is Summary plus the enrichment fields. InfoLink, TextSnippet and
// IsEbook stay unset unless the metadata lookup supplied them.
type Detail struct {
	Summary
	PreviewLink string `json:"preview_link,omitempty"`
	InfoLink    string `json:"info_link,omitempty"`
	IsEbook     *bool  `json:"is_ebook,omitempty"`
	TextSnippet string `json:"text_snippet,omitempty"`
}

func summaryFromBook(b Book) Summary {
	return Summary{
		ID:            b.ID,
		ISBN:          b.ISBN,
		Title:         b.Title,
		Author:        b.Author,
		Description:   b.Description,
		Publisher:     b.Publisher,
		PublishedDate: b.PublishedDate,
		PageCount:     b.PageCount,
		Category:      b.Category,
		Rating:        b.Rating,
		ThumbnailURL:  b.ThumbnailURL,
		Language:      b.Language,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func detailFromBook(b Book) Detail {
	return Detail{
		Summary:     summaryFromBook(b),
		PreviewLink: b.PreviewLink,
		InfoLink:    b.InfoLink,
		IsEbook:     b.IsEbook,
		TextSnippet: b.TextSnippet,
	}
}

func bookFromInput(in Input) Book {
	return Book{
		Title:         in.Title,
		Author:        in.Author,
		Description:   in.Description,
		ISBN:          in.ISBN,
		Category:      in.Category,
		PageCount:     in.PageCount,
		Publisher:     in.Publisher,
		PublishedDate: in.PublishedDate,
		ThumbnailURL:  in.ThumbnailURL,
		Rating:        in.Rating,
		Language:      in.Language,
	}
}
