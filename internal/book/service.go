package book

import (
	"context"
	"log"
	"strings"
)

// Service provides book-related business logic.
type Service struct {
	repo     Repository
	metadata MetadataClient
}

// NewService creates a new book service. metadata may be nil when no
// catalog enrichment is configured.
func NewService(repo Repository, metadata MetadataClient) *Service {
	return &Service{repo: repo, metadata: metadata}
}

// Create stores a new book and returns the stored representation.
func (s *Service) Create(ctx context.Context, in Input) (Summary, error) {
	b := bookFromInput(in)
	if err := s.repo.Create(ctx, &b); err != nil {
		return Summary{}, err
	}
	return summaryFromBook(b), nil
}

// Update overwrites all mutable fields of an existing book in one store
// operation. ID, CreatedAt and the enrichment columns are preserved,
// UpdatedAt is refreshed by the store.
func (s *Service) Update(ctx context.Context, id string, in Input) (Summary, error) {
	b := bookFromInput(in)
	b.ID = id
	if err := s.repo.Update(ctx, &b); err != nil {
		return Summary{}, err
	}
	return summaryFromBook(b), nil
}

// Delete removes a book by ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// GetByID returns a book by its ID.
func (s *Service) GetByID(ctx context.Context, id string) (Summary, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Summary{}, err
	}
	return summaryFromBook(b), nil
}

// List returns a page of books ordered by creation time descending, plus the
// total book count.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Summary, int, error) {
	books, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return summariesFromBooks(books), total, nil
}

// Search dispatches on searchBy (case-insensitive) to a title, author or
// category substring search. Unrecognized values fall back to title search.
func (s *Service) Search(ctx context.Context, query, searchBy string, limit, offset int) ([]Summary, int, error) {
	var (
		books []Book
		total int
		err   error
	)
	switch strings.ToLower(searchBy) {
	case "author":
		books, total, err = s.repo.SearchByAuthor(ctx, query, limit, offset)
	case "category":
		books, total, err = s.repo.SearchByCategory(ctx, query, limit, offset)
	default:
		books, total, err = s.repo.SearchByTitle(ctx, query, limit, offset)
	}
	if err != nil {
		return nil, 0, err
	}
	return summariesFromBooks(books), total, nil
}

// GetDetail returns the detail view of a book. When the book has an ISBN the
// metadata client is consulted and the first matching volume contributes
// info link, text snippet and is-ebook, each independently. A failed or
// empty lookup leaves the enrichment fields unset and is never an error.
func (s *Service) GetDetail(ctx context.Context, id string) (Detail, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Detail{}, err
	}

	detail := detailFromBook(b)
	if b.ISBN == "" || s.metadata == nil {
		return detail, nil
	}

	list, err := s.metadata.VolumesByISBN(ctx, b.ISBN)
	if err != nil {
		log.Printf("metadata lookup failed for isbn=%s: %v", b.ISBN, err)
		return detail, nil
	}
	if list == nil || len(list.Items) == 0 {
		return detail, nil
	}

	item := list.Items[0]
	if item.VolumeInfo != nil {
		detail.InfoLink = item.VolumeInfo.InfoLink
	}
	if item.SearchInfo != nil {
		detail.TextSnippet = item.SearchInfo.TextSnippet
	}
	if item.SaleInfo != nil {
		detail.IsEbook = item.SaleInfo.IsEbook
	}
	return detail, nil
}

func summariesFromBooks(books []Book) []Summary {
	out := make([]Summary, 0, len(books))
	for _, b := range books {
		out = append(out, summaryFromBook(b))
	}
	return out
}
