package book

import (
	"context"

	"booklib/internal/platform/googlebooks"
)

// Repository defines the contract for book data storage. Each method is a
// single transactional scope. Create and Update fill in the store-assigned
// fields of b. The search methods are case-insensitive substring matches
// sorted ascending by the searched field; List is sorted by creation time
// descending. All paged methods also return the total match count.
type Repository interface {
	Create(ctx context.Context, b *Book) error
	GetByID(ctx context.Context, id string) (Book, error)
	Update(ctx context.Context, b *Book) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]Book, int, error)
	SearchByTitle(ctx context.Context, q string, limit, offset int) ([]Book, int, error)
	SearchByAuthor(ctx context.Context, q string, limit, offset int) ([]Book, int, error)
	SearchByCategory(ctx context.Context, q string, limit, offset int) ([]Book, int, error)
}

// MetadataClient looks up catalog volumes for an ISBN.
type MetadataClient interface {
	VolumesByISBN(ctx context.Context, isbn string) (*googlebooks.VolumeList, error)
}
