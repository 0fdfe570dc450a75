package book

import (
	"context"
	"errors"
	"testing"
	"time"

	"booklib/internal/platform/googlebooks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, b *Book) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (Book, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Book), args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, b *Book) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRepo) List(ctx context.Context, limit, offset int) ([]Book, int, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]Book), args.Int(1), args.Error(2)
}

func (m *mockRepo) SearchByTitle(ctx context.Context, q string, limit, offset int) ([]Book, int, error) {
	args := m.Called(ctx, q, limit, offset)
	return args.Get(0).([]Book), args.Int(1), args.Error(2)
}

func (m *mockRepo) SearchByAuthor(ctx context.Context, q string, limit, offset int) ([]Book, int, error) {
	args := m.Called(ctx, q, limit, offset)
	return args.Get(0).([]Book), args.Int(1), args.Error(2)
}

func (m *mockRepo) SearchByCategory(ctx context.Context, q string, limit, offset int) ([]Book, int, error) {
	args := m.Called(ctx, q, limit, offset)
	return args.Get(0).([]Book), args.Int(1), args.Error(2)
}

type mockMetadata struct {
	mock.Mock
}

func (m *mockMetadata) VolumesByISBN(ctx context.Context, isbn string) (*googlebooks.VolumeList, error) {
	args := m.Called(ctx, isbn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*googlebooks.VolumeList), args.Error(1)
}

func storedBook() Book {
	pages := 200
	return Book{
		ID:            "b7f1c2a0-0000-0000-0000-000000000001",
		Title:         "Test Book",
		Author:        "Test Author",
		Description:   "Test Description",
		ISBN:          "1234567890",
		Category:      "Test Category",
		PageCount:     &pages,
		Publisher:     "Test Publisher",
		PublishedDate: "2023-01-01",
		CreatedAt:     time.Now().Add(-time.Hour),
		UpdatedAt:     time.Now().Add(-time.Hour),
	}
}

func TestService_Create(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, nil)

	now := time.Now()
	repo.On("Create", mock.Anything, mock.AnythingOfType("*book.Book")).
		Run(func(args mock.Arguments) {
			b := args.Get(1).(*Book)
			b.ID = "generated-id"
			b.CreatedAt = now
			b.UpdatedAt = now
		}).
		Return(nil)

	got, err := svc.Create(context.Background(), Input{
		Title:  "Test Book",
		Author: "Test Author",
		ISBN:   "1234567890",
	})
	require.NoError(t, err)

	assert.Equal(t, "generated-id", got.ID)
	assert.Equal(t, "Test Book", got.Title)
	assert.Equal(t, "Test Author", got.Author)
	assert.Equal(t, "1234567890", got.ISBN)
	assert.False(t, got.CreatedAt.After(time.Now()))
	repo.AssertExpectations(t)
}

func TestService_Update(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewService(repo, nil)

		repo.On("Update", mock.Anything, mock.AnythingOfType("*book.Book")).Return(ErrNotFound)

		_, err := svc.Update(context.Background(), "missing", Input{Title: "X", Author: "Y"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("single store call overwriting mutable fields", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewService(repo, nil)

		existing := storedBook()
		repo.On("Update", mock.Anything, mock.AnythingOfType("*book.Book")).
			Run(func(args mock.Arguments) {
				b := args.Get(1).(*Book)
				assert.Equal(t, existing.ID, b.ID)
				assert.Equal(t, "New Title", b.Title)
				assert.Equal(t, "New Author", b.Author)
				b.CreatedAt = existing.CreatedAt
				b.UpdatedAt = time.Now()
			}).
			Return(nil)

		got, err := svc.Update(context.Background(), existing.ID, Input{
			Title:  "New Title",
			Author: "New Author",
		})
		require.NoError(t, err)
		assert.Equal(t, "New Title", got.Title)
		assert.Equal(t, existing.CreatedAt, got.CreatedAt)
		assert.True(t, got.UpdatedAt.After(existing.UpdatedAt))
		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestService_Delete_NotFound(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, nil)

	repo.On("Delete", mock.Anything, "missing").Return(ErrNotFound)

	err := svc.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_List(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, nil)

	newer := storedBook()
	older := storedBook()
	older.ID = "b7f1c2a0-0000-0000-0000-000000000002"
	older.Title = "Another Book"
	older.CreatedAt = newer.CreatedAt.Add(-time.Minute)

	repo.On("List", mock.Anything, 10, 0).Return([]Book{newer, older}, 2, nil)

	got, total, err := svc.List(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, got, 2)
	assert.Equal(t, newer.ID, got[0].ID)
	assert.Equal(t, older.ID, got[1].ID)
}

func TestService_Search_Dispatch(t *testing.T) {
	titleCases := []string{"title", "TITLE", "Title", "bogus", ""}
	for _, searchBy := range titleCases {
		t.Run("title path for "+searchBy, func(t *testing.T) {
			repo := new(mockRepo)
			svc := NewService(repo, nil)

			repo.On("SearchByTitle", mock.Anything, "go", 10, 0).Return([]Book{}, 0, nil)

			_, _, err := svc.Search(context.Background(), "go", searchBy, 10, 0)
			require.NoError(t, err)
			repo.AssertExpectations(t)
			repo.AssertNotCalled(t, "SearchByAuthor", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "SearchByCategory", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("author path", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewService(repo, nil)

		repo.On("SearchByAuthor", mock.Anything, "rob", 10, 0).Return([]Book{}, 0, nil)

		_, _, err := svc.Search(context.Background(), "rob", "Author", 10, 0)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("category path", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewService(repo, nil)

		repo.On("SearchByCategory", mock.Anything, "sci", 10, 0).Return([]Book{}, 0, nil)

		_, _, err := svc.Search(context.Background(), "sci", "CATEGORY", 10, 0)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestService_GetDetail(t *testing.T) {
	t.Run("enriches from first volume", func(t *testing.T) {
		repo := new(mockRepo)
		metadata := new(mockMetadata)
		svc := NewService(repo, metadata)

		b := storedBook()
		repo.On("GetByID", mock.Anything, b.ID).Return(b, nil)

		isEbook := true
		metadata.On("VolumesByISBN", mock.Anything, "1234567890").Return(&googlebooks.VolumeList{
			TotalItems: 1,
			Items: []googlebooks.Volume{
				{
					VolumeInfo: &googlebooks.VolumeInfo{InfoLink: "http://test.info.link"},
					SearchInfo: &googlebooks.SearchInfo{TextSnippet: "Test snippet"},
					SaleInfo:   &googlebooks.SaleInfo{IsEbook: &isEbook},
				},
			},
		}, nil)

		got, err := svc.GetDetail(context.Background(), b.ID)
		require.NoError(t, err)

		assert.Equal(t, "http://test.info.link", got.InfoLink)
		assert.Equal(t, "Test snippet", got.TextSnippet)
		require.NotNil(t, got.IsEbook)
		assert.True(t, *got.IsEbook)

		assert.Equal(t, b.ID, got.ID)
		assert.Equal(t, b.Title, got.Title)
		assert.Equal(t, b.Author, got.Author)
		assert.Equal(t, b.Description, got.Description)
	})

	t.Run("missing sub-sections leave fields unset", func(t *testing.T) {
		repo := new(mockRepo)
		metadata := new(mockMetadata)
		svc := NewService(repo, metadata)

		b := storedBook()
		repo.On("GetByID", mock.Anything, b.ID).Return(b, nil)
		metadata.On("VolumesByISBN", mock.Anything, "1234567890").Return(&googlebooks.VolumeList{
			TotalItems: 1,
			Items: []googlebooks.Volume{
				{SearchInfo: &googlebooks.SearchInfo{TextSnippet: "only snippet"}},
			},
		}, nil)

		got, err := svc.GetDetail(context.Background(), b.ID)
		require.NoError(t, err)
		assert.Equal(t, "only snippet", got.TextSnippet)
		assert.Empty(t, got.InfoLink)
		assert.Nil(t, got.IsEbook)
	})

	t.Run("empty isbn skips metadata lookup", func(t *testing.T) {
		repo := new(mockRepo)
		metadata := new(mockMetadata)
		svc := NewService(repo, metadata)

		b := storedBook()
		b.ISBN = ""
		repo.On("GetByID", mock.Anything, b.ID).Return(b, nil)

		got, err := svc.GetDetail(context.Background(), b.ID)
		require.NoError(t, err)
		assert.Empty(t, got.InfoLink)
		assert.Empty(t, got.TextSnippet)
		assert.Nil(t, got.IsEbook)
		metadata.AssertNotCalled(t, "VolumesByISBN", mock.Anything, mock.Anything)
	})

	t.Run("zero items leaves enrichment unset", func(t *testing.T) {
		repo := new(mockRepo)
		metadata := new(mockMetadata)
		svc := NewService(repo, metadata)

		b := storedBook()
		repo.On("GetByID", mock.Anything, b.ID).Return(b, nil)
		metadata.On("VolumesByISBN", mock.Anything, "1234567890").Return(&googlebooks.VolumeList{TotalItems: 0}, nil)

		got, err := svc.GetDetail(context.Background(), b.ID)
		require.NoError(t, err)
		assert.Empty(t, got.InfoLink)
		assert.Empty(t, got.TextSnippet)
		assert.Nil(t, got.IsEbook)
	})

	t.Run("client failure is not fatal", func(t *testing.T) {
		repo := new(mockRepo)
		metadata := new(mockMetadata)
		svc := NewService(repo, metadata)

		b := storedBook()
		repo.On("GetByID", mock.Anything, b.ID).Return(b, nil)
		metadata.On("VolumesByISBN", mock.Anything, "1234567890").Return(nil, errors.New("upstream timeout"))

		got, err := svc.GetDetail(context.Background(), b.ID)
		require.NoError(t, err)
		assert.Equal(t, b.Title, got.Title)
		assert.Empty(t, got.InfoLink)
		assert.Nil(t, got.IsEbook)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewService(repo, new(mockMetadata))

		repo.On("GetByID", mock.Anything, "missing").Return(Book{}, ErrNotFound)

		_, err := svc.GetDetail(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
