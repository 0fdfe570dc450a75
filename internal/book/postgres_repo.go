package book

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookColumns = `id, title, author, description, isbn, category, page_count,
	publisher, published_date, thumbnail_url, rating, language,
	preview_link, info_link, is_ebook, text_snippet, created_at, updated_at`

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &PostgresRepo{db: db, timeout: timeout}
}

// inTx runs fn inside a single transaction so every repository operation is
// one read or read-write scope against the store.
func (r *PostgresRepo) inTx(ctx context.Context, opts pgx.TxOptions, fn func(pgx.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PostgresRepo) inReadTx(ctx context.Context, fn func(pgx.Tx) error) error {
	return r.inTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly}, fn)
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	const query = `
		INSERT INTO books (title, author, description, isbn, category, page_count,
		                   publisher, published_date, thumbnail_url, rating, language)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	return r.inTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, query,
			b.Title, b.Author, b.Description, b.ISBN, b.Category, b.PageCount,
			b.Publisher, b.PublishedDate, b.ThumbnailURL, b.Rating, b.Language,
		).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	})
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books WHERE id = $1`, bookColumns)

	var b Book
	err := r.inReadTx(ctx, func(tx pgx.Tx) error {
		return scanBook(tx.QueryRow(ctx, query, id), &b)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) Update(ctx context.Context, b *Book) error {
	const query = `
		UPDATE books
		SET title = $2, author = $3, description = $4, isbn = $5, category = $6,
		    page_count = $7, publisher = $8, published_date = $9,
		    thumbnail_url = $10, rating = $11, language = $12,
		    updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at`

	err := r.inTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, query,
			b.ID, b.Title, b.Author, b.Description, b.ISBN, b.Category,
			b.PageCount, b.Publisher, b.PublishedDate, b.ThumbnailURL,
			b.Rating, b.Language,
		).Scan(&b.CreatedAt, &b.UpdatedAt)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	return r.inTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *PostgresRepo) List(ctx context.Context, limit, offset int) ([]Book, int, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM books
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, bookColumns)

	var (
		books []Book
		total int
	)
	err := r.inReadTx(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM books`).Scan(&total); err != nil {
			return err
		}
		var err error
		books, err = queryBooks(ctx, tx, query, limit, offset)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

func (r *PostgresRepo) SearchByTitle(ctx context.Context, q string, limit, offset int) ([]Book, int, error) {
	return r.searchField(ctx, "title", q, limit, offset)
}

func (r *PostgresRepo) SearchByAuthor(ctx context.Context, q string, limit, offset int) ([]Book, int, error) {
	return r.searchField(ctx, "author", q, limit, offset)
}

func (r *PostgresRepo) SearchByCategory(ctx context.Context, q string, limit, offset int) ([]Book, int, error) {
	return r.searchField(ctx, "category", q, limit, offset)
}

// searchField is only ever called with a fixed column name, so interpolating
// it into the query is safe.
func (r *PostgresRepo) searchField(ctx context.Context, field, q string, limit, offset int) ([]Book, int, error) {
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM books WHERE %s ILIKE $1`, field)
	dataQuery := fmt.Sprintf(`
		SELECT %s FROM books
		WHERE %s ILIKE $1
		ORDER BY %s ASC
		LIMIT $2 OFFSET $3`, bookColumns, field, field)
	pattern := "%" + q + "%"

	var (
		books []Book
		total int
	)
	err := r.inReadTx(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, countQuery, pattern).Scan(&total); err != nil {
			return err
		}
		var err error
		books, err = queryBooks(ctx, tx, dataQuery, pattern, limit, offset)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

func queryBooks(ctx context.Context, tx pgx.Tx, query string, args ...any) ([]Book, error) {
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		var b Book
		if err := scanBook(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBook(row pgx.Row, b *Book) error {
	return row.Scan(
		&b.ID, &b.Title, &b.Author, &b.Description, &b.ISBN, &b.Category,
		&b.PageCount, &b.Publisher, &b.PublishedDate, &b.ThumbnailURL,
		&b.Rating, &b.Language, &b.PreviewLink, &b.InfoLink, &b.IsEbook,
		&b.TextSnippet, &b.CreatedAt, &b.UpdatedAt,
	)
}
