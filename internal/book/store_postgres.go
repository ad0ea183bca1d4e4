// Copyright (c) 2026 Inkbound. All rights reserved.
// Author: hoang.ledinh.dev@gmail.com

package book

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledinhhoang/inkbound/internal/platform/apperr"
	"github.com/ledinhhoang/inkbound/internal/platform/database/schema"
	"github.com/ledinhhoang/inkbound/internal/platform/dberr"
)

// # PostgreSQL Repository

// store implements the [Store] interface using pgx.
type store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a PostgreSQL backed catalogue store.
func NewStore(pool *pgxpool.Pool) Store {
	return &store{pool: pool}
}

// bookColumns is the SELECT list shared by every book query.
func bookColumns(alias string) string {
	columns := schema.Books.Columns()
	for i, column := range columns {
		columns[i] = alias + "." + column
	}
	return strings.Join(columns, ", ")
}

// scanBook hydrates a [Book] from a bookColumns row.
func scanBook(row pgx.Row, extra ...any) (*Book, error) {
	var book Book
	targets := []any{
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Slug,
		&book.Description,
		&book.CoverURL,
		&book.TotalChapters,
		&book.CreatedAt,
		&book.UpdatedAt,
	}
	targets = append(targets, extra...)

	if err := row.Scan(targets...); err != nil {
		return nil, err
	}
	return &book, nil
}

/*
ListBooks returns a filtered, paginated slice of books with the total count.

Description: Uses COUNT(*) OVER() so the page and the total arrive in one
round-trip. Search matches title and author case-insensitively.
*/
func (repository *store) ListBooks(context context.Context, filter Filter, limit, offset int) ([]*Book, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s b
		WHERE TRUE`,
		bookColumns("b"),
		schema.Books.Table,
	))

	if filter.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (b.%s ILIKE $%d OR b.%s ILIKE $%d)",
			schema.Books.Title, argID, schema.Books.Author, argID))
		args = append(args, "%"+filter.Search+"%")
		argID++
	}

	sortDir := "DESC"
	if strings.ToLower(filter.SortDir) == "asc" {
		sortDir = "ASC"
	}
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY b.%s %s, b.%s DESC", schema.Books.CreatedAt, sortDir, schema.Books.ID))

	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list books: %w", err)
	}
	defer rows.Close()

	var books []*Book
	var totalCount int

	for rows.Next() {
		book, err := scanBook(rows, &totalCount)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan book row: %w", err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to iterate books: %w", err)
	}

	return books, totalCount, nil
}

/*
FindBook resolves a book by UUID or slug in a single query.
*/
func (repository *store) FindBook(context context.Context, idOrSlug string) (*Book, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s b
		WHERE b.%s::text = $1 OR b.%s = $1`,
		bookColumns("b"),
		schema.Books.Table,
		schema.Books.ID,
		schema.Books.Slug,
	)

	book, err := scanBook(repository.pool.QueryRow(context, query, idOrSlug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Book")
		}
		return nil, fmt.Errorf("postgres: failed to find book: %w", err)
	}

	return book, nil
}

/*
CreateBook persists a new book. A duplicate slug surfaces as a conflict.
*/
func (repository *store) CreateBook(context context.Context, book *Book) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, 0)
		RETURNING %s, %s`,
		schema.Books.Table,
		schema.Books.ID,
		schema.Books.Title,
		schema.Books.Author,
		schema.Books.Slug,
		schema.Books.Description,
		schema.Books.CoverURL,
		schema.Books.TotalChapters,
		schema.Books.CreatedAt,
		schema.Books.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		book.ID, book.Title, book.Author, book.Slug, book.Description, book.CoverURL,
	).Scan(&book.CreatedAt, &book.UpdatedAt)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("A book with this slug already exists")
		}
		return fmt.Errorf("postgres: failed to create book: %w", err)
	}

	return nil
}

/*
ListChapters returns a page of chapters ordered by number, without content.
*/
func (repository *store) ListChapters(context context.Context, bookID string, limit, offset int) ([]*Chapter, int, error) {
	query := fmt.Sprintf(`
		SELECT
			c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s,
			COUNT(*) OVER() AS total_count
		FROM %s c
		WHERE c.%s = $1
		ORDER BY c.%s ASC
		LIMIT $2 OFFSET $3`,
		schema.Chapters.ID,
		schema.Chapters.BookID,
		schema.Chapters.ChapterNumber,
		schema.Chapters.Title,
		schema.Chapters.CoinCost,
		schema.Chapters.IsPremium,
		schema.Chapters.UnlockType,
		schema.Chapters.CreatedAt,
		schema.Chapters.Table,
		schema.Chapters.BookID,
		schema.Chapters.ChapterNumber,
	)

	rows, err := repository.pool.Query(context, query, bookID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list chapters: %w", err)
	}
	defer rows.Close()

	var chapters []*Chapter
	var totalCount int

	for rows.Next() {
		chapter := &Chapter{}
		err := rows.Scan(
			&chapter.ID,
			&chapter.BookID,
			&chapter.Number,
			&chapter.Title,
			&chapter.CoinCost,
			&chapter.IsPremium,
			&chapter.UnlockType,
			&chapter.CreatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan chapter row: %w", err)
		}
		chapters = append(chapters, chapter)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to iterate chapters: %w", err)
	}

	return chapters, totalCount, nil
}

/*
InsertChapters appends chapters and bumps total_chapters atomically.

Description: Chapters are queued on a [pgx.Batch] inside one transaction so
a bulk upload of hundreds of chapters stays a single round-trip pipeline.
A duplicate (book_id, chapter_number) aborts the whole batch as a conflict.
*/
func (repository *store) InsertChapters(context context.Context, bookID string, chapters []*Chapter) error {
	if len(chapters) == 0 {
		return nil
	}

	tx, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin chapter insert: %w", err)
	}
	defer func() { _ = tx.Rollback(context) }()

	insert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		schema.Chapters.Table,
		schema.Chapters.ID,
		schema.Chapters.BookID,
		schema.Chapters.ChapterNumber,
		schema.Chapters.Title,
		schema.Chapters.Content,
		schema.Chapters.CoinCost,
		schema.Chapters.IsPremium,
		schema.Chapters.UnlockType,
	)

	batch := &pgx.Batch{}
	for _, chapter := range chapters {
		batch.Queue(insert,
			chapter.ID, bookID, chapter.Number, chapter.Title, chapter.Content,
			chapter.CoinCost, chapter.IsPremium, chapter.UnlockType,
		)
	}

	response := tx.SendBatch(context, batch)
	for range chapters {
		if _, err := response.Exec(); err != nil {
			_ = response.Close()
			if dberr.IsUniqueViolation(err) {
				return apperr.Conflict("A chapter with this number already exists")
			}
			return fmt.Errorf("postgres: failed to insert chapter: %w", err)
		}
	}
	if err := response.Close(); err != nil {
		return fmt.Errorf("postgres: failed to close chapter batch: %w", err)
	}

	counter := fmt.Sprintf(`UPDATE %s SET %s = %s + $1, %s = NOW() WHERE %s = $2`,
		schema.Books.Table,
		schema.Books.TotalChapters,
		schema.Books.TotalChapters,
		schema.Books.UpdatedAt,
		schema.Books.ID,
	)
	tag, err := tx.Exec(context, counter, len(chapters), bookID)
	if err != nil {
		return fmt.Errorf("postgres: failed to bump chapter counter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Book")
	}

	if err := tx.Commit(context); err != nil {
		return fmt.Errorf("postgres: failed to commit chapter insert: %w", err)
	}

	return nil
}

/*
ChapterNumbers returns every chapter number of a book in ascending order.
*/
func (repository *store) ChapterNumbers(context context.Context, bookID string) ([]int, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s ASC`,
		schema.Chapters.ChapterNumber,
		schema.Chapters.Table,
		schema.Chapters.BookID,
		schema.Chapters.ChapterNumber,
	)

	rows, err := repository.pool.Query(context, query, bookID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list chapter numbers: %w", err)
	}
	defer rows.Close()

	var numbers []int
	for rows.Next() {
		var number int
		if err := rows.Scan(&number); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan chapter number: %w", err)
		}
		numbers = append(numbers, number)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to iterate chapter numbers: %w", err)
	}

	return numbers, nil
}

/*
UpdateChapterPricing overwrites pricing fields for the given chapters.

Description: One UPDATE per chapter queued on a [pgx.Batch] inside a single
transaction, so a reprice of a 200-chapter book is one pipeline round-trip
and either fully applies or fully rolls back.
*/
func (repository *store) UpdateChapterPricing(context context.Context, bookID string, updates []ChapterPricing) (int, error) {
	if len(updates) == 0 {
		return 0, nil
	}

	tx, err := repository.pool.Begin(context)
	if err != nil {
		return 0, fmt.Errorf("postgres: failed to begin reprice: %w", err)
	}
	defer func() { _ = tx.Rollback(context) }()

	update := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = $2, %s = $3, %s = NOW()
		WHERE %s = $4 AND %s = $5`,
		schema.Chapters.Table,
		schema.Chapters.CoinCost,
		schema.Chapters.IsPremium,
		schema.Chapters.UnlockType,
		schema.Chapters.UpdatedAt,
		schema.Chapters.BookID,
		schema.Chapters.ChapterNumber,
	)

	batch := &pgx.Batch{}
	for _, entry := range updates {
		batch.Queue(update, entry.CoinCost, entry.IsPremium, entry.UnlockType, bookID, entry.Number)
	}

	response := tx.SendBatch(context, batch)
	updated := 0
	for range updates {
		tag, err := response.Exec()
		if err != nil {
			_ = response.Close()
			return 0, fmt.Errorf("postgres: failed to reprice chapter: %w", err)
		}
		updated += int(tag.RowsAffected())
	}
	if err := response.Close(); err != nil {
		return 0, fmt.Errorf("postgres: failed to close reprice batch: %w", err)
	}

	if err := tx.Commit(context); err != nil {
		return 0, fmt.Errorf("postgres: failed to commit reprice: %w", err)
	}

	return updated, nil
}
