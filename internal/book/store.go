// Copyright (c) 2026 Inkbound. All rights reserved.
// Author: hoang.ledinh.dev@gmail.com

package book

import "context"

// # Catalogue Data Access

// Store defines the data access contract for the catalogue.
type Store interface {

	/*
		ListBooks returns a filtered, paginated slice of books and the total
		matching count.

		Parameters:
		  - context: context.Context
		  - filter: Filter (search text, sort direction)
		  - limit: int
		  - offset: int

		Returns:
		  - []*Book: Page of books
		  - int: Total count matching the filter
		  - error: Storage failures
	*/
	ListBooks(context context.Context, filter Filter, limit, offset int) ([]*Book, int, error)

	/*
		FindBook resolves a book by UUID or slug.

		Parameters:
		  - context: context.Context
		  - idOrSlug: string

		Returns:
		  - *Book: Hydrated book
		  - error: apperr.NotFound when no match
	*/
	FindBook(context context.Context, idOrSlug string) (*Book, error)

	/*
		CreateBook persists a new book.

		Returns:
		  - error: apperr.Conflict on a duplicate slug, storage failures
	*/
	CreateBook(context context.Context, book *Book) error

	/*
		ListChapters returns a page of a book's chapters ordered by number.
		Content is not hydrated.

		Returns:
		  - []*Chapter: Page of chapters with pricing fields
		  - int: Total chapter count for the book
		  - error: Storage failures
	*/
	ListChapters(context context.Context, bookID string, limit, offset int) ([]*Chapter, int, error)

	/*
		InsertChapters appends chapters to a book and bumps its
		total_chapters counter in one transaction.

		Returns:
		  - error: apperr.Conflict on a duplicate chapter number,
		    apperr.NotFound for an unknown book, storage failures
	*/
	InsertChapters(context context.Context, bookID string, chapters []*Chapter) error

	/*
		ChapterNumbers returns every chapter number of a book in ascending
		order. Input to the reprice pass.
	*/
	ChapterNumbers(context context.Context, bookID string) ([]int, error)

	/*
		UpdateChapterPricing overwrites the denormalized pricing fields for
		the given chapter numbers of a book in one batched transaction.

		Returns:
		  - int: Number of chapter rows updated
		  - error: Storage failures
	*/
	UpdateChapterPricing(context context.Context, bookID string, updates []ChapterPricing) (int, error)
}
