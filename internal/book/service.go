// Copyright (c) 2026 Inkbound. All rights reserved.
// Author: hoang.ledinh.dev@gmail.com

package book

import (
	"context"
	"log/slog"

	"github.com/ledinhhoang/inkbound/internal/pricing"
	"github.com/ledinhhoang/inkbound/pkg/slice"
	"github.com/ledinhhoang/inkbound/pkg/slug"
	"github.com/ledinhhoang/inkbound/pkg/uuid"
)

// # Service Layer

// Service implements the catalogue business logic.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService constructs a new catalogue [Service].
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// NewChapter is the ingestion input for one chapter. Pricing fields are not
// accepted from callers; they are derived by the pricing pass.
type NewChapter struct {
	Number  int
	Title   string
	Content string
}

// # Discovery

/*
ListBooks returns a filtered page of the catalogue.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []*Book: Page of books
  - int: Total matching count
  - error: Storage failures
*/
func (service *Service) ListBooks(context context.Context, filter Filter, limit, offset int) ([]*Book, int, error) {
	return service.store.ListBooks(context, filter, limit, offset)
}

/*
GetBook resolves a single book by UUID or slug.
*/
func (service *Service) GetBook(context context.Context, idOrSlug string) (*Book, error) {
	return service.store.FindBook(context, idOrSlug)
}

/*
ListChapters returns a page of a book's chapters with pricing fields.

Description: Resolves the book first so an unknown book is a 404 rather
than an empty page.
*/
func (service *Service) ListChapters(context context.Context, idOrSlug string, limit, offset int) ([]*Chapter, int, error) {
	book, err := service.store.FindBook(context, idOrSlug)
	if err != nil {
		return nil, 0, err
	}

	return service.store.ListChapters(context, book.ID, limit, offset)
}

// # Ingestion

/*
CreateBook registers a new book in the catalogue.

Description: Generates the UUID and, when absent, a URL slug from the title.

Parameters:
  - context: context.Context
  - book: *Book (Title and Author required; ID/Slug filled in)

Returns:
  - error: apperr.Conflict on duplicate slug, storage failures
*/
func (service *Service) CreateBook(context context.Context, book *Book) error {
	book.ID = uuid.New()
	if book.Slug == "" {
		book.Slug = slug.From(book.Title)
	}

	if err := service.store.CreateBook(context, book); err != nil {
		return err
	}

	service.logger.Info("book_created",
		slog.String("book_id", book.ID),
		slog.String("slug", book.Slug),
	)

	return nil
}

/*
AddChapters bulk-appends chapters to a book, running the pricing pass.

Description: Each chapter's coin_cost, is_premium, and unlock_type are
denormalized from the pricing curve at its chapter number before insert.

Parameters:
  - context: context.Context
  - idOrSlug: string
  - inputs: []NewChapter

Returns:
  - []*Chapter: Created chapters with pricing fields populated
  - error: apperr.NotFound, apperr.Conflict on duplicate numbers
*/
func (service *Service) AddChapters(context context.Context, idOrSlug string, inputs []NewChapter) ([]*Chapter, error) {
	book, err := service.store.FindBook(context, idOrSlug)
	if err != nil {
		return nil, err
	}

	chapters := slice.Map(inputs, func(input NewChapter) *Chapter {
		price := pricing.ForChapter(input.Number)
		return &Chapter{
			ID:         uuid.New(),
			BookID:     book.ID,
			Number:     input.Number,
			Title:      input.Title,
			Content:    input.Content,
			CoinCost:   price.CoinCost,
			IsPremium:  price.IsPremium,
			UnlockType: unlockType(price),
		}
	})

	if err := service.store.InsertChapters(context, book.ID, chapters); err != nil {
		return nil, err
	}

	service.logger.Info("chapters_added",
		slog.String("book_id", book.ID),
		slog.Int("count", len(chapters)),
	)

	return chapters, nil
}

/*
Reprice recomputes the denormalized pricing fields for every chapter of a
book against the current curve.

Description: Admin operation for after a curve change or a bad ingestion.
Historical unlock rows are untouched; past purchases keep their original
price.

Returns:
  - int: Number of chapter rows updated
  - error: apperr.NotFound, storage failures
*/
func (service *Service) Reprice(context context.Context, idOrSlug string) (int, error) {
	book, err := service.store.FindBook(context, idOrSlug)
	if err != nil {
		return 0, err
	}

	numbers, err := service.store.ChapterNumbers(context, book.ID)
	if err != nil {
		return 0, err
	}

	updates := slice.Map(numbers, func(number int) ChapterPricing {
		price := pricing.ForChapter(number)
		return ChapterPricing{
			Number:     number,
			CoinCost:   price.CoinCost,
			IsPremium:  price.IsPremium,
			UnlockType: unlockType(price),
		}
	})

	updated, err := service.store.UpdateChapterPricing(context, book.ID, updates)
	if err != nil {
		return 0, err
	}

	service.logger.Info("book_repriced",
		slog.String("book_id", book.ID),
		slog.Int("chapters_updated", updated),
	)

	return updated, nil
}

// unlockType derives the stored unlock_type from a computed price.
func unlockType(price pricing.Price) string {
	if price.IsPremium {
		return UnlockTypePremium
	}
	return UnlockTypeFree
}
