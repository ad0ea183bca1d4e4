// Copyright (c) 2026 Inkbound. All rights reserved.
// Author: hoang.ledinh.dev@gmail.com

package book_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledinhhoang/inkbound/internal/book"
	"github.com/ledinhhoang/inkbound/internal/platform/apperr"
)

// fakeStore satisfies [book.Store] with canned responses.
type fakeStore struct {
	book           *book.Book
	findErr        error
	chapterNumbers []int

	createdBook      *book.Book
	insertedChapters []*book.Chapter
	pricingUpdates   []book.ChapterPricing
}

func (store *fakeStore) ListBooks(_ context.Context, _ book.Filter, _, _ int) ([]*book.Book, int, error) {
	return []*book.Book{store.book}, 1, nil
}

func (store *fakeStore) FindBook(_ context.Context, _ string) (*book.Book, error) {
	return store.book, store.findErr
}

func (store *fakeStore) CreateBook(_ context.Context, created *book.Book) error {
	store.createdBook = created
	return nil
}

func (store *fakeStore) ListChapters(_ context.Context, _ string, _, _ int) ([]*book.Chapter, int, error) {
	return nil, 0, nil
}

func (store *fakeStore) InsertChapters(_ context.Context, _ string, chapters []*book.Chapter) error {
	store.insertedChapters = chapters
	return nil
}

func (store *fakeStore) ChapterNumbers(_ context.Context, _ string) ([]int, error) {
	return store.chapterNumbers, nil
}

func (store *fakeStore) UpdateChapterPricing(_ context.Context, _ string, updates []book.ChapterPricing) (int, error) {
	store.pricingUpdates = updates
	return len(updates), nil
}

func newService(store *fakeStore) *book.Service {
	return book.NewService(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

/*
TestCreateBook_SlugGeneration verifies the slug is derived from the title
when the caller does not supply one.
*/
func TestCreateBook_SlugGeneration(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		slug     string
		wantSlug string
	}{
		{"generated_from_title", "The Long Night", "", "the-long-night"},
		{"explicit_slug_kept", "The Long Night", "long-night", "long-night"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			service := newService(store)

			input := &book.Book{Title: tt.title, Author: "R. Vale", Slug: tt.slug}
			require.NoError(t, service.CreateBook(context.Background(), input))

			require.NotNil(t, store.createdBook)
			assert.Equal(t, tt.wantSlug, store.createdBook.Slug)
			assert.NotEmpty(t, store.createdBook.ID)
		})
	}
}

/*
TestAddChapters_PricingPass verifies the denormalized pricing fields are
derived from each chapter's number at ingestion.
*/
func TestAddChapters_PricingPass(t *testing.T) {
	store := &fakeStore{book: &book.Book{ID: "book-1", Title: "Inkbound Chronicles"}}
	service := newService(store)

	inputs := []book.NewChapter{
		{Number: 1, Title: "Opening"},
		{Number: 5, Title: "Last Free"},
		{Number: 6, Title: "First Premium"},
		{Number: 11, Title: "Curve Start"},
		{Number: 250, Title: "Deep Archive"},
	}

	chapters, err := service.AddChapters(context.Background(), "book-1", inputs)
	require.NoError(t, err)
	require.Len(t, chapters, 5)
	assert.Equal(t, store.insertedChapters, chapters)

	type want struct {
		cost       int
		premium    bool
		unlockType string
	}
	wants := []want{
		{0, false, book.UnlockTypeFree},
		{0, false, book.UnlockTypeFree},
		{20, true, book.UnlockTypePremium},
		{25, true, book.UnlockTypePremium},
		{70, true, book.UnlockTypePremium},
	}

	for i, w := range wants {
		assert.Equal(t, w.cost, chapters[i].CoinCost, "chapter %d cost", inputs[i].Number)
		assert.Equal(t, w.premium, chapters[i].IsPremium, "chapter %d premium", inputs[i].Number)
		assert.Equal(t, w.unlockType, chapters[i].UnlockType, "chapter %d unlock type", inputs[i].Number)
		assert.Equal(t, "book-1", chapters[i].BookID)
		assert.NotEmpty(t, chapters[i].ID)
	}
}

/*
TestAddChapters_UnknownBook verifies ingestion refuses before pricing when
the book cannot be resolved.
*/
func TestAddChapters_UnknownBook(t *testing.T) {
	store := &fakeStore{findErr: apperr.NotFound("Book")}
	service := newService(store)

	chapters, err := service.AddChapters(context.Background(), "missing", []book.NewChapter{{Number: 1}})

	require.Error(t, err)
	assert.Nil(t, chapters)
	assert.Nil(t, store.insertedChapters)
}

/*
TestReprice verifies every chapter number is recomputed against the curve.
*/
func TestReprice(t *testing.T) {
	store := &fakeStore{
		book:           &book.Book{ID: "book-1"},
		chapterNumbers: []int{1, 6, 200, 201},
	}
	service := newService(store)

	updated, err := service.Reprice(context.Background(), "book-1")
	require.NoError(t, err)
	assert.Equal(t, 4, updated)

	require.Len(t, store.pricingUpdates, 4)
	assert.Equal(t, book.ChapterPricing{Number: 1, CoinCost: 0, IsPremium: false, UnlockType: book.UnlockTypeFree}, store.pricingUpdates[0])
	assert.Equal(t, book.ChapterPricing{Number: 6, CoinCost: 20, IsPremium: true, UnlockType: book.UnlockTypePremium}, store.pricingUpdates[1])
	assert.Equal(t, book.ChapterPricing{Number: 200, CoinCost: 70, IsPremium: true, UnlockType: book.UnlockTypePremium}, store.pricingUpdates[2])
	assert.Equal(t, book.ChapterPricing{Number: 201, CoinCost: 70, IsPremium: true, UnlockType: book.UnlockTypePremium}, store.pricingUpdates[3])
}
