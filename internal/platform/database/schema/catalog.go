// Copyright (c) 2026 Inkbound. All rights reserved.
// Author: hoang.ledinh.dev@gmail.com

// Package schema defines table and column identifiers for every relation the
// application touches.
//
// # Why not an ORM?
//
// Stores build SQL by hand for full control over locking and aggregation.
// Centralizing the identifiers here keeps queries free of raw string
// literals, so a rename is a one-file change.
package schema

// BooksTable represents the 'books' table.
type BooksTable struct {
	Table         string
	ID            string
	Title         string
	Author        string
	Slug          string
	Description   string
	CoverURL      string
	TotalChapters string
	CreatedAt     string
	UpdatedAt     string
}

// Books is the schema definition for books.
var Books = BooksTable{
	Table:         "books",
	ID:            "id",
	Title:         "title",
	Author:        "author",
	Slug:          "slug",
	Description:   "description",
	CoverURL:      "cover_url",
	TotalChapters: "total_chapters",
	CreatedAt:     "created_at",
	UpdatedAt:     "updated_at",
}

func (t BooksTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Author, t.Slug, t.Description, t.CoverURL,
		t.TotalChapters, t.CreatedAt, t.UpdatedAt,
	}
}

// ChaptersTable represents the 'chapters' table.
//
// coin_cost, is_premium, and unlock_type are denormalized from the pricing
// curve at ingestion and recomputed by the reprice pass — never mutated by
// reader activity.
type ChaptersTable struct {
	Table         string
	ID            string
	BookID        string
	ChapterNumber string
	Title         string
	Content       string
	CoinCost      string
	IsPremium     string
	UnlockType    string
	CreatedAt     string
	UpdatedAt     string
}

// Chapters is the schema definition for chapters.
var Chapters = ChaptersTable{
	Table:         "chapters",
	ID:            "id",
	BookID:        "book_id",
	ChapterNumber: "chapter_number",
	Title:         "title",
	Content:       "content",
	CoinCost:      "coin_cost",
	IsPremium:     "is_premium",
	UnlockType:    "unlock_type",
	CreatedAt:     "created_at",
	UpdatedAt:     "updated_at",
}
