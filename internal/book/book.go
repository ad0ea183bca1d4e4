// Copyright (c) 2026 Inkbound. All rights reserved.
// Author: hoang.ledinh.dev@gmail.com

/*
Package book manages the Inkbound catalogue of serialized fiction.

It covers public discovery (browsing books, listing chapters with their
pricing fields) and the admin ingestion path: creating books, bulk-adding
chapters, and repricing.

Pricing Pass:

Chapter monetization fields (coin_cost, is_premium, unlock_type) are
denormalized onto the chapter row at ingestion from the pricing curve.
The reprice operation recomputes them for a whole book after a curve
change; reader activity never mutates them.
*/
package book

import "time"

// # Domain Entities

// Chapter unlock types stored on the denormalized pricing fields.
const (
	UnlockTypeFree    = "free"
	UnlockTypePremium = "premium"
)

// Book is a serialized publication in the catalogue.
type Book struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description,omitempty"`
	CoverURL      string    `json:"cover_url,omitempty"`
	TotalChapters int       `json:"total_chapters"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Chapter is one installment of a book. Content is large and only hydrated
// by single-chapter reads, never by listings.
type Chapter struct {
	ID         string    `json:"id"`
	BookID     string    `json:"book_id"`
	Number     int       `json:"number"`
	Title      string    `json:"title"`
	Content    string    `json:"content,omitempty"`
	CoinCost   int       `json:"coin_cost"`
	IsPremium  bool      `json:"is_premium"`
	UnlockType string    `json:"unlock_type"`
	CreatedAt  time.Time `json:"created_at"`
}

// Filter narrows catalogue listings.
type Filter struct {
	Search  string // Matches against title and author
	SortDir string // asc or desc, newest first by default
}

// ChapterPricing is one row of a reprice pass: the recomputed monetization
// fields for a chapter number.
type ChapterPricing struct {
	Number     int
	CoinCost   int
	IsPremium  bool
	UnlockType string
}
