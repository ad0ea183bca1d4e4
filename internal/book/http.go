// Copyright (c) 2026 Inkbound. All rights reserved.
// Author: hoang.ledinh.dev@gmail.com

package book

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ledinhhoang/inkbound/internal/platform/middleware"
	requestutil "github.com/ledinhhoang/inkbound/internal/platform/request"
	"github.com/ledinhhoang/inkbound/internal/platform/respond"
	"github.com/ledinhhoang/inkbound/internal/platform/sec"
	"github.com/ledinhhoang/inkbound/internal/platform/validate"
	"github.com/ledinhhoang/inkbound/pkg/pagination"
)

const FieldUpdated = "chapters_updated"

// # Handler Implementation

// Handler implements the HTTP layer for the catalogue.
type Handler struct {
	service *Service
}

// NewHandler constructs a new catalogue [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches catalogue endpoints to the root API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	// Discovery endpoints
	api.Get("/books", handler.ListBooks)
	api.Get("/books/{bookID}", handler.GetBook)
	api.Get("/books/{bookID}/chapters", handler.ListChapters)

	// Admin protected endpoints
	api.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))
		admin.Post("/books", handler.CreateBook)
		admin.Post("/books/{bookID}/chapters", handler.AddChapters)
		admin.Post("/books/{bookID}/reprice", handler.Reprice)
	})
}

// # Discovery

/*
GET /api/v1/books.

Description: Returns a paginated catalogue listing.

Request:
  - q: string (Search in title and author)
  - dir: string (asc, desc)
  - limit: int
  - page: int

Response:
  - 200: []Book: Paginated list
*/
func (handler *Handler) ListBooks(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	filter := Filter{
		Search:  request.URL.Query().Get("q"),
		SortDir: request.URL.Query().Get("dir"),
	}

	books, total, err := handler.service.ListBooks(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, books, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/books/{bookID}.

Description: Returns a single book by UUID or slug.

Response:
  - 200: Book
  - 404: ErrNotFound: Book not found
*/
func (handler *Handler) GetBook(writer http.ResponseWriter, request *http.Request) {
	book, err := handler.service.GetBook(request.Context(), requestutil.ID(request, "bookID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, book)
}

/*
GET /api/v1/books/{bookID}/chapters.

Description: Returns a paginated chapter roster with pricing fields, ordered
by chapter number. Content is never included; reading goes through the
access-controlled chapter endpoints.

Response:
  - 200: []Chapter: Paginated list
  - 404: ErrNotFound: Book not found
*/
func (handler *Handler) ListChapters(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	chapters, total, err := handler.service.ListChapters(
		request.Context(),
		requestutil.ID(request, "bookID"),
		paginationParams.Limit,
		paginationParams.Offset(),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, chapters, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

// # Ingestion

// createBookRequest defines the inbound JSON schema for book creation.
type createBookRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	CoverURL    string `json:"cover_url"`
}

/*
POST /api/v1/books.

Description: Registers a new book in the catalogue.

Request:
  - body: createBookRequest

Response:
  - 201: Book: Created book
  - 400: Validation: Invalid payload
  - 403: ErrForbidden: Admin role required
  - 409: ErrConflict: Slug already taken
*/
func (handler *Handler) CreateBook(writer http.ResponseWriter, request *http.Request) {
	var input createBookRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required("title", input.Title)
	v.Required("author", input.Author)
	v.MaxLen("title", input.Title, 300)
	if input.Slug != "" {
		v.Slug("slug", input.Slug)
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	book := &Book{
		Title:       input.Title,
		Author:      input.Author,
		Slug:        input.Slug,
		Description: input.Description,
		CoverURL:    input.CoverURL,
	}

	if err := handler.service.CreateBook(request.Context(), book); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, book)
}

// addChaptersRequest defines the inbound JSON schema for bulk chapter upload.
type addChaptersRequest struct {
	Chapters []struct {
		Number  int    `json:"number"`
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"chapters"`
}

/*
POST /api/v1/books/{bookID}/chapters.

Description: Bulk-appends chapters. The pricing pass assigns coin_cost,
is_premium, and unlock_type from each chapter's number before insert.

Request:
  - bookID: string (UUID or slug)
  - body: addChaptersRequest

Response:
  - 201: []Chapter: Created chapters with pricing populated
  - 400: Validation: Missing chapters or non-positive numbers
  - 403: ErrForbidden: Admin role required
  - 404: ErrNotFound: Book not found
  - 409: ErrConflict: Duplicate chapter number
*/
func (handler *Handler) AddChapters(writer http.ResponseWriter, request *http.Request) {
	var input addChaptersRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Custom("chapters", len(input.Chapters) == 0, "At least one chapter is required")
	for _, chapter := range input.Chapters {
		if chapter.Number < 1 {
			v.Custom("chapters", true, "Chapter numbers must be positive integers")
			break
		}
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	inputs := make([]NewChapter, 0, len(input.Chapters))
	for _, chapter := range input.Chapters {
		inputs = append(inputs, NewChapter{
			Number:  chapter.Number,
			Title:   chapter.Title,
			Content: chapter.Content,
		})
	}

	chapters, err := handler.service.AddChapters(request.Context(), requestutil.ID(request, "bookID"), inputs)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, chapters)
}

/*
POST /api/v1/books/{bookID}/reprice.

Description: Recomputes the denormalized pricing fields of every chapter
against the current curve. Historical unlocks are untouched.

Response:
  - 200: chapters_updated: Number of rows rewritten
  - 403: ErrForbidden: Admin role required
  - 404: ErrNotFound: Book not found
*/
func (handler *Handler) Reprice(writer http.ResponseWriter, request *http.Request) {
	updated, err := handler.service.Reprice(request.Context(), requestutil.ID(request, "bookID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]int{FieldUpdated: updated})
}
