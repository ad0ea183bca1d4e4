// Copyright (c) 2026 Inkbound. All rights reserved.
// Author: hoang.ledinh.dev@gmail.com

package monetize

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/ledinhhoang/inkbound/internal/platform/middleware"
	requestutil "github.com/ledinhhoang/inkbound/internal/platform/request"
	"github.com/ledinhhoang/inkbound/internal/platform/respond"
	"github.com/ledinhhoang/inkbound/internal/platform/validate"
)

// # Handler Implementation

// Handler implements the HTTP layer for chapter access and unlocking.
type Handler struct {
	service *Service
}

// NewHandler constructs a new monetization [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the access and unlock endpoints to the root API
// router. The access check is deliberately public: anonymous readers get a
// priced paywall response, not a 401.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Get("/books/{bookID}/chapters/{chapterNumber}/access", handler.CheckAccess)

	api.Group(func(user chi.Router) {
		user.Use(middleware.RequireAuth)
		user.Post("/books/{bookID}/chapters/{chapterNumber}/unlock", handler.UnlockChapter)
	})
}

// # Access Check

/*
GET /api/v1/books/{bookID}/chapters/{chapterNumber}/access.

Description: Evaluates the access rule ladder for the caller and chapter.
Works for anonymous callers; authentication only enriches the response.

Request:
  - bookID: string (UUID)
  - chapterNumber: int (>= 1)

Response:
  - 200: AccessResult: Decision plus paywall rendering data
  - 400: Validation: Malformed identifiers
  - 404: ErrNotFound: Unknown book/chapter pair
*/
func (handler *Handler) CheckAccess(writer http.ResponseWriter, request *http.Request) {
	bookID, chapterNumber, err := chapterParams(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	userID := ""
	if claims := requestutil.Claims(request); claims != nil {
		userID = claims.UserID
	}

	result, err := handler.service.CheckAccess(request.Context(), userID, bookID, chapterNumber)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

// # Coin Unlock

/*
POST /api/v1/books/{bookID}/chapters/{chapterNumber}/unlock.

Description: Spends coins to permanently unlock a premium chapter. Idempotent
from the client's point of view: a repeated call yields ALREADY_UNLOCKED
rather than a double charge.

Request:
  - bookID: string (UUID)
  - chapterNumber: int (>= 1)

Response:
  - 200: UnlockResult: Wallet movement and next chapter price
  - 400: ALREADY_FREE/ALREADY_UNLOCKED/INSUFFICIENT_COINS: Business rejections
  - 401: ErrUnauthorized: Authentication required
  - 404: ErrNotFound: Unknown book/chapter pair
*/
func (handler *Handler) UnlockChapter(writer http.ResponseWriter, request *http.Request) {
	bookID, chapterNumber, err := chapterParams(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.UnlockWithCoins(request.Context(), userID, bookID, chapterNumber)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

// chapterParams extracts and validates the (bookID, chapterNumber) pair
// shared by both endpoints.
func chapterParams(request *http.Request) (string, int, error) {
	bookID := requestutil.ID(request, "bookID")
	chapterNumber, convErr := strconv.Atoi(requestutil.Param(request, "chapterNumber"))

	v := &validate.Validator{}
	v.UUID("bookID", bookID)
	v.Custom("chapterNumber", convErr != nil || chapterNumber < 1, "Chapter number must be a positive integer")

	if err := v.Err(); err != nil {
		return "", 0, err
	}

	return bookID, chapterNumber, nil
}
