// Copyright (c) 2026 Inkbound. All rights reserved.
// Author: hoang.ledinh.dev@gmail.com

package rewards

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ledinhhoang/inkbound/internal/platform/middleware"
	requestutil "github.com/ledinhhoang/inkbound/internal/platform/request"
	"github.com/ledinhhoang/inkbound/internal/platform/respond"
	"github.com/ledinhhoang/inkbound/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for the rewards screen.
type Handler struct {
	service *Service
}

// NewHandler constructs a new rewards [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the rewards endpoints to the root API router.
// Everything here is per-user state, so the whole group requires auth.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Group(func(user chi.Router) {
		user.Use(middleware.RequireAuth)
		user.Get("/rewards", handler.Status)
		user.Post("/rewards/check-in", handler.CheckIn)
		user.Get("/rewards/transactions", handler.ListTransactions)
	})
}

/*
GET /api/v1/rewards.

Description: Returns the wallet overview: balance, streaks, whether today's
check-in is done, and the next reward.

Response:
  - 200: WalletStatus
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) Status(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	status, err := handler.service.Status(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, status)
}

/*
POST /api/v1/rewards/check-in.

Description: Performs the daily check-in, crediting the streak reward.

Response:
  - 200: CheckInResult: Coins earned and streak state
  - 400: ALREADY_CHECKED_IN: One check-in per calendar day
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) CheckIn(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.CheckIn(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
GET /api/v1/rewards/transactions.

Description: Returns a newest-first page of the user's coin ledger.

Request:
  - limit: int
  - page: int

Response:
  - 200: []Transaction: Paginated ledger
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) ListTransactions(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)

	transactions, total, err := handler.service.Transactions(request.Context(), userID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, transactions, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}
