// Copyright (c) 2026 Inkbound. All rights reserved.
// Author: hoang.ledinh.dev@gmail.com

/*
Package monetize implements chapter access control and the coin unlock flow.

It is the authority for whether a reader may open a chapter and for spending
coins to unlock one. Two cooperating paths:

  - Access decision (read): a lock-free, advisory evaluation of the access
    rule ladder. Anonymous callers are allowed — content discovery must not
    require login.
  - Coin unlock (write): a single serialized database transaction that
    debits the wallet, records the permanent unlock grant, and appends a
    ledger entry. The unlock transaction is the sole authority; the read
    path may observe slightly stale state under concurrent writes.

An unlock is a permanent, idempotent grant: once the row exists, access is
perpetual for that chapter regardless of later pricing changes.

# Wire Contract

This package's JSON uses camelCase field names. The mobile and web readers
shipped against this exact shape, so it is frozen even though the rest of
the API uses snake_case.
*/
package monetize

import (
	"time"

	"github.com/ledinhhoang/inkbound/internal/platform/apperr"
)

// # Access Vocabulary

// Access type reported in an [AccessResult].
const (
	AccessFree         = "free"
	AccessSubscription = "subscription"
	AccessUnlocked     = "unlocked"
	AccessLocked       = "locked"
)

// Unlock methods recorded on a grant. Only the coin path is executed by
// this package; ad and subscription grants are written by their own flows.
const (
	MethodCoins    = "coins"
	MethodAds      = "ads"
	MethodPremium  = "premium"
	UnlockTypeFree = "free"
)

// Unlock options surfaced on a locked chapter so the client can render the
// paywall without a follow-up request.
const (
	OptionCoins         = "coins"
	OptionWatchAds      = "watch_ads"
	OptionPurchaseCoins = "purchase_coins"
	OptionSubscribe     = "subscribe"
	OptionLoginRequired = "login_required"
)

// AdUnlockRequirement is the number of ads to watch for a free unlock. The
// ad flow itself lives in the mobile client; the count is advertised here so
// the paywall renders it.
const AdUnlockRequirement = 2

// # Domain Entities

// ChapterMeta is the monetization view of one chapter, joined with its book.
type ChapterMeta struct {
	ID         string
	BookID     string
	Number     int
	Title      string
	BookTitle  string
	BookAuthor string
	CoinCost   int
	IsPremium  bool
	UnlockType string
}

// ChapterUnlock is a permanent per-user access grant for one chapter.
type ChapterUnlock struct {
	Method     string
	CoinsSpent int
	UnlockedAt time.Time
}

// Subscription is an active blanket-access pass. Lifecycle is owned by the
// billing collaborator; this package only reads non-expired rows.
type Subscription struct {
	Type      string
	ExpiresAt time.Time
}

// UnlockReceipt is the storage-layer outcome of a committed coin unlock.
type UnlockReceipt struct {
	Chapter         *ChapterMeta
	CoinsSpent      int
	PreviousBalance int
	NewBalance      int
	TotalSpent      int
}

// # Wire DTOs (camelCase, frozen client contract)

// ChapterInfo is the chapter summary embedded in access and unlock responses.
type ChapterInfo struct {
	ID         string `json:"id"`
	Number     int    `json:"number"`
	Title      string `json:"title"`
	BookTitle  string `json:"bookTitle"`
	Author     string `json:"author,omitempty"`
	CoinCost   int    `json:"coinCost"`
	IsPremium  bool   `json:"isPremium"`
	UnlockType string `json:"unlockType"`
}

// SubscriptionInfo echoes the active pass that granted access.
type SubscriptionInfo struct {
	Type      string    `json:"type"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UnlockedInfo echoes the historical grant; coinsSpent reflects the price
// originally paid, never the current curve.
type UnlockedInfo struct {
	Method     string    `json:"method"`
	CoinsSpent int       `json:"coinsSpent"`
	UnlockedAt time.Time `json:"unlockedAt"`
}

// SubscriptionOption is one plan row on the locked paywall. Price is in
// cents; Coins is the display string for the plan's coin allowance.
type SubscriptionOption struct {
	Type  string `json:"type"`
	Price int    `json:"price"`
	Coins string `json:"coins"`
}

// subscriptionOptions returns the static plan list rendered on a locked
// paywall. Billing itself is handled by the store platforms.
func subscriptionOptions() []SubscriptionOption {
	return []SubscriptionOption{
		{Type: "weekly", Price: 499, Coins: "unlimited"},
		{Type: "monthly", Price: 1499, Coins: "unlimited"},
		{Type: "yearly", Price: 9999, Coins: "unlimited"},
	}
}

// AccessResult is the outcome of the access decision ladder.
//
// UserBalance is a pointer so it is omitted entirely for anonymous callers
// (the paywall prompt renders a price but never a balance figure).
type AccessResult struct {
	HasAccess           bool                 `json:"hasAccess"`
	AccessType          string               `json:"accessType"`
	RequiresAuth        bool                 `json:"requiresAuth,omitempty"`
	Chapter             ChapterInfo          `json:"chapter"`
	Subscription        *SubscriptionInfo    `json:"subscription,omitempty"`
	UnlockedInfo        *UnlockedInfo        `json:"unlockedInfo,omitempty"`
	UserBalance         *int                 `json:"userBalance,omitempty"`
	InsufficientCoins   bool                 `json:"insufficientCoins,omitempty"`
	CoinsNeeded         int                  `json:"coinsNeeded,omitempty"`
	UnlockOptions       []string             `json:"unlockOptions,omitempty"`
	AdRequirement       int                  `json:"adRequirement,omitempty"`
	SubscriptionOptions []SubscriptionOption `json:"subscriptionOptions,omitempty"`
}

// UnlockTransaction is the wallet movement caused by a successful unlock.
type UnlockTransaction struct {
	CoinsSpent      int `json:"coinsSpent"`
	PreviousBalance int `json:"previousBalance"`
	NewBalance      int `json:"newBalance"`
	TotalSpent      int `json:"totalSpent"`
}

// UnlockResult is the response of a successful coin unlock. NextChapterCost
// lets the client pre-render the next paywall without another round-trip.
type UnlockResult struct {
	Chapter         ChapterInfo       `json:"chapter"`
	Transaction     UnlockTransaction `json:"transaction"`
	NextChapterCost int               `json:"nextChapterCost"`
}

// # Business Errors

// Machine codes for the unlock flow's typed failures.
const (
	CodeAlreadyFree       = "ALREADY_FREE"
	CodeAlreadyUnlocked   = "ALREADY_UNLOCKED"
	CodeInsufficientCoins = "INSUFFICIENT_COINS"
)

// ErrChapterNotFound reports a missing (book, chapter) pair.
func ErrChapterNotFound() *apperr.AppError {
	return apperr.NotFound("Chapter")
}

// ErrAlreadyFree rejects an unlock attempt on a free chapter. Benign: the
// caller should simply read the chapter.
func ErrAlreadyFree() *apperr.AppError {
	return apperr.BusinessRule(CodeAlreadyFree, "This chapter is already free", nil)
}

// ErrAlreadyUnlocked rejects a repeated unlock. Benign "no purchase needed"
// signal, also surfaced by the race loser of two concurrent unlocks.
func ErrAlreadyUnlocked() *apperr.AppError {
	return apperr.BusinessRule(CodeAlreadyUnlocked, "Chapter already unlocked", nil)
}

// ErrInsufficientCoins rejects an unlock the wallet cannot cover. The meta
// payload routes the client straight to the coin purchase flow.
func ErrInsufficientCoins(required, available int) *apperr.AppError {
	return apperr.BusinessRule(CodeInsufficientCoins, "Insufficient coins", map[string]any{
		"required":  required,
		"available": available,
		"shortfall": required - available,
	})
}

// # Wallet Arithmetic

// applyDebit computes the wallet mutation for a coin unlock.
//
// It is the only place balance arithmetic happens, so the no-negative-balance
// invariant is enforced exactly once. Returns ErrInsufficientCoins when the
// balance cannot cover the cost.
func applyDebit(balance, totalSpent, cost int) (newBalance, newTotalSpent int, err error) {
	if balance < cost {
		return 0, 0, ErrInsufficientCoins(cost, balance)
	}
	return balance - cost, totalSpent + cost, nil
}
