// Copyright (c) 2026 Inkbound. All rights reserved.
// Author: hoang.ledinh.dev@gmail.com

package monetize

import (
	"context"
	"log/slog"

	"github.com/ledinhhoang/inkbound/internal/platform/apperr"
	"github.com/ledinhhoang/inkbound/internal/pricing"
	"github.com/ledinhhoang/inkbound/pkg/pointer"
)

// # Service Layer

// Service orchestrates the access decision ladder and the coin unlock flow.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService constructs a new [Service] with its required store.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// # Access Decision

/*
CheckAccess evaluates whether a reader may open a chapter.

Description: Applies the access rule ladder in strict order, short-circuiting
at the first matching rule: not-found, free tier, unauthenticated premium,
active subscription, existing unlock, locked. Read-only — no locks are taken
and no state is mutated, so anonymous callers are welcome.

Parameters:
  - context: context.Context
  - userID: string (empty for anonymous callers)
  - bookID: string (Book UUID)
  - chapterNumber: int (1-based ordinal)

Returns:
  - *AccessResult: Decision plus everything the client needs to render
    either the chapter or an actionable paywall
  - error: apperr.NotFound or storage failures
*/
func (service *Service) CheckAccess(context context.Context, userID, bookID string, chapterNumber int) (*AccessResult, error) {

	// Rule 1: the chapter must exist.
	meta, err := service.store.ChapterMeta(context, bookID, chapterNumber)
	if err != nil {
		return nil, err
	}

	// Rule 2: free-tier chapters are open to everyone, authenticated or not.
	if !meta.IsPremium || meta.Number <= pricing.FreeWindowEnd {
		return &AccessResult{
			HasAccess:  true,
			AccessType: AccessFree,
			Chapter:    chapterInfo(meta, 0, false, UnlockTypeFree),
		}, nil
	}

	cost := effectiveCost(meta)

	// Rule 3: premium content needs an identity. Surface the price so the
	// client can render the paywall, but never a balance figure.
	if userID == "" {
		return &AccessResult{
			HasAccess:     false,
			AccessType:    AccessLocked,
			RequiresAuth:  true,
			Chapter:       chapterInfo(meta, cost, true, MethodPremium),
			UnlockOptions: []string{OptionLoginRequired},
		}, nil
	}

	// Rule 4: an active subscription grants blanket access without
	// consuming coins or creating an unlock record.
	subscription, err := service.store.ActiveSubscription(context, userID)
	if err != nil {
		return nil, err
	}
	if subscription != nil {
		return &AccessResult{
			HasAccess:  true,
			AccessType: AccessSubscription,
			Chapter:    chapterInfo(meta, 0, true, AccessSubscription),
			Subscription: &SubscriptionInfo{
				Type:      subscription.Type,
				ExpiresAt: subscription.ExpiresAt,
			},
		}, nil
	}

	// Rule 5: a past unlock is a perpetual grant. The echoed cost is what
	// was originally paid — never re-priced, never re-charged.
	unlock, err := service.store.FindUnlock(context, userID, bookID, chapterNumber)
	if err != nil {
		return nil, err
	}
	if unlock != nil {
		return &AccessResult{
			HasAccess:  true,
			AccessType: AccessUnlocked,
			Chapter:    chapterInfo(meta, 0, true, unlock.Method),
			UnlockedInfo: &UnlockedInfo{
				Method:     unlock.Method,
				CoinsSpent: unlock.CoinsSpent,
				UnlockedAt: unlock.UnlockedAt,
			},
		}, nil
	}

	// Rule 6: locked. Report the balance, the shortfall, and every unlock
	// route so the paywall needs no follow-up request.
	balance, err := service.store.WalletBalance(context, userID)
	if err != nil {
		return nil, err
	}

	options := make([]string, 0, 4)
	if balance >= cost {
		options = append(options, OptionCoins)
	}
	options = append(options, OptionWatchAds, OptionPurchaseCoins, OptionSubscribe)

	return &AccessResult{
		HasAccess:           false,
		AccessType:          AccessLocked,
		Chapter:             chapterInfo(meta, cost, true, MethodPremium),
		UserBalance:         pointer.To(balance),
		InsufficientCoins:   balance < cost,
		CoinsNeeded:         max(0, cost-balance),
		UnlockOptions:       options,
		AdRequirement:       AdUnlockRequirement,
		SubscriptionOptions: subscriptionOptions(),
	}, nil
}

// # Coin Unlock

/*
UnlockWithCoins spends coins to permanently unlock a premium chapter.

Description: Requires an authenticated caller. The store executes the whole
purchase atomically; afterwards the reading-progress bookmark is advanced
best-effort — its failure is logged and swallowed, never unwinding a
committed purchase.

Parameters:
  - context: context.Context
  - userID: string (must be non-empty)
  - bookID: string
  - chapterNumber: int

Returns:
  - *UnlockResult: New balance plus the next chapter's price for pre-fetch
  - error: apperr.Unauthorized, typed business errors, or storage failures
*/
func (service *Service) UnlockWithCoins(context context.Context, userID, bookID string, chapterNumber int) (*UnlockResult, error) {
	if userID == "" {
		return nil, apperr.Unauthorized("Authentication required to unlock chapters")
	}

	receipt, err := service.store.UnlockWithCoins(context, userID, bookID, chapterNumber)
	if err != nil {
		return nil, err
	}

	service.logger.Info("chapter_unlocked",
		slog.String("user_id", userID),
		slog.String("book_id", bookID),
		slog.Int("chapter_number", chapterNumber),
		slog.Int("coins_spent", receipt.CoinsSpent),
		slog.Int("new_balance", receipt.NewBalance),
	)

	// Best-effort bookmark advance. The purchase is already committed.
	if err := service.store.AdvanceReadingProgress(context, userID, bookID, chapterNumber); err != nil {
		service.logger.Warn("reading_progress_advance_failed",
			slog.String("user_id", userID),
			slog.String("book_id", bookID),
			slog.Int("chapter_number", chapterNumber),
			slog.Any("error", err),
		)
	}

	return &UnlockResult{
		Chapter: chapterInfo(receipt.Chapter, receipt.CoinsSpent, true, MethodCoins),
		Transaction: UnlockTransaction{
			CoinsSpent:      receipt.CoinsSpent,
			PreviousBalance: receipt.PreviousBalance,
			NewBalance:      receipt.NewBalance,
			TotalSpent:      receipt.TotalSpent,
		},
		NextChapterCost: pricing.CoinCost(chapterNumber + 1),
	}, nil
}

// chapterInfo maps a [ChapterMeta] to its wire representation with the
// display cost and unlock type appropriate for the access outcome.
func chapterInfo(meta *ChapterMeta, displayCost int, isPremium bool, unlockType string) ChapterInfo {
	return ChapterInfo{
		ID:         meta.ID,
		Number:     meta.Number,
		Title:      meta.Title,
		BookTitle:  meta.BookTitle,
		Author:     meta.BookAuthor,
		CoinCost:   displayCost,
		IsPremium:  isPremium,
		UnlockType: unlockType,
	}
}
