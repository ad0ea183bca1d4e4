// Copyright (c) 2026 Inkbound. All rights reserved.
// Author: hoang.ledinh.dev@gmail.com

package monetize

import "context"

// # Monetization Data Access

// Store defines the data access contract for the access-control and unlock
// engine. The read methods take no locks; UnlockWithCoins runs its own
// serialized transaction and is the sole writer of unlock state.
type Store interface {

	/*
		ChapterMeta returns the monetization view of one chapter, joined
		with its book for display fields.

		Parameters:
		  - context: context.Context
		  - bookID: string (Book UUID)
		  - chapterNumber: int (1-based ordinal)

		Returns:
		  - *ChapterMeta: Hydrated monetization fields
		  - error: apperr.NotFound if the pair does not exist
	*/
	ChapterMeta(context context.Context, bookID string, chapterNumber int) (*ChapterMeta, error)

	/*
		ActiveSubscription returns the user's newest active, non-expired
		subscription.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - *Subscription: nil when the user has no active pass
		  - error: Storage failures
	*/
	ActiveSubscription(context context.Context, userID string) (*Subscription, error)

	/*
		FindUnlock returns the permanent grant for a (user, book, chapter)
		triple.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - bookID: string
		  - chapterNumber: int

		Returns:
		  - *ChapterUnlock: nil when no grant exists
		  - error: Storage failures
	*/
	FindUnlock(context context.Context, userID, bookID string, chapterNumber int) (*ChapterUnlock, error)

	/*
		WalletBalance returns the user's spendable coin balance.

		Description: Reads without locking. A user with no wallet row yet
		has a balance of zero, not an error.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - int: Current total_coins (0 if no wallet row)
		  - error: Storage failures
	*/
	WalletBalance(context context.Context, userID string) (int, error)

	/*
		UnlockWithCoins executes the atomic coin unlock transaction:
		chapter lock, grant check, wallet lock and debit, grant insert,
		ledger append — all-or-nothing.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - bookID: string
		  - chapterNumber: int

		Returns:
		  - *UnlockReceipt: Committed wallet movement and chapter summary
		  - error: ErrChapterNotFound, ErrAlreadyFree, ErrAlreadyUnlocked,
		    ErrInsufficientCoins, or infrastructure failures (rolled back)
	*/
	UnlockWithCoins(context context.Context, userID, bookID string, chapterNumber int) (*UnlockReceipt, error)

	/*
		AdvanceReadingProgress moves the user's bookmark for a book forward
		to chapterNumber if it is ahead of the current position.

		Description: Best-effort convenience for the unlock flow; runs
		outside the unlock transaction so its failure can never roll back
		a committed purchase.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - bookID: string
		  - chapterNumber: int

		Returns:
		  - error: Storage failures (callers log and swallow)
	*/
	AdvanceReadingProgress(context context.Context, userID, bookID string, chapterNumber int) error
}
