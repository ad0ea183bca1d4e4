// Copyright (c) 2026 Inkbound. All rights reserved.
// Author: hoang.ledinh.dev@gmail.com

/*
Package monetize: PostgreSQL implementation of the access/unlock store.

Concurrency design:

  - The unlock transaction locks the chapter row and the wallet row with
    SELECT ... FOR UPDATE, serializing concurrent unlocks by the same user
    (same chapter or across chapters through the shared wallet row). Two
    different users unlocking different chapters never contend.
  - The UNIQUE constraint on user_chapter_unlocks(user_id, book_id,
    chapter_number) is the final backstop: if two transactions both pass
    the pre-check before either commits, only one insert succeeds and the
    loser surfaces ErrAlreadyUnlocked instead of double-charging.

All business-rule failures roll back explicitly and return typed errors;
only genuine infrastructure failures propagate as internal errors.
*/
package monetize

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledinhhoang/inkbound/internal/platform/database/schema"
	"github.com/ledinhhoang/inkbound/internal/platform/dberr"
	"github.com/ledinhhoang/inkbound/internal/pricing"
	"github.com/ledinhhoang/inkbound/pkg/uuid"
)

// # PostgreSQL Repository

// store implements the [Store] interface using pgx.
type store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a PostgreSQL backed monetization store.
func NewStore(pool *pgxpool.Pool) Store {
	return &store{pool: pool}
}

// chapterMetaQuery selects the monetization view of a chapter joined with
// its book. The lockClause is empty on the read path and "FOR UPDATE OF c"
// inside the unlock transaction.
func chapterMetaQuery(lockClause string) string {
	return fmt.Sprintf(`
		SELECT
			c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s,
			b.%s AS book_title, b.%s AS book_author
		FROM %s c
		JOIN %s b ON c.%s = b.%s
		WHERE c.%s = $1 AND c.%s = $2
		%s`,
		schema.Chapters.ID,
		schema.Chapters.BookID,
		schema.Chapters.ChapterNumber,
		schema.Chapters.Title,
		schema.Chapters.CoinCost,
		schema.Chapters.IsPremium,
		schema.Chapters.UnlockType,
		schema.Books.Title,
		schema.Books.Author,
		schema.Chapters.Table,
		schema.Books.Table,
		schema.Chapters.BookID,
		schema.Books.ID,
		schema.Chapters.BookID,
		schema.Chapters.ChapterNumber,
		lockClause,
	)
}

// scanChapterMeta hydrates a [ChapterMeta] from a chapterMetaQuery row.
func scanChapterMeta(row pgx.Row) (*ChapterMeta, error) {
	var meta ChapterMeta
	err := row.Scan(
		&meta.ID,
		&meta.BookID,
		&meta.Number,
		&meta.Title,
		&meta.CoinCost,
		&meta.IsPremium,
		&meta.UnlockType,
		&meta.BookTitle,
		&meta.BookAuthor,
	)
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

/*
ChapterMeta returns the monetization view of one chapter.

Parameters:
  - context: context.Context
  - bookID: string (Book UUID)
  - chapterNumber: int

Returns:
  - *ChapterMeta: Hydrated entity
  - error: ErrChapterNotFound on absent rows
*/
func (repository *store) ChapterMeta(context context.Context, bookID string, chapterNumber int) (*ChapterMeta, error) {
	row := repository.pool.QueryRow(context, chapterMetaQuery(""), bookID, chapterNumber)

	meta, err := scanChapterMeta(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrChapterNotFound()
		}
		return nil, fmt.Errorf("postgres: failed to find chapter meta: %w", err)
	}

	return meta, nil
}

/*
ActiveSubscription returns the user's newest active, non-expired pass.

Returns:
  - *Subscription: nil when no active pass exists
*/
func (repository *store) ActiveSubscription(context context.Context, userID string) (*Subscription, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM %s
		WHERE %s = $1 AND %s = 'active' AND %s > NOW()
		ORDER BY %s DESC
		LIMIT 1`,
		schema.UserSubscriptions.SubscriptionType,
		schema.UserSubscriptions.ExpiresAt,
		schema.UserSubscriptions.Table,
		schema.UserSubscriptions.UserID,
		schema.UserSubscriptions.Status,
		schema.UserSubscriptions.ExpiresAt,
		schema.UserSubscriptions.ExpiresAt,
	)

	var subscription Subscription
	err := repository.pool.QueryRow(context, query, userID).Scan(&subscription.Type, &subscription.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: failed to find active subscription: %w", err)
	}

	return &subscription, nil
}

/*
FindUnlock returns the permanent grant for a (user, book, chapter) triple.

Returns:
  - *ChapterUnlock: nil when no grant exists
*/
func (repository *store) FindUnlock(context context.Context, userID, bookID string, chapterNumber int) (*ChapterUnlock, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2 AND %s = $3`,
		schema.UserChapterUnlocks.UnlockMethod,
		schema.UserChapterUnlocks.CoinsSpent,
		schema.UserChapterUnlocks.UnlockedAt,
		schema.UserChapterUnlocks.Table,
		schema.UserChapterUnlocks.UserID,
		schema.UserChapterUnlocks.BookID,
		schema.UserChapterUnlocks.ChapterNumber,
	)

	var unlock ChapterUnlock
	err := repository.pool.QueryRow(context, query, userID, bookID, chapterNumber).
		Scan(&unlock.Method, &unlock.CoinsSpent, &unlock.UnlockedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: failed to find chapter unlock: %w", err)
	}

	return &unlock, nil
}

/*
WalletBalance returns total_coins for a user, 0 when no wallet row exists.
*/
func (repository *store) WalletBalance(context context.Context, userID string) (int, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.UserRewards.TotalCoins, schema.UserRewards.Table, schema.UserRewards.UserID)

	var balance int
	err := repository.pool.QueryRow(context, query, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("postgres: failed to read wallet balance: %w", err)
	}

	return balance, nil
}

// # Unlock Transaction

/*
UnlockWithCoins executes the atomic coin unlock.

Description: Runs the full purchase as one transaction — chapter row lock,
free/duplicate checks, wallet row lock, debit, grant insert, ledger append.
Any failure rolls back the whole operation; no partial state is possible.

Parameters:
  - context: context.Context (request-scoped; disconnect aborts and rolls back)
  - userID: string
  - bookID: string
  - chapterNumber: int

Returns:
  - *UnlockReceipt: Wallet movement after commit
  - error: Typed business errors or wrapped infrastructure failures
*/
func (repository *store) UnlockWithCoins(context context.Context, userID, bookID string, chapterNumber int) (*UnlockReceipt, error) {
	tx, err := repository.pool.Begin(context)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to begin unlock transaction: %w", err)
	}
	// Rollback is a no-op once the transaction committed.
	defer func() { _ = tx.Rollback(context) }()

	// 1. Lock and fetch the chapter. The lock guards against a concurrent
	// pricing pass changing coin_cost mid-purchase.
	meta, err := scanChapterMeta(tx.QueryRow(context, chapterMetaQuery("FOR UPDATE OF c"), bookID, chapterNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrChapterNotFound()
		}
		return nil, fmt.Errorf("postgres: failed to lock chapter: %w", err)
	}

	// 2. Free chapters have nothing to unlock.
	if !meta.IsPremium || meta.Number <= pricing.FreeWindowEnd {
		return nil, ErrAlreadyFree()
	}

	cost := effectiveCost(meta)

	// 3. Reject repeated unlocks. Idempotent-by-rejection: the caller treats
	// this as "no purchase needed", not a hard failure.
	existsQuery := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1 AND %s = $2 AND %s = $3)`,
		schema.UserChapterUnlocks.Table,
		schema.UserChapterUnlocks.UserID,
		schema.UserChapterUnlocks.BookID,
		schema.UserChapterUnlocks.ChapterNumber,
	)
	var alreadyUnlocked bool
	if err := tx.QueryRow(context, existsQuery, userID, bookID, chapterNumber).Scan(&alreadyUnlocked); err != nil {
		return nil, fmt.Errorf("postgres: failed to check existing unlock: %w", err)
	}
	if alreadyUnlocked {
		return nil, ErrAlreadyUnlocked()
	}

	// 4. Lock and fetch the wallet.
	walletQuery := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s = $1 FOR UPDATE`,
		schema.UserRewards.TotalCoins,
		schema.UserRewards.TotalCoinsSpent,
		schema.UserRewards.Table,
		schema.UserRewards.UserID,
	)
	var balance, totalSpent int
	err = tx.QueryRow(context, walletQuery, userID).Scan(&balance, &totalSpent)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// First spend attempt of a user with no wallet yet: abort the
			// purchase, then provision the zero-balance wallet outside the
			// rolled-back transaction so the lazy creation persists.
			_ = tx.Rollback(context)
			repository.provisionWallet(context, userID)
			return nil, ErrInsufficientCoins(cost, 0)
		}
		return nil, fmt.Errorf("postgres: failed to lock wallet: %w", err)
	}

	// 5-6. Debit. applyDebit enforces the no-negative-balance invariant.
	newBalance, newTotalSpent, err := applyDebit(balance, totalSpent, cost)
	if err != nil {
		return nil, err
	}

	debitQuery := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2, %s = NOW() WHERE %s = $3`,
		schema.UserRewards.Table,
		schema.UserRewards.TotalCoins,
		schema.UserRewards.TotalCoinsSpent,
		schema.UserRewards.UpdatedAt,
		schema.UserRewards.UserID,
	)
	if _, err := tx.Exec(context, debitQuery, newBalance, newTotalSpent, userID); err != nil {
		return nil, fmt.Errorf("postgres: failed to debit wallet: %w", err)
	}

	// 7. Record the permanent grant. A unique-violation here means we lost
	// a concurrent race after the step-3 check: surface the benign outcome,
	// never a double debit (the rollback restores the wallet).
	unlockInsert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		schema.UserChapterUnlocks.Table,
		schema.UserChapterUnlocks.ID,
		schema.UserChapterUnlocks.UserID,
		schema.UserChapterUnlocks.BookID,
		schema.UserChapterUnlocks.ChapterID,
		schema.UserChapterUnlocks.ChapterNumber,
		schema.UserChapterUnlocks.UnlockMethod,
		schema.UserChapterUnlocks.CoinsSpent,
	)
	if _, err := tx.Exec(context, unlockInsert, uuid.New(), userID, bookID, meta.ID, chapterNumber, MethodCoins, cost); err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, ErrAlreadyUnlocked()
		}
		return nil, fmt.Errorf("postgres: failed to insert chapter unlock: %w", err)
	}

	// 8. Append the ledger entry.
	ledgerInsert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, 'spent', $3, $4, 'chapter_unlock', $5, $6)`,
		schema.RewardTransactions.Table,
		schema.RewardTransactions.ID,
		schema.RewardTransactions.UserID,
		schema.RewardTransactions.TransactionType,
		schema.RewardTransactions.Amount,
		schema.RewardTransactions.Reason,
		schema.RewardTransactions.ReferenceType,
		schema.RewardTransactions.ReferenceID,
		schema.RewardTransactions.BalanceAfter,
	)
	reason := fmt.Sprintf("Unlocked %q - Chapter %d", meta.BookTitle, meta.Number)
	if _, err := tx.Exec(context, ledgerInsert, uuid.New(), userID, cost, reason, meta.ID, newBalance); err != nil {
		return nil, fmt.Errorf("postgres: failed to append reward transaction: %w", err)
	}

	if err := tx.Commit(context); err != nil {
		return nil, fmt.Errorf("postgres: failed to commit unlock: %w", err)
	}

	return &UnlockReceipt{
		Chapter:         meta,
		CoinsSpent:      cost,
		PreviousBalance: balance,
		NewBalance:      newBalance,
		TotalSpent:      newTotalSpent,
	}, nil
}

// provisionWallet creates a zero-balance wallet row if none exists.
// Failures are ignored: the wallet will be provisioned by the next reward
// or spend event, and the caller is already returning InsufficientCoins.
func (repository *store) provisionWallet(context context.Context, userID string) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, 0, 0, 0)
		ON CONFLICT (%s) DO NOTHING`,
		schema.UserRewards.Table,
		schema.UserRewards.ID,
		schema.UserRewards.UserID,
		schema.UserRewards.TotalCoins,
		schema.UserRewards.TotalCoinsEarned,
		schema.UserRewards.TotalCoinsSpent,
		schema.UserRewards.UserID,
	)
	_, _ = repository.pool.Exec(context, query, uuid.New(), userID)
}

/*
AdvanceReadingProgress moves the bookmark forward, never backward.

Description: Upsert with a guarded DO UPDATE so a re-read of an earlier
chapter cannot regress the position. Runs on the pool, outside any unlock
transaction.
*/
func (repository *store) AdvanceReadingProgress(context context.Context, userID, bookID string, chapterNumber int) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (%s, %s) DO UPDATE SET
			%s = EXCLUDED.%s,
			%s = NOW(),
			%s = NOW()
		WHERE %s.%s < EXCLUDED.%s`,
		schema.UserReadingProgress.Table,
		schema.UserReadingProgress.ID,
		schema.UserReadingProgress.UserID,
		schema.UserReadingProgress.BookID,
		schema.UserReadingProgress.CurrentChapterNumber,
		schema.UserReadingProgress.LastReadAt,
		schema.UserReadingProgress.UpdatedAt,
		schema.UserReadingProgress.UserID,
		schema.UserReadingProgress.BookID,
		schema.UserReadingProgress.CurrentChapterNumber,
		schema.UserReadingProgress.CurrentChapterNumber,
		schema.UserReadingProgress.LastReadAt,
		schema.UserReadingProgress.UpdatedAt,
		schema.UserReadingProgress.Table,
		schema.UserReadingProgress.CurrentChapterNumber,
		schema.UserReadingProgress.CurrentChapterNumber,
	)

	if _, err := repository.pool.Exec(context, query, uuid.New(), userID, bookID, chapterNumber); err != nil {
		return fmt.Errorf("postgres: failed to advance reading progress: %w", err)
	}

	return nil
}

// effectiveCost trusts the denormalized coin_cost when present and falls
// back to the curve for rows ingested before the pricing pass.
func effectiveCost(meta *ChapterMeta) int {
	if meta.CoinCost > 0 {
		return meta.CoinCost
	}
	return pricing.CoinCost(meta.Number)
}
