// Copyright (c) 2026 Inkbound. All rights reserved.
// Author: hoang.ledinh.dev@gmail.com

package rewards

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledinhhoang/inkbound/internal/platform/database/schema"
	"github.com/ledinhhoang/inkbound/internal/platform/dberr"
	"github.com/ledinhhoang/inkbound/pkg/uuid"
)

// # PostgreSQL Repository

// store implements the [Store] interface using pgx.
type store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a PostgreSQL backed rewards store.
func NewStore(pool *pgxpool.Pool) Store {
	return &store{pool: pool}
}

/*
Wallet returns the wallet state, zero-valued when no row exists yet.
*/
func (repository *store) Wallet(context context.Context, userID string) (*Wallet, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.UserRewards.TotalCoins,
		schema.UserRewards.TotalCoinsEarned,
		schema.UserRewards.TotalCoinsSpent,
		schema.UserRewards.CurrentStreak,
		schema.UserRewards.LongestStreak,
		schema.UserRewards.LastCheckIn,
		schema.UserRewards.Table,
		schema.UserRewards.UserID,
	)

	var wallet Wallet
	err := repository.pool.QueryRow(context, query, userID).Scan(
		&wallet.TotalCoins,
		&wallet.TotalCoinsEarned,
		&wallet.TotalCoinsSpent,
		&wallet.CurrentStreak,
		&wallet.LongestStreak,
		&wallet.LastCheckIn,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &Wallet{}, nil
		}
		return nil, fmt.Errorf("postgres: failed to read wallet: %w", err)
	}

	return &wallet, nil
}

// # Check-In Transaction

/*
CheckIn executes the atomic daily check-in.

Description: Provisions the wallet row if absent, locks it with
SELECT ... FOR UPDATE, then credits the streak reward, records the
check_in_history row, and appends the ledger entry. The UNIQUE constraint
on (user_id, check_in_date) is the race backstop: two concurrent check-ins
can never double-credit.
*/
func (repository *store) CheckIn(context context.Context, userID string, today time.Time) (*CheckInResult, error) {
	tx, err := repository.pool.Begin(context)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to begin check-in: %w", err)
	}
	defer func() { _ = tx.Rollback(context) }()

	// 1. Ensure the wallet row exists, then lock it.
	provision := fmt.Sprintf(`
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
	if _, err := tx.Exec(context, provision, uuid.New(), userID); err != nil {
		return nil, fmt.Errorf("postgres: failed to provision wallet: %w", err)
	}

	walletQuery := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		FOR UPDATE`,
		schema.UserRewards.TotalCoins,
		schema.UserRewards.CurrentStreak,
		schema.UserRewards.LongestStreak,
		schema.UserRewards.LastCheckIn,
		schema.UserRewards.Table,
		schema.UserRewards.UserID,
	)
	var balance, currentStreak, longestStreak int
	var lastCheckIn *time.Time
	if err := tx.QueryRow(context, walletQuery, userID).Scan(&balance, &currentStreak, &longestStreak, &lastCheckIn); err != nil {
		return nil, fmt.Errorf("postgres: failed to lock wallet: %w", err)
	}

	// 2. One check-in per calendar day.
	if lastCheckIn != nil && sameDay(*lastCheckIn, today) {
		return nil, ErrAlreadyCheckedIn()
	}

	// 3. Streak and reward arithmetic.
	streakDay := nextStreakDay(currentStreak, lastCheckIn, today)
	reward := checkInReward(streakDay)
	newBalance := balance + reward
	if streakDay > longestStreak {
		longestStreak = streakDay
	}

	// 4. Record the check-in. A unique-violation means we lost a concurrent
	// race for today's slot.
	historyID := uuid.New()
	historyInsert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)`,
		schema.CheckInHistory.Table,
		schema.CheckInHistory.ID,
		schema.CheckInHistory.UserID,
		schema.CheckInHistory.CheckInDate,
		schema.CheckInHistory.CoinsEarned,
		schema.CheckInHistory.StreakDay,
	)
	checkInDate := today.UTC().Format("2006-01-02")
	if _, err := tx.Exec(context, historyInsert, historyID, userID, checkInDate, reward, streakDay); err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, ErrAlreadyCheckedIn()
		}
		return nil, fmt.Errorf("postgres: failed to record check-in: %w", err)
	}

	// 5. Credit the wallet.
	credit := fmt.Sprintf(`
		UPDATE %s SET
			%s = $1, %s = %s + $2, %s = $3, %s = $4, %s = $5, %s = NOW()
		WHERE %s = $6`,
		schema.UserRewards.Table,
		schema.UserRewards.TotalCoins,
		schema.UserRewards.TotalCoinsEarned,
		schema.UserRewards.TotalCoinsEarned,
		schema.UserRewards.CurrentStreak,
		schema.UserRewards.LongestStreak,
		schema.UserRewards.LastCheckIn,
		schema.UserRewards.UpdatedAt,
		schema.UserRewards.UserID,
	)
	if _, err := tx.Exec(context, credit, newBalance, reward, streakDay, longestStreak, today, userID); err != nil {
		return nil, fmt.Errorf("postgres: failed to credit wallet: %w", err)
	}

	// 6. Append the ledger entry.
	ledgerInsert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, 'earned', $3, $4, 'daily_check_in', $5, $6)`,
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
	reason := fmt.Sprintf("Daily check-in - Day %d", streakDay)
	if _, err := tx.Exec(context, ledgerInsert, uuid.New(), userID, reward, reason, historyID, newBalance); err != nil {
		return nil, fmt.Errorf("postgres: failed to append reward transaction: %w", err)
	}

	if err := tx.Commit(context); err != nil {
		return nil, fmt.Errorf("postgres: failed to commit check-in: %w", err)
	}

	return &CheckInResult{
		CoinsEarned:   reward,
		StreakDay:     streakDay,
		LongestStreak: longestStreak,
		NewBalance:    newBalance,
	}, nil
}

/*
ListTransactions returns a newest-first page of the user's ledger.
*/
func (repository *store) ListTransactions(context context.Context, userID string, limit, offset int) ([]*Transaction, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, COALESCE(%s, ''), %s, %s,
			COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC
		LIMIT $2 OFFSET $3`,
		schema.RewardTransactions.ID,
		schema.RewardTransactions.TransactionType,
		schema.RewardTransactions.Amount,
		schema.RewardTransactions.Reason,
		schema.RewardTransactions.ReferenceType,
		schema.RewardTransactions.BalanceAfter,
		schema.RewardTransactions.CreatedAt,
		schema.RewardTransactions.Table,
		schema.RewardTransactions.UserID,
		schema.RewardTransactions.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list reward transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*Transaction
	var totalCount int

	for rows.Next() {
		transaction := &Transaction{}
		err := rows.Scan(
			&transaction.ID,
			&transaction.Type,
			&transaction.Amount,
			&transaction.Reason,
			&transaction.ReferenceType,
			&transaction.BalanceAfter,
			&transaction.CreatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan reward transaction: %w", err)
		}
		transactions = append(transactions, transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to iterate reward transactions: %w", err)
	}

	return transactions, totalCount, nil
}
