// Copyright (c) 2026 Inkbound. All rights reserved.
// Author: hoang.ledinh.dev@gmail.com

package rewards

import (
	"context"
	"log/slog"
	"time"
)

// # Service Layer

// Service implements the wallet and check-in business logic.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService constructs a new rewards [Service].
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

/*
Status returns the wallet overview for the rewards screen.

Description: Derives checked_in_today and the next check-in reward from the
streak state so the client renders the screen from one call.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *WalletStatus: Balance, streaks, and next reward
  - error: Storage failures
*/
func (service *Service) Status(context context.Context, userID string) (*WalletStatus, error) {
	wallet, err := service.store.Wallet(context, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	checkedInToday := wallet.LastCheckIn != nil && sameDay(*wallet.LastCheckIn, now)

	// The reward the user would earn at their next possible check-in:
	// tomorrow's continuation when already checked in, otherwise today's.
	nextDay := nextStreakDay(wallet.CurrentStreak, wallet.LastCheckIn, now)
	if checkedInToday {
		nextDay = wallet.CurrentStreak + 1
	}

	return &WalletStatus{
		Balance:        wallet.TotalCoins,
		TotalEarned:    wallet.TotalCoinsEarned,
		TotalSpent:     wallet.TotalCoinsSpent,
		CurrentStreak:  wallet.CurrentStreak,
		LongestStreak:  wallet.LongestStreak,
		CheckedInToday: checkedInToday,
		NextReward:     checkInReward(nextDay),
	}, nil
}

/*
CheckIn performs the daily check-in for a user.

Returns:
  - *CheckInResult: Committed streak and balance state
  - error: ErrAlreadyCheckedIn, storage failures
*/
func (service *Service) CheckIn(context context.Context, userID string) (*CheckInResult, error) {
	result, err := service.store.CheckIn(context, userID, time.Now())
	if err != nil {
		return nil, err
	}

	service.logger.Info("daily_check_in",
		slog.String("user_id", userID),
		slog.Int("streak_day", result.StreakDay),
		slog.Int("coins_earned", result.CoinsEarned),
	)

	return result, nil
}

/*
Transactions returns a newest-first page of the user's coin ledger.
*/
func (service *Service) Transactions(context context.Context, userID string, limit, offset int) ([]*Transaction, int, error) {
	return service.store.ListTransactions(context, userID, limit, offset)
}
