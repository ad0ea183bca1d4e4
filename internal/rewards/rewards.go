// Copyright (c) 2026 Inkbound. All rights reserved.
// Author: hoang.ledinh.dev@gmail.com

/*
Package rewards manages the coin wallet and the daily check-in loop.

The wallet (user_rewards) is the single balance of record, shared with the
chapter unlock flow. Every balance change appends a reward_transactions
ledger row inside the same transaction, so the ledger is a complete audit
trail.

Check-in Streaks:

A check-in on the calendar day after the previous one extends the streak;
any gap resets it to day one. The reward grows through day six, then jumps
to a flat bonus from day seven on.
*/
package rewards

import (
	"time"

	"github.com/ledinhhoang/inkbound/internal/platform/apperr"
)

// Check-in reward schedule: days one through six earn
// baseReward + (n-1)*rewardStep coins; day bonusDay and beyond earns the
// flat bonusReward.
const (
	baseReward  = 10
	rewardStep  = 5
	bonusDay    = 7
	bonusReward = 50
)

// CodeAlreadyCheckedIn rejects a second check-in on the same calendar day.
const CodeAlreadyCheckedIn = "ALREADY_CHECKED_IN"

// # Domain Entities

// Wallet is the user_rewards row: spendable balance, audit totals, and
// streak state.
type Wallet struct {
	TotalCoins       int
	TotalCoinsEarned int
	TotalCoinsSpent  int
	CurrentStreak    int
	LongestStreak    int
	LastCheckIn      *time.Time
}

// Transaction is one append-only ledger row.
type Transaction struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Amount        int       `json:"amount"`
	Reason        string    `json:"reason"`
	ReferenceType string    `json:"reference_type,omitempty"`
	BalanceAfter  int       `json:"balance_after"`
	CreatedAt     time.Time `json:"created_at"`
}

// CheckInResult is the outcome of a committed daily check-in.
type CheckInResult struct {
	CoinsEarned   int `json:"coins_earned"`
	StreakDay     int `json:"streak_day"`
	LongestStreak int `json:"longest_streak"`
	NewBalance    int `json:"new_balance"`
}

// WalletStatus is the wire representation of the wallet overview.
type WalletStatus struct {
	Balance        int  `json:"balance"`
	TotalEarned    int  `json:"total_earned"`
	TotalSpent     int  `json:"total_spent"`
	CurrentStreak  int  `json:"current_streak"`
	LongestStreak  int  `json:"longest_streak"`
	CheckedInToday bool `json:"checked_in_today"`
	NextReward     int  `json:"next_reward"`
}

// ErrAlreadyCheckedIn rejects a repeated check-in. Benign: the client shows
// the existing streak state.
func ErrAlreadyCheckedIn() *apperr.AppError {
	return apperr.BusinessRule(CodeAlreadyCheckedIn, "Already checked in today", nil)
}

// # Streak Arithmetic

// checkInReward returns the coins earned on a given streak day.
func checkInReward(streakDay int) int {
	if streakDay < 1 {
		streakDay = 1
	}
	if streakDay >= bonusDay {
		return bonusReward
	}
	return baseReward + (streakDay-1)*rewardStep
}

// nextStreakDay computes the streak day for a check-in on today: the day
// after the last check-in extends the streak, any gap resets to one.
func nextStreakDay(currentStreak int, lastCheckIn *time.Time, today time.Time) int {
	if lastCheckIn == nil {
		return 1
	}
	if sameDay(lastCheckIn.AddDate(0, 0, 1), today) {
		return currentStreak + 1
	}
	return 1
}

// sameDay reports whether two instants fall on the same UTC calendar day.
func sameDay(a, b time.Time) bool {
	ya, ma, da := a.UTC().Date()
	yb, mb, db := b.UTC().Date()
	return ya == yb && ma == mb && da == db
}
