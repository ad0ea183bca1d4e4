// Copyright (c) 2026 Inkbound. All rights reserved.
// Author: hoang.ledinh.dev@gmail.com

package schema

// UserRewardsTable represents the 'user_rewards' wallet table.
//
// One row per user (UNIQUE on user_id). total_coins is the spendable
// balance and carries a non-negative CHECK; the earned/spent counters are
// monotonic audit totals. Mutated only inside serialized transactions that
// also append a ledger row.
type UserRewardsTable struct {
	Table            string
	ID               string
	UserID           string
	TotalCoins       string
	TotalCoinsEarned string
	TotalCoinsSpent  string
	CurrentStreak    string
	LongestStreak    string
	LastCheckIn      string
	CreatedAt        string
	UpdatedAt        string
}

// UserRewards is the schema definition for user_rewards.
var UserRewards = UserRewardsTable{
	Table:            "user_rewards",
	ID:               "id",
	UserID:           "user_id",
	TotalCoins:       "total_coins",
	TotalCoinsEarned: "total_coins_earned",
	TotalCoinsSpent:  "total_coins_spent",
	CurrentStreak:    "current_streak",
	LongestStreak:    "longest_streak",
	LastCheckIn:      "last_check_in",
	CreatedAt:        "created_at",
	UpdatedAt:        "updated_at",
}

// RewardTransactionsTable represents the append-only 'reward_transactions'
// ledger. Rows are written for every balance change and never read back for
// access decisions.
type RewardTransactionsTable struct {
	Table           string
	ID              string
	UserID          string
	TransactionType string
	Amount          string
	Reason          string
	ReferenceType   string
	ReferenceID     string
	BalanceAfter    string
	CreatedAt       string
}

// RewardTransactions is the schema definition for reward_transactions.
var RewardTransactions = RewardTransactionsTable{
	Table:           "reward_transactions",
	ID:              "id",
	UserID:          "user_id",
	TransactionType: "transaction_type",
	Amount:          "amount",
	Reason:          "reason",
	ReferenceType:   "reference_type",
	ReferenceID:     "reference_id",
	BalanceAfter:    "balance_after",
	CreatedAt:       "created_at",
}

// UserChapterUnlocksTable represents the 'user_chapter_unlocks' table.
//
// The UNIQUE constraint on (user_id, book_id, chapter_number) is the final
// race-safety backstop for concurrent unlock attempts: at most one insert
// can ever succeed per triple.
type UserChapterUnlocksTable struct {
	Table         string
	ID            string
	UserID        string
	BookID        string
	ChapterID     string
	ChapterNumber string
	UnlockMethod  string
	CoinsSpent    string
	UnlockedAt    string
}

// UserChapterUnlocks is the schema definition for user_chapter_unlocks.
var UserChapterUnlocks = UserChapterUnlocksTable{
	Table:         "user_chapter_unlocks",
	ID:            "id",
	UserID:        "user_id",
	BookID:        "book_id",
	ChapterID:     "chapter_id",
	ChapterNumber: "chapter_number",
	UnlockMethod:  "unlock_method",
	CoinsSpent:    "coins_spent",
	UnlockedAt:    "unlocked_at",
}

// UserSubscriptionsTable represents the 'user_subscriptions' table.
// Lifecycle (creation, expiry, billing) is owned by the payments
// collaborator; this codebase only reads active rows.
type UserSubscriptionsTable struct {
	Table            string
	ID               string
	UserID           string
	SubscriptionType string
	Status           string
	ExpiresAt        string
	CreatedAt        string
	UpdatedAt        string
}

// UserSubscriptions is the schema definition for user_subscriptions.
var UserSubscriptions = UserSubscriptionsTable{
	Table:            "user_subscriptions",
	ID:               "id",
	UserID:           "user_id",
	SubscriptionType: "subscription_type",
	Status:           "status",
	ExpiresAt:        "expires_at",
	CreatedAt:        "created_at",
	UpdatedAt:        "updated_at",
}

// CheckInHistoryTable represents the 'check_in_history' table.
// UNIQUE on (user_id, check_in_date) makes the daily check-in idempotent.
type CheckInHistoryTable struct {
	Table       string
	ID          string
	UserID      string
	CheckInDate string
	CoinsEarned string
	StreakDay   string
	CreatedAt   string
}

// CheckInHistory is the schema definition for check_in_history.
var CheckInHistory = CheckInHistoryTable{
	Table:       "check_in_history",
	ID:          "id",
	UserID:      "user_id",
	CheckInDate: "check_in_date",
	CoinsEarned: "coins_earned",
	StreakDay:   "streak_day",
	CreatedAt:   "created_at",
}
