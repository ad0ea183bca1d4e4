// Copyright (c) 2026 Inkbound. All rights reserved.
// Author: hoang.ledinh.dev@gmail.com

package rewards

import (
	"context"
	"time"
)

// # Rewards Data Access

// Store defines the data access contract for wallets and the ledger.
type Store interface {

	/*
		Wallet returns the user's wallet state.

		Description: A user with no wallet row yet gets a zero-valued
		wallet, not an error.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - *Wallet: Current state
		  - error: Storage failures
	*/
	Wallet(context context.Context, userID string) (*Wallet, error)

	/*
		CheckIn executes the atomic daily check-in: wallet lock (provisioned
		if absent), streak computation, coin credit, history insert, ledger
		append — all-or-nothing.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - today: time.Time (check-in instant; calendar day derived in UTC)

		Returns:
		  - *CheckInResult: Committed streak and balance state
		  - error: ErrAlreadyCheckedIn or infrastructure failures
	*/
	CheckIn(context context.Context, userID string, today time.Time) (*CheckInResult, error)

	/*
		ListTransactions returns a newest-first page of the user's ledger
		with the total count.

		Returns:
		  - []*Transaction: Page of ledger rows
		  - int: Total ledger size for the user
		  - error: Storage failures
	*/
	ListTransactions(context context.Context, userID string, limit, offset int) ([]*Transaction, int, error)
}
