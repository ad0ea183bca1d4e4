// Copyright (c) 2026 Inkbound. All rights reserved.
// Author: hoang.ledinh.dev@gmail.com

package rewards

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore satisfies [Store] with canned responses.
type fakeStore struct {
	wallet       *Wallet
	checkIn      *CheckInResult
	checkInErr   error
	transactions []*Transaction
}

func (store *fakeStore) Wallet(_ context.Context, _ string) (*Wallet, error) {
	return store.wallet, nil
}

func (store *fakeStore) CheckIn(_ context.Context, _ string, _ time.Time) (*CheckInResult, error) {
	return store.checkIn, store.checkInErr
}

func (store *fakeStore) ListTransactions(_ context.Context, _ string, _, _ int) ([]*Transaction, int, error) {
	return store.transactions, len(store.transactions), nil
}

func newTestService(store *fakeStore) *Service {
	return NewService(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

/*
TestStatus_FreshWallet verifies a user with no wallet row gets a zeroed
overview with day-one reward pending.
*/
func TestStatus_FreshWallet(t *testing.T) {
	service := newTestService(&fakeStore{wallet: &Wallet{}})

	status, err := service.Status(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, 0, status.Balance)
	assert.Equal(t, 0, status.CurrentStreak)
	assert.False(t, status.CheckedInToday)
	assert.Equal(t, 10, status.NextReward)
}

/*
TestStatus_CheckedInToday verifies the overview flags today's check-in and
advertises tomorrow's continuation reward.
*/
func TestStatus_CheckedInToday(t *testing.T) {
	now := time.Now()
	service := newTestService(&fakeStore{wallet: &Wallet{
		TotalCoins:    120,
		CurrentStreak: 3,
		LongestStreak: 8,
		LastCheckIn:   &now,
	}})

	status, err := service.Status(context.Background(), "user-1")

	require.NoError(t, err)
	assert.True(t, status.CheckedInToday)
	assert.Equal(t, 120, status.Balance)
	// Day 4 continuation: 10 + 3*5.
	assert.Equal(t, 25, status.NextReward)
}

/*
TestStatus_BonusDayPending verifies a six-day streak advertises the flat
day-seven bonus, not another ramp step.
*/
func TestStatus_BonusDayPending(t *testing.T) {
	yesterday := time.Now().AddDate(0, 0, -1)
	service := newTestService(&fakeStore{wallet: &Wallet{
		CurrentStreak: 6,
		LongestStreak: 6,
		LastCheckIn:   &yesterday,
	}})

	status, err := service.Status(context.Background(), "user-1")

	require.NoError(t, err)
	assert.False(t, status.CheckedInToday)
	assert.Equal(t, 50, status.NextReward)
}

/*
TestStatus_BrokenStreak verifies a lapsed streak advertises the day-one
reward again.
*/
func TestStatus_BrokenStreak(t *testing.T) {
	lastWeek := time.Now().AddDate(0, 0, -7)
	service := newTestService(&fakeStore{wallet: &Wallet{
		CurrentStreak: 14,
		LongestStreak: 14,
		LastCheckIn:   &lastWeek,
	}})

	status, err := service.Status(context.Background(), "user-1")

	require.NoError(t, err)
	assert.False(t, status.CheckedInToday)
	assert.Equal(t, 10, status.NextReward)
}

/*
TestCheckIn_PassesThroughTypedError verifies ALREADY_CHECKED_IN surfaces
untouched.
*/
func TestCheckIn_PassesThroughTypedError(t *testing.T) {
	service := newTestService(&fakeStore{checkInErr: ErrAlreadyCheckedIn()})

	result, err := service.CheckIn(context.Background(), "user-1")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorContains(t, err, "Already checked in")
}

/*
TestCheckIn_Success verifies the committed result is returned as-is.
*/
func TestCheckIn_Success(t *testing.T) {
	service := newTestService(&fakeStore{checkIn: &CheckInResult{
		CoinsEarned:   15,
		StreakDay:     2,
		LongestStreak: 5,
		NewBalance:    65,
	}})

	result, err := service.CheckIn(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, 15, result.CoinsEarned)
	assert.Equal(t, 2, result.StreakDay)
	assert.Equal(t, 65, result.NewBalance)
}
