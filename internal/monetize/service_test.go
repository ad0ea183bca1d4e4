// Copyright (c) 2026 Inkbound. All rights reserved.
// Author: hoang.ledinh.dev@gmail.com

package monetize_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledinhhoang/inkbound/internal/monetize"
	"github.com/ledinhhoang/inkbound/internal/platform/apperr"
)

// fakeStore satisfies [monetize.Store] with canned responses for ladder tests.
type fakeStore struct {
	meta         *monetize.ChapterMeta
	metaErr      error
	subscription *monetize.Subscription
	unlock       *monetize.ChapterUnlock
	balance      int

	receipt     *monetize.UnlockReceipt
	unlockErr   error
	progressErr error

	progressCalls int
}

func (store *fakeStore) ChapterMeta(_ context.Context, _ string, _ int) (*monetize.ChapterMeta, error) {
	return store.meta, store.metaErr
}

func (store *fakeStore) ActiveSubscription(_ context.Context, _ string) (*monetize.Subscription, error) {
	return store.subscription, nil
}

func (store *fakeStore) FindUnlock(_ context.Context, _, _ string, _ int) (*monetize.ChapterUnlock, error) {
	return store.unlock, nil
}

func (store *fakeStore) WalletBalance(_ context.Context, _ string) (int, error) {
	return store.balance, nil
}

func (store *fakeStore) UnlockWithCoins(_ context.Context, _, _ string, _ int) (*monetize.UnlockReceipt, error) {
	return store.receipt, store.unlockErr
}

func (store *fakeStore) AdvanceReadingProgress(_ context.Context, _, _ string, _ int) error {
	store.progressCalls++
	return store.progressErr
}

func newService(store *fakeStore) *monetize.Service {
	return monetize.NewService(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func premiumMeta(number, cost int) *monetize.ChapterMeta {
	return &monetize.ChapterMeta{
		ID:         "ch-1",
		BookID:     "book-1",
		Number:     number,
		Title:      "The Long Night",
		BookTitle:  "Inkbound Chronicles",
		BookAuthor: "R. Vale",
		CoinCost:   cost,
		IsPremium:  true,
		UnlockType: "premium",
	}
}

/*
TestCheckAccess_ChapterNotFound verifies the ladder stops at rule one when
the chapter does not exist.
*/
func TestCheckAccess_ChapterNotFound(t *testing.T) {
	service := newService(&fakeStore{metaErr: monetize.ErrChapterNotFound()})

	result, err := service.CheckAccess(context.Background(), "user-1", "book-1", 99)

	require.Error(t, err)
	assert.Nil(t, result)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 404, ae.HTTPStatus)
}

/*
TestCheckAccess_FreeTier covers the two free paths: an explicitly free
chapter and a premium-flagged chapter inside the free window.
*/
func TestCheckAccess_FreeTier(t *testing.T) {
	tests := []struct {
		name string
		meta *monetize.ChapterMeta
	}{
		{"non_premium", &monetize.ChapterMeta{Number: 42, Title: "Interlude", IsPremium: false}},
		{"premium_in_free_window", premiumMeta(3, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newService(&fakeStore{meta: tt.meta})

			// Anonymous on purpose: free chapters never require login.
			result, err := service.CheckAccess(context.Background(), "", "book-1", tt.meta.Number)

			require.NoError(t, err)
			assert.True(t, result.HasAccess)
			assert.Equal(t, monetize.AccessFree, result.AccessType)
			assert.False(t, result.RequiresAuth)
			assert.Equal(t, 0, result.Chapter.CoinCost)
			assert.Nil(t, result.UserBalance)
		})
	}
}

/*
TestCheckAccess_AnonymousPremium verifies that an unauthenticated caller on
a premium chapter gets a priced paywall prompt with no balance figure.
*/
func TestCheckAccess_AnonymousPremium(t *testing.T) {
	service := newService(&fakeStore{meta: premiumMeta(12, 26), balance: 500})

	result, err := service.CheckAccess(context.Background(), "", "book-1", 12)

	require.NoError(t, err)
	assert.False(t, result.HasAccess)
	assert.Equal(t, monetize.AccessLocked, result.AccessType)
	assert.True(t, result.RequiresAuth)
	assert.Equal(t, 26, result.Chapter.CoinCost)
	assert.Nil(t, result.UserBalance)
	assert.Equal(t, []string{monetize.OptionLoginRequired}, result.UnlockOptions)
}

/*
TestCheckAccess_Subscription verifies an active pass wins before unlock
records and wallet checks are consulted.
*/
func TestCheckAccess_Subscription(t *testing.T) {
	expires := time.Now().Add(20 * 24 * time.Hour).Truncate(time.Second)
	service := newService(&fakeStore{
		meta:         premiumMeta(30, 32),
		subscription: &monetize.Subscription{Type: "monthly", ExpiresAt: expires},
		// An unlock record also exists; the subscription must shadow it.
		unlock: &monetize.ChapterUnlock{Method: monetize.MethodCoins, CoinsSpent: 32},
	})

	result, err := service.CheckAccess(context.Background(), "user-1", "book-1", 30)

	require.NoError(t, err)
	assert.True(t, result.HasAccess)
	assert.Equal(t, monetize.AccessSubscription, result.AccessType)
	require.NotNil(t, result.Subscription)
	assert.Equal(t, "monthly", result.Subscription.Type)
	assert.Equal(t, expires, result.Subscription.ExpiresAt)
	assert.Nil(t, result.UnlockedInfo)
	assert.Equal(t, 0, result.Chapter.CoinCost)
}

/*
TestCheckAccess_ExistingUnlock verifies a historical grant is honoured and
echoes the price originally paid, not the current one.
*/
func TestCheckAccess_ExistingUnlock(t *testing.T) {
	unlockedAt := time.Date(2026, 5, 2, 9, 30, 0, 0, time.UTC)
	service := newService(&fakeStore{
		meta:   premiumMeta(30, 60),
		unlock: &monetize.ChapterUnlock{Method: monetize.MethodCoins, CoinsSpent: 32, UnlockedAt: unlockedAt},
	})

	result, err := service.CheckAccess(context.Background(), "user-1", "book-1", 30)

	require.NoError(t, err)
	assert.True(t, result.HasAccess)
	assert.Equal(t, monetize.AccessUnlocked, result.AccessType)
	require.NotNil(t, result.UnlockedInfo)
	assert.Equal(t, monetize.MethodCoins, result.UnlockedInfo.Method)
	assert.Equal(t, 32, result.UnlockedInfo.CoinsSpent)
	assert.Equal(t, unlockedAt, result.UnlockedInfo.UnlockedAt)
}

/*
TestCheckAccess_Locked exercises the terminal locked outcome with both a
sufficient and an insufficient wallet.
*/
func TestCheckAccess_Locked(t *testing.T) {
	t.Run("sufficient_balance", func(t *testing.T) {
		service := newService(&fakeStore{meta: premiumMeta(40, 35), balance: 100})

		result, err := service.CheckAccess(context.Background(), "user-1", "book-1", 40)

		require.NoError(t, err)
		assert.False(t, result.HasAccess)
		assert.Equal(t, monetize.AccessLocked, result.AccessType)
		require.NotNil(t, result.UserBalance)
		assert.Equal(t, 100, *result.UserBalance)
		assert.False(t, result.InsufficientCoins)
		assert.Equal(t, 0, result.CoinsNeeded)
		assert.Equal(t, []string{
			monetize.OptionCoins,
			monetize.OptionWatchAds,
			monetize.OptionPurchaseCoins,
			monetize.OptionSubscribe,
		}, result.UnlockOptions)

		// Static paywall-rendering fields carried on every locked response.
		assert.Equal(t, monetize.AdUnlockRequirement, result.AdRequirement)
		require.Len(t, result.SubscriptionOptions, 3)
		assert.Equal(t, "weekly", result.SubscriptionOptions[0].Type)
		assert.Equal(t, 499, result.SubscriptionOptions[0].Price)
		assert.Equal(t, "unlimited", result.SubscriptionOptions[0].Coins)
		assert.Equal(t, "yearly", result.SubscriptionOptions[2].Type)
	})

	t.Run("insufficient_balance", func(t *testing.T) {
		service := newService(&fakeStore{meta: premiumMeta(40, 35), balance: 20})

		result, err := service.CheckAccess(context.Background(), "user-1", "book-1", 40)

		require.NoError(t, err)
		assert.False(t, result.HasAccess)
		assert.True(t, result.InsufficientCoins)
		assert.Equal(t, 15, result.CoinsNeeded)
		assert.NotContains(t, result.UnlockOptions, monetize.OptionCoins)
		assert.Contains(t, result.UnlockOptions, monetize.OptionPurchaseCoins)
	})

	t.Run("zero_balance_wallet_absent", func(t *testing.T) {
		service := newService(&fakeStore{meta: premiumMeta(40, 35), balance: 0})

		result, err := service.CheckAccess(context.Background(), "user-1", "book-1", 40)

		require.NoError(t, err)
		require.NotNil(t, result.UserBalance)
		assert.Equal(t, 0, *result.UserBalance)
		assert.Equal(t, 35, result.CoinsNeeded)
	})
}

/*
TestUnlockWithCoins_RequiresAuth verifies the unlock path refuses anonymous
callers before touching the store.
*/
func TestUnlockWithCoins_RequiresAuth(t *testing.T) {
	service := newService(&fakeStore{})

	result, err := service.UnlockWithCoins(context.Background(), "", "book-1", 12)

	require.Error(t, err)
	assert.Nil(t, result)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 401, ae.HTTPStatus)
}

/*
TestUnlockWithCoins_Success verifies the receipt mapping, the next-chapter
price hint, and the bookmark advance.
*/
func TestUnlockWithCoins_Success(t *testing.T) {
	store := &fakeStore{
		receipt: &monetize.UnlockReceipt{
			Chapter:         premiumMeta(12, 26),
			CoinsSpent:      26,
			PreviousBalance: 100,
			NewBalance:      74,
			TotalSpent:      126,
		},
	}
	service := newService(store)

	result, err := service.UnlockWithCoins(context.Background(), "user-1", "book-1", 12)

	require.NoError(t, err)
	assert.Equal(t, 26, result.Transaction.CoinsSpent)
	assert.Equal(t, 100, result.Transaction.PreviousBalance)
	assert.Equal(t, 74, result.Transaction.NewBalance)
	assert.Equal(t, 126, result.Transaction.TotalSpent)
	assert.Equal(t, monetize.MethodCoins, result.Chapter.UnlockType)
	assert.True(t, result.NextChapterCost >= 20)
	assert.Equal(t, 1, store.progressCalls)
}

/*
TestUnlockWithCoins_ProgressFailureSwallowed verifies a bookmark failure
never fails a committed purchase.
*/
func TestUnlockWithCoins_ProgressFailureSwallowed(t *testing.T) {
	store := &fakeStore{
		receipt: &monetize.UnlockReceipt{
			Chapter:         premiumMeta(12, 26),
			CoinsSpent:      26,
			PreviousBalance: 30,
			NewBalance:      4,
			TotalSpent:      26,
		},
		progressErr: errors.New("connection reset"),
	}
	service := newService(store)

	result, err := service.UnlockWithCoins(context.Background(), "user-1", "book-1", 12)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 1, store.progressCalls)
}

/*
TestUnlockWithCoins_StoreErrors verifies typed business failures pass
through untouched.
*/
func TestUnlockWithCoins_StoreErrors(t *testing.T) {
	tests := []struct {
		name     string
		storeErr *apperr.AppError
		wantCode string
	}{
		{"already_free", monetize.ErrAlreadyFree(), monetize.CodeAlreadyFree},
		{"already_unlocked", monetize.ErrAlreadyUnlocked(), monetize.CodeAlreadyUnlocked},
		{"insufficient", monetize.ErrInsufficientCoins(26, 4), monetize.CodeInsufficientCoins},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{unlockErr: tt.storeErr}
			service := newService(store)

			result, err := service.UnlockWithCoins(context.Background(), "user-1", "book-1", 12)

			require.Error(t, err)
			assert.Nil(t, result)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.wantCode, ae.Code)
			assert.Equal(t, 0, store.progressCalls)
		})
	}
}
