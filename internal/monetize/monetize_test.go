// Copyright (c) 2026 Inkbound. All rights reserved.
// Author: hoang.ledinh.dev@gmail.com

package monetize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledinhhoang/inkbound/internal/platform/apperr"
)

/*
TestApplyDebit verifies the wallet debit arithmetic, including the
no-negative-balance rejection.
*/
func TestApplyDebit(t *testing.T) {
	tests := []struct {
		name         string
		balance      int
		totalSpent   int
		cost         int
		wantBalance  int
		wantSpent    int
		insufficient bool
	}{
		{"exact_cover", 50, 100, 50, 0, 150, false},
		{"surplus", 120, 0, 45, 75, 45, false},
		{"free_cost", 10, 5, 0, 10, 5, false},
		{"one_short", 49, 0, 50, 0, 0, true},
		{"empty_wallet", 0, 0, 20, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newBalance, newSpent, err := applyDebit(tt.balance, tt.totalSpent, tt.cost)

			if tt.insufficient {
				require.Error(t, err)
				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, CodeInsufficientCoins, ae.Code)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantBalance, newBalance)
			assert.Equal(t, tt.wantSpent, newSpent)
		})
	}
}

/*
TestErrInsufficientCoins_Meta checks the structured shortfall payload the
client uses to route into the coin purchase flow.
*/
func TestErrInsufficientCoins_Meta(t *testing.T) {
	err := ErrInsufficientCoins(70, 45)

	require.NotNil(t, err)
	assert.Equal(t, CodeInsufficientCoins, err.Code)
	assert.Equal(t, 70, err.Meta["required"])
	assert.Equal(t, 45, err.Meta["available"])
	assert.Equal(t, 25, err.Meta["shortfall"])
}
