// Copyright (c) 2026 Inkbound. All rights reserved.
// Author: hoang.ledinh.dev@gmail.com

package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ledinhhoang/inkbound/internal/pricing"
)

/*
TestForChapter_FreeWindow verifies the free preview invariant for chapters 1-5.
*/
func TestForChapter_FreeWindow(t *testing.T) {
	for n := 1; n <= 5; n++ {
		price := pricing.ForChapter(n)
		assert.Equal(t, 0, price.CoinCost, "chapter %d must be free", n)
		assert.False(t, price.IsPremium, "chapter %d must not be premium", n)
	}
}

/*
TestForChapter_Boundaries pins the tier boundary values.
*/
func TestForChapter_Boundaries(t *testing.T) {
	tests := []struct {
		name      string
		chapter   int
		cost      int
		isPremium bool
	}{
		{"last_free", 5, 0, false},
		{"flat_tier_start", 6, 20, true},
		{"flat_tier_end", 10, 20, true},
		{"curve_start", 11, 25, true},
		{"curve_end", 200, 70, true},
		{"past_ceiling", 201, 70, true},
		{"deep_past_ceiling", 10000, 70, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price := pricing.ForChapter(tt.chapter)
			assert.Equal(t, tt.cost, price.CoinCost)
			assert.Equal(t, tt.isPremium, price.IsPremium)
		})
	}
}

/*
TestForChapter_Monotonic verifies that the curve never decreases and never
exceeds the ceiling across the entire growth segment.
*/
func TestForChapter_Monotonic(t *testing.T) {
	previous := pricing.ForChapter(11).CoinCost

	for n := 12; n <= 250; n++ {
		cost := pricing.ForChapter(n).CoinCost
		assert.GreaterOrEqual(t, cost, previous, "price regressed at chapter %d", n)
		assert.LessOrEqual(t, cost, 70, "price exceeded ceiling at chapter %d", n)
		previous = cost
	}
}

/*
TestForChapter_EaseIn verifies that the exponent keeps early-curve growth
below a linear ramp (the midpoint must price under the linear midpoint).
*/
func TestForChapter_EaseIn(t *testing.T) {
	// Linear midpoint between 25 and 70 would be ~47.5; the 1.5 exponent
	// must keep the actual midpoint below that.
	midpoint := pricing.ForChapter(105).CoinCost
	assert.Less(t, midpoint, 47)
	assert.Greater(t, midpoint, 25)
}

/*
TestForChapter_NonPositiveClamp verifies the defensive clamp for out-of-domain
ordinals.
*/
func TestForChapter_NonPositiveClamp(t *testing.T) {
	for _, n := range []int{0, -1, -100} {
		price := pricing.ForChapter(n)
		assert.Equal(t, 0, price.CoinCost)
		assert.False(t, price.IsPremium)
	}
}

/*
TestCoinCost verifies the shorthand accessor agrees with ForChapter.
*/
func TestCoinCost(t *testing.T) {
	assert.Equal(t, pricing.ForChapter(42).CoinCost, pricing.CoinCost(42))
}
