// Copyright (c) 2026 Inkbound. All rights reserved.
// Author: hoang.ledinh.dev@gmail.com

/*
Package pricing computes the coin price of a chapter from its ordinal
position within a book.

It is the single authority for the monetization curve. The result is
deterministic and free of I/O, so callers may denormalize it onto chapter
rows at ingestion time and recompute it at will.

Tier Policy:

  - Chapters 1-5: free preview window.
  - Chapters 6-10: flat introductory price.
  - Chapters 11-200: exponential ease-in from 25 to 70 coins.
  - Chapters 201+: flat ceiling.

The 1.5 exponent keeps early-chapter prices low and accelerates growth for
committed readers. It is a deliberate monetization curve, not a rounding
artifact — do not "simplify" it to a linear ramp.
*/
package pricing

import "math"

// # Curve Parameters

const (
	// FreeWindowEnd is the last chapter of the free preview window.
	FreeWindowEnd = 5

	// flatTierEnd is the last chapter of the flat introductory tier.
	flatTierEnd = 10

	// flatTierCost is the coin price for chapters 6-10.
	flatTierCost = 20

	// curveStart and curveEnd bound the exponential growth segment.
	curveStart = 11
	curveEnd   = 200

	// baseCost and ceilingCost are the price endpoints of the curve.
	baseCost    = 25
	ceilingCost = 70

	// growthExponent biases cost growth toward later chapters.
	growthExponent = 1.5
)

// Price is the computed monetization attributes for one chapter.
type Price struct {
	CoinCost  int  `json:"coin_cost"`
	IsPremium bool `json:"is_premium"`
}

// # Pricing Function

// ForChapter returns the coin price and premium flag for a chapter ordinal.
//
// Chapter numbers are 1-based. Values above the curve ceiling saturate at
// the flat maximum. Non-positive inputs are clamped into the free window;
// the HTTP layer rejects them before they reach business logic, so the
// clamp is defense-in-depth only.
func ForChapter(chapterNumber int) Price {
	if chapterNumber <= FreeWindowEnd {
		return Price{CoinCost: 0, IsPremium: false}
	}

	if chapterNumber <= flatTierEnd {
		return Price{CoinCost: flatTierCost, IsPremium: true}
	}

	if chapterNumber <= curveEnd {
		progress := float64(chapterNumber-curveStart) / float64(curveEnd-curveStart)
		cost := float64(baseCost) + float64(ceilingCost-baseCost)*math.Pow(progress, growthExponent)
		return Price{CoinCost: int(math.Round(cost)), IsPremium: true}
	}

	return Price{CoinCost: ceilingCost, IsPremium: true}
}

// CoinCost is a shorthand for ForChapter(n).CoinCost.
func CoinCost(chapterNumber int) int {
	return ForChapter(chapterNumber).CoinCost
}
