// Copyright (c) 2026 Inkbound. All rights reserved.
// Author: hoang.ledinh.dev@gmail.com

package rewards

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

/*
TestCheckInReward verifies the reward schedule grows through day six and
jumps to the flat bonus from day seven on.
*/
func TestCheckInReward(t *testing.T) {
	tests := []struct {
		name string
		day  int
		want int
	}{
		{"day_one", 1, 10},
		{"day_two", 2, 15},
		{"day_five", 5, 30},
		{"day_six_last_of_ramp", 6, 35},
		{"day_seven_jumps_to_bonus", 7, 50},
		{"day_eight_stays_at_bonus", 8, 50},
		{"beyond_bonus", 30, 50},
		{"zero_clamps_to_day_one", 0, 10},
		{"negative_clamps_to_day_one", -3, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkInReward(tt.day))
		})
	}
}

/*
TestNextStreakDay verifies consecutive-day continuation and gap resets.
*/
func TestNextStreakDay(t *testing.T) {
	today := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	threeDaysAgo := today.AddDate(0, 0, -3)

	tests := []struct {
		name          string
		currentStreak int
		lastCheckIn   *time.Time
		want          int
	}{
		{"first_ever", 0, nil, 1},
		{"consecutive_day", 4, &yesterday, 5},
		{"gap_resets", 12, &threeDaysAgo, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextStreakDay(tt.currentStreak, tt.lastCheckIn, today))
		})
	}
}

/*
TestNextStreakDay_DayBoundary verifies continuation is judged by UTC
calendar day, not a 24-hour window.
*/
func TestNextStreakDay_DayBoundary(t *testing.T) {
	lateYesterday := time.Date(2026, 8, 30, 23, 50, 0, 0, time.UTC)
	earlyToday := time.Date(2026, 8, 31, 0, 5, 0, 0, time.UTC)

	// 15 minutes apart across midnight still counts as consecutive days.
	assert.Equal(t, 3, nextStreakDay(2, &lateYesterday, earlyToday))
}

/*
TestSameDay covers the UTC normalization of the day comparison.
*/
func TestSameDay(t *testing.T) {
	utc := time.Date(2026, 8, 31, 1, 0, 0, 0, time.UTC)
	// 22:00 previous day in UTC-4 is 02:00 same day UTC.
	offset := time.Date(2026, 8, 30, 22, 0, 0, 0, time.FixedZone("EDT", -4*3600))

	assert.True(t, sameDay(utc, offset))
	assert.False(t, sameDay(utc, utc.AddDate(0, 0, 1)))
}
