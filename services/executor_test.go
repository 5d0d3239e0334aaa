package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeMultiplier(t *testing.T) {
	// ETA 9 minutes = 540 seconds, fast threshold at 180.
	tests := []struct {
		name      string
		timeSpent int
		eta       int
		want      float64
	}{
		{name: "no eta", timeSpent: 100, eta: 0, want: 1.0},
		{name: "no time recorded", timeSpent: 0, eta: 9, want: 1.0},
		{name: "well under a third", timeSpent: 60, eta: 9, want: 1.2},
		{name: "exactly a third", timeSpent: 180, eta: 9, want: 1.2},
		{name: "within eta", timeSpent: 400, eta: 9, want: 1.1},
		{name: "exactly eta", timeSpent: 540, eta: 9, want: 1.1},
		{name: "over eta", timeSpent: 541, eta: 9, want: 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, timeMultiplier(tt.timeSpent, tt.eta))
		})
	}
}

func TestAttemptsMultiplier(t *testing.T) {
	tests := []struct {
		attempts int
		want     float64
	}{
		{attempts: 0, want: 1.0},
		{attempts: 1, want: 1.0},
		{attempts: 2, want: 1.0},
		{attempts: 3, want: 0.9},
		{attempts: 4, want: 0.9},
		{attempts: 5, want: 0.75},
		{attempts: 20, want: 0.75},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, attemptsMultiplier(tt.attempts))
	}
}

func TestComputeTaskXP(t *testing.T) {
	// 100 base, fast and clean: 100 * 1.2 * 1.0
	assert.Equal(t, 120, computeTaskXP(100, 60, 9, 1))

	// 100 base, slow with many attempts: 100 * 1.0 * 0.75
	assert.Equal(t, 75, computeTaskXP(100, 1200, 9, 6))

	// Rounding: 75 * 1.1 * 0.9 = 74.25 -> 74
	assert.Equal(t, 74, computeTaskXP(75, 400, 9, 3))

	// Rounding up: 50 * 1.2 * 0.9 = 54.0, and 55 * 1.1 * 1.0 = 60.5 -> 61
	assert.Equal(t, 61, computeTaskXP(55, 400, 9, 2))

	// The time bonus grades a single run: a quick passing run keeps the
	// 1.2 multiplier no matter how much time earlier sessions logged.
	assert.Equal(t, 120, computeTaskXP(100, 120, 9, 0))
}
