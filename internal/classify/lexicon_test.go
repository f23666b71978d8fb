package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdjustForFinancialTerms(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		base  float64
		want  float64
		delta float64
	}{
		{"no jargon leaves score alone", "just a normal tuesday", 0.3, 0.3, 0.0001},
		{"bullish phrases push up", "to the moon", 0, 0.577, 0.001},
		{"bearish phrases push down", "whales selling into liquidations", 0, -0.75, 0.001},
		{"dollar loss penalty", "portfolio showing -$2.3M", 0, -0.2, 0.001},
		{"empty text is a no-op", "", 0.4, 0.4, 0.0001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, AdjustForFinancialTerms(tt.text, tt.base), tt.delta)
		})
	}
}

func TestAdjustForFinancialTerms_Clamped(t *testing.T) {
	assert.Equal(t, -1.0, AdjustForFinancialTerms("rekt liquidation dump rug pull", -0.9))
	assert.Equal(t, 1.0, AdjustForFinancialTerms("to the moon breakout parabolic wagmi", 0.9))
}
