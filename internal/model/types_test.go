package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowsFromLengths(t *testing.T) {
	windows := WindowsFromLengths([]time.Duration{12 * time.Hour, 24 * time.Hour})
	require.Len(t, windows, 2)
	assert.Equal(t, Window{Kind: "12h", Length: 12 * time.Hour}, windows[0])
	assert.Equal(t, Window{Kind: "24h", Length: 24 * time.Hour}, windows[1])
}

func TestWindowsFromLengths_KindRendering(t *testing.T) {
	windows := WindowsFromLengths([]time.Duration{time.Hour, 90 * time.Minute, 48 * time.Hour})
	require.Len(t, windows, 3)
	assert.Equal(t, "1h", windows[0].Kind)
	assert.Equal(t, "1h30m0s", windows[1].Kind, "partial hours keep the full duration string")
	assert.Equal(t, "48h", windows[2].Kind)
}

func TestWindowsFromLengths_FallsBackToDefaults(t *testing.T) {
	assert.Equal(t, DefaultWindows(), WindowsFromLengths(nil))
	assert.Equal(t, DefaultWindows(), WindowsFromLengths([]time.Duration{0, -time.Hour}))
}

func TestWindowsFromLengths_DropsDuplicates(t *testing.T) {
	windows := WindowsFromLengths([]time.Duration{12 * time.Hour, 12 * time.Hour})
	assert.Len(t, windows, 1)
}

func TestDefaultConfigWindows(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultWindows(), WindowsFromLengths(cfg.WindowLengths))
}
