package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronov/cryptomood/internal/model"
)

// stubClassifier returns a fixed distribution and records the text it saw.
type stubClassifier struct {
	scores   model.LabelScores
	err      error
	lastText string
	calls    int
}

func (s *stubClassifier) Name() string { return "stub" }

func (s *stubClassifier) IsAvailable(_ context.Context) bool { return true }

func (s *stubClassifier) Classify(_ context.Context, text string) (model.LabelScores, error) {
	s.calls++
	s.lastText = text
	return s.scores, s.err
}

func TestDerive_PositiveSegment(t *testing.T) {
	stub := &stubClassifier{scores: model.LabelScores{Negative: 0.1, Neutral: 0.1, Positive: 0.8}}
	d := NewScoreDeriver(stub)

	score, err := d.Derive(context.Background(), "okay fine alright")
	require.NoError(t, err)
	assert.InDelta(t, 0.63, score, 0.001)
}

func TestDerive_TrimsTrailingComparator(t *testing.T) {
	stub := &stubClassifier{scores: model.LabelScores{Negative: 0.8, Neutral: 0.1, Positive: 0.1}}
	d := NewScoreDeriver(stub)

	score, err := d.Derive(context.Background(), "Solana network down again. However, ")
	require.NoError(t, err)
	assert.Equal(t, "Solana network down again", stub.lastText)
	assert.InDelta(t, -0.63, score, 0.001)
}

func TestDerive_ClassifierErrorPropagates(t *testing.T) {
	stub := &stubClassifier{err: errors.New("provider unreachable")}
	d := NewScoreDeriver(stub)

	_, err := d.Derive(context.Background(), "some text")
	assert.Error(t, err)
	assert.ErrorContains(t, err, "classify segment")
}

func TestDeriveFromLabels_ClampsMisbehavingProvider(t *testing.T) {
	// A provider returning probabilities outside [0,1] must not push the
	// score out of range.
	score := DeriveFromLabels("okay fine alright", model.LabelScores{
		Negative: -0.5, Neutral: 0.2, Positive: 1.2,
	})
	assert.InDelta(t, 0.8, score, 0.001)
	assert.GreaterOrEqual(t, score, -1.0)
	assert.LessOrEqual(t, score, 1.0)
}

func TestDeriveFromLabels_LexiconSaturationClamps(t *testing.T) {
	score := DeriveFromLabels("rekt liquidation dump", model.LabelScores{Negative: 1})
	assert.Equal(t, -1.0, score)
}

func TestDeriveFromLabels_NeutralDampening(t *testing.T) {
	// High neutral mass shrinks the signal even with a positive lean.
	score := DeriveFromLabels("okay fine alright", model.LabelScores{
		Negative: 0.05, Neutral: 0.9, Positive: 0.05,
	})
	assert.InDelta(t, 0, score, 0.001)
}

func TestTrimTrailingComparator(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Solana network down again. However, ", "Solana network down again"},
		{"SOL lags behind, while ", "SOL lags behind"},
		{"ETH pumping but", "ETH pumping"},
		{"no trailing pivot here", "no trailing pivot here"},
		{"however", "however"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, trimTrailingComparator(tt.in), "input %q", tt.in)
	}
}
