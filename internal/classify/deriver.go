package classify

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/avoronov/cryptomood/internal/model"
)

// comparators are conjunctions that pivot sentiment between two clauses
// ("Solana is down, however Bitcoin rallies"). A context window that ends on
// one carries the connective of the next entity's clause, so it is trimmed
// before classification.
var comparators = []string{"but", "while", "whereas", "however", "although", "though"}

// ScoreDeriver converts a classifier's label distribution for one segment
// into a signed scalar sentiment score in [-1, 1].
type ScoreDeriver struct {
	classifier Classifier
}

// NewScoreDeriver creates a deriver backed by the given classifier
func NewScoreDeriver(classifier Classifier) *ScoreDeriver {
	return &ScoreDeriver{classifier: classifier}
}

// Derive classifies the segment and returns its sentiment score. The raw
// model signal (p_positive - p_negative) is damped by the neutral mass,
// adjusted by the financial phrase lexicons, clamped to [-1, 1], and rounded
// to three decimals. Classifier failures are returned to the caller, which
// skips the segment; they never abort the document.
func (d *ScoreDeriver) Derive(ctx context.Context, segmentText string) (float64, error) {
	cleaned := trimTrailingComparator(segmentText)

	labels, err := d.classifier.Classify(ctx, cleaned)
	if err != nil {
		return 0, fmt.Errorf("classify segment: %w", err)
	}

	return DeriveFromLabels(cleaned, labels), nil
}

// DeriveFromLabels computes the final score from an already-obtained label
// distribution. Out-of-range probabilities from a misbehaving provider are
// clamped per-label before use, so the result stays in [-1, 1] regardless of
// input.
func DeriveFromLabels(text string, labels model.LabelScores) float64 {
	pNeg := clamp01(labels.Negative)
	pNeu := clamp01(labels.Neutral)
	pPos := clamp01(labels.Positive)

	score := (pPos - pNeg) * (1 - pNeu)
	score = AdjustForFinancialTerms(text, score)

	return math.Round(clamp(score)*1000) / 1000
}

func clamp01(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// trimTrailingComparator drops a comparator conjunction left dangling at the
// end of a context window, along with its surrounding punctuation.
func trimTrailingComparator(text string) string {
	trimmed := strings.TrimRight(text, " \t\n,.;:!")
	lower := strings.ToLower(trimmed)
	for _, c := range comparators {
		if !strings.HasSuffix(lower, c) {
			continue
		}
		cut := len(trimmed) - len(c)
		if cut == 0 {
			continue
		}
		if prev := trimmed[cut-1]; prev == ' ' || prev == '.' || prev == ',' {
			return strings.TrimRight(trimmed[:cut], " \t\n,.;:!")
		}
	}
	return text
}
