package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMatcher() *Matcher {
	return NewMatcher(DefaultConfig(), DefaultCompatibilityWeights(), nil)
}

func TestSelectBestNeurotoxinFamily(t *testing.T) {
	m := newTestMatcher()

	result := m.SelectBest("Botox 100UI", []string{"Botulift 100 UI"})
	require.NotNil(t, result)
	assert.Equal(t, 0, result.Index)
	assert.Contains(t, []Confidence{ConfidenceExact, ConfidenceHigh}, result.Confidence)
}

// A category-incompatible candidate never clears the compatibility floor.
func TestSelectBestFiltersIncompatible(t *testing.T) {
	m := newTestMatcher()

	result := m.SelectBest("Botox 100UI", []string{"Juvederm Ultra 1ml"})
	assert.Nil(t, result)
}

func TestSelectBestExactName(t *testing.T) {
	m := newTestMatcher()

	result := m.SelectBest("Juvederm Ultra 1ml", []string{
		"Belotero Balance 1ml",
		"Juvederm Ultra 1ml",
	})
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Index)
	assert.Equal(t, ConfidenceExact, result.Confidence)
	assert.Equal(t, 1.0, result.Textual)
}

// A conflicting validated brand is punished below the fulfillment cutoffs
// even when every other token agrees.
func TestSelectBestBrandPenalty(t *testing.T) {
	m := newTestMatcher()

	result := m.SelectBest("Juvederm Ultra", []string{"Belotero Ultra"})
	if result != nil {
		assert.Equal(t, ConfidenceLow, result.Confidence)
	}
}

func TestSelectBestSameBrandBoost(t *testing.T) {
	m := newTestMatcher()

	result := m.SelectBest("Juvederm", []string{"Juvederm Ultra XC 1ml"})
	require.NotNil(t, result)
	assert.Equal(t, ConfidenceExact, result.Confidence)
}

func TestSelectBestTieKeepsFirst(t *testing.T) {
	m := newTestMatcher()

	result := m.SelectBest("Botulift 100UI", []string{"Botulift 100 UI", "Botulift 100 UI"})
	require.NotNil(t, result)
	assert.Equal(t, 0, result.Index)
}

func TestSelectBestEmptyCandidates(t *testing.T) {
	m := newTestMatcher()
	assert.Nil(t, m.SelectBest("Botox 100UI", nil))
}

// A strictly higher final score never yields a lower confidence tier.
func TestConfidenceMonotonic(t *testing.T) {
	m := newTestMatcher()

	rank := map[Confidence]int{
		ConfidenceLow:    0,
		ConfidenceMedium: 1,
		ConfidenceHigh:   2,
		ConfidenceExact:  3,
	}

	scores := []float64{0, 0.1, 0.3, 0.59, 0.6, 0.7, 0.75, 0.84, 0.9, 0.95, 1.0}
	previous := -1
	for _, score := range scores {
		tier := rank[m.confidenceFor(score)]
		assert.GreaterOrEqual(t, tier, previous, "confidence dropped at score %v", score)
		previous = tier
	}
}

func TestClassifyCachedReturnsSameResult(t *testing.T) {
	m := newTestMatcher()

	first := m.ClassifyCached("Juvederm Ultra 1ml")
	second := m.ClassifyCached("Juvederm Ultra 1ml")
	assert.Equal(t, first, second)
}
