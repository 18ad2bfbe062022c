package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func textual(a, b string) float64 {
	return TextualSimilarity(Classify(a), Classify(b))
}

func TestTextualIdenticalNames(t *testing.T) {
	assert.Equal(t, 1.0, textual("Juvederm Ultra 1ml", "juvederm ultra, 1ML"))
}

// Brand identity dominates lexical similarity: a shared modifier must not
// bridge two different validated brands.
func TestTextualBrandConflict(t *testing.T) {
	score := textual("Juvederm Ultra", "Belotero Ultra")
	assert.LessOrEqual(t, score, 0.1)

	score = textual("Restylane Deep", "Stylage Deep")
	assert.LessOrEqual(t, score, 0.1)
}

func TestTextualSameBrand(t *testing.T) {
	// Short query: brand alone, unambiguous reference.
	assert.InDelta(t, sameBrandShortScore, textual("Juvederm", "Juvederm Ultra XC 1ml"), 1e-9)

	// Longer query blends modifier agreement into the base score.
	score := textual("Juvederm Ultra Plus XC", "Juvederm Ultra Plus XC 2ml")
	assert.GreaterOrEqual(t, score, sameBrandBaseScore)
	assert.LessOrEqual(t, score, sameBrandBaseScore+sameBrandBlendRange)

	// Disagreeing modifiers score below agreeing ones.
	lower := textual("Juvederm Ultra Smile Plus", "Juvederm Voluma Retouch Kit")
	assert.Less(t, lower, score)
}

func TestTextualBrandInsideName(t *testing.T) {
	// Query has no validated brand of its own but contains the candidate's.
	score := textual("Kit perfectha com anestésico", "Perfectha Deep")
	assert.Equal(t, brandInNameScore, score)
}

func TestTextualFullContainment(t *testing.T) {
	score := textual("Botulift", "Botulift 100 UI frasco")
	assert.Equal(t, fullContainmentScore, score)
}

func TestTextualTokenContainment(t *testing.T) {
	score := textual("Toxina prosigne original", "Prosigne 50U")
	assert.Equal(t, tokenContainedScore, score)
}

func TestTextualWeightedBlendFallback(t *testing.T) {
	// No brand, no containment: blended token/edit-distance/spec score.
	score := textual("Botox 100UI", "Botulift 100 UI")
	assert.Greater(t, score, 0.5)
	assert.Less(t, score, 1.0)
}

func TestTokenSimilarity(t *testing.T) {
	// Exact match earns the boost but stays capped at 1.
	assert.Equal(t, 1.0, TokenSimilarity([]string{"ultra"}, []string{"ultra"}))

	// Containment of a token scores high but below exact.
	score := TokenSimilarity([]string{"100"}, []string{"100ui"})
	assert.InDelta(t, 0.90, score, 1e-9)

	// Small typos within 30% of token length still score.
	score = TokenSimilarity([]string{"juvederm"}, []string{"juvaderm"})
	assert.Greater(t, score, 0.4)

	// Distant tokens score zero.
	assert.Zero(t, TokenSimilarity([]string{"botox"}, []string{"sculptra"}))

	// Empty sequences.
	assert.Equal(t, 1.0, TokenSimilarity(nil, nil))
	assert.Zero(t, TokenSimilarity([]string{"a"}, nil))
}

func TestSpecAgreement(t *testing.T) {
	v1, v100 := 1.0, 100.0

	// No specs on either side counts as agreement.
	assert.Equal(t, 1.0, specAgreement(Specs{}, Specs{}))

	// Matching units.
	assert.Equal(t, 1.0, specAgreement(Specs{Units: &v100}, Specs{Units: &v100}))

	// A field present on one side only earns half credit.
	assert.Equal(t, 0.5, specAgreement(Specs{VolumeML: &v1}, Specs{}))

	// Mismatched values earn nothing for that field.
	other := 2.0
	assert.Zero(t, specAgreement(Specs{VolumeML: &v1}, Specs{VolumeML: &other}))
}
