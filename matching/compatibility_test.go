package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func compat(t *testing.T, a, b string) float64 {
	t.Helper()
	return Compatibility(Classify(a), Classify(b), DefaultCompatibilityWeights())
}

// Incompatible categories short-circuit the whole score to zero, regardless
// of lexical closeness.
func TestCompatibilityCategoryShortCircuit(t *testing.T) {
	assert.Zero(t, compat(t, "Fio PDO Ultra", "Juvederm Ultra"))
	assert.Zero(t, compat(t, "Botox 100UI", "Juvederm Ultra 1ml"))
	assert.Zero(t, compat(t, "Agulha 30G", "Sculptra"))
	assert.Zero(t, compat(t, "Sculptra", "Botulift 100UI"))
}

func TestCompatibilitySameCategoryAndIngredient(t *testing.T) {
	// Same neurotoxin family: category 40 + ingredient 30.
	score := compat(t, "Botox 100UI", "Botulift 100 UI")
	assert.InDelta(t, 0.70, score, 1e-9)

	// Identical classified product maxes shared tokens too.
	score = compat(t, "Juvederm Ultra", "Juvederm Ultra")
	assert.InDelta(t, 0.90, score, 1e-9)
}

func TestCompatibilityUnmappedCategory(t *testing.T) {
	// Unmapped products keep partial category credit and the unmapped
	// ingredient default, so they can still match on tokens.
	score := compat(t, "Seringa Luer Lock", "Seringa Luer Lock")
	assert.Greater(t, score, 0.6)
}

func TestCompatibilityRelatedThreadCategories(t *testing.T) {
	// Distinct thread categories get partial credit, not zero and not full.
	score := compat(t, "Fio PDO mono", "Fio de sustentação")
	assert.Greater(t, score, 0.0)

	full := compat(t, "Fio PDO mono", "Fio PDO screw")
	assert.Less(t, score, full)
}

func TestCompatibilitySharedBrandTokenBonus(t *testing.T) {
	// "juvederm" shared as a token is worth more than a generic shared token.
	withBrand := sharedTokenScore(Classify("Juvederm Intense"), Classify("Juvederm Ultra XC"), 20)
	withoutBrand := sharedTokenScore(Classify("Soneca Intense"), Classify("Soneca Ultra XC"), 20)
	assert.Greater(t, withBrand, withoutBrand)
}

func TestCompatibilityIncompatibleIngredients(t *testing.T) {
	// Filler-with-lidocaine and plain filler are distinct order lines.
	a := Classify("Deep Fill com Lido 1ml")
	b := Classify("Deep Fill 1ml")
	assert.Zero(t, Compatibility(a, b, DefaultCompatibilityWeights()))
}
