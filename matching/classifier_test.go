package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyCategory(t *testing.T) {
	tests := []struct {
		name     string
		expected Category
	}{
		{"Botox 100UI", CategoryNeurotoxin},
		{"Toxina Botulínica 50UI", CategoryNeurotoxin},
		{"Juvederm Ultra XC", CategoryFiller},
		{"Ácido Hialurônico 1ml", CategoryFiller},
		{"Sculptra 2 frascos", CategoryBiostimulator},
		{"Lidocaína 2%", CategoryAnesthetic},
		{"Profhilo 2ml", CategoryVitaminBooster},
		{"Fio PDO Espiculado", CategoryFiberThread},
		{"Fio de Sustentação", CategorySustainingThread},
		{"Agulha 30G", CategoryNeedle},
		{"Seringa descartável", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.name).Category)
		})
	}
}

// Thread and needle terms must win over general category vocabulary: a PDO
// thread sold as "fio preenchimento" is still a thread, never a filler.
func TestClassifyExclusiveTermsTakePriority(t *testing.T) {
	p := Classify("Fio PDO preenchimento facial")
	assert.Equal(t, CategoryFiberThread, p.Category)

	p = Classify("Canula para juvederm")
	assert.Equal(t, CategoryNeedle, p.Category)
}

func TestClassifyIngredient(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"Botox 100UI", IngredientBotulinumToxin},
		{"Botulift 200UI", IngredientBotulinumToxin},
		{"Juvederm Ultra", IngredientHyaluronicAcid},
		{"Radiesse 1.5ml", IngredientHydroxyapatite},
		{"Sculptra", IngredientPLLA},
		{"Ellanse M", IngredientPCL},
		{"Lidocaína 2%", IngredientLidocaine},
		{"Fio PDO mono", IngredientPDOThread},
		{"Fio de sustentação espiculado", IngredientSustainingThread},
		{"Agulha 27G", IngredientNeedle},
		{"Seringa", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.name).Ingredient)
		})
	}
}

// Names carrying a generic "fill" marker need context: thread words make it
// a thread, "lido" makes it the anesthetic-bearing filler variant.
func TestClassifyFillContextRules(t *testing.T) {
	assert.Equal(t, IngredientPDOThread, Classify("Fill Thread PDO").Ingredient)
	assert.Equal(t, IngredientHALidocaine, Classify("Fill com Lido 1ml").Ingredient)
	assert.Equal(t, IngredientHyaluronicAcid, Classify("Deep Fill 1ml").Ingredient)
}

func TestClassifySpecs(t *testing.T) {
	p := Classify("Juvederm Ultra 1ml com lidocaína 0.3%")
	require.NotNil(t, p.Specs.VolumeML)
	assert.Equal(t, 1.0, *p.Specs.VolumeML)
	require.NotNil(t, p.Specs.Concentration)
	assert.Equal(t, 0.3, *p.Specs.Concentration)
	assert.Nil(t, p.Specs.MassMG)
	assert.Nil(t, p.Specs.Units)

	p = Classify("Botox 100UI")
	require.NotNil(t, p.Specs.Units)
	assert.Equal(t, 100.0, *p.Specs.Units)
	assert.Nil(t, p.Specs.VolumeML)

	p = Classify("Radiesse 55mg")
	require.NotNil(t, p.Specs.MassMG)
	assert.Equal(t, 55.0, *p.Specs.MassMG)
}

func TestClassifyBrands(t *testing.T) {
	p := Classify("Juvederm Voluma Allergan 1ml")
	assert.Equal(t, "allergan", p.Brand)
	assert.Equal(t, "juvederm", p.PrimaryBrand)

	// A product brand must appear as the leading whole token to be validated.
	p = Classify("Ultrabelotox 100UI")
	assert.Empty(t, p.PrimaryBrand)
	p = Classify("Kit perfectha com anestésico")
	assert.Empty(t, p.PrimaryBrand)

	// Toxin trade names are an ingredient family, not a brand identity.
	p = Classify("Botox 100UI")
	assert.Empty(t, p.PrimaryBrand)
}

func TestClassifyModifiersAndTokens(t *testing.T) {
	p := Classify("Juvederm Ultra Plus XC 1ml")
	assert.Equal(t, []string{"ultra", "plus"}, p.Modifiers)
	assert.Equal(t, []string{"juvederm", "ultra", "plus", "xc", "1ml"}, p.Tokens)
	// Core tokens drop short tokens, bare numbers and stopwords.
	assert.Equal(t, []string{"juvederm", "ultra", "plus", "1ml"}, p.CoreTokens())
}
