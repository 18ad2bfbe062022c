package matching

// CompatibilityWeights are the factor weights of the semantic compatibility
// score. They sum to 100 and act as the fixed denominator.
type CompatibilityWeights struct {
	Category     float64
	Ingredient   float64
	SharedTokens float64
	Brand        float64
}

// DefaultCompatibilityWeights returns the tuned production weights.
func DefaultCompatibilityWeights() CompatibilityWeights {
	return CompatibilityWeights{
		Category:     40,
		Ingredient:   30,
		SharedTokens: 20,
		Brand:        10,
	}
}

func (w CompatibilityWeights) total() float64 {
	return w.Category + w.Ingredient + w.SharedTokens + w.Brand
}

// incompatibleCategories lists category pairs that must never match,
// regardless of how close the names look. Threads and needles are physical
// devices; quoting one in place of an injectable is never acceptable.
var incompatibleCategories = map[Category][]Category{
	CategoryFiberThread:      {CategoryFiller, CategoryNeurotoxin, CategoryBiostimulator},
	CategorySustainingThread: {CategoryFiller, CategoryNeurotoxin, CategoryBiostimulator},
	CategoryNeedle:           {CategoryFiller, CategoryNeurotoxin, CategoryBiostimulator, CategoryFiberThread, CategorySustainingThread},
	CategoryFiller:           {CategoryFiberThread, CategorySustainingThread, CategoryNeedle, CategoryNeurotoxin},
	CategoryNeurotoxin:       {CategoryFiller, CategoryFiberThread, CategorySustainingThread, CategoryNeedle, CategoryBiostimulator},
	CategoryBiostimulator:    {CategoryNeurotoxin, CategoryFiberThread, CategorySustainingThread, CategoryNeedle},
}

// relatedCategories are distinct categories close enough to earn partial
// category credit.
var relatedCategories = [][2]Category{
	{CategoryFiberThread, CategorySustainingThread},
}

// incompatibleIngredients lists ingredient-family pairs that exclude a match
// outright.
var incompatibleIngredients = [][2]string{
	{IngredientPDOThread, IngredientHyaluronicAcid},
	{IngredientPDOThread, IngredientBotulinumToxin},
	{IngredientSustainingThread, IngredientHyaluronicAcid},
	{IngredientSustainingThread, IngredientBotulinumToxin},
	{IngredientNeedle, IngredientHyaluronicAcid},
	{IngredientNeedle, IngredientBotulinumToxin},
	{IngredientHALidocaine, IngredientHyaluronicAcid},
}

// relatedIngredients are distinct families that still earn partial credit,
// such as the two thread variants.
var relatedIngredients = [][2]string{
	{IngredientPDOThread, IngredientSustainingThread},
}

// Compatibility scores two classified products for being the same kind of
// product, in [0,1]. Hard incompatibilities (thread vs filler, needle vs
// toxin, ...) short-circuit to zero no matter how similar the names are.
func Compatibility(a, b Product, w CompatibilityWeights) float64 {
	var points float64

	// 1. Category.
	switch {
	case a.Category == b.Category && a.Category != CategoryOther:
		points += w.Category
	case a.Category == CategoryOther || b.Category == CategoryOther:
		// Unmapped products may still match on the remaining factors.
		points += w.Category * 0.625
	case categoriesIncompatible(a.Category, b.Category):
		return 0
	case categoriesRelated(a.Category, b.Category):
		points += w.Category * 0.75
	}

	// 2. Active ingredient.
	switch {
	case a.Ingredient != "" && b.Ingredient != "":
		if a.Ingredient == b.Ingredient {
			points += w.Ingredient
		} else if pairListed(incompatibleIngredients, a.Ingredient, b.Ingredient) {
			return 0
		} else if pairListed(relatedIngredients, a.Ingredient, b.Ingredient) {
			points += w.Ingredient * 2.0 / 3.0
		}
	default:
		// One or both unmapped: default partial credit.
		points += w.Ingredient * 2.0 / 3.0
	}

	// 3. Shared core tokens.
	points += sharedTokenScore(a, b, w.SharedTokens)

	// 4. Manufacturer brand.
	if a.Brand != "" && a.Brand == b.Brand {
		points += w.Brand
	}

	return points / w.total()
}

// sharedTokenScore scales the proportion of the smaller core-token set found
// in the larger one, with a small bonus when a shared token is itself a
// recognized brand name.
func sharedTokenScore(a, b Product, weight float64) float64 {
	tokensA := a.CoreTokens()
	tokensB := b.CoreTokens()
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	smaller, larger := tokensA, tokensB
	if len(tokensB) < len(tokensA) {
		smaller, larger = tokensB, tokensA
	}

	largerSet := make(map[string]bool, len(larger))
	for _, token := range larger {
		largerSet[token] = true
	}

	shared := 0
	sharedBrand := false
	for _, token := range smaller {
		if largerSet[token] {
			shared++
			if isKnownBrandToken(token) {
				sharedBrand = true
			}
		}
	}

	score := float64(shared) / float64(len(smaller)) * weight
	if sharedBrand && score < weight {
		score += weight * 0.25
		if score > weight {
			score = weight
		}
	}
	return score
}

func categoriesIncompatible(a, b Category) bool {
	for _, other := range incompatibleCategories[a] {
		if other == b {
			return true
		}
	}
	return false
}

func categoriesRelated(a, b Category) bool {
	for _, pair := range relatedCategories {
		if (pair[0] == a && pair[1] == b) || (pair[0] == b && pair[1] == a) {
			return true
		}
	}
	return false
}

func pairListed(pairs [][2]string, a, b string) bool {
	for _, pair := range pairs {
		if (pair[0] == a && pair[1] == b) || (pair[0] == b && pair[1] == a) {
			return true
		}
	}
	return false
}
