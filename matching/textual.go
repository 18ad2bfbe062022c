package matching

import "strings"

// Textual-similarity constants. Rule order encodes precedence: brand
// identity dominates lexical similarity, containment beats token blending.
const (
	brandConflictScore   = 0.10
	sameBrandShortScore  = 0.92
	sameBrandBaseScore   = 0.80
	sameBrandBlendRange  = 0.15
	brandInNameScore     = 0.85
	fullContainmentScore = 0.80
	tokenContainedScore  = 0.75
)

// similarityRule is one step of the textual-similarity cascade. It returns
// (score, true) when it decides the comparison, or (0, false) to fall
// through to the next rule.
type similarityRule struct {
	name  string
	apply func(a, b Product) (float64, bool)
}

// textualRules is evaluated top to bottom; the first rule that fires wins.
// Keeping this an explicit ordered list makes the precedence auditable and
// testable rule by rule.
var textualRules = []similarityRule{
	{"identical-names", ruleIdenticalNames},
	{"brand-conflict", ruleBrandConflict},
	{"same-brand", ruleSameBrand},
	{"brand-in-name", ruleBrandInName},
	{"full-containment", ruleFullContainment},
	{"token-containment", ruleTokenContainment},
	{"weighted-blend", ruleWeightedBlend},
}

// TextualSimilarity scores two classified products for lexical closeness in
// [0,1], independent of semantics.
func TextualSimilarity(a, b Product) float64 {
	for _, rule := range textualRules {
		if score, ok := rule.apply(a, b); ok {
			return score
		}
	}
	// Only reachable with a brand conflict that no earlier rule resolved.
	return brandConflictScore
}

func ruleIdenticalNames(a, b Product) (float64, bool) {
	if a.CompactName != "" && a.CompactName == b.CompactName {
		return 1.0, true
	}
	return 0, false
}

// hasBrandConflict reports two validated product brands that differ. A
// conflict caps similarity regardless of shared modifiers: "Juvederm Ultra"
// and "Belotero Ultra" are different products.
func hasBrandConflict(a, b Product) bool {
	return a.PrimaryBrand != "" && b.PrimaryBrand != "" && a.PrimaryBrand != b.PrimaryBrand
}

func ruleBrandConflict(a, b Product) (float64, bool) {
	if hasBrandConflict(a, b) {
		return brandConflictScore, true
	}
	return 0, false
}

// ruleSameBrand handles two products carrying the same validated brand. A
// short query (brand alone or brand plus one modifier) is an unambiguous
// reference to the line; longer queries blend in how well the modifier
// tokens agree.
func ruleSameBrand(a, b Product) (float64, bool) {
	if a.PrimaryBrand == "" || a.PrimaryBrand != b.PrimaryBrand {
		return 0, false
	}
	if len(a.Tokens) <= 2 {
		return sameBrandShortScore, true
	}
	modifierSim := TokenSimilarity(withoutToken(a.Tokens, a.PrimaryBrand), withoutToken(b.Tokens, b.PrimaryBrand))
	return sameBrandBaseScore + sameBrandBlendRange*modifierSim, true
}

func ruleBrandInName(a, b Product) (float64, bool) {
	if a.PrimaryBrand != "" && hasWholeToken(b.Tokens, a.PrimaryBrand) {
		return brandInNameScore, true
	}
	if b.PrimaryBrand != "" && hasWholeToken(a.Tokens, b.PrimaryBrand) {
		return brandInNameScore, true
	}
	return 0, false
}

func ruleFullContainment(a, b Product) (float64, bool) {
	if hasBrandConflict(a, b) {
		return 0, false
	}
	if len(a.CompactName) >= 4 && strings.Contains(b.CompactName, a.CompactName) {
		return fullContainmentScore, true
	}
	if len(b.CompactName) >= 4 && strings.Contains(a.CompactName, b.CompactName) {
		return fullContainmentScore, true
	}
	return 0, false
}

func ruleTokenContainment(a, b Product) (float64, bool) {
	if hasBrandConflict(a, b) {
		return 0, false
	}
	for _, token := range a.Tokens {
		if len(token) < 4 {
			continue
		}
		if hasWholeToken(b.Tokens, token) || strings.Contains(b.Name, token) {
			return tokenContainedScore, true
		}
	}
	return 0, false
}

// ruleWeightedBlend is the fallback: 60% token similarity, 25% normalized
// edit distance over the full names, 15% numeric-spec agreement.
func ruleWeightedBlend(a, b Product) (float64, bool) {
	if hasBrandConflict(a, b) {
		return 0, false
	}
	tokenSim := TokenSimilarity(a.Tokens, b.Tokens)
	nameSim := LevenshteinSimilarity(a.Name, b.Name)
	specSim := specAgreement(a.Specs, b.Specs)
	return 0.60*tokenSim + 0.25*nameSim + 0.15*specSim, true
}

// TokenSimilarity scores two token sequences: each query token takes its
// best match among the candidate tokens (exact, containment, or bounded edit
// distance), the overall score is the best per-token score, and any exact
// hit earns a small boost.
func TokenSimilarity(query, candidates []string) float64 {
	if len(query) == 0 && len(candidates) == 0 {
		return 1
	}
	if len(query) == 0 || len(candidates) == 0 {
		return 0
	}

	best := 0.0
	exactHit := false
	for _, q := range query {
		tokenBest := 0.0
		for _, c := range candidates {
			if q == c {
				tokenBest = 1.0
				exactHit = true
				break
			}
			if len(q) >= 3 && strings.Contains(c, q) {
				tokenBest = maxFloat(tokenBest, 0.90)
			} else if len(c) >= 3 && strings.Contains(q, c) {
				tokenBest = maxFloat(tokenBest, 0.85)
			}
			if tokenBest < 0.8 {
				distance := LevenshteinDistance(q, c)
				maxLen := len(q)
				if len(c) > maxLen {
					maxLen = len(c)
				}
				if maxLen > 0 && float64(distance) <= float64(maxLen)*0.30 {
					tokenBest = maxFloat(tokenBest, (1.0-float64(distance)/float64(maxLen))*0.6)
				}
			}
		}
		best = maxFloat(best, tokenBest)
	}

	if exactHit {
		best = minFloat(best*1.1, 1.0)
	}
	return best
}

// specAgreement is the fraction of populated spec fields that match exactly,
// with half credit when only one side carries the field. No specs on either
// side means full agreement.
func specAgreement(a, b Specs) float64 {
	fields := [][2]*float64{
		{a.VolumeML, b.VolumeML},
		{a.MassMG, b.MassMG},
		{a.Units, b.Units},
		{a.Concentration, b.Concentration},
	}

	var matches, total float64
	for _, pair := range fields {
		left, right := pair[0], pair[1]
		if left == nil && right == nil {
			continue
		}
		total++
		switch {
		case left != nil && right != nil:
			if *left == *right {
				matches++
			}
		default:
			matches += 0.5
		}
	}

	if total == 0 {
		return 1
	}
	return matches / total
}

func withoutToken(tokens []string, drop string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t != drop {
			out = append(out, t)
		}
	}
	return out
}

func hasWholeToken(tokens []string, want string) bool {
	for _, t := range tokens {
		if t == want {
			return true
		}
	}
	return false
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
