package matching

import (
	"regexp"
	"strconv"
	"strings"
)

// Category groups products by clinical use. Products from different groups
// are generally not interchangeable in a quote.
type Category string

const (
	CategoryFiberThread      Category = "fiber_thread"
	CategorySustainingThread Category = "sustaining_thread"
	CategoryNeedle           Category = "needle"
	CategoryNeurotoxin       Category = "neurotoxin"
	CategoryFiller           Category = "filler"
	CategoryBiostimulator    Category = "biostimulator"
	CategoryAnesthetic       Category = "anesthetic"
	CategoryVitaminBooster   Category = "vitamin_booster"
	CategoryOther            Category = "other"
)

// Active ingredient families. Values are stable identifiers, not display
// strings.
const (
	IngredientPDOThread        = "pdo_thread"
	IngredientSustainingThread = "sustaining_thread"
	IngredientNeedle           = "needle"
	IngredientHyaluronicAcid   = "hyaluronic_acid"
	IngredientHALidocaine      = "hyaluronic_acid_lidocaine"
	IngredientBotulinumToxin   = "botulinum_toxin"
	IngredientHydroxyapatite   = "hydroxyapatite"
	IngredientPLLA             = "plla"
	IngredientPCL              = "pcl"
	IngredientLidocaine        = "lidocaine"
)

// Specs holds numeric specifications extracted from a product name. A nil
// field means the specification was absent, which is different from zero.
type Specs struct {
	VolumeML      *float64
	MassMG        *float64
	Units         *float64
	Concentration *float64
}

// Product is the classified view of a product name. It is derived fresh from
// the raw name and never persisted.
type Product struct {
	Name         string   // NormalizeWords form, spaces preserved
	CompactName  string   // Normalize form, bare alphanumerics
	Tokens       []string // tokens of length >= 2
	Category     Category
	Ingredient   string // empty when no family matched
	Specs        Specs
	Brand        string // manufacturer detected anywhere in the name
	PrimaryBrand string // product brand validated as a whole token
	Modifiers    []string
}

// exclusiveTerms map to categories that must never be confused with fillers
// or toxins, so they are checked before the general table. Order matters:
// sustaining-thread wording is more specific than the generic thread terms.
var exclusiveTerms = []struct {
	category Category
	terms    []string
}{
	{CategorySustainingThread, []string{"sustentacao", "silhouette"}},
	{CategoryFiberThread, []string{"fio", "pdo", "thread", "barbed", "mono", "screw", "espiculado"}},
	{CategoryNeedle, []string{"agulha", "needle", "canula"}},
}

// categoryTerms is the general category vocabulary, consulted only when no
// exclusive term matched.
var categoryTerms = []struct {
	category Category
	terms    []string
}{
	{CategoryNeurotoxin, []string{"botox", "xeomin", "dysport", "nabota", "botulinum", "toxina", "botulift", "prosigne", "relatox"}},
	{CategoryFiller, []string{"juvederm", "belotero", "restylane", "stylage", "fill", "hialuronico", "hyaluronic", "perfectha", "subskin"}},
	{CategoryBiostimulator, []string{"sculptra", "radiesse", "ellanse", "aesthefill", "plla"}},
	{CategoryAnesthetic, []string{"lidocaina", "lido", "prilocaina", "articaina"}},
	{CategoryVitaminBooster, []string{"profhilo", "jalupro", "skinbooster"}},
}

// ingredientTerms maps ingredient families to their trade and generic
// vocabulary. Consulted after the thread, needle and "fill" rules.
var ingredientTerms = []struct {
	ingredient string
	terms      []string
}{
	{IngredientHyaluronicAcid, []string{"hialuronico", "hyaluronic", "juvederm", "belotero", "restylane", "perfectha", "subskin"}},
	{IngredientBotulinumToxin, []string{"botox", "xeomin", "dysport", "nabota", "botulinum", "botulift", "prosigne", "relatox"}},
	{IngredientHydroxyapatite, []string{"radiesse"}},
	{IngredientPLLA, []string{"sculptra", "aesthefill", "plla"}},
	{IngredientPCL, []string{"ellanse"}},
	{IngredientLidocaine, []string{"lidocaina", "lido"}},
}

var (
	fiberThreadTerms      = []string{"fio", "pdo", "thread", "barbed", "mono", "screw", "espiculado"}
	sustainingThreadTerms = []string{"sustentacao", "silhouette"}
	needleTerms           = []string{"agulha", "needle", "canula"}
)

// manufacturers are corporate brands, matched anywhere in the name.
var manufacturers = []string{
	"allergan", "galderma", "merz", "ipsen", "sinclair", "croma", "biogelis", "rennova", "cimed",
}

// productBrands is the validated product-brand vocabulary. A brand counts
// only as a whole-token match to avoid accidental substring hits; the list
// deliberately excludes toxin trade names, which act as an ingredient family
// rather than a brand identity (toxin units are quoted interchangeably).
var productBrands = []string{
	"juvederm", "belotero", "restylane", "stylage", "perfectha",
	"sculptra", "radiesse", "ellanse", "aesthefill",
	"profhilo", "jalupro", "silhouette",
}

// modifierVocabulary are line modifiers that distinguish variants within the
// same brand.
var modifierVocabulary = map[string]bool{
	"intense": true, "soft": true, "ultra": true, "plus": true,
	"balance": true, "deep": true, "light": true, "classic": true,
}

// Spec extraction patterns run against the accent-folded raw name, before
// punctuation removal, so the "%" sign is still visible.
var (
	volumePattern        = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(?:ml|milliliters?|mililitros?)\b`)
	massPattern          = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(?:mg|miligramas?|milligrams?)\b`)
	unitsPattern         = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(?:ui|iu|unidades?|units?)\b`)
	concentrationPattern = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*%`)
)

// Classify derives the structured view of a free-text product name.
func Classify(name string) Product {
	folded := foldAccents(name)
	wordName := NormalizeWords(name)
	tokens := Tokenize(wordName)

	p := Product{
		Name:        wordName,
		CompactName: Normalize(name),
		Tokens:      tokens,
		Category:    classifyCategory(wordName),
		Ingredient:  extractIngredient(wordName),
		Specs:       extractSpecs(folded),
		Brand:       extractManufacturer(wordName),
		Modifiers:   extractModifiers(tokens),
	}
	p.PrimaryBrand = extractPrimaryBrand(tokens)
	return p
}

func classifyCategory(name string) Category {
	for _, entry := range exclusiveTerms {
		if containsAny(name, entry.terms) {
			return entry.category
		}
	}
	for _, entry := range categoryTerms {
		if containsAny(name, entry.terms) {
			return entry.category
		}
	}
	return CategoryOther
}

// extractIngredient applies the ingredient rules in priority order. Thread
// and needle vocabulary wins over everything else; names carrying a generic
// "fill" marker need context to distinguish plain fillers, fillers with
// anesthetic and thread-like products.
func extractIngredient(name string) string {
	if containsAny(name, sustainingThreadTerms) {
		return IngredientSustainingThread
	}
	if containsAny(name, fiberThreadTerms) {
		return IngredientPDOThread
	}
	if containsAny(name, needleTerms) {
		return IngredientNeedle
	}

	if strings.Contains(name, "fill") {
		if strings.Contains(name, "lido") || strings.Contains(name, "lidocaina") {
			return IngredientHALidocaine
		}
		return IngredientHyaluronicAcid
	}

	for _, entry := range ingredientTerms {
		if containsAny(name, entry.terms) {
			return entry.ingredient
		}
	}
	return ""
}

func extractSpecs(folded string) Specs {
	return Specs{
		VolumeML:      matchNumber(volumePattern, folded),
		MassMG:        matchNumber(massPattern, folded),
		Units:         matchNumber(unitsPattern, folded),
		Concentration: matchNumber(concentrationPattern, folded),
	}
}

func matchNumber(pattern *regexp.Regexp, text string) *float64 {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return nil
	}
	return &value
}

func extractManufacturer(name string) string {
	for _, m := range manufacturers {
		if strings.Contains(name, m) {
			return m
		}
	}
	return ""
}

// extractPrimaryBrand validates a product brand only when it is the leading
// whole token of the name. Substring hits must not promote a name into a
// brand identity, and a brand buried mid-name ("kit perfectha com
// anestesico") describes contents rather than naming the product line; the
// similarity cascade handles that case separately.
func extractPrimaryBrand(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	for _, brand := range productBrands {
		if tokens[0] == brand {
			return brand
		}
	}
	return ""
}

func extractModifiers(tokens []string) []string {
	var modifiers []string
	for _, token := range tokens {
		if modifierVocabulary[token] {
			modifiers = append(modifiers, token)
		}
	}
	return modifiers
}

// coreStopwords are filler words and unit markers that carry no identity.
var coreStopwords = map[string]bool{
	"com": true, "de": true, "para": true,
	"ml": true, "mg": true, "ui": true, "unidades": true,
	"lidocaina": true, "lido": true,
}

var numericToken = regexp.MustCompile(`^\d+(?:[.,]\d+)?$`)

// CoreTokens returns the identity-bearing tokens of the product name:
// length >= 3, no stopwords, no bare numbers.
func (p Product) CoreTokens() []string {
	core := make([]string, 0, len(p.Tokens))
	for _, token := range p.Tokens {
		if len(token) < 3 || coreStopwords[token] || numericToken.MatchString(token) {
			continue
		}
		core = append(core, token)
	}
	return core
}

// isKnownBrandToken reports whether the token appears in the product-brand
// or manufacturer vocabulary.
func isKnownBrandToken(token string) bool {
	for _, brand := range productBrands {
		if token == brand {
			return true
		}
	}
	for _, m := range manufacturers {
		if token == m {
			return true
		}
	}
	return false
}

func containsAny(name string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(name, term) {
			return true
		}
	}
	return false
}
