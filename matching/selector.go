package matching

import (
	"log/slog"
	"sync"
)

// Confidence is the discrete bucket summarizing a match's combined score.
type Confidence string

const (
	ConfidenceExact  Confidence = "EXACT"
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// AtLeastMedium reports whether the confidence qualifies for fulfillment.
func (c Confidence) AtLeastMedium() bool {
	return c == ConfidenceExact || c == ConfidenceHigh || c == ConfidenceMedium
}

// Config carries the tunable matching thresholds. The values are the tuned
// defaults, not fixed law; they should be revisited against real catalog
// data.
type Config struct {
	CompatibilityFloor float64
	ExactCut           float64
	HighCut            float64
	MediumCut          float64
	SameBrandBoost     float64
	BrandPenalty       float64
}

// DefaultConfig returns the production matching thresholds.
func DefaultConfig() Config {
	return Config{
		CompatibilityFloor: 0.60,
		ExactCut:           0.90,
		HighCut:            0.75,
		MediumCut:          0.60,
		SameBrandBoost:     1.3,
		BrandPenalty:       0.3,
	}
}

// MatchResult describes the best candidate for one requested product.
type MatchResult struct {
	Index         int     // position in the candidate slice
	Score         float64 // combined final score in [0,1]
	Confidence    Confidence
	Compatibility float64
	Textual       float64
}

// Matcher selects the best inventory candidate for a requested product name.
// Classification results are cached per distinct name, since the same
// inventory is compared against every requested item.
type Matcher struct {
	config  Config
	weights CompatibilityWeights
	logger  *slog.Logger

	mu    sync.RWMutex
	cache map[string]Product
}

// NewMatcher creates a matcher with the given thresholds.
func NewMatcher(config Config, weights CompatibilityWeights, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{
		config:  config,
		weights: weights,
		logger:  logger,
		cache:   make(map[string]Product),
	}
}

// ClassifyCached returns the classified product for a name, reusing a prior
// classification of the same string.
func (m *Matcher) ClassifyCached(name string) Product {
	m.mu.RLock()
	p, ok := m.cache[name]
	m.mu.RUnlock()
	if ok {
		return p
	}

	p = Classify(name)
	m.mu.Lock()
	m.cache[name] = p
	m.mu.Unlock()
	return p
}

// SelectBest returns the best-scoring candidate for the requested name, or
// nil when no candidate clears the compatibility floor. Candidates below the
// floor are a filtering decision, not an error. Ties keep the first
// candidate encountered.
func (m *Matcher) SelectBest(requestedName string, candidates []string) *MatchResult {
	requested := m.ClassifyCached(requestedName)

	var best *MatchResult
	for i, name := range candidates {
		candidate := m.ClassifyCached(name)

		compatibility := Compatibility(requested, candidate, m.weights)
		if compatibility < m.config.CompatibilityFloor {
			continue
		}

		textual := TextualSimilarity(requested, candidate)
		score := 0.5*compatibility + 0.5*textual

		// Brand identity dominates: boost agreement, punish disagreement.
		if requested.PrimaryBrand != "" && candidate.PrimaryBrand != "" {
			if requested.PrimaryBrand == candidate.PrimaryBrand {
				score = minFloat(score*m.config.SameBrandBoost, 1.0)
			} else {
				score *= m.config.BrandPenalty
			}
		}

		if best == nil || score > best.Score {
			best = &MatchResult{
				Index:         i,
				Score:         score,
				Confidence:    m.confidenceFor(score),
				Compatibility: compatibility,
				Textual:       textual,
			}
		}
	}

	if best != nil {
		m.logger.Debug("best match selected",
			"requested", requested.Name,
			"candidate", candidates[best.Index],
			"score", best.Score,
			"confidence", best.Confidence,
		)
	}
	return best
}

func (m *Matcher) confidenceFor(score float64) Confidence {
	switch {
	case score >= m.config.ExactCut:
		return ConfidenceExact
	case score >= m.config.HighCut:
		return ConfidenceHigh
	case score >= m.config.MediumCut:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
