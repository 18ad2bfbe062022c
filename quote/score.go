package quote

import "github.com/shopspring/decimal"

// ScoreWeights are the ranking weights for the three quote factors. They
// must sum to 1.
type ScoreWeights struct {
	Distance     float64
	Completeness float64
	Price        float64
}

// DefaultScoreWeights returns the production ranking weights. Completeness
// dominates: a supplier that fulfills the whole request beats a marginally
// closer or cheaper partial one.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		Distance:     0.15,
		Completeness: 0.50,
		Price:        0.35,
	}
}

// Score combines distance, completeness and total price into one ranking
// scalar in (0,1]. Each factor is normalized as 1/(1+x) so smaller distance
// and price score higher.
func Score(distanceKm float64, complete bool, totalPrice decimal.Decimal, w ScoreWeights) float64 {
	distanceFactor := 1.0 / (1.0 + distanceKm)
	priceFactor := 1.0 / (1.0 + totalPrice.InexactFloat64())

	completenessFactor := 0.0
	if complete {
		completenessFactor = 1.0
	}

	return distanceFactor*w.Distance + completenessFactor*w.Completeness + priceFactor*w.Price
}
