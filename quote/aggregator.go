package quote

import (
	"context"
	"log/slog"
	"math"

	"github.com/shopspring/decimal"

	"quoteserver/matching"
)

// Aggregator builds one supplier's quote for a multi-item request.
type Aggregator struct {
	matcher  *matching.Matcher
	distance DistanceProvider
	weights  ScoreWeights
	logger   *slog.Logger
}

// NewAggregator creates an aggregator. distance may be nil in tests; every
// supplier then gets the sentinel distance.
func NewAggregator(matcher *matching.Matcher, distance DistanceProvider, weights ScoreWeights, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		matcher:  matcher,
		distance: distance,
		weights:  weights,
		logger:   logger,
	}
}

// BuildQuote matches every requested item against the supplier's inventory
// and assembles a quote, or returns nil when the supplier contributes
// nothing. Matches below MEDIUM confidence are logged and discarded; they
// are filtering decisions, not errors.
func (a *Aggregator) BuildQuote(ctx context.Context, supplier Supplier, inventory []InventoryItem, items []RequestedItem, requesterCEP string) *SupplierQuote {
	accepted := 0
	total := decimal.Zero
	var lines []LineItem

	for _, item := range items {
		// Only items with enough stock are candidates for this line.
		available := make([]InventoryItem, 0, len(inventory))
		for _, inv := range inventory {
			if inv.Quantity >= item.Quantity {
				available = append(available, inv)
			}
		}
		if len(available) == 0 {
			continue
		}

		names := make([]string, len(available))
		for i, inv := range available {
			names[i] = inv.Name
		}

		match := a.matcher.SelectBest(item.Name, names)
		if match == nil {
			a.logger.Debug("no compatible candidate",
				"supplier", supplier.Name, "requested", item.Name)
			continue
		}
		if !match.Confidence.AtLeastMedium() {
			a.logger.Debug("match rejected on confidence",
				"supplier", supplier.Name,
				"requested", item.Name,
				"candidate", available[match.Index].Name,
				"confidence", match.Confidence,
			)
			continue
		}

		matched := available[match.Index]
		lineTotal := matched.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(lineTotal)
		accepted++
		lines = append(lines, LineItem{
			Name:       matched.Name,
			UnitPrice:  matched.Price,
			Quantity:   item.Quantity,
			LineTotal:  lineTotal,
			Category:   matched.Category,
			Confidence: match.Confidence,
			Similarity: match.Score,
		})
	}

	if len(lines) == 0 {
		return nil
	}

	complete := accepted == len(items)
	distanceKm := a.supplierDistance(ctx, supplier, requesterCEP)

	quote := &SupplierQuote{
		SupplierID:   supplier.ID,
		SupplierName: supplier.Name,
		DistanceKm:   distanceKm,
		TotalPrice:   total,
		Complete:     complete,
		LineItems:    lines,
	}
	quote.Score = Score(distanceKm, complete, total, a.weights)

	a.logger.Info("quote built",
		"supplier", supplier.Name,
		"accepted", accepted,
		"requested", len(items),
		"complete", complete,
		"distance_km", distanceKm,
		"total", total,
		"score", quote.Score,
	)
	return quote
}

// supplierDistance asks the provider once per supplier and substitutes the
// sentinel on failure or a non-finite result.
func (a *Aggregator) supplierDistance(ctx context.Context, supplier Supplier, requesterCEP string) float64 {
	if a.distance == nil {
		return SentinelDistanceKm
	}

	km, err := a.distance.DistanceKm(ctx, requesterCEP, supplier.CEP)
	if err != nil {
		a.logger.Warn("distance lookup failed, using sentinel",
			"supplier", supplier.Name, "error", err)
		return SentinelDistanceKm
	}
	if math.IsNaN(km) || math.IsInf(km, 0) || km < 0 {
		a.logger.Warn("distance provider returned invalid value, using sentinel",
			"supplier", supplier.Name, "distance", km)
		return SentinelDistanceKm
	}
	return km
}
