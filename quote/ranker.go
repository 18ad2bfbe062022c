package quote

import (
	"fmt"
	"sort"
)

// maxRankedQuotes bounds the result set shown to the buyer.
const maxRankedQuotes = 3

// Rank sorts quotes by score descending, stable on ties so supplier
// processing order is preserved, labels them and truncates to the top
// three.
func Rank(quotes []*SupplierQuote) []*SupplierQuote {
	ranked := make([]*SupplierQuote, 0, len(quotes))
	for _, q := range quotes {
		if q != nil {
			ranked = append(ranked, q)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > maxRankedQuotes {
		ranked = ranked[:maxRankedQuotes]
	}
	for i, q := range ranked {
		q.Label = fmt.Sprintf("Orçamento %d", i+1)
	}
	return ranked
}
