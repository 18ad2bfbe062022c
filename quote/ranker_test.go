package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func quoteWithScore(id string, score float64) *SupplierQuote {
	return &SupplierQuote{SupplierID: id, Score: score}
}

func TestRankSortsAndTruncates(t *testing.T) {
	ranked := Rank([]*SupplierQuote{
		quoteWithScore("a", 0.40),
		quoteWithScore("b", 0.90),
		quoteWithScore("c", 0.10),
		quoteWithScore("d", 0.75),
		quoteWithScore("e", 0.60),
	})

	assert.Len(t, ranked, 3)
	assert.Equal(t, "b", ranked[0].SupplierID)
	assert.Equal(t, "d", ranked[1].SupplierID)
	assert.Equal(t, "e", ranked[2].SupplierID)

	assert.Equal(t, "Orçamento 1", ranked[0].Label)
	assert.Equal(t, "Orçamento 2", ranked[1].Label)
	assert.Equal(t, "Orçamento 3", ranked[2].Label)
}

// Ties preserve the supplier processing order.
func TestRankStableOnTies(t *testing.T) {
	ranked := Rank([]*SupplierQuote{
		quoteWithScore("first", 0.5),
		quoteWithScore("second", 0.5),
		quoteWithScore("third", 0.5),
	})

	assert.Equal(t, []string{"first", "second", "third"},
		[]string{ranked[0].SupplierID, ranked[1].SupplierID, ranked[2].SupplierID})
}

func TestRankDropsNilAndHandlesEmpty(t *testing.T) {
	assert.Empty(t, Rank(nil))
	assert.Empty(t, Rank([]*SupplierQuote{nil, nil}))

	ranked := Rank([]*SupplierQuote{nil, quoteWithScore("only", 0.3), nil})
	assert.Len(t, ranked, 1)
	assert.Equal(t, "only", ranked[0].SupplierID)
}
