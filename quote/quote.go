// Package quote builds and ranks supplier quotes for multi-item product
// requests, matching free-text requested names against each supplier's
// inventory.
package quote

import (
	"context"

	"github.com/shopspring/decimal"

	"quoteserver/matching"
)

// SentinelDistanceKm stands in for "very far / unknown" whenever the real
// driving distance cannot be computed.
const SentinelDistanceKm = 1000.0

// RequestedItem is one line of the buyer's request.
type RequestedItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Requester identifies who is asking for quotes and where they are.
type Requester struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	CEP   string `json:"cep"`
}

// Supplier is a registered distributor.
type Supplier struct {
	ID    string
	Name  string
	Phone string
	CEP   string
}

// InventoryItem is one product held by a supplier. Read-only to this
// package; the store owns it.
type InventoryItem struct {
	ID       string
	Name     string
	Category string
	Brand    string
	Price    decimal.Decimal
	Quantity int
}

// LineItem is one matched product inside a quote.
type LineItem struct {
	Name       string              `json:"name"`
	UnitPrice  decimal.Decimal     `json:"unit_price"`
	Quantity   int                 `json:"quantity"`
	LineTotal  decimal.Decimal     `json:"line_total"`
	Category   string              `json:"category"`
	Confidence matching.Confidence `json:"confidence"`
	Similarity float64             `json:"similarity"`
}

// SupplierQuote is one supplier's offer for the request. At most one line
// item exists per requested item; Complete is true only when every requested
// item was matched at fulfillment confidence.
type SupplierQuote struct {
	SupplierID   string          `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	Label        string          `json:"label"`
	DistanceKm   float64         `json:"distance_km"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	Complete     bool            `json:"complete"`
	LineItems    []LineItem      `json:"line_items"`
	Score        float64         `json:"score"`
	ContactLink  string          `json:"contact_link,omitempty"`
}

// SearchResponse is the ranked outcome of a search. Message is set instead
// of quotes when no supplier qualified; an empty result is a normal outcome,
// not an error.
type SearchResponse struct {
	Quotes  []*SupplierQuote `json:"quotes"`
	Message string           `json:"message,omitempty"`
}

// SupplierDirectory lists the suppliers to quote against.
type SupplierDirectory interface {
	ListSuppliers(ctx context.Context) ([]Supplier, error)
}

// InventoryProvider returns a supplier's current product list. Results may
// be cached snapshots up to 30 minutes old.
type InventoryProvider interface {
	ListItems(ctx context.Context, supplierID string) ([]InventoryItem, error)
}

// DistanceProvider computes driving distance in kilometers between two
// location codes. Callers must treat errors and non-finite results as
// "distance unknown" rather than failing the supplier.
type DistanceProvider interface {
	DistanceKm(ctx context.Context, originCEP, destCEP string) (float64, error)
}

// LinkPayload carries everything a contact action needs to record who
// clicked what.
type LinkPayload struct {
	SupplierID string
	LongURL    string
	Requester  Requester
	Search     string
}

// ActionLinkIssuer turns a contact payload into an opaque short reference.
type ActionLinkIssuer interface {
	Issue(payload LinkPayload) (string, error)
}
