package quote

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	apperrors "quoteserver/server/errors"
)

// DefaultBatchSize bounds how many suppliers are processed concurrently, so
// inventory and distance providers are never hit by more than a handful of
// simultaneous calls.
const DefaultBatchSize = 5

// noResultsMessage is the user-visible outcome when no supplier qualified.
const noResultsMessage = "Nenhum produto foi encontrado com base nos critérios de busca."

// SearchService orchestrates a full request: fan out over suppliers in
// bounded batches, build a quote per supplier, score, rank.
type SearchService struct {
	suppliers  SupplierDirectory
	inventory  InventoryProvider
	links      ActionLinkIssuer
	aggregator *Aggregator
	batchSize  int
	logger     *slog.Logger
}

// NewSearchService wires the search pipeline. links may be nil; quotes then
// carry no contact link. A non-positive batchSize falls back to
// DefaultBatchSize.
func NewSearchService(suppliers SupplierDirectory, inventory InventoryProvider, links ActionLinkIssuer, aggregator *Aggregator, batchSize int, logger *slog.Logger) *SearchService {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchService{
		suppliers:  suppliers,
		inventory:  inventory,
		links:      links,
		aggregator: aggregator,
		batchSize:  batchSize,
		logger:     logger,
	}
}

// Rank matches the requested items against every supplier and returns the
// ranked top quotes. An empty outcome is normal and reported through
// SearchResponse.Message; validation problems are errors.
func (s *SearchService) Rank(ctx context.Context, items []RequestedItem, requester Requester) (*SearchResponse, error) {
	if err := validateRequest(items, requester); err != nil {
		return nil, err
	}

	suppliers, err := s.suppliers.ListSuppliers(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("listing suppliers failed", err)
	}

	quotes := make([]*SupplierQuote, 0, len(suppliers))

	// Fixed-size batches: every task in a batch runs concurrently and the
	// batch is drained before the next one starts. Each task writes only its
	// own slot, so no locking is needed.
	for start := 0; start < len(suppliers); start += s.batchSize {
		end := start + s.batchSize
		if end > len(suppliers) {
			end = len(suppliers)
		}
		batch := suppliers[start:end]
		results := make([]*SupplierQuote, len(batch))

		var wg sync.WaitGroup
		for i, supplier := range batch {
			wg.Add(1)
			go func(slot int, supplier Supplier) {
				defer wg.Done()
				results[slot] = s.processSupplier(ctx, supplier, items, requester)
			}(i, supplier)
		}
		wg.Wait()

		for _, q := range results {
			if q != nil {
				quotes = append(quotes, q)
			}
		}
	}

	ranked := Rank(quotes)
	if len(ranked) == 0 {
		s.logger.Info("search produced no qualifying suppliers", "items", len(items))
		return &SearchResponse{Quotes: []*SupplierQuote{}, Message: noResultsMessage}, nil
	}
	return &SearchResponse{Quotes: ranked}, nil
}

// processSupplier computes one supplier's quote. Any failure — inventory
// fetch, distance, even a panic during matching — degrades to a nil quote
// for this supplier and never aborts the batch.
func (s *SearchService) processSupplier(ctx context.Context, supplier Supplier, items []RequestedItem, requester Requester) (quote *SupplierQuote) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("supplier task panicked",
				"supplier", supplier.Name, "panic", r)
			quote = nil
		}
	}()

	inventory, err := s.inventory.ListItems(ctx, supplier.ID)
	if err != nil {
		s.logger.Warn("inventory fetch failed, skipping supplier",
			"supplier", supplier.Name, "error", err)
		return nil
	}
	if len(inventory) == 0 {
		return nil
	}

	quote = s.aggregator.BuildQuote(ctx, supplier, inventory, items, requester.CEP)
	if quote == nil {
		return nil
	}

	s.attachContactLink(quote, supplier, items, requester)
	return quote
}

// attachContactLink issues the short contact link for a quote. Link
// issuance failures are logged and leave the quote without a link; they do
// not disqualify the supplier.
func (s *SearchService) attachContactLink(quote *SupplierQuote, supplier Supplier, items []RequestedItem, requester Requester) {
	if s.links == nil {
		return
	}

	searched := make([]string, len(quote.LineItems))
	for i, line := range quote.LineItems {
		searched[i] = fmt.Sprintf("%d unidade(s) de %s", line.Quantity, line.Name)
	}

	link, err := s.links.Issue(LinkPayload{
		SupplierID: supplier.ID,
		LongURL:    ContactURL(supplier.Phone, ContactMessage(quote.LineItems, quote.TotalPrice)),
		Requester:  requester,
		Search:     strings.Join(searched, ", "),
	})
	if err != nil {
		s.logger.Warn("contact link issuance failed",
			"supplier", supplier.Name, "error", err)
		return
	}
	quote.ContactLink = link
}

func validateRequest(items []RequestedItem, requester Requester) error {
	if len(items) == 0 {
		return apperrors.NewValidationError("request must contain at least one product", nil)
	}
	for _, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			return apperrors.NewValidationError("requested product name must not be empty", nil)
		}
		if item.Quantity <= 0 {
			return apperrors.NewValidationError(
				fmt.Sprintf("requested quantity for %q must be positive", item.Name), nil)
		}
	}
	if strings.TrimSpace(requester.CEP) == "" {
		return apperrors.NewValidationError("requester location (CEP) is required", nil)
	}
	return nil
}
