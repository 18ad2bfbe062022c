package database

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"quoteserver/matching"
	"quoteserver/quote"
)

// nameEditLimit bounds how many edits away a stored product name may be and
// still count as "the product the supplier meant" when editing or deleting.
const nameEditLimit = 2

// searchEditLimit is the looser bound used for per-supplier product search.
const searchEditLimit = 3

// tokenFallbackDistance ranks partial token hits behind every genuine
// edit-distance hit in search results.
const tokenFallbackDistance = searchEditLimit + 1

// maxSearchResults caps how many near matches a product search returns.
const maxSearchResults = 3

// Product is one inventory row.
type Product struct {
	ID         string          `json:"id"`
	SupplierID string          `json:"supplier_id"`
	Category   string          `json:"category"`
	Brand      string          `json:"brand"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
}

// ProductUpdate carries the editable product fields; nil means unchanged.
type ProductUpdate struct {
	Category *string
	Brand    *string
	Name     *string
	Price    *decimal.Decimal
	Quantity *int
}

// ProductMatch is a near match from a product search, with its edit
// distance from the query.
type ProductMatch struct {
	Product
	Distance int `json:"distance"`
}

// SearchOutcome is the result of a per-supplier product search: either a
// perfect normalized-name match, or up to three nearest candidates.
type SearchOutcome struct {
	Perfect *Product       `json:"perfect,omitempty"`
	Nearest []ProductMatch `json:"nearest"`
}

// AddProduct inserts a product into a supplier's inventory.
func (s *Store) AddProduct(ctx context.Context, supplierID string, product Product) (*Product, error) {
	if strings.TrimSpace(product.Name) == "" {
		return nil, errors.New("product name is required")
	}
	if product.Quantity < 0 {
		return nil, errors.New("product quantity cannot be negative")
	}
	if product.Price.IsNegative() {
		return nil, errors.New("product price cannot be negative")
	}

	product.ID = uuid.NewString()
	product.SupplierID = supplierID

	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO products (id, supplier_id, category, brand, name, name_normalized, price, quantity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		product.ID, supplierID, product.Category, product.Brand,
		product.Name, matching.Normalize(product.Name), product.Price.String(), product.Quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}
	return &product, nil
}

// UpdateProduct finds the supplier's product whose stored name is closest to
// name (within the edit limit) and applies the given changes.
func (s *Store) UpdateProduct(ctx context.Context, supplierID, name string, update ProductUpdate) (*Product, error) {
	products, err := s.supplierProducts(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	target := closestProduct(products, name, func(p Product) string { return p.Name })
	if target == nil {
		return nil, ErrNotFound
	}

	if update.Category != nil {
		target.Category = *update.Category
	}
	if update.Brand != nil {
		target.Brand = *update.Brand
	}
	if update.Name != nil {
		target.Name = *update.Name
	}
	if update.Price != nil {
		target.Price = *update.Price
	}
	if update.Quantity != nil {
		target.Quantity = *update.Quantity
	}

	_, err = s.conn.ExecContext(ctx, `
		UPDATE products SET category = ?, brand = ?, name = ?, name_normalized = ?,
			price = ?, quantity = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		target.Category, target.Brand, target.Name, matching.Normalize(target.Name),
		target.Price.String(), target.Quantity, target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", target.ID, err)
	}
	return target, nil
}

// DeleteProduct removes the supplier's product whose normalized name is
// closest to name, within the edit limit. The deleted row is returned.
func (s *Store) DeleteProduct(ctx context.Context, supplierID, name string) (*Product, error) {
	products, err := s.supplierProducts(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	compact := matching.Normalize(name)
	target := closestProduct(products, compact, func(p Product) string { return matching.Normalize(p.Name) })
	if target == nil {
		return nil, ErrNotFound
	}

	if _, err := s.conn.ExecContext(ctx, "DELETE FROM products WHERE id = ?", target.ID); err != nil {
		return nil, fmt.Errorf("failed to delete product %s: %w", target.ID, err)
	}
	return target, nil
}

// closestProduct picks the product whose keyed name is the fewest edits from
// name, rejecting anything beyond nameEditLimit.
func closestProduct(products []Product, name string, key func(Product) string) *Product {
	var best *Product
	bestDistance := nameEditLimit + 1
	for i := range products {
		distance := matching.LevenshteinDistance(name, key(products[i]))
		if distance <= nameEditLimit && distance < bestDistance {
			bestDistance = distance
			best = &products[i]
		}
	}
	return best
}

// SearchProducts looks a product up inside one supplier's inventory. A
// normalized exact hit wins outright; otherwise the closest candidates by
// edit distance come back, padded with token hits when nothing is close.
func (s *Store) SearchProducts(ctx context.Context, supplierID, name string) (*SearchOutcome, error) {
	products, err := s.supplierProducts(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	query := matching.NormalizeWords(name)
	tokens := strings.Fields(query)

	var nearest []ProductMatch
	for i := range products {
		stored := matching.NormalizeWords(products[i].Name)
		distance := matching.LevenshteinDistance(query, stored)

		switch {
		case distance == 0:
			return &SearchOutcome{Perfect: &products[i]}, nil
		case distance <= searchEditLimit:
			nearest = append(nearest, ProductMatch{Product: products[i], Distance: distance})
		default:
			for _, token := range tokens {
				if strings.Contains(stored, token) {
					nearest = append(nearest, ProductMatch{Product: products[i], Distance: tokenFallbackDistance})
					break
				}
			}
		}
	}

	sort.SliceStable(nearest, func(i, j int) bool { return nearest[i].Distance < nearest[j].Distance })
	if len(nearest) > maxSearchResults {
		nearest = nearest[:maxSearchResults]
	}
	return &SearchOutcome{Nearest: nearest}, nil
}

// ListItems returns a supplier's inventory in quote form, implementing the
// quote inventory interface.
func (s *Store) ListItems(ctx context.Context, supplierID string) ([]quote.InventoryItem, error) {
	products, err := s.supplierProducts(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	items := make([]quote.InventoryItem, len(products))
	for i, p := range products {
		items[i] = quote.InventoryItem{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
			Brand:    p.Brand,
			Price:    p.Price,
			Quantity: p.Quantity,
		}
	}
	return items, nil
}

func (s *Store) supplierProducts(ctx context.Context, supplierID string) ([]Product, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, supplier_id, category, brand, name, price, quantity
		FROM products WHERE supplier_id = ? ORDER BY created_at, id`, supplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products for supplier %s: %w", supplierID, err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var (
			p     Product
			price string
		)
		if err := rows.Scan(&p.ID, &p.SupplierID, &p.Category, &p.Brand, &p.Name, &price, &p.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		p.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("invalid stored price %q for product %s: %w", price, p.ID, err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

var _ quote.SupplierDirectory = (*Store)(nil)
var _ quote.InventoryProvider = (*Store)(nil)
