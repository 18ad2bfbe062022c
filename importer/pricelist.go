// Package importer loads supplier price lists from XLSX workbooks into the
// product store.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"quoteserver/database"
)

// PriceListRow is one parsed row of a supplier price list.
type PriceListRow struct {
	Category string
	Brand    string
	Name     string
	Price    decimal.Decimal
	Quantity int
}

// ImportReport summarizes one import run.
type ImportReport struct {
	Imported int
	Skipped  int
}

// ProductWriter persists parsed rows. *database.Store satisfies it.
type ProductWriter interface {
	AddProduct(ctx context.Context, supplierID string, product database.Product) (*database.Product, error)
}

// columnIndices maps the price-list concepts onto workbook columns.
type columnIndices struct {
	category int
	brand    int
	name     int
	price    int
	quantity int
}

// headerAliases accepts both Portuguese and English spellings per concept.
var headerAliases = map[string][]string{
	"category": {"categoria", "category"},
	"brand":    {"marca", "brand"},
	"name":     {"nome", "produto", "name", "product"},
	"price":    {"preco", "preço", "valor", "price"},
	"quantity": {"quantidade", "qtd", "estoque", "quantity", "stock"},
}

// ParsePriceList reads the first sheet of the workbook at filePath and
// returns its valid rows. Rows missing a name or carrying an unparsable
// price are skipped, not fatal.
func ParsePriceList(filePath string, logger *slog.Logger) ([]PriceListRow, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open price list: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in price list")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("price list needs a header row and at least one data row")
	}

	indices, err := findColumns(rows[0])
	if err != nil {
		return nil, err
	}

	var parsed []PriceListRow
	for rowIdx := 1; rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		if isEmptyRow(row) {
			continue
		}

		entry, err := parseRow(row, indices)
		if err != nil {
			logger.Warn("skipping price list row", "row", rowIdx+1, "error", err)
			continue
		}
		parsed = append(parsed, *entry)
	}
	return parsed, nil
}

// Import parses the workbook and writes every valid row to the store under
// supplierID.
func Import(ctx context.Context, writer ProductWriter, supplierID, filePath string, logger *slog.Logger) (*ImportReport, error) {
	if logger == nil {
		logger = slog.Default()
	}

	parsed, err := ParsePriceList(filePath, logger)
	if err != nil {
		return nil, err
	}

	report := &ImportReport{}
	for _, row := range parsed {
		_, err := writer.AddProduct(ctx, supplierID, database.Product{
			Category: row.Category,
			Brand:    row.Brand,
			Name:     row.Name,
			Price:    row.Price,
			Quantity: row.Quantity,
		})
		if err != nil {
			logger.Warn("failed to store imported product", "name", row.Name, "error", err)
			report.Skipped++
			continue
		}
		report.Imported++
	}

	logger.Info("price list imported",
		"supplier_id", supplierID, "imported", report.Imported, "skipped", report.Skipped)
	return report, nil
}

func findColumns(headers []string) (*columnIndices, error) {
	indices := &columnIndices{category: -1, brand: -1, name: -1, price: -1, quantity: -1}

	for i, header := range headers {
		normalized := strings.TrimSpace(strings.ToLower(header))
		for concept, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				switch concept {
				case "category":
					indices.category = i
				case "brand":
					indices.brand = i
				case "name":
					indices.name = i
				case "price":
					indices.price = i
				case "quantity":
					indices.quantity = i
				}
			}
		}
	}

	if indices.name == -1 {
		return nil, fmt.Errorf("required product name column not found in header")
	}
	if indices.price == -1 {
		return nil, fmt.Errorf("required price column not found in header")
	}
	return indices, nil
}

func parseRow(row []string, indices *columnIndices) (*PriceListRow, error) {
	name := cell(row, indices.name)
	if name == "" {
		return nil, fmt.Errorf("empty product name")
	}

	price, err := parsePrice(cell(row, indices.price))
	if err != nil {
		return nil, err
	}

	quantity := 0
	if raw := cell(row, indices.quantity); raw != "" {
		quantity, err = strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity %q: %w", raw, err)
		}
		if quantity < 0 {
			return nil, fmt.Errorf("negative quantity %d", quantity)
		}
	}

	return &PriceListRow{
		Category: cell(row, indices.category),
		Brand:    cell(row, indices.brand),
		Name:     name,
		Price:    price,
		Quantity: quantity,
	}, nil
}

// parsePrice accepts both "1234.56" and the Brazilian "1.234,56" spelling,
// with an optional currency prefix.
func parsePrice(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "R$"))
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty price")
	}

	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q: %w", raw, err)
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative price %s", price)
	}
	return price, nil
}

func cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}

func isEmptyRow(row []string) bool {
	for _, value := range row {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
