package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"quoteserver/matching"
	"quoteserver/quote"
)

// invoiceUnitPrice is what one recorded contact click costs a supplier.
var invoiceUnitPrice = decimal.NewFromInt(5)

// phoneEditLimit bounds how many digit edits still identify the same phone
// number when looking a professional up.
const phoneEditLimit = 2

// Supplier is a registered distributor row.
type Supplier struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	CEP       string    `json:"cep"`
	Clicks    int       `json:"clicks"`
	CreatedAt time.Time `json:"created_at"`
}

// Click is one recorded contact-link follow.
type Click struct {
	SupplierID       string
	RequesterName    string
	RequesterEmail   string
	RequesterPhone   string
	SearchedProducts string
}

// Invoice is a supplier's accumulated contact charge.
type Invoice struct {
	Clicks int             `json:"clicks"`
	Amount decimal.Decimal `json:"amount"`
}

// Professional is a verified buyer profile.
type Professional struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	CEP   string `json:"cep"`
}

// ErrNotFound reports that a lookup matched no row.
var ErrNotFound = errors.New("not found")

// CreateSupplier inserts a supplier, assigning an ID when none is given.
func (s *Store) CreateSupplier(ctx context.Context, supplier Supplier) (*Supplier, error) {
	if strings.TrimSpace(supplier.Name) == "" {
		return nil, errors.New("supplier name is required")
	}
	if supplier.ID == "" {
		supplier.ID = uuid.NewString()
	}

	_, err := s.conn.ExecContext(ctx,
		"INSERT INTO suppliers (id, name, phone, cep) VALUES (?, ?, ?, ?)",
		supplier.ID, supplier.Name, supplier.Phone, supplier.CEP)
	if err != nil {
		return nil, fmt.Errorf("failed to insert supplier: %w", err)
	}
	return &supplier, nil
}

// GetSupplier fetches a supplier by ID.
func (s *Store) GetSupplier(ctx context.Context, id string) (*Supplier, error) {
	var (
		supplier Supplier
		phone    sql.NullString
		cep      sql.NullString
	)
	err := s.conn.QueryRowContext(ctx,
		"SELECT id, name, phone, cep, clicks, created_at FROM suppliers WHERE id = ?", id).
		Scan(&supplier.ID, &supplier.Name, &phone, &cep, &supplier.Clicks, &supplier.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load supplier %s: %w", id, err)
	}
	supplier.Phone = nullString(phone)
	supplier.CEP = nullString(cep)
	return &supplier, nil
}

// ListSuppliers returns every registered supplier in quote form.
func (s *Store) ListSuppliers(ctx context.Context) ([]quote.Supplier, error) {
	rows, err := s.conn.QueryContext(ctx, "SELECT id, name, phone, cep FROM suppliers ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []quote.Supplier
	for rows.Next() {
		var supplier quote.Supplier
		if err := rows.Scan(&supplier.ID, &supplier.Name, &supplier.Phone, &supplier.CEP); err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, supplier)
	}
	return suppliers, rows.Err()
}

// RecordClick increments the supplier's billed click counter and stores the
// click details, atomically.
func (s *Store) RecordClick(ctx context.Context, click Click) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin click transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"UPDATE suppliers SET clicks = clicks + 1 WHERE id = ?", click.SupplierID)
	if err != nil {
		return fmt.Errorf("failed to increment clicks: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read click update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO clicks (supplier_id, requester_name, requester_email, requester_phone, searched_products)
		VALUES (?, ?, ?, ?, ?)`,
		click.SupplierID, click.RequesterName, click.RequesterEmail, click.RequesterPhone, click.SearchedProducts)
	if err != nil {
		return fmt.Errorf("failed to insert click: %w", err)
	}

	return tx.Commit()
}

// Invoice computes what a supplier owes for its accumulated clicks.
func (s *Store) Invoice(ctx context.Context, supplierID string) (*Invoice, error) {
	supplier, err := s.GetSupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	return &Invoice{
		Clicks: supplier.Clicks,
		Amount: invoiceUnitPrice.Mul(decimal.NewFromInt(int64(supplier.Clicks))),
	}, nil
}

// UpsertProfessional stores or refreshes a buyer profile keyed by phone.
func (s *Store) UpsertProfessional(ctx context.Context, professional Professional) (*Professional, error) {
	if strings.TrimSpace(professional.Phone) == "" {
		return nil, errors.New("professional phone is required")
	}
	if professional.ID == "" {
		professional.ID = uuid.NewString()
	}

	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO professionals (id, name, email, phone, cep) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, email = excluded.email,
			phone = excluded.phone, cep = excluded.cep`,
		professional.ID, professional.Name, professional.Email, professional.Phone, professional.CEP)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert professional: %w", err)
	}
	return &professional, nil
}

// FindProfessionalCEPByPhone locates a professional whose phone is within a
// couple of digit edits of the given one and returns their CEP. Typos in
// phone numbers are common enough that an exact match is too strict.
func (s *Store) FindProfessionalCEPByPhone(ctx context.Context, phone string) (string, error) {
	rows, err := s.conn.QueryContext(ctx, "SELECT phone, cep FROM professionals")
	if err != nil {
		return "", fmt.Errorf("failed to list professionals: %w", err)
	}
	defer rows.Close()

	bestCEP := ""
	bestDistance := phoneEditLimit + 1
	for rows.Next() {
		var storedPhone, cep string
		if err := rows.Scan(&storedPhone, &cep); err != nil {
			return "", fmt.Errorf("failed to scan professional: %w", err)
		}
		distance := matching.LevenshteinDistance(phone, storedPhone)
		if distance <= phoneEditLimit && distance < bestDistance {
			bestDistance = distance
			bestCEP = cep
		}
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	if bestCEP == "" {
		return "", ErrNotFound
	}
	return bestCEP, nil
}
