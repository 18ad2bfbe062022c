package database

import (
	"database/sql"
	"fmt"
)

func ensureMigrationTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name TEXT PRIMARY KEY,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}
	return nil
}

func isMigrationApplied(db *sql.DB, name string) (bool, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE name = ?", name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check migration %s: %w", name, err)
	}
	return count > 0, nil
}

func markMigrationApplied(db *sql.DB, name string) error {
	if _, err := db.Exec("INSERT INTO schema_migrations (name) VALUES (?)", name); err != nil {
		return fmt.Errorf("failed to mark migration %s: %w", name, err)
	}
	return nil
}

func ensureMigrationApplied(db *sql.DB, name string, migration func(*sql.DB) error) error {
	applied, err := isMigrationApplied(db, name)
	if err != nil {
		return err
	}
	if applied {
		return nil
	}
	if err := migration(db); err != nil {
		return fmt.Errorf("migration %s failed: %w", name, err)
	}
	return markMigrationApplied(db, name)
}

func (s *Store) migrate() error {
	if err := ensureMigrationTable(s.conn); err != nil {
		return err
	}

	migrations := []struct {
		name string
		run  func(*sql.DB) error
	}{
		{"001_create_suppliers", createSuppliersTable},
		{"002_create_products", createProductsTable},
		{"003_create_clicks", createClicksTable},
		{"004_create_professionals", createProfessionalsTable},
	}

	for _, m := range migrations {
		if err := ensureMigrationApplied(s.conn, m.name, m.run); err != nil {
			return err
		}
		s.logger.Debug("migration ensured", "name", m.name)
	}
	return nil
}

func createSuppliersTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS suppliers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			cep TEXT NOT NULL DEFAULT '',
			clicks INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	return err
}

func createProductsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			supplier_id TEXT NOT NULL REFERENCES suppliers(id) ON DELETE CASCADE,
			category TEXT NOT NULL DEFAULT '',
			brand TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL,
			name_normalized TEXT NOT NULL,
			price TEXT NOT NULL,
			quantity INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		return err
	}
	_, err = db.Exec("CREATE INDEX IF NOT EXISTS idx_products_supplier ON products(supplier_id)")
	return err
}

func createClicksTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS clicks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			supplier_id TEXT NOT NULL REFERENCES suppliers(id) ON DELETE CASCADE,
			requester_name TEXT NOT NULL DEFAULT '',
			requester_email TEXT NOT NULL DEFAULT '',
			requester_phone TEXT NOT NULL DEFAULT '',
			searched_products TEXT NOT NULL DEFAULT '',
			clicked_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		return err
	}
	_, err = db.Exec("CREATE INDEX IF NOT EXISTS idx_clicks_supplier ON clicks(supplier_id)")
	return err
}

func createProfessionalsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS professionals (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL,
			cep TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	return err
}
