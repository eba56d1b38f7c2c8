package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/munimhq/munim/internal/coa"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a fatal
// error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS documents (
					id TEXT PRIMARY KEY,
					title TEXT NOT NULL,
					type TEXT NOT NULL,
					category TEXT NOT NULL,
					entity TEXT,
					issue_date DATETIME,
					amount REAL,
					status TEXT NOT NULL,
					tags TEXT,
					file_path TEXT,
					created_by TEXT,
					last_modified DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_documents_type ON documents(type)`,
				`CREATE INDEX idx_documents_status ON documents(status)`,
				`CREATE INDEX idx_documents_entity ON documents(entity)`,

				`CREATE TABLE IF NOT EXISTS bank_accounts (
					id TEXT PRIMARY KEY,
					account_number TEXT NOT NULL,
					ifsc_code TEXT,
					bank_name TEXT NOT NULL,
					account_type TEXT NOT NULL,
					balance REAL DEFAULT 0,
					company_id TEXT NOT NULL,
					is_active INTEGER DEFAULT 1
				)`,

				`CREATE TABLE IF NOT EXISTS bank_transactions (
					id TEXT PRIMARY KEY,
					hash TEXT UNIQUE NOT NULL,
					account_id TEXT NOT NULL,
					amount REAL NOT NULL,
					transaction_type TEXT NOT NULL,
					description TEXT,
					date DATETIME NOT NULL,
					category TEXT,
					reference_number TEXT,
					balance_after REAL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_bank_transactions_date ON bank_transactions(date)`,
				`CREATE INDEX idx_bank_transactions_account ON bank_transactions(account_id)`,
				`CREATE INDEX idx_bank_transactions_hash ON bank_transactions(hash)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Invoices, expenses, and GST returns",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS invoices (
					id TEXT PRIMARY KEY,
					invoice_number TEXT UNIQUE NOT NULL,
					client_name TEXT NOT NULL,
					client_email TEXT,
					client_address TEXT,
					client_gstin TEXT,
					issue_date DATETIME NOT NULL,
					due_date DATETIME,
					items TEXT NOT NULL,
					subtotal REAL NOT NULL,
					tax_amount REAL NOT NULL,
					total_amount REAL NOT NULL,
					status TEXT NOT NULL,
					company_id TEXT NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_invoices_company ON invoices(company_id)`,
				`CREATE INDEX idx_invoices_status ON invoices(status)`,

				`CREATE TABLE IF NOT EXISTS invoice_sequences (
					year INTEGER PRIMARY KEY,
					next_seq INTEGER NOT NULL
				)`,

				`CREATE TABLE IF NOT EXISTS expenses (
					id TEXT PRIMARY KEY,
					amount REAL NOT NULL,
					description TEXT NOT NULL,
					category TEXT,
					vendor TEXT,
					date DATETIME NOT NULL,
					receipt_url TEXT,
					tax_amount REAL DEFAULT 0,
					status TEXT NOT NULL,
					recurring_frequency TEXT,
					recurring_next_due DATETIME,
					created_by TEXT,
					company_id TEXT NOT NULL
				)`,
				`CREATE INDEX idx_expenses_company ON expenses(company_id)`,
				`CREATE INDEX idx_expenses_category ON expenses(category)`,

				`CREATE TABLE IF NOT EXISTS gst_returns (
					id TEXT PRIMARY KEY,
					return_type TEXT NOT NULL,
					period TEXT NOT NULL,
					filing_date DATETIME,
					status TEXT NOT NULL,
					total_taxable_value REAL NOT NULL,
					total_tax_amount REAL NOT NULL,
					input_tax_credit REAL DEFAULT 0,
					ack_number TEXT,
					company_id TEXT NOT NULL
				)`,
				`CREATE INDEX idx_gst_returns_company ON gst_returns(company_id)`,
				`CREATE UNIQUE INDEX idx_gst_returns_period ON gst_returns(company_id, return_type, period)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Seed chart of accounts",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE TABLE IF NOT EXISTS account_categories (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				ledger_type TEXT NOT NULL,
				keywords TEXT NOT NULL,
				default_tax_rate REAL,
				sort_order INTEGER NOT NULL
			)`)
			if err != nil {
				return fmt.Errorf("failed to create account_categories: %w", err)
			}

			stmt, err := tx.Prepare(`INSERT OR IGNORE INTO account_categories
				(id, name, ledger_type, keywords, default_tax_rate, sort_order)
				VALUES (?, ?, ?, ?, ?, ?)`)
			if err != nil {
				return fmt.Errorf("failed to prepare seed statement: %w", err)
			}
			defer func() { _ = stmt.Close() }()

			for i, cat := range coa.DefaultChart() {
				var rate any
				if cat.HasTaxRate {
					rate = cat.DefaultTaxRate
				}
				keywords := encodeKeywords(cat.Keywords)
				if _, err := stmt.Exec(cat.ID, cat.Name, string(cat.Type), keywords, rate, i); err != nil {
					return fmt.Errorf("failed to seed category %s: %w", cat.ID, err)
				}
			}
			return nil
		},
	},
}

// Migrate applies all pending migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		slog.Info("Applying migration",
			"version", migration.Version,
			"description", migration.Description)

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration transaction: %w", err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to set schema version: %w", err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the database's current schema version.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
