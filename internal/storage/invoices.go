package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/munimhq/munim/internal/common"
	"github.com/munimhq/munim/internal/model"
)

// SaveInvoice inserts or replaces an invoice. Line items are stored as JSON.
func (s *SQLiteStorage) SaveInvoice(ctx context.Context, invoice *model.Invoice) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if invoice == nil {
		return fmt.Errorf("%w: invoice", ErrNilParameter)
	}

	items, err := json.Marshal(invoice.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal invoice items: %w", err)
	}

	createdAt := invoice.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO invoices (
			id, invoice_number, client_name, client_email, client_address,
			client_gstin, issue_date, due_date, items, subtotal, tax_amount,
			total_amount, status, company_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		invoice.ID, invoice.InvoiceNumber, invoice.ClientName,
		nullString(invoice.ClientEmail), nullString(invoice.ClientAddress),
		nullString(invoice.ClientGSTIN), invoice.IssueDate, invoice.DueDate,
		string(items), invoice.Subtotal, invoice.TaxAmount, invoice.TotalAmount,
		string(invoice.Status), invoice.CompanyID, createdAt)
	if err != nil {
		return fmt.Errorf("failed to save invoice: %w", err)
	}
	return nil
}

// GetInvoiceByID returns a single invoice.
func (s *SQLiteStorage) GetInvoiceByID(ctx context.Context, id string) (*model.Invoice, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, invoiceSelect+" WHERE id = ?", id)
	invoice, err := scanInvoice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice: %w", err)
	}
	return invoice, nil
}

// GetInvoices returns all invoices for a company, newest first.
func (s *SQLiteStorage) GetInvoices(ctx context.Context, companyID string) ([]model.Invoice, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryInvoices(ctx, invoiceSelect+` WHERE company_id = ? ORDER BY issue_date DESC, id`, companyID)
}

// GetInvoicesByPeriod returns invoices issued within [start, end).
func (s *SQLiteStorage) GetInvoicesByPeriod(ctx context.Context, companyID string, start, end time.Time) ([]model.Invoice, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}
	return s.queryInvoices(ctx,
		invoiceSelect+` WHERE company_id = ? AND issue_date >= ? AND issue_date < ? ORDER BY issue_date, id`,
		companyID, start, end)
}

// UpdateInvoiceStatus transitions an invoice to a new status.
func (s *SQLiteStorage) UpdateInvoiceStatus(ctx context.Context, id string, status model.InvoiceStatus) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE invoices SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update invoice status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// NextInvoiceSequence atomically reserves the next invoice number for a year.
func (s *SQLiteStorage) NextInvoiceSequence(ctx context.Context, year int) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var seq int
	err = tx.QueryRowContext(ctx,
		`SELECT next_seq FROM invoice_sequences WHERE year = ?`, year).Scan(&seq)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		seq = 1
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO invoice_sequences (year, next_seq) VALUES (?, 2)`, year); err != nil {
			return 0, fmt.Errorf("failed to initialize invoice sequence: %w", err)
		}
	case err != nil:
		return 0, fmt.Errorf("failed to query invoice sequence: %w", err)
	default:
		if _, err := tx.ExecContext(ctx,
			`UPDATE invoice_sequences SET next_seq = next_seq + 1 WHERE year = ?`, year); err != nil {
			return 0, fmt.Errorf("failed to advance invoice sequence: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit invoice sequence: %w", err)
	}
	return seq, nil
}

const invoiceSelect = `
	SELECT id, invoice_number, client_name, client_email, client_address,
	       client_gstin, issue_date, due_date, items, subtotal, tax_amount,
	       total_amount, status, company_id, created_at
	FROM invoices`

func (s *SQLiteStorage) queryInvoices(ctx context.Context, query string, args ...any) ([]model.Invoice, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var invoices []model.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, *invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoices: %w", err)
	}
	return invoices, nil
}

func scanInvoice(row rowScanner) (*model.Invoice, error) {
	var invoice model.Invoice
	var email, address, gstin sql.NullString
	var items, status string

	err := row.Scan(&invoice.ID, &invoice.InvoiceNumber, &invoice.ClientName,
		&email, &address, &gstin, &invoice.IssueDate, &invoice.DueDate,
		&items, &invoice.Subtotal, &invoice.TaxAmount, &invoice.TotalAmount,
		&status, &invoice.CompanyID, &invoice.CreatedAt)
	if err != nil {
		return nil, err
	}

	invoice.ClientEmail = email.String
	invoice.ClientAddress = address.String
	invoice.ClientGSTIN = gstin.String
	invoice.Status = model.InvoiceStatus(status)
	if err := json.Unmarshal([]byte(items), &invoice.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal invoice items: %w", err)
	}
	return &invoice, nil
}
