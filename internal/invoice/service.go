// Package invoice generates, sends and tracks customer invoices.
package invoice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/munimhq/munim/internal/common"
	"github.com/munimhq/munim/internal/model"
	"github.com/munimhq/munim/internal/service"
)

// Service manages the invoice lifecycle.
type Service struct {
	storage service.Storage
	mailer  service.Mailer
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates an invoice service. The mailer may be nil, in which
// case sending falls back to a logged no-op.
func NewService(storage service.Storage, mailer service.Mailer, logger *slog.Logger) (*Service, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if mailer == nil {
		mailer = &LogMailer{Logger: logger}
	}
	return &Service{
		storage: storage,
		mailer:  mailer,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

// Generate creates a draft invoice. Totals are recomputed from line items
// and the invoice number is assigned from the per-year sequence.
func (s *Service) Generate(ctx context.Context, invoice model.Invoice) (*model.Invoice, error) {
	invoice.ComputeTotals()
	if err := invoice.Validate(); err != nil {
		return nil, common.NewUserError("Invoice is incomplete", err)
	}

	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	if invoice.IssueDate.IsZero() {
		invoice.IssueDate = s.now()
	}
	if invoice.DueDate.IsZero() {
		invoice.DueDate = invoice.IssueDate.AddDate(0, 1, 0)
	}
	invoice.Status = model.InvoiceDraft
	invoice.CreatedAt = s.now()

	seq, err := s.storage.NextInvoiceSequence(ctx, invoice.IssueDate.Year())
	if err != nil {
		return nil, fmt.Errorf("failed to reserve invoice number: %w", err)
	}
	invoice.InvoiceNumber = fmt.Sprintf("INV-%d-%04d", invoice.IssueDate.Year(), seq)

	if err := s.storage.SaveInvoice(ctx, &invoice); err != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	// Every invoice is also a document for browsing and reconciliation.
	doc := invoice.AsDocument()
	if err := s.storage.SaveDocument(ctx, &doc); err != nil {
		return nil, fmt.Errorf("failed to save invoice document: %w", err)
	}

	s.logger.Info("Generated invoice",
		"invoice_number", invoice.InvoiceNumber,
		"client", invoice.ClientName,
		"total", invoice.TotalAmount)
	return &invoice, nil
}

// Send delivers a draft invoice to the client and marks it sent.
func (s *Service) Send(ctx context.Context, invoiceID string) (*model.Invoice, error) {
	invoice, err := s.storage.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != model.InvoiceDraft {
		return nil, fmt.Errorf("invoice %s is %s, only drafts can be sent", invoice.InvoiceNumber, invoice.Status)
	}

	recipient := invoice.ClientEmail
	if err := s.mailer.SendInvoice(ctx, invoice, recipient); err != nil {
		return nil, fmt.Errorf("failed to send invoice %s: %w", invoice.InvoiceNumber, err)
	}

	if err := s.transition(ctx, invoice, model.InvoiceSent); err != nil {
		return nil, err
	}
	s.logger.Info("Sent invoice",
		"invoice_number", invoice.InvoiceNumber,
		"recipient", recipient)
	return invoice, nil
}

// MarkPaid records payment of a sent or overdue invoice.
func (s *Service) MarkPaid(ctx context.Context, invoiceID string) (*model.Invoice, error) {
	invoice, err := s.storage.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != model.InvoiceSent && invoice.Status != model.InvoiceOverdue {
		return nil, fmt.Errorf("invoice %s is %s, cannot mark paid", invoice.InvoiceNumber, invoice.Status)
	}
	if err := s.transition(ctx, invoice, model.InvoicePaid); err != nil {
		return nil, err
	}
	return invoice, nil
}

// MarkOverdue sweeps sent invoices past their due date into overdue status.
// Returns the invoices it transitioned.
func (s *Service) MarkOverdue(ctx context.Context, companyID string) ([]model.Invoice, error) {
	invoices, err := s.storage.GetInvoices(ctx, companyID)
	if err != nil {
		return nil, err
	}

	cutoff := s.now()
	var overdue []model.Invoice
	for i := range invoices {
		inv := &invoices[i]
		if inv.Status != model.InvoiceSent || !inv.DueDate.Before(cutoff) {
			continue
		}
		if err := s.transition(ctx, inv, model.InvoiceOverdue); err != nil {
			return nil, err
		}
		overdue = append(overdue, *inv)
	}

	if len(overdue) > 0 {
		s.logger.Info("Marked invoices overdue", "count", len(overdue))
	}
	return overdue, nil
}

// transition updates the invoice and its document projection together.
func (s *Service) transition(ctx context.Context, invoice *model.Invoice, status model.InvoiceStatus) error {
	if err := s.storage.UpdateInvoiceStatus(ctx, invoice.ID, status); err != nil {
		return fmt.Errorf("failed to update invoice status: %w", err)
	}
	invoice.Status = status
	if err := s.storage.UpdateDocumentStatus(ctx, invoice.ID, model.DocumentStatus(status)); err != nil {
		// The document projection may not exist for invoices imported
		// before document tracking.
		if !errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("failed to update invoice document: %w", err)
		}
	}
	return nil
}

// LogMailer is a Mailer that only logs. Used when no delivery backend is
// configured.
type LogMailer struct {
	Logger *slog.Logger
}

// SendInvoice logs the delivery instead of sending it.
func (m *LogMailer) SendInvoice(_ context.Context, invoice *model.Invoice, recipient string) error {
	logger := m.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Invoice delivery skipped: no mailer configured",
		"invoice_number", invoice.InvoiceNumber,
		"recipient", recipient)
	return nil
}

var _ service.Mailer = (*LogMailer)(nil)
