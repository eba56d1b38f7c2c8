package invoice

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/munimhq/munim/internal/common"
	"github.com/munimhq/munim/internal/model"
	"github.com/munimhq/munim/internal/storage"
)

type recordingMailer struct {
	sent []string
	err  error
}

func (m *recordingMailer) SendInvoice(_ context.Context, invoice *model.Invoice, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, invoice.InvoiceNumber)
	return nil
}

func createTestService(t *testing.T, mailer *recordingMailer) (*Service, *storage.SQLiteStorage) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := storage.NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	var svc *Service
	if mailer != nil {
		svc, err = NewService(store, mailer, slog.Default())
	} else {
		svc, err = NewService(store, nil, slog.Default())
	}
	require.NoError(t, err)
	return svc, store
}

func draftInvoice() model.Invoice {
	return model.Invoice{
		ClientName:  "Flipkart India",
		ClientEmail: "ap@flipkart.example",
		IssueDate:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Items: []model.InvoiceItem{
			{Description: "Software development", Quantity: 100, Rate: 500, TaxRate: 18},
		},
		CompanyID: "company-1",
	}
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	svc, store := createTestService(t, nil)

	inv, err := svc.Generate(ctx, draftInvoice())
	require.NoError(t, err)
	assert.Equal(t, "INV-2024-0001", inv.InvoiceNumber)
	assert.Equal(t, model.InvoiceDraft, inv.Status)
	assert.InDelta(t, 50000.0, inv.Subtotal, 0.001)
	assert.InDelta(t, 9000.0, inv.TaxAmount, 0.001)
	assert.InDelta(t, 59000.0, inv.TotalAmount, 0.001)

	// Invoice numbers increment within the year.
	second, err := svc.Generate(ctx, draftInvoice())
	require.NoError(t, err)
	assert.Equal(t, "INV-2024-0002", second.InvoiceNumber)

	// And reset for a new year.
	next := draftInvoice()
	next.IssueDate = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	third, err := svc.Generate(ctx, next)
	require.NoError(t, err)
	assert.Equal(t, "INV-2025-0001", third.InvoiceNumber)

	// The invoice is browsable as a document.
	doc, err := store.GetDocumentByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DocTypeInvoice, doc.Type)
	assert.InDelta(t, 59000.0, doc.Amount, 0.001)
}

func TestGenerateRecomputesTotals(t *testing.T) {
	ctx := context.Background()
	svc, _ := createTestService(t, nil)

	inv := draftInvoice()
	// Client-supplied totals are not trusted.
	inv.Subtotal = 1
	inv.TaxAmount = 2
	inv.TotalAmount = 3

	got, err := svc.Generate(ctx, inv)
	require.NoError(t, err)
	assert.InDelta(t, 50000.0, got.Subtotal, 0.001)
	assert.InDelta(t, 59000.0, got.TotalAmount, 0.001)
}

func TestGenerateValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := createTestService(t, nil)

	inv := draftInvoice()
	inv.Items = nil
	_, err := svc.Generate(ctx, inv)
	require.Error(t, err)

	var userErr *common.UserError
	assert.ErrorAs(t, err, &userErr)
}

func TestSend(t *testing.T) {
	ctx := context.Background()
	mailer := &recordingMailer{}
	svc, _ := createTestService(t, mailer)

	inv, err := svc.Generate(ctx, draftInvoice())
	require.NoError(t, err)

	sent, err := svc.Send(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceSent, sent.Status)
	assert.Equal(t, []string{"INV-2024-0001"}, mailer.sent)

	// Sending twice fails.
	_, err = svc.Send(ctx, inv.ID)
	assert.Error(t, err)
}

func TestSendMailerFailure(t *testing.T) {
	ctx := context.Background()
	mailer := &recordingMailer{err: errors.New("smtp down")}
	svc, store := createTestService(t, mailer)

	inv, err := svc.Generate(ctx, draftInvoice())
	require.NoError(t, err)

	_, err = svc.Send(ctx, inv.ID)
	require.Error(t, err)

	// Still a draft after a failed send.
	got, err := store.GetInvoiceByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceDraft, got.Status)
}

func TestMarkPaid(t *testing.T) {
	ctx := context.Background()
	svc, store := createTestService(t, nil)

	inv, err := svc.Generate(ctx, draftInvoice())
	require.NoError(t, err)

	// Drafts cannot be paid.
	_, err = svc.MarkPaid(ctx, inv.ID)
	require.Error(t, err)

	_, err = svc.Send(ctx, inv.ID)
	require.NoError(t, err)

	paid, err := svc.MarkPaid(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoicePaid, paid.Status)

	doc, err := store.GetDocumentByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, doc.Status)
}

func TestMarkOverdue(t *testing.T) {
	ctx := context.Background()
	svc, _ := createTestService(t, nil)

	past := draftInvoice()
	past.IssueDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	past.DueDate = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	overdueInv, err := svc.Generate(ctx, past)
	require.NoError(t, err)
	_, err = svc.Send(ctx, overdueInv.ID)
	require.NoError(t, err)

	future := draftInvoice()
	future.DueDate = time.Now().UTC().AddDate(0, 1, 0)
	currentInv, err := svc.Generate(ctx, future)
	require.NoError(t, err)
	_, err = svc.Send(ctx, currentInv.ID)
	require.NoError(t, err)

	overdue, err := svc.MarkOverdue(ctx, "company-1")
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, overdueInv.ID, overdue[0].ID)
	assert.Equal(t, model.InvoiceOverdue, overdue[0].Status)

	// Overdue invoices can still be paid.
	paid, err := svc.MarkPaid(ctx, overdueInv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoicePaid, paid.Status)
}

func TestSendNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := createTestService(t, nil)

	_, err := svc.Send(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
