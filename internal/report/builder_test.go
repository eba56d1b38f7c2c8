package report

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/munimhq/munim/internal/model"
	"github.com/munimhq/munim/internal/storage"
)

func createTestBuilder(t *testing.T) (*Builder, *storage.SQLiteStorage) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := storage.NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	builder, err := NewBuilder(store, slog.Default())
	require.NoError(t, err)
	return builder, store
}

func TestBuild(t *testing.T) {
	ctx := context.Background()
	builder, store := createTestBuilder(t)

	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	_, err := store.SaveTransactions(ctx, []model.BankTransaction{
		{ID: "t1", AccountID: "acct-1", Amount: 50000, Type: model.TypeCredit,
			Description: "Flipkart Invoice Payment", Date: jan.AddDate(0, 0, 14)},
		{ID: "t2", AccountID: "acct-1", Amount: 25000, Type: model.TypeDebit,
			Description: "AWS Infrastructure Bill", Date: jan.AddDate(0, 0, 9)},
		{ID: "t3", AccountID: "acct-1", Amount: 90000, Type: model.TypeCredit,
			Description: "February receipt", Date: feb.AddDate(0, 0, 4)},
	})
	require.NoError(t, err)

	paid := &model.Invoice{
		ID: "inv-paid", InvoiceNumber: "INV-2024-0001", ClientName: "Flipkart India",
		IssueDate: jan.AddDate(0, 0, 4), DueDate: feb,
		Items:  []model.InvoiceItem{{Description: "Services", Quantity: 1, Rate: 50000, TaxRate: 18}},
		Status: model.InvoicePaid, CompanyID: "company-1",
	}
	paid.ComputeTotals()
	require.NoError(t, store.SaveInvoice(ctx, paid))

	outstanding := &model.Invoice{
		ID: "inv-sent", InvoiceNumber: "INV-2024-0002", ClientName: "Acme Corp",
		IssueDate: jan.AddDate(0, 0, 20), DueDate: feb.AddDate(0, 0, 20),
		Items:  []model.InvoiceItem{{Description: "Services", Quantity: 1, Rate: 20000, TaxRate: 18}},
		Status: model.InvoiceSent, CompanyID: "company-1",
	}
	outstanding.ComputeTotals()
	require.NoError(t, store.SaveInvoice(ctx, outstanding))

	require.NoError(t, store.SaveExpense(ctx, &model.Expense{
		ID: "exp-1", Date: jan.AddDate(0, 0, 9), Description: "AWS hosting",
		Category: "expense-infrastructure", Amount: 25000, TaxAmount: 4500,
		Status: model.ExpensePending, CompanyID: "company-1",
	}))
	require.NoError(t, store.SaveExpense(ctx, &model.Expense{
		ID: "exp-2", Date: jan.AddDate(0, 0, 15), Description: "Office rent",
		Category: "expense-office", Amount: 40000,
		Status: model.ExpenseApproved, CompanyID: "company-1",
	}))

	require.NoError(t, store.SaveGSTReturn(ctx, &model.GSTReturn{
		ID: "ret-1", ReturnType: model.ReturnGSTR3B, Period: "2024-01",
		Status: model.GSTDraft, TotalTaxableValue: 70000, TotalTaxAmount: 12600,
		InputTaxCredit: 4500, CompanyID: "company-1",
	}))

	report, err := builder.Build(ctx, "company-1", "Demo Company Ltd", jan, feb)
	require.NoError(t, err)

	assert.Equal(t, "Demo Company Ltd", report.CompanyName)
	assert.InDelta(t, 50000.0, report.Revenue, 0.001)
	assert.InDelta(t, 82600.0, report.InvoicedTotal, 0.001)
	assert.InDelta(t, 59000.0, report.CollectedTotal, 0.001)
	assert.InDelta(t, 65000.0, report.TotalExpenses, 0.001)
	assert.InDelta(t, 15000.0, report.NetBurn, 0.001)
	assert.InDelta(t, 8100.0, report.GSTPayable, 0.001)

	infra := report.ExpensesByCategory["expense-infrastructure"]
	assert.Equal(t, 1, infra.Count)
	assert.InDelta(t, 25000.0, infra.Amount, 0.001)
}

func TestBuildEmptyPeriod(t *testing.T) {
	ctx := context.Background()
	builder, _ := createTestBuilder(t)

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	report, err := builder.Build(ctx, "company-1", "Demo Company Ltd", start, start.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Zero(t, report.Revenue)
	assert.Zero(t, report.TotalExpenses)
	assert.Zero(t, report.NetBurn)
	assert.Empty(t, report.ExpensesByCategory)
}

func TestBuildInvalidWindow(t *testing.T) {
	ctx := context.Background()
	builder, _ := createTestBuilder(t)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := builder.Build(ctx, "company-1", "Demo Company Ltd", start, start.AddDate(0, -1, 0))
	assert.Error(t, err)
}
