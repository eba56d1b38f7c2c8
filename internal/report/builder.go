// Package report builds investor-facing period metrics from stored data.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/munimhq/munim/internal/model"
	"github.com/munimhq/munim/internal/service"
)

// Builder assembles investor reports from storage.
type Builder struct {
	storage service.Storage
	logger  *slog.Logger
}

// NewBuilder creates a report builder.
func NewBuilder(storage service.Storage, logger *slog.Logger) (*Builder, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{storage: storage, logger: logger}, nil
}

// Build computes period metrics for an investor update. Revenue counts
// credit transactions in the window; invoiced and collected totals come
// from invoices issued in it.
func (b *Builder) Build(ctx context.Context, companyID, companyName string, start, end time.Time) (*service.InvestorReport, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("invalid report window: end %s before start %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	report := &service.InvestorReport{
		CompanyName:        companyName,
		DateRange:          service.DateRange{Start: start, End: end},
		ExpensesByCategory: make(map[string]service.CategorySummary),
	}

	credits, err := b.storage.GetTransactions(ctx, service.TransactionFilter{
		StartDate: &start,
		EndDate:   &end,
		Type:      model.TypeCredit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	for _, txn := range credits {
		report.Revenue += txn.Amount
	}

	invoices, err := b.storage.GetInvoicesByPeriod(ctx, companyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoices: %w", err)
	}
	for _, inv := range invoices {
		report.InvoicedTotal += inv.TotalAmount
		if inv.Status == model.InvoicePaid {
			report.CollectedTotal += inv.TotalAmount
		}
	}

	periodEnd := end.Add(-time.Nanosecond)
	expenses, err := b.storage.GetExpenses(ctx, companyID, model.ExpenseFilter{
		DateFrom: &start,
		DateTo:   &periodEnd,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	for _, exp := range expenses {
		report.TotalExpenses += exp.Amount

		category := exp.Category
		if category == "" {
			category = "uncategorized"
		}
		summary := report.ExpensesByCategory[category]
		summary.Amount += exp.Amount
		summary.Count++
		report.ExpensesByCategory[category] = summary
	}

	report.NetBurn = report.TotalExpenses - report.Revenue
	if report.NetBurn < 0 {
		report.NetBurn = 0
	}

	returns, err := b.storage.GetGSTReturns(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load GST returns: %w", err)
	}
	for _, ret := range returns {
		if ret.Status != model.GSTDraft {
			continue
		}
		periodStart, _, err := model.PeriodRange(ret.Period)
		if err != nil {
			continue
		}
		if periodStart.Before(start) || !periodStart.Before(end) {
			continue
		}
		report.GSTPayable += ret.NetTaxPayable()
	}

	b.logger.Info("Built investor report",
		"company", companyName,
		"revenue", report.Revenue,
		"expenses", report.TotalExpenses,
		"net_burn", report.NetBurn)
	return report, nil
}
