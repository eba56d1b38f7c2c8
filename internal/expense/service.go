// Package expense records, approves and reports on business expenses.
package expense

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/munimhq/munim/internal/coa"
	"github.com/munimhq/munim/internal/common"
	"github.com/munimhq/munim/internal/model"
	"github.com/munimhq/munim/internal/service"
)

// Service manages expenses, auto-categorizing against the chart of accounts.
type Service struct {
	storage    service.Storage
	classifier *coa.Classifier
	logger     *slog.Logger
}

// NewService creates an expense service.
func NewService(storage service.Storage, classifier *coa.Classifier, logger *slog.Logger) (*Service, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if classifier == nil {
		classifier = coa.NewClassifier(coa.DefaultChart())
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{storage: storage, classifier: classifier, logger: logger}, nil
}

// Create records a new pending expense. When no category is given, one is
// inferred from the description and vendor; the tax amount defaults from
// the category's rate when not supplied.
func (s *Service) Create(ctx context.Context, expense model.Expense) (*model.Expense, error) {
	if err := expense.Validate(); err != nil {
		return nil, common.NewUserError("Expense is incomplete", err)
	}

	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	expense.Status = model.ExpensePending

	if expense.Category == "" {
		if category := s.classifier.Classify(expense.Description, expense.Vendor); category != nil {
			expense.Category = category.ID
			s.logger.Info("Auto-categorized expense",
				"expense_id", expense.ID,
				"category", category.ID)
		}
	}
	if expense.TaxAmount == 0 {
		expense.TaxAmount = expense.Amount * s.classifier.TaxRate(expense.Category) / 100
	}

	if err := s.storage.SaveExpense(ctx, &expense); err != nil {
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}
	return &expense, nil
}

// List returns expenses matching the filter.
func (s *Service) List(ctx context.Context, companyID string, filter model.ExpenseFilter) ([]model.Expense, error) {
	return s.storage.GetExpenses(ctx, companyID, filter)
}

// Approve moves a pending expense to approved.
func (s *Service) Approve(ctx context.Context, expenseID string) (*model.Expense, error) {
	expense, err := s.storage.GetExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.Status != model.ExpensePending {
		return nil, fmt.Errorf("expense %s is %s, only pending expenses can be approved", expenseID, expense.Status)
	}
	if err := s.storage.UpdateExpenseStatus(ctx, expenseID, model.ExpenseApproved); err != nil {
		return nil, fmt.Errorf("failed to approve expense: %w", err)
	}
	expense.Status = model.ExpenseApproved
	return expense, nil
}

// Report aggregates expenses for a YYYY-MM period.
func (s *Service) Report(ctx context.Context, companyID, period string) (*service.ExpenseReport, error) {
	start, end, err := model.PeriodRange(period)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidPeriod, err)
	}

	// The storage filter is inclusive on both ends; the period end is the
	// first instant of the next month.
	periodEnd := end.Add(-time.Nanosecond)
	expenses, err := s.storage.GetExpenses(ctx, companyID, model.ExpenseFilter{
		DateFrom: &start,
		DateTo:   &periodEnd,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	report := &service.ExpenseReport{
		Period:     period,
		ByCategory: make(map[string]service.CategorySummary),
	}
	for _, exp := range expenses {
		report.TotalExpenses += exp.Amount

		category := exp.Category
		if category == "" {
			category = "uncategorized"
		}
		summary := report.ByCategory[category]
		summary.Amount += exp.Amount
		summary.Count++
		report.ByCategory[category] = summary

		if exp.Recurring != nil {
			report.RecurringExpenses += exp.Amount
		}
		if exp.Status == model.ExpensePending {
			report.PendingApprovals++
		}
	}
	return report, nil
}
