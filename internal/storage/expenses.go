package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/munimhq/munim/internal/common"
	"github.com/munimhq/munim/internal/model"
)

// SaveExpense inserts or replaces an expense.
func (s *SQLiteStorage) SaveExpense(ctx context.Context, expense *model.Expense) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if expense == nil {
		return fmt.Errorf("%w: expense", ErrNilParameter)
	}
	if err := expense.Validate(); err != nil {
		return fmt.Errorf("invalid expense: %w", err)
	}

	var frequency, nextDue any
	if expense.Recurring != nil {
		frequency = string(expense.Recurring.Frequency)
		nextDue = expense.Recurring.NextDueDate
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO expenses (
			id, amount, description, category, vendor, date, receipt_url,
			tax_amount, status, recurring_frequency, recurring_next_due,
			created_by, company_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Amount, expense.Description,
		nullString(expense.Category), nullString(expense.Vendor), expense.Date,
		nullString(expense.ReceiptURL), expense.TaxAmount, string(expense.Status),
		frequency, nextDue, nullString(expense.CreatedBy), expense.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to save expense: %w", err)
	}
	return nil
}

// GetExpenseByID returns a single expense.
func (s *SQLiteStorage) GetExpenseByID(ctx context.Context, id string) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, expenseSelect+" WHERE id = ?", id)
	expense, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query expense: %w", err)
	}
	return expense, nil
}

// GetExpenses returns a company's expenses matching the filter, newest first.
func (s *SQLiteStorage) GetExpenses(ctx context.Context, companyID string, filter model.ExpenseFilter) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := expenseSelect + " WHERE company_id = ?"
	args := []any{companyID}

	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, filter.Category)
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	}
	if filter.DateFrom != nil {
		query += " AND date >= ?"
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query += " AND date <= ?"
		args = append(args, *filter.DateTo)
	}
	query += " ORDER BY date DESC, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var expenses []model.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, *expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}
	return expenses, nil
}

// UpdateExpenseStatus transitions an expense to a new status.
func (s *SQLiteStorage) UpdateExpenseStatus(ctx context.Context, id string, status model.ExpenseStatus) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update expense status: %w", err)
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

const expenseSelect = `
	SELECT id, amount, description, category, vendor, date, receipt_url,
	       tax_amount, status, recurring_frequency, recurring_next_due,
	       created_by, company_id
	FROM expenses`

func scanExpense(row rowScanner) (*model.Expense, error) {
	var expense model.Expense
	var category, vendor, receiptURL, createdBy, frequency sql.NullString
	var nextDue sql.NullTime
	var status string

	err := row.Scan(&expense.ID, &expense.Amount, &expense.Description,
		&category, &vendor, &expense.Date, &receiptURL, &expense.TaxAmount,
		&status, &frequency, &nextDue, &createdBy, &expense.CompanyID)
	if err != nil {
		return nil, err
	}

	expense.Category = category.String
	expense.Vendor = vendor.String
	expense.ReceiptURL = receiptURL.String
	expense.CreatedBy = createdBy.String
	expense.Status = model.ExpenseStatus(status)
	if frequency.Valid {
		expense.Recurring = &model.RecurringSchedule{
			Frequency:   model.RecurringFrequency(frequency.String),
			NextDueDate: nextDue.Time,
		}
	}
	return &expense, nil
}
