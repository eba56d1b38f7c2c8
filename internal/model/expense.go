package model

import (
	"fmt"
	"time"
)

// ExpenseStatus tracks an expense through approval and payment.
type ExpenseStatus string

// Expense status constants.
const (
	ExpensePending  ExpenseStatus = "pending"
	ExpenseApproved ExpenseStatus = "approved"
	ExpensePaid     ExpenseStatus = "paid"
)

// RecurringFrequency is how often a recurring expense repeats.
type RecurringFrequency string

// Recurring frequency constants.
const (
	FrequencyMonthly   RecurringFrequency = "monthly"
	FrequencyQuarterly RecurringFrequency = "quarterly"
	FrequencyYearly    RecurringFrequency = "yearly"
)

// RecurringSchedule describes a repeating expense.
type RecurringSchedule struct {
	NextDueDate time.Time
	Frequency   RecurringFrequency
}

// Advance moves the schedule to the next due date.
func (r *RecurringSchedule) Advance() {
	switch r.Frequency {
	case FrequencyMonthly:
		r.NextDueDate = r.NextDueDate.AddDate(0, 1, 0)
	case FrequencyQuarterly:
		r.NextDueDate = r.NextDueDate.AddDate(0, 3, 0)
	case FrequencyYearly:
		r.NextDueDate = r.NextDueDate.AddDate(1, 0, 0)
	}
}

// Expense represents a business expense, possibly recurring.
type Expense struct {
	Date        time.Time
	ID          string
	Description string
	Category    string
	Vendor      string
	ReceiptURL  string
	CreatedBy   string
	CompanyID   string
	Status      ExpenseStatus
	Recurring   *RecurringSchedule
	Amount      float64
	TaxAmount   float64
}

// Validate ensures the expense has the minimum required fields.
func (e *Expense) Validate() error {
	if e.Amount <= 0 {
		return fmt.Errorf("expense amount must be positive")
	}
	if e.Description == "" {
		return fmt.Errorf("expense description is required")
	}
	return nil
}

// ExpenseFilter defines filtering options for expense queries.
type ExpenseFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Category string
	Status   ExpenseStatus
}
