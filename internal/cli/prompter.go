package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/munimhq/munim/internal/model"
)

// ReviewStats summarizes an interactive expense review run.
type ReviewStats struct {
	Approved int
	Skipped  int
}

// ExpenseReviewer walks pending expenses one at a time and asks the operator
// to approve or skip each.
type ExpenseReviewer struct {
	reader  *NonBlockingReader
	writer  io.Writer
	approve func(ctx context.Context, expenseID string) error
}

// NewExpenseReviewer creates a reviewer reading from in and writing to out.
// Nil in/out default to stdin/stdout.
func NewExpenseReviewer(in io.Reader, out io.Writer, approve func(ctx context.Context, expenseID string) error) (*ExpenseReviewer, error) {
	if approve == nil {
		return nil, fmt.Errorf("approve callback is required")
	}
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &ExpenseReviewer{
		reader:  NewNonBlockingReader(in),
		writer:  out,
		approve: approve,
	}, nil
}

// Review prompts for each expense in order. Quitting or exhausting input ends
// the run early without error; remaining expenses count as skipped.
func (r *ExpenseReviewer) Review(ctx context.Context, expenses []model.Expense) (ReviewStats, error) {
	stats := ReviewStats{}
	if len(expenses) == 0 {
		fmt.Fprintln(r.writer, FormatInfo("No pending expenses to review"))
		return stats, nil
	}

	bar := NewProgressBar(len(expenses), r.writer, "Reviewing expenses...")

	for i, expense := range expenses {
		fmt.Fprintln(r.writer)
		fmt.Fprintln(r.writer, r.renderExpense(expense, i+1, len(expenses)))

		action, err := r.promptAction(ctx)
		if err != nil {
			if errors.Is(err, ErrInputCancelled) || errors.Is(err, io.EOF) {
				stats.Skipped += len(expenses) - i
				return stats, nil
			}
			return stats, err
		}

		switch action {
		case "a":
			if err := r.approve(ctx, expense.ID); err != nil {
				fmt.Fprintln(r.writer, FormatError("Failed to approve: "+err.Error()))
				stats.Skipped++
			} else {
				fmt.Fprintln(r.writer, FormatSuccess("Approved"))
				stats.Approved++
			}
		case "q":
			stats.Skipped += len(expenses) - i
			return stats, nil
		default:
			stats.Skipped++
		}

		if err := bar.Add(1); err != nil {
			return stats, err
		}
	}

	return stats, nil
}

func (r *ExpenseReviewer) renderExpense(expense model.Expense, index, total int) string {
	lines := []string{
		BoldStyle.Render(expense.Description),
		SubtleStyle.Render(expense.Vendor) + "  " + expense.Date.Format("2006-01-02"),
		"Amount: " + FormatAmount(expense.Amount),
	}
	if expense.Category != "" {
		lines = append(lines, "Category: "+InfoStyle.Render(expense.Category))
	}
	if expense.Recurring != nil {
		lines = append(lines, WarningStyle.Render("Recurring: "+string(expense.Recurring.Frequency)))
	}

	title := fmt.Sprintf("Expense %d of %d", index, total)
	return RenderBox(title, strings.Join(lines, "\n"))
}

func (r *ExpenseReviewer) promptAction(ctx context.Context) (string, error) {
	fmt.Fprint(r.writer, FormatPrompt("[a]pprove  [s]kip  [q]uit"))
	line, err := r.reader.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(line)), nil
}
