package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/munimhq/munim/internal/cli"
	"github.com/munimhq/munim/internal/expense"
	"github.com/munimhq/munim/internal/model"
	"github.com/munimhq/munim/internal/storage"
)

func expensesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "Track and approve business expenses",
	}

	cmd.AddCommand(expensesAddCmd())
	cmd.AddCommand(expensesListCmd())
	cmd.AddCommand(expensesReviewCmd())
	cmd.AddCommand(expensesReportCmd())

	return cmd
}

func withExpenseService(cmd *cobra.Command, fn func(svc *expense.Service, store *storage.SQLiteStorage) error) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	svc, err := expense.NewService(store, nil, logger())
	if err != nil {
		return err
	}
	return fn(svc, store)
}

func expensesAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense",
		RunE:  runExpensesAdd,
	}

	cmd.Flags().String("description", "", "What the expense was for")
	cmd.Flags().String("vendor", "", "Vendor name")
	cmd.Flags().Float64("amount", 0, "Amount in rupees")
	cmd.Flags().String("category", "", "Ledger category (auto-detected when empty)")
	cmd.Flags().String("date", "", "Expense date (YYYY-MM-DD, default today)")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func runExpensesAdd(cmd *cobra.Command, _ []string) error {
	description, _ := cmd.Flags().GetString("description")
	vendor, _ := cmd.Flags().GetString("vendor")
	amount, _ := cmd.Flags().GetFloat64("amount")
	category, _ := cmd.Flags().GetString("category")
	dateStr, _ := cmd.Flags().GetString("date")

	date := time.Now()
	if dateStr != "" {
		var err error
		if date, err = time.Parse("2006-01-02", dateStr); err != nil {
			return fmt.Errorf("invalid date: %w", err)
		}
	}

	return withExpenseService(cmd, func(svc *expense.Service, _ *storage.SQLiteStorage) error {
		created, err := svc.Create(cmd.Context(), model.Expense{
			Description: description,
			Vendor:      vendor,
			Amount:      amount,
			Category:    category,
			Date:        date,
			CompanyID:   companyID(),
		})
		if err != nil {
			return err
		}

		msg := fmt.Sprintf("Recorded expense %s", cli.FormatAmount(created.Amount))
		if created.Category != "" {
			msg += " in " + created.Category
		}
		fmt.Println(cli.FormatSuccess(msg))
		return nil
	})
}

func expensesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses",
		RunE:  runExpensesList,
	}

	cmd.Flags().String("status", "", "Filter by status (pending, approved, rejected)")
	cmd.Flags().String("category", "", "Filter by ledger category")

	return cmd
}

func runExpensesList(cmd *cobra.Command, _ []string) error {
	status, _ := cmd.Flags().GetString("status")
	category, _ := cmd.Flags().GetString("category")

	return withExpenseService(cmd, func(svc *expense.Service, _ *storage.SQLiteStorage) error {
		expenses, err := svc.List(cmd.Context(), companyID(), model.ExpenseFilter{
			Status:   model.ExpenseStatus(status),
			Category: category,
		})
		if err != nil {
			return err
		}

		if len(expenses) == 0 {
			fmt.Println(cli.FormatInfo("No expenses"))
			return nil
		}

		fmt.Println(cli.FormatTitle("Expenses"))
		for _, exp := range expenses {
			fmt.Printf("  %s  %-30s %-24s %-9s %s\n",
				exp.Date.Format("2006-01-02"),
				exp.Description,
				exp.Category,
				exp.Status,
				cli.FormatAmount(exp.Amount))
		}
		return nil
	})
}

func expensesReviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "review",
		Short: "Interactively approve pending expenses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withExpenseService(cmd, func(svc *expense.Service, _ *storage.SQLiteStorage) error {
				ctx := cmd.Context()

				pending, err := svc.List(ctx, companyID(), model.ExpenseFilter{
					Status: model.ExpensePending,
				})
				if err != nil {
					return err
				}

				reviewer, err := cli.NewExpenseReviewer(os.Stdin, os.Stdout, func(ctx context.Context, id string) error {
					_, approveErr := svc.Approve(ctx, id)
					return approveErr
				})
				if err != nil {
					return err
				}

				stats, err := reviewer.Review(ctx, pending)
				if err != nil {
					return err
				}
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Approved %d, skipped %d",
					stats.Approved, stats.Skipped)))
				return nil
			})
		},
	}
}

func expensesReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [period]",
		Short: "Monthly expense report (period YYYY-MM)",
		Args:  cobra.ExactArgs(1),
		RunE:  runExpensesReport,
	}
	return cmd
}

func runExpensesReport(cmd *cobra.Command, args []string) error {
	return withExpenseService(cmd, func(svc *expense.Service, _ *storage.SQLiteStorage) error {
		report, err := svc.Report(cmd.Context(), companyID(), args[0])
		if err != nil {
			return err
		}

		fmt.Println(cli.FormatTitle("Expense report " + report.Period))
		fmt.Printf("Total: %s  Recurring: %s  Pending approvals: %d\n",
			cli.FormatAmount(report.TotalExpenses),
			cli.FormatAmount(report.RecurringExpenses),
			report.PendingApprovals)

		categories := make([]string, 0, len(report.ByCategory))
		for category := range report.ByCategory {
			categories = append(categories, category)
		}
		sort.Strings(categories)

		for _, category := range categories {
			summary := report.ByCategory[category]
			fmt.Printf("  %-28s %3d txns  %s\n",
				category, summary.Count, cli.FormatAmount(summary.Amount))
		}
		return nil
	})
}
