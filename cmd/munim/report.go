package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/munimhq/munim/internal/cli"
	"github.com/munimhq/munim/internal/config"
	"github.com/munimhq/munim/internal/report"
	"github.com/munimhq/munim/internal/sheets"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build an investor update for a date range",
		Long: `Aggregate revenue, invoicing, expenses, burn, and GST liability into an
investor report. With --sheets the report is exported to Google Sheets.`,
		RunE: runReport,
	}

	cmd.Flags().String("start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().Bool("sheets", false, "Export the report to Google Sheets")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	startStr, _ := cmd.Flags().GetString("start")
	endStr, _ := cmd.Flags().GetString("end")
	toSheets, _ := cmd.Flags().GetBool("sheets")

	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return fmt.Errorf("invalid end date: %w", err)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	builder, err := report.NewBuilder(store, logger())
	if err != nil {
		return err
	}

	investorReport, err := builder.Build(ctx, companyID(), companyName(), start, end)
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf("%s — Investor Update (%s to %s)",
		investorReport.CompanyName,
		investorReport.DateRange.Start.Format("2006-01-02"),
		investorReport.DateRange.End.Format("2006-01-02"))))
	fmt.Printf("Revenue:         %s\n", cli.FormatAmount(investorReport.Revenue))
	fmt.Printf("Invoiced:        %s\n", cli.FormatAmount(investorReport.InvoicedTotal))
	fmt.Printf("Collected:       %s\n", cli.FormatAmount(investorReport.CollectedTotal))
	fmt.Printf("Total expenses:  %s\n", cli.FormatAmount(investorReport.TotalExpenses))
	fmt.Printf("Net burn:        %s\n", cli.FormatAmount(investorReport.NetBurn))
	fmt.Printf("GST payable:     %s\n", cli.FormatAmount(investorReport.GSTPayable))

	if len(investorReport.ExpensesByCategory) > 0 {
		fmt.Println("\nExpenses by category:")
		categories := make([]string, 0, len(investorReport.ExpensesByCategory))
		for category := range investorReport.ExpensesByCategory {
			categories = append(categories, category)
		}
		sort.Strings(categories)
		for _, category := range categories {
			summary := investorReport.ExpensesByCategory[category]
			fmt.Printf("  %-28s %s\n", category, cli.FormatAmount(summary.Amount))
		}
	}

	if !toSheets {
		return nil
	}

	sheetsConfig, err := config.LoadSheetsConfig()
	if err != nil {
		return fmt.Errorf("sheets export not configured: %w", err)
	}
	writer, err := sheets.NewWriter(ctx, *sheetsConfig, logger())
	if err != nil {
		return err
	}
	if err := writer.Write(ctx, investorReport); err != nil {
		return fmt.Errorf("failed to export report: %w", err)
	}

	fmt.Println(cli.FormatSuccess("Exported report to Google Sheets"))
	return nil
}
