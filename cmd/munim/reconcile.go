package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/munimhq/munim/internal/cli"
	"github.com/munimhq/munim/internal/model"
	"github.com/munimhq/munim/internal/recon"
	"github.com/munimhq/munim/internal/service"
)

func reconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Match documents against bank transactions",
		Long: `Run a reconciliation pass over stored documents and bank transactions.
Suggested matches pair sent invoices with incoming credits; anomalies flag
unmatched and duplicate transactions.`,
		RunE: runReconcile,
	}

	cmd.Flags().Bool("apply", false, "Mark auto-apply matches as paid")

	return cmd
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	apply, _ := cmd.Flags().GetBool("apply")
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	docs, err := store.GetDocuments(ctx, model.DocumentFilter{})
	if err != nil {
		return err
	}
	txns, err := store.GetTransactions(ctx, service.TransactionFilter{})
	if err != nil {
		return err
	}

	engine := recon.NewEngine()
	result := engine.FindMatches(docs, txns)

	fmt.Println(cli.FormatTitle("Reconciliation"))

	if len(result.Matches) == 0 {
		fmt.Println(cli.FormatInfo("No matches found"))
	}
	applied := 0
	for _, match := range result.Matches {
		lines := []string{
			fmt.Sprintf("%s ↔ %s", match.Source.Title, match.Target.Description),
			"Amount: " + cli.FormatAmount(match.Target.Amount),
			fmt.Sprintf("Confidence: %.0f%%", match.Confidence*100),
			match.Suggestion,
		}
		if entry := engine.JournalEntry(match); entry != nil {
			for _, line := range entry.Debits {
				lines = append(lines, fmt.Sprintf("  Dr %-22s %12.2f", line.Account, line.Amount))
			}
			for _, line := range entry.Credits {
				lines = append(lines, fmt.Sprintf("  Cr %-22s %12.2f", line.Account, line.Amount))
			}
		}
		fmt.Println(cli.RenderBox("Match", strings.Join(lines, "\n")))

		if apply && match.AutoApply {
			if err := store.UpdateDocumentStatus(ctx, match.Source.ID, model.StatusPaid); err != nil {
				return err
			}
			applied++
		}
	}

	for _, anomaly := range result.Anomalies {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("[%s] %s", anomaly.Severity, anomaly.Description)))
	}

	if apply {
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("Applied %d match(es)", applied)))
	}
	return nil
}
