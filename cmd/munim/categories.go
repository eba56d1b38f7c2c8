package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/munimhq/munim/internal/cli"
	"github.com/munimhq/munim/internal/coa"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Show the chart of accounts",
	}

	cmd.AddCommand(categoriesListCmd())
	cmd.AddCommand(categoriesClassifyCmd())

	return cmd
}

func categoriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List ledger account categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			categories, err := store.GetAccountCategories(ctx)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatTitle("Chart of accounts"))
			for _, category := range categories {
				line := fmt.Sprintf("  %-24s %-8s %s",
					category.ID, category.Type, category.Name)
				if category.HasTaxRate {
					line += fmt.Sprintf("  (GST %.0f%%)", category.DefaultTaxRate)
				}
				fmt.Println(line)
				if len(category.Keywords) > 0 {
					fmt.Println("    " + cli.SubtleStyle.Render(strings.Join(category.Keywords, ", ")))
				}
			}
			return nil
		},
	}
}

func categoriesClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [description]",
		Short: "Classify a description against the chart of accounts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			description := strings.Join(args, " ")
			classifier := coa.NewDefaultClassifier()

			category := classifier.Classify(description, "")
			if category == nil {
				fmt.Println(cli.FormatWarning("No category matched"))
				return nil
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("%s (%s)", category.Name, category.ID)))
			return nil
		},
	}
}
