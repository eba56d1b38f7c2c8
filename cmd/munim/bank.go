package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/munimhq/munim/internal/bank"
	"github.com/munimhq/munim/internal/cli"
	"github.com/munimhq/munim/internal/model"
	"github.com/munimhq/munim/internal/ofx"
)

func bankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bank",
		Short: "Manage bank accounts and transaction feeds",
	}

	cmd.AddCommand(bankConnectCmd())
	cmd.AddCommand(bankAccountsCmd())
	cmd.AddCommand(bankSyncCmd())
	cmd.AddCommand(bankImportOFXCmd())

	return cmd
}

func bankConnectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Connect a bank account",
		RunE:  runBankConnect,
	}

	cmd.Flags().String("number", "", "Account number")
	cmd.Flags().String("ifsc", "", "IFSC code")
	cmd.Flags().String("bank", "", "Bank name")
	cmd.Flags().String("type", "current", "Account type (current, savings)")
	_ = cmd.MarkFlagRequired("number")
	_ = cmd.MarkFlagRequired("bank")

	return cmd
}

func runBankConnect(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	syncer, err := bank.NewSyncer(store, bank.NewMockFeed(), logger())
	if err != nil {
		return err
	}

	number, _ := cmd.Flags().GetString("number")
	ifsc, _ := cmd.Flags().GetString("ifsc")
	bankName, _ := cmd.Flags().GetString("bank")
	accountType, _ := cmd.Flags().GetString("type")

	account, err := syncer.ConnectAccount(ctx, model.BankAccount{
		AccountNumber: number,
		IFSCCode:      ifsc,
		BankName:      bankName,
		Type:          model.AccountType(accountType),
		CompanyID:     companyID(),
	})
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Connected %s account %s (%s)",
		account.BankName, account.AccountNumber, account.ID)))
	return nil
}

func bankAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List connected bank accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			accounts, err := store.GetBankAccounts(ctx, companyID())
			if err != nil {
				return err
			}

			if len(accounts) == 0 {
				fmt.Println(cli.FormatInfo("No bank accounts connected"))
				return nil
			}

			fmt.Println(cli.FormatTitle("Connected accounts"))
			for _, account := range accounts {
				fmt.Printf("  %s  %s %s (%s) balance %s\n",
					account.ID,
					account.BankName,
					account.AccountNumber,
					account.Type,
					cli.FormatAmount(account.Balance))
			}
			return nil
		},
	}
}

func bankSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync transactions from the bank feed",
		RunE:  runBankSync,
	}

	cmd.Flags().String("account", "", "Account ID to sync")
	cmd.Flags().String("start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "End date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func runBankSync(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	accountID, _ := cmd.Flags().GetString("account")
	startStr, _ := cmd.Flags().GetString("start")
	endStr, _ := cmd.Flags().GetString("end")

	end := time.Now()
	start := end.AddDate(0, -1, 0)
	var err error
	if startStr != "" {
		if start, err = time.Parse("2006-01-02", startStr); err != nil {
			return fmt.Errorf("invalid start date: %w", err)
		}
	}
	if endStr != "" {
		if end, err = time.Parse("2006-01-02", endStr); err != nil {
			return fmt.Errorf("invalid end date: %w", err)
		}
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	syncer, err := bank.NewSyncer(store, bank.NewMockFeed(), logger())
	if err != nil {
		return err
	}

	summary, err := syncer.Sync(ctx, accountID, start, end)
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Synced %d of %d fetched transactions",
		summary.SyncedCount, summary.FetchedCount)))
	return nil
}

func bankImportOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import bank transactions from OFX or QFX files exported from your bank's
netbanking portal.

Examples:
  # Import a single file
  munim bank import-ofx ~/Downloads/hdfc_jan_2024.ofx

  # Import all OFX files in a directory
  munim bank import-ofx ~/Downloads/*.ofx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")

	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	// Expand globs and collect all files
	var allFiles []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				allFiles = append(allFiles, pattern)
			} else {
				fmt.Println(cli.FormatWarning("No files found matching pattern " + pattern))
			}
		} else {
			allFiles = append(allFiles, matches...)
		}
	}

	if len(allFiles) == 0 {
		return fmt.Errorf("no files found to import")
	}

	interrupts := cli.NewInterruptHandler(os.Stdout)
	ctx := interrupts.HandleInterrupts(cmd.Context())

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Importing %d OFX file(s)", len(allFiles))))

	var all []model.BankTransaction
	seen := make(map[string]bool)
	parser := ofx.NewParser()
	bar := cli.NewProgressBar(len(allFiles), os.Stdout, "Parsing files...")

	for _, filePath := range allFiles {
		if ctx.Err() != nil {
			break
		}

		f, err := os.Open(filePath)
		if err != nil {
			fmt.Println(cli.FormatError(fmt.Sprintf("Failed to open %s: %v", filePath, err)))
			continue
		}

		transactions, err := parser.ParseFile(ctx, f)
		_ = f.Close()
		if err != nil {
			fmt.Println(cli.FormatError(fmt.Sprintf("Failed to parse %s: %v", filepath.Base(filePath), err)))
			continue
		}

		for _, tx := range transactions {
			if !seen[tx.Hash] {
				seen[tx.Hash] = true
				all = append(all, tx)
			}
		}

		if err := bar.Add(1); err != nil {
			return err
		}
	}

	if len(all) == 0 {
		fmt.Println(cli.FormatWarning("No transactions found in any file"))
		return nil
	}

	fmt.Printf("\nParsed %d unique transactions\n", len(all))

	if dryRun {
		fmt.Println(cli.FormatInfo("Dry run complete - no data saved"))
		return nil
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	saved, err := store.SaveTransactions(ctx, all)
	if err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d transactions (%d already present)",
		saved, len(all)-saved)))
	return nil
}
