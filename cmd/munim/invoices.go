package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/munimhq/munim/internal/cli"
	"github.com/munimhq/munim/internal/invoice"
	"github.com/munimhq/munim/internal/model"
	"github.com/munimhq/munim/internal/storage"
)

func invoicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoices",
		Short: "Create and manage GST invoices",
	}

	cmd.AddCommand(invoicesCreateCmd())
	cmd.AddCommand(invoicesListCmd())
	cmd.AddCommand(invoicesSendCmd())
	cmd.AddCommand(invoicesPayCmd())
	cmd.AddCommand(invoicesSweepCmd())

	return cmd
}

func withInvoiceService(cmd *cobra.Command, fn func(svc *invoice.Service, store *storage.SQLiteStorage) error) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	svc, err := invoice.NewService(store, nil, logger())
	if err != nil {
		return err
	}
	return fn(svc, store)
}

func invoicesCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a draft invoice",
		RunE:  runInvoicesCreate,
	}

	cmd.Flags().String("client", "", "Client name")
	cmd.Flags().String("email", "", "Client email")
	cmd.Flags().String("gstin", "", "Client GSTIN")
	cmd.Flags().String("item", "", "Line item description")
	cmd.Flags().Float64("qty", 1, "Quantity")
	cmd.Flags().Float64("rate", 0, "Rate per unit")
	cmd.Flags().Float64("tax", 18, "GST rate percent")
	_ = cmd.MarkFlagRequired("client")
	_ = cmd.MarkFlagRequired("item")
	_ = cmd.MarkFlagRequired("rate")

	return cmd
}

func runInvoicesCreate(cmd *cobra.Command, _ []string) error {
	client, _ := cmd.Flags().GetString("client")
	email, _ := cmd.Flags().GetString("email")
	gstin, _ := cmd.Flags().GetString("gstin")
	item, _ := cmd.Flags().GetString("item")
	qty, _ := cmd.Flags().GetFloat64("qty")
	rate, _ := cmd.Flags().GetFloat64("rate")
	tax, _ := cmd.Flags().GetFloat64("tax")

	return withInvoiceService(cmd, func(svc *invoice.Service, _ *storage.SQLiteStorage) error {
		created, err := svc.Generate(cmd.Context(), model.Invoice{
			ClientName:  client,
			ClientEmail: email,
			ClientGSTIN: gstin,
			Items: []model.InvoiceItem{
				{Description: item, Quantity: qty, Rate: rate, TaxRate: tax},
			},
			CompanyID: companyID(),
		})
		if err != nil {
			return err
		}

		fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created %s for %s, total %s",
			created.InvoiceNumber, created.ClientName, cli.FormatAmount(created.TotalAmount))))
		return nil
	})
}

func invoicesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List invoices",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withInvoiceService(cmd, func(_ *invoice.Service, store *storage.SQLiteStorage) error {
				invoices, err := store.GetInvoices(cmd.Context(), companyID())
				if err != nil {
					return err
				}

				if len(invoices) == 0 {
					fmt.Println(cli.FormatInfo("No invoices"))
					return nil
				}

				fmt.Println(cli.FormatTitle("Invoices"))
				for _, inv := range invoices {
					fmt.Printf("  %-14s %-24s %-8s %s\n",
						inv.InvoiceNumber,
						inv.ClientName,
						inv.Status,
						cli.FormatAmount(inv.TotalAmount))
				}
				return nil
			})
		},
	}
}

func invoicesSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send [invoice-id]",
		Short: "Send a draft invoice to the client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withInvoiceService(cmd, func(svc *invoice.Service, _ *storage.SQLiteStorage) error {
				sent, err := svc.Send(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Println(cli.FormatSuccess("Sent " + sent.InvoiceNumber + " to " + sent.ClientEmail))
				return nil
			})
		},
	}
}

func invoicesPayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pay [invoice-id]",
		Short: "Record payment of an invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withInvoiceService(cmd, func(svc *invoice.Service, _ *storage.SQLiteStorage) error {
				paid, err := svc.MarkPaid(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Println(cli.FormatSuccess("Marked " + paid.InvoiceNumber + " paid"))
				return nil
			})
		},
	}
}

func invoicesSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep-overdue",
		Short: "Mark sent invoices past their due date overdue",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withInvoiceService(cmd, func(svc *invoice.Service, _ *storage.SQLiteStorage) error {
				overdue, err := svc.MarkOverdue(cmd.Context(), companyID())
				if err != nil {
					return err
				}
				if len(overdue) == 0 {
					fmt.Println(cli.FormatInfo("No overdue invoices"))
					return nil
				}
				for _, inv := range overdue {
					fmt.Println(cli.FormatWarning(fmt.Sprintf("%s overdue since %s",
						inv.InvoiceNumber, inv.DueDate.Format("2006-01-02"))))
				}
				return nil
			})
		},
	}
}
