package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/munimhq/munim/internal/cli"
	"github.com/munimhq/munim/internal/gst"
	"github.com/munimhq/munim/internal/storage"
)

func gstCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gst",
		Short: "GST compliance: validate GSTINs and manage returns",
	}

	cmd.AddCommand(gstValidateCmd())
	cmd.AddCommand(gstGenerateCmd())
	cmd.AddCommand(gstListCmd())
	cmd.AddCommand(gstFileCmd())

	return cmd
}

func withGSTService(cmd *cobra.Command, fn func(svc *gst.Service, store *storage.SQLiteStorage) error) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	svc, err := gst.NewService(store, gst.NewMockGateway(), logger())
	if err != nil {
		return err
	}
	return fn(svc, store)
}

func gstValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [gstin]",
		Short: "Validate a GSTIN",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			details, err := gst.ValidateGSTIN(args[0])
			if err != nil {
				fmt.Println(cli.FormatError("Invalid GSTIN"))
				return err
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Valid GSTIN (state %s, PAN %s)",
				details.StateCode, details.PAN)))
			return nil
		},
	}
}

func gstGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate [period]",
		Short: "Generate a draft GSTR-3B return for a period (YYYY-MM)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGSTService(cmd, func(svc *gst.Service, _ *storage.SQLiteStorage) error {
				ret, err := svc.GenerateGSTR3B(cmd.Context(), args[0], companyID())
				if err != nil {
					return err
				}

				fmt.Println(cli.FormatTitle("GSTR-3B " + ret.Period))
				fmt.Printf("Taxable value:    %s\n", cli.FormatAmount(ret.TotalTaxableValue))
				fmt.Printf("Output tax:       %s\n", cli.FormatAmount(ret.TotalTaxAmount))
				fmt.Printf("Input tax credit: %s\n", cli.FormatAmount(ret.InputTaxCredit))
				fmt.Printf("Net tax payable:  %s\n", cli.FormatAmount(ret.NetTaxPayable()))
				fmt.Println(cli.FormatInfo("Draft saved as " + ret.ID))
				return nil
			})
		},
	}
}

func gstListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List GST returns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withGSTService(cmd, func(svc *gst.Service, _ *storage.SQLiteStorage) error {
				returns, err := svc.Returns(cmd.Context(), companyID())
				if err != nil {
					return err
				}

				if len(returns) == 0 {
					fmt.Println(cli.FormatInfo("No returns"))
					return nil
				}

				fmt.Println(cli.FormatTitle("GST returns"))
				for _, ret := range returns {
					line := fmt.Sprintf("  %s  %-7s %-6s net %s",
						ret.ID, ret.Period, ret.Status, cli.FormatAmount(ret.NetTaxPayable()))
					if ret.AckNumber != "" {
						line += "  ack " + ret.AckNumber
					}
					fmt.Println(line)
				}
				return nil
			})
		},
	}
}

func gstFileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "file [return-id]",
		Short: "File a draft return with the GST portal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGSTService(cmd, func(svc *gst.Service, _ *storage.SQLiteStorage) error {
				filed, err := svc.FileReturn(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Filed %s for %s, acknowledgement %s",
					filed.ReturnType, filed.Period, filed.AckNumber)))
				return nil
			})
		},
	}
}
