package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/munimhq/munim/internal/auth"
	"github.com/munimhq/munim/internal/bank"
	"github.com/munimhq/munim/internal/coa"
	"github.com/munimhq/munim/internal/expense"
	"github.com/munimhq/munim/internal/gst"
	"github.com/munimhq/munim/internal/invoice"
	"github.com/munimhq/munim/internal/ocr"
	"github.com/munimhq/munim/internal/recon"
	"github.com/munimhq/munim/internal/report"
	"github.com/munimhq/munim/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Start the HTTP API server exposing documents, banking, invoicing,
expenses, GST, and reporting endpoints, plus /health and /metrics.`,
		RunE: runServe,
	}

	cmd.Flags().String("host", "127.0.0.1", "Host to bind to")
	cmd.Flags().Int("port", 8484, "Port to listen on")
	_ = viper.BindPFlag("server.host", cmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := logger()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	syncer, err := bank.NewSyncer(store, bank.NewMockFeed(), log)
	if err != nil {
		return err
	}
	gstSvc, err := gst.NewService(store, gst.NewMockGateway(), log)
	if err != nil {
		return err
	}
	invoiceSvc, err := invoice.NewService(store, nil, log)
	if err != nil {
		return err
	}
	classifier := coa.NewDefaultClassifier()
	expenseSvc, err := expense.NewService(store, classifier, log)
	if err != nil {
		return err
	}
	reports, err := report.NewBuilder(store, log)
	if err != nil {
		return err
	}

	serverConfig := server.DefaultServerConfig()
	if v := viper.GetString("server.host"); v != "" {
		serverConfig.Host = v
	}
	if v := viper.GetInt("server.port"); v != 0 {
		serverConfig.Port = v
	}
	serverConfig.CompanyID = companyID()
	serverConfig.CompanyName = companyName()

	srv, err := server.NewServer(server.Deps{
		Storage:    store,
		Processor:  ocr.NewProcessor(ocr.NewDefaultExtractor()),
		Classifier: classifier,
		Recon:      recon.NewEngine(),
		Syncer:     syncer,
		GST:        gstSvc,
		Invoices:   invoiceSvc,
		Expenses:   expenseSvc,
		Reports:    reports,
		Sessions:   auth.NewSessionManager(auth.NewMockProvider()),
	}, serverConfig, log)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		if serveErr := srv.Start(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errCh <- serveErr
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
	defer stopCancel()
	return srv.Stop(stopCtx)
}
