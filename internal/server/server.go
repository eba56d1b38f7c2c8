// Package server provides the HTTP API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/munimhq/munim/internal/auth"
	"github.com/munimhq/munim/internal/bank"
	"github.com/munimhq/munim/internal/coa"
	"github.com/munimhq/munim/internal/expense"
	"github.com/munimhq/munim/internal/gst"
	"github.com/munimhq/munim/internal/invoice"
	"github.com/munimhq/munim/internal/ocr"
	"github.com/munimhq/munim/internal/recon"
	"github.com/munimhq/munim/internal/report"
	"github.com/munimhq/munim/internal/service"
)

// Config holds the HTTP server settings.
type Config struct {
	Host            string
	Port            int
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	CompanyID       string
	CompanyName     string
}

// DefaultServerConfig returns sensible defaults for local use.
func DefaultServerConfig() Config {
	return Config{
		Host:            "127.0.0.1",
		Port:            8484,
		RequestTimeout:  60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		CompanyID:       "default",
		CompanyName:     "My Company",
	}
}

// Deps bundles the services the API exposes.
type Deps struct {
	Storage    service.Storage
	Processor  *ocr.Processor
	Classifier *coa.Classifier
	Recon      *recon.Engine
	Syncer     *bank.Syncer
	GST        *gst.Service
	Invoices   *invoice.Service
	Expenses   *expense.Service
	Reports    *report.Builder
	Sessions   *auth.SessionManager
}

// Server is the HTTP API server.
type Server struct {
	deps    Deps
	config  Config
	logger  *slog.Logger
	metrics *Metrics
	server  *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(deps Deps, config Config, logger *slog.Logger) (*Server, error) {
	if deps.Storage == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		deps:    deps,
		config:  config,
		logger:  logger,
		metrics: NewMetrics(),
	}, nil
}

// Router builds the chi router with middleware and all API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.config.RequestTimeout))
	r.Use(s.logRequests)
	r.Use(s.metrics.Middleware)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics",
		promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/signup", s.handleSignUp)
		r.Post("/auth/signin", s.handleSignIn)
		r.Post("/auth/signout", s.handleSignOut)
		r.Get("/auth/me", s.handleCurrentUser)

		r.Post("/documents", s.handleUploadDocument)
		r.Get("/documents", s.handleListDocuments)
		r.Get("/documents/{id}", s.handleGetDocument)

		r.Get("/categories", s.handleListCategories)
		r.Get("/categories/classify", s.handleClassify)

		r.Post("/bank/accounts", s.handleConnectAccount)
		r.Get("/bank/accounts", s.handleListAccounts)
		r.Post("/bank/sync", s.handleSync)
		r.Get("/transactions", s.handleListTransactions)

		r.Post("/reconcile", s.handleReconcile)

		r.Post("/invoices", s.handleCreateInvoice)
		r.Get("/invoices", s.handleListInvoices)
		r.Post("/invoices/{id}/send", s.handleSendInvoice)
		r.Post("/invoices/{id}/pay", s.handlePayInvoice)

		r.Post("/expenses", s.handleCreateExpense)
		r.Get("/expenses", s.handleListExpenses)
		r.Post("/expenses/{id}/approve", s.handleApproveExpense)
		r.Get("/expenses/report", s.handleExpenseReport)

		r.Get("/gst/validate", s.handleValidateGSTIN)
		r.Post("/gst/returns", s.handleGenerateReturn)
		r.Get("/gst/returns", s.handleListReturns)
		r.Post("/gst/returns/{id}/file", s.handleFileReturn)

		r.Get("/reports/investor", s.handleInvestorReport)
	})

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting API server", "addr", addr)
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// logRequests emits one structured log line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
