// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/munimhq/munim/internal/model"
)

// TransactionFilter defines filtering options for bank transaction queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	AccountID string
	Type      model.TransactionType
	Limit     int
	Offset    int
}

// Storage defines the contract for the persistence layer.
type Storage interface {
	// Document operations
	SaveDocument(ctx context.Context, doc *model.Document) error
	GetDocumentByID(ctx context.Context, id string) (*model.Document, error)
	GetDocuments(ctx context.Context, filter model.DocumentFilter) ([]model.Document, error)
	UpdateDocumentStatus(ctx context.Context, id string, status model.DocumentStatus) error

	// Bank account operations
	SaveBankAccount(ctx context.Context, account *model.BankAccount) error
	GetBankAccounts(ctx context.Context, companyID string) ([]model.BankAccount, error)

	// Bank transaction operations
	SaveTransactions(ctx context.Context, transactions []model.BankTransaction) (int, error)
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.BankTransaction, error)
	GetTransactionByID(ctx context.Context, id string) (*model.BankTransaction, error)

	// Chart of accounts
	GetAccountCategories(ctx context.Context) ([]model.AccountCategory, error)
	GetAccountCategoryByID(ctx context.Context, id string) (*model.AccountCategory, error)

	// Invoice operations
	SaveInvoice(ctx context.Context, invoice *model.Invoice) error
	GetInvoiceByID(ctx context.Context, id string) (*model.Invoice, error)
	GetInvoices(ctx context.Context, companyID string) ([]model.Invoice, error)
	GetInvoicesByPeriod(ctx context.Context, companyID string, start, end time.Time) ([]model.Invoice, error)
	UpdateInvoiceStatus(ctx context.Context, id string, status model.InvoiceStatus) error
	NextInvoiceSequence(ctx context.Context, year int) (int, error)

	// Expense operations
	SaveExpense(ctx context.Context, expense *model.Expense) error
	GetExpenseByID(ctx context.Context, id string) (*model.Expense, error)
	GetExpenses(ctx context.Context, companyID string, filter model.ExpenseFilter) ([]model.Expense, error)
	UpdateExpenseStatus(ctx context.Context, id string, status model.ExpenseStatus) error

	// GST return operations
	SaveGSTReturn(ctx context.Context, ret *model.GSTReturn) error
	GetGSTReturnByID(ctx context.Context, id string) (*model.GSTReturn, error)
	GetGSTReturns(ctx context.Context, companyID string) ([]model.GSTReturn, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// BankFeed fetches transactions from an external banking source.
type BankFeed interface {
	GetTransactions(ctx context.Context, accountID string, startDate, endDate time.Time) ([]model.BankTransaction, error)
}

// TextExtractor produces raw text from an opaque document file. The parser
// downstream must not depend on how the text was produced.
type TextExtractor interface {
	ExtractText(ctx context.Context, filename string, data []byte) (string, error)
}

// FilingGateway submits GST returns to the tax portal.
type FilingGateway interface {
	FileReturn(ctx context.Context, ret *model.GSTReturn) (ackNumber string, err error)
}

// Mailer delivers invoices to clients.
type Mailer interface {
	SendInvoice(ctx context.Context, invoice *model.Invoice, recipient string) error
}

// AuthProvider is the authentication backend. The mock and real backends are
// selected by configuration, not by runtime environment checks.
type AuthProvider interface {
	SignUp(ctx context.Context, email, password, companyName string) (*model.User, error)
	SignIn(ctx context.Context, email, password string) (*model.User, error)
	SignOut(ctx context.Context) error
	CurrentUser(ctx context.Context) (*model.User, error)
}

// ReportWriter exports an investor report to an external destination.
type ReportWriter interface {
	Write(ctx context.Context, report *InvestorReport) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// CategorySummary contains aggregated statistics for a category.
type CategorySummary struct {
	Count  int
	Amount float64
}

// DateRange represents a time period with start and end dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ExpenseReport aggregates expenses for a period.
type ExpenseReport struct {
	Period            string
	ByCategory        map[string]CategorySummary
	TotalExpenses     float64
	RecurringExpenses float64
	PendingApprovals  int
}

// InvestorReport contains the period metrics shared with investors.
type InvestorReport struct {
	DateRange          DateRange
	CompanyName        string
	ExpensesByCategory map[string]CategorySummary
	Revenue            float64
	InvoicedTotal      float64
	CollectedTotal     float64
	TotalExpenses      float64
	NetBurn            float64
	GSTPayable         float64
}

// SyncSummary reports the outcome of a bank sync.
type SyncSummary struct {
	AccountID    string
	FetchedCount int
	SyncedCount  int
}
