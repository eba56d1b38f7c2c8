// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"time"
)

// DocumentType identifies the kind of financial document.
type DocumentType string

// Document type constants.
const (
	DocTypeInvoice    DocumentType = "Invoice"
	DocTypeVendorBill DocumentType = "Vendor Bill"
	DocTypeFinancial  DocumentType = "Financial Report"
	DocTypePayroll    DocumentType = "Payroll Document"
	DocTypeTaxFiling  DocumentType = "Tax Filing"
	DocTypeLegal      DocumentType = "Legal Document"
	DocTypeCompliance DocumentType = "Compliance Document"
	DocTypeInvestor   DocumentType = "Investor Report"
	DocTypeBanking    DocumentType = "Banking Document"
)

// DocumentCategory is the grouping key used for browsing documents.
type DocumentCategory string

// Document category constants.
const (
	CategoryInvoices    DocumentCategory = "invoices"
	CategoryVendorBills DocumentCategory = "vendor-bills"
	CategoryFinancial   DocumentCategory = "financial-reports"
	CategoryPayroll     DocumentCategory = "payroll-docs"
	CategoryTaxFilings  DocumentCategory = "tax-filings"
	CategoryLegal       DocumentCategory = "legal-compliance"
	CategoryInvestor    DocumentCategory = "investor-reports"
	CategoryBankingDocs DocumentCategory = "banking-documents"
)

// DocumentStatus tracks where a document is in its lifecycle. Transitions are
// externally triggered; no state machine is enforced here.
type DocumentStatus string

// Document status constants.
const (
	StatusDraft     DocumentStatus = "draft"
	StatusSent      DocumentStatus = "sent"
	StatusFiled     DocumentStatus = "filed"
	StatusPaid      DocumentStatus = "paid"
	StatusPending   DocumentStatus = "pending"
	StatusApproved  DocumentStatus = "approved"
	StatusRejected  DocumentStatus = "rejected"
	StatusOverdue   DocumentStatus = "overdue"
	StatusCompleted DocumentStatus = "completed"
)

// Document represents a stored financial document.
type Document struct {
	IssueDate    time.Time
	LastModified time.Time
	ID           string
	Title        string
	Type         DocumentType
	Category     DocumentCategory
	Entity       string // Counterparty name, if any
	Status       DocumentStatus
	CreatedBy    string
	FilePath     string
	Tags         []string
	Amount       float64
	HasAmount    bool
}

// CategoryForType maps a document type to its browsing category.
func CategoryForType(t DocumentType) DocumentCategory {
	switch t {
	case DocTypeInvoice:
		return CategoryInvoices
	case DocTypeVendorBill:
		return CategoryVendorBills
	case DocTypeFinancial:
		return CategoryFinancial
	case DocTypePayroll:
		return CategoryPayroll
	case DocTypeTaxFiling:
		return CategoryTaxFilings
	case DocTypeLegal, DocTypeCompliance:
		return CategoryLegal
	case DocTypeInvestor:
		return CategoryInvestor
	case DocTypeBanking:
		return CategoryBankingDocs
	default:
		return CategoryFinancial
	}
}

// Validate ensures the document has the minimum required fields.
func (d *Document) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("document ID is required")
	}
	if d.Title == "" {
		return fmt.Errorf("document title is required")
	}
	if d.Type == "" {
		return fmt.Errorf("document type is required")
	}
	return nil
}

// DocumentFilter defines filtering options for document queries.
type DocumentFilter struct {
	IssuedFrom *time.Time
	IssuedTo   *time.Time
	AmountMin  *float64
	AmountMax  *float64
	Type       DocumentType
	Status     DocumentStatus
	Category   DocumentCategory
	Entity     string
	Limit      int
	Offset     int
}
