package model

import (
	"fmt"
	"time"
)

// InvoiceStatus tracks an invoice through issue and payment.
type InvoiceStatus string

// Invoice status constants.
const (
	InvoiceDraft   InvoiceStatus = "draft"
	InvoiceSent    InvoiceStatus = "sent"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceOverdue InvoiceStatus = "overdue"
)

// InvoiceItem is a single billed line on an invoice.
type InvoiceItem struct {
	Description string
	Quantity    float64
	Rate        float64
	Amount      float64
	TaxRate     float64
}

// Invoice represents an outbound customer invoice.
type Invoice struct {
	IssueDate     time.Time
	DueDate       time.Time
	CreatedAt     time.Time
	ID            string
	InvoiceNumber string
	ClientName    string
	ClientEmail   string
	ClientAddress string
	ClientGSTIN   string
	CompanyID     string
	Status        InvoiceStatus
	Items         []InvoiceItem
	Subtotal      float64
	TaxAmount     float64
	TotalAmount   float64
}

// ComputeTotals derives subtotal, tax, and total from line items. Item
// amounts are recomputed from quantity and rate rather than trusted.
func (inv *Invoice) ComputeTotals() {
	var subtotal, tax float64
	for i := range inv.Items {
		item := &inv.Items[i]
		item.Amount = item.Quantity * item.Rate
		subtotal += item.Amount
		tax += item.Amount * item.TaxRate / 100
	}
	inv.Subtotal = subtotal
	inv.TaxAmount = tax
	inv.TotalAmount = subtotal + tax
}

// Validate ensures the invoice can be issued.
func (inv *Invoice) Validate() error {
	if inv.ClientName == "" {
		return fmt.Errorf("client name is required")
	}
	if len(inv.Items) == 0 {
		return fmt.Errorf("invoice must have at least one item")
	}
	for i, item := range inv.Items {
		if item.Quantity <= 0 {
			return fmt.Errorf("item %d: quantity must be positive", i+1)
		}
		if item.Rate < 0 {
			return fmt.Errorf("item %d: rate cannot be negative", i+1)
		}
	}
	if !inv.DueDate.IsZero() && inv.DueDate.Before(inv.IssueDate) {
		return fmt.Errorf("due date cannot precede issue date")
	}
	return nil
}

// AsDocument projects the invoice into the document catalog.
func (inv *Invoice) AsDocument() Document {
	return Document{
		ID:           inv.ID,
		Title:        inv.InvoiceNumber,
		Type:         DocTypeInvoice,
		Category:     CategoryInvoices,
		Entity:       inv.ClientName,
		IssueDate:    inv.IssueDate,
		Amount:       inv.TotalAmount,
		HasAmount:    true,
		Status:       DocumentStatus(inv.Status),
		LastModified: inv.CreatedAt,
	}
}
