// Package ocr turns uploaded document files into structured invoice data.
// Extraction (opaque binary in, text out) and parsing (text in, fields out)
// are separate stages so the parser never depends on how text was produced.
package ocr

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/munimhq/munim/internal/service"
)

// RoutingExtractor picks an extraction backend by file extension: PDFs go
// through the PDF text layer, everything else through the fallback.
type RoutingExtractor struct {
	pdf      service.TextExtractor
	fallback service.TextExtractor
}

// NewDefaultExtractor routes PDF uploads to the PDF extractor and all other
// files to the stub.
func NewDefaultExtractor() *RoutingExtractor {
	return &RoutingExtractor{
		pdf:      NewPDFExtractor(),
		fallback: NewStubExtractor(),
	}
}

// ExtractText dispatches to the backend for the file's extension.
func (e *RoutingExtractor) ExtractText(ctx context.Context, filename string, data []byte) (string, error) {
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return e.pdf.ExtractText(ctx, filename, data)
	}
	return e.fallback.ExtractText(ctx, filename, data)
}

// StubExtractor fabricates plausible OCR text from filename cues. It stands
// in for a real OCR backend and keeps upload flows testable offline.
type StubExtractor struct{}

// NewStubExtractor creates a stub text extractor.
func NewStubExtractor() *StubExtractor {
	return &StubExtractor{}
}

// ExtractText returns canned invoice, bill, or receipt text depending on the
// filename. The file contents are ignored.
func (e *StubExtractor) ExtractText(_ context.Context, filename string, _ []byte) (string, error) {
	name := strings.ToLower(filename)

	switch {
	case strings.Contains(name, "invoice"):
		return `INVOICE
Invoice No: INV-2024-001
Date: 2024-01-15
Bill To: Flipkart India Pvt Ltd
GSTIN: 29AABCI9603R1ZM

Item Description    Qty   Rate    Amount
Software License    1     50000   50000

Total Amount: ₹50,000
Tax: ₹9,000
Grand Total: ₹59,000`, nil
	case strings.Contains(name, "bill"), strings.Contains(name, "expense"):
		return `BILL
Bill No: BILL-AWS-001
Date: 2024-01-05
From: Amazon Web Services
GSTIN: 12AABCA1234L1Z5

AWS Infrastructure Services
Amount: ₹25,000
Tax: ₹4,500
Total: ₹29,500`, nil
	default:
		return `RECEIPT
Date: 2024-01-10
Amount: ₹1,200
Merchant: Local Vendor`, nil
	}
}
