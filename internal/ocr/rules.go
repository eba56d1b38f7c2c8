package ocr

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/munimhq/munim/internal/model"
)

// fieldRule extracts one field from a line of OCR text. Rules run in a fixed
// priority order and each field keeps the first value found; later lines
// never overwrite an already-extracted field.
type fieldRule struct {
	apply func(line string, data *model.ExtractedData) bool
	name  string
}

var (
	amountPattern  = regexp.MustCompile(`(?i)(?:total|amount|grand total).*?₹?\s*([0-9][0-9,]*)`)
	gstinPattern   = regexp.MustCompile(`(?i)GSTIN[:\s]*([A-Z0-9]{15})`)
	datePattern    = regexp.MustCompile(`(?i)date[:\s]*(\d{4}-\d{2}-\d{2})`)
	invoicePattern = regexp.MustCompile(`(?i)(?:invoice no|bill no)[:\s]*([A-Z0-9-]+)`)
)

// fieldRules returns the extraction rules in priority order.
func fieldRules() []fieldRule {
	return []fieldRule{
		{name: "amount", apply: extractAmount},
		{name: "vendor", apply: extractVendor},
		{name: "gstin", apply: extractGSTIN},
		{name: "date", apply: extractDate},
		{name: "invoice_number", apply: extractInvoiceNumber},
	}
}

func extractAmount(line string, data *model.ExtractedData) bool {
	if data.HasAmount {
		return false
	}
	m := amountPattern.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	raw := strings.ReplaceAll(m[1], ",", "")
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return false
	}
	data.Amount = value
	data.HasAmount = true
	return true
}

func extractVendor(line string, data *model.ExtractedData) bool {
	if data.Vendor != "" {
		return false
	}

	// Known vendor substrings take priority over the generic label split.
	switch {
	case strings.Contains(line, "Flipkart"):
		data.Vendor = "Flipkart India Pvt Ltd"
		return true
	case strings.Contains(line, "Amazon Web Services"), strings.Contains(line, "AWS"):
		data.Vendor = "Amazon Web Services"
		return true
	}

	if strings.Contains(line, "Bill To:") || strings.Contains(line, "From:") {
		parts := strings.SplitN(line, ":", 2)
		if len(parts) == 2 {
			vendor := strings.TrimSpace(parts[1])
			if vendor != "" {
				data.Vendor = vendor
				return true
			}
		}
	}
	return false
}

func extractGSTIN(line string, data *model.ExtractedData) bool {
	if data.GSTIN != "" {
		return false
	}
	m := gstinPattern.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	data.GSTIN = m[1]
	return true
}

func extractDate(line string, data *model.ExtractedData) bool {
	if data.Date != "" {
		return false
	}
	m := datePattern.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	data.Date = m[1]
	return true
}

func extractInvoiceNumber(line string, data *model.ExtractedData) bool {
	if data.InvoiceNumber != "" {
		return false
	}
	m := invoicePattern.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	data.InvoiceNumber = m[1]
	return true
}
