package ocr

import (
	"strings"

	"github.com/munimhq/munim/internal/model"
)

// extractionConfidence is a placeholder: it is not computed from match
// quality, and consumers must not threshold on it.
const extractionConfidence = 0.85

// officeExpenseThreshold is the amount below which uncategorized documents
// are assumed to be small office purchases.
const officeExpenseThreshold = 5000

// Parser scans OCR text line by line, applying each field rule in priority
// order.
type Parser struct {
	rules []fieldRule
}

// NewParser creates a parser with the default field rules.
func NewParser() *Parser {
	return &Parser{rules: fieldRules()}
}

// Parse extracts structured fields from raw OCR text. All fields are
// optional; a line that matches no rule is skipped silently.
func (p *Parser) Parse(text string) model.ExtractedData {
	data := model.ExtractedData{}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		for _, rule := range p.rules {
			rule.apply(line, &data)
		}
	}

	data.Category = inferCategory(&data)
	data.Confidence = extractionConfidence
	return data
}

// inferCategory guesses a category from vendor substrings, falling back to an
// amount threshold for small purchases.
func inferCategory(data *model.ExtractedData) string {
	vendor := strings.ToLower(data.Vendor)
	switch {
	case strings.Contains(vendor, "aws"), strings.Contains(vendor, "amazon"):
		return "Infrastructure"
	case strings.Contains(vendor, "flipkart"), strings.Contains(vendor, "customer"):
		return "Revenue"
	case data.HasAmount && data.Amount < officeExpenseThreshold:
		return "Office Expenses"
	default:
		return "General"
	}
}
