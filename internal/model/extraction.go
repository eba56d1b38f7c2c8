package model

// ExtractedLineItem is a single parsed invoice line from OCR text.
type ExtractedLineItem struct {
	Description string
	Quantity    float64
	Rate        float64
	Amount      float64
}

// ExtractedData holds the structured fields parsed from OCR text. Every field
// is optional: absence of a field is a normal outcome, not an error. The data
// lives only long enough to pre-fill an upload form.
type ExtractedData struct {
	Vendor        string
	GSTIN         string
	Date          string // ISO YYYY-MM-DD as found in the text
	InvoiceNumber string
	Category      string
	LineItems     []ExtractedLineItem
	Amount        float64
	HasAmount     bool
	Confidence    float64
}
