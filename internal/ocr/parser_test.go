package ocr

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name string
		text string
		want float64
	}{
		{
			name: "total amount with rupee symbol and separators",
			text: "Total Amount: ₹50,000",
			want: 50000,
		},
		{
			name: "plain amount label",
			text: "Amount: 1,200",
			want: 1200,
		},
		{
			name: "grand total",
			text: "Grand Total: ₹59,000",
			want: 59000,
		},
		{
			name: "first matching line wins",
			text: "Total Amount: ₹50,000\nGrand Total: ₹59,000",
			want: 50000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := parser.Parse(tt.text)
			require.True(t, data.HasAmount)
			assert.Equal(t, tt.want, data.Amount)
		})
	}
}

func TestParseAmountAbsent(t *testing.T) {
	parser := NewParser()

	data := parser.Parse("Item Description    Qty   Rate\nThanks for your business")
	assert.False(t, data.HasAmount)
	assert.Zero(t, data.Amount)
}

func TestParseGSTIN(t *testing.T) {
	parser := NewParser()

	t.Run("15 character token after label", func(t *testing.T) {
		data := parser.Parse("GSTIN: 29AABCI9603R1ZM")
		assert.Equal(t, "29AABCI9603R1ZM", data.GSTIN)
	})

	t.Run("short token is ignored", func(t *testing.T) {
		data := parser.Parse("GSTIN: 29AABCI")
		assert.Empty(t, data.GSTIN)
	})
}

func TestParseVendor(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "bill to label",
			text: "Bill To: Acme Traders",
			want: "Acme Traders",
		},
		{
			name: "from label",
			text: "From: Sharma Stationers",
			want: "Sharma Stationers",
		},
		{
			name: "flipkart override",
			text: "Bill To: Flipkart",
			want: "Flipkart India Pvt Ltd",
		},
		{
			name: "aws override",
			text: "AWS Infrastructure Services",
			want: "Amazon Web Services",
		},
		{
			name: "no label no vendor",
			text: "Some unrelated line",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := parser.Parse(tt.text)
			assert.Equal(t, tt.want, data.Vendor)
		})
	}
}

func TestParseDateAndInvoiceNumber(t *testing.T) {
	parser := NewParser()

	data := parser.Parse("Invoice No: INV-2024-001\nDate: 2024-01-15")
	assert.Equal(t, "INV-2024-001", data.InvoiceNumber)
	assert.Equal(t, "2024-01-15", data.Date)
}

func TestInferCategory(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "aws vendor is infrastructure",
			text: "From: Amazon Web Services\nTotal: ₹25,000",
			want: "Infrastructure",
		},
		{
			name: "flipkart vendor is revenue",
			text: "Bill To: Flipkart India Pvt Ltd\nTotal Amount: ₹50,000",
			want: "Revenue",
		},
		{
			name: "small amount defaults to office expenses",
			text: "Amount: ₹1,200",
			want: "Office Expenses",
		},
		{
			name: "large amount without vendor is general",
			text: "Total: ₹90,000",
			want: "General",
		},
		{
			name: "nothing extracted is general",
			text: "illegible scan",
			want: "General",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := parser.Parse(tt.text)
			assert.Equal(t, tt.want, data.Category)
		})
	}
}

func TestParseConfidenceIsFixed(t *testing.T) {
	parser := NewParser()

	full := parser.Parse("Bill To: Acme\nTotal: ₹10,000\nGSTIN: 29AABCI9603R1ZM")
	empty := parser.Parse("nothing useful here")
	assert.Equal(t, 0.85, full.Confidence)
	assert.Equal(t, 0.85, empty.Confidence)
}

func TestProcessorWithStubExtractor(t *testing.T) {
	processor := NewProcessor(NewStubExtractor())
	ctx := context.Background()

	t.Run("invoice filename yields invoice fields", func(t *testing.T) {
		result := processor.Process(ctx, "invoice-jan.png", []byte("binary"))
		require.True(t, result.Success)
		require.NotNil(t, result.Data)
		assert.Equal(t, "Flipkart India Pvt Ltd", result.Data.Vendor)
		assert.Equal(t, "29AABCI9603R1ZM", result.Data.GSTIN)
		assert.Equal(t, "INV-2024-001", result.Data.InvoiceNumber)
		assert.Equal(t, "2024-01-15", result.Data.Date)
		require.True(t, result.Data.HasAmount)
		assert.Equal(t, float64(50000), result.Data.Amount)
		assert.Equal(t, "Revenue", result.Data.Category)
	})

	t.Run("bill filename yields vendor bill fields", func(t *testing.T) {
		result := processor.Process(ctx, "aws-bill.pdf", []byte("binary"))
		require.True(t, result.Success)
		assert.Equal(t, "Amazon Web Services", result.Data.Vendor)
		assert.Equal(t, "Infrastructure", result.Data.Category)
		assert.Equal(t, "BILL-AWS-001", result.Data.InvoiceNumber)
	})

	t.Run("other filenames yield receipt fields", func(t *testing.T) {
		result := processor.Process(ctx, "scan001.jpg", []byte("binary"))
		require.True(t, result.Success)
		require.True(t, result.Data.HasAmount)
		assert.Equal(t, float64(1200), result.Data.Amount)
		assert.Equal(t, "Office Expenses", result.Data.Category)
	})
}

type failingExtractor struct{}

func (failingExtractor) ExtractText(context.Context, string, []byte) (string, error) {
	return "", errors.New("unreadable image")
}

func TestProcessorExtractionFailure(t *testing.T) {
	processor := NewProcessor(failingExtractor{})

	result := processor.Process(context.Background(), "broken.png", nil)
	assert.False(t, result.Success)
	assert.Nil(t, result.Data)
	assert.Equal(t, "Failed to process document", result.Error)
}
