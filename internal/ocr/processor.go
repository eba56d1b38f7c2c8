package ocr

import (
	"context"
	"log/slog"

	"github.com/munimhq/munim/internal/model"
	"github.com/munimhq/munim/internal/service"
)

// Result is the tagged outcome of processing one document. On failure no
// structured data is available and Error carries the user-visible message.
type Result struct {
	Data    *model.ExtractedData
	Error   string
	RawText string
	Success bool
}

// Processor runs the two-stage extract-then-parse pipeline.
type Processor struct {
	extractor service.TextExtractor
	parser    *Parser
}

// NewProcessor creates a processor around the given text extractor.
func NewProcessor(extractor service.TextExtractor) *Processor {
	return &Processor{
		extractor: extractor,
		parser:    NewParser(),
	}
}

// Process extracts and parses a document file. Extraction failure yields a
// failure result rather than an error: the caller surfaces the message inline
// and moves on.
func (p *Processor) Process(ctx context.Context, filename string, data []byte) Result {
	slog.Info("Starting OCR processing", "file", filename, "size", len(data))

	rawText, err := p.extractor.ExtractText(ctx, filename, data)
	if err != nil {
		slog.Error("OCR extraction failed", "file", filename, "error", err)
		return Result{Error: "Failed to process document"}
	}

	extracted := p.parser.Parse(rawText)

	slog.Info("OCR processing complete",
		"file", filename,
		"vendor", extracted.Vendor,
		"has_amount", extracted.HasAmount,
		"category", extracted.Category)

	return Result{
		Success: true,
		Data:    &extracted,
		RawText: rawText,
	}
}
