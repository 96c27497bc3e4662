package extract

import (
	"context"
	"time"

	"github.com/joseph-ayodele/hotel-rates/constants"
	"github.com/joseph-ayodele/hotel-rates/internal/entity"
)

// TextExtractor is Stage 1: file -> text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (TextExtractionResult, error)
}

// TextExtractionResult is the raw document handed to classification. Not modified after return.
type TextExtractionResult struct {
	Filename   string
	Text       string
	Pages      int
	SourceType string // "PDF" | "TXT"
	Method     string // "pdf-text" | "pdf-ocr" | "plain-text"
	Duration   time.Duration
	Warnings   []string
}

// FieldExtractor is Stage 2: text -> structured record (LLM or rules).
type FieldExtractor interface {
	Method() constants.ProcessingMethod
	ExtractFields(ctx context.Context, text string) (FieldsResult, error)
}

type FieldsResult struct {
	Record      entity.StructuredRecord
	RawJSON     string // model output after fence stripping; empty for native
	ModelName   string
	ModelParams map[string]any
	CacheHit    bool
}
