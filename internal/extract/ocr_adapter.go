package extract

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/joseph-ayodele/hotel-rates/internal/common"
	"github.com/joseph-ayodele/hotel-rates/internal/ocr"
)

type OCRAdapter struct {
	e      *ocr.Extractor
	logger *slog.Logger
}

func NewOCRAdapter(e *ocr.Extractor, logger *slog.Logger) *OCRAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &OCRAdapter{e: e, logger: logger}
}

// Extract runs the text stage; every failure comes back as an ExtractionIOError.
func (a *OCRAdapter) Extract(ctx context.Context, path string) (TextExtractionResult, error) {
	r, err := a.e.Extract(ctx, path)
	res := TextExtractionResult{
		Filename:   filepath.Base(path),
		Text:       r.Text,
		Pages:      r.Pages,
		SourceType: r.SourceType,
		Method:     r.Method,
		Duration:   r.Duration,
		Warnings:   r.Warnings,
	}
	if err != nil {
		a.logger.Error("text.extract.error", "path", path, "error", err, "warnings", r.Warnings)
		return res, common.ExtractionIOError("text extraction failed for "+res.Filename, err)
	}
	return res, nil
}
