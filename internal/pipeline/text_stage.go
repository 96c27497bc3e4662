package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/hotel-rates/internal/common"
	"github.com/joseph-ayodele/hotel-rates/internal/extract"
	"github.com/joseph-ayodele/hotel-rates/internal/metrics"
)

// TextStage turns the input file into a raw document.
type TextStage struct {
	TextExtractor extract.TextExtractor
	Metrics       *metrics.Metrics
	Logger        *slog.Logger
}

func NewTextStage(tx extract.TextExtractor, m *metrics.Metrics, logger *slog.Logger) *TextStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &TextStage{TextExtractor: tx, Metrics: m, Logger: logger}
}

func (s *TextStage) Run(ctx context.Context, path string) (extract.TextExtractionResult, error) {
	start := time.Now()
	res, err := s.TextExtractor.Extract(ctx, path)
	s.Metrics.ObserveStage("text", time.Since(start))
	if err != nil {
		s.Logger.Error("pipeline.text.failed",
			"run_id", common.RunIDFromContext(ctx),
			"path", path,
			"error", err,
		)
		return res, err
	}
	for _, w := range res.Warnings {
		s.Logger.Warn("pipeline.text.warning", "run_id", common.RunIDFromContext(ctx), "warning", w)
	}
	s.Logger.Info("pipeline.text.ok",
		"run_id", common.RunIDFromContext(ctx),
		"file", res.Filename,
		"method", res.Method,
		"pages", res.Pages,
		"text_len", len(res.Text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}
