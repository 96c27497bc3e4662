package main

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/hotel-rates/internal/common"
	"github.com/joseph-ayodele/hotel-rates/internal/export"
	"github.com/joseph-ayodele/hotel-rates/internal/extract"
	"github.com/joseph-ayodele/hotel-rates/internal/llm"
	"github.com/joseph-ayodele/hotel-rates/internal/llm/cache"
	"github.com/joseph-ayodele/hotel-rates/internal/llm/eino"
	"github.com/joseph-ayodele/hotel-rates/internal/llm/openai"
	"github.com/joseph-ayodele/hotel-rates/internal/metrics"
	"github.com/joseph-ayodele/hotel-rates/internal/ocr"
	repo "github.com/joseph-ayodele/hotel-rates/internal/repository"
)

func newTextExtractor(cfg *common.Config, logger *slog.Logger) extract.TextExtractor {
	oc := ocr.NewExtractor(ocr.Config{
		Pdftotext:   cfg.OCR.Pdftotext,
		Pdftoppm:    cfg.OCR.Pdftoppm,
		Tesseract:   cfg.OCR.Tesseract,
		TessdataDir: cfg.OCR.TessdataDir,
		MaxPages:    cfg.OCR.MaxPages,
		OCRFallback: cfg.OCR.Fallback,
	}, logger)
	return extract.NewOCRAdapter(oc, logger)
}

func newChatCompleter(ctx context.Context, cfg common.LLMConfig, logger *slog.Logger) (llm.ChatCompleter, error) {
	switch cfg.Provider {
	case common.ProviderEino:
		return eino.NewClient(ctx, eino.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		}, logger)
	default:
		return openai.NewClient(openai.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		}, logger), nil
	}
}

// newLLMExtractor returns the model-backed extractor and a closer for its cache.
// A cache that cannot be reached is logged and skipped.
func newLLMExtractor(ctx context.Context, cfg *common.Config, m *metrics.Metrics, logger *slog.Logger) (extract.FieldExtractor, func(), error) {
	chat, err := newChatCompleter(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, func() {}, err
	}

	var c llm.Cache
	closer := func() {}
	rc, err := cache.NewRedis(ctx, cfg.Cache, logger)
	switch {
	case err != nil:
		logger.Warn("llm.cache.disabled", "error", err)
	case rc != nil:
		c = rc
		closer = func() { _ = rc.Close() }
	}

	return llm.NewExtractor(chat, c, llm.ExtractorConfig{
		MaxAttempts: cfg.LLM.MaxAttempts,
		Backoff:     cfg.LLM.Backoff,
		CacheTTL:    cfg.Cache.TTL,
	}, m, logger), closer, nil
}

// sink is a HotelRateSink that can also be health-checked.
type sink interface {
	repo.HotelRateSink
	repo.Pinger
}

// newSink opens the configured store. The returned closer releases connections.
func newSink(ctx context.Context, cfg *common.Config, logger *slog.Logger) (sink, func(), error) {
	noop := func() {}
	switch cfg.Sink.Driver {
	case common.SinkPostgres:
		drv, pool, err := repo.Open(ctx, repo.Config{
			DSN:              cfg.Database.DSN,
			MaxConns:         cfg.Database.MaxConns,
			MinConns:         cfg.Database.MinConns,
			MaxConnLifetime:  cfg.Database.MaxConnLifetime,
			MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
			DialTimeout:      cfg.Database.DialTimeout,
			StatementTimeout: cfg.Database.StatementTimeout,
		}, logger)
		if err != nil {
			return nil, noop, common.PersistenceError("open postgres", err)
		}
		return repo.NewSQLSink(drv, cfg.Database.StatementTimeout, logger),
			func() { repo.Close(drv, pool, logger) }, nil
	case common.SinkSQLite:
		drv, err := repo.OpenSQLite(cfg.Database.SQLitePath, logger)
		if err != nil {
			return nil, noop, common.PersistenceError("open sqlite", err)
		}
		return repo.NewSQLSink(drv, cfg.Database.StatementTimeout, logger),
			func() { repo.Close(drv, nil, logger) }, nil
	case common.SinkXLSX:
		return export.NewXLSXSink(cfg.Sink.XLSXDir, logger), noop, nil
	default:
		return repo.NewSupabaseSink(repo.SupabaseConfig{
			URL:     cfg.Supabase.URL,
			Key:     cfg.Supabase.Key,
			Table:   cfg.Sink.Table,
			Timeout: cfg.Supabase.Timeout,
		}, logger), noop, nil
	}
}

// pushMetrics sends the run's metrics when a pushgateway is configured, and always logs them.
func pushMetrics(ctx context.Context, cfg *common.Config, m *metrics.Metrics, logger *slog.Logger) {
	logger.Debug("metrics.snapshot", "series", m.Dump())
	if cfg.Metrics.PushgatewayURL == "" {
		return
	}
	// the run context may already be cancelled; the push should still go out
	if err := m.Push(context.WithoutCancel(ctx), cfg.Metrics.PushgatewayURL, cfg.Metrics.Job); err != nil {
		logger.Warn("metrics.push.error", "url", cfg.Metrics.PushgatewayURL, "error", err)
	}
}
