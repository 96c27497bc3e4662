package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/hotel-rates/constants"
	"github.com/joseph-ayodele/hotel-rates/internal/common"
	"github.com/joseph-ayodele/hotel-rates/internal/entity"
	"github.com/joseph-ayodele/hotel-rates/internal/extract"
	"github.com/joseph-ayodele/hotel-rates/internal/metrics"
	"github.com/joseph-ayodele/hotel-rates/internal/utils"
)

type ExtractorConfig struct {
	MaxAttempts int           // 1 = no retry
	Backoff     time.Duration // initial backoff between attempts
	CacheTTL    time.Duration
}

// Extractor turns document text into a StructuredRecord through a chat model.
type Extractor struct {
	chat    ChatCompleter
	cache   Cache
	cfg     ExtractorConfig
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewExtractor wires a completer; cache and m may be nil.
func NewExtractor(chat ChatCompleter, cache Cache, cfg ExtractorConfig, m *metrics.Metrics, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = time.Second
	}
	return &Extractor{chat: chat, cache: cache, cfg: cfg, metrics: m, logger: logger}
}

func (e *Extractor) Method() constants.ProcessingMethod { return constants.MethodGPT }

func (e *Extractor) ExtractFields(ctx context.Context, text string) (extract.FieldsResult, error) {
	rid := uuid.New().String()
	start := time.Now()
	prompt := BuildPrompt(text)
	res := extract.FieldsResult{
		ModelName:   e.chat.Model(),
		ModelParams: map[string]any{"temperature": e.chat.Temperature(), "provider": e.chat.Provider()},
	}

	e.logger.Info("llm.extract.start",
		"req_id", rid,
		"run_id", common.RunIDFromContext(ctx),
		"provider", e.chat.Provider(),
		"model", e.chat.Model(),
		"temp", e.chat.Temperature(),
		"text_len", utf8.RuneCountInString(text),
	)

	key := utils.SHA256Hex(e.chat.Model(), prompt)
	content, hit := e.cached(ctx, rid, key)
	if !hit {
		var err error
		content, err = e.complete(ctx, rid, prompt)
		if err != nil {
			return res, err
		}
	}
	res.CacheHit = hit

	rec, cleaned, err := ParseResponse(content, e.logger)
	if err != nil {
		e.logger.Error("llm.extract.malformed",
			"req_id", rid,
			"error", err,
			"content", utils.Truncate(content, 2<<10),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return res, common.MalformedResponseError("model response is not a usable hotel record", err)
	}
	res.Record = rec
	res.RawJSON = string(cleaned)

	if !hit {
		e.store(ctx, rid, key, content)
	}

	e.logger.Info("llm.extract.ok",
		"req_id", rid,
		"hotel", entity.Deref(rec.HotelName),
		"present", rec.Present(),
		"cache_hit", hit,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

func (e *Extractor) complete(ctx context.Context, rid, prompt string) (string, error) {
	var content string
	attempt := 0
	err := utils.RetryIf(ctx, e.cfg.MaxAttempts, e.cfg.Backoff, 8*e.cfg.Backoff, common.IsRetryable, func() error {
		attempt++
		callStart := time.Now()
		c, err := e.chat.Complete(ctx, prompt)
		outcome := metrics.OutcomeOK
		if err != nil {
			outcome = metrics.OutcomeFailed
			e.logger.Warn("llm.extract.attempt_failed", "req_id", rid, "attempt", attempt, "error", err)
		}
		e.metrics.ObserveLLM(e.chat.Provider(), outcome, time.Since(callStart))
		content = c
		return err
	})
	if err != nil {
		var appErr *common.AppError
		if !errors.As(err, &appErr) {
			// context cancellation during backoff, or a completer that returned a bare error
			err = common.ExternalServiceError("llm completion failed", err)
		}
		e.logger.Error("llm.extract.http_error", "req_id", rid, "attempts", attempt, "error", err)
		return "", err
	}
	return content, nil
}

func (e *Extractor) cached(ctx context.Context, rid, key string) (string, bool) {
	if e.cache == nil {
		return "", false
	}
	v, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		e.logger.Warn("llm.cache.get_error", "req_id", rid, "error", err)
		return "", false
	}
	if ok {
		e.metrics.IncCacheHit()
		e.logger.Debug("llm.cache.hit", "req_id", rid, "key", key[:12])
	}
	return v, ok
}

func (e *Extractor) store(ctx context.Context, rid, key, content string) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Set(ctx, key, content, e.cfg.CacheTTL); err != nil {
		e.logger.Warn("llm.cache.set_error", "req_id", rid, "error", err)
	}
}

// ParseResponse turns raw model content into a record: extract the JSON object,
// sanitize its shape, validate it against the schema, then decode.
func ParseResponse(content string, logger *slog.Logger) (entity.StructuredRecord, []byte, error) {
	obj, err := ExtractJSONObject(content)
	if err != nil {
		return entity.StructuredRecord{}, nil, err
	}
	cleaned, _, err := NormalizeAndSanitizeJSON(obj, logger)
	if err != nil {
		return entity.StructuredRecord{}, nil, err
	}
	if err := ValidateHotelRateJSON(cleaned); err != nil {
		return entity.StructuredRecord{}, cleaned, fmt.Errorf("schema validation failed: %w", err)
	}
	var rec entity.StructuredRecord
	if err := json.Unmarshal(cleaned, &rec); err != nil {
		return entity.StructuredRecord{}, cleaned, fmt.Errorf("unmarshal fields: %w", err)
	}
	return rec, cleaned, nil
}
