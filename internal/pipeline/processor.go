package pipeline

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/hotel-rates/constants"
	"github.com/joseph-ayodele/hotel-rates/internal/classify"
	"github.com/joseph-ayodele/hotel-rates/internal/common"
	"github.com/joseph-ayodele/hotel-rates/internal/entity"
	"github.com/joseph-ayodele/hotel-rates/internal/metrics"
	"github.com/joseph-ayodele/hotel-rates/internal/repository"
	"github.com/joseph-ayodele/hotel-rates/internal/utils"
)

// Config holds per-process sink behavior.
type Config struct {
	Table           string // default constants.DefaultTable
	SinkMaxAttempts int    // 1 = no retry
	SinkBackoff     time.Duration
}

// Options are per-run overrides from the command line.
type Options struct {
	Method constants.MethodChoice
	Table  string // overrides Config.Table when set
	DryRun bool   // assemble but do not persist
}

// Result summarizes one run.
type Result struct {
	RunID     string
	State     constants.ExtractState
	Verdict   classify.Verdict
	Record    entity.HotelRate
	Persisted bool
}

// Processor coordinates text -> classify/extract -> assemble -> persist for one file.
type Processor struct {
	Logger    *slog.Logger
	Cfg       Config
	Text      *TextStage
	Extract   *ExtractStage
	Assembler *Assembler
	Sink      repository.HotelRateSink
	Metrics   *metrics.Metrics
}

func NewProcessor(logger *slog.Logger, cfg Config, text *TextStage, ex *ExtractStage, asm *Assembler, sink repository.HotelRateSink, m *metrics.Metrics) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Table == "" {
		cfg.Table = constants.DefaultTable
	}
	if cfg.SinkMaxAttempts < 1 {
		cfg.SinkMaxAttempts = 1
	}
	if cfg.SinkBackoff <= 0 {
		cfg.SinkBackoff = 500 * time.Millisecond
	}
	if asm == nil {
		asm = NewAssembler()
	}
	return &Processor{Logger: logger, Cfg: cfg, Text: text, Extract: ex, Assembler: asm, Sink: sink, Metrics: m}
}

// ProcessFile runs the whole pipeline once. Every error is terminal: nothing after the
// failing step runs, and the sink is never reached after an extraction failure.
func (p *Processor) ProcessFile(ctx context.Context, path string, opts Options) (Result, error) {
	runID := common.RunIDFromContext(ctx)
	if runID == "" {
		runID = uuid.New().String()
		ctx = common.WithRunID(ctx, runID)
	}
	sel := NewSelection()
	res := Result{RunID: runID, State: sel.State()}
	start := time.Now()

	if opts.Method == "" {
		opts.Method = constants.ChoiceAuto
	}
	table := p.Cfg.Table
	if opts.Table != "" {
		table = opts.Table
	}

	p.Logger.Info("pipeline.run.start", "run_id", runID, "path", path, "method", string(opts.Method), "table", table, "dry_run", opts.DryRun)

	doc, err := p.Text.Run(ctx, path)
	if err != nil {
		sel.Fail()
		res.State = sel.State()
		return res, p.fail(runID, "", err)
	}

	out, err := p.Extract.Run(ctx, doc.Text, opts.Method, sel)
	res.State = sel.State()
	res.Verdict = out.Verdict
	if err != nil {
		return res, p.fail(runID, string(out.Method), err)
	}

	textLen := utf8.RuneCountInString(doc.Text)
	res.Record = p.Assembler.Assemble(out.Fields.Record, Provenance{
		Filename:        doc.Filename,
		Method:          out.Method,
		ValidationScore: out.Verdict.Score,
		TextLength:      textLen,
	})
	p.Metrics.SetDocument(out.Verdict.Score, textLen)

	if opts.DryRun {
		p.Logger.Info("pipeline.run.dry_run", "run_id", runID, "id", res.Record.ID.String())
		p.Metrics.ObserveRun(string(out.Method), metrics.OutcomeOK)
		return res, nil
	}

	if err := p.persist(ctx, table, res.Record); err != nil {
		return res, p.fail(runID, string(out.Method), err)
	}
	res.Persisted = true

	p.Metrics.ObserveRun(string(out.Method), metrics.OutcomeOK)
	p.Logger.Info("pipeline.run.ok",
		"run_id", runID,
		"id", res.Record.ID.String(),
		"file", res.Record.PDFFilename,
		"method", string(out.Method),
		"score", out.Verdict.Score,
		"table", table,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

func (p *Processor) persist(ctx context.Context, table string, rec entity.HotelRate) error {
	start := time.Now()
	attempt := 0
	err := utils.RetryIf(ctx, p.Cfg.SinkMaxAttempts, p.Cfg.SinkBackoff, 8*p.Cfg.SinkBackoff, common.IsRetryable, func() error {
		attempt++
		err := p.Sink.Insert(ctx, table, rec)
		if err != nil {
			p.Logger.Warn("pipeline.persist.attempt_failed", "run_id", common.RunIDFromContext(ctx), "attempt", attempt, "error", err)
		}
		return err
	})
	p.Metrics.ObserveStage("persist", time.Since(start))
	if err != nil && common.Kind(err) == common.CodeInternal {
		err = common.PersistenceError("insert "+table, err)
	}
	return err
}

func (p *Processor) fail(runID, method string, err error) error {
	kind := common.Kind(err)
	p.Metrics.ObserveFailure(kind)
	p.Metrics.ObserveRun(method, metrics.OutcomeFailed)
	p.Logger.Error("pipeline.run.failed", "run_id", runID, "method", method, "kind", kind, "error", err)
	return err
}
