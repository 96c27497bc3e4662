package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/hotel-rates/constants"
	"github.com/joseph-ayodele/hotel-rates/internal/classify"
	"github.com/joseph-ayodele/hotel-rates/internal/common"
	"github.com/joseph-ayodele/hotel-rates/internal/extract"
	"github.com/joseph-ayodele/hotel-rates/internal/metrics"
	"github.com/joseph-ayodele/hotel-rates/internal/utils"
)

// ExtractOutcome is what the extract stage hands to assembly.
type ExtractOutcome struct {
	Verdict classify.Verdict
	Method  constants.ProcessingMethod
	Fields  extract.FieldsResult
}

// ExtractStage classifies the text, picks an extractor and runs it.
type ExtractStage struct {
	Classifier *classify.Classifier
	Native     extract.FieldExtractor
	LLM        extract.FieldExtractor // nil when the run is forced native
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
}

func NewExtractStage(c *classify.Classifier, native, llm extract.FieldExtractor, m *metrics.Metrics, logger *slog.Logger) *ExtractStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractStage{Classifier: c, Native: native, LLM: llm, Metrics: m, Logger: logger}
}

// Run advances sel from Unclassified to Extracted, or to Failed on any error.
func (s *ExtractStage) Run(ctx context.Context, text string, choice constants.MethodChoice, sel *Selection) (ExtractOutcome, error) {
	var out ExtractOutcome
	runID := common.RunIDFromContext(ctx)

	start := time.Now()
	out.Verdict = s.Classifier.Classify(text)
	s.Metrics.ObserveStage("classify", time.Since(start))

	next, fe := constants.StateLLMChosen, s.LLM
	if Route(out.Verdict, choice) == constants.MethodNative {
		next, fe = constants.StateNativeChosen, s.Native
	}
	if fe == nil {
		sel.Fail()
		return out, common.NewAppError(common.CodeConfig,
			fmt.Sprintf("no extractor configured for route %s", next), common.ErrInvalidInput)
	}
	if err := sel.To(next); err != nil {
		return out, err
	}
	out.Method = fe.Method()

	s.Logger.Info("pipeline.classify.ok",
		"run_id", runID,
		"score", out.Verdict.Score,
		"matched", out.Verdict.Matched,
		"well_structured", out.Verdict.WellStructured,
		"tabular_lines", out.Verdict.Structure.TabularLines,
		"choice", string(choice),
		"route", string(next),
	)

	start = time.Now()
	fields, err := fe.ExtractFields(ctx, text)
	s.Metrics.ObserveStage("extract", time.Since(start))
	if err != nil {
		sel.Fail()
		s.Logger.Error("pipeline.extract.failed",
			"run_id", runID,
			"method", string(out.Method),
			"kind", common.Kind(err),
			"error", err,
		)
		return out, err
	}
	if err := sel.To(constants.StateExtracted); err != nil {
		return out, err
	}
	out.Fields = fields

	s.Logger.Info("pipeline.extract.ok",
		"run_id", runID,
		"method", string(out.Method),
		"present", fields.Record.Present(),
		"model", fields.ModelName,
		"model_params", fields.ModelParams,
		"cache_hit", fields.CacheHit,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	if fields.RawJSON != "" {
		s.Logger.Debug("pipeline.extract.raw_json",
			"run_id", runID,
			"json", utils.Truncate(fields.RawJSON, 4<<10),
		)
	}
	return out, nil
}

// Route picks the extractor for a verdict. An explicit choice wins over the classifier.
func Route(v classify.Verdict, choice constants.MethodChoice) constants.ProcessingMethod {
	switch choice {
	case constants.ChoiceNative:
		return constants.MethodNative
	case constants.ChoiceGPT:
		return constants.MethodGPT
	}
	if v.WellStructured {
		return constants.MethodNative
	}
	return constants.MethodGPT
}
