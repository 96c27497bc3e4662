package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/hotel-rates/constants"
	"github.com/joseph-ayodele/hotel-rates/internal/classify"
	"github.com/joseph-ayodele/hotel-rates/internal/extract"
	"github.com/joseph-ayodele/hotel-rates/internal/metrics"
	"github.com/joseph-ayodele/hotel-rates/internal/native"
	"github.com/joseph-ayodele/hotel-rates/internal/pipeline"
)

type extractOptions struct {
	method string
	table  string
	sink   string
	dryRun bool
}

func newExtractCmd(root *rootOptions) *cobra.Command {
	opts := &extractOptions{}
	cmd := &cobra.Command{
		Use:   "extract <pdf>",
		Short: "Extract one rate sheet and persist the record",
		Args:  exactArgs(1, "exactly one input file"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, root, opts, args[0])
		},
	}
	cmd.Flags().StringVar(&opts.method, "method", string(constants.ChoiceAuto), "Extractor: auto, native or gpt")
	cmd.Flags().StringVar(&opts.table, "table", "", "Destination table (default SINK_TABLE)")
	cmd.Flags().StringVar(&opts.sink, "sink", "", "Sink driver: supabase, postgres, sqlite or xlsx (default SINK_DRIVER)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the assembled record as JSON instead of persisting it")
	return cmd
}

func runExtract(cmd *cobra.Command, root *rootOptions, opts *extractOptions, path string) error {
	ctx := cmd.Context()
	cfg, logger, err := loadConfig(cmd, root)
	if err != nil {
		return err
	}

	choice, ok := constants.ParseMethodChoice(opts.method)
	if !ok {
		return usageError(fmt.Sprintf("unknown --method %q", opts.method))
	}
	if opts.sink != "" {
		cfg.Sink.Driver = opts.sink
	}
	if opts.table != "" {
		cfg.Sink.Table = opts.table
	}
	if err := cfg.Validate(choice != constants.ChoiceNative, !opts.dryRun); err != nil {
		return err
	}

	m := metrics.New()
	defer pushMetrics(ctx, cfg, m, logger)

	var fe extract.FieldExtractor
	if choice != constants.ChoiceNative {
		llmFE, closeLLM, err := newLLMExtractor(ctx, cfg, m, logger)
		if err != nil {
			return err
		}
		defer closeLLM()
		fe = llmFE
	}

	var out sink
	if !opts.dryRun {
		s, closeSink, err := newSink(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeSink()
		out = s
	}

	p := pipeline.NewProcessor(logger,
		pipeline.Config{
			Table:           cfg.Sink.Table,
			SinkMaxAttempts: cfg.Sink.MaxAttempts,
			SinkBackoff:     cfg.Sink.Backoff,
		},
		pipeline.NewTextStage(newTextExtractor(cfg, logger), m, logger),
		pipeline.NewExtractStage(classify.New(cfg.Classifier.Policy), native.NewExtractor(logger), fe, m, logger),
		pipeline.NewAssembler(),
		out,
		m,
	)

	res, err := p.ProcessFile(ctx, path, pipeline.Options{Method: choice, DryRun: opts.dryRun})
	if err != nil {
		return err
	}

	if opts.dryRun {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res.Record)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "inserted %s into %s (%s, score %d)\n",
		res.Record.ID, cfg.Sink.Table, res.Record.ProcessingMethod, res.Record.ValidationScore)
	return nil
}
