package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/hotel-rates/constants"
	"github.com/joseph-ayodele/hotel-rates/internal/classify"
	"github.com/joseph-ayodele/hotel-rates/internal/pipeline"
)

type classifyReport struct {
	File           string   `json:"file"`
	Pages          int      `json:"pages"`
	TextMethod     string   `json:"text_method"`
	TextLength     int      `json:"text_length"`
	Score          int      `json:"validation_score"`
	MaxScore       int      `json:"max_score"`
	Matched        []string `json:"matched_keywords"`
	WellStructured bool     `json:"well_structured"`
	TabularLines   int      `json:"tabular_lines"`
	KeywordHits    int      `json:"routing_keyword_hits"`
	Route          string   `json:"route"`
}

func newClassifyCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <pdf>",
		Short: "Extract text and print the classifier verdict without extracting fields",
		Args:  exactArgs(1, "exactly one input file"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd, root)
			if err != nil {
				return err
			}
			if err := cfg.Validate(false, false); err != nil {
				return err
			}

			doc, err := newTextExtractor(cfg, logger).Extract(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			c := classify.New(cfg.Classifier.Policy)
			v := c.Classify(doc.Text)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(classifyReport{
				File:           doc.Filename,
				Pages:          doc.Pages,
				TextMethod:     doc.Method,
				TextLength:     v.Structure.TextLength,
				Score:          v.Score,
				MaxScore:       c.MaxScore(),
				Matched:        v.Matched,
				WellStructured: v.WellStructured,
				TabularLines:   v.Structure.TabularLines,
				KeywordHits:    v.Structure.KeywordHits,
				Route:          string(pipeline.Route(v, constants.ChoiceAuto)),
			})
		},
	}
}
