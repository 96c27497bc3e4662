package classify

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/hotel-rates/internal/common"
)

// reColumnGap separates layout columns as pdftotext -layout prints them.
var (
	reColumnGap = regexp.MustCompile(` {2,}`)
	reDigit     = regexp.MustCompile(`\d`)
)

// StructureStats describes what the routing policy saw.
type StructureStats struct {
	TextLength   int
	TabularLines int
	KeywordHits  int
}

// Verdict is the classifier output for one document.
type Verdict struct {
	WellStructured bool
	Score          int
	Matched        []string
	Structure      StructureStats
}

// Classifier holds a score policy and a routing policy. The two are independent:
// the score is recorded on the record, the structure check picks the extractor.
type Classifier struct {
	scoreKeywords   []string
	scoreWeight     int
	routeKeywords   []string
	minKeywordHits  int
	minTextLength   int
	minTabularLines int
}

func New(p common.ClassifierPolicy) *Classifier {
	def := common.DefaultClassifierPolicy()
	c := &Classifier{
		scoreKeywords:   lowerAll(p.ScoreKeywords),
		scoreWeight:     p.ScoreWeight,
		routeKeywords:   lowerAll(p.RouteKeywords),
		minKeywordHits:  p.MinKeywordHits,
		minTextLength:   p.MinTextLength,
		minTabularLines: p.MinTabularLines,
	}
	if len(c.scoreKeywords) == 0 {
		c.scoreKeywords = def.ScoreKeywords
	}
	if c.scoreWeight <= 0 {
		c.scoreWeight = def.ScoreWeight
	}
	if len(c.routeKeywords) == 0 {
		c.routeKeywords = c.scoreKeywords
	}
	return c
}

// MaxScore is the upper bound of Score for this policy.
func (c *Classifier) MaxScore() int {
	return len(c.scoreKeywords) * c.scoreWeight
}

// Weight is the score contributed by each matched keyword.
func (c *Classifier) Weight() int { return c.scoreWeight }

// Classify is pure: the same text always yields the same Verdict.
func (c *Classifier) Classify(text string) Verdict {
	lower := strings.ToLower(text)

	matched := make([]string, 0, len(c.scoreKeywords))
	for _, kw := range c.scoreKeywords {
		if strings.Contains(lower, kw) {
			matched = append(matched, kw)
		}
	}

	stats := StructureStats{
		TextLength:   utf8.RuneCountInString(text),
		TabularLines: countTabularLines(text),
		KeywordHits:  countHits(lower, c.routeKeywords),
	}

	return Verdict{
		WellStructured: stats.TextLength >= c.minTextLength &&
			stats.TabularLines >= c.minTabularLines &&
			stats.KeywordHits >= c.minKeywordHits,
		Score:     len(matched) * c.scoreWeight,
		Matched:   matched,
		Structure: stats,
	}
}

// countTabularLines counts lines with two or more layout columns and at least one digit.
func countTabularLines(text string) int {
	n := 0
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" || !reDigit.MatchString(ln) {
			continue
		}
		if len(reColumnGap.Split(ln, -1)) >= 2 {
			n++
		}
	}
	return n
}

func countHits(lower string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
