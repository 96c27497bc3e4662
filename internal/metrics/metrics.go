package metrics

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	dto "github.com/prometheus/client_model/go"
)

// Outcomes recorded on run and call metrics.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// Metrics holds the per-run collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	reg *prometheus.Registry

	runs            *prometheus.CounterVec
	failures        *prometheus.CounterVec
	stageDur        *prometheus.HistogramVec
	llmLatency      *prometheus.HistogramVec
	llmCacheHits    prometheus.Counter
	validationScore prometheus.Gauge
	textLength      prometheus.Gauge
	lastSuccessTS   prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{reg: prometheus.NewRegistry()}
	m.runs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hotel_rates",
		Name:      "runs_total",
		Help:      "Pipeline runs by extraction method and outcome",
	}, []string{"method", "outcome"})
	m.failures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hotel_rates",
		Name:      "failures_total",
		Help:      "Terminal pipeline failures by error kind",
	}, []string{"kind"})
	m.stageDur = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hotel_rates",
		Name:      "stage_duration_seconds",
		Help:      "Time spent per pipeline stage",
		Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
	}, []string{"stage"})
	m.llmLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hotel_rates",
		Name:      "llm_request_duration_seconds",
		Help:      "LLM completion latency",
		Buckets:   prometheus.ExponentialBuckets(0.25, 2, 9),
	}, []string{"provider", "outcome"})
	m.llmCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "hotel_rates",
		Name:      "llm_cache_hits_total",
		Help:      "LLM responses served from cache",
	})
	m.validationScore = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "hotel_rates",
		Name:      "validation_score",
		Help:      "Keyword validation score of the last document",
	})
	m.textLength = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "hotel_rates",
		Name:      "extracted_text_length",
		Help:      "Characters extracted from the last document",
	})
	m.lastSuccessTS = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "hotel_rates",
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix time of the last successful run",
	})
	m.reg.MustRegister(
		m.runs, m.failures, m.stageDur, m.llmLatency, m.llmCacheHits,
		m.validationScore, m.textLength, m.lastSuccessTS,
	)
	return m
}

func (m *Metrics) ObserveRun(method, outcome string) {
	if m == nil {
		return
	}
	if method == "" {
		method = "none"
	}
	m.runs.WithLabelValues(method, outcome).Inc()
	if outcome == OutcomeOK {
		m.lastSuccessTS.SetToCurrentTime()
	}
}

func (m *Metrics) ObserveFailure(kind string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDur.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *Metrics) ObserveLLM(provider, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.llmLatency.WithLabelValues(provider, outcome).Observe(d.Seconds())
}

func (m *Metrics) IncCacheHit() {
	if m == nil {
		return
	}
	m.llmCacheHits.Inc()
}

func (m *Metrics) SetDocument(score, textLength int) {
	if m == nil {
		return
	}
	m.validationScore.Set(float64(score))
	m.textLength.Set(float64(textLength))
}

// Push sends the registry to a Pushgateway; batch runs exit before any scrape could happen.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	if m == nil || url == "" {
		return nil
	}
	return push.New(url, job).Gatherer(m.reg).PushContext(ctx)
}

// Dump returns a one-line-per-series snapshot for logging.
func (m *Metrics) Dump() string {
	if m == nil {
		return ""
	}
	mfs, err := m.reg.Gather()
	if err != nil {
		return "gather error: " + err.Error()
	}
	var out []string
	for _, mf := range mfs {
		for _, mt := range mf.GetMetric() {
			out = append(out, fmt.Sprintf("%s{%s} %g", mf.GetName(), labelString(mt.GetLabel()), value(mt)))
		}
	}
	sort.Strings(out)
	return strings.Join(out, "\n")
}

func labelString(lps []*dto.LabelPair) string {
	parts := make([]string, 0, len(lps))
	for _, lp := range lps {
		parts = append(parts, lp.GetName()+"="+lp.GetValue())
	}
	return strings.Join(parts, ",")
}

func value(mt *dto.Metric) float64 {
	switch {
	case mt.Counter != nil:
		return mt.Counter.GetValue()
	case mt.Gauge != nil:
		return mt.Gauge.GetValue()
	case mt.Histogram != nil:
		return float64(mt.Histogram.GetSampleCount())
	}
	return 0
}
