package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRun("gpt", OutcomeOK)
		m.ObserveFailure("PERSISTENCE")
		m.ObserveStage("text", time.Second)
		m.ObserveLLM("openai", OutcomeOK, time.Second)
		m.IncCacheHit()
		m.SetDocument(80, 1200)
	})
	assert.NoError(t, m.Push(context.Background(), "http://unused", "job"))
	assert.Empty(t, m.Dump())
}

func TestObserveRunAndFailure(t *testing.T) {
	m := New()
	m.ObserveRun("native", OutcomeOK)
	m.ObserveRun("gpt", OutcomeFailed)
	m.ObserveRun("gpt", OutcomeFailed)
	m.ObserveFailure("MALFORMED_RESPONSE")
	m.SetDocument(60, 900)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("native", OutcomeOK)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.runs.WithLabelValues("gpt", OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("MALFORMED_RESPONSE")))
	assert.Equal(t, 60.0, testutil.ToFloat64(m.validationScore))
	assert.Greater(t, testutil.ToFloat64(m.lastSuccessTS), 0.0)
	assert.Contains(t, m.Dump(), "hotel_rates_runs_total{method=gpt,outcome=failed} 2")
}

func TestPushToGateway(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := New()
	m.ObserveRun("native", OutcomeOK)
	require.NoError(t, m.Push(context.Background(), srv.URL, "hotel-rates"))
	assert.Equal(t, "/metrics/job/hotel-rates", gotPath)
	assert.NotEmpty(t, gotBody)
}
