package observability

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestLogSummary(t *testing.T) {
	reg := prometheus.NewRegistry()
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "demo_calls_total",
		Help: "calls",
	}, []string{"mode", "status"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: "demo_latency_seconds",
		Help: "latency",
	})
	other := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "unrelated_gauge",
		Help: "ignored",
	})
	reg.MustRegister(calls, latency, other)

	calls.WithLabelValues("stream", "success").Add(2)
	latency.Observe(0.25)
	other.Set(7)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	if err := LogSummary(logger, reg, "demo_"); err != nil {
		t.Fatalf("LogSummary: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"msg=demo_calls_total mode=stream status=success value=2",
		"msg=demo_latency_seconds count=1 sum=0.25",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "unrelated_gauge") {
		t.Errorf("summary should skip metrics without the prefix:\n%s", out)
	}
}
