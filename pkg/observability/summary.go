package observability

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// LogSummary gathers metric families whose name starts with prefix and logs
// one line per series. Histograms are reported as count and sum.
func LogSummary(logger *slog.Logger, g prometheus.Gatherer, prefix string) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}

	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), prefix) {
			continue
		}
		for _, m := range mf.GetMetric() {
			args := labelArgs(m)
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				args = append(args, "value", m.GetCounter().GetValue())
			case dto.MetricType_GAUGE:
				args = append(args, "value", m.GetGauge().GetValue())
			case dto.MetricType_HISTOGRAM:
				args = append(args,
					"count", m.GetHistogram().GetSampleCount(),
					"sum", m.GetHistogram().GetSampleSum(),
				)
			default:
				continue
			}
			logger.Info(mf.GetName(), args...)
		}
	}
	return nil
}

func labelArgs(m *dto.Metric) []any {
	pairs := m.GetLabel()
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].GetName() < pairs[j].GetName() })
	args := make([]any, 0, len(pairs)*2+4)
	for _, lp := range pairs {
		args = append(args, lp.GetName(), lp.GetValue())
	}
	return args
}
