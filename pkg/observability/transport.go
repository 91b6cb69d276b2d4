package observability

import (
	"net/http"
	"strconv"
	"time"
)

// InstrumentTransport wraps an http.RoundTripper to record outbound request
// metrics. A nil next uses http.DefaultTransport.
//
// It captures:
//   - litedemo_http_requests_total (counter): method and status class ("2xx", "5xx", "error")
//   - litedemo_http_request_duration_seconds (histogram): time until response headers
func InstrumentTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &metricsTransport{next: next}
}

type metricsTransport struct {
	next http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *metricsTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	HTTPRequestDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())

	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode/100) + "xx"
	}
	HTTPRequestsTotal.WithLabelValues(req.Method, status).Inc()
	return resp, err
}
