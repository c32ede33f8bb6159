package observability

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

func counterValue(c prometheus.Counter) float64 {
	var m io_prometheus_client.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func TestRecordRunCreated(t *testing.T) {
	beforeRuns := counterValue(runsCreated)
	beforeDistance := counterValue(runDistance)

	RecordRunCreated(5.2)

	if got := counterValue(runsCreated) - beforeRuns; got != 1 {
		t.Fatalf("expected runs counter +1, got +%v", got)
	}
	if got := counterValue(runDistance) - beforeDistance; got < 5.19 || got > 5.21 {
		t.Fatalf("expected distance +5.2, got +%v", got)
	}
}

func TestRecordRunDeleted(t *testing.T) {
	before := counterValue(runsDeleted)
	RecordRunDeleted()
	if got := counterValue(runsDeleted) - before; got != 1 {
		t.Fatalf("expected +1, got +%v", got)
	}
}

func TestRecordHTTPRequest_UnmatchedRoute(t *testing.T) {
	c := httpRequests.WithLabelValues("unmatched", http.MethodGet, "404")
	before := counterValue(c)

	RecordHTTPRequest("", http.MethodGet, http.StatusNotFound, time.Millisecond)

	if got := counterValue(c) - before; got != 1 {
		t.Fatalf("expected +1, got +%v", got)
	}
}

func TestRecordLogin(t *testing.T) {
	c := loginAttempts.WithLabelValues("rate_limited")
	before := counterValue(c)

	RecordLogin("rate_limited")

	if got := counterValue(c) - before; got != 1 {
		t.Fatalf("expected +1, got +%v", got)
	}
}
