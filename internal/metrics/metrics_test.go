package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

var _ prometheus.Gatherer = (*Registry)(nil)

// findHistogram gathers the registry and returns the named histogram's
// first series.
func findHistogram(t *testing.T, g prometheus.Gatherer, name string) *dto.Histogram {
	t.Helper()
	mfs, err := g.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf.GetMetric()[0].GetHistogram()
		}
	}
	t.Fatalf("histogram %s not gathered", name)
	return nil
}

func TestNewRegistry_RuntimeCollectors(t *testing.T) {
	reg := NewRegistry()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, mf := range mfs {
		if mf.GetName() == "go_goroutines" {
			found = true
		}
	}
	if !found {
		t.Error("expected the Go runtime collector to be registered")
	}
}

func TestRegistry_RecordRequest(t *testing.T) {
	reg := NewRegistry()

	reg.RecordRequest("GET", "/api/dashboard", 200, 0.05)
	reg.RecordRequest("GET", "/api/dashboard", 200, 0.07)
	reg.RecordRequest("GET", "/api/dashboard", 500, 0.01)

	if got := testutil.ToFloat64(reg.httpRequestsTotal.WithLabelValues("GET", "/api/dashboard", "2xx")); got != 2 {
		t.Errorf("2xx count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(reg.httpRequestsTotal.WithLabelValues("GET", "/api/dashboard", "5xx")); got != 1 {
		t.Errorf("5xx count = %v, want 1", got)
	}
}

func TestRegistry_RequestDuration(t *testing.T) {
	reg := NewRegistry()

	reg.RecordRequest("POST", "/api/scan", 200, 0.123)

	hist := findHistogram(t, reg, "http_request_duration_seconds")
	if hist.GetSampleCount() != 1 {
		t.Errorf("sample count = %d, want 1", hist.GetSampleCount())
	}
	if sum := hist.GetSampleSum(); sum < 0.12 || sum > 0.13 {
		t.Errorf("sample sum = %v, want ~0.123", sum)
	}
}

func TestRegistry_InFlight(t *testing.T) {
	reg := NewRegistry()

	reg.InFlightInc()
	reg.InFlightInc()
	reg.InFlightDec()

	if got := testutil.ToFloat64(reg.httpRequestsInFlight); got != 1 {
		t.Errorf("in-flight = %v, want 1", got)
	}
}

func TestRegistry_UpstreamConnected(t *testing.T) {
	reg := NewRegistry()

	reg.SetUpstreamConnected(true)
	if got := testutil.ToFloat64(reg.upstreamConnected); got != 1 {
		t.Errorf("connected gauge = %v, want 1", got)
	}

	reg.SetUpstreamConnected(false)
	if got := testutil.ToFloat64(reg.upstreamConnected); got != 0 {
		t.Errorf("connected gauge = %v, want 0", got)
	}
}

func TestRegistry_UpstreamOutcomes(t *testing.T) {
	reg := NewRegistry()

	reg.RecordUpstream("market_data", true)
	reg.RecordUpstream("market_data", true)
	reg.RecordUpstream("market_data", false)

	if got := testutil.ToFloat64(reg.upstreamRequests.WithLabelValues("market_data", "ok")); got != 2 {
		t.Errorf("ok count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(reg.upstreamRequests.WithLabelValues("market_data", "error")); got != 1 {
		t.Errorf("error count = %v, want 1", got)
	}
}

func TestRegistry_Fallbacks(t *testing.T) {
	reg := NewRegistry()

	reg.RecordFallback("market_data")
	reg.RecordFallback("analysis")

	if got := testutil.ToFloat64(reg.fallbackServed.WithLabelValues("market_data")); got != 1 {
		t.Errorf("market_data fallbacks = %v, want 1", got)
	}
	if got := testutil.ToFloat64(reg.fallbackServed.WithLabelValues("analysis")); got != 1 {
		t.Errorf("analysis fallbacks = %v, want 1", got)
	}
}

func TestRegistry_RefreshAndStale(t *testing.T) {
	reg := NewRegistry()

	reg.RecordRefresh(0.5)
	reg.RecordRefresh(0.7)
	reg.RecordStaleDrop()

	if got := testutil.ToFloat64(reg.refreshCycles); got != 2 {
		t.Errorf("refresh cycles = %v, want 2", got)
	}
	if got := testutil.ToFloat64(reg.staleDropped); got != 1 {
		t.Errorf("stale drops = %v, want 1", got)
	}

	hist := findHistogram(t, reg, "tsd_refresh_duration_seconds")
	if hist.GetSampleCount() != 2 {
		t.Errorf("refresh duration samples = %d, want 2", hist.GetSampleCount())
	}
}

func TestRegistry_ScansAndJobs(t *testing.T) {
	reg := NewRegistry()

	reg.RecordScan("completed", 12.5)
	reg.RecordScan("failed", 0.3)
	reg.SetJobsActive("scan", 3)

	if got := testutil.ToFloat64(reg.scansTotal.WithLabelValues("completed")); got != 1 {
		t.Errorf("completed scans = %v, want 1", got)
	}
	if got := testutil.ToFloat64(reg.scansTotal.WithLabelValues("failed")); got != 1 {
		t.Errorf("failed scans = %v, want 1", got)
	}
	if got := testutil.ToFloat64(reg.jobsActive.WithLabelValues("scan")); got != 3 {
		t.Errorf("active jobs = %v, want 3", got)
	}

	hist := findHistogram(t, reg, "tsd_scan_duration_seconds")
	if hist.GetSampleCount() != 2 {
		t.Errorf("scan duration samples = %d, want 2", hist.GetSampleCount())
	}
}

func TestRegistry_RoutingAndArchives(t *testing.T) {
	reg := NewRegistry()

	reg.RecordSignalRouted("telegram", "ok")
	reg.RecordSignalRouted("telegram", "error")
	reg.RecordArchive("s3", "ok")

	if got := testutil.ToFloat64(reg.signalsRouted.WithLabelValues("telegram", "ok")); got != 1 {
		t.Errorf("routed ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(reg.signalsRouted.WithLabelValues("telegram", "error")); got != 1 {
		t.Errorf("routed error = %v, want 1", got)
	}
	if got := testutil.ToFloat64(reg.archivesTotal.WithLabelValues("s3", "ok")); got != 1 {
		t.Errorf("archives = %v, want 1", got)
	}
}

func TestStatusClass(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{201, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{404, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
		{0, "unknown"},
		{999, "unknown"},
	}

	for _, tt := range tests {
		if got := statusClass(tt.status); got != tt.want {
			t.Errorf("statusClass(%d) = %q, want %q", tt.status, got, tt.want)
		}
	}
}
