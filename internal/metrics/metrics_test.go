package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorsRegistered(t *testing.T) {
	SignalsTotal.WithLabelValues("SELL").Inc()

	mfs, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	found := false
	for _, mf := range mfs {
		if mf.GetName() == "ea_signals_total" {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("ea_signals_total metric not found")
	}
	if got := testutil.ToFloat64(SignalsTotal.WithLabelValues("SELL")); got < 1 {
		t.Fatalf("expected SELL counter incremented, got %.0f", got)
	}
}

func TestServeHandlerExposesMetrics(t *testing.T) {
	srv := Serve(":0")
	MessagesTotal.WithLabelValues("malformed").Inc()

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `ea_messages_total{result="malformed"}`) {
		t.Fatalf("metrics body missing messages counter")
	}
}
