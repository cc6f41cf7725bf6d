package promstats

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/user/framerec/pkg/dispatch"
	"github.com/user/framerec/pkg/recorder"
)

type fakeStats struct{ st recorder.Stats }

func (f fakeStats) Stats() recorder.Stats { return f.st }

func sample() fakeStats {
	return fakeStats{st: recorder.Stats{
		State:             "recording",
		Captures:          dispatch.Counters{Accepted: 42, QueueFull: 3, RateLimited: 7},
		QueueDepth:        5,
		QueueCapacity:     60,
		FramesWritten:     37,
		WriteFailures:     1,
		SessionsStarted:   2,
		SessionsSucceeded: 1,
	}}
}

func TestCollector_Gather(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(NewCollector(sample()))

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}

	values := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, lp := range m.GetLabel() {
				key += "/" + lp.GetValue()
			}
			switch {
			case m.Counter != nil:
				values[key] = m.GetCounter().GetValue()
			case m.Gauge != nil:
				values[key] = m.GetGauge().GetValue()
			}
		}
	}

	want := map[string]float64{
		"framerec_captures_total/accepted":     42,
		"framerec_captures_total/queue_full":   3,
		"framerec_captures_total/rate_limited": 7,
		"framerec_frames_written_total":        37,
		"framerec_frame_write_failures_total":  1,
		"framerec_queue_depth":                 5,
		"framerec_queue_capacity":              60,
		"framerec_sessions_total/started":      2,
		"framerec_sessions_total/succeeded":    1,
		"framerec_state/recording":             1,
		"framerec_state/idle":                  0,
	}
	for k, v := range want {
		got, ok := values[k]
		if !ok {
			t.Errorf("metric %s missing", k)
			continue
		}
		if got != v {
			t.Errorf("%s = %v, want %v", k, got, v)
		}
	}
}

func TestServer_Handler(t *testing.T) {
	srv, err := NewServer("127.0.0.1:0", sample())
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), `framerec_captures_total{outcome="accepted"} 42`) {
		t.Errorf("unexpected body:\n%s", body)
	}
}
