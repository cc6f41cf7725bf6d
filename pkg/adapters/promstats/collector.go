// Package promstats exports recorder statistics as Prometheus metrics.
package promstats

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/user/framerec/pkg/recorder"
)

const namespace = "framerec"

// StatsSource is satisfied by *recorder.Recorder.
type StatsSource interface {
	Stats() recorder.Stats
}

// Collector implements prometheus.Collector over a StatsSource.
type Collector struct {
	src StatsSource

	captures      *prometheus.Desc
	framesWritten *prometheus.Desc
	writeFailures *prometheus.Desc
	queueDepth    *prometheus.Desc
	queueCapacity *prometheus.Desc
	sessions      *prometheus.Desc
	state         *prometheus.Desc
}

// NewCollector creates a collector reading from src on every scrape.
func NewCollector(src StatsSource) *Collector {
	return &Collector{
		src: src,
		captures: prometheus.NewDesc(namespace+"_captures_total",
			"Capture requests by outcome.", []string{"outcome"}, nil),
		framesWritten: prometheus.NewDesc(namespace+"_frames_written_total",
			"Frames persisted to the temp directory.", nil, nil),
		writeFailures: prometheus.NewDesc(namespace+"_frame_write_failures_total",
			"Frames that could not be persisted.", nil, nil),
		queueDepth: prometheus.NewDesc(namespace+"_queue_depth",
			"Frames waiting for the persistence worker.", nil, nil),
		queueCapacity: prometheus.NewDesc(namespace+"_queue_capacity",
			"Frame queue capacity of the active session.", nil, nil),
		sessions: prometheus.NewDesc(namespace+"_sessions_total",
			"Recording sessions by result.", []string{"result"}, nil),
		state: prometheus.NewDesc(namespace+"_state",
			"1 for the current recorder state.", []string{"state"}, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.captures
	ch <- c.framesWritten
	ch <- c.writeFailures
	ch <- c.queueDepth
	ch <- c.queueCapacity
	ch <- c.sessions
	ch <- c.state
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	st := c.src.Stats()
	cc := st.Captures

	for outcome, v := range map[string]uint64{
		"accepted":      cc.Accepted,
		"not_recording": cc.NotRecording,
		"queue_full":    cc.QueueFull,
		"rate_limited":  cc.RateLimited,
		"out_of_bounds": cc.OutOfBounds,
		"read_failed":   cc.ReadFailed,
		"executor_busy": cc.ExecutorBusy,
		"stopped":       cc.Stopped,
	} {
		ch <- prometheus.MustNewConstMetric(c.captures, prometheus.CounterValue, float64(v), outcome)
	}

	ch <- prometheus.MustNewConstMetric(c.framesWritten, prometheus.CounterValue, float64(st.FramesWritten))
	ch <- prometheus.MustNewConstMetric(c.writeFailures, prometheus.CounterValue, float64(st.WriteFailures))
	ch <- prometheus.MustNewConstMetric(c.queueDepth, prometheus.GaugeValue, float64(st.QueueDepth))
	ch <- prometheus.MustNewConstMetric(c.queueCapacity, prometheus.GaugeValue, float64(st.QueueCapacity))

	ch <- prometheus.MustNewConstMetric(c.sessions, prometheus.CounterValue, float64(st.SessionsStarted), "started")
	ch <- prometheus.MustNewConstMetric(c.sessions, prometheus.CounterValue, float64(st.SessionsSucceeded), "succeeded")
	ch <- prometheus.MustNewConstMetric(c.sessions, prometheus.CounterValue, float64(st.SessionsFailed), "failed")

	for _, s := range []string{"idle", "starting", "recording", "finalizing"} {
		v := 0.0
		if st.State == s {
			v = 1
		}
		ch <- prometheus.MustNewConstMetric(c.state, prometheus.GaugeValue, v, s)
	}
}

// Server serves /metrics for one registry.
type Server struct {
	srv *http.Server
}

// NewServer registers a collector for src and prepares an HTTP server on addr.
func NewServer(addr string, src StatsSource) (*Server, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(NewCollector(src)); err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return &Server{srv: &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}}, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run serves until Shutdown. It returns nil after a clean shutdown.
func (s *Server) Run() error {
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
