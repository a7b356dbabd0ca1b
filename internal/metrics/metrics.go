package metrics

import (
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	IngestRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "postvault_ingest_runs_total",
		Help: "Total ingestion runs",
	})
	IngestErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "postvault_ingest_errors_total",
		Help: "Total per-document ingestion errors",
	})
	PostsNew = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "postvault_posts_new_total",
		Help: "Total posts created by ingestion",
	})
	PostsDuplicate = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "postvault_posts_duplicate_total",
		Help: "Total documents resolved to an already-archived post",
	})
	IngestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "postvault_ingest_duration_seconds",
		Help:    "Directory import duration seconds",
		Buckets: prometheus.DefBuckets,
	})
	CommandRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "postvault_command_runs_total",
		Help: "Total CLI command invocations",
	}, []string{"command"})
	CommandErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "postvault_command_errors_total",
		Help: "Total CLI command failures",
	}, []string{"command"})
)

func init() {
	prometheus.MustRegister(IngestRuns, IngestErrors, PostsNew, PostsDuplicate, IngestDuration, CommandRuns, CommandErrors)
}

// StartServer starts a metrics HTTP server on addr (e.g., ":9090").
func StartServer(addr string) {
	if addr == "" {
		addr = os.Getenv("METRICS_ADDR")
	}
	if addr == "" {
		return
	}
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	go func() { _ = http.ListenAndServe(addr, nil) }()
}

// ObserveIngestDuration records one import's duration.
func ObserveIngestDuration(start time.Time) {
	IngestDuration.Observe(time.Since(start).Seconds())
}

// IncCommandRun and IncCommandError track CLI usage per command.
func IncCommandRun(cmd string)   { CommandRuns.WithLabelValues(cmd).Inc() }
func IncCommandError(cmd string) { CommandErrors.WithLabelValues(cmd).Inc() }
