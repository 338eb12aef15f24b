package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	cardRevealsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "card_reveals_total",
			Help: "Card detail reveal attempts by outcome.",
		},
		[]string{"outcome"},
	)

	cardVerificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "card_verifications_total",
			Help: "Card secret verification checks by outcome.",
		},
		[]string{"outcome"},
	)

	reauthAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reauth_attempts_total",
			Help: "Password re-authentication attempts by outcome.",
		},
		[]string{"outcome"},
	)

	migrationRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "card_migration_runs_total",
		Help: "In-place card secret migration runs.",
	})

	migratedRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "card_migration_records_total",
			Help: "Records touched by card secret migration and import, by result.",
		},
		[]string{"result"},
	)
)

var registerOnce sync.Once

// Init registers all collectors with the default registry
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestsTotal,
			httpRequestDuration,
			cardRevealsTotal,
			cardVerificationsTotal,
			reauthAttemptsTotal,
			migrationRunsTotal,
			migratedRecordsTotal,
		)
	})
}

// Handler exposes the Prometheus scrape endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRequest records one completed HTTP request
func ObserveRequest(method, path string, status int, latency time.Duration) {
	code := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, path, code).Inc()
	httpRequestDuration.WithLabelValues(method, path, code).Observe(latency.Seconds())
}

// RecordReveal counts one reveal attempt. Outcome is one of
// "granted", "denied" or "error".
func RecordReveal(outcome string) {
	cardRevealsTotal.WithLabelValues(outcome).Inc()
}

// RecordVerification counts one secret verification check
func RecordVerification(match bool) {
	outcome := "mismatch"
	if match {
		outcome = "match"
	}
	cardVerificationsTotal.WithLabelValues(outcome).Inc()
}

// RecordReauth counts one password re-entry attempt
func RecordReauth(success bool) {
	outcome := "failed"
	if success {
		outcome = "success"
	}
	reauthAttemptsTotal.WithLabelValues(outcome).Inc()
}

// RecordMigrationRun counts one migration invocation and its per-record
// results
func RecordMigrationRun(migrated, skipped int) {
	migrationRunsTotal.Inc()
	migratedRecordsTotal.WithLabelValues("migrated").Add(float64(migrated))
	migratedRecordsTotal.WithLabelValues("skipped").Add(float64(skipped))
}

// RecordImport counts per-record import results
func RecordImport(imported, skipped, errored int) {
	migratedRecordsTotal.WithLabelValues("imported").Add(float64(imported))
	migratedRecordsTotal.WithLabelValues("skipped").Add(float64(skipped))
	migratedRecordsTotal.WithLabelValues("errored").Add(float64(errored))
}
