package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "workdays_http_requests_total",
		Help: "HTTP requests by route and status code",
	}, []string{"route", "code"})
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "workdays_http_request_duration_seconds",
		Help:    "HTTP request duration seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	Computations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "workdays_computations_total",
		Help: "Working-date computations by outcome",
	}, []string{"outcome"})
	HolidayRefreshes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "workdays_holiday_refresh_total",
		Help: "Total holiday list refreshes",
	})
	HolidayRefreshErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "workdays_holiday_refresh_errors_total",
		Help: "Total failed holiday list refreshes",
	})
	HolidayRefreshDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "workdays_holiday_refresh_duration_seconds",
		Help:    "Holiday list refresh duration seconds",
		Buckets: prometheus.DefBuckets,
	})
	HolidaysLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "workdays_holidays_loaded",
		Help: "Number of holiday dates in the current snapshot",
	})
	HolidaySnapshotTime = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "workdays_holiday_snapshot_timestamp_seconds",
		Help: "Unix time the current holiday snapshot was fetched",
	})
	FetchRetries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "workdays_holiday_fetch_retries_total",
		Help: "Total holiday fetch retry attempts",
	}, []string{"source"})
	CommandRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "workdays_command_runs_total",
		Help: "CLI command runs",
	}, []string{"command"})
	CommandErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "workdays_command_errors_total",
		Help: "CLI command errors",
	}, []string{"command"})
)

func init() {
	prometheus.MustRegister(
		Requests, RequestDuration, Computations,
		HolidayRefreshes, HolidayRefreshErrors, HolidayRefreshDuration,
		HolidaysLoaded, HolidaySnapshotTime, FetchRetries,
		CommandRuns, CommandErrors,
	)
}

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }

// StartServer serves /metrics on its own listener. An empty addr is a no-op.
func StartServer(addr string) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}

// ObserveRequest records one served request.
func ObserveRequest(route string, code int, start time.Time) {
	Requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
}

// ObserveRefreshDuration records a refresh duration.
func ObserveRefreshDuration(start time.Time) {
	HolidayRefreshDuration.Observe(time.Since(start).Seconds())
}

// SetSnapshot publishes the size and fetch time of the current holiday snapshot.
func SetSnapshot(count int, fetchedAt time.Time) {
	HolidaysLoaded.Set(float64(count))
	HolidaySnapshotTime.Set(float64(fetchedAt.Unix()))
}

func IncComputation(outcome string) { Computations.WithLabelValues(outcome).Inc() }

// IncFetchRetry increments the retry counter for a holiday source.
func IncFetchRetry(source string) { FetchRetries.WithLabelValues(source).Inc() }

func IncCommandRun(cmd string)   { CommandRuns.WithLabelValues(cmd).Inc() }
func IncCommandError(cmd string) { CommandErrors.WithLabelValues(cmd).Inc() }
