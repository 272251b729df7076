package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry metrics
	ServicesTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "registry_services_total",
			Help: "Total number of registered services by team and status",
		},
		[]string{"team_id", "status"},
	)

	DependenciesTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "registry_dependencies_total",
			Help: "Total number of dependency edges by team",
		},
		[]string{"team_id"},
	)

	PortAllocationsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "registry_port_allocations_total",
			Help: "Total number of port allocations by team and port type",
		},
		[]string{"team_id", "port_type"},
	)

	SolutionsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "registry_solutions_total",
			Help: "Total number of solutions",
		},
	)

	WorkstationProfilesTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "registry_workstation_profiles_total",
			Help: "Total number of workstation profiles",
		},
	)

	// API metrics
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_api_requests_total",
			Help: "Total number of API requests by method and status",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "registry_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Port allocation engine metrics
	PortAllocationAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_port_allocation_attempts_total",
			Help: "Total number of port allocation attempts by outcome",
		},
		[]string{"outcome"},
	)

	PortAllocationConflictsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "registry_port_allocation_conflicts_total",
			Help: "Total number of port conflicts found by the allocation auditor",
		},
	)

	// Dependency graph engine metrics
	DependencyCreateDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "registry_dependency_create_duration_seconds",
			Help:    "Time taken to validate and persist a dependency edge in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	CycleRejectionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "registry_cycle_rejections_total",
			Help: "Total number of dependency creations rejected for introducing a cycle",
		},
	)

	StartupOrderDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "registry_startup_order_duration_seconds",
			Help:    "Time taken to compute a team's startup order in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Config generator metrics
	ConfigGenerationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_config_generations_total",
			Help: "Total number of config template generations by type",
		},
		[]string{"template_type"},
	)

	ConfigGenerationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "registry_config_generation_duration_seconds",
			Help:    "Time taken to render a config template in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"template_type"},
	)

	// Health aggregator metrics
	HealthChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_health_checks_total",
			Help: "Total number of service health probes by result",
		},
		[]string{"status"},
	)

	HealthCheckDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "registry_health_check_duration_seconds",
			Help:    "Time taken for a single outbound health probe in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(ServicesTotal)
	prometheus.MustRegister(DependenciesTotal)
	prometheus.MustRegister(PortAllocationsTotal)
	prometheus.MustRegister(SolutionsTotal)
	prometheus.MustRegister(WorkstationProfilesTotal)
	prometheus.MustRegister(APIRequestsTotal)
	prometheus.MustRegister(APIRequestDuration)

	prometheus.MustRegister(PortAllocationAttemptsTotal)
	prometheus.MustRegister(PortAllocationConflictsTotal)
	prometheus.MustRegister(DependencyCreateDuration)
	prometheus.MustRegister(CycleRejectionsTotal)
	prometheus.MustRegister(StartupOrderDuration)
	prometheus.MustRegister(ConfigGenerationsTotal)
	prometheus.MustRegister(ConfigGenerationDuration)
	prometheus.MustRegister(HealthChecksTotal)
	prometheus.MustRegister(HealthCheckDuration)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
