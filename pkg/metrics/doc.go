/*
Package metrics defines and registers the registry's Prometheus
metrics: entity counts by team, HTTP request instrumentation, and
per-engine timing for the dependency graph, port allocator, config
generator, and health aggregator.

# Architecture

	┌──────────────────── METRICS SYSTEM ──────────────────────┐
	│                                                            │
	│  ┌────────────────────────────────────────────┐          │
	│  │          Prometheus Registry                │          │
	│  │  - Global DefaultRegistry                   │          │
	│  │  - MustRegister at package init             │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │              Metric Categories               │          │
	│  │                                              │          │
	│  │  Registry: services, dependencies, ports,   │          │
	│  │    solutions, workstation profiles          │          │
	│  │  API: request count and duration by route   │          │
	│  │  Engines: allocation attempts/conflicts,    │          │
	│  │    dependency create/startup-order timing,  │          │
	│  │    config generation, health check timing   │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │          HTTP Metrics Endpoint              │          │
	│  │  - Path: /metrics                           │          │
	│  │  - Handler: metrics.Handler()                │          │
	│  └────────────────────────────────────────────┘           │
	└────────────────────────────────────────────────────────┘

# Collection

Counters and histograms are updated inline by the package that owns
the operation: configgen (generation count and duration), health (probe
count and duration) and internal/httpapi (request count and duration).
The port-allocation and dependency-graph metrics are registered, but
neither pkg/ports nor pkg/depgraph updates them, so they stay at zero.
Gauges that reflect overall state (service/dependency/port/solution/
workstation counts) are instead republished periodically by a
Collector, since no single write path can keep them current across
every team.

	collector := metrics.NewCollector(store)
	collector.Start()
	defer collector.Stop()

# Usage

Recording a counter:

	metrics.HealthChecksTotal.WithLabelValues(string(result.Status)).Inc()

Timing an operation:

	timer := metrics.NewTimer()
	// ... perform operation ...
	timer.ObserveDuration(metrics.HealthCheckDuration)

Exposing the endpoint:

	http.Handle("/metrics", metrics.Handler())
	http.ListenAndServe(":9090", nil)

# See Also

  - pkg/health for the checker that drives HealthChecksTotal
  - pkg/configgen for the generator that drives ConfigGenerationsTotal
  - internal/httpapi for API request instrumentation
*/
package metrics
