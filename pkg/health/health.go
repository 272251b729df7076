package health

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/codeops/registry/pkg/config"
	"github.com/codeops/registry/pkg/metrics"
	"github.com/codeops/registry/pkg/store"
	"github.com/codeops/registry/pkg/types"
)

// CheckResult is the outcome of a single probe against one service.
type CheckResult struct {
	ServiceID string
	Status    types.HealthStatus
	Message   string
	CheckedAt time.Time
}

// Aggregator is the health aggregator. It is safe for concurrent use.
type Aggregator struct {
	store  store.Store
	client *http.Client
}

// NewAggregator creates a health aggregator backed by s, probing over an
// HTTP client whose per-call timeout is config.HealthProbeTimeout.
func NewAggregator(s store.Store) *Aggregator {
	return &Aggregator{
		store:  s,
		client: &http.Client{Timeout: config.HealthProbeTimeout},
	}
}

// Check probes a single service. A service with no HealthCheckURL is
// UNKNOWN and is neither probed nor persisted. Otherwise the probe result
// is persisted onto the service's LastHealthStatus/LastHealthCheckAt.
func (a *Aggregator) Check(ctx context.Context, serviceID string) (*CheckResult, error) {
	svc, err := a.store.GetService(serviceID)
	if err != nil {
		return nil, err
	}

	if svc.HealthCheckURL == "" {
		return &CheckResult{
			ServiceID: serviceID,
			Status:    types.HealthStatusUnknown,
			Message:   "No health check URL configured",
			CheckedAt: time.Now(),
		}, nil
	}

	timer := metrics.NewTimer()
	result := a.probe(ctx, svc.HealthCheckURL)
	result.ServiceID = serviceID
	timer.ObserveDuration(metrics.HealthCheckDuration)
	metrics.HealthChecksTotal.WithLabelValues(string(result.Status)).Inc()

	svc.LastHealthStatus = result.Status
	svc.LastHealthCheckAt = &result.CheckedAt
	svc.UpdatedAt = result.CheckedAt
	if err := a.store.UpdateService(svc); err != nil {
		return nil, err
	}
	return result, nil
}

// probe issues the outbound GET and classifies the response. It never
// returns an error: transport failures classify as DOWN.
func (a *Aggregator) probe(ctx context.Context, url string) *CheckResult {
	now := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &CheckResult{Status: types.HealthStatusDown, Message: err.Error(), CheckedAt: now}
	}

	resp, err := a.client.Do(req)
	now = time.Now()
	if err != nil {
		return &CheckResult{Status: types.HealthStatusDown, Message: err.Error(), CheckedAt: now}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return &CheckResult{Status: types.HealthStatusUp, CheckedAt: now}
	}
	return &CheckResult{
		Status:    types.HealthStatusDegraded,
		Message:   fmt.Sprintf("HTTP %d", resp.StatusCode),
		CheckedAt: now,
	}
}

// checkAll fans probes out across goroutines joined by a sync.WaitGroup,
// one per service, and returns the per-service results plus the
// rolled-up status.
func (a *Aggregator) checkAll(ctx context.Context, services []*types.Service) (types.HealthStatus, []*CheckResult, error) {
	results := make([]*CheckResult, len(services))
	errs := make([]error, len(services))

	var wg sync.WaitGroup
	for i, svc := range services {
		wg.Add(1)
		go func(i int, svc *types.Service) {
			defer wg.Done()
			r, err := a.Check(ctx, svc.ID)
			results[i] = r
			errs[i] = err
		}(i, svc)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return "", nil, err
		}
	}
	return rollup(results), results, nil
}

// CheckTeam probes every ACTIVE service in a team and returns the
// roll-up plus individual results.
func (a *Aggregator) CheckTeam(ctx context.Context, teamID string) (types.HealthStatus, []*CheckResult, error) {
	services, err := a.store.ListServicesByTeam(teamID)
	if err != nil {
		return "", nil, err
	}
	active := make([]*types.Service, 0, len(services))
	for _, s := range services {
		if s.Status == types.ServiceStatusActive {
			active = append(active, s)
		}
	}
	return a.checkAll(ctx, active)
}

// CheckSolution probes every member service of a solution and returns
// the roll-up plus individual results.
func (a *Aggregator) CheckSolution(ctx context.Context, solutionID string) (types.HealthStatus, []*CheckResult, error) {
	members, err := a.store.ListSolutionMembers(solutionID)
	if err != nil {
		return "", nil, err
	}
	services := make([]*types.Service, 0, len(members))
	for _, m := range members {
		svc, err := a.store.GetService(m.ServiceID)
		if err != nil {
			return "", nil, err
		}
		services = append(services, svc)
	}
	return a.checkAll(ctx, services)
}

// rollup applies spec's DOWN > DEGRADED > UP > UNKNOWN precedence.
func rollup(results []*CheckResult) types.HealthStatus {
	hasDown, hasDegraded, hasUp := false, false, false
	for _, r := range results {
		switch r.Status {
		case types.HealthStatusDown:
			hasDown = true
		case types.HealthStatusDegraded:
			hasDegraded = true
		case types.HealthStatusUp:
			hasUp = true
		}
	}
	switch {
	case hasDown:
		return types.HealthStatusDown
	case hasDegraded:
		return types.HealthStatusDegraded
	case hasUp:
		return types.HealthStatusUp
	default:
		return types.HealthStatusUnknown
	}
}

// GetCachedServiceHealth reads a service's last-persisted health status
// without probing.
func (a *Aggregator) GetCachedServiceHealth(serviceID string) (*types.Service, error) {
	return a.store.GetService(serviceID)
}

// GetUnhealthy returns every team service whose last-observed status is
// DOWN or DEGRADED.
func (a *Aggregator) GetUnhealthy(teamID string) ([]*types.Service, error) {
	services, err := a.store.ListServicesByTeam(teamID)
	if err != nil {
		return nil, err
	}
	var unhealthy []*types.Service
	for _, s := range services {
		if s.LastHealthStatus == types.HealthStatusDown || s.LastHealthStatus == types.HealthStatusDegraded {
			unhealthy = append(unhealthy, s)
		}
	}
	return unhealthy, nil
}

// GetNeverChecked returns every team service that has never been probed.
func (a *Aggregator) GetNeverChecked(teamID string) ([]*types.Service, error) {
	services, err := a.store.ListServicesByTeam(teamID)
	if err != nil {
		return nil, err
	}
	var neverChecked []*types.Service
	for _, s := range services {
		if s.LastHealthCheckAt == nil {
			neverChecked = append(neverChecked, s)
		}
	}
	return neverChecked, nil
}
