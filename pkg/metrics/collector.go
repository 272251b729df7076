package metrics

import (
	"time"

	"github.com/codeops/registry/pkg/store"
)

// Collector periodically samples the store and republishes the
// registry-wide gauges, so dashboards reflect current counts even
// between writes rather than only at request time.
type Collector struct {
	store  store.Store
	stopCh chan struct{}
}

// NewCollector creates a collector over s.
func NewCollector(s store.Store) *Collector {
	return &Collector{
		store:  s,
		stopCh: make(chan struct{}),
	}
}

// Start begins periodic collection on a 15 second interval.
func (c *Collector) Start() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		c.collect()
		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop halts periodic collection.
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	teams, err := c.store.ListTeams()
	if err != nil {
		return
	}

	var solutionsTotal, workstationsTotal float64

	for _, team := range teams {
		c.collectServiceMetrics(team.ID)
		c.collectDependencyMetrics(team.ID)
		c.collectPortMetrics(team.ID)

		solutions, err := c.store.ListSolutionsByTeam(team.ID)
		if err == nil {
			solutionsTotal += float64(len(solutions))
		}

		profiles, err := c.store.ListWorkstationProfilesByTeam(team.ID)
		if err == nil {
			workstationsTotal += float64(len(profiles))
		}
	}

	SolutionsTotal.Set(solutionsTotal)
	WorkstationProfilesTotal.Set(workstationsTotal)
}

func (c *Collector) collectServiceMetrics(teamID string) {
	services, err := c.store.ListServicesByTeam(teamID)
	if err != nil {
		return
	}

	counts := make(map[string]int)
	for _, svc := range services {
		counts[string(svc.Status)]++
	}
	for status, count := range counts {
		ServicesTotal.WithLabelValues(teamID, status).Set(float64(count))
	}
}

func (c *Collector) collectDependencyMetrics(teamID string) {
	deps, err := c.store.ListDependenciesByTeam(teamID)
	if err != nil {
		return
	}
	DependenciesTotal.WithLabelValues(teamID).Set(float64(len(deps)))
}

func (c *Collector) collectPortMetrics(teamID string) {
	allocations, err := c.store.ListPortAllocationsByTeam(teamID)
	if err != nil {
		return
	}

	counts := make(map[string]int)
	for _, alloc := range allocations {
		counts[string(alloc.Type)]++
	}
	for portType, count := range counts {
		PortAllocationsTotal.WithLabelValues(teamID, portType).Set(float64(count))
	}
}
