package registry

import (
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/codeops/registry/pkg/apperrors"
	"github.com/codeops/registry/pkg/config"
	"github.com/codeops/registry/pkg/configgen"
	"github.com/codeops/registry/pkg/depgraph"
	"github.com/codeops/registry/pkg/health"
	"github.com/codeops/registry/pkg/inventory"
	"github.com/codeops/registry/pkg/ports"
	"github.com/codeops/registry/pkg/routes"
	"github.com/codeops/registry/pkg/solutions"
	"github.com/codeops/registry/pkg/store"
	"github.com/codeops/registry/pkg/topology"
	"github.com/codeops/registry/pkg/types"
	"github.com/codeops/registry/pkg/workstations"
	"github.com/google/uuid"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Registry is the orchestration facade. Every exported engine field is
// safe for concurrent use on its own. Registry additionally holds its
// own mutex, mirroring the pattern in pkg/ports, pkg/depgraph,
// pkg/routes, pkg/solutions, and pkg/workstations: its own check-then-act
// methods (CreateTeam, CreateService, CloneService, SetEnvironmentConfig)
// serialize their slug/key collision scan against their insert across the
// two separate store transactions involved.
type Registry struct {
	Store  store.Store
	limits config.Limits
	mu     sync.Mutex

	DepGraph     *depgraph.Engine
	Ports        *ports.Engine
	Routes       *routes.Manager
	Solutions    *solutions.Manager
	Workstations *workstations.Manager
	Inventory    *inventory.Ledger
	Health       *health.Aggregator
	Config       *configgen.Generator
	Topology     *topology.Projector
}

// New wires a Registry around s, enforcing limits across every engine
// that takes a per-team cap.
func New(s store.Store, limits config.Limits) *Registry {
	graph := depgraph.NewEngine(s, limits)
	return &Registry{
		Store:        s,
		limits:       limits,
		DepGraph:     graph,
		Ports:        ports.NewEngine(s),
		Routes:       routes.NewManager(s),
		Solutions:    solutions.NewManager(s, limits),
		Workstations: workstations.NewManager(s, graph, limits),
		Inventory:    inventory.NewLedger(s),
		Health:       health.NewAggregator(s),
		Config:       configgen.NewGenerator(s, graph),
		Topology:     topology.NewProjector(s),
	}
}

// CreateTeam validates a team's slug and persists it.
func (r *Registry) CreateTeam(name, slug string) (*types.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !slugPattern.MatchString(slug) {
		return nil, apperrors.Validation("slug must match [a-z0-9-]+")
	}
	if _, err := r.Store.GetTeamBySlug(slug); err == nil {
		return nil, apperrors.Validationf("team slug already in use: %s", slug)
	} else if !apperrors.Is(err, apperrors.KindNotFound) {
		return nil, err
	}

	team := &types.Team{ID: uuid.NewString(), Name: name, Slug: slug, CreatedAt: time.Now()}
	if err := r.Store.CreateTeam(team); err != nil {
		return nil, err
	}
	return team, nil
}

// uniqueServiceSlug applies the registry-wide numeric-suffix uniquify rule:
// on collision within a team, append -2, -3, … until a free slug is found.
func uniqueServiceSlug(s store.Store, teamID, base string) (string, error) {
	slug := base
	for i := 2; ; i++ {
		_, err := s.GetServiceByTeamSlug(teamID, slug)
		if err != nil {
			if apperrors.Is(err, apperrors.KindNotFound) {
				return slug, nil
			}
			return "", err
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// CreateService validates a service's slug shape and persists it under a
// team-unique slug, applying a numeric-suffix uniquify on collision.
// LastHealthStatus defaults to unknown.
func (r *Registry) CreateService(teamID, name, slug string, typ types.ServiceType, repoURL, branch, techStack, description string, createdBy string) (*types.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !slugPattern.MatchString(slug) {
		return nil, apperrors.Validation("slug must match [a-z0-9-]+")
	}
	if _, err := r.Store.GetTeam(teamID); err != nil {
		return nil, err
	}
	existing, err := r.Store.ListServicesByTeam(teamID)
	if err != nil {
		return nil, err
	}
	if len(existing) >= r.limits.MaxServicesPerTeam {
		return nil, apperrors.Validationf("team has reached the maximum of %d services", r.limits.MaxServicesPerTeam)
	}
	finalSlug, err := uniqueServiceSlug(r.Store, teamID, slug)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	svc := &types.Service{
		ID: uuid.NewString(), TeamID: teamID, Name: name, Slug: finalSlug, Type: typ,
		RepoURL: repoURL, Branch: branch, TechStack: techStack, Description: description,
		Status:           types.ServiceStatusActive,
		LastHealthStatus: types.HealthStatusUnknown,
		CreatedBy:        createdBy, CreatedAt: now, UpdatedAt: now,
	}
	if err := r.Store.CreateService(svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// UpdateService applies mutate to a service's mutable fields and persists
// the result.
func (r *Registry) UpdateService(id string, mutate func(*types.Service)) (*types.Service, error) {
	svc, err := r.Store.GetService(id)
	if err != nil {
		return nil, err
	}
	mutate(svc)
	svc.UpdatedAt = time.Now()
	if err := r.Store.UpdateService(svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// DeleteService blocks deletion if the service is a solution member or
// the target of any required dependency; otherwise deletes it (the
// store cascades its port allocations).
func (r *Registry) DeleteService(id string) error {
	memberships, err := r.Store.ListSolutionMembershipsByService(id)
	if err != nil {
		return err
	}
	if len(memberships) > 0 {
		return apperrors.Validation("cannot delete service: it belongs to solutions")
	}

	inbound, err := r.Store.ListDependenciesByTarget(id)
	if err != nil {
		return err
	}
	for _, dep := range inbound {
		if dep.Required {
			return apperrors.Validation("cannot delete service: it has active dependents (required inbound dependency)")
		}
	}

	return r.Store.DeleteService(id)
}

// CloneService copies a service's record under a new, collision
// -suffixed slug and optionally re-runs auto-allocation in
// targetEnvironment for each port type the source had allocated in its
// own environments.
func (r *Registry) CloneService(sourceID, newSlug, targetEnvironment string, reallocatePorts bool, allocator string) (*types.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	source, err := r.Store.GetService(sourceID)
	if err != nil {
		return nil, err
	}

	finalSlug, err := uniqueServiceSlug(r.Store, source.TeamID, newSlug)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	clone := &types.Service{
		ID: uuid.NewString(), TeamID: source.TeamID, Name: source.Name, Slug: finalSlug,
		Type: source.Type, RepoURL: source.RepoURL, Branch: source.Branch, TechStack: source.TechStack,
		Description:      source.Description,
		Status:           types.ServiceStatusActive,
		LastHealthStatus: types.HealthStatusUnknown,
		CreatedBy:        source.CreatedBy, CreatedAt: now, UpdatedAt: now,
	}
	if err := r.Store.CreateService(clone); err != nil {
		return nil, err
	}

	if reallocatePorts {
		sourcePorts, err := r.Store.ListPortAllocationsByService(sourceID)
		if err != nil {
			return nil, err
		}
		seen := make(map[types.PortType]bool)
		for _, p := range sourcePorts {
			if seen[p.Type] {
				continue
			}
			seen[p.Type] = true
			if _, err := r.Ports.AutoAllocate(clone.ID, targetEnvironment, p.Type, allocator); err != nil {
				return nil, err
			}
		}
	}

	return clone, nil
}

// SetEnvironmentConfig upserts one (service, environment, key) config row.
func (r *Registry) SetEnvironmentConfig(serviceID, environment, key, value string, source types.ConfigSource, description string) (*types.EnvironmentConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	svc, err := r.Store.GetService(serviceID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	existing, err := r.Store.GetEnvironmentConfigByKey(serviceID, environment, key)
	if err == nil {
		existing.Value = value
		existing.Source = source
		existing.Description = description
		existing.UpdatedAt = now
		if err := r.Store.UpdateEnvironmentConfig(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}
	if !apperrors.Is(err, apperrors.KindNotFound) {
		return nil, err
	}

	cfg := &types.EnvironmentConfig{
		ID: uuid.NewString(), TeamID: svc.TeamID, ServiceID: serviceID, Environment: environment,
		Key: key, Value: value, Source: source, Description: description,
		CreatedAt: now, UpdatedAt: now,
	}
	if err := r.Store.CreateEnvironmentConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
