package workstations

import (
	"sync"
	"time"

	"github.com/codeops/registry/pkg/apperrors"
	"github.com/codeops/registry/pkg/config"
	"github.com/codeops/registry/pkg/depgraph"
	"github.com/codeops/registry/pkg/store"
	"github.com/codeops/registry/pkg/types"
	"github.com/google/uuid"
)

// Manager is the workstation bundle manager. Multi-step check-then-act
// sequences (name uniqueness, set resolution + startup-order projection)
// are serialized by mu, matching pkg/solutions.
type Manager struct {
	store  store.Store
	graph  *depgraph.Engine
	limits config.Limits
	mu     sync.Mutex
}

// NewManager creates a workstation manager backed by s, projecting
// startup order through graph and enforcing the given per-team caps.
func NewManager(s store.Store, graph *depgraph.Engine, limits config.Limits) *Manager {
	return &Manager{store: s, graph: graph, limits: limits}
}

func (m *Manager) nameTaken(teamID, name string) (bool, error) {
	_, err := m.store.GetWorkstationProfileByTeamName(teamID, name)
	if err == nil {
		return true, nil
	}
	if apperrors.Is(err, apperrors.KindNotFound) {
		return false, nil
	}
	return false, err
}

// projectStartupOrder intersects the team's current startup order with
// serviceIDs, preserving the team's relative order.
func (m *Manager) projectStartupOrder(teamID string, serviceIDs []string) ([]string, error) {
	teamOrder, err := m.graph.StartupOrder(teamID)
	if err != nil {
		return nil, err
	}
	in := make(map[string]bool, len(serviceIDs))
	for _, id := range serviceIDs {
		in[id] = true
	}
	order := make([]string, 0, len(serviceIDs))
	for _, id := range teamOrder {
		if in[id] {
			order = append(order, id)
		}
	}
	return order, nil
}

func (m *Manager) resolveServiceIDs(teamID string, explicit []string, solutionID *string) ([]string, error) {
	var ids []string
	switch {
	case len(explicit) > 0:
		ids = explicit
	case solutionID != nil:
		members, err := m.store.ListSolutionMembers(*solutionID)
		if err != nil {
			return nil, err
		}
		for _, mbr := range members {
			ids = append(ids, mbr.ServiceID)
		}
	default:
		return nil, apperrors.Validation("must provide either an explicit service list or a source solution")
	}

	services, err := m.store.ListServicesByIDs(teamID, ids)
	if err != nil {
		return nil, err
	}
	if len(services) != len(ids) {
		return nil, apperrors.NotFound("one or more services not found in team")
	}
	return ids, nil
}

// CreateProfile validates team caps and name uniqueness, resolves the
// profile's service-id set from either explicitServiceIDs or
// sourceSolutionID, and persists a cached startup order for that set.
func (m *Manager) CreateProfile(teamID, name, description string, explicitServiceIDs []string, sourceSolutionID *string, createdBy string) (*types.WorkstationProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, err := m.store.ListWorkstationProfilesByTeam(teamID)
	if err != nil {
		return nil, err
	}
	if len(existing) >= m.limits.MaxWorkstationProfilesPerTeam {
		return nil, apperrors.Validationf("team has reached the maximum of %d workstation profiles", m.limits.MaxWorkstationProfilesPerTeam)
	}

	if taken, err := m.nameTaken(teamID, name); err != nil {
		return nil, err
	} else if taken {
		return nil, apperrors.Validationf("workstation profile named %q already exists", name)
	}

	serviceIDs, err := m.resolveServiceIDs(teamID, explicitServiceIDs, sourceSolutionID)
	if err != nil {
		return nil, err
	}
	startupOrder, err := m.projectStartupOrder(teamID, serviceIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	profile := &types.WorkstationProfile{
		ID:               uuid.NewString(),
		TeamID:           teamID,
		Name:             name,
		Description:      description,
		SourceSolutionID: sourceSolutionID,
		ServiceIDs:       serviceIDs,
		StartupOrder:     startupOrder,
		IsDefault:        false,
		CreatedBy:        createdBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := m.store.CreateWorkstationProfile(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// CreateFromSolution is a shorthand for CreateProfile: name defaults to
// "Solution: <solution.Name>" and the service set is the solution's
// membership.
func (m *Manager) CreateFromSolution(solutionID, createdBy string) (*types.WorkstationProfile, error) {
	sol, err := m.store.GetSolution(solutionID)
	if err != nil {
		return nil, err
	}
	return m.CreateProfile(sol.TeamID, "Solution: "+sol.Name, sol.Description, nil, &solutionID, createdBy)
}

// UpdateProfile applies the given field changes. A non-nil name is
// re-checked for uniqueness; a non-nil serviceIDs re-resolves the set and
// recomputes the cached startup order.
func (m *Manager) UpdateProfile(id string, name, description *string, serviceIDs []string, sourceSolutionID *string) (*types.WorkstationProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	profile, err := m.store.GetWorkstationProfile(id)
	if err != nil {
		return nil, err
	}

	if name != nil && *name != profile.Name {
		if taken, err := m.nameTaken(profile.TeamID, *name); err != nil {
			return nil, err
		} else if taken {
			return nil, apperrors.Validationf("workstation profile named %q already exists", *name)
		}
		profile.Name = *name
	}
	if description != nil {
		profile.Description = *description
	}
	if serviceIDs != nil {
		resolved, err := m.resolveServiceIDs(profile.TeamID, serviceIDs, sourceSolutionID)
		if err != nil {
			return nil, err
		}
		order, err := m.projectStartupOrder(profile.TeamID, resolved)
		if err != nil {
			return nil, err
		}
		profile.ServiceIDs = resolved
		profile.StartupOrder = order
		profile.SourceSolutionID = sourceSolutionID
	}

	profile.UpdatedAt = time.Now()
	if err := m.store.UpdateWorkstationProfile(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// SetDefault clears any existing default profile for the team, then
// marks id as the default.
func (m *Manager) SetDefault(id string) (*types.WorkstationProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	profile, err := m.store.GetWorkstationProfile(id)
	if err != nil {
		return nil, err
	}

	all, err := m.store.ListWorkstationProfilesByTeam(profile.TeamID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	for _, p := range all {
		if p.IsDefault && p.ID != id {
			p.IsDefault = false
			p.UpdatedAt = now
			if err := m.store.UpdateWorkstationProfile(p); err != nil {
				return nil, err
			}
		}
	}

	profile.IsDefault = true
	profile.UpdatedAt = now
	if err := m.store.UpdateWorkstationProfile(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// RefreshStartupOrder recomputes and persists the cached startup order
// from the current dependency graph, without changing the service set.
func (m *Manager) RefreshStartupOrder(id string) (*types.WorkstationProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	profile, err := m.store.GetWorkstationProfile(id)
	if err != nil {
		return nil, err
	}
	order, err := m.projectStartupOrder(profile.TeamID, profile.ServiceIDs)
	if err != nil {
		return nil, err
	}
	profile.StartupOrder = order
	profile.UpdatedAt = time.Now()
	if err := m.store.UpdateWorkstationProfile(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// DeleteProfile deletes a workstation profile by id.
func (m *Manager) DeleteProfile(id string) error {
	return m.store.DeleteWorkstationProfile(id)
}
