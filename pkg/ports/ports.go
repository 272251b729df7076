package ports

import (
	"sort"
	"sync"
	"time"

	"github.com/codeops/registry/pkg/apperrors"
	"github.com/codeops/registry/pkg/config"
	"github.com/codeops/registry/pkg/log"
	"github.com/codeops/registry/pkg/store"
	"github.com/codeops/registry/pkg/types"
	"github.com/google/uuid"
)

// Engine is the port allocation engine. It is safe for concurrent use.
type Engine struct {
	store store.Store
	mu    sync.Mutex
}

// NewEngine creates a port allocation engine backed by s.
func NewEngine(s store.Store) *Engine {
	return &Engine{store: s}
}

// ConflictRecord groups two or more allocations that illegally share a
// (environment, port-number) pair within a team.
type ConflictRecord struct {
	Environment string
	PortNumber  int
	Allocations []*types.PortAllocation
}

func (e *Engine) resolveRange(teamID string, portType types.PortType, environment string) (*types.PortRange, error) {
	pr, err := e.store.GetPortRangeByTeamTypeEnv(teamID, portType, environment)
	if err == nil {
		return pr, nil
	}
	if !apperrors.Is(err, apperrors.KindNotFound) {
		return nil, err
	}
	if environment != config.DefaultEnvironment {
		pr, err = e.store.GetPortRangeByTeamTypeEnv(teamID, portType, config.DefaultEnvironment)
		if err == nil {
			return pr, nil
		}
		if !apperrors.Is(err, apperrors.KindNotFound) {
			return nil, err
		}
	}
	return nil, apperrors.Validationf("No port range configured for type %s", portType)
}

// AutoAllocate locates the configured range for (team, type, environment)
// — falling back to the team's `local` range for that type — and returns
// a new allocation bound to the lowest unused port in the range.
func (e *Engine) AutoAllocate(serviceID, environment string, portType types.PortType, allocator string) (*types.PortAllocation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	svc, err := e.store.GetService(serviceID)
	if err != nil {
		return nil, err
	}

	pr, err := e.resolveRange(svc.TeamID, portType, environment)
	if err != nil {
		return nil, err
	}

	existing, err := e.store.ListPortAllocationsByTeamEnvType(svc.TeamID, environment, portType)
	if err != nil {
		return nil, err
	}
	used := make(map[int]bool, len(existing))
	for _, a := range existing {
		used[a.PortNumber] = true
	}

	for port := pr.Start; port <= pr.End; port++ {
		if used[port] {
			continue
		}
		now := time.Now()
		alloc := &types.PortAllocation{
			ID:            uuid.NewString(),
			TeamID:        svc.TeamID,
			ServiceID:     serviceID,
			Environment:   environment,
			Type:          portType,
			PortNumber:    port,
			Protocol:      "TCP",
			AutoAllocated: true,
			Allocator:     allocator,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := e.store.CreatePortAllocation(alloc); err != nil {
			return nil, err
		}
		log.WithServiceID(serviceID).Info().Int("port", port).Str("type", string(portType)).Msg("port auto-allocated")
		return alloc, nil
	}

	return nil, apperrors.Validationf("No available ports in range %d-%d", pr.Start, pr.End)
}

// AutoAllocateAll invokes AutoAllocate for each port type in order,
// aborting the batch on the first failure.
func (e *Engine) AutoAllocateAll(serviceID, environment string, portTypes []types.PortType, allocator string) ([]*types.PortAllocation, error) {
	allocations := make([]*types.PortAllocation, 0, len(portTypes))
	for _, pt := range portTypes {
		alloc, err := e.AutoAllocate(serviceID, environment, pt, allocator)
		if err != nil {
			return nil, err
		}
		allocations = append(allocations, alloc)
	}
	return allocations, nil
}

// ManualAllocate binds an operator-chosen port number, failing if it is
// already bound within the team+environment.
func (e *Engine) ManualAllocate(serviceID, environment string, portType types.PortType, portNumber int, protocol, allocator string) (*types.PortAllocation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	svc, err := e.store.GetService(serviceID)
	if err != nil {
		return nil, err
	}

	if existing, err := e.store.GetPortAllocationByTeamEnvPort(svc.TeamID, environment, portNumber); err == nil {
		owner, lookupErr := e.store.GetService(existing.ServiceID)
		ownerName := existing.ServiceID
		if lookupErr == nil {
			ownerName = owner.Name
		}
		return nil, apperrors.Validationf("port %d in %s is already allocated to %s", portNumber, environment, ownerName)
	} else if !apperrors.Is(err, apperrors.KindNotFound) {
		return nil, err
	}

	if protocol == "" {
		protocol = "TCP"
	}
	now := time.Now()
	alloc := &types.PortAllocation{
		ID:            uuid.NewString(),
		TeamID:        svc.TeamID,
		ServiceID:     serviceID,
		Environment:   environment,
		Type:          portType,
		PortNumber:    portNumber,
		Protocol:      protocol,
		AutoAllocated: false,
		Allocator:     allocator,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := e.store.CreatePortAllocation(alloc); err != nil {
		return nil, err
	}
	return alloc, nil
}

// Release deletes an allocation by id.
func (e *Engine) Release(allocationID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.store.DeletePortAllocation(allocationID)
}

// CheckAvailability reports whether port is free within (team,
// environment), and the current owner's allocation when it is not.
func (e *Engine) CheckAvailability(teamID, environment string, port int) (bool, *types.PortAllocation, error) {
	alloc, err := e.store.GetPortAllocationByTeamEnvPort(teamID, environment, port)
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			return true, nil, nil
		}
		return false, nil, err
	}
	return false, alloc, nil
}

// DetectConflicts groups a team's allocations by (environment,
// port-number) and returns every group whose membership is ≥ 2 —
// allocations that should never coexist under normal operation.
func (e *Engine) DetectConflicts(teamID string) ([]ConflictRecord, error) {
	allocations, err := e.store.ListPortAllocationsByTeam(teamID)
	if err != nil {
		return nil, err
	}

	type key struct {
		env  string
		port int
	}
	groups := make(map[key][]*types.PortAllocation)
	for _, a := range allocations {
		k := key{env: a.Environment, port: a.PortNumber}
		groups[k] = append(groups[k], a)
	}

	var conflicts []ConflictRecord
	for k, v := range groups {
		if len(v) >= 2 {
			conflicts = append(conflicts, ConflictRecord{Environment: k.env, PortNumber: k.port, Allocations: v})
		}
	}
	sort.Slice(conflicts, func(i, j int) bool {
		if conflicts[i].Environment != conflicts[j].Environment {
			return conflicts[i].Environment < conflicts[j].Environment
		}
		return conflicts[i].PortNumber < conflicts[j].PortNumber
	})
	return conflicts, nil
}

// SeedDefaultRanges persists the twelve-range preset for a team's `local`
// environment, unless the team already has any range configured.
func (e *Engine) SeedDefaultRanges(teamID string) ([]*types.PortRange, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	existing, err := e.store.ListPortRangesByTeam(teamID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	ranges := make([]*types.PortRange, 0, len(config.DefaultPortRanges))
	for _, spec := range config.DefaultPortRanges {
		now := time.Now()
		pr := &types.PortRange{
			ID:          uuid.NewString(),
			TeamID:      teamID,
			Type:        spec.Type,
			Environment: config.DefaultEnvironment,
			Start:       spec.Start,
			End:         spec.End,
			Description: spec.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := e.store.CreatePortRange(pr); err != nil {
			return nil, err
		}
		ranges = append(ranges, pr)
	}
	return ranges, nil
}

// UpdateRange changes a range's bounds, rejecting shrinkage that would
// orphan an existing allocation.
func (e *Engine) UpdateRange(rangeID string, newStart, newEnd int, description string) (*types.PortRange, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if newStart >= newEnd {
		return nil, apperrors.Validationf("range start %d must be less than end %d", newStart, newEnd)
	}

	pr, err := e.store.GetPortRange(rangeID)
	if err != nil {
		return nil, err
	}

	allocations, err := e.store.ListPortAllocationsByTeamEnvType(pr.TeamID, pr.Environment, pr.Type)
	if err != nil {
		return nil, err
	}
	for _, a := range allocations {
		if a.PortNumber < newStart || a.PortNumber > newEnd {
			owner, lookupErr := e.store.GetService(a.ServiceID)
			ownerName := a.ServiceID
			if lookupErr == nil {
				ownerName = owner.Name
			}
			return nil, apperrors.Validationf("shrinking range would orphan port %d owned by %s", a.PortNumber, ownerName)
		}
	}

	pr.Start = newStart
	pr.End = newEnd
	pr.Description = description
	pr.UpdatedAt = time.Now()
	if err := e.store.UpdatePortRange(pr); err != nil {
		return nil, err
	}
	return pr, nil
}
