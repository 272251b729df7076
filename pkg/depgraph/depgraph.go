package depgraph

import (
	"sort"
	"sync"
	"time"

	"github.com/codeops/registry/pkg/apperrors"
	"github.com/codeops/registry/pkg/config"
	"github.com/codeops/registry/pkg/store"
	"github.com/codeops/registry/pkg/types"
	"github.com/google/uuid"
)

// Engine is the dependency graph engine. It is safe for concurrent use;
// every method rebuilds its adjacency view from pkg/store per call.
type Engine struct {
	store  store.Store
	limits config.Limits
	mu     sync.Mutex
}

// NewEngine creates a dependency graph engine backed by s, enforcing the
// given per-team caps.
func NewEngine(s store.Store, limits config.Limits) *Engine {
	return &Engine{store: s, limits: limits}
}

// HasPath reports whether goal is reachable from start by following
// edges forward. has-path(a, a, _) is true for any edge set.
func HasPath(start, goal string, edges []*types.ServiceDependency) bool {
	if start == goal {
		return true
	}
	adjacency := make(map[string][]string)
	for _, e := range edges {
		adjacency[e.SourceServiceID] = append(adjacency[e.SourceServiceID], e.TargetServiceID)
	}

	visited := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for _, next := range adjacency[node] {
			if next == goal {
				return true
			}
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

// CreateDependency validates and persists a new directed edge.
func (e *Engine) CreateDependency(sourceID, targetID string, depType types.DependencyType, description string, required *bool, endpointHint string) (*types.ServiceDependency, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if sourceID == targetID {
		return nil, apperrors.Validation("cannot depend on itself")
	}

	source, err := e.store.GetService(sourceID)
	if err != nil {
		return nil, err
	}
	target, err := e.store.GetService(targetID)
	if err != nil {
		return nil, err
	}
	if source.TeamID != target.TeamID {
		return nil, apperrors.Validation("source and target services belong to different teams")
	}

	if _, err := e.store.GetDependencyBySourceTargetType(sourceID, targetID, depType); err == nil {
		return nil, apperrors.Validationf("dependency already exists").WithDetailsf("source=%s target=%s type=%s", sourceID, targetID, depType)
	} else if !apperrors.Is(err, apperrors.KindNotFound) {
		return nil, err
	}

	count, err := e.store.CountDependenciesBySource(sourceID)
	if err != nil {
		return nil, err
	}
	if count >= e.limits.MaxDependenciesPerService {
		return nil, apperrors.Validationf("service has reached the maximum of %d dependencies", e.limits.MaxDependenciesPerService)
	}

	edges, err := e.store.ListDependenciesByTeam(source.TeamID)
	if err != nil {
		return nil, err
	}
	if HasPath(targetID, sourceID, edges) {
		return nil, apperrors.Validationf("dependency would create a cycle").WithDetailsf("source=%s target=%s", sourceID, targetID)
	}

	isRequired := true
	if required != nil {
		isRequired = *required
	}

	now := time.Now()
	dep := &types.ServiceDependency{
		ID:              uuid.NewString(),
		TeamID:          source.TeamID,
		SourceServiceID: sourceID,
		TargetServiceID: targetID,
		Type:            depType,
		Description:     description,
		Required:        isRequired,
		EndpointHint:    endpointHint,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := e.store.CreateDependency(dep); err != nil {
		return nil, err
	}
	return dep, nil
}

// RemoveDependency deletes an edge by id.
func (e *Engine) RemoveDependency(id string) error {
	return e.store.DeleteDependency(id)
}

// Graph is the full node/edge view returned by GetDependencyGraph.
type Graph struct {
	Services     []*types.Service
	Dependencies []*types.ServiceDependency
}

// GetDependencyGraph returns every service and edge for a team, defaulting
// unset health statuses to HealthStatusUnknown.
func (e *Engine) GetDependencyGraph(teamID string) (*Graph, error) {
	services, err := e.store.ListServicesByTeam(teamID)
	if err != nil {
		return nil, err
	}
	for _, s := range services {
		if s.LastHealthStatus == "" {
			s.LastHealthStatus = types.HealthStatusUnknown
		}
	}
	edges, err := e.store.ListDependenciesByTeam(teamID)
	if err != nil {
		return nil, err
	}
	return &Graph{Services: services, Dependencies: edges}, nil
}

// ImpactEntry is one service reached during impact analysis.
type ImpactEntry struct {
	ServiceID      string
	Name           string
	Depth          int
	ConnectionType types.DependencyType
	Required       bool
}

// ImpactAnalysis performs a reverse-BFS from serviceID: the services that
// would be affected if serviceID became impaired, ordered by ascending
// (depth, name).
func (e *Engine) ImpactAnalysis(serviceID string) ([]ImpactEntry, error) {
	source, err := e.store.GetService(serviceID)
	if err != nil {
		return nil, err
	}

	edges, err := e.store.ListDependenciesByTeam(source.TeamID)
	if err != nil {
		return nil, err
	}
	services, err := e.store.ListServicesByTeam(source.TeamID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*types.Service, len(services))
	for _, s := range services {
		byID[s.ID] = s
	}

	// reverseAdjacency[target] = edges whose target is target
	reverseAdjacency := make(map[string][]*types.ServiceDependency)
	for _, edge := range edges {
		reverseAdjacency[edge.TargetServiceID] = append(reverseAdjacency[edge.TargetServiceID], edge)
	}

	visited := map[string]bool{serviceID: true}
	entries := make(map[string]ImpactEntry)

	type queued struct {
		id    string
		depth int
	}
	queue := []queued{{serviceID, 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, edge := range reverseAdjacency[cur.id] {
			upstream := edge.SourceServiceID
			if visited[upstream] {
				continue
			}
			visited[upstream] = true
			name := upstream
			if svc, ok := byID[upstream]; ok {
				name = svc.Name
			}
			entries[upstream] = ImpactEntry{
				ServiceID:      upstream,
				Name:           name,
				Depth:          cur.depth + 1,
				ConnectionType: edge.Type,
				Required:       edge.Required,
			}
			queue = append(queue, queued{upstream, cur.depth + 1})
		}
	}

	result := make([]ImpactEntry, 0, len(entries))
	for _, entry := range entries {
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Depth != result[j].Depth {
			return result[i].Depth < result[j].Depth
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// StartupOrder computes a topological order of the team's services over
// the REVERSED edge set via Kahn's algorithm: a service other services
// depend on is emitted before its dependents. Among all ready services,
// the one with the smallest slug is always emitted next. Services that are part of (or
// downstream of) a cycle are omitted — see DetectCycles.
func (e *Engine) StartupOrder(teamID string) ([]string, error) {
	services, err := e.store.ListServicesByTeam(teamID)
	if err != nil {
		return nil, err
	}
	edges, err := e.store.ListDependenciesByTeam(teamID)
	if err != nil {
		return nil, err
	}
	return kahn(services, edges), nil
}

// DetectCycles returns the ids of services that Kahn's algorithm never
// dequeues — services on or downstream of a cycle.
func (e *Engine) DetectCycles(teamID string) ([]string, error) {
	services, err := e.store.ListServicesByTeam(teamID)
	if err != nil {
		return nil, err
	}
	edges, err := e.store.ListDependenciesByTeam(teamID)
	if err != nil {
		return nil, err
	}

	ordered := kahn(services, edges)
	inOrder := make(map[string]bool, len(ordered))
	for _, id := range ordered {
		inOrder[id] = true
	}

	var remaining []string
	for _, s := range services {
		if !inOrder[s.ID] {
			remaining = append(remaining, s.ID)
		}
	}
	sort.Strings(remaining)
	return remaining, nil
}

// kahn runs Kahn's algorithm over the reversed dependency graph: an
// original edge (v depends-on popped) becomes, in the reversed graph,
// an out-edge from popped to v. A service's reversed in-degree is its
// out-degree in the original edge set (how many services it depends on).
func kahn(services []*types.Service, edges []*types.ServiceDependency) []string {
	bySlug := make(map[string]string, len(services)) // id -> slug, for tie-break
	for _, s := range services {
		bySlug[s.ID] = s.Slug
	}

	inDegree := make(map[string]int, len(services))
	reverseOut := make(map[string][]string) // producer -> consumers
	for _, s := range services {
		inDegree[s.ID] = 0
	}
	for _, edge := range edges {
		// original edge: source depends on target, i.e. target must start
		// first. In the reversed graph target -> source, so source's
		// reversed in-degree increases once per outgoing original edge.
		if _, ok := inDegree[edge.SourceServiceID]; ok {
			inDegree[edge.SourceServiceID]++
		}
		reverseOut[edge.TargetServiceID] = append(reverseOut[edge.TargetServiceID], edge.SourceServiceID)
	}

	var queue []string
	for id, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}
	sortBySlug(queue, bySlug)

	var order []string
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		order = append(order, next)

		var newlyReady []string
		for _, consumer := range reverseOut[next] {
			inDegree[consumer]--
			if inDegree[consumer] == 0 {
				newlyReady = append(newlyReady, consumer)
			}
		}
		sortBySlug(newlyReady, bySlug)
		queue = append(queue, newlyReady...)
		sortBySlug(queue, bySlug)
	}
	return order
}

func sortBySlug(ids []string, bySlug map[string]string) {
	sort.Slice(ids, func(i, j int) bool {
		return bySlug[ids[i]] < bySlug[ids[j]]
	})
}
