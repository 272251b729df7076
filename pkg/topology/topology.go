package topology

import (
	"sort"

	"github.com/codeops/registry/pkg/store"
	"github.com/codeops/registry/pkg/types"
)

// Layer is the closed set of architectural tiers a service is classified
// into for layered topology views.
type Layer string

const (
	LayerInfrastructure Layer = "infrastructure"
	LayerBackend        Layer = "backend"
	LayerFrontend       Layer = "frontend"
	LayerGateway        Layer = "gateway"
	LayerStandalone     Layer = "standalone"
)

// classify maps a service type to its layer. Closed mapping: any service
// type not named explicitly below falls to standalone.
func classify(t types.ServiceType) Layer {
	switch t {
	case types.ServiceTypeDatabase, types.ServiceTypeCache, types.ServiceTypeBroker:
		return LayerInfrastructure
	case types.ServiceTypeSpringBoot, types.ServiceTypeExpress, types.ServiceTypeFastAPI,
		types.ServiceTypeDotNet, types.ServiceTypeGo, types.ServiceTypeWorker, types.ServiceTypeMCP:
		return LayerBackend
	case types.ServiceTypeReactSPA, types.ServiceTypeNextJS, types.ServiceTypeFlutter:
		return LayerFrontend
	case types.ServiceTypeGateway:
		return LayerGateway
	default:
		return LayerStandalone
	}
}

// Node is one service's topology view.
type Node struct {
	ServiceID       string
	Name            string
	Slug            string
	Type            types.ServiceType
	Layer           Layer
	Health          types.HealthStatus
	UpstreamCount   int
	DownstreamCount int
	PortCount       int
	SolutionIDs     []string
}

// Edge is one dependency edge, restated for topology consumers.
type Edge struct {
	SourceServiceID string
	TargetServiceID string
	Type            types.DependencyType
}

// TeamTopology is the full team graph view.
type TeamTopology struct {
	Nodes  []Node
	Edges  []Edge
	Layers map[Layer][]string   // layer -> service ids, sorted
	Groups map[string][]string // solution id -> member service ids, sorted
}

// SolutionTopology restricts a team's topology to one solution's members.
type SolutionTopology struct {
	Nodes []Node
	Edges []Edge
}

// Neighborhood is the BFS expansion around one service.
type Neighborhood struct {
	Nodes []Node
	Edges []Edge
}

// Stats summarizes a team's dependency graph shape.
type Stats struct {
	TotalServices              int
	TotalDependencies          int
	TotalSolutions             int
	ServicesWithNoDependencies int
	ServicesWithNoConsumers    int
	OrphanedServices           int
	MaxDependencyDepth         int
}

const maxNeighborhoodDepth = 3

// Projector is the topology projector. It is safe for concurrent use;
// every method rebuilds its view from pkg/store per call.
type Projector struct {
	store store.Store
}

// NewProjector creates a topology projector backed by s.
func NewProjector(s store.Store) *Projector {
	return &Projector{store: s}
}

// buildNodes assembles the Node view for a set of services plus the
// team's full edge set and solution memberships.
func (p *Projector) buildNodes(services []*types.Service, edges []*types.ServiceDependency) ([]Node, error) {
	upstreamCount := make(map[string]int)
	downstreamCount := make(map[string]int)
	for _, e := range edges {
		downstreamCount[e.SourceServiceID]++
		upstreamCount[e.TargetServiceID]++
	}

	nodes := make([]Node, 0, len(services))
	for _, svc := range services {
		ports, err := p.store.ListPortAllocationsByService(svc.ID)
		if err != nil {
			return nil, err
		}
		memberships, err := p.store.ListSolutionMembershipsByService(svc.ID)
		if err != nil {
			return nil, err
		}
		solutionIDs := make([]string, 0, len(memberships))
		for _, m := range memberships {
			solutionIDs = append(solutionIDs, m.SolutionID)
		}
		sort.Strings(solutionIDs)

		health := svc.LastHealthStatus
		if health == "" {
			health = types.HealthStatusUnknown
		}

		nodes = append(nodes, Node{
			ServiceID:       svc.ID,
			Name:            svc.Name,
			Slug:            svc.Slug,
			Type:            svc.Type,
			Layer:           classify(svc.Type),
			Health:          health,
			UpstreamCount:   upstreamCount[svc.ID],
			DownstreamCount: downstreamCount[svc.ID],
			PortCount:       len(ports),
			SolutionIDs:     solutionIDs,
		})
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Slug < nodes[j].Slug })
	return nodes, nil
}

func toEdges(deps []*types.ServiceDependency) []Edge {
	edges := make([]Edge, 0, len(deps))
	for _, d := range deps {
		edges = append(edges, Edge{SourceServiceID: d.SourceServiceID, TargetServiceID: d.TargetServiceID, Type: d.Type})
	}
	return edges
}

// TeamTopology assembles the full node/edge view for a team, bucketed by
// layer and grouped by owning solution.
func (p *Projector) TeamTopology(teamID string) (*TeamTopology, error) {
	services, err := p.store.ListServicesByTeam(teamID)
	if err != nil {
		return nil, err
	}
	deps, err := p.store.ListDependenciesByTeam(teamID)
	if err != nil {
		return nil, err
	}
	nodes, err := p.buildNodes(services, deps)
	if err != nil {
		return nil, err
	}

	layers := make(map[Layer][]string)
	for _, n := range nodes {
		layers[n.Layer] = append(layers[n.Layer], n.ServiceID)
	}

	solutions, err := p.store.ListSolutionsByTeam(teamID)
	if err != nil {
		return nil, err
	}
	groups := make(map[string][]string, len(solutions))
	for _, sol := range solutions {
		members, err := p.store.ListSolutionMembers(sol.ID)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(members))
		for _, m := range members {
			ids = append(ids, m.ServiceID)
		}
		sort.Strings(ids)
		groups[sol.ID] = ids
	}

	return &TeamTopology{Nodes: nodes, Edges: toEdges(deps), Layers: layers, Groups: groups}, nil
}

// SolutionTopology restricts the team graph to one solution's members:
// only member nodes, and only edges with both endpoints in that set.
func (p *Projector) SolutionTopology(solutionID string) (*SolutionTopology, error) {
	sol, err := p.store.GetSolution(solutionID)
	if err != nil {
		return nil, err
	}
	members, err := p.store.ListSolutionMembers(solutionID)
	if err != nil {
		return nil, err
	}
	memberSet := make(map[string]bool, len(members))
	var services []*types.Service
	for _, m := range members {
		memberSet[m.ServiceID] = true
		svc, err := p.store.GetService(m.ServiceID)
		if err != nil {
			return nil, err
		}
		services = append(services, svc)
	}

	teamEdges, err := p.store.ListDependenciesByTeam(sol.TeamID)
	if err != nil {
		return nil, err
	}
	var restricted []*types.ServiceDependency
	for _, e := range teamEdges {
		if memberSet[e.SourceServiceID] && memberSet[e.TargetServiceID] {
			restricted = append(restricted, e)
		}
	}

	nodes, err := p.buildNodes(services, restricted)
	if err != nil {
		return nil, err
	}
	return &SolutionTopology{Nodes: nodes, Edges: toEdges(restricted)}, nil
}

// Neighborhood performs a bidirectional BFS out to depth (capped at
// maxNeighborhoodDepth) from serviceID over the team's graph, returning
// the reached nodes and the edges induced among them.
func (p *Projector) Neighborhood(serviceID string, depth int) (*Neighborhood, error) {
	if depth > maxNeighborhoodDepth {
		depth = maxNeighborhoodDepth
	}
	if depth < 0 {
		depth = 0
	}

	origin, err := p.store.GetService(serviceID)
	if err != nil {
		return nil, err
	}
	edges, err := p.store.ListDependenciesByTeam(origin.TeamID)
	if err != nil {
		return nil, err
	}

	adjacency := make(map[string][]string)
	for _, e := range edges {
		adjacency[e.SourceServiceID] = append(adjacency[e.SourceServiceID], e.TargetServiceID)
		adjacency[e.TargetServiceID] = append(adjacency[e.TargetServiceID], e.SourceServiceID)
	}

	visited := map[string]bool{serviceID: true}
	frontier := []string{serviceID}
	for d := 0; d < depth; d++ {
		var next []string
		for _, id := range frontier {
			for _, neighbor := range adjacency[id] {
				if !visited[neighbor] {
					visited[neighbor] = true
					next = append(next, neighbor)
				}
			}
		}
		if len(next) == 0 {
			break
		}
		frontier = next
	}

	services, err := p.store.ListServicesByTeam(origin.TeamID)
	if err != nil {
		return nil, err
	}
	var reached []*types.Service
	for _, svc := range services {
		if visited[svc.ID] {
			reached = append(reached, svc)
		}
	}

	var induced []*types.ServiceDependency
	for _, e := range edges {
		if visited[e.SourceServiceID] && visited[e.TargetServiceID] {
			induced = append(induced, e)
		}
	}

	nodes, err := p.buildNodes(reached, induced)
	if err != nil {
		return nil, err
	}
	return &Neighborhood{Nodes: nodes, Edges: toEdges(induced)}, nil
}

// EcosystemStats computes team-wide graph shape summaries.
func (p *Projector) EcosystemStats(teamID string) (*Stats, error) {
	services, err := p.store.ListServicesByTeam(teamID)
	if err != nil {
		return nil, err
	}
	edges, err := p.store.ListDependenciesByTeam(teamID)
	if err != nil {
		return nil, err
	}
	solutions, err := p.store.ListSolutionsByTeam(teamID)
	if err != nil {
		return nil, err
	}

	hasOutgoing := make(map[string]bool)
	hasIncoming := make(map[string]bool)
	forward := make(map[string][]string)
	for _, e := range edges {
		hasOutgoing[e.SourceServiceID] = true
		hasIncoming[e.TargetServiceID] = true
		forward[e.SourceServiceID] = append(forward[e.SourceServiceID], e.TargetServiceID)
	}

	inAnySolution := make(map[string]bool)
	for _, sol := range solutions {
		members, err := p.store.ListSolutionMembers(sol.ID)
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			inAnySolution[m.ServiceID] = true
		}
	}

	stats := &Stats{
		TotalServices:     len(services),
		TotalDependencies: len(edges),
		TotalSolutions:    len(solutions),
	}
	for _, svc := range services {
		if !hasOutgoing[svc.ID] {
			stats.ServicesWithNoDependencies++
		}
		if !hasIncoming[svc.ID] {
			stats.ServicesWithNoConsumers++
		}
		if !inAnySolution[svc.ID] && !hasOutgoing[svc.ID] && !hasIncoming[svc.ID] {
			stats.OrphanedServices++
		}
	}

	memo := make(map[string]int)
	var longest func(id string) int
	longest = func(id string) int {
		if v, ok := memo[id]; ok {
			return v
		}
		memo[id] = 0 // break any accidental cycle defensively; store guarantees acyclicity
		best := 0
		for _, next := range forward[id] {
			if candidate := 1 + longest(next); candidate > best {
				best = candidate
			}
		}
		memo[id] = best
		return best
	}
	for _, svc := range services {
		if d := longest(svc.ID); d > stats.MaxDependencyDepth {
			stats.MaxDependencyDepth = d
		}
	}

	return stats, nil
}
