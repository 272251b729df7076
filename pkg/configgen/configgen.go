package configgen

import (
	"fmt"
	"sort"
	"time"

	"github.com/codeops/registry/pkg/apperrors"
	"github.com/codeops/registry/pkg/depgraph"
	"github.com/codeops/registry/pkg/metrics"
	"github.com/codeops/registry/pkg/store"
	"github.com/codeops/registry/pkg/types"
	"github.com/google/uuid"
)

// Generator is the config generator. It is safe for concurrent use.
type Generator struct {
	store store.Store
	graph *depgraph.Engine
}

// NewGenerator creates a config generator backed by s, projecting
// solution-wide startup order through graph.
func NewGenerator(s store.Store, graph *depgraph.Engine) *Generator {
	return &Generator{store: s, graph: graph}
}

// serviceContext is the aggregated registry state one service's config
// rendering (or its identity bundle) is built from.
type serviceContext struct {
	service      *types.Service
	ports        []*types.PortAllocation
	envConfig    []*types.EnvironmentConfig
	outgoing     []*types.ServiceDependency
	incoming     []*types.ServiceDependency
	routes       []*types.APIRoute
	infra        []*types.InfrastructureResource
	servicesByID map[string]*types.Service
}

// loadContext loads every piece of state a renderer needs for one
// service. An empty environment means "every environment" (used by the
// identity bundle, which isn't scoped to one).
func (g *Generator) loadContext(serviceID, environment string) (*serviceContext, error) {
	svc, err := g.store.GetService(serviceID)
	if err != nil {
		return nil, err
	}

	allPorts, err := g.store.ListPortAllocationsByService(serviceID)
	if err != nil {
		return nil, err
	}
	ports := filterPortsByEnv(allPorts, environment)
	sort.Slice(ports, func(i, j int) bool { return ports[i].PortNumber < ports[j].PortNumber })

	var envConfig []*types.EnvironmentConfig
	if environment != "" {
		envConfig, err = g.store.ListEnvironmentConfigByServiceEnv(serviceID, environment)
		if err != nil {
			return nil, err
		}
	}
	sort.Slice(envConfig, func(i, j int) bool { return envConfig[i].Key < envConfig[j].Key })

	outgoing, err := g.store.ListDependenciesBySource(serviceID)
	if err != nil {
		return nil, err
	}
	incoming, err := g.store.ListDependenciesByTarget(serviceID)
	if err != nil {
		return nil, err
	}

	routes, err := g.store.ListRoutesByService(serviceID)
	if err != nil {
		return nil, err
	}

	allInfra, err := g.store.ListInfraResourcesByService(serviceID)
	if err != nil {
		return nil, err
	}
	var infra []*types.InfrastructureResource
	for _, r := range allInfra {
		if environment == "" || r.Environment == environment {
			infra = append(infra, r)
		}
	}

	teamServices, err := g.store.ListServicesByTeam(svc.TeamID)
	if err != nil {
		return nil, err
	}
	servicesByID := make(map[string]*types.Service, len(teamServices))
	for _, s := range teamServices {
		servicesByID[s.ID] = s
	}

	return &serviceContext{
		service:      svc,
		ports:        ports,
		envConfig:    envConfig,
		outgoing:     outgoing,
		incoming:     incoming,
		routes:       routes,
		infra:        infra,
		servicesByID: servicesByID,
	}, nil
}

func filterPortsByEnv(ports []*types.PortAllocation, environment string) []*types.PortAllocation {
	if environment == "" {
		return ports
	}
	var filtered []*types.PortAllocation
	for _, p := range ports {
		if p.Environment == environment {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func httpAPIPort(ports []*types.PortAllocation) (int, bool) {
	for _, p := range ports {
		if p.Type == types.PortTypeHTTPAPI {
			return p.PortNumber, true
		}
	}
	return 0, false
}

// upsert loads the existing Config Template for (serviceID, typ,
// environment), if any, overwrites its content and bumps its version
// unconditionally, or creates one at version 1.
func (g *Generator) upsert(teamID, serviceID string, typ types.ConfigTemplateType, environment, content, generatedFrom string) (*types.ConfigTemplate, error) {
	now := time.Now()
	existing, err := g.store.GetConfigTemplateByKey(serviceID, typ, environment)
	if err == nil {
		existing.Content = content
		existing.Version++
		existing.GeneratedFrom = generatedFrom
		existing.AutoGenerated = true
		existing.UpdatedAt = now
		if err := g.store.UpdateConfigTemplate(existing); err != nil {
			return nil, err
		}
		metrics.ConfigGenerationsTotal.WithLabelValues(string(typ)).Inc()
		return existing, nil
	}
	if !apperrors.Is(err, apperrors.KindNotFound) {
		return nil, err
	}

	tpl := &types.ConfigTemplate{
		ID:            uuid.NewString(),
		TeamID:        teamID,
		ServiceID:     serviceID,
		Type:          typ,
		Environment:   environment,
		Content:       content,
		AutoGenerated: true,
		GeneratedFrom: generatedFrom,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := g.store.CreateConfigTemplate(tpl); err != nil {
		return nil, err
	}
	metrics.ConfigGenerationsTotal.WithLabelValues(string(typ)).Inc()
	return tpl, nil
}

// GenerateDockerCompose renders and upserts the DOCKER_COMPOSE artifact
// for (serviceID, environment).
func (g *Generator) GenerateDockerCompose(serviceID, environment string) (*types.ConfigTemplate, error) {
	timer := metrics.NewTimer()
	ctx, err := g.loadContext(serviceID, environment)
	if err != nil {
		return nil, err
	}
	block, volumes := g.buildComposeService(ctx)
	content, err := marshal(g.composeDocument([]pair{kv(ctx.service.Slug, block)}, volumes))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindInternal, "failed to render docker-compose")
	}
	tpl, err := g.upsert(ctx.service.TeamID, serviceID, types.ConfigTemplateDockerCompose, environment, content, "registry-data")
	timer.ObserveDurationVec(metrics.ConfigGenerationDuration, string(types.ConfigTemplateDockerCompose))
	return tpl, err
}

// GenerateApplicationConfig renders and upserts the APPLICATION_YML
// artifact for (serviceID, environment).
func (g *Generator) GenerateApplicationConfig(serviceID, environment string) (*types.ConfigTemplate, error) {
	timer := metrics.NewTimer()
	ctx, err := g.loadContext(serviceID, environment)
	if err != nil {
		return nil, err
	}
	content, err := g.renderAppConfig(ctx, environment)
	if err != nil {
		return nil, err
	}
	tpl, err := g.upsert(ctx.service.TeamID, serviceID, types.ConfigTemplateApplicationYML, environment, content, "registry-data")
	timer.ObserveDurationVec(metrics.ConfigGenerationDuration, string(types.ConfigTemplateApplicationYML))
	return tpl, err
}

// GenerateReferenceHeader renders and upserts the CLAUDE_CODE_HEADER
// artifact for (serviceID, environment).
func (g *Generator) GenerateReferenceHeader(serviceID, environment string) (*types.ConfigTemplate, error) {
	timer := metrics.NewTimer()
	ctx, err := g.loadContext(serviceID, environment)
	if err != nil {
		return nil, err
	}
	content := g.renderReferenceHeader(ctx)
	tpl, err := g.upsert(ctx.service.TeamID, serviceID, types.ConfigTemplateClaudeCodeHeader, environment, content, "registry-data")
	timer.ObserveDurationVec(metrics.ConfigGenerationDuration, string(types.ConfigTemplateClaudeCodeHeader))
	return tpl, err
}

// GenerateAllForService runs Compose, application-config, and
// reference-header generation in that order. Each is isolated: a
// failure in one doesn't prevent the others from running. If the
// service itself doesn't exist, the whole batch fails.
func (g *Generator) GenerateAllForService(serviceID, environment string) ([]*types.ConfigTemplate, error) {
	if _, err := g.store.GetService(serviceID); err != nil {
		return nil, err
	}

	var results []*types.ConfigTemplate
	if tpl, err := g.GenerateDockerCompose(serviceID, environment); err == nil {
		results = append(results, tpl)
	}
	if tpl, err := g.GenerateApplicationConfig(serviceID, environment); err == nil {
		results = append(results, tpl)
	}
	if tpl, err := g.GenerateReferenceHeader(serviceID, environment); err == nil {
		results = append(results, tpl)
	}
	return results, nil
}

// GenerateSolutionCompose renders one merged Compose document for every
// member of a solution, ordered by the team's startup order (members
// absent from that order, e.g. on or downstream of a cycle, are appended
// at the end in their existing membership order). The result is upserted
// against the first ordered member.
func (g *Generator) GenerateSolutionCompose(solutionID, environment string) (*types.ConfigTemplate, error) {
	sol, err := g.store.GetSolution(solutionID)
	if err != nil {
		return nil, err
	}
	members, err := g.store.ListSolutionMembers(solutionID)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, apperrors.Validation("solution has no members")
	}
	sort.Slice(members, func(i, j int) bool { return members[i].DisplayOrder < members[j].DisplayOrder })

	startupOrder, err := g.graph.StartupOrder(sol.TeamID)
	if err != nil {
		return nil, err
	}
	position := make(map[string]int, len(startupOrder))
	for i, id := range startupOrder {
		position[id] = i
	}

	ordered := make([]*types.SolutionMember, len(members))
	copy(ordered, members)
	sort.SliceStable(ordered, func(i, j int) bool {
		pi, iok := position[ordered[i].ServiceID]
		pj, jok := position[ordered[j].ServiceID]
		if iok && jok {
			return pi < pj
		}
		if iok != jok {
			return iok // ranked members sort before unranked ones
		}
		return false // preserve existing relative order for two unranked members
	})

	var servicePairs []pair
	var allVolumes []string
	seenVolume := make(map[string]bool)
	for _, m := range ordered {
		ctx, err := g.loadContext(m.ServiceID, environment)
		if err != nil {
			return nil, err
		}
		block, volumes := g.buildComposeService(ctx)
		servicePairs = append(servicePairs, kv(ctx.service.Slug, block))
		for _, v := range volumes {
			if !seenVolume[v] {
				seenVolume[v] = true
				allVolumes = append(allVolumes, v)
			}
		}
	}

	content, err := marshal(g.composeDocument(servicePairs, allVolumes))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindInternal, "failed to render solution docker-compose")
	}

	upsertTarget := ordered[0].ServiceID
	return g.upsert(sol.TeamID, upsertTarget, types.ConfigTemplateDockerCompose, environment, content, fmt.Sprintf("solution:%s", sol.ID))
}

// Identity is the read-only data bundle backing GET
// /services/{id}/identity: the same aggregated state the renderers
// consume, without the text/YAML rendering step.
type Identity struct {
	Service    *types.Service
	Ports      []*types.PortAllocation
	EnvConfig  []*types.EnvironmentConfig
	Upstream   []*types.ServiceDependency
	Downstream []*types.ServiceDependency
	Routes     []*types.APIRoute
	Infra      []*types.InfrastructureResource
}

// LoadIdentity builds a service's identity bundle across every
// environment.
func (g *Generator) LoadIdentity(serviceID string) (*Identity, error) {
	ctx, err := g.loadContext(serviceID, "")
	if err != nil {
		return nil, err
	}
	return &Identity{
		Service:    ctx.service,
		Ports:      ctx.ports,
		EnvConfig:  ctx.envConfig,
		Upstream:   ctx.incoming,
		Downstream: ctx.outgoing,
		Routes:     ctx.routes,
		Infra:      ctx.infra,
	}, nil
}
