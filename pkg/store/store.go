package store

import (
	"github.com/codeops/registry/pkg/types"
)

// Store defines the interface for registry state persistence. It is
// implemented by BoltStore; tests may substitute an in-memory fake that
// satisfies the same interface.
type Store interface {
	// Teams
	CreateTeam(team *types.Team) error
	GetTeam(id string) (*types.Team, error)
	GetTeamBySlug(slug string) (*types.Team, error)
	ListTeams() ([]*types.Team, error)

	// Services
	CreateService(service *types.Service) error
	GetService(id string) (*types.Service, error)
	GetServiceByTeamSlug(teamID, slug string) (*types.Service, error)
	ListServicesByTeam(teamID string) ([]*types.Service, error)
	ListServicesByIDs(teamID string, ids []string) ([]*types.Service, error)
	UpdateService(service *types.Service) error
	DeleteService(id string) error

	// Port allocations
	CreatePortAllocation(alloc *types.PortAllocation) error
	GetPortAllocation(id string) (*types.PortAllocation, error)
	GetPortAllocationByTeamEnvPort(teamID, environment string, port int) (*types.PortAllocation, error)
	ListPortAllocationsByTeamEnvType(teamID, environment string, portType types.PortType) ([]*types.PortAllocation, error)
	ListPortAllocationsByTeam(teamID string) ([]*types.PortAllocation, error)
	ListPortAllocationsByService(serviceID string) ([]*types.PortAllocation, error)
	DeletePortAllocation(id string) error
	DeletePortAllocationsByService(serviceID string) error

	// Port ranges
	CreatePortRange(pr *types.PortRange) error
	GetPortRange(id string) (*types.PortRange, error)
	GetPortRangeByTeamTypeEnv(teamID string, portType types.PortType, environment string) (*types.PortRange, error)
	ListPortRangesByTeam(teamID string) ([]*types.PortRange, error)
	UpdatePortRange(pr *types.PortRange) error

	// Service dependencies
	CreateDependency(dep *types.ServiceDependency) error
	GetDependency(id string) (*types.ServiceDependency, error)
	GetDependencyBySourceTargetType(sourceID, targetID string, depType types.DependencyType) (*types.ServiceDependency, error)
	ListDependenciesByTeam(teamID string) ([]*types.ServiceDependency, error)
	ListDependenciesBySource(serviceID string) ([]*types.ServiceDependency, error)
	ListDependenciesByTarget(serviceID string) ([]*types.ServiceDependency, error)
	CountDependenciesBySource(serviceID string) (int, error)
	DeleteDependency(id string) error

	// API routes
	CreateRoute(route *types.APIRoute) error
	GetRoute(id string) (*types.APIRoute, error)
	ListRoutesByGatewayEnv(gatewayServiceID, environment string) ([]*types.APIRoute, error)
	ListRoutesDirectByTeamEnv(teamID, environment string) ([]*types.APIRoute, error)
	ListRoutesByTeam(teamID string) ([]*types.APIRoute, error)
	ListRoutesByService(serviceID string) ([]*types.APIRoute, error)
	DeleteRoute(id string) error

	// Infrastructure resources
	CreateInfraResource(res *types.InfrastructureResource) error
	GetInfraResource(id string) (*types.InfrastructureResource, error)
	ListInfraResourcesByTeam(teamID string) ([]*types.InfrastructureResource, error)
	ListInfraResourcesByService(serviceID string) ([]*types.InfrastructureResource, error)
	UpdateInfraResource(res *types.InfrastructureResource) error
	DeleteInfraResource(id string) error

	// Environment config
	CreateEnvironmentConfig(cfg *types.EnvironmentConfig) error
	GetEnvironmentConfig(id string) (*types.EnvironmentConfig, error)
	GetEnvironmentConfigByKey(serviceID, environment, key string) (*types.EnvironmentConfig, error)
	ListEnvironmentConfigByServiceEnv(serviceID, environment string) ([]*types.EnvironmentConfig, error)
	UpdateEnvironmentConfig(cfg *types.EnvironmentConfig) error
	DeleteEnvironmentConfig(id string) error

	// Solutions
	CreateSolution(sol *types.Solution) error
	GetSolution(id string) (*types.Solution, error)
	GetSolutionByTeamSlug(teamID, slug string) (*types.Solution, error)
	ListSolutionsByTeam(teamID string) ([]*types.Solution, error)
	UpdateSolution(sol *types.Solution) error
	DeleteSolution(id string) error

	// Solution members
	CreateSolutionMember(m *types.SolutionMember) error
	GetSolutionMember(id string) (*types.SolutionMember, error)
	GetSolutionMemberByService(solutionID, serviceID string) (*types.SolutionMember, error)
	ListSolutionMembers(solutionID string) ([]*types.SolutionMember, error)
	ListSolutionMembershipsByService(serviceID string) ([]*types.SolutionMember, error)
	UpdateSolutionMember(m *types.SolutionMember) error
	DeleteSolutionMember(id string) error
	DeleteSolutionMembersBySolution(solutionID string) error

	// Workstation profiles
	CreateWorkstationProfile(p *types.WorkstationProfile) error
	GetWorkstationProfile(id string) (*types.WorkstationProfile, error)
	GetWorkstationProfileByTeamName(teamID, name string) (*types.WorkstationProfile, error)
	ListWorkstationProfilesByTeam(teamID string) ([]*types.WorkstationProfile, error)
	UpdateWorkstationProfile(p *types.WorkstationProfile) error
	DeleteWorkstationProfile(id string) error

	// Config templates
	CreateConfigTemplate(tpl *types.ConfigTemplate) error
	GetConfigTemplate(id string) (*types.ConfigTemplate, error)
	GetConfigTemplateByKey(serviceID string, typ types.ConfigTemplateType, environment string) (*types.ConfigTemplate, error)
	ListConfigTemplatesByService(serviceID string) ([]*types.ConfigTemplate, error)
	UpdateConfigTemplate(tpl *types.ConfigTemplate) error
	DeleteConfigTemplate(id string) error

	Close() error
}
