package topology

import (
	"testing"
	"time"

	"github.com/codeops/registry/pkg/store"
	"github.com/codeops/registry/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.NewBoltStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTeam(t *testing.T, s store.Store) *types.Team {
	t.Helper()
	team := &types.Team{ID: uuid.NewString(), Name: "Platform", Slug: "platform", CreatedAt: time.Now()}
	require.NoError(t, s.CreateTeam(team))
	return team
}

func newServiceOfType(t *testing.T, s store.Store, teamID, slug string, typ types.ServiceType) *types.Service {
	t.Helper()
	svc := &types.Service{
		ID: uuid.NewString(), TeamID: teamID, Name: slug, Slug: slug,
		Type: typ, Status: types.ServiceStatusActive,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, s.CreateService(svc))
	return svc
}

func newDependency(t *testing.T, s store.Store, teamID, sourceID, targetID string, typ types.DependencyType) {
	t.Helper()
	require.NoError(t, s.CreateDependency(&types.ServiceDependency{
		ID: uuid.NewString(), TeamID: teamID, SourceServiceID: sourceID, TargetServiceID: targetID,
		Type: typ, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))
}

func TestClassifyLayers(t *testing.T) {
	assert.Equal(t, LayerInfrastructure, classify(types.ServiceTypeDatabase))
	assert.Equal(t, LayerInfrastructure, classify(types.ServiceTypeCache))
	assert.Equal(t, LayerInfrastructure, classify(types.ServiceTypeBroker))
	assert.Equal(t, LayerBackend, classify(types.ServiceTypeSpringBoot))
	assert.Equal(t, LayerBackend, classify(types.ServiceTypeGo))
	assert.Equal(t, LayerFrontend, classify(types.ServiceTypeReactSPA))
	assert.Equal(t, LayerFrontend, classify(types.ServiceTypeNextJS))
	assert.Equal(t, LayerGateway, classify(types.ServiceTypeGateway))
	assert.Equal(t, LayerStandalone, classify(types.ServiceTypeLibrary))
	assert.Equal(t, LayerStandalone, classify(types.ServiceTypeCLI))
}

func TestTeamTopologyCountsAndLayers(t *testing.T) {
	s := newTestStore(t)
	team := newTeam(t, s)
	frontend := newServiceOfType(t, s, team.ID, "frontend", types.ServiceTypeReactSPA)
	backend := newServiceOfType(t, s, team.ID, "backend", types.ServiceTypeGo)
	database := newServiceOfType(t, s, team.ID, "database", types.ServiceTypeDatabase)
	newDependency(t, s, team.ID, frontend.ID, backend.ID, types.DependencyTypeHTTPREST)
	newDependency(t, s, team.ID, backend.ID, database.ID, types.DependencyTypeDatabaseShared)

	proj := NewProjector(s)
	topo, err := proj.TeamTopology(team.ID)
	require.NoError(t, err)
	require.Len(t, topo.Nodes, 3)
	require.Len(t, topo.Edges, 2)

	byID := make(map[string]Node)
	for _, n := range topo.Nodes {
		byID[n.ServiceID] = n
	}
	assert.Equal(t, 0, byID[frontend.ID].UpstreamCount)
	assert.Equal(t, 1, byID[frontend.ID].DownstreamCount)
	assert.Equal(t, 1, byID[backend.ID].UpstreamCount)
	assert.Equal(t, 1, byID[backend.ID].DownstreamCount)
	assert.Equal(t, 1, byID[database.ID].UpstreamCount)
	assert.Equal(t, 0, byID[database.ID].DownstreamCount)

	assert.ElementsMatch(t, []string{frontend.ID}, topo.Layers[LayerFrontend])
	assert.ElementsMatch(t, []string{backend.ID}, topo.Layers[LayerBackend])
	assert.ElementsMatch(t, []string{database.ID}, topo.Layers[LayerInfrastructure])
}

func TestSolutionTopologyRestrictsToMembers(t *testing.T) {
	s := newTestStore(t)
	team := newTeam(t, s)
	api := newServiceOfType(t, s, team.ID, "api", types.ServiceTypeGo)
	db := newServiceOfType(t, s, team.ID, "db", types.ServiceTypeDatabase)
	unrelated := newServiceOfType(t, s, team.ID, "unrelated", types.ServiceTypeGo)
	newDependency(t, s, team.ID, api.ID, db.ID, types.DependencyTypeDatabaseShared)
	newDependency(t, s, team.ID, api.ID, unrelated.ID, types.DependencyTypeHTTPREST)

	sol := &types.Solution{ID: uuid.NewString(), TeamID: team.ID, Slug: "core", Name: "Core",
		Category: types.SolutionCategoryProduct, Status: types.SolutionStatusActive,
		CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, s.CreateSolution(sol))
	require.NoError(t, s.CreateSolutionMember(&types.SolutionMember{
		ID: uuid.NewString(), SolutionID: sol.ID, ServiceID: api.ID, Role: types.MemberRoleCore,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))
	require.NoError(t, s.CreateSolutionMember(&types.SolutionMember{
		ID: uuid.NewString(), SolutionID: sol.ID, ServiceID: db.ID, Role: types.MemberRoleInfrastructure,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))

	proj := NewProjector(s)
	topo, err := proj.SolutionTopology(sol.ID)
	require.NoError(t, err)
	assert.Len(t, topo.Nodes, 2)
	assert.Len(t, topo.Edges, 1) // api->unrelated excluded: unrelated isn't a member
}

func TestNeighborhoodCapsDepth(t *testing.T) {
	s := newTestStore(t)
	team := newTeam(t, s)
	a := newServiceOfType(t, s, team.ID, "a", types.ServiceTypeGo)
	b := newServiceOfType(t, s, team.ID, "b", types.ServiceTypeGo)
	c := newServiceOfType(t, s, team.ID, "c", types.ServiceTypeGo)
	d := newServiceOfType(t, s, team.ID, "d", types.ServiceTypeGo)
	e := newServiceOfType(t, s, team.ID, "e", types.ServiceTypeGo)
	newDependency(t, s, team.ID, a.ID, b.ID, types.DependencyTypeHTTPREST)
	newDependency(t, s, team.ID, b.ID, c.ID, types.DependencyTypeHTTPREST)
	newDependency(t, s, team.ID, c.ID, d.ID, types.DependencyTypeHTTPREST)
	newDependency(t, s, team.ID, d.ID, e.ID, types.DependencyTypeHTTPREST)

	proj := NewProjector(s)
	n, err := proj.Neighborhood(a.ID, 2)
	require.NoError(t, err)
	ids := make(map[string]bool)
	for _, node := range n.Nodes {
		ids[node.ServiceID] = true
	}
	assert.True(t, ids[a.ID])
	assert.True(t, ids[b.ID])
	assert.True(t, ids[c.ID])
	assert.False(t, ids[d.ID])
	assert.False(t, ids[e.ID])

	n, err = proj.Neighborhood(a.ID, 10) // over the cap, clamps to 3
	require.NoError(t, err)
	ids = make(map[string]bool)
	for _, node := range n.Nodes {
		ids[node.ServiceID] = true
	}
	assert.True(t, ids[d.ID])
	assert.False(t, ids[e.ID])
}

func TestEcosystemStats(t *testing.T) {
	s := newTestStore(t)
	team := newTeam(t, s)
	frontend := newServiceOfType(t, s, team.ID, "frontend", types.ServiceTypeReactSPA)
	backend := newServiceOfType(t, s, team.ID, "backend", types.ServiceTypeGo)
	database := newServiceOfType(t, s, team.ID, "database", types.ServiceTypeDatabase)
	orphan := newServiceOfType(t, s, team.ID, "orphan", types.ServiceTypeGo)
	newDependency(t, s, team.ID, frontend.ID, backend.ID, types.DependencyTypeHTTPREST)
	newDependency(t, s, team.ID, backend.ID, database.ID, types.DependencyTypeDatabaseShared)

	proj := NewProjector(s)
	stats, err := proj.EcosystemStats(team.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalServices)
	assert.Equal(t, 2, stats.TotalDependencies)
	assert.Equal(t, 0, stats.TotalSolutions)
	assert.Equal(t, 2, stats.ServicesWithNoDependencies) // database, orphan
	assert.Equal(t, 2, stats.ServicesWithNoConsumers)    // frontend, orphan
	assert.Equal(t, 1, stats.OrphanedServices)           // orphan only
	assert.Equal(t, 2, stats.MaxDependencyDepth)          // frontend -> backend -> database
	_ = orphan
}
