package configgen

import (
	"testing"
	"time"

	"github.com/codeops/registry/pkg/config"
	"github.com/codeops/registry/pkg/depgraph"
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

func newService(t *testing.T, s store.Store, teamID, slug string) *types.Service {
	t.Helper()
	svc := &types.Service{
		ID: uuid.NewString(), TeamID: teamID, Name: slug, Slug: slug,
		Type: types.ServiceTypeGo, Status: types.ServiceStatusActive,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, s.CreateService(svc))
	return svc
}

func newGenerator(t *testing.T, s store.Store) *Generator {
	t.Helper()
	graph := depgraph.NewEngine(s, config.DefaultLimits())
	return NewGenerator(s, graph)
}

func TestGenerateDockerComposeRendersPortsAndEnv(t *testing.T) {
	s := newTestStore(t)
	team := newTeam(t, s)
	svc := newService(t, s, team.ID, "api")

	require.NoError(t, s.CreatePortAllocation(&types.PortAllocation{
		ID: uuid.NewString(), TeamID: team.ID, ServiceID: svc.ID, Environment: "local",
		Type: types.PortTypeHTTPAPI, PortNumber: 8080, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))
	require.NoError(t, s.CreateEnvironmentConfig(&types.EnvironmentConfig{
		ID: uuid.NewString(), TeamID: team.ID, ServiceID: svc.ID, Environment: "local",
		Key: "LOG_LEVEL", Value: "debug", Source: types.ConfigSourceManual,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))

	gen := newGenerator(t, s)
	tpl, err := gen.GenerateDockerCompose(svc.ID, "local")
	require.NoError(t, err)
	assert.Equal(t, 1, tpl.Version)
	assert.Contains(t, tpl.Content, "8080:8080")
	assert.Contains(t, tpl.Content, "LOG_LEVEL: debug")
	assert.Contains(t, tpl.Content, "api:")
}

func TestGenerateDockerComposeVersionBumpsUnconditionally(t *testing.T) {
	s := newTestStore(t)
	team := newTeam(t, s)
	svc := newService(t, s, team.ID, "api")

	gen := newGenerator(t, s)
	first, err := gen.GenerateDockerCompose(svc.ID, "local")
	require.NoError(t, err)
	assert.Equal(t, 1, first.Version)

	second, err := gen.GenerateDockerCompose(svc.ID, "local")
	require.NoError(t, err)
	assert.Equal(t, 2, second.Version)
	assert.Equal(t, first.ID, second.ID)
}

func TestGenerateDockerComposeDependsOnOrder(t *testing.T) {
	s := newTestStore(t)
	team := newTeam(t, s)
	api := newService(t, s, team.ID, "api")
	db := newService(t, s, team.ID, "db")
	cache := newService(t, s, team.ID, "cache")

	require.NoError(t, s.CreateDependency(&types.ServiceDependency{
		ID: uuid.NewString(), TeamID: team.ID, SourceServiceID: api.ID, TargetServiceID: cache.ID,
		Type: types.DependencyTypeRedisCache, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))
	require.NoError(t, s.CreateDependency(&types.ServiceDependency{
		ID: uuid.NewString(), TeamID: team.ID, SourceServiceID: api.ID, TargetServiceID: db.ID,
		Type: types.DependencyTypeDatabaseShared, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))

	gen := newGenerator(t, s)
	tpl, err := gen.GenerateDockerCompose(api.ID, "local")
	require.NoError(t, err)
	// depends_on is alphabetized (cache before db), independent of creation order.
	cacheIdx := indexOf(t, tpl.Content, "cache")
	dbIdx := indexOf(t, tpl.Content, "db")
	assert.True(t, cacheIdx < dbIdx, "expected cache to be listed before db in depends_on")
}

func TestGenerateApplicationConfigDatasourceAndDependencyURL(t *testing.T) {
	s := newTestStore(t)
	team := newTeam(t, s)
	api := newService(t, s, team.ID, "api")
	db := newService(t, s, team.ID, "db")

	require.NoError(t, s.CreatePortAllocation(&types.PortAllocation{
		ID: uuid.NewString(), TeamID: team.ID, ServiceID: api.ID, Environment: "local",
		Type: types.PortTypeHTTPAPI, PortNumber: 8080, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))
	require.NoError(t, s.CreatePortAllocation(&types.PortAllocation{
		ID: uuid.NewString(), TeamID: team.ID, ServiceID: db.ID, Environment: "local",
		Type: types.PortTypeHTTPAPI, PortNumber: 9090, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))
	require.NoError(t, s.CreateDependency(&types.ServiceDependency{
		ID: uuid.NewString(), TeamID: team.ID, SourceServiceID: api.ID, TargetServiceID: db.ID,
		Type: types.DependencyTypeHTTPREST, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))
	require.NoError(t, s.CreateEnvironmentConfig(&types.EnvironmentConfig{
		ID: uuid.NewString(), TeamID: team.ID, ServiceID: api.ID, Environment: "local",
		Key: "spring.datasource.url", Value: "jdbc:postgresql://db:5432/api", Source: types.ConfigSourceManual,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))

	gen := newGenerator(t, s)
	tpl, err := gen.GenerateApplicationConfig(api.ID, "local")
	require.NoError(t, err)
	assert.Contains(t, tpl.Content, "name: api")
	assert.Contains(t, tpl.Content, "port: \"8080\"")
	assert.Contains(t, tpl.Content, "url: jdbc:postgresql://db:5432/api")
	assert.Contains(t, tpl.Content, "http://localhost:9090")
}

func TestGenerateReferenceHeaderListsUpstreamAndDownstream(t *testing.T) {
	s := newTestStore(t)
	team := newTeam(t, s)
	api := newService(t, s, team.ID, "api")
	gateway := newService(t, s, team.ID, "gateway")
	db := newService(t, s, team.ID, "db")

	require.NoError(t, s.CreateDependency(&types.ServiceDependency{
		ID: uuid.NewString(), TeamID: team.ID, SourceServiceID: gateway.ID, TargetServiceID: api.ID,
		Type: types.DependencyTypeHTTPREST, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))
	require.NoError(t, s.CreateDependency(&types.ServiceDependency{
		ID: uuid.NewString(), TeamID: team.ID, SourceServiceID: api.ID, TargetServiceID: db.ID,
		Type: types.DependencyTypeDatabaseShared, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))

	gen := newGenerator(t, s)
	tpl, err := gen.GenerateReferenceHeader(api.ID, "local")
	require.NoError(t, err)
	assert.Contains(t, tpl.Content, "Upstream Dependencies:")
	assert.Contains(t, tpl.Content, "gateway (gateway) [HTTP_REST]")
	assert.Contains(t, tpl.Content, "Downstream Dependencies:")
	assert.Contains(t, tpl.Content, "db (db) [DATABASE_SHARED]")
}

func TestGenerateAllForServiceReturnsAllThreeArtifacts(t *testing.T) {
	s := newTestStore(t)
	team := newTeam(t, s)
	svc := newService(t, s, team.ID, "api")

	gen := newGenerator(t, s)
	results, err := gen.GenerateAllForService(svc.ID, "local")
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestGenerateAllForServiceUnknownServiceFails(t *testing.T) {
	s := newTestStore(t)
	gen := newGenerator(t, s)
	_, err := gen.GenerateAllForService(uuid.NewString(), "local")
	assert.Error(t, err)
}

func TestGenerateSolutionComposeOrdersByStartup(t *testing.T) {
	s := newTestStore(t)
	team := newTeam(t, s)
	frontend := newService(t, s, team.ID, "frontend")
	backend := newService(t, s, team.ID, "backend")
	database := newService(t, s, team.ID, "database")

	require.NoError(t, s.CreateDependency(&types.ServiceDependency{
		ID: uuid.NewString(), TeamID: team.ID, SourceServiceID: frontend.ID, TargetServiceID: backend.ID,
		Type: types.DependencyTypeHTTPREST, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))
	require.NoError(t, s.CreateDependency(&types.ServiceDependency{
		ID: uuid.NewString(), TeamID: team.ID, SourceServiceID: backend.ID, TargetServiceID: database.ID,
		Type: types.DependencyTypeDatabaseShared, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))

	sol := &types.Solution{ID: uuid.NewString(), TeamID: team.ID, Slug: "shop", Name: "Shop",
		Category: types.SolutionCategoryProduct, Status: types.SolutionStatusActive,
		CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, s.CreateSolution(sol))
	// Add members out of startup order to prove the renderer reorders them.
	require.NoError(t, s.CreateSolutionMember(&types.SolutionMember{
		ID: uuid.NewString(), SolutionID: sol.ID, ServiceID: frontend.ID, Role: types.MemberRoleCore,
		DisplayOrder: 0, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))
	require.NoError(t, s.CreateSolutionMember(&types.SolutionMember{
		ID: uuid.NewString(), SolutionID: sol.ID, ServiceID: backend.ID, Role: types.MemberRoleCore,
		DisplayOrder: 1, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))
	require.NoError(t, s.CreateSolutionMember(&types.SolutionMember{
		ID: uuid.NewString(), SolutionID: sol.ID, ServiceID: database.ID, Role: types.MemberRoleInfrastructure,
		DisplayOrder: 2, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))

	gen := newGenerator(t, s)
	tpl, err := gen.GenerateSolutionCompose(sol.ID, "local")
	require.NoError(t, err)

	dbIdx := indexOf(t, tpl.Content, "database:")
	backendIdx := indexOf(t, tpl.Content, "backend:")
	frontendIdx := indexOf(t, tpl.Content, "frontend:")
	assert.True(t, dbIdx < backendIdx, "database must render before backend")
	assert.True(t, backendIdx < frontendIdx, "backend must render before frontend")
	assert.Equal(t, "solution:"+sol.ID, tpl.GeneratedFrom)
}

func TestLoadIdentityAggregatesAcrossEnvironments(t *testing.T) {
	s := newTestStore(t)
	team := newTeam(t, s)
	svc := newService(t, s, team.ID, "api")
	require.NoError(t, s.CreatePortAllocation(&types.PortAllocation{
		ID: uuid.NewString(), TeamID: team.ID, ServiceID: svc.ID, Environment: "staging",
		Type: types.PortTypeHTTPAPI, PortNumber: 8080, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))

	gen := newGenerator(t, s)
	identity, err := gen.LoadIdentity(svc.ID)
	require.NoError(t, err)
	assert.Equal(t, svc.ID, identity.Service.ID)
	require.Len(t, identity.Ports, 1)
	assert.Equal(t, 8080, identity.Ports[0].PortNumber)
}

func indexOf(t *testing.T, haystack, needle string) int {
	t.Helper()
	idx := -1
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			idx = i
			break
		}
	}
	require.NotEqual(t, -1, idx, "expected %q to contain %q", haystack, needle)
	return idx
}
