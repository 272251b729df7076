package registry

import (
	"testing"
	"time"

	"github.com/codeops/registry/pkg/config"
	"github.com/codeops/registry/pkg/store"
	"github.com/codeops/registry/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	s, err := store.NewBoltStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return New(s, config.DefaultLimits())
}

func TestCreateTeamRejectsBadSlug(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.CreateTeam("Platform", "Platform Team")
	require.Error(t, err)
}

func TestCreateTeamRejectsDuplicateSlug(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.CreateTeam("Platform", "platform")
	require.NoError(t, err)
	_, err = r.CreateTeam("Platform Two", "platform")
	require.Error(t, err)
}

func TestCreateServiceUniquifiesDuplicateSlugWithinTeam(t *testing.T) {
	r := newTestRegistry(t)
	team, err := r.CreateTeam("Platform", "platform")
	require.NoError(t, err)

	first, err := r.CreateService(team.ID, "API", "api", types.ServiceTypeGo, "", "", "", "", "")
	require.NoError(t, err)
	require.Equal(t, "api", first.Slug)

	second, err := r.CreateService(team.ID, "API Two", "api", types.ServiceTypeGo, "", "", "", "", "")
	require.NoError(t, err)
	require.Equal(t, "api-2", second.Slug)

	third, err := r.CreateService(team.ID, "API Three", "api", types.ServiceTypeGo, "", "", "", "", "")
	require.NoError(t, err)
	require.Equal(t, "api-3", third.Slug)
}

func TestDeleteServiceBlockedBySolutionMembership(t *testing.T) {
	r := newTestRegistry(t)
	team, err := r.CreateTeam("Platform", "platform")
	require.NoError(t, err)
	svc, err := r.CreateService(team.ID, "API", "api", types.ServiceTypeGo, "", "", "", "", "")
	require.NoError(t, err)

	sol, err := r.Solutions.CreateSolution(team.ID, "core", "Core", "", types.SolutionCategoryProduct, types.SolutionStatusActive, nil, nil, "")
	require.NoError(t, err)
	_, err = r.Solutions.AddMember(sol.ID, svc.ID, types.MemberRoleCore, nil)
	require.NoError(t, err)

	err = r.DeleteService(svc.ID)
	require.Error(t, err)
}

func TestDeleteServiceBlockedByRequiredDependency(t *testing.T) {
	r := newTestRegistry(t)
	team, err := r.CreateTeam("Platform", "platform")
	require.NoError(t, err)
	api, err := r.CreateService(team.ID, "API", "api", types.ServiceTypeGo, "", "", "", "", "")
	require.NoError(t, err)
	db, err := r.CreateService(team.ID, "DB", "db", types.ServiceTypeDatabase, "", "", "", "", "")
	require.NoError(t, err)

	required := true
	_, err = r.DepGraph.CreateDependency(api.ID, db.ID, types.DependencyTypeDatabaseShared, "", &required, "")
	require.NoError(t, err)

	err = r.DeleteService(db.ID)
	require.Error(t, err)
}

func TestDeleteServiceAllowedWhenUnreferenced(t *testing.T) {
	r := newTestRegistry(t)
	team, err := r.CreateTeam("Platform", "platform")
	require.NoError(t, err)
	svc, err := r.CreateService(team.ID, "API", "api", types.ServiceTypeGo, "", "", "", "", "")
	require.NoError(t, err)

	require.NoError(t, r.DeleteService(svc.ID))
	_, err = r.Store.GetService(svc.ID)
	assert.Error(t, err)
}

func TestCloneServiceSuffixesSlugAndReallocatesPorts(t *testing.T) {
	r := newTestRegistry(t)
	team, err := r.CreateTeam("Platform", "platform")
	require.NoError(t, err)
	source, err := r.CreateService(team.ID, "API", "api", types.ServiceTypeGo, "", "", "", "", "")
	require.NoError(t, err)
	require.NoError(t, r.Store.CreatePortRange(&types.PortRange{
		ID: uuid.NewString(), TeamID: team.ID, Type: types.PortTypeHTTPAPI, Environment: "local",
		Start: 8000, End: 8100, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))
	_, err = r.Ports.AutoAllocate(source.ID, "local", types.PortTypeHTTPAPI, "tester")
	require.NoError(t, err)

	clone, err := r.CloneService(source.ID, "api", "local", true, "tester")
	require.NoError(t, err)
	assert.Equal(t, "api-2", clone.Slug)

	clonePorts, err := r.Store.ListPortAllocationsByService(clone.ID)
	require.NoError(t, err)
	require.Len(t, clonePorts, 1)
	assert.Equal(t, types.PortTypeHTTPAPI, clonePorts[0].Type)
}

func TestSetEnvironmentConfigUpsertsInPlace(t *testing.T) {
	r := newTestRegistry(t)
	team, err := r.CreateTeam("Platform", "platform")
	require.NoError(t, err)
	svc, err := r.CreateService(team.ID, "API", "api", types.ServiceTypeGo, "", "", "", "", "")
	require.NoError(t, err)

	first, err := r.SetEnvironmentConfig(svc.ID, "local", "LOG_LEVEL", "info", types.ConfigSourceManual, "")
	require.NoError(t, err)
	second, err := r.SetEnvironmentConfig(svc.ID, "local", "LOG_LEVEL", "debug", types.ConfigSourceManual, "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "debug", second.Value)
}

func TestCreateServiceEnforcesPerTeamCap(t *testing.T) {
	s, err := store.NewBoltStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	limits := config.DefaultLimits()
	limits.MaxServicesPerTeam = 2
	r := New(s, limits)

	team, err := r.CreateTeam("Platform", "platform")
	require.NoError(t, err)

	_, err = r.CreateService(team.ID, "One", "one", types.ServiceTypeGo, "", "", "", "", "")
	require.NoError(t, err)
	_, err = r.CreateService(team.ID, "Two", "two", types.ServiceTypeGo, "", "", "", "", "")
	require.NoError(t, err)

	_, err = r.CreateService(team.ID, "Three", "three", types.ServiceTypeGo, "", "", "", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum")
}
