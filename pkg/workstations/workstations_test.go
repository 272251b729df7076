package workstations

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

func TestCreateProfileProjectsStartupOrder(t *testing.T) {
	s := newTestStore(t)
	team := newTeam(t, s)
	a := newService(t, s, team.ID, "a")
	b := newService(t, s, team.ID, "b")
	c := newService(t, s, team.ID, "c")

	graph := depgraph.NewEngine(s, config.DefaultLimits())
	_, err := graph.CreateDependency(a.ID, b.ID, types.DependencyTypeHTTPREST, "", nil, "")
	require.NoError(t, err)
	_, err = graph.CreateDependency(b.ID, c.ID, types.DependencyTypeHTTPREST, "", nil, "")
	require.NoError(t, err)

	mgr := NewManager(s, graph, config.DefaultLimits())
	profile, err := mgr.CreateProfile(team.ID, "daily-dev", "", []string{a.ID, b.ID, c.ID}, nil, "alice")
	require.NoError(t, err)

	idxC := indexOf(profile.StartupOrder, c.ID)
	idxB := indexOf(profile.StartupOrder, b.ID)
	idxA := indexOf(profile.StartupOrder, a.ID)
	assert.True(t, idxC < idxB)
	assert.True(t, idxB < idxA)
}

func TestCreateProfileRejectsDuplicateName(t *testing.T) {
	s := newTestStore(t)
	team := newTeam(t, s)
	svc := newService(t, s, team.ID, "a")
	graph := depgraph.NewEngine(s, config.DefaultLimits())
	mgr := NewManager(s, graph, config.DefaultLimits())

	_, err := mgr.CreateProfile(team.ID, "daily-dev", "", []string{svc.ID}, nil, "alice")
	require.NoError(t, err)

	_, err = mgr.CreateProfile(team.ID, "daily-dev", "", []string{svc.ID}, nil, "alice")
	require.Error(t, err)
}

func TestSetDefaultClearsPrevious(t *testing.T) {
	s := newTestStore(t)
	team := newTeam(t, s)
	svc := newService(t, s, team.ID, "a")
	graph := depgraph.NewEngine(s, config.DefaultLimits())
	mgr := NewManager(s, graph, config.DefaultLimits())

	p1, err := mgr.CreateProfile(team.ID, "one", "", []string{svc.ID}, nil, "alice")
	require.NoError(t, err)
	p2, err := mgr.CreateProfile(team.ID, "two", "", []string{svc.ID}, nil, "alice")
	require.NoError(t, err)

	_, err = mgr.SetDefault(p1.ID)
	require.NoError(t, err)
	_, err = mgr.SetDefault(p2.ID)
	require.NoError(t, err)

	got1, err := s.GetWorkstationProfile(p1.ID)
	require.NoError(t, err)
	got2, err := s.GetWorkstationProfile(p2.ID)
	require.NoError(t, err)
	assert.False(t, got1.IsDefault)
	assert.True(t, got2.IsDefault)
}

func TestCreateFromSolution(t *testing.T) {
	s := newTestStore(t)
	team := newTeam(t, s)
	svc := newService(t, s, team.ID, "a")

	sol := &types.Solution{
		ID: uuid.NewString(), TeamID: team.ID, Slug: "checkout", Name: "Checkout",
		Category: types.SolutionCategoryProduct, Status: types.SolutionStatusActive,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, s.CreateSolution(sol))
	require.NoError(t, s.CreateSolutionMember(&types.SolutionMember{
		ID: uuid.NewString(), SolutionID: sol.ID, ServiceID: svc.ID,
		Role: types.MemberRoleCore, DisplayOrder: 0,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))

	graph := depgraph.NewEngine(s, config.DefaultLimits())
	mgr := NewManager(s, graph, config.DefaultLimits())

	profile, err := mgr.CreateFromSolution(sol.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Solution: Checkout", profile.Name)
	assert.Equal(t, []string{svc.ID}, profile.ServiceIDs)
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
