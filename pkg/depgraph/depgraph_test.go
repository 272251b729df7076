package depgraph

import (
	"testing"
	"time"

	"github.com/codeops/registry/pkg/apperrors"
	"github.com/codeops/registry/pkg/config"
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

func TestHasPathLaws(t *testing.T) {
	assert.True(t, HasPath("a", "a", nil))

	edges := []*types.ServiceDependency{
		{SourceServiceID: "a", TargetServiceID: "b"},
		{SourceServiceID: "b", TargetServiceID: "c"},
	}
	assert.True(t, HasPath("a", "c", edges))
	assert.False(t, HasPath("c", "a", edges))
}

func TestCreateDependencyRejectsSelfDependency(t *testing.T) {
	s := newTestStore(t)
	engine := NewEngine(s, config.DefaultLimits())
	team := newTeam(t, s)
	svc := newService(t, s, team.ID, "orders")

	_, err := engine.CreateDependency(svc.ID, svc.ID, types.DependencyTypeHTTPREST, "", nil, "")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	assert.Contains(t, err.Error(), "cannot depend on itself")
}

func TestCreateDependencyRejectsCycle(t *testing.T) {
	s := newTestStore(t)
	engine := NewEngine(s, config.DefaultLimits())
	team := newTeam(t, s)
	a := newService(t, s, team.ID, "a")
	b := newService(t, s, team.ID, "b")

	_, err := engine.CreateDependency(a.ID, b.ID, types.DependencyTypeHTTPREST, "", nil, "")
	require.NoError(t, err)

	_, err = engine.CreateDependency(b.ID, a.ID, types.DependencyTypeHTTPREST, "", nil, "")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	assert.Contains(t, err.Error(), "cycle")
}

func TestCreateDependencyRejectsDifferentTeams(t *testing.T) {
	s := newTestStore(t)
	engine := NewEngine(s, config.DefaultLimits())
	teamA := newTeam(t, s)
	teamB := &types.Team{ID: uuid.NewString(), Name: "Other", Slug: "other", CreatedAt: time.Now()}
	require.NoError(t, s.CreateTeam(teamB))
	a := newService(t, s, teamA.ID, "a")
	b := newService(t, s, teamB.ID, "b")

	_, err := engine.CreateDependency(a.ID, b.ID, types.DependencyTypeHTTPREST, "", nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "different teams")
}

func TestKahnChain(t *testing.T) {
	s := newTestStore(t)
	engine := NewEngine(s, config.DefaultLimits())
	team := newTeam(t, s)
	a := newService(t, s, team.ID, "a")
	b := newService(t, s, team.ID, "b")
	c := newService(t, s, team.ID, "c")

	_, err := engine.CreateDependency(a.ID, b.ID, types.DependencyTypeHTTPREST, "", nil, "")
	require.NoError(t, err)
	_, err = engine.CreateDependency(b.ID, c.ID, types.DependencyTypeHTTPREST, "", nil, "")
	require.NoError(t, err)

	order, err := engine.StartupOrder(team.ID)
	require.NoError(t, err)

	indexOf := func(id string) int {
		for i, v := range order {
			if v == id {
				return i
			}
		}
		return -1
	}
	assert.Less(t, indexOf(c.ID), indexOf(b.ID))
	assert.Less(t, indexOf(b.ID), indexOf(a.ID))
}

func TestImpactAnalysisDiamond(t *testing.T) {
	s := newTestStore(t)
	engine := NewEngine(s, config.DefaultLimits())
	team := newTeam(t, s)
	a := newService(t, s, team.ID, "a")
	b := newService(t, s, team.ID, "b")
	c := newService(t, s, team.ID, "c")
	d := newService(t, s, team.ID, "d")

	_, err := engine.CreateDependency(a.ID, c.ID, types.DependencyTypeHTTPREST, "", nil, "")
	require.NoError(t, err)
	_, err = engine.CreateDependency(b.ID, c.ID, types.DependencyTypeHTTPREST, "", nil, "")
	require.NoError(t, err)
	_, err = engine.CreateDependency(d.ID, a.ID, types.DependencyTypeHTTPREST, "", nil, "")
	require.NoError(t, err)
	_, err = engine.CreateDependency(d.ID, b.ID, types.DependencyTypeHTTPREST, "", nil, "")
	require.NoError(t, err)

	impact, err := engine.ImpactAnalysis(c.ID)
	require.NoError(t, err)
	require.Len(t, impact, 3)

	byID := make(map[string]ImpactEntry)
	for _, entry := range impact {
		byID[entry.ServiceID] = entry
	}
	assert.Equal(t, 1, byID[a.ID].Depth)
	assert.Equal(t, 1, byID[b.ID].Depth)
	assert.Equal(t, 2, byID[d.ID].Depth)
}

func TestDetectCyclesEmptyIffStartupOrderComplete(t *testing.T) {
	s := newTestStore(t)
	engine := NewEngine(s, config.DefaultLimits())
	team := newTeam(t, s)
	a := newService(t, s, team.ID, "a")
	b := newService(t, s, team.ID, "b")

	_, err := engine.CreateDependency(a.ID, b.ID, types.DependencyTypeHTTPREST, "", nil, "")
	require.NoError(t, err)

	cycles, err := engine.DetectCycles(team.ID)
	require.NoError(t, err)
	assert.Empty(t, cycles)

	order, err := engine.StartupOrder(team.ID)
	require.NoError(t, err)
	assert.Len(t, order, 2)
}

func TestCreateDependencyRejectsDuplicateEdge(t *testing.T) {
	s := newTestStore(t)
	engine := NewEngine(s, config.DefaultLimits())
	team := newTeam(t, s)
	a := newService(t, s, team.ID, "a")
	b := newService(t, s, team.ID, "b")

	_, err := engine.CreateDependency(a.ID, b.ID, types.DependencyTypeHTTPREST, "", nil, "")
	require.NoError(t, err)

	_, err = engine.CreateDependency(a.ID, b.ID, types.DependencyTypeHTTPREST, "", nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
