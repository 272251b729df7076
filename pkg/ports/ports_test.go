package ports

import (
	"testing"
	"time"

	"github.com/codeops/registry/pkg/apperrors"
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

func newTeamAndService(t *testing.T, s store.Store) (*types.Team, *types.Service) {
	t.Helper()
	team := &types.Team{ID: uuid.NewString(), Name: "Platform", Slug: "platform", CreatedAt: time.Now()}
	require.NoError(t, s.CreateTeam(team))

	svc := &types.Service{
		ID:        uuid.NewString(),
		TeamID:    team.ID,
		Name:      "orders-api",
		Slug:      "orders-api",
		Type:      types.ServiceTypeSpringBoot,
		Status:    types.ServiceStatusActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, s.CreateService(svc))
	return team, svc
}

func TestAutoAllocateFillsGap(t *testing.T) {
	s := newTestStore(t)
	engine := NewEngine(s)
	team, svc := newTeamAndService(t, s)

	pr := &types.PortRange{ID: uuid.NewString(), TeamID: team.ID, Type: types.PortTypeHTTPAPI, Environment: "dev", Start: 8080, End: 8199}
	require.NoError(t, s.CreatePortRange(pr))

	for _, port := range []int{8080, 8082} {
		require.NoError(t, s.CreatePortAllocation(&types.PortAllocation{
			ID: uuid.NewString(), TeamID: team.ID, ServiceID: svc.ID,
			Environment: "dev", Type: types.PortTypeHTTPAPI, PortNumber: port, Protocol: "TCP",
		}))
	}

	alloc, err := engine.AutoAllocate(svc.ID, "dev", types.PortTypeHTTPAPI, "alice")
	require.NoError(t, err)
	assert.Equal(t, 8081, alloc.PortNumber)
	assert.True(t, alloc.AutoAllocated)
}

func TestAutoAllocateFallsBackToLocalRange(t *testing.T) {
	s := newTestStore(t)
	engine := NewEngine(s)
	team, svc := newTeamAndService(t, s)

	pr := &types.PortRange{ID: uuid.NewString(), TeamID: team.ID, Type: types.PortTypeHTTPAPI, Environment: "local", Start: 9000, End: 9010}
	require.NoError(t, s.CreatePortRange(pr))

	alloc, err := engine.AutoAllocate(svc.ID, "staging", types.PortTypeHTTPAPI, "alice")
	require.NoError(t, err)
	assert.Equal(t, 9000, alloc.PortNumber)
	assert.Equal(t, "staging", alloc.Environment)
}

func TestAutoAllocateNoRangeConfigured(t *testing.T) {
	s := newTestStore(t)
	engine := NewEngine(s)
	_, svc := newTeamAndService(t, s)

	_, err := engine.AutoAllocate(svc.ID, "dev", types.PortTypeHTTPAPI, "alice")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	assert.Contains(t, err.Error(), "No port range configured")
}

func TestAutoAllocateSaturatedRange(t *testing.T) {
	s := newTestStore(t)
	engine := NewEngine(s)
	team, svc := newTeamAndService(t, s)

	pr := &types.PortRange{ID: uuid.NewString(), TeamID: team.ID, Type: types.PortTypeHTTPAPI, Environment: "dev", Start: 8080, End: 8081}
	require.NoError(t, s.CreatePortRange(pr))
	require.NoError(t, s.CreatePortAllocation(&types.PortAllocation{ID: uuid.NewString(), TeamID: team.ID, ServiceID: svc.ID, Environment: "dev", Type: types.PortTypeHTTPAPI, PortNumber: 8080}))
	require.NoError(t, s.CreatePortAllocation(&types.PortAllocation{ID: uuid.NewString(), TeamID: team.ID, ServiceID: svc.ID, Environment: "dev", Type: types.PortTypeHTTPAPI, PortNumber: 8081}))

	_, err := engine.AutoAllocate(svc.ID, "dev", types.PortTypeHTTPAPI, "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No available ports in range 8080-8081")
}

func TestManualAllocateRejectsCollision(t *testing.T) {
	s := newTestStore(t)
	engine := NewEngine(s)
	team, svc := newTeamAndService(t, s)
	_ = team

	_, err := engine.ManualAllocate(svc.ID, "dev", types.PortTypeHTTPAPI, 8080, "TCP", "alice")
	require.NoError(t, err)

	_, err = engine.ManualAllocate(svc.ID, "dev", types.PortTypeHTTPAPI, 8080, "TCP", "bob")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	assert.Contains(t, err.Error(), "already allocated")
}

func TestDetectConflicts(t *testing.T) {
	s := newTestStore(t)
	engine := NewEngine(s)
	team, svc := newTeamAndService(t, s)

	require.NoError(t, s.CreatePortAllocation(&types.PortAllocation{ID: uuid.NewString(), TeamID: team.ID, ServiceID: svc.ID, Environment: "dev", Type: types.PortTypeHTTPAPI, PortNumber: 8080}))
	require.NoError(t, s.CreatePortAllocation(&types.PortAllocation{ID: uuid.NewString(), TeamID: team.ID, ServiceID: svc.ID, Environment: "dev", Type: types.PortTypeHTTPAPI, PortNumber: 8080}))

	conflicts, err := engine.DetectConflicts(team.ID)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, 8080, conflicts[0].PortNumber)
	assert.Len(t, conflicts[0].Allocations, 2)
}

func TestSeedDefaultRangesIsNoopWhenRangeExists(t *testing.T) {
	s := newTestStore(t)
	engine := NewEngine(s)
	team, _ := newTeamAndService(t, s)

	first, err := engine.SeedDefaultRanges(team.ID)
	require.NoError(t, err)
	assert.Len(t, first, 12)

	second, err := engine.SeedDefaultRanges(team.ID)
	require.NoError(t, err)
	assert.Len(t, second, 12)

	ranges, err := s.ListPortRangesByTeam(team.ID)
	require.NoError(t, err)
	assert.Len(t, ranges, 12)
}

func TestUpdateRangeRejectsOrphaningShrink(t *testing.T) {
	s := newTestStore(t)
	engine := NewEngine(s)
	team, svc := newTeamAndService(t, s)

	pr := &types.PortRange{ID: uuid.NewString(), TeamID: team.ID, Type: types.PortTypeHTTPAPI, Environment: "dev", Start: 8080, End: 8199}
	require.NoError(t, s.CreatePortRange(pr))
	require.NoError(t, s.CreatePortAllocation(&types.PortAllocation{ID: uuid.NewString(), TeamID: team.ID, ServiceID: svc.ID, Environment: "dev", Type: types.PortTypeHTTPAPI, PortNumber: 8190}))

	_, err := engine.UpdateRange(pr.ID, 8080, 8100, "shrunk")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "would orphan port 8190")
}
