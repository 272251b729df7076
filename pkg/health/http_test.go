package health

import (
	"context"
	"net/http"
	"net/http/httptest"
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

func newServiceWithURL(t *testing.T, s store.Store, teamID, slug, url string) *types.Service {
	t.Helper()
	svc := &types.Service{
		ID: uuid.NewString(), TeamID: teamID, Name: slug, Slug: slug,
		Type: types.ServiceTypeGo, Status: types.ServiceStatusActive,
		HealthCheckURL: url,
		CreatedAt:      time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, s.CreateService(svc))
	return svc
}

func TestCheckUpOn200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := newTestStore(t)
	team := &types.Team{ID: uuid.NewString(), Name: "Platform", Slug: "platform", CreatedAt: time.Now()}
	require.NoError(t, s.CreateTeam(team))
	svc := newServiceWithURL(t, s, team.ID, "api", server.URL)

	agg := NewAggregator(s)
	result, err := agg.Check(context.Background(), svc.ID)
	require.NoError(t, err)
	assert.Equal(t, types.HealthStatusUp, result.Status)

	persisted, err := s.GetService(svc.ID)
	require.NoError(t, err)
	assert.Equal(t, types.HealthStatusUp, persisted.LastHealthStatus)
	assert.NotNil(t, persisted.LastHealthCheckAt)
}

func TestCheckDegradedOnNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	s := newTestStore(t)
	team := &types.Team{ID: uuid.NewString(), Name: "Platform", Slug: "platform", CreatedAt: time.Now()}
	require.NoError(t, s.CreateTeam(team))
	svc := newServiceWithURL(t, s, team.ID, "api", server.URL)

	agg := NewAggregator(s)
	result, err := agg.Check(context.Background(), svc.ID)
	require.NoError(t, err)
	assert.Equal(t, types.HealthStatusDegraded, result.Status)
	assert.Contains(t, result.Message, "503")
}

func TestCheckDownOnConnectFailure(t *testing.T) {
	s := newTestStore(t)
	team := &types.Team{ID: uuid.NewString(), Name: "Platform", Slug: "platform", CreatedAt: time.Now()}
	require.NoError(t, s.CreateTeam(team))
	svc := newServiceWithURL(t, s, team.ID, "api", "http://127.0.0.1:1")

	agg := NewAggregator(s)
	result, err := agg.Check(context.Background(), svc.ID)
	require.NoError(t, err)
	assert.Equal(t, types.HealthStatusDown, result.Status)
}

func TestCheckUnknownWithNoURLNeverPersists(t *testing.T) {
	s := newTestStore(t)
	team := &types.Team{ID: uuid.NewString(), Name: "Platform", Slug: "platform", CreatedAt: time.Now()}
	require.NoError(t, s.CreateTeam(team))
	svc := newServiceWithURL(t, s, team.ID, "api", "")

	agg := NewAggregator(s)
	result, err := agg.Check(context.Background(), svc.ID)
	require.NoError(t, err)
	assert.Equal(t, types.HealthStatusUnknown, result.Status)

	persisted, err := s.GetService(svc.ID)
	require.NoError(t, err)
	assert.Nil(t, persisted.LastHealthCheckAt)
}

func TestCheckTeamRollsUpToWorstStatus(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer up.Close()
	degraded := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer degraded.Close()

	s := newTestStore(t)
	team := &types.Team{ID: uuid.NewString(), Name: "Platform", Slug: "platform", CreatedAt: time.Now()}
	require.NoError(t, s.CreateTeam(team))
	newServiceWithURL(t, s, team.ID, "a", up.URL)
	newServiceWithURL(t, s, team.ID, "b", degraded.URL)

	agg := NewAggregator(s)
	overall, results, err := agg.CheckTeam(context.Background(), team.ID)
	require.NoError(t, err)
	assert.Equal(t, types.HealthStatusDegraded, overall)
	assert.Len(t, results, 2)
}
