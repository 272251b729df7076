package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeops/registry/pkg/config"
	"github.com/codeops/registry/pkg/registry"
	"github.com/codeops/registry/pkg/store"
	"github.com/codeops/registry/pkg/types"
)

type testServer struct {
	server   *httptest.Server
	verifier *StubVerifier
	writer   string
	reader   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	s, err := store.NewBoltStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	reg := registry.New(s, config.DefaultLimits())

	verifier := NewStubVerifier()
	router := NewRouter(reg, verifier)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	verifier.Register("writer-token", &Principal{UserID: "u1", TeamRoles: map[string]string{}})
	verifier.Register("reader-token", &Principal{UserID: "u2", TeamRoles: map[string]string{}})

	return &testServer{server: server, verifier: verifier, writer: "writer-token", reader: "reader-token"}
}

// grant authorizes the writer/reader test tokens on teamID. Team
// creation itself only requires a valid bearer token, not a role,
// since no team exists yet to hold one.
func (ts *testServer) grant(teamID string) {
	ts.verifier.Register(ts.writer, &Principal{UserID: "u1", TeamRoles: map[string]string{teamID: "writer"}})
	ts.verifier.Register(ts.reader, &Principal{UserID: "u2", TeamRoles: map[string]string{teamID: "reader"}})
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, ts.server.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestCreateTeamRequiresNoPriorRole(t *testing.T) {
	ts := newTestServer(t)
	resp := ts.do(t, http.MethodPost, "/api/v1/registry/teams", ts.reader, teamRequest{Name: "Platform", Slug: "platform"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestMissingBearerTokenRejected(t *testing.T) {
	ts := newTestServer(t)
	resp := ts.do(t, http.MethodGet, "/api/v1/registry/teams", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateServiceRequiresWriterRole(t *testing.T) {
	ts := newTestServer(t)
	resp := ts.do(t, http.MethodPost, "/api/v1/registry/teams", ts.reader, teamRequest{Name: "Platform", Slug: "platform"})
	var team types.Team
	decodeBody(t, resp, &team)
	ts.grant(team.ID)

	body := createServiceRequest{Name: "API", Slug: "api", Type: types.ServiceTypeGo, CreatedBy: "tester"}

	readerResp := ts.do(t, http.MethodPost, fmt.Sprintf("/api/v1/registry/teams/%s/services", team.ID), ts.reader, body)
	defer readerResp.Body.Close()
	assert.Equal(t, http.StatusForbidden, readerResp.StatusCode)

	writerResp := ts.do(t, http.MethodPost, fmt.Sprintf("/api/v1/registry/teams/%s/services", team.ID), ts.writer, body)
	defer writerResp.Body.Close()
	assert.Equal(t, http.StatusCreated, writerResp.StatusCode)

	var svc types.Service
	decodeBody(t, writerResp, &svc)
	assert.Equal(t, "api", svc.Slug)
}

func TestGetServiceNotFoundMapsTo404(t *testing.T) {
	ts := newTestServer(t)
	resp := ts.do(t, http.MethodPost, "/api/v1/registry/teams", ts.reader, teamRequest{Name: "Platform", Slug: "platform"})
	var team types.Team
	decodeBody(t, resp, &team)
	ts.grant(team.ID)

	missing := ts.do(t, http.MethodGet, "/api/v1/registry/services/does-not-exist", ts.reader, nil)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)

	var body errorBody
	decodeBody(t, missing, &body)
	assert.Equal(t, http.StatusNotFound, body.Status)
}

func TestCreateDependencyAndStartupOrder(t *testing.T) {
	ts := newTestServer(t)
	teamResp := ts.do(t, http.MethodPost, "/api/v1/registry/teams", ts.reader, teamRequest{Name: "Platform", Slug: "platform"})
	var team types.Team
	decodeBody(t, teamResp, &team)
	ts.grant(team.ID)

	apiResp := ts.do(t, http.MethodPost, fmt.Sprintf("/api/v1/registry/teams/%s/services", team.ID), ts.writer,
		createServiceRequest{Name: "API", Slug: "api", Type: types.ServiceTypeGo, CreatedBy: "tester"})
	var api types.Service
	decodeBody(t, apiResp, &api)

	dbResp := ts.do(t, http.MethodPost, fmt.Sprintf("/api/v1/registry/teams/%s/services", team.ID), ts.writer,
		createServiceRequest{Name: "DB", Slug: "db", Type: types.ServiceTypeDatabase, CreatedBy: "tester"})
	var db types.Service
	decodeBody(t, dbResp, &db)

	required := true
	depResp := ts.do(t, http.MethodPost, "/api/v1/registry/dependencies", ts.writer, createDependencyRequest{
		SourceServiceID: api.ID, TargetServiceID: db.ID, Type: types.DependencyTypeDatabaseShared, Required: &required,
	})
	defer depResp.Body.Close()
	assert.Equal(t, http.StatusCreated, depResp.StatusCode)

	orderResp := ts.do(t, http.MethodGet, fmt.Sprintf("/api/v1/registry/teams/%s/dependencies/startup-order", team.ID), ts.reader, nil)
	defer orderResp.Body.Close()
	require.Equal(t, http.StatusOK, orderResp.StatusCode)

	var order []string
	decodeBody(t, orderResp, &order)
	require.Len(t, order, 2)
	assert.Equal(t, db.ID, order[0])
	assert.Equal(t, api.ID, order[1])
}
