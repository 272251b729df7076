package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/codeops/registry/pkg/types"
)

// Client is a thin wrapper around the registry's HTTP API. It holds no
// mutable state beyond the bearer token and is safe for concurrent use.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient overrides the default http.Client, e.g. to set a
// custom timeout or transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client against baseURL, e.g. "http://localhost:8088".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is returned for any non-2xx response, carrying the status
// and message the server reported.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("registry api: %d: %s", e.Status, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var errBody struct {
			Status  int    `json:"status"`
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		if errBody.Message == "" {
			errBody.Message = resp.Status
		}
		return &APIError{Status: resp.StatusCode, Message: errBody.Message}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// CreateTeam registers a new team.
func (c *Client) CreateTeam(ctx context.Context, name, slug string) (*types.Team, error) {
	var team types.Team
	err := c.do(ctx, http.MethodPost, "/api/v1/registry/teams", map[string]string{"name": name, "slug": slug}, &team)
	return &team, err
}

// GetTeam fetches a team by ID.
func (c *Client) GetTeam(ctx context.Context, teamID string) (*types.Team, error) {
	var team types.Team
	err := c.do(ctx, http.MethodGet, "/api/v1/registry/teams/"+url.PathEscape(teamID), nil, &team)
	return &team, err
}

// CreateServiceInput is the set of fields needed to register a service.
type CreateServiceInput struct {
	Name        string
	Slug        string
	Type        types.ServiceType
	RepoURL     string
	Branch      string
	TechStack   string
	Description string
	CreatedBy   string
}

// CreateService registers a service under teamID.
func (c *Client) CreateService(ctx context.Context, teamID string, in CreateServiceInput) (*types.Service, error) {
	var svc types.Service
	err := c.do(ctx, http.MethodPost, "/api/v1/registry/teams/"+url.PathEscape(teamID)+"/services", map[string]interface{}{
		"name":        in.Name,
		"slug":        in.Slug,
		"type":        in.Type,
		"repoUrl":     in.RepoURL,
		"branch":      in.Branch,
		"techStack":   in.TechStack,
		"description": in.Description,
		"createdBy":   in.CreatedBy,
	}, &svc)
	return &svc, err
}

// GetService fetches a service by ID.
func (c *Client) GetService(ctx context.Context, serviceID string) (*types.Service, error) {
	var svc types.Service
	err := c.do(ctx, http.MethodGet, "/api/v1/registry/services/"+url.PathEscape(serviceID), nil, &svc)
	return &svc, err
}

// DeleteService removes a service.
func (c *Client) DeleteService(ctx context.Context, serviceID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/registry/services/"+url.PathEscape(serviceID), nil, nil)
}

// CreateDependency links sourceServiceID to targetServiceID.
func (c *Client) CreateDependency(ctx context.Context, sourceServiceID, targetServiceID string, depType types.DependencyType, required bool, description, endpointHint string) (*types.ServiceDependency, error) {
	var dep types.ServiceDependency
	err := c.do(ctx, http.MethodPost, "/api/v1/registry/dependencies", map[string]interface{}{
		"sourceServiceId": sourceServiceID,
		"targetServiceId": targetServiceID,
		"type":            depType,
		"description":     description,
		"required":        &required,
		"endpointHint":    endpointHint,
	}, &dep)
	return &dep, err
}

// StartupOrder returns the team's services ordered so dependencies
// start before their dependents.
func (c *Client) StartupOrder(ctx context.Context, teamID string) ([]string, error) {
	var order []string
	err := c.do(ctx, http.MethodGet, "/api/v1/registry/teams/"+url.PathEscape(teamID)+"/dependencies/startup-order", nil, &order)
	return order, err
}

// AutoAllocatePort requests the next free port of portType for a
// service in environment.
func (c *Client) AutoAllocatePort(ctx context.Context, serviceID, environment string, portType types.PortType, allocator string) (*types.PortAllocation, error) {
	var alloc types.PortAllocation
	err := c.do(ctx, http.MethodPost, "/api/v1/registry/services/"+url.PathEscape(serviceID)+"/ports/allocate", map[string]interface{}{
		"environment": environment,
		"type":        portType,
		"allocator":   allocator,
	}, &alloc)
	return &alloc, err
}

// CreateSolution groups services into a named solution.
func (c *Client) CreateSolution(ctx context.Context, teamID, slug, name, description string, category types.SolutionCategory, createdBy string) (*types.Solution, error) {
	var sol types.Solution
	err := c.do(ctx, http.MethodPost, "/api/v1/registry/teams/"+url.PathEscape(teamID)+"/solutions", map[string]interface{}{
		"slug":        slug,
		"name":        name,
		"description": description,
		"category":    category,
		"createdBy":   createdBy,
	}, &sol)
	return &sol, err
}

// CheckTeamHealth probes every active service on the team and returns the
// team-level rollup status.
func (c *Client) CheckTeamHealth(ctx context.Context, teamID string) (types.HealthStatus, error) {
	var result struct {
		Status types.HealthStatus `json:"status"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/registry/teams/"+url.PathEscape(teamID)+"/health/check", nil, &result)
	return result.Status, err
}
