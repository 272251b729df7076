package routes

import (
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/codeops/registry/pkg/apperrors"
	"github.com/codeops/registry/pkg/store"
	"github.com/codeops/registry/pkg/types"
	"github.com/google/uuid"
)

var validPrefix = regexp.MustCompile(`^/[a-z0-9/_.{}-]+$`)

// Manager is the route namespace manager. It is safe for concurrent use.
type Manager struct {
	store store.Store
	mu    sync.Mutex
}

// NewManager creates a route namespace manager backed by s.
func NewManager(s store.Store) *Manager {
	return &Manager{store: s}
}

// Normalize lowercases prefix, ensures a leading slash, strips any
// trailing slash, and rejects characters outside [a-z0-9/_.{}-] as well
// as a bare "/" with nothing after it.
// Normalize is idempotent: Normalize(Normalize(p)) == Normalize(p).
func Normalize(prefix string) (string, error) {
	p := strings.ToLower(prefix)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	if !validPrefix.MatchString(p) {
		return "", apperrors.Validation("invalid characters in route prefix")
	}
	return p, nil
}

// overlaps reports whether a and b overlap under the prefix-boundary
// rule: equal, or one followed by a "/" boundary is a prefix of the
// other.
func overlaps(a, b string) bool {
	return isPrefixBoundary(a, b) || isPrefixBoundary(b, a)
}

func isPrefixBoundary(longer, shorter string) bool {
	if !strings.HasPrefix(longer, shorter) {
		return false
	}
	if len(longer) == len(shorter) {
		return true
	}
	if shorter[len(shorter)-1] == '/' {
		return true
	}
	return longer[len(shorter)] == '/'
}

func (m *Manager) checkOverlap(candidates []*types.APIRoute, prefix, serviceID string) error {
	for _, existing := range candidates {
		if !overlaps(existing.Prefix, prefix) {
			continue
		}
		if existing.ServiceID == serviceID {
			return apperrors.Validation("service already has a route with overlapping prefix")
		}
		return apperrors.Validation("conflicts with existing route")
	}
	return nil
}

func (m *Manager) overlapCandidates(teamID string, gatewayServiceID *string, environment string) ([]*types.APIRoute, error) {
	if gatewayServiceID != nil {
		return m.store.ListRoutesByGatewayEnv(*gatewayServiceID, environment)
	}
	return m.store.ListRoutesDirectByTeamEnv(teamID, environment)
}

// CreateRoute validates and persists a new route binding.
func (m *Manager) CreateRoute(serviceID string, gatewayServiceID *string, prefix, methods, environment, description string) (*types.APIRoute, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	service, err := m.store.GetService(serviceID)
	if err != nil {
		return nil, err
	}

	if gatewayServiceID != nil {
		gateway, err := m.store.GetService(*gatewayServiceID)
		if err != nil {
			return nil, err
		}
		if gateway.TeamID != service.TeamID {
			return nil, apperrors.Validation("gateway service must belong to the same team")
		}
	}

	normalized, err := Normalize(prefix)
	if err != nil {
		return nil, err
	}

	candidates, err := m.overlapCandidates(service.TeamID, gatewayServiceID, environment)
	if err != nil {
		return nil, err
	}
	if err := m.checkOverlap(candidates, normalized, serviceID); err != nil {
		return nil, err
	}

	now := time.Now()
	route := &types.APIRoute{
		ID:               uuid.NewString(),
		TeamID:           service.TeamID,
		ServiceID:        serviceID,
		GatewayServiceID: gatewayServiceID,
		Prefix:           normalized,
		Methods:          methods,
		Environment:      environment,
		Description:      description,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := m.store.CreateRoute(route); err != nil {
		return nil, err
	}
	return route, nil
}

// CheckAvailability reports whether prefix is free within the given
// overlap scope, and the routes it would conflict with otherwise.
func (m *Manager) CheckAvailability(teamID string, gatewayServiceID *string, environment, prefix string) (bool, []*types.APIRoute, error) {
	normalized, err := Normalize(prefix)
	if err != nil {
		return false, nil, err
	}
	candidates, err := m.overlapCandidates(teamID, gatewayServiceID, environment)
	if err != nil {
		return false, nil, err
	}

	var conflicting []*types.APIRoute
	for _, existing := range candidates {
		if overlaps(existing.Prefix, normalized) {
			conflicting = append(conflicting, existing)
		}
	}
	return len(conflicting) == 0, conflicting, nil
}

// DeleteRoute deletes a route by id.
func (m *Manager) DeleteRoute(id string) error {
	return m.store.DeleteRoute(id)
}
