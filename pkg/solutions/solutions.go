package solutions

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/codeops/registry/pkg/apperrors"
	"github.com/codeops/registry/pkg/config"
	"github.com/codeops/registry/pkg/store"
	"github.com/codeops/registry/pkg/types"
	"github.com/google/uuid"
)

// Manager is the solution aggregate manager. Multi-step check-then-act
// sequences (slug uniquify, membership add, reorder) are serialized by mu
// since pkg/store only guarantees atomicity per individual call.
type Manager struct {
	store  store.Store
	limits config.Limits
	mu     sync.Mutex
}

// NewManager creates a solution manager backed by s, enforcing the given
// per-team caps.
func NewManager(s store.Store, limits config.Limits) *Manager {
	return &Manager{store: s, limits: limits}
}

func uniqueSlug(store store.Store, teamID, base string) (string, error) {
	slug := base
	for i := 2; ; i++ {
		_, err := store.GetSolutionByTeamSlug(teamID, slug)
		if err != nil {
			if apperrors.Is(err, apperrors.KindNotFound) {
				return slug, nil
			}
			return "", err
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// CreateSolution validates and persists a new solution, applying a
// numeric-suffix slug uniquify on collision.
func (m *Manager) CreateSolution(teamID, slug, name, description string, category types.SolutionCategory, status types.SolutionStatus, iconURL, color *string, createdBy string) (*types.Solution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, err := m.store.ListSolutionsByTeam(teamID)
	if err != nil {
		return nil, err
	}
	if len(existing) >= m.limits.MaxSolutionsPerTeam {
		return nil, apperrors.Validationf("team has reached the maximum of %d solutions", m.limits.MaxSolutionsPerTeam)
	}

	finalSlug, err := uniqueSlug(m.store, teamID, slug)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sol := &types.Solution{
		ID:          uuid.NewString(),
		TeamID:      teamID,
		Slug:        finalSlug,
		Name:        name,
		Description: description,
		Category:    category,
		Status:      status,
		IconURL:     iconURL,
		Color:       color,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := m.store.CreateSolution(sol); err != nil {
		return nil, err
	}
	return sol, nil
}

// UpdateSolution persists changes to mutable solution fields.
func (m *Manager) UpdateSolution(id string, mutate func(*types.Solution)) (*types.Solution, error) {
	sol, err := m.store.GetSolution(id)
	if err != nil {
		return nil, err
	}
	mutate(sol)
	sol.UpdatedAt = time.Now()
	if err := m.store.UpdateSolution(sol); err != nil {
		return nil, err
	}
	return sol, nil
}

// DeleteSolution deletes a solution; the store cascades its members.
func (m *Manager) DeleteSolution(id string) error {
	return m.store.DeleteSolution(id)
}

// MembersOrdered returns a solution's members sorted by DisplayOrder.
func (m *Manager) MembersOrdered(solutionID string) ([]*types.SolutionMember, error) {
	members, err := m.store.ListSolutionMembers(solutionID)
	if err != nil {
		return nil, err
	}
	sort.Slice(members, func(i, j int) bool { return members[i].DisplayOrder < members[j].DisplayOrder })
	return members, nil
}

// AddMember validates and appends a service to a solution.
func (m *Manager) AddMember(solutionID, serviceID string, role types.MemberRole, notes *string) (*types.SolutionMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sol, err := m.store.GetSolution(solutionID)
	if err != nil {
		return nil, err
	}
	svc, err := m.store.GetService(serviceID)
	if err != nil {
		return nil, err
	}
	if svc.TeamID != sol.TeamID {
		return nil, apperrors.Validation("service belongs to a different team than the solution")
	}
	if _, err := m.store.GetSolutionMemberByService(solutionID, serviceID); err == nil {
		return nil, apperrors.Validation("service is already a member of this solution")
	} else if !apperrors.Is(err, apperrors.KindNotFound) {
		return nil, err
	}

	existing, err := m.store.ListSolutionMembers(solutionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	member := &types.SolutionMember{
		ID:           uuid.NewString(),
		SolutionID:   solutionID,
		ServiceID:    serviceID,
		Role:         role,
		DisplayOrder: len(existing),
		Notes:        notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := m.store.CreateSolutionMember(member); err != nil {
		return nil, err
	}
	return member, nil
}

// UpdateMember changes a member's role/notes, keyed by (solution, service).
func (m *Manager) UpdateMember(solutionID, serviceID string, role types.MemberRole, notes *string) (*types.SolutionMember, error) {
	member, err := m.store.GetSolutionMemberByService(solutionID, serviceID)
	if err != nil {
		return nil, err
	}
	member.Role = role
	member.Notes = notes
	member.UpdatedAt = time.Now()
	if err := m.store.UpdateSolutionMember(member); err != nil {
		return nil, err
	}
	return member, nil
}

// RemoveMember removes a service from a solution. The underlying service
// is never deleted.
func (m *Manager) RemoveMember(solutionID, serviceID string) error {
	member, err := m.store.GetSolutionMemberByService(solutionID, serviceID)
	if err != nil {
		return err
	}
	return m.store.DeleteSolutionMember(member.ID)
}

// ReorderMembers assigns DisplayOrder = index for each service id in
// orderedServiceIDs. The set of ids must match the solution's current
// membership exactly.
func (m *Manager) ReorderMembers(solutionID string, orderedServiceIDs []string) ([]*types.SolutionMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	members, err := m.store.ListSolutionMembers(solutionID)
	if err != nil {
		return nil, err
	}
	bySvc := make(map[string]*types.SolutionMember, len(members))
	for _, mbr := range members {
		bySvc[mbr.ServiceID] = mbr
	}
	if len(orderedServiceIDs) != len(members) {
		return nil, apperrors.Validation("reorder list does not match current solution membership")
	}
	seen := make(map[string]bool, len(orderedServiceIDs))
	for _, id := range orderedServiceIDs {
		if seen[id] {
			return nil, apperrors.Validation("reorder list does not match current solution membership")
		}
		seen[id] = true
		if _, ok := bySvc[id]; !ok {
			return nil, apperrors.Validationf("service %s is not a member of solution %s", id, solutionID)
		}
	}

	now := time.Now()
	for idx, serviceID := range orderedServiceIDs {
		mbr := bySvc[serviceID]
		mbr.DisplayOrder = idx
		mbr.UpdatedAt = now
		if err := m.store.UpdateSolutionMember(mbr); err != nil {
			return nil, err
		}
	}
	return m.MembersOrdered(solutionID)
}
