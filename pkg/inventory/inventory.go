package inventory

import (
	"time"

	"github.com/codeops/registry/pkg/apperrors"
	"github.com/codeops/registry/pkg/store"
	"github.com/codeops/registry/pkg/types"
	"github.com/google/uuid"
)

// Ledger is the infrastructure resource ledger. It is safe for concurrent
// use.
type Ledger struct {
	store store.Store
}

// NewLedger creates an infrastructure resource ledger backed by s.
func NewLedger(s store.Store) *Ledger {
	return &Ledger{store: s}
}

// CreateResource validates and persists a new infrastructure resource,
// optionally attached to a service.
func (l *Ledger) CreateResource(teamID string, serviceID *string, resType types.ResourceType, name, environment string, region, arnOrURL *string, cfg map[string]string, createdBy string) (*types.InfrastructureResource, error) {
	if serviceID != nil {
		svc, err := l.store.GetService(*serviceID)
		if err != nil {
			return nil, err
		}
		if svc.TeamID != teamID {
			return nil, apperrors.Validation("service belongs to a different team")
		}
	}

	now := time.Now()
	res := &types.InfrastructureResource{
		ID:          uuid.NewString(),
		TeamID:      teamID,
		ServiceID:   serviceID,
		Type:        resType,
		Name:        name,
		Environment: environment,
		Region:      region,
		ARNOrURL:    arnOrURL,
		Config:      cfg,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := l.store.CreateInfraResource(res); err != nil {
		return nil, err
	}
	return res, nil
}

// GetResource returns a resource by id.
func (l *Ledger) GetResource(id string) (*types.InfrastructureResource, error) {
	return l.store.GetInfraResource(id)
}

// ListByTeam returns every resource for a team, optionally filtered by
// resource type and/or environment (empty string / "" ResourceType means
// "no filter" for that dimension).
func (l *Ledger) ListByTeam(teamID string, resType types.ResourceType, environment string) ([]*types.InfrastructureResource, error) {
	all, err := l.store.ListInfraResourcesByTeam(teamID)
	if err != nil {
		return nil, err
	}
	var filtered []*types.InfrastructureResource
	for _, r := range all {
		if resType != "" && r.Type != resType {
			continue
		}
		if environment != "" && r.Environment != environment {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered, nil
}

// ListByService returns every resource attached to a service.
func (l *Ledger) ListByService(serviceID string) ([]*types.InfrastructureResource, error) {
	return l.store.ListInfraResourcesByService(serviceID)
}

// Update persists changes to a resource's mutable fields.
func (l *Ledger) Update(id string, mutate func(*types.InfrastructureResource)) (*types.InfrastructureResource, error) {
	res, err := l.store.GetInfraResource(id)
	if err != nil {
		return nil, err
	}
	mutate(res)
	res.UpdatedAt = time.Now()
	if err := l.store.UpdateInfraResource(res); err != nil {
		return nil, err
	}
	return res, nil
}

// Orphan clears a resource's service link.
func (l *Ledger) Orphan(id string) (*types.InfrastructureResource, error) {
	return l.Update(id, func(r *types.InfrastructureResource) { r.ServiceID = nil })
}

// Reassign attaches a resource to a different service, which must exist
// and belong to the resource's team.
func (l *Ledger) Reassign(id, newServiceID string) (*types.InfrastructureResource, error) {
	res, err := l.store.GetInfraResource(id)
	if err != nil {
		return nil, err
	}
	svc, err := l.store.GetService(newServiceID)
	if err != nil {
		return nil, err
	}
	if svc.TeamID != res.TeamID {
		return nil, apperrors.Validation("service belongs to a different team than the resource")
	}
	return l.Update(id, func(r *types.InfrastructureResource) { r.ServiceID = &newServiceID })
}

// FindOrphaned returns every team resource with no service link.
func (l *Ledger) FindOrphaned(teamID string) ([]*types.InfrastructureResource, error) {
	all, err := l.store.ListInfraResourcesByTeam(teamID)
	if err != nil {
		return nil, err
	}
	var orphaned []*types.InfrastructureResource
	for _, r := range all {
		if r.ServiceID == nil {
			orphaned = append(orphaned, r)
		}
	}
	return orphaned, nil
}

// Delete deletes a resource by id.
func (l *Ledger) Delete(id string) error {
	return l.store.DeleteInfraResource(id)
}
