package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/codeops/registry/pkg/apperrors"
	"github.com/codeops/registry/pkg/types"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketTeams                   = []byte("teams")
	bucketServices                 = []byte("services")
	bucketPortAllocations         = []byte("port_allocations")
	bucketPortRanges               = []byte("port_ranges")
	bucketServiceDependencies      = []byte("service_dependencies")
	bucketAPIRoutes                = []byte("api_routes")
	bucketInfrastructureResources  = []byte("infrastructure_resources")
	bucketEnvironmentConfigs       = []byte("environment_configs")
	bucketSolutions                 = []byte("solutions")
	bucketSolutionMembers           = []byte("solution_members")
	bucketWorkstationProfiles       = []byte("workstation_profiles")
	bucketConfigTemplates           = []byte("config_templates")
)

// BoltStore implements Store using BoltDB.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore creates (or opens) a BoltDB-backed store under dataDir.
func NewBoltStore(dataDir string) (*BoltStore, error) {
	dbPath := filepath.Join(dataDir, "registry.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		buckets := [][]byte{
			bucketTeams,
			bucketServices,
			bucketPortAllocations,
			bucketPortRanges,
			bucketServiceDependencies,
			bucketAPIRoutes,
			bucketInfrastructureResources,
			bucketEnvironmentConfigs,
			bucketSolutions,
			bucketSolutionMembers,
			bucketWorkstationProfiles,
			bucketConfigTemplates,
		}
		for _, bucket := range buckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Close closes the database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func put(tx *bolt.Tx, bucket []byte, id string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return tx.Bucket(bucket).Put([]byte(id), data)
}

// ---- Teams ----

func (s *BoltStore) CreateTeam(team *types.Team) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx, bucketTeams, team.ID, team)
	})
}

func (s *BoltStore) GetTeam(id string) (*types.Team, error) {
	var team types.Team
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketTeams).Get([]byte(id))
		if data == nil {
			return apperrors.NotFoundf("team not found: %s", id)
		}
		return json.Unmarshal(data, &team)
	})
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (s *BoltStore) GetTeamBySlug(slug string) (*types.Team, error) {
	var found *types.Team
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTeams).ForEach(func(k, v []byte) error {
			var team types.Team
			if err := json.Unmarshal(v, &team); err != nil {
				return err
			}
			if team.Slug == slug {
				found = &team
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, apperrors.NotFoundf("team not found: slug=%s", slug)
	}
	return found, nil
}

func (s *BoltStore) ListTeams() ([]*types.Team, error) {
	var teams []*types.Team
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTeams).ForEach(func(k, v []byte) error {
			var team types.Team
			if err := json.Unmarshal(v, &team); err != nil {
				return err
			}
			teams = append(teams, &team)
			return nil
		})
	})
	return teams, err
}

// ---- Services ----

func (s *BoltStore) CreateService(service *types.Service) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx, bucketServices, service.ID, service)
	})
}

func (s *BoltStore) GetService(id string) (*types.Service, error) {
	var svc types.Service
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketServices).Get([]byte(id))
		if data == nil {
			return apperrors.NotFoundf("service not found: %s", id)
		}
		return json.Unmarshal(data, &svc)
	})
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

func (s *BoltStore) GetServiceByTeamSlug(teamID, slug string) (*types.Service, error) {
	var found *types.Service
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketServices).ForEach(func(k, v []byte) error {
			var svc types.Service
			if err := json.Unmarshal(v, &svc); err != nil {
				return err
			}
			if svc.TeamID == teamID && svc.Slug == slug {
				found = &svc
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, apperrors.NotFoundf("service not found: team=%s slug=%s", teamID, slug)
	}
	return found, nil
}

func (s *BoltStore) ListServicesByTeam(teamID string) ([]*types.Service, error) {
	var services []*types.Service
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketServices).ForEach(func(k, v []byte) error {
			var svc types.Service
			if err := json.Unmarshal(v, &svc); err != nil {
				return err
			}
			if svc.TeamID == teamID {
				services = append(services, &svc)
			}
			return nil
		})
	})
	return services, err
}

func (s *BoltStore) ListServicesByIDs(teamID string, ids []string) ([]*types.Service, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var services []*types.Service
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketServices).ForEach(func(k, v []byte) error {
			var svc types.Service
			if err := json.Unmarshal(v, &svc); err != nil {
				return err
			}
			if svc.TeamID == teamID && want[svc.ID] {
				services = append(services, &svc)
			}
			return nil
		})
	})
	return services, err
}

func (s *BoltStore) UpdateService(service *types.Service) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketServices).Get([]byte(service.ID)) == nil {
			return apperrors.NotFoundf("service not found: %s", service.ID)
		}
		return put(tx, bucketServices, service.ID, service)
	})
}

func (s *BoltStore) DeleteService(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketServices)
		if b.Get([]byte(id)) == nil {
			return apperrors.NotFoundf("service not found: %s", id)
		}
		if err := b.Delete([]byte(id)); err != nil {
			return err
		}
		// Cascade: remove this service's port allocations.
		pb := tx.Bucket(bucketPortAllocations)
		var toDelete [][]byte
		err := pb.ForEach(func(k, v []byte) error {
			var alloc types.PortAllocation
			if err := json.Unmarshal(v, &alloc); err != nil {
				return err
			}
			if alloc.ServiceID == id {
				toDelete = append(toDelete, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range toDelete {
			if err := pb.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// ---- Port allocations ----

func (s *BoltStore) CreatePortAllocation(alloc *types.PortAllocation) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx, bucketPortAllocations, alloc.ID, alloc)
	})
}

func (s *BoltStore) GetPortAllocation(id string) (*types.PortAllocation, error) {
	var alloc types.PortAllocation
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketPortAllocations).Get([]byte(id))
		if data == nil {
			return apperrors.NotFoundf("port allocation not found: %s", id)
		}
		return json.Unmarshal(data, &alloc)
	})
	if err != nil {
		return nil, err
	}
	return &alloc, nil
}

func (s *BoltStore) GetPortAllocationByTeamEnvPort(teamID, environment string, port int) (*types.PortAllocation, error) {
	var found *types.PortAllocation
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPortAllocations).ForEach(func(k, v []byte) error {
			var alloc types.PortAllocation
			if err := json.Unmarshal(v, &alloc); err != nil {
				return err
			}
			if alloc.TeamID == teamID && alloc.Environment == environment && alloc.PortNumber == port {
				found = &alloc
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, apperrors.NotFoundf("no allocation for team=%s env=%s port=%d", teamID, environment, port)
	}
	return found, nil
}

func (s *BoltStore) ListPortAllocationsByTeamEnvType(teamID, environment string, portType types.PortType) ([]*types.PortAllocation, error) {
	var allocs []*types.PortAllocation
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPortAllocations).ForEach(func(k, v []byte) error {
			var alloc types.PortAllocation
			if err := json.Unmarshal(v, &alloc); err != nil {
				return err
			}
			if alloc.TeamID == teamID && alloc.Environment == environment && alloc.Type == portType {
				allocs = append(allocs, &alloc)
			}
			return nil
		})
	})
	return allocs, err
}

func (s *BoltStore) ListPortAllocationsByTeam(teamID string) ([]*types.PortAllocation, error) {
	var allocs []*types.PortAllocation
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPortAllocations).ForEach(func(k, v []byte) error {
			var alloc types.PortAllocation
			if err := json.Unmarshal(v, &alloc); err != nil {
				return err
			}
			if alloc.TeamID == teamID {
				allocs = append(allocs, &alloc)
			}
			return nil
		})
	})
	return allocs, err
}

func (s *BoltStore) ListPortAllocationsByService(serviceID string) ([]*types.PortAllocation, error) {
	var allocs []*types.PortAllocation
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPortAllocations).ForEach(func(k, v []byte) error {
			var alloc types.PortAllocation
			if err := json.Unmarshal(v, &alloc); err != nil {
				return err
			}
			if alloc.ServiceID == serviceID {
				allocs = append(allocs, &alloc)
			}
			return nil
		})
	})
	return allocs, err
}

func (s *BoltStore) DeletePortAllocation(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPortAllocations)
		if b.Get([]byte(id)) == nil {
			return apperrors.NotFoundf("port allocation not found: %s", id)
		}
		return b.Delete([]byte(id))
	})
}

func (s *BoltStore) DeletePortAllocationsByService(serviceID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPortAllocations)
		var toDelete [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var alloc types.PortAllocation
			if err := json.Unmarshal(v, &alloc); err != nil {
				return err
			}
			if alloc.ServiceID == serviceID {
				toDelete = append(toDelete, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range toDelete {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// ---- Port ranges ----

func (s *BoltStore) CreatePortRange(pr *types.PortRange) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx, bucketPortRanges, pr.ID, pr)
	})
}

func (s *BoltStore) GetPortRange(id string) (*types.PortRange, error) {
	var pr types.PortRange
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketPortRanges).Get([]byte(id))
		if data == nil {
			return apperrors.NotFoundf("port range not found: %s", id)
		}
		return json.Unmarshal(data, &pr)
	})
	if err != nil {
		return nil, err
	}
	return &pr, nil
}

func (s *BoltStore) GetPortRangeByTeamTypeEnv(teamID string, portType types.PortType, environment string) (*types.PortRange, error) {
	var found *types.PortRange
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPortRanges).ForEach(func(k, v []byte) error {
			var pr types.PortRange
			if err := json.Unmarshal(v, &pr); err != nil {
				return err
			}
			if pr.TeamID == teamID && pr.Type == portType && pr.Environment == environment {
				found = &pr
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, apperrors.NotFoundf("no port range for team=%s type=%s env=%s", teamID, portType, environment)
	}
	return found, nil
}

func (s *BoltStore) ListPortRangesByTeam(teamID string) ([]*types.PortRange, error) {
	var ranges []*types.PortRange
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPortRanges).ForEach(func(k, v []byte) error {
			var pr types.PortRange
			if err := json.Unmarshal(v, &pr); err != nil {
				return err
			}
			if pr.TeamID == teamID {
				ranges = append(ranges, &pr)
			}
			return nil
		})
	})
	return ranges, err
}

func (s *BoltStore) UpdatePortRange(pr *types.PortRange) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketPortRanges).Get([]byte(pr.ID)) == nil {
			return apperrors.NotFoundf("port range not found: %s", pr.ID)
		}
		return put(tx, bucketPortRanges, pr.ID, pr)
	})
}

// ---- Service dependencies ----

func (s *BoltStore) CreateDependency(dep *types.ServiceDependency) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx, bucketServiceDependencies, dep.ID, dep)
	})
}

func (s *BoltStore) GetDependency(id string) (*types.ServiceDependency, error) {
	var dep types.ServiceDependency
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketServiceDependencies).Get([]byte(id))
		if data == nil {
			return apperrors.NotFoundf("dependency not found: %s", id)
		}
		return json.Unmarshal(data, &dep)
	})
	if err != nil {
		return nil, err
	}
	return &dep, nil
}

func (s *BoltStore) GetDependencyBySourceTargetType(sourceID, targetID string, depType types.DependencyType) (*types.ServiceDependency, error) {
	var found *types.ServiceDependency
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketServiceDependencies).ForEach(func(k, v []byte) error {
			var dep types.ServiceDependency
			if err := json.Unmarshal(v, &dep); err != nil {
				return err
			}
			if dep.SourceServiceID == sourceID && dep.TargetServiceID == targetID && dep.Type == depType {
				found = &dep
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, apperrors.NotFoundf("no dependency source=%s target=%s type=%s", sourceID, targetID, depType)
	}
	return found, nil
}

func (s *BoltStore) ListDependenciesByTeam(teamID string) ([]*types.ServiceDependency, error) {
	var deps []*types.ServiceDependency
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketServiceDependencies).ForEach(func(k, v []byte) error {
			var dep types.ServiceDependency
			if err := json.Unmarshal(v, &dep); err != nil {
				return err
			}
			if dep.TeamID == teamID {
				deps = append(deps, &dep)
			}
			return nil
		})
	})
	return deps, err
}

func (s *BoltStore) ListDependenciesBySource(serviceID string) ([]*types.ServiceDependency, error) {
	var deps []*types.ServiceDependency
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketServiceDependencies).ForEach(func(k, v []byte) error {
			var dep types.ServiceDependency
			if err := json.Unmarshal(v, &dep); err != nil {
				return err
			}
			if dep.SourceServiceID == serviceID {
				deps = append(deps, &dep)
			}
			return nil
		})
	})
	return deps, err
}

func (s *BoltStore) ListDependenciesByTarget(serviceID string) ([]*types.ServiceDependency, error) {
	var deps []*types.ServiceDependency
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketServiceDependencies).ForEach(func(k, v []byte) error {
			var dep types.ServiceDependency
			if err := json.Unmarshal(v, &dep); err != nil {
				return err
			}
			if dep.TargetServiceID == serviceID {
				deps = append(deps, &dep)
			}
			return nil
		})
	})
	return deps, err
}

func (s *BoltStore) CountDependenciesBySource(serviceID string) (int, error) {
	deps, err := s.ListDependenciesBySource(serviceID)
	if err != nil {
		return 0, err
	}
	return len(deps), nil
}

func (s *BoltStore) DeleteDependency(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketServiceDependencies)
		if b.Get([]byte(id)) == nil {
			return apperrors.NotFoundf("dependency not found: %s", id)
		}
		return b.Delete([]byte(id))
	})
}

// ---- API routes ----

func (s *BoltStore) CreateRoute(route *types.APIRoute) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx, bucketAPIRoutes, route.ID, route)
	})
}

func (s *BoltStore) GetRoute(id string) (*types.APIRoute, error) {
	var route types.APIRoute
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketAPIRoutes).Get([]byte(id))
		if data == nil {
			return apperrors.NotFoundf("route not found: %s", id)
		}
		return json.Unmarshal(data, &route)
	})
	if err != nil {
		return nil, err
	}
	return &route, nil
}

func (s *BoltStore) ListRoutesByGatewayEnv(gatewayServiceID, environment string) ([]*types.APIRoute, error) {
	var routes []*types.APIRoute
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketAPIRoutes).ForEach(func(k, v []byte) error {
			var route types.APIRoute
			if err := json.Unmarshal(v, &route); err != nil {
				return err
			}
			if route.GatewayServiceID != nil && *route.GatewayServiceID == gatewayServiceID && route.Environment == environment {
				routes = append(routes, &route)
			}
			return nil
		})
	})
	return routes, err
}

func (s *BoltStore) ListRoutesDirectByTeamEnv(teamID, environment string) ([]*types.APIRoute, error) {
	var routes []*types.APIRoute
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketAPIRoutes).ForEach(func(k, v []byte) error {
			var route types.APIRoute
			if err := json.Unmarshal(v, &route); err != nil {
				return err
			}
			if route.TeamID == teamID && route.Environment == environment && route.GatewayServiceID == nil {
				routes = append(routes, &route)
			}
			return nil
		})
	})
	return routes, err
}

func (s *BoltStore) ListRoutesByTeam(teamID string) ([]*types.APIRoute, error) {
	var routes []*types.APIRoute
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketAPIRoutes).ForEach(func(k, v []byte) error {
			var route types.APIRoute
			if err := json.Unmarshal(v, &route); err != nil {
				return err
			}
			if route.TeamID == teamID {
				routes = append(routes, &route)
			}
			return nil
		})
	})
	return routes, err
}

func (s *BoltStore) ListRoutesByService(serviceID string) ([]*types.APIRoute, error) {
	var routes []*types.APIRoute
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketAPIRoutes).ForEach(func(k, v []byte) error {
			var route types.APIRoute
			if err := json.Unmarshal(v, &route); err != nil {
				return err
			}
			if route.ServiceID == serviceID {
				routes = append(routes, &route)
			}
			return nil
		})
	})
	return routes, err
}

func (s *BoltStore) DeleteRoute(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketAPIRoutes)
		if b.Get([]byte(id)) == nil {
			return apperrors.NotFoundf("route not found: %s", id)
		}
		return b.Delete([]byte(id))
	})
}

// ---- Infrastructure resources ----

func (s *BoltStore) CreateInfraResource(res *types.InfrastructureResource) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx, bucketInfrastructureResources, res.ID, res)
	})
}

func (s *BoltStore) GetInfraResource(id string) (*types.InfrastructureResource, error) {
	var res types.InfrastructureResource
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketInfrastructureResources).Get([]byte(id))
		if data == nil {
			return apperrors.NotFoundf("infrastructure resource not found: %s", id)
		}
		return json.Unmarshal(data, &res)
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *BoltStore) ListInfraResourcesByTeam(teamID string) ([]*types.InfrastructureResource, error) {
	var resources []*types.InfrastructureResource
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketInfrastructureResources).ForEach(func(k, v []byte) error {
			var res types.InfrastructureResource
			if err := json.Unmarshal(v, &res); err != nil {
				return err
			}
			if res.TeamID == teamID {
				resources = append(resources, &res)
			}
			return nil
		})
	})
	return resources, err
}

func (s *BoltStore) ListInfraResourcesByService(serviceID string) ([]*types.InfrastructureResource, error) {
	var resources []*types.InfrastructureResource
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketInfrastructureResources).ForEach(func(k, v []byte) error {
			var res types.InfrastructureResource
			if err := json.Unmarshal(v, &res); err != nil {
				return err
			}
			if res.ServiceID != nil && *res.ServiceID == serviceID {
				resources = append(resources, &res)
			}
			return nil
		})
	})
	return resources, err
}

func (s *BoltStore) UpdateInfraResource(res *types.InfrastructureResource) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketInfrastructureResources).Get([]byte(res.ID)) == nil {
			return apperrors.NotFoundf("infrastructure resource not found: %s", res.ID)
		}
		return put(tx, bucketInfrastructureResources, res.ID, res)
	})
}

func (s *BoltStore) DeleteInfraResource(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketInfrastructureResources)
		if b.Get([]byte(id)) == nil {
			return apperrors.NotFoundf("infrastructure resource not found: %s", id)
		}
		return b.Delete([]byte(id))
	})
}

// ---- Environment config ----

func (s *BoltStore) CreateEnvironmentConfig(cfg *types.EnvironmentConfig) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx, bucketEnvironmentConfigs, cfg.ID, cfg)
	})
}

func (s *BoltStore) GetEnvironmentConfig(id string) (*types.EnvironmentConfig, error) {
	var cfg types.EnvironmentConfig
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketEnvironmentConfigs).Get([]byte(id))
		if data == nil {
			return apperrors.NotFoundf("environment config not found: %s", id)
		}
		return json.Unmarshal(data, &cfg)
	})
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *BoltStore) GetEnvironmentConfigByKey(serviceID, environment, key string) (*types.EnvironmentConfig, error) {
	var found *types.EnvironmentConfig
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketEnvironmentConfigs).ForEach(func(k, v []byte) error {
			var cfg types.EnvironmentConfig
			if err := json.Unmarshal(v, &cfg); err != nil {
				return err
			}
			if cfg.ServiceID == serviceID && cfg.Environment == environment && cfg.Key == key {
				found = &cfg
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, apperrors.NotFoundf("no config service=%s env=%s key=%s", serviceID, environment, key)
	}
	return found, nil
}

func (s *BoltStore) ListEnvironmentConfigByServiceEnv(serviceID, environment string) ([]*types.EnvironmentConfig, error) {
	var configs []*types.EnvironmentConfig
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketEnvironmentConfigs).ForEach(func(k, v []byte) error {
			var cfg types.EnvironmentConfig
			if err := json.Unmarshal(v, &cfg); err != nil {
				return err
			}
			if cfg.ServiceID == serviceID && cfg.Environment == environment {
				configs = append(configs, &cfg)
			}
			return nil
		})
	})
	return configs, err
}

func (s *BoltStore) UpdateEnvironmentConfig(cfg *types.EnvironmentConfig) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketEnvironmentConfigs).Get([]byte(cfg.ID)) == nil {
			return apperrors.NotFoundf("environment config not found: %s", cfg.ID)
		}
		return put(tx, bucketEnvironmentConfigs, cfg.ID, cfg)
	})
}

func (s *BoltStore) DeleteEnvironmentConfig(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketEnvironmentConfigs)
		if b.Get([]byte(id)) == nil {
			return apperrors.NotFoundf("environment config not found: %s", id)
		}
		return b.Delete([]byte(id))
	})
}

// ---- Solutions ----

func (s *BoltStore) CreateSolution(sol *types.Solution) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx, bucketSolutions, sol.ID, sol)
	})
}

func (s *BoltStore) GetSolution(id string) (*types.Solution, error) {
	var sol types.Solution
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketSolutions).Get([]byte(id))
		if data == nil {
			return apperrors.NotFoundf("solution not found: %s", id)
		}
		return json.Unmarshal(data, &sol)
	})
	if err != nil {
		return nil, err
	}
	return &sol, nil
}

func (s *BoltStore) GetSolutionByTeamSlug(teamID, slug string) (*types.Solution, error) {
	var found *types.Solution
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSolutions).ForEach(func(k, v []byte) error {
			var sol types.Solution
			if err := json.Unmarshal(v, &sol); err != nil {
				return err
			}
			if sol.TeamID == teamID && sol.Slug == slug {
				found = &sol
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, apperrors.NotFoundf("solution not found: team=%s slug=%s", teamID, slug)
	}
	return found, nil
}

func (s *BoltStore) ListSolutionsByTeam(teamID string) ([]*types.Solution, error) {
	var solutions []*types.Solution
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSolutions).ForEach(func(k, v []byte) error {
			var sol types.Solution
			if err := json.Unmarshal(v, &sol); err != nil {
				return err
			}
			if sol.TeamID == teamID {
				solutions = append(solutions, &sol)
			}
			return nil
		})
	})
	return solutions, err
}

func (s *BoltStore) UpdateSolution(sol *types.Solution) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketSolutions).Get([]byte(sol.ID)) == nil {
			return apperrors.NotFoundf("solution not found: %s", sol.ID)
		}
		return put(tx, bucketSolutions, sol.ID, sol)
	})
}

func (s *BoltStore) DeleteSolution(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSolutions)
		if b.Get([]byte(id)) == nil {
			return apperrors.NotFoundf("solution not found: %s", id)
		}
		if err := b.Delete([]byte(id)); err != nil {
			return err
		}
		mb := tx.Bucket(bucketSolutionMembers)
		var toDelete [][]byte
		err := mb.ForEach(func(k, v []byte) error {
			var m types.SolutionMember
			if err := json.Unmarshal(v, &m); err != nil {
				return err
			}
			if m.SolutionID == id {
				toDelete = append(toDelete, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range toDelete {
			if err := mb.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// ---- Solution members ----

func (s *BoltStore) CreateSolutionMember(m *types.SolutionMember) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx, bucketSolutionMembers, m.ID, m)
	})
}

func (s *BoltStore) GetSolutionMember(id string) (*types.SolutionMember, error) {
	var m types.SolutionMember
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketSolutionMembers).Get([]byte(id))
		if data == nil {
			return apperrors.NotFoundf("solution member not found: %s", id)
		}
		return json.Unmarshal(data, &m)
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *BoltStore) GetSolutionMemberByService(solutionID, serviceID string) (*types.SolutionMember, error) {
	var found *types.SolutionMember
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSolutionMembers).ForEach(func(k, v []byte) error {
			var m types.SolutionMember
			if err := json.Unmarshal(v, &m); err != nil {
				return err
			}
			if m.SolutionID == solutionID && m.ServiceID == serviceID {
				found = &m
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, apperrors.NotFoundf("service %s is not a member of solution %s", serviceID, solutionID)
	}
	return found, nil
}

func (s *BoltStore) ListSolutionMembers(solutionID string) ([]*types.SolutionMember, error) {
	var members []*types.SolutionMember
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSolutionMembers).ForEach(func(k, v []byte) error {
			var m types.SolutionMember
			if err := json.Unmarshal(v, &m); err != nil {
				return err
			}
			if m.SolutionID == solutionID {
				members = append(members, &m)
			}
			return nil
		})
	})
	return members, err
}

func (s *BoltStore) ListSolutionMembershipsByService(serviceID string) ([]*types.SolutionMember, error) {
	var members []*types.SolutionMember
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSolutionMembers).ForEach(func(k, v []byte) error {
			var m types.SolutionMember
			if err := json.Unmarshal(v, &m); err != nil {
				return err
			}
			if m.ServiceID == serviceID {
				members = append(members, &m)
			}
			return nil
		})
	})
	return members, err
}

func (s *BoltStore) UpdateSolutionMember(m *types.SolutionMember) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketSolutionMembers).Get([]byte(m.ID)) == nil {
			return apperrors.NotFoundf("solution member not found: %s", m.ID)
		}
		return put(tx, bucketSolutionMembers, m.ID, m)
	})
}

func (s *BoltStore) DeleteSolutionMember(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSolutionMembers)
		if b.Get([]byte(id)) == nil {
			return apperrors.NotFoundf("solution member not found: %s", id)
		}
		return b.Delete([]byte(id))
	})
}

func (s *BoltStore) DeleteSolutionMembersBySolution(solutionID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSolutionMembers)
		var toDelete [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var m types.SolutionMember
			if err := json.Unmarshal(v, &m); err != nil {
				return err
			}
			if m.SolutionID == solutionID {
				toDelete = append(toDelete, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range toDelete {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// ---- Workstation profiles ----

func (s *BoltStore) CreateWorkstationProfile(p *types.WorkstationProfile) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx, bucketWorkstationProfiles, p.ID, p)
	})
}

func (s *BoltStore) GetWorkstationProfile(id string) (*types.WorkstationProfile, error) {
	var p types.WorkstationProfile
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketWorkstationProfiles).Get([]byte(id))
		if data == nil {
			return apperrors.NotFoundf("workstation profile not found: %s", id)
		}
		return json.Unmarshal(data, &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *BoltStore) GetWorkstationProfileByTeamName(teamID, name string) (*types.WorkstationProfile, error) {
	var found *types.WorkstationProfile
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketWorkstationProfiles).ForEach(func(k, v []byte) error {
			var p types.WorkstationProfile
			if err := json.Unmarshal(v, &p); err != nil {
				return err
			}
			if p.TeamID == teamID && p.Name == name {
				found = &p
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, apperrors.NotFoundf("workstation profile not found: team=%s name=%s", teamID, name)
	}
	return found, nil
}

func (s *BoltStore) ListWorkstationProfilesByTeam(teamID string) ([]*types.WorkstationProfile, error) {
	var profiles []*types.WorkstationProfile
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketWorkstationProfiles).ForEach(func(k, v []byte) error {
			var p types.WorkstationProfile
			if err := json.Unmarshal(v, &p); err != nil {
				return err
			}
			if p.TeamID == teamID {
				profiles = append(profiles, &p)
			}
			return nil
		})
	})
	return profiles, err
}

func (s *BoltStore) UpdateWorkstationProfile(p *types.WorkstationProfile) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketWorkstationProfiles).Get([]byte(p.ID)) == nil {
			return apperrors.NotFoundf("workstation profile not found: %s", p.ID)
		}
		return put(tx, bucketWorkstationProfiles, p.ID, p)
	})
}

func (s *BoltStore) DeleteWorkstationProfile(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketWorkstationProfiles)
		if b.Get([]byte(id)) == nil {
			return apperrors.NotFoundf("workstation profile not found: %s", id)
		}
		return b.Delete([]byte(id))
	})
}

// ---- Config templates ----

func (s *BoltStore) CreateConfigTemplate(tpl *types.ConfigTemplate) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx, bucketConfigTemplates, tpl.ID, tpl)
	})
}

func (s *BoltStore) GetConfigTemplate(id string) (*types.ConfigTemplate, error) {
	var tpl types.ConfigTemplate
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketConfigTemplates).Get([]byte(id))
		if data == nil {
			return apperrors.NotFoundf("config template not found: %s", id)
		}
		return json.Unmarshal(data, &tpl)
	})
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (s *BoltStore) GetConfigTemplateByKey(serviceID string, typ types.ConfigTemplateType, environment string) (*types.ConfigTemplate, error) {
	var found *types.ConfigTemplate
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketConfigTemplates).ForEach(func(k, v []byte) error {
			var tpl types.ConfigTemplate
			if err := json.Unmarshal(v, &tpl); err != nil {
				return err
			}
			if tpl.ServiceID == serviceID && tpl.Type == typ && tpl.Environment == environment {
				found = &tpl
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, apperrors.NotFoundf("no config template service=%s type=%s env=%s", serviceID, typ, environment)
	}
	return found, nil
}

func (s *BoltStore) ListConfigTemplatesByService(serviceID string) ([]*types.ConfigTemplate, error) {
	var templates []*types.ConfigTemplate
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketConfigTemplates).ForEach(func(k, v []byte) error {
			var tpl types.ConfigTemplate
			if err := json.Unmarshal(v, &tpl); err != nil {
				return err
			}
			if tpl.ServiceID == serviceID {
				templates = append(templates, &tpl)
			}
			return nil
		})
	})
	return templates, err
}

func (s *BoltStore) UpdateConfigTemplate(tpl *types.ConfigTemplate) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketConfigTemplates).Get([]byte(tpl.ID)) == nil {
			return apperrors.NotFoundf("config template not found: %s", tpl.ID)
		}
		return put(tx, bucketConfigTemplates, tpl.ID, tpl)
	})
}

func (s *BoltStore) DeleteConfigTemplate(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketConfigTemplates)
		if b.Get([]byte(id)) == nil {
			return apperrors.NotFoundf("config template not found: %s", id)
		}
		return b.Delete([]byte(id))
	})
}
