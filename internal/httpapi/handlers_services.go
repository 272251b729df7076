package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/codeops/registry/pkg/registry"
	"github.com/codeops/registry/pkg/types"
)

type createServiceRequest struct {
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Type        types.ServiceType `json:"type"`
	RepoURL     string            `json:"repoUrl"`
	Branch      string            `json:"branch"`
	TechStack   string            `json:"techStack"`
	Description string            `json:"description"`
	CreatedBy   string            `json:"createdBy"`
}

type updateServiceRequest struct {
	Name           *string               `json:"name"`
	Description    *string               `json:"description"`
	RepoURL        *string               `json:"repoUrl"`
	Branch         *string               `json:"branch"`
	TechStack      *string               `json:"techStack"`
	HealthCheckURL *string               `json:"healthCheckUrl"`
	Status         *types.ServiceStatus `json:"status"`
}

type cloneServiceRequest struct {
	NewSlug           string `json:"newSlug"`
	TargetEnvironment string `json:"targetEnvironment"`
	ReallocatePorts   bool   `json:"reallocatePorts"`
	Allocator         string `json:"allocator"`
}

func listServices(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := chi.URLParam(r, "teamID")
		if err := authorize(r, teamID, roleReader); err != nil {
			writeError(w, err)
			return
		}
		services, err := reg.Store.ListServicesByTeam(teamID)
		if err != nil {
			writeError(w, err)
			return
		}
		items := make([]interface{}, len(services))
		for i, s := range services {
			items[i] = s
		}
		writeJSON(w, http.StatusOK, paginate(r, items))
	}
}

func createService(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := chi.URLParam(r, "teamID")
		if err := authorize(r, teamID, roleWriter); err != nil {
			writeError(w, err)
			return
		}
		var req createServiceRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		svc, err := reg.CreateService(teamID, req.Name, req.Slug, req.Type, req.RepoURL, req.Branch, req.TechStack, req.Description, req.CreatedBy)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, svc)
	}
}

func getService(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc, err := reg.Store.GetService(chi.URLParam(r, "serviceID"))
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, svc.TeamID, roleReader); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, svc)
	}
}

func updateService(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "serviceID")
		existing, err := reg.Store.GetService(id)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, existing.TeamID, roleWriter); err != nil {
			writeError(w, err)
			return
		}
		var req updateServiceRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		svc, err := reg.UpdateService(id, func(s *types.Service) {
			if req.Name != nil {
				s.Name = *req.Name
			}
			if req.Description != nil {
				s.Description = *req.Description
			}
			if req.RepoURL != nil {
				s.RepoURL = *req.RepoURL
			}
			if req.Branch != nil {
				s.Branch = *req.Branch
			}
			if req.TechStack != nil {
				s.TechStack = *req.TechStack
			}
			if req.HealthCheckURL != nil {
				s.HealthCheckURL = *req.HealthCheckURL
			}
			if req.Status != nil {
				s.Status = *req.Status
			}
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, svc)
	}
}

func deleteService(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "serviceID")
		svc, err := reg.Store.GetService(id)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, svc.TeamID, roleWriter); err != nil {
			writeError(w, err)
			return
		}
		if err := reg.DeleteService(id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func cloneService(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "serviceID")
		svc, err := reg.Store.GetService(id)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, svc.TeamID, roleWriter); err != nil {
			writeError(w, err)
			return
		}
		var req cloneServiceRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		clone, err := reg.CloneService(id, req.NewSlug, req.TargetEnvironment, req.ReallocatePorts, req.Allocator)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, clone)
	}
}

func getServiceIdentity(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "serviceID")
		svc, err := reg.Store.GetService(id)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, svc.TeamID, roleReader); err != nil {
			writeError(w, err)
			return
		}
		identity, err := reg.Config.LoadIdentity(id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, identity)
	}
}

func probeServiceHealth(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "serviceID")
		svc, err := reg.Store.GetService(id)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, svc.TeamID, roleReader); err != nil {
			writeError(w, err)
			return
		}
		result, err := reg.Health.Check(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

type setEnvironmentConfigRequest struct {
	Environment string             `json:"environment"`
	Key         string             `json:"key"`
	Value       string             `json:"value"`
	Source      types.ConfigSource `json:"source"`
	Description string             `json:"description"`
}

func setEnvironmentConfig(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serviceID := chi.URLParam(r, "serviceID")
		svc, err := reg.Store.GetService(serviceID)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, svc.TeamID, roleWriter); err != nil {
			writeError(w, err)
			return
		}
		var req setEnvironmentConfigRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		cfg, err := reg.SetEnvironmentConfig(serviceID, req.Environment, req.Key, req.Value, req.Source, req.Description)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cfg)
	}
}

func listEnvironmentConfig(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serviceID := chi.URLParam(r, "serviceID")
		svc, err := reg.Store.GetService(serviceID)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, svc.TeamID, roleReader); err != nil {
			writeError(w, err)
			return
		}
		environment := r.URL.Query().Get("environment")
		cfg, err := reg.Store.ListEnvironmentConfigByServiceEnv(serviceID, environment)
		if err != nil {
			writeError(w, err)
			return
		}
		items := make([]interface{}, len(cfg))
		for i, c := range cfg {
			items[i] = c
		}
		writeJSON(w, http.StatusOK, paginate(r, items))
	}
}
