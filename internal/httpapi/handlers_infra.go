package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/codeops/registry/pkg/registry"
	"github.com/codeops/registry/pkg/types"
)

type createResourceRequest struct {
	ServiceID   *string            `json:"serviceId"`
	Type        types.ResourceType `json:"type"`
	Name        string             `json:"name"`
	Environment string             `json:"environment"`
	Region      *string            `json:"region"`
	ARNOrURL    *string            `json:"arnOrUrl"`
	Config      map[string]string  `json:"config"`
	CreatedBy   string             `json:"createdBy"`
}

func createResource(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := chi.URLParam(r, "teamID")
		if err := authorize(r, teamID, roleWriter); err != nil {
			writeError(w, err)
			return
		}
		var req createResourceRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		res, err := reg.Inventory.CreateResource(teamID, req.ServiceID, req.Type, req.Name, req.Environment, req.Region, req.ARNOrURL, req.Config, req.CreatedBy)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	}
}

func getResource(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := reg.Inventory.GetResource(chi.URLParam(r, "resourceID"))
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, res.TeamID, roleReader); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func listResources(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := chi.URLParam(r, "teamID")
		if err := authorize(r, teamID, roleReader); err != nil {
			writeError(w, err)
			return
		}
		q := r.URL.Query()
		resources, err := reg.Inventory.ListByTeam(teamID, types.ResourceType(q.Get("type")), q.Get("environment"))
		if err != nil {
			writeError(w, err)
			return
		}
		items := make([]interface{}, len(resources))
		for i, res := range resources {
			items[i] = res
		}
		writeJSON(w, http.StatusOK, paginate(r, items))
	}
}

type updateResourceRequest struct {
	Name     *string           `json:"name"`
	Region   *string           `json:"region"`
	ARNOrURL *string           `json:"arnOrUrl"`
	Config   map[string]string `json:"config"`
}

func updateResource(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "resourceID")
		existing, err := reg.Inventory.GetResource(id)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, existing.TeamID, roleWriter); err != nil {
			writeError(w, err)
			return
		}
		var req updateResourceRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		res, err := reg.Inventory.Update(id, func(res *types.InfrastructureResource) {
			if req.Name != nil {
				res.Name = *req.Name
			}
			if req.Region != nil {
				res.Region = req.Region
			}
			if req.ARNOrURL != nil {
				res.ARNOrURL = req.ARNOrURL
			}
			if req.Config != nil {
				res.Config = req.Config
			}
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func orphanResource(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "resourceID")
		existing, err := reg.Inventory.GetResource(id)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, existing.TeamID, roleWriter); err != nil {
			writeError(w, err)
			return
		}
		res, err := reg.Inventory.Orphan(id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

type reassignResourceRequest struct {
	ServiceID string `json:"serviceId"`
}

func reassignResource(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "resourceID")
		existing, err := reg.Inventory.GetResource(id)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, existing.TeamID, roleWriter); err != nil {
			writeError(w, err)
			return
		}
		var req reassignResourceRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		res, err := reg.Inventory.Reassign(id, req.ServiceID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func findOrphanedResources(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := chi.URLParam(r, "teamID")
		if err := authorize(r, teamID, roleReader); err != nil {
			writeError(w, err)
			return
		}
		orphaned, err := reg.Inventory.FindOrphaned(teamID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, orphaned)
	}
}

func deleteResource(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "resourceID")
		existing, err := reg.Inventory.GetResource(id)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, existing.TeamID, roleWriter); err != nil {
			writeError(w, err)
			return
		}
		if err := reg.Inventory.Delete(id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
