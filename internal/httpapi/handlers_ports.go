package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/codeops/registry/pkg/registry"
	"github.com/codeops/registry/pkg/types"
)

type autoAllocateRequest struct {
	Environment string         `json:"environment"`
	Type        types.PortType `json:"type"`
	Allocator   string         `json:"allocator"`
}

type manualAllocateRequest struct {
	Environment string         `json:"environment"`
	Type        types.PortType `json:"type"`
	PortNumber  int            `json:"portNumber"`
	Protocol    string         `json:"protocol"`
	Allocator   string         `json:"allocator"`
}

func autoAllocatePort(reg *registry.Registry) http.HandlerFunc {
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
		var req autoAllocateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		alloc, err := reg.Ports.AutoAllocate(serviceID, req.Environment, req.Type, req.Allocator)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, alloc)
	}
}

func manualAllocatePort(reg *registry.Registry) http.HandlerFunc {
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
		var req manualAllocateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		alloc, err := reg.Ports.ManualAllocate(serviceID, req.Environment, req.Type, req.PortNumber, req.Protocol, req.Allocator)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, alloc)
	}
}

func releasePort(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "allocationID")
		alloc, err := reg.Store.GetPortAllocation(id)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, alloc.TeamID, roleWriter); err != nil {
			writeError(w, err)
			return
		}
		if err := reg.Ports.Release(id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func listPortAllocations(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := chi.URLParam(r, "teamID")
		if err := authorize(r, teamID, roleReader); err != nil {
			writeError(w, err)
			return
		}
		allocations, err := reg.Store.ListPortAllocationsByTeam(teamID)
		if err != nil {
			writeError(w, err)
			return
		}
		items := make([]interface{}, len(allocations))
		for i, a := range allocations {
			items[i] = a
		}
		writeJSON(w, http.StatusOK, paginate(r, items))
	}
}

func checkPortAvailability(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := chi.URLParam(r, "teamID")
		if err := authorize(r, teamID, roleReader); err != nil {
			writeError(w, err)
			return
		}
		environment := r.URL.Query().Get("environment")
		port := queryInt(r, "port", 0)
		available, owner, err := reg.Ports.CheckAvailability(teamID, environment, port)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Available bool                  `json:"available"`
			Owner     *types.PortAllocation `json:"owner,omitempty"`
		}{available, owner})
	}
}

func getPortConflicts(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := chi.URLParam(r, "teamID")
		if err := authorize(r, teamID, roleReader); err != nil {
			writeError(w, err)
			return
		}
		conflicts, err := reg.Ports.DetectConflicts(teamID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, conflicts)
	}
}

func seedPortRanges(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := chi.URLParam(r, "teamID")
		if err := authorize(r, teamID, roleWriter); err != nil {
			writeError(w, err)
			return
		}
		ranges, err := reg.Ports.SeedDefaultRanges(teamID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ranges)
	}
}

type updatePortRangeRequest struct {
	Start       int    `json:"start"`
	End         int    `json:"end"`
	Description string `json:"description"`
}

func updatePortRange(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "rangeID")
		pr, err := reg.Store.GetPortRange(id)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, pr.TeamID, roleWriter); err != nil {
			writeError(w, err)
			return
		}
		var req updatePortRangeRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		updated, err := reg.Ports.UpdateRange(id, req.Start, req.End, req.Description)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}
