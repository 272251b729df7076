package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/codeops/registry/pkg/registry"
	"github.com/codeops/registry/pkg/types"
)

type createDependencyRequest struct {
	SourceServiceID string                 `json:"sourceServiceId"`
	TargetServiceID string                 `json:"targetServiceId"`
	Type            types.DependencyType   `json:"type"`
	Description     string                 `json:"description"`
	Required        *bool                  `json:"required"`
	EndpointHint    string                 `json:"endpointHint"`
}

func createDependency(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createDependencyRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		source, err := reg.Store.GetService(req.SourceServiceID)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, source.TeamID, roleWriter); err != nil {
			writeError(w, err)
			return
		}
		dep, err := reg.DepGraph.CreateDependency(req.SourceServiceID, req.TargetServiceID, req.Type, req.Description, req.Required, req.EndpointHint)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, dep)
	}
}

func deleteDependency(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "dependencyID")
		dep, err := reg.Store.GetDependency(id)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, dep.TeamID, roleWriter); err != nil {
			writeError(w, err)
			return
		}
		if err := reg.DepGraph.RemoveDependency(id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func getDependencyGraph(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := chi.URLParam(r, "teamID")
		if err := authorize(r, teamID, roleReader); err != nil {
			writeError(w, err)
			return
		}
		graph, err := reg.DepGraph.GetDependencyGraph(teamID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, graph)
	}
}

func getImpactAnalysis(reg *registry.Registry) http.HandlerFunc {
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
		impact, err := reg.DepGraph.ImpactAnalysis(id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, impact)
	}
}

func getStartupOrder(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := chi.URLParam(r, "teamID")
		if err := authorize(r, teamID, roleReader); err != nil {
			writeError(w, err)
			return
		}
		order, err := reg.DepGraph.StartupOrder(teamID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, order)
	}
}

func getCycles(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := chi.URLParam(r, "teamID")
		if err := authorize(r, teamID, roleReader); err != nil {
			writeError(w, err)
			return
		}
		cycles, err := reg.DepGraph.DetectCycles(teamID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cycles)
	}
}
