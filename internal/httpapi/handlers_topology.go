package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/codeops/registry/pkg/registry"
)

func getTeamTopology(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := chi.URLParam(r, "teamID")
		if err := authorize(r, teamID, roleReader); err != nil {
			writeError(w, err)
			return
		}
		topo, err := reg.Topology.TeamTopology(teamID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, topo)
	}
}

func getSolutionTopology(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		solutionID := chi.URLParam(r, "solutionID")
		sol, err := reg.Store.GetSolution(solutionID)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, sol.TeamID, roleReader); err != nil {
			writeError(w, err)
			return
		}
		topo, err := reg.Topology.SolutionTopology(solutionID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, topo)
	}
}

func getNeighborhood(reg *registry.Registry) http.HandlerFunc {
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
		depth := queryInt(r, "depth", 2)
		neighborhood, err := reg.Topology.Neighborhood(serviceID, depth)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, neighborhood)
	}
}

func getEcosystemStats(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := chi.URLParam(r, "teamID")
		if err := authorize(r, teamID, roleReader); err != nil {
			writeError(w, err)
			return
		}
		stats, err := reg.Topology.EcosystemStats(teamID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}
