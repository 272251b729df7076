package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/codeops/registry/pkg/registry"
)

func checkTeamHealth(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := chi.URLParam(r, "teamID")
		if err := authorize(r, teamID, roleReader); err != nil {
			writeError(w, err)
			return
		}
		status, results, err := reg.Health.CheckTeam(r.Context(), teamID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Status  string        `json:"status"`
			Results []interface{} `json:"results"`
		}{string(status), healthResultsToInterfaces(results)})
	}
}

func checkSolutionHealth(reg *registry.Registry) http.HandlerFunc {
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
		status, results, err := reg.Health.CheckSolution(r.Context(), solutionID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Status  string        `json:"status"`
			Results []interface{} `json:"results"`
		}{string(status), healthResultsToInterfaces(results)})
	}
}

func getUnhealthyServices(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := chi.URLParam(r, "teamID")
		if err := authorize(r, teamID, roleReader); err != nil {
			writeError(w, err)
			return
		}
		unhealthy, err := reg.Health.GetUnhealthy(teamID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, unhealthy)
	}
}

func getNeverCheckedServices(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := chi.URLParam(r, "teamID")
		if err := authorize(r, teamID, roleReader); err != nil {
			writeError(w, err)
			return
		}
		neverChecked, err := reg.Health.GetNeverChecked(teamID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, neverChecked)
	}
}
