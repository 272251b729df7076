package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/codeops/registry/pkg/registry"
)

type createWorkstationRequest struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	ServiceIDs       []string `json:"serviceIds"`
	SourceSolutionID *string  `json:"sourceSolutionId"`
	CreatedBy        string   `json:"createdBy"`
}

func createWorkstation(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := chi.URLParam(r, "teamID")
		if err := authorize(r, teamID, roleWriter); err != nil {
			writeError(w, err)
			return
		}
		var req createWorkstationRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		profile, err := reg.Workstations.CreateProfile(teamID, req.Name, req.Description, req.ServiceIDs, req.SourceSolutionID, req.CreatedBy)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, profile)
	}
}

type createWorkstationFromSolutionRequest struct {
	SolutionID string `json:"solutionId"`
	CreatedBy  string `json:"createdBy"`
}

func createWorkstationFromSolution(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createWorkstationFromSolutionRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		sol, err := reg.Store.GetSolution(req.SolutionID)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, sol.TeamID, roleWriter); err != nil {
			writeError(w, err)
			return
		}
		profile, err := reg.Workstations.CreateFromSolution(req.SolutionID, req.CreatedBy)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, profile)
	}
}

func listWorkstations(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := chi.URLParam(r, "teamID")
		if err := authorize(r, teamID, roleReader); err != nil {
			writeError(w, err)
			return
		}
		profiles, err := reg.Store.ListWorkstationProfilesByTeam(teamID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, profiles)
	}
}

func getWorkstation(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := reg.Store.GetWorkstationProfile(chi.URLParam(r, "profileID"))
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, profile.TeamID, roleReader); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

type updateWorkstationRequest struct {
	Name             *string  `json:"name"`
	Description      *string  `json:"description"`
	ServiceIDs       []string `json:"serviceIds"`
	SourceSolutionID *string  `json:"sourceSolutionId"`
}

func updateWorkstation(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "profileID")
		existing, err := reg.Store.GetWorkstationProfile(id)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, existing.TeamID, roleWriter); err != nil {
			writeError(w, err)
			return
		}
		var req updateWorkstationRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		profile, err := reg.Workstations.UpdateProfile(id, req.Name, req.Description, req.ServiceIDs, req.SourceSolutionID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

func setDefaultWorkstation(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "profileID")
		existing, err := reg.Store.GetWorkstationProfile(id)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, existing.TeamID, roleWriter); err != nil {
			writeError(w, err)
			return
		}
		profile, err := reg.Workstations.SetDefault(id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

func refreshWorkstationStartupOrder(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "profileID")
		existing, err := reg.Store.GetWorkstationProfile(id)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, existing.TeamID, roleWriter); err != nil {
			writeError(w, err)
			return
		}
		profile, err := reg.Workstations.RefreshStartupOrder(id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

func deleteWorkstation(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "profileID")
		existing, err := reg.Store.GetWorkstationProfile(id)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, existing.TeamID, roleWriter); err != nil {
			writeError(w, err)
			return
		}
		if err := reg.Workstations.DeleteProfile(id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
