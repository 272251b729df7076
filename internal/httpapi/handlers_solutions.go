package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/codeops/registry/pkg/registry"
	"github.com/codeops/registry/pkg/types"
)

type createSolutionRequest struct {
	Slug        string                 `json:"slug"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Category    types.SolutionCategory `json:"category"`
	Status      types.SolutionStatus   `json:"status"`
	IconURL     *string                `json:"iconUrl"`
	Color       *string                `json:"color"`
	CreatedBy   string                 `json:"createdBy"`
}

func createSolution(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := chi.URLParam(r, "teamID")
		if err := authorize(r, teamID, roleWriter); err != nil {
			writeError(w, err)
			return
		}
		var req createSolutionRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		sol, err := reg.Solutions.CreateSolution(teamID, req.Slug, req.Name, req.Description, req.Category, req.Status, req.IconURL, req.Color, req.CreatedBy)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, sol)
	}
}

func listSolutions(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := chi.URLParam(r, "teamID")
		if err := authorize(r, teamID, roleReader); err != nil {
			writeError(w, err)
			return
		}
		solutions, err := reg.Store.ListSolutionsByTeam(teamID)
		if err != nil {
			writeError(w, err)
			return
		}
		items := make([]interface{}, len(solutions))
		for i, s := range solutions {
			items[i] = s
		}
		writeJSON(w, http.StatusOK, paginate(r, items))
	}
}

func getSolution(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sol, err := reg.Store.GetSolution(chi.URLParam(r, "solutionID"))
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, sol.TeamID, roleReader); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sol)
	}
}

type updateSolutionRequest struct {
	Name        *string               `json:"name"`
	Description *string               `json:"description"`
	Status      *types.SolutionStatus `json:"status"`
	IconURL     *string               `json:"iconUrl"`
	Color       *string               `json:"color"`
}

func updateSolution(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "solutionID")
		existing, err := reg.Store.GetSolution(id)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, existing.TeamID, roleWriter); err != nil {
			writeError(w, err)
			return
		}
		var req updateSolutionRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		sol, err := reg.Solutions.UpdateSolution(id, func(s *types.Solution) {
			if req.Name != nil {
				s.Name = *req.Name
			}
			if req.Description != nil {
				s.Description = *req.Description
			}
			if req.Status != nil {
				s.Status = *req.Status
			}
			if req.IconURL != nil {
				s.IconURL = req.IconURL
			}
			if req.Color != nil {
				s.Color = req.Color
			}
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sol)
	}
}

func deleteSolution(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "solutionID")
		sol, err := reg.Store.GetSolution(id)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, sol.TeamID, roleWriter); err != nil {
			writeError(w, err)
			return
		}
		if err := reg.Solutions.DeleteSolution(id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func listSolutionMembers(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "solutionID")
		sol, err := reg.Store.GetSolution(id)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, sol.TeamID, roleReader); err != nil {
			writeError(w, err)
			return
		}
		members, err := reg.Solutions.MembersOrdered(id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, members)
	}
}

type addMemberRequest struct {
	ServiceID string           `json:"serviceId"`
	Role      types.MemberRole `json:"role"`
	Notes     *string          `json:"notes"`
}

func addSolutionMember(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		solutionID := chi.URLParam(r, "solutionID")
		sol, err := reg.Store.GetSolution(solutionID)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, sol.TeamID, roleWriter); err != nil {
			writeError(w, err)
			return
		}
		var req addMemberRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		member, err := reg.Solutions.AddMember(solutionID, req.ServiceID, req.Role, req.Notes)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, member)
	}
}

type updateMemberRequest struct {
	Role  types.MemberRole `json:"role"`
	Notes *string          `json:"notes"`
}

func updateSolutionMember(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		solutionID := chi.URLParam(r, "solutionID")
		serviceID := chi.URLParam(r, "serviceID")
		sol, err := reg.Store.GetSolution(solutionID)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, sol.TeamID, roleWriter); err != nil {
			writeError(w, err)
			return
		}
		var req updateMemberRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		member, err := reg.Solutions.UpdateMember(solutionID, serviceID, req.Role, req.Notes)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, member)
	}
}

func removeSolutionMember(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		solutionID := chi.URLParam(r, "solutionID")
		serviceID := chi.URLParam(r, "serviceID")
		sol, err := reg.Store.GetSolution(solutionID)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, sol.TeamID, roleWriter); err != nil {
			writeError(w, err)
			return
		}
		if err := reg.Solutions.RemoveMember(solutionID, serviceID); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type reorderMembersRequest struct {
	ServiceIDs []string `json:"serviceIds"`
}

func reorderSolutionMembers(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		solutionID := chi.URLParam(r, "solutionID")
		sol, err := reg.Store.GetSolution(solutionID)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, sol.TeamID, roleWriter); err != nil {
			writeError(w, err)
			return
		}
		var req reorderMembersRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		members, err := reg.Solutions.ReorderMembers(solutionID, req.ServiceIDs)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, members)
	}
}
