package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/codeops/registry/pkg/registry"
)

type teamRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func listTeams(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teams, err := reg.Store.ListTeams()
		if err != nil {
			writeError(w, err)
			return
		}
		items := make([]interface{}, len(teams))
		for i, t := range teams {
			items[i] = t
		}
		writeJSON(w, http.StatusOK, paginate(r, items))
	}
}

func createTeam(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req teamRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		team, err := reg.CreateTeam(req.Name, req.Slug)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, team)
	}
}

func getTeam(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := chi.URLParam(r, "teamID")
		if err := authorize(r, teamID, roleReader); err != nil {
			writeError(w, err)
			return
		}
		team, err := reg.Store.GetTeam(teamID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, team)
	}
}
