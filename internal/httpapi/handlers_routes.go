package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/codeops/registry/pkg/registry"
)

type createRouteRequest struct {
	ServiceID        string  `json:"serviceId"`
	GatewayServiceID *string `json:"gatewayServiceId"`
	Prefix           string  `json:"prefix"`
	Methods          string  `json:"methods"`
	Environment      string  `json:"environment"`
	Description      string  `json:"description"`
}

func createRoute(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRouteRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		svc, err := reg.Store.GetService(req.ServiceID)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, svc.TeamID, roleWriter); err != nil {
			writeError(w, err)
			return
		}
		route, err := reg.Routes.CreateRoute(req.ServiceID, req.GatewayServiceID, req.Prefix, req.Methods, req.Environment, req.Description)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, route)
	}
}

func deleteRoute(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "routeID")
		route, err := reg.Store.GetRoute(id)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, route.TeamID, roleWriter); err != nil {
			writeError(w, err)
			return
		}
		if err := reg.Routes.DeleteRoute(id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func listRoutes(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := chi.URLParam(r, "teamID")
		if err := authorize(r, teamID, roleReader); err != nil {
			writeError(w, err)
			return
		}
		routes, err := reg.Store.ListRoutesByTeam(teamID)
		if err != nil {
			writeError(w, err)
			return
		}
		items := make([]interface{}, len(routes))
		for i, rt := range routes {
			items[i] = rt
		}
		writeJSON(w, http.StatusOK, paginate(r, items))
	}
}

func checkRouteAvailability(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := chi.URLParam(r, "teamID")
		if err := authorize(r, teamID, roleReader); err != nil {
			writeError(w, err)
			return
		}
		q := r.URL.Query()
		var gatewayServiceID *string
		if g := q.Get("gatewayServiceId"); g != "" {
			gatewayServiceID = &g
		}
		available, conflicting, err := reg.Routes.CheckAvailability(teamID, gatewayServiceID, q.Get("environment"), q.Get("prefix"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Available   bool          `json:"available"`
			Conflicting []interface{} `json:"conflicting"`
		}{available, toInterfaceSlice(conflicting)})
	}
}
