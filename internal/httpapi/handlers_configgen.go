package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/codeops/registry/pkg/apperrors"
	"github.com/codeops/registry/pkg/registry"
	"github.com/codeops/registry/pkg/types"
)

func generateConfig(reg *registry.Registry) http.HandlerFunc {
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
		environment := r.URL.Query().Get("environment")
		if environment == "" {
			writeError(w, apperrors.Validation("environment query parameter is required"))
			return
		}

		var tpl *types.ConfigTemplate
		switch types.ConfigTemplateType(chi.URLParam(r, "templateType")) {
		case types.ConfigTemplateDockerCompose:
			tpl, err = reg.Config.GenerateDockerCompose(serviceID, environment)
		case types.ConfigTemplateApplicationYML:
			tpl, err = reg.Config.GenerateApplicationConfig(serviceID, environment)
		case types.ConfigTemplateClaudeCodeHeader:
			tpl, err = reg.Config.GenerateReferenceHeader(serviceID, environment)
		default:
			writeError(w, apperrors.Validation("unsupported template type"))
			return
		}
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tpl)
	}
}

func generateAllConfig(reg *registry.Registry) http.HandlerFunc {
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
		environment := r.URL.Query().Get("environment")
		if environment == "" {
			writeError(w, apperrors.Validation("environment query parameter is required"))
			return
		}
		templates, err := reg.Config.GenerateAllForService(serviceID, environment)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, templates)
	}
}

func generateSolutionCompose(reg *registry.Registry) http.HandlerFunc {
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
		environment := r.URL.Query().Get("environment")
		if environment == "" {
			writeError(w, apperrors.Validation("environment query parameter is required"))
			return
		}
		tpl, err := reg.Config.GenerateSolutionCompose(solutionID, environment)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tpl)
	}
}

func listConfigTemplates(reg *registry.Registry) http.HandlerFunc {
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
		templates, err := reg.Store.ListConfigTemplatesByService(serviceID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, templates)
	}
}

func deleteConfigTemplate(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "templateID")
		tpl, err := reg.Store.GetConfigTemplate(id)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := authorize(r, tpl.TeamID, roleWriter); err != nil {
			writeError(w, err)
			return
		}
		if err := reg.Store.DeleteConfigTemplate(id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
