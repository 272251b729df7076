package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/codeops/registry/pkg/registry"
)

// NewRouter builds the registry's HTTP surface, mounted at
// /api/v1/registry, backed by reg and authenticating every request
// against verifier.
func NewRouter(reg *registry.Registry, verifier AuthVerifier) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(AccessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1/registry", func(api chi.Router) {
		api.Use(Authenticate(verifier))

		api.Route("/teams", func(tr chi.Router) {
			tr.Get("/", listTeams(reg))
			tr.Post("/", createTeam(reg))

			tr.Route("/{teamID}", func(t chi.Router) {
				t.Get("/", getTeam(reg))

				t.Get("/services", listServices(reg))
				t.Post("/services", createService(reg))

				t.Get("/dependencies/graph", getDependencyGraph(reg))
				t.Get("/dependencies/startup-order", getStartupOrder(reg))
				t.Get("/dependencies/cycles", getCycles(reg))

				t.Get("/routes", listRoutes(reg))
				t.Get("/routes/availability", checkRouteAvailability(reg))

				t.Get("/ports", listPortAllocations(reg))
				t.Get("/ports/availability", checkPortAvailability(reg))
				t.Get("/ports/conflicts", getPortConflicts(reg))
				t.Post("/ports/ranges/seed", seedPortRanges(reg))
				t.Put("/ports/ranges/{rangeID}", updatePortRange(reg))

				t.Get("/solutions", listSolutions(reg))
				t.Post("/solutions", createSolution(reg))

				t.Get("/workstations", listWorkstations(reg))
				t.Post("/workstations", createWorkstation(reg))
				t.Post("/workstations/from-solution", createWorkstationFromSolution(reg))

				t.Get("/resources", listResources(reg))
				t.Post("/resources", createResource(reg))
				t.Get("/resources/orphaned", findOrphanedResources(reg))

				t.Get("/topology", getTeamTopology(reg))
				t.Get("/ecosystem-stats", getEcosystemStats(reg))

				t.Get("/health/unhealthy", getUnhealthyServices(reg))
				t.Get("/health/never-checked", getNeverCheckedServices(reg))
				t.Post("/health/check", checkTeamHealth(reg))
			})
		})

		api.Route("/services/{serviceID}", func(s chi.Router) {
			s.Get("/", getService(reg))
			s.Patch("/", updateService(reg))
			s.Delete("/", deleteService(reg))
			s.Post("/clone", cloneService(reg))
			s.Get("/identity", getServiceIdentity(reg))
			s.Post("/health/check", probeServiceHealth(reg))
			s.Get("/neighborhood", getNeighborhood(reg))

			s.Get("/environment-config", listEnvironmentConfig(reg))
			s.Put("/environment-config", setEnvironmentConfig(reg))

			s.Post("/ports/allocate", autoAllocatePort(reg))
			s.Post("/ports/allocate-manual", manualAllocatePort(reg))

			s.Get("/config-templates", listConfigTemplates(reg))
			s.Post("/config-templates/{templateType}", generateConfig(reg))
			s.Post("/config-templates", generateAllConfig(reg))

			s.Get("/impact", getImpactAnalysis(reg))
		})

		api.Post("/dependencies", createDependency(reg))
		api.Delete("/dependencies/{dependencyID}", deleteDependency(reg))

		api.Post("/routes", createRoute(reg))
		api.Delete("/routes/{routeID}", deleteRoute(reg))

		api.Delete("/ports/allocations/{allocationID}", releasePort(reg))

		api.Route("/solutions/{solutionID}", func(sol chi.Router) {
			sol.Get("/", getSolution(reg))
			sol.Patch("/", updateSolution(reg))
			sol.Delete("/", deleteSolution(reg))

			sol.Get("/members", listSolutionMembers(reg))
			sol.Post("/members", addSolutionMember(reg))
			sol.Put("/members/reorder", reorderSolutionMembers(reg))
			sol.Patch("/members/{serviceID}", updateSolutionMember(reg))
			sol.Delete("/members/{serviceID}", removeSolutionMember(reg))

			sol.Get("/topology", getSolutionTopology(reg))
			sol.Post("/config-templates/compose", generateSolutionCompose(reg))
			sol.Post("/health/check", checkSolutionHealth(reg))
		})

		api.Route("/workstations/{profileID}", func(ws chi.Router) {
			ws.Get("/", getWorkstation(reg))
			ws.Patch("/", updateWorkstation(reg))
			ws.Delete("/", deleteWorkstation(reg))
			ws.Post("/set-default", setDefaultWorkstation(reg))
			ws.Post("/refresh-startup-order", refreshWorkstationStartupOrder(reg))
		})

		api.Route("/resources/{resourceID}", func(res chi.Router) {
			res.Get("/", getResource(reg))
			res.Patch("/", updateResource(reg))
			res.Delete("/", deleteResource(reg))
			res.Post("/orphan", orphanResource(reg))
			res.Post("/reassign", reassignResource(reg))
		})

		api.Delete("/config-templates/{templateID}", deleteConfigTemplate(reg))
	})

	return r
}
