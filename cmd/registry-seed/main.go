package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codeops/registry/pkg/config"
	"github.com/codeops/registry/pkg/log"
	"github.com/codeops/registry/pkg/registry"
	"github.com/codeops/registry/pkg/store"
	"github.com/codeops/registry/pkg/types"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "registry-seed",
	Short: "Populate a registry data directory with a demonstration team",
	Long: `registry-seed bootstraps a fresh registry store with one team, a
small acyclic set of services and dependencies, default port ranges, and
a starter solution, so a new environment has something to explore before
any real service is registered.`,
	RunE: runSeed,
}

func init() {
	rootCmd.Flags().String("data-dir", "./data", "Directory holding the BoltDB state file")
	rootCmd.Flags().Bool("log-json", false, "Output logs in JSON format")
}

func runSeed(cmd *cobra.Command, args []string) error {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	logJSON, _ := cmd.Flags().GetBool("log-json")
	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: logJSON})

	s, err := store.NewBoltStore(dataDir)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer s.Close()

	reg := registry.New(s, config.DefaultLimits())

	team, err := reg.CreateTeam("Platform Team", "platform")
	if err != nil {
		return fmt.Errorf("failed to create seed team: %w", err)
	}
	log.Info(fmt.Sprintf("created team %q (%s)", team.Name, team.ID))

	if _, err := reg.Ports.SeedDefaultRanges(team.ID); err != nil {
		return fmt.Errorf("failed to seed port ranges: %w", err)
	}
	log.Info("seeded default port ranges")

	services := []struct {
		name, slug, techStack string
		typ                   types.ServiceType
	}{
		{"Web Frontend", "web-frontend", "React", types.ServiceTypeReactSPA},
		{"API Gateway", "api-gateway", "Go", types.ServiceTypeGateway},
		{"Orders Service", "orders-service", "Spring Boot", types.ServiceTypeSpringBoot},
		{"Postgres", "orders-db", "PostgreSQL 16", types.ServiceTypeDatabase},
		{"Redis Cache", "cache", "Redis 7", types.ServiceTypeCache},
	}

	created := make(map[string]*types.Service, len(services))
	for _, spec := range services {
		svc, err := reg.CreateService(team.ID, spec.name, spec.slug, spec.typ, "", "main", spec.techStack, "", "seed")
		if err != nil {
			return fmt.Errorf("failed to create service %s: %w", spec.slug, err)
		}
		created[spec.slug] = svc
		log.Info(fmt.Sprintf("created service %q (%s)", svc.Name, svc.Slug))

		if _, err := reg.Ports.AutoAllocate(svc.ID, config.DefaultEnvironment, types.PortTypeHTTPAPI, "seed"); err != nil {
			log.Info(fmt.Sprintf("skipping http port allocation for %s: %v", svc.Slug, err))
		}
	}

	required := true
	edges := []struct {
		source, target string
		depType        types.DependencyType
	}{
		{"web-frontend", "api-gateway", types.DependencyTypeHTTPREST},
		{"api-gateway", "orders-service", types.DependencyTypeHTTPREST},
		{"orders-service", "orders-db", types.DependencyTypeDatabaseShared},
		{"orders-service", "cache", types.DependencyTypeRedisCache},
	}
	for _, edge := range edges {
		source, target := created[edge.source], created[edge.target]
		if _, err := reg.DepGraph.CreateDependency(source.ID, target.ID, edge.depType, "", &required, ""); err != nil {
			return fmt.Errorf("failed to create dependency %s -> %s: %w", edge.source, edge.target, err)
		}
	}
	log.Info("created seed dependency graph")

	sol, err := reg.Solutions.CreateSolution(team.ID, "orders", "Orders Platform", "End-to-end order processing stack", types.SolutionCategoryProduct, types.SolutionStatusActive, nil, nil, "seed")
	if err != nil {
		return fmt.Errorf("failed to create seed solution: %w", err)
	}
	for _, slug := range []string{"web-frontend", "api-gateway", "orders-service", "orders-db", "cache"} {
		if _, err := reg.Solutions.AddMember(sol.ID, created[slug].ID, types.MemberRoleCore, nil); err != nil {
			return fmt.Errorf("failed to add %s to seed solution: %w", slug, err)
		}
	}
	log.Info(fmt.Sprintf("created solution %q with %d members", sol.Name, len(services)))

	if _, err := reg.Workstations.CreateFromSolution(sol.ID, "seed"); err != nil {
		return fmt.Errorf("failed to create seed workstation profile: %w", err)
	}
	log.Info("created workstation profile from seed solution")

	log.Info("seed complete")
	return nil
}
