package configgen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/codeops/registry/pkg/types"
)

// buildComposeService renders one service's Compose block and returns
// the names of any Docker volumes it mounts, so a caller merging
// multiple services can union them into one top-level volumes section.
func (g *Generator) buildComposeService(ctx *serviceContext) (*yaml.Node, []string) {
	svc := ctx.service
	pairs := []pair{
		kv("image", scalar(svc.Slug+":latest")),
		kv("container_name", scalar(svc.Slug)),
	}

	if len(ctx.ports) > 0 {
		var ports []string
		for _, p := range ctx.ports {
			ports = append(ports, fmt.Sprintf("%d:%d", p.PortNumber, p.PortNumber))
		}
		pairs = append(pairs, kv("ports", sequence(ports...)))
	}

	if len(ctx.envConfig) > 0 {
		var envPairs []pair
		for _, e := range ctx.envConfig {
			envPairs = append(envPairs, kv(e.Key, scalar(e.Value)))
		}
		pairs = append(pairs, kv("environment", mapping(envPairs...)))
	}

	if slugs := depTargetSlugs(ctx); len(slugs) > 0 {
		pairs = append(pairs, kv("depends_on", sequence(slugs...)))
	}

	if svc.HealthCheckURL != "" {
		interval := svc.HealthCheckIntervalSeconds
		if interval <= 0 {
			interval = 30
		}
		pairs = append(pairs, kv("healthcheck", mapping(
			kv("test", sequence("CMD", "curl", "-f", svc.HealthCheckURL)),
			kv("interval", scalar(fmt.Sprintf("%ds", interval))),
		)))
	}

	pairs = append(pairs, kv("labels", mapping(
		kv("com.codeops.service-id", scalar(svc.ID)),
		kv("com.codeops.service-type", scalar(string(svc.Type))),
		kv("com.codeops.team-id", scalar(svc.TeamID)),
	)))
	pairs = append(pairs, kv("networks", sequence("codeops-network")))

	var volumeNames []string
	var mounts []string
	for _, r := range ctx.infra {
		if r.Type == types.ResourceTypeDockerVolume {
			volumeNames = append(volumeNames, r.Name)
			mounts = append(mounts, fmt.Sprintf("%s:/data/%s", r.Name, r.Name))
		}
	}
	if len(mounts) > 0 {
		pairs = append(pairs, kv("volumes", sequence(mounts...)))
	}

	return mapping(pairs...), volumeNames
}

// depTargetSlugs returns the sorted, deduplicated slugs of a service's
// outgoing dependency targets, skipping any target id this team's
// service map doesn't resolve.
func depTargetSlugs(ctx *serviceContext) []string {
	seen := make(map[string]bool)
	var slugs []string
	for _, d := range ctx.outgoing {
		target, ok := ctx.servicesByID[d.TargetServiceID]
		if !ok || seen[target.Slug] {
			continue
		}
		seen[target.Slug] = true
		slugs = append(slugs, target.Slug)
	}
	sort.Strings(slugs)
	return slugs
}

// composeDocument wraps a set of already-rendered service blocks in the
// top-level Compose document: a fixed bridge network plus the union of
// every service's named volumes.
func (g *Generator) composeDocument(servicePairs []pair, volumes []string) *yaml.Node {
	root := []pair{
		kv("services", mapping(servicePairs...)),
		kv("networks", mapping(kv("codeops-network", mapping(kv("driver", scalar("bridge")))))),
	}
	if len(volumes) > 0 {
		var volPairs []pair
		for _, v := range volumes {
			volPairs = append(volPairs, kv(v, mapping()))
		}
		root = append(root, kv("volumes", mapping(volPairs...)))
	}
	return mapping(root...)
}

// renderAppConfig builds a Spring-style application config: spring.
// application.name always, spring.datasource.* from any env-config keys
// prefixed "spring.datasource.", server.port when the service has an
// HTTP_API port allocation, codeops.<dep-slug>.url for every outgoing
// dependency that itself exposes an HTTP_API port, and every other
// env-config key verbatim at the document root.
func (g *Generator) renderAppConfig(ctx *serviceContext, environment string) (string, error) {
	svc := ctx.service

	var datasourcePairs, flatPairs []pair
	for _, e := range ctx.envConfig {
		if strings.HasPrefix(e.Key, "spring.datasource.") {
			suffix := strings.TrimPrefix(e.Key, "spring.datasource.")
			datasourcePairs = append(datasourcePairs, kv(suffix, scalar(e.Value)))
			continue
		}
		flatPairs = append(flatPairs, kv(e.Key, scalar(e.Value)))
	}

	springPairs := []pair{kv("application", mapping(kv("name", scalar(svc.Slug))))}
	if len(datasourcePairs) > 0 {
		springPairs = append(springPairs, kv("datasource", mapping(datasourcePairs...)))
	}
	root := []pair{kv("spring", mapping(springPairs...))}

	if port, ok := httpAPIPort(ctx.ports); ok {
		root = append(root, kv("server", mapping(kv("port", scalar(strconv.Itoa(port))))))
	}

	var depPairs []pair
	for _, d := range ctx.outgoing {
		target, ok := ctx.servicesByID[d.TargetServiceID]
		if !ok {
			continue
		}
		targetPorts, err := g.store.ListPortAllocationsByService(target.ID)
		if err != nil {
			return "", err
		}
		port, ok := httpAPIPort(filterPortsByEnv(targetPorts, environment))
		if !ok {
			continue
		}
		depPairs = append(depPairs, kv(target.Slug, mapping(kv("url", scalar(fmt.Sprintf("http://localhost:%d", port))))))
	}
	sort.Slice(depPairs, func(i, j int) bool { return depPairs[i].key < depPairs[j].key })
	if len(depPairs) > 0 {
		root = append(root, kv("codeops", mapping(depPairs...)))
	}

	root = append(root, flatPairs...)
	return marshal(mapping(root...))
}

// renderReferenceHeader renders the plaintext "#"-commented orientation
// block a generated onboarding script or AI assistant would read first:
// what the service is, what ports it owns, who it depends on and who
// depends on it, its routes, its infra, and its env-config.
func (g *Generator) renderReferenceHeader(ctx *serviceContext) string {
	svc := ctx.service
	var b strings.Builder
	line := func(format string, args ...interface{}) {
		b.WriteString("# ")
		b.WriteString(fmt.Sprintf(format, args...))
		b.WriteString("\n")
	}

	repo := svc.RepoURL
	if repo == "" {
		repo = "N/A"
	}
	tech := svc.TechStack
	if tech == "" {
		tech = "N/A"
	}

	line("Service: %s", svc.Name)
	line("Slug: %s", svc.Slug)
	line("Type: %s", svc.Type)
	line("Repo: %s", repo)
	line("Tech Stack: %s", tech)
	line("")

	line("Ports:")
	if len(ctx.ports) == 0 {
		line("  None")
	} else {
		for _, p := range ctx.ports {
			line("  %s: %d", p.Type, p.PortNumber)
		}
	}
	line("")

	line("Upstream Dependencies:")
	if len(ctx.incoming) == 0 {
		line("  None")
	} else {
		for _, d := range ctx.incoming {
			name, slug := dependencyLabel(ctx.servicesByID, d.SourceServiceID)
			line("  %s (%s) [%s]", name, slug, d.Type)
		}
	}
	line("")

	line("Downstream Dependencies:")
	if len(ctx.outgoing) == 0 {
		line("  None")
	} else {
		for _, d := range ctx.outgoing {
			name, slug := dependencyLabel(ctx.servicesByID, d.TargetServiceID)
			line("  %s (%s) [%s]", name, slug, d.Type)
		}
	}
	line("")

	line("API Routes:")
	if len(ctx.routes) == 0 {
		line("  None")
	} else {
		for _, r := range ctx.routes {
			line("  %s (%s)", r.Prefix, r.Methods)
		}
	}
	line("")

	line("Infrastructure:")
	if len(ctx.infra) == 0 {
		line("  None")
	} else {
		for _, r := range ctx.infra {
			line("  %s: %s", r.Type, r.Name)
		}
	}
	line("")

	line("Environment Config:")
	if len(ctx.envConfig) == 0 {
		line("  None")
	} else {
		for _, e := range ctx.envConfig {
			line("  %s = %s", e.Key, e.Value)
		}
	}

	return b.String()
}

func dependencyLabel(servicesByID map[string]*types.Service, serviceID string) (name, slug string) {
	if svc, ok := servicesByID[serviceID]; ok {
		return svc.Name, svc.Slug
	}
	return serviceID, serviceID
}
