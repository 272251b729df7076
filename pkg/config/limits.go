// Package config holds the registry's recognized configuration options:
// per-team caps, default port-range bounds, and the health probe
// timeout. It has no dependency on pkg/store or any other core
// package so every component can import it without a cycle.
package config

import (
	"time"

	"github.com/codeops/registry/pkg/types"
)

// Limits are the per-team caps enforced by the core packages.
type Limits struct {
	MaxServicesPerTeam            int
	MaxSolutionsPerTeam           int
	MaxWorkstationProfilesPerTeam int
	MaxDependenciesPerService     int
}

// DefaultLimits returns the registry's default per-team caps.
func DefaultLimits() Limits {
	return Limits{
		MaxServicesPerTeam:            500,
		MaxSolutionsPerTeam:           100,
		MaxWorkstationProfilesPerTeam: 50,
		MaxDependenciesPerService:     100,
	}
}

// HealthProbeTimeout bounds a single outbound health-check HTTP call.
const HealthProbeTimeout = 5 * time.Second

// DefaultEnvironment is the fallback environment auto-allocation checks
// when no range is configured for the requested environment.
const DefaultEnvironment = "local"

// DefaultPortRangeSpec is one row of the seed-default-ranges preset.
type DefaultPortRangeSpec struct {
	Type        types.PortType
	Start       int
	End         int
	Description string
}

// DefaultPortRanges is the twelve-range preset persisted by
// seed-default-ranges for the `local` environment.
var DefaultPortRanges = []DefaultPortRangeSpec{
	{types.PortTypeHTTPAPI, 8080, 8199, "HTTP API ports"},
	{types.PortTypeDatabase, 5432, 5531, "Database ports"},
	{types.PortTypeRedis, 6379, 6399, "Redis ports"},
	{types.PortTypeKafka, 9092, 9111, "Kafka broker ports"},
	{types.PortTypeKafkaIntern, 9192, 9211, "Kafka internal ports"},
	{types.PortTypeZookeeper, 2181, 2200, "Zookeeper ports"},
	{types.PortTypeGRPC, 9090, 9091, "gRPC ports"},
	{types.PortTypeWebSocket, 8280, 8299, "WebSocket ports"},
	{types.PortTypeDebug, 9229, 9248, "Debugger ports"},
	{types.PortTypeActuator, 8380, 8399, "Actuator/metrics ports"},
	{types.PortTypeFrontendDev, 3000, 3099, "Frontend dev-server ports"},
	{types.PortTypeCustom, 10000, 10999, "Custom/unclassified ports"},
}
