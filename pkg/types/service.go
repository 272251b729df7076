package types

import "time"

// Service is a registered runnable or library unit owned by a team.
type Service struct {
	ID          string
	TeamID      string
	Name        string
	Slug        string // team-unique, lowercase, hyphenated: [a-z0-9-]+
	Type        ServiceType
	RepoURL     string
	Branch      string
	TechStack   string
	Description string
	Status      ServiceStatus

	HealthCheckURL             string
	HealthCheckIntervalSeconds int

	LastHealthStatus  HealthStatus
	LastHealthCheckAt *time.Time

	Environment map[string]string // opaque env blob, e.g. for config generation
	Metadata    map[string]string // opaque metadata blob

	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ServiceType is the closed set of workload shapes the registry understands.
type ServiceType string

const (
	ServiceTypeSpringBoot ServiceType = "spring-boot"
	ServiceTypeExpress    ServiceType = "express"
	ServiceTypeFastAPI    ServiceType = "fastapi"
	ServiceTypeDotNet     ServiceType = "dotnet"
	ServiceTypeGo         ServiceType = "go"
	ServiceTypeWorker     ServiceType = "worker"
	ServiceTypeMCP        ServiceType = "mcp"

	ServiceTypeReactSPA ServiceType = "react-spa"
	ServiceTypeNextJS   ServiceType = "nextjs"
	ServiceTypeFlutter  ServiceType = "flutter"

	ServiceTypeGateway  ServiceType = "gateway"
	ServiceTypeDatabase ServiceType = "database"
	ServiceTypeCache    ServiceType = "cache"
	ServiceTypeBroker   ServiceType = "broker"
	ServiceTypeLibrary  ServiceType = "library"
	ServiceTypeCLI      ServiceType = "cli"
	ServiceTypeOther    ServiceType = "other"
)

// ServiceStatus tracks a service's lifecycle. Transitions between values
// are unrestricted; only deletion is gated (see pkg/registry).
type ServiceStatus string

const (
	ServiceStatusActive     ServiceStatus = "active"
	ServiceStatusInactive   ServiceStatus = "inactive"
	ServiceStatusDeprecated ServiceStatus = "deprecated"
	ServiceStatusArchived   ServiceStatus = "archived"
)

// HealthStatus is the last-observed health of a service, either cached
// from a previous probe (pkg/health) or the default before any probe ran.
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "up"
	HealthStatusDown     HealthStatus = "down"
	HealthStatusDegraded HealthStatus = "degraded"
	HealthStatusUnknown  HealthStatus = "unknown"
)
