package types

import "time"

// InfrastructureResource is an external resource tracked for a team,
// optionally attached to a service. A nil ServiceID means the resource is
// orphaned (see pkg/inventory's FindOrphaned).
type InfrastructureResource struct {
	ID          string
	TeamID      string
	ServiceID   *string
	Type        ResourceType
	Name        string
	Environment string
	Region      *string
	ARNOrURL    *string
	Config      map[string]string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ResourceType is the closed set of infrastructure resource kinds the
// ledger tracks.
type ResourceType string

const (
	ResourceTypeDockerVolume   ResourceType = "DOCKER_VOLUME"
	ResourceTypeDockerNetwork  ResourceType = "DOCKER_NETWORK"
	ResourceTypeS3Bucket       ResourceType = "S3_BUCKET"
	ResourceTypeRDSInstance    ResourceType = "RDS_INSTANCE"
	ResourceTypeSQSQueue       ResourceType = "SQS_QUEUE"
	ResourceTypeSNSTopic       ResourceType = "SNS_TOPIC"
	ResourceTypeCloudFront     ResourceType = "CLOUDFRONT_DISTRIBUTION"
	ResourceTypeSecretsManager ResourceType = "SECRETS_MANAGER_SECRET"
	ResourceTypeElastiCache    ResourceType = "ELASTICACHE_CLUSTER"
	ResourceTypeOther          ResourceType = "OTHER"
)

// EnvironmentConfig is one key/value configuration row for a service in a
// given environment. Unique per (ServiceID, Environment, Key).
type EnvironmentConfig struct {
	ID          string
	TeamID      string
	ServiceID   string
	Environment string
	Key         string
	Value       string
	Source      ConfigSource
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ConfigSource records how an EnvironmentConfig row came to exist.
type ConfigSource string

const (
	ConfigSourceManual        ConfigSource = "MANUAL"
	ConfigSourceAutoGenerated ConfigSource = "AUTO_GENERATED"
	ConfigSourceInherited     ConfigSource = "INHERITED"
)
