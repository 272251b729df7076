package types

import "time"

// ConfigTemplate is a generated, versioned configuration artifact for one
// (ServiceID, Type, Environment). Version increases strictly on every
// regeneration of the same key (see pkg/configgen).
type ConfigTemplate struct {
	ID            string
	TeamID        string
	ServiceID     string
	Type          ConfigTemplateType
	Environment   string
	Content       string
	AutoGenerated bool
	GeneratedFrom string // e.g. "registry-data" or "solution:<id>"
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ConfigTemplateType is the closed set of artifacts the config generator
// produces.
type ConfigTemplateType string

const (
	ConfigTemplateDockerCompose    ConfigTemplateType = "DOCKER_COMPOSE"
	ConfigTemplateApplicationYML   ConfigTemplateType = "APPLICATION_YML"
	ConfigTemplateClaudeCodeHeader ConfigTemplateType = "CLAUDE_CODE_HEADER"
	ConfigTemplateEnvFile          ConfigTemplateType = "ENV_FILE"
)
