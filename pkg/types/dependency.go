package types

import "time"

// ServiceDependency is a directed edge: Source depends on Target. Unique
// per (SourceServiceID, TargetServiceID, Type). Source and Target must
// belong to the same team and must differ.
type ServiceDependency struct {
	ID              string
	TeamID          string
	SourceServiceID string
	TargetServiceID string
	Type            DependencyType
	Description     string
	Required        bool // defaults to true when unset by the caller
	EndpointHint    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DependencyType is the closed set of edge kinds the graph engine
// persists; it does not affect cycle detection or ordering, only display
// and config-generation hints.
type DependencyType string

const (
	DependencyTypeHTTPREST       DependencyType = "HTTP_REST"
	DependencyTypeGRPC           DependencyType = "GRPC"
	DependencyTypeKafkaTopic     DependencyType = "KAFKA_TOPIC"
	DependencyTypeDatabaseShared DependencyType = "DATABASE_SHARED"
	DependencyTypeRedisCache     DependencyType = "REDIS_CACHE"
	DependencyTypeMessageQueue   DependencyType = "MESSAGE_QUEUE"
	DependencyTypeWebSocket      DependencyType = "WEBSOCKET"
	DependencyTypeFileShare      DependencyType = "FILE_SHARE"
	DependencyTypeOther          DependencyType = "OTHER"
)
