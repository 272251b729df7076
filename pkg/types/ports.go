package types

import "time"

// PortAllocation binds one port number, within one environment, to one
// service. Unique per (TeamID, Environment, PortNumber).
type PortAllocation struct {
	ID            string
	TeamID        string
	ServiceID     string
	Environment   string
	Type          PortType
	PortNumber    int // 1-65535
	Protocol      string
	AutoAllocated bool
	Allocator     string // user who requested the allocation
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PortType is the closed set of port roles the allocation engine and the
// config generator both understand.
type PortType string

const (
	PortTypeHTTPAPI     PortType = "HTTP_API"
	PortTypeDatabase    PortType = "DATABASE"
	PortTypeRedis       PortType = "REDIS"
	PortTypeKafka       PortType = "KAFKA"
	PortTypeKafkaIntern PortType = "KAFKA_INTERNAL"
	PortTypeZookeeper   PortType = "ZOOKEEPER"
	PortTypeGRPC        PortType = "GRPC"
	PortTypeWebSocket   PortType = "WEBSOCKET"
	PortTypeDebug       PortType = "DEBUG"
	PortTypeActuator    PortType = "ACTUATOR"
	PortTypeFrontendDev PortType = "FRONTEND_DEV"
	PortTypeCustom      PortType = "CUSTOM"
)

// PortRange governs the auto-allocation search space for one
// (TeamID, Type, Environment) triple. Inclusive: Start < End.
type PortRange struct {
	ID          string
	TeamID      string
	Type        PortType
	Environment string
	Start       int
	End         int
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
