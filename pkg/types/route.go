package types

import "time"

// APIRoute binds a normalized path prefix to a service, optionally fronted
// by a gateway service. See pkg/routes for normalization and overlap
// rules.
type APIRoute struct {
	ID               string
	TeamID           string
	ServiceID        string
	GatewayServiceID *string // nil => direct route, not fronted by a gateway
	Prefix           string  // normalized: lowercase, leading /, no trailing /
	Methods          string  // comma-delimited HTTP methods, e.g. "GET,POST"
	Environment      string
	Description      string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
