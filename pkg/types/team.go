package types

import "time"

// Team is the top-level tenant. All uniqueness constraints and graph
// algorithms in this module are scoped to a single team.
type Team struct {
	ID        string
	Name      string
	Slug      string
	CreatedAt time.Time
}
