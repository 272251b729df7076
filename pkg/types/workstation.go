package types

import "time"

// WorkstationProfile is a developer-machine bundle: an explicit set of
// services plus a startup order projected through the team's dependency
// graph (pkg/depgraph). At most one profile per team has IsDefault set.
type WorkstationProfile struct {
	ID               string
	TeamID           string
	Name             string // team-unique
	Description      string
	SourceSolutionID *string
	ServiceIDs       []string // explicit membership, caller-ordered
	StartupOrder     []string // cached, recomputed by RefreshStartupOrder
	IsDefault        bool
	CreatedBy        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
