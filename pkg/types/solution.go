package types

import "time"

// Solution is a named, ordered grouping of services forming an
// application or platform.
type Solution struct {
	ID          string
	TeamID      string
	Slug        string
	Name        string
	Description string
	Category    SolutionCategory
	Status      SolutionStatus
	IconURL     *string
	Color       *string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SolutionCategory is the closed set of solution groupings.
type SolutionCategory string

const (
	SolutionCategoryPlatform     SolutionCategory = "PLATFORM"
	SolutionCategoryProduct      SolutionCategory = "PRODUCT"
	SolutionCategoryInternalTool SolutionCategory = "INTERNAL_TOOL"
	SolutionCategoryDemo         SolutionCategory = "DEMO"
	SolutionCategoryOther        SolutionCategory = "OTHER"
)

// SolutionStatus tracks a solution's lifecycle.
type SolutionStatus string

const (
	SolutionStatusActive      SolutionStatus = "ACTIVE"
	SolutionStatusDevelopment SolutionStatus = "DEVELOPMENT"
	SolutionStatusDeprecated  SolutionStatus = "DEPRECATED"
	SolutionStatusArchived    SolutionStatus = "ARCHIVED"
)

// SolutionMember is one (Solution, Service) membership row. Unique per
// (SolutionID, ServiceID); ordered by DisplayOrder within a solution.
type SolutionMember struct {
	ID           string
	SolutionID   string
	ServiceID    string
	Role         MemberRole
	DisplayOrder int
	Notes        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MemberRole describes a member's part in its solution.
type MemberRole string

const (
	MemberRoleCore           MemberRole = "CORE"
	MemberRoleSupporting     MemberRole = "SUPPORTING"
	MemberRoleInfrastructure MemberRole = "INFRASTRUCTURE"
	MemberRoleOptional       MemberRole = "OPTIONAL"
)
