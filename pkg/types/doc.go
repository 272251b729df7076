/*
Package types defines the core data structures of the CodeOps ecosystem
registry.

This package contains every persistent record the registry manages: teams,
services, port allocations and ranges, dependency edges, API routes,
infrastructure resources, environment configuration, solutions and their
membership, workstation profiles, and generated config templates. Every
other package in this module — store, ports, depgraph, routes, solutions,
workstations, inventory, health, configgen, topology, registry — operates
on these types and nothing else.

# Team scoping

Every record below Team carries a TeamID. Uniqueness constraints (slugs,
port bindings, dependency edges, route prefixes) and graph algorithms are
defined *within* a team; nothing in this package enforces that on its own —
it is the contract every reader of a TeamID field is expected to honor.

# Enumeration pattern

Closed sets (service type, port type, dependency type, resource type,
health status, …) are string-backed named types with an exhaustive const
block, e.g.:

	type ServiceStatus string

	const (
		ServiceStatusActive   ServiceStatus = "active"
		ServiceStatusInactive ServiceStatus = "inactive"
	)

This keeps the JSON wire representation human-readable while still giving
compile-time exhaustiveness checks inside the module.

# Optional fields

Optional values use pointers (*string, *time.Time) so "absent" and
"present but zero" are distinguishable — e.g. a PortAllocation's ServiceID
is never optional, but an InfrastructureResource's ServiceID pointer is nil
when the resource is orphaned.

# Thread safety

Types in this package carry no synchronization themselves; they are
snapshots loaded fresh from the store per request (see pkg/store) and
discarded afterward. Concurrent-mutation safety is the store's job, not
this package's.
*/
package types
