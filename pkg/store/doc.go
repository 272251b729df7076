/*
Package store provides BoltDB-backed persistence for the registry's data
model (pkg/types).

The Store interface is the registry's C1 Entity Store: typed find/save/
delete operations scoped by team where applicable, plus the composite
lookups the rest of the module needs (by id, by team+slug, by team+id-set,
by team+environment+port, by source+target+type, …). Every lookup a
higher-level package needs lives here, not ad-hoc queries scattered across
packages.

# Architecture

	┌──────────────────── BOLTDB STORE ─────────────────────────┐
	│                                                            │
	│  ┌────────────────────────────────────────────┐           │
	│  │              BoltStore                      │           │
	│  │  - File: <dataDir>/registry.db              │           │
	│  │  - Format: B+tree with MVCC                 │           │
	│  │  - Transactions: one db.Update/View per op  │           │
	│  └──────────────────┬──────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼──────────────────────────┐          │
	│  │              Bucket Structure                 │          │
	│  │  teams                  (Team ID)             │          │
	│  │  services               (Service ID)          │          │
	│  │  port_allocations       (PortAllocation ID)    │          │
	│  │  port_ranges            (PortRange ID)         │          │
	│  │  service_dependencies   (ServiceDependency ID)  │          │
	│  │  api_routes             (APIRoute ID)           │          │
	│  │  infrastructure_resources (InfraResource ID)    │          │
	│  │  environment_configs    (EnvironmentConfig ID)  │          │
	│  │  solutions              (Solution ID)           │          │
	│  │  solution_members       (SolutionMember ID)     │          │
	│  │  workstation_profiles   (WorkstationProfile ID) │          │
	│  │  config_templates       (ConfigTemplate ID)     │          │
	│  └────────────────────────────────────────────────┘         │
	└────────────────────────────────────────────────────────────┘

Values are JSON-encoded (encoding/json), one record per key, keyed by the
record's own ID. There are no secondary-index buckets: composite lookups
(team+slug, team+environment+port, …) are implemented as a bucket ForEach
scan filtered in memory — acceptable at the scale this registry targets
(a handful of teams, each with at most a few hundred services). There is
exactly one bbolt transaction per exported Store method. The store checks
no uniqueness or acyclicity invariant itself: Create methods write the
record as given. A check-then-insert (slug collision, port collision,
acyclicity) spans several Store calls, each in its own transaction, and is
serialized by the owning engine's mutex rather than by the store.

# Cascades

DeleteService cascades to the service's port allocations, deleting them
with the owning service, and leaves solution membership, routes, and
dependencies in place — the store itself never blocks a delete on
referential integrity. pkg/registry checks solution membership and
required inbound dependencies before it calls DeleteService; routes and
non-required dependencies are not checked.
*/
package store
