/*
Package ports implements the registry's port allocation engine:
range-partitioned, collision-free port allocation per (team, environment,
port-type), with gap-filling auto-allocation, manual allocation, release,
availability checks, conflict auditing, and the twelve-range seed preset.

Engine serializes its own check-then-act sequences with a mutex rather than
relying on a single store-level transaction, since an allocation decision
spans multiple pkg/store calls (load range, scan existing allocations,
insert) and pkg/store itself only guarantees atomicity per individual
method call — see pkg/store/doc.go.
*/
package ports
