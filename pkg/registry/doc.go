/*
Package registry is the orchestration facade: one Registry value wires
pkg/store to every engine (dependency graph, port allocation, routes,
solutions, workstations, inventory, health, config generation, topology)
and owns the entity-level invariants that don't belong to any single
engine — team and service CRUD, slug validation, and the service
deletion guard (blocked while a service is a solution member or the
target of a required dependency).

One struct built by a constructor that wires every subsystem, exposed
as typed fields rather than a god-object of flat methods, so callers
(internal/httpapi, cmd/registryd) reach into the specific engine they
need.
*/
package registry
