/*
Package workstations implements the registry's workstation bundle: a
developer-machine profile selecting which services to start, plus a
startup order projected through pkg/depgraph and cached on the profile.

Manager's exported methods load prerequisites from pkg/store, validate,
and persist, the same pattern pkg/solutions follows.

The service-id set a profile holds is resolved once, at create time, from
either an explicit list or a solution's membership; RefreshStartupOrder
(and any mutation of the set) recomputes the cached order by intersecting
the team's current pkg/depgraph.StartupOrder with that set, preserving the
team's relative order.
*/
package workstations
