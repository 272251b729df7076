/*
Package topology implements the registry's topology projector: read
-only graph views over pkg/store's service and dependency state, built
fresh per call rather than cached.

Team topology assembles every team service as a node (health, upstream/
downstream/port counts, owning solution ids, layer) plus every outgoing
dependency as an edge. Solution topology restricts that same view to one
solution's members. Neighborhood expands outward from one service in both
directions, depth-capped. Ecosystem stats summarize graph shape: orphans,
services with no dependencies or no consumers, and the longest simple
path in the team's dependency DAG.

Layer classification is a closed map[types.ServiceType]Layer lookup.
*/
package topology
