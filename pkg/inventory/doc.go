/*
Package inventory implements the registry's infrastructure resource
ledger: CRUD over externally-provisioned resources (volumes,
networks, buckets, queues, …) optionally attached to a service, plus
orphan tracking for resources whose service link has been cleared.

Filtering (by type, by environment) is an in-memory filter over a full
team scan, the same scan-then-filter shape pkg/store uses throughout,
rather than a secondary index.
*/
package inventory
