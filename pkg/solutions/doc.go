/*
Package solutions implements the registry's solution aggregate: a
named, ordered bag of services — e.g. "checkout flow" or "internal
tooling" — with slug uniqueness and team-cap enforcement mirroring
pkg/store's entity invariants, plus ordered membership maintenance.

Members are always returned sorted by DisplayOrder; ReorderMembers is
the only operation that changes that order, and it requires the caller
to supply every current member id exactly once.
*/
package solutions
