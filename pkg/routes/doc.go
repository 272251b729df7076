/*
Package routes implements the registry's route namespace manager:
path-prefix normalization and overlap detection scoped by gateway (or, for
direct routes, by team+environment).

The overlap predicate is a symmetric prefix-overlap test between two
registered prefixes: two prefixes overlap iff one, followed by a "/"
boundary, is a prefix of the other, applied both directions.
*/
package routes
