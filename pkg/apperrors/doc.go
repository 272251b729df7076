/*
Package apperrors defines the four stable error kinds every registry
operation returns: NotFound, Validation, Authorization, and Internal.

Callers (pkg/registry's methods, internal/httpapi's handlers, tests) branch
on Kind rather than matching message strings, except for a handful of
messages that are stable assertion targets in tests (e.g. "cannot depend
on itself") and are never reworded.
*/
package apperrors
