/*
Package httpapi is the registry's HTTP/JSON transport: a
github.com/go-chi/chi/v5 router mounted at /api/v1/registry, translating
requests into calls against pkg/registry and pkg/registry's constituent
engines, and translating results (and apperrors.Error) back into JSON.

Middleware chain: chi's request-id middleware, a structured access-log
middleware that also records API request metrics, and bearer-token
authentication against an AuthVerifier. Authorization (reader vs writer)
is checked per-handler once the target team is known, since most routes
are scoped by service/solution/resource id rather than team id directly.

Pagination ({content, page, size, totalElements, totalPages, isLast}) is
implemented once in page.go and reused by every list handler, kept out
of pkg/* core packages as an HTTP-layer-only mechanic.
*/
package httpapi
