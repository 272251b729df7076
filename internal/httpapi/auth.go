package httpapi

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/codeops/registry/pkg/apperrors"
)

// Principal is the verified identity the core consumes per spec's
// "auth verifier" external collaborator. Token issuance and
// cryptographic validation happen outside this package.
type Principal struct {
	UserID    string
	Email     string
	Roles     []string
	TeamIDs   []string
	TeamRoles map[string]string // teamID -> "reader" | "writer"
}

// AuthVerifier exchanges a bearer token for a Principal.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (*Principal, error)
}

// StubVerifier is an in-memory AuthVerifier for tests and local dev: a
// fixed token-to-principal map, not a credential authority.
type StubVerifier struct {
	mu     sync.RWMutex
	tokens map[string]*Principal
}

// NewStubVerifier creates an empty stub verifier.
func NewStubVerifier() *StubVerifier {
	return &StubVerifier{tokens: make(map[string]*Principal)}
}

// Register associates a bearer token with a principal.
func (v *StubVerifier) Register(token string, p *Principal) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tokens[token] = p
}

// Verify looks up the token verbatim; unknown tokens are rejected.
func (v *StubVerifier) Verify(_ context.Context, token string) (*Principal, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	p, ok := v.tokens[token]
	if !ok {
		return nil, apperrors.Authorization("invalid or unrecognized bearer token")
	}
	return p, nil
}

type contextKey int

const principalKey contextKey = iota

func withPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// principalFromContext retrieves the request's verified principal, set
// by Authenticate.
func principalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok
}

// Authenticate extracts "Authorization: Bearer <token>", verifies it
// against verifier, and attaches the resulting Principal to the request
// context. A request that never produces a verified principal — missing
// header or a token the verifier rejects — fails with 401 before any
// handler runs; role denial is a separate, later concern (see authorize).
func Authenticate(verifier AuthVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			const prefix = "Bearer "
			if !strings.HasPrefix(header, prefix) {
				writeUnauthenticated(w, "missing bearer token")
				return
			}
			token := strings.TrimPrefix(header, prefix)
			principal, err := verifier.Verify(r.Context(), token)
			if err != nil {
				// Only a verifier rejecting the token itself — KindAuthorization
				// — means "no principal", which is this middleware's 401 case.
				// Any other kind (or an unclassified error) is an operational
				// failure of the verifier and goes through the normal status
				// mapping instead of being reported as an auth rejection.
				ae, ok := apperrors.As(err)
				if !ok || ae.Kind != apperrors.KindAuthorization {
					writeError(w, err)
					return
				}
				writeUnauthenticated(w, ae.Message)
				return
			}
			next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), principal)))
		})
	}
}

// role is the closed pair of access levels a team membership grants.
type role string

const (
	roleReader role = "reader"
	roleWriter role = "writer"
)

// authorize checks that the request's principal holds at least the
// required role on teamID. "writer" implies "reader".
func authorize(r *http.Request, teamID string, required role) error {
	principal, ok := principalFromContext(r.Context())
	if !ok || principal == nil {
		return apperrors.Authorization("missing authenticated principal")
	}
	held, ok := principal.TeamRoles[teamID]
	if !ok {
		return apperrors.Authorization("principal has no role on this team")
	}
	if required == roleReader && (held == string(roleReader) || held == string(roleWriter)) {
		return nil
	}
	if required == roleWriter && held == string(roleWriter) {
		return nil
	}
	return apperrors.Authorization("principal's role does not permit this operation")
}
