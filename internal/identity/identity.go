// Package identity carries the caller's owner id from the transport into the
// request context. Authentication happens upstream; this package only reads
// the identity a trusted gateway forwards in a header.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JaimeStill/agent-console/pkg/handlers"
	"github.com/JaimeStill/agent-console/pkg/middleware"
)

// DefaultHeader carries the owner id when no header is configured.
const DefaultHeader = "X-Owner-ID"

// MaxOwnerLength bounds accepted owner ids.
const MaxOwnerLength = 100

// ErrMissingOwner is returned when a request carries no usable owner id.
var ErrMissingOwner = errors.New("owner identity required")

type ownerKey struct{}

// WithOwner returns a copy of ctx carrying owner.
func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ownerKey{}, owner)
}

// Owner returns the owner id stored in ctx, or "" when none is present.
func Owner(ctx context.Context) string {
	owner, _ := ctx.Value(ownerKey{}).(string)
	return owner
}

// FromRequest reads and validates the owner id from header.
func FromRequest(r *http.Request, header string) (string, error) {
	owner := strings.TrimSpace(r.Header.Get(header))
	if owner == "" {
		return "", fmt.Errorf("%w: missing %s header", ErrMissingOwner, header)
	}
	if len(owner) > MaxOwnerLength {
		return "", fmt.Errorf("%w: %s exceeds %d characters", ErrMissingOwner, header, MaxOwnerLength)
	}
	return owner, nil
}

// Middleware rejects requests without an owner id with 401 and stores the
// owner in the context of those that have one. Preflight requests pass through.
func Middleware(header string, logger *slog.Logger) middleware.Middleware {
	if header == "" {
		header = DefaultHeader
	}
	logger = logger.With("system", "identity")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			owner, err := FromRequest(r, header)
			if err != nil {
				handlers.RespondError(w, logger, http.StatusUnauthorized, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), owner)))
		})
	}
}
