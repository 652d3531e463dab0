package warble

import (
	"context"

	"github.com/google/uuid"
)

var viewerCtxKey = &contextKey{"viewer"}

type contextKey struct {
	name string
}

// Viewer is the request-scoped identity resolved from a session token.
// It is never partially populated: both fields are set, or the context
// carries no viewer at all.
type Viewer struct {
	ID    uuid.UUID
	Email string
}

// WithViewer sets the Viewer in the given context.
func WithViewer(ctx context.Context, viewer *Viewer) context.Context {
	return context.WithValue(ctx, viewerCtxKey, viewer)
}

// ViewerFromContext finds the viewer from the context.
func ViewerFromContext(ctx context.Context) (*Viewer, bool) {
	raw, ok := ctx.Value(viewerCtxKey).(*Viewer)
	if !ok || raw == nil || raw.ID == uuid.Nil || raw.Email == "" {
		return nil, false
	}
	return raw, true
}

// ViewerFromClaims builds a Viewer from validated session claims. It returns
// false when the claims do not carry a complete identity.
func ViewerFromClaims(claims *SessionClaims) (*Viewer, bool) {
	if claims == nil || claims.Email == "" {
		return nil, false
	}
	id, err := uuid.Parse(claims.AccountID())
	if err != nil {
		return nil, false
	}
	return &Viewer{ID: id, Email: claims.Email}, true
}
