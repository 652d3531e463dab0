package warble

import (
	"context"

	"github.com/google/uuid"
)

// RequireViewer asserts that the request context carries an authenticated
// viewer. Protected operations call this themselves; the middleware fails
// open to anonymous and is never the sole protection.
func RequireViewer(ctx context.Context) (*Viewer, error) {
	viewer, ok := ViewerFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	return viewer, nil
}

// RequireOwner asserts that the authenticated viewer owns the resource.
// An anonymous context is forbidden, not unauthenticated: the caller asked
// an ownership question and the answer is no.
func RequireOwner(ctx context.Context, ownerID uuid.UUID) (*Viewer, error) {
	viewer, ok := ViewerFromContext(ctx)
	if !ok {
		return nil, ErrForbidden
	}
	if viewer.ID != ownerID {
		return nil, ErrForbidden
	}
	return viewer, nil
}
