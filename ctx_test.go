package warble_test

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warblehq/warble"
)

func TestViewerRoundTrip(t *testing.T) {
	viewer := &warble.Viewer{ID: uuid.New(), Email: "casey@example.com"}

	ctx := warble.WithViewer(context.Background(), viewer)

	got, ok := warble.ViewerFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, viewer.ID, got.ID)
	assert.Equal(t, viewer.Email, got.Email)
}

func TestViewerFromContextEmpty(t *testing.T) {
	got, ok := warble.ViewerFromContext(context.Background())
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestViewerFromContextRejectsPartialIdentity(t *testing.T) {
	cases := map[string]*warble.Viewer{
		"nil viewer":    nil,
		"missing id":    {Email: "casey@example.com"},
		"missing email": {ID: uuid.New()},
	}

	for name, viewer := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := warble.WithViewer(context.Background(), viewer)
			got, ok := warble.ViewerFromContext(ctx)
			assert.False(t, ok)
			assert.Nil(t, got)
		})
	}
}

func TestViewerFromClaims(t *testing.T) {
	accountID := uuid.New()

	claims := &warble.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: accountID.String()},
		Email:            "casey@example.com",
	}

	viewer, ok := warble.ViewerFromClaims(claims)
	require.True(t, ok)
	assert.Equal(t, accountID, viewer.ID)
	assert.Equal(t, "casey@example.com", viewer.Email)
}

func TestViewerFromClaimsRejectsIncomplete(t *testing.T) {
	_, ok := warble.ViewerFromClaims(nil)
	assert.False(t, ok)

	_, ok = warble.ViewerFromClaims(&warble.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: uuid.New().String()},
	})
	assert.False(t, ok, "claims without email should not produce a viewer")

	_, ok = warble.ViewerFromClaims(&warble.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "not-a-uuid"},
		Email:            "casey@example.com",
	})
	assert.False(t, ok, "claims without a parseable account id should not produce a viewer")
}

func TestViewerFromClaimsPrefersUID(t *testing.T) {
	accountID := uuid.New()

	claims := &warble.SessionClaims{
		UID:   accountID.String(),
		Email: "casey@example.com",
	}

	viewer, ok := warble.ViewerFromClaims(claims)
	require.True(t, ok)
	assert.Equal(t, accountID, viewer.ID)
}
