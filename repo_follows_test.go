package warble_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warblehq/warble"
)

func TestFollowAndList(t *testing.T) {
	db := setupDB(t)
	users := warble.NewUsersRepository(db)
	follows := warble.NewFollowsRepository(db)
	ctx := context.Background()

	ana := seedAccount(t, users, "ana@example.com", "Ana")
	ben := seedAccount(t, users, "ben@example.com", "Ben")
	cam := seedAccount(t, users, "cam@example.com", "Cam")

	require.NoError(t, follows.Follow(ctx, ana.ID, ben.ID))
	require.NoError(t, follows.Follow(ctx, cam.ID, ben.ID))
	require.NoError(t, follows.Follow(ctx, ana.ID, cam.ID))

	followers, err := follows.Followers(ctx, ben.ID)
	require.NoError(t, err)
	require.Len(t, followers, 2)

	emails := []string{followers[0].Email, followers[1].Email}
	assert.ElementsMatch(t, []string{"ana@example.com", "cam@example.com"}, emails)

	following, err := follows.Following(ctx, ana.ID)
	require.NoError(t, err)
	require.Len(t, following, 2)
}

func TestFollowIsDirected(t *testing.T) {
	db := setupDB(t)
	users := warble.NewUsersRepository(db)
	follows := warble.NewFollowsRepository(db)
	ctx := context.Background()

	ana := seedAccount(t, users, "ana@example.com", "Ana")
	ben := seedAccount(t, users, "ben@example.com", "Ben")

	require.NoError(t, follows.Follow(ctx, ana.ID, ben.ID))

	// The reverse edge does not exist.
	following, err := follows.Following(ctx, ben.ID)
	require.NoError(t, err)
	assert.Empty(t, following)

	followers, err := follows.Followers(ctx, ana.ID)
	require.NoError(t, err)
	assert.Empty(t, followers)
}

func TestDuplicateFollowRejected(t *testing.T) {
	db := setupDB(t)
	users := warble.NewUsersRepository(db)
	follows := warble.NewFollowsRepository(db)
	ctx := context.Background()

	ana := seedAccount(t, users, "ana@example.com", "Ana")
	ben := seedAccount(t, users, "ben@example.com", "Ben")

	require.NoError(t, follows.Follow(ctx, ana.ID, ben.ID))

	err := follows.Follow(ctx, ana.ID, ben.ID)
	require.Error(t, err)

	var richErr *errors.Error
	require.True(t, errors.As(err, &richErr))
	assert.Equal(t, warble.TextCodeDuplicateFollow, richErr.TextCode)
}

func TestUnfollow(t *testing.T) {
	db := setupDB(t)
	users := warble.NewUsersRepository(db)
	follows := warble.NewFollowsRepository(db)
	ctx := context.Background()

	ana := seedAccount(t, users, "ana@example.com", "Ana")
	ben := seedAccount(t, users, "ben@example.com", "Ben")

	require.NoError(t, follows.Follow(ctx, ana.ID, ben.ID))
	require.NoError(t, follows.Unfollow(ctx, ana.ID, ben.ID))

	following, err := follows.Following(ctx, ana.ID)
	require.NoError(t, err)
	assert.Empty(t, following)
}

func TestUnfollowWithoutEdge(t *testing.T) {
	db := setupDB(t)
	users := warble.NewUsersRepository(db)
	follows := warble.NewFollowsRepository(db)
	ctx := context.Background()

	ana := seedAccount(t, users, "ana@example.com", "Ana")
	ben := seedAccount(t, users, "ben@example.com", "Ben")

	err := follows.Unfollow(ctx, ana.ID, ben.ID)
	require.Error(t, err)

	var richErr *errors.Error
	require.True(t, errors.As(err, &richErr))
	assert.Equal(t, warble.TextCodeNotFollowing, richErr.TextCode)
}
