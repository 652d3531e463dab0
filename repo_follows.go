package warble

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Follows manages the directed follow graph. Edges are unique per
// (follower, following) pair; the store enforces it.
type Follows interface {
	Follow(ctx context.Context, followerID, followingID uuid.UUID) error
	Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error
	Followers(ctx context.Context, userID uuid.UUID) ([]*User, error)
	Following(ctx context.Context, userID uuid.UUID) ([]*User, error)
}

type follows struct {
	db *bun.DB
}

var _ Follows = (*follows)(nil)

func NewFollowsRepository(db *bun.DB) Follows {
	return &follows{db: db}
}

// Follow creates the directed edge. A pair violation surfaces as
// ErrDuplicateFollow; callers may choose to swallow it.
func (r *follows) Follow(ctx context.Context, followerID, followingID uuid.UUID) error {
	edge := &Follow{
		FollowerID:  followerID,
		FollowingID: followingID,
	}

	_, err := r.db.NewInsert().
		Model(edge).
		Exec(ctx)

	if err != nil {
		if IsUniqueViolation(err) {
			return duplicateFollow(followerID, followingID, err)
		}
		return err
	}

	return nil
}

// Unfollow deletes the directed edge, reporting ErrNotFollowing when no
// edge existed.
func (r *follows) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*Follow)(nil)).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Exec(ctx)
	if err != nil {
		return err
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return notFollowing(followerID, followingID)
	}

	return nil
}

// Followers lists the accounts that follow userID.
func (r *follows) Followers(ctx context.Context, userID uuid.UUID) ([]*User, error) {
	var records []Follow
	err := r.db.NewSelect().
		Model(&records).
		Relation("Follower").
		Where("?TableAlias.following_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return []*User{}, nil
		}
		return nil, err
	}

	out := make([]*User, 0, len(records))
	for _, edge := range records {
		if edge.Follower != nil {
			out = append(out, edge.Follower)
		}
	}
	return out, nil
}

// Following lists the accounts userID follows.
func (r *follows) Following(ctx context.Context, userID uuid.UUID) ([]*User, error) {
	var records []Follow
	err := r.db.NewSelect().
		Model(&records).
		Relation("Following").
		Where("?TableAlias.follower_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return []*User{}, nil
		}
		return nil, err
	}

	out := make([]*User, 0, len(records))
	for _, edge := range records {
		if edge.Following != nil {
			out = append(out, edge.Following)
		}
	}
	return out, nil
}

func duplicateFollow(followerID, followingID uuid.UUID, cause error) error {
	clone := ErrDuplicateFollow.Clone()
	if clone == nil {
		return ErrDuplicateFollow
	}
	clone.Source = cause
	return clone.WithMetadata(map[string]any{
		"follower_id":  followerID.String(),
		"following_id": followingID.String(),
	})
}

func notFollowing(followerID, followingID uuid.UUID) error {
	clone := ErrNotFollowing.Clone()
	if clone == nil {
		return ErrNotFollowing
	}
	return clone.WithMetadata(map[string]any{
		"follower_id":  followerID.String(),
		"following_id": followingID.String(),
	})
}
