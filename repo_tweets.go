package warble

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Tweets is the feed repository. Ownership checks happen at the operation
// layer; Delete here is unconditional.
type Tweets interface {
	Create(ctx context.Context, record *Tweet) (*Tweet, error)
	ResolveByID(ctx context.Context, id uuid.UUID) (*Tweet, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListRecent(ctx context.Context, limit int) ([]*Tweet, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*Tweet, error)
}

type tweets struct {
	db *bun.DB
}

var _ Tweets = (*tweets)(nil)

func NewTweetsRepository(db *bun.DB) Tweets {
	return &tweets{db: db}
}

func (r *tweets) Create(ctx context.Context, record *Tweet) (*Tweet, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	_, err := r.db.NewInsert().
		Model(record).
		Exec(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "could not create tweet")
	}

	return record, nil
}

func (r *tweets) ResolveByID(ctx context.Context, id uuid.UUID) (*Tweet, error) {
	record := &Tweet{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tweetNotFound(id, err)
		}
		return nil, err
	}

	return record, nil
}

func (r *tweets) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*Tweet)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return tweetNotFound(id, nil)
	}

	return nil
}

// ListRecent returns the feed newest-first. A non-positive limit returns
// everything.
func (r *tweets) ListRecent(ctx context.Context, limit int) ([]*Tweet, error) {
	var records []*Tweet
	q := r.db.NewSelect().
		Model(&records).
		Order("created_at DESC")

	if limit > 0 {
		q = q.Limit(limit)
	}

	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*Tweet{}, nil
		}
		return nil, err
	}

	return records, nil
}

func (r *tweets) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*Tweet, error) {
	var records []*Tweet
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.author_id = ?", authorID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*Tweet{}, nil
		}
		return nil, err
	}

	return records, nil
}

func tweetNotFound(id uuid.UUID, cause error) error {
	clone := ErrTweetNotFound.Clone()
	if clone == nil {
		return ErrTweetNotFound
	}
	clone.Source = cause
	return clone.WithMetadata(map[string]any{
		"id": id.String(),
	})
}
