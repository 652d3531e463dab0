package warble

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the account model. Email is unique and immutable once set by the
// first login; profile attributes are mutated elsewhere.
type User struct {
	bun.BaseModel   `bun:"table:users,alias:usr"`
	ID              uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	FirstName       string     `bun:"first_name,notnull" json:"first_name,omitempty"`
	LastName        string     `bun:"last_name" json:"last_name,omitempty"`
	Email           string     `bun:"email,notnull,unique" json:"email,omitempty"`
	ProfileImageURL string     `bun:"profile_image_url" json:"profile_image_url,omitempty"`
	CreatedAt       *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt       *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Tweet is a single feed entry authored by a user.
type Tweet struct {
	bun.BaseModel `bun:"table:tweets,alias:twt"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Content       string     `bun:"content,notnull" json:"content,omitempty"`
	ImageURL      string     `bun:"image_url" json:"image_url,omitempty"`
	AuthorID      uuid.UUID  `bun:"author_id,notnull,type:uuid" json:"author_id,omitempty"`
	Author        *User      `bun:"rel:belongs-to,join:author_id=id" json:"author,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Follow is a directed edge: follower follows following. The pair is the
// primary key, so duplicate edges are rejected by the store.
type Follow struct {
	bun.BaseModel `bun:"table:follows,alias:flw"`
	FollowerID    uuid.UUID  `bun:"follower_id,pk,type:uuid" json:"follower_id,omitempty"`
	FollowingID   uuid.UUID  `bun:"following_id,pk,type:uuid" json:"following_id,omitempty"`
	Follower      *User      `bun:"rel:belongs-to,join:follower_id=id" json:"follower,omitempty"`
	Following     *User      `bun:"rel:belongs-to,join:following_id=id" json:"following,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}
