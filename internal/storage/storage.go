// Package storage contains a storage interface.
package storage

import (
	"context"
	"fmt"

	"github.com/Jascfer/allonetoplulugu-sub000/internal/entities"
)

//go:generate mockgen -destination=./mock/storage.go -package=mock -source=storage.go

// ErrNotFound ...
var ErrNotFound = fmt.Errorf("not found")

// ErrAlreadyExists ...
var ErrAlreadyExists = fmt.Errorf("already exists")

const defaultLimit = 20

// Storage provides methods for interacting with database.
//
// Implementations must serialize concurrent UpdatePost calls against the same
// document, otherwise toggle reactions are exposed to lost updates. The
// engagement layer relies on this and does not serialize writes itself.
type Storage interface {
	GetPost(ctx context.Context, kind entities.Kind, id string) (*entities.Post, error)
	CreatePost(ctx context.Context, p *entities.Post) error
	// UpdatePost runs f on the stored document under a write lock and
	// persists the mutated document when f returns nil. The mutated document
	// is returned.
	UpdatePost(ctx context.Context, kind entities.Kind, id string, f func(p *entities.Post) error) (*entities.Post, error)
	DeletePost(ctx context.Context, kind entities.Kind, id string) error
	ListPosts(ctx context.Context, p *ListPostsParams) ([]*entities.Post, error)

	GetProfiles(ctx context.Context, id ...string) ([]*entities.Profile, error)
	SetProfile(ctx context.Context, p *entities.Profile) error
}

// ListPostsParams ...
type ListPostsParams struct {
	Kind  entities.Kind
	Limit uint16
	// IncludeUnapproved lifts the public-listing visibility filter for
	// moderator views.
	IncludeUnapproved bool
}

// NewListPostsParams returns params for a public listing of the given kind.
func NewListPostsParams(kind entities.Kind) *ListPostsParams {
	return &ListPostsParams{
		Kind:  kind,
		Limit: defaultLimit,
	}
}
