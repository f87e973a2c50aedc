// Package postgres is implementation of storage interface.
//
// Entity documents are stored as whole JSONB rows; every engagement mutation
// is a read-modify-write of one row under SELECT ... FOR UPDATE, which gives
// the same-document write serialization the storage interface requires.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/Jascfer/allonetoplulugu-sub000/internal/entities"
	"github.com/Jascfer/allonetoplulugu-sub000/internal/storage"
)

var log = logrus.WithField("layer", "storage").WithField("package", "postgres")
var errUpdateCalledWithinTx = errors.New("can not run UpdatePost in tx")

const uniqueViolation = "23505"

type pg struct {
	ext sqlx.ExtContext
}

type postDTO struct {
	Kind      string          `db:"kind"`
	ID        string          `db:"id"`
	Author    string          `db:"author"`
	Approved  bool            `db:"approved"`
	Pinned    bool            `db:"pinned"`
	CreatedAt time.Time       `db:"created_at"`
	Doc       json.RawMessage `db:"doc"`
}

type profileDTO struct {
	ID          string    `db:"id"`
	DisplayName string    `db:"display_name"`
	AvatarURL   string    `db:"avatar_url"`
	CreatedAt   time.Time `db:"created_at"`
}

func (s pg) GetPost(ctx context.Context, kind entities.Kind, id string) (*entities.Post, error) {
	var dto postDTO

	if err := sqlx.GetContext(ctx, s.ext, &dto, `
			SELECT kind, id, author, approved, pinned, created_at, doc
			FROM post
			WHERE kind = $1 AND id = $2
		`,
		kind, id,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}

		return nil, fmt.Errorf("failed to query: %w", err)
	}

	return toPost(&dto)
}

func (s pg) CreatePost(ctx context.Context, p *entities.Post) error {
	dto, err := toPostDTO(p)
	if err != nil {
		return err
	}

	if _, err := sqlx.NamedExecContext(ctx, s.ext,
		`
			INSERT INTO post(kind, id, author, approved, pinned, created_at, doc)
			VALUES(:kind, :id, :author, :approved, :pinned, :created_at, :doc)
		`, dto,
	); err != nil {
		if err, ok := err.(*pq.Error); ok && err.Code == uniqueViolation {
			return storage.ErrAlreadyExists
		}

		return fmt.Errorf("failed to exec: %w", err)
	}

	return nil
}

func (s pg) UpdatePost(ctx context.Context, kind entities.Kind, id string, f func(p *entities.Post) error) (*entities.Post, error) {
	db, ok := s.ext.(*sqlx.DB)
	if !ok {
		return nil, errUpdateCalledWithinTx
	}

	tx, err := db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("failed to create tx: %w", err)
	}

	p, err := func() (*entities.Post, error) {
		var dto postDTO

		// the row lock serializes concurrent mutations of the same document
		if err := sqlx.GetContext(ctx, tx, &dto, `
				SELECT kind, id, author, approved, pinned, created_at, doc
				FROM post
				WHERE kind = $1 AND id = $2
				FOR UPDATE
			`,
			kind, id,
		); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, storage.ErrNotFound
			}

			return nil, fmt.Errorf("failed to query: %w", err)
		}

		p, err := toPost(&dto)
		if err != nil {
			return nil, err
		}

		if err := f(p); err != nil {
			return nil, err
		}

		doc, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal document: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
				UPDATE post SET approved=$3, pinned=$4, doc=$5, version=version+1
				WHERE kind=$1 AND id=$2
			`,
			kind, id, p.IsApproved, p.IsPinned, doc,
		); err != nil {
			return nil, fmt.Errorf("failed to exec: %w", err)
		}

		return p, nil
	}()

	if err != nil {
		if err := tx.Rollback(); err != nil {
			log.WithError(err).Error("failed to rollback tx")
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit tx: %w", err)
	}

	return p, nil
}

func (s pg) DeletePost(ctx context.Context, kind entities.Kind, id string) error {
	res, err := s.ext.ExecContext(ctx,
		`DELETE FROM post WHERE kind=$1 AND id=$2`,
		kind, id,
	)

	if err != nil {
		return fmt.Errorf("failed to exec: %w", err)
	}

	if c, _ := res.RowsAffected(); c == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (s pg) ListPosts(ctx context.Context, params *storage.ListPostsParams) ([]*entities.Post, error) {
	q := `
		SELECT kind, id, author, approved, pinned, created_at, doc
		FROM post
		WHERE kind = $1
	`
	if !params.IncludeUnapproved {
		q += ` AND approved`
	}
	q += ` ORDER BY pinned DESC, created_at DESC LIMIT $2`

	var dto []*postDTO
	if err := sqlx.SelectContext(ctx, s.ext, &dto, q, params.Kind, params.Limit); err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	out := make([]*entities.Post, len(dto))
	for i, v := range dto {
		p, err := toPost(v)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}

	return out, nil
}

func (s pg) GetProfiles(ctx context.Context, id ...string) ([]*entities.Profile, error) {
	id = stringsUnique(id)
	if len(id) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
			SELECT id, display_name, avatar_url, created_at FROM profile
			WHERE id IN (?)
		`, id)

	if err != nil {
		return nil, fmt.Errorf("failed to construct IN clause: %w", err)
	}

	var p []*profileDTO

	if err := sqlx.SelectContext(ctx, s.ext, &p, s.ext.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	out := make([]*entities.Profile, len(p))
	for i, v := range p {
		out[i] = &entities.Profile{
			ID:          v.ID,
			DisplayName: v.DisplayName,
			AvatarURL:   v.AvatarURL,
			CreatedAt:   v.CreatedAt,
		}
	}

	return out, nil
}

func (s pg) SetProfile(ctx context.Context, p *entities.Profile) error {
	profile := profileDTO{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
		CreatedAt:   p.CreatedAt,
	}

	if _, err := sqlx.NamedExecContext(ctx, s.ext,
		`
			INSERT INTO profile(id, display_name, avatar_url, created_at)
			VALUES(:id, :display_name, :avatar_url, :created_at)
			ON CONFLICT(id) DO UPDATE SET
			display_name=excluded.display_name, avatar_url=excluded.avatar_url
		`, profile,
	); err != nil {
		return fmt.Errorf("failed to exec: %w", err)
	}

	return nil
}

// New creates new instance of pg.
func New(db *sql.DB) storage.Storage {
	return pg{
		ext: sqlx.NewDb(db, "postgres"),
	}
}

func toPost(dto *postDTO) (*entities.Post, error) {
	var p entities.Post
	if err := json.Unmarshal(dto.Doc, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}

	return &p, nil
}

func toPostDTO(p *entities.Post) (*postDTO, error) {
	doc, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}

	return &postDTO{
		Kind:      string(p.Kind),
		ID:        p.ID,
		Author:    p.Author,
		Approved:  p.IsApproved,
		Pinned:    p.IsPinned,
		CreatedAt: p.CreatedAt.UTC(),
		Doc:       doc,
	}, nil
}

func stringsUnique(s []string) []string {
	m := make(map[string]struct{}, len(s))
	out := make([]string, 0, len(s))

	for _, v := range s {
		if _, ok := m[v]; !ok {
			m[v] = struct{}{}
			out = append(out, v)
		}
	}

	return out
}
