// Package users is a storage-backed resolver of actor ids to public identity.
package users

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Jascfer/allonetoplulugu-sub000/internal/entities"
	"github.com/Jascfer/allonetoplulugu-sub000/internal/service"
	"github.com/Jascfer/allonetoplulugu-sub000/internal/storage"
)

var log = logrus.WithField("package", "users")

type lookup struct {
	s storage.Storage
}

// New creates new instance of lookup.
func New(s storage.Storage) service.UserLookup {
	return lookup{
		s: s,
	}
}

func (l lookup) DisplayName(ctx context.Context, actor string) string {
	if p := l.profile(ctx, actor); p != nil {
		return p.DisplayName
	}

	// a view with a raw id beats a failed request
	return actor
}

func (l lookup) AvatarURL(ctx context.Context, actor string) string {
	if p := l.profile(ctx, actor); p != nil {
		return p.AvatarURL
	}

	return ""
}

func (l lookup) profile(ctx context.Context, actor string) *entities.Profile {
	p, err := l.s.GetProfiles(ctx, actor)
	if err != nil {
		log.WithError(err).WithField("actor", actor).Warn("failed to get profile")
		return nil
	}

	if len(p) == 0 {
		return nil
	}

	return p[0]
}
