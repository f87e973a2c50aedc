package engagement

import (
	"fmt"
	"strings"
	"time"

	"github.com/Jascfer/allonetoplulugu-sub000/internal/entities"
)

// TogglePin flips the pinned flag and reports the new state. Pinning is a
// moderator-only action.
func TogglePin(p *entities.Post, moderator bool) (bool, error) {
	if !moderator {
		return false, fmt.Errorf("%w: only moderators pin posts", ErrForbidden)
	}

	p.IsPinned = !p.IsPinned

	return p.IsPinned, nil
}

// Report appends a report to the post. Repeated reports from the same actor
// are kept as separate entries.
func Report(p *entities.Post, actor, reason string, now time.Time) error {
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: reason is empty", ErrValidation)
	}

	p.Reports = append(p.Reports, entities.Report{
		Reporter:   actor,
		Reason:     reason,
		ReportedAt: now,
	})

	return nil
}

// CanModerate reports whether actor may delete or otherwise moderate the
// post: the author and moderators may, everybody else may not. Shared by
// post and comment moderation.
func CanModerate(p *entities.Post, actor string, moderator bool) bool {
	return moderator || actor == p.Author
}
