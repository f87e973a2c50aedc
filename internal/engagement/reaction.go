// Package engagement contains the state machines applied to engageable
// entities: toggle reactions, ratings, comment trees, polls and moderation
// flags. Everything here mutates a single entities.Post in memory and returns
// typed errors; persistence and authorization lookups stay with the caller.
package engagement

import (
	"github.com/Jascfer/allonetoplulugu-sub000/internal/entities"
)

// Toggle flips actor's membership in set and reports the new membership.
// Toggling twice from the same actor is the identity. Insertion order of the
// remaining members is preserved.
func Toggle(set entities.ActorSet, actor string) (entities.ActorSet, bool) {
	for i, v := range set {
		if v == actor {
			out := make(entities.ActorSet, 0, len(set)-1)
			out = append(out, set[:i]...)
			out = append(out, set[i+1:]...)

			return out, false
		}
	}

	out := make(entities.ActorSet, 0, len(set)+1)
	out = append(out, set...)
	out = append(out, actor)

	return out, true
}
