package engagement

import (
	"fmt"

	"github.com/Jascfer/allonetoplulugu-sub000/internal/entities"
)

// Rate sets or overwrites the actor's rating on p. One rating per actor;
// re-rating replaces, never duplicates. Mean and count are recomputed from
// scratch after every mutation so they can not drift.
func Rate(p *entities.Post, actor string, value int) error {
	if value < 1 || value > 5 {
		return fmt.Errorf("%w: rating must be in range [1, 5]", ErrValidation)
	}

	if p.Ratings == nil {
		p.Ratings = make(map[string]int, 1)
	}
	p.Ratings[actor] = value

	sum := 0
	for _, v := range p.Ratings {
		sum += v
	}

	p.RatingCount = len(p.Ratings)
	p.RatingMean = float64(sum) / float64(p.RatingCount)

	return nil
}
