// Package entities contains main entities of service.
package entities

import (
	"time"
)

// Kind of an engageable entity. Notes, community posts and daily questions
// share the same document shape; the kind only affects content limits.
type Kind string

const (
	// KindNote ...
	KindNote Kind = "notes"
	// KindPost ...
	KindPost Kind = "posts"
	// KindQuestion ...
	KindQuestion Kind = "questions"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindNote || k == KindPost || k == KindQuestion
}

// ActorSet is an insertion-ordered set of actor ids. An actor appears at most
// once; membership is flipped by engagement.Toggle.
type ActorSet []string

// Contains ...
func (s ActorSet) Contains(actor string) bool {
	for _, v := range s {
		if v == actor {
			return true
		}
	}

	return false
}

// Reply is appended under a Comment. Append-only, ordering is insertion order.
type Reply struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Likes     ActorSet  `json:"likes"`
}

// Comment is owned exclusively by its parent post. Replies can not have
// replies of their own, the tree is two levels deep.
type Comment struct {
	ID         string    `json:"id"`
	Author     string    `json:"author"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	Likes      ActorSet  `json:"likes"`
	IsAccepted bool      `json:"is_accepted"`
	Replies    []Reply   `json:"replies"`
}

// Option of a poll. Ids stay valid across changes elsewhere in the sequence;
// positions are resolved to ids at the service boundary.
type Option struct {
	ID    string   `json:"id"`
	Text  string   `json:"text"`
	Votes ActorSet `json:"votes"`
}

// Poll is owned exclusively by its parent post and created at most once.
type Poll struct {
	Question       string     `json:"question"`
	Options        []Option   `json:"options"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	MultipleChoice bool       `json:"multiple_choice"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Report ...
type Report struct {
	Reporter   string    `json:"reporter"`
	Reason     string    `json:"reason"`
	ReportedAt time.Time `json:"reported_at"`
}

// Post is the unified engageable document: a note, a community post or a
// daily question. Sub-entities live and die with their parent; every mutation
// is a whole-document read-modify-write.
type Post struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Author    string    `json:"author"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`

	IsApproved bool `json:"is_approved"`
	IsPinned   bool `json:"is_pinned"`

	Likes     ActorSet `json:"likes"`
	Favorites ActorSet `json:"favorites"`

	Ratings     map[string]int `json:"ratings,omitempty"`
	RatingMean  float64        `json:"rating_mean"`
	RatingCount int            `json:"rating_count"`

	Comments []Comment `json:"comments"`
	Poll     *Poll     `json:"poll,omitempty"`
	Reports  []Report  `json:"reports"`
}

// Profile is the public identity attached to an actor id in views.
type Profile struct {
	ID          string
	DisplayName string
	AvatarURL   string
	CreatedAt   time.Time
}
