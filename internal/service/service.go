// Package service contains interface for service business-logic.
package service

import (
	"context"
	"time"

	"github.com/Jascfer/allonetoplulugu-sub000/internal/entities"
)

//go:generate mockgen -destination=./mock/service.go -package=mock -source=service.go

// Action is an engagement action name. Payload shape and error semantics are
// action-specific; unknown actions fail validation.
type Action string

const (
	// ActionToggleLike ...
	ActionToggleLike Action = "toggle-like"
	// ActionToggleFavorite ...
	ActionToggleFavorite Action = "toggle-favorite"
	// ActionAddComment ...
	ActionAddComment Action = "add-comment"
	// ActionAddReply ...
	ActionAddReply Action = "add-reply"
	// ActionToggleCommentLike ...
	ActionToggleCommentLike Action = "toggle-comment-like"
	// ActionToggleReplyLike ...
	ActionToggleReplyLike Action = "toggle-reply-like"
	// ActionAcceptAnswer ...
	ActionAcceptAnswer Action = "accept-answer"
	// ActionCreatePoll ...
	ActionCreatePoll Action = "create-poll"
	// ActionVotePoll ...
	ActionVotePoll Action = "vote-poll"
	// ActionTogglePin ...
	ActionTogglePin Action = "toggle-pin"
	// ActionReport ...
	ActionReport Action = "report"
	// ActionRate ...
	ActionRate Action = "rate"
)

// Payload carries the per-action fields of an engagement request. Fields not
// used by the requested action are ignored; required fields are validated
// before dispatch so the state machines receive pre-validated input.
type Payload struct {
	Content        string     `json:"content,omitempty"`
	CommentID      string     `json:"commentId,omitempty"`
	ReplyID        string     `json:"replyId,omitempty"`
	AnswerID       string     `json:"answerId,omitempty"`
	Rating         int        `json:"rating,omitempty"`
	Question       string     `json:"question,omitempty"`
	Options        []string   `json:"options,omitempty"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
	MultipleChoice bool       `json:"multipleChoice,omitempty"`
	OptionIndex    *int       `json:"optionIndex,omitempty"`
	Reason         string     `json:"reason,omitempty"`
}

// Service applies engagement actions to stored entities.
type Service interface {
	// Apply loads the entity, applies the action and returns the updated
	// view. Errors from the state machines are propagated unchanged in kind.
	Apply(ctx context.Context, action Action, kind entities.Kind, id, actor string, p Payload) (*PostView, error)

	Get(ctx context.Context, kind entities.Kind, id, requestedBy string) (*PostView, error)
	List(ctx context.Context, kind entities.Kind, requestedBy string) ([]*PostView, error)
	PollTally(ctx context.Context, kind entities.Kind, id string) ([]TallyItem, error)
	Delete(ctx context.Context, kind entities.Kind, id, actor string) error
}

// Clock is injected so poll expiry is testable.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now ...
func (f ClockFunc) Now() time.Time { return f() }

// Authorizer answers moderator checks.
type Authorizer interface {
	IsModerator(actor string) bool
}

// AuthorizerFunc adapts a function to Authorizer.
type AuthorizerFunc func(actor string) bool

// IsModerator ...
func (f AuthorizerFunc) IsModerator(actor string) bool { return f(actor) }

// UserLookup resolves actor ids to public identity for views.
type UserLookup interface {
	DisplayName(ctx context.Context, actor string) string
	AvatarURL(ctx context.Context, actor string) string
}

// ActorView ...
type ActorView struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
}

// ReplyView ...
type ReplyView struct {
	ID         string    `json:"id"`
	Author     ActorView `json:"author"`
	Content    string    `json:"content"`
	CreatedAt  uint64    `json:"createdAt"`
	LikesCount int       `json:"likesCount"`
	Liked      bool      `json:"liked"`
}

// CommentView ...
type CommentView struct {
	ID         string      `json:"id"`
	Author     ActorView   `json:"author"`
	Content    string      `json:"content"`
	CreatedAt  uint64      `json:"createdAt"`
	LikesCount int         `json:"likesCount"`
	Liked      bool        `json:"liked"`
	IsAccepted bool        `json:"isAccepted"`
	Replies    []ReplyView `json:"replies"`
}

// OptionView ...
type OptionView struct {
	ID         string  `json:"id"`
	Text       string  `json:"text"`
	VotesCount int     `json:"votesCount"`
	Percentage float64 `json:"percentage"`
	Voted      bool    `json:"voted"`
}

// PollView ...
type PollView struct {
	Question       string       `json:"question"`
	Options        []OptionView `json:"options"`
	ExpiresAt      *uint64      `json:"expiresAt,omitempty"`
	MultipleChoice bool         `json:"multipleChoice"`
	TotalVotes     int          `json:"totalVotes"`
}

// TallyItem ...
type TallyItem struct {
	Text       string  `json:"text"`
	VotesCount int     `json:"votesCount"`
	Percentage float64 `json:"percentage"`
}

// PostView is the public projection of an entity: raw actor sets and the
// ratings map stay internal, only counts and the requesting actor's own
// state are exposed.
type PostView struct {
	ID        string        `json:"id"`
	Kind      entities.Kind `json:"kind"`
	Author    ActorView     `json:"author"`
	Title     string        `json:"title"`
	CreatedAt uint64        `json:"createdAt"`

	IsApproved bool `json:"isApproved"`
	IsPinned   bool `json:"isPinned"`

	LikesCount     int  `json:"likesCount"`
	Liked          bool `json:"liked"`
	FavoritesCount int  `json:"favoritesCount"`
	Favorited      bool `json:"favorited"`

	RatingMean  float64 `json:"ratingMean"`
	RatingCount int     `json:"ratingCount"`
	MyRating    int     `json:"myRating,omitempty"`

	Comments []CommentView `json:"comments"`
	Poll     *PollView     `json:"poll,omitempty"`

	ReportsCount int `json:"reportsCount"`
}
