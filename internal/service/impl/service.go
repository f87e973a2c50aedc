// Package impl is implementation of service interface.
package impl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Jascfer/allonetoplulugu-sub000/internal/engagement"
	"github.com/Jascfer/allonetoplulugu-sub000/internal/entities"
	"github.com/Jascfer/allonetoplulugu-sub000/internal/service"
	"github.com/Jascfer/allonetoplulugu-sub000/internal/storage"
)

const (
	maxCommentLen = 500
	maxAnswerLen  = 1000
	maxReplyLen   = 1000
)

type srv struct {
	s     storage.Storage
	users service.UserLookup
	clock service.Clock
	auth  service.Authorizer
}

// New creates new instance of service.
func New(s storage.Storage, users service.UserLookup, clock service.Clock, auth service.Authorizer) service.Service {
	return srv{
		s:     s,
		users: users,
		clock: clock,
		auth:  auth,
	}
}

func (s srv) Apply(ctx context.Context, action service.Action, kind entities.Kind, id, actor string, payload service.Payload) (*service.PostView, error) {
	if actor == "" {
		return nil, fmt.Errorf("%w: actor is required", engagement.ErrValidation)
	}

	if err := validatePayload(action, payload); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	moderator := s.auth.IsModerator(actor)

	p, err := s.s.UpdatePost(ctx, kind, id, func(p *entities.Post) error {
		return dispatch(p, action, actor, payload, moderator, now)
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s/%s", engagement.ErrNotFound, kind, id)
		}

		return nil, fmt.Errorf("failed to apply %s: %w", action, err)
	}

	return s.toPostView(ctx, p, actor), nil
}

func (s srv) Get(ctx context.Context, kind entities.Kind, id, requestedBy string) (*service.PostView, error) {
	p, err := s.s.GetPost(ctx, kind, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s/%s", engagement.ErrNotFound, kind, id)
		}

		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return s.toPostView(ctx, p, requestedBy), nil
}

func (s srv) List(ctx context.Context, kind entities.Kind, requestedBy string) ([]*service.PostView, error) {
	posts, err := s.s.ListPosts(ctx, storage.NewListPostsParams(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	out := make([]*service.PostView, len(posts))
	for i, p := range posts {
		out[i] = s.toPostView(ctx, p, requestedBy)
	}

	return out, nil
}

func (s srv) PollTally(ctx context.Context, kind entities.Kind, id string) ([]service.TallyItem, error) {
	p, err := s.s.GetPost(ctx, kind, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s/%s", engagement.ErrNotFound, kind, id)
		}

		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	if p.Poll == nil {
		return nil, fmt.Errorf("%w: post has no poll", engagement.ErrNotFound)
	}

	tally := engagement.Tally(p.Poll)

	out := make([]service.TallyItem, len(tally))
	for i, v := range tally {
		out[i] = service.TallyItem{
			Text:       p.Poll.Options[i].Text,
			VotesCount: v.Votes,
			Percentage: v.Percentage,
		}
	}

	return out, nil
}

func (s srv) Delete(ctx context.Context, kind entities.Kind, id, actor string) error {
	if actor == "" {
		return fmt.Errorf("%w: actor is required", engagement.ErrValidation)
	}

	p, err := s.s.GetPost(ctx, kind, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: %s/%s", engagement.ErrNotFound, kind, id)
		}

		return fmt.Errorf("failed to get post: %w", err)
	}

	if !engagement.CanModerate(p, actor, s.auth.IsModerator(actor)) {
		return fmt.Errorf("%w: only the author or a moderator deletes posts", engagement.ErrForbidden)
	}

	if err := s.s.DeletePost(ctx, kind, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: %s/%s", engagement.ErrNotFound, kind, id)
		}

		return fmt.Errorf("failed to delete post: %w", err)
	}

	return nil
}

// validatePayload checks action-specific required fields, so the state
// machines never see a half-filled payload.
func validatePayload(action service.Action, p service.Payload) error {
	switch action {
	case service.ActionAddReply, service.ActionToggleCommentLike:
		if p.CommentID == "" {
			return fmt.Errorf("%w: commentId is required", engagement.ErrValidation)
		}
	case service.ActionToggleReplyLike:
		if p.CommentID == "" {
			return fmt.Errorf("%w: commentId is required", engagement.ErrValidation)
		}
		if p.ReplyID == "" {
			return fmt.Errorf("%w: replyId is required", engagement.ErrValidation)
		}
	case service.ActionAcceptAnswer:
		if p.AnswerID == "" {
			return fmt.Errorf("%w: answerId is required", engagement.ErrValidation)
		}
	case service.ActionVotePoll:
		if p.OptionIndex == nil {
			return fmt.Errorf("%w: optionIndex is required", engagement.ErrValidation)
		}
	}

	return nil
}

func dispatch(p *entities.Post, action service.Action, actor string, payload service.Payload, moderator bool, now time.Time) error {
	switch action {
	case service.ActionToggleLike:
		p.Likes, _ = engagement.Toggle(p.Likes, actor)
		return nil
	case service.ActionToggleFavorite:
		p.Favorites, _ = engagement.Toggle(p.Favorites, actor)
		return nil
	case service.ActionAddComment:
		_, err := engagement.AddComment(p, actor, payload.Content, commentLimit(p.Kind), now)
		return err
	case service.ActionAddReply:
		_, err := engagement.AddReply(p, payload.CommentID, actor, payload.Content, maxReplyLen, now)
		return err
	case service.ActionToggleCommentLike:
		_, err := engagement.ToggleCommentLike(p, payload.CommentID, actor)
		return err
	case service.ActionToggleReplyLike:
		_, err := engagement.ToggleReplyLike(p, payload.CommentID, payload.ReplyID, actor)
		return err
	case service.ActionAcceptAnswer:
		return engagement.AcceptAnswer(p, payload.AnswerID, moderator)
	case service.ActionCreatePoll:
		return engagement.CreatePoll(p, actor, payload.Question, payload.Options, payload.ExpiresAt, payload.MultipleChoice, now)
	case service.ActionVotePoll:
		_, err := engagement.VotePoll(p, actor, *payload.OptionIndex, now)
		return err
	case service.ActionTogglePin:
		_, err := engagement.TogglePin(p, moderator)
		return err
	case service.ActionReport:
		return engagement.Report(p, actor, payload.Reason, now)
	case service.ActionRate:
		return engagement.Rate(p, actor, payload.Rating)
	default:
		return fmt.Errorf("%w: unknown action %q", engagement.ErrValidation, action)
	}
}

// daily-question answers allow longer content than note and post comments
func commentLimit(kind entities.Kind) int {
	if kind == entities.KindQuestion {
		return maxAnswerLen
	}

	return maxCommentLen
}

func (s srv) actorView(ctx context.Context, id string) service.ActorView {
	return service.ActorView{
		ID:          id,
		DisplayName: s.users.DisplayName(ctx, id),
		AvatarURL:   s.users.AvatarURL(ctx, id),
	}
}

func (s srv) toPostView(ctx context.Context, p *entities.Post, requestedBy string) *service.PostView {
	out := &service.PostView{
		ID:             p.ID,
		Kind:           p.Kind,
		Author:         s.actorView(ctx, p.Author),
		Title:          p.Title,
		CreatedAt:      uint64(p.CreatedAt.Unix()),
		IsApproved:     p.IsApproved,
		IsPinned:       p.IsPinned,
		LikesCount:     len(p.Likes),
		FavoritesCount: len(p.Favorites),
		RatingMean:     p.RatingMean,
		RatingCount:    p.RatingCount,
		ReportsCount:   len(p.Reports),
		Comments:       make([]service.CommentView, len(p.Comments)),
	}

	if requestedBy != "" {
		out.Liked = p.Likes.Contains(requestedBy)
		out.Favorited = p.Favorites.Contains(requestedBy)
		out.MyRating = p.Ratings[requestedBy]
	}

	for i, c := range p.Comments {
		cv := service.CommentView{
			ID:         c.ID,
			Author:     s.actorView(ctx, c.Author),
			Content:    c.Content,
			CreatedAt:  uint64(c.CreatedAt.Unix()),
			LikesCount: len(c.Likes),
			Liked:      requestedBy != "" && c.Likes.Contains(requestedBy),
			IsAccepted: c.IsAccepted,
			Replies:    make([]service.ReplyView, len(c.Replies)),
		}

		for j, r := range c.Replies {
			cv.Replies[j] = service.ReplyView{
				ID:         r.ID,
				Author:     s.actorView(ctx, r.Author),
				Content:    r.Content,
				CreatedAt:  uint64(r.CreatedAt.Unix()),
				LikesCount: len(r.Likes),
				Liked:      requestedBy != "" && r.Likes.Contains(requestedBy),
			}
		}

		out.Comments[i] = cv
	}

	if p.Poll != nil {
		tally := engagement.Tally(p.Poll)

		pv := &service.PollView{
			Question:       p.Poll.Question,
			MultipleChoice: p.Poll.MultipleChoice,
			Options:        make([]service.OptionView, len(p.Poll.Options)),
		}

		if p.Poll.ExpiresAt != nil {
			v := uint64(p.Poll.ExpiresAt.Unix())
			pv.ExpiresAt = &v
		}

		for i, o := range p.Poll.Options {
			pv.TotalVotes += len(o.Votes)
			pv.Options[i] = service.OptionView{
				ID:         o.ID,
				Text:       o.Text,
				VotesCount: tally[i].Votes,
				Percentage: tally[i].Percentage,
				Voted:      requestedBy != "" && o.Votes.Contains(requestedBy),
			}
		}

		out.Poll = pv
	}

	return out
}
