package engagement

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Jascfer/allonetoplulugu-sub000/internal/entities"
)

// AddComment appends a new comment to the end of p.Comments. The content
// limit is a parameter because it differs per entity kind.
func AddComment(p *entities.Post, author, content string, maxLen int, now time.Time) (*entities.Comment, error) {
	if err := validateContent(content, maxLen); err != nil {
		return nil, err
	}

	p.Comments = append(p.Comments, entities.Comment{
		ID:        uuid.NewString(),
		Author:    author,
		Content:   content,
		CreatedAt: now,
		Likes:     entities.ActorSet{},
		Replies:   []entities.Reply{},
	})

	return &p.Comments[len(p.Comments)-1], nil
}

// AddReply appends a new reply under the comment with the given id. Replies
// can not have replies of their own.
func AddReply(p *entities.Post, commentID, author, content string, maxLen int, now time.Time) (*entities.Reply, error) {
	if err := validateContent(content, maxLen); err != nil {
		return nil, err
	}

	c := findComment(p, commentID)
	if c == nil {
		return nil, fmt.Errorf("%w: comment %s", ErrNotFound, commentID)
	}

	c.Replies = append(c.Replies, entities.Reply{
		ID:        uuid.NewString(),
		Author:    author,
		Content:   content,
		CreatedAt: now,
		Likes:     entities.ActorSet{},
	})

	return &c.Replies[len(c.Replies)-1], nil
}

// ToggleCommentLike flips actor's like on the comment with the given id.
func ToggleCommentLike(p *entities.Post, commentID, actor string) (bool, error) {
	c := findComment(p, commentID)
	if c == nil {
		return false, fmt.Errorf("%w: comment %s", ErrNotFound, commentID)
	}

	var liked bool
	c.Likes, liked = Toggle(c.Likes, actor)

	return liked, nil
}

// ToggleReplyLike flips actor's like on the reply with the given id within
// the given comment.
func ToggleReplyLike(p *entities.Post, commentID, replyID, actor string) (bool, error) {
	c := findComment(p, commentID)
	if c == nil {
		return false, fmt.Errorf("%w: comment %s", ErrNotFound, commentID)
	}

	for i := range c.Replies {
		if c.Replies[i].ID == replyID {
			var liked bool
			c.Replies[i].Likes, liked = Toggle(c.Replies[i].Likes, actor)

			return liked, nil
		}
	}

	return false, fmt.Errorf("%w: reply %s", ErrNotFound, replyID)
}

// AcceptAnswer marks the answer with the given id accepted and clears the
// flag on every sibling, keeping at most one accepted answer per question.
// Only a moderator may accept answers.
func AcceptAnswer(p *entities.Post, answerID string, moderator bool) error {
	if !moderator {
		return fmt.Errorf("%w: only moderators accept answers", ErrForbidden)
	}

	if findComment(p, answerID) == nil {
		return fmt.Errorf("%w: answer %s", ErrNotFound, answerID)
	}

	for i := range p.Comments {
		p.Comments[i].IsAccepted = p.Comments[i].ID == answerID
	}

	return nil
}

func findComment(p *entities.Post, id string) *entities.Comment {
	for i := range p.Comments {
		if p.Comments[i].ID == id {
			return &p.Comments[i]
		}
	}

	return nil
}

func validateContent(content string, maxLen int) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: content is empty", ErrValidation)
	}

	if len([]rune(content)) > maxLen {
		return fmt.Errorf("%w: content exceeds %d characters", ErrValidation, maxLen)
	}

	return nil
}
