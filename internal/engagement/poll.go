package engagement

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Jascfer/allonetoplulugu-sub000/internal/entities"
)

const (
	minPollOptions = 2
	maxPollOptions = 10

	maxPollQuestionLen = 200
	maxPollOptionLen   = 100
)

// CreatePoll attaches a poll to p. A post carries at most one poll for its
// whole lifetime and only the post author may create it.
func CreatePoll(p *entities.Post, actor, question string, options []string, expiresAt *time.Time, multipleChoice bool, now time.Time) error {
	if p.Poll != nil {
		return fmt.Errorf("%w: post already has a poll", ErrConflict)
	}

	if actor != p.Author {
		return fmt.Errorf("%w: only the post author creates polls", ErrForbidden)
	}

	if strings.TrimSpace(question) == "" {
		return fmt.Errorf("%w: question is empty", ErrValidation)
	}
	if len([]rune(question)) > maxPollQuestionLen {
		return fmt.Errorf("%w: question exceeds %d characters", ErrValidation, maxPollQuestionLen)
	}

	if len(options) < minPollOptions || len(options) > maxPollOptions {
		return fmt.Errorf("%w: polls take %d to %d options", ErrValidation, minPollOptions, maxPollOptions)
	}

	opts := make([]entities.Option, len(options))
	for i, text := range options {
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("%w: option %d is empty", ErrValidation, i)
		}
		if len([]rune(text)) > maxPollOptionLen {
			return fmt.Errorf("%w: option %d exceeds %d characters", ErrValidation, i, maxPollOptionLen)
		}

		opts[i] = entities.Option{
			ID:    uuid.NewString(),
			Text:  text,
			Votes: entities.ActorSet{},
		}
	}

	p.Poll = &entities.Poll{
		Question:       question,
		Options:        opts,
		ExpiresAt:      expiresAt,
		MultipleChoice: multipleChoice,
		CreatedAt:      now,
	}

	return nil
}

// VotePoll records actor's vote for the option at optionIndex and reports
// whether the actor holds a vote on that option afterwards.
//
// Single-choice: the actor's vote is first removed from every other option,
// so re-voting moves the vote instead of duplicating it. Multiple-choice:
// each option toggles independently.
func VotePoll(p *entities.Post, actor string, optionIndex int, now time.Time) (bool, error) {
	if p.Poll == nil {
		return false, fmt.Errorf("%w: post has no poll", ErrNotFound)
	}

	if optionIndex < 0 || optionIndex >= len(p.Poll.Options) {
		return false, fmt.Errorf("%w: option index %d", ErrNotFound, optionIndex)
	}

	if p.Poll.ExpiresAt != nil && now.After(*p.Poll.ExpiresAt) {
		return false, fmt.Errorf("%w: poll closed at %s", ErrExpired, p.Poll.ExpiresAt.Format(time.RFC3339))
	}

	target := &p.Poll.Options[optionIndex]

	if p.Poll.MultipleChoice {
		var voted bool
		target.Votes, voted = Toggle(target.Votes, actor)

		return voted, nil
	}

	for i := range p.Poll.Options {
		if i == optionIndex {
			continue
		}
		if p.Poll.Options[i].Votes.Contains(actor) {
			p.Poll.Options[i].Votes, _ = Toggle(p.Poll.Options[i].Votes, actor)
		}
	}

	if !target.Votes.Contains(actor) {
		target.Votes, _ = Toggle(target.Votes, actor)
	}

	return true, nil
}

// OptionTally is the vote count and share of a single option.
type OptionTally struct {
	Votes      int
	Percentage float64
}

// Tally counts votes per option. Percentages are zero when nobody voted.
func Tally(poll *entities.Poll) []OptionTally {
	out := make([]OptionTally, len(poll.Options))

	total := 0
	for i, o := range poll.Options {
		out[i].Votes = len(o.Votes)
		total += len(o.Votes)
	}

	if total == 0 {
		return out
	}

	for i := range out {
		out[i].Percentage = float64(out[i].Votes) / float64(total) * 100
	}

	return out
}
