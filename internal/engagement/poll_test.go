package engagement

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jascfer/allonetoplulugu-sub000/internal/entities"
)

func newPoll(t *testing.T, options []string, multipleChoice bool, expiresAt *time.Time) *entities.Post {
	t.Helper()

	p := &entities.Post{ID: "1", Kind: entities.KindQuestion, Author: "owner"}
	require.NoError(t, CreatePoll(p, "owner", "Pick one", options, expiresAt, multipleChoice, ts))

	return p
}

func TestCreatePoll(t *testing.T) {
	p := newPoll(t, []string{"A", "B"}, false, nil)

	require.NotNil(t, p.Poll)
	assert.Equal(t, "Pick one", p.Poll.Question)
	require.Len(t, p.Poll.Options, 2)
	assert.Equal(t, "A", p.Poll.Options[0].Text)
	assert.Equal(t, "B", p.Poll.Options[1].Text)
	assert.NotEqual(t, p.Poll.Options[0].ID, p.Poll.Options[1].ID)
	assert.Empty(t, p.Poll.Options[0].Votes)
	assert.Empty(t, p.Poll.Options[1].Votes)
	assert.False(t, p.Poll.MultipleChoice)
	assert.Nil(t, p.Poll.ExpiresAt)
}

func TestCreatePoll_Errors(t *testing.T) {
	tt := []struct {
		name     string
		actor    string
		question string
		options  []string

		err error
	}{
		{
			name:     "not author",
			actor:    "alice",
			question: "q",
			options:  []string{"A", "B"},
			err:      ErrForbidden,
		},
		{
			name:     "empty question",
			actor:    "owner",
			question: " ",
			options:  []string{"A", "B"},
			err:      ErrValidation,
		},
		{
			name:     "question too long",
			actor:    "owner",
			question: strings.Repeat("q", 201),
			options:  []string{"A", "B"},
			err:      ErrValidation,
		},
		{
			name:     "one option",
			actor:    "owner",
			question: "q",
			options:  []string{"A"},
			err:      ErrValidation,
		},
		{
			name:     "eleven options",
			actor:    "owner",
			question: "q",
			options:  []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11"},
			err:      ErrValidation,
		},
		{
			name:     "empty option",
			actor:    "owner",
			question: "q",
			options:  []string{"A", " "},
			err:      ErrValidation,
		},
		{
			name:     "option too long",
			actor:    "owner",
			question: "q",
			options:  []string{"A", strings.Repeat("o", 101)},
			err:      ErrValidation,
		},
	}

	for i := range tt {
		tc := tt[i]

		t.Run(tc.name, func(t *testing.T) {
			p := &entities.Post{ID: "1", Kind: entities.KindQuestion, Author: "owner"}

			err := CreatePoll(p, tc.actor, tc.question, tc.options, nil, false, ts)
			require.True(t, errors.Is(err, tc.err))
			assert.Nil(t, p.Poll)
		})
	}
}

func TestCreatePoll_Conflict(t *testing.T) {
	p := newPoll(t, []string{"A", "B"}, false, nil)

	err := CreatePoll(p, "owner", "Another", []string{"C", "D"}, nil, false, ts)
	require.True(t, errors.Is(err, ErrConflict))
	assert.Equal(t, "Pick one", p.Poll.Question)
}

func TestVotePoll_SingleChoice(t *testing.T) {
	p := newPoll(t, []string{"A", "B"}, false, nil)

	voted, err := VotePoll(p, "alice", 0, ts)
	require.NoError(t, err)
	assert.True(t, voted)
	assert.Equal(t, entities.ActorSet{"alice"}, p.Poll.Options[0].Votes)

	// re-voting moves the vote, it never lives in two options
	voted, err = VotePoll(p, "alice", 1, ts)
	require.NoError(t, err)
	assert.True(t, voted)
	assert.Empty(t, p.Poll.Options[0].Votes)
	assert.Equal(t, entities.ActorSet{"alice"}, p.Poll.Options[1].Votes)

	// voting the held option again keeps the vote in place
	voted, err = VotePoll(p, "alice", 1, ts)
	require.NoError(t, err)
	assert.True(t, voted)
	assert.Equal(t, entities.ActorSet{"alice"}, p.Poll.Options[1].Votes)
}

func TestVotePoll_MultipleChoice(t *testing.T) {
	p := newPoll(t, []string{"A", "B", "C"}, true, nil)

	for _, i := range []int{0, 2} {
		voted, err := VotePoll(p, "alice", i, ts)
		require.NoError(t, err)
		assert.True(t, voted)
	}

	assert.Equal(t, entities.ActorSet{"alice"}, p.Poll.Options[0].Votes)
	assert.Empty(t, p.Poll.Options[1].Votes)
	assert.Equal(t, entities.ActorSet{"alice"}, p.Poll.Options[2].Votes)

	// voting the same option again toggles it off, other options are untouched
	voted, err := VotePoll(p, "alice", 2, ts)
	require.NoError(t, err)
	assert.False(t, voted)
	assert.Equal(t, entities.ActorSet{"alice"}, p.Poll.Options[0].Votes)
	assert.Empty(t, p.Poll.Options[2].Votes)
}

func TestVotePoll_Errors(t *testing.T) {
	t.Run("no poll", func(t *testing.T) {
		p := &entities.Post{ID: "1", Kind: entities.KindQuestion, Author: "owner"}

		_, err := VotePoll(p, "alice", 0, ts)
		require.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("option out of range", func(t *testing.T) {
		p := newPoll(t, []string{"A", "B"}, false, nil)

		for _, i := range []int{-1, 2, 10} {
			_, err := VotePoll(p, "alice", i, ts)
			require.True(t, errors.Is(err, ErrNotFound), "index %d", i)
		}
	})

	t.Run("expired", func(t *testing.T) {
		expiresAt := ts.Add(time.Hour)
		p := newPoll(t, []string{"A", "B"}, false, &expiresAt)

		voted, err := VotePoll(p, "alice", 0, ts)
		require.NoError(t, err)
		assert.True(t, voted)

		_, err = VotePoll(p, "bob", 0, ts.Add(2*time.Hour))
		require.True(t, errors.Is(err, ErrExpired))

		_, err = VotePoll(p, "alice", 1, ts.Add(2*time.Hour))
		require.True(t, errors.Is(err, ErrExpired))
		assert.Equal(t, entities.ActorSet{"alice"}, p.Poll.Options[0].Votes)
	})
}

func TestTally(t *testing.T) {
	p := newPoll(t, []string{"A", "B", "C"}, true, nil)

	for _, actor := range []string{"alice", "bob", "carol"} {
		_, err := VotePoll(p, actor, 0, ts)
		require.NoError(t, err)
	}
	_, err := VotePoll(p, "alice", 1, ts)
	require.NoError(t, err)

	tally := Tally(p.Poll)
	require.Len(t, tally, 3)
	assert.Equal(t, 3, tally[0].Votes)
	assert.InDelta(t, 75, tally[0].Percentage, 1e-9)
	assert.Equal(t, 1, tally[1].Votes)
	assert.InDelta(t, 25, tally[1].Percentage, 1e-9)
	assert.Zero(t, tally[2].Votes)
	assert.Zero(t, tally[2].Percentage)
}

func TestTally_NoVotes(t *testing.T) {
	p := newPoll(t, []string{"A", "B"}, false, nil)

	tally := Tally(p.Poll)
	require.Len(t, tally, 2)
	for _, v := range tally {
		assert.Zero(t, v.Votes)
		assert.Zero(t, v.Percentage)
	}
}
