package engagement

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jascfer/allonetoplulugu-sub000/internal/entities"
)

func TestTogglePin(t *testing.T) {
	p := &entities.Post{ID: "1", Kind: entities.KindPost, Author: "owner"}

	pinned, err := TogglePin(p, true)
	require.NoError(t, err)
	assert.True(t, pinned)
	assert.True(t, p.IsPinned)

	pinned, err = TogglePin(p, true)
	require.NoError(t, err)
	assert.False(t, pinned)
	assert.False(t, p.IsPinned)
}

func TestTogglePin_Forbidden(t *testing.T) {
	p := &entities.Post{ID: "1", Kind: entities.KindPost, Author: "owner"}

	_, err := TogglePin(p, false)
	require.True(t, errors.Is(err, ErrForbidden))
	assert.False(t, p.IsPinned)
}

func TestReport(t *testing.T) {
	p := &entities.Post{ID: "1", Kind: entities.KindPost, Author: "owner"}

	require.NoError(t, Report(p, "dave", "spam", ts))
	require.NoError(t, Report(p, "dave", "spam", ts))

	// duplicates from the same reporter are kept
	require.Len(t, p.Reports, 2)
	assert.Equal(t, "dave", p.Reports[0].Reporter)
	assert.Equal(t, "spam", p.Reports[0].Reason)
	assert.Equal(t, ts, p.Reports[0].ReportedAt)
}

func TestReport_EmptyReason(t *testing.T) {
	p := &entities.Post{ID: "1", Kind: entities.KindPost, Author: "owner"}

	require.True(t, errors.Is(Report(p, "dave", "  ", ts), ErrValidation))
	assert.Empty(t, p.Reports)
}

func TestCanModerate(t *testing.T) {
	p := &entities.Post{ID: "1", Kind: entities.KindPost, Author: "owner"}

	assert.True(t, CanModerate(p, "owner", false))
	assert.True(t, CanModerate(p, "stranger", true))
	assert.False(t, CanModerate(p, "stranger", false))
}
