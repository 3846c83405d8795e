package challenge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/challenge-hub/challenge-hub-bot/internal/domain/shared"
)

func TestNewSuggestion(t *testing.T) {
	s, err := NewSuggestion("Run 5k", "Fitness", 42)
	require.NoError(t, err)

	assert.Equal(t, "Run 5k", s.Text)
	assert.Equal(t, "Fitness", s.Category)
	assert.Equal(t, shared.UserID(42), s.SubmittedBy)
	assert.False(t, s.Approved)
	assert.Zero(t, s.ID)
}

func TestNewSuggestion_TrimsWhitespace(t *testing.T) {
	s, err := NewSuggestion("  Run 5k  ", "  Fitness ", 42)
	require.NoError(t, err)

	assert.Equal(t, "Run 5k", s.Text)
	assert.Equal(t, "Fitness", s.Category)
}

func TestNewSuggestion_EmptyText(t *testing.T) {
	_, err := NewSuggestion("", "Fitness", 42)
	assert.ErrorIs(t, err, shared.ErrEmptyValue)

	_, err = NewSuggestion("   ", "Fitness", 42)
	assert.ErrorIs(t, err, shared.ErrEmptyValue)
}

func TestNewSuggestion_EmptyCategoryDefaults(t *testing.T) {
	s, err := NewSuggestion("Run 5k", "", 42)
	require.NoError(t, err)
	assert.Equal(t, "General", s.Category)
}

func TestNewSuggestion_InvalidSubmitter(t *testing.T) {
	_, err := NewSuggestion("Run 5k", "Fitness", 0)
	assert.ErrorIs(t, err, shared.ErrInvalidID)
}

func TestRandomCategory(t *testing.T) {
	valid := make(map[string]bool, len(Categories))
	for _, c := range Categories {
		valid[c] = true
	}

	for i := 0; i < 50; i++ {
		assert.True(t, valid[RandomCategory()])
	}
}

func TestFromSuggestion(t *testing.T) {
	s, err := NewSuggestion("Run 5k", "Fitness", 42)
	require.NoError(t, err)

	c := FromSuggestion(s)
	assert.Equal(t, "Run 5k", c.Text)
	assert.Equal(t, "Fitness", c.Category)
	assert.Equal(t, SourceSuggestion, c.Source)
	assert.Equal(t, shared.UserID(42), c.SubmittedBy)
	assert.True(t, c.IsValid())
}

func TestGenerated(t *testing.T) {
	c := Generated(" Take a photo of a sunset ", "Photography")
	assert.Equal(t, "Take a photo of a sunset", c.Text)
	assert.Equal(t, SourceGenerated, c.Source)
	assert.Zero(t, c.SubmittedBy)
	assert.True(t, c.IsValid())
}

func TestChallengeIsValid(t *testing.T) {
	assert.False(t, Challenge{}.IsValid())
	assert.False(t, Generated("", "Fitness").IsValid())
	assert.False(t, Generated("Run", "").IsValid())
	assert.True(t, Generated("Run", "Fitness").IsValid())
}
