package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/challenge-hub/challenge-hub-bot/internal/domain/shared"
)

func TestSubmitSuggestionStoresAndPublishes(t *testing.T) {
	repo := newMemSuggestionRepo()
	pub := &capturingPublisher{}
	h := NewSubmitSuggestionHandler(repo, configuredRouting(), pub)

	res, err := h.Handle(context.Background(), SubmitSuggestionCommand{
		UserID:   42,
		Text:     "  Пробеги 5 км  ",
		Category: "Fitness",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.SuggestionID)
	assert.Equal(t, "Пробеги 5 км", res.Text)

	stored, err := repo.GetByID(context.Background(), res.SuggestionID)
	require.NoError(t, err)
	assert.False(t, stored.Approved)

	events := pub.byType(shared.EventSuggestionSubmitted)
	require.Len(t, events, 1)
	assert.Equal(t, int64(42), events[0].(shared.SuggestionSubmittedEvent).SubmittedBy)
}

func TestSubmitSuggestionDefaultsCategory(t *testing.T) {
	h := NewSubmitSuggestionHandler(newMemSuggestionRepo(), configuredRouting(), nil)

	res, err := h.Handle(context.Background(), SubmitSuggestionCommand{UserID: 1, Text: "Сделай фото"})
	require.NoError(t, err)
	assert.Equal(t, "General", res.Category)
}

func TestSubmitSuggestionRejectedWithoutSetup(t *testing.T) {
	h := NewSubmitSuggestionHandler(newMemSuggestionRepo(), &memRoutingRepo{}, nil)

	_, err := h.Handle(context.Background(), SubmitSuggestionCommand{UserID: 1, Text: "text"})
	assert.ErrorIs(t, err, shared.ErrChannelsNotConfigured)
}

func TestSubmitSuggestionRejectsEmptyText(t *testing.T) {
	h := NewSubmitSuggestionHandler(newMemSuggestionRepo(), configuredRouting(), nil)

	_, err := h.Handle(context.Background(), SubmitSuggestionCommand{UserID: 1, Text: ""})
	assert.Error(t, err)
}

func TestApproveSuggestion(t *testing.T) {
	repo := newMemSuggestionRepo()
	pub := &capturingPublisher{}

	submit := NewSubmitSuggestionHandler(repo, configuredRouting(), nil)
	submitted, err := submit.Handle(context.Background(), SubmitSuggestionCommand{UserID: 42, Text: "Нарисуй закат", Category: "Art"})
	require.NoError(t, err)

	h := NewApproveSuggestionHandler(repo, pub)
	res, err := h.Handle(context.Background(), ApproveSuggestionCommand{SuggestionID: submitted.SuggestionID, ApprovedBy: 1})
	require.NoError(t, err)
	assert.False(t, res.AlreadyApproved)
	assert.Equal(t, "Нарисуй закат", res.Text)

	stored, err := repo.GetByID(context.Background(), submitted.SuggestionID)
	require.NoError(t, err)
	assert.True(t, stored.Approved)

	events := pub.byType(shared.EventSuggestionApproved)
	require.Len(t, events, 1)
	assert.Equal(t, int64(1), events[0].(shared.SuggestionApprovedEvent).ApprovedBy)
}

func TestApproveSuggestionIdempotent(t *testing.T) {
	repo := newMemSuggestionRepo()
	pub := &capturingPublisher{}

	submit := NewSubmitSuggestionHandler(repo, configuredRouting(), nil)
	submitted, err := submit.Handle(context.Background(), SubmitSuggestionCommand{UserID: 42, Text: "text"})
	require.NoError(t, err)

	h := NewApproveSuggestionHandler(repo, pub)
	_, err = h.Handle(context.Background(), ApproveSuggestionCommand{SuggestionID: submitted.SuggestionID, ApprovedBy: 1})
	require.NoError(t, err)

	res, err := h.Handle(context.Background(), ApproveSuggestionCommand{SuggestionID: submitted.SuggestionID, ApprovedBy: 1})
	require.NoError(t, err)
	assert.True(t, res.AlreadyApproved)

	// Re-approving does not emit a second event.
	assert.Len(t, pub.byType(shared.EventSuggestionApproved), 1)
}

func TestApproveSuggestionUnknownID(t *testing.T) {
	h := NewApproveSuggestionHandler(newMemSuggestionRepo(), nil)

	_, err := h.Handle(context.Background(), ApproveSuggestionCommand{SuggestionID: 999, ApprovedBy: 1})
	assert.ErrorIs(t, err, shared.ErrSuggestionNotFound)
}

func TestSetupChannels(t *testing.T) {
	repo := &memRoutingRepo{}
	pub := &capturingPublisher{}
	h := NewSetupChannelsHandler(repo, pub)

	res, err := h.Handle(context.Background(), SetupChannelsCommand{
		ChallengeChannelID:  -100100,
		ResponseChannelID:   -100200,
		SuggestionChannelID: -100300,
		ConfiguredBy:        1,
	})
	require.NoError(t, err)
	assert.True(t, res.Config.IsComplete())

	loaded, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(-100100), loaded.ChallengeChannel.Int64())

	require.Len(t, pub.byType(shared.EventChannelsConfigured), 1)
}

func TestSetupChannelsRejectsZeroChannel(t *testing.T) {
	h := NewSetupChannelsHandler(&memRoutingRepo{}, nil)

	_, err := h.Handle(context.Background(), SetupChannelsCommand{
		ChallengeChannelID: 0,
		ConfiguredBy:       1,
	})
	assert.ErrorIs(t, err, shared.ErrInvalidChannelID)
}
