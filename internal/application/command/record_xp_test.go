package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/challenge-hub/challenge-hub-bot/internal/domain/shared"
)

func TestRecordXPCreatesRecordOnFirstGrant(t *testing.T) {
	repo := newMemProgressRepo()
	pub := &capturingPublisher{}
	h := NewRecordXPHandler(repo, pub)

	res, err := h.Handle(context.Background(), RecordXPCommand{UserID: 42, Amount: 25})
	require.NoError(t, err)
	assert.Equal(t, int64(25), res.TotalXP)

	res, err = h.Handle(context.Background(), RecordXPCommand{UserID: 42, Amount: 5, Source: "bonus"})
	require.NoError(t, err)
	assert.Equal(t, int64(30), res.TotalXP)

	events := pub.byType(shared.EventXPGained)
	require.Len(t, events, 2)
	assert.Equal(t, XPSourceManual, events[0].(shared.XPGainedEvent).Source)
	assert.Equal(t, "bonus", events[1].(shared.XPGainedEvent).Source)
}

func TestRecordXPZeroAmountIsNoEventNoop(t *testing.T) {
	repo := newMemProgressRepo()
	pub := &capturingPublisher{}
	h := NewRecordXPHandler(repo, pub)

	res, err := h.Handle(context.Background(), RecordXPCommand{UserID: 42, Amount: 0})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.TotalXP)
	assert.Empty(t, pub.events)
}

func TestRecordXPRejectsNegativeAmount(t *testing.T) {
	h := NewRecordXPHandler(newMemProgressRepo(), nil)

	_, err := h.Handle(context.Background(), RecordXPCommand{UserID: 42, Amount: -1})
	assert.Error(t, err)
}
