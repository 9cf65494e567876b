package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, StatusDone.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCanceled.Terminal())
	assert.False(t, StatusDraft.Terminal())
	assert.False(t, StatusReady.Terminal())
	assert.False(t, StatusInTransit.Terminal())
}

func TestReceiptTransitions(t *testing.T) {
	tbl := ReceiptTransitions

	assert.True(t, tbl.Allowed(StatusDraft, StatusReady))
	assert.True(t, tbl.Allowed(StatusReady, StatusDone))
	assert.True(t, tbl.Allowed(StatusDraft, StatusCanceled))
	assert.True(t, tbl.Allowed(StatusReady, StatusCanceled))

	// No skipping steps, no leaving terminal states.
	assert.False(t, tbl.Allowed(StatusDraft, StatusDone))
	assert.False(t, tbl.Allowed(StatusDone, StatusReady))
	assert.False(t, tbl.Allowed(StatusDone, StatusCanceled))
	assert.False(t, tbl.Allowed(StatusCanceled, StatusDraft))
}

func TestDeliveryTransitions(t *testing.T) {
	tbl := DeliveryTransitions

	assert.True(t, tbl.Allowed(StatusDraft, StatusDone))
	assert.True(t, tbl.Allowed(StatusDraft, StatusCanceled))
	assert.False(t, tbl.Allowed(StatusDone, StatusCanceled))
	assert.False(t, tbl.Allowed(StatusCanceled, StatusDone))
}

func TestTransferTransitions(t *testing.T) {
	tbl := TransferTransitions

	assert.True(t, tbl.Allowed(StatusDraft, StatusInTransit))
	assert.True(t, tbl.Allowed(StatusDraft, StatusCompleted))
	assert.True(t, tbl.Allowed(StatusInTransit, StatusCompleted))
	assert.True(t, tbl.Allowed(StatusInTransit, StatusCanceled))

	assert.False(t, tbl.Allowed(StatusCompleted, StatusInTransit))
	assert.False(t, tbl.Allowed(StatusCompleted, StatusCanceled))
	assert.False(t, tbl.Allowed(StatusCanceled, StatusInTransit))
}

func TestTransitionSourcesMatchTable(t *testing.T) {
	sources := TransferTransitions.Sources(StatusCompleted)
	assert.ElementsMatch(t, []Status{StatusDraft, StatusInTransit}, sources)

	sources = ReceiptTransitions.Sources(StatusCanceled)
	assert.ElementsMatch(t, []Status{StatusDraft, StatusReady}, sources)

	sources = DeliveryTransitions.Sources(StatusDone)
	assert.ElementsMatch(t, []Status{StatusDraft}, sources)

	assert.Empty(t, ReceiptTransitions.Sources(StatusInTransit))
}
