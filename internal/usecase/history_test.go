package usecase

import (
	"context"
	"testing"

	"trainbooking/internal/domain/inbox"
	"trainbooking/internal/domain/outbox"
	"trainbooking/internal/domain/ticket"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type outboxListerMock struct {
	Events map[string][]*outbox.Event
}

func (m *outboxListerMock) ListByCorrelationID(ctx context.Context, correlationID string) ([]*outbox.Event, error) {
	return m.Events[correlationID], nil
}

type inboxListerMock struct {
	Events map[string][]*inbox.Event
}

func (m *inboxListerMock) ListByCorrelationID(ctx context.Context, correlationID string) ([]*inbox.Event, error) {
	return m.Events[correlationID], nil
}

func TestGetHistory_CollectsFeedForTicket(t *testing.T) {
	repo := newRecordingRepo()
	repo.seed(kirithiTicket())

	outboxRepo := &outboxListerMock{Events: map[string][]*outbox.Event{
		"1": {{ID: "e1", EventType: "TicketSaved", CorrelationID: "1"}},
	}}
	inboxRepo := &inboxListerMock{Events: map[string][]*inbox.Event{
		"1": {{Consumer: "ticket-audit", EventID: "e1", CorrelationID: "1"}},
	}}

	history, err := NewGetHistory(repo, outboxRepo, inboxRepo).Execute(context.Background(), 1)
	require.NoError(t, err)

	require.NotNil(t, history.Ticket)
	assert.Equal(t, int64(1), history.Ticket.ID)
	assert.Len(t, history.Outbox, 1)
	assert.Len(t, history.Inbox, 1)
}

func TestGetHistory_DeletedTicketKeepsFeed(t *testing.T) {
	outboxRepo := &outboxListerMock{Events: map[string][]*outbox.Event{
		"7": {
			{ID: "e1", EventType: "TicketSaved", CorrelationID: "7"},
			{ID: "e2", EventType: "TicketDeleted", CorrelationID: "7"},
		},
	}}

	history, err := NewGetHistory(newRecordingRepo(), outboxRepo, &inboxListerMock{}).Execute(context.Background(), 7)
	require.NoError(t, err)

	assert.Nil(t, history.Ticket)
	assert.Len(t, history.Outbox, 2)
	assert.NotNil(t, history.Inbox)
}

func TestGetHistory_UnknownTicket(t *testing.T) {
	_, err := NewGetHistory(newRecordingRepo(), &outboxListerMock{}, &inboxListerMock{}).Execute(context.Background(), 5)
	assert.ErrorIs(t, err, ticket.ErrNotFound)
}
