package ws

import (
	"encoding/json"
	"testing"

	"trashcash_webapp/internal/domain"
	"trashcash_webapp/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, userID int64, buf int) *Client {
	return &Client{UserID: userID, Send: make(chan []byte, buf), Hub: hub}
}

func TestHub_PublishToUserOnly(t *testing.T) {
	hub := NewHub()
	a1 := newTestClient(hub, 1, 4)
	a2 := newTestClient(hub, 1, 4)
	b := newTestClient(hub, 2, 4)
	hub.Register(a1)
	hub.Register(a2)
	hub.Register(b)
	assert.Equal(t, 2, hub.Connections(1))

	hub.Publish(service.BalanceEvent{UserID: 1, Balance: 30, Transaction: &domain.Transaction{ID: 1, Type: domain.TxRecycling, Coins: 30}})

	for _, c := range []*Client{a1, a2} {
		require.Len(t, c.Send, 1)
		var msg map[string]any
		require.NoError(t, json.Unmarshal(<-c.Send, &msg))
		assert.Equal(t, MsgBalance, msg["type"])
		assert.EqualValues(t, 30, msg["balance"])
		assert.NotContains(t, msg, "UserID")
	}
	assert.Empty(t, b.Send)
}

func TestHub_FullBufferDrops(t *testing.T) {
	hub := NewHub()
	c := newTestClient(hub, 1, 1)
	hub.Register(c)

	hub.Publish(service.BalanceEvent{UserID: 1, Balance: 1})
	hub.Publish(service.BalanceEvent{UserID: 1, Balance: 2})
	assert.Len(t, c.Send, 1)
}

func TestHub_Unregister(t *testing.T) {
	hub := NewHub()
	c := newTestClient(hub, 1, 1)
	hub.Register(c)
	hub.Unregister(c)
	hub.Unregister(c) // second call is a no-op

	assert.Zero(t, hub.Connections(1))
	_, open := <-c.Send
	assert.False(t, open)

	// publishing to a user without connections is fine
	hub.Publish(service.BalanceEvent{UserID: 1})
}
