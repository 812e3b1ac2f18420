package events

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/retailpos/internal/model"
)

func dial(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.CloseNow() })

	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)
	return conn
}

func TestHub_PublishDelivers(t *testing.T) {
	hub := NewHub(nil, zerolog.Nop())
	at := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	hub.now = func() time.Time { return at }
	conn := dial(t, hub)

	hub.Publish(model.EventPaymentLogged, map[string]any{"amount": 1250})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	typ, data, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, websocket.MessageText, typ)

	var ev struct {
		Type string         `json:"type"`
		Data map[string]any `json:"data"`
		At   time.Time      `json:"at"`
	}
	require.NoError(t, json.Unmarshal(data, &ev))
	assert.Equal(t, model.EventPaymentLogged, ev.Type)
	assert.Equal(t, float64(1250), ev.Data["amount"])
	assert.True(t, at.Equal(ev.At))
}

func TestHub_ClientDisconnectRemoves(t *testing.T) {
	hub := NewHub(nil, zerolog.Nop())
	conn := dial(t, hub)

	conn.Close(websocket.StatusNormalClosure, "bye")
	assert.Eventually(t, func() bool { return hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub := NewHub(nil, zerolog.Nop())
	c := hub.add()

	for i := 0; i < clientBuffer+1; i++ {
		hub.Publish(model.EventInventoryUpdated, i)
	}

	assert.Zero(t, hub.Count())
	select {
	case <-c.done:
	default:
		t.Fatal("slow client was not signalled")
	}
}

func TestHub_PublishWithoutClients(t *testing.T) {
	hub := NewHub(nil, zerolog.Nop())
	assert.NotPanics(t, func() { hub.Publish(model.EventFolderChanged, nil) })
}
