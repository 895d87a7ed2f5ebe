package events

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestBrokerFanOut(t *testing.T) {
	b := NewBroker[int]()
	a, cancelA := b.Subscribe(4)
	c, cancelC := b.Subscribe(4)
	defer cancelC()

	assert.Equal(t, 2, b.Publish(1))
	assert.Equal(t, 1, <-a)
	assert.Equal(t, 1, <-c)

	cancelA()
	cancelA()
	_, open := <-a
	assert.False(t, open)

	assert.Equal(t, 1, b.Publish(2))
	assert.Equal(t, 2, <-c)
}

func TestBrokerPublishNeverBlocks(t *testing.T) {
	b := NewBroker[string]()
	ch, cancel := b.Subscribe(1)
	defer cancel()

	assert.Equal(t, 1, b.Publish("first"))
	assert.Equal(t, 0, b.Publish("dropped"))
	assert.Equal(t, "first", <-ch)
}

func TestBrokerClose(t *testing.T) {
	b := NewBroker[int]()
	ch, cancel := b.Subscribe(1)
	b.Close()
	b.Close()
	cancel()

	_, open := <-ch
	assert.False(t, open)

	late, _ := b.Subscribe(1)
	_, open = <-late
	assert.False(t, open)
	assert.Equal(t, 0, b.Publish(1))
}

func TestPump(t *testing.T) {
	in := make(chan int, 3)
	in <- 1
	in <- 2
	in <- 3
	close(in)

	var got []int
	var failed []int
	Pump(context.Background(), in, func(_ context.Context, v int) error {
		got = append(got, v)
		if v == 2 {
			return assert.AnError
		}
		return nil
	}, func(v int, _ error) { failed = append(failed, v) })

	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Equal(t, []int{2}, failed)
}

func TestCatalogRoutingKey(t *testing.T) {
	assert.Equal(t, "catalog.product.created.v1", CatalogRoutingKey(ProductCreated))
	assert.Equal(t, "catalog.product.deleted.v1", CatalogRoutingKey(ProductDeleted))
	assert.Equal(t, "Created", titleKind(ProductCreated))
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(zap.NewNop())
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	broker := NewBroker[CatalogChange]()
	changes, unsubscribe := broker.Subscribe(4)
	done := make(chan struct{})
	go func() {
		hub.Run(ctx, changes)
		close(done)
	}()

	broker.Publish(CatalogChange{Kind: ProductCreated, ProductID: "p1"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var got CatalogChange
	require.NoError(t, json.Unmarshal(msg, &got))
	assert.Equal(t, ProductCreated, got.Kind)
	assert.Equal(t, "p1", got.ProductID)

	cancel()
	<-done
	unsubscribe()

	conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, time.Second, 10*time.Millisecond)
}
