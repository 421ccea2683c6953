package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHandleDelivery(t *testing.T) {
	sent := Notification{
		Kind:       KindEventStatusChanged,
		SubjectID:  "a1",
		ActorID:    "u1",
		Status:     "approved",
		Title:      "Street party",
		OccurredAt: time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	body, err := json.Marshal(sent)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"subjectId":"a1"`)

	var got Notification
	err = HandleDelivery(context.Background(), body, func(ctx context.Context, n Notification) error {
		got = n
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, sent, got)
}

func TestHandleDeliveryRejects(t *testing.T) {
	called := false
	handle := func(ctx context.Context, n Notification) error {
		called = true
		return nil
	}

	assert.Error(t, HandleDelivery(context.Background(), []byte("{not json"), handle))
	assert.Error(t, HandleDelivery(context.Background(), []byte(`{"subjectId":"a1"}`), handle))
	assert.False(t, called)
}

func TestHandleDeliveryPropagatesHandlerError(t *testing.T) {
	boom := errors.New("boom")
	err := HandleDelivery(context.Background(), []byte(`{"kind":"booking.created"}`), func(context.Context, Notification) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), Notification{Kind: KindBookingCreated}))
	assert.NoError(t, p.Close())
}

type fakeChannel struct {
	closed    bool
	published int
}

func (c *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	return amqp.Queue{Name: name}, nil
}

func (c *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if c.closed {
		return amqp.ErrClosed
	}
	c.published++
	return nil
}

func (c *fakeChannel) IsClosed() bool { return c.closed }

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

type fakeConnection struct {
	closed   bool
	channels []*fakeChannel
}

func (c *fakeConnection) Channel() (channel, error) {
	ch := &fakeChannel{}
	c.channels = append(c.channels, ch)
	return ch, nil
}

func (c *fakeConnection) IsClosed() bool { return c.closed }

func (c *fakeConnection) Close() error {
	c.closed = true
	return nil
}

func TestAMQPPublisherReopensClosedChannel(t *testing.T) {
	var dials []*fakeConnection
	dial := func(string) (connection, error) {
		conn := &fakeConnection{}
		dials = append(dials, conn)
		return conn, nil
	}

	p, err := newAMQPPublisher("amqp://test", "notifications", dial, zap.NewNop())
	require.NoError(t, err)

	n := Notification{Kind: KindEventCreated, SubjectID: "e1"}
	require.NoError(t, p.Publish(context.Background(), n))

	// channel-level close keeps the connection
	dials[0].channels[0].closed = true
	require.NoError(t, p.Publish(context.Background(), n))
	assert.Len(t, dials, 1)
	require.Len(t, dials[0].channels, 2)
	assert.Equal(t, 1, dials[0].channels[1].published)

	dials[0].closed = true
	require.NoError(t, p.Publish(context.Background(), n))
	require.Len(t, dials, 2)
	assert.Equal(t, 1, dials[1].channels[0].published)
}

func TestAMQPPublisherDialFailure(t *testing.T) {
	dial := func(string) (connection, error) { return nil, errors.New("connection refused") }

	_, err := newAMQPPublisher("amqp://test", "notifications", dial, zap.NewNop())
	assert.ErrorContains(t, err, "dial broker")
}
