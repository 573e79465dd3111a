package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/museum-reservation/internal/feedback"
	"github.com/iliyamo/museum-reservation/internal/model"
	"github.com/iliyamo/museum-reservation/internal/queue"
)

type published struct {
	key string
	msg amqp.Publishing
}

type fakeChannel struct {
	mu         sync.Mutex
	declared   []string
	sent       []published
	publishErr error
	closed     bool
}

func (f *fakeChannel) QueueDeclare(name string, _, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.declared = append(f.declared, name)
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	f.sent = append(f.sent, published{key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func newTestPublisher(t *testing.T, channels ...*fakeChannel) (*Publisher, *int) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	opens := 0
	p := &Publisher{
		log: logger,
		now: func() time.Time { return time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC) },
		open: func() (amqpChannel, func() error, error) {
			if opens >= len(channels) {
				return nil, nil, errors.New("broker down")
			}
			ch := channels[opens]
			opens++
			return ch, nil, nil
		},
	}
	return p, &opens
}

func TestPublisher_BookingConfirmed(t *testing.T) {
	ch := &fakeChannel{}
	p, opens := newTestPublisher(t, ch)
	b := model.ConfirmedBooking{ID: "b1", MuseumName: "National Museum", Members: []model.Member{{Name: "Asha"}}, TotalAmount: 100}

	require.NoError(t, p.BookingConfirmed(context.Background(), model.Identity{ID: "u1"}, b))
	require.NoError(t, p.BookingConfirmed(context.Background(), model.Identity{ID: "u1"}, b))

	assert.Equal(t, 1, *opens)
	assert.ElementsMatch(t, queue.Queues, ch.declared)
	require.Len(t, ch.sent, 2)
	assert.Equal(t, queue.BookingConfirmedQueue, ch.sent[0].key)
	assert.Equal(t, amqp.Persistent, ch.sent[0].msg.DeliveryMode)

	var ev queue.BookingConfirmedEvent
	require.NoError(t, json.Unmarshal(ch.sent[0].msg.Body, &ev))
	assert.Equal(t, "b1", ev.BookingID)
	assert.Equal(t, []string{"Asha"}, ev.Visitors)
}

func TestPublisher_ReconnectsAfterFailedPublish(t *testing.T) {
	broken := &fakeChannel{publishErr: errors.New("channel closed")}
	healthy := &fakeChannel{}
	p, opens := newTestPublisher(t, broken, healthy)

	err := p.FeedbackSubmitted(context.Background(), feedback.Feedback{ID: "f1", Rating: 5})
	assert.Error(t, err)
	assert.True(t, broken.closed)

	require.NoError(t, p.ContactSubmitted(context.Background(), feedback.Contact{ID: "c1"}))
	assert.Equal(t, 2, *opens)
	require.Len(t, healthy.sent, 1)
	assert.Equal(t, queue.ContactQueue, healthy.sent[0].key)
}

func TestPublisher_NotifyWhenBrokerDown(t *testing.T) {
	p, _ := newTestPublisher(t)
	assert.NotPanics(t, func() {
		p.Notify(context.Background(), "v1", model.Notification{Kind: model.NotificationInfo, Title: "Hi"})
	})
}

func TestPublisher_NotifyPublishesEvent(t *testing.T) {
	ch := &fakeChannel{}
	p, _ := newTestPublisher(t, ch)

	p.Notify(context.Background(), "v1", model.Notification{Kind: model.NotificationError, Title: "Payment Declined"})

	require.Len(t, ch.sent, 1)
	var ev queue.NotificationEvent
	require.NoError(t, json.Unmarshal(ch.sent[0].msg.Body, &ev))
	assert.Equal(t, "v1", ev.VisitID)
	assert.Equal(t, model.NotificationError, ev.Kind)
	assert.Equal(t, "2026-10-16T09:00:00Z", ev.At)
}

func TestPublisher_NilIsNoop(t *testing.T) {
	var p *Publisher
	assert.NoError(t, p.BookingConfirmed(context.Background(), model.Identity{}, model.ConfirmedBooking{}))
	assert.NoError(t, p.Close())
	p.Notify(context.Background(), "v", model.Notification{})
}

func TestPublisher_Close(t *testing.T) {
	ch := &fakeChannel{}
	p, _ := newTestPublisher(t, ch)
	require.NoError(t, p.FeedbackSubmitted(context.Background(), feedback.Feedback{ID: "f"}))

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}
