// Package service publishes domain events to RabbitMQ.  Publishing is
// best effort: errors are logged and returned so callers can ignore them
// without interrupting the request flow.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/museum-reservation/internal/feedback"
	"github.com/iliyamo/museum-reservation/internal/model"
	"github.com/iliyamo/museum-reservation/internal/queue"
)

// amqpChannel is the subset of *amqp.Channel the publisher uses.
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher keeps one broker channel open and reopens it after a failed
// publish.  It implements notify.Notifier, payment.EventSink and
// feedback.Sink.  A nil *Publisher publishes nothing.
type Publisher struct {
	log  logrus.FieldLogger
	open func() (amqpChannel, func() error, error)
	now  func() time.Time

	mu      sync.Mutex
	ch      amqpChannel
	closeFn func() error
}

// NewPublisher returns a publisher for the broker at url.  The connection
// is opened lazily on the first publish.
func NewPublisher(url string, log logrus.FieldLogger) *Publisher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Publisher{
		log: log.WithField("component", "publisher"),
		now: time.Now,
		open: func() (amqpChannel, func() error, error) {
			conn, err := amqp.Dial(url)
			if err != nil {
				return nil, nil, fmt.Errorf("dial: %w", err)
			}
			ch, err := conn.Channel()
			if err != nil {
				_ = conn.Close()
				return nil, nil, fmt.Errorf("channel open: %w", err)
			}
			return ch, conn.Close, nil
		},
	}
}

// channel returns the open channel, connecting and declaring every queue
// first when needed.  Callers hold p.mu.
func (p *Publisher) channel() (amqpChannel, error) {
	if p.ch != nil {
		return p.ch, nil
	}
	ch, closeFn, err := p.open()
	if err != nil {
		return nil, err
	}
	for _, name := range queue.Queues {
		// Durable so messages survive broker restarts.
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			if closeFn != nil {
				_ = closeFn()
			}
			return nil, fmt.Errorf("queue declare %s: %w", name, err)
		}
	}
	p.ch, p.closeFn = ch, closeFn
	return ch, nil
}

// resetLocked drops the current channel so the next publish reconnects.
func (p *Publisher) resetLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.closeFn != nil {
		_ = p.closeFn()
	}
	p.ch, p.closeFn = nil, nil
}

func (p *Publisher) publish(ctx context.Context, queueName string, v any) error {
	if p == nil {
		return nil
	}
	body, err := json.Marshal(v)
	if err != nil {
		p.log.WithError(err).WithField("queue", queueName).Error("marshal event failed")
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	ch, err := p.channel()
	if err != nil {
		p.log.WithError(err).WithField("queue", queueName).Warn("broker unavailable")
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    p.now().UTC(),
		Body:         body,
	}
	// Default exchange, routing key = queue name.
	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		p.resetLocked()
		p.log.WithError(err).WithField("queue", queueName).Warn("publish failed")
		return err
	}
	return nil
}

// BookingConfirmed publishes a BookingConfirmedEvent to booking.confirmed.
func (p *Publisher) BookingConfirmed(ctx context.Context, who model.Identity, b model.ConfirmedBooking) error {
	return p.publish(ctx, queue.BookingConfirmedQueue, queue.NewBookingConfirmedEvent(who, b))
}

// Notify mirrors a visit notification to the notifications queue.
func (p *Publisher) Notify(ctx context.Context, visitID string, n model.Notification) {
	if p == nil {
		return
	}
	_ = p.publish(ctx, queue.NotificationsQueue, queue.NotificationEvent{
		VisitID:     visitID,
		Kind:        n.Kind,
		Title:       n.Title,
		Description: n.Description,
		At:          p.now().UTC().Format(time.RFC3339),
	})
}

// FeedbackSubmitted publishes accepted feedback.
func (p *Publisher) FeedbackSubmitted(ctx context.Context, f feedback.Feedback) error {
	return p.publish(ctx, queue.FeedbackQueue, f)
}

// ContactSubmitted publishes an accepted contact enquiry.
func (p *Publisher) ContactSubmitted(ctx context.Context, c feedback.Contact) error {
	return p.publish(ctx, queue.ContactQueue, c)
}

// Close releases the broker connection.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil {
		return nil
	}
	err := p.ch.Close()
	if p.closeFn != nil {
		err = errors.Join(err, p.closeFn())
	}
	p.ch, p.closeFn = nil, nil
	return err
}
