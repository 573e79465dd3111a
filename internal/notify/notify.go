// Package notify delivers visitor-facing notifications.  Delivery is
// fire-and-forget: a Notifier never reports failure to the caller.
package notify

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/museum-reservation/internal/model"
)

// Notifier accepts a notification for the visit identified by visitID.
type Notifier interface {
	Notify(ctx context.Context, visitID string, n model.Notification)
}

// Error builds an error notification.
func Error(title, description string) model.Notification {
	return model.Notification{Kind: model.NotificationError, Title: title, Description: description}
}

// Info builds an informational notification.
func Info(title, description string) model.Notification {
	return model.Notification{Kind: model.NotificationInfo, Title: title, Description: description}
}

// Log writes every notification to a logrus logger.
type Log struct {
	Logger logrus.FieldLogger
}

func (l Log) Notify(_ context.Context, visitID string, n model.Notification) {
	entry := l.Logger.WithFields(logrus.Fields{
		"visit": visitID,
		"kind":  n.Kind,
		"title": n.Title,
	})
	if n.Kind == model.NotificationError {
		entry.Warn(n.Description)
		return
	}
	entry.Info(n.Description)
}

// Recorder keeps notifications in memory until they are drained.
type Recorder struct {
	mu   sync.Mutex
	sent []model.Notification
}

func (r *Recorder) Notify(_ context.Context, _ string, n model.Notification) {
	r.mu.Lock()
	r.sent = append(r.sent, n)
	r.mu.Unlock()
}

// Drain returns the recorded notifications and forgets them.
func (r *Recorder) Drain() []model.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.sent
	r.sent = nil
	return out
}

// Len is the number of notifications not yet drained.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

// Multi fans a notification out to every non-nil notifier in order.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, visitID string, n model.Notification) {
	for _, x := range m {
		if x != nil {
			x.Notify(ctx, visitID, n)
		}
	}
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Notify(context.Context, string, model.Notification) {}
