package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"hearth/pkg/bus"
	"hearth/services/hearth"
)

// Publisher is the publishing half of *bus.Bus.
type Publisher interface {
	Publish(ctx context.Context, subj string, v any) error
}

// Subscriber is the consuming half of *bus.Bus.
type Subscriber interface {
	Subscribe(ctx context.Context, subj, durable string, fn func(ctx context.Context, msg bus.Message) error) (io.Closer, error)
}

// BusNotifier publishes notifications as JSON events.
type BusNotifier struct {
	publisher Publisher
}

// NewBusNotifier returns a notifier publishing through p.
func NewBusNotifier(p Publisher) (*BusNotifier, error) {
	if p == nil {
		return nil, errors.New("publisher is required")
	}
	return &BusNotifier{publisher: p}, nil
}

func (b *BusNotifier) Notify(ctx context.Context, n hearth.Notification) error {
	if n.Kind == "" {
		return errors.New("notification kind is required")
	}
	if err := b.publisher.Publish(ctx, Subject(n.Kind), n); err != nil {
		return fmt.Errorf("publish %s: %w", n.Kind, err)
	}
	return nil
}

// Relay consumes notification events from the bus and hands each one to
// target. A delivery failure naks the message so JetStream redelivers it;
// undecodable messages are logged and acked.
func Relay(ctx context.Context, sub Subscriber, durable string, target hearth.Notifier, logger zerolog.Logger) (io.Closer, error) {
	if sub == nil {
		return nil, errors.New("subscriber is required")
	}
	if target == nil {
		return nil, errors.New("target notifier is required")
	}

	return sub.Subscribe(ctx, SubjectWildcard, durable, func(ctx context.Context, msg bus.Message) error {
		var n hearth.Notification
		if err := json.Unmarshal(msg.Data, &n); err != nil {
			logger.Error().Err(err).Str("subject", msg.Subject).Msg("drop malformed notification")
			return nil
		}

		if err := target.Notify(ctx, n); err != nil {
			logger.Warn().Err(err).Str("kind", n.Kind).Str("msg_id", msg.ID).Msg("relay notification")
			return err
		}
		return nil
	})
}
