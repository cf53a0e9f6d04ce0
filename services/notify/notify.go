// Package notify delivers hearth notifications over NATS, SMTP and the log.
package notify

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"hearth/services/hearth"
)

const (
	// StreamName is the JetStream stream holding notification events.
	StreamName = "HEARTH_NOTIFICATIONS"
	// SubjectPrefix prefixes every notification subject.
	SubjectPrefix = "hearth.notifications."
	// SubjectWildcard matches every notification subject.
	SubjectWildcard = SubjectPrefix + ">"
)

// Subject returns the bus subject for a notification kind.
func Subject(kind string) string { return SubjectPrefix + kind }

// Fanout delivers to every notifier and joins their errors.
type Fanout []hearth.Notifier

func (f Fanout) Notify(ctx context.Context, n hearth.Notification) error {
	var errs []error
	for _, target := range f {
		if target == nil {
			continue
		}
		if err := target.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogNotifier writes each notification to the log.
type LogNotifier struct {
	Logger zerolog.Logger
}

func (l LogNotifier) Notify(_ context.Context, n hearth.Notification) error {
	l.Logger.Info().
		Str("kind", n.Kind).
		Str("recipient", n.Recipient).
		Str("subject", n.Subject).
		Interface("fields", n.Fields).
		Msg("notification")
	return nil
}
