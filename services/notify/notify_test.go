package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"hearth/pkg/bus"
	"hearth/services/hearth"
)

type fakePublisher struct {
	subject string
	payload any
	err     error
}

func (f *fakePublisher) Publish(_ context.Context, subj string, v any) error {
	f.subject = subj
	f.payload = v
	return f.err
}

type fakeSubscriber struct {
	subject string
	durable string
	handler func(ctx context.Context, msg bus.Message) error
}

func (f *fakeSubscriber) Subscribe(_ context.Context, subj, durable string, fn func(ctx context.Context, msg bus.Message) error) (io.Closer, error) {
	f.subject = subj
	f.durable = durable
	f.handler = fn
	return io.NopCloser(nil), nil
}

func sample() hearth.Notification {
	return hearth.Notification{
		Kind:      hearth.KindActivityCreated,
		Recipient: hearth.RecipientAdmin,
		Subject:   "New Activity Created",
		Body:      "What: hiking\nWhere: hills",
		Fields:    map[string]string{"what": "hiking"},
	}
}

func TestBusNotifierPublishesToKindSubject(t *testing.T) {
	pub := &fakePublisher{}
	n, err := NewBusNotifier(pub)
	require.NoError(t, err)

	require.NoError(t, n.Notify(context.Background(), sample()))
	assert.Equal(t, "hearth.notifications.activity.created", pub.subject)
	assert.Equal(t, sample(), pub.payload)

	pub.err = errors.New("no stream")
	assert.ErrorContains(t, n.Notify(context.Background(), sample()), "no stream")

	assert.Error(t, n.Notify(context.Background(), hearth.Notification{}))

	_, err = NewBusNotifier(nil)
	assert.Error(t, err)
}

func TestRelayForwardsDecodedNotifications(t *testing.T) {
	sub := &fakeSubscriber{}
	var got []hearth.Notification
	target := hearth.NotifierFunc(func(_ context.Context, n hearth.Notification) error {
		got = append(got, n)
		if n.Subject == "fail" {
			return errors.New("smtp down")
		}
		return nil
	})

	_, err := Relay(context.Background(), sub, "mailer", target, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, SubjectWildcard, sub.subject)
	assert.Equal(t, "mailer", sub.durable)

	data, err := json.Marshal(sample())
	require.NoError(t, err)
	require.NoError(t, sub.handler(context.Background(), bus.Message{Subject: Subject(hearth.KindActivityCreated), Data: data}))
	require.Len(t, got, 1)
	assert.Equal(t, sample(), got[0])

	assert.NoError(t, sub.handler(context.Background(), bus.Message{Data: []byte("{")}), "malformed payloads are acked")

	failing := sample()
	failing.Subject = "fail"
	data, err = json.Marshal(failing)
	require.NoError(t, err)
	assert.Error(t, sub.handler(context.Background(), bus.Message{Data: data}), "delivery failures are retried")
}

func TestMailNotifierComposesAdminMail(t *testing.T) {
	m, err := NewMailNotifier(MailConfig{Host: "smtp.example.com", From: "hearth@example.com", AdminEmail: "ops@example.com", Username: "u", Password: "p"})
	require.NoError(t, err)

	var sent *mail.Msg
	m.send = func(_ context.Context, msg *mail.Msg) error {
		sent = msg
		return nil
	}

	require.NoError(t, m.Notify(context.Background(), sample()))
	require.NotNil(t, sent)

	to, err := sent.GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"ops@example.com"}, to)
	assert.Equal(t, []string{"New Activity Created"}, sent.GetGenHeader(mail.HeaderSubject))

	var buf bytes.Buffer
	_, err = sent.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.Contains(t, raw, "<hearth@example.com>")
	assert.Contains(t, raw, "What: hiking")
	assert.Contains(t, raw, "Where: hills")
}

func TestMailNotifierHonoursContext(t *testing.T) {
	m, err := NewMailNotifier(MailConfig{Host: "smtp.example.com", From: "a@x.com", AdminEmail: "b@x.com"})
	require.NoError(t, err)

	returned := make(chan struct{})
	m.send = func(ctx context.Context, _ *mail.Msg) error {
		defer close(returned)
		<-ctx.Done()
		return ctx.Err()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, m.Notify(ctx, sample()), context.DeadlineExceeded)

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("sender still running after Notify returned")
	}
}

func TestMailNotifierGivesUpOnUnreachableRelay(t *testing.T) {
	m, err := NewMailNotifier(MailConfig{Host: "127.0.0.1", Port: 1, From: "a@x.com", AdminEmail: "b@x.com", Timeout: time.Second})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	start := time.Now()
	assert.Error(t, m.Notify(ctx, sample()))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestMailNotifierRejectsBadRecipient(t *testing.T) {
	m, err := NewMailNotifier(MailConfig{Host: "smtp.example.com", From: "a@x.com", AdminEmail: "b@x.com"})
	require.NoError(t, err)
	m.send = func(context.Context, *mail.Msg) error {
		t.Fatal("nothing should be sent")
		return nil
	}

	n := sample()
	n.Recipient = "not an address"
	assert.Error(t, m.Notify(context.Background(), n))
}

func TestNewMailNotifierValidation(t *testing.T) {
	_, err := NewMailNotifier(MailConfig{})
	assert.Error(t, err)
	_, err = NewMailNotifier(MailConfig{Host: "h"})
	assert.Error(t, err)
	_, err = NewMailNotifier(MailConfig{Host: "h", From: "f@x.com"})
	assert.Error(t, err)
}

func TestFanoutJoinsErrors(t *testing.T) {
	var calls int
	ok := hearth.NotifierFunc(func(context.Context, hearth.Notification) error { calls++; return nil })
	bad := hearth.NotifierFunc(func(context.Context, hearth.Notification) error { calls++; return errors.New("bad") })

	err := Fanout{ok, nil, bad, ok}.Notify(context.Background(), sample())
	assert.ErrorContains(t, err, "bad")
	assert.Equal(t, 3, calls)

	assert.NoError(t, Fanout{}.Notify(context.Background(), sample()))
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, LogNotifier{Logger: zerolog.New(&buf)}.Notify(context.Background(), sample()))
	assert.Contains(t, buf.String(), `"kind":"activity.created"`)
	assert.NotContains(t, buf.String(), "hills", "bodies stay out of the log")
}
