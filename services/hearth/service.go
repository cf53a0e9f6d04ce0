package hearth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultSessionTTL    = 24 * time.Hour
	defaultNotifyTimeout = 10 * time.Second
)

// Config controls service behaviour.
type Config struct {
	// AccessCodes gate profile creation. When empty, signups are open.
	AccessCodes   []string
	SessionTTL    time.Duration
	NotifyTimeout time.Duration
}

// Service implements the matching workflow on top of a Store. Every
// mutating operation takes the authenticated caller's email and enforces
// ownership itself.
type Service struct {
	store    *Store
	notifier Notifier
	renderer Renderer
	config   Config
	log      zerolog.Logger
	now      func() time.Time

	inflight sync.WaitGroup
}

// NewService wires a Service. notifier may be nil to disable notifications.
func NewService(store *Store, notifier Notifier, renderer Renderer, cfg Config, logger zerolog.Logger) (*Service, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if renderer == nil {
		return nil, errors.New("renderer is required")
	}

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = defaultNotifyTimeout
	}

	codes := make([]string, 0, len(cfg.AccessCodes))
	for _, c := range cfg.AccessCodes {
		if c = strings.TrimSpace(c); c != "" {
			codes = append(codes, c)
		}
	}
	cfg.AccessCodes = codes

	return &Service{
		store:    store,
		notifier: notifier,
		renderer: renderer,
		config:   cfg,
		log:      logger,
		now:      time.Now,
	}, nil
}

// Store exposes the underlying store for administrative tooling.
func (s *Service) Store() *Store { return s.store }

// Drain waits for in-flight notifications to finish or for ctx to expire.
func (s *Service) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CheckAccessCode reports whether code unlocks signup.
func (s *Service) CheckAccessCode(code string) bool {
	if len(s.config.AccessCodes) == 0 {
		return true
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return false
	}

	ok := 0
	for _, c := range s.config.AccessCodes {
		ok |= subtle.ConstantTimeCompare([]byte(c), []byte(code))
	}
	return ok == 1
}

// RequestAccess adds email to the waitlist.
func (s *Service) RequestAccess(ctx context.Context, email string) (AccessRequest, error) {
	if err := requireEmail(email); err != nil {
		return AccessRequest{}, err
	}
	return s.store.CreateAccessRequest(ctx, email)
}

// ListAccessRequests returns the waitlist.
func (s *Service) ListAccessRequests(ctx context.Context) ([]AccessRequest, error) {
	return s.store.ListAccessRequests(ctx)
}

// notify renders the template and hands the notification to the notifier on
// a detached goroutine so the triggering operation never waits for delivery.
func (s *Service) notify(ctx context.Context, kind, subject, template string, data any, fields map[string]string) {
	if s.notifier == nil {
		return
	}

	body, err := s.renderer.Render(template, data)
	if err != nil {
		s.log.Warn().Err(err).Str("kind", kind).Msg("render notification")
		return
	}

	n := Notification{
		Kind:      kind,
		Recipient: RecipientAdmin,
		Subject:   subject,
		Body:      body,
		Fields:    fields,
	}

	detached := context.WithoutCancel(ctx)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				s.log.Error().Interface("panic", r).Str("kind", kind).Msg("notifier panicked")
			}
		}()

		notifyCtx, cancel := context.WithTimeout(detached, s.config.NotifyTimeout)
		defer cancel()

		if err := s.notifier.Notify(notifyCtx, n); err != nil {
			s.log.Warn().Err(err).Str("kind", kind).Msg("notification failed")
		}
	}()
}

func requireEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return validationErr("email is required")
	}
	if !strings.Contains(email, "@") {
		return validationErr("email %q is not an address", email)
	}
	return nil
}
