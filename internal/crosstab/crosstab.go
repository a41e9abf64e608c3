// Package crosstab keeps a data store in step with writes made through other
// handles on the same medium. Any change, whatever the key, triggers a full
// reload.
package crosstab

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/MrJamesThe3rd/mechanico/internal/storage"
)

type Reloader interface {
	Reload() error
}

type Option func(*Synchronizer)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Synchronizer) { s.logger = l }
}

// WithErrorHandler is called with every failed reload. The loop keeps running.
func WithErrorHandler(fn func(error)) Option {
	return func(s *Synchronizer) { s.onError = fn }
}

// WithMinInterval spaces reloads at least every apart. Changes that arrive
// while waiting are folded into the next reload.
func WithMinInterval(every time.Duration) Option {
	return func(s *Synchronizer) { s.limiter = rate.NewLimiter(rate.Every(every), 1) }
}

type Synchronizer struct {
	notifier storage.Notifier
	reloader Reloader
	logger   zerolog.Logger
	onError  func(error)
	limiter  *rate.Limiter
}

func New(notifier storage.Notifier, reloader Reloader, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		notifier: notifier,
		reloader: reloader,
		logger:   zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run blocks until ctx is done or the notifier closes its channel. Events
// already queued when one arrives are folded into the same reload.
func (s *Synchronizer) Run(ctx context.Context) error {
	events, cancel := s.notifier.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}

			if s.limiter != nil {
				if err := s.limiter.Wait(ctx); err != nil {
					return ctx.Err()
				}
			}

			n, open := drain(events)

			s.logger.Debug().Str("key", ev.Key).Int("coalesced", n).Msg("external change")
			s.reload()

			if !open {
				return nil
			}
		}
	}
}

func drain(events <-chan storage.Event) (int, bool) {
	n := 0

	for {
		select {
		case _, ok := <-events:
			if !ok {
				return n, false
			}

			n++
		default:
			return n, true
		}
	}
}

func (s *Synchronizer) reload() {
	if err := s.reloader.Reload(); err != nil {
		s.logger.Error().Err(err).Msg("cross-tab reload failed")

		if s.onError != nil {
			s.onError(err)
		}
	}
}
