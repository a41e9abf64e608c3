// Package session keeps the single signed-in user under its own key, apart
// from the business collections.
package session

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/MrJamesThe3rd/mechanico/internal/entity"
	"github.com/MrJamesThe3rd/mechanico/internal/storage"
)

//go:generate mockgen -source=session.go -destination=session_mock.go -package=session

// UserSource lists the accounts a session may refer to.
type UserSource interface {
	Get() ([]entity.User, error)
}

type Reason string

const (
	ReasonNone            Reason = ""
	ReasonBadCredentials  Reason = "bad_credentials"
	ReasonPendingApproval Reason = "pending_approval"
)

const (
	msgBadCredentials  = "invalid email or password"
	msgPendingApproval = "your account has not been approved yet"
)

// Result is the outcome of a login attempt. Authentication failures are
// reported here rather than as errors.
type Result struct {
	User    entity.User
	Reason  Reason
	Message string
}

func (r Result) OK() bool {
	return r.Reason == ReasonNone
}

type Store struct {
	store  storage.Store
	key    string
	users  UserSource
	logger zerolog.Logger
}

func New(store storage.Store, key string, users UserSource, logger zerolog.Logger) *Store {
	return &Store{store: store, key: key, users: users, logger: logger}
}

// Current returns the signed-in user. A session whose user no longer exists
// is cleared and reported as absent.
func (s *Store) Current() (entity.User, bool, error) {
	raw, ok, err := s.store.Get(s.key)
	if err != nil {
		return entity.User{}, false, fmt.Errorf("reading session: %w", err)
	}

	if !ok {
		return entity.User{}, false, nil
	}

	var stored entity.User
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.logger.Warn().Err(err).Msg("discarding unreadable session")
		return entity.User{}, false, s.clear()
	}

	users, err := s.users.Get()
	if err != nil {
		return entity.User{}, false, fmt.Errorf("loading users: %w", err)
	}

	for _, u := range users {
		if u.ID == stored.ID {
			return u, true, nil
		}
	}

	s.logger.Info().Str("user_id", stored.ID).Msg("clearing stale session")

	return entity.User{}, false, s.clear()
}

// Login matches email and password exactly. A provider still awaiting
// approval is refused and no session is written.
func (s *Store) Login(email, password string) (Result, error) {
	users, err := s.users.Get()
	if err != nil {
		return Result{}, fmt.Errorf("loading users: %w", err)
	}

	for _, u := range users {
		if u.Email != email || u.Password != password {
			continue
		}

		if u.Role == entity.RoleProvider && !u.IsApproved {
			return Result{User: u, Reason: ReasonPendingApproval, Message: msgPendingApproval}, nil
		}

		if err := s.set(u); err != nil {
			return Result{}, err
		}

		s.logger.Info().Str("user_id", u.ID).Str("role", string(u.Role)).Msg("signed in")

		return Result{User: u}, nil
	}

	return Result{Reason: ReasonBadCredentials, Message: msgBadCredentials}, nil
}

func (s *Store) Logout() error {
	return s.clear()
}

func (s *Store) set(u entity.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	if err := s.store.Set(s.key, string(raw)); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}

	return nil
}

func (s *Store) clear() error {
	if err := s.store.Remove(s.key); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}

	return nil
}
