// Package datastore is the aggregate store behind the dashboard. It caches all
// ten collections in memory and funnels every change through a fixed set of
// mutations that persist first and only then update the cache and notify
// subscribers.
package datastore

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/MrJamesThe3rd/mechanico/internal/collection"
	"github.com/MrJamesThe3rd/mechanico/internal/entity"
	"github.com/MrJamesThe3rd/mechanico/internal/seed"
)

var (
	ErrNotReady          = errors.New("data store not initialized")
	ErrInvalidTransition = errors.New("invalid booking status transition")
	ErrEmailTaken        = errors.New("email already registered")
	ErrInvalidPayload    = errors.New("invalid payload")
)

// KindAll is published after a full load, when every collection may differ.
const KindAll entity.Kind = "all"

// Change tells subscribers which collection moved.
type Change struct {
	Kind entity.Kind
}

// Snapshot is a point-in-time copy of every collection.
type Snapshot struct {
	Users        []entity.User
	Vehicles     []entity.Vehicle
	Services     []entity.Service
	Bookings     []entity.Booking
	Reviews      []entity.Review
	Invoices     []entity.Invoice
	Expenses     []entity.Expense
	Transactions []entity.Transaction
	Employees    []entity.Employee
	Inventory    []entity.InventoryItem
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithStrictTransitions toggles enforcement of the booking state machine.
// It is on by default.
func WithStrictTransitions(strict bool) Option {
	return func(s *Store) { s.strict = strict }
}

type Store struct {
	repo   *collection.Repository
	now    func() time.Time
	newID  func() string
	logger zerolog.Logger
	strict bool

	mu    sync.RWMutex
	ready bool
	data  Snapshot

	subMu   sync.Mutex
	subs    map[uint64]func(Change)
	nextSub uint64
}

func New(repo *collection.Repository, opts ...Option) *Store {
	s := &Store{
		repo:   repo,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: zerolog.Nop(),
		strict: true,
		subs:   make(map[uint64]func(Change)),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Initialize seeds every collection whose key is absent and loads the cache.
// Present collections are never touched, so calling it again is harmless.
func (s *Store) Initialize() error {
	s.mu.Lock()
	err := s.initializeLocked()
	s.mu.Unlock()

	if err != nil {
		return err
	}

	s.publish(Change{Kind: KindAll})

	return nil
}

func (s *Store) initializeLocked() error {
	if err := s.seedLocked(); err != nil {
		return fmt.Errorf("seeding: %w", err)
	}

	return s.loadLocked()
}

func (s *Store) seedLocked() error {
	set := seed.Default(s.now())

	steps := []func() (bool, error){
		func() (bool, error) { return seedIfAbsent(s.repo.Users, set.Users) },
		func() (bool, error) { return seedIfAbsent(s.repo.Services, set.Services) },
		func() (bool, error) { return seedIfAbsent(s.repo.Vehicles, set.Vehicles) },
		func() (bool, error) { return seedIfAbsent(s.repo.Bookings, set.Bookings) },
		func() (bool, error) { return seedIfAbsent(s.repo.Reviews, set.Reviews) },
		func() (bool, error) { return seedIfAbsent(s.repo.Invoices, set.Invoices) },
		func() (bool, error) { return seedIfAbsent(s.repo.Expenses, set.Expenses) },
		func() (bool, error) { return seedIfAbsent(s.repo.Transactions, set.Transactions) },
		func() (bool, error) { return seedIfAbsent(s.repo.Employees, set.Employees) },
		func() (bool, error) { return seedIfAbsent(s.repo.Inventory, set.Inventory) },
	}

	seeded := 0

	for _, step := range steps {
		wrote, err := step()
		if err != nil {
			return err
		}

		if wrote {
			seeded++
		}
	}

	if seeded > 0 {
		s.logger.Info().Int("collections", seeded).Msg("seeded demo data")
	}

	return nil
}

func seedIfAbsent[T any](c *collection.Collection[T], items []T) (bool, error) {
	ok, err := c.Exists()
	if err != nil || ok {
		return false, err
	}

	if err := c.Save(items); err != nil {
		return false, err
	}

	return true, nil
}

// loadLocked replaces the cache with the persisted state. On failure the
// store is left not ready.
func (s *Store) loadLocked() error {
	s.ready = false

	var (
		next Snapshot
		err  error
	)

	if next.Users, err = s.repo.Users.Get(); err != nil {
		return err
	}

	if next.Vehicles, err = s.repo.Vehicles.Get(); err != nil {
		return err
	}

	if next.Services, err = s.repo.Services.Get(); err != nil {
		return err
	}

	if next.Bookings, err = s.repo.Bookings.Get(); err != nil {
		return err
	}

	if next.Reviews, err = s.repo.Reviews.Get(); err != nil {
		return err
	}

	if next.Invoices, err = s.repo.Invoices.Get(); err != nil {
		return err
	}

	if next.Expenses, err = s.repo.Expenses.Get(); err != nil {
		return err
	}

	if next.Transactions, err = s.repo.Transactions.Get(); err != nil {
		return err
	}

	if next.Employees, err = s.repo.Employees.Get(); err != nil {
		return err
	}

	if next.Inventory, err = s.repo.Inventory.Get(); err != nil {
		return err
	}

	s.data = next
	s.ready = true

	return nil
}

// Ready reports whether the cache holds loaded data. A store that is not ready
// has no data yet, which is different from having empty collections.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ready
}

// Reload discards the cache and re-reads every collection.
func (s *Store) Reload() error {
	s.mu.Lock()
	err := s.loadLocked()
	s.mu.Unlock()

	if err != nil {
		s.logger.Error().Err(err).Msg("reload failed")
		return fmt.Errorf("reloading: %w", err)
	}

	s.logger.Debug().Msg("reloaded all collections")
	s.publish(Change{Kind: KindAll})

	return nil
}

// ResetDemoData removes every key, the session included, and reseeds.
func (s *Store) ResetDemoData() error {
	s.mu.Lock()

	s.ready = false

	if err := s.repo.Clear(); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("resetting demo data: %w", err)
	}

	err := s.initializeLocked()
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("resetting demo data: %w", err)
	}

	s.logger.Info().Msg("demo data reset")
	s.publish(Change{Kind: KindAll})

	return nil
}

// Subscribe registers fn for every change. fn runs on the goroutine that made
// the change, after the store's lock is released.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) publish(c Change) {
	s.subMu.Lock()
	fns := slices.Collect(maps.Values(s.subs))
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

// mutate runs fn under the write lock and publishes kind when fn reports a
// change. fn must persist before touching the cache.
func (s *Store) mutate(kind entity.Kind, fn func() (bool, error)) error {
	s.mu.Lock()

	if !s.ready {
		s.mu.Unlock()
		return ErrNotReady
	}

	changed, err := fn()
	s.mu.Unlock()

	if err != nil {
		return err
	}

	if changed {
		s.publish(Change{Kind: kind})
	}

	return nil
}

func persist[T any](s *Store, c *collection.Collection[T], dst *[]T, next []T) error {
	if err := c.Save(next); err != nil {
		s.logger.Error().Err(err).Str("key", c.Key()).Msg("persist failed")
		return err
	}

	*dst = next

	s.logger.Debug().Str("key", c.Key()).Int("count", len(next)).Msg("persisted")

	return nil
}

func invalidPayload(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Users:        slices.Clone(s.data.Users),
		Vehicles:     slices.Clone(s.data.Vehicles),
		Services:     slices.Clone(s.data.Services),
		Bookings:     slices.Clone(s.data.Bookings),
		Reviews:      slices.Clone(s.data.Reviews),
		Invoices:     cloneInvoices(s.data.Invoices),
		Expenses:     slices.Clone(s.data.Expenses),
		Transactions: slices.Clone(s.data.Transactions),
		Employees:    cloneEmployees(s.data.Employees),
		Inventory:    slices.Clone(s.data.Inventory),
	}
}

func (s *Store) Users() []entity.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.data.Users)
}

func (s *Store) Vehicles() []entity.Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.data.Vehicles)
}

func (s *Store) Services() []entity.Service {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.data.Services)
}

func (s *Store) Bookings() []entity.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.data.Bookings)
}

func (s *Store) Reviews() []entity.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.data.Reviews)
}

func (s *Store) Invoices() []entity.Invoice {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneInvoices(s.data.Invoices)
}

func (s *Store) Expenses() []entity.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.data.Expenses)
}

func (s *Store) Transactions() []entity.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.data.Transactions)
}

func (s *Store) Employees() []entity.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneEmployees(s.data.Employees)
}

func (s *Store) Inventory() []entity.InventoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.data.Inventory)
}

func cloneInvoices(in []entity.Invoice) []entity.Invoice {
	out := slices.Clone(in)
	for i := range out {
		out[i].Items = slices.Clone(out[i].Items)
	}

	return out
}

func cloneEmployees(in []entity.Employee) []entity.Employee {
	out := slices.Clone(in)
	for i := range out {
		out[i].Skills = slices.Clone(out[i].Skills)
	}

	return out
}
