// Package collection maps each entity kind onto one key of the durable
// medium. A collection is always read and written whole.
package collection

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/mechanico/internal/entity"
	"github.com/MrJamesThe3rd/mechanico/internal/storage"
)

// ErrCorrupt is returned when a persisted value cannot be decoded.
var ErrCorrupt = errors.New("corrupt collection")

// Collection reads and writes the full ordered sequence stored under one key.
type Collection[T any] struct {
	store storage.Store
	key   string
}

func New[T any](store storage.Store, key string) *Collection[T] {
	return &Collection[T]{store: store, key: key}
}

func (c *Collection[T]) Key() string {
	return c.key
}

// Get returns an empty, non-nil slice when the key is absent.
func (c *Collection[T]) Get() ([]T, error) {
	raw, ok, err := c.store.Get(c.key)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", c.key, err)
	}

	if !ok {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, c.key, err)
	}

	if items == nil {
		items = []T{}
	}

	return items, nil
}

// Save overwrites the whole collection.
func (c *Collection[T]) Save(items []T) error {
	if items == nil {
		items = []T{}
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", c.key, err)
	}

	if err := c.store.Set(c.key, string(raw)); err != nil {
		return fmt.Errorf("writing %s: %w", c.key, err)
	}

	return nil
}

// Exists reports whether the key is present, regardless of whether it decodes.
func (c *Collection[T]) Exists() (bool, error) {
	_, ok, err := c.store.Get(c.key)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", c.key, err)
	}

	return ok, nil
}

// Repository groups the ten typed collections over one store.
type Repository struct {
	store storage.Store
	keys  Keys

	Users        *Collection[entity.User]
	Vehicles     *Collection[entity.Vehicle]
	Services     *Collection[entity.Service]
	Bookings     *Collection[entity.Booking]
	Reviews      *Collection[entity.Review]
	Invoices     *Collection[entity.Invoice]
	Expenses     *Collection[entity.Expense]
	Transactions *Collection[entity.Transaction]
	Employees    *Collection[entity.Employee]
	Inventory    *Collection[entity.InventoryItem]
}

func NewRepository(store storage.Store, keys Keys) *Repository {
	return &Repository{
		store:        store,
		keys:         keys,
		Users:        New[entity.User](store, keys.Users),
		Vehicles:     New[entity.Vehicle](store, keys.Vehicles),
		Services:     New[entity.Service](store, keys.Services),
		Bookings:     New[entity.Booking](store, keys.Bookings),
		Reviews:      New[entity.Review](store, keys.Reviews),
		Invoices:     New[entity.Invoice](store, keys.Invoices),
		Expenses:     New[entity.Expense](store, keys.Expenses),
		Transactions: New[entity.Transaction](store, keys.Transactions),
		Employees:    New[entity.Employee](store, keys.Employees),
		Inventory:    New[entity.InventoryItem](store, keys.Inventory),
	}
}

func (r *Repository) Keys() Keys {
	return r.keys
}

// Store exposes the underlying medium for collaborators that own keys outside
// the ten collections, such as the session.
func (r *Repository) Store() storage.Store {
	return r.store
}

// Clear removes every key in the layout, the session key included. It stops
// at the first failure.
func (r *Repository) Clear() error {
	for _, key := range r.keys.All() {
		if err := r.store.Remove(key); err != nil {
			return fmt.Errorf("removing %s: %w", key, err)
		}
	}

	return nil
}
