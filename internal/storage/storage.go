// Package storage defines the durable key-value medium every collection is
// persisted to, plus the side channel that reports changes made elsewhere.
package storage

import "errors"

var (
	// ErrQuotaExceeded is returned when a write would grow the medium past its quota.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	// ErrDisabled is returned by writes against a medium that has been turned off.
	ErrDisabled = errors.New("storage disabled")
)

//go:generate mockgen -source=storage.go -destination=storage_mock.go -package=storage

// Store is a synchronous string-keyed, string-valued durable medium.
// Get on a missing key returns ok == false and a nil error.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// Notifier exposes changes made to the medium by other handles. A handle never
// observes its own writes. The returned cancel func releases the subscription
// and closes the channel.
type Notifier interface {
	Subscribe() (<-chan Event, func())
}

// Event names the key that changed. An empty Key means "everything", which
// is what a bulk clear looks like from the outside.
type Event struct {
	Key string
}

// EventBuffer is the channel capacity handed to each subscriber. Once full,
// further events are dropped because one pending event already forces a reload.
const EventBuffer = 16
