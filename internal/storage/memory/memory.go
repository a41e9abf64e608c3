// Package memory is an in-process storage medium. Several handles opened on the
// same Medium behave like browser tabs sharing one origin: each sees the
// others' writes through Subscribe but never its own.
package memory

import (
	"fmt"
	"sync"

	"github.com/MrJamesThe3rd/mechanico/internal/storage"
)

type Medium struct {
	mu       sync.Mutex
	data     map[string]string
	size     int64
	quota    int64
	disabled bool
	nextID   uint64
	subs     map[*subscription]struct{}
}

type subscription struct {
	owner uint64
	ch    chan storage.Event
}

// NewMedium creates an empty medium. quota is the byte budget across all keys
// and values; zero means unlimited.
func NewMedium(quota int64) *Medium {
	return &Medium{
		data:  make(map[string]string),
		quota: quota,
		subs:  make(map[*subscription]struct{}),
	}
}

// Open returns a new handle on the medium.
func (m *Medium) Open() *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++

	return &Store{medium: m, id: m.nextID}
}

// Disable makes every subsequent write fail and every read come back absent.
func (m *Medium) Disable() {
	m.mu.Lock()
	m.disabled = true
	m.mu.Unlock()
}

func (m *Medium) Enable() {
	m.mu.Lock()
	m.disabled = false
	m.mu.Unlock()
}

// Size reports the bytes currently held.
func (m *Medium) Size() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.size
}

// notifyLocked fans the event out to every subscriber not owned by writer.
func (m *Medium) notifyLocked(writer uint64, ev storage.Event) {
	for sub := range m.subs {
		if sub.owner == writer {
			continue
		}

		select {
		case sub.ch <- ev:
		default:
		}
	}
}

// Store is one handle on a Medium.
type Store struct {
	medium *Medium
	id     uint64
}

var (
	_ storage.Store    = (*Store)(nil)
	_ storage.Notifier = (*Store)(nil)
)

func (s *Store) Get(key string) (string, bool, error) {
	m := s.medium
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disabled {
		return "", false, nil
	}

	v, ok := m.data[key]

	return v, ok, nil
}

func (s *Store) Set(key, value string) error {
	m := s.medium
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disabled {
		return fmt.Errorf("writing %s: %w", key, storage.ErrDisabled)
	}

	old, existed := m.data[key]
	if existed && old == value {
		return nil
	}

	next := m.size + int64(len(value))
	if existed {
		next -= int64(len(old))
	} else {
		next += int64(len(key))
	}

	if m.quota > 0 && next > m.quota {
		return fmt.Errorf("writing %s (%d bytes): %w", key, len(value), storage.ErrQuotaExceeded)
	}

	m.data[key] = value
	m.size = next
	m.notifyLocked(s.id, storage.Event{Key: key})

	return nil
}

func (s *Store) Remove(key string) error {
	m := s.medium
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disabled {
		return fmt.Errorf("removing %s: %w", key, storage.ErrDisabled)
	}

	old, ok := m.data[key]
	if !ok {
		return nil
	}

	delete(m.data, key)
	m.size -= int64(len(key) + len(old))
	m.notifyLocked(s.id, storage.Event{Key: key})

	return nil
}

func (s *Store) Subscribe() (<-chan storage.Event, func()) {
	m := s.medium
	sub := &subscription{owner: s.id, ch: make(chan storage.Event, storage.EventBuffer)}

	m.mu.Lock()
	m.subs[sub] = struct{}{}
	m.mu.Unlock()

	var once sync.Once

	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, sub)
			close(sub.ch)
			m.mu.Unlock()
		})
	}

	return sub.ch, cancel
}
