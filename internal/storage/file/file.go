// Package file persists every key as its own file inside one directory, so
// separate processes pointed at the same directory share a medium. Change
// notifications come from fsnotify.
package file

import (
	"errors"
	"fmt"
	"hash/fnv"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/MrJamesThe3rd/mechanico/internal/storage"
)

const ext = ".kv"

type Store struct {
	dir   string
	quota int64
	log   zerolog.Logger

	mu sync.Mutex
	// seen tracks the content this handle last wrote or was told about, per key.
	seen map[string]version
}

type version struct {
	hash    uint64
	present bool
}

var (
	_ storage.Store    = (*Store)(nil)
	_ storage.Notifier = (*Store)(nil)
)

type Option func(*Store)

// WithQuota caps the total bytes of keys plus values. Zero means unlimited.
func WithQuota(bytes int64) Option {
	return func(s *Store) { s.quota = bytes }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Open prepares dir (creating it if needed) and returns a handle on it.
func Open(dir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}

	s := &Store{
		dir:  dir,
		log:  zerolog.Nop(),
		seen: make(map[string]version),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+ext)
}

func keyFromPath(name string) (string, bool) {
	base := filepath.Base(name)
	if !strings.HasSuffix(base, ext) {
		return "", false
	}

	key, err := url.PathUnescape(strings.TrimSuffix(base, ext))
	if err != nil {
		return "", false
	}

	return key, true
}

func hashOf(value string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(value))

	return h.Sum64()
}

func (s *Store) Get(key string) (string, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}

	return string(data), true, nil
}

func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quota > 0 {
		used, err := s.usage(key)
		if err != nil {
			return err
		}

		if used+int64(len(key)+len(value)) > s.quota {
			return fmt.Errorf("writing %s (%d bytes): %w", key, len(value), storage.ErrQuotaExceeded)
		}
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, classify(err))
	}

	tmpName := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)

		return fmt.Errorf("writing %s: %w", key, classify(err))
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", key, classify(err))
	}

	if err := os.Rename(tmpName, s.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("committing %s: %w", key, classify(err))
	}

	s.seen[key] = version{hash: hashOf(value), present: true}

	return nil
}

func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", key, err)
	}

	s.seen[key] = version{}

	return nil
}

// usage sums the bytes held by every key except skip.
func (s *Store) usage(skip string) (int64, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("measuring storage: %w", err)
	}

	var total int64

	for _, e := range entries {
		key, ok := keyFromPath(e.Name())
		if !ok || key == skip {
			continue
		}

		info, err := e.Info()
		if err != nil {
			continue
		}

		total += int64(len(key)) + info.Size()
	}

	return total, nil
}

func classify(err error) error {
	if errors.Is(err, syscall.ENOSPC) {
		return fmt.Errorf("%w: %w", storage.ErrQuotaExceeded, err)
	}

	if errors.Is(err, fs.ErrPermission) || errors.Is(err, syscall.EROFS) {
		return fmt.Errorf("%w: %w", storage.ErrDisabled, err)
	}

	return err
}

// Subscribe watches the directory for changes made by other handles. Events
// whose content matches what this handle already knows are dropped.
func (s *Store) Subscribe() (<-chan storage.Event, func()) {
	out := make(chan storage.Event, storage.EventBuffer)

	w, err := fsnotify.NewWatcher()
	if err == nil {
		err = w.Add(s.dir)
	}

	if err != nil {
		s.log.Error().Err(err).Str("dir", s.dir).Msg("storage watcher unavailable")

		if w != nil {
			w.Close()
		}

		close(out)

		return out, func() {}
	}

	done := make(chan struct{})

	go func() {
		defer close(done)
		defer close(out)

		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}

				key, ok := keyFromPath(ev.Name)
				if !ok || !s.changed(key) {
					continue
				}

				select {
				case out <- storage.Event{Key: key}:
				default:
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}

				s.log.Warn().Err(err).Msg("storage watcher error")
			}
		}
	}()

	var once sync.Once

	return out, func() {
		once.Do(func() {
			w.Close()
			<-done
		})
	}
}

// changed re-reads key and reports whether it differs from what this handle
// last knew, recording the new version when it does.
func (s *Store) changed(key string) bool {
	value, present, err := s.Get(key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("reading changed key")
		return true
	}

	cur := version{present: present}
	if present {
		cur.hash = hashOf(value)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.seen[key]; ok && prev == cur {
		return false
	}

	s.seen[key] = cur

	return true
}
