package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vanshika/osintportal/internal/domain"
)

var (
	// ErrNotFound is returned for unknown or expired lookup IDs.
	ErrNotFound = errors.New("lookup not found")
	// ErrClosed is returned once the store has been shut down.
	ErrClosed = errors.New("store closed")
)

// Options configures a Store.
type Options struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

// Store keeps recent lookups in memory so their results can be displayed and
// exported until they expire. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	lookups map[string]*entry
	ttl     time.Duration
	nowFn   func() time.Time
	logger  *zap.Logger

	closeOnce sync.Once
	closed    chan struct{}
	done      chan struct{}
}

type entry struct {
	lookup    domain.Lookup
	expiresAt time.Time
}

// New creates a Store and starts its cleanup loop. Callers must Close it.
func New(opts Options, logger *zap.Logger) *Store {
	if opts.TTL <= 0 {
		opts.TTL = time.Hour
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Store{
		lookups: make(map[string]*entry),
		ttl:     opts.TTL,
		nowFn:   time.Now,
		logger:  logger,
		closed:  make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.cleanupLoop(opts.CleanupInterval)
	return s
}

// Create registers a new lookup in the loading state.
func (s *Store) Create(kind domain.Kind, query string) domain.Lookup {
	now := s.nowFn().UTC()
	l := domain.Lookup{
		ID:        uuid.New().String(),
		Kind:      kind,
		Query:     query,
		Status:    domain.StatusLoading,
		CreatedAt: now,
	}

	s.mu.Lock()
	s.lookups[l.ID] = &entry{lookup: l, expiresAt: now.Add(s.ttl)}
	s.mu.Unlock()

	return l
}

// Complete attaches the generated result to a loading lookup and extends its expiry.
func (s *Store) Complete(id string, result any, summary string) (domain.Lookup, error) {
	now := s.nowFn().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookups[id]
	if !ok || now.After(e.expiresAt) {
		return domain.Lookup{}, ErrNotFound
	}
	e.lookup.Status = domain.StatusComplete
	e.lookup.Result = result
	e.lookup.Summary = summary
	e.lookup.CompletedAt = &now
	e.expiresAt = now.Add(s.ttl)
	return e.lookup, nil
}

// Get returns a snapshot of the lookup with the given ID.
func (s *Store) Get(id string) (domain.Lookup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.lookups[id]
	if !ok || s.nowFn().After(e.expiresAt) {
		return domain.Lookup{}, ErrNotFound
	}
	return e.lookup, nil
}

// Delete drops a lookup, e.g. when its generation was abandoned.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.lookups, id)
	s.mu.Unlock()
}

// Len reports how many lookups are held, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lookups)
}

// Ping implements the health probe used by the HTTP server.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-s.closed:
		return ErrClosed
	default:
		return nil
	}
}

// Close stops the cleanup loop. It is safe to call more than once.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
	<-s.done
	return nil
}

func (s *Store) cleanupLoop(interval time.Duration) {
	defer close(s.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.closed:
			return
		case <-ticker.C:
			if n := s.evictExpired(); n > 0 {
				s.logger.Debug("evicted expired lookups", zap.Int("count", n))
			}
		}
	}
}

func (s *Store) evictExpired() int {
	now := s.nowFn()

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, e := range s.lookups {
		if now.After(e.expiresAt) {
			delete(s.lookups, id)
			evicted++
		}
	}
	return evicted
}
