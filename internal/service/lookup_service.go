package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vanshika/osintportal/internal/domain"
	"github.com/vanshika/osintportal/internal/validate"
)

// ErrShuttingDown is returned by Start once Close has been called.
var ErrShuttingDown = errors.New("lookup service is shutting down")

// ResultGenerator fabricates the result for a validated query.
type ResultGenerator interface {
	Generate(kind domain.Kind, query string) (any, string, error)
}

// LookupStore holds lookups between submission and export.
type LookupStore interface {
	Create(kind domain.Kind, query string) domain.Lookup
	Complete(id string, result any, summary string) (domain.Lookup, error)
	Get(id string) (domain.Lookup, error)
	Delete(id string)
}

// Options tunes the simulated latency of each lookup kind.
type Options struct {
	UsernameDelay time.Duration
	AnalysisDelay time.Duration
}

// LookupService runs a submission through validate -> delay -> generate and
// records the outcome in the store.
type LookupService struct {
	store     LookupStore
	generator ResultGenerator
	opts      Options
	logger    *zap.Logger

	mu      sync.Mutex
	closing bool
	stop    chan struct{}
	pending sync.WaitGroup
}

// NewLookupService constructs a LookupService.
func NewLookupService(store LookupStore, gen ResultGenerator, opts Options, logger *zap.Logger) *LookupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LookupService{
		store:     store,
		generator: gen,
		opts:      opts,
		logger:    logger,
		stop:      make(chan struct{}),
	}
}

// Delay returns the simulated latency applied to kind.
func (s *LookupService) Delay(kind domain.Kind) time.Duration {
	if kind == domain.KindUsername {
		return s.opts.UsernameDelay
	}
	return s.opts.AnalysisDelay
}

// Lookup validates raw, waits out the simulated delay and returns the
// completed lookup. Validation failures return a *validate.Error and leave
// the store untouched.
func (s *LookupService) Lookup(ctx context.Context, kind domain.Kind, raw string) (domain.Lookup, error) {
	query, err := validate.Check(kind, raw)
	if err != nil {
		return domain.Lookup{}, err
	}

	l := s.store.Create(kind, query)
	if err := sleep(ctx, s.Delay(kind)); err != nil {
		s.store.Delete(l.ID)
		return domain.Lookup{}, err
	}
	return s.finish(l)
}

// Start validates raw and returns the loading lookup immediately; the result
// is generated in the background and can be polled through Get.
func (s *LookupService) Start(kind domain.Kind, raw string) (domain.Lookup, error) {
	query, err := validate.Check(kind, raw)
	if err != nil {
		return domain.Lookup{}, err
	}

	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		return domain.Lookup{}, ErrShuttingDown
	}
	s.pending.Add(1)
	s.mu.Unlock()

	l := s.store.Create(kind, query)
	go func() {
		defer s.pending.Done()

		timer := time.NewTimer(s.Delay(kind))
		defer timer.Stop()
		select {
		case <-s.stop:
			s.store.Delete(l.ID)
			return
		case <-timer.C:
		}
		if _, err := s.finish(l); err != nil {
			s.logger.Warn("background lookup failed", zap.String("id", l.ID), zap.Error(err))
		}
	}()
	return l, nil
}

// Get returns a stored lookup by ID.
func (s *LookupService) Get(id string) (domain.Lookup, error) {
	return s.store.Get(id)
}

// Close abandons pending background lookups and waits for them to exit.
func (s *LookupService) Close() {
	s.mu.Lock()
	if !s.closing {
		s.closing = true
		close(s.stop)
	}
	s.mu.Unlock()
	s.pending.Wait()
}

func (s *LookupService) finish(l domain.Lookup) (domain.Lookup, error) {
	result, summary, err := s.generator.Generate(l.Kind, l.Query)
	if err != nil {
		s.store.Delete(l.ID)
		return domain.Lookup{}, fmt.Errorf("generate %s result: %w", l.Kind, err)
	}

	done, err := s.store.Complete(l.ID, result, summary)
	if err != nil {
		return domain.Lookup{}, fmt.Errorf("complete lookup %s: %w", l.ID, err)
	}
	s.logger.Info("lookup complete",
		zap.String("id", done.ID),
		zap.String("kind", done.Kind.String()),
		zap.String("query", done.Query),
	)
	return done, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
