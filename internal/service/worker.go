package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vanshika/osintportal/internal/domain"
	"github.com/vanshika/osintportal/internal/validate"
)

// TaskError accumulates the per-query failures of a batch run.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := "multiple errors:"
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// QueryError ties a rejected batch entry back to its position in the input.
type QueryError struct {
	Index int
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %d (%q): %v", e.Index+1, e.Query, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Looker is the subset of LookupService the batch runner depends on.
type Looker interface {
	Lookup(ctx context.Context, kind domain.Kind, raw string) (domain.Lookup, error)
}

// BulkRunner processes many queries of one kind with bounded concurrency.
type BulkRunner struct {
	service Looker
	workers int
}

// NewBulkRunner creates a new BulkRunner with the provided concurrency.
func NewBulkRunner(svc Looker, workers int) *BulkRunner {
	if workers <= 0 {
		workers = 4
	}
	return &BulkRunner{
		service: svc,
		workers: workers,
	}
}

// Run looks up every query and hands each completed lookup to emit, one call
// at a time. Rejected queries are collected into a *TaskError; cancellation
// and emit failures abort the run.
func (br *BulkRunner) Run(ctx context.Context, kind domain.Kind, queries []string, emit func(index int, l domain.Lookup) error) error {
	if len(queries) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(br.workers)

	var (
		mu      sync.Mutex
		taskErr TaskError
	)

	for i, raw := range queries {
		if gctx.Err() != nil {
			break
		}
		i, raw := i, strings.TrimSpace(raw)
		g.Go(func() error {
			l, err := br.service.Lookup(gctx, kind, raw)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if _, ok := validate.Notice(err); ok {
					taskErr.append(&QueryError{Index: i, Query: raw, Err: err})
					return nil
				}
				return err
			}
			return emit(i, l)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return taskErr.asError()
}

// IsPartial reports whether err only describes rejected queries, returning
// the collected rejections when it does.
func IsPartial(err error) (*TaskError, bool) {
	var taskErr *TaskError
	if errors.As(err, &taskErr) {
		return taskErr, true
	}
	return nil, false
}
