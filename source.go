package exa

import (
	"context"
	"io"
	"iter"

	"github.com/charmbracelet/log"
)

// Source is a pull-based, single-consumer sequence with an explicit release
// hook. Next returns io.EOF when the sequence is exhausted; Close releases
// whatever the source holds (an open response body, a pagination cursor) and
// must be safe to call more than once.
//
// Sources returned by this library are not safe for concurrent use.
type Source[T any] interface {
	Next() (T, error)
	Close() error
}

// All adapts a [Source] into a range-over-func sequence. The source is
// closed exactly once, whatever stops the iteration: natural exhaustion, an
// early break, a panic in the loop body, or a source error. A failing Close
// never masks the iteration outcome; it is swallowed (and logged when the
// source carries a logger). Errors from Next are normalized to the typed
// error taxonomy before being yielded.
//
// After passing a source to All, do not touch it again; All owns it.
func All[T any](src Source[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		defer closeQuietly(src)
		for {
			v, err := src.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				var zero T
				yield(zero, NormalizeError(err))
				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

// Collect drains a [Source] into a slice, closing it on every path.
func Collect[T any](src Source[T]) ([]T, error) {
	var out []T
	for v, err := range All(src) {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

// loggable lets a source hand All a logger for swallowed close failures.
type loggable interface {
	logger() *log.Logger
}

func closeQuietly(c io.Closer) {
	err := c.Close()
	if err == nil {
		return
	}
	if l, ok := c.(loggable); ok && l.logger() != nil {
		l.logger().Debug("closing stream source", "err", err)
	}
}

// Page is one page of a cursor-paginated listing.
type Page[T any] struct {
	Data       []T
	HasMore    bool
	NextCursor string
}

// PageFunc fetches one page for the given cursor; an empty cursor requests
// the first page.
type PageFunc[T any] func(ctx context.Context, cursor string) (Page[T], error)

// pageSource adapts a cursor-paginated fetch into a Source. It keeps at most
// one outstanding page and stops fetching once closed.
type pageSource[T any] struct {
	ctx    context.Context
	fetch  PageFunc[T]
	log    *log.Logger
	cursor string
	items  []T
	done   bool
	closed bool
}

// PageSource returns a [Source] that walks a cursor-paginated listing one
// page at a time. Pair it with [All] to range over every element.
func PageSource[T any](ctx context.Context, fetch PageFunc[T]) Source[T] {
	return &pageSource[T]{ctx: ctx, fetch: fetch}
}

// newPageSource is PageSource with a logger for swallowed close diagnostics.
func newPageSource[T any](ctx context.Context, l *log.Logger, fetch PageFunc[T]) Source[T] {
	return &pageSource[T]{ctx: ctx, fetch: fetch, log: l}
}

func (s *pageSource[T]) Next() (T, error) {
	var zero T
	if s.closed {
		return zero, ErrStreamClosed
	}
	for len(s.items) == 0 {
		if s.done {
			return zero, io.EOF
		}
		if err := s.ctx.Err(); err != nil {
			return zero, err
		}
		page, err := s.fetch(s.ctx, s.cursor)
		if err != nil {
			return zero, err
		}
		s.cursor = page.NextCursor
		s.done = !page.HasMore || page.NextCursor == ""
		s.items = page.Data
		// An empty page may still carry a cursor; the loop keeps paging
		// until data arrives or the listing ends.
	}
	v := s.items[0]
	s.items = s.items[1:]
	return v, nil
}

func (s *pageSource[T]) Close() error {
	s.closed = true
	s.items = nil
	return nil
}

func (s *pageSource[T]) logger() *log.Logger { return s.log }
