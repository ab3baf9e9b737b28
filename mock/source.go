// Package mock provides test doubles for exa interfaces using function fields.
package mock

import (
	"io"
	"net/http"

	exa "github.com/erayack/exa-go"
)

// Interface compliance checks.
var (
	_ exa.Source[int]   = (*Source[int])(nil)
	_ http.RoundTripper = (*RoundTripper)(nil)
)

// Source is a test double for exa.Source.
// NextFn panics when nil to catch missing setup. CloseFn is nil-safe
// because test code commonly only cares that Close was called; CloseCalls
// counts invocations either way.
type Source[T any] struct {
	NextFn     func() (T, error)
	CloseFn    func() error
	NextCalls  int
	CloseCalls int
}

// Next counts the call and delegates to NextFn.
func (s *Source[T]) Next() (T, error) {
	s.NextCalls++
	return s.NextFn()
}

// Close counts the call and delegates to CloseFn when set.
func (s *Source[T]) Close() error {
	s.CloseCalls++
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// SliceSource returns a Source that yields the given values in order, then
// io.EOF. NextCalls and CloseCalls record the consumption pattern.
func SliceSource[T any](values ...T) *Source[T] {
	s := &Source[T]{}
	i := 0
	s.NextFn = func() (T, error) {
		if i >= len(values) {
			var zero T
			return zero, io.EOF
		}
		v := values[i]
		i++
		return v, nil
	}
	return s
}

// RoundTripper is a test double for http.RoundTripper.
// Set RoundTripFn before use.
type RoundTripper struct {
	RoundTripFn func(req *http.Request) (*http.Response, error)
}

// RoundTrip delegates to RoundTripFn.
func (rt *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt.RoundTripFn(req)
}
