package exa_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	exa "github.com/erayack/exa-go"
	"github.com/erayack/exa-go/mock"
)

func TestAll_NaturalExhaustionClosesOnce(t *testing.T) {
	t.Parallel()
	src := mock.SliceSource(1, 2, 3)

	var got []int
	for v, err := range exa.All[int](src) {
		require.NoError(t, err)
		got = append(got, v)
	}

	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Equal(t, 1, src.CloseCalls)
}

func TestAll_EarlyBreakClosesOnceAndStopsPulling(t *testing.T) {
	t.Parallel()
	src := mock.SliceSource("a", "b", "c", "d")

	var got []string
	for v, err := range exa.All[string](src) {
		require.NoError(t, err)
		got = append(got, v)
		break
	}

	assert.Equal(t, []string{"a"}, got)
	assert.Equal(t, 1, src.CloseCalls, "exactly one release")
	assert.Equal(t, 1, src.NextCalls, "zero further pulls after the break")
}

func TestAll_SourceErrorIsNormalizedAndCloses(t *testing.T) {
	t.Parallel()
	src := &mock.Source[int]{
		NextFn: func() (int, error) { return 0, errors.New("socket reset") },
	}

	var errs []error
	for _, err := range exa.All[int](src) {
		errs = append(errs, err)
	}

	require.Len(t, errs, 1)
	var apiErr *exa.APIError
	require.ErrorAs(t, errs[0], &apiErr)
	assert.Equal(t, 500, apiErr.StatusCode)
	assert.Equal(t, 1, src.CloseCalls)
}

func TestAll_CloseFailureIsSwallowed(t *testing.T) {
	t.Parallel()
	src := mock.SliceSource(1)
	src.CloseFn = func() error { return errors.New("close failed") }

	var got []int
	for v, err := range exa.All[int](src) {
		require.NoError(t, err)
		got = append(got, v)
	}

	// The iteration outcome is unaffected by the failing release.
	assert.Equal(t, []int{1}, got)
	assert.Equal(t, 1, src.CloseCalls)
}

func TestAll_PanicInBodyStillCloses(t *testing.T) {
	t.Parallel()
	src := mock.SliceSource(1, 2)

	func() {
		defer func() { _ = recover() }()
		for range exa.All[int](src) {
			panic("consumer bug")
		}
	}()

	assert.Equal(t, 1, src.CloseCalls)
}

func TestCollect(t *testing.T) {
	t.Parallel()
	src := mock.SliceSource(10, 20)

	got, err := exa.Collect[int](src)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20}, got)
	assert.Equal(t, 1, src.CloseCalls)
}

func TestPageSource_WalksPages(t *testing.T) {
	t.Parallel()
	pages := []exa.Page[string]{
		{Data: []string{"a", "b"}, HasMore: true, NextCursor: "p2"},
		{Data: []string{"c"}, HasMore: false},
	}
	var cursors []string
	src := exa.PageSource(context.Background(), func(ctx context.Context, cursor string) (exa.Page[string], error) {
		cursors = append(cursors, cursor)
		page := pages[0]
		pages = pages[1:]
		return page, nil
	})

	got, err := exa.Collect[string](src)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, []string{"", "p2"}, cursors)
}

func TestPageSource_ClosedStopsFetching(t *testing.T) {
	t.Parallel()
	fetches := 0
	src := exa.PageSource(context.Background(), func(ctx context.Context, cursor string) (exa.Page[int], error) {
		fetches++
		return exa.Page[int]{Data: []int{fetches}, HasMore: true, NextCursor: "more"}, nil
	})

	_, err := src.Next()
	require.NoError(t, err)
	require.NoError(t, src.Close())

	_, err = src.Next()
	assert.ErrorIs(t, err, exa.ErrStreamClosed)
	assert.Equal(t, 1, fetches)
}

func TestPageSource_ContextCancellation(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := exa.PageSource(ctx, func(ctx context.Context, cursor string) (exa.Page[int], error) {
		t.Fatal("fetch must not run after cancellation")
		return exa.Page[int]{}, nil
	})

	_, err := src.Next()
	assert.ErrorIs(t, err, context.Canceled)
}
