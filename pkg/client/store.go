package client

import (
	"context"
	"errors"
	"sync"
)

// ListState is a snapshot of a list container.
type ListState[T any] struct {
	Items   []T
	Loading bool
	Error   string
}

// SingleState is a snapshot of a singular container.
type SingleState[T any] struct {
	Data    *T
	Loading bool
	Error   string
}

// loader serializes writes from overlapping fetches. Only the fetch holding
// the latest generation may write, and a fetch whose context was cancelled
// never writes.
type loader[S any] struct {
	mu    sync.RWMutex
	state S
	gen   uint64
}

func (l *loader[S]) snapshot() S {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

func (l *loader[S]) begin(setLoading func(*S)) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	setLoading(&l.state)
	return l.gen
}

// commit applies write if gen is still current. It reports whether the
// result was kept.
func (l *loader[S]) commit(ctx context.Context, gen uint64, write func(*S), clearLoading func(*S)) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return false
	}
	if ctx.Err() != nil {
		clearLoading(&l.state)
		return false
	}
	write(&l.state)
	return true
}

// ListStore holds one server list.
type ListStore[T any] struct {
	l     loader[ListState[T]]
	fetch func(ctx context.Context) ([]T, error)
}

func NewListStore[T any](fetch func(ctx context.Context) ([]T, error)) *ListStore[T] {
	return &ListStore[T]{fetch: fetch}
}

func (s *ListStore[T]) Snapshot() ListState[T] {
	st := s.l.snapshot()
	st.Items = append([]T(nil), st.Items...)
	return st
}

// Load fetches the list and stores the result or the error message.
func (s *ListStore[T]) Load(ctx context.Context) error {
	gen := s.l.begin(func(st *ListState[T]) { st.Loading = true })

	items, err := s.fetch(ctx)

	s.l.commit(ctx, gen, func(st *ListState[T]) {
		st.Loading = false
		if err != nil {
			st.Error = errorMessage(err)
			return
		}
		st.Items = items
		st.Error = ""
	}, func(st *ListState[T]) { st.Loading = false })

	return err
}

func (s *ListStore[T]) recordError(err error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	s.l.state.Error = errorMessage(err)
}

// SingleStore holds one server resource.
type SingleStore[T any] struct {
	l     loader[SingleState[T]]
	fetch func(ctx context.Context) (*T, error)
}

func NewSingleStore[T any](fetch func(ctx context.Context) (*T, error)) *SingleStore[T] {
	return &SingleStore[T]{fetch: fetch}
}

func (s *SingleStore[T]) Snapshot() SingleState[T] {
	return s.l.snapshot()
}

func (s *SingleStore[T]) Load(ctx context.Context) error {
	gen := s.l.begin(func(st *SingleState[T]) { st.Loading = true })

	data, err := s.fetch(ctx)

	s.l.commit(ctx, gen, func(st *SingleState[T]) {
		st.Loading = false
		if err != nil {
			st.Error = errorMessage(err)
			return
		}
		st.Data = data
		st.Error = ""
	}, func(st *SingleState[T]) { st.Loading = false })

	return err
}

func (s *SingleStore[T]) recordError(err error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	s.l.state.Error = errorMessage(err)
}

// set replaces the data and bumps the generation so in-flight fetches
// cannot overwrite it.
func (s *SingleStore[T]) set(data *T) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	s.l.gen++
	s.l.state = SingleState[T]{Data: data}
}

// errorMessage is what containers surface to the view.
func errorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// mutate runs op and, when it succeeds, refetches every affected store.
func mutate(ctx context.Context, op func(ctx context.Context) error, refetch ...func(ctx context.Context) error) error {
	if err := op(ctx); err != nil {
		return err
	}
	for _, load := range refetch {
		if err := load(ctx); err != nil {
			return err
		}
	}
	return nil
}
