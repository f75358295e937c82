package memory

import (
	"context"
	"sync"

	"procurement/internal/core/docstore"
)

// Operation names recorded by Instrumented.
const (
	OpCreate        = "create"
	OpGet           = "get"
	OpGetMany       = "get_many"
	OpGetAll        = "get_all"
	OpQueryEqual    = "query_equal"
	OpQueryIn       = "query_in"
	OpCountEqual    = "count_equal"
	OpUpdatePartial = "update_partial"
	OpDelete        = "delete"
)

// Instrumented wraps a store, counts calls per operation and collection and can
// be told to fail selected calls. Used to assert round-trip counts in tests.
type Instrumented struct {
	docstore.Store

	mu     sync.Mutex
	calls  map[string]int
	faults map[string]error
}

// NewInstrumented wraps next.
func NewInstrumented(next docstore.Store) *Instrumented {
	return &Instrumented{
		Store:  next,
		calls:  make(map[string]int),
		faults: make(map[string]error),
	}
}

func key(op, collection string) string {
	return op + ":" + collection
}

// FailOn makes every op on collection return err until Reset.
func (s *Instrumented) FailOn(op, collection string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[key(op, collection)] = err
}

// Calls returns how many times op ran on collection.
func (s *Instrumented) Calls(op, collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[key(op, collection)]
}

// Writes returns the number of create, update and delete calls on collection.
func (s *Instrumented) Writes(collection string) int {
	return s.Calls(OpCreate, collection) + s.Calls(OpUpdatePartial, collection) + s.Calls(OpDelete, collection)
}

// Reads returns the number of read calls of any kind on collection.
func (s *Instrumented) Reads(collection string) int {
	n := 0
	for _, op := range []string{OpGet, OpGetMany, OpGetAll, OpQueryEqual, OpQueryIn, OpCountEqual} {
		n += s.Calls(op, collection)
	}
	return n
}

// Reset clears counters and faults.
func (s *Instrumented) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = make(map[string]int)
	s.faults = make(map[string]error)
}

func (s *Instrumented) track(op, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[key(op, collection)]++
	return s.faults[key(op, collection)]
}

func (s *Instrumented) Create(ctx context.Context, collection string, doc docstore.Document) (string, error) {
	if err := s.track(OpCreate, collection); err != nil {
		return "", err
	}
	return s.Store.Create(ctx, collection, doc)
}

func (s *Instrumented) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	if err := s.track(OpGet, collection); err != nil {
		return nil, err
	}
	return s.Store.Get(ctx, collection, id)
}

func (s *Instrumented) GetMany(ctx context.Context, collection string, ids []string) ([]docstore.Document, error) {
	if err := s.track(OpGetMany, collection); err != nil {
		return nil, err
	}
	return s.Store.GetMany(ctx, collection, ids)
}

func (s *Instrumented) GetAll(ctx context.Context, collection string) ([]docstore.Document, error) {
	if err := s.track(OpGetAll, collection); err != nil {
		return nil, err
	}
	return s.Store.GetAll(ctx, collection)
}

func (s *Instrumented) QueryEqual(ctx context.Context, collection, field string, value any) ([]docstore.Document, error) {
	if err := s.track(OpQueryEqual, collection); err != nil {
		return nil, err
	}
	return s.Store.QueryEqual(ctx, collection, field, value)
}

func (s *Instrumented) QueryIn(ctx context.Context, collection, field string, values []any) ([]docstore.Document, error) {
	if err := s.track(OpQueryIn, collection); err != nil {
		return nil, err
	}
	return s.Store.QueryIn(ctx, collection, field, values)
}

func (s *Instrumented) CountEqual(ctx context.Context, collection, field string, value any) (int, error) {
	if err := s.track(OpCountEqual, collection); err != nil {
		return 0, err
	}
	return s.Store.CountEqual(ctx, collection, field, value)
}

func (s *Instrumented) UpdatePartial(ctx context.Context, collection, id string, patch docstore.Document) error {
	if err := s.track(OpUpdatePartial, collection); err != nil {
		return err
	}
	return s.Store.UpdatePartial(ctx, collection, id, patch)
}

func (s *Instrumented) Delete(ctx context.Context, collection, id string) error {
	if err := s.track(OpDelete, collection); err != nil {
		return err
	}
	return s.Store.Delete(ctx, collection, id)
}
