// Package memory provides an in-process document store for development and tests.
package memory

import (
	"context"
	"sync"

	"procurement/internal/core/docstore"
	"procurement/internal/core/id"
)

// Compile-time check that Store implements docstore.Store.
var _ docstore.Store = (*Store)(nil)

// Store keeps collections in maps guarded by a RWMutex.
// Ids are UUIDv7 strings.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]docstore.Document
}

// New creates an empty Store.
func New() *Store {
	return &Store{collections: make(map[string]map[string]docstore.Document)}
}

func normalized(doc docstore.Document) docstore.Document {
	out := make(docstore.Document, len(doc))
	for k, v := range doc {
		if k == docstore.IDField {
			continue
		}
		out[k] = docstore.Normalize(v)
	}
	return out
}

func withID(id string, doc docstore.Document) docstore.Document {
	out := docstore.Clone(doc)
	out[docstore.IDField] = id
	return out
}

func matches(docID string, doc docstore.Document, field string, value any) bool {
	if field == docstore.IDField {
		return docstore.Equal(docID, value)
	}
	v, ok := doc[field]
	return ok && docstore.Equal(v, value)
}

func (s *Store) Create(ctx context.Context, collection string, doc docstore.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[collection]
	if !ok {
		coll = make(map[string]docstore.Document)
		s.collections[collection] = coll
	}
	newID := id.New()
	coll[newID] = normalized(doc)
	return newID, nil
}

func (s *Store) Get(ctx context.Context, collection, docID string) (docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][docID]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return withID(docID, doc), nil
}

func (s *Store) GetMany(ctx context.Context, collection string, ids []string) ([]docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll := s.collections[collection]
	out := make([]docstore.Document, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, docID := range ids {
		if _, dup := seen[docID]; dup {
			continue
		}
		seen[docID] = struct{}{}
		if doc, ok := coll[docID]; ok {
			out = append(out, withID(docID, doc))
		}
	}
	return out, nil
}

func (s *Store) GetAll(ctx context.Context, collection string) ([]docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll := s.collections[collection]
	out := make([]docstore.Document, 0, len(coll))
	for docID, doc := range coll {
		out = append(out, withID(docID, doc))
	}
	return out, nil
}

func (s *Store) QueryEqual(ctx context.Context, collection, field string, value any) ([]docstore.Document, error) {
	return s.QueryIn(ctx, collection, field, []any{value})
}

func (s *Store) QueryIn(ctx context.Context, collection, field string, values []any) ([]docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []docstore.Document
	for docID, doc := range s.collections[collection] {
		for _, v := range values {
			if matches(docID, doc, field, v) {
				out = append(out, withID(docID, doc))
				break
			}
		}
	}
	return out, nil
}

func (s *Store) CountEqual(ctx context.Context, collection, field string, value any) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for docID, doc := range s.collections[collection] {
		if matches(docID, doc, field, value) {
			n++
		}
	}
	return n, nil
}

func (s *Store) UpdatePartial(ctx context.Context, collection, docID string, patch docstore.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][docID]
	if !ok {
		return docstore.ErrNotFound
	}
	for k, v := range normalized(patch) {
		doc[k] = v
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, docID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.collections[collection], docID)
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

// Len returns the number of documents in a collection.
func (s *Store) Len(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}
