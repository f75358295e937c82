// Package document_repo implements the domain repositories over any docstore.Store.
// Each repository is bound to one collection and holds no other state.
package document_repo

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"procurement/internal/core/apperror"
	"procurement/internal/core/docstore"
	"procurement/internal/core/entity"
	"procurement/pkg/logger"
)

var tracer = otel.Tracer("procurement/document_repo")

// deleteConcurrency bounds the parallel deletes of DeleteByField.
const deleteConcurrency = 8

// BaseDocumentRepo provides the generic CRUD and query operations.
// Embed this in specific repositories.
type BaseDocumentRepo[T entity.Entity] struct {
	store      docstore.Store
	collection string
	newFn      func() T
}

// NewBaseDocumentRepo creates a new base repository bound to collection.
func NewBaseDocumentRepo[T entity.Entity](
	store docstore.Store,
	collection string,
	newFn func() T,
) *BaseDocumentRepo[T] {
	return &BaseDocumentRepo[T]{
		store:      store,
		collection: collection,
		newFn:      newFn,
	}
}

// Collection returns the bound collection name.
func (r *BaseDocumentRepo[T]) Collection() string {
	return r.collection
}

func (r *BaseDocumentRepo[T]) startSpan(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs,
		attribute.String("db.collection", r.collection),
		attribute.String("db.operation", op),
	)
	return tracer.Start(ctx, r.collection+"."+op, trace.WithAttributes(attrs...))
}

// fail records err on the span and wraps it as a transport failure.
// AppErrors pass through unchanged.
func (r *BaseDocumentRepo[T]) fail(span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewTransport(op, r.collection, err)
}

func (r *BaseDocumentRepo[T]) decode(doc docstore.Document) (T, error) {
	item := r.newFn()
	if err := docstore.Decode(doc, item); err != nil {
		var zero T
		return zero, fmt.Errorf("decode %s/%s: %w", r.collection, doc.ID(), err)
	}
	item.SetID(doc.ID())
	return item, nil
}

func (r *BaseDocumentRepo[T]) decodeAll(docs []docstore.Document) ([]T, error) {
	items := make([]T, 0, len(docs))
	for _, doc := range docs {
		item, err := r.decode(doc)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Create writes every stored field of item and sets the assigned id on it.
func (r *BaseDocumentRepo[T]) Create(ctx context.Context, item T) (string, error) {
	ctx, span := r.startSpan(ctx, "create")
	defer span.End()

	doc := docstore.Encode(item)
	newID, err := r.store.Create(ctx, r.collection, doc)
	if err != nil {
		return "", r.fail(span, "create", err)
	}
	item.SetID(newID)

	logger.Debug(ctx, "document created", "collection", r.collection, "id", newID)
	return newID, nil
}

// Update merges the set entries of patch into the document.
// An empty patch returns without touching the store.
func (r *BaseDocumentRepo[T]) Update(ctx context.Context, id string, patch any) error {
	fields := docstore.EncodePatch(patch)
	if len(fields) == 0 {
		logger.Debug(ctx, "empty patch skipped", "collection", r.collection, "id", id)
		return nil
	}

	ctx, span := r.startSpan(ctx, "update", attribute.Int("db.fields", len(fields)))
	defer span.End()

	if err := r.store.UpdatePartial(ctx, r.collection, id, fields); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return apperror.NewNotFound(r.collection, id)
		}
		return r.fail(span, "update", err)
	}
	return nil
}

// Delete removes the document without checking that it exists.
func (r *BaseDocumentRepo[T]) Delete(ctx context.Context, id string) error {
	ctx, span := r.startSpan(ctx, "delete")
	defer span.End()

	if err := r.store.Delete(ctx, r.collection, id); err != nil {
		return r.fail(span, "delete", err)
	}
	return nil
}

// GetAll returns every entity, unordered.
func (r *BaseDocumentRepo[T]) GetAll(ctx context.Context) ([]T, error) {
	ctx, span := r.startSpan(ctx, "get_all")
	defer span.End()

	docs, err := r.store.GetAll(ctx, r.collection)
	if err != nil {
		return nil, r.fail(span, "get_all", err)
	}
	return r.decodeAll(docs)
}

// GetByID returns the zero value (nil) and no error when the document is absent.
func (r *BaseDocumentRepo[T]) GetByID(ctx context.Context, id string) (T, error) {
	var zero T
	if id == "" {
		return zero, nil
	}

	ctx, span := r.startSpan(ctx, "get")
	defer span.End()

	doc, err := r.store.Get(ctx, r.collection, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return zero, nil
	}
	if err != nil {
		return zero, r.fail(span, "get", err)
	}
	return r.decode(doc)
}

// Exists reports whether a document with id exists.
func (r *BaseDocumentRepo[T]) Exists(ctx context.Context, id string) (bool, error) {
	item, err := r.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return !entity.IsNil(item), nil
}

// GetByIDs fetches several ids in one store call. Missing ids are skipped,
// duplicates and empty ids are ignored, and order is not guaranteed.
func (r *BaseDocumentRepo[T]) GetByIDs(ctx context.Context, ids []string) ([]T, error) {
	keys := uniqueNonEmpty(ids)
	if len(keys) == 0 {
		return []T{}, nil
	}

	ctx, span := r.startSpan(ctx, "get_many", attribute.Int("db.keys", len(keys)))
	defer span.End()

	docs, err := r.store.GetMany(ctx, r.collection, keys)
	if err != nil {
		return nil, r.fail(span, "get_many", err)
	}
	return r.decodeAll(docs)
}

// GetByField returns entities where field == value.
func (r *BaseDocumentRepo[T]) GetByField(ctx context.Context, field string, value any) ([]T, error) {
	ctx, span := r.startSpan(ctx, "query", attribute.String("db.field", field))
	defer span.End()

	docs, err := r.store.QueryEqual(ctx, r.collection, field, docstore.Normalize(value))
	if err != nil {
		return nil, r.fail(span, "query", err)
	}
	return r.decodeAll(docs)
}

// GetByFieldIn returns entities where field equals any of values, in one store call.
func (r *BaseDocumentRepo[T]) GetByFieldIn(ctx context.Context, field string, values []any) ([]T, error) {
	if len(values) == 0 {
		return []T{}, nil
	}

	ctx, span := r.startSpan(ctx, "query_in",
		attribute.String("db.field", field),
		attribute.Int("db.keys", len(values)),
	)
	defer span.End()

	normalized := make([]any, len(values))
	for i, v := range values {
		normalized[i] = docstore.Normalize(v)
	}

	docs, err := r.store.QueryIn(ctx, r.collection, field, normalized)
	if err != nil {
		return nil, r.fail(span, "query_in", err)
	}
	return r.decodeAll(docs)
}

// GetUniqueByField returns the only match, the zero value when nothing matches,
// and a duplicate AppError when more than one document matches.
func (r *BaseDocumentRepo[T]) GetUniqueByField(ctx context.Context, field string, value any) (T, error) {
	var zero T

	items, err := r.GetByField(ctx, field, value)
	if err != nil {
		return zero, err
	}

	switch len(items) {
	case 0:
		return zero, nil
	case 1:
		return items[0], nil
	default:
		logger.Warn(ctx, "unique field has duplicates",
			"collection", r.collection, "field", field, "matches", len(items))
		return zero, apperror.NewDuplicate(r.collection, field, fmt.Sprint(value)).
			WithDetail("matches", len(items))
	}
}

// CountByField counts matches on the store side.
func (r *BaseDocumentRepo[T]) CountByField(ctx context.Context, field string, value any) (int, error) {
	ctx, span := r.startSpan(ctx, "count", attribute.String("db.field", field))
	defer span.End()

	n, err := r.store.CountEqual(ctx, r.collection, field, docstore.Normalize(value))
	if err != nil {
		return 0, r.fail(span, "count", err)
	}
	return n, nil
}

// DeleteByField fetches the matches and deletes them concurrently.
// The first failure is returned after all started deletes finish.
func (r *BaseDocumentRepo[T]) DeleteByField(ctx context.Context, field string, value any) (int, error) {
	items, err := r.GetByField(ctx, field, value)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(deleteConcurrency)
	for _, item := range items {
		docID := item.GetID()
		g.Go(func() error {
			return r.Delete(gctx, docID)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	logger.Debug(ctx, "documents deleted by field",
		"collection", r.collection, "field", field, "deleted", len(items))
	return len(items), nil
}

func uniqueNonEmpty(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
