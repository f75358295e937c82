// Package firestore implements the document store on Cloud Firestore, the
// backend existing procurement data lives in.
package firestore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	grpccodes "google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"procurement/internal/core/docstore"
)

var tracer = otel.Tracer("procurement/firestore")

// Compile-time check that Store implements docstore.Store.
var _ docstore.Store = (*Store)(nil)

// Firestore limits.
const (
	maxInValues  = 30
	maxGetAllRef = 100
)

// Config holds client configuration.
type Config struct {
	ProjectID string
	// CredentialsFile is a service account key. Empty uses application default
	// credentials, or the emulator when FIRESTORE_EMULATOR_HOST is set.
	CredentialsFile string
}

// Store adapts a Firestore client to docstore.Store.
type Store struct {
	client *firestore.Client
}

// New opens a Firestore client.
func New(ctx context.Context, cfg Config) (*Store, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return &Store{client: client}, nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *firestore.Client) *Store {
	return &Store{client: client}
}

func startSpan(ctx context.Context, op, collection string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "firestore."+op, trace.WithAttributes(
		attribute.String("db.system", "firestore"),
		attribute.String("db.collection", collection),
		attribute.String("db.operation", op),
	))
}

// fail records err on the span and marks it as a transport failure.
func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return fmt.Errorf("%w: %w", docstore.ErrTransport, err)
}

func isNotFound(err error) bool {
	return status.Code(err) == grpccodes.NotFound
}

func toDocument(snap *firestore.DocumentSnapshot) docstore.Document {
	data := snap.Data()
	doc := make(docstore.Document, len(data)+1)
	for k, v := range data {
		doc[k] = docstore.Normalize(v)
	}
	doc[docstore.IDField] = snap.Ref.ID
	return doc
}

func toData(doc docstore.Document) map[string]any {
	data := make(map[string]any, len(doc))
	for k, v := range doc {
		if k == docstore.IDField {
			continue
		}
		data[k] = docstore.Normalize(v)
	}
	return data
}

func collectAll(it *firestore.DocumentIterator) ([]docstore.Document, error) {
	defer it.Stop()
	var docs []docstore.Document
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return docs, nil
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, toDocument(snap))
	}
}

// where builds field == value, mapping the id pseudo-field to the document name.
func (s *Store) where(collection, field string, op string, value any) firestore.Query {
	col := s.client.Collection(collection)
	if field == docstore.IDField {
		switch v := value.(type) {
		case []any:
			refs := make([]*firestore.DocumentRef, len(v))
			for i, id := range v {
				refs[i] = col.Doc(fmt.Sprint(id))
			}
			return col.Where(firestore.DocumentID, op, refs)
		default:
			return col.Where(firestore.DocumentID, op, col.Doc(fmt.Sprint(v)))
		}
	}
	return col.WherePath(firestore.FieldPath{field}, op, value)
}

func (s *Store) Create(ctx context.Context, collection string, doc docstore.Document) (string, error) {
	ctx, span := startSpan(ctx, "create", collection)
	defer span.End()

	ref, _, err := s.client.Collection(collection).Add(ctx, toData(doc))
	if err != nil {
		return "", fail(span, fmt.Errorf("add to %s: %w", collection, err))
	}
	return ref.ID, nil
}

func (s *Store) Get(ctx context.Context, collection, docID string) (docstore.Document, error) {
	ctx, span := startSpan(ctx, "get", collection)
	defer span.End()

	snap, err := s.client.Collection(collection).Doc(docID).Get(ctx)
	if isNotFound(err) {
		return nil, docstore.ErrNotFound
	}
	if err != nil {
		return nil, fail(span, fmt.Errorf("get %s/%s: %w", collection, docID, err))
	}
	return toDocument(snap), nil
}

// GetMany reads the references in batches; missing documents are skipped.
func (s *Store) GetMany(ctx context.Context, collection string, ids []string) ([]docstore.Document, error) {
	ctx, span := startSpan(ctx, "get_many", collection)
	defer span.End()

	col := s.client.Collection(collection)
	docs := make([]docstore.Document, 0, len(ids))
	for start := 0; start < len(ids); start += maxGetAllRef {
		end := min(start+maxGetAllRef, len(ids))
		refs := make([]*firestore.DocumentRef, 0, end-start)
		for _, id := range ids[start:end] {
			refs = append(refs, col.Doc(id))
		}

		snaps, err := s.client.GetAll(ctx, refs)
		if err != nil {
			return nil, fail(span, fmt.Errorf("get all %s: %w", collection, err))
		}
		for _, snap := range snaps {
			if snap.Exists() {
				docs = append(docs, toDocument(snap))
			}
		}
	}
	return docs, nil
}

func (s *Store) GetAll(ctx context.Context, collection string) ([]docstore.Document, error) {
	ctx, span := startSpan(ctx, "get_all", collection)
	defer span.End()

	docs, err := collectAll(s.client.Collection(collection).Documents(ctx))
	if err != nil {
		return nil, fail(span, fmt.Errorf("list %s: %w", collection, err))
	}
	return docs, nil
}

func (s *Store) QueryEqual(ctx context.Context, collection, field string, value any) ([]docstore.Document, error) {
	ctx, span := startSpan(ctx, "query", collection)
	defer span.End()
	span.SetAttributes(attribute.String("db.field", field))

	docs, err := collectAll(s.where(collection, field, "==", docstore.Normalize(value)).Documents(ctx))
	if err != nil {
		return nil, fail(span, fmt.Errorf("query %s.%s: %w", collection, field, err))
	}
	return docs, nil
}

// QueryIn splits values into chunks of the "in" operator limit.
func (s *Store) QueryIn(ctx context.Context, collection, field string, values []any) ([]docstore.Document, error) {
	ctx, span := startSpan(ctx, "query_in", collection)
	defer span.End()
	span.SetAttributes(attribute.String("db.field", field), attribute.Int("db.values", len(values)))

	seen := make(map[string]struct{})
	var docs []docstore.Document
	for start := 0; start < len(values); start += maxInValues {
		end := min(start+maxInValues, len(values))
		chunk := make([]any, 0, end-start)
		for _, v := range values[start:end] {
			chunk = append(chunk, docstore.Normalize(v))
		}

		found, err := collectAll(s.where(collection, field, "in", chunk).Documents(ctx))
		if err != nil {
			return nil, fail(span, fmt.Errorf("query %s.%s in: %w", collection, field, err))
		}
		for _, doc := range found {
			if _, dup := seen[doc.ID()]; dup {
				continue
			}
			seen[doc.ID()] = struct{}{}
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// CountEqual runs a server-side count aggregation.
func (s *Store) CountEqual(ctx context.Context, collection, field string, value any) (int, error) {
	ctx, span := startSpan(ctx, "count", collection)
	defer span.End()

	q := s.where(collection, field, "==", docstore.Normalize(value))
	result, err := q.NewAggregationQuery().WithCount("count").Get(ctx)
	if err != nil {
		return 0, fail(span, fmt.Errorf("count %s.%s: %w", collection, field, err))
	}

	v, ok := result["count"].(*firestorepb.Value)
	if !ok {
		return 0, fail(span, fmt.Errorf("count %s.%s: unexpected result %T", collection, field, result["count"]))
	}
	return int(v.GetIntegerValue()), nil
}

// UpdatePartial sets only the patched top-level fields.
func (s *Store) UpdatePartial(ctx context.Context, collection, docID string, patch docstore.Document) error {
	ctx, span := startSpan(ctx, "update", collection)
	defer span.End()

	updates := make([]firestore.Update, 0, len(patch))
	for k, v := range toData(patch) {
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: v})
	}
	if len(updates) == 0 {
		return nil
	}

	_, err := s.client.Collection(collection).Doc(docID).Update(ctx, updates)
	if isNotFound(err) {
		return docstore.ErrNotFound
	}
	if err != nil {
		return fail(span, fmt.Errorf("update %s/%s: %w", collection, docID, err))
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, docID string) error {
	ctx, span := startSpan(ctx, "delete", collection)
	defer span.End()

	if _, err := s.client.Collection(collection).Doc(docID).Delete(ctx); err != nil {
		return fail(span, fmt.Errorf("delete %s/%s: %w", collection, docID, err))
	}
	return nil
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}
