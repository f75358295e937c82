package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"procurement/internal/core/docstore"
	"procurement/internal/core/id"
)

// Compile-time check that Store implements docstore.Store.
var _ docstore.Store = (*Store)(nil)

// Store keeps documents as JSONB rows. Equality queries use containment
// (data @> '{"field": value}') so the GIN index serves them.
type Store struct {
	pool      *Pool
	txManager *TxManager
	inserter  *BatchInserter
}

// NewStore creates a Store over pool.
func NewStore(pool *Pool) *Store {
	txm := NewTxManager(pool)
	return &Store{
		pool:      pool,
		txManager: txm,
		inserter:  NewBatchInserter(txm),
	}
}

type documentRow struct {
	ID   string `db:"id"`
	Data []byte `db:"data"`
}

func (r documentRow) document() (docstore.Document, error) {
	doc := docstore.Document{}
	if err := json.Unmarshal(r.Data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document %s: %w", r.ID, err)
	}
	doc[docstore.IDField] = r.ID
	return doc, nil
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func startSpan(ctx context.Context, op, collection string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "postgres."+op, trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
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

func marshalData(doc docstore.Document) ([]byte, error) {
	data := make(map[string]any, len(doc))
	for k, v := range doc {
		if k == docstore.IDField {
			continue
		}
		data[k] = docstore.Normalize(v)
	}
	return json.Marshal(data)
}

// matchOne builds the predicate for field == value.
func matchOne(field string, value any) (squirrel.Sqlizer, error) {
	if field == docstore.IDField {
		return squirrel.Eq{"id": fmt.Sprint(docstore.Normalize(value))}, nil
	}
	probe, err := json.Marshal(map[string]any{field: docstore.Normalize(value)})
	if err != nil {
		return nil, fmt.Errorf("marshal filter: %w", err)
	}
	return squirrel.Expr("data @> ?::jsonb", string(probe)), nil
}

func (s *Store) selectDocs(ctx context.Context, q squirrel.SelectBuilder) ([]docstore.Document, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []documentRow
	if err := pgxscan.Select(ctx, s.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, err
	}

	docs := make([]docstore.Document, 0, len(rows))
	for _, r := range rows {
		doc, err := r.document()
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *Store) selectFrom(collection string) squirrel.SelectBuilder {
	return builder().
		Select("id", "data").
		From(DocumentsTable).
		Where(squirrel.Eq{"collection": collection})
}

func (s *Store) Create(ctx context.Context, collection string, doc docstore.Document) (string, error) {
	ctx, span := startSpan(ctx, "create", collection)
	defer span.End()

	data, err := marshalData(doc)
	if err != nil {
		return "", fail(span, err)
	}

	newID := id.New()
	sql, args, err := builder().
		Insert(DocumentsTable).
		Columns("collection", "id", "data").
		Values(collection, newID, squirrel.Expr("?::jsonb", string(data))).
		ToSql()
	if err != nil {
		return "", fail(span, fmt.Errorf("build insert: %w", err))
	}

	if _, err := s.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return "", fail(span, fmt.Errorf("insert %s: %w", collection, err))
	}
	return newID, nil
}

// Import bulk-loads documents with COPY in one transaction and returns their ids
// in input order.
func (s *Store) Import(ctx context.Context, collection string, docs []docstore.Document) ([]string, error) {
	ctx, span := startSpan(ctx, "import", collection)
	defer span.End()

	ids := make([]string, len(docs))
	rows := make([][]any, len(docs))
	for i, doc := range docs {
		data, err := marshalData(doc)
		if err != nil {
			return nil, fail(span, err)
		}
		ids[i] = id.New()
		rows[i] = []any{collection, ids[i], data}
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		_, err := s.inserter.CopyFromSlice(ctx, DocumentsTable, []string{"collection", "id", "data"}, rows)
		return err
	})
	if err != nil {
		return nil, fail(span, fmt.Errorf("copy into %s: %w", collection, err))
	}
	return ids, nil
}

func (s *Store) Get(ctx context.Context, collection, docID string) (docstore.Document, error) {
	ctx, span := startSpan(ctx, "get", collection)
	defer span.End()

	sql, args, err := s.selectFrom(collection).Where(squirrel.Eq{"id": docID}).ToSql()
	if err != nil {
		return nil, fail(span, fmt.Errorf("build select: %w", err))
	}

	var row documentRow
	if err := pgxscan.Get(ctx, s.txManager.GetQuerier(ctx), &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, docstore.ErrNotFound
		}
		return nil, fail(span, err)
	}
	return row.document()
}

func (s *Store) GetMany(ctx context.Context, collection string, ids []string) ([]docstore.Document, error) {
	if len(ids) == 0 {
		return []docstore.Document{}, nil
	}
	ctx, span := startSpan(ctx, "get_many", collection)
	defer span.End()

	docs, err := s.selectDocs(ctx, s.selectFrom(collection).Where(squirrel.Eq{"id": ids}))
	if err != nil {
		return nil, fail(span, err)
	}
	return docs, nil
}

func (s *Store) GetAll(ctx context.Context, collection string) ([]docstore.Document, error) {
	ctx, span := startSpan(ctx, "get_all", collection)
	defer span.End()

	docs, err := s.selectDocs(ctx, s.selectFrom(collection))
	if err != nil {
		return nil, fail(span, err)
	}
	return docs, nil
}

func (s *Store) QueryEqual(ctx context.Context, collection, field string, value any) ([]docstore.Document, error) {
	return s.QueryIn(ctx, collection, field, []any{value})
}

func (s *Store) QueryIn(ctx context.Context, collection, field string, values []any) ([]docstore.Document, error) {
	if len(values) == 0 {
		return []docstore.Document{}, nil
	}
	ctx, span := startSpan(ctx, "query", collection)
	defer span.End()
	span.SetAttributes(attribute.String("db.field", field), attribute.Int("db.values", len(values)))

	match := make(squirrel.Or, 0, len(values))
	for _, v := range values {
		pred, err := matchOne(field, v)
		if err != nil {
			return nil, fail(span, err)
		}
		match = append(match, pred)
	}

	docs, err := s.selectDocs(ctx, s.selectFrom(collection).Where(match))
	if err != nil {
		return nil, fail(span, err)
	}
	return docs, nil
}

func (s *Store) CountEqual(ctx context.Context, collection, field string, value any) (int, error) {
	ctx, span := startSpan(ctx, "count", collection)
	defer span.End()

	pred, err := matchOne(field, value)
	if err != nil {
		return 0, fail(span, err)
	}
	sql, args, err := builder().
		Select("COUNT(*)").
		From(DocumentsTable).
		Where(squirrel.Eq{"collection": collection}).
		Where(pred).
		ToSql()
	if err != nil {
		return 0, fail(span, fmt.Errorf("build count: %w", err))
	}

	var n int
	if err := s.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fail(span, fmt.Errorf("count %s: %w", collection, err))
	}
	return n, nil
}

// UpdatePartial merges patch into the stored JSON with the || operator.
func (s *Store) UpdatePartial(ctx context.Context, collection, docID string, patch docstore.Document) error {
	ctx, span := startSpan(ctx, "update", collection)
	defer span.End()

	data, err := marshalData(patch)
	if err != nil {
		return fail(span, err)
	}

	sql, args, err := builder().
		Update(DocumentsTable).
		Set("data", squirrel.Expr("data || ?::jsonb", string(data))).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"collection": collection, "id": docID}).
		ToSql()
	if err != nil {
		return fail(span, fmt.Errorf("build update: %w", err))
	}

	tag, err := s.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fail(span, fmt.Errorf("update %s/%s: %w", collection, docID, err))
	}
	if tag.RowsAffected() == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, docID string) error {
	ctx, span := startSpan(ctx, "delete", collection)
	defer span.End()

	sql, args, err := builder().
		Delete(DocumentsTable).
		Where(squirrel.Eq{"collection": collection, "id": docID}).
		ToSql()
	if err != nil {
		return fail(span, fmt.Errorf("build delete: %w", err))
	}

	if _, err := s.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fail(span, fmt.Errorf("delete %s/%s: %w", collection, docID, err))
	}
	return nil
}

// Close logs pool statistics and closes the pool.
func (s *Store) Close() error {
	s.pool.LogStats(context.Background())
	s.pool.Close()
	return nil
}
