package postgres

import "context"

// DocumentsTable holds every collection.
const DocumentsTable = "documents"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
	collection  TEXT        NOT NULL,
	id          TEXT        NOT NULL,
	data        JSONB       NOT NULL DEFAULT '{}'::jsonb,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS documents_data_gin ON documents USING GIN (data jsonb_path_ops);
`

// EnsureSchema creates the documents table and its containment index.
func (s *Store) EnsureSchema(ctx context.Context) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		_, err := s.txManager.GetQuerier(ctx).Exec(ctx, schemaSQL)
		return err
	})
}
