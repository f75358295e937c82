// Package audit keeps an append-only trail of mutations in the audit-log collection.
package audit

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/klauspost/compress/zstd"

	appctx "procurement/internal/core/context"
	"procurement/internal/core/docstore"
	"procurement/internal/domain"
	"procurement/pkg/logger"
)

// Collection is the document collection holding audit entries.
const Collection = "audit-log"

// DefaultCompressThreshold is the change payload size above which entries are compressed.
const DefaultCompressThreshold = 4 * 1024

// CompressionAlgo specifies the compression algorithm used.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// Entry is a single audit log entry.
type Entry struct {
	ID          string             `doc:"-" json:"id"`
	EntityType  string             `doc:"entityType" json:"entityType"`
	EntityID    string             `doc:"entityId" json:"entityId"`
	Action      domain.AuditAction `doc:"action" json:"action"`
	Actor       string             `doc:"actor" json:"actor,omitempty"`
	At          string             `doc:"at" json:"at"`
	Compression CompressionAlgo    `doc:"compression" json:"compression"`

	// Changes is JSON, or base64 of zstd-compressed JSON when Compression is zstd.
	// History always returns it decompressed.
	Changes string `doc:"changes" json:"changes,omitempty"`
}

// Time parses At. The zero time is returned for malformed values.
func (e Entry) Time() time.Time {
	t, _ := time.Parse(time.RFC3339Nano, e.At)
	return t
}

// DecodeChanges unmarshals Changes into v.
func (e Entry) DecodeChanges(v any) error {
	if e.Changes == "" {
		return nil
	}
	return json.Unmarshal([]byte(e.Changes), v)
}

// Recorder writes entries through a document store.
type Recorder struct {
	store             docstore.Store
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
	now               func() time.Time
}

var _ domain.AuditRecorder = (*Recorder)(nil)

// NewRecorder creates a Recorder.
func NewRecorder(store docstore.Store) (*Recorder, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &Recorder{
		store:             store,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: DefaultCompressThreshold,
		now:               time.Now,
	}, nil
}

// WithCompressThreshold overrides the compression threshold in bytes.
func (r *Recorder) WithCompressThreshold(n int) *Recorder {
	r.compressThreshold = n
	return r
}

// Close releases the zstd codecs.
func (r *Recorder) Close() {
	_ = r.encoder.Close()
	r.decoder.Close()
}

// Record appends an entry. Failures are logged and never returned.
func (r *Recorder) Record(ctx context.Context, entityType, entityID string, action domain.AuditAction, changes any) {
	if err := r.record(ctx, entityType, entityID, action, changes); err != nil {
		logger.Warn(ctx, "audit entry not recorded",
			"entity", entityType, "id", entityID, "action", string(action), "error", err)
	}
}

func (r *Recorder) record(ctx context.Context, entityType, entityID string, action domain.AuditAction, changes any) error {
	entry := Entry{
		EntityType:  entityType,
		EntityID:    entityID,
		Action:      action,
		Actor:       appctx.GetUserEmail(ctx),
		At:          r.now().UTC().Format(time.RFC3339Nano),
		Compression: CompressionNone,
	}

	if changes != nil {
		raw, err := json.Marshal(changes)
		if err != nil {
			return fmt.Errorf("marshal changes: %w", err)
		}
		entry.Changes = string(raw)

		// Compress large changes
		if len(raw) > r.compressThreshold {
			compressed := r.encoder.EncodeAll(raw, nil)
			entry.Changes = base64.StdEncoding.EncodeToString(compressed)
			entry.Compression = CompressionZstd
		}
	}

	if _, err := r.store.Create(ctx, Collection, docstore.Encode(&entry)); err != nil {
		return fmt.Errorf("write audit entry: %w", err)
	}
	return nil
}

// History returns the entries of one entity, oldest first, with changes decompressed.
func (r *Recorder) History(ctx context.Context, entityType, entityID string) ([]Entry, error) {
	docs, err := r.store.QueryEqual(ctx, Collection, "entityId", entityID)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}

	entries := make([]Entry, 0, len(docs))
	for _, doc := range docs {
		var e Entry
		if err := docstore.Decode(doc, &e); err != nil {
			return nil, fmt.Errorf("decode entry %s: %w", doc.ID(), err)
		}
		if e.EntityType != entityType {
			continue
		}
		e.ID = doc.ID()

		// Decompress if needed
		if e.Compression == CompressionZstd {
			compressed, err := base64.StdEncoding.DecodeString(e.Changes)
			if err != nil {
				return nil, fmt.Errorf("decode entry %s: %w", e.ID, err)
			}
			decompressed, err := r.decoder.DecodeAll(compressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress entry %s: %w", e.ID, err)
			}
			e.Changes = string(decompressed)
			e.Compression = CompressionNone
		}

		entries = append(entries, e)
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		return a.Time().Compare(b.Time())
	})
	return entries, nil
}
