// Package record persists comparison records and the text dedup index.
package record

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aditya0072001/text-similarity-detection-api/internal/db"
	"github.com/aditya0072001/text-similarity-detection-api/internal/domain"
)

var (
	recordKeyPrefix = domain.KeyPrefix + "record:"
	textKeyPrefix   = domain.KeyPrefix + "text:"
)

// store is the consumer interface for records (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetNX(ctx context.Context, key string, value []byte) (bool, error)
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements the record repository over a key-value store.
//
// Layout:
//
//	record:<uuid>   record JSON
//	text:<sha256>   record id, keyed by hash of the normalized original text
//
// The text key is claimed with SET NX, so two writers racing on the same
// text converge on a single record.
type Repo struct {
	store store
}

// New creates a record repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Lookup returns the record previously stored for the given normalized
// text, if any.
func (r *Repo) Lookup(ctx context.Context, text string) (domain.Record, bool, error) {
	idRaw, err := r.store.Get(ctx, textKey(text))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Record{}, false, nil
		}
		return domain.Record{}, false, fmt.Errorf("get text index: %w: %w", domain.ErrStore, err)
	}

	rec, err := r.Get(ctx, string(idRaw))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Stale index entry: the record it points at is gone.
			return domain.Record{}, false, nil
		}
		return domain.Record{}, false, err
	}
	return rec, true, nil
}

// Insert assigns the record an ID and creation time and persists it. The
// dedup index on OriginalText is claimed with SET NX; when another writer
// already claimed it, the own record is discarded and the winner's record
// is returned. The second return value reports whether rec itself was kept.
func (r *Repo) Insert(ctx context.Context, rec domain.Record) (domain.Record, bool, error) {
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now().UTC()

	data, err := marshalRecord(rec)
	if err != nil {
		return domain.Record{}, false, fmt.Errorf("marshal record: %w", err)
	}

	if err := r.store.Set(ctx, recordKey(rec.ID), data); err != nil {
		return domain.Record{}, false, fmt.Errorf("set record %s: %w: %w", rec.ID, domain.ErrStore, err)
	}

	ok, err := r.store.SetNX(ctx, textKey(rec.OriginalText), []byte(rec.ID))
	if err != nil {
		return domain.Record{}, false, fmt.Errorf("claim text index: %w: %w", domain.ErrStore, err)
	}
	if ok {
		return rec, true, nil
	}

	// Lost the race: drop the orphan and return the winner's record.
	if err := r.store.Del(ctx, recordKey(rec.ID)); err != nil {
		return domain.Record{}, false, fmt.Errorf("del orphan record %s: %w: %w", rec.ID, domain.ErrStore, err)
	}

	winner, found, err := r.Lookup(ctx, rec.OriginalText)
	if err != nil {
		return domain.Record{}, false, err
	}
	if !found {
		// Winner vanished between SET NX and the read-back. Extremely
		// unlikely; surface it rather than looping.
		return domain.Record{}, false, fmt.Errorf("text index winner missing: %w", domain.ErrStore)
	}
	return winner, false, nil
}

// Get returns a record by ID.
func (r *Repo) Get(ctx context.Context, id string) (domain.Record, error) {
	raw, err := r.store.Get(ctx, recordKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Record{}, fmt.Errorf("record %s: %w", id, domain.ErrNotFound)
		}
		return domain.Record{}, fmt.Errorf("get record %s: %w: %w", id, domain.ErrStore, err)
	}

	rec, err := unmarshalRecord(raw)
	if err != nil {
		return domain.Record{}, fmt.Errorf("unmarshal record %s: %w", id, err)
	}
	return rec, nil
}

// List returns all stored records. Keys deleted between the scan and the
// read are skipped.
func (r *Repo) List(ctx context.Context) ([]domain.Record, error) {
	keys, err := r.store.Scan(ctx, recordKeyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan records: %w: %w", domain.ErrStore, err)
	}

	records := make([]domain.Record, 0, len(keys))
	for _, key := range keys {
		raw, err := r.store.Get(ctx, key)
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				continue
			}
			return nil, fmt.Errorf("get record %s: %w: %w", key, domain.ErrStore, err)
		}
		rec, err := unmarshalRecord(raw)
		if err != nil {
			return nil, fmt.Errorf("unmarshal record %s: %w", key, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func recordKey(id string) string {
	return recordKeyPrefix + id
}

func textKey(text string) string {
	h := sha256.Sum256([]byte(text))
	return textKeyPrefix + hex.EncodeToString(h[:])
}
