// Package kvstore is the durable key-value layer beneath the content model.
// Values are opaque strings (JSON documents in practice); writes are
// last-write-wins upserts with no cross-key transactions.
package kvstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type entry struct {
	bun.BaseModel `bun:"table:kv,alias:kv"`

	Key       string    `bun:",pk"`
	Value     string    `bun:",notnull"`
	UpdatedAt time.Time `bun:",notnull"`
}

type Store struct {
	db *bun.DB
}

func New(db *bun.DB) *Store {
	return &Store{db}
}

// Load reads the value stored under key. The second return value is false
// when the key is absent.
func (s *Store) Load(ctx context.Context, key string) (string, bool, error) {
	e := &entry{}

	err := s.db.
		NewSelect().
		Model(e).
		Where("kv.key = ?", key).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, errors.WithStack(err)
	}

	return e.Value, true, nil
}

// Save writes the value under key, replacing any previous value.
func (s *Store) Save(ctx context.Context, key, value string) error {
	e := &entry{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}

	_, err := s.db.
		NewInsert().
		Model(e).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return errors.WithStack(err)
}

// Delete removes the key if present. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.
		NewDelete().
		Model((*entry)(nil)).
		Where("key = ?", key).
		Exec(ctx)
	return errors.WithStack(err)
}
