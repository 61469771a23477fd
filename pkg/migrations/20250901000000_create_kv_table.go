package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`
			CREATE TABLE kv (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
			)
`)
		return errors.WithStack(err)
	}
	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`DROP TABLE kv`)
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
