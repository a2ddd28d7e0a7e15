package persistence

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/soundfolio/internal/application/service"
)

// postgresTier is the durable tier: one JSONB row per key in tier_blobs.
type postgresTier struct {
	db *pgxpool.Pool
}

func NewPostgresTier(db *pgxpool.Pool) service.Tier {
	return &postgresTier{db: db}
}

func (t *postgresTier) Read(ctx context.Context, key string) ([]byte, bool, error) {
	query, args, err := psql.Select("value").
		From("tier_blobs").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, false, err
	}

	var value []byte
	if err := t.db.QueryRow(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

func (t *postgresTier) Write(ctx context.Context, key string, value []byte) error {
	query, args, err := psql.Insert("tier_blobs").
		Columns("key", "value", "updated_at").
		Values(key, value, sq.Expr("NOW()")).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return err
	}
	_, err = t.db.Exec(ctx, query, args...)
	return err
}
