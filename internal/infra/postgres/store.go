package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"quizzes-service/internal/app"
)

// Store implements app.Store on two Postgres tables created by the migrations
// package: kv_records for scalar records and kv_set_members for sets.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.pool.QueryRow(ctx, `SELECT value FROM kv_records WHERE key=$1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, app.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO kv_records (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value`, key, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// SetIfAbsent is atomic through the primary key on kv_records.
func (s *Store) SetIfAbsent(ctx context.Context, key string, value []byte) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO kv_records (key, value) VALUES ($1, $2) ON CONFLICT (key) DO NOTHING`, key, value)
	if err != nil {
		return false, fmt.Errorf("set if absent %s: %w", key, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM kv_records WHERE key=$1`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) AddToSet(ctx context.Context, setKey, member string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO kv_set_members (set_key, member) VALUES ($1, $2) ON CONFLICT DO NOTHING`, setKey, member)
	if err != nil {
		return fmt.Errorf("add to set %s: %w", setKey, err)
	}
	return nil
}

func (s *Store) RemoveFromSet(ctx context.Context, setKey, member string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM kv_set_members WHERE set_key=$1 AND member=$2`, setKey, member)
	if err != nil {
		return fmt.Errorf("remove from set %s: %w", setKey, err)
	}
	return nil
}

func (s *Store) SetSize(ctx context.Context, setKey string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM kv_set_members WHERE set_key=$1`, setKey).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("set size %s: %w", setKey, err)
	}
	return n, nil
}

func (s *Store) SetMembers(ctx context.Context, setKey string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT member FROM kv_set_members WHERE set_key=$1`, setKey)
	if err != nil {
		return nil, fmt.Errorf("set members %s: %w", setKey, err)
	}
	return collectStrings(rows)
}

func (s *Store) ScanKeys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT key FROM kv_records WHERE starts_with(key, $1)`, prefix)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", prefix, err)
	}
	return collectStrings(rows)
}

func collectStrings(rows pgx.Rows) ([]string, error) {
	defer rows.Close()
	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
