package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Dialect holds the placeholder style of a database/sql driver.
type Dialect int

const (
	DialectPostgres Dialect = iota
	DialectSQLite
)

type queries struct {
	get    string
	insert string
	update string
}

var dialectQueries = map[Dialect]queries{
	DialectPostgres: {
		get: `SELECT value, version FROM kv_slots WHERE key = $1`,
		insert: `
			INSERT INTO kv_slots (key, value, version, updated_at)
			VALUES ($1, $2, 1, $3)
			ON CONFLICT (key) DO NOTHING`,
		update: `
			UPDATE kv_slots
			SET value = $1, version = version + 1, updated_at = $2
			WHERE key = $3 AND version = $4`,
	},
	DialectSQLite: {
		get: `SELECT value, version FROM kv_slots WHERE key = ?`,
		insert: `
			INSERT INTO kv_slots (key, value, version, updated_at)
			VALUES (?, ?, 1, ?)
			ON CONFLICT (key) DO NOTHING`,
		update: `
			UPDATE kv_slots
			SET value = ?, version = version + 1, updated_at = ?
			WHERE key = ? AND version = ?`,
	},
}

// SQLStore keeps slots in the kv_slots table created by the database migrations.
type SQLStore struct {
	db *sql.DB
	q  queries
}

func NewSQL(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, q: dialectQueries[dialect]}
}

func (s *SQLStore) Get(ctx context.Context, key string) (Slot, error) {
	var (
		value   string
		version int64
	)

	err := s.db.QueryRowContext(ctx, s.q.get, key).Scan(&value, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return Slot{}, nil
	}

	if err != nil {
		return Slot{}, fmt.Errorf("getting slot: %w", err)
	}

	return Slot{Value: []byte(value), Version: version}, nil
}

func (s *SQLStore) Put(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error) {
	now := time.Now().UnixMilli()

	var (
		res sql.Result
		err error
	)

	if expectedVersion == 0 {
		res, err = s.db.ExecContext(ctx, s.q.insert, key, string(value), now)
	} else {
		res, err = s.db.ExecContext(ctx, s.q.update, string(value), now, key, expectedVersion)
	}

	if err != nil {
		return 0, fmt.Errorf("putting slot: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking affected rows: %w", err)
	}

	if n == 0 {
		return 0, ErrVersionConflict
	}

	return expectedVersion + 1, nil
}
