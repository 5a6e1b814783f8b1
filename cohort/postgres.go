// Package cohort PostgreSQL KV backend. Use: go get github.com/lib/pq and
// import _ "github.com/lib/pq" in the calling binary.
package cohort

import (
	"context"
	"database/sql"
)

// PostgresKV stores keys in a two-column table (key TEXT PRIMARY KEY,
// value TEXT).
type PostgresKV struct {
	db    *sql.DB
	table string
}

// NewPostgresKV creates a KV over the given *sql.DB. table defaults to
// "cohort_kv". If createTable is true, the table is created when missing.
func NewPostgresKV(db *sql.DB, table string, createTable bool) (*PostgresKV, error) {
	if table == "" {
		table = "cohort_kv"
	}
	kv := &PostgresKV{db: db, table: table}
	if createTable {
		q := `CREATE TABLE IF NOT EXISTS ` + table + ` (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`
		if _, err := db.ExecContext(context.Background(), q); err != nil {
			return nil, err
		}
	}
	return kv, nil
}

// Get implements KV.
func (p *PostgresKV) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := p.db.QueryRowContext(ctx, `SELECT value FROM `+p.table+` WHERE key = $1`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set implements KV.
func (p *PostgresKV) Set(ctx context.Context, key, value string) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO `+p.table+` (key, value, updated_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, value)
	return err
}
