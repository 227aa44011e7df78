package postgres

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Nzyazin/ledgerconsole/internal/core/logger"
	"github.com/Nzyazin/ledgerconsole/internal/core/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const defaultQueryTimeout = 3 * time.Second

const schema = `
CREATE TABLE IF NOT EXISTS console_credentials (
    profile    TEXT        NOT NULL,
    key        TEXT        NOT NULL,
    value      TEXT        NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (profile, key)
)`

type credentialRow struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

// postgresCredentialRepo writes through to postgres and serves reads from
// memory, so Get never blocks on the database.
type postgresCredentialRepo struct {
	db      *sqlx.DB
	log     logger.Logger
	profile string

	mu    sync.RWMutex
	cache map[string]string
}

func NewPostgresCredentialRepo(ctx context.Context, db *sqlx.DB, profile string, log logger.Logger) (repository.CredentialRepository, error) {
	r := &postgresCredentialRepo{
		db:      db,
		log:     log,
		profile: profile,
		cache:   make(map[string]string),
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("ensure credential schema: %w", err)
	}

	if err := r.load(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *postgresCredentialRepo) load(ctx context.Context) error {
	var rows []credentialRow
	query := `SELECT key, value FROM console_credentials WHERE profile = $1`
	if err := r.db.SelectContext(ctx, &rows, query, r.profile); err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		r.cache[row.Key] = row.Value
	}
	r.log.Debug("Credentials loaded",
		logger.StringField("profile", r.profile),
		logger.IntField("entries", len(rows)))
	return nil
}

func (r *postgresCredentialRepo) Get(key string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.cache[key]
	return v, ok
}

func (r *postgresCredentialRepo) Set(key, value string) error {
	if key == "" {
		return repository.ErrEmptyKey
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultQueryTimeout)
	defer cancel()

	const query = `INSERT INTO console_credentials (profile, key, value, updated_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (profile, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.db.ExecContext(ctx, query, r.profile, key, value); err != nil {
		r.log.Error("Credential write failed",
			logger.StringField("key", key),
			logger.ErrorField("error", err))
		return fmt.Errorf("store credential %s: %w", key, err)
	}
	r.cache[key] = value
	return nil
}

func (r *postgresCredentialRepo) Remove(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultQueryTimeout)
	defer cancel()

	const query = `DELETE FROM console_credentials WHERE profile = $1 AND key = ANY($2)`

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.db.ExecContext(ctx, query, r.profile, pq.Array(keys)); err != nil {
		r.log.Error("Credential delete failed", logger.ErrorField("error", err))
		return fmt.Errorf("remove credentials: %w", err)
	}
	for _, k := range keys {
		delete(r.cache, k)
	}
	return nil
}
