package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"forest-focus-bot/internal/logging"
	"forest-focus-bot/internal/models"
)

// PostgresStore persists each UserRecord as one JSONB row. The document
// shape is identical to the file backend, only the container differs.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger logging.Logger
	now    func() time.Time
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS user_records (
	id     TEXT PRIMARY KEY,
	record JSONB NOT NULL
)`

func NewPostgresStore(dsn string, logger logging.Logger) (*PostgresStore, error) {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("storage: failed to connect to postgres: %v", err)
		return nil, err
	}
	if _, err := pool.Exec(ctx, createUsersTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create user_records table: %w", err)
	}
	return &PostgresStore{pool: pool, logger: logger, now: time.Now}, nil
}

func (p *PostgresStore) get(ctx context.Context, id string) (*models.UserRecord, error) {
	var raw []byte
	row := p.pool.QueryRow(ctx, `SELECT record FROM user_records WHERE id = $1`, id)
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	var rec models.UserRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", id, err)
	}
	return &rec, nil
}

func (p *PostgresStore) GetOrCreate(ctx context.Context, id string) (*models.UserRecord, error) {
	rec, err := p.get(ctx, id)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	rec = models.NewUserRecord(id, p.now())
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	// Concurrent first access races to the same default row; losing the
	// race is fine, the stored row wins.
	if _, err := p.pool.Exec(ctx,
		`INSERT INTO user_records (id, record) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
		id, raw); err != nil {
		p.logger.Errorf("storage: failed to insert user %s: %v", id, err)
		return nil, err
	}
	p.logger.Infof("storage: created user %s", id)
	return p.get(ctx, id)
}

func (p *PostgresStore) Update(ctx context.Context, id string, patch UserPatch) (*models.UserRecord, error) {
	rec, err := p.get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, fmt.Errorf("update %s: %w", id, ErrUserNotFound)
		}
		return nil, err
	}

	patch.apply(rec)
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	if _, err := p.pool.Exec(ctx,
		`UPDATE user_records SET record = $2 WHERE id = $1`, id, raw); err != nil {
		p.logger.Errorf("storage: failed to update user %s: %v", id, err)
		return nil, err
	}
	return rec, nil
}

func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

var _ UserStore = (*PostgresStore)(nil)
