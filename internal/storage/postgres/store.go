package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/houseofcharity/charity-be/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

const uniqueViolation = "23505"

// Store provides Postgres-backed persistence for users, donations, and requirements.
type Store struct {
	pool *pgxpool.Pool
	log  *logrus.Entry
}

// Options configures the connection pool.
type Options struct {
	DatabaseURL string
	MaxConns    int32
}

// NewStore opens a connection pool and runs migrations.
func NewStore(ctx context.Context, opts Options, log *logrus.Entry) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(opts.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool, log: log}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	log.WithField("max_conns", cfg.MaxConns).Info("database ready")

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL DEFAULT '',
			user_type TEXT NOT NULL CHECK (user_type IN ('donor', 'ngo')),
			name TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			state TEXT NOT NULL DEFAULT '',
			country TEXT NOT NULL DEFAULT 'India',
			pincode TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			website TEXT NOT NULL DEFAULT '',
			logo_url TEXT NOT NULL DEFAULT '',
			verified BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS users_user_type_created_idx ON users (user_type, created_at DESC);`,
		`CREATE TABLE IF NOT EXISTS donations (
			id TEXT PRIMARY KEY,
			donor_id TEXT NOT NULL REFERENCES users(id),
			ngo_id TEXT NOT NULL REFERENCES users(id),
			amount NUMERIC(14,2) NOT NULL CHECK (amount > 0),
			currency TEXT NOT NULL DEFAULT 'INR',
			payment_method TEXT NOT NULL DEFAULT '',
			transaction_id TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'completed', 'failed', 'cancelled')),
			message TEXT NOT NULL DEFAULT '',
			anonymous BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS donations_donor_idx ON donations (donor_id, created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS donations_ngo_idx ON donations (ngo_id, created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS donations_status_idx ON donations (status, created_at DESC);`,
		`CREATE TABLE IF NOT EXISTS requirements (
			id TEXT PRIMARY KEY,
			ngo_id TEXT NOT NULL REFERENCES users(id),
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			amount_needed NUMERIC(14,2),
			currency TEXT NOT NULL DEFAULT 'INR',
			priority TEXT NOT NULL DEFAULT 'medium' CHECK (priority IN ('low', 'medium', 'high', 'urgent')),
			status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'fulfilled', 'cancelled')),
			deadline DATE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS requirements_ngo_idx ON requirements (ngo_id, created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS requirements_status_category_idx ON requirements (status, category);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
