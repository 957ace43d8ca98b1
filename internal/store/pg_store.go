package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

//
// ========================================================================
// Postgres adapter
// ========================================================================
//

type PGStore struct {
	DB *sql.DB
}

func Open(dsn string) (*PGStore, error) {
	if dsn == "" {
		dsn = os.Getenv("DATABASE_URL")
		if dsn == "" {
			return nil, fmt.Errorf("no postgres DSN configured")
		}
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	err = withTimeout(func(ctx context.Context) error {
		return db.PingContext(ctx)
	}, 5*time.Second)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return &PGStore{DB: db}, nil
}

func (s *PGStore) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

func (s *PGStore) Migrate(ctx context.Context) error {
	const q = `
        CREATE TABLE IF NOT EXISTS artist_mbid (
            catalog_id TEXT PRIMARY KEY,
            mbid       TEXT NOT NULL,
            name       TEXT NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );
    `
	_, err := s.DB.ExecContext(ctx, q)
	return err
}

func (s *PGStore) Get(ctx context.Context, catalogID string) (*ArtistID, error) {
	const q = `
        SELECT mbid, name
        FROM artist_mbid
        WHERE catalog_id = $1
        LIMIT 1;
    `
	var id ArtistID
	err := s.DB.QueryRowContext(ctx, q, catalogID).Scan(&id.MBID, &id.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mbid lookup: %w", err)
	}
	return &id, nil
}

func (s *PGStore) Put(ctx context.Context, catalogID string, id ArtistID) error {
	const q = `
        INSERT INTO artist_mbid (catalog_id, mbid, name)
        VALUES ($1, $2, $3)
        ON CONFLICT (catalog_id)
        DO UPDATE SET mbid = EXCLUDED.mbid, name = EXCLUDED.name, updated_at = now();
    `
	_, err := s.DB.ExecContext(ctx, q, catalogID, id.MBID, id.Name)
	if err != nil {
		return fmt.Errorf("mbid upsert: %w", err)
	}
	return nil
}

func withTimeout(fn func(ctx context.Context) error, d time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return fn(ctx)
}
