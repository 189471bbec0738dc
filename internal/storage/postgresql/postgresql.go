package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

const creationsTable = "creations"

type Storage struct {
	db *pgxpool.Pool
}

func New(ctx context.Context, storagePath string) (*Storage, error) {
	const op = "storage.postgresql.New"

	db, err := pgxpool.Connect(ctx, storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		db: db,
	}, nil
}

func (s *Storage) Pool() *pgxpool.Pool {
	return s.db
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Storage) Stop() {
	s.db.Close()
}

// Migrate создаёт таблицу индекса, если её ещё нет.
// seq задаёт порядок вставки: список отдаётся по seq DESC.
func (s *Storage) Migrate(ctx context.Context) error {
	const op = "storage.postgresql.Migrate"

	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+creationsTable+` (
			seq        BIGSERIAL PRIMARY KEY,
			id         TEXT NOT NULL UNIQUE,
			url        TEXT NOT NULL,
			qr         TEXT NOT NULL,
			thumb      TEXT NOT NULL DEFAULT '',
			theme      TEXT NOT NULL DEFAULT '',
			song       TEXT NOT NULL DEFAULT '',
			song_owned BOOLEAN NOT NULL DEFAULT false,
			date       TEXT NOT NULL,
			images     TEXT[] NOT NULL DEFAULT '{}'
		)`)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
