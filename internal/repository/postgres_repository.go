package repository

import (
	"context"
	"errors"
	"fmt"

	"slideshow/internal/domain/models"
	"slideshow/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const uniqueViolation = "23505"

var creationColumns = []string{"id", "url", "qr", "thumb", "theme", "song", "song_owned", "date", "images"}

type PostgresCreationRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewPostgresCreationRepo(db *pgxpool.Pool) *PostgresCreationRepo {
	return &PostgresCreationRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *PostgresCreationRepo) Insert(ctx context.Context, c models.Creation) error {
	const op = "repository.PostgresCreationRepo.Insert"

	images := c.Images
	if images == nil {
		images = []string{}
	}

	query, args, err := r.sb.Insert("creations").
		Columns(creationColumns...).
		Values(c.ID, c.URL, c.QR, c.Thumb, c.Theme, c.Song, c.SongOwned, c.Date, images).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrCreationExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *PostgresCreationRepo) Get(ctx context.Context, id string) (models.Creation, error) {
	const op = "repository.PostgresCreationRepo.Get"

	query, args, err := r.sb.Select(creationColumns...).
		From("creations").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.Creation{}, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	c, err := scanCreation(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Creation{}, fmt.Errorf("%s: %w", op, storage.ErrCreationNotFound)
	}
	if err != nil {
		return models.Creation{}, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

func (r *PostgresCreationRepo) List(ctx context.Context) ([]models.Creation, error) {
	const op = "repository.PostgresCreationRepo.List"

	query, args, err := r.sb.Select(creationColumns...).
		From("creations").
		OrderBy("seq DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := []models.Creation{}
	for rows.Next() {
		c, err := scanCreation(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (r *PostgresCreationRepo) Delete(ctx context.Context, id string) (models.Creation, error) {
	const op = "repository.PostgresCreationRepo.Delete"

	query, args, err := r.sb.Delete("creations").
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id, url, qr, thumb, theme, song, song_owned, date, images").
		ToSql()
	if err != nil {
		return models.Creation{}, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	c, err := scanCreation(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Creation{}, fmt.Errorf("%s: %w", op, storage.ErrCreationNotFound)
	}
	if err != nil {
		return models.Creation{}, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

func scanCreation(row pgx.Row) (models.Creation, error) {
	var c models.Creation
	err := row.Scan(
		&c.ID,
		&c.URL,
		&c.QR,
		&c.Thumb,
		&c.Theme,
		&c.Song,
		&c.SongOwned,
		&c.Date,
		&c.Images,
	)
	return c, err
}
