package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"cinedex/internal/movie/models"
	id "cinedex/pkg/domain"
	"cinedex/pkg/platform/sentinel"
	"cinedex/pkg/platform/tx"
)

// Schema is the DDL for the movies table. It is idempotent and only applied
// when bootstrapping is switched on; it is not a migration system.
//
//go:embed schema.sql
var Schema string

const movieColumns = `id, title, release_year, actors, created_at, updated_at`

// PostgresStore persists movies in a single PostgreSQL table. Calls join a
// transaction carried in the context (see pkg/platform/tx).
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed movie store on a shared handle.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Bootstrap creates the movies table and its index if they do not exist,
// all or nothing.
func (s *PostgresStore) Bootstrap(ctx context.Context) error {
	return tx.RunInTx(ctx, s.db, func(ctx context.Context) error {
		for _, stmt := range strings.Split(Schema, ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if _, err := tx.Conn(ctx, s.db).ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("bootstrap movies schema: %w", err)
			}
		}
		return nil
	})
}

func (s *PostgresStore) FindAll(ctx context.Context) ([]*models.Movie, error) {
	rows, err := tx.Conn(ctx, s.db).QueryContext(ctx,
		`SELECT `+movieColumns+` FROM movies ORDER BY created_at DESC, seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	movies := make([]*models.Movie, 0)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	return movies, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, movieID id.MovieID) (*models.Movie, error) {
	row := tx.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE id = $1`, uuid.UUID(movieID))
	m, err := scanMovie(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find movie by id: %w", err)
	}
	return m, nil
}

func (s *PostgresStore) Insert(ctx context.Context, fields models.Fields, now time.Time) (*models.Movie, error) {
	movie := models.NewMovie(id.NewMovieID(), fields, now)
	row := tx.Conn(ctx, s.db).QueryRowContext(ctx, `
		INSERT INTO movies (id, title, release_year, actors, created_at, updated_at)
		VALUES ($1, $2, $3, $4::text[], $5, $5)
		RETURNING `+movieColumns,
		uuid.UUID(movie.ID), movie.Title, movie.ReleaseYear, pq.Array(movie.Actors), now)
	created, err := scanMovie(row)
	if err != nil {
		return nil, fmt.Errorf("insert movie: %w", err)
	}
	return created, nil
}

func (s *PostgresStore) Replace(ctx context.Context, movieID id.MovieID, fields models.Fields, now time.Time) (*models.Movie, error) {
	actors := fields.Actors
	if actors == nil {
		actors = []string{}
	}
	row := tx.Conn(ctx, s.db).QueryRowContext(ctx, `
		UPDATE movies
		SET title = $2, release_year = $3, actors = $4::text[], updated_at = $5
		WHERE id = $1
		RETURNING `+movieColumns,
		uuid.UUID(movieID), fields.Title, fields.ReleaseYear, pq.Array(actors), now)
	updated, err := scanMovie(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("replace movie: %w", err)
	}
	return updated, nil
}

func (s *PostgresStore) Remove(ctx context.Context, movieID id.MovieID) error {
	res, err := tx.Conn(ctx, s.db).ExecContext(ctx, `DELETE FROM movies WHERE id = $1`, uuid.UUID(movieID))
	if err != nil {
		return fmt.Errorf("remove movie: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove movie rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(row rowScanner) (*models.Movie, error) {
	var (
		rawID  uuid.UUID
		actors pq.StringArray
		m      models.Movie
	)
	if err := row.Scan(&rawID, &m.Title, &m.ReleaseYear, &actors, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.ID = id.MovieID(rawID)
	m.Actors = []string(actors)
	if m.Actors == nil {
		m.Actors = []string{}
	}
	return &m, nil
}
