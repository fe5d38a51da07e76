package catalog

import (
	"context"
	"database/sql"
	"errors"

	"vod-platform/pkg/storage"

	"github.com/lib/pq"
)

// Repository is the persistence surface for the catalog. The interface
// exists so handlers and services can be tested with an in-memory fake.
type Repository interface {
	ListMovies(ctx context.Context) ([]Movie, error)
	GetMovie(ctx context.Context, id string) (Movie, error)
	InsertMovie(ctx context.Context, m Movie) error
	UpdateMovie(ctx context.Context, m Movie) error
	DeleteMovie(ctx context.Context, id string) error
	CountMovies(ctx context.Context) (movies, series int64, err error)

	ListEpisodesByMovie(ctx context.Context, movieID string) ([]Episode, error)
	GetEpisode(ctx context.Context, id string) (Episode, error)
	InsertEpisode(ctx context.Context, e Episode) error
	UpdateEpisode(ctx context.Context, e Episode) error
	DeleteEpisode(ctx context.Context, id string) error
	CountEpisodes(ctx context.Context) (int64, error)
}

// PostgresRepository implements Repository over database/sql.
//
// NOTE: assumes `movies` and `episodes` tables; categories and
// streaming_urls are text[] columns.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const movieColumns = `id, title, description, release_date, poster_url, is_series, categories, created_at, updated_at`

func scanMovie(row interface{ Scan(...any) error }) (Movie, error) {
	var m Movie
	if err := row.Scan(
		&m.ID,
		&m.Title,
		&m.Description,
		&m.ReleaseDate,
		&m.PosterURL,
		&m.IsSeries,
		pq.Array(&m.Categories),
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return Movie{}, err
	}
	return m, nil
}

func (r *PostgresRepository) ListMovies(ctx context.Context) ([]Movie, error) {
	const q = `
SELECT ` + movieColumns + `
FROM movies
ORDER BY created_at DESC
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := make([]Movie, 0)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

func (r *PostgresRepository) GetMovie(ctx context.Context, id string) (Movie, error) {
	const q = `
SELECT ` + movieColumns + `
FROM movies
WHERE id = $1
`
	m, err := scanMovie(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Movie{}, ErrMovieNotFound
		}
		return Movie{}, err
	}
	return m, nil
}

func (r *PostgresRepository) InsertMovie(ctx context.Context, m Movie) error {
	const q = `
INSERT INTO movies (id, title, description, release_date, poster_url, is_series, categories, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`
	_, err := r.db.ExecContext(ctx, q,
		m.ID,
		m.Title,
		m.Description,
		m.ReleaseDate,
		m.PosterURL,
		m.IsSeries,
		pq.Array(m.Categories),
		m.CreatedAt,
		m.UpdatedAt,
	)
	return err
}

func (r *PostgresRepository) UpdateMovie(ctx context.Context, m Movie) error {
	const q = `
UPDATE movies
SET title = $2, description = $3, release_date = $4, poster_url = $5,
    is_series = $6, categories = $7, updated_at = $8
WHERE id = $1
`
	res, err := r.db.ExecContext(ctx, q,
		m.ID,
		m.Title,
		m.Description,
		m.ReleaseDate,
		m.PosterURL,
		m.IsSeries,
		pq.Array(m.Categories),
		m.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireRow(res, ErrMovieNotFound)
}

// DeleteMovie removes a movie and its episodes in one transaction.
func (r *PostgresRepository) DeleteMovie(ctx context.Context, id string) error {
	return storage.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM episodes WHERE movie_id = $1`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM movies WHERE id = $1`, id)
		if err != nil {
			return err
		}
		return requireRow(res, ErrMovieNotFound)
	})
}

func (r *PostgresRepository) CountMovies(ctx context.Context) (int64, int64, error) {
	const q = `
SELECT
  COUNT(*) FILTER (WHERE NOT is_series),
  COUNT(*) FILTER (WHERE is_series)
FROM movies
`
	var movies, series int64
	if err := r.db.QueryRowContext(ctx, q).Scan(&movies, &series); err != nil {
		return 0, 0, err
	}
	return movies, series, nil
}

const episodeColumns = `id, title, description, streaming_urls, movie_id, created_at, updated_at`

func scanEpisode(row interface{ Scan(...any) error }) (Episode, error) {
	var e Episode
	if err := row.Scan(
		&e.ID,
		&e.Title,
		&e.Description,
		pq.Array(&e.StreamingURLs),
		&e.MovieID,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return Episode{}, err
	}
	return e, nil
}

func (r *PostgresRepository) ListEpisodesByMovie(ctx context.Context, movieID string) ([]Episode, error) {
	const q = `
SELECT ` + episodeColumns + `
FROM episodes
WHERE movie_id = $1
ORDER BY created_at
`
	rows, err := r.db.QueryContext(ctx, q, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	episodes := make([]Episode, 0)
	for rows.Next() {
		e, err := scanEpisode(rows)
		if err != nil {
			return nil, err
		}
		episodes = append(episodes, e)
	}
	return episodes, rows.Err()
}

func (r *PostgresRepository) GetEpisode(ctx context.Context, id string) (Episode, error) {
	const q = `
SELECT ` + episodeColumns + `
FROM episodes
WHERE id = $1
`
	e, err := scanEpisode(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Episode{}, ErrEpisodeNotFound
		}
		return Episode{}, err
	}
	return e, nil
}

func (r *PostgresRepository) InsertEpisode(ctx context.Context, e Episode) error {
	const q = `
INSERT INTO episodes (id, title, description, streaming_urls, movie_id, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`
	_, err := r.db.ExecContext(ctx, q,
		e.ID,
		e.Title,
		e.Description,
		pq.Array(e.StreamingURLs),
		e.MovieID,
		e.CreatedAt,
		e.UpdatedAt,
	)
	return err
}

func (r *PostgresRepository) UpdateEpisode(ctx context.Context, e Episode) error {
	const q = `
UPDATE episodes
SET title = $2, description = $3, streaming_urls = $4, updated_at = $5
WHERE id = $1
`
	res, err := r.db.ExecContext(ctx, q,
		e.ID,
		e.Title,
		e.Description,
		pq.Array(e.StreamingURLs),
		e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireRow(res, ErrEpisodeNotFound)
}

func (r *PostgresRepository) DeleteEpisode(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM episodes WHERE id = $1`, id)
	return err
}

func (r *PostgresRepository) CountEpisodes(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM episodes`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
