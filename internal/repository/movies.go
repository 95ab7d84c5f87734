package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thywillbedone/movies2u/internal/domain"
)

// MoviesRepository provides persistence helpers for the movie aggregate.
type MoviesRepository struct {
	pool *pgxpool.Pool
}

const movieColumns = `
    id,
    title,
    year,
    genre,
    poster,
    rating,
    geo_location,
    reviews,
    created_at,
    updated_at
`

// MovieCreateParams bundles the fields required to create a movie. Rating and
// reviews are never part of the input: new movies start at rating 0 with an
// empty collection.
type MovieCreateParams struct {
	Title       string
	Year        *int
	Genre       *string
	Poster      *string
	GeoLocation domain.GeoPoint
}

// MovieUpdateParams mirrors the create payload. Updates never touch the
// review collection or the derived rating.
type MovieUpdateParams struct {
	Title       string
	Year        *int
	Genre       *string
	Poster      *string
	GeoLocation domain.GeoPoint
}

// Create inserts a new movie row and returns the stored entity.
func (r *MoviesRepository) Create(ctx context.Context, params MovieCreateParams) (domain.Movie, error) {
	geoJSON, err := json.Marshal(params.GeoLocation)
	if err != nil {
		return domain.Movie{}, fmt.Errorf("marshal geo location: %w", err)
	}

	query := fmt.Sprintf(`
        INSERT INTO movies (id, title, year, genre, poster, rating, geo_location, reviews)
        VALUES ($1,$2,$3,$4,$5,0,$6,'[]'::jsonb)
        RETURNING %s
    `, movieColumns)

	row := r.pool.QueryRow(ctx, query, uuid.NewString(), params.Title, params.Year, params.Genre, params.Poster, geoJSON)
	return scanMovie(row)
}

// GetByID fetches a movie by its identifier.
func (r *MoviesRepository) GetByID(ctx context.Context, id string) (domain.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies WHERE id = $1`, movieColumns)
	row := r.pool.QueryRow(ctx, query, id)
	movie, err := scanMovie(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Movie{}, ErrNotFound
		}
		return domain.Movie{}, err
	}
	return movie, nil
}

// List returns every movie, newest first.
func (r *MoviesRepository) List(ctx context.Context) ([]domain.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies ORDER BY created_at DESC, id DESC`, movieColumns)
	return r.queryMovies(ctx, query)
}

// FindByTitle returns movies whose title contains the given substring.
func (r *MoviesRepository) FindByTitle(ctx context.Context, title string) ([]domain.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies WHERE title ILIKE $1 ORDER BY created_at DESC, id DESC`, movieColumns)
	return r.queryMovies(ctx, query, "%"+title+"%")
}

// FindByYear returns movies released in the given year.
func (r *MoviesRepository) FindByYear(ctx context.Context, year int) ([]domain.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies WHERE year = $1 ORDER BY created_at DESC, id DESC`, movieColumns)
	return r.queryMovies(ctx, query, year)
}

// FindByGenre returns movies whose genre contains the given substring.
func (r *MoviesRepository) FindByGenre(ctx context.Context, genre string) ([]domain.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies WHERE genre ILIKE $1 ORDER BY created_at DESC, id DESC`, movieColumns)
	return r.queryMovies(ctx, query, "%"+genre+"%")
}

// Update overwrites a movie's metadata and geo location. The review
// collection and the derived rating are left untouched.
func (r *MoviesRepository) Update(ctx context.Context, id string, params MovieUpdateParams) (domain.Movie, error) {
	geoJSON, err := json.Marshal(params.GeoLocation)
	if err != nil {
		return domain.Movie{}, fmt.Errorf("marshal geo location: %w", err)
	}

	query := fmt.Sprintf(`
        UPDATE movies
        SET title = $2,
            year = $3,
            genre = $4,
            poster = $5,
            geo_location = $6,
            updated_at = now()
        WHERE id = $1
        RETURNING %s
    `, movieColumns)

	row := r.pool.QueryRow(ctx, query, id, params.Title, params.Year, params.Genre, params.Poster, geoJSON)
	movie, err := scanMovie(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Movie{}, ErrNotFound
		}
		return domain.Movie{}, err
	}
	return movie, nil
}

// Delete removes a movie and, implicitly, every review embedded in it.
func (r *MoviesRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RatingSnapshot projects only the rating and review collection of a movie,
// which is all the aggregator needs.
func (r *MoviesRepository) RatingSnapshot(ctx context.Context, id string) (float64, []domain.Review, error) {
	var (
		rating      float64
		reviewsJSON []byte
	)
	err := r.pool.QueryRow(ctx, `SELECT rating, reviews FROM movies WHERE id = $1`, id).Scan(&rating, &reviewsJSON)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, nil, ErrNotFound
		}
		return 0, nil, err
	}

	reviews, err := unmarshalReviews(reviewsJSON)
	if err != nil {
		return 0, nil, err
	}
	return rating, reviews, nil
}

// SetRating persists only the derived rating field.
func (r *MoviesRepository) SetRating(ctx context.Context, id string, rating float64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE movies SET rating = $2, updated_at = now() WHERE id = $1`, id, rating)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MoviesRepository) queryMovies(ctx context.Context, query string, args ...interface{}) ([]domain.Movie, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]domain.Movie, 0)
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func scanMovie(row pgx.Row) (domain.Movie, error) {
	var (
		movie       domain.Movie
		geoJSON     []byte
		reviewsJSON []byte
	)

	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Year,
		&movie.Genre,
		&movie.Poster,
		&movie.Rating,
		&geoJSON,
		&reviewsJSON,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)
	if err != nil {
		return domain.Movie{}, err
	}

	if len(geoJSON) > 0 {
		var geo domain.GeoPoint
		if err := json.Unmarshal(geoJSON, &geo); err != nil {
			return domain.Movie{}, err
		}
		movie.GeoLocation = &geo
	}

	movie.Reviews, err = unmarshalReviews(reviewsJSON)
	if err != nil {
		return domain.Movie{}, err
	}

	return movie, nil
}

func unmarshalReviews(payload []byte) ([]domain.Review, error) {
	reviews := make([]domain.Review, 0)
	if len(payload) == 0 {
		return reviews, nil
	}
	if err := json.Unmarshal(payload, &reviews); err != nil {
		return nil, fmt.Errorf("unmarshal reviews: %w", err)
	}
	return reviews, nil
}
