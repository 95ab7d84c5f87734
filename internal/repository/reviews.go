package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thywillbedone/movies2u/internal/domain"
)

// ReviewsRepository manages the review collection embedded in a movie.
// All writes against the same movie are serialized through a keyed lock; the
// collection is persisted as a whole on update and removal, so interleaved
// writers would otherwise lose appends.
type ReviewsRepository struct {
	pool  *pgxpool.Pool
	locks *keyedLocks
}

// ReviewCreateParams bundles the fields required to append a review.
type ReviewCreateParams struct {
	Author      string
	Rating      float64
	Description string
	GeoLocation domain.GeoPoint
}

// ReviewUpdateParams overwrites an existing review in place. The review id
// and creation time are preserved.
type ReviewUpdateParams struct {
	Author      string
	Rating      float64
	Description string
	GeoLocation domain.GeoPoint
}

// Add appends a new review to the movie's collection and returns it. The
// append itself is a single atomic jsonb concatenation, so it never clobbers
// a concurrent writer's reviews.
func (r *ReviewsRepository) Add(ctx context.Context, movieID string, params ReviewCreateParams) (domain.Review, error) {
	lock := r.locks.get(movieID)
	lock.Lock()
	defer lock.Unlock()

	geo := params.GeoLocation
	review := domain.Review{
		ID:          uuid.NewString(),
		Author:      params.Author,
		Rating:      params.Rating,
		Description: params.Description,
		GeoLocation: &geo,
		CreatedAt:   time.Now().UTC(),
	}

	reviewJSON, err := json.Marshal(review)
	if err != nil {
		return domain.Review{}, fmt.Errorf("marshal review: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
        UPDATE movies
        SET reviews = reviews || jsonb_build_array($2::jsonb),
            updated_at = now()
        WHERE id = $1
    `, movieID, reviewJSON)
	if err != nil {
		return domain.Review{}, err
	}
	if tag.RowsAffected() == 0 {
		return domain.Review{}, ErrNotFound
	}
	return review, nil
}

// Get returns a single review along with its parent movie's title. The three
// failure modes are distinct: movie missing, movie without reviews, review id
// not present.
func (r *ReviewsRepository) Get(ctx context.Context, movieID, reviewID string) (string, domain.Review, error) {
	var (
		title       string
		reviewsJSON []byte
	)
	err := r.pool.QueryRow(ctx, `SELECT title, reviews FROM movies WHERE id = $1`, movieID).Scan(&title, &reviewsJSON)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", domain.Review{}, ErrNotFound
		}
		return "", domain.Review{}, err
	}

	reviews, err := unmarshalReviews(reviewsJSON)
	if err != nil {
		return "", domain.Review{}, err
	}
	if len(reviews) == 0 {
		return "", domain.Review{}, ErrNoReviews
	}
	for _, review := range reviews {
		if review.ID == reviewID {
			return title, review, nil
		}
	}
	return "", domain.Review{}, ErrReviewNotFound
}

// Update overwrites an existing review's fields in place and persists the
// collection, preserving insertion order.
func (r *ReviewsRepository) Update(ctx context.Context, movieID, reviewID string, params ReviewUpdateParams) (domain.Review, error) {
	lock := r.locks.get(movieID)
	lock.Lock()
	defer lock.Unlock()

	reviews, err := r.loadReviews(ctx, movieID)
	if err != nil {
		return domain.Review{}, err
	}
	if len(reviews) == 0 {
		return domain.Review{}, ErrNoReviews
	}

	idx := -1
	for i := range reviews {
		if reviews[i].ID == reviewID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.Review{}, ErrReviewNotFound
	}

	geo := params.GeoLocation
	reviews[idx].Author = params.Author
	reviews[idx].Rating = params.Rating
	reviews[idx].Description = params.Description
	reviews[idx].GeoLocation = &geo

	if err := r.saveReviews(ctx, movieID, reviews); err != nil {
		return domain.Review{}, err
	}
	return reviews[idx], nil
}

// Remove deletes a review from the collection and persists it. The relative
// order of the remaining reviews is preserved.
func (r *ReviewsRepository) Remove(ctx context.Context, movieID, reviewID string) error {
	lock := r.locks.get(movieID)
	lock.Lock()
	defer lock.Unlock()

	reviews, err := r.loadReviews(ctx, movieID)
	if err != nil {
		return err
	}
	if len(reviews) == 0 {
		return ErrNoReviews
	}

	idx := -1
	for i := range reviews {
		if reviews[i].ID == reviewID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrReviewNotFound
	}

	reviews = append(reviews[:idx], reviews[idx+1:]...)
	return r.saveReviews(ctx, movieID, reviews)
}

func (r *ReviewsRepository) loadReviews(ctx context.Context, movieID string) ([]domain.Review, error) {
	var reviewsJSON []byte
	err := r.pool.QueryRow(ctx, `SELECT reviews FROM movies WHERE id = $1`, movieID).Scan(&reviewsJSON)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return unmarshalReviews(reviewsJSON)
}

func (r *ReviewsRepository) saveReviews(ctx context.Context, movieID string, reviews []domain.Review) error {
	payload, err := json.Marshal(reviews)
	if err != nil {
		return fmt.Errorf("marshal reviews: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
        UPDATE movies
        SET reviews = $2,
            updated_at = now()
        WHERE id = $1
    `, movieID, payload)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
