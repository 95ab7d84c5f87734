package aggregate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/thywillbedone/movies2u/internal/domain"
)

type fakeStore struct {
	mu       sync.Mutex
	rating   float64
	reviews  []domain.Review
	snapErr  error
	setErr   error
	setCalls int
}

func (f *fakeStore) RatingSnapshot(ctx context.Context, movieID string) (float64, []domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snapErr != nil {
		return 0, nil, f.snapErr
	}
	return f.rating, f.reviews, nil
}

func (f *fakeStore) SetRating(ctx context.Context, movieID string, rating float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls++
	if f.setErr != nil {
		return f.setErr
	}
	f.rating = rating
	return nil
}

func (f *fakeStore) snapshot() (float64, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rating, f.setCalls
}

type fakeRecorder struct {
	mu        sync.Mutex
	successes int
	failures  int
}

func (f *fakeRecorder) RecordAggregationSuccess() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.successes++
}

func (f *fakeRecorder) RecordAggregationFailure() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures++
}

func (f *fakeRecorder) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.successes, f.failures
}

func reviewsWithRatings(ratings ...float64) []domain.Review {
	reviews := make([]domain.Review, 0, len(ratings))
	for _, r := range ratings {
		reviews = append(reviews, domain.Review{Rating: r})
	}
	return reviews
}

func TestRecomputeTruncatesAverage(t *testing.T) {
	tests := []struct {
		name    string
		ratings []float64
		want    float64
	}{
		{"single review", []float64{5}, 5},
		{"truncates down", []float64{5, 4}, 4},
		{"truncates not rounds", []float64{5, 5, 4}, 4},
		{"all zero", []float64{0, 0}, 0},
		{"fractional ratings", []float64{4.5, 4.5}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{reviews: reviewsWithRatings(tt.ratings...)}
			agg := New(store, &fakeRecorder{}, zerolog.Nop(), 8)

			require.NoError(t, agg.Recompute(context.Background(), "movie-1"))
			rating, setCalls := store.snapshot()
			require.Equal(t, tt.want, rating)
			require.Equal(t, 1, setCalls)
		})
	}
}

func TestRecomputeSkipsEmptyCollection(t *testing.T) {
	store := &fakeStore{rating: 4, reviews: nil}
	agg := New(store, &fakeRecorder{}, zerolog.Nop(), 8)

	require.NoError(t, agg.Recompute(context.Background(), "movie-1"))

	// Deleting the last review must not reset the stored rating.
	rating, setCalls := store.snapshot()
	require.Equal(t, float64(4), rating)
	require.Equal(t, 0, setCalls)
}

func TestEnqueueProcessesAsync(t *testing.T) {
	store := &fakeStore{reviews: reviewsWithRatings(5, 4)}
	rec := &fakeRecorder{}
	agg := New(store, rec, zerolog.Nop(), 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	agg.Start(ctx)

	agg.Enqueue("movie-1")

	drainCtx, drainCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer drainCancel()
	require.NoError(t, agg.Drain(drainCtx))

	rating, _ := store.snapshot()
	require.Equal(t, float64(4), rating)
	successes, failures := rec.counts()
	require.Equal(t, 1, successes)
	require.Equal(t, 0, failures)
}

func TestFailuresAreSwallowedButRecorded(t *testing.T) {
	store := &fakeStore{snapErr: errors.New("store down")}
	rec := &fakeRecorder{}
	agg := New(store, rec, zerolog.Nop(), 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	agg.Start(ctx)

	agg.Enqueue("movie-1")

	drainCtx, drainCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer drainCancel()
	require.NoError(t, agg.Drain(drainCtx))

	successes, failures := rec.counts()
	require.Equal(t, 0, successes)
	require.Equal(t, 1, failures)
}

func TestEnqueueDropsWhenQueueFull(t *testing.T) {
	store := &fakeStore{reviews: reviewsWithRatings(5)}
	rec := &fakeRecorder{}
	agg := New(store, rec, zerolog.Nop(), 1)

	// Worker not started: the first enqueue fills the queue, the second drops.
	agg.Enqueue("movie-1")
	agg.Enqueue("movie-2")

	_, failures := rec.counts()
	require.Equal(t, 1, failures)
}
