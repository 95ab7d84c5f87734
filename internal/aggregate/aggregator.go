// Package aggregate recomputes the derived average rating of a movie after
// its review collection changes. Recomputation runs on a worker decoupled
// from the request that triggered it: the client never waits for it and
// never sees its failures.
package aggregate

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/thywillbedone/movies2u/internal/domain"
)

// RatingStore is the projection of the movie repository the aggregator needs.
type RatingStore interface {
	RatingSnapshot(ctx context.Context, movieID string) (float64, []domain.Review, error)
	SetRating(ctx context.Context, movieID string, rating float64) error
}

// Recorder receives the outcome of every recomputation. Failures are
// swallowed by design, so this hook is the only way they surface.
type Recorder interface {
	RecordAggregationSuccess()
	RecordAggregationFailure()
}

const recomputeTimeout = 10 * time.Second

// Aggregator owns the recompute queue and worker.
type Aggregator struct {
	store   RatingStore
	rec     Recorder
	logger  zerolog.Logger
	queue   chan string
	pending sync.WaitGroup
}

// New constructs an Aggregator with a bounded queue.
func New(store RatingStore, rec Recorder, logger zerolog.Logger, queueSize int) *Aggregator {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Aggregator{
		store:  store,
		rec:    rec,
		logger: logger,
		queue:  make(chan string, queueSize),
	}
}

// Start launches the worker goroutine. It stops when ctx is cancelled.
func (a *Aggregator) Start(ctx context.Context) {
	go a.run(ctx)
}

func (a *Aggregator) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			// Queued work is dropped on shutdown; counted so it is visible.
			for {
				select {
				case movieID := <-a.queue:
					a.logger.Warn().Str("movie_id", movieID).Msg("aggregate: dropping queued recompute on shutdown")
					a.rec.RecordAggregationFailure()
					a.pending.Done()
				default:
					return
				}
			}
		case movieID := <-a.queue:
			a.process(movieID)
		}
	}
}

func (a *Aggregator) process(movieID string) {
	defer a.pending.Done()

	// Deliberately not the request context: the triggering request has
	// already been answered.
	ctx, cancel := context.WithTimeout(context.Background(), recomputeTimeout)
	defer cancel()

	if err := a.Recompute(ctx, movieID); err != nil {
		a.logger.Error().Err(err).Str("movie_id", movieID).Msg("aggregate: recompute failed")
		a.rec.RecordAggregationFailure()
		return
	}
	a.rec.RecordAggregationSuccess()
}

// Enqueue schedules a recomputation without blocking the caller. When the
// queue is full the work is dropped and recorded as a failure.
func (a *Aggregator) Enqueue(movieID string) {
	a.pending.Add(1)
	select {
	case a.queue <- movieID:
	default:
		a.logger.Error().Str("movie_id", movieID).Msg("aggregate: queue full, dropping recompute")
		a.rec.RecordAggregationFailure()
		a.pending.Done()
	}
}

// Recompute reloads the movie's rating projection and persists the truncated
// mean of its review ratings. An empty collection leaves the stored rating
// untouched.
func (a *Aggregator) Recompute(ctx context.Context, movieID string) error {
	_, reviews, err := a.store.RatingSnapshot(ctx, movieID)
	if err != nil {
		return err
	}
	if len(reviews) == 0 {
		return nil
	}

	var total float64
	for _, review := range reviews {
		total += review.Rating
	}
	average := math.Trunc(total / float64(len(reviews)))

	if err := a.store.SetRating(ctx, movieID, average); err != nil {
		return err
	}
	a.logger.Debug().Str("movie_id", movieID).Float64("rating", average).Msg("aggregate: average rating updated")
	return nil
}

// Drain waits for all enqueued recomputations to settle, or for ctx.
func (a *Aggregator) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		a.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
