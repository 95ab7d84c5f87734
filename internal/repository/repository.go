package repository

import (
	"errors"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thywillbedone/movies2u/internal/store"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("repository: not found")

// ErrNoReviews indicates the movie exists but its review collection is empty.
var ErrNoReviews = errors.New("repository: no reviews")

// ErrReviewNotFound indicates the movie has reviews, but none with the given id.
var ErrReviewNotFound = errors.New("repository: review not found")

// ErrConflict indicates a uniqueness violation (duplicate user email).
var ErrConflict = errors.New("repository: conflict")

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Movies  *MoviesRepository
	Reviews *ReviewsRepository
	Users   *UsersRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Movies:  &MoviesRepository{pool: pool},
		Reviews: &ReviewsRepository{pool: pool, locks: newKeyedLocks()},
		Users:   &UsersRepository{pool: pool},
	}
}

// keyedLocks serializes review-collection writes per movie id. The store
// persists the whole collection on each write, so concurrent writers against
// the same movie must not interleave their load-mutate-save cycles.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedLocks) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	lock, ok := k.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[key] = lock
	}
	return lock
}
