package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thywillbedone/movies2u/internal/domain"
)

// UsersRepository provides persistence helpers for identities.
type UsersRepository struct {
	pool *pgxpool.Pool
}

const uniqueViolation = "23505"

// Create inserts a new user. A duplicate email maps to ErrConflict.
func (r *UsersRepository) Create(ctx context.Context, email, hashedPassword string) (domain.User, error) {
	var user domain.User
	err := r.pool.QueryRow(ctx, `
        INSERT INTO users (id, email, hashed_password)
        VALUES ($1, $2, $3)
        RETURNING id, email, hashed_password, created_at
    `, uuid.NewString(), email, hashedPassword).Scan(&user.ID, &user.Email, &user.HashedPassword, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.User{}, ErrConflict
		}
		return domain.User{}, err
	}
	return user, nil
}

// GetByEmail fetches a user by email.
func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	var user domain.User
	err := r.pool.QueryRow(ctx, `
        SELECT id, email, hashed_password, created_at FROM users WHERE email = $1
    `, email).Scan(&user.ID, &user.Email, &user.HashedPassword, &user.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// GetByID fetches a user by id.
func (r *UsersRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	var user domain.User
	err := r.pool.QueryRow(ctx, `
        SELECT id, email, hashed_password, created_at FROM users WHERE id = $1
    `, id).Scan(&user.ID, &user.Email, &user.HashedPassword, &user.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}
