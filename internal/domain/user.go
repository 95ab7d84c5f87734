package domain

import "time"

// User is an authenticated identity. It lives outside the movie aggregate and
// is only consumed by the auth gate and the user handlers.
type User struct {
	ID             string
	Email          string
	HashedPassword string
	CreatedAt      time.Time
}
