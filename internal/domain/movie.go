package domain

import "time"

// GeoPoint is the structured GeoJSON-style location stored on movies and
// reviews. Longitude comes first in the coordinates array, not latitude.
type GeoPoint struct {
	Type              string    `json:"type"`
	Coordinates       []float64 `json:"coordinates"`
	FormattedLocation string    `json:"formattedLocation"`
}

// Review is a child entity embedded in a movie's review collection. It has no
// existence outside its parent movie.
type Review struct {
	ID          string    `json:"id"`
	Author      string    `json:"author"`
	Rating      float64   `json:"rating"`
	Description string    `json:"description,omitempty"`
	GeoLocation *GeoPoint `json:"reviewGeoLocation,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Movie is the aggregate root. Rating is derived from the review collection by
// the aggregator and is never written directly by clients.
type Movie struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Year        *int      `json:"year,omitempty"`
	Genre       *string   `json:"genre,omitempty"`
	Poster      *string   `json:"poster,omitempty"`
	Rating      float64   `json:"rating"`
	GeoLocation *GeoPoint `json:"geoLocation,omitempty"`
	Reviews     []Review  `json:"reviews"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
