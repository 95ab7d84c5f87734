package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/thywillbedone/movies2u/internal/domain"
	"github.com/thywillbedone/movies2u/internal/repository"
)

const (
	minMovieYear = 1900
	maxMovieYear = 2023
)

type movieRequest struct {
	Title    string  `json:"title"`
	Year     *int    `json:"year"`
	Genre    *string `json:"genre"`
	Poster   *string `json:"poster"`
	Location string  `json:"location"`

	// Rating is accepted but ignored; the stored value is always derived from
	// the review collection.
	Rating float64 `json:"rating"`
}

type listResponse struct {
	Success bool        `json:"success"`
	Count   int         `json:"count"`
	Data    interface{} `json:"data"`
}

type dataResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

func validateMovieRequest(req movieRequest) error {
	if req.Title == "" {
		return errors.New("title is required")
	}
	if req.Year != nil && (*req.Year < minMovieYear || *req.Year > maxMovieYear) {
		return fmt.Errorf("year must be between %d and %d", minMovieYear, maxMovieYear)
	}
	return nil
}

// resolveLocation turns a free-text location into the structured geo field.
// Longitude comes first in the coordinates pair.
func (s *Server) resolveLocation(r *http.Request, query string) (domain.GeoPoint, error) {
	loc, err := s.geocoder.Geocode(r.Context(), query)
	if err != nil {
		s.rec.RecordGeocodeFailure()
		s.logger.Warn().Err(err).Str("query", query).Msg("geocode failed")
		return domain.GeoPoint{}, err
	}
	return domain.GeoPoint{
		Type:              "Point",
		Coordinates:       []float64{loc.Longitude, loc.Latitude},
		FormattedLocation: loc.FormattedAddress,
	}, nil
}

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := s.repo.Movies.List(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("list movies")
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, listResponse{Success: true, Count: len(movies), Data: movies})
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "movieid")
	if err := uuid.Validate(movieID); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid movie id")
		return
	}

	movie, err := s.repo.Movies.GetByID(r.Context(), movieID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "Movie not found")
			return
		}
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, dataResponse{Success: true, Data: movie})
}

func (s *Server) handleCreateMovie(w http.ResponseWriter, r *http.Request) {
	var req movieRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.Location == "" {
		s.respondError(w, http.StatusBadRequest, "location is required")
		return
	}
	if err := validateMovieRequest(req); err != nil {
		s.respondError(w, http.StatusNotAcceptable, err.Error())
		return
	}

	geo, err := s.resolveLocation(r, req.Location)
	if err != nil {
		s.respondError(w, http.StatusNotAcceptable, err.Error())
		return
	}

	movie, err := s.repo.Movies.Create(r.Context(), repository.MovieCreateParams{
		Title:       req.Title,
		Year:        req.Year,
		Genre:       req.Genre,
		Poster:      req.Poster,
		GeoLocation: geo,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("create movie")
		s.respondError(w, http.StatusNotAcceptable, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, dataResponse{Success: true, Data: movie})
}

func (s *Server) handleUpdateMovie(w http.ResponseWriter, r *http.Request) {
	var req movieRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.Location == "" {
		s.respondError(w, http.StatusBadRequest, "location is required")
		return
	}

	movieID := chi.URLParam(r, "movieid")
	if err := uuid.Validate(movieID); err != nil {
		s.respondError(w, http.StatusNotAcceptable, "invalid movie id")
		return
	}
	if err := validateMovieRequest(req); err != nil {
		s.respondError(w, http.StatusNotAcceptable, err.Error())
		return
	}

	geo, err := s.resolveLocation(r, req.Location)
	if err != nil {
		s.respondError(w, http.StatusNotAcceptable, err.Error())
		return
	}

	movie, err := s.repo.Movies.Update(r.Context(), movieID, repository.MovieUpdateParams{
		Title:       req.Title,
		Year:        req.Year,
		Genre:       req.Genre,
		Poster:      req.Poster,
		GeoLocation: geo,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "Movie not found")
			return
		}
		s.logger.Error().Err(err).Msg("update movie")
		s.respondError(w, http.StatusNotAcceptable, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, dataResponse{Success: true, Data: movie})
}

func (s *Server) handleDeleteMovie(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "movieid")
	if err := uuid.Validate(movieID); err != nil {
		s.respondError(w, http.StatusNotAcceptable, "invalid movie id")
		return
	}

	if err := s.repo.Movies.Delete(r.Context(), movieID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "Movie not found")
			return
		}
		s.logger.Error().Err(err).Msg("delete movie")
		s.respondError(w, http.StatusNotAcceptable, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
