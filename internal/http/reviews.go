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
	minAuthorLen      = 3
	maxAuthorLen      = 60
	maxReviewRating   = 5
	maxDescriptionLen = 260
)

type reviewRequest struct {
	Author         string   `json:"author"`
	Rating         *float64 `json:"rating"`
	Description    string   `json:"description"`
	ReviewLocation string   `json:"reviewLocation"`
}

type reviewEnvelope struct {
	Movie struct {
		Title  string        `json:"title"`
		ID     string        `json:"id"`
		Review domain.Review `json:"review"`
	} `json:"movie"`
}

func validateReviewRequest(req reviewRequest) error {
	if len(req.Author) < minAuthorLen || len(req.Author) > maxAuthorLen {
		return fmt.Errorf("author must be between %d and %d characters", minAuthorLen, maxAuthorLen)
	}
	if req.Rating == nil {
		return errors.New("rating is required")
	}
	if *req.Rating < 0 || *req.Rating > maxReviewRating {
		return fmt.Errorf("rating must be between 0 and %d", maxReviewRating)
	}
	if len(req.Description) > maxDescriptionLen {
		return fmt.Errorf("description must be at most %d characters", maxDescriptionLen)
	}
	return nil
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.ReviewLocation == "" {
		s.respondError(w, http.StatusBadRequest, "reviewLocation is required")
		return
	}

	movieID := chi.URLParam(r, "movieid")
	if err := uuid.Validate(movieID); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid movie id")
		return
	}
	if _, err := s.repo.Movies.GetByID(r.Context(), movieID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "Movie not found")
			return
		}
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	geo, err := s.resolveLocation(r, req.ReviewLocation)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateReviewRequest(req); err != nil {
		s.respondError(w, http.StatusNotAcceptable, err.Error())
		return
	}

	review, err := s.repo.Reviews.Add(r.Context(), movieID, repository.ReviewCreateParams{
		Author:      req.Author,
		Rating:      *req.Rating,
		Description: req.Description,
		GeoLocation: geo,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "Movie not found")
			return
		}
		s.logger.Error().Err(err).Str("movie_id", movieID).Msg("add review")
		s.respondError(w, http.StatusNotAcceptable, err.Error())
		return
	}

	s.aggregator.Enqueue(movieID)
	s.respondJSON(w, http.StatusCreated, dataResponse{Success: true, Data: review})
}

func (s *Server) handleGetReview(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "movieid")
	reviewID := chi.URLParam(r, "reviewid")
	if uuid.Validate(movieID) != nil || uuid.Validate(reviewID) != nil {
		s.respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	title, review, err := s.repo.Reviews.Get(r.Context(), movieID, reviewID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			s.respondError(w, http.StatusNotFound, "Movie not found")
		case errors.Is(err, repository.ErrNoReviews):
			s.respondError(w, http.StatusNotFound, "No reviews found")
		case errors.Is(err, repository.ErrReviewNotFound):
			s.respondError(w, http.StatusNotFound, "Review not found")
		default:
			s.respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	var payload reviewEnvelope
	payload.Movie.Title = title
	payload.Movie.ID = movieID
	payload.Movie.Review = review
	s.respondJSON(w, http.StatusOK, payload)
}

func (s *Server) handleUpdateReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.ReviewLocation == "" {
		s.respondError(w, http.StatusBadRequest, "reviewLocation is required")
		return
	}

	geo, err := s.resolveLocation(r, req.ReviewLocation)
	if err != nil {
		s.respondError(w, http.StatusNotAcceptable, err.Error())
		return
	}

	movieID := chi.URLParam(r, "movieid")
	reviewID := chi.URLParam(r, "reviewid")
	if uuid.Validate(movieID) != nil || uuid.Validate(reviewID) != nil {
		s.respondError(w, http.StatusNotAcceptable, "invalid id")
		return
	}
	if err := validateReviewRequest(req); err != nil {
		s.respondError(w, http.StatusNotAcceptable, err.Error())
		return
	}

	review, err := s.repo.Reviews.Update(r.Context(), movieID, reviewID, repository.ReviewUpdateParams{
		Author:      req.Author,
		Rating:      *req.Rating,
		Description: req.Description,
		GeoLocation: geo,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			s.respondError(w, http.StatusNotFound, "Movie not found")
		case errors.Is(err, repository.ErrNoReviews):
			s.respondError(w, http.StatusNotFound, "No review to update")
		case errors.Is(err, repository.ErrReviewNotFound):
			s.respondError(w, http.StatusNotFound, "Review not found")
		default:
			s.logger.Error().Err(err).Str("movie_id", movieID).Msg("update review")
			s.respondError(w, http.StatusNotAcceptable, err.Error())
		}
		return
	}

	s.aggregator.Enqueue(movieID)
	s.respondJSON(w, http.StatusCreated, dataResponse{Success: true, Data: review})
}

func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "movieid")
	reviewID := chi.URLParam(r, "reviewid")
	if movieID == "" || reviewID == "" {
		s.respondError(w, http.StatusBadRequest, "Not found, movieid and reviewid are both required")
		return
	}
	if uuid.Validate(movieID) != nil || uuid.Validate(reviewID) != nil {
		s.respondError(w, http.StatusNotAcceptable, "invalid id")
		return
	}

	if err := s.repo.Reviews.Remove(r.Context(), movieID, reviewID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			s.respondError(w, http.StatusNotFound, "Movie not found")
		case errors.Is(err, repository.ErrNoReviews):
			s.respondError(w, http.StatusNotFound, "No review to delete")
		case errors.Is(err, repository.ErrReviewNotFound):
			s.respondError(w, http.StatusNotFound, "Review not found")
		default:
			s.logger.Error().Err(err).Str("movie_id", movieID).Msg("delete review")
			s.respondError(w, http.StatusNotAcceptable, err.Error())
		}
		return
	}

	s.aggregator.Enqueue(movieID)
	w.WriteHeader(http.StatusNoContent)
}
