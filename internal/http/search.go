package httpserver

import (
	"net/http"
	"strconv"

	"github.com/thywillbedone/movies2u/internal/domain"
)

// handleSearch matches movies by a single criterion. Title wins over year,
// year wins over genre when several are supplied.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	switch {
	case query.Has("title"):
		title := query.Get("title")
		movies, err := s.repo.Movies.FindByTitle(r.Context(), title)
		if err != nil {
			s.logger.Error().Err(err).Msg("search by title")
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.respondSearchResults(w, movies, "there are no movies with title "+title)

	case query.Has("year"):
		raw := query.Get("year")
		year, err := strconv.Atoi(raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "request validation error")
			return
		}
		movies, err := s.repo.Movies.FindByYear(r.Context(), year)
		if err != nil {
			s.logger.Error().Err(err).Msg("search by year")
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.respondSearchResults(w, movies, "there are no movies on the year "+raw)

	case query.Has("genre"):
		genre := query.Get("genre")
		movies, err := s.repo.Movies.FindByGenre(r.Context(), genre)
		if err != nil {
			s.logger.Error().Err(err).Msg("search by genre")
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.respondSearchResults(w, movies, "there are no movies with genre "+genre)

	default:
		s.respondError(w, http.StatusBadRequest, "missing search criteria, use title, year or genre")
	}
}

// respondSearchResults keeps the empty-result contract: a 404 whose body still
// reports success, a zero count, and a human-readable data string.
func (s *Server) respondSearchResults(w http.ResponseWriter, movies []domain.Movie, emptyMessage string) {
	if len(movies) == 0 {
		s.respondJSON(w, http.StatusNotFound, listResponse{Success: true, Count: 0, Data: emptyMessage})
		return
	}
	s.respondJSON(w, http.StatusOK, listResponse{Success: true, Count: len(movies), Data: movies})
}
