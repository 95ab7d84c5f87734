package httpserver

import (
	"errors"
	"net/http"

	"github.com/thywillbedone/movies2u/internal/auth"
	"github.com/thywillbedone/movies2u/internal/repository"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Token string `json:"token"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Email   string `json:"email"`
	Token   string `json:"token"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		s.respondError(w, http.StatusBadRequest, "Please provide all required fields")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("hash password")
		s.respondError(w, http.StatusNotAcceptable, err.Error())
		return
	}

	user, err := s.repo.Users.Create(r.Context(), req.Email, hashed)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.respondError(w, http.StatusBadRequest, "User already exists")
			return
		}
		s.logger.Error().Err(err).Msg("create user")
		s.respondError(w, http.StatusNotAcceptable, err.Error())
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.Error().Err(err).Msg("issue token")
		s.respondError(w, http.StatusNotAcceptable, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, registerResponse{ID: user.ID, Email: user.Email, Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		s.respondError(w, http.StatusBadRequest, "Please provide all required fields")
		return
	}

	// Unknown email and wrong password are indistinguishable to the caller.
	user, err := s.repo.Users.GetByEmail(r.Context(), req.Email)
	if err != nil || !auth.CheckPassword(user.HashedPassword, req.Password) {
		s.respondError(w, http.StatusForbidden, "Invalid email or password")
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.Error().Err(err).Msg("issue token")
		s.respondError(w, http.StatusNotAcceptable, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, loginResponse{Success: true, ID: user.ID, Email: user.Email, Token: token})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"id": user.ID, "email": user.Email})
}
