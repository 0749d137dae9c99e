package http

import (
	"encoding/json"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

type authResponse struct {
	Message string    `json:"message"`
	User    core.User `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.users.Register(r.Context(), in)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Message: "user registered successfully",
		User:    user,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.users.Login(r.Context(), in)
	if err != nil {
		// Any login rule violation is an authentication failure, with a
		// single message so registered emails cannot be enumerated.
		if ve, ok := core.AsValidationError(err); ok {
			writeError(w, http.StatusUnauthorized, ve.Messages[0])
			return
		}
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Message: "login successful",
		User:    user,
	})
}
