package api

import (
	"net/http"

	"shareit/internal/models"
)

func (s *HTTPServer) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := decodeJSON(r, &user); err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	created, err := s.svc.Users.CreateUser(r.Context(), user)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, created)
}

func (s *HTTPServer) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.svc.Users.ListUsers(r.Context())
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, users)
}

func (s *HTTPServer) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	user, err := s.svc.Users.GetUser(r.Context(), id)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	var patch models.UserPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	user, err := s.svc.Users.UpdateUser(r.Context(), id, patch)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	if err := s.svc.Users.DeleteUser(r.Context(), id); err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
