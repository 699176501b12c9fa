package api

import (
	"net/http"
)

type itemRequestBody struct {
	Description string `json:"description"`
}

func (s *HTTPServer) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := actorID(r)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	var body itemRequestBody
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	view, err := s.svc.Requests.CreateRequest(r.Context(), userID, body.Description)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, view)
}

func (s *HTTPServer) handleListOwnRequests(w http.ResponseWriter, r *http.Request) {
	userID, err := actorID(r)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	views, err := s.svc.Requests.ListOwnRequests(r.Context(), userID)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, views)
}

func (s *HTTPServer) handleListOtherRequests(w http.ResponseWriter, r *http.Request) {
	userID, err := actorID(r)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	page, err := pageFromQuery(r)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	views, err := s.svc.Requests.ListOtherRequests(r.Context(), userID, page)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, views)
}

func (s *HTTPServer) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := actorID(r)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	requestID, err := pathID(r)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	view, err := s.svc.Requests.GetRequest(r.Context(), userID, requestID)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, view)
}
