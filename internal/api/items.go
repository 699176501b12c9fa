package api

import (
	"net/http"

	"shareit/internal/models"
)

type commentRequest struct {
	Text string `json:"text"`
}

func (s *HTTPServer) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	userID, err := actorID(r)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	var in models.ItemInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	item, err := s.svc.Items.CreateItem(r.Context(), userID, in)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

func (s *HTTPServer) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, err := actorID(r)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	itemID, err := pathID(r)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	var patch models.ItemPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	item, err := s.svc.Items.UpdateItem(r.Context(), userID, itemID, patch)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

func (s *HTTPServer) handleGetItem(w http.ResponseWriter, r *http.Request) {
	userID, err := actorID(r)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	itemID, err := pathID(r)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	view, err := s.svc.Items.GetItem(r.Context(), userID, itemID)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, view)
}

func (s *HTTPServer) handleListItems(w http.ResponseWriter, r *http.Request) {
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

	views, err := s.svc.Items.ListOwnerItems(r.Context(), userID, page)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, views)
}

func (s *HTTPServer) handleSearchItems(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	items, err := s.svc.Items.SearchItems(r.Context(), r.URL.Query().Get("text"), page)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *HTTPServer) handleAddComment(w http.ResponseWriter, r *http.Request) {
	userID, err := actorID(r)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	itemID, err := pathID(r)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	var body commentRequest
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	comment, err := s.svc.Items.AddComment(r.Context(), userID, itemID, body.Text)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, comment)
}
