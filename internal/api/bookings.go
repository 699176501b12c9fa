package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"shareit/internal/models"
)

func stateFromQuery(r *http.Request) (models.BookingState, error) {
	return models.ParseBookingState(r.URL.Query().Get("state"))
}

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := actorID(r)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	var in models.BookingInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	booking, err := s.svc.Bookings.CreateBooking(r.Context(), userID, in)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleApproveBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := actorID(r)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	bookingID, err := pathID(r)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	raw := strings.TrimSpace(r.URL.Query().Get("approved"))
	approved, err := strconv.ParseBool(raw)
	if err != nil {
		respondError(w, r, s.logger, badRequest("invalid approved %q", raw))
		return
	}

	booking, err := s.svc.Bookings.ApproveBooking(r.Context(), userID, bookingID, approved)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := actorID(r)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	bookingID, err := pathID(r)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	booking, err := s.svc.Bookings.GetBooking(r.Context(), userID, bookingID)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleListBookerBookings(w http.ResponseWriter, r *http.Request) {
	s.listBookings(w, r, false)
}

func (s *HTTPServer) handleListOwnerBookings(w http.ResponseWriter, r *http.Request) {
	s.listBookings(w, r, true)
}

func (s *HTTPServer) listBookings(w http.ResponseWriter, r *http.Request, owner bool) {
	userID, err := actorID(r)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	state, err := stateFromQuery(r)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	page, err := pageFromQuery(r)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	list := s.svc.Bookings.ListBookerBookings
	if owner {
		list = s.svc.Bookings.ListOwnerBookings
	}
	bookings, err := list(r.Context(), userID, state, page)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, bookings)
}

func (s *HTTPServer) handleExportOwnerBookings(w http.ResponseWriter, r *http.Request) {
	userID, err := actorID(r)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	state, err := stateFromQuery(r)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	bookings, err := s.svc.Bookings.ExportOwnerBookings(r.Context(), userID, state)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	data, err := exportBookings(bookings, state)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", exportFileName(userID, state)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
