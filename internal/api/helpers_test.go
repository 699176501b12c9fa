package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/events"
	"shareit/internal/models"
	"shareit/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.NewDB(":memory:", nopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestHTTPServer(t *testing.T, cfg config.ServerConfig) (*HTTPServer, *database.DB) {
	t.Helper()
	db := newTestDB(t)
	bus := events.NewEventBus()
	svc := Services{
		Users:    service.NewUserService(db, nopLogger()),
		Items:    service.NewItemService(db, bus, nopLogger()),
		Bookings: service.NewBookingService(db, bus, nopLogger()),
		Requests: service.NewRequestService(db, nopLogger()),
	}
	return NewHTTPServer(cfg, db, svc, nopLogger()), db
}

// call sends a request to h. userID 0 omits the user header.
func call(t *testing.T, h http.Handler, method, path string, userID int64, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set(models.HeaderUserID, strconv.FormatInt(userID, 10))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["error"]
}

func createUser(t *testing.T, h http.Handler, name, email string) models.User {
	t.Helper()
	rec := call(t, h, http.MethodPost, "/users", 0, models.User{Name: name, Email: email})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[models.User](t, rec)
}

func createItem(t *testing.T, h http.Handler, ownerID int64, in models.ItemInput) models.Item {
	t.Helper()
	rec := call(t, h, http.MethodPost, "/items", ownerID, in)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[models.Item](t, rec)
}

func newRequest(method, path string, body *bytes.Buffer) *http.Request {
	if body == nil {
		body = &bytes.Buffer{}
	}
	return httptest.NewRequest(method, path, body)
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
