// Package gateway validates incoming requests and forwards valid ones to the server.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"shareit/internal/api"
	"shareit/internal/config"
	"shareit/internal/logging"
	"shareit/internal/metrics"
	"shareit/internal/models"
	"shareit/internal/ratelimit"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type Gateway struct {
	cfg      config.GatewayConfig
	client   *ServerClient
	limiter  ratelimit.Limiter
	validate *validator.Validate
	logger   *zerolog.Logger
	server   *http.Server
}

func New(cfg config.GatewayConfig, client *ServerClient, limiter ratelimit.Limiter, logger *zerolog.Logger) *Gateway {
	g := &Gateway{
		cfg:      cfg,
		client:   client,
		limiter:  limiter,
		validate: newValidator(),
		logger:   logger,
	}

	router := mux.NewRouter()
	router.Use(api.RequestID(logger), api.AccessLog("gateway", logger), g.throttle)
	g.routes(router)

	g.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	return g
}

// check describes what a route validates before forwarding.
type check struct {
	user     bool
	body     func() any
	page     bool
	state    bool
	approved bool
}

func (g *Gateway) routes(r *mux.Router) {
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	r.HandleFunc("/users", g.handle(check{body: func() any { return &userCreate{} }})).Methods(http.MethodPost)
	r.HandleFunc("/users", g.handle(check{})).Methods(http.MethodGet)
	r.HandleFunc("/users/{id:[0-9]+}", g.handle(check{})).Methods(http.MethodGet, http.MethodDelete)
	r.HandleFunc("/users/{id:[0-9]+}", g.handle(check{body: func() any { return &userPatch{} }})).Methods(http.MethodPatch)

	r.HandleFunc("/items", g.handle(check{user: true, body: func() any { return &itemCreate{} }})).Methods(http.MethodPost)
	r.HandleFunc("/items", g.handle(check{user: true, page: true})).Methods(http.MethodGet)
	r.HandleFunc("/items/search", g.handle(check{page: true})).Methods(http.MethodGet)
	r.HandleFunc("/items/{id:[0-9]+}", g.handle(check{user: true})).Methods(http.MethodGet)
	r.HandleFunc("/items/{id:[0-9]+}", g.handle(check{user: true, body: func() any { return &itemPatch{} }})).Methods(http.MethodPatch)
	r.HandleFunc("/items/{id:[0-9]+}/comment", g.handle(check{user: true, body: func() any { return &commentCreate{} }})).Methods(http.MethodPost)

	r.HandleFunc("/bookings", g.handle(check{user: true, body: func() any { return &bookingCreate{} }})).Methods(http.MethodPost)
	r.HandleFunc("/bookings", g.handle(check{user: true, state: true, page: true})).Methods(http.MethodGet)
	r.HandleFunc("/bookings/owner", g.handle(check{user: true, state: true, page: true})).Methods(http.MethodGet)
	r.HandleFunc("/bookings/owner/export", g.handle(check{user: true, state: true})).Methods(http.MethodGet)
	r.HandleFunc("/bookings/{id:[0-9]+}", g.handle(check{user: true})).Methods(http.MethodGet)
	r.HandleFunc("/bookings/{id:[0-9]+}", g.handle(check{user: true, approved: true})).Methods(http.MethodPatch)

	r.HandleFunc("/requests", g.handle(check{user: true, body: func() any { return &requestCreate{} }})).Methods(http.MethodPost)
	r.HandleFunc("/requests", g.handle(check{user: true})).Methods(http.MethodGet)
	r.HandleFunc("/requests/all", g.handle(check{user: true, page: true})).Methods(http.MethodGet)
	r.HandleFunc("/requests/{id:[0-9]+}", g.handle(check{user: true})).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		api.WriteError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		api.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}

func (g *Gateway) Handler() http.Handler {
	return g.server.Handler
}

func (g *Gateway) Start() error {
	g.logger.Info().Str("addr", g.server.Addr).Str("server_url", g.cfg.ServerURL).Msg("Gateway listening")
	if err := g.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (g *Gateway) Shutdown(ctx context.Context) error {
	return g.server.Shutdown(ctx)
}

func (g *Gateway) handle(c check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c.user {
			if _, err := userIDHeader(r); err != nil {
				api.WriteError(w, http.StatusBadRequest, err.Error())
				return
			}
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "request body too large")
			return
		}

		var fields []FieldError
		if c.body != nil {
			dst := c.body()
			if err := json.Unmarshal(body, dst); err != nil {
				api.WriteError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
			fields = append(fields, fieldErrors(g.validate.Struct(dst))...)
		}
		if c.page {
			fields = append(fields, g.checkPage(r)...)
		}
		if c.approved {
			if _, err := strconv.ParseBool(r.URL.Query().Get("approved")); err != nil {
				fields = append(fields, FieldError{Field: "approved", Message: "must be true or false"})
			}
		}
		if len(fields) > 0 {
			api.WriteJSON(w, http.StatusBadRequest, validationResponse{Error: "validation failed", Fields: fields})
			return
		}

		if c.state {
			if _, err := models.ParseBookingState(r.URL.Query().Get("state")); err != nil {
				api.WriteError(w, http.StatusBadRequest, err.Error())
				return
			}
		}

		g.forward(w, r, body)
	}
}

func (g *Gateway) checkPage(r *http.Request) []FieldError {
	var fields []FieldError
	q := pageQuery{From: models.DefaultPageFrom, Size: models.DefaultPageSize}
	params := []struct {
		name string
		dst  *int
	}{{"from", &q.From}, {"size", &q.Size}}
	for _, p := range params {
		name, dst := p.name, p.dst
		raw := strings.TrimSpace(r.URL.Query().Get(name))
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			fields = append(fields, FieldError{Field: name, Message: "must be an integer"})
			continue
		}
		*dst = v
	}
	if len(fields) > 0 {
		return fields
	}
	return fieldErrors(g.validate.Struct(q))
}

func (g *Gateway) forward(w http.ResponseWriter, r *http.Request, body []byte) {
	resp, err := g.client.Forward(r.Context(), r, body)
	if err != nil {
		logging.FromContext(r.Context(), g.logger).Error().Err(err).Msg("server request failed")
		api.WriteError(w, http.StatusBadGateway, "server unavailable")
		return
	}

	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	if resp.Disposition != "" {
		w.Header().Set("Content-Disposition", resp.Disposition)
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, bytes.NewReader(resp.Body))
}

// throttle enforces the per-user fixed window. Anonymous calls are keyed by client address.
func (g *Gateway) throttle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.limiter == nil || g.cfg.UserLimit.Requests <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		allowed, err := g.limiter.Allow(r.Context(), throttleKey(r), g.cfg.UserLimit.Requests, g.cfg.UserLimit.Window)
		if err != nil {
			logging.FromContext(r.Context(), g.logger).Warn().Err(err).Msg("rate limiter failed, request allowed")
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			metrics.IncThrottled()
			api.WriteError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func throttleKey(r *http.Request) string {
	if id, err := userIDHeader(r); err == nil {
		return "user:" + strconv.FormatInt(id, 10)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		return "addr:unknown"
	}
	return "addr:" + host
}

func userIDHeader(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.Header.Get(models.HeaderUserID))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", models.HeaderUserID)
	}
	return id, nil
}
