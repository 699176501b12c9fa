package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shareit/internal/config"
	"shareit/internal/models"
)

const (
	apiKeyHeader   = "x-api-key"
	apiExtraHeader = "x-api-extra"
	maxBodyBytes   = 1 << 20
)

// Response is a server reply relayed to the caller as is.
type Response struct {
	StatusCode  int
	ContentType string
	Disposition string
	Body        []byte
}

// ServerClient forwards validated requests to the ShareIt server.
type ServerClient struct {
	baseURL    string
	apiKey     string
	apiExtra   string
	httpClient *http.Client
}

func NewServerClient(cfg config.GatewayConfig) *ServerClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ServerClient{
		baseURL:    strings.TrimRight(cfg.ServerURL, "/"),
		apiKey:     cfg.APIKey,
		apiExtra:   cfg.APIExtra,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Forward sends method, path and body of r to the server.
func (c *ServerClient) Forward(ctx context.Context, r *http.Request, body []byte) (*Response, error) {
	endpoint := c.baseURL + r.URL.Path
	if r.URL.RawQuery != "" {
		endpoint += "?" + r.URL.RawQuery
	}

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range []string{models.HeaderUserID, models.HeaderRequestID, "Accept"} {
		if v := r.Header.Get(h); v != "" {
			req.Header.Set(h, v)
		}
	}
	c.addHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forward %s %s: %w", r.Method, r.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Disposition: resp.Header.Get("Content-Disposition"),
		Body:        data,
	}, nil
}

func (c *ServerClient) addHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}
	if c.apiExtra != "" {
		req.Header.Set(apiExtraHeader, c.apiExtra)
	}
}
