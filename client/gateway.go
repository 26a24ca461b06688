// Package client holds the storefront's client-side state core: a REST
// gateway transport plus the cart, order, wishlist, and catalog stores.
//
// The stores are caches, not sources of truth. Every mutation round-trips
// through the gateway and the local snapshot is replaced wholesale with the
// server's response; the client never persists money math of its own.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// genericErrMsg is the fallback shown when the server gave us no message.
const genericErrMsg = "Something went wrong. Please try again."

// Config holds connection settings for the storefront gateway.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// ConfigFromEnv builds a Config from the environment (.env aware).
func ConfigFromEnv() Config {
	_ = godotenv.Load()
	base := os.Getenv("BOOKSTORE_API_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	return Config{BaseURL: base}
}

// apiError carries a server-provided failure message.
type apiError struct {
	message string
}

func (e *apiError) Error() string {
	return e.message
}

// errMessage maps any gateway error to the message shown to the user:
// the server's own message when present, a generic fallback otherwise.
func errMessage(err error) string {
	var apiErr *apiError
	if errors.As(err, &apiErr) && apiErr.message != "" {
		return apiErr.message
	}
	return genericErrMsg
}

// envelope mirrors the gateway's {success, data, message} response shape.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// pagedPayload is the wire shape of every paginated listing.
type pagedPayload struct {
	Items      json.RawMessage `json:"items"`
	TotalCount int64           `json:"totalCount"`
	PageNumber int             `json:"pageNumber"`
	PageSize   int             `json:"pageSize"`
}

// gateway is the REST transport shared by all stores.
type gateway struct {
	base    string
	http    *http.Client
	session *Session
}

func newGateway(cfg Config, session *Session) *gateway {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &gateway{
		base:    strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
		session: session,
	}
}

// do issues one JSON round trip and decodes the envelope's data into out.
// A {success:false} reply or a non-2xx status with a message body becomes an
// *apiError; transport failures come back as-is and render as the generic
// fallback.
func (g *gateway) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := g.base + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := g.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 || (decodeErr == nil && !env.Success) {
		if decodeErr == nil && env.Message != "" {
			return &apiError{message: env.Message}
		}
		return &apiError{message: ""}
	}
	if decodeErr != nil {
		return decodeErr
	}

	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

// wsURL derives the websocket endpoint from the HTTP base URL.
func (g *gateway) wsURL(path string) string {
	base := g.base
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + path
}
