package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kanwarrior/kanwarrior/internal/logger"
)

const (
	// DefaultTimeout is the per-request timeout
	DefaultTimeout = 60 * time.Second

	// basicAuthUser is the fixed login Kanboard expects for API token auth.
	basicAuthUser = "jsonrpc"
)

var (
	// ErrUnauthorized indicates the API token was rejected
	ErrUnauthorized = errors.New("kanboard token rejected")

	// ErrNotFound indicates the resource does not exist on the server
	ErrNotFound = errors.New("resource not found on kanboard")

	// ErrTimeout indicates the request was cut short
	ErrTimeout = errors.New("kanboard request timed out")

	// ErrInvalidResponse indicates the server reply could not be decoded
	ErrInvalidResponse = errors.New("invalid response from kanboard")
)

// request is the JSON-RPC 2.0 request envelope.
type request struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	ID      string      `json:"id"`
	Params  interface{} `json:"params,omitempty"`
}

// response is the JSON-RPC 2.0 response envelope.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *Error          `json:"error"`
	ID      json.RawMessage `json:"id"`
}

// Error is the JSON-RPC error object returned by the server.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// Client posts JSON-RPC 2.0 calls to a single Kanboard endpoint. It is
// created once per run and reused for every call.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// NewClient creates a client bound to the normalized base URL and token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		endpoint: Endpoint(baseURL),
		token:    token,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     30 * time.Second,
			},
		},
	}
}

// Endpoint normalizes a configured base URL into the RPC endpoint URL.
// Scheme-less URLs default to https.
func Endpoint(baseURL string) string {
	url := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}
	return url + "/jsonrpc.php"
}

// Call invokes method with params and decodes the result envelope into
// result. A nil result discards the payload.
func (c *Client) Call(ctx context.Context, method string, params, result interface{}) error {
	id := uuid.NewString()

	body, err := json.Marshal(request{JSONRPC: "2.0", Method: method, ID: id, Params: params})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(basicAuthUser, c.token)
	req.Header.Set("Content-Type", "application/json")

	logger.Get(ctx).Debug().
		Str("method", method).
		Str("request_id", id).
		Msg("kanboard call")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ErrTimeout
		}
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// OK, keep going
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	default:
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}

	var envelope response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if envelope.Error != nil {
		return fmt.Errorf("%s: %w", method, envelope.Error)
	}
	if result == nil {
		return nil
	}
	if len(envelope.Result) == 0 {
		return fmt.Errorf("%w: missing result for %s", ErrInvalidResponse, method)
	}
	if err := json.Unmarshal(envelope.Result, result); err != nil {
		return fmt.Errorf("%w: decode result for %s: %v", ErrInvalidResponse, method, err)
	}
	return nil
}
