package tripsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxErrorBody = 64 << 10

// Client talks to the unauthenticated endpoints and opens Sessions.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// RegisterRequest is the sign-up payload. Role may be left empty.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"nombre"`
	Role     string `json:"rol,omitempty"`
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Login exchanges credentials for a Session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var resp authResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", "", body, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return newSession(c, resp), nil
}

// Register creates an account and returns a Session for it.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", "", req, &resp, http.StatusCreated); err != nil {
		return nil, err
	}
	return newSession(c, resp), nil
}

// SessionFromToken resumes a session from a stored token.
func (c *Client) SessionFromToken(token string) *Session {
	return &Session{client: c, token: token}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// do sends one request and decodes the data envelope into out. A 401 on a
// request that carried a token becomes ErrSessionExpired.
func (c *Client) do(ctx context.Context, method, path, token string, in, out any, want int) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("tripsclient: marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("tripsclient: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("tripsclient: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && token != "" {
		_, _ = io.Copy(io.Discard, resp.Body)
		return ErrSessionExpired
	}
	if resp.StatusCode != want {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	envelope := struct {
		Data any `json:"data"`
	}{Data: out}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("tripsclient: decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Details any    `json:"details"`
		} `json:"error"`
	}
	apiErr := &APIError{Status: resp.StatusCode}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Code != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		apiErr.Details = envelope.Error.Details
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(raw))
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
