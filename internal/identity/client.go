package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"sitio/internal/core"
)

// Client delegates authentication to the external identity provider. No
// credentials or sessions are stored locally; the raw session payload is
// passed through to the caller.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn exchanges an email and password for the provider's raw session
// payload. Any non-2xx answer from the provider reads as bad credentials.
func (c *Client) SignIn(ctx context.Context, email, password string) (json.RawMessage, error) {
	body, err := json.Marshal(credentials{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("marshal credentials: %w", err)
	}

	endpoint := c.baseURL + "/auth/v1/token?grant_type=password"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read sign-in response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.WarnContext(ctx, "Sign-in rejected by identity provider",
			"status", resp.StatusCode)
		return nil, core.ErrBadCredentials
	}

	return json.RawMessage(payload), nil
}

// SignOut revokes the session at the provider. Failures are logged, never
// surfaced: the client-side session is gone either way.
func (c *Client) SignOut(ctx context.Context, accessToken string) {
	endpoint := c.baseURL + "/auth/v1/logout"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		slog.WarnContext(ctx, "Failed to build sign-out request", "error", err)
		return
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "Sign-out request failed", "error", err)
		return
	}
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.WarnContext(ctx, "Sign-out rejected by identity provider",
			"status", resp.StatusCode)
	}
}
