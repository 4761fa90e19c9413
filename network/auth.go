package network

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
)

// ErrAuthFailed is returned when the auth endpoint rejects the credentials.
var ErrAuthFailed = errors.New("authentication failed")

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	Detail      string `json:"detail,omitempty"`
}

// AuthClient exchanges credentials for the bearer token sent in the hello.
type AuthClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewAuthClient(baseURL string) *AuthClient {
	return &AuthClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *AuthClient) Login(ctx context.Context, username, password string) (string, error) {
	return a.post(ctx, "/auth/login", username, password)
}

func (a *AuthClient) Register(ctx context.Context, username, password string) (string, error) {
	return a.post(ctx, "/auth/register", username, password)
}

func (a *AuthClient) post(ctx context.Context, path, username, password string) (string, error) {
	body, err := json.Marshal(credentials{Username: username, Password: password})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("%s: read body: %w", path, err)
	}

	var tr tokenResponse
	decodeErr := json.Unmarshal(raw, &tr)

	// error bodies may not be JSON, the status alone is enough there
	if resp.StatusCode != http.StatusOK {
		if tr.Detail != "" {
			return "", fmt.Errorf("%w: %s", ErrAuthFailed, tr.Detail)
		}
		return "", fmt.Errorf("%w: status %d", ErrAuthFailed, resp.StatusCode)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("%s: decode response: %w", path, decodeErr)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("%w: no token in response", ErrAuthFailed)
	}
	return tr.AccessToken, nil
}
