package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
)

// TokenSource supplies the bearer token used against the carrier API.
type TokenSource interface {
	// Token returns a token, authenticating first if needed
	Token(ctx context.Context) (string, error)
	// Invalidate drops the current token so the next Token call re-authenticates
	Invalidate()
}

// StaticTokenSource serves a pre-issued access token.
type StaticTokenSource struct {
	token string
}

// NewStaticTokenSource creates a token source for a fixed token
func NewStaticTokenSource(token string) *StaticTokenSource {
	return &StaticTokenSource{token: token}
}

// Token returns the configured token
func (s *StaticTokenSource) Token(ctx context.Context) (string, error) {
	if s.token == "" {
		return "", errors.New("no carrier access token configured")
	}
	return s.token, nil
}

// Invalidate is a no-op; a static token cannot be refreshed
func (s *StaticTokenSource) Invalidate() {}

// ClientCredentialsTokenSource exchanges client credentials for a token once
// and reuses it until invalidated.
type ClientCredentialsTokenSource struct {
	tokenURL     string
	clientID     string
	clientSecret string
	httpClient   *http.Client

	mu    sync.Mutex
	token string
}

// NewClientCredentialsTokenSource creates a token source for the OAuth client-credentials grant
func NewClientCredentialsTokenSource(baseURL, clientID, clientSecret string, httpClient *http.Client) *ClientCredentialsTokenSource {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &ClientCredentialsTokenSource{
		tokenURL:     strings.TrimSuffix(baseURL, "/") + "/oauth/token",
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   httpClient,
	}
}

// Token returns the cached token or performs the exchange
func (s *ClientCredentialsTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" {
		return s.token, nil
	}

	body, err := json.Marshal(map[string]string{
		"grant_type":    "client_credentials",
		"client_id":     s.clientID,
		"client_secret": s.clientSecret,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("token request returned status %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", errors.New("token response carried no access_token")
	}

	s.token = payload.AccessToken
	return s.token, nil
}

// Invalidate forgets the cached token
func (s *ClientCredentialsTokenSource) Invalidate() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}
