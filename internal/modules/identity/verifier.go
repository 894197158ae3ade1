package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const verifyTimeout = 10 * time.Second

var ErrTokenRejected = fmt.Errorf("identity provider rejected token")

// TokenVerifier resolves a bearer token to the identity it was issued for.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// HTTPTokenVerifier calls the identity provider's verification endpoint.
type HTTPTokenVerifier struct {
	baseURL    *url.URL
	httpClient *http.Client
}

func NewHTTPTokenVerifier(baseURL *url.URL) *HTTPTokenVerifier {
	return &HTTPTokenVerifier{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: verifyTimeout,
		},
	}
}

type verifyResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

func (v *HTTPTokenVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	u := v.baseURL.JoinPath("sessions", "verify")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Identity{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("identity provider request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return Identity{}, ErrTokenRejected
	default:
		return Identity{}, fmt.Errorf("identity provider returned %d", resp.StatusCode)
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Identity{}, fmt.Errorf("identity provider response malformed: %w", err)
	}

	if body.UserID == "" {
		return Identity{}, ErrTokenRejected
	}

	return Identity{UserID: body.UserID, Email: body.Email}, nil
}
