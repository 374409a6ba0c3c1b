// Package authorization talks to the remote authorization service that owns
// token verification. This service never sees signing keys; it only forwards
// bearer tokens and consumes the decoded claims.
package authorization

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// TokenClaims are the decoded claims returned by the authorization service.
type TokenClaims struct {
	Aud string `json:"aud"`
	Sub string `json:"sub"`
}

// ErrInvalidToken is returned when the service verified the token and
// rejected it, as opposed to being unable to verify at all.
var ErrInvalidToken = errors.New("unauthorized token")

// Verifier is the gate the auth middleware depends on.
type Verifier interface {
	Verify(ctx context.Context, token string) (*TokenClaims, error)
}

// Client is the HTTP client for the authorization service.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a new Client for the given verify endpoint.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type verifyRequest struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

type verifyResponse struct {
	Result *struct {
		Valide  bool         `json:"valide"`
		Decoded *TokenClaims `json:"decoded"`
	} `json:"result"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Verify submits the token to the authorization service and returns the
// decoded claims. ErrInvalidToken means the token was rejected; any other
// error means verification could not be performed.
func (c *Client) Verify(ctx context.Context, token string) (*TokenClaims, error) {
	body, err := json.Marshal(verifyRequest{Type: "verify", Token: token})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("authorization service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("authorization service returned status %d", resp.StatusCode)
	}

	var verifyResp verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&verifyResp); err != nil {
		return nil, fmt.Errorf("invalid authorization service response: %w", err)
	}

	if verifyResp.Error != nil {
		return nil, fmt.Errorf("authorization service error: %s", verifyResp.Error.Message)
	}
	if verifyResp.Result == nil {
		return nil, errors.New("authorization service unable to verify token")
	}
	if !verifyResp.Result.Valide || verifyResp.Result.Decoded == nil {
		return nil, ErrInvalidToken
	}

	return verifyResp.Result.Decoded, nil
}
