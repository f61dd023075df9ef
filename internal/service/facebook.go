package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// FacebookProfile is the subset of the Graph API profile the service reads.
type FacebookProfile struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Picture   struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

// UpstreamError carries a non-200 Graph API response so the handler can
// pass the provider's status and body through to the client unchanged.
type UpstreamError struct {
	StatusCode int
	Body       []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("facebook graph api returned %d", e.StatusCode)
}

// FacebookVerifier validates a (user id, access token) pair against the
// identity provider. Implemented by GraphClient; faked in tests.
type FacebookVerifier interface {
	VerifyCredentials(ctx context.Context, fbUserID, accessToken string) (*FacebookProfile, error)
}

// GraphClient talks to the Facebook Graph API.
type GraphClient struct {
	baseURL string
	client  *http.Client
}

// NewGraphClient creates a Graph API client. baseURL defaults to the
// public endpoint when empty.
func NewGraphClient(baseURL string) *GraphClient {
	if baseURL == "" {
		baseURL = "https://graph.facebook.com/v19.0"
	}
	return &GraphClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// VerifyCredentials fetches the profile the token belongs to. A token that
// does not grant access to fbUserID's profile fails here with the
// provider's own error response.
func (c *GraphClient) VerifyCredentials(ctx context.Context, fbUserID, accessToken string) (*FacebookProfile, error) {
	q := url.Values{}
	q.Set("fields", "first_name,last_name,picture")
	q.Set("access_token", accessToken)

	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, url.PathEscape(fbUserID), q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build graph request: %w", err)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach graph api: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read graph response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, &UpstreamError{StatusCode: res.StatusCode, Body: body}
	}

	var profile FacebookProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode graph response: %w", err)
	}

	if profile.ID != fbUserID {
		return nil, ErrInvalidCredentials
	}

	return &profile, nil
}

var _ FacebookVerifier = (*GraphClient)(nil)
