// Package google holds hand-rolled clients for the Google REST APIs this
// service consumes: Sheets, Drive and Gmail, behind one OAuth2
// refresh-token credential.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const defaultTokenURL = "https://oauth2.googleapis.com/token"

// TokenSource exchanges a long-lived refresh token for access tokens and
// caches them until shortly before expiry. Safe for concurrent use.
type TokenSource struct {
	clientID     string
	clientSecret string
	refreshToken string
	tokenURL     string
	hc           *http.Client

	mu     sync.Mutex
	token  string
	expiry time.Time
}

func NewTokenSource(clientID, clientSecret, refreshToken string) (*TokenSource, error) {
	if clientID == "" || clientSecret == "" || refreshToken == "" {
		return nil, fmt.Errorf("google: missing OAuth credentials")
	}
	return &TokenSource{
		clientID:     clientID,
		clientSecret: clientSecret,
		refreshToken: refreshToken,
		tokenURL:     defaultTokenURL,
		hc:           &http.Client{Timeout: 20 * time.Second},
	}, nil
}

// WithTokenURL overrides the token endpoint (tests).
func (ts *TokenSource) WithTokenURL(u string) *TokenSource {
	ts.tokenURL = u
	return ts
}

// Token returns a valid access token, refreshing if the cached one is
// within a minute of expiring.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.token != "" && time.Until(ts.expiry) > time.Minute {
		return ts.token, nil
	}

	form := url.Values{
		"client_id":     {ts.clientID},
		"client_secret": {ts.clientSecret},
		"refresh_token": {ts.refreshToken},
		"grant_type":    {"refresh_token"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ts.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("google: token refresh: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("google: token refresh status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("google: token refresh decode: %w", err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("google: token refresh returned no access token")
	}
	ts.token = body.AccessToken
	ts.expiry = time.Now().Add(time.Duration(body.ExpiresIn) * time.Second)
	return ts.token, nil
}
