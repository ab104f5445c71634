/* SPDX-License-Identifier: MPL-2.0
 * Copyright 2025 Tejus Pratap <tejzpr@gmail.com>
 *
 * See CONTRIBUTORS.md for full contributor list.
 */

// Package auth obtains and refreshes access tokens for a Webex integration
// using the OAuth authorization code flow.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jeokrohn/wxc-sdk-sub004/webexsdk"
)

const (
	DefaultAuthURL  = "https://webexapis.com/v1/authorize"
	DefaultTokenURL = "https://webexapis.com/v1/access_token"
)

// Integration holds the OAuth client registration of a Webex integration.
type Integration struct {
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	Scopes       []string `yaml:"scopes"`
	RedirectURL  string   `yaml:"redirect_url"`

	// AuthURL and TokenURL default to the Webex endpoints.
	AuthURL  string `yaml:"auth_url,omitempty"`
	TokenURL string `yaml:"token_url,omitempty"`

	HTTPClient *http.Client `yaml:"-"`
}

// Tokens is the token set returned by the token endpoint.
type Tokens struct {
	AccessToken           string    `json:"access_token" yaml:"access_token"`
	ExpiresIn             int       `json:"expires_in" yaml:"expires_in"`
	ExpiresAt             time.Time `json:"-" yaml:"expires_at,omitempty"`
	RefreshToken          string    `json:"refresh_token" yaml:"refresh_token"`
	RefreshTokenExpiresIn int       `json:"refresh_token_expires_in" yaml:"refresh_token_expires_in"`
	RefreshTokenExpiresAt time.Time `json:"-" yaml:"refresh_token_expires_at,omitempty"`
	TokenType             string    `json:"token_type,omitempty" yaml:"token_type,omitempty"`
}

// SetExpiration derives the absolute expiry times from the relative
// lifetimes, counted from now.
func (t *Tokens) SetExpiration(now time.Time) {
	if t.ExpiresIn > 0 {
		t.ExpiresAt = now.Add(time.Duration(t.ExpiresIn) * time.Second)
	}
	if t.RefreshTokenExpiresIn > 0 {
		t.RefreshTokenExpiresAt = now.Add(time.Duration(t.RefreshTokenExpiresIn) * time.Second)
	}
}

// Remaining is the lifetime left on the access token.
func (t *Tokens) Remaining() time.Duration {
	if t.ExpiresAt.IsZero() {
		return 0
	}
	return time.Until(t.ExpiresAt)
}

// NeedsRefresh reports whether the access token expires within margin.
// Tokens without a known expiry never need a refresh.
func (t *Tokens) NeedsRefresh(margin time.Duration) bool {
	if t.ExpiresAt.IsZero() {
		return false
	}
	return time.Until(t.ExpiresAt) < margin
}

func (i *Integration) authURL() string {
	if i.AuthURL != "" {
		return i.AuthURL
	}
	return DefaultAuthURL
}

func (i *Integration) tokenURL() string {
	if i.TokenURL != "" {
		return i.TokenURL
	}
	return DefaultTokenURL
}

func (i *Integration) httpClient() *http.Client {
	if i.HTTPClient != nil {
		return i.HTTPClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}

// AuthCodeURL returns the URL a user opens to grant access.
func (i *Integration) AuthCodeURL(state string) string {
	params := url.Values{
		"client_id":     {i.ClientID},
		"response_type": {"code"},
		"redirect_uri":  {i.RedirectURL},
		"scope":         {strings.Join(i.Scopes, " ")},
	}
	if state != "" {
		params.Set("state", state)
	}
	return i.authURL() + "?" + params.Encode()
}

// ExchangeCode trades an authorization code for tokens.
func (i *Integration) ExchangeCode(ctx context.Context, code string) (*Tokens, error) {
	if code == "" {
		return nil, fmt.Errorf("authorization code is required")
	}
	return i.token(ctx, url.Values{
		"grant_type":    {"authorization_code"},
		"client_id":     {i.ClientID},
		"client_secret": {i.ClientSecret},
		"code":          {code},
		"redirect_uri":  {i.RedirectURL},
	})
}

// Refresh obtains a new access token. The refresh token is kept when the
// server does not rotate it.
func (i *Integration) Refresh(ctx context.Context, tokens *Tokens) (*Tokens, error) {
	if tokens == nil || tokens.RefreshToken == "" {
		return nil, fmt.Errorf("refresh token is required")
	}
	fresh, err := i.token(ctx, url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {i.ClientID},
		"client_secret": {i.ClientSecret},
		"refresh_token": {tokens.RefreshToken},
	})
	if err != nil {
		return nil, err
	}
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = tokens.RefreshToken
		fresh.RefreshTokenExpiresIn = tokens.RefreshTokenExpiresIn
		fresh.RefreshTokenExpiresAt = tokens.RefreshTokenExpiresAt
	}
	return fresh, nil
}

func (i *Integration) token(ctx context.Context, form url.Values) (*Tokens, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.tokenURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(webexsdk.TrackingIDHeader, webexsdk.NewTrackingID())

	resp, err := i.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}

	var t Tokens
	if err := webexsdk.ParseResponse(resp, &t); err != nil {
		return nil, err
	}
	if t.AccessToken == "" {
		return nil, fmt.Errorf("token response without access_token")
	}
	t.SetExpiration(time.Now())
	return &t, nil
}

