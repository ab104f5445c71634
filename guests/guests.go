/* SPDX-License-Identifier: MPL-2.0
 * Copyright 2025 Tejus Pratap <tejzpr@gmail.com>
 *
 * See CONTRIBUTORS.md for full contributor list.
 */

// Package guests manages guest users: tokens created by a service app,
// and guest-issuer JWTs exchanged for an access token.
package guests

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/google/uuid"
	"github.com/jeokrohn/wxc-sdk-sub004/webexsdk"
)

// Token is an access token issued for a guest.
type Token struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"`
}

// JWTLogin is the result of exchanging a guest-issuer JWT.
type JWTLogin struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}

// Config holds the configuration for the Guests plugin
type Config struct{}

// DefaultConfig returns the default configuration for the Guests plugin
func DefaultConfig() *Config {
	return &Config{}
}

// Client provides methods for guest management.
type Client struct {
	webexClient *webexsdk.Client
	config      *Config
}

// New creates a new Guests plugin
func New(webexClient *webexsdk.Client, config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	return &Client{
		webexClient: webexClient,
		config:      config,
	}
}

// Name implements webexsdk.Plugin.
func (c *Client) Name() string { return "guests" }

// CreateToken creates a guest identified by subject and returns its token.
// The same subject always maps to the same guest.
func (c *Client) CreateToken(ctx context.Context, subject, displayName string) (*Token, error) {
	if subject == "" {
		return nil, fmt.Errorf("subject is required")
	}
	if displayName == "" {
		return nil, fmt.Errorf("display name is required")
	}
	body := map[string]string{"subject": subject, "displayName": displayName}
	var t Token
	if err := c.webexClient.Post(ctx, "guests/token", nil, body, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Count returns the number of guests in the organization.
func (c *Client) Count(ctx context.Context) (int, error) {
	var result struct {
		Count int `json:"count"`
	}
	if err := c.webexClient.Get(ctx, "guests/count", nil, &result); err != nil {
		return 0, err
	}
	return result.Count, nil
}

// NewGuestIssuerJWT signs an HS256 guest token. secretB64 is the base64
// shared secret of the guest issuer app.
func NewGuestIssuerJWT(issuerID, secretB64, subject, name string, ttl time.Duration) (string, error) {
	if issuerID == "" || subject == "" {
		return "", fmt.Errorf("issuer ID and subject are required")
	}
	secret, err := base64.StdEncoding.DecodeString(secretB64)
	if err != nil {
		return "", fmt.Errorf("decoding issuer secret: %w", err)
	}
	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.HS256, Key: secret},
		(&jose.SignerOptions{}).WithType("JWT"))
	if err != nil {
		return "", fmt.Errorf("creating signer: %w", err)
	}

	claims := jwt.Claims{
		Subject: subject,
		Issuer:  issuerID,
		Expiry:  jwt.NewNumericDate(time.Now().Add(ttl)),
		ID:      uuid.NewString(),
	}
	custom := struct {
		Name string `json:"name,omitempty"`
	}{Name: name}

	token, err := jwt.Signed(signer).Claims(claims).Claims(custom).Serialize()
	if err != nil {
		return "", fmt.Errorf("signing guest JWT: %w", err)
	}
	return token, nil
}

// LoginWithJWT exchanges a guest-issuer JWT for an access token. The JWT is
// sent as the bearer credential instead of the client's token.
func (c *Client) LoginWithJWT(ctx context.Context, token string) (*JWTLogin, error) {
	if token == "" {
		return nil, fmt.Errorf("JWT is required")
	}
	guest, err := c.webexClient.WithAccessToken(token)
	if err != nil {
		return nil, err
	}
	var login JWTLogin
	if err := guest.Post(ctx, "jwt/login", nil, nil, &login); err != nil {
		return nil, err
	}
	return &login, nil
}
