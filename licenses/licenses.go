/* SPDX-License-Identifier: MPL-2.0
 * Copyright 2025 Tejus Pratap <tejzpr@gmail.com>
 *
 * See CONTRIBUTORS.md for full contributor list.
 */

package licenses

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"strings"

	"github.com/jeokrohn/wxc-sdk-sub004/apimodel"
	"github.com/jeokrohn/wxc-sdk-sub004/webexsdk"
)

// License is a license subscribed by an organization.
type License struct {
	ID                   string  `json:"id,omitempty"`
	Name                 *string `json:"name,omitempty"`
	TotalUnits           *int    `json:"totalUnits,omitempty"`
	ConsumedUnits        *int    `json:"consumedUnits,omitempty"`
	ConsumedByUsers      *int    `json:"consumedByUsers,omitempty"`
	ConsumedByWorkspaces *int    `json:"consumedByWorkspaces,omitempty"`
	SubscriptionID       *string `json:"subscriptionId,omitempty"`
	SiteURL              *string `json:"siteUrl,omitempty"`
	SiteType             *string `json:"siteType,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// Names of the Webex Calling licenses.
const (
	CallingProfessional = "Webex Calling - Professional"
	CallingWorkspaces   = "Webex Calling - Workspaces"
)

// IsCallingProfessional reports whether l grants a professional calling line.
func (l License) IsCallingProfessional() bool {
	return apimodel.Deref(l.Name) == CallingProfessional
}

// IsCalling reports whether l is any Webex Calling license.
func (l License) IsCalling() bool {
	return strings.HasPrefix(apimodel.Deref(l.Name), "Webex Calling")
}

// Available returns the number of unconsumed units.
func (l License) Available() int {
	return apimodel.Deref(l.TotalUnits) - apimodel.Deref(l.ConsumedUnits)
}

// Config holds the configuration for the Licenses plugin
type Config struct{}

// DefaultConfig returns the default configuration for the Licenses plugin
func DefaultConfig() *Config {
	return &Config{}
}

// Client provides methods for interacting with the licenses API
type Client struct {
	webexClient *webexsdk.Client
	config      *Config
}

// New creates a new Licenses plugin
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
func (c *Client) Name() string { return "licenses" }

// List iterates over the licenses of an organization. An empty orgID lists
// the caller's organization.
func (c *Client) List(ctx context.Context, orgID string) iter.Seq2[License, error] {
	var params url.Values
	if orgID != "" {
		params = url.Values{"orgId": {orgID}}
	}
	return webexsdk.Follow[License](ctx, c.webexClient, "licenses", params, "")
}

// Get returns the details of a license.
func (c *Client) Get(ctx context.Context, licenseID string) (*License, error) {
	if licenseID == "" {
		return nil, fmt.Errorf("license ID is required")
	}
	var l License
	if err := c.webexClient.Get(ctx, "licenses/"+url.PathEscape(licenseID), nil, &l); err != nil {
		return nil, err
	}
	return &l, nil
}
