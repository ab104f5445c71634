/* SPDX-License-Identifier: MPL-2.0
 * Copyright 2025 Tejus Pratap <tejzpr@gmail.com>
 *
 * See CONTRIBUTORS.md for full contributor list.
 */

// Package locations manages the physical locations of an organization.
package locations

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"strconv"

	"github.com/jeokrohn/wxc-sdk-sub004/apimodel"
	"github.com/jeokrohn/wxc-sdk-sub004/webexsdk"
)

// Address is the postal address of a location.
type Address struct {
	Address1   *string `json:"address1,omitempty"`
	Address2   *string `json:"address2,omitempty"`
	City       *string `json:"city,omitempty"`
	State      *string `json:"state,omitempty"`
	PostalCode *string `json:"postalCode,omitempty"`
	Country    *string `json:"country,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// Location is a Webex location.
type Location struct {
	ID                   string   `json:"id,omitempty"`
	Name                 *string  `json:"name,omitempty"`
	OrgID                *string  `json:"orgId,omitempty"`
	TimeZone             *string  `json:"timeZone,omitempty"`
	PreferredLanguage    *string  `json:"preferredLanguage,omitempty"`
	AnnouncementLanguage *string  `json:"announcementLanguage,omitempty"`
	Address              *Address `json:"address,omitempty"`
	Latitude             *string  `json:"latitude,omitempty"`
	Longitude            *string  `json:"longitude,omitempty"`
	Notes                *string  `json:"notes,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// ListOptions filters the location list.
type ListOptions struct {
	Name  string
	ID    string
	OrgID string
	Max   int
}

// Config holds the configuration for the Locations plugin
type Config struct{}

// DefaultConfig returns the default configuration for the Locations plugin
func DefaultConfig() *Config {
	return &Config{}
}

// Client is the locations API client
type Client struct {
	webexClient *webexsdk.Client
	config      *Config
}

// New creates a new Locations plugin
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
func (c *Client) Name() string { return "locations" }

// List iterates over the locations of an organization.
func (c *Client) List(ctx context.Context, options *ListOptions) iter.Seq2[Location, error] {
	params := url.Values{}
	if options != nil {
		if options.Name != "" {
			params.Set("name", options.Name)
		}
		if options.ID != "" {
			params.Set("id", options.ID)
		}
		if options.OrgID != "" {
			params.Set("orgId", options.OrgID)
		}
		if options.Max > 0 {
			params.Set("max", strconv.Itoa(options.Max))
		}
	}
	return webexsdk.Follow[Location](ctx, c.webexClient, "locations", params, "")
}

// Get returns the details of a location.
func (c *Client) Get(ctx context.Context, locationID, orgID string) (*Location, error) {
	if locationID == "" {
		return nil, fmt.Errorf("location ID is required")
	}

	var loc Location
	if err := c.webexClient.Get(ctx, "locations/"+url.PathEscape(locationID), orgParam(orgID), &loc); err != nil {
		return nil, err
	}
	return &loc, nil
}

// ByName returns the first location whose name matches exactly, or nil.
func (c *Client) ByName(ctx context.Context, name, orgID string) (*Location, error) {
	for loc, err := range c.List(ctx, &ListOptions{Name: name, OrgID: orgID}) {
		if err != nil {
			return nil, err
		}
		if apimodel.Deref(loc.Name) == name {
			return &loc, nil
		}
	}
	return nil, nil
}

// Create creates a location and returns its ID.
func (c *Client) Create(ctx context.Context, settings Location) (string, error) {
	if apimodel.Deref(settings.Name) == "" {
		return "", fmt.Errorf("location name is required")
	}
	if apimodel.Deref(settings.TimeZone) == "" {
		return "", fmt.Errorf("time zone is required")
	}
	if settings.Address == nil {
		return "", fmt.Errorf("address is required")
	}

	body := settings
	body.ID = ""
	body.OrgID = nil

	var created struct {
		ID string `json:"id"`
	}
	if err := c.webexClient.Post(ctx, "locations", orgParam(apimodel.Deref(settings.OrgID)), body, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// Update modifies the location settings.ID. Only populated fields are sent.
func (c *Client) Update(ctx context.Context, settings Location) error {
	if settings.ID == "" {
		return fmt.Errorf("location ID is required")
	}

	body := settings
	body.ID = ""
	body.OrgID = nil
	return c.webexClient.Put(ctx, "locations/"+url.PathEscape(settings.ID), orgParam(apimodel.Deref(settings.OrgID)), body, nil)
}

func orgParam(orgID string) url.Values {
	if orgID == "" {
		return nil
	}
	return url.Values{"orgId": {orgID}}
}
