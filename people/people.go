/* SPDX-License-Identifier: MPL-2.0
 * Copyright 2025 Tejus Pratap <tejzpr@gmail.com>
 *
 * See CONTRIBUTORS.md for full contributor list.
 */

// Package people manages Webex users, including their Webex Calling data
// (extension, location and phone numbers).
package people

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jeokrohn/wxc-sdk-sub004/apimodel"
	"github.com/jeokrohn/wxc-sdk-sub004/webexid"
	"github.com/jeokrohn/wxc-sdk-sub004/webexsdk"
)

// maxIDsPerRequest is the largest id list the people endpoint accepts.
const maxIDsPerRequest = 85

// PhoneNumber is a phone number assigned to a person.
type PhoneNumber struct {
	Type    *string `json:"type,omitempty"`
	Value   *string `json:"value,omitempty"`
	Primary *bool   `json:"primary,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// Address is a postal address of a person.
type Address struct {
	Type          *string `json:"type,omitempty"`
	Country       *string `json:"country,omitempty"`
	Locality      *string `json:"locality,omitempty"`
	Region        *string `json:"region,omitempty"`
	StreetAddress *string `json:"streetAddress,omitempty"`
	PostalCode    *string `json:"postalCode,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// Person represents a Webex person. Optional fields are pointers so that a
// value the server sent as "" or false survives re-serialization.
type Person struct {
	ID           string        `json:"id,omitempty"`
	Emails       []string      `json:"emails,omitempty"`
	PhoneNumbers []PhoneNumber `json:"phoneNumbers,omitempty"`
	Extension    *string       `json:"extension,omitempty"`
	LocationID   *string       `json:"locationId,omitempty"`
	DisplayName  *string       `json:"displayName,omitempty"`
	NickName     *string       `json:"nickName,omitempty"`
	FirstName    *string       `json:"firstName,omitempty"`
	LastName     *string       `json:"lastName,omitempty"`
	Avatar       *string       `json:"avatar,omitempty"`
	OrgID        *string       `json:"orgId,omitempty"`
	Roles        []string      `json:"roles,omitempty"`
	Licenses     []string      `json:"licenses,omitempty"`
	Department   *string       `json:"department,omitempty"`
	Manager      *string       `json:"manager,omitempty"`
	ManagerID    *string       `json:"managerId,omitempty"`
	Title        *string       `json:"title,omitempty"`
	Addresses    []Address     `json:"addresses,omitempty"`
	Created      *time.Time    `json:"created,omitempty"`
	LastModified *time.Time    `json:"lastModified,omitempty"`
	Timezone     *string       `json:"timezone,omitempty"`
	Status       *string       `json:"status,omitempty"`
	Type         *string       `json:"type,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// ListOptions contains the options for listing people
type ListOptions struct {
	Email       string
	DisplayName string
	// IDs are split into requests of at most 85 ids each.
	IDs         []string
	OrgID       string
	Roles       []string
	CallingData bool
	LocationID  string
	// Max is the page size, not a limit on the number of results.
	Max int
}

func (o *ListOptions) params() url.Values {
	params := url.Values{}
	if o == nil {
		return params
	}
	if o.Email != "" {
		params.Set("email", o.Email)
	}
	if o.DisplayName != "" {
		params.Set("displayName", o.DisplayName)
	}
	if o.OrgID != "" {
		params.Set("orgId", o.OrgID)
	}
	if len(o.Roles) > 0 {
		params.Set("roles", strings.Join(o.Roles, ","))
	}
	if o.CallingData {
		params.Set("callingData", "true")
	}
	if o.LocationID != "" {
		params.Set("locationId", o.LocationID)
	}
	if o.Max > 0 {
		params.Set("max", strconv.Itoa(o.Max))
	}
	return params
}

// Config holds the configuration for the People plugin
type Config struct {
	// ShowAllTypes is a flag that requires the API to send every type field,
	// even if the type is not "person" (e.g.: SX10, webhook_integration, etc.)
	ShowAllTypes bool
}

// DefaultConfig returns the default configuration for the People plugin
func DefaultConfig() *Config {
	return &Config{}
}

// Client is the people API client
type Client struct {
	webexClient *webexsdk.Client
	config      *Config
}

// New creates a new People plugin
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
func (c *Client) Name() string { return "people" }

// Get returns a single person by ID. Raw UUIDs are accepted and encoded.
func (c *Client) Get(ctx context.Context, personID string, callingData bool) (*Person, error) {
	if personID == "" {
		return nil, fmt.Errorf("person ID is required")
	}

	var params url.Values
	if callingData {
		params = url.Values{"callingData": {"true"}}
	}

	var person Person
	if err := c.webexClient.Get(ctx, personPath(personID), params, &person); err != nil {
		return nil, err
	}
	return &person, nil
}

// GetMe returns the current authenticated user
func (c *Client) GetMe(ctx context.Context) (*Person, error) {
	var person Person
	if err := c.webexClient.Get(ctx, "people/me", nil, &person); err != nil {
		return nil, err
	}
	return &person, nil
}

// List iterates over all people matching options, following pagination.
func (c *Client) List(ctx context.Context, options *ListOptions) iter.Seq2[Person, error] {
	params := options.params()
	if c.config.ShowAllTypes {
		params.Set("showAllTypes", "true")
	}

	if options == nil || len(options.IDs) == 0 {
		return webexsdk.Follow[Person](ctx, c.webexClient, "people", params, "")
	}

	return func(yield func(Person, error) bool) {
		ids := options.IDs
		for len(ids) > 0 {
			n := min(len(ids), maxIDsPerRequest)
			chunk := url.Values{}
			for k, v := range params {
				chunk[k] = v
			}
			chunk.Set("id", strings.Join(ids[:n], ","))
			ids = ids[n:]

			for p, err := range webexsdk.Follow[Person](ctx, c.webexClient, "people", chunk, "") {
				if !yield(p, err) || err != nil {
					return
				}
			}
		}
	}
}

// Create creates a person. With callingData the response includes the
// person's calling details.
func (c *Client) Create(ctx context.Context, settings Person, callingData bool) (*Person, error) {
	if len(settings.Emails) == 0 {
		return nil, fmt.Errorf("at least one email is required")
	}

	var created Person
	if err := c.webexClient.Post(ctx, "people", callingDataParam(callingData), settings, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces the details of settings.ID. The Webex API expects the
// complete person, so callers normally Get, modify and Update. Raw UUIDs are
// accepted and encoded.
func (c *Client) Update(ctx context.Context, settings Person, callingData bool) (*Person, error) {
	if settings.ID == "" {
		return nil, fmt.Errorf("person ID is required")
	}

	var updated Person
	if err := c.webexClient.Put(ctx, personPath(settings.ID), callingDataParam(callingData), settings, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a person. Raw UUIDs are accepted and encoded.
func (c *Client) Delete(ctx context.Context, personID string) error {
	if personID == "" {
		return fmt.Errorf("person ID is required")
	}
	return c.webexClient.Delete(ctx, personPath(personID), nil)
}

func personPath(personID string) string {
	return "people/" + url.PathEscape(webexid.EnsureHydra(webexid.People, personID))
}

func callingDataParam(callingData bool) url.Values {
	if !callingData {
		return nil
	}
	return url.Values{"callingData": {"true"}}
}
