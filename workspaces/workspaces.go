/* SPDX-License-Identifier: MPL-2.0
 * Copyright 2025 Tejus Pratap <tejzpr@gmail.com>
 *
 * See CONTRIBUTORS.md for full contributor list.
 */

// Package workspaces manages Webex workspaces: rooms and desks that host
// shared devices and may have their own calling configuration.
package workspaces

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"strconv"
	"time"

	"github.com/jeokrohn/wxc-sdk-sub004/apimodel"
	"github.com/jeokrohn/wxc-sdk-sub004/webexsdk"
)

// WorkspaceType classifies a workspace.
type WorkspaceType string

const (
	TypeNotSet      WorkspaceType = "notSet"
	TypeFocus       WorkspaceType = "focus"
	TypeHuddle      WorkspaceType = "huddle"
	TypeMeetingRoom WorkspaceType = "meetingRoom"
	TypeOpen        WorkspaceType = "open"
	TypeDesk        WorkspaceType = "desk"
	TypeOther       WorkspaceType = "other"
)

// CallingType is the calling service of a workspace.
type CallingType string

const (
	CallingFree          CallingType = "freeCalling"
	CallingHybrid        CallingType = "hybridCalling"
	CallingWebex         CallingType = "webexCalling"
	CallingWebexEdge     CallingType = "webexEdgeForDevices"
	CallingThirdPartySIP CallingType = "thirdPartySipCalling"
	CallingNone          CallingType = "none"
)

// WebexCalling holds the Webex Calling details of a workspace.
type WebexCalling struct {
	PhoneNumber *string  `json:"phoneNumber,omitempty"`
	Extension   *string  `json:"extension,omitempty"`
	LocationID  *string  `json:"locationId,omitempty"`
	Licenses    []string `json:"licenses,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// Calling is the calling configuration of a workspace.
type Calling struct {
	Type         CallingType   `json:"type,omitempty"`
	WebexCalling *WebexCalling `json:"webexCalling,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// Calendar is the calendar configuration of a workspace.
type Calendar struct {
	Type         *string `json:"type,omitempty"`
	EmailAddress *string `json:"emailAddress,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// Workspace is a Webex workspace.
type Workspace struct {
	ID                  string        `json:"id,omitempty"`
	OrgID               *string       `json:"orgId,omitempty"`
	LocationID          *string       `json:"locationId,omitempty"`
	WorkspaceLocationID *string       `json:"workspaceLocationId,omitempty"`
	FloorID             *string       `json:"floorId,omitempty"`
	DisplayName         *string       `json:"displayName,omitempty"`
	Capacity            *int          `json:"capacity,omitempty"`
	Type                WorkspaceType `json:"type,omitempty"`
	SipAddress          *string       `json:"sipAddress,omitempty"`
	Created             *time.Time    `json:"created,omitempty"`
	Calling             *Calling      `json:"calling,omitempty"`
	Calendar            *Calendar     `json:"calendar,omitempty"`
	Notes               *string       `json:"notes,omitempty"`
	HotdeskingStatus    *string       `json:"hotdeskingStatus,omitempty"`
	SupportedDevices    *string       `json:"supportedDevices,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// ListOptions filters the workspace list.
type ListOptions struct {
	OrgID       string
	LocationID  string
	DisplayName string
	Capacity    int
	Type        WorkspaceType
	Calling     CallingType
	Max         int
}

// Config holds the configuration for the Workspaces plugin
type Config struct{}

// DefaultConfig returns the default configuration for the Workspaces plugin
func DefaultConfig() *Config {
	return &Config{}
}

// Client is the workspaces API client
type Client struct {
	webexClient *webexsdk.Client
	config      *Config
}

// New creates a new Workspaces plugin
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
func (c *Client) Name() string { return "workspaces" }

// List iterates over the workspaces matching options.
func (c *Client) List(ctx context.Context, options *ListOptions) iter.Seq2[Workspace, error] {
	params := url.Values{}
	if options != nil {
		if options.OrgID != "" {
			params.Set("orgId", options.OrgID)
		}
		if options.LocationID != "" {
			params.Set("locationId", options.LocationID)
		}
		if options.DisplayName != "" {
			params.Set("displayName", options.DisplayName)
		}
		if options.Capacity > 0 {
			params.Set("capacity", strconv.Itoa(options.Capacity))
		}
		if options.Type != "" {
			params.Set("type", string(options.Type))
		}
		if options.Calling != "" {
			params.Set("calling", string(options.Calling))
		}
		if options.Max > 0 {
			params.Set("max", strconv.Itoa(options.Max))
		}
	}
	return webexsdk.Follow[Workspace](ctx, c.webexClient, "workspaces", params, "")
}

// Get returns the details of a workspace.
func (c *Client) Get(ctx context.Context, workspaceID string) (*Workspace, error) {
	if workspaceID == "" {
		return nil, fmt.Errorf("workspace ID is required")
	}

	var ws Workspace
	if err := c.webexClient.Get(ctx, "workspaces/"+url.PathEscape(workspaceID), nil, &ws); err != nil {
		return nil, err
	}
	return &ws, nil
}

// Create creates a workspace and returns it as stored by the server.
func (c *Client) Create(ctx context.Context, settings Workspace) (*Workspace, error) {
	if apimodel.Deref(settings.DisplayName) == "" {
		return nil, fmt.Errorf("workspace display name is required")
	}

	body := settings
	body.ID = ""
	body.Created = nil

	var created Workspace
	if err := c.webexClient.Post(ctx, "workspaces", nil, body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces the settings of workspace settings.ID.
func (c *Client) Update(ctx context.Context, settings Workspace) (*Workspace, error) {
	if settings.ID == "" {
		return nil, fmt.Errorf("workspace ID is required")
	}

	body := settings
	body.ID = ""
	body.Created = nil

	var updated Workspace
	if err := c.webexClient.Put(ctx, "workspaces/"+url.PathEscape(settings.ID), nil, body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a workspace and any devices associated with it.
func (c *Client) Delete(ctx context.Context, workspaceID string) error {
	if workspaceID == "" {
		return fmt.Errorf("workspace ID is required")
	}
	return c.webexClient.Delete(ctx, "workspaces/"+url.PathEscape(workspaceID), nil)
}
