/* SPDX-License-Identifier: MPL-2.0
 * Copyright 2025 Tejus Pratap <tejzpr@gmail.com>
 *
 * See CONTRIBUTORS.md for full contributor list.
 */

// Package voicemail covers voicemail beyond a single person's settings:
// location and organization voicemail policy, and the voice messages in the
// authenticated user's mailbox.
package voicemail

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"time"

	"github.com/jeokrohn/wxc-sdk-sub004/apimodel"
	"github.com/jeokrohn/wxc-sdk-sub004/webexsdk"
)

// ---- Location / Organization settings ----

// LocationSettings is the voicemail policy of a location.
type LocationSettings struct {
	VoicemailTranscriptionEnabled *bool `json:"voicemailTranscriptionEnabled,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// OrgSettings is the voicemail policy of an organization.
type OrgSettings struct {
	MessageExpiryEnabled          *bool `json:"messageExpiryEnabled,omitempty"`
	NumberOfDaysForMessageExpiry  *int  `json:"numberOfDaysForMessageExpiry,omitempty"`
	StrictDeletionEnabled         *bool `json:"strictDeletionEnabled,omitempty"`
	VoiceMessageForwardingEnabled *bool `json:"voiceMessageForwardingEnabled,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// ---- Voice messages ----

// CallingParty identifies who left a message.
type CallingParty struct {
	Name     *string `json:"name,omitempty"`
	Number   *string `json:"number,omitempty"`
	PersonID *string `json:"personId,omitempty"`
	PlaceID  *string `json:"placeId,omitempty"`
	Privacy  *bool   `json:"privacyEnabled,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// Message is a voice message in the user's mailbox.
type Message struct {
	ID           string        `json:"id,omitempty"`
	Duration     *int          `json:"duration,omitempty"`
	CallingParty *CallingParty `json:"callingParty,omitempty"`
	Urgent       *bool         `json:"urgent,omitempty"`
	Confidential *bool         `json:"confidential,omitempty"`
	Read         *bool         `json:"read,omitempty"`
	FaxPageCount *int          `json:"faxPageCount,omitempty"`
	Created      *time.Time    `json:"created,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// Summary counts the messages in the user's mailbox. The counts are always
// sent, zero included.
type Summary struct {
	NewMessages       int `json:"newMessages"`
	OldMessages       int `json:"oldMessages"`
	NewUrgentMessages int `json:"newUrgentMessages"`
	OldUrgentMessages int `json:"oldUrgentMessages"`

	Extra apimodel.Extra `json:"-"`
}

// Config holds the configuration for the Voicemail plugin
type Config struct{}

// DefaultConfig returns the default configuration for the Voicemail plugin
func DefaultConfig() *Config {
	return &Config{}
}

// Client provides methods for voicemail policy and voice messages.
type Client struct {
	webexClient *webexsdk.Client
	config      *Config
}

// New creates a new Voicemail plugin
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
func (c *Client) Name() string { return "voicemail" }

// LocationSettings returns the voicemail policy of a location.
func (c *Client) LocationSettings(ctx context.Context, locationID, orgID string) (*LocationSettings, error) {
	if locationID == "" {
		return nil, fmt.Errorf("location ID is required")
	}
	var s LocationSettings
	path := "telephony/config/locations/" + url.PathEscape(locationID) + "/voicemail"
	if err := c.webexClient.Get(ctx, path, orgParam(orgID), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateLocationSettings changes the voicemail policy of a location.
func (c *Client) UpdateLocationSettings(ctx context.Context, locationID string, settings LocationSettings, orgID string) error {
	if locationID == "" {
		return fmt.Errorf("location ID is required")
	}
	path := "telephony/config/locations/" + url.PathEscape(locationID) + "/voicemail"
	return c.webexClient.Put(ctx, path, orgParam(orgID), settings, nil)
}

// OrgSettings returns the organization voicemail policy.
func (c *Client) OrgSettings(ctx context.Context, orgID string) (*OrgSettings, error) {
	var s OrgSettings
	if err := c.webexClient.Get(ctx, "telephony/config/voicemail/settings", orgParam(orgID), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateOrgSettings changes the organization voicemail policy.
func (c *Client) UpdateOrgSettings(ctx context.Context, settings OrgSettings, orgID string) error {
	return c.webexClient.Put(ctx, "telephony/config/voicemail/settings", orgParam(orgID), settings, nil)
}

// Messages iterates over the voice messages of the authenticated user.
func (c *Client) Messages(ctx context.Context) iter.Seq2[Message, error] {
	return webexsdk.Follow[Message](ctx, c.webexClient, "telephony/voiceMessages", nil, "")
}

// Summary returns message counts for the authenticated user.
func (c *Client) Summary(ctx context.Context) (*Summary, error) {
	var s Summary
	if err := c.webexClient.Get(ctx, "telephony/voiceMessages/summary", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// MarkAsRead marks a message as read. An empty messageID marks all messages.
func (c *Client) MarkAsRead(ctx context.Context, messageID string) error {
	return c.mark(ctx, "markAsRead", messageID)
}

// MarkAsUnread marks a message as unread. An empty messageID marks the most
// recent message.
func (c *Client) MarkAsUnread(ctx context.Context, messageID string) error {
	return c.mark(ctx, "markAsUnread", messageID)
}

func (c *Client) mark(ctx context.Context, action, messageID string) error {
	body := struct {
		MessageID string `json:"messageId,omitempty"`
	}{MessageID: messageID}
	return c.webexClient.Post(ctx, "telephony/voiceMessages/"+action, nil, body, nil)
}

// Delete removes a voice message.
func (c *Client) Delete(ctx context.Context, messageID string) error {
	if messageID == "" {
		return fmt.Errorf("message ID is required")
	}
	return c.webexClient.Delete(ctx, "telephony/voiceMessages/"+url.PathEscape(messageID), nil)
}

func orgParam(orgID string) url.Values {
	if orgID == "" {
		return nil
	}
	return url.Values{"orgId": {orgID}}
}
