/* SPDX-License-Identifier: MPL-2.0
 * Copyright 2025 Tejus Pratap <tejzpr@gmail.com>
 *
 * See CONTRIBUTORS.md for full contributor list.
 */

// Package personsettings reads and configures the Webex Calling features of
// a person: Do Not Disturb, Call Waiting, Call Forwarding and Voicemail.
// The person ID "me" addresses the authenticated user.
package personsettings

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jeokrohn/wxc-sdk-sub004/webexsdk"
)

// Config holds the configuration for the Person Settings plugin
type Config struct {
	// OrgID is sent with every request when set. Per-call orgID arguments
	// take precedence.
	OrgID string
}

// DefaultConfig returns the default configuration for the Person Settings plugin
func DefaultConfig() *Config {
	return &Config{}
}

// Client provides methods for retrieving and updating person call settings.
type Client struct {
	webexClient *webexsdk.Client
	config      *Config
}

// New creates a new Person Settings plugin
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
func (c *Client) Name() string { return "personsettings" }

// featurePath returns people/{id}/features/{feature} and the org params.
func (c *Client) featurePath(personID, feature, orgID string) (string, url.Values, error) {
	if personID == "" {
		return "", nil, fmt.Errorf("person ID is required")
	}
	if orgID == "" {
		orgID = c.config.OrgID
	}
	var params url.Values
	if orgID != "" {
		params = url.Values{"orgId": {orgID}}
	}
	return "people/" + url.PathEscape(personID) + "/features/" + feature, params, nil
}

func (c *Client) read(ctx context.Context, personID, feature, orgID string, out interface{}) error {
	path, params, err := c.featurePath(personID, feature, orgID)
	if err != nil {
		return err
	}
	return c.webexClient.Get(ctx, path, params, out)
}

func (c *Client) configure(ctx context.Context, personID, feature, orgID string, settings interface{}) error {
	path, params, err := c.featurePath(personID, feature, orgID)
	if err != nil {
		return err
	}
	return c.webexClient.Put(ctx, path, params, settings, nil)
}

// DoNotDisturb fetches the Do Not Disturb setting.
func (c *Client) DoNotDisturb(ctx context.Context, personID, orgID string) (*DoNotDisturb, error) {
	var dnd DoNotDisturb
	if err := c.read(ctx, personID, "doNotDisturb", orgID, &dnd); err != nil {
		return nil, err
	}
	return &dnd, nil
}

// ConfigureDoNotDisturb updates the Do Not Disturb setting.
func (c *Client) ConfigureDoNotDisturb(ctx context.Context, personID string, settings DoNotDisturb, orgID string) error {
	return c.configure(ctx, personID, "doNotDisturb", orgID, settings)
}

// CallWaiting fetches the Call Waiting setting.
func (c *Client) CallWaiting(ctx context.Context, personID, orgID string) (*CallWaiting, error) {
	var cw CallWaiting
	if err := c.read(ctx, personID, "callWaiting", orgID, &cw); err != nil {
		return nil, err
	}
	return &cw, nil
}

// ConfigureCallWaiting updates the Call Waiting setting.
func (c *Client) ConfigureCallWaiting(ctx context.Context, personID string, settings CallWaiting, orgID string) error {
	return c.configure(ctx, personID, "callWaiting", orgID, settings)
}

// CallForwarding fetches the call forwarding settings.
func (c *Client) CallForwarding(ctx context.Context, personID, orgID string) (*CallForwarding, error) {
	var cf CallForwarding
	if err := c.read(ctx, personID, "callForwarding", orgID, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// ConfigureCallForwarding updates the call forwarding settings.
func (c *Client) ConfigureCallForwarding(ctx context.Context, personID string, settings CallForwarding, orgID string) error {
	return c.configure(ctx, personID, "callForwarding", orgID, settings)
}

// Voicemail fetches the voicemail settings.
func (c *Client) Voicemail(ctx context.Context, personID, orgID string) (*Voicemail, error) {
	var vm Voicemail
	if err := c.read(ctx, personID, "voicemail", orgID, &vm); err != nil {
		return nil, err
	}
	return &vm, nil
}

// ConfigureVoicemail updates the voicemail settings. Greeting uploaded
// flags are read-only and dropped from the request.
func (c *Client) ConfigureVoicemail(ctx context.Context, personID string, settings Voicemail, orgID string) error {
	body := settings
	body.SendBusyCalls = withoutUploadedFlags(settings.SendBusyCalls)
	body.SendUnansweredCalls = withoutUploadedFlags(settings.SendUnansweredCalls)
	return c.configure(ctx, personID, "voicemail", orgID, body)
}

func withoutUploadedFlags(s *SendCalls) *SendCalls {
	if s == nil {
		return nil
	}
	cp := *s
	cp.GreetingUploaded = nil
	cp.SystemMaxNumberOfRings = nil
	return &cp
}

// UploadVoicemailGreeting uploads a WAV file as the busy or no-answer
// greeting. The greeting becomes active once the matching SendCalls.Greeting
// is set to GreetingCustom.
func (c *Client) UploadVoicemailGreeting(ctx context.Context, personID string, kind GreetingKind, fileName string, content []byte, orgID string) error {
	if len(content) == 0 {
		return fmt.Errorf("greeting content is required")
	}
	path, params, err := c.featurePath(personID, "voicemail/actions/"+url.PathEscape(string(kind))+"/invoke", orgID)
	if err != nil {
		return err
	}
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	resp, err := c.webexClient.RequestMultipart(ctx, http.MethodPost, path, nil, []webexsdk.MultipartFile{
		{FieldName: "file", FileName: fileName, Content: content},
	})
	if err != nil {
		return err
	}
	return c.webexClient.DecodeResponse(resp, nil)
}
