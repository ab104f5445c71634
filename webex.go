/* SPDX-License-Identifier: MPL-2.0
 * Copyright 2025 Tejus Pratap <tejzpr@gmail.com>
 *
 * See CONTRIBUTORS.md for full contributor list.
 */

package webex

import (
	"context"
	"sync"

	"github.com/jeokrohn/wxc-sdk-sub004/auth"
	"github.com/jeokrohn/wxc-sdk-sub004/callqueue"
	"github.com/jeokrohn/wxc-sdk-sub004/guests"
	"github.com/jeokrohn/wxc-sdk-sub004/licenses"
	"github.com/jeokrohn/wxc-sdk-sub004/locations"
	"github.com/jeokrohn/wxc-sdk-sub004/people"
	"github.com/jeokrohn/wxc-sdk-sub004/personsettings"
	"github.com/jeokrohn/wxc-sdk-sub004/voicemail"
	"github.com/jeokrohn/wxc-sdk-sub004/webexsdk"
	"github.com/jeokrohn/wxc-sdk-sub004/workspaces"
)

// WebexClient is the top-level client for the Webex Calling API. Resource
// clients are created on first use and registered as plugins with the core
// client.
type WebexClient struct {
	// Core client for the Webex API
	core *webexsdk.Client

	mu sync.Mutex
}

// NewClient creates a new Webex client with the given access token and optional configuration
func NewClient(accessToken string, config *webexsdk.Config) (*WebexClient, error) {
	core, err := webexsdk.NewClient(accessToken, config)
	if err != nil {
		return nil, err
	}

	client := &WebexClient{
		core: core,
	}

	return client, nil
}

// plugin returns the plugin registered under name, creating and registering
// it with newFn on first use.
func plugin[P webexsdk.Plugin](c *WebexClient, name string, newFn func() P) P {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.core.GetPlugin(name); ok {
		if typed, ok := p.(P); ok {
			return typed
		}
	}
	p := newFn()
	c.core.RegisterPlugin(p)
	return p
}

// People returns the People plugin
func (c *WebexClient) People() *people.Client {
	return plugin(c, "people", func() *people.Client { return people.New(c.core, nil) })
}

// Locations returns the Locations plugin
func (c *WebexClient) Locations() *locations.Client {
	return plugin(c, "locations", func() *locations.Client { return locations.New(c.core, nil) })
}

// Workspaces returns the Workspaces plugin
func (c *WebexClient) Workspaces() *workspaces.Client {
	return plugin(c, "workspaces", func() *workspaces.Client { return workspaces.New(c.core, nil) })
}

// CallQueues returns the Call Queue plugin
func (c *WebexClient) CallQueues() *callqueue.Client {
	return plugin(c, "callqueue", func() *callqueue.Client { return callqueue.New(c.core, nil) })
}

// PersonSettings returns the Person Settings plugin
func (c *WebexClient) PersonSettings() *personsettings.Client {
	return plugin(c, "personsettings", func() *personsettings.Client { return personsettings.New(c.core, nil) })
}

// Voicemail returns the Voicemail plugin
func (c *WebexClient) Voicemail() *voicemail.Client {
	return plugin(c, "voicemail", func() *voicemail.Client { return voicemail.New(c.core, nil) })
}

// Licenses returns the Licenses plugin
func (c *WebexClient) Licenses() *licenses.Client {
	return plugin(c, "licenses", func() *licenses.Client { return licenses.New(c.core, nil) })
}

// Guests returns the Guests plugin
func (c *WebexClient) Guests() *guests.Client {
	return plugin(c, "guests", func() *guests.Client { return guests.New(c.core, nil) })
}

// FollowTokens keeps the access token in sync with a token file written by
// auth.WriteTokens until ctx is done. onError receives read failures and
// may be nil.
func (c *WebexClient) FollowTokens(ctx context.Context, path string, onError func(error)) error {
	return auth.WatchTokens(ctx, path, func(t *auth.Tokens, err error) {
		if err == nil {
			err = c.core.SetAccessToken(t.AccessToken)
		}
		if err != nil && onError != nil {
			onError(err)
		}
	})
}

// Core returns the core Webex client
func (c *WebexClient) Core() *webexsdk.Client {
	return c.core
}
