/* SPDX-License-Identifier: MPL-2.0
 * Copyright 2025 Tejus Pratap <tejzpr@gmail.com>
 *
 * See CONTRIBUTORS.md for full contributor list.
 */

// Package callqueue manages Webex Calling call queues. A call queue routes
// incoming calls to a group of agents and holds callers while all agents are
// busy.
package callqueue

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"strconv"

	"github.com/jeokrohn/wxc-sdk-sub004/apimodel"
	"github.com/jeokrohn/wxc-sdk-sub004/webexsdk"
)

const listItemKey = "queues"

// Policy is the call distribution policy of a queue.
type Policy string

const (
	PolicyCircular     Policy = "CIRCULAR"
	PolicyRegular      Policy = "REGULAR"
	PolicySimultaneous Policy = "SIMULTANEOUS"
	PolicyUniform      Policy = "UNIFORM"
	PolicyWeighted     Policy = "WEIGHTED"
)

// RoutingType selects priority or skill based routing.
type RoutingType string

const (
	RoutingPriorityBased RoutingType = "PRIORITY_BASED"
	RoutingSkillBased    RoutingType = "SKILL_BASED"
)

// OverflowAction is what happens to calls that exceed the queue size.
type OverflowAction string

const (
	OverflowPerformBusyTreatment          OverflowAction = "PERFORM_BUSY_TREATMENT"
	OverflowPlayRingingUntilCallerHangsUp OverflowAction = "PLAY_RINGING_UNTIL_CALLER_HANGS_UP"
	OverflowTransferToPhoneNumber         OverflowAction = "TRANSFER_TO_PHONE_NUMBER"
)

// CallBounce configures when a call offered to an unresponsive agent moves
// on to the next agent.
type CallBounce struct {
	CallBounceEnabled          *bool `json:"callBounceEnabled,omitempty"`
	CallBounceMaxRings         *int  `json:"callBounceMaxRings,omitempty"`
	AgentUnavailableEnabled    *bool `json:"agentUnavailableEnabled,omitempty"`
	AlertAgentEnabled          *bool `json:"alertAgentEnabled,omitempty"`
	AlertAgentMaxSeconds       *int  `json:"alertAgentMaxSeconds,omitempty"`
	CallBounceOnHoldEnabled    *bool `json:"callBounceOnHoldEnabled,omitempty"`
	CallBounceOnHoldMaxSeconds *int  `json:"callBounceOnHoldMaxSeconds,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// DistinctiveRing configures the ring pattern of queue calls.
type DistinctiveRing struct {
	Enabled     *bool   `json:"enabled,omitempty"`
	RingPattern *string `json:"ringPattern,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// CallPolicies control how calls are offered to agents.
type CallPolicies struct {
	Policy          Policy           `json:"policy,omitempty"`
	RoutingType     RoutingType      `json:"routingType,omitempty"`
	CallBounce      *CallBounce      `json:"callBounce,omitempty"`
	DistinctiveRing *DistinctiveRing `json:"distinctiveRing,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// Overflow configures the handling of calls beyond the queue size.
type Overflow struct {
	Action                      OverflowAction `json:"action,omitempty"`
	SendToVoicemail             *bool          `json:"sendToVoicemail,omitempty"`
	TransferNumber              *string        `json:"transferNumber,omitempty"`
	OverflowAfterWaitEnabled    *bool          `json:"overflowAfterWaitEnabled,omitempty"`
	OverflowAfterWaitTime       *int           `json:"overflowAfterWaitTime,omitempty"`
	PlayOverflowGreetingEnabled *bool          `json:"playOverflowGreetingEnabled,omitempty"`
	GreetingType                *string        `json:"greeting,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// QueueSettings configures the waiting experience of callers.
type QueueSettings struct {
	QueueSize                  *int      `json:"queueSize,omitempty"`
	CallOfferToneEnabled       *bool     `json:"callOfferToneEnabled,omitempty"`
	ResetCallStatisticsEnabled *bool     `json:"resetCallStatisticsEnabled,omitempty"`
	Overflow                   *Overflow `json:"overflow,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// Agent is a member of a call queue.
type Agent struct {
	ID          string  `json:"id,omitempty"`
	Type        *string `json:"type,omitempty"`
	FirstName   *string `json:"firstName,omitempty"`
	LastName    *string `json:"lastName,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Extension   *string `json:"extension,omitempty"`
	Weight      *string `json:"weight,omitempty"`
	SkillLevel  *int    `json:"skillLevel,omitempty"`
	JoinEnabled *bool   `json:"joinEnabled,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// CallQueue is a Webex Calling call queue. List results populate only the
// summary fields (ID through Enabled).
type CallQueue struct {
	ID           string  `json:"id,omitempty"`
	Name         *string `json:"name,omitempty"`
	LocationName *string `json:"locationName,omitempty"`
	LocationID   *string `json:"locationId,omitempty"`
	PhoneNumber  *string `json:"phoneNumber,omitempty"`
	Extension    *string `json:"extension,omitempty"`
	Enabled      *bool   `json:"enabled,omitempty"`

	Language                         *string        `json:"language,omitempty"`
	LanguageCode                     *string        `json:"languageCode,omitempty"`
	FirstName                        *string        `json:"firstName,omitempty"`
	LastName                         *string        `json:"lastName,omitempty"`
	TimeZone                         *string        `json:"timeZone,omitempty"`
	CallPolicies                     *CallPolicies  `json:"callPolicies,omitempty"`
	QueueSettings                    *QueueSettings `json:"queueSettings,omitempty"`
	AllowCallWaitingForAgentsEnabled *bool          `json:"allowCallWaitingForAgentsEnabled,omitempty"`
	Agents                           []Agent        `json:"agents,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// NewQueue returns a queue with the settings required for creation and sensible
// defaults: circular priority routing and room for ten waiting callers.
func NewQueue(name, extension string, agentIDs ...string) CallQueue {
	agents := make([]Agent, len(agentIDs))
	for i, id := range agentIDs {
		agents[i] = Agent{ID: id}
	}
	q := CallQueue{
		Name:    apimodel.Ptr(name),
		Enabled: apimodel.Ptr(true),
		CallPolicies: &CallPolicies{
			Policy:      PolicyCircular,
			RoutingType: RoutingPriorityBased,
		},
		QueueSettings: &QueueSettings{QueueSize: apimodel.Ptr(10)},
		Agents:        agents,
	}
	if extension != "" {
		q.Extension = apimodel.Ptr(extension)
	}
	return q
}

// ListOptions filters the call queue list.
type ListOptions struct {
	OrgID       string
	LocationID  string
	Name        string
	PhoneNumber string
	Max         int
}

// Config holds the configuration for the Call Queue plugin
type Config struct{}

// DefaultConfig returns the default configuration for the Call Queue plugin
func DefaultConfig() *Config {
	return &Config{}
}

// Client is the call queue API client
type Client struct {
	webexClient *webexsdk.Client
	config      *Config
}

// New creates a new Call Queue plugin
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
func (c *Client) Name() string { return "callqueue" }

// List iterates over the call queues of an organization.
func (c *Client) List(ctx context.Context, options *ListOptions) iter.Seq2[CallQueue, error] {
	params := url.Values{}
	if options != nil {
		if options.OrgID != "" {
			params.Set("orgId", options.OrgID)
		}
		if options.LocationID != "" {
			params.Set("locationId", options.LocationID)
		}
		if options.Name != "" {
			params.Set("name", options.Name)
		}
		if options.PhoneNumber != "" {
			params.Set("phoneNumber", options.PhoneNumber)
		}
		if options.Max > 0 {
			params.Set("max", strconv.Itoa(options.Max))
		}
	}
	return webexsdk.Follow[CallQueue](ctx, c.webexClient, "telephony/config/queues", params, listItemKey)
}

// ByName returns the queue with the given name in a location, or nil.
func (c *Client) ByName(ctx context.Context, locationID, name, orgID string) (*CallQueue, error) {
	for q, err := range c.List(ctx, &ListOptions{LocationID: locationID, Name: name, OrgID: orgID}) {
		if err != nil {
			return nil, err
		}
		if apimodel.Deref(q.Name) == name {
			return &q, nil
		}
	}
	return nil, nil
}

// Get returns the full details of a call queue.
func (c *Client) Get(ctx context.Context, locationID, queueID, orgID string) (*CallQueue, error) {
	path, err := queuePath(locationID, queueID)
	if err != nil {
		return nil, err
	}

	var q CallQueue
	if err := c.webexClient.Get(ctx, path, orgParam(orgID), &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// Create creates a call queue in a location and returns its ID. The queue
// needs a name and a phone number or an extension.
func (c *Client) Create(ctx context.Context, locationID string, settings CallQueue, orgID string) (string, error) {
	if locationID == "" {
		return "", fmt.Errorf("location ID is required")
	}
	if apimodel.Deref(settings.Name) == "" {
		return "", fmt.Errorf("call queue name is required")
	}
	if apimodel.Deref(settings.PhoneNumber) == "" && apimodel.Deref(settings.Extension) == "" {
		return "", fmt.Errorf("phone number or extension is required")
	}

	body := settings
	body.ID = ""
	body.LocationID = nil
	body.LocationName = nil

	var created struct {
		ID string `json:"id"`
	}
	path := "telephony/config/locations/" + url.PathEscape(locationID) + "/queues"
	if err := c.webexClient.Post(ctx, path, orgParam(orgID), body, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// Update modifies a call queue. Only populated fields are sent.
func (c *Client) Update(ctx context.Context, locationID, queueID string, settings CallQueue, orgID string) error {
	path, err := queuePath(locationID, queueID)
	if err != nil {
		return err
	}

	body := settings
	body.ID = ""
	body.LocationID = nil
	body.LocationName = nil
	return c.webexClient.Put(ctx, path, orgParam(orgID), body, nil)
}

// Delete removes a call queue.
func (c *Client) Delete(ctx context.Context, locationID, queueID, orgID string) error {
	path, err := queuePath(locationID, queueID)
	if err != nil {
		return err
	}
	return c.webexClient.Delete(ctx, path, orgParam(orgID))
}

func queuePath(locationID, queueID string) (string, error) {
	if locationID == "" {
		return "", fmt.Errorf("location ID is required")
	}
	if queueID == "" {
		return "", fmt.Errorf("call queue ID is required")
	}
	return "telephony/config/locations/" + url.PathEscape(locationID) + "/queues/" + url.PathEscape(queueID), nil
}

func orgParam(orgID string) url.Values {
	if orgID == "" {
		return nil
	}
	return url.Values{"orgId": {orgID}}
}
