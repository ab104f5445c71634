/* SPDX-License-Identifier: MPL-2.0
 * Copyright 2025 Tejus Pratap <tejzpr@gmail.com>
 *
 * See CONTRIBUTORS.md for full contributor list.
 */

package personsettings

import "github.com/jeokrohn/wxc-sdk-sub004/apimodel"

// ---- Enums / Constants ----

// Greeting selects the default or the uploaded custom greeting.
type Greeting string

const (
	GreetingDefault Greeting = "DEFAULT"
	GreetingCustom  Greeting = "CUSTOM"
)

// StorageType is where voicemail messages are kept.
type StorageType string

const (
	StorageInternal StorageType = "INTERNAL"
	StorageExternal StorageType = "EXTERNAL"
)

// GreetingKind selects the voicemail greeting to upload.
type GreetingKind string

const (
	GreetingBusy     GreetingKind = "uploadBusyGreeting"
	GreetingNoAnswer GreetingKind = "uploadNoAnswerGreeting"
)

// ---- Do Not Disturb / Call Waiting ----

// DoNotDisturb sends incoming calls to busy handling. With ring splash the
// phone plays a short ring when a call is blocked.
type DoNotDisturb struct {
	Enabled                *bool `json:"enabled,omitempty"`
	RingSplashEnabled      *bool `json:"ringSplashEnabled,omitempty"`
	WebexGoOverrideEnabled *bool `json:"webexGoOverrideEnabled,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// CallWaiting lets a person answer a second call while on a call.
type CallWaiting struct {
	Enabled *bool `json:"enabled,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// ---- Call Forwarding ----

// ForwardAlways forwards every incoming call.
type ForwardAlways struct {
	Enabled                     *bool   `json:"enabled,omitempty"`
	Destination                 *string `json:"destination,omitempty"`
	RingReminderEnabled         *bool   `json:"ringReminderEnabled,omitempty"`
	DestinationVoicemailEnabled *bool   `json:"destinationVoicemailEnabled,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// ForwardBusy forwards calls while the line is busy.
type ForwardBusy struct {
	Enabled                     *bool   `json:"enabled,omitempty"`
	Destination                 *string `json:"destination,omitempty"`
	DestinationVoicemailEnabled *bool   `json:"destinationVoicemailEnabled,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// ForwardNoAnswer forwards calls that ring unanswered.
type ForwardNoAnswer struct {
	Enabled                     *bool   `json:"enabled,omitempty"`
	Destination                 *string `json:"destination,omitempty"`
	NumberOfRings               *int    `json:"numberOfRings,omitempty"`
	SystemMaxNumberOfRings      *int    `json:"systemMaxNumberOfRings,omitempty"`
	DestinationVoicemailEnabled *bool   `json:"destinationVoicemailEnabled,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// ForwardingRules groups the forwarding rules of a line.
type ForwardingRules struct {
	Always   *ForwardAlways   `json:"always,omitempty"`
	Busy     *ForwardBusy     `json:"busy,omitempty"`
	NoAnswer *ForwardNoAnswer `json:"noAnswer,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// BusinessContinuity forwards calls while the person's devices are offline.
type BusinessContinuity struct {
	Enabled                     *bool   `json:"enabled,omitempty"`
	Destination                 *string `json:"destination,omitempty"`
	DestinationVoicemailEnabled *bool   `json:"destinationVoicemailEnabled,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// CallForwarding is the complete forwarding configuration of a person.
type CallForwarding struct {
	CallForwarding     *ForwardingRules    `json:"callForwarding,omitempty"`
	BusinessContinuity *BusinessContinuity `json:"businessContinuity,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// ---- Voicemail ----

// Toggle is an on/off sub-setting.
type Toggle struct {
	Enabled *bool `json:"enabled,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// SendCalls routes busy or unanswered calls to voicemail.
type SendCalls struct {
	Enabled                *bool    `json:"enabled,omitempty"`
	Greeting               Greeting `json:"greeting,omitempty"`
	GreetingUploaded       *bool    `json:"greetingUploaded,omitempty"`
	NumberOfRings          *int     `json:"numberOfRings,omitempty"`
	SystemMaxNumberOfRings *int     `json:"systemMaxNumberOfRings,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// Destination is an enabled flag with a target address or number.
type Destination struct {
	Enabled     *bool   `json:"enabled,omitempty"`
	Destination *string `json:"destination,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// EmailCopy sends a copy of each message by email.
type EmailCopy struct {
	Enabled *bool   `json:"enabled,omitempty"`
	EmailID *string `json:"emailId,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// MessageStorage configures the mailbox.
type MessageStorage struct {
	MWIEnabled    *bool       `json:"mwiEnabled,omitempty"`
	StorageType   StorageType `json:"storageType,omitempty"`
	ExternalEmail *string     `json:"externalEmail,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// FaxMessage configures fax reception into the mailbox.
type FaxMessage struct {
	Enabled     *bool   `json:"enabled,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Extension   *string `json:"extension,omitempty"`

	Extra apimodel.Extra `json:"-"`
}

// Voicemail is the voicemail configuration of a person.
type Voicemail struct {
	Enabled                       *bool           `json:"enabled,omitempty"`
	SendAllCalls                  *Toggle         `json:"sendAllCalls,omitempty"`
	SendBusyCalls                 *SendCalls      `json:"sendBusyCalls,omitempty"`
	SendUnansweredCalls           *SendCalls      `json:"sendUnansweredCalls,omitempty"`
	Notifications                 *Destination    `json:"notifications,omitempty"`
	TransferToNumber              *Destination    `json:"transferToNumber,omitempty"`
	EmailCopyOfMessage            *EmailCopy      `json:"emailCopyOfMessage,omitempty"`
	MessageStorage                *MessageStorage `json:"messageStorage,omitempty"`
	FaxMessage                    *FaxMessage     `json:"faxMessage,omitempty"`
	VoiceMessageForwardingEnabled *bool           `json:"voiceMessageForwardingEnabled,omitempty"`

	Extra apimodel.Extra `json:"-"`
}
