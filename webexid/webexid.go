/* SPDX-License-Identifier: MPL-2.0
 * Copyright 2025 Tejus Pratap <tejzpr@gmail.com>
 *
 * See CONTRIBUTORS.md for full contributor list.
 */

// Package webexid converts between raw UUIDs and the base64 resource IDs
// used by the Webex REST API, which wrap a URI of the form
// ciscospark://<cluster>/<TYPE>/<id>.
package webexid

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Type is the resource type segment of a Webex ID.
type Type string

const (
	People       Type = "PEOPLE"
	Location     Type = "LOCATION"
	Place        Type = "PLACE"
	Organization Type = "ORGANIZATION"
	License      Type = "LICENSE"
	CallQueue    Type = "CALL_QUEUE"
)

const (
	scheme         = "ciscospark://"
	defaultCluster = "us"
)

// Encode returns the base64 Webex ID for a raw resource identifier.
func Encode(typ Type, id string) (string, error) {
	if typ == "" {
		return "", fmt.Errorf("resource type is required")
	}
	if id == "" {
		return "", fmt.Errorf("id is required")
	}
	uri := fmt.Sprintf("%s%s/%s/%s", scheme, defaultCluster, typ, id)
	return base64.StdEncoding.EncodeToString([]byte(uri)), nil
}

// Decode returns the type and raw identifier wrapped in a Webex ID.
// Padded and unpadded base64 are both accepted.
func Decode(id string) (Type, string, error) {
	raw, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(id, "="))
	if err != nil {
		return "", "", fmt.Errorf("invalid Webex ID %q: %w", id, err)
	}

	rest, ok := strings.CutPrefix(string(raw), scheme)
	if !ok {
		return "", "", fmt.Errorf("invalid Webex ID %q: missing %s prefix", id, scheme)
	}
	// cluster/TYPE/id
	parts := strings.SplitN(rest, "/", 3)
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		return "", "", fmt.Errorf("invalid Webex ID %q: malformed URI %q", id, raw)
	}
	return Type(parts[1]), parts[2], nil
}

// IsUUID reports whether s is a raw UUID rather than an encoded ID.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// EnsureHydra accepts either a raw UUID or an encoded Webex ID and returns
// the encoded form. Anything else is returned unchanged.
func EnsureHydra(typ Type, id string) string {
	if IsUUID(id) {
		encoded, err := Encode(typ, id)
		if err == nil {
			return encoded
		}
	}
	return id
}

// UUID returns the raw identifier of id when it is an encoded Webex ID, and
// id itself otherwise.
func UUID(id string) string {
	if _, raw, err := Decode(id); err == nil {
		return raw
	}
	return id
}
