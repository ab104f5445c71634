/* SPDX-License-Identifier: MPL-2.0
 * Copyright 2025 Tejus Pratap <tejzpr@gmail.com>
 *
 * See CONTRIBUTORS.md for full contributor list.
 */

package webexsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// APIError is the base error type for all Webex API errors.
// It provides structured access to the HTTP status code, error message,
// tracking ID, and raw response body. All specific error sub-types embed
// this struct, so consumers can use errors.As(err, &apiErr) to access
// common fields regardless of the specific error type.
type APIError struct {
	// StatusCode is the HTTP status code from the response.
	StatusCode int

	// Status is the HTTP status line (e.g., "404 Not Found").
	Status string

	// Message is the error message from the Webex API response body.
	Message string

	// TrackingID is the Webex tracking identifier for support debugging.
	TrackingID string

	// RetryAfter is the duration to wait before retrying, parsed from
	// the Retry-After header. Zero if not applicable.
	RetryAfter time.Duration

	// Details holds the entries of a telephony "errors" array, if any.
	Details []ErrorDetail

	// RawBody is the raw response body bytes, preserved for debugging.
	RawBody []byte

	// Err is an optional wrapped error for errors.Unwrap support.
	Err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := fmt.Sprintf("API error: %d", e.StatusCode)
	if e.Message != "" {
		msg += " - " + e.Message
	}
	if e.TrackingID != "" {
		msg += " (trackingId: " + e.TrackingID + ")"
	}
	return msg
}

// Unwrap returns the wrapped error, if any.
func (e *APIError) Unwrap() error {
	return e.Err
}

// --- Specific error sub-types ---

// RateLimitError is returned for HTTP 429 Too Many Requests responses.
// The RetryAfter field (inherited from APIError) indicates how long to wait.
type RateLimitError struct {
	*APIError
}

// Unwrap returns the underlying APIError for errors.As traversal.
func (e *RateLimitError) Unwrap() error { return e.APIError }

// AuthError is returned for HTTP 401 Unauthorized responses.
type AuthError struct {
	*APIError
}

// Unwrap returns the underlying APIError for errors.As traversal.
func (e *AuthError) Unwrap() error { return e.APIError }

// ForbiddenError is returned for HTTP 403 Forbidden responses.
type ForbiddenError struct {
	*APIError
}

// Unwrap returns the underlying APIError for errors.As traversal.
func (e *ForbiddenError) Unwrap() error { return e.APIError }

// NotFoundError is returned for HTTP 404 Not Found responses.
type NotFoundError struct {
	*APIError
}

// Unwrap returns the underlying APIError for errors.As traversal.
func (e *NotFoundError) Unwrap() error { return e.APIError }

// ConflictError is returned for HTTP 409 Conflict responses.
type ConflictError struct {
	*APIError
}

// Unwrap returns the underlying APIError for errors.As traversal.
func (e *ConflictError) Unwrap() error { return e.APIError }

// GoneError is returned for HTTP 410 Gone responses.
type GoneError struct {
	*APIError
}

// Unwrap returns the underlying APIError for errors.As traversal.
func (e *GoneError) Unwrap() error { return e.APIError }

// LockedError is returned for HTTP 423 Locked responses, sent while the
// resource is still being provisioned. RetryAfter indicates when to retry.
type LockedError struct {
	*APIError
}

// Unwrap returns the underlying APIError for errors.As traversal.
func (e *LockedError) Unwrap() error { return e.APIError }

// PreconditionRequiredError is returned for HTTP 428 Precondition Required responses.
type PreconditionRequiredError struct {
	*APIError
}

// Unwrap returns the underlying APIError for errors.As traversal.
func (e *PreconditionRequiredError) Unwrap() error { return e.APIError }

// ServerError is returned for HTTP 5xx responses (500, 502, 503, 504).
type ServerError struct {
	*APIError
}

// Unwrap returns the underlying APIError for errors.As traversal.
func (e *ServerError) Unwrap() error { return e.APIError }

// --- Factory ---

// ErrorDetail is one entry of the "errors" array returned by telephony
// endpoints.
type ErrorDetail struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// UnmarshalJSON accepts numeric and string codes.
func (d *ErrorDetail) UnmarshalJSON(data []byte) error {
	var raw struct {
		Code        json.RawMessage `json:"code"`
		Description string          `json:"description"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.Description = raw.Description
	d.Code = strings.Trim(string(raw.Code), `"`)
	if d.Code == "null" {
		d.Code = ""
	}
	return nil
}

// apiErrorBody is used to parse the Webex API error response JSON.
type apiErrorBody struct {
	Message    string        `json:"message"`
	TrackingID string        `json:"trackingId"`
	Errors     []ErrorDetail `json:"errors"`
}

// NewAPIError creates a structured error from an HTTP response and its body.
// It parses the JSON body for message and trackingId fields, reads the
// Retry-After header, and returns the appropriate error sub-type based
// on the HTTP status code.
func NewAPIError(resp *http.Response, body []byte) error {
	base := &APIError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		RawBody:    body,
	}

	// Parse JSON body for message and trackingId
	var parsed apiErrorBody
	if len(body) > 0 {
		if err := json.Unmarshal(body, &parsed); err == nil {
			base.Message = parsed.Message
			base.TrackingID = parsed.TrackingID
			base.Details = parsed.Errors
			if base.Message == "" && len(parsed.Errors) > 0 {
				base.Message = parsed.Errors[0].Description
			}
		}
		// Non-JSON bodies keep an empty Message; RawBody has the original.
	}
	if base.TrackingID == "" {
		base.TrackingID = resp.Header.Get(TrackingIDHeader)
	}

	// Parse Retry-After header
	if ra := resp.Header.Get("Retry-After"); ra != "" {
		if seconds, err := strconv.Atoi(ra); err == nil && seconds > 0 {
			base.RetryAfter = time.Duration(seconds) * time.Second
		}
	}

	// Return the appropriate sub-type
	switch resp.StatusCode {
	case http.StatusUnauthorized: // 401
		return &AuthError{APIError: base}
	case http.StatusForbidden: // 403
		return &ForbiddenError{APIError: base}
	case http.StatusNotFound: // 404
		return &NotFoundError{APIError: base}
	case http.StatusConflict: // 409
		return &ConflictError{APIError: base}
	case http.StatusGone: // 410
		return &GoneError{APIError: base}
	case 423: // Locked
		return &LockedError{APIError: base}
	case 428: // Precondition Required
		return &PreconditionRequiredError{APIError: base}
	case http.StatusTooManyRequests: // 429
		return &RateLimitError{APIError: base}
	case http.StatusInternalServerError, // 500
		http.StatusBadGateway,         // 502
		http.StatusServiceUnavailable, // 503
		http.StatusGatewayTimeout:     // 504
		return &ServerError{APIError: base}
	default:
		return base
	}
}

// --- Convenience functions ---

// IsRateLimited reports whether err is a rate limit error (HTTP 429).
func IsRateLimited(err error) bool {
	var e *RateLimitError
	return errors.As(err, &e)
}

// IsNotFound reports whether err is a not found error (HTTP 404).
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// IsAuthError reports whether err is an authentication error (HTTP 401).
func IsAuthError(err error) bool {
	var e *AuthError
	return errors.As(err, &e)
}

// IsForbidden reports whether err is a forbidden error (HTTP 403).
func IsForbidden(err error) bool {
	var e *ForbiddenError
	return errors.As(err, &e)
}

// IsConflict reports whether err is a conflict error (HTTP 409).
func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

// IsGone reports whether err is a gone error (HTTP 410).
func IsGone(err error) bool {
	var e *GoneError
	return errors.As(err, &e)
}

// IsLocked reports whether err is a locked error (HTTP 423).
func IsLocked(err error) bool {
	var e *LockedError
	return errors.As(err, &e)
}

// IsPreconditionRequired reports whether err is a precondition required error (HTTP 428).
func IsPreconditionRequired(err error) bool {
	var e *PreconditionRequiredError
	return errors.As(err, &e)
}

// IsServerError reports whether err is a server error (HTTP 5xx).
func IsServerError(err error) bool {
	var e *ServerError
	return errors.As(err, &e)
}
