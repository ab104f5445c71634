/* SPDX-License-Identifier: MPL-2.0
 * Copyright 2025 Tejus Pratap <tejzpr@gmail.com>
 *
 * See CONTRIBUTORS.md for full contributor list.
 */

package webexsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/jeokrohn/wxc-sdk-sub004/apimodel"
)

// DefaultItemKey is the JSON key holding list items on most Webex endpoints.
// Telephony endpoints use resource-specific keys ("queues", "locations", ...).
const DefaultItemKey = "items"

// Page represents one page of a list response.
// Pagination follows RFC 5988 (Web Linking): next/prev URLs are parsed
// from the response's Link header.
type Page struct {
	Items    []json.RawMessage
	NextPage string
	PrevPage string
	HasNext  bool
	HasPrev  bool
	Client   *Client
	// ItemKey is the JSON key the items were read from.
	ItemKey string
}

// NewPage reads a list response. It parses the Link header for pagination
// URLs and extracts the array found under itemKey (DefaultItemKey if empty).
// A body without itemKey yields an empty page.
func NewPage(resp *http.Response, client *Client, itemKey string) (*Page, error) {
	defer resp.Body.Close()
	if itemKey == "" {
		itemKey = DefaultItemKey
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, NewAPIError(resp, body)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("error parsing response: invalid JSON")
	}

	page := &Page{
		Client:  client,
		ItemKey: itemKey,
	}

	result := gjson.GetBytes(body, itemKey)
	if result.Exists() {
		if !result.IsArray() {
			return nil, fmt.Errorf("error parsing response: %q is not a list", itemKey)
		}
		for _, item := range result.Array() {
			page.Items = append(page.Items, json.RawMessage(item.Raw))
		}
	}

	links := parseLinkHeader(resp.Header.Get("Link"))
	page.NextPage = links["next"]
	page.PrevPage = links["prev"]
	page.HasNext = page.NextPage != ""
	page.HasPrev = page.PrevPage != ""

	return page, nil
}

// Next retrieves the next page of results using the URL from the Link header.
func (p *Page) Next() (*Page, error) {
	return p.NextWithContext(context.Background())
}

// NextWithContext is Next with a caller-supplied context.
func (p *Page) NextWithContext(ctx context.Context) (*Page, error) {
	if !p.HasNext {
		return nil, fmt.Errorf("no next page")
	}
	return p.fetch(ctx, p.NextPage)
}

// Prev retrieves the previous page of results using the URL from the Link header.
func (p *Page) Prev() (*Page, error) {
	if !p.HasPrev {
		return nil, fmt.Errorf("no previous page")
	}
	return p.fetch(context.Background(), p.PrevPage)
}

func (p *Page) fetch(ctx context.Context, link string) (*Page, error) {
	// Link header URLs are absolute
	resp, err := p.Client.RequestURLWithRetry(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}
	return NewPage(resp, p.Client, p.ItemKey)
}

// Follow lazily iterates over every item of a list endpoint. It requests
// path with params, decodes the array found under itemKey and yields its
// elements in server order, then follows the rel="next" Link header until the
// server stops sending one or links back to a page already fetched. An error
// is yielded once and ends the iteration.
//
// Stopping the range loop early stops fetching further pages. An empty
// itemKey means DefaultItemKey.
func Follow[T any](ctx context.Context, c *Client, path string, params url.Values, itemKey string) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T

		first, err := c.requestURL(path, params)
		if err != nil {
			yield(zero, err)
			return
		}
		seen := map[string]struct{}{first: {}}

		resp, err := c.RequestWithRetry(ctx, http.MethodGet, path, params, nil)
		if err != nil {
			yield(zero, err)
			return
		}
		page, err := NewPage(resp, c, itemKey)
		for {
			if err != nil {
				yield(zero, err)
				return
			}

			for _, raw := range page.Items {
				var item T
				if err := apimodel.Unmarshal(raw, &item, c.Config.UnknownFields); err != nil {
					yield(zero, fmt.Errorf("error parsing %s item: %w", page.ItemKey, err))
					return
				}
				if !yield(item, nil) {
					return
				}
			}

			if !page.HasNext {
				return
			}
			if _, dup := seen[page.NextPage]; dup {
				return
			}
			seen[page.NextPage] = struct{}{}

			page, err = page.NextWithContext(ctx)
		}
	}
}

// Collect drains seq into a slice, stopping at the first error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for item, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, item)
	}
	return out, nil
}

// parseLinkHeader parses an RFC 5988 Link header value and returns a map
// of rel type to URL. For example:
//
//	<https://example.com/items?page=2>; rel="next"
//
// returns {"next": "https://example.com/items?page=2"}.
func parseLinkHeader(header string) map[string]string {
	links := make(map[string]string)
	if header == "" {
		return links
	}

	for _, part := range splitLinks(header) {
		start := strings.IndexByte(part, '<')
		end := strings.IndexByte(part, '>')
		if start < 0 || end <= start+1 {
			continue
		}
		linkURL := part[start+1 : end]

		for _, param := range strings.Split(part[end+1:], ";") {
			key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
			if !ok || !strings.EqualFold(strings.TrimSpace(key), "rel") {
				continue
			}
			for _, rel := range strings.Fields(strings.Trim(strings.TrimSpace(value), `"`)) {
				links[rel] = linkURL
			}
		}
	}

	return links
}

// splitLinks splits a Link header value by commas, respecting angle brackets.
func splitLinks(header string) []string {
	var parts []string
	inBrackets := false
	start := 0
	for i := 0; i < len(header); i++ {
		switch header[i] {
		case '<':
			inBrackets = true
		case '>':
			inBrackets = false
		case ',':
			if !inBrackets {
				parts = append(parts, strings.TrimSpace(header[start:i]))
				start = i + 1
			}
		}
	}
	if start < len(header) {
		parts = append(parts, strings.TrimSpace(header[start:]))
	}
	return parts
}
