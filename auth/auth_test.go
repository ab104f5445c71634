/* SPDX-License-Identifier: MPL-2.0
 * Copyright 2025 Tejus Pratap <tejzpr@gmail.com>
 *
 * See CONTRIBUTORS.md for full contributor list.
 */

package auth

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jeokrohn/wxc-sdk-sub004/webexsdk"
)

func TestAuthCodeURL(t *testing.T) {
	i := &Integration{
		ClientID:    "cid",
		Scopes:      []string{"spark:people_read", "spark-admin:telephony_config_read"},
		RedirectURL: "http://localhost:6001/redirect",
	}
	u, err := url.Parse(i.AuthCodeURL("xyz"))
	if err != nil {
		t.Fatalf("Invalid URL: %v", err)
	}
	if u.Scheme+"://"+u.Host+u.Path != DefaultAuthURL {
		t.Errorf("Unexpected base %s", u)
	}
	q := u.Query()
	if q.Get("client_id") != "cid" || q.Get("response_type") != "code" || q.Get("state") != "xyz" {
		t.Errorf("Unexpected query %v", q)
	}
	if q.Get("scope") != "spark:people_read spark-admin:telephony_config_read" {
		t.Errorf("Unexpected scope %q", q.Get("scope"))
	}
}

func TestExchangeAndRefresh(t *testing.T) {
	var grants []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		grants = append(grants, r.PostForm.Get("grant_type"))
		if r.PostForm.Get("client_secret") != "secret" {
			t.Errorf("Missing client secret")
		}
		switch r.PostForm.Get("grant_type") {
		case "authorization_code":
			if r.PostForm.Get("code") != "the-code" {
				t.Errorf("Unexpected code %q", r.PostForm.Get("code"))
			}
			fmt.Fprint(w, `{"access_token":"at1","expires_in":1209600,"refresh_token":"rt1","refresh_token_expires_in":7776000,"token_type":"Bearer"}`)
		case "refresh_token":
			if r.PostForm.Get("refresh_token") != "rt1" {
				t.Errorf("Unexpected refresh token %q", r.PostForm.Get("refresh_token"))
			}
			fmt.Fprint(w, `{"access_token":"at2","expires_in":1209600}`)
		}
	}))
	defer server.Close()

	i := &Integration{ClientID: "cid", ClientSecret: "secret", TokenURL: server.URL, HTTPClient: server.Client()}
	ctx := context.Background()

	tokens, err := i.ExchangeCode(ctx, "the-code")
	if err != nil {
		t.Fatalf("ExchangeCode failed: %v", err)
	}
	if tokens.AccessToken != "at1" || tokens.RefreshToken != "rt1" {
		t.Errorf("Unexpected tokens %+v", tokens)
	}
	if tokens.ExpiresAt.IsZero() || tokens.RefreshTokenExpiresAt.Before(tokens.ExpiresAt) {
		t.Errorf("Expiration not derived: %+v", tokens)
	}
	if tokens.NeedsRefresh(time.Hour) {
		t.Error("Fresh token should not need refresh")
	}

	fresh, err := i.Refresh(ctx, tokens)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if fresh.AccessToken != "at2" || fresh.RefreshToken != "rt1" || !fresh.RefreshTokenExpiresAt.Equal(tokens.RefreshTokenExpiresAt) {
		t.Errorf("Refresh token not kept: %+v", fresh)
	}
	if strings.Join(grants, ",") != "authorization_code,refresh_token" {
		t.Errorf("Unexpected grants %v", grants)
	}

	if _, err := i.Refresh(ctx, &Tokens{}); err == nil {
		t.Error("Expected error without refresh token")
	}
}

func TestExchangeCode_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"message":"Invalid authorization code"}`)
	}))
	defer server.Close()

	i := &Integration{TokenURL: server.URL, HTTPClient: server.Client()}
	_, err := i.ExchangeCode(context.Background(), "stale")
	apiErr, ok := err.(*webexsdk.APIError)
	if !ok {
		t.Fatalf("Expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "Invalid authorization code" {
		t.Errorf("Unexpected error %+v", apiErr)
	}
}

func TestNeedsRefresh(t *testing.T) {
	tests := []struct {
		name   string
		tokens Tokens
		want   bool
	}{
		{"no expiry", Tokens{}, false},
		{"expires soon", Tokens{ExpiresAt: time.Now().Add(2 * time.Minute)}, true},
		{"expired", Tokens{ExpiresAt: time.Now().Add(-time.Minute)}, true},
		{"plenty left", Tokens{ExpiresAt: time.Now().Add(24 * time.Hour)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tokens.NeedsRefresh(5 * time.Minute); got != tt.want {
				t.Errorf("NeedsRefresh() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadWriteTokens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.yml")
	in := &Tokens{AccessToken: "at", RefreshToken: "rt", ExpiresIn: 60}
	in.SetExpiration(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))

	if err := WriteTokens(path, in); err != nil {
		t.Fatalf("WriteTokens failed: %v", err)
	}
	out, err := ReadTokens(path)
	if err != nil {
		t.Fatalf("ReadTokens failed: %v", err)
	}
	if out.AccessToken != "at" || out.RefreshToken != "rt" || !out.ExpiresAt.Equal(in.ExpiresAt) {
		t.Errorf("Round trip mismatch: %+v", out)
	}

	if _, err := ReadTokens(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestWatchTokens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.yml")
	if err := WriteTokens(path, &Tokens{AccessToken: "old"}); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	seen := make(chan string, 10)
	err := WatchTokens(ctx, path, func(tk *Tokens, err error) {
		if err == nil {
			seen <- tk.AccessToken
		}
	})
	if err != nil {
		t.Fatalf("WatchTokens failed: %v", err)
	}

	if err := WriteTokens(path, &Tokens{AccessToken: "new"}); err != nil {
		t.Fatal(err)
	}
	timeout := time.After(5 * time.Second)
	for {
		select {
		case got := <-seen:
			if got == "new" {
				return
			}
		case <-timeout:
			t.Fatal("Timed out waiting for token change")
		}
	}
}

func TestCaptureCode(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	base := "http://" + ln.Addr().String() + "/redirect"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	type result struct {
		code string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		code, err := CaptureCodeOn(ctx, ln, "/redirect", "s1")
		done <- result{code, err}
	}()

	get := func(query string) int {
		resp, err := http.Get(base + "?" + query)
		if err != nil {
			t.Fatalf("GET failed: %v", err)
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		return resp.StatusCode
	}

	if status := get("code=c1&state=wrong"); status != http.StatusBadRequest {
		t.Errorf("Expected 400 for state mismatch, got %d", status)
	}
	if status := get("code=c1&state=s1"); status != http.StatusOK {
		t.Errorf("Expected 200, got %d", status)
	}

	r := <-done
	if r.err != nil || r.code != "c1" {
		t.Fatalf("Unexpected result %q, %v", r.code, r.err)
	}
}

func TestCaptureCode_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := CaptureCode(ctx, "127.0.0.1:0", "/redirect", "s"); err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
