/* SPDX-License-Identifier: MPL-2.0
 * Copyright 2025 Tejus Pratap <tejzpr@gmail.com>
 *
 * See CONTRIBUTORS.md for full contributor list.
 */

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jeokrohn/wxc-sdk-sub004/auth"
	"github.com/jeokrohn/wxc-sdk-sub004/internal/export"
)

// isolate points HOME at a temp dir and clears the token variable.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(TokenEnv, "")
	return home
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

type recorder struct {
	mu      sync.Mutex
	auth    []string
	queries map[string]string
}

func newAPI(t *testing.T, handlers map[string]string) (*httptest.Server, *recorder) {
	t.Helper()
	rec := &recorder{queries: map[string]string{}}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.mu.Lock()
		rec.auth = append(rec.auth, r.Header.Get("Authorization"))
		rec.queries[r.URL.Path] = r.URL.RawQuery
		rec.mu.Unlock()
		body, ok := handlers[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"not found"}`)
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server, rec
}

func TestLocationsList(t *testing.T) {
	isolate(t)
	server, rec := newAPI(t, map[string]string{
		"/locations": `{"items":[{"id":"l1","name":"Berlin","routingPrefix":"8001"},{"id":"l2","name":"Berlin"}]}`,
	})

	out, err := run(t, "--base-url", server.URL, "--token", "flag-token", "locations", "list", "--name", "Berlin")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 JSON lines, got %q", out)
	}
	if !strings.Contains(lines[0], `"routingPrefix":"8001"`) {
		t.Errorf("Unknown field not kept in output: %s", lines[0])
	}
	if rec.auth[0] != "Bearer flag-token" {
		t.Errorf("Unexpected auth %q", rec.auth[0])
	}
	if rec.queries["/locations"] != "name=Berlin" {
		t.Errorf("Unexpected query %q", rec.queries["/locations"])
	}
}

func TestPeopleList_EnvToken(t *testing.T) {
	isolate(t)
	t.Setenv(TokenEnv, "env-token")
	server, rec := newAPI(t, map[string]string{
		"/people": `{"items":[{"id":"p1","displayName":"Ada","extension":"1001"}]}`,
	})

	out, err := run(t, "--base-url", server.URL, "--org-id", "org1", "people", "list", "--calling-data")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, `"extension":"1001"`) {
		t.Errorf("Unexpected output %q", out)
	}
	if rec.auth[0] != "Bearer env-token" {
		t.Errorf("Unexpected auth %q", rec.auth[0])
	}
	q := rec.queries["/people"]
	if !strings.Contains(q, "callingData=true") || !strings.Contains(q, "orgId=org1") {
		t.Errorf("Unexpected query %q", q)
	}
}

func TestConfigFile(t *testing.T) {
	home := isolate(t)
	server, rec := newAPI(t, map[string]string{
		"/telephony/config/queues": `{"queues":[{"id":"q1","name":"Support","locationId":"l1"}]}`,
	})
	config := fmt.Sprintf("token: file-token\nbase_url: %s\norg_id: org-from-file\n", server.URL)
	if err := os.WriteFile(filepath.Join(home, ".wxc.yaml"), []byte(config), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, "queues", "list", "--location", "l1"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	t.Setenv(TokenEnv, "env-token")
	if _, err := run(t, "queues", "list"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if _, err := run(t, "--token", "flag-token", "queues", "list"); err != nil {
		t.Fatalf("execute: %v", err)
	}

	want := []string{"Bearer file-token", "Bearer env-token", "Bearer flag-token"}
	if strings.Join(rec.auth, ",") != strings.Join(want, ",") {
		t.Errorf("Token precedence: got %v, want %v", rec.auth, want)
	}
	if !strings.Contains(rec.queries["/telephony/config/queues"], "orgId=org-from-file") {
		t.Errorf("org_id from file not applied: %q", rec.queries["/telephony/config/queues"])
	}
}

func TestExplicitConfigMustExist(t *testing.T) {
	isolate(t)
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "locations", "list")
	if err == nil {
		t.Fatal("Expected error for missing config file")
	}
}

func TestMissingToken(t *testing.T) {
	isolate(t)
	_, err := run(t, "locations", "list")
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("Expected usage error, got %v", err)
	}
}

func TestUnknownFlag(t *testing.T) {
	isolate(t)
	_, err := run(t, "locations", "list", "--bogus")
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("Expected usage error, got %v", err)
	}
}

func TestUnknownFieldsForbid(t *testing.T) {
	isolate(t)
	server, _ := newAPI(t, map[string]string{
		"/licenses": `{"items":[{"id":"lic1","name":"Webex Calling - Professional","newField":1}]}`,
	})

	if _, err := run(t, "--base-url", server.URL, "--token", "t", "--unknown-fields", "forbid", "licenses", "list"); err == nil {
		t.Error("Expected error for unknown field in forbid mode")
	}
	out, err := run(t, "--base-url", server.URL, "--token", "t", "--unknown-fields", "ignore", "licenses", "list")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if strings.Contains(out, "newField") {
		t.Errorf("Unknown field should be dropped in ignore mode: %s", out)
	}
	if _, err := run(t, "--token", "t", "--unknown-fields", "sometimes", "licenses", "list"); !errors.Is(err, ErrUsage) {
		t.Errorf("Expected usage error for invalid mode, got %v", err)
	}
}

func TestStoredTokenIsRefreshed(t *testing.T) {
	home := isolate(t)
	server, rec := newAPI(t, map[string]string{
		"/access_token": `{"access_token":"fresh","expires_in":1209600}`,
		"/locations":    `{"items":[]}`,
	})

	tokenFile := filepath.Join(home, "tokens.yaml")
	if err := auth.WriteTokens(tokenFile, &auth.Tokens{
		AccessToken:  "stale",
		RefreshToken: "rt",
		ExpiresAt:    time.Now().Add(time.Minute),
	}); err != nil {
		t.Fatal(err)
	}
	config := fmt.Sprintf(`base_url: %s
token_file: %s
integration:
  client_id: cid
  client_secret: secret
  token_url: %s/access_token
`, server.URL, tokenFile, server.URL)
	if err := os.WriteFile(filepath.Join(home, ".wxc.yaml"), []byte(config), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, "locations", "list"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := rec.auth[len(rec.auth)-1]; got != "Bearer fresh" {
		t.Errorf("Expected refreshed token on API call, got %q", got)
	}
	stored, err := auth.ReadTokens(tokenFile)
	if err != nil {
		t.Fatal(err)
	}
	if stored.AccessToken != "fresh" || stored.RefreshToken != "rt" {
		t.Errorf("Token file not updated: %+v", stored)
	}
}

func TestExport(t *testing.T) {
	isolate(t)
	server, _ := newAPI(t, map[string]string{
		"/locations":               `{"items":[{"id":"l1","name":"Berlin"}]}`,
		"/people":                  `{"items":[{"id":"p1"},{"id":"p2"}]}`,
		"/workspaces":              `{"items":[{"id":"w1","displayName":"Lobby"}]}`,
		"/telephony/config/queues": `{"queues":[]}`,
	})
	dbPath := filepath.Join(t.TempDir(), "out.sqlite")

	if _, err := run(t, "--base-url", server.URL, "--token", "t", "export", "--db", dbPath); err != nil {
		t.Fatalf("execute: %v", err)
	}

	db, err := export.Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM person`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Expected 2 people, got %d", n)
	}

	if _, err := run(t, "--token", "t", "export"); !errors.Is(err, ErrUsage) {
		t.Errorf("Expected usage error without --db, got %v", err)
	}
}

func TestGenModels(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "openapi.yaml")
	doc := `openapi: 3.0.3
info: {title: t, version: "1"}
paths: {}
components:
  schemas:
    Agent:
      type: object
      properties:
        personId: {type: string}
`
	if err := os.WriteFile(input, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(dir, "models")

	out, err := run(t, "gen", "models", "--input", input, "--out", outDir, "--package", "models")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if strings.TrimSpace(out) != filepath.Join(outDir, "models_gen.go") {
		t.Errorf("Unexpected output %q", out)
	}
	data, err := os.ReadFile(filepath.Join(outDir, "models_gen.go"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "PersonID") {
		t.Errorf("Unexpected generated code:\n%s", data)
	}

	if _, err := run(t, "gen", "models", "--input", input); !errors.Is(err, ErrUsage) {
		t.Errorf("Expected usage error for missing flags, got %v", err)
	}
}

func TestVoicemailGet(t *testing.T) {
	isolate(t)
	server, _ := newAPI(t, map[string]string{
		"/people/me/features/voicemail": `{"enabled":true,"sendBusyCalls":{"enabled":true,"greeting":"DEFAULT"}}`,
	})
	out, err := run(t, "--base-url", server.URL, "--token", "t", "voicemail", "get", "me")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, `"greeting": "DEFAULT"`) {
		t.Errorf("Unexpected output %q", out)
	}

	if _, err := run(t, "--token", "t", "voicemail", "get"); err == nil {
		t.Error("Expected error without person ID")
	}
}
