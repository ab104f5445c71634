/* SPDX-License-Identifier: MPL-2.0
 * Copyright 2025 Tejus Pratap <tejzpr@gmail.com>
 *
 * See CONTRIBUTORS.md for full contributor list.
 */

package export

import (
	"context"
	"encoding/json"
	"errors"
	"iter"
	"path/filepath"
	"testing"

	"github.com/jeokrohn/wxc-sdk-sub004/apimodel"
	"github.com/jeokrohn/wxc-sdk-sub004/callqueue"
	"github.com/jeokrohn/wxc-sdk-sub004/locations"
	"github.com/jeokrohn/wxc-sdk-sub004/people"
	"github.com/jeokrohn/wxc-sdk-sub004/workspaces"
)

func seqOf[T any](items ...T) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, item := range items {
			if !yield(item, nil) {
				return
			}
		}
	}
}

func failing[T any](err error) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		yield(zero, err)
	}
}

func TestExport(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "snapshot.sqlite"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	src := Source{
		Locations: seqOf(locations.Location{
			ID: "loc1", Name: apimodel.Ptr("Berlin"), TimeZone: apimodel.Ptr("Europe/Berlin"),
			Address: &locations.Address{City: apimodel.Ptr("Berlin"), Country: apimodel.Ptr("DE")},
			Extra:   apimodel.Extra{"routingPrefix": json.RawMessage(`"8001"`)},
		}),
		People: seqOf(
			people.Person{ID: "p1", DisplayName: apimodel.Ptr("Ada"), Emails: []string{"ada@example.com"}, LocationID: apimodel.Ptr("loc1")},
			people.Person{ID: "p2", DisplayName: apimodel.Ptr("Bob"), Emails: []string{"bob@example.com", "b@example.com"}},
		),
		Workspaces: seqOf(workspaces.Workspace{
			ID: "w1", DisplayName: apimodel.Ptr("Lobby"),
			Calling: &workspaces.Calling{Type: workspaces.CallingWebex},
		}),
		Queues: seqOf(callqueue.CallQueue{ID: "q1", Name: apimodel.Ptr("Support"), LocationID: apimodel.Ptr("loc1"), Extension: apimodel.Ptr("5001")}),
	}

	counts, err := Export(context.Background(), db, src)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if counts != (Counts{Locations: 1, People: 2, Workspaces: 1, Queues: 1}) {
		t.Errorf("Unexpected counts %+v", counts)
	}

	var city, raw string
	if err := db.QueryRow(`SELECT city, raw FROM location WHERE id = 'loc1'`).Scan(&city, &raw); err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if city != "Berlin" {
		t.Errorf("Unexpected city %q", city)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		t.Fatalf("raw is not JSON: %v", err)
	}
	if decoded["routingPrefix"] != "8001" || decoded["timeZone"] != "Europe/Berlin" {
		t.Errorf("Extra fields not preserved in raw: %s", raw)
	}

	var emails string
	if err := db.QueryRow(`SELECT emails FROM person WHERE id = 'p2'`).Scan(&emails); err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if emails != "bob@example.com,b@example.com" {
		t.Errorf("Unexpected emails %q", emails)
	}

	var callingType string
	if err := db.QueryRow(`SELECT calling_type FROM workspace WHERE id = 'w1'`).Scan(&callingType); err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if callingType != string(workspaces.CallingWebex) {
		t.Errorf("Unexpected calling type %q", callingType)
	}

	// a second export replaces the first
	counts, err = Export(context.Background(), db, Source{People: seqOf(people.Person{ID: "p3"})})
	if err != nil {
		t.Fatalf("Second export failed: %v", err)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM person`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 || counts.Locations != 0 {
		t.Errorf("Expected snapshot replacement, got %d people, counts %+v", n, counts)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM snapshot`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Expected 2 snapshots, got %d", n)
	}
}

func TestExport_RollsBackOnError(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "snapshot.sqlite"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if _, err := Export(context.Background(), db, Source{People: seqOf(people.Person{ID: "keep"})}); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("list failed")
	_, err = Export(context.Background(), db, Source{
		People: seqOf(people.Person{ID: "new"}),
		Queues: failing[callqueue.CallQueue](boom),
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected list error, got %v", err)
	}

	var id string
	if err := db.QueryRow(`SELECT id FROM person`).Scan(&id); err != nil {
		t.Fatal(err)
	}
	if id != "keep" {
		t.Errorf("Failed export must not change the snapshot, got %q", id)
	}
}
