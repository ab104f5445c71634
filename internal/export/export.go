/* SPDX-License-Identifier: MPL-2.0
 * Copyright 2025 Tejus Pratap <tejzpr@gmail.com>
 *
 * See CONTRIBUTORS.md for full contributor list.
 */

// Package export writes a snapshot of an organization's calling resources
// into a SQLite database.
package export

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/jeokrohn/wxc-sdk-sub004/apimodel"
	"github.com/jeokrohn/wxc-sdk-sub004/callqueue"
	"github.com/jeokrohn/wxc-sdk-sub004/locations"
	"github.com/jeokrohn/wxc-sdk-sub004/people"
	"github.com/jeokrohn/wxc-sdk-sub004/workspaces"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshot (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	taken_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS location (
	id TEXT PRIMARY KEY,
	name TEXT,
	time_zone TEXT,
	city TEXT,
	country TEXT,
	raw TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS person (
	id TEXT PRIMARY KEY,
	display_name TEXT,
	emails TEXT,
	location_id TEXT,
	extension TEXT,
	raw TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS workspace (
	id TEXT PRIMARY KEY,
	display_name TEXT,
	location_id TEXT,
	calling_type TEXT,
	raw TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS call_queue (
	id TEXT PRIMARY KEY,
	name TEXT,
	location_id TEXT,
	phone_number TEXT,
	extension TEXT,
	raw TEXT NOT NULL
);`

// Open opens or creates the database at path and ensures the schema.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return db, nil
}

// Source supplies the resources to export. Nil sequences are skipped.
type Source struct {
	Locations  iter.Seq2[locations.Location, error]
	People     iter.Seq2[people.Person, error]
	Workspaces iter.Seq2[workspaces.Workspace, error]
	Queues     iter.Seq2[callqueue.CallQueue, error]
}

// Counts reports the number of rows written per table.
type Counts struct {
	Locations  int
	People     int
	Workspaces int
	Queues     int
}

// Export replaces the stored snapshot with the resources from src in a
// single transaction.
func Export(ctx context.Context, db *sql.DB, src Source) (Counts, error) {
	var counts Counts
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return counts, err
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"location", "person", "workspace", "call_queue"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return counts, err
		}
	}

	if counts.Locations, err = insertAll(ctx, tx, src.Locations,
		`INSERT INTO location (id, name, time_zone, city, country, raw) VALUES (?, ?, ?, ?, ?, ?)`,
		func(l locations.Location) []any {
			var city, country string
			if l.Address != nil {
				city, country = apimodel.Deref(l.Address.City), apimodel.Deref(l.Address.Country)
			}
			return []any{l.ID, apimodel.Deref(l.Name), apimodel.Deref(l.TimeZone), city, country}
		}); err != nil {
		return counts, fmt.Errorf("locations: %w", err)
	}

	if counts.People, err = insertAll(ctx, tx, src.People,
		`INSERT INTO person (id, display_name, emails, location_id, extension, raw) VALUES (?, ?, ?, ?, ?, ?)`,
		func(p people.Person) []any {
			return []any{p.ID, apimodel.Deref(p.DisplayName), strings.Join(p.Emails, ","), apimodel.Deref(p.LocationID), apimodel.Deref(p.Extension)}
		}); err != nil {
		return counts, fmt.Errorf("people: %w", err)
	}

	if counts.Workspaces, err = insertAll(ctx, tx, src.Workspaces,
		`INSERT INTO workspace (id, display_name, location_id, calling_type, raw) VALUES (?, ?, ?, ?, ?)`,
		func(w workspaces.Workspace) []any {
			var callingType string
			if w.Calling != nil {
				callingType = string(w.Calling.Type)
			}
			return []any{w.ID, apimodel.Deref(w.DisplayName), apimodel.Deref(w.LocationID), callingType}
		}); err != nil {
		return counts, fmt.Errorf("workspaces: %w", err)
	}

	if counts.Queues, err = insertAll(ctx, tx, src.Queues,
		`INSERT INTO call_queue (id, name, location_id, phone_number, extension, raw) VALUES (?, ?, ?, ?, ?, ?)`,
		func(q callqueue.CallQueue) []any {
			return []any{q.ID, apimodel.Deref(q.Name), apimodel.Deref(q.LocationID), apimodel.Deref(q.PhoneNumber), apimodel.Deref(q.Extension)}
		}); err != nil {
		return counts, fmt.Errorf("call queues: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO snapshot (taken_at) VALUES (?)`,
		time.Now().UTC().Format(time.RFC3339)); err != nil {
		return counts, err
	}
	return counts, tx.Commit()
}

// insertAll inserts each item of seq. columns returns every column but the
// trailing raw JSON, which is the item re-serialized with its extra fields.
func insertAll[T any](ctx context.Context, tx *sql.Tx, seq iter.Seq2[T, error], query string, columns func(T) []any) (int, error) {
	if seq == nil {
		return 0, nil
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	n := 0
	for item, err := range seq {
		if err != nil {
			return n, err
		}
		raw, err := apimodel.Marshal(item)
		if err != nil {
			return n, err
		}
		if _, err := stmt.ExecContext(ctx, append(columns(item), string(raw))...); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
