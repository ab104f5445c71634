/* SPDX-License-Identifier: MPL-2.0
 * Copyright 2025 Tejus Pratap <tejzpr@gmail.com>
 *
 * See CONTRIBUTORS.md for full contributor list.
 */

package cli

import (
	"github.com/jeokrohn/wxc-sdk-sub004/callqueue"
	"github.com/jeokrohn/wxc-sdk-sub004/internal/export"
	"github.com/jeokrohn/wxc-sdk-sub004/locations"
	"github.com/jeokrohn/wxc-sdk-sub004/people"
	"github.com/jeokrohn/wxc-sdk-sub004/workspaces"
	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write locations, people, workspaces and call queues to a SQLite file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				return newUsageError("--db is required")
			}
			client, err := a.webexClient(cmd.Context())
			if err != nil {
				return err
			}
			db, err := export.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx, org := cmd.Context(), a.cfg.OrgID
			counts, err := export.Export(ctx, db, export.Source{
				Locations:  client.Locations().List(ctx, &locations.ListOptions{OrgID: org}),
				People:     client.People().List(ctx, &people.ListOptions{OrgID: org, CallingData: true}),
				Workspaces: client.Workspaces().List(ctx, &workspaces.ListOptions{OrgID: org}),
				Queues:     client.CallQueues().List(ctx, &callqueue.ListOptions{OrgID: org}),
			})
			if err != nil {
				return err
			}
			a.logger.Info("export complete", "db", dbPath,
				"locations", counts.Locations, "people", counts.People,
				"workspaces", counts.Workspaces, "queues", counts.Queues)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database file")
	return cmd
}
