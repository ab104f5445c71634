/* SPDX-License-Identifier: MPL-2.0
 * Copyright 2025 Tejus Pratap <tejzpr@gmail.com>
 *
 * See CONTRIBUTORS.md for full contributor list.
 */

package cli

import (
	"github.com/jeokrohn/wxc-sdk-sub004/callqueue"
	"github.com/jeokrohn/wxc-sdk-sub004/locations"
	"github.com/jeokrohn/wxc-sdk-sub004/people"
	"github.com/jeokrohn/wxc-sdk-sub004/workspaces"
	"github.com/spf13/cobra"
)

func newLocationsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "locations", Short: "Locations of the organization"}

	var name string
	list := &cobra.Command{
		Use:   "list",
		Short: "List locations as JSON lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.webexClient(cmd.Context())
			if err != nil {
				return err
			}
			seq := client.Locations().List(cmd.Context(), &locations.ListOptions{Name: name, OrgID: a.cfg.OrgID})
			return printAll(cmd.OutOrStdout(), seq)
		},
	}
	list.Flags().StringVar(&name, "name", "", "Only locations with this name")
	cmd.AddCommand(list)
	return cmd
}

func newPeopleCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "people", Short: "People of the organization"}

	var opts people.ListOptions
	list := &cobra.Command{
		Use:   "list",
		Short: "List people as JSON lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.webexClient(cmd.Context())
			if err != nil {
				return err
			}
			opts.OrgID = a.cfg.OrgID
			return printAll(cmd.OutOrStdout(), client.People().List(cmd.Context(), &opts))
		},
	}
	f := list.Flags()
	f.StringVar(&opts.Email, "email", "", "Only the person with this email")
	f.StringVar(&opts.DisplayName, "display-name", "", "Only people whose display name starts with this")
	f.StringVar(&opts.LocationID, "location", "", "Only people in this location")
	f.BoolVar(&opts.CallingData, "calling-data", false, "Include extension, location and phone numbers")
	cmd.AddCommand(list)
	return cmd
}

func newWorkspacesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "workspaces", Short: "Workspaces of the organization"}

	var opts workspaces.ListOptions
	var calling string
	list := &cobra.Command{
		Use:   "list",
		Short: "List workspaces as JSON lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.webexClient(cmd.Context())
			if err != nil {
				return err
			}
			opts.OrgID = a.cfg.OrgID
			opts.Calling = workspaces.CallingType(calling)
			return printAll(cmd.OutOrStdout(), client.Workspaces().List(cmd.Context(), &opts))
		},
	}
	f := list.Flags()
	f.StringVar(&opts.LocationID, "location", "", "Only workspaces in this location")
	f.StringVar(&opts.DisplayName, "display-name", "", "Only workspaces with this display name")
	f.StringVar(&calling, "calling", "", "Only workspaces with this calling type, e.g. webexCalling")
	cmd.AddCommand(list)
	return cmd
}

func newQueuesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "queues", Short: "Telephony call queues"}

	var opts callqueue.ListOptions
	list := &cobra.Command{
		Use:   "list",
		Short: "List call queues as JSON lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.webexClient(cmd.Context())
			if err != nil {
				return err
			}
			opts.OrgID = a.cfg.OrgID
			return printAll(cmd.OutOrStdout(), client.CallQueues().List(cmd.Context(), &opts))
		},
	}
	f := list.Flags()
	f.StringVar(&opts.LocationID, "location", "", "Only queues in this location")
	f.StringVar(&opts.Name, "name", "", "Only queues with this name")
	cmd.AddCommand(list)

	get := &cobra.Command{
		Use:   "get <locationId> <queueId>",
		Short: "Show the details of a call queue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.webexClient(cmd.Context())
			if err != nil {
				return err
			}
			q, err := client.CallQueues().Get(cmd.Context(), args[0], args[1], a.cfg.OrgID)
			if err != nil {
				return err
			}
			return printIndented(cmd.OutOrStdout(), q)
		},
	}
	cmd.AddCommand(get)
	return cmd
}

func newVoicemailCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "voicemail", Short: "Voicemail settings and messages"}

	get := &cobra.Command{
		Use:   "get <personId>",
		Short: "Show the voicemail settings of a person; use \"me\" for yourself",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.webexClient(cmd.Context())
			if err != nil {
				return err
			}
			vm, err := client.PersonSettings().Voicemail(cmd.Context(), args[0], a.cfg.OrgID)
			if err != nil {
				return err
			}
			return printIndented(cmd.OutOrStdout(), vm)
		},
	}

	messages := &cobra.Command{
		Use:   "messages",
		Short: "List your voice messages as JSON lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.webexClient(cmd.Context())
			if err != nil {
				return err
			}
			return printAll(cmd.OutOrStdout(), client.Voicemail().Messages(cmd.Context()))
		},
	}
	cmd.AddCommand(get, messages)
	return cmd
}

func newLicensesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "licenses", Short: "Licenses of the organization"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List licenses as JSON lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.webexClient(cmd.Context())
			if err != nil {
				return err
			}
			return printAll(cmd.OutOrStdout(), client.Licenses().List(cmd.Context(), a.cfg.OrgID))
		},
	}
	cmd.AddCommand(list)
	return cmd
}
