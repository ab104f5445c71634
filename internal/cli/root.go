/* SPDX-License-Identifier: MPL-2.0
 * Copyright 2025 Tejus Pratap <tejzpr@gmail.com>
 *
 * See CONTRIBUTORS.md for full contributor list.
 */

// Package cli implements the wxc command line tool.
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"time"

	webex "github.com/jeokrohn/wxc-sdk-sub004"
	"github.com/jeokrohn/wxc-sdk-sub004/apimodel"
	"github.com/jeokrohn/wxc-sdk-sub004/auth"
	"github.com/jeokrohn/wxc-sdk-sub004/webexsdk"
	"github.com/spf13/cobra"
)

// refreshMargin is how close to expiry a stored token is refreshed.
const refreshMargin = 30 * time.Minute

// app is the state shared by all commands of one invocation.
type app struct {
	cfg    *Config
	logger *slog.Logger
	client *webex.WebexClient
}

// Execute runs the wxc CLI.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd constructs the root command so tests can exercise the CLI easily.
func NewRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           "wxc",
		Short:         "Inspect and export Webex Calling configuration",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd.Flags())
			if err != nil {
				return err
			}
			handler, err := newLogHandler(cmd.ErrOrStderr(), cfg.LogLevel)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = slog.New(handler)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringP("config", "c", "", "Config file path (default $HOME/.wxc.yaml)")
	pf.String("token", "", "Access token (overrides "+TokenEnv+")")
	pf.String("token-file", "", "YAML token file written by 'wxc auth login'")
	pf.String("base-url", "", "API base URL")
	pf.String("org-id", "", "Organization to operate on")
	pf.String("unknown-fields", "", "Handling of unknown response fields: allow, ignore or forbid")
	pf.String("log-level", "", "Log level: debug, info, warn or error")

	for _, sub := range []*cobra.Command{
		newLocationsCmd(a),
		newPeopleCmd(a),
		newWorkspacesCmd(a),
		newQueuesCmd(a),
		newVoicemailCmd(a),
		newLicensesCmd(a),
		newAuthCmd(a),
		newExportCmd(a),
		newGenCmd(),
	} {
		cmd.AddCommand(sub)
	}
	setUsageErrors(cmd)
	return cmd
}

// setUsageErrors converts cobra flag errors into usage errors that carry the
// command's help text.
func setUsageErrors(cmd *cobra.Command) {
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return newUsageError(fmt.Sprintf("%v\n\n%s", err, c.UsageString()))
	})
	for _, sub := range cmd.Commands() {
		setUsageErrors(sub)
	}
}

// webexClient returns the API client, creating it on first use. A token
// from the token file is refreshed first when it is about to expire.
func (a *app) webexClient(ctx context.Context) (*webex.WebexClient, error) {
	if a.client != nil {
		return a.client, nil
	}
	token := a.cfg.Token
	if token == "" {
		var err error
		if token, err = a.storedToken(ctx); err != nil {
			return nil, err
		}
	}

	strictness, err := apimodel.ParseStrictness(a.cfg.UnknownFields)
	if err != nil {
		return nil, err
	}
	config := webexsdk.DefaultConfig()
	if a.cfg.BaseURL != "" {
		config.BaseURL = a.cfg.BaseURL
	}
	config.UnknownFields = strictness
	config.Logger = slog.NewLogLogger(a.logger.Handler(), slog.LevelDebug)

	client, err := webex.NewClient(token, config)
	if err != nil {
		return nil, err
	}
	a.client = client
	return client, nil
}

func (a *app) storedToken(ctx context.Context) (string, error) {
	if a.cfg.TokenFile == "" {
		return "", newUsageError("no access token: set " + TokenEnv + ", --token or run 'wxc auth login'")
	}
	tokens, err := auth.ReadTokens(a.cfg.TokenFile)
	if err != nil {
		if os.IsNotExist(err) {
			return "", newUsageError("no access token: set " + TokenEnv + ", --token or run 'wxc auth login'")
		}
		return "", err
	}
	if tokens.NeedsRefresh(refreshMargin) && tokens.RefreshToken != "" && a.cfg.Integration.ClientID != "" {
		a.logger.Info("refreshing access token", "expires", tokens.ExpiresAt)
		fresh, err := a.cfg.Integration.Refresh(ctx, tokens)
		if err != nil {
			return "", fmt.Errorf("refreshing access token: %w", err)
		}
		if err := auth.WriteTokens(a.cfg.TokenFile, fresh); err != nil {
			return "", err
		}
		tokens = fresh
	}
	return tokens.AccessToken, nil
}

// printJSON writes v as one line of JSON, keeping unknown fields.
func printJSON(w io.Writer, v any) error {
	data, err := apimodel.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// printAll writes each item of seq as a JSON line.
func printAll[T any](w io.Writer, seq iter.Seq2[T, error]) error {
	for item, err := range seq {
		if err != nil {
			return err
		}
		if err := printJSON(w, item); err != nil {
			return err
		}
	}
	return nil
}

// printIndented writes v as indented JSON, keeping unknown fields.
func printIndented(w io.Writer, v any) error {
	data, err := apimodel.Marshal(v)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(w)
	return err
}
