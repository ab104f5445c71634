/* SPDX-License-Identifier: MPL-2.0
 * Copyright 2025 Tejus Pratap <tejzpr@gmail.com>
 *
 * See CONTRIBUTORS.md for full contributor list.
 */

package cli

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"

	"github.com/jeokrohn/wxc-sdk-sub004/auth"
	"github.com/spf13/cobra"
)

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "auth", Short: "Obtain and refresh integration tokens"}

	login := &cobra.Command{
		Use:   "login",
		Short: "Authorize the integration in a browser and store the tokens",
		Long: "Prints the authorization URL, waits for the redirect on the integration's " +
			"redirect URL and writes the tokens to the token file.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			integration := a.cfg.Integration
			if integration.ClientID == "" || integration.RedirectURL == "" {
				return newUsageError("integration client_id and redirect_url must be configured")
			}
			redirect, err := url.Parse(integration.RedirectURL)
			if err != nil {
				return newUsageError(fmt.Sprintf("invalid redirect_url: %v", err))
			}
			path := redirect.Path
			if path == "" {
				path = "/"
			}
			state, err := newState()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Open this URL in a browser:\n\n  %s\n\n", integration.AuthCodeURL(state))
			a.logger.Info("waiting for redirect", "addr", redirect.Host, "path", path)
			code, err := auth.CaptureCode(cmd.Context(), redirect.Host, path, state)
			if err != nil {
				return err
			}

			tokens, err := integration.ExchangeCode(cmd.Context(), code)
			if err != nil {
				return err
			}
			if err := auth.WriteTokens(a.cfg.TokenFile, tokens); err != nil {
				return err
			}
			a.logger.Info("tokens stored", "file", a.cfg.TokenFile, "expires", tokens.ExpiresAt)
			return nil
		},
	}

	refresh := &cobra.Command{
		Use:   "refresh",
		Short: "Refresh the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := auth.ReadTokens(a.cfg.TokenFile)
			if err != nil {
				return err
			}
			fresh, err := a.cfg.Integration.Refresh(cmd.Context(), tokens)
			if err != nil {
				return err
			}
			if err := auth.WriteTokens(a.cfg.TokenFile, fresh); err != nil {
				return err
			}
			a.logger.Info("access token refreshed", "file", a.cfg.TokenFile, "expires", fresh.ExpiresAt)
			return nil
		},
	}

	cmd.AddCommand(login, refresh)
	return cmd
}

func newState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
