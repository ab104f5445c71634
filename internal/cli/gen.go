/* SPDX-License-Identifier: MPL-2.0
 * Copyright 2025 Tejus Pratap <tejzpr@gmail.com>
 *
 * See CONTRIBUTORS.md for full contributor list.
 */

package cli

import (
	"fmt"
	"strings"

	"github.com/jeokrohn/wxc-sdk-sub004/internal/gen"
	"github.com/spf13/cobra"
)

func newGenCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "gen", Short: "Code generation helpers"}

	var input, out string
	var opts gen.Options
	models := &cobra.Command{
		Use:   "models",
		Short: "Generate Go model structs from an OpenAPI document",
		Example: strings.TrimSpace(`  wxc gen models --input telephony.yaml --out ./models --package models
  wxc gen models --input telephony.yaml --out ./models --package models --schema CallQueue`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" || out == "" || opts.Package == "" {
				return newUsageError("--input, --out and --package are required")
			}
			doc, err := gen.Load(cmd.Context(), input)
			if err != nil {
				return err
			}
			path, err := gen.WriteFile(doc, out, opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	f := models.Flags()
	f.StringVar(&input, "input", "", "OpenAPI 3 document")
	f.StringVar(&out, "out", "", "Output directory")
	f.StringVar(&opts.Package, "package", "", "Go package name of the generated file")
	f.StringSliceVar(&opts.Schemas, "schema", nil, "Only generate these component schemas")
	cmd.AddCommand(models)
	return cmd
}
