/* SPDX-License-Identifier: MPL-2.0
 * Copyright 2025 Tejus Pratap <tejzpr@gmail.com>
 *
 * See CONTRIBUTORS.md for full contributor list.
 */

package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeokrohn/wxc-sdk-sub004/apimodel"
	"github.com/jeokrohn/wxc-sdk-sub004/auth"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// TokenEnv is the environment variable holding an access token.
const TokenEnv = "WEBEX_ACCESS_TOKEN"

// Config captures everything that influences how commands reach the API,
// after merging defaults, the config file, the environment and flags.
type Config struct {
	Token         string           `yaml:"token,omitempty"`
	TokenFile     string           `yaml:"token_file,omitempty"`
	BaseURL       string           `yaml:"base_url,omitempty"`
	OrgID         string           `yaml:"org_id,omitempty"`
	UnknownFields string           `yaml:"unknown_fields,omitempty"`
	LogLevel      string           `yaml:"log_level,omitempty"`
	Integration   auth.Integration `yaml:"integration,omitempty"`

	ConfigPath string `yaml:"-"`
}

func defaultConfig() Config {
	cfg := Config{
		UnknownFields: apimodel.Allow.String(),
		LogLevel:      "info",
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.ConfigPath = filepath.Join(home, ".wxc.yaml")
		cfg.TokenFile = filepath.Join(home, ".wxc-tokens.yaml")
	}
	return cfg
}

// resolveConfig merges the config file, WEBEX_ACCESS_TOKEN and flags. An
// explicitly named config file must exist; the default one is optional.
func resolveConfig(flags *pflag.FlagSet) (*Config, error) {
	cfg := defaultConfig()

	explicit := flags.Changed("config")
	if explicit {
		value, err := flags.GetString("config")
		if err != nil {
			return nil, err
		}
		cfg.ConfigPath = strings.TrimSpace(value)
	}
	if cfg.ConfigPath != "" {
		err := applyConfigFile(&cfg, cfg.ConfigPath)
		if err != nil && (explicit || !errors.Is(err, fs.ErrNotExist)) {
			return nil, err
		}
	}

	if token := strings.TrimSpace(os.Getenv(TokenEnv)); token != "" {
		cfg.Token = token
	}

	for name, dst := range map[string]*string{
		"token":          &cfg.Token,
		"token-file":     &cfg.TokenFile,
		"base-url":       &cfg.BaseURL,
		"org-id":         &cfg.OrgID,
		"unknown-fields": &cfg.UnknownFields,
		"log-level":      &cfg.LogLevel,
	} {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetString(name)
		if err != nil {
			return nil, err
		}
		*dst = strings.TrimSpace(value)
	}

	if _, err := apimodel.ParseStrictness(cfg.UnknownFields); err != nil {
		return nil, newUsageError(err.Error())
	}
	return &cfg, nil
}

func applyConfigFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}
