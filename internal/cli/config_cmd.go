// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - config show/set/path commands.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jeranaias/cloudnein/internal/config"
)

// HandleConfig handles the "config" command.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return configShow()
	case "path":
		path, err := configFilePath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	case "set":
		return configSet(args.ConfigKey, args.ConfigVal)
	default:
		return fmt.Errorf("unknown config subcommand: %s (use show, set, or path)", args.Subcommand)
	}
}

func configFilePath() (string, error) {
	return config.Path()
}

func configShow() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Configuration")
	fmt.Println(strings.Repeat("─", 20))
	fmt.Println()
	fmt.Printf("  ledger.path              %s\n", cfg.Ledger.Path)
	fmt.Printf("  ledger.seed_demo_data    %t\n", cfg.Ledger.SeedDemoData)
	fmt.Printf("  local.base_url           %s\n", cfg.Local.BaseURL)
	fmt.Printf("  local.model              %s\n", cfg.Local.Model)
	fmt.Printf("  cloud.api_key            %s\n", maskKey(cfg.Cloud.APIKey))
	fmt.Printf("  cloud.models             %s\n", strings.Join(cfg.Cloud.Models, ", "))
	fmt.Printf("  router.confidence_threshold  %.2f\n", cfg.Router.ConfidenceThreshold)
	fmt.Println()
	return nil
}

func configSet(key, value string) error {
	if key == "" || value == "" {
		return fmt.Errorf("usage: cloudnein config set KEY VALUE")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	switch key {
	case "api_key":
		cfg.Cloud.APIKey = value
	case "model":
		cfg.Local.Model = value
	case "runtime_url":
		cfg.Local.BaseURL = value
	case "ledger_path":
		cfg.Ledger.Path = value
	case "confidence_threshold":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("confidence_threshold must be a number: %q", value)
		}
		cfg.Router.ConfidenceThreshold = v
	case "seed_demo_data":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("seed_demo_data must be true or false: %q", value)
		}
		cfg.Ledger.SeedDemoData = v
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Printf("Set %s\n", key)
	return nil
}

// maskKey hides all but the last 4 characters of an API key.
func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	runes := []rune(key)
	if len(runes) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-4:])
}
