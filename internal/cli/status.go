// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - system status command.
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// HandleStatus reports runtime, cloud, and ledger health.
func HandleStatus(args Args) error {
	ctx := context.Background()

	app, err := NewApp(ctx, args)
	if err != nil {
		return err
	}
	defer app.Close()
	cfg := app.Config

	fmt.Println()
	fmt.Println("cloudnein status")
	fmt.Println(strings.Repeat("─", 20))
	fmt.Println()

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := app.Local.CheckRunning(checkCtx); err != nil {
		fmt.Printf("  Local runtime:  UNREACHABLE (%s)\n", cfg.Local.BaseURL)
	} else {
		fmt.Printf("  Local runtime:  ok (%s, model %s)\n", cfg.Local.BaseURL, cfg.Local.Model)
	}

	if app.Cloud != nil {
		fmt.Printf("  Cloud:          configured (%s)\n", strings.Join(cfg.Cloud.Models, ", "))
	} else {
		fmt.Println("  Cloud:          disabled (no API key)")
	}

	fmt.Printf("  Ledger:         %s\n", cfg.Ledger.Path)
	fmt.Printf("  Threshold:      %.2f\n", cfg.Router.ConfidenceThreshold)

	path, err := configFilePath()
	if err == nil {
		fmt.Printf("  Config:         %s\n", path)
	}
	fmt.Println()
	return nil
}
