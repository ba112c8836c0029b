// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - one-shot question command.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"
)

// HandleAsk routes a single question and prints the answer.
func HandleAsk(args Args) error {
	if args.Query == "" {
		return fmt.Errorf("usage: cloudnein ask \"question\"")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app, err := NewApp(ctx, args)
	if err != nil {
		return err
	}
	defer app.Close()

	res, err := app.Router.Route(ctx, args.Query)
	if err != nil {
		return err
	}

	fmt.Println(res.Response)

	if !args.Quiet {
		fmt.Fprintf(os.Stderr, "\n[%s] %s | %s | %s\n",
			res.Path, res.Source, res.Reason, res.Elapsed.Round(time.Millisecond))
		if res.PIIDetected > 0 {
			fmt.Fprintf(os.Stderr, "[privacy] sensitivity %s, %d PII entities\n",
				res.Sensitivity, res.PIIDetected)
		}
	}
	return nil
}
