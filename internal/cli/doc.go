// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the cloudnein command line interface.
//
// # Commands
//
//   - chat (default): interactive REPL over the routing pipeline
//   - ask: route a single question and exit
//   - status: runtime, cloud, and ledger health
//   - config: show or change configuration
//   - version, help
//
// # Usage
//
//	cmd, args := cli.Parse()
//	switch cmd {
//	case cli.CmdChat:
//	    err = cli.HandleChat(args)
//	...
package cli
