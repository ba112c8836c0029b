// cloudnein - a privacy-aware hybrid CFO assistant.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jeranaias/cloudnein/internal/cli"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	// Pipeline logs are diagnostic; hide them unless asked for.
	if !args.Verbose {
		log.SetOutput(io.Discard)
	}

	var err error
	switch cmd {
	case cli.CmdChat:
		err = cli.HandleChat(args)
	case cli.CmdAsk:
		err = cli.HandleAsk(args)
	case cli.CmdStatus:
		err = cli.HandleStatus(args)
	case cli.CmdConfig:
		err = cli.HandleConfig(args)
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	default:
		err = cli.HandleChat(args)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
