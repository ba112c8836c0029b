// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - argument parsing and command dispatch for cloudnein.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdChat Command = iota
	CmdAsk
	CmdStatus
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	LocalOnly bool // block all cloud requests
	Quiet     bool
	Verbose   bool
	Model     string

	// Command-specific
	Query      string
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `cloudnein - privacy-aware hybrid CFO assistant

Cloudnein answers financial questions over a local ledger. Queries stay
on-device by default; anything that reaches the cloud is anonymized or
redacted first, and responses are de-anonymized locally.

Usage:
  cloudnein                   Interactive chat (default)
  cloudnein chat              Interactive chat
  cloudnein ask "question"    Route a single question
  cloudnein status, s         Show runtime, cloud, and ledger status
  cloudnein config [show|set|path]  Configuration
  cloudnein version           Show version
  cloudnein help              Show this help

Config Commands:
  cloudnein config show                      Show current configuration
  cloudnein config path                      Show config file path
  cloudnein config set api_key KEY           Set cloud API key
  cloudnein config set model NAME            Set local model
  cloudnein config set confidence_threshold 0.6
                                             Set routing threshold

Interactive Commands (during chat):
  /help, /h           Show available commands
  /status, /s         Show session statistics
  /paths              Explain the five routing paths
  /quit, /q           Exit chat
  Ctrl+C              Cancel in-flight query
  Ctrl+D              Exit chat

Global Flags:
  --local-only    Block all cloud requests (redaction paths answer locally)
  -q, --quiet     Suppress routing metadata after each answer
  -v, --verbose   Show pipeline logs
  --model NAME    Override the local model

Environment:
  CLOUDNEIN_API_KEY (or GEMINI_API_KEY)   Cloud API key
  CLOUDNEIN_RUNTIME_URL                   Local runtime URL
  CLOUDNEIN_MODEL                         Local model
  CLOUDNEIN_LEDGER_PATH                   Ledger database path
  CLOUDNEIN_CONFIDENCE_THRESHOLD          Routing threshold

Examples:
  cloudnein ask "show legal expenses"
  cloudnein ask "why is marketing over budget?"
  cloudnein --local-only chat
  cloudnein config set api_key YOUR_KEY

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("cloudnein version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
	fmt.Printf("  Go version: %s\n", runtime.Version())
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	remaining, parsed := parseGlobalFlags(os.Args[1:])

	if len(remaining) == 0 {
		return CmdChat, parsed
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsed.Raw = remaining

	switch cmd {
	case "chat":
		return CmdChat, parsed

	case "ask":
		parseAskArgs(&parsed, remaining)
		return CmdAsk, parsed

	case "status", "s":
		return CmdStatus, parsed

	case "config":
		parseConfigArgs(&parsed, remaining)
		return CmdConfig, parsed

	case "version", "-v", "--version":
		return CmdVersion, parsed

	case "help", "-h", "--help":
		return CmdHelp, parsed

	default:
		// Unknown word: treat the whole line as a question.
		parsed.Query = strings.Join(append([]string{cmd}, remaining...), " ")
		return CmdAsk, parsed
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsed Args

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--local-only", "--paranoid", "--offline":
			parsed.LocalOnly = true
		case "-q", "--quiet":
			parsed.Quiet = true
		case "-v", "--verbose":
			parsed.Verbose = true
		case "--model":
			if i+1 < len(args) {
				i++
				parsed.Model = args[i]
			}
		default:
			if strings.HasPrefix(arg, "--model=") {
				parsed.Model = strings.TrimPrefix(arg, "--model=")
			} else {
				remaining = append(remaining, arg)
			}
		}
	}

	return remaining, parsed
}

// parseAskArgs parses ask command specific arguments.
func parseAskArgs(args *Args, remaining []string) {
	var query []string
	for _, arg := range remaining {
		if !strings.HasPrefix(arg, "-") {
			query = append(query, arg)
		}
	}
	args.Query = strings.Join(query, " ")
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Subcommand = remaining[0]
	}
	if len(remaining) > 1 {
		args.ConfigKey = remaining[1]
	}
	if len(remaining) > 2 {
		args.ConfigVal = remaining[2]
	}
}
