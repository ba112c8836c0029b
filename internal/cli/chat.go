// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - interactive chat command handler for the cloudnein CLI.
//
// Handles the "cloudnein chat" command which provides an interactive REPL
// over the routing pipeline.
//
// Interactive Commands (during chat):
//   /help, /h           Show available commands
//   /status, /s         Show session statistics
//   /paths              Explain the five routing paths
//   /quit, /q           Exit chat
//   Ctrl+C              Cancel in-flight query
//   Ctrl+D              Exit chat
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/peterh/liner"

	"github.com/jeranaias/cloudnein/internal/config"
	"github.com/jeranaias/cloudnein/internal/router"
	"github.com/jeranaias/cloudnein/internal/util"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a new ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.Dir()
	if err != nil {
		configDir = os.TempDir()
	}

	cli := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	cli.LoadHistory()
	return cli
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt. Supports history
// navigation with arrow keys.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists command history with 0600 permissions. History can
// contain the same sensitive text as queries.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// SESSION STATE
// =============================================================================

// ChatSession holds the state for an interactive chat session.
type ChatSession struct {
	App   *App
	Quiet bool

	StartTime    time.Time
	Queries      int
	PathCounts   map[router.RoutingPath]int
	PIIDetected  int
	TotalElapsed time.Duration

	// Cancel function for the in-flight query
	CancelFunc context.CancelFunc

	InputCLI *ChatCLI
}

// NewChatSession creates a new chat session over a wired app.
func NewChatSession(app *App, args Args) *ChatSession {
	return &ChatSession{
		App:        app,
		Quiet:      args.Quiet,
		StartTime:  time.Now(),
		PathCounts: make(map[router.RoutingPath]int),
		InputCLI:   NewChatCLI(),
	}
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChat handles the "chat" command with full interactive support.
func HandleChat(args Args) error {
	app, err := NewApp(context.Background(), args)
	if err != nil {
		return err
	}
	defer app.Close()

	if watcher, err := app.WatchConfig(); err == nil && watcher != nil {
		defer watcher.Close()
	}

	if err := app.Local.CheckRunning(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: local runtime unreachable at %s (%v)\n", app.Config.Local.BaseURL, err)
		fmt.Fprintln(os.Stderr, "Keyword fallback will handle tool selection until it comes back.")
	}

	session := NewChatSession(app, args)
	defer session.InputCLI.Close()

	if !session.Quiet {
		printWelcome(session)
	}

	// First Ctrl+C during a query cancels it instead of killing the REPL.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		for range sigChan {
			if session.CancelFunc != nil {
				session.CancelFunc()
				session.CancelFunc = nil
				fmt.Fprintln(os.Stderr, "\n[Cancelled]")
			}
		}
	}()

	for {
		input, err := session.InputCLI.ReadInput("cloudnein> ")
		if err != nil {
			// liner.ErrPromptAborted (Ctrl+C) or EOF (Ctrl+D)
			fmt.Println()
			printExitSummary(session)
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			cont, err := handleSlashCommand(input, session)
			if err != nil {
				fmt.Fprintf(os.Stderr, "[Error] %v\n", err)
			}
			if !cont {
				printExitSummary(session)
				return nil
			}
			continue
		}

		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			printExitSummary(session)
			return nil
		}

		if err := processQuery(session, input); err != nil {
			fmt.Fprintf(os.Stderr, "[Error] %v\n", err)
		}
	}
}

// =============================================================================
// QUERY PROCESSING
// =============================================================================

// processQuery routes one query and prints the result.
func processQuery(session *ChatSession, input string) error {
	ctx, cancel := context.WithCancel(context.Background())
	session.CancelFunc = cancel
	defer func() {
		session.CancelFunc = nil
		cancel()
	}()

	res, err := session.App.Router.Route(ctx, input)
	if err != nil {
		return err
	}

	session.Queries++
	session.PathCounts[res.Path]++
	session.PIIDetected += res.PIIDetected
	session.TotalElapsed += res.Elapsed

	fmt.Println()
	fmt.Println(res.Response)
	fmt.Println()

	if !session.Quiet {
		printRouting(res)
	}
	return nil
}

// printRouting shows how the answer was produced.
func printRouting(res *router.HybridResult) {
	fmt.Fprintf(os.Stderr, "[%s] %s | %s | %s\n",
		res.Path, res.Source, res.Reason, res.Elapsed.Round(time.Millisecond))

	if res.PIIDetected > 0 {
		fmt.Fprintf(os.Stderr, "[privacy] sensitivity %s, %d PII entities\n",
			res.Sensitivity, res.PIIDetected)
	}
	if res.RedactedPreview != "" {
		fmt.Fprintf(os.Stderr, "[privacy] sent: %s\n", util.TruncateRunes(res.RedactedPreview, 120))
	}
	fmt.Fprintln(os.Stderr)
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand processes slash commands. Returns (shouldContinue,
// error) where shouldContinue=false means exit.
func handleSlashCommand(cmd string, session *ChatSession) (bool, error) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return true, nil
	}

	switch strings.ToLower(parts[0]) {
	case "/help", "/h", "/?", "/":
		printHelp()
		return true, nil

	case "/status", "/s":
		printStatus(session)
		return true, nil

	case "/paths":
		printPaths()
		return true, nil

	case "/quit", "/q", "/exit":
		return false, nil

	default:
		return true, fmt.Errorf("unknown command: %s (type /help for commands)", parts[0])
	}
}

// =============================================================================
// DISPLAY FUNCTIONS
// =============================================================================

// printWelcome prints the welcome banner.
func printWelcome(session *ChatSession) {
	cfg := session.App.Config

	fmt.Println()
	fmt.Println("cloudnein interactive chat")
	fmt.Println(strings.Repeat("─", 30))
	fmt.Printf("Local model: %s (%s)\n", cfg.Local.Model, cfg.Local.BaseURL)
	if session.App.Cloud != nil {
		fmt.Printf("Cloud:       %s\n", strings.Join(cfg.Cloud.Models, ", "))
	} else {
		fmt.Println("Cloud:       disabled (no API key) - all paths answer locally")
	}
	fmt.Printf("Ledger:      %s\n", cfg.Ledger.Path)
	fmt.Println()
	fmt.Println("Type your question and press Enter. Commands: /help, /quit")
	fmt.Println()
}

// printHelp prints available commands.
func printHelp() {
	fmt.Println()
	fmt.Println("Available Commands")
	fmt.Println(strings.Repeat("─", 20))
	fmt.Println()

	commands := []struct {
		cmd  string
		desc string
	}{
		{"/help, /h", "Show this help"},
		{"/status, /s", "Show session statistics"},
		{"/paths", "Explain the five routing paths"},
		{"/quit, /q", "Exit chat"},
	}
	for _, c := range commands {
		fmt.Printf("  %-15s %s\n", c.cmd, c.desc)
	}

	fmt.Println()
	fmt.Println("Tip: Ctrl+C cancels the in-flight query, Ctrl+D exits")
	fmt.Println()
}

// printPaths explains where answers can come from.
func printPaths() {
	fmt.Println()
	fmt.Println("Routing Paths")
	fmt.Println(strings.Repeat("─", 20))
	fmt.Println()

	paths := []struct {
		name string
		desc string
	}{
		{"privacy-redact", "PII detected: redacted locally, only aliases reach the cloud"},
		{"cloud-analysis", "analytical question: anonymized context out, de-anonymized answer back"},
		{"local-tool", "local model picked a tool confidently, everything stays on-device"},
		{"cloud-tool", "local model unsure, cloud picks the tool, execution stays local"},
		{"local-fallback", "keyword extraction picked the tool, fully on-device"},
	}
	for _, p := range paths {
		fmt.Printf("  %-15s %s\n", p.name, p.desc)
	}
	fmt.Println()
}

// printStatus prints session statistics.
func printStatus(session *ChatSession) {
	elapsed := time.Since(session.StartTime).Round(time.Second)

	fmt.Println()
	fmt.Println("Session Status")
	fmt.Println(strings.Repeat("─", 20))
	fmt.Println()
	fmt.Printf("  Duration:     %s\n", elapsed)
	fmt.Printf("  Queries:      %d\n", session.Queries)
	fmt.Printf("  PII caught:   %d entities\n", session.PIIDetected)
	if session.Queries > 0 {
		fmt.Printf("  Avg latency:  %s\n",
			(session.TotalElapsed / time.Duration(session.Queries)).Round(time.Millisecond))
	}

	if len(session.PathCounts) > 0 {
		fmt.Println()
		fmt.Println("  By path:")
		for _, p := range []router.RoutingPath{
			router.PathLocalTool, router.PathLocalFallback, router.PathCloudTool,
			router.PathCloudAnalysis, router.PathPrivacyRedact,
		} {
			if n := session.PathCounts[p]; n > 0 {
				fmt.Printf("    %-15s %d\n", p, n)
			}
		}
	}
	fmt.Println()
}

// printExitSummary prints the session summary on exit.
func printExitSummary(session *ChatSession) {
	if session.Queries == 0 {
		fmt.Println("Goodbye!")
		return
	}

	local := session.PathCounts[router.PathLocalTool] + session.PathCounts[router.PathLocalFallback]
	cloud := session.Queries - local

	fmt.Println()
	fmt.Println("Session Summary")
	fmt.Println(strings.Repeat("─", 15))
	fmt.Printf("  Queries:    %d (%d fully local, %d via cloud)\n", session.Queries, local, cloud)
	fmt.Printf("  PII caught: %d entities\n", session.PIIDetected)
	fmt.Printf("  Duration:   %s\n", time.Since(session.StartTime).Round(time.Second))
	fmt.Println()
	fmt.Println("Goodbye!")
}
