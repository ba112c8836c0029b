// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func parseArgs(t *testing.T, argv ...string) (Command, Args) {
	t.Helper()
	old := os.Args
	t.Cleanup(func() { os.Args = old })
	os.Args = append([]string{"cloudnein"}, argv...)
	return Parse()
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		argv    []string
		wantCmd Command
		check   func(t *testing.T, args Args)
	}{
		{
			name:    "no_args_defaults_to_chat",
			argv:    nil,
			wantCmd: CmdChat,
		},
		{
			name:    "ask_joins_query_words",
			argv:    []string{"ask", "show", "legal", "expenses"},
			wantCmd: CmdAsk,
			check: func(t *testing.T, args Args) {
				assert.Equal(t, "show legal expenses", args.Query)
			},
		},
		{
			name:    "bare_question_becomes_ask",
			argv:    []string{"why", "is", "marketing", "over", "budget?"},
			wantCmd: CmdAsk,
			check: func(t *testing.T, args Args) {
				assert.Equal(t, "why is marketing over budget?", args.Query)
			},
		},
		{
			name:    "status_alias",
			argv:    []string{"s"},
			wantCmd: CmdStatus,
		},
		{
			name:    "config_set_captures_key_value",
			argv:    []string{"config", "set", "api_key", "k-123"},
			wantCmd: CmdConfig,
			check: func(t *testing.T, args Args) {
				assert.Equal(t, "set", args.Subcommand)
				assert.Equal(t, "api_key", args.ConfigKey)
				assert.Equal(t, "k-123", args.ConfigVal)
			},
		},
		{
			name:    "global_flags",
			argv:    []string{"--local-only", "-q", "--model=functiongemma:1b", "chat"},
			wantCmd: CmdChat,
			check: func(t *testing.T, args Args) {
				assert.True(t, args.LocalOnly)
				assert.True(t, args.Quiet)
				assert.Equal(t, "functiongemma:1b", args.Model)
			},
		},
		{
			name:    "version_flag",
			argv:    []string{"--version"},
			wantCmd: CmdVersion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := parseArgs(t, tt.argv...)
			assert.Equal(t, tt.wantCmd, cmd)
			if tt.check != nil {
				tt.check(t, args)
			}
		})
	}
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "(not set)", maskKey(""))
	assert.Equal(t, "****", maskKey("abcd"))
	assert.Equal(t, "*****6789", maskKey("k-123456789"))
}
