// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe truncation with ellipsis
//   - TruncateRunesNoEllipsis: UTF-8 safe truncation, exact cut
//   - SafeSubstring: rune-index substring
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	preview := util.TruncateRunesNoEllipsis(redacted, 200)
//	err := util.AtomicWriteFile(path, data, 0o644)
package util
