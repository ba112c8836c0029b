// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for cloudnein.
//
// Configuration comes from three layers, later layers overriding earlier:
//
//   - Built-in defaults
//   - ~/.cloudnein/config.toml
//   - CLOUDNEIN_* environment variables
//
// The config file can also be watched for changes; see Watch.
package config
