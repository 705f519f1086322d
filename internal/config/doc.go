// Package config loads the viewer's configuration file.
//
// # Overview
//
// Configuration tells the viewer where the Overmind daemon listens and
// how to consume its update stream. Everything has a working default:
// a fresh install connects to 127.0.0.1:4300 over long polling without
// any file existing at all.
//
// # Configuration Discovery
//
// Load resolves the file in this order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/overmind-gui/config.toml
//  3. If the file does not exist, use built-in defaults
//  4. Fields missing from the file keep their defaults
//
// # TOML Format
//
// Example config.toml:
//
//	server_bind = "127.0.0.1:4300"
//	transport = "poll"
//	poll_interval_ms = 250
//	max_lines_per_process = 5000
//	max_display_lines = 5000
//
// Every field is optional. transport accepts "poll" or "websocket";
// anything else is an error rather than a silent fallback, because a
// typo here would change delivery behavior in a way that is hard to
// notice at runtime.
//
// # Error Handling
//
// Load returns errors for file read failures (other than the file not
// existing), TOML parse errors, and invalid transport values. A missing
// file is not an error.
//
// The package is read-only and stateless: configuration is loaded once
// at startup and the resulting Config struct is never mutated.
package config
