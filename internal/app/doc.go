// Package app provides the orchestration layer for the viewer.
//
// # Overview
//
// This package wires together configuration, the daemon client, the
// ingestion pipeline, and the UI. It serves as the composition root
// where all dependencies are initialized and connected.
//
// # Architecture
//
// The app package follows a simple initialization pattern:
//
//  1. Load configuration from ~/.config/overmind-gui/config.toml
//  2. Load cosmetic preferences (theme, timestamps)
//  3. Initialize the HTTP client for the daemon API
//  4. Create the bounded line store shared by pipeline and UI
//  5. Start the format worker with a readiness handshake
//  6. Wire the batcher and the reply pump
//  7. Start the transport (long-poll or websocket)
//  8. Start the TUI and block until the user quits or the context cancels
//
// # Data Flow
//
//	transport.Start ──> pump.handle
//	    status updates ──> store.ApplyStatusUpdates ──> RefreshMsg
//	    lines ──> worker.Process ──> pump.drainReplies (FIFO)
//	                 ──> batcher.Submit ──> (chunking, pacing)
//	                 ──> pump.flush ──> store.Append ──> RefreshMsg
//
// User intents run the other way: the UI calls the controller, which
// mutates the store first and forwards to the daemon without waiting on
// the network.
//
// # Ordering
//
// Batches keep their arrival order end to end. The worker processes
// requests sequentially, drainReplies consumes reply channels in
// submission order, and the batcher releases chunks strictly FIFO even
// when pacing delays the head.
package app
