// Package overmind speaks the daemon's HTTP API: a long-poll or
// websocket update stream in, fire-and-forget process intents out.
// Transports own their reconnect loops; a daemon restart surfaces as
// logged retries, never as a dead viewer.
package overmind
