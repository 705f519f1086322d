// Package logstore is the single mutable source of truth for log lines
// and process metadata.
//
// # Overview
//
// A Store holds every retained line in chronological order plus a
// per-source registry (status, selection). All other components read it
// through immutable Snapshots: the store copies on write (eviction and
// clears rebuild the backing slice, appends only extend it), so a
// snapshot taken at any moment stays valid forever without locking.
//
// # Bounds
//
// Retention is bounded per source. When a source exceeds its cap the
// oldest of its lines fall off; other sources are untouched. Line IDs
// are assigned by the daemon and strictly increase, so chronological
// order and ID order coincide.
//
// # Clears
//
// ClearSource drops a source's stored lines and records a watermark:
// the greatest ID seen store-wide at clear time. Lines arriving later
// with IDs at or below the watermark were in flight when the user
// cleared and are silently discarded; fresher lines pass. Watermarks
// never regress.
package logstore
