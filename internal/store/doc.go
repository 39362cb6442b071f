// Package store provides SQLite-backed history of comparison runs.
//
// The store keeps an append-only log with:
//   - Runs: one row per compare invocation (inputs, policy, status)
//   - Divergences: the divergences a run reported, in traversal order
//
// # Ordering
//
// Runs are ordered by seq INTEGER (autoincrement), never by wall time.
// Run IDs are UUIDv7, so they still carry their creation time for display.
// Divergences are ordered by (run_id, ordinal).
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
