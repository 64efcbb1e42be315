// Package journal records patch runs in a SQLite database.
//
// Each run stores the document it read, where it wrote, the plan applied,
// formatting-independent hashes of the input and output sources, and one row
// per patch outcome.
//
// # Ordering
//
// Runs are ordered by a logical seq assigned at insert time, never by wall
// clock. Queries use ORDER BY seq ASC so listings are stable.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package journal
