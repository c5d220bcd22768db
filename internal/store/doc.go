// Package store provides SQLite-backed storage for data layer snapshots.
//
// Each time a data layer is built for recording, a snapshot row keeps the
// canonical payload, its content hash and the list of rejected keys. The
// log is append-only and ordered by a logical sequence number, never by
// wall-clock time.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - one open connection: SQLite has a single writer
//
// Queries order by seq so listings are identical across runs.
package store
