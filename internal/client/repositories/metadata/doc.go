// Package metadata provides the key/value repositories behind the local
// session store and the local gallery.
//
// Two implementations exist:
//
//   - SQLiteRepository: one row per key in a table created by the embedded
//     migrations. Works with *sql.DB or *sql.Tx through dbx.DBTX.
//   - MemoryRepository: a map guarded by a mutex, for tests and ephemeral
//     sessions.
//
// The session and gallery live in separate tables, so clearing one never
// touches the other.
package metadata
