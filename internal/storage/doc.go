// Package storage provides the key-value persistence layer.
//
// Values are opaque byte slices keyed by short record names. Sentinel keeps
// two records, the reminder list and the app settings, both JSON encoded
// through SaveJSON/LoadJSON.
//
// Drivers:
//   - "file":   one <key>.json file per record in a directory (atomic rename)
//   - "sqlite": a single kv table in an SQLite database
//   - "memory": process-local map, nothing survives a restart
package storage
