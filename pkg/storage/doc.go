// Package storage provides key/value backends with browser local-storage
// semantics for the persistence layer.
//
// Backends:
//
//   - Memory: in-process map; SetAvailable(false) makes every call fail
//     with ErrUnavailable.
//   - File: one JSON document, atomically replaced on write and guarded by
//     an advisory lock file so that several processes can share it. The
//     default location lives under the XDG data directory.
//   - SQLite: an "items" table in WAL mode.
//   - Redis: namespaced string keys; Clear only touches the namespace.
//
// Every backend returns "" with a nil error for missing keys.
package storage
