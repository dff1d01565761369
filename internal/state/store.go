// Package state provides SQLite-based persistence for the delegation
// engine. Session substate is written through a generic key/value
// surface keyed "session:{id}:{subkey}"; durability guarantees belong
// to the backing store, not to the engine.
package state

import (
	"fmt"
	"io"
)

// KVStore is the generic key/value surface the session coordinator
// persists through.
type KVStore interface {
	// Set writes a value under a key, replacing any previous value.
	Set(key, value string) error
	// Get reads a value. The bool reports whether the key exists.
	Get(key string) (string, bool, error)
	// Clear removes every key with the given prefix.
	Clear(prefix string) error
}

// Migrator handles database schema migrations.
type Migrator interface {
	// Migrate applies all pending schema migrations.
	Migrate() error
}

// StateStore is the full persistence contract: key/value operations
// plus lifecycle concerns.
type StateStore interface {
	io.Closer
	Migrator
	KVStore
}

// Compile-time verification that DB implements the store interfaces.
var (
	_ StateStore = (*DB)(nil)
	_ KVStore    = (*DB)(nil)
	_ Migrator   = (*DB)(nil)
)

// SessionKey builds the canonical "session:{id}:{subkey}" key.
func SessionKey(sessionID, subkey string) string {
	return fmt.Sprintf("session:%s:%s", sessionID, subkey)
}

// SessionPrefix builds the prefix covering all of a session's keys.
func SessionPrefix(sessionID string) string {
	return fmt.Sprintf("session:%s:", sessionID)
}
